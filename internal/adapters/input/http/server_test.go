package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
	"wled-hyperion-bridge/internal/domain/model"
	"wled-hyperion-bridge/internal/domain/service"
	"wled-hyperion-bridge/internal/domain/translator"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHyperion reports the LED device on at half brightness and records commands.
type fakeHyperion struct {
	mu   sync.Mutex
	cmds []model.Command
}

func (f *fakeHyperion) Send(ctx context.Context, cmd model.Command) (*model.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cmd.Command != model.CommandServerInfo {
		f.cmds = append(f.cmds, cmd)
		return &model.Response{Command: cmd.Command, Success: true}, nil
	}
	bri := 50.0
	return &model.Response{Success: true, Info: &model.ServerInfo{
		Components: []model.Component{{Name: model.ComponentLEDDevice, Enabled: true}},
		Adjustment: []model.AdjustmentInfo{{Brightness: &bri}},
	}}, nil
}

func (f *fakeHyperion) Configure(host string, port int, token string) {}
func (f *fakeHyperion) IsConfigured() bool                            { return true }

func (f *fakeHyperion) sent() []model.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Command(nil), f.cmds...)
}

type memoryRepo struct {
	mu  sync.Mutex
	cfg *model.Config
}

func (m *memoryRepo) Get(ctx context.Context) (*model.Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg, nil
}

func (m *memoryRepo) Save(ctx context.Context, cfg *model.Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = cfg
	return nil
}

func newTestServer(t *testing.T) (*Server, *fakeHyperion) {
	hyperion := &fakeHyperion{}
	cfg := model.DefaultConfig()
	opts, err := translator.OptionsFromConfig(cfg)
	require.NoError(t, err)
	opts.PowerOnSettle = -1

	controller := service.NewController(hyperion, opts)
	configSvc := service.NewConfigService(&memoryRepo{cfg: cfg}, hyperion, controller)
	s := NewServer(service.NewBridge(controller, configSvc), "192.168.1.4")

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go s.Hub().Run(ctx)
	return s, hyperion
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestServer_GetState(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/json/state", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"on":true,"bri":128,"transition":0,"ps":-1,"pl":-1}`, rec.Body.String())
}

func TestServer_GetJSON(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/json", "")

	var doc struct {
		State   map[string]interface{} `json:"state"`
		Info    map[string]interface{} `json:"info"`
		Effects []string               `json:"effects"`
	}
	decode(t, rec, &doc)
	assert.Equal(t, true, doc.State["on"])
	assert.Equal(t, "Hyperion", doc.Info["name"])
	assert.Equal(t, "Knight rider", doc.Effects[47])
}

func TestServer_PostState(t *testing.T) {
	s, hyperion := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/json/state", `{"on":false,"bri":255,"v":true}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	var state map[string]interface{}
	decode(t, rec, &state)
	assert.Contains(t, state, "bri")

	sent := hyperion.sent()
	require.Len(t, sent, 2)
	assert.False(t, sent[0].ComponentState.State)
	assert.Equal(t, 100, sent[1].Adjustment.Brightness)
}

func TestServer_PostStateErrors(t *testing.T) {
	s, hyperion := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/json/state", `{"on":"maybe"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/json/state", `{"bri":300}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Brightness must be between 0 and 255"}`, rec.Body.String())
	assert.Empty(t, hyperion.sent())
}

func TestServer_Win(t *testing.T) {
	s, hyperion := newTestServer(t)

	do(t, s, http.MethodGet, "/win?FX=47&SX=150&CL=ffa000", "")
	do(t, s, http.MethodGet, "/win?PL=1", "")
	do(t, s, http.MethodGet, "/win?R=255", "")
	do(t, s, http.MethodGet, "/win?T=1&A=51", "")

	sent := hyperion.sent()
	require.Len(t, sent, 5)
	assert.Equal(t, "Knight rider", sent[0].Effect.Name)
	assert.Equal(t, []int{255, 160, 0}, sent[0].Effect.Args["color"])
	assert.Equal(t, "LEDController_P1", sent[1].Origin)
	assert.Equal(t, []int{255, 0, 0}, sent[2].Color)
	assert.True(t, sent[3].ComponentState.State)
	assert.Equal(t, 20, sent[4].Adjustment.Brightness)
}

func TestServer_WinValidation(t *testing.T) {
	s, hyperion := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/win?FX=fire", "")
	assert.Contains(t, rec.Body.String(), "Effect index must be a valid integer")

	rec = do(t, s, http.MethodGet, "/win?PL=x", "")
	assert.Contains(t, rec.Body.String(), "Preset ID must be an integer")

	rec = do(t, s, http.MethodGet, "/win?FX=2&SX=999", "")
	assert.Contains(t, rec.Body.String(), "Speed must be between 0 and 255")
	assert.Empty(t, hyperion.sent())
}

func TestServer_Hue(t *testing.T) {
	s, hyperion := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api", `{"devicetype":"echo"}`)
	assert.Contains(t, rec.Body.String(), "username")

	rec = do(t, s, http.MethodGet, "/api/admin/lights", "")
	var lights map[string]map[string]interface{}
	decode(t, rec, &lights)
	require.Contains(t, lights, "1")
	assert.Equal(t, "Hyperion", lights["1"]["name"])

	rec = do(t, s, http.MethodGet, "/api/admin/lights/2", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodPut, "/api/admin/lights/1/state", `{"on":true,"bri":254,"xy":[0.7006,0.2993]}`)
	var resp []map[string]map[string]interface{}
	decode(t, rec, &resp)
	require.Len(t, resp, 3)
	assert.Equal(t, true, resp[0]["success"]["/lights/1/state/on"])

	sent := hyperion.sent()
	require.Len(t, sent, 3)
	assert.True(t, sent[0].ComponentState.State)
	assert.Equal(t, 100, sent[1].Adjustment.Brightness)
	assert.Equal(t, model.CommandColor, sent[2].Command)
	assert.Greater(t, sent[2].Color[0], sent[2].Color[2], "xy near the red corner")
}

func TestServer_Description(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/description.xml", "")

	assert.Contains(t, rec.Body.String(), "uuid:"+model.BridgeUUID("192.168.1.4").String())
	assert.Contains(t, rec.Body.String(), "<URLBase>http://192.168.1.4:80/</URLBase>")
}

func TestServer_Config(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/admin/config", "")
	var cfg model.Config
	decode(t, rec, &cfg)
	assert.Equal(t, model.DefaultOrigin, cfg.Origin)

	rec = do(t, s, http.MethodPut, "/admin/config", `{"hyperion_host":"10.0.0.2","origin":"abc"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPut, "/admin/config", `{"hyperion_host":"10.0.0.2"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &cfg)
	assert.Equal(t, "10.0.0.2", cfg.HyperionHost)
	assert.Equal(t, model.DefaultHyperionPort, cfg.HyperionPort)
}

func TestServer_Sequences(t *testing.T) {
	s, hyperion := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/sequence", "")
	assert.JSONEq(t, `["connected","idle","loading","playing"]`, rec.Body.String())

	rec = do(t, s, http.MethodPost, "/sequence/playing", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, hyperion.sent(), 1)
	assert.Equal(t, "Preset02", hyperion.sent()[0].Effect.Name)

	rec = do(t, s, http.MethodPost, "/sequence/disco", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_Status(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/status", "")

	var status model.Status
	decode(t, rec, &status)
	assert.True(t, status.Connected)
	assert.Equal(t, "Hyperion is ON", status.Message)
}

func TestServer_WebSocket(t *testing.T) {
	s, hyperion := newTestServer(t)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var msg struct {
		State map[string]interface{} `json:"state"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, true, msg.State["on"])

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"seg": []interface{}{map[string]interface{}{"col": [][]int{{0, 0, 255}}}}}))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, 128.0, msg.State["bri"])

	sent := hyperion.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, []int{0, 0, 255}, sent[0].Color)
}
