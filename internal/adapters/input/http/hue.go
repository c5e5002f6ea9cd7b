package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"wled-hyperion-bridge/internal/domain/model"
	"wled-hyperion-bridge/internal/ports"

	"github.com/amimof/huego"
	"github.com/lucasb-eyer/go-colorful"
)

// Hue clients (Echo and friends) see the Hyperion instance as light "1" on an
// emulated bridge.

func (s *Server) handleDescription(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/xml")
	fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8" ?>
<root xmlns="urn:schemas-upnp-org:device-1-0">
<specVersion>
<major>1</major>
<minor>0</minor>
</specVersion>
<URLBase>http://%s:80/</URLBase>
<device>
<deviceType>urn:schemas-upnp-org:device:Basic:1</deviceType>
<friendlyName>Hyperion bridge (%s)</friendlyName>
<manufacturer>Royal Philips Electronics</manufacturer>
<manufacturerURL>http://www.philips.com</manufacturerURL>
<modelDescription>Philips hue Personal Wireless Lighting</modelDescription>
<modelName>Philips hue bridge 2012</modelName>
<modelNumber>929000226503</modelNumber>
<modelURL>http://www.meethue.com</modelURL>
<serialNumber>%s</serialNumber>
<UDN>uuid:%s</UDN>
<presentationURL>json</presentationURL>
</device>
</root>`, s.ip, s.ip, model.BridgeSerial(s.ip), model.BridgeUUID(s.ip))
}

func (s *Server) handleAPI(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	if r.Method == http.MethodPost && strings.Trim(path, "/") == "" {
		s.handleRegister(w, r)
		return
	}
	if parts[0] == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	subPath := parts[1:]
	if len(subPath) == 0 {
		s.handleFullState(w, r)
		return
	}

	switch {
	case subPath[0] == "lights" && len(subPath) == 1:
		s.handleGetLights(w, r)
	case subPath[0] == "lights" && len(subPath) == 2:
		s.handleGetLight(w, r, subPath[1])
	case subPath[0] == "lights" && len(subPath) == 3 && subPath[2] == "state":
		s.handleSetLightState(w, r, subPath[1])
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, []map[string]interface{}{
		{"success": map[string]string{"username": "admin"}},
	})
}

func (s *Server) light(r *http.Request) (*huego.Light, error) {
	cfg, err := s.bridge.GetConfig(r.Context())
	if err != nil {
		return nil, err
	}
	device := model.DeviceFromStatus(cfg.Name, s.bridge.GetStatus(r.Context()))
	return &huego.Light{
		Name:             device.Name,
		Type:             "Extended color light",
		State:            device.State,
		ModelID:          "LCT015",
		UniqueID:         uniqueID(s.ip),
		ManufacturerName: "Philips",
	}, nil
}

func (s *Server) handleFullState(w http.ResponseWriter, r *http.Request) {
	l, err := s.light(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	serial := strings.ToUpper(model.BridgeSerial(s.ip))
	writeJSON(w, map[string]interface{}{
		"lights": map[string]*huego.Light{model.HueLightID: l},
		"groups": map[string]interface{}{},
		"config": map[string]interface{}{
			"name":       "Philips hue",
			"swversion":  "01003542",
			"apiversion": "1.11.0",
			"mac":        macAddress(model.BridgeSerial(s.ip)),
			"bridgeid":   serial[:6] + "FFFE" + serial[6:],
			"modelid":    "BSB001",
		},
	})
}

func (s *Server) handleGetLights(w http.ResponseWriter, r *http.Request) {
	l, err := s.light(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]*huego.Light{model.HueLightID: l})
}

func (s *Server) handleGetLight(w http.ResponseWriter, r *http.Request, id string) {
	if id != model.HueLightID {
		http.Error(w, fmt.Sprintf("light %s not found", id), http.StatusNotFound)
		return
	}
	l, err := s.light(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, l)
}

func (s *Server) handleSetLightState(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if id != model.HueLightID {
		http.Error(w, fmt.Sprintf("light %s not found", id), http.StatusNotFound)
		return
	}

	var stateUpdate map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&stateUpdate); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := []map[string]interface{}{}
	for _, op := range hueOperations(stateUpdate) {
		address := fmt.Sprintf("/lights/%s/state/%s", id, op.key)
		status := op.apply(r, s.bridge)
		if !status.Connected {
			resp = append(resp, map[string]interface{}{
				"error": map[string]interface{}{"type": 901, "address": address, "description": status.Message},
			})
			break
		}
		resp = append(resp, map[string]interface{}{
			"success": map[string]interface{}{address: stateUpdate[op.key]},
		})
	}
	writeJSON(w, resp)
}

type hueOperation struct {
	key   string
	apply func(r *http.Request, light ports.LightControlPort) model.Status
}

// hueOperations maps a Hue state body onto façade calls: power first, then
// brightness, then color from xy or hue/sat.
func hueOperations(update map[string]interface{}) []hueOperation {
	var ops []hueOperation
	if on, ok := update["on"].(bool); ok {
		power := int(model.PowerOff)
		if on {
			power = int(model.PowerOn)
		}
		ops = append(ops, hueOperation{"on", func(r *http.Request, l ports.LightControlPort) model.Status {
			return l.SetPower(r.Context(), power)
		}})
	}
	if bri, ok := update["bri"].(float64); ok {
		value := model.WLEDBrightness(uint8(clampFloat(bri, 0, 254)))
		ops = append(ops, hueOperation{"bri", func(r *http.Request, l ports.LightControlPort) model.Status {
			return l.SetBrightness(r.Context(), value)
		}})
	}
	if c, key, ok := hueColor(update); ok {
		r8, g8, b8 := c.Clamped().RGB255()
		input := ports.ColorInput{R: model.Int(int(r8)), G: model.Int(int(g8)), B: model.Int(int(b8))}
		ops = append(ops, hueOperation{key, func(r *http.Request, l ports.LightControlPort) model.Status {
			return l.SetColor(r.Context(), input)
		}})
	}
	return ops
}

func hueColor(update map[string]interface{}) (colorful.Color, string, bool) {
	if xy, ok := update["xy"].([]interface{}); ok && len(xy) == 2 {
		x, okX := xy[0].(float64)
		y, okY := xy[1].(float64)
		if okX && okY && y > 0 {
			return colorful.Xyy(x, y, 1.0), "xy", true
		}
	}
	hue, okH := update["hue"].(float64)
	sat, okS := update["sat"].(float64)
	if okH || okS {
		if !okS {
			sat = 254
		}
		h := clampFloat(hue, 0, 65535) * 360 / 65536
		return colorful.Hsv(h, clampFloat(sat, 0, 254)/254, 1), "hue", true
	}
	return colorful.Color{}, "", false
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// uniqueID follows the Hue light id format, AA:BB:CC:DD:EE:FF:00:11-0b.
func uniqueID(ip string) string {
	return macAddress(model.BridgeSerial(ip)) + ":00:11-0b"
}

func macAddress(serial string) string {
	pairs := make([]string, 0, len(serial)/2)
	for i := 0; i+1 < len(serial); i += 2 {
		pairs = append(pairs, serial[i:i+2])
	}
	return strings.Join(pairs, ":")
}
