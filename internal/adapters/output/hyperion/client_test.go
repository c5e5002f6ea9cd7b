package hyperion

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"strings"
	"sync"
	"testing"
	"time"
	"wled-hyperion-bridge/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer accepts connections and hands each to handle.
type fakeServer struct {
	ln      net.Listener
	mu      sync.Mutex
	accepts int
	lines   []map[string]interface{}
}

func newFakeServer(t *testing.T, handle func(s *fakeServer, conn net.Conn)) *fakeServer {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	s := &fakeServer{ln: ln}
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			s.mu.Lock()
			s.accepts++
			s.mu.Unlock()
			go func() {
				defer conn.Close()
				handle(s, conn)
			}()
		}
	}()
	return s
}

// readLine records the request line as decoded JSON.
func (s *fakeServer) readLine(conn net.Conn) map[string]interface{} {
	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return nil
	}
	var req map[string]interface{}
	_ = json.Unmarshal(line, &req)
	s.mu.Lock()
	s.lines = append(s.lines, req)
	s.mu.Unlock()
	return req
}

func (s *fakeServer) requests() []map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]interface{}(nil), s.lines...)
}

func (s *fakeServer) port() int {
	return s.ln.Addr().(*net.TCPAddr).Port
}

func reply(body string) func(s *fakeServer, conn net.Conn) {
	return func(s *fakeServer, conn net.Conn) {
		s.readLine(conn)
		_, _ = conn.Write([]byte(body))
	}
}

func TestClient_SendServerInfo(t *testing.T) {
	srv := newFakeServer(t, reply(`{"command":"serverinfo","success":true,"tan":34567,"info":{`+
		`"components":[{"name":"LEDDEVICE","enabled":true}],`+
		`"adjustment":[{"id":"default","brightness":60}],`+
		`"priorities":[{"priority":50,"visible":true,"componentId":"COLOR","owner":"","origin":"LEDController","value":{"RGB":[255,0,0]}}]}}`+"\n"))

	c := NewClient(WithTarget("127.0.0.1", srv.port(), "secret"))
	c.now = func() time.Time { return time.UnixMilli(1234567) }

	resp, err := c.Send(context.Background(), model.Command{Command: model.CommandServerInfo})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Info)
	on, found := resp.Info.ComponentEnabled(model.ComponentLEDDevice)
	assert.True(t, on)
	assert.True(t, found)
	assert.Equal(t, 60.0, *resp.Info.Adjustment[0].Brightness)
	assert.Equal(t, []int{255, 0, 0}, resp.Info.Priorities[0].Value.RGB)

	reqs := srv.requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "serverinfo", reqs[0]["command"])
	assert.Equal(t, "secret", reqs[0]["token"])
	assert.Equal(t, 34567.0, reqs[0]["tan"])
}

func TestClient_KeepsCallerTan(t *testing.T) {
	srv := newFakeServer(t, reply(`{"success":true}`+"\n"))
	c := NewClient(WithTarget("127.0.0.1", srv.port(), ""))

	_, err := c.Send(context.Background(), model.Command{Command: model.CommandColor, Tan: model.Int(7), Color: []int{1, 2, 3}})
	require.NoError(t, err)

	reqs := srv.requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, 7.0, reqs[0]["tan"])
	assert.NotContains(t, reqs[0], "token")
}

func TestClient_OneConnectionPerSend(t *testing.T) {
	srv := newFakeServer(t, reply(`{"success":true}`+"\n"))
	c := NewClient(WithTarget("127.0.0.1", srv.port(), ""))

	for i := 0; i < 3; i++ {
		_, err := c.Send(context.Background(), model.Command{Command: model.CommandServerInfo})
		require.NoError(t, err)
	}
	srv.mu.Lock()
	defer srv.mu.Unlock()
	assert.Equal(t, 3, srv.accepts)
}

func TestClient_UnsuccessfulReplyIsData(t *testing.T) {
	srv := newFakeServer(t, reply(`{"command":"effect","success":false,"error":"Effect not found"}`+"\n"))
	c := NewClient(WithTarget("127.0.0.1", srv.port(), ""))

	resp, err := c.Send(context.Background(), model.Command{Command: model.CommandEffect})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "Effect not found", resp.Error)
}

func TestClient_ReplyWithoutNewline(t *testing.T) {
	srv := newFakeServer(t, reply(`{"success":true}`))
	c := NewClient(WithTarget("127.0.0.1", srv.port(), ""))

	resp, err := c.Send(context.Background(), model.Command{Command: model.CommandServerInfo})
	assert.ErrorIs(t, err, model.ErrProtocol)
	assert.EqualError(t, err, "protocol error: no response data from Hyperion")
	assert.Nil(t, resp)
}

func TestClient_OversizedReply(t *testing.T) {
	srv := newFakeServer(t, reply(strings.Repeat("x", maxReplySize+16)+"\n"))
	c := NewClient(WithTarget("127.0.0.1", srv.port(), ""))

	_, err := c.Send(context.Background(), model.Command{Command: model.CommandServerInfo})
	assert.ErrorIs(t, err, model.ErrProtocol)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestClient_TanAlwaysSent(t *testing.T) {
	srv := newFakeServer(t, reply(`{"success":true}`+"\n"))
	c := NewClient(WithTarget("127.0.0.1", srv.port(), ""))
	c.now = func() time.Time { return time.UnixMilli(300000) }

	_, err := c.Send(context.Background(), model.Command{Command: model.CommandServerInfo})
	require.NoError(t, err)
	_, err = c.Send(context.Background(), model.Command{Command: model.CommandColor, Tan: model.Int(0), Color: []int{1, 2, 3}})
	require.NoError(t, err)

	reqs := srv.requests()
	require.Len(t, reqs, 2)
	for _, req := range reqs {
		assert.Equal(t, 0.0, req["tan"])
	}
}

func TestClient_Errors(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		_, err := NewClient().Send(context.Background(), model.Command{Command: model.CommandServerInfo})
		assert.ErrorIs(t, err, model.ErrConfiguration)
		assert.EqualError(t, err, "No Hyperion IP configured")
	})

	t.Run("refused", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		port := ln.Addr().(*net.TCPAddr).Port
		ln.Close()

		_, err = NewClient(WithTarget("127.0.0.1", port, "")).Send(context.Background(), model.Command{Command: model.CommandServerInfo})
		assert.ErrorIs(t, err, model.ErrConnection)
	})

	t.Run("silent server", func(t *testing.T) {
		srv := newFakeServer(t, func(s *fakeServer, conn net.Conn) {
			s.readLine(conn)
			time.Sleep(500 * time.Millisecond)
		})
		c := NewClient(WithTarget("127.0.0.1", srv.port(), ""), WithTimeout(50*time.Millisecond))

		_, err := c.Send(context.Background(), model.Command{Command: model.CommandServerInfo})
		assert.ErrorIs(t, err, model.ErrTimeout)
	})

	t.Run("closed without data", func(t *testing.T) {
		srv := newFakeServer(t, func(s *fakeServer, conn net.Conn) { s.readLine(conn) })
		c := NewClient(WithTarget("127.0.0.1", srv.port(), ""))

		_, err := c.Send(context.Background(), model.Command{Command: model.CommandServerInfo})
		assert.ErrorIs(t, err, model.ErrProtocol)
	})

	t.Run("malformed", func(t *testing.T) {
		srv := newFakeServer(t, reply("not json\n"))
		c := NewClient(WithTarget("127.0.0.1", srv.port(), ""))

		_, err := c.Send(context.Background(), model.Command{Command: model.CommandServerInfo})
		assert.ErrorIs(t, err, model.ErrProtocol)
	})
}

func TestClient_Configure(t *testing.T) {
	c := NewClient()
	assert.False(t, c.IsConfigured())

	c.Configure("hyperion.local", 0, "")
	assert.True(t, c.IsConfigured())
	assert.Equal(t, "hyperion.local:19444", c.Address())
}
