package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
	"wled-hyperion-bridge/internal/adapters/input/wled"
	"wled-hyperion-bridge/internal/domain/model"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// WLED apps connect from arbitrary origins on the LAN.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub pushes WLED state to every connected /ws client.
type Hub struct {
	clients    map[*wsClient]struct{}
	broadcast  chan []byte
	register   chan *wsClient
	unregister chan *wsClient
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    map[*wsClient]struct{}{},
		broadcast:  make(chan []byte, 256),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					delete(h.clients, c)
					close(c.send)
				}
			}
		}
	}
}

func (h *Hub) add(c *wsClient) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) remove(c *wsClient) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// BroadcastStatus queues status for all clients, dropping it when the hub is backed up.
func (h *Hub) BroadcastStatus(status model.Status) {
	b, err := json.Marshal(wsMessage{State: wled.StateFromStatus(status)})
	if err != nil {
		log.WithError(err).Warn("Encoding WebSocket state failed")
		return
	}
	select {
	case h.broadcast <- b:
	default:
		log.Warn("WebSocket broadcast queue full, dropping state")
	}
}

type wsMessage struct {
	State wled.State `json:"state"`
}

type wsClient struct {
	hub  *Hub
	conn *websocket.Conn
	// send carries broadcasts and is closed by the hub; reply carries answers
	// to this client's own requests.
	send  chan []byte
	reply chan []byte
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Debug("WebSocket upgrade failed")
		return
	}
	c := &wsClient{hub: s.hub, conn: conn, send: make(chan []byte, 16), reply: make(chan []byte, 16)}
	if !s.hub.add(c) {
		_ = conn.Close()
		return
	}

	// Reads run detached from the upgrade request, which ends here.
	ctx := context.WithoutCancel(r.Context())
	go c.writePump()
	c.queue(wsMessage{State: wled.StateFromStatus(s.bridge.GetStatus(ctx))})
	go c.readPump(func(data []byte) {
		state, verbose, err := wled.DecodeState(data)
		if err != nil {
			c.queue(applyResult{Error: err.Error()})
			return
		}
		status := s.bridge.Apply(ctx, state)
		// Successful changes reach this client through the hub broadcast.
		if verbose || !status.Connected {
			c.queue(wsMessage{State: wled.StateFromStatus(status)})
		}
	})
}

func (c *wsClient) queue(v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		log.WithError(err).Warn("Encoding WebSocket message failed")
		return
	}
	select {
	case c.reply <- b:
	default:
		log.Debug("WebSocket client is not reading, dropping reply")
	}
}

func (c *wsClient) readPump(handle func([]byte)) {
	defer func() {
		c.hub.remove(c)
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMsgSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		handle(data)
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case msg := <-c.reply:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
