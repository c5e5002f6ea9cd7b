package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"wled-hyperion-bridge/internal/domain/model"
	"wled-hyperion-bridge/internal/domain/service"
	"wled-hyperion-bridge/internal/ports"

	log "github.com/sirupsen/logrus"
)

type Server struct {
	bridge ports.BridgePort
	ip     string
	hub    *Hub
}

func NewServer(bridge ports.BridgePort, ip string) *Server {
	s := &Server{
		bridge: bridge,
		ip:     ip,
		hub:    NewHub(),
	}
	bridge.Subscribe(s.hub.BroadcastStatus)
	return s
}

// Hub is the WebSocket fan-out; Run must be started before serving /ws.
func (s *Server) Hub() *Hub {
	return s.hub
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	// Hue emulation
	mux.HandleFunc("/description.xml", s.handleDescription)
	mux.HandleFunc("/api", s.handleAPI)
	mux.HandleFunc("/api/", s.handleAPI)
	// WLED
	mux.HandleFunc("/json", s.handleJSON)
	mux.HandleFunc("/json/state", s.handleJSONState)
	mux.HandleFunc("/json/info", s.handleJSONInfo)
	mux.HandleFunc("/json/eff", s.handleJSONEffects)
	mux.HandleFunc("/win", s.handleWin)
	mux.HandleFunc("/ws", s.handleWS)
	// Bridge
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/sequence", s.handleSequences)
	mux.HandleFunc("/sequence/", s.handleSequences)
	mux.HandleFunc("/admin/config", s.handleConfig)
	return mux
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, s.bridge.GetStatus(r.Context()))
}

func (s *Server) handleSequences(w http.ResponseWriter, r *http.Request) {
	name := strings.Trim(strings.TrimPrefix(r.URL.Path, "/sequence"), "/")
	if name == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, s.bridge.SequenceNames())
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status, err := s.bridge.RunSequence(r.Context(), name)
	if errors.Is(err, service.ErrUnknownSequence) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, status)
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cfg, err := s.bridge.GetConfig(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, cfg)
	case http.MethodPut, http.MethodPost:
		var cfg model.Config
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := s.bridge.UpdateConfig(r.Context(), &cfg); err != nil {
			code := http.StatusInternalServerError
			if errors.Is(err, model.ErrValidation) {
				code = http.StatusBadRequest
			}
			http.Error(w, err.Error(), code)
			return
		}
		writeJSON(w, &cfg)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	writeJSONCode(w, http.StatusOK, v)
}

func writeJSONCode(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("Writing response failed")
	}
}
