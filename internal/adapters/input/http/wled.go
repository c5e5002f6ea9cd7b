package http

import (
	"io"
	"net/http"
	"net/url"
	"wled-hyperion-bridge/internal/adapters/input/wled"
	"wled-hyperion-bridge/internal/domain/model"
	"wled-hyperion-bridge/internal/domain/service"
	"wled-hyperion-bridge/internal/ports"
)

const maxBodySize = 64 << 10

type applyResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cfg, err := s.bridge.GetConfig(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, wled.Document{
			State:   wled.StateFromStatus(s.bridge.GetStatus(r.Context())),
			Info:    wled.NewInfo(cfg, s.ip),
			Effects: wled.EffectNames(cfg.Effects),
		})
	case http.MethodPost:
		s.applyState(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleJSONState(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, wled.StateFromStatus(s.bridge.GetStatus(r.Context())))
	case http.MethodPost:
		s.applyState(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// applyState handles a WLED JSON state update. The full state is returned
// only when the body asks for it with "v": true.
func (s *Server) applyState(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	state, verbose, err := wled.DecodeState(body)
	if err != nil {
		writeJSONCode(w, http.StatusBadRequest, applyResult{Error: err.Error()})
		return
	}

	status := s.bridge.Apply(r.Context(), state)
	if verbose {
		writeJSON(w, wled.StateFromStatus(status))
		return
	}
	result := applyResult{Success: status.Connected}
	if !status.Connected {
		result.Error = status.Message
	}
	writeJSON(w, result)
}

func (s *Server) handleJSONInfo(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.bridge.GetConfig(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, wled.NewInfo(cfg, s.ip))
}

func (s *Server) handleJSONEffects(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.bridge.GetConfig(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, wled.EffectNames(cfg.Effects))
}

// handleWin serves the WLED HTTP request API (/win&FX=..). One operation is
// run per request, picked in this order: preset (PL), effect (FX), color
// (R/G/B/W/CL), power (T, followed by A when both are given), brightness (A).
func (s *Server) handleWin(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status, err := s.win(r, q)
	if err != nil {
		writeJSON(w, wled.StateFromStatus(model.FailedStatus(service.Message(err))))
		return
	}
	writeJSON(w, wled.StateFromStatus(status))
}

func (s *Server) win(r *http.Request, q url.Values) (model.Status, error) {
	ctx := r.Context()
	ints, err := parseWinInts(q)
	if err != nil {
		return model.Status{}, err
	}

	switch {
	case q.Has("PL"):
		id, err := service.ParseInt(q.Get("PL"), service.MsgPresetID)
		if err != nil {
			return model.Status{}, err
		}
		return s.bridge.SetPreset(ctx, id), nil

	case q.Has("FX"):
		index, err := service.ParseInt(q.Get("FX"), service.MsgEffectIndex)
		if err != nil {
			return model.Status{}, err
		}
		transition := 0
		if ints["TT"] != nil {
			transition = *ints["TT"]
		}
		return s.bridge.SetEffect(ctx, ports.EffectRequest{
			Index:      index,
			Speed:      ints["SX"],
			Intensity:  ints["IX"],
			Palette:    ints["FP"],
			Brightness: ints["A"],
			Primary:    winColor(q, ints, "R", "G", "B", "W", "CL"),
			Secondary:  winColor(q, ints, "R2", "G2", "B2", "W2", "C2"),
			Transition: transition,
		}), nil

	case winColor(q, ints, "R", "G", "B", "W", "CL") != nil:
		return s.bridge.SetColor(ctx, *winColor(q, ints, "R", "G", "B", "W", "CL")), nil

	case ints["T"] != nil:
		status := s.bridge.SetPower(ctx, *ints["T"])
		if ints["A"] != nil && status.Connected {
			status = s.bridge.SetBrightness(ctx, *ints["A"])
		}
		return status, nil

	case ints["A"] != nil:
		return s.bridge.SetBrightness(ctx, *ints["A"]), nil
	}
	return s.bridge.GetStatus(ctx), nil
}

var winIntParams = []string{"A", "T", "SX", "IX", "FP", "TT", "R", "G", "B", "W", "R2", "G2", "B2", "W2"}

func parseWinInts(q url.Values) (map[string]*int, error) {
	ints := make(map[string]*int, len(winIntParams))
	for _, name := range winIntParams {
		v, err := service.ParseOptionalInt(q.Get(name), name+" must be an integer")
		if err != nil {
			return nil, err
		}
		ints[name] = v
	}
	return ints, nil
}

func winColor(q url.Values, ints map[string]*int, r, g, b, white, hex string) *ports.ColorInput {
	c := ports.ColorInput{R: ints[r], G: ints[g], B: ints[b], W: ints[white]}
	if q.Has(hex) {
		h := q.Get(hex)
		c.Hex = &h
	}
	if c.R == nil && c.G == nil && c.B == nil && c.W == nil && c.Hex == nil {
		return nil
	}
	return &c
}
