package wled

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"wled-hyperion-bridge/internal/domain/model"

	"github.com/lucasb-eyer/go-colorful"
	log "github.com/sirupsen/logrus"
)

// stateRequest is the subset of a WLED /json/state body the bridge understands.
type stateRequest struct {
	On         *model.PowerAction `json:"on"`
	Bri        *int               `json:"bri"`
	Seg        json.RawMessage    `json:"seg"`
	PS         *int               `json:"ps"`
	Transition *int               `json:"transition"`
	Verbose    bool               `json:"v"`
}

type segmentRequest struct {
	FX  *int              `json:"fx"`
	SX  *int              `json:"sx"`
	IX  *int              `json:"ix"`
	Pal *int              `json:"pal"`
	Col []json.RawMessage `json:"col"`
}

// DecodeState parses a WLED state update. seg may be a single object or an
// array, of which only the first segment is used. verbose reports "v": true.
func DecodeState(data []byte) (state model.DesiredState, verbose bool, err error) {
	var req stateRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return model.DesiredState{}, false, fmt.Errorf("%w: %v", model.ErrValidation, err)
	}

	state = model.DesiredState{
		Power:      req.On,
		Brightness: req.Bri,
		Preset:     req.PS,
		Transition: req.Transition,
	}
	seg, err := decodeSegment(req.Seg)
	if err != nil {
		return model.DesiredState{}, false, fmt.Errorf("%w: seg: %v", model.ErrValidation, err)
	}
	state.Segment = seg
	return state, req.Verbose, nil
}

func decodeSegment(raw json.RawMessage) (*model.Segment, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	var req segmentRequest
	if raw[0] == '[' {
		var segs []segmentRequest
		if err := json.Unmarshal(raw, &segs); err != nil {
			return nil, err
		}
		if len(segs) == 0 {
			return nil, nil
		}
		if len(segs) > 1 {
			log.WithField("segments", len(segs)).Debug("Only the first WLED segment is applied")
		}
		req = segs[0]
	} else if err := json.Unmarshal(raw, &req); err != nil {
		return nil, err
	}

	seg := &model.Segment{Effect: req.FX, Speed: req.SX, Intensity: req.IX, Palette: req.Pal}
	for _, c := range req.Col {
		rgb, err := decodeColor(c)
		if err != nil {
			return nil, err
		}
		// WLED sends [] for color slots it leaves unchanged.
		if len(rgb) > 0 {
			seg.Colors = append(seg.Colors, rgb)
		}
	}
	if seg.Effect == nil && seg.Speed == nil && seg.Intensity == nil && seg.Palette == nil && len(seg.Colors) == 0 {
		return nil, nil
	}
	return seg, nil
}

// decodeColor accepts [r,g,b(,w)] or a "RRGGBB" hex string.
func decodeColor(raw json.RawMessage) ([]int, error) {
	var channels []int
	if err := json.Unmarshal(raw, &channels); err == nil {
		return channels, nil
	}
	var hex string
	if err := json.Unmarshal(raw, &hex); err != nil {
		return nil, fmt.Errorf("color must be an array or a hex string: %s", string(raw))
	}
	return ParseHex(hex)
}

// ParseHex reads "RRGGBB", "#RRGGBB" or "0xRRGGBB".
func ParseHex(s string) ([]int, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "#"), "0x")
	if len(s) != 6 {
		return nil, fmt.Errorf("hex color %q must have 6 digits", s)
	}
	c, err := colorful.Hex("#" + s)
	if err != nil {
		return nil, fmt.Errorf("hex color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return []int{int(r), int(g), int(b)}, nil
}

// State is the WLED /json/state reply. Error is set when Hyperion could not
// be reached or the request was rejected.
type State struct {
	On         bool   `json:"on"`
	Bri        int    `json:"bri"`
	Transition int    `json:"transition"`
	PS         int    `json:"ps"`
	PL         int    `json:"pl"`
	Error      string `json:"error,omitempty"`
}

func StateFromStatus(s model.Status) State {
	st := State{
		On:  s.IsOn,
		Bri: s.Brightness,
		PS:  s.PresetID,
		PL:  s.PlaylistID,
	}
	if !s.Connected {
		st.Error = s.Message
	}
	return st
}
