package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

type PowerAction int

const (
	PowerOff PowerAction = iota
	PowerOn
	PowerToggle
)

func (p PowerAction) String() string {
	switch p {
	case PowerOff:
		return "off"
	case PowerOn:
		return "on"
	case PowerToggle:
		return "toggle"
	}
	return fmt.Sprintf("PowerAction(%d)", int(p))
}

// MarshalJSON uses the WLED encoding: true, false or "t".
func (p PowerAction) MarshalJSON() ([]byte, error) {
	switch p {
	case PowerOn:
		return []byte("true"), nil
	case PowerToggle:
		return []byte(`"t"`), nil
	}
	return []byte("false"), nil
}

func (p *PowerAction) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		if b {
			*p = PowerOn
		} else {
			*p = PowerOff
		}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("power must be a boolean or \"t\": %s", string(data))
	}
	if strings.ToLower(s) != "t" {
		return fmt.Errorf("power must be a boolean or \"t\": %q", s)
	}
	*p = PowerToggle
	return nil
}

// Segment describes the first WLED segment of a state update.
type Segment struct {
	Effect    *int    `json:"fx,omitempty"`
	Speed     *int    `json:"sx,omitempty"`
	Intensity *int    `json:"ix,omitempty"`
	Palette   *int    `json:"pal,omitempty"`
	Colors    [][]int `json:"col,omitempty"`
}

// DesiredState is the per-call WLED-style request translated by the synthesizer.
// Every field is optional.
type DesiredState struct {
	Power      *PowerAction `json:"on,omitempty"`
	Brightness *int         `json:"bri,omitempty"`
	Segment    *Segment     `json:"seg,omitempty"`
	Preset     *int         `json:"ps,omitempty"`
	// Transition is accepted for compatibility; Hyperion has no per-command transition.
	Transition *int `json:"transition,omitempty"`
}

func (s DesiredState) IsEmpty() bool {
	return s.Power == nil && s.Brightness == nil && s.Segment == nil && s.Preset == nil && s.Transition == nil
}

// IsPowerControl reports whether the call sets power explicitly.
func (s DesiredState) IsPowerControl() bool {
	return s.Power != nil
}

// IsVisual reports whether the call changes what the LEDs show.
func (s DesiredState) IsVisual() bool {
	return s.Brightness != nil || s.Segment != nil || s.Preset != nil
}

// Int returns a pointer to v, for building optional fields.
func Int(v int) *int {
	return &v
}

func Power(p PowerAction) *PowerAction {
	return &p
}
