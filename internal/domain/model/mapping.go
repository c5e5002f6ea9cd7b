package model

import (
	"encoding/json"
	"fmt"
	"sort"
)

// EffectMap maps WLED effect indices to Hyperion effect names.
type EffectMap map[int]string

func (m EffectMap) Lookup(index int) (string, bool) {
	name, ok := m[index]
	return name, ok && name != ""
}

// PresetAction is what a WLED preset expands to on the Hyperion side.
// Implemented by EffectPreset and ColorPreset only.
type PresetAction interface {
	presetAction()
}

type EffectPreset struct {
	Name string
	Args map[string]interface{}
}

type ColorPreset struct {
	RGB []int
}

func (EffectPreset) presetAction() {}
func (ColorPreset) presetAction()  {}

// PresetMap maps WLED preset ids to Hyperion actions.
type PresetMap map[int]PresetAction

func (m PresetMap) Lookup(id int) (PresetAction, bool) {
	a, ok := m[id]
	return a, ok && a != nil
}

// IDs returns the preset ids in ascending order, the order reverse matching uses.
func (m PresetMap) IDs() []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

type presetJSON struct {
	Type string                 `json:"type"`
	Name string                 `json:"name,omitempty"`
	Args map[string]interface{} `json:"args,omitempty"`
	RGB  []int                  `json:"rgb,omitempty"`
}

func (m PresetMap) MarshalJSON() ([]byte, error) {
	out := make(map[int]presetJSON, len(m))
	for id, a := range m {
		switch v := a.(type) {
		case EffectPreset:
			out[id] = presetJSON{Type: "effect", Name: v.Name, Args: v.Args}
		case ColorPreset:
			out[id] = presetJSON{Type: "color", RGB: v.RGB}
		default:
			return nil, fmt.Errorf("preset %d: unsupported action %T", id, a)
		}
	}
	return json.Marshal(out)
}

func (m *PresetMap) UnmarshalJSON(data []byte) error {
	var raw map[int]presetJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(PresetMap, len(raw))
	for id, p := range raw {
		switch p.Type {
		case "effect":
			if p.Name == "" {
				return fmt.Errorf("preset %d: effect preset needs a name", id)
			}
			args := p.Args
			if args == nil {
				args = map[string]interface{}{}
			}
			out[id] = EffectPreset{Name: p.Name, Args: args}
		case "color":
			if len(p.RGB) != 3 {
				return fmt.Errorf("preset %d: color preset needs 3 rgb components", id)
			}
			out[id] = ColorPreset{RGB: p.RGB}
		default:
			return fmt.Errorf("preset %d: unknown type %q", id, p.Type)
		}
	}
	*m = out
	return nil
}
