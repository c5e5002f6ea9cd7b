package translator

import (
	"context"
	"fmt"
	"wled-hyperion-bridge/internal/domain/model"
	"wled-hyperion-bridge/internal/ports"
)

const defaultHyperionBrightness = 100

// Reconciler derives the WLED-shaped status from a fresh serverinfo snapshot.
type Reconciler struct {
	sender  ports.CommandSender
	presets model.PresetMap
}

func NewReconciler(sender ports.CommandSender, presets model.PresetMap) *Reconciler {
	if presets == nil {
		presets = model.PresetMap{}
	}
	return &Reconciler{sender: sender, presets: presets}
}

func (r *Reconciler) Status(ctx context.Context) (model.Status, error) {
	info, ok := readServerInfo(ctx, r.sender)
	if !ok {
		return model.Status{}, fmt.Errorf("%w: failed to get Hyperion serverinfo after command execution", model.ErrConnection)
	}
	return r.fromServerInfo(info), nil
}

// fromServerInfo is the pure part of Status. A nil snapshot reads as an empty one.
func (r *Reconciler) fromServerInfo(info *model.ServerInfo) model.Status {
	if info == nil {
		info = &model.ServerInfo{}
	}
	on := ledDeviceOn(info)
	msg := "Hyperion is OFF"
	if on {
		msg = "Hyperion is ON"
	}
	return model.Status{
		Connected:  true,
		IsOn:       on,
		PresetID:   r.activePreset(info),
		PlaylistID: model.NoPlaylist,
		Brightness: BrightnessFromHyperion(hyperionBrightness(info)),
		Message:    msg,
	}
}

func hyperionBrightness(info *model.ServerInfo) float64 {
	for _, adj := range info.Adjustment {
		if adj.Brightness != nil {
			return *adj.Brightness
		}
	}
	return defaultHyperionBrightness
}

// activePreset matches the visible priority against the preset map by effect
// name or RGB value only; effect args are not compared.
func (r *Reconciler) activePreset(info *model.ServerInfo) int {
	var visible *model.PriorityEntry
	for i := range info.Priorities {
		if info.Priorities[i].Visible {
			visible = &info.Priorities[i]
			break
		}
	}
	if visible == nil {
		return model.NoPreset
	}

	for _, id := range r.presets.IDs() {
		switch a := r.presets[id].(type) {
		case model.EffectPreset:
			if visible.ComponentID == model.ComponentIDEffect && visible.Owner == a.Name {
				return id
			}
		case model.ColorPreset:
			if visible.ComponentID == model.ComponentIDColor && rgbMatches(a.RGB, visible.Value.RGB) {
				return id
			}
		}
	}
	return model.NoPreset
}

// rgbMatches compares pairwise over the shorter list; an empty active value never matches.
func rgbMatches(want, active []int) bool {
	if len(active) == 0 {
		return false
	}
	n := len(want)
	if len(active) < n {
		n = len(active)
	}
	for i := 0; i < n; i++ {
		if want[i] != active[i] {
			return false
		}
	}
	return true
}
