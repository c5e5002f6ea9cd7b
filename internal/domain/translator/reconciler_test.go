package translator

import (
	"context"
	"testing"
	"wled-hyperion-bridge/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPresets = model.PresetMap{
	1: model.EffectPreset{Name: "Preset01"},
	2: model.EffectPreset{Name: "Preset02"},
	4: model.ColorPreset{RGB: []int{76, 245, 245}},
}

func TestReconciler_Status(t *testing.T) {
	info := infoWithLED(true)
	info.Adjustment = []model.AdjustmentInfo{{ID: "default"}, {Brightness: brightness(50)}}
	r := NewReconciler(&fakeHyperion{infos: []*model.ServerInfo{info}}, testPresets)

	status, err := r.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.Status{
		Connected:  true,
		IsOn:       true,
		PresetID:   -1,
		PlaylistID: -1,
		Brightness: 128,
		Message:    "Hyperion is ON",
	}, status)
}

func TestReconciler_Defaults(t *testing.T) {
	r := NewReconciler(nil, nil)
	status := r.fromServerInfo(&model.ServerInfo{})

	assert.False(t, status.IsOn)
	assert.Equal(t, 255, status.Brightness)
	assert.Equal(t, model.NoPreset, status.PresetID)
	assert.Equal(t, "Hyperion is OFF", status.Message)
}

func TestReconciler_NilSnapshot(t *testing.T) {
	r := NewReconciler(nil, testPresets)
	assert.Equal(t, r.fromServerInfo(&model.ServerInfo{}), r.fromServerInfo(nil))
}

func TestReconciler_FailedReadIsConnectionError(t *testing.T) {
	r := NewReconciler(&fakeHyperion{failInfo: true}, testPresets)

	_, err := r.Status(context.Background())
	assert.ErrorIs(t, err, model.ErrConnection)
}

func TestReconciler_ActivePreset(t *testing.T) {
	r := NewReconciler(nil, testPresets)

	tests := []struct {
		name       string
		priorities []model.PriorityEntry
		want       int
	}{
		{"no sources", nil, -1},
		{"nothing visible", []model.PriorityEntry{{ComponentID: "EFFECT", Owner: "Preset01"}}, -1},
		{"effect by owner", []model.PriorityEntry{
			{ComponentID: "COLOR", Value: model.PriorityValue{RGB: []int{1, 2, 3}}},
			{Visible: true, ComponentID: "EFFECT", Owner: "Preset02"},
		}, 2},
		{"color by rgb", []model.PriorityEntry{
			{Visible: true, ComponentID: "COLOR", Value: model.PriorityValue{RGB: []int{76, 245, 245}}},
		}, 4},
		{"color needs color component", []model.PriorityEntry{
			{Visible: true, ComponentID: "EFFECT", Value: model.PriorityValue{RGB: []int{76, 245, 245}}},
		}, -1},
		{"effect name unknown", []model.PriorityEntry{{Visible: true, ComponentID: "EFFECT", Owner: "Rainbow swirl"}}, -1},
		{"empty rgb", []model.PriorityEntry{{Visible: true, ComponentID: "COLOR"}}, -1},
		{"first visible wins", []model.PriorityEntry{
			{Visible: true, ComponentID: "EFFECT", Owner: "Preset01"},
			{Visible: true, ComponentID: "EFFECT", Owner: "Preset02"},
		}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := r.fromServerInfo(&model.ServerInfo{Priorities: tt.priorities})
			assert.Equal(t, tt.want, status.PresetID)
		})
	}
}

func TestReconciler_MatchesByNameOnly(t *testing.T) {
	presets := model.PresetMap{
		5: model.EffectPreset{Name: "Breath", Args: map[string]interface{}{"speed": 0.5}},
		6: model.EffectPreset{Name: "Breath", Args: map[string]interface{}{"speed": 2.0}},
	}
	r := NewReconciler(nil, presets)
	status := r.fromServerInfo(&model.ServerInfo{
		Priorities: []model.PriorityEntry{{Visible: true, ComponentID: "EFFECT", Owner: "Breath"}},
	})
	assert.Equal(t, 5, status.PresetID)
}

func TestPresetRoundTrip(t *testing.T) {
	for id, action := range testPresets {
		f := &fakeHyperion{infos: []*model.ServerInfo{infoWithLED(true)}}
		s := NewSynthesizer(f, Options{Presets: testPresets, PowerOnSettle: -1})
		require.NoError(t, s.Apply(context.Background(), model.DesiredState{Preset: model.Int(id)}))

		cmd := f.commands()[0]
		visible := model.PriorityEntry{Visible: true, Origin: cmd.Origin}
		switch action.(type) {
		case model.EffectPreset:
			visible.ComponentID = model.ComponentIDEffect
			visible.Owner = cmd.Effect.Name
		case model.ColorPreset:
			visible.ComponentID = model.ComponentIDColor
			visible.Value.RGB = cmd.Color
		}

		status := NewReconciler(nil, testPresets).fromServerInfo(&model.ServerInfo{Priorities: []model.PriorityEntry{visible}})
		assert.Equal(t, id, status.PresetID)
	}
}
