package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"
	"wled-hyperion-bridge/internal/domain/model"
	"wled-hyperion-bridge/internal/ports"
)

var ErrUnknownSequence = errors.New("unknown sequence")

const (
	loadingEffect = 47
	solidEffect   = 0
	idlePreset    = 1
	playingPreset = 2
)

// Sequences are the canned light cues a media player drives the strip with.
type Sequences struct {
	light ports.LightControlPort
	sleep func(ctx context.Context, d time.Duration) error
}

func NewSequences(light ports.LightControlPort) *Sequences {
	return &Sequences{light: light, sleep: sleepCtx}
}

func (s *Sequences) SequenceNames() []string {
	names := make([]string, 0, len(s.table()))
	for name := range s.table() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Sequences) RunSequence(ctx context.Context, name string) (model.Status, error) {
	seq, ok := s.table()[name]
	if !ok {
		return model.Status{}, fmt.Errorf("%w: %q", ErrUnknownSequence, name)
	}
	return seq(ctx)
}

func (s *Sequences) table() map[string]func(context.Context) (model.Status, error) {
	return map[string]func(context.Context) (model.Status, error){
		"loading":   s.Loading,
		"idle":      s.Idle,
		"connected": s.Connected,
		"playing":   s.Playing,
	}
}

// Loading runs a knight-rider style sweep in orange on black.
func (s *Sequences) Loading(ctx context.Context) (model.Status, error) {
	return s.light.SetEffect(ctx, ports.EffectRequest{
		Index:     loadingEffect,
		Speed:     model.Int(150),
		Intensity: model.Int(150),
		Palette:   model.Int(0),
		Primary:   hexColor("#ffa000"),
		Secondary: hexColor("#000000"),
	}), nil
}

func (s *Sequences) Idle(ctx context.Context) (model.Status, error) {
	return s.light.SetPreset(ctx, idlePreset), nil
}

func (s *Sequences) Playing(ctx context.Context) (model.Status, error) {
	return s.light.SetPreset(ctx, playingPreset), nil
}

// Connected flashes green twice, then settles on the idle preset. The status
// of the second flash is returned.
func (s *Sequences) Connected(ctx context.Context) (model.Status, error) {
	green := ports.EffectRequest{Index: solidEffect, Primary: hexColor("#08ff00"), Brightness: model.Int(100)}

	s.light.SetEffect(ctx, green)
	if err := s.sleep(ctx, time.Second); err != nil {
		return model.Status{}, err
	}
	s.light.SetEffect(ctx, ports.EffectRequest{Index: solidEffect, Brightness: model.Int(0)})
	if err := s.sleep(ctx, 500*time.Millisecond); err != nil {
		return model.Status{}, err
	}
	status := s.light.SetEffect(ctx, green)
	if err := s.sleep(ctx, time.Second); err != nil {
		return model.Status{}, err
	}
	s.light.SetPreset(ctx, idlePreset)
	return status, nil
}

func hexColor(hex string) *ports.ColorInput {
	return &ports.ColorInput{Hex: &hex}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
