package service

import (
	"context"
	"sync"
	"wled-hyperion-bridge/internal/domain/model"
	"wled-hyperion-bridge/internal/ports"
)

type serialized struct {
	mu   sync.Mutex
	next ports.LightControlPort
}

// Serialize lets one operation at a time through to next.
func Serialize(next ports.LightControlPort) ports.LightControlPort {
	return &serialized{next: next}
}

func (s *serialized) GetStatus(ctx context.Context) model.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next.GetStatus(ctx)
}

func (s *serialized) SetBrightness(ctx context.Context, value int) model.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next.SetBrightness(ctx, value)
}

func (s *serialized) SetPower(ctx context.Context, state int) model.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next.SetPower(ctx, state)
}

func (s *serialized) SetColor(ctx context.Context, color ports.ColorInput) model.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next.SetColor(ctx, color)
}

func (s *serialized) SetEffect(ctx context.Context, req ports.EffectRequest) model.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next.SetEffect(ctx, req)
}

func (s *serialized) SetPreset(ctx context.Context, id int) model.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next.SetPreset(ctx, id)
}

func (s *serialized) Apply(ctx context.Context, state model.DesiredState) model.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next.Apply(ctx, state)
}
