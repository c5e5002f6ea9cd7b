package service

import (
	"context"
	"sync"
	"wled-hyperion-bridge/internal/domain/model"
	"wled-hyperion-bridge/internal/ports"
)

// Broadcaster fans the outcome of state changes out to subscribers such as
// the WebSocket hub and the MQTT publisher.
type Broadcaster struct {
	mu   sync.RWMutex
	subs []func(model.Status)
}

func (b *Broadcaster) Subscribe(fn func(model.Status)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, fn)
}

func (b *Broadcaster) publish(status model.Status) {
	if !status.Connected {
		return
	}
	b.mu.RLock()
	subs := b.subs
	b.mu.RUnlock()
	for _, fn := range subs {
		fn(status)
	}
}

type observed struct {
	next ports.LightControlPort
	b    *Broadcaster
}

// Observe publishes the status of every state-changing call on next to b.
// Status reads are not published.
func Observe(next ports.LightControlPort, b *Broadcaster) ports.LightControlPort {
	return &observed{next: next, b: b}
}

func (o *observed) changed(status model.Status) model.Status {
	o.b.publish(status)
	return status
}

func (o *observed) GetStatus(ctx context.Context) model.Status {
	return o.next.GetStatus(ctx)
}

func (o *observed) SetBrightness(ctx context.Context, value int) model.Status {
	return o.changed(o.next.SetBrightness(ctx, value))
}

func (o *observed) SetPower(ctx context.Context, state int) model.Status {
	return o.changed(o.next.SetPower(ctx, state))
}

func (o *observed) SetColor(ctx context.Context, color ports.ColorInput) model.Status {
	return o.changed(o.next.SetColor(ctx, color))
}

func (o *observed) SetEffect(ctx context.Context, req ports.EffectRequest) model.Status {
	return o.changed(o.next.SetEffect(ctx, req))
}

func (o *observed) SetPreset(ctx context.Context, id int) model.Status {
	return o.changed(o.next.SetPreset(ctx, id))
}

func (o *observed) Apply(ctx context.Context, state model.DesiredState) model.Status {
	status := o.next.Apply(ctx, state)
	if state.IsEmpty() {
		return status
	}
	return o.changed(status)
}
