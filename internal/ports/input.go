package ports

import (
	"context"
	"wled-hyperion-bridge/internal/domain/model"
)

type ColorInput struct {
	R   *int
	G   *int
	B   *int
	W   *int
	Hex *string
}

type EffectRequest struct {
	Index      int
	Speed      *int
	Intensity  *int
	Brightness *int
	Palette    *int
	Primary    *ColorInput
	Secondary  *ColorInput
	Transition int
}

// LightControlPort is the WLED-style surface. Implementations never fail:
// every outcome is a model.Status.
type LightControlPort interface {
	GetStatus(ctx context.Context) model.Status
	SetBrightness(ctx context.Context, value int) model.Status
	SetPower(ctx context.Context, state int) model.Status
	SetColor(ctx context.Context, color ColorInput) model.Status
	SetEffect(ctx context.Context, req EffectRequest) model.Status
	SetPreset(ctx context.Context, id int) model.Status
	Apply(ctx context.Context, state model.DesiredState) model.Status
}
