package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"wled-hyperion-bridge/internal/domain/model"
	"wled-hyperion-bridge/internal/domain/translator"
	"wled-hyperion-bridge/internal/ports"

	log "github.com/sirupsen/logrus"
)

const maxPalette = 46

// Controller is the WLED-style façade over a Hyperion server. It is not safe
// for concurrent use; wrap it with Serialize when several inputs share it.
type Controller struct {
	hyperion ports.HyperionPort

	mu    sync.RWMutex
	synth *translator.Synthesizer
	recon *translator.Reconciler
}

func NewController(hyperion ports.HyperionPort, opts translator.Options) *Controller {
	c := &Controller{hyperion: hyperion}
	c.Configure(opts)
	return c
}

// Configure swaps the effect/preset tables and command attribution.
func (c *Controller) Configure(opts translator.Options) {
	synth := translator.NewSynthesizer(c.hyperion, opts)
	recon := translator.NewReconciler(c.hyperion, opts.Presets)
	c.mu.Lock()
	c.synth, c.recon = synth, recon
	c.mu.Unlock()
}

func (c *Controller) GetStatus(ctx context.Context) model.Status {
	return c.run(ctx, model.DesiredState{})
}

func (c *Controller) SetBrightness(ctx context.Context, value int) model.Status {
	if err := checkRange("Brightness", value, 0, 255); err != nil {
		return failure(err)
	}
	return c.run(ctx, model.DesiredState{Brightness: model.Int(value)})
}

func (c *Controller) SetPower(ctx context.Context, state int) model.Status {
	if state < int(model.PowerOff) || state > int(model.PowerToggle) {
		return failure(model.NewValidationError("Power state must be 0 (Off), 1 (On), or 2 (Toggle)"))
	}
	return c.run(ctx, model.DesiredState{Power: model.Power(model.PowerAction(state))})
}

func (c *Controller) SetColor(ctx context.Context, color ports.ColorInput) model.Status {
	rgb, ok, err := resolveColor(color, "")
	if err != nil {
		return failure(err)
	}
	if !ok {
		rgb = []int{0, 0, 0}
	}
	if color.W != nil {
		log.WithField("w", *color.W).Warn("White channel is ignored for Hyperion color commands")
	}
	return c.run(ctx, model.DesiredState{Segment: &model.Segment{Colors: [][]int{rgb}}})
}

func (c *Controller) SetEffect(ctx context.Context, req ports.EffectRequest) model.Status {
	seg := &model.Segment{Effect: model.Int(req.Index)}

	for _, in := range []struct {
		label string
		color *ports.ColorInput
	}{{"Primary", req.Primary}, {"Secondary", req.Secondary}} {
		if in.color == nil {
			continue
		}
		rgb, ok, err := resolveColor(*in.color, in.label)
		if err != nil {
			return failure(err)
		}
		if !ok {
			continue
		}
		if in.color.W != nil {
			if err := checkRange(in.label+" white value", *in.color.W, 0, 255); err != nil {
				return failure(err)
			}
			log.Debugf("%s white channel is ignored for Hyperion effect colors", in.label)
		}
		seg.Colors = append(seg.Colors, rgb)
	}

	if req.Speed != nil {
		if err := checkRange("Speed", *req.Speed, 0, 255); err != nil {
			return failure(err)
		}
		seg.Speed = model.Int(*req.Speed)
	}
	if req.Intensity != nil {
		if err := checkRange("Intensity", *req.Intensity, 0, 255); err != nil {
			return failure(err)
		}
		seg.Intensity = model.Int(*req.Intensity)
	}
	if req.Palette != nil {
		if err := checkRange("Palette index", *req.Palette, 0, maxPalette); err != nil {
			return failure(err)
		}
		seg.Palette = model.Int(*req.Palette)
	}

	state := model.DesiredState{Segment: seg}
	if req.Brightness != nil {
		if err := checkRange("Brightness", *req.Brightness, 0, 255); err != nil {
			return failure(err)
		}
		state.Brightness = model.Int(*req.Brightness)
	}
	if req.Transition != 0 {
		state.Transition = model.Int(req.Transition)
	}
	return c.run(ctx, state)
}

func (c *Controller) SetPreset(ctx context.Context, id int) model.Status {
	return c.run(ctx, model.DesiredState{Preset: model.Int(id)})
}

// Apply runs a raw WLED state update, validated with the same ranges as the
// named operations.
func (c *Controller) Apply(ctx context.Context, state model.DesiredState) model.Status {
	if err := validateState(state); err != nil {
		return failure(err)
	}
	return c.run(ctx, state)
}

// run is the single path to Hyperion: configuration check, command synthesis,
// then a fresh status read. It never panics.
func (c *Controller) run(ctx context.Context, state model.DesiredState) (status model.Status) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("Hyperion adapter panicked")
			status = model.FailedStatus(fmt.Sprintf("Unexpected Hyperion adapter error: %v", r))
		}
	}()

	if !c.hyperion.IsConfigured() {
		return failure(model.ErrConfiguration)
	}

	c.mu.RLock()
	synth, recon := c.synth, c.recon
	c.mu.RUnlock()

	if !state.IsEmpty() {
		if err := synth.Apply(ctx, state); err != nil {
			return failure(err)
		}
	}
	status, err := recon.Status(ctx)
	if err != nil {
		return failure(err)
	}
	return status
}

func failure(err error) model.Status {
	if errors.Is(err, model.ErrValidation) {
		log.WithError(err).Info("Rejected WLED request")
	} else {
		log.WithError(err).Warn("Hyperion request failed")
	}
	return model.FailedStatus(Message(err))
}

// Message renders err as the caller-facing status message.
func Message(err error) string {
	switch {
	case errors.Is(err, model.ErrConfiguration):
		return model.ErrConfiguration.Error()
	case errors.Is(err, model.ErrValidation):
		return err.Error()
	case errors.Is(err, model.ErrTimeout), errors.Is(err, model.ErrConnection):
		return "Cannot connect to Hyperion: " + err.Error()
	case errors.Is(err, model.ErrProtocol):
		return "Error parsing Hyperion response: " + err.Error()
	}
	return "Unexpected Hyperion adapter error: " + err.Error()
}

func checkRange(what string, v, lo, hi int) error {
	if v < lo || v > hi {
		return model.NewValidationError(fmt.Sprintf("%s must be between %d and %d", what, lo, hi))
	}
	return nil
}

func validateState(s model.DesiredState) error {
	if s.Power != nil && (*s.Power < model.PowerOff || *s.Power > model.PowerToggle) {
		return model.NewValidationError("Power state must be 0 (Off), 1 (On), or 2 (Toggle)")
	}
	if s.Brightness != nil {
		if err := checkRange("Brightness", *s.Brightness, 0, 255); err != nil {
			return err
		}
	}
	if s.Transition != nil && *s.Transition < 0 {
		return model.NewValidationError("Transition must not be negative")
	}
	if s.Segment == nil {
		return nil
	}
	seg := s.Segment
	for _, f := range []struct {
		what string
		v    *int
		hi   int
	}{{"Speed", seg.Speed, 255}, {"Intensity", seg.Intensity, 255}, {"Palette index", seg.Palette, maxPalette}} {
		if f.v == nil {
			continue
		}
		if err := checkRange(f.what, *f.v, 0, f.hi); err != nil {
			return err
		}
	}
	for _, col := range seg.Colors {
		if len(col) < 3 || len(col) > 4 {
			return model.NewValidationError("Colors must have 3 or 4 channels")
		}
		for _, ch := range col {
			if err := checkRange("Color channels", ch, 0, 255); err != nil {
				return err
			}
		}
	}
	return nil
}
