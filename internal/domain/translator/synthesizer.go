package translator

import (
	"context"
	"time"
	"wled-hyperion-bridge/internal/domain/model"
	"wled-hyperion-bridge/internal/ports"

	log "github.com/sirupsen/logrus"
)

// Synthesizer turns a DesiredState into the Hyperion command sequence.
type Synthesizer struct {
	sender ports.CommandSender
	opts   Options
}

func NewSynthesizer(sender ports.CommandSender, opts Options) *Synthesizer {
	return &Synthesizer{sender: sender, opts: opts.withDefaults()}
}

// Apply issues the commands for state in order: auto power-on, power,
// brightness, segment, preset. The first transport error aborts the sequence;
// success=false replies do not.
func (s *Synthesizer) Apply(ctx context.Context, state model.DesiredState) error {
	before, haveBefore := readServerInfo(ctx, s.sender)
	wasOn := ledDeviceOn(before)

	if !wasOn && state.IsVisual() && !state.IsPowerControl() {
		log.Debug("Hyperion LEDDEVICE is off, turning it on first")
		if err := s.send(ctx, powerCommand(true)); err != nil {
			return err
		}
		if err := s.settle(ctx); err != nil {
			return err
		}
	}

	if state.Power != nil {
		target := *state.Power == model.PowerOn
		if *state.Power == model.PowerToggle {
			current := wasOn
			if !haveBefore {
				if info, ok := readServerInfo(ctx, s.sender); ok {
					current = ledDeviceOn(info)
				}
			}
			target = !current
		}
		if err := s.send(ctx, powerCommand(target)); err != nil {
			return err
		}
	}

	if state.Brightness != nil {
		cmd := model.Command{
			Command:    model.CommandAdjustment,
			Adjustment: &model.Adjustment{Brightness: BrightnessToHyperion(*state.Brightness)},
		}
		if err := s.send(ctx, cmd); err != nil {
			return err
		}
	}

	if state.Segment != nil {
		if err := s.applySegment(ctx, *state.Segment); err != nil {
			return err
		}
	}

	if state.Preset != nil {
		if err := s.applyPreset(ctx, *state.Preset); err != nil {
			return err
		}
	}

	if state.Transition != nil {
		log.Debug("WLED transition is ignored for Hyperion commands")
	}
	return nil
}

func (s *Synthesizer) applySegment(ctx context.Context, seg model.Segment) error {
	if seg.Effect != nil {
		name, ok := s.opts.Effects.Lookup(*seg.Effect)
		if !ok {
			log.WithField("effect", *seg.Effect).Warn("No Hyperion effect mapping for WLED effect index")
			return nil
		}
		return s.send(ctx, model.Command{
			Command:  model.CommandEffect,
			Effect:   &model.EffectCall{Name: name, Args: s.effectArgs(seg)},
			Priority: s.opts.Priority,
			Origin:   s.opts.Origin,
		})
	}

	if len(seg.Colors) == 0 {
		return nil
	}
	return s.send(ctx, model.Command{
		Command:  model.CommandColor,
		Color:    rgb(seg.Colors[0]),
		Priority: s.opts.Priority,
		Origin:   s.opts.Origin,
	})
}

func (s *Synthesizer) effectArgs(seg model.Segment) map[string]interface{} {
	args := map[string]interface{}{}
	if seg.Speed != nil {
		args["speed"] = s.opts.Args.Scale(*seg.Speed)
	}
	if seg.Intensity != nil {
		args["intensity"] = s.opts.Args.Scale(*seg.Intensity)
	}
	if len(seg.Colors) > 0 {
		colors := make([][]int, 0, len(seg.Colors))
		for _, c := range seg.Colors {
			colors = append(colors, rgb(c))
		}
		if len(colors) == 1 {
			args["color"] = colors[0]
		}
		args["colors"] = colors
	}
	if seg.Palette != nil {
		// Hyperion effects have no palette index; only effects declaring a
		// "palette" argument will use it.
		args["palette"] = *seg.Palette
	}
	return args
}

func (s *Synthesizer) applyPreset(ctx context.Context, id int) error {
	action, ok := s.opts.Presets.Lookup(id)
	if !ok {
		log.WithField("preset", id).Warn("No Hyperion preset mapping for WLED preset ID")
		return nil
	}

	cmd := model.Command{
		Priority: s.opts.Priority,
		Origin:   presetOrigin(s.opts.Origin, id),
	}
	switch a := action.(type) {
	case model.EffectPreset:
		args := a.Args
		if args == nil {
			args = map[string]interface{}{}
		}
		cmd.Command = model.CommandEffect
		cmd.Effect = &model.EffectCall{Name: a.Name, Args: args}
	case model.ColorPreset:
		cmd.Command = model.CommandColor
		cmd.Color = rgb(a.RGB)
	default:
		log.WithField("preset", id).Warnf("Unsupported preset action %T", action)
		return nil
	}
	return s.send(ctx, cmd)
}

func (s *Synthesizer) send(ctx context.Context, cmd model.Command) error {
	_, err := s.sender.Send(ctx, cmd)
	return err
}

func (s *Synthesizer) settle(ctx context.Context) error {
	if s.opts.PowerOnSettle <= 0 {
		return nil
	}
	t := time.NewTimer(s.opts.PowerOnSettle)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func powerCommand(on bool) model.Command {
	return model.Command{
		Command:        model.CommandComponentState,
		ComponentState: &model.ComponentState{Component: model.ComponentLEDDevice, State: on},
	}
}

// rgb drops any channel past blue.
func rgb(c []int) []int {
	if len(c) > 3 {
		c = c[:3]
	}
	out := make([]int, len(c))
	copy(out, c)
	return out
}
