package translator

import (
	"strconv"
	"time"
	"wled-hyperion-bridge/internal/domain/model"
)

// DefaultPowerOnSettle is how long Hyperion gets to enable the LED device
// before the visual commands that follow an automatic power-on.
const DefaultPowerOnSettle = 100 * time.Millisecond

// Options carries the static translation tables and command attribution.
type Options struct {
	Effects  model.EffectMap
	Presets  model.PresetMap
	Priority int
	Origin   string
	Args     *ArgScaler
	// PowerOnSettle < 0 disables the pause.
	PowerOnSettle time.Duration
}

// OptionsFromConfig builds translation options from the bridge configuration.
func OptionsFromConfig(cfg *model.Config) (Options, error) {
	args, err := NewArgScaler(cfg.EffectArgFormula)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Effects:  cfg.Effects,
		Presets:  cfg.Presets,
		Priority: cfg.Priority,
		Origin:   cfg.Origin,
		Args:     args,
	}, nil
}

func (o Options) withDefaults() Options {
	if o.Effects == nil {
		o.Effects = model.EffectMap{}
	}
	if o.Presets == nil {
		o.Presets = model.PresetMap{}
	}
	if o.Priority == 0 {
		o.Priority = model.DefaultPriority
	}
	if o.Origin == "" {
		o.Origin = model.DefaultOrigin
	}
	if o.Args == nil {
		o.Args, _ = NewArgScaler(DefaultArgFormula)
	}
	if o.PowerOnSettle == 0 {
		o.PowerOnSettle = DefaultPowerOnSettle
	}
	return o
}

// presetOrigin is origin + "_P<id>", cut to Hyperion's origin limit.
func presetOrigin(origin string, id int) string {
	o := origin + "_P" + strconv.Itoa(id)
	if len(o) > model.MaxOriginLength {
		o = o[:model.MaxOriginLength]
	}
	return o
}
