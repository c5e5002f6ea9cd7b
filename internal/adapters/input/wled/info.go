package wled

import (
	"wled-hyperion-bridge/internal/domain/model"
)

const (
	version      = "0.14.4"
	paletteCount = 47
	// unmappedEffect is listed for indices Hyperion has no effect for; WLED
	// uses "RSVD" for reserved slots.
	unmappedEffect = "RSVD"
)

type Leds struct {
	Count int  `json:"count"`
	RGBW  bool `json:"rgbw"`
}

// Info is the WLED /json/info reply.
type Info struct {
	Ver      string `json:"ver"`
	Name     string `json:"name"`
	Brand    string `json:"brand"`
	Product  string `json:"product"`
	Arch     string `json:"arch"`
	IP       string `json:"ip"`
	MAC      string `json:"mac"`
	Live     bool   `json:"live"`
	FxCount  int    `json:"fxcount"`
	PalCount int    `json:"palcount"`
	Leds     Leds   `json:"leds"`
}

// Document is the combined /json reply.
type Document struct {
	State   State    `json:"state"`
	Info    Info     `json:"info"`
	Effects []string `json:"effects"`
}

func NewInfo(cfg *model.Config, ip string) Info {
	return Info{
		Ver:      version,
		Name:     cfg.Name,
		Brand:    "WLED",
		Product:  "Hyperion bridge",
		Arch:     "go",
		IP:       ip,
		MAC:      model.BridgeSerial(ip),
		FxCount:  len(EffectNames(cfg.Effects)),
		PalCount: paletteCount,
		Leds:     Leds{Count: 1},
	}
}

// EffectNames lists effects by WLED index up to the highest mapped one.
func EffectNames(effects model.EffectMap) []string {
	highest := -1
	for index := range effects {
		if index > highest {
			highest = index
		}
	}
	names := make([]string, highest+1)
	for i := range names {
		name, ok := effects.Lookup(i)
		if !ok {
			name = unmappedEffect
		}
		names[i] = name
	}
	return names
}
