package model

import (
	"math"

	"github.com/amimof/huego"
)

// HueLightID is the only light the Hue emulation exposes.
const HueLightID = "1"

// Device is the Hyperion instance as a Hue light.
type Device struct {
	ID    string
	Name  string
	State *huego.State
}

// DeviceFromStatus projects a bridge status onto Hue light state.
func DeviceFromStatus(name string, s Status) *Device {
	return &Device{
		ID:   HueLightID,
		Name: name,
		State: &huego.State{
			On:        s.IsOn,
			Bri:       HueBrightness(s.Brightness),
			Reachable: s.Connected,
			ColorMode: "hs",
			Effect:    "none",
			Alert:     "none",
		},
	}
}

// HueBrightness maps WLED 0-255 to Hue 1-254.
func HueBrightness(wled int) uint8 {
	v := math.Round(float64(wled) * 254 / 255)
	if v < 1 {
		v = 1
	}
	if v > 254 {
		v = 254
	}
	return uint8(v)
}

// WLEDBrightness maps Hue 0-254 to WLED 0-255.
func WLEDBrightness(hue uint8) int {
	v := int(math.Round(float64(hue) * 255 / 254))
	if v > 255 {
		v = 255
	}
	return v
}
