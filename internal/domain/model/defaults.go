package model

// DefaultEffects returns the stock WLED index to Hyperion effect table.
// Indices without a reasonable Hyperion counterpart are left out.
func DefaultEffects() EffectMap {
	return EffectMap{
		2:   "Breath",
		5:   "Random",
		7:   "Random",
		8:   "Rainbow mood",
		9:   "Rainbow swirl",
		10:  "Knight rider",
		11:  "Knight rider",
		12:  "Breath",
		15:  "Waves with Color",
		17:  "Sparks",
		20:  "Sparks",
		28:  "Snake",
		38:  "Cold mood blobs",
		40:  "Knight rider",
		42:  "Sparks",
		43:  "Sparks",
		45:  "Fire",
		47:  "Knight rider",
		49:  "X-Mas",
		51:  "X-Mas",
		57:  "Strobe white",
		63:  "Rainbow swirl",
		66:  "Fire",
		67:  "Waves with Color",
		74:  "Sparks",
		75:  "Sea waves",
		76:  "Trails",
		77:  "Trails",
		80:  "X-Mas",
		88:  "Candle",
		89:  "Sparks",
		92:  "Knight rider",
		97:  "Plasma",
		100: "Breath",
		101: "Sea waves",
		102: "Candle",
		105: "Waves with Color",
		108: "Waves with Color",
		121: "Full color mood blobs",
		131: "Matrix",
		153: "Matrix",
		154: "Plasma",
		162: "Waves with Color",
		166: "Warm mood blobs",
		175: "Double swirl",
		179: "Rainbow swirl",
		180: "Plasma",
		183: "Atomic swirl",
		184: "Waves with Color",
	}
}

// DefaultPresets maps WLED presets 1 and 2 onto user-defined Hyperion effects.
func DefaultPresets() PresetMap {
	return PresetMap{
		1: EffectPreset{Name: "Preset01", Args: map[string]interface{}{}},
		2: EffectPreset{Name: "Preset02", Args: map[string]interface{}{}},
	}
}
