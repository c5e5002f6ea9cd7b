package service

import (
	"fmt"
	"strings"
	"wled-hyperion-bridge/internal/domain/model"
	"wled-hyperion-bridge/internal/ports"

	"github.com/lucasb-eyer/go-colorful"
)

// resolveColor reads a color input as hex (preferred) or as r/g/b components,
// missing components counting as 0. ok is false when neither was supplied.
// label prefixes hex errors, e.g. "Primary color hex error: ...".
func resolveColor(in ports.ColorInput, label string) (rgb []int, ok bool, err error) {
	if in.Hex != nil {
		rgb, err := parseHex(*in.Hex)
		if err != nil {
			if label != "" {
				return nil, false, model.NewValidationError(fmt.Sprintf("%s color hex error: %s", label, err))
			}
			return nil, false, err
		}
		return rgb, true, nil
	}
	if in.R == nil && in.G == nil && in.B == nil {
		return nil, false, nil
	}
	rgb = []int{deref(in.R), deref(in.G), deref(in.B)}
	for _, ch := range rgb {
		if err := checkRange("Color components", ch, 0, 255); err != nil {
			return nil, false, err
		}
	}
	return rgb, true, nil
}

// parseHex accepts "RRGGBB" with any number of leading '#'.
func parseHex(s string) ([]int, error) {
	digits := strings.TrimLeft(s, "#")
	if len(digits) != 6 {
		return nil, model.NewValidationError("Hex color must be 6 characters long (without #)")
	}
	c, err := colorful.Hex("#" + digits)
	if err != nil {
		return nil, model.NewValidationError(fmt.Sprintf("Hex color %q is not valid", s))
	}
	r, g, b := c.RGB255()
	return []int{int(r), int(g), int(b)}, nil
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
