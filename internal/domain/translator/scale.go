package translator

import (
	"fmt"
	"math"

	"github.com/Knetic/govaluate"
)

// DefaultArgFormula maps WLED speed/intensity 0-255 onto Hyperion's ~0.1-2.0 range.
const DefaultArgFormula = "x / 128.0"

const minEffectArg = 0.1

// BrightnessToHyperion rescales WLED 0-255 to Hyperion 0-100.
func BrightnessToHyperion(wled int) int {
	return clamp(int(math.RoundToEven(float64(wled)*100/255)), 0, 100)
}

// BrightnessFromHyperion rescales Hyperion 0-100 to WLED 0-255.
func BrightnessFromHyperion(hyperion float64) int {
	return clamp(int(math.RoundToEven(hyperion*255/100)), 0, 255)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ArgScaler turns WLED speed/intensity into Hyperion effect arguments.
type ArgScaler struct {
	formula    string
	expression *govaluate.EvaluableExpression
}

func NewArgScaler(formula string) (*ArgScaler, error) {
	if formula == "" {
		formula = DefaultArgFormula
	}
	expression, err := govaluate.NewEvaluableExpression(formula)
	if err != nil {
		return nil, fmt.Errorf("effect arg formula %q: %w", formula, err)
	}
	return &ArgScaler{formula: formula, expression: expression}, nil
}

// Scale evaluates the formula for x and never returns less than 0.1.
// A formula that fails at runtime falls back to x / 128.
func (s *ArgScaler) Scale(x int) float64 {
	v := float64(x) / 128.0
	if s != nil && s.expression != nil {
		result, err := s.expression.Evaluate(map[string]interface{}{"x": float64(x)})
		if f, ok := result.(float64); err == nil && ok {
			v = f
		}
	}
	return math.Max(minEffectArg, v)
}

func (s *ArgScaler) Formula() string {
	if s == nil {
		return DefaultArgFormula
	}
	return s.formula
}
