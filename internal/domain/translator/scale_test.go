package translator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrightnessRoundTrip(t *testing.T) {
	for b := 0; b <= 255; b++ {
		h := BrightnessToHyperion(b)
		assert.GreaterOrEqual(t, h, 0)
		assert.LessOrEqual(t, h, 100)
		assert.InDelta(t, b, BrightnessFromHyperion(float64(h)), 1, "brightness %d", b)
	}
	assert.Equal(t, 0, BrightnessToHyperion(0))
	assert.Equal(t, 100, BrightnessToHyperion(255))
	assert.Equal(t, 255, BrightnessFromHyperion(100))
}

func TestBrightnessIsClamped(t *testing.T) {
	assert.Equal(t, 0, BrightnessToHyperion(-20))
	assert.Equal(t, 100, BrightnessToHyperion(400))
	assert.Equal(t, 0, BrightnessFromHyperion(-1))
	assert.Equal(t, 255, BrightnessFromHyperion(180))
}

func TestArgScaler(t *testing.T) {
	s, err := NewArgScaler("")
	require.NoError(t, err)
	assert.Equal(t, DefaultArgFormula, s.Formula())
	assert.InDelta(t, 0.1, s.Scale(0), 1e-9)
	assert.InDelta(t, 0.1, s.Scale(12), 1e-9)
	assert.InDelta(t, 1.0, s.Scale(128), 1e-9)
	assert.InDelta(t, 150.0/128.0, s.Scale(150), 1e-9)
	assert.InDelta(t, 255.0/128.0, s.Scale(255), 1e-9)
}

func TestArgScaler_CustomFormula(t *testing.T) {
	s, err := NewArgScaler("x / 255 * 4")
	require.NoError(t, err)
	assert.InDelta(t, 4.0, s.Scale(255), 1e-9)
	assert.InDelta(t, 0.1, s.Scale(1), 1e-9)
}

func TestArgScaler_Errors(t *testing.T) {
	_, err := NewArgScaler("x * (")
	assert.Error(t, err)

	// unknown variable fails at evaluation time and falls back to x / 128
	s, err := NewArgScaler("y * 2")
	require.NoError(t, err)
	assert.InDelta(t, 2.0, s.Scale(256), 1e-9)
}
