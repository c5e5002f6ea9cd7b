package service

import (
	"strconv"
	"strings"
	"wled-hyperion-bridge/internal/domain/model"
)

const (
	MsgEffectIndex = "Effect index must be a valid integer"
	MsgPresetID    = "Preset ID must be an integer"
)

// ParseInt coerces a textual id from a request. A failure is a validation
// error carrying msg.
func ParseInt(raw, msg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, model.NewValidationError(msg)
	}
	return n, nil
}

// ParseOptionalInt is ParseInt for parameters that may be absent.
func ParseOptionalInt(raw, msg string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	n, err := ParseInt(raw, msg)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
