package service

import (
	"wled-hyperion-bridge/internal/ports"
)

// Bridge is what the input adapters talk to: the serialized light controls,
// the configuration, the canned sequences and change notifications.
type Bridge struct {
	ports.LightControlPort
	*ConfigService
	*Sequences
	*Broadcaster
}

// NewBridge serializes controller so HTTP, WebSocket and MQTT requests never
// interleave their Hyperion round trips.
func NewBridge(controller *Controller, config *ConfigService) *Bridge {
	b := &Broadcaster{}
	light := Observe(Serialize(controller), b)
	return &Bridge{
		LightControlPort: light,
		ConfigService:    config,
		Sequences:        NewSequences(light),
		Broadcaster:      b,
	}
}
