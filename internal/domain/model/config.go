package model

import "fmt"

const (
	DefaultHyperionPort = 19444
	// DefaultPriority is the priority Hyperion recommends for applications.
	DefaultPriority = 50
	DefaultOrigin   = "LEDController"
	DefaultHTTPAddr = ":80"

	// Hyperion rejects origins outside this length range.
	MinOriginLength = 4
	MaxOriginLength = 20
)

type MQTTConfig struct {
	Broker   string `json:"broker"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	ClientID string `json:"client_id,omitempty"`
	// Topic is the WLED device topic, e.g. "wled/livingroom".
	Topic string `json:"topic"`
}

type Config struct {
	HyperionHost  string `json:"hyperion_host"`
	HyperionPort  int    `json:"hyperion_port"`
	HyperionToken string `json:"hyperion_token,omitempty"`

	Priority int    `json:"priority"`
	Origin   string `json:"origin"`

	// EffectArgFormula scales WLED speed/intensity (variable: x, 0-255) to Hyperion args.
	EffectArgFormula string `json:"effect_arg_formula,omitempty"`

	Effects EffectMap `json:"effects"`
	Presets PresetMap `json:"presets"`

	LocalIP     string      `json:"local_ip,omitempty"`
	HTTPAddr    string      `json:"http_addr"`
	Name        string      `json:"name"`
	MQTT        *MQTTConfig `json:"mqtt,omitempty"`
	MDNSEnabled bool        `json:"mdns_enabled"`
}

func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills every zero-valued field that has a default.
func (c *Config) ApplyDefaults() {
	if c.HyperionPort == 0 {
		c.HyperionPort = DefaultHyperionPort
	}
	if c.Priority == 0 {
		c.Priority = DefaultPriority
	}
	if c.Origin == "" {
		c.Origin = DefaultOrigin
	}
	if c.Effects == nil {
		c.Effects = DefaultEffects()
	}
	if c.Presets == nil {
		c.Presets = DefaultPresets()
	}
	if c.HTTPAddr == "" {
		c.HTTPAddr = DefaultHTTPAddr
	}
	if c.Name == "" {
		c.Name = "Hyperion"
	}
}

func (c *Config) Validate() error {
	if n := len(c.Origin); n < MinOriginLength || n > MaxOriginLength {
		return fmt.Errorf("origin %q must be between %d and %d characters", c.Origin, MinOriginLength, MaxOriginLength)
	}
	if c.HyperionPort <= 0 || c.HyperionPort > 65535 {
		return fmt.Errorf("hyperion_port %d out of range", c.HyperionPort)
	}
	if c.MQTT != nil && c.MQTT.Broker != "" && c.MQTT.Topic == "" {
		return fmt.Errorf("mqtt.topic is required when mqtt.broker is set")
	}
	return nil
}
