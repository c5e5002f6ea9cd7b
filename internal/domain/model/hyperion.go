package model

// Hyperion JSON-RPC vocabulary used by the bridge.
const (
	CommandServerInfo     = "serverinfo"
	CommandComponentState = "componentstate"
	CommandAdjustment     = "adjustment"
	CommandEffect         = "effect"
	CommandColor          = "color"

	ComponentLEDDevice = "LEDDEVICE"

	// componentId values reported on the priorities list
	ComponentIDEffect = "EFFECT"
	ComponentIDColor  = "COLOR"
)

// Command is a single request line sent to Hyperion.
type Command struct {
	Command        string          `json:"command"`
	// Tan is always sent; nil lets the transport pick one.
	Tan            *int            `json:"tan"`
	Token          string          `json:"token,omitempty"`
	ComponentState *ComponentState `json:"componentstate,omitempty"`
	Adjustment     *Adjustment     `json:"adjustment,omitempty"`
	Effect         *EffectCall     `json:"effect,omitempty"`
	Color          []int           `json:"color,omitempty"`
	Priority       int             `json:"priority,omitempty"`
	Origin         string          `json:"origin,omitempty"`
}

type ComponentState struct {
	Component string `json:"component"`
	State     bool   `json:"state"`
}

type Adjustment struct {
	Brightness int `json:"brightness"`
}

type EffectCall struct {
	Name string                 `json:"name"`
	Args map[string]interface{} `json:"args"`
}

// Response is the decoded reply line. Success=false is data, not a transport failure.
type Response struct {
	Command string      `json:"command,omitempty"`
	Success bool        `json:"success"`
	Error   string      `json:"error,omitempty"`
	Tan     int         `json:"tan,omitempty"`
	Info    *ServerInfo `json:"info,omitempty"`
}

// ServerInfo is the subset of Hyperion's serverinfo snapshot the bridge reads.
type ServerInfo struct {
	Components []Component      `json:"components"`
	Adjustment []AdjustmentInfo `json:"adjustment"`
	Priorities []PriorityEntry  `json:"priorities"`
}

type Component struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

type AdjustmentInfo struct {
	ID         string   `json:"id,omitempty"`
	Brightness *float64 `json:"brightness,omitempty"`
}

type PriorityEntry struct {
	Priority    int           `json:"priority"`
	Visible     bool          `json:"visible"`
	Active      bool          `json:"active,omitempty"`
	ComponentID string        `json:"componentId"`
	Owner       string        `json:"owner"`
	Origin      string        `json:"origin,omitempty"`
	Value       PriorityValue `json:"value"`
}

type PriorityValue struct {
	RGB []int `json:"RGB,omitempty"`
}

// ComponentEnabled reports the enabled flag of the named component and whether it was listed.
func (i *ServerInfo) ComponentEnabled(name string) (enabled bool, found bool) {
	if i == nil {
		return false, false
	}
	for _, c := range i.Components {
		if c.Name == name {
			return c.Enabled, true
		}
	}
	return false, false
}
