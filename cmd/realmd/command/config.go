package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
)

type Config struct {
	TickInterval string         `json:"tick_interval"`
	StaminaRegen int            `json:"stamina_regen"`
	Storage      StorageConfig  `json:"storage"`
	Nats         NatsConfig     `json:"nats"`
	Dispatch     DispatchConfig `json:"dispatch"`
	Sidecar      SidecarConfig  `json:"sidecar"`
	Ingress      IngressConfig  `json:"ingress"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	d, err := time.ParseDuration(c.TickInterval)
	if err != nil {
		el.Add(fmt.Errorf("parsing tick_interval: %w", err))
	} else if d < time.Second {
		el.Add(fmt.Errorf("tick_interval must be at least 1 second"))
	}

	if c.StaminaRegen < 0 {
		el.Add(fmt.Errorf("stamina_regen must not be negative"))
	}

	el.Add(c.Storage.Validate())
	el.Add(c.Nats.Validate())
	el.Add(c.Dispatch.Validate())
	el.Add(c.Ingress.Validate())

	return el.Err()
}

type DispatchConfig struct {
	// MaxTriggerDepth bounds trigger re-entry; 0 uses the default.
	MaxTriggerDepth int `json:"max_trigger_depth"`
}

func (c *DispatchConfig) Validate() error {
	el := errors.NewErrorList()

	if c.MaxTriggerDepth < 0 {
		el.Add(fmt.Errorf("max_trigger_depth must not be negative"))
	}

	return el.Err()
}

type SidecarConfig struct {
	// ForwardEvents lists the event types copied to the AI sidecar task
	// queue, matched in full, e.g. ["cmd.say.success", "cmd.move.success"].
	ForwardEvents []string `json:"forward_events"`
}

type IngressConfig struct {
	Addr  string `json:"addr"`
	Token string `json:"token"`
}

func (c *IngressConfig) Validate() error {
	el := errors.NewErrorList()

	if c.Addr != "" && c.Token == "" {
		el.Add(fmt.Errorf("ingress token is required when addr is set"))
	}

	return el.Err()
}
