package world

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/realmkit/realmd/internal/match"
)

// Trigger kinds: event triggers fire when a mob observes something happen,
// command triggers fire when a player's input matched no registered verb.
type TriggerKind string

const (
	TriggerKindEvent   TriggerKind = "event"
	TriggerKindCommand TriggerKind = "command"
)

// Event tags an event trigger can react to.
const (
	TriggerEventEntering = "entering"
	TriggerEventSaying   = "saying"
)

// GateOneShot as a gate delay means the trigger fires once, ever.
const GateOneShot = -1

// Trigger is an authored reaction rule. Scope narrows from world-wide to a
// single room or mob template: a trigger with neither Room nor MobTemplate
// applies everywhere in its world.
type Trigger struct {
	World       string      `json:"world"`
	Kind        TriggerKind `json:"kind"`
	Room        string      `json:"room,omitempty"`
	MobTemplate string      `json:"mob_template,omitempty"`

	// Event is the observed-event tag an event trigger reacts to.
	Event string `json:"event,omitempty"`

	// Match is a match expression tested against the observed text
	// (event triggers) or the raw command line (command triggers).
	Match string `json:"match,omitempty"`

	// Conditions is a match expression over actor attributes that must
	// hold for the observing or commanding actor.
	Conditions string `json:"conditions,omitempty"`

	// Script holds command lines the owning mob runs when the trigger
	// fires, separated by newlines or "&&".
	Script string `json:"script,omitempty"`

	// Feedback is sent back to the commanding actor when a command
	// trigger fires without a script.
	Feedback string `json:"feedback,omitempty"`

	// GateDelay throttles refiring: seconds between firings, 0 for no
	// gate, GateOneShot to fire exactly once.
	GateDelay int `json:"gate_delay,omitempty"`

	Order  int  `json:"order,omitempty"`
	Active bool `json:"active"`
}

func (t *Trigger) Validate() error {
	el := errors.NewErrorList()

	if t.World == "" {
		el.Add(fmt.Errorf("world is required"))
	}

	switch t.Kind {
	case TriggerKindEvent:
		switch t.Event {
		case TriggerEventEntering:
		case TriggerEventSaying:
			if match.FirstTerm(t.Match) == "" {
				el.Add(fmt.Errorf("saying triggers require a non-blank match expression"))
			}
		default:
			el.Add(fmt.Errorf("unknown trigger event %q", t.Event))
		}
	case TriggerKindCommand:
		if t.Event != "" {
			el.Add(fmt.Errorf("command triggers cannot set an event"))
		}
	default:
		el.Add(fmt.Errorf("unknown trigger kind %q", t.Kind))
	}

	if t.Room != "" && t.MobTemplate != "" {
		el.Add(fmt.Errorf("trigger cannot target both a room and a mob template"))
	}
	if t.GateDelay < GateOneShot {
		el.Add(fmt.Errorf("gate delay cannot be below %d", GateOneShot))
	}
	if err := match.Validate(t.Match); err != nil {
		el.Add(fmt.Errorf("invalid match expression: %w", err))
	}
	if err := match.Validate(t.Conditions); err != nil {
		el.Add(fmt.Errorf("invalid conditions expression: %w", err))
	}

	return el.Err()
}
