package world

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

// MobTemplate is the authored definition a live mob is stamped from.
// Event-reaction triggers target templates, so every instance of a template
// shares the same reactions.
type MobTemplate struct {
	MobName  string `json:"name"`
	World    string `json:"world"`
	RoomDesc string `json:"room_description,omitempty"`
}

func (t *MobTemplate) Validate() error {
	el := errors.NewErrorList()

	if t.MobName == "" {
		el.Add(fmt.Errorf("name is required"))
	}
	if t.World == "" {
		el.Add(fmt.Errorf("world is required"))
	}

	return el.Err()
}

// Mob is a live non-player actor placed in a room.
type Mob struct {
	Id       string `json:"id"`
	MobName  string `json:"name"`
	Template string `json:"template,omitempty"`
	World    string `json:"world"`
	Room     string `json:"room"`

	Invisible bool `json:"invisible,omitempty"`
}

func (m *Mob) Key() string       { return MobKey(m.Id) }
func (m *Mob) Kind() ActorKind   { return ActorKindMob }
func (m *Mob) Name() string      { return m.MobName }
func (m *Mob) RoomID() string    { return m.Room }
func (m *Mob) WorldID() string   { return m.World }
func (m *Mob) IsInvisible() bool { return m.Invisible }

// InGame is always true for mobs; they have no connection to lose.
func (m *Mob) InGame() bool { return true }

func (m *Mob) Validate() error {
	el := errors.NewErrorList()

	if m.MobName == "" {
		el.Add(fmt.Errorf("name is required"))
	}
	if m.World == "" {
		el.Add(fmt.Errorf("world is required"))
	}

	return el.Err()
}
