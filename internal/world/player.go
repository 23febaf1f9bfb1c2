package world

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

// Player is a connected (or recently connected) human character. Mutable
// fields (Room, Stamina, Visited) must only be changed through
// State.UpdatePlayer so concurrent commands cannot race.
type Player struct {
	Id         string `json:"id"`
	PlayerName string `json:"name"`
	World      string `json:"world"`
	Room       string `json:"room"`

	Stamina    int `json:"stamina"`
	StaminaMax int `json:"stamina_max"`
	Level      int `json:"level"`

	Invisible bool `json:"invisible,omitempty"`
	Present   bool `json:"in_game"`
	Muted     bool `json:"muted,omitempty"`
	Builder   bool `json:"builder,omitempty"`

	// RoomBrief suppresses room descriptions on movement.
	RoomBrief bool `json:"room_brief,omitempty"`

	// Visited holds room ids already seen, for minimap assembly.
	Visited []string `json:"visited,omitempty"`
}

func (p *Player) Key() string          { return PlayerKey(p.Id) }
func (p *Player) Kind() ActorKind      { return ActorKindPlayer }
func (p *Player) Name() string         { return p.PlayerName }
func (p *Player) RoomID() string       { return p.Room }
func (p *Player) WorldID() string      { return p.World }
func (p *Player) IsInvisible() bool    { return p.Invisible }
func (p *Player) InGame() bool         { return p.Present }

func (p *Player) Validate() error {
	el := errors.NewErrorList()

	if p.PlayerName == "" {
		el.Add(fmt.Errorf("name is required"))
	}
	if p.World == "" {
		el.Add(fmt.Errorf("world is required"))
	}
	if p.StaminaMax < 0 || p.Stamina < 0 {
		el.Add(fmt.Errorf("stamina cannot be negative"))
	}

	return el.Err()
}

// HasVisited reports whether the player has already seen roomId.
func (p *Player) HasVisited(roomId string) bool {
	for _, id := range p.Visited {
		if id == roomId {
			return true
		}
	}
	return false
}

// MarkVisited records roomId on the player's visited list.
func (p *Player) MarkVisited(roomId string) {
	if roomId == "" || p.HasVisited(roomId) {
		return
	}
	p.Visited = append(p.Visited, roomId)
}
