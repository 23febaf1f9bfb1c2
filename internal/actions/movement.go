package actions

import (
	"github.com/realmkit/realmd/internal/event"
	"github.com/realmkit/realmd/internal/statesync"
	"github.com/realmkit/realmd/internal/world"
)

// MoveContext is the resolution produced by ResolveMove and consumed by the
// mutation and event-building steps, so the checks and the commit agree on
// what is being traversed.
type MoveContext struct {
	PlayerId     string
	Direction    string
	OriginRoomId string
	DestRoomId   string
	Cost         int
}

// ResolveMove validates that the player can step in direction and resolves
// the destination and stamina cost. The cost is the current room's terrain
// cost. Must be called under the player's lock.
func ResolveMove(s *world.State, p *world.Player, direction string) (*MoveContext, error) {
	if world.ReverseDirection[direction] == "" {
		return nil, NewActionError("invalid_direction", "Unknown direction.")
	}
	if p.Room == "" {
		return nil, NewActionError("no_room", "You are nowhere. Cannot move.")
	}

	room := s.Room(p.Room)
	if room == nil {
		return nil, NewActionError("invalid_room", "Current room is invalid.")
	}

	dest := room.Exit(direction)
	if dest == "" {
		return nil, NewActionError("no_exit", "You cannot go that way.")
	}

	cost := room.MoveCost()
	if p.Stamina < cost {
		return nil, NewActionError("exhausted", "You are too exhausted to move.")
	}

	return &MoveContext{
		PlayerId:     p.Id,
		Direction:    direction,
		OriginRoomId: p.Room,
		DestRoomId:   dest,
		Cost:         cost,
	}, nil
}

// ChangeRoom moves the player to the destination room and records it as
// visited for the minimap.
func ChangeRoom(p *world.Player, destRoomId string) {
	p.Room = destRoomId
	p.MarkVisited(destRoomId)
}

// AdjustStamina applies a signed stamina delta, clamped at zero.
func AdjustStamina(p *world.Player, delta int) {
	p.Stamina += delta
	if p.Stamina < 0 {
		p.Stamina = 0
	}
}

// BuildMoveEvents assembles the success event plus departure and arrival
// notifications for the already-committed move. Notifications go only to
// in-game players other than the mover, and are suppressed entirely for
// invisible movers.
func BuildMoveEvents(s *world.State, p *world.Player, mc *MoveContext) []*event.GameEvent {
	moveData := map[string]any{
		"direction": mc.Direction,
		"room":      statesync.RoomPayload(s, mc.DestRoomId, p.Key()),
		"actor":     statesync.ActorSheet(s, p),
		"map":       statesync.MapPayload(s, p),
	}

	events := []*event.GameEvent{
		event.New("cmd.move.success", []string{p.Key()}, moveData),
	}

	if p.Invisible {
		return events
	}

	actorChar := statesync.Char(s, p)

	if origin := playerKeysInRoom(s, mc.OriginRoomId, p.Id); len(origin) > 0 {
		events = append(events, event.New("notification.movement.exit", origin, map[string]any{
			"actor":     actorChar,
			"direction": mc.Direction,
		}))
	}

	if dest := playerKeysInRoom(s, mc.DestRoomId, p.Id); len(dest) > 0 {
		events = append(events, event.New("notification.movement.enter", dest, map[string]any{
			"actor":     actorChar,
			"direction": world.ReverseDirection[mc.Direction],
		}))
	}

	return events
}

// playerKeysInRoom lists the keys of in-game players in a room, excluding
// one player id.
func playerKeysInRoom(s *world.State, roomId, excludeId string) []string {
	var keys []string
	for _, p := range s.PlayersInRoom(roomId) {
		if p.Id == excludeId {
			continue
		}
		keys = append(keys, p.Key())
	}
	return keys
}
