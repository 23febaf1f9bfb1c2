// Package statesync projects the in-memory game state into the wire-shaped
// payloads sent to clients: per-event fragments (room, char, actor) and the
// full snapshot delivered on connect or reconnect. Everything here is a pure
// read; ordering is deterministic so the same state always serializes to the
// same bytes.
package statesync

import (
	"fmt"
	"sort"
	"strings"

	"github.com/realmkit/realmd/internal/match"
	"github.com/realmkit/realmd/internal/world"
)

// RoomKey is the canonical client-facing key for a room id.
func RoomKey(roomId string) string {
	return fmt.Sprintf("room.%s", roomId)
}

// Char serializes an actor as seen by others in a room. Mobs stamped from a
// template inherit its authored room description.
func Char(s *world.State, a world.Actor) map[string]any {
	roomDesc := ""
	if m, ok := a.(*world.Mob); ok && m.Template != "" {
		if tpl := s.Template(m.Template); tpl != nil {
			roomDesc = tpl.RoomDesc
		}
	}
	if roomDesc == "" {
		roomDesc = capfirst(a.Name()) + " is here."
	}

	payload := map[string]any{
		"key":              a.Key(),
		"name":             a.Name(),
		"char_type":        string(a.Kind()),
		"room_description": roomDesc,
		"is_invisible":     a.IsInvisible(),
	}
	if m, ok := a.(*world.Mob); ok && m.Template != "" {
		payload["template_id"] = m.Template
	}
	return payload
}

// RoomPayload serializes one room with its occupants and advertised trigger
// actions. Exits map directions to room keys in fixed direction order.
func RoomPayload(s *world.State, roomId, viewerKey string) map[string]any {
	r := s.Room(roomId)
	if r == nil {
		return map[string]any{
			"key":         "room.unknown",
			"name":        "Unknown Room",
			"description": "Room data is unavailable.",
		}
	}

	exits := map[string]any{}
	for _, dir := range world.Directions {
		if dest := r.Exit(dir); dest != "" {
			exits[dir] = RoomKey(dest)
		}
	}

	chars := []any{}
	for _, occupant := range s.RoomOccupants(roomId) {
		chars = append(chars, Char(s, occupant))
	}

	payload := map[string]any{
		"key":         RoomKey(roomId),
		"name":        r.RoomName,
		"description": r.Description,
		"type":        r.Terrain,
		"zone":        r.Zone,
		"x":           r.X,
		"y":           r.Y,
		"exits":       exits,
		"chars":       chars,
		"actions":     roomActionLabels(s, r, roomId),
	}
	return payload
}

// roomActionLabels surfaces command-intercept triggers as display labels,
// using the first literal term of each trigger's match expression.
func roomActionLabels(s *world.State, r *world.Room, roomId string) []any {
	labels := []any{}
	seen := map[string]struct{}{}
	for _, t := range s.Triggers(r.World, world.TriggerKindCommand) {
		if t.Room != "" && t.Room != roomId {
			continue
		}
		label := match.FirstTerm(t.Match)
		if label == "" {
			continue
		}
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		labels = append(labels, label)
	}
	return labels
}

// ActorSheet serializes the full player sheet sent to its own client.
func ActorSheet(s *world.State, p *world.Player) map[string]any {
	var room any
	if p.Room != "" {
		room = map[string]any{"key": RoomKey(p.Room)}
	}

	return map[string]any{
		"key":         p.Key(),
		"name":        p.PlayerName,
		"level":       p.Level,
		"stamina":     p.Stamina,
		"stamina_max": p.StaminaMax,
		"room":        room,
		"world":       p.World,
		"inventory":   []any{},
	}
}

// MapPayload assembles the minimap: the player's current room plus visited,
// landmark, and starting rooms of the player's world, sorted by room id.
func MapPayload(s *world.State, p *world.Player) []any {
	ids := map[string]struct{}{}
	if p.Room != "" {
		ids[p.Room] = struct{}{}
	}
	for _, id := range p.Visited {
		if r := s.Room(id); r != nil && r.World == p.World {
			ids[id] = struct{}{}
		}
	}
	if w := s.World(p.World); w != nil && w.StartingRoom != "" {
		ids[w.StartingRoom] = struct{}{}
	}
	for id, r := range s.AllRooms() {
		if r.Landmark && r.World == p.World {
			ids[id] = struct{}{}
		}
	}

	sorted := make([]string, 0, len(ids))
	for id := range ids {
		sorted = append(sorted, id)
	}
	sort.Strings(sorted)

	rooms := []any{}
	for _, id := range sorted {
		r := s.Room(id)
		if r == nil {
			continue
		}

		entry := map[string]any{
			"key":  RoomKey(id),
			"x":    r.X,
			"y":    r.Y,
			"type": r.Terrain,
		}
		for _, dir := range world.Directions {
			if dest := r.Exit(dir); dest != "" {
				entry[dir] = RoomKey(dest)
			}
		}
		rooms = append(rooms, entry)
	}
	return rooms
}

// WorldPayload serializes the world config block.
func WorldPayload(s *world.State, id string) map[string]any {
	w := s.World(id)
	if w == nil {
		return nil
	}

	context := w.Context
	if context == "" {
		context = id
	}

	payload := map[string]any{
		"key":     id,
		"name":    w.WorldName,
		"context": context,
		"state":   string(w.Lifecycle()),
	}
	if w.StartingRoom != "" {
		payload["starting_room"] = RoomKey(w.StartingRoom)
	}
	return payload
}

// WhoList serializes the connected players of the viewer's world, sorted by
// name. Invisible players are hidden from everyone but themselves.
func WhoList(s *world.State, viewer *world.Player) []any {
	entries := []any{}
	for _, p := range s.WhoList() {
		if p.World != viewer.World {
			continue
		}
		if p.Invisible && p.Id != viewer.Id {
			continue
		}
		entries = append(entries, map[string]any{
			"key":          p.Key(),
			"name":         p.PlayerName,
			"level":        p.Level,
			"is_invisible": p.Invisible,
		})
	}
	return entries
}

// Build assembles the full state snapshot for one player.
func Build(s *world.State, p *world.Player) map[string]any {
	return map[string]any{
		"map":      MapPayload(s, p),
		"actor":    ActorSheet(s, p),
		"room":     RoomPayload(s, p.Room, p.Key()),
		"world":    WorldPayload(s, p.World),
		"who_list": WhoList(s, p),
	}
}

func capfirst(value string) string {
	if value == "" {
		return ""
	}
	return strings.ToUpper(value[:1]) + value[1:]
}
