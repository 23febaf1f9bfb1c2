package actions

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/realmkit/realmd/internal/event"
	"github.com/realmkit/realmd/internal/statesync"
	"github.com/realmkit/realmd/internal/world"
)

// dieCap limits both the count and the size of rolled dice.
const dieCap = 100

// Look assembles the player's room snapshot with minimap.
func Look(s *world.State, p *world.Player) ([]*event.GameEvent, error) {
	if p.Room == "" {
		return nil, NewActionError("no_room", "You are nowhere. Cannot look around.")
	}

	data := map[string]any{
		"actor":       statesync.ActorSheet(s, p),
		"target":      statesync.RoomPayload(s, p.Room, p.Key()),
		"target_type": "room",
		"map":         statesync.MapPayload(s, p),
	}

	return []*event.GameEvent{
		event.New("cmd.look.success", []string{p.Key()}, data),
	}, nil
}

// Inventory assembles the player's held-item listing.
func Inventory(s *world.State, p *world.Player) []*event.GameEvent {
	data := map[string]any{
		"actor": statesync.ActorSheet(s, p),
	}
	return []*event.GameEvent{
		event.New("cmd.inventory.success", []string{p.Key()}, data),
	}
}

// NormalizeDie canonicalizes a die descriptor: blank means "1d6" and a bare
// integer M means "1dM".
func NormalizeDie(target string) string {
	normalized := strings.TrimSpace(target)
	if normalized == "" {
		normalized = "6"
	}
	if !strings.Contains(normalized, "d") {
		return fmt.Sprintf("1d%s", normalized)
	}
	return normalized
}

// parseDie splits an "NdM" descriptor, capping both parts.
func parseDie(die string) (int, int, error) {
	numPart, sizePart, found := strings.Cut(die, "d")
	if !found {
		return 0, 0, fmt.Errorf("missing d separator")
	}

	num, err := strconv.Atoi(numPart)
	if err != nil || num < 0 {
		return 0, 0, fmt.Errorf("invalid die count %q", numPart)
	}
	size, err := strconv.Atoi(sizePart)
	if err != nil || size < 0 {
		return 0, 0, fmt.Errorf("invalid die size %q", sizePart)
	}

	return min(num, dieCap), min(size, dieCap), nil
}

// RollDie computes a uniform outcome for a normalized descriptor: the sum
// of N independent M-sided rolls, so results land in [N, N*M].
func RollDie(die string) (int, error) {
	num, size, err := parseDie(die)
	if err != nil {
		return 0, err
	}
	if size == 0 {
		return 0, nil
	}

	outcome := 0
	for i := 0; i < num; i++ {
		outcome += rand.IntN(size) + 1
	}
	return outcome, nil
}

// Roll rolls the requested die and, when the player is visible and placed
// in a room, shows the result to the other players there.
func Roll(s *world.State, p *world.Player, target string) ([]*event.GameEvent, error) {
	die := NormalizeDie(target)
	outcome, err := RollDie(die)
	if err != nil {
		return nil, NewActionError("invalid_die", "That's not a die you can roll.")
	}

	data := map[string]any{
		"die":     die,
		"outcome": outcome,
	}
	events := []*event.GameEvent{
		event.New("cmd.roll.success", []string{p.Key()}, data),
	}

	if p.Room != "" && !p.Invisible {
		if keys := roomPlayerKeys(s, p); len(keys) > 0 {
			events = append(events, event.New(event.NotificationType("cmd.roll.success"), keys, map[string]any{
				"actor":   statesync.Char(s, p),
				"die":     die,
				"outcome": outcome,
			}))
		}
	}

	return events, nil
}
