package actions

import (
	"strings"

	"github.com/realmkit/realmd/internal/event"
	"github.com/realmkit/realmd/internal/statesync"
	"github.com/realmkit/realmd/internal/world"
)

// Message length caps applied to player speech.
const (
	SayLimit   = 280
	EmoteLimit = 560
)

const mutedMessage = "Your communication privileges have been removed, " +
	"you can only send tells to builders."

// Say speaks to the actor's room.
func Say(s *world.State, actor world.Actor, text string) ([]*event.GameEvent, error) {
	normalized, err := speechText(actor, text, SayLimit, "Say what?")
	if err != nil {
		return nil, err
	}
	return speechEvents(s, actor, "cmd.say.success", normalized, roomPlayerKeys(s, actor)), nil
}

// Yell broadcasts to the actor's whole zone.
func Yell(s *world.State, actor world.Actor, text string) ([]*event.GameEvent, error) {
	normalized, err := speechText(actor, text, SayLimit, "What do you want to yell?")
	if err != nil {
		return nil, err
	}
	return speechEvents(s, actor, "cmd.yell.success", normalized, zonePlayerKeys(s, actor)), nil
}

// Emote renders a third-person action line to the actor's room.
func Emote(s *world.State, actor world.Actor, text string) ([]*event.GameEvent, error) {
	normalized := strings.TrimSpace(text)
	if normalized == "" {
		return nil, NewActionError("invalid_args", "What do you want to express?")
	}
	if p, ok := actor.(*world.Player); ok && p.Muted {
		return nil, NewActionError("muted", mutedMessage)
	}
	normalized = truncate(normalized, EmoteLimit)

	return speechEvents(s, actor, "cmd.emote.success", normalized, roomPlayerKeys(s, actor)), nil
}

// speechText normalizes and guards player speech: blank input fails, muted
// players cannot speak, and player text is capped. Mob speech is uncapped.
func speechText(actor world.Actor, text string, limit int, emptyMessage string) (string, error) {
	normalized := strings.TrimSpace(text)
	if normalized == "" {
		return "", NewActionError("invalid_args", emptyMessage)
	}

	if p, ok := actor.(*world.Player); ok {
		if p.Muted {
			return "", NewActionError("muted", mutedMessage)
		}
		normalized = truncate(normalized, limit)
	}

	return normalized, nil
}

// speechEvents builds the speaker's completion event plus the third-person
// notification for the listening players.
func speechEvents(s *world.State, actor world.Actor, successType, text string, listeners []string) []*event.GameEvent {
	data := map[string]any{
		"actor": statesync.Char(s, actor),
		"text":  text,
	}

	events := []*event.GameEvent{
		event.New(successType, []string{actor.Key()}, data),
	}
	if len(listeners) > 0 {
		events = append(events, event.New(event.NotificationType(successType), listeners, data))
	}
	return events
}

// roomPlayerKeys lists the in-game players sharing the actor's room,
// excluding the actor itself.
func roomPlayerKeys(s *world.State, actor world.Actor) []string {
	if actor.RoomID() == "" {
		return nil
	}

	var keys []string
	for _, p := range s.PlayersInRoom(actor.RoomID()) {
		if p.Key() == actor.Key() {
			continue
		}
		keys = append(keys, p.Key())
	}
	return keys
}

// zonePlayerKeys lists the in-game players anywhere in the actor's zone,
// excluding the actor itself.
func zonePlayerKeys(s *world.State, actor world.Actor) []string {
	room := s.Room(actor.RoomID())
	if room == nil {
		return nil
	}

	var keys []string
	for _, p := range s.PlayersInZone(actor.WorldID(), room.Zone) {
		if p.Key() == actor.Key() {
			continue
		}
		keys = append(keys, p.Key())
	}
	return keys
}

func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit]
}
