package text

import (
	"fmt"
	"strings"

	"github.com/realmkit/realmd/internal/world"
)

// renderRoomBlock assembles the multi-line room display: name, description,
// exit summary, occupants, and any advertised trigger actions. The viewer's
// own occupant line is omitted.
func (r *Renderer) renderRoomBlock(room map[string]any, viewerKey string, showDescription bool) string {
	if room == nil {
		return ""
	}

	var lines []string

	name := str(room, "name")
	if name == "" {
		name = "Unknown Room"
	}
	lines = append(lines, name)

	if description := str(room, "description"); showDescription && description != "" {
		lines = append(lines, description)
	}

	lines = append(lines, exitLine(asMap(room["exits"])))

	for _, entry := range asSlice(room["chars"]) {
		char := asMap(entry)
		if str(char, "key") == viewerKey {
			continue
		}

		line := str(char, "room_description")
		if line == "" {
			charName := str(char, "name")
			if charName == "" {
				charName = "someone"
			}
			line = fmt.Sprintf("%s is here.", capfirst(charName))
		}
		if invisible, _ := char["is_invisible"].(bool); invisible {
			line += " (invisible)"
		}
		lines = append(lines, line)
	}

	var actions []string
	for _, entry := range asSlice(room["actions"]) {
		if action, ok := entry.(string); ok && action != "" {
			actions = append(actions, action)
		}
	}
	switch {
	case len(actions) == 1:
		lines = append(lines, fmt.Sprintf("Action available: %s", actions[0]))
	case len(actions) > 1:
		lines = append(lines, fmt.Sprintf("Actions: %s", strings.Join(actions, ", ")))
	}

	return strings.Join(lines, "\n")
}

// exitLine renders the one-letter exit summary in fixed direction order,
// e.g. "[ exits: N E U ]".
func exitLine(exits map[string]any) string {
	var letters []string
	for _, direction := range world.Directions {
		if _, ok := exits[direction]; ok {
			letters = append(letters, strings.ToUpper(direction[:1]))
		}
	}
	return fmt.Sprintf("[ exits: %s ]", strings.Join(letters, " "))
}
