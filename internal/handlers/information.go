package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/realmkit/realmd/internal/actions"
	"github.com/realmkit/realmd/internal/dispatch"
	"github.com/realmkit/realmd/internal/event"
	"github.com/realmkit/realmd/internal/world"
)

// LookHandler shows the player's current room with its occupants and the
// explored minimap.
type LookHandler struct {
	command
	state *world.State
}

func NewLookHandler(state *world.State) *LookHandler {
	return &LookHandler{
		command: command{
			commandType: "look",
			verbs:       []string{"look"},
			kinds:       playerOnly,
			help: Help{
				Name:        "Look",
				Format:      "look | look <target>",
				Description: "Look at your current room, or at a specific target in it.",
				Examples:    []string{"look", "look soldier"},
			},
		},
		state: state,
	}
}

func (h *LookHandler) Execute(ctx context.Context, c *dispatch.Context) error {
	events, err := actions.Look(h.state, c.Actor.(*world.Player))
	if err != nil {
		return err
	}

	c.PublishEvents(ctx, events)
	return nil
}

// InventoryHandler lists what the player is carrying.
type InventoryHandler struct {
	command
	state *world.State
}

func NewInventoryHandler(state *world.State) *InventoryHandler {
	return &InventoryHandler{
		command: command{
			commandType: "inventory",
			verbs:       []string{"inventory"},
			kinds:       playerOnly,
			help: Help{
				Name:        "Inventory",
				Format:      "inventory",
				Description: "Show items currently carried by your character.",
				Examples:    []string{"inventory"},
			},
		},
		state: state,
	}
}

func (h *InventoryHandler) Execute(ctx context.Context, c *dispatch.Context) error {
	c.PublishEvents(ctx, actions.Inventory(h.state, c.Actor.(*world.Player)))
	return nil
}

// RollHandler rolls dice in front of the room.
type RollHandler struct {
	command
	state *world.State
}

func NewRollHandler(state *world.State) *RollHandler {
	return &RollHandler{
		command: command{
			commandType: "roll",
			verbs:       []string{"roll"},
			kinds:       playerOnly,
			help: Help{
				Name:   "Roll",
				Format: "roll <size> | roll <num>d<size>",
				Description: "Roll a die by size, or use XdY format where X is the number of " +
					"rolls and Y is the die size. If no argument is given, rolls 1d6. " +
					"Maximum roll count and die size are 100.",
				Examples: []string{"roll", "roll 10", "roll 2d6"},
			},
		},
		state: state,
	}
}

func (h *RollHandler) Execute(ctx context.Context, c *dispatch.Context) error {
	target := c.PayloadString("target")
	if target == "" {
		if args := payloadArgs(c); len(args) > 0 {
			target = args[0]
		}
	}

	events, err := actions.Roll(h.state, c.Actor.(*world.Player), target)
	if err != nil {
		return err
	}

	c.PublishEvents(ctx, events)
	return nil
}

// HelpHandler lists the available commands, or shows the page for one.
// Builder commands only appear for builders.
type HelpHandler struct {
	command
	state    *world.State
	registry *dispatch.Registry
}

func NewHelpHandler(state *world.State, registry *dispatch.Registry) *HelpHandler {
	return &HelpHandler{
		command: command{
			commandType: "help",
			verbs:       []string{"help"},
			kinds:       playerOnly,
			help: Help{
				Name:        "Help",
				Format:      "help | help <command>",
				Description: "List available commands or show details for one command.",
				Examples:    []string{"help", "help look"},
			},
		},
		state:    state,
		registry: registry,
	}
}

func (h *HelpHandler) Execute(ctx context.Context, c *dispatch.Context) error {
	player := c.Actor.(*world.Player)

	target := strings.ToLower(strings.TrimSpace(c.PayloadString("target")))
	if target == "" {
		if args := payloadArgs(c); len(args) > 0 {
			target = strings.ToLower(strings.TrimSpace(args[0]))
		}
	}

	if target != "" {
		return h.publishCommandHelp(ctx, c, player, target)
	}

	h.publishCommandList(ctx, c, player)
	return nil
}

func (h *HelpHandler) publishCommandHelp(ctx context.Context, c *dispatch.Context, player *world.Player, target string) error {
	entry, ok := h.registry.ResolveVerb(target, true)
	if !ok {
		c.PublishError(ctx, "unknown_cmd", fmt.Sprintf("Unknown command: %s", target), nil)
		return nil
	}
	if entry.Builder && !player.Builder {
		c.PublishError(ctx, "forbidden", "You do not have permission to view that command.", nil)
		return nil
	}

	provider, ok := h.registry.Resolve(entry.CommandType).(HelpProvider)
	if !ok {
		c.PublishError(ctx, "no_help", fmt.Sprintf("No help available for %s.", entry.Verb), nil)
		return nil
	}

	help := provider.Help()
	ev := event.New(event.SuccessType("help"), []string{player.Key()}, map[string]any{
		"command": map[string]any{
			"command":     entry.Verb,
			"name":        help.Name,
			"format":      help.Format,
			"description": help.Description,
			"examples":    help.Examples,
		},
	})
	ev.Text = help.Text()
	c.PublishEvents(ctx, []*event.GameEvent{ev})
	return nil
}

func (h *HelpHandler) publishCommandList(ctx context.Context, c *dispatch.Context, player *world.Player) {
	var commands []any
	lines := []string{"Commands:"}
	seen := map[string]bool{}

	for _, entry := range h.registry.TextCommands(player.Builder) {
		if seen[entry.CommandType] {
			continue
		}
		seen[entry.CommandType] = true

		help := Help{Format: entry.Verb}
		if provider, ok := h.registry.Resolve(entry.CommandType).(HelpProvider); ok {
			if page := provider.Help(); page.Name != "" {
				help = page
			}
		}

		commands = append(commands, map[string]any{
			"command":     entry.Verb,
			"format":      help.Format,
			"description": help.Description,
		})

		line := fmt.Sprintf("* %s", help.Format)
		if help.Description != "" {
			line = fmt.Sprintf("%s - %s", line, help.Description)
		}
		lines = append(lines, line)
	}

	ev := event.New(event.SuccessType("help"), []string{player.Key()}, map[string]any{
		"commands": commands,
	})
	ev.Text = strings.Join(lines, "\n")
	c.PublishEvents(ctx, []*event.GameEvent{ev})
}
