package handlers

import (
	"context"

	"github.com/realmkit/realmd/internal/actions"
	"github.com/realmkit/realmd/internal/dispatch"
	"github.com/realmkit/realmd/internal/event"
	"github.com/realmkit/realmd/internal/world"
)

// speech is the shared body of say, yell, and emote: resolve the message
// text, run the action, publish what it built.
type speech struct {
	command
	state *world.State
	run   func(s *world.State, actor world.Actor, text string) ([]*event.GameEvent, error)
}

func (h *speech) Execute(ctx context.Context, c *dispatch.Context) error {
	events, err := h.run(h.state, c.Actor, resolveMessageText(c))
	if err != nil {
		return err
	}

	c.PublishEvents(ctx, events)
	return nil
}

func NewSayHandler(state *world.State) dispatch.Handler {
	return &speech{
		command: command{
			commandType: "say",
			verbs:       []string{"say"},
			kinds:       playerAndMob,
			help: Help{
				Name:        "Say",
				Format:      "say <message>",
				Description: "Say something that everyone in your room can hear.",
				Examples:    []string{"say Hello there."},
			},
		},
		state: state,
		run:   actions.Say,
	}
}

func NewYellHandler(state *world.State) dispatch.Handler {
	return &speech{
		command: command{
			commandType: "yell",
			verbs:       []string{"yell"},
			kinds:       playerAndMob,
			help: Help{
				Name:        "Yell",
				Format:      "yell <message>",
				Description: "Yell something that the whole zone can hear.",
				Examples:    []string{"yell Help!"},
			},
		},
		state: state,
		run:   actions.Yell,
	}
}

func NewEmoteHandler(state *world.State) dispatch.Handler {
	return &speech{
		command: command{
			commandType: "emote",
			verbs:       []string{"emote"},
			kinds:       playerAndMob,
			help: Help{
				Name:        "Emote",
				Format:      "emote <action>",
				Description: "Describe an action in the third person to your room.",
				Examples:    []string{"emote waves slowly."},
			},
		},
		state: state,
		run:   actions.Emote,
	}
}
