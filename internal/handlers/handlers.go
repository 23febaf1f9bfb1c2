// Package handlers implements the command set players and mobs can run:
// movement, speech, observation, help, the free-text front end, and the
// connect-time state sync. Handlers orchestrate actions and publish events;
// the game rules themselves live in the actions package.
package handlers

import (
	"fmt"
	"strings"

	"github.com/realmkit/realmd/internal/dispatch"
	"github.com/realmkit/realmd/internal/world"
)

// Help describes a command for the help listing.
type Help struct {
	Name        string
	Format      string
	Description string
	Examples    []string
}

// Text renders the multi-line help page for one command.
func (h Help) Text() string {
	lines := []string{h.Name}
	if h.Format != "" {
		lines = append(lines, fmt.Sprintf("Format: %s", h.Format))
	}
	if h.Description != "" {
		lines = append(lines, fmt.Sprintf("Description: %s", h.Description))
	}
	if len(h.Examples) > 0 {
		lines = append(lines, "Examples:")
		lines = append(lines, h.Examples...)
	}
	return strings.Join(lines, "\n")
}

// HelpProvider is implemented by handlers that publish a help page.
type HelpProvider interface {
	Help() Help
}

// command carries the static identity every handler declares.
type command struct {
	commandType string
	verbs       []string
	kinds       []world.ActorKind
	help        Help
}

func (c *command) CommandType() string                    { return c.commandType }
func (c *command) TextVerbs() []string                    { return c.verbs }
func (c *command) SupportedActorKinds() []world.ActorKind { return c.kinds }
func (c *command) Help() Help                             { return c.help }

var (
	playerOnly   = []world.ActorKind{world.ActorKindPlayer}
	playerAndMob = []world.ActorKind{world.ActorKindPlayer, world.ActorKindMob}
)

// RegisterAll builds every game handler against state and registers it.
// The fallback may be nil when no trigger engine is wired.
func RegisterAll(r *dispatch.Registry, state *world.State, fallback CommandFallback) error {
	all := []dispatch.Handler{
		NewMoveHandler(state),
		NewSayHandler(state),
		NewYellHandler(state),
		NewEmoteHandler(state),
		NewLookHandler(state),
		NewInventoryHandler(state),
		NewRollHandler(state),
		NewHelpHandler(state, r),
		NewStateSyncHandler(state),
		NewTextHandler(state, r, fallback),
	}

	for _, h := range all {
		err := r.Register(h)
		if err != nil {
			return fmt.Errorf("registering %s: %w", h.CommandType(), err)
		}
	}
	return nil
}

// payloadArgs reads the parsed argument list, tolerating both the native
// []string set by the text handler and []any from decoded JSON.
func payloadArgs(c *dispatch.Context) []string {
	switch v := c.Payload["args"].(type) {
	case []string:
		return v
	case []any:
		args := make([]string, 0, len(v))
		for _, a := range v {
			args = append(args, fmt.Sprint(a))
		}
		return args
	}
	return nil
}

// resolveMessageText picks the speech text for say/yell/emote. Input that
// came through the text front end uses the parsed args; structured commands
// may pass an explicit message.
func resolveMessageText(c *dispatch.Context) string {
	args := payloadArgs(c)

	if _, ok := c.Payload["raw_text"]; ok {
		return strings.Join(args, " ")
	}

	if message, ok := c.Payload["message"]; ok {
		return fmt.Sprint(message)
	}
	if len(args) > 0 {
		return strings.Join(args, " ")
	}
	return c.PayloadString("text")
}
