package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/realmkit/realmd/internal/dispatch"
	"github.com/realmkit/realmd/internal/event"
	"github.com/realmkit/realmd/internal/world"
)

// CommandFallback evaluates authored command triggers for free text no
// registered verb claims. The trigger engine implements it.
type CommandFallback interface {
	HandleCommandText(ctx context.Context, actor world.Actor, text, connectionId string, depth int) (handled bool, feedback string)
}

// TextHandler is the free-text front end. It tokenizes the typed line,
// resolves the verb against the registry, maps the arguments into the
// resolved handler's payload fields, and runs that handler on the same
// dispatch context. Verbs nothing claims fall through to command triggers
// and finally to a plain echo.
type TextHandler struct {
	command
	state    *world.State
	registry *dispatch.Registry
	fallback CommandFallback
}

func NewTextHandler(state *world.State, registry *dispatch.Registry, fallback CommandFallback) *TextHandler {
	return &TextHandler{
		command: command{
			commandType: "text",
			kinds:       playerAndMob,
		},
		state:    state,
		registry: registry,
		fallback: fallback,
	}
}

func (h *TextHandler) Execute(ctx context.Context, c *dispatch.Context) error {
	raw := c.PayloadString("text")
	verb, args, stripped := parseTextCommand(raw)
	if verb == "" {
		return nil
	}

	if name, ok := strings.CutPrefix(verb, "/"); ok {
		return h.executeBuilder(ctx, c, name, args, stripped)
	}

	entry, ok := h.registry.ResolveVerb(verb, false)
	if !ok {
		h.publishUnresolved(ctx, c, raw, stripped)
		return nil
	}

	return h.delegate(ctx, c, entry, args, stripped)
}

// executeBuilder handles "/"-prefixed verbs, which resolve only against
// builder commands and only for builders.
func (h *TextHandler) executeBuilder(ctx context.Context, c *dispatch.Context, name string, args []string, stripped string) error {
	player, ok := c.Actor.(*world.Player)
	if ok && player.Builder {
		if entry, found := h.registry.ResolveBuilderVerb(name); found {
			return h.delegate(ctx, c, entry, args, stripped)
		}
	}

	c.PublishError(ctx, "unknown_cmd", "Unknown builder command.", nil)
	return nil
}

// publishUnresolved gives command triggers a chance at the line, then echoes
// it back. Trigger-synthesized commands never re-enter the trigger engine.
func (h *TextHandler) publishUnresolved(ctx context.Context, c *dispatch.Context, raw, stripped string) {
	if h.fallback != nil && !c.TriggerSource() {
		handled, feedback := h.fallback.HandleCommandText(ctx, c.Actor, stripped, c.ConnectionId, c.Depth)
		if handled {
			if feedback != "" {
				ev := event.New("cmd.text.trigger", []string{c.Actor.Key()}, map[string]any{"text": feedback})
				ev.Text = feedback
				c.PublishEvents(ctx, []*event.GameEvent{ev})
			}
			return
		}
	}

	ev := event.New("cmd.text.echo", []string{c.Actor.Key()}, map[string]any{"original_command": raw})
	ev.Text = raw
	c.PublishEvents(ctx, []*event.GameEvent{ev})
}

// delegate retargets the context at the resolved command and runs its
// handler in place, so its events, errors, and trigger stimuli flow through
// this dispatch.
func (h *TextHandler) delegate(ctx context.Context, c *dispatch.Context, entry dispatch.TextCommand, args []string, stripped string) error {
	handler := h.registry.Resolve(entry.CommandType)

	c.CommandType = entry.CommandType
	c.Payload["args"] = args
	c.Payload["command"] = entry.Verb
	c.Payload["raw_text"] = stripped

	switch entry.CommandType {
	case "move":
		c.Payload["direction"] = entry.Verb
	case "look":
		if len(args) > 0 {
			c.Payload["target"] = strings.Join(args, " ")
		}
	case "help":
		if len(args) > 0 {
			c.Payload["target"] = args[0]
		}
	}

	if !supportsKind(handler, c.Actor.Kind()) {
		c.PublishError(ctx, "unsupported_actor",
			fmt.Sprintf("%ss cannot execute %s.", capitalize(string(c.Actor.Kind())), entry.CommandType), nil)
		return nil
	}

	return handler.Execute(ctx, c)
}

func parseTextCommand(text string) (verb string, args []string, stripped string) {
	stripped = strings.TrimSpace(text)
	if stripped == "" {
		return "", nil, ""
	}

	parts := strings.Fields(stripped)
	return strings.ToLower(parts[0]), parts[1:], stripped
}

func supportsKind(h dispatch.Handler, kind world.ActorKind) bool {
	for _, k := range h.SupportedActorKinds() {
		if k == kind {
			return true
		}
	}
	return false
}

func capitalize(value string) string {
	if value == "" {
		return value
	}
	return strings.ToUpper(value[:1]) + value[1:]
}
