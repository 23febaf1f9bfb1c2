package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/realmkit/realmd/internal/world"
)

// Handler executes one command type. TextVerbs lists the free-text verbs
// that alias to it; verbs starting with "/" are builder-only.
type Handler interface {
	CommandType() string
	TextVerbs() []string
	SupportedActorKinds() []world.ActorKind
	Execute(ctx context.Context, c *Context) error
}

// TextCommand is one typed-verb binding. Builder verbs are reachable only
// through the "/" prefix.
type TextCommand struct {
	Verb        string
	CommandType string
	Builder     bool
}

// Registry maps command types to handlers and text verbs to command types.
// It is constructed once at startup and passed by reference; there is no
// process-wide registration.
type Registry struct {
	handlers map[string]Handler
	verbs    []TextCommand
}

func NewRegistry() *Registry {
	return &Registry{
		handlers: map[string]Handler{},
	}
}

func (r *Registry) Register(h Handler) error {
	commandType := h.CommandType()
	if commandType == "" {
		return fmt.Errorf("handler has no command type")
	}
	if _, ok := r.handlers[commandType]; ok {
		return fmt.Errorf("command type %q already registered", commandType)
	}

	for _, verb := range h.TextVerbs() {
		builder := strings.HasPrefix(verb, "/")
		verb = strings.TrimPrefix(verb, "/")
		if verb == "" {
			return fmt.Errorf("command type %q registers an empty verb", commandType)
		}
		for _, existing := range r.verbs {
			if existing.Verb == verb && existing.Builder == builder {
				return fmt.Errorf("verb %q already registered for %q", verb, existing.CommandType)
			}
		}
		r.verbs = append(r.verbs, TextCommand{Verb: verb, CommandType: commandType, Builder: builder})
	}

	r.handlers[commandType] = h
	return nil
}

// Resolve returns the handler for commandType, or nil.
func (r *Registry) Resolve(commandType string) Handler {
	return r.handlers[commandType]
}

// ResolveText maps a typed verb to a command type. Exact matches win; then
// the first registered verb the input is a prefix of, so "inv" finds
// "inventory" and earlier registrations shadow later ones.
func (r *Registry) ResolveText(verb string, includeBuilder bool) (string, bool) {
	e, ok := r.resolve(verb, includeBuilder, false)
	return e.CommandType, ok
}

// ResolveVerb is ResolveText returning the whole verb binding, so callers
// can see which registered verb an abbreviation expanded to.
func (r *Registry) ResolveVerb(verb string, includeBuilder bool) (TextCommand, bool) {
	return r.resolve(verb, includeBuilder, false)
}

// ResolveBuilderVerb resolves among builder verbs only, for input that
// carried the "/" prefix.
func (r *Registry) ResolveBuilderVerb(verb string) (TextCommand, bool) {
	return r.resolve(verb, true, true)
}

func (r *Registry) resolve(verb string, includeBuilder, builderOnly bool) (TextCommand, bool) {
	verb = strings.ToLower(verb)
	if verb == "" {
		return TextCommand{}, false
	}

	visible := func(e TextCommand) bool {
		if e.Builder && !includeBuilder {
			return false
		}
		return e.Builder || !builderOnly
	}

	for _, e := range r.verbs {
		if visible(e) && e.Verb == verb {
			return e, true
		}
	}
	for _, e := range r.verbs {
		if visible(e) && strings.HasPrefix(e.Verb, verb) {
			return e, true
		}
	}
	return TextCommand{}, false
}

// TextCommands lists the verb bindings in registration order, for help
// listings.
func (r *Registry) TextCommands(includeBuilder bool) []TextCommand {
	var out []TextCommand
	for _, e := range r.verbs {
		if e.Builder && !includeBuilder {
			continue
		}
		out = append(out, e)
	}
	return out
}
