// Package dispatch routes inbound commands to their registered handlers:
// it resolves the acting player or mob, guards actor-kind support, builds
// the per-call context, and converts declared game-logic failures into
// error events for the initiator.
package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/pixil98/go-log"
	"github.com/realmkit/realmd/internal/event"
	"github.com/realmkit/realmd/internal/world"
)

// DefaultMaxDepth bounds trigger re-entry: a reaction script may chain
// through at most this many nested dispatches before further reactions are
// dropped.
const DefaultMaxDepth = 4

// Request is one inbound command.
type Request struct {
	CommandType  string
	ActorKind    world.ActorKind
	ActorId      string
	Payload      map[string]any
	ConnectionId string

	// Depth counts trigger re-entries; player-issued commands are 0.
	Depth int
}

type Dispatcher struct {
	registry *Registry
	state    *world.State
	sink     EventSink
	maxDepth int

	subscriber Subscriber
}

func NewDispatcher(registry *Registry, state *world.State, sink EventSink, maxDepth int) *Dispatcher {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Dispatcher{
		registry: registry,
		state:    state,
		sink:     sink,
		maxDepth: maxDepth,
	}
}

// SetSubscriber attaches the post-publish event observer. Set once during
// wiring; the trigger engine needs the dispatcher to execute scripts, so it
// cannot be a constructor argument.
func (d *Dispatcher) SetSubscriber(s Subscriber) {
	d.subscriber = s
}

// MaxDepth returns the configured trigger re-entry bound.
func (d *Dispatcher) MaxDepth() int {
	return d.maxDepth
}

// Dispatch resolves and executes one command, returning the events it
// published. Resolution failures return typed errors and publish nothing;
// declared game-logic failures surface as a single error event and a nil
// error.
func (d *Dispatcher) Dispatch(ctx context.Context, req *Request) ([]*event.GameEvent, error) {
	if req.Depth > d.maxDepth {
		log.GetLogger(ctx).Warnf("dropping %s at trigger depth %d", req.CommandType, req.Depth)
		return nil, fmt.Errorf("trigger depth %d exceeds limit %d", req.Depth, d.maxDepth)
	}

	handler := d.registry.Resolve(req.CommandType)
	if handler == nil {
		return nil, &HandlerNotFoundError{CommandType: req.CommandType}
	}

	actor := d.state.Actor(req.ActorKind, req.ActorId)
	if actor == nil {
		if req.ActorKind == world.ActorKindPlayer {
			return nil, &PlayerNotFoundError{PlayerId: req.ActorId}
		}
		return nil, &ActorNotFoundError{Kind: string(req.ActorKind), Id: req.ActorId}
	}

	payload := req.Payload
	if payload == nil {
		payload = map[string]any{}
	}

	c := &Context{
		CommandType:  req.CommandType,
		Actor:        actor,
		Payload:      payload,
		ConnectionId: req.ConnectionId,
		Depth:        req.Depth,
		sink:         d.sink,
		subscriber:   d.subscriber,
	}

	if !supportsKind(handler, actor.Kind()) {
		c.PublishError(ctx, "unsupported_actor_type",
			fmt.Sprintf("You can't do that as a %s.", actor.Kind()), nil)
		return c.Published(), nil
	}

	err := handler.Execute(ctx, c)
	if err != nil {
		var cmdErr CommandError
		if errors.As(err, &cmdErr) {
			c.PublishError(ctx, cmdErr.ErrorCode(), cmdErr.ErrorMessage(), cmdErr.ErrorData())
			return c.Published(), nil
		}
		return c.Published(), fmt.Errorf("executing %s: %w", req.CommandType, err)
	}

	return c.Published(), nil
}

func supportsKind(h Handler, kind world.ActorKind) bool {
	for _, k := range h.SupportedActorKinds() {
		if k == kind {
			return true
		}
	}
	return false
}
