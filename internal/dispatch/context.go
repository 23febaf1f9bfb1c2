package dispatch

import (
	"context"

	"github.com/realmkit/realmd/internal/event"
	"github.com/realmkit/realmd/internal/world"
)

// Payload flags understood across handlers.
const (
	// PayloadTriggerSource marks a command synthesized by a trigger
	// reaction, suppressing further trigger evaluation for its events.
	PayloadTriggerSource = "__trigger_source"

	// PayloadAIIntentSource marks a command injected through the AI
	// intent ingress.
	PayloadAIIntentSource = "__ai_intent_source"
)

// EventSink fans published events out to their recipients.
type EventSink interface {
	Publish(ctx context.Context, events []*event.GameEvent, actorKey, connectionId string)
}

// Subscriber observes events after fan-out. The trigger engine registers
// here so completed commands can stimulate authored reactions.
type Subscriber interface {
	EventPublished(ctx context.Context, ev *event.GameEvent, actor world.Actor, connectionId string, depth int)
}

// Context is the ephemeral per-dispatch bundle handed to a handler: the
// resolved actor, the command payload, the originating connection, the
// trigger re-entry depth, and the publishing surface. It lives for exactly
// one dispatch call.
type Context struct {
	CommandType  string
	Actor        world.Actor
	Payload      map[string]any
	ConnectionId string
	Depth        int

	sink       EventSink
	subscriber Subscriber
	published  []*event.GameEvent
}

// TriggerSource reports whether this command was synthesized by a trigger.
func (c *Context) TriggerSource() bool {
	return c.flag(PayloadTriggerSource)
}

// AIIntentSource reports whether this command arrived via the AI ingress.
func (c *Context) AIIntentSource() bool {
	return c.flag(PayloadAIIntentSource)
}

func (c *Context) flag(name string) bool {
	v, _ := c.Payload[name].(bool)
	return v
}

// PayloadString reads a string payload field, "" when absent.
func (c *Context) PayloadString(key string) string {
	v, _ := c.Payload[key].(string)
	return v
}

// PublishEvents fans events out and, unless this dispatch is itself a
// trigger reaction, offers each event to the subscriber so triggers can
// respond. Events are recorded on the context for the caller.
func (c *Context) PublishEvents(ctx context.Context, events []*event.GameEvent) {
	if len(events) == 0 {
		return
	}

	c.published = append(c.published, events...)

	if c.sink != nil {
		c.sink.Publish(ctx, events, c.Actor.Key(), c.ConnectionId)
	}

	if c.subscriber != nil && !c.TriggerSource() {
		for _, ev := range events {
			c.subscriber.EventPublished(ctx, ev, c.Actor, c.ConnectionId, c.Depth)
		}
	}
}

// Publish builds and publishes a single event.
func (c *Context) Publish(ctx context.Context, eventType string, recipients []string, data map[string]any) {
	c.PublishEvents(ctx, []*event.GameEvent{event.New(eventType, recipients, data)})
}

// PublishSuccess publishes the command's completion event to the actor.
func (c *Context) PublishSuccess(ctx context.Context, data map[string]any) {
	c.Publish(ctx, event.SuccessType(c.CommandType), []string{c.Actor.Key()}, data)
}

// PublishError publishes the command's single error event to the actor. The
// message doubles as the display text.
func (c *Context) PublishError(ctx context.Context, code, message string, data map[string]any) {
	payload := map[string]any{
		"code":    code,
		"message": message,
	}
	for k, v := range data {
		payload[k] = v
	}

	ev := event.New(event.ErrorType(c.CommandType), []string{c.Actor.Key()}, payload)
	ev.Text = message
	c.PublishEvents(ctx, []*event.GameEvent{ev})
}

// Published returns the events this dispatch has produced so far.
func (c *Context) Published() []*event.GameEvent {
	return c.published
}
