package event

import (
	"context"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/pixil98/go-log"
)

// TaskAIEvents is the queue task carrying forwarded gameplay events.
const TaskAIEvents = "ai.events"

// TaskQueue enqueues asynchronous work. Best-effort delivery is acceptable;
// the forwarder never depends on completion.
type TaskQueue interface {
	Enqueue(ctx context.Context, task string, payload []byte) error
}

type forwardPayload struct {
	EventType string         `json:"event_type"`
	EventData map[string]any `json:"event_data"`
	ActorKey  string         `json:"actor_key"`
}

// Forwarder copies allow-listed, player-originated events to the AI sidecar
// via the task queue. The allow-set holds full event type strings, e.g.
// "cmd.say.success". The contract is drop-on-failure: Notify returns
// nothing, and an enqueue failure is logged and discarded so player-facing
// delivery is never compromised.
type Forwarder struct {
	queue   TaskQueue
	allowed map[string]struct{}
}

func NewForwarder(queue TaskQueue, allowedTypes []string) *Forwarder {
	allowed := map[string]struct{}{}
	for _, t := range allowedTypes {
		allowed[NormalizeType(t)] = struct{}{}
	}
	return &Forwarder{
		queue:   queue,
		allowed: allowed,
	}
}

// NormalizeType canonicalizes an event type for allow-list comparison.
// Surrounding whitespace and casing are folded, but the type is otherwise
// matched in full, so allow-listing "cmd.say.success" does not also forward
// "cmd.say.error".
func NormalizeType(eventType string) string {
	return strings.ToLower(strings.TrimSpace(eventType))
}

func (f *Forwarder) Notify(ctx context.Context, eventType string, data map[string]any, actorKey string) {
	if f.queue == nil {
		return
	}
	if _, ok := f.allowed[NormalizeType(eventType)]; !ok {
		return
	}

	key := originatingActorKey(data, actorKey)
	if !strings.HasPrefix(key, "player.") {
		return
	}

	payload, err := json.Marshal(&forwardPayload{
		EventType: eventType,
		EventData: data,
		ActorKey:  key,
	})
	if err != nil {
		log.GetLogger(ctx).WithError(err).Warnf("marshalling sidecar forward for %s", eventType)
		return
	}

	err = f.queue.Enqueue(ctx, TaskAIEvents, payload)
	if err != nil {
		log.GetLogger(ctx).WithError(err).Warnf("forwarding %s to sidecar", eventType)
	}
}

// originatingActorKey resolves the acting actor from the event payload,
// falling back to the dispatch-level actor key.
func originatingActorKey(data map[string]any, fallback string) string {
	actor, ok := data["actor"].(map[string]any)
	if !ok {
		return fallback
	}
	key, ok := actor["key"].(string)
	if !ok || key == "" {
		return fallback
	}
	return key
}
