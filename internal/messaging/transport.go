package messaging

import (
	"context"
	"fmt"
)

// publisher is the subset of NatsServer the transports publish through.
type publisher interface {
	Publish(subject string, data []byte) error
}

// ActorTransport delivers wire messages to client gateways over per-actor
// subjects. A message pinned to a connection goes to that connection's
// subject instead, so the response lands on the session that issued the
// command; gateways subscribe to both.
type ActorTransport struct {
	server publisher
}

func NewActorTransport(server publisher) *ActorTransport {
	return &ActorTransport{server: server}
}

func (t *ActorTransport) PublishToPlayer(_ context.Context, playerKey string, payload []byte, connectionId string) error {
	subject := ActorSubject(playerKey)
	if connectionId != "" {
		subject = ConnectionSubject(connectionId)
	}
	return t.server.Publish(subject, payload)
}

// ActorSubject is the NATS subject a gateway subscribes to for one actor.
func ActorSubject(actorKey string) string {
	return fmt.Sprintf("actor.%s", actorKey)
}

// ConnectionSubject is the NATS subject for one client session.
func ConnectionSubject(connectionId string) string {
	return fmt.Sprintf("conn.%s", connectionId)
}

// TaskSubject is the NATS subject a task queue consumer subscribes to.
func TaskSubject(task string) string {
	return fmt.Sprintf("tasks.%s", task)
}

// TaskQueue hands asynchronous work to whoever subscribes to the task's
// subject. Delivery is best-effort: no acknowledgement, no retry.
type TaskQueue struct {
	server publisher
}

func NewTaskQueue(server publisher) *TaskQueue {
	return &TaskQueue{server: server}
}

func (q *TaskQueue) Enqueue(_ context.Context, task string, payload []byte) error {
	return q.server.Publish(TaskSubject(task), payload)
}
