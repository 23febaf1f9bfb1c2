package messaging

import (
	"context"
	"time"

	json "github.com/goccy/go-json"
	"github.com/pixil98/go-log"
	"github.com/realmkit/realmd/internal/dispatch"
	"github.com/realmkit/realmd/internal/event"
	"github.com/realmkit/realmd/internal/world"
)

// InboundSubject is the NATS subject client gateways publish commands to.
const InboundSubject = "commands"

// subscriber is the subset of NatsServer the consumer listens through.
type subscriber interface {
	Subscribe(subject string, handler func(data []byte)) (func(), error)
}

type commandDispatcher interface {
	Dispatch(ctx context.Context, req *dispatch.Request) ([]*event.GameEvent, error)
}

// inboundCommand is the wire form of one gateway-submitted command.
type inboundCommand struct {
	CommandType  string         `json:"command_type"`
	ActorKind    string         `json:"actor_kind"`
	ActorId      string         `json:"actor_id"`
	Payload      map[string]any `json:"payload"`
	ConnectionId string         `json:"connection_id"`
}

// CommandConsumer feeds commands arriving on the inbound subject into the
// dispatcher. It runs as a service worker alongside the NATS server and
// retries its subscription until the server is accepting connections.
type CommandConsumer struct {
	server     subscriber
	dispatcher commandDispatcher
}

func NewCommandConsumer(server subscriber, dispatcher commandDispatcher) *CommandConsumer {
	return &CommandConsumer{
		server:     server,
		dispatcher: dispatcher,
	}
}

func (c *CommandConsumer) Start(ctx context.Context) error {
	logger := log.GetLogger(ctx)

	var unsubscribe func()
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for unsubscribe == nil {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			unsub, err := c.server.Subscribe(InboundSubject, func(data []byte) {
				c.handle(ctx, data)
			})
			if err != nil {
				continue
			}
			unsubscribe = unsub
		}
	}
	defer unsubscribe()

	logger.Infof("consuming commands on %s", InboundSubject)

	<-ctx.Done()
	return nil
}

// handle dispatches one inbound command. Gateway mistakes are logged and
// dropped; the consumer itself never fails.
func (c *CommandConsumer) handle(ctx context.Context, data []byte) {
	logger := log.GetLogger(ctx)

	var cmd inboundCommand
	err := json.Unmarshal(data, &cmd)
	if err != nil {
		logger.WithError(err).Warnf("unmarshalling inbound command")
		return
	}

	kind := world.ActorKind(cmd.ActorKind)
	if !kind.Valid() {
		logger.Warnf("dropping inbound command with actor kind %q", cmd.ActorKind)
		return
	}

	_, err = c.dispatcher.Dispatch(ctx, &dispatch.Request{
		CommandType:  cmd.CommandType,
		ActorKind:    kind,
		ActorId:      cmd.ActorId,
		Payload:      cmd.Payload,
		ConnectionId: cmd.ConnectionId,
	})
	if err != nil {
		logger.WithError(err).Warnf("dispatching inbound %s for %s", cmd.CommandType, cmd.ActorId)
	}
}
