package event

import (
	"context"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/pixil98/go-log"
)

// Transport delivers one message to one connected client session. It must
// not fail for disconnected clients; dropping is the transport's business.
type Transport interface {
	PublishToPlayer(ctx context.Context, playerKey string, payload []byte, connectionId string) error
}

// Renderer turns an event into human-readable text for one viewer.
type Renderer interface {
	RenderText(eventType string, data map[string]any, viewerKey string) (string, error)
}

// Notifier receives a best-effort copy of published events. Implementations
// must never block or fail the caller; whatever goes wrong stays inside.
type Notifier interface {
	Notify(ctx context.Context, eventType string, data map[string]any, actorKey string)
}

type wireMessage struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
	Text string         `json:"text,omitempty"`
}

// Publisher fans events out to their recipients. Delivery to the initiating
// actor is pinned to the originating connection so responses land on the
// session that issued the command.
type Publisher struct {
	transport Transport
	renderer  Renderer
	notifier  Notifier
}

func NewPublisher(transport Transport, renderer Renderer, notifier Notifier) *Publisher {
	return &Publisher{
		transport: transport,
		renderer:  renderer,
		notifier:  notifier,
	}
}

// Publish delivers each event to every player recipient, then hands the
// event to the notifier. Mob recipients have no client session and are
// skipped here; the trigger engine observes them through its own
// subscriptions. Transport failures for one recipient never stop delivery
// to the rest.
func (p *Publisher) Publish(ctx context.Context, events []*GameEvent, actorKey, connectionId string) {
	logger := log.GetLogger(ctx)

	for _, ev := range events {
		for _, recipient := range ev.Recipients {
			if !strings.HasPrefix(recipient, "player.") {
				continue
			}

			text := ev.Text
			if text == "" && p.renderer != nil {
				rendered, err := p.renderer.RenderText(ev.Type, ev.Data, recipient)
				if err != nil {
					logger.WithError(err).Warnf("rendering %s for %s", ev.Type, recipient)
				} else {
					text = rendered
				}
			}

			payload, err := json.Marshal(&wireMessage{
				Type: ev.Type,
				Data: ev.Data,
				Text: text,
			})
			if err != nil {
				logger.WithError(err).Errorf("marshalling %s", ev.Type)
				continue
			}

			conn := ""
			if recipient == actorKey {
				conn = connectionId
			}

			err = p.transport.PublishToPlayer(ctx, recipient, payload, conn)
			if err != nil {
				logger.WithError(err).Warnf("delivering %s to %s", ev.Type, recipient)
			}
		}

		if p.notifier != nil {
			p.notifier.Notify(ctx, ev.Type, ev.Data, actorKey)
		}
	}
}
