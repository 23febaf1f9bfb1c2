package event

import (
	"context"
	"fmt"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/pixil98/go-testutil"
)

type delivery struct {
	key     string
	conn    string
	payload wireMessage
}

type fakeTransport struct {
	deliveries []delivery
	err        error
}

func (t *fakeTransport) PublishToPlayer(_ context.Context, playerKey string, payload []byte, connectionId string) error {
	if t.err != nil {
		return t.err
	}

	var msg wireMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return err
	}
	t.deliveries = append(t.deliveries, delivery{key: playerKey, conn: connectionId, payload: msg})
	return nil
}

type fakeRenderer struct {
	err error
}

func (r *fakeRenderer) RenderText(eventType string, _ map[string]any, viewerKey string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return fmt.Sprintf("%s for %s", eventType, viewerKey), nil
}

type fakeNotifier struct {
	notified []string
}

func (n *fakeNotifier) Notify(_ context.Context, eventType string, _ map[string]any, _ string) {
	n.notified = append(n.notified, eventType)
}

func TestPublisherFanOut(t *testing.T) {
	transport := &fakeTransport{}
	notifier := &fakeNotifier{}
	p := NewPublisher(transport, &fakeRenderer{}, notifier)

	ev := New("cmd.say.success", []string{"player.1", "player.2", "mob.9"}, map[string]any{"message": "hi"})
	p.Publish(context.Background(), []*GameEvent{ev}, "player.1", "conn-a")

	testutil.AssertEqual(t, "player deliveries only", len(transport.deliveries), 2)
	testutil.AssertEqual(t, "initiator key", transport.deliveries[0].key, "player.1")
	testutil.AssertEqual(t, "initiator pinned", transport.deliveries[0].conn, "conn-a")
	testutil.AssertEqual(t, "observer key", transport.deliveries[1].key, "player.2")
	testutil.AssertEqual(t, "observer unpinned", transport.deliveries[1].conn, "")
	testutil.AssertEqual(t, "viewer text", transport.deliveries[0].payload.Text, "cmd.say.success for player.1")
	testutil.AssertEqual(t, "notifier per event", len(notifier.notified), 1)
}

func TestPublisherPrerenderedText(t *testing.T) {
	transport := &fakeTransport{}
	p := NewPublisher(transport, &fakeRenderer{}, nil)

	ev := New("cmd.text.echo", []string{"player.1"}, nil)
	ev.Text = "xyzzy"
	p.Publish(context.Background(), []*GameEvent{ev}, "player.1", "")

	testutil.AssertEqual(t, "text preserved", transport.deliveries[0].payload.Text, "xyzzy")
}

func TestPublisherRendererFailure(t *testing.T) {
	transport := &fakeTransport{}
	p := NewPublisher(transport, &fakeRenderer{err: fmt.Errorf("no template")}, nil)

	ev := New("cmd.look.success", []string{"player.1"}, map[string]any{"room": "r1"})
	p.Publish(context.Background(), []*GameEvent{ev}, "player.1", "")

	testutil.AssertEqual(t, "delivered anyway", len(transport.deliveries), 1)
	testutil.AssertEqual(t, "blank text", transport.deliveries[0].payload.Text, "")
}

func TestPublisherTransportFailure(t *testing.T) {
	transport := &fakeTransport{err: fmt.Errorf("session gone")}
	notifier := &fakeNotifier{}
	p := NewPublisher(transport, nil, notifier)

	ev := New("cmd.say.success", []string{"player.1"}, nil)
	p.Publish(context.Background(), []*GameEvent{ev}, "player.1", "")

	testutil.AssertEqual(t, "notifier still called", len(notifier.notified), 1)
}
