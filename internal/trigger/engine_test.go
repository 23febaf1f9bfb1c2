package trigger

import (
	"context"
	"testing"

	"github.com/pixil98/go-testutil"
	"github.com/realmkit/realmd/internal/dispatch"
	"github.com/realmkit/realmd/internal/event"
	"github.com/realmkit/realmd/internal/world"
	"github.com/realmkit/realmd/internal/world/worldtest"
)

type fakeDispatcher struct {
	requests []*dispatch.Request
	events   []*event.GameEvent
	err      error
}

func (f *fakeDispatcher) Dispatch(_ context.Context, req *dispatch.Request) ([]*event.GameEvent, error) {
	f.requests = append(f.requests, req)
	return f.events, f.err
}

func (f *fakeDispatcher) MaxDepth() int { return dispatch.DefaultMaxDepth }

func withTrigger(id string, t *world.Trigger) func(*world.Stores) {
	return func(st *world.Stores) {
		st.Triggers.(*worldtest.MemStore[*world.Trigger]).Records[id] = t
	}
}

func greeterTrigger() *world.Trigger {
	return &world.Trigger{
		World:       "w",
		Kind:        world.TriggerKindEvent,
		Event:       world.TriggerEventSaying,
		MobTemplate: "guard",
		Match:       "hello",
		Script:      "say Welcome, traveler.",
		Active:      true,
	}
}

func leverTrigger() *world.Trigger {
	return &world.Trigger{
		World:    "w",
		Kind:     world.TriggerKindCommand,
		Room:     "r1",
		Match:    "pull lever or yank lever",
		Script:   "emote grins.",
		Feedback: "The lever creaks.",
		Active:   true,
	}
}

func newEngine(t *testing.T, mutate ...func(*world.Stores)) (*Engine, *fakeDispatcher, *world.State) {
	t.Helper()

	s := worldtest.State(t, mutate...)
	d := &fakeDispatcher{}
	return NewEngine(s, d), d, s
}

func sayEvent(actorKey, text string) *event.GameEvent {
	return event.New("cmd.say.success", []string{actorKey}, map[string]any{
		"actor": map[string]any{"key": actorKey},
		"text":  text,
	})
}

func TestSayingTriggerFires(t *testing.T) {
	e, d, s := newEngine(t, withTrigger("t-greet", greeterTrigger()))

	e.EventPublished(context.Background(), sayEvent("player.alice", "hello there"), s.Player("alice"), "conn-1", 0)

	testutil.AssertEqual(t, "dispatches", len(d.requests), 1)

	req := d.requests[0]
	testutil.AssertEqual(t, "command", req.CommandType, "text")
	testutil.AssertEqual(t, "actor kind", req.ActorKind, world.ActorKindMob)
	testutil.AssertEqual(t, "actor id", req.ActorId, "guard-1")
	testutil.AssertEqual(t, "script text", req.Payload["text"], "say Welcome, traveler.")
	testutil.AssertEqual(t, "trigger source", req.Payload[dispatch.PayloadTriggerSource], true)
	testutil.AssertEqual(t, "depth incremented", req.Depth, 1)
	testutil.AssertEqual(t, "connection", req.ConnectionId, "conn-1")
}

func TestSayingTriggerRequiresMatch(t *testing.T) {
	e, d, s := newEngine(t, withTrigger("t-greet", greeterTrigger()))

	e.EventPublished(context.Background(), sayEvent("player.alice", "goodbye"), s.Player("alice"), "", 0)

	testutil.AssertEqual(t, "no dispatches", len(d.requests), 0)
}

func TestEnteringTriggerFires(t *testing.T) {
	tr := greeterTrigger()
	tr.Event = world.TriggerEventEntering
	tr.Match = ""
	tr.Script = "emote nods."
	e, d, s := newEngine(t, withTrigger("t-nod", tr))

	ev := event.New("cmd.move.success", []string{"player.alice"}, map[string]any{
		"actor": map[string]any{"key": "player.alice"},
	})
	e.EventPublished(context.Background(), ev, s.Player("alice"), "", 0)

	testutil.AssertEqual(t, "dispatches", len(d.requests), 1)
	testutil.AssertEqual(t, "script text", d.requests[0].Payload["text"], "emote nods.")
}

func TestMobActorsDoNotStimulate(t *testing.T) {
	e, d, s := newEngine(t, withTrigger("t-greet", greeterTrigger()))

	ev := event.New("cmd.say.success", []string{"mob.guard-1"}, map[string]any{
		"actor": map[string]any{"key": "mob.guard-1"},
		"text":  "hello there",
	})
	e.EventPublished(context.Background(), ev, s.Mob("guard-1"), "", 0)

	testutil.AssertEqual(t, "no dispatches", len(d.requests), 0)
}

func TestTriggerSkipsWhenTemplateAbsent(t *testing.T) {
	tr := greeterTrigger()
	tr.MobTemplate = "dragon"
	e, d, s := newEngine(t, withTrigger("t-greet", tr), func(st *world.Stores) {
		st.Templates.(*worldtest.MemStore[*world.MobTemplate]).Records["dragon"] = &world.MobTemplate{MobName: "a dragon", World: "w"}
	})

	e.EventPublished(context.Background(), sayEvent("player.alice", "hello"), s.Player("alice"), "", 0)

	testutil.AssertEqual(t, "no dispatches", len(d.requests), 0)
}

func TestTriggerConditions(t *testing.T) {
	tests := map[string]struct {
		conditions string
		expFired   bool
	}{
		"matching name":   {"name alice", true},
		"wrong name":      {"name bob", false},
		"player check":    {"is_player", true},
		"mob check":       {"is_mob", false},
		"negation":        {"not invisible", true},
		"blank passes":    {"", true},
		"malformed fails": {"(hello", false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tr := greeterTrigger()
			tr.Conditions = tt.conditions
			e, d, s := newEngine(t, withTrigger("t-greet", tr))

			e.EventPublished(context.Background(), sayEvent("player.alice", "hello"), s.Player("alice"), "", 0)

			testutil.AssertEqual(t, "fired", len(d.requests) == 1, tt.expFired)
		})
	}
}

func TestCommandFallback(t *testing.T) {
	e, d, s := newEngine(t, withTrigger("t-lever", leverTrigger()))

	handled, feedback := e.HandleCommandText(context.Background(), s.Player("alice"), "Pull Lever", "conn-1", 0)

	testutil.AssertEqual(t, "handled", handled, true)
	testutil.AssertEqual(t, "feedback", feedback, "The lever creaks.")

	testutil.AssertEqual(t, "dispatches", len(d.requests), 1)
	req := d.requests[0]
	testutil.AssertEqual(t, "runs as typist", req.ActorKind, world.ActorKindPlayer)
	testutil.AssertEqual(t, "actor id", req.ActorId, "alice")
	testutil.AssertEqual(t, "depth incremented", req.Depth, 1)
}

func TestCommandFallbackUnmatched(t *testing.T) {
	e, d, s := newEngine(t, withTrigger("t-lever", leverTrigger()))

	handled, _ := e.HandleCommandText(context.Background(), s.Player("alice"), "dance wildly", "", 0)

	testutil.AssertEqual(t, "unhandled", handled, false)
	testutil.AssertEqual(t, "no dispatches", len(d.requests), 0)
}

func TestCommandFallbackRoomScope(t *testing.T) {
	e, d, s := newEngine(t, withTrigger("t-lever", leverTrigger()))

	// Carol is in r2; the lever lives in r1.
	handled, _ := e.HandleCommandText(context.Background(), s.Player("carol"), "pull lever", "", 0)

	testutil.AssertEqual(t, "unhandled", handled, false)
	testutil.AssertEqual(t, "no dispatches", len(d.requests), 0)
}

func TestCommandFallbackConditionFailure(t *testing.T) {
	tr := leverTrigger()
	tr.Conditions = "is_mob"
	e, d, s := newEngine(t, withTrigger("t-lever", tr))

	handled, feedback := e.HandleCommandText(context.Background(), s.Player("alice"), "pull lever", "", 0)

	testutil.AssertEqual(t, "handled", handled, true)
	testutil.AssertEqual(t, "failure text", feedback, "Action could not be completed.")
	testutil.AssertEqual(t, "no dispatches", len(d.requests), 0)
}

func TestCommandFallbackScriptErrorSurfaces(t *testing.T) {
	e, d, s := newEngine(t, withTrigger("t-lever", leverTrigger()))

	errEvent := event.New("cmd.move.error", []string{"player.alice"}, map[string]any{"code": "no_exit"})
	errEvent.Text = "You cannot go that way."
	d.events = []*event.GameEvent{errEvent}

	handled, feedback := e.HandleCommandText(context.Background(), s.Player("alice"), "pull lever", "", 0)

	testutil.AssertEqual(t, "handled", handled, true)
	testutil.AssertEqual(t, "error feedback", feedback, "Error: You cannot go that way.")
}

func TestGateOneShot(t *testing.T) {
	tr := leverTrigger()
	tr.GateDelay = world.GateOneShot
	e, d, s := newEngine(t, withTrigger("t-lever", tr))

	handled, feedback := e.HandleCommandText(context.Background(), s.Player("alice"), "pull lever", "", 0)
	testutil.AssertEqual(t, "first pull handled", handled, true)
	testutil.AssertEqual(t, "first pull feedback", feedback, "The lever creaks.")

	handled, feedback = e.HandleCommandText(context.Background(), s.Player("alice"), "pull lever", "", 0)
	testutil.AssertEqual(t, "second pull handled", handled, true)
	testutil.AssertEqual(t, "second pull gated", feedback, "More time is needed.")
	testutil.AssertEqual(t, "script ran once", len(d.requests), 1)
}

func TestEventTriggerGate(t *testing.T) {
	tr := greeterTrigger()
	tr.GateDelay = 600
	e, d, s := newEngine(t, withTrigger("t-greet", tr))

	e.EventPublished(context.Background(), sayEvent("player.alice", "hello"), s.Player("alice"), "", 0)
	e.EventPublished(context.Background(), sayEvent("player.alice", "hello"), s.Player("alice"), "", 0)

	testutil.AssertEqual(t, "greeted once", len(d.requests), 1)
}

func TestSplitScript(t *testing.T) {
	tests := map[string]struct {
		script string
		exp    []string
	}{
		"single":       {"say hi", []string{"say hi"}},
		"newlines":     {"say hi\nemote waves", []string{"say hi", "emote waves"}},
		"ampersands":   {"say hi && emote waves", []string{"say hi", "emote waves"}},
		"mixed blanks": {"say hi &&\n\n  emote waves  ", []string{"say hi", "emote waves"}},
		"empty":        {"", nil},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := splitScript(tt.script)
			testutil.AssertEqual(t, "segment count", len(got), len(tt.exp))
			for i := range tt.exp {
				testutil.AssertEqual(t, "segment", got[i], tt.exp[i])
			}
		})
	}
}
