package handlers

import (
	"testing"

	"github.com/pixil98/go-testutil"
	"github.com/realmkit/realmd/internal/dispatch"
	"github.com/realmkit/realmd/internal/world"
	"github.com/realmkit/realmd/internal/world/worldtest"
)

func TestTextSay(t *testing.T) {
	f := newFixture(t)

	events := f.dispatchText(t, world.ActorKindPlayer, "alice", "say hello there")

	testutil.AssertEqual(t, "event count", len(events), 2)
	testutil.AssertEqual(t, "type", events[0].Type, "cmd.say.success")
	testutil.AssertEqual(t, "text", events[0].Data["text"], "hello there")
	testutil.AssertEqual(t, "listener", events[1].Recipients[0], "player.bob")
}

func TestTextSayStructuredMessage(t *testing.T) {
	f := newFixture(t)

	events := f.dispatch(t, &dispatch.Request{
		CommandType: "say",
		ActorKind:   world.ActorKindPlayer,
		ActorId:     "alice",
		Payload:     map[string]any{"message": "greetings"},
	})

	testutil.AssertEqual(t, "type", events[0].Type, "cmd.say.success")
	testutil.AssertEqual(t, "text", events[0].Data["text"], "greetings")
}

func TestTextSayEmpty(t *testing.T) {
	f := newFixture(t)

	events := f.dispatchText(t, world.ActorKindPlayer, "alice", "say")

	testutil.AssertEqual(t, "event count", len(events), 1)
	testutil.AssertEqual(t, "type", events[0].Type, "cmd.say.error")
	testutil.AssertEqual(t, "code", events[0].Data["code"], "invalid_args")
	testutil.AssertEqual(t, "text", events[0].Text, "Say what?")
}

func TestTextRoll(t *testing.T) {
	f := newFixture(t)

	events := f.dispatchText(t, world.ActorKindPlayer, "alice", "roll 2d6")

	testutil.AssertEqual(t, "event count", len(events), 2)
	testutil.AssertEqual(t, "type", events[0].Type, "cmd.roll.success")
	testutil.AssertEqual(t, "die", events[0].Data["die"], "2d6")

	outcome := events[0].Data["outcome"].(int)
	testutil.AssertEqual(t, "outcome in range", outcome >= 2 && outcome <= 12, true)

	notify := events[1]
	testutil.AssertEqual(t, "notify type", notify.Type, "notification.cmd.roll.success")
	testutil.AssertEqual(t, "observer count", len(notify.Recipients), 1)
	testutil.AssertEqual(t, "observer", notify.Recipients[0], "player.bob")
}

func TestTextInventoryAbbreviation(t *testing.T) {
	f := newFixture(t)

	events := f.dispatchText(t, world.ActorKindPlayer, "alice", "inv")

	testutil.AssertEqual(t, "type", events[0].Type, "cmd.inventory.success")
}

func TestTextBlankLine(t *testing.T) {
	f := newFixture(t)

	events := f.dispatchText(t, world.ActorKindPlayer, "alice", "   ")

	testutil.AssertEqual(t, "no events", len(events), 0)
}

func TestTextUnknownEchoes(t *testing.T) {
	f := newFixture(t)

	events := f.dispatchText(t, world.ActorKindPlayer, "alice", "dance wildly")

	testutil.AssertEqual(t, "event count", len(events), 1)
	testutil.AssertEqual(t, "type", events[0].Type, "cmd.text.echo")
	testutil.AssertEqual(t, "original", events[0].Data["original_command"], "dance wildly")
	testutil.AssertEqual(t, "fallback calls", len(f.fallback.calls), 1)
	testutil.AssertEqual(t, "fallback text", f.fallback.calls[0], "dance wildly")
}

func TestTextFallbackHandled(t *testing.T) {
	f := newFixture(t)
	f.fallback.handled = true
	f.fallback.feedback = "The lever creaks."

	events := f.dispatchText(t, world.ActorKindPlayer, "alice", "pull lever")

	testutil.AssertEqual(t, "event count", len(events), 1)
	testutil.AssertEqual(t, "type", events[0].Type, "cmd.text.trigger")
	testutil.AssertEqual(t, "feedback", events[0].Text, "The lever creaks.")
}

func TestTextFallbackHandledSilently(t *testing.T) {
	f := newFixture(t)
	f.fallback.handled = true

	events := f.dispatchText(t, world.ActorKindPlayer, "alice", "pull lever")

	testutil.AssertEqual(t, "no events", len(events), 0)
}

func TestTextTriggerSourceSkipsFallback(t *testing.T) {
	f := newFixture(t)
	f.fallback.handled = true

	events := f.dispatch(t, &dispatch.Request{
		CommandType: "text",
		ActorKind:   world.ActorKindMob,
		ActorId:     "guard-1",
		Payload: map[string]any{
			"text":                        "pull lever",
			dispatch.PayloadTriggerSource: true,
		},
	})

	testutil.AssertEqual(t, "echoed", events[0].Type, "cmd.text.echo")
	testutil.AssertEqual(t, "fallback untouched", len(f.fallback.calls), 0)
}

func TestTextBuilderCommandUnknown(t *testing.T) {
	f := newFixture(t, func(st *world.Stores) {
		st.Players.(*worldtest.MemStore[*world.Player]).Records["alice"].Builder = true
	})

	tests := map[string]struct {
		playerId string
	}{
		"builder":     {"alice"},
		"non-builder": {"bob"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			events := f.dispatchText(t, world.ActorKindPlayer, tt.playerId, "/load room")

			testutil.AssertEqual(t, "type", events[0].Type, "cmd.text.error")
			testutil.AssertEqual(t, "code", events[0].Data["code"], "unknown_cmd")
			testutil.AssertEqual(t, "text", events[0].Text, "Unknown builder command.")
		})
	}
}

func TestTextMobLookUnsupported(t *testing.T) {
	f := newFixture(t)

	events := f.dispatchText(t, world.ActorKindMob, "guard-1", "look")

	testutil.AssertEqual(t, "type", events[0].Type, "cmd.look.error")
	testutil.AssertEqual(t, "code", events[0].Data["code"], "unsupported_actor")
	testutil.AssertEqual(t, "text", events[0].Text, "Mobs cannot execute look.")
}

func TestTextMobCanSpeak(t *testing.T) {
	f := newFixture(t)

	events := f.dispatchText(t, world.ActorKindMob, "guard-1", "say move along")

	testutil.AssertEqual(t, "type", events[0].Type, "cmd.say.success")
	actor := events[0].Data["actor"].(map[string]any)
	testutil.AssertEqual(t, "actor", actor["key"], "mob.guard-1")
}
