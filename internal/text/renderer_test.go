package text

import (
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"
)

type fakeViewers struct {
	brief map[string]bool
}

func (v *fakeViewers) RoomBrief(viewerKey string) bool {
	return v.brief[viewerKey]
}

func newTestRenderer(t *testing.T, brief map[string]bool) *Renderer {
	t.Helper()

	r, err := NewRenderer(&fakeViewers{brief: brief})
	if err != nil {
		t.Fatalf("building renderer: %v", err)
	}
	return r
}

func TestRenderLines(t *testing.T) {
	tests := map[string]struct {
		eventType string
		data      map[string]any
		expText   string
	}{
		"say self": {
			eventType: "cmd.say.success",
			data:      map[string]any{"text": "hello there"},
			expText:   "You say 'hello there'",
		},
		"say observed": {
			eventType: "notification.cmd.say.success",
			data:      map[string]any{"text": "hello", "actor": map[string]any{"name": "alice"}},
			expText:   "Alice says 'hello'",
		},
		"yell self": {
			eventType: "cmd.yell.success",
			data:      map[string]any{"text": "help"},
			expText:   "You yell 'help'",
		},
		"yell observed": {
			eventType: "notification.cmd.yell.success",
			data:      map[string]any{"text": "help", "actor": map[string]any{"name": "bob"}},
			expText:   "Bob yells 'help'",
		},
		"emote": {
			eventType: "cmd.emote.success",
			data:      map[string]any{"text": "waves slowly", "actor": map[string]any{"name": "alice"}},
			expText:   "Alice waves slowly",
		},
		"roll self": {
			eventType: "cmd.roll.success",
			data:      map[string]any{"die": "2d6", "outcome": 7},
			expText:   "You roll 2d6: 7",
		},
		"roll observed": {
			eventType: "notification.cmd.roll.success",
			data:      map[string]any{"die": "2d6", "outcome": 7, "actor": map[string]any{"name": "alice"}},
			expText:   "Alice rolls 2d6: 7",
		},
		"movement exit": {
			eventType: "notification.movement.exit",
			data:      map[string]any{"direction": "east", "actor": map[string]any{"name": "alice"}},
			expText:   "Alice leaves east.",
		},
		"movement enter lateral": {
			eventType: "notification.movement.enter",
			data:      map[string]any{"direction": "east", "actor": map[string]any{"name": "alice"}},
			expText:   "Alice has arrived from the east.",
		},
		"movement enter from above": {
			eventType: "notification.movement.enter",
			data:      map[string]any{"direction": "up", "actor": map[string]any{"name": "alice"}},
			expText:   "Alice has arrived from above.",
		},
		"movement enter from below": {
			eventType: "notification.movement.enter",
			data:      map[string]any{"direction": "down", "actor": map[string]any{"name": "alice"}},
			expText:   "Alice has arrived from below.",
		},
		"say without text renders nothing": {
			eventType: "cmd.say.success",
			data:      map[string]any{},
			expText:   "",
		},
		"observed say without actor renders nothing": {
			eventType: "notification.cmd.say.success",
			data:      map[string]any{"text": "hello"},
			expText:   "",
		},
		"unknown type renders nothing": {
			eventType: "cmd.unknown.success",
			data:      map[string]any{"text": "hello"},
			expText:   "",
		},
		"empty inventory": {
			eventType: "cmd.inventory.success",
			data:      map[string]any{"actor": map[string]any{"name": "alice"}},
			expText:   "You are carrying:\nNothing.",
		},
		"inventory with items": {
			eventType: "cmd.inventory.success",
			data: map[string]any{"actor": map[string]any{
				"inventory": []any{
					map[string]any{"name": "a brass lantern"},
					map[string]any{"name": "a rope"},
				},
			}},
			expText: "You are carrying:\na brass lantern\na rope",
		},
		"look at char": {
			eventType: "cmd.look.success",
			data:      map[string]any{"target_type": "char", "target": map[string]any{"name": "a city guard"}},
			expText:   "A city guard",
		},
		"look at room detail": {
			eventType: "cmd.look.success",
			data:      map[string]any{"target_type": "room_detail", "target": "The carving is worn smooth."},
			expText:   "The carving is worn smooth.",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			r := newTestRenderer(t, nil)
			got, err := r.RenderText(tt.eventType, tt.data, "player.1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "text", got, tt.expText)
		})
	}
}

func roomData() map[string]any {
	return map[string]any{
		"name":        "Plaza North",
		"description": "A wide flagstone plaza.",
		"exits":       map[string]any{"south": "r2", "east": "r3"},
		"chars": []any{
			map[string]any{"key": "player.1", "name": "Alice"},
			map[string]any{"key": "player.2", "name": "bob"},
			map[string]any{"key": "mob.9", "name": "a city guard", "room_description": "A city guard stands watch.", "is_invisible": true},
		},
		"actions": []any{"pull lever"},
	}
}

func TestRenderLook(t *testing.T) {
	r := newTestRenderer(t, nil)

	got, err := r.RenderText("cmd.look.success", map[string]any{
		"target_type": "room",
		"target":      roomData(),
	}, "player.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	exp := "Plaza North\n" +
		"A wide flagstone plaza.\n" +
		"[ exits: S E ]\n" +
		"Bob is here.\n" +
		"A city guard stands watch. (invisible)\n" +
		"Action available: pull lever"
	testutil.AssertEqual(t, "room block", got, exp)
}

func TestRenderMoveHonorsBrief(t *testing.T) {
	r := newTestRenderer(t, map[string]bool{"player.2": true})

	full, err := r.RenderText("cmd.move.success", map[string]any{"room": roomData()}, "player.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	brief, err := r.RenderText("cmd.move.success", map[string]any{"room": roomData()}, "player.2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "full has description", strings.Contains(full, "flagstone"), true)
	testutil.AssertEqual(t, "brief omits description", strings.Contains(brief, "flagstone"), false)
}

func TestRenderStateSyncAlwaysDescribes(t *testing.T) {
	r := newTestRenderer(t, map[string]bool{"player.2": true})

	got, err := r.RenderText("cmd.state.sync.success", map[string]any{"room": roomData()}, "player.2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "description shown", strings.Contains(got, "flagstone"), true)
}

