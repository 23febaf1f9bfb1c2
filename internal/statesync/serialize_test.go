package statesync

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/pixil98/go-testutil"
	"github.com/realmkit/realmd/internal/world"
	"github.com/realmkit/realmd/internal/world/worldtest"
)

func withLeverTrigger(st *world.Stores) {
	st.Triggers.(*worldtest.MemStore[*world.Trigger]).Records["t-lever"] = &world.Trigger{
		World:  "w",
		Kind:   world.TriggerKindCommand,
		Room:   "r1",
		Match:  `"pull lever" or yank`,
		Script: "emote watches the lever move",
		Active: true,
	}
}

func TestRoomPayload(t *testing.T) {
	s := worldtest.State(t, withLeverTrigger)

	payload := RoomPayload(s, "r1", "player.alice")

	testutil.AssertEqual(t, "key", payload["key"], "room.r1")
	testutil.AssertEqual(t, "name", payload["name"], "Plaza North")
	testutil.AssertEqual(t, "zone", payload["zone"], "plaza")

	exits := payload["exits"].(map[string]any)
	testutil.AssertEqual(t, "exit count", len(exits), 1)
	testutil.AssertEqual(t, "south exit", exits["south"], "room.r2")

	chars := payload["chars"].([]any)
	testutil.AssertEqual(t, "char count", len(chars), 3)
	testutil.AssertEqual(t, "players first", chars[0].(map[string]any)["key"], "player.alice")
	testutil.AssertEqual(t, "mob last", chars[2].(map[string]any)["key"], "mob.guard-1")
	testutil.AssertEqual(t, "mob room line", chars[2].(map[string]any)["room_description"], "A city guard is here.")

	actions := payload["actions"].([]any)
	testutil.AssertEqual(t, "action count", len(actions), 1)
	testutil.AssertEqual(t, "action label", actions[0], "pull lever")
}

func TestRoomPayloadUnknownRoom(t *testing.T) {
	s := worldtest.State(t)

	payload := RoomPayload(s, "r9", "player.alice")
	testutil.AssertEqual(t, "key", payload["key"], "room.unknown")
	testutil.AssertEqual(t, "name", payload["name"], "Unknown Room")
}

func TestActionLabelsScopedToRoom(t *testing.T) {
	s := worldtest.State(t, withLeverTrigger)

	payload := RoomPayload(s, "r2", "player.carol")
	testutil.AssertEqual(t, "no labels elsewhere", len(payload["actions"].([]any)), 0)
}

func TestMapPayload(t *testing.T) {
	s := worldtest.State(t, func(st *world.Stores) {
		players := st.Players.(*worldtest.MemStore[*world.Player])
		players.Records["alice"].Room = "r2"
		players.Records["alice"].Visited = []string{"r1", "r2"}
	})

	rooms := MapPayload(s, s.Player("alice"))

	// Current (r2), visited (r1, r2), starting + landmark (r1): r3 stays
	// unexplored.
	testutil.AssertEqual(t, "room count", len(rooms), 2)
	testutil.AssertEqual(t, "sorted first", rooms[0].(map[string]any)["key"], "room.r1")
	testutil.AssertEqual(t, "sorted second", rooms[1].(map[string]any)["key"], "room.r2")
	testutil.AssertEqual(t, "exit key", rooms[1].(map[string]any)["east"], "room.r3")
}

func TestWhoListHidesInvisible(t *testing.T) {
	s := worldtest.State(t, func(st *world.Stores) {
		st.Players.(*worldtest.MemStore[*world.Player]).Records["bob"].Invisible = true
	})

	aliceView := WhoList(s, s.Player("alice"))
	testutil.AssertEqual(t, "invisible hidden", len(aliceView), 1)
	testutil.AssertEqual(t, "alice visible", aliceView[0].(map[string]any)["name"], "Alice")

	bobView := WhoList(s, s.Player("bob"))
	testutil.AssertEqual(t, "self always shown", len(bobView), 2)
}

func TestBuildDeterministic(t *testing.T) {
	s := worldtest.State(t, withLeverTrigger)

	first, err := json.Marshal(Build(s, s.Player("alice")))
	if err != nil {
		t.Fatalf("marshalling snapshot: %v", err)
	}
	second, err := json.Marshal(Build(s, s.Player("alice")))
	if err != nil {
		t.Fatalf("marshalling snapshot: %v", err)
	}

	testutil.AssertEqual(t, "reproducible", string(first), string(second))
}

func TestWorldPayload(t *testing.T) {
	s := worldtest.State(t)

	payload := WorldPayload(s, "w")
	testutil.AssertEqual(t, "key", payload["key"], "w")
	testutil.AssertEqual(t, "root context is self", payload["context"], "w")
	testutil.AssertEqual(t, "state", payload["state"], "running")
	testutil.AssertEqual(t, "starting room", payload["starting_room"], "room.r1")
}
