package actions

import (
	"testing"

	"github.com/pixil98/go-testutil"
	"github.com/realmkit/realmd/internal/world"
	"github.com/realmkit/realmd/internal/world/worldtest"
)

func TestLook(t *testing.T) {
	s := worldtest.State(t)

	events, err := Look(s, s.Player("alice"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "event count", len(events), 1)
	testutil.AssertEqual(t, "type", events[0].Type, "cmd.look.success")
	testutil.AssertEqual(t, "target type", events[0].Data["target_type"], "room")

	target := events[0].Data["target"].(map[string]any)
	testutil.AssertEqual(t, "room", target["key"], "room.r1")
	testutil.AssertEqual(t, "map present", len(events[0].Data["map"].([]any)) > 0, true)
}

func TestLookNowhere(t *testing.T) {
	s := worldtest.State(t, func(st *world.Stores) {
		st.Players.(*worldtest.MemStore[*world.Player]).Records["alice"].Room = ""
	})

	_, err := Look(s, s.Player("alice"))
	assertActionError(t, err, "no_room")
}

func TestInventory(t *testing.T) {
	s := worldtest.State(t)

	events := Inventory(s, s.Player("alice"))
	testutil.AssertEqual(t, "type", events[0].Type, "cmd.inventory.success")
	actor := events[0].Data["actor"].(map[string]any)
	testutil.AssertEqual(t, "actor key", actor["key"], "player.alice")
}

func TestNormalizeDie(t *testing.T) {
	tests := map[string]struct {
		target string
		exp    string
	}{
		"full descriptor": {"2d6", "2d6"},
		"bare integer":    {"20", "1d20"},
		"blank":           {"", "1d6"},
		"whitespace":      {"   ", "1d6"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "die", NormalizeDie(tt.target), tt.exp)
		})
	}
}

func TestRollDieRange(t *testing.T) {
	tests := map[string]struct {
		die     string
		expMin  int
		expMax  int
	}{
		"2d6":    {"2d6", 2, 12},
		"1d20":   {"1d20", 1, 20},
		"1d1":    {"1d1", 1, 1},
		"capped": {"500d500", 100, 100 * 100},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 200; i++ {
				outcome, err := RollDie(tt.die)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if outcome < tt.expMin || outcome > tt.expMax {
					t.Fatalf("outcome %d outside [%d, %d]", outcome, tt.expMin, tt.expMax)
				}
			}
		})
	}
}

func TestRollDieInvalid(t *testing.T) {
	for _, die := range []string{"xdy", "2d", "d6", "-1d6", "2d-6"} {
		if _, err := RollDie(die); err == nil {
			t.Fatalf("expected error for %q", die)
		}
	}
}

func TestRoll(t *testing.T) {
	s := worldtest.State(t)

	events, err := Roll(s, s.Player("alice"), "2d6")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "event count", len(events), 2)
	testutil.AssertEqual(t, "die", events[0].Data["die"], "2d6")

	outcome := events[0].Data["outcome"].(int)
	testutil.AssertEqual(t, "outcome in range", outcome >= 2 && outcome <= 12, true)

	notify := events[1]
	testutil.AssertEqual(t, "notify type", notify.Type, "notification.cmd.roll.success")
	testutil.AssertEqual(t, "observer only", len(notify.Recipients), 1)
	testutil.AssertEqual(t, "bob notified", notify.Recipients[0], "player.bob")
	testutil.AssertEqual(t, "same outcome", notify.Data["outcome"], outcome)
}

func TestRollInvisibleSkipsNotification(t *testing.T) {
	s := worldtest.State(t, func(st *world.Stores) {
		st.Players.(*worldtest.MemStore[*world.Player]).Records["alice"].Invisible = true
	})

	events, err := Roll(s, s.Player("alice"), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "no notification", len(events), 1)
	testutil.AssertEqual(t, "default die", events[0].Data["die"], "1d6")
}

func TestRollInvalidDescriptor(t *testing.T) {
	s := worldtest.State(t)

	_, err := Roll(s, s.Player("alice"), "grenade")
	assertActionError(t, err, "invalid_die")
}
