// Package worldtest provides in-memory stores and a canned game state for
// tests in the packages that sit on top of the world registry.
package worldtest

import (
	"testing"

	"github.com/realmkit/realmd/internal/storage"
	"github.com/realmkit/realmd/internal/world"
)

// MemStore is a map-backed Storer.
type MemStore[T storage.ValidatingSpec] struct {
	Records map[string]T
	Saved   map[string]T
}

func NewMemStore[T storage.ValidatingSpec](records map[string]T) *MemStore[T] {
	return &MemStore[T]{
		Records: records,
		Saved:   map[string]T{},
	}
}

func (s *MemStore[T]) Save(id string, o T) error {
	s.Records[id] = o
	s.Saved[id] = o
	return nil
}

func (s *MemStore[T]) Get(id string) T {
	return s.Records[id]
}

func (s *MemStore[T]) GetAll() map[string]T {
	out := map[string]T{}
	for id, v := range s.Records {
		out[id] = v
	}
	return out
}

// Stores returns a small consistent fixture: one world, a three-room map
// (plaza/docks zones), two connected players, one offline player, and a
// guard mob stamped from a template.
func Stores() world.Stores {
	return world.Stores{
		Worlds: NewMemStore(map[string]*world.World{
			"w": {WorldName: "Midland", StartingRoom: "r1", State: world.LifecycleRunning},
		}),
		Rooms: NewMemStore(map[string]*world.Room{
			"r1": {
				RoomName:    "Plaza North",
				Description: "A wide flagstone plaza.",
				World:       "w",
				Zone:        "plaza",
				Terrain:     world.TerrainCity,
				Landmark:    true,
				Exits:       map[string]string{world.DirectionSouth: "r2"},
				X:           0, Y: 0,
			},
			"r2": {
				RoomName: "Plaza South",
				World:    "w",
				Zone:     "plaza",
				Terrain:  world.TerrainCity,
				Exits:    map[string]string{world.DirectionNorth: "r1", world.DirectionEast: "r3"},
				X:        0, Y: 1,
			},
			"r3": {
				RoomName: "Docks",
				World:    "w",
				Zone:     "docks",
				Terrain:  world.TerrainField,
				Exits:    map[string]string{world.DirectionWest: "r2"},
				X:        1, Y: 1,
			},
		}),
		Templates: NewMemStore(map[string]*world.MobTemplate{
			"guard": {MobName: "a city guard", World: "w"},
		}),
		Players: NewMemStore(map[string]*world.Player{
			"alice": {PlayerName: "Alice", World: "w", Room: "r1", Present: true, Stamina: 10, StaminaMax: 10, Visited: []string{"r1"}},
			"bob":   {PlayerName: "Bob", World: "w", Room: "r1", Present: true, Stamina: 10, StaminaMax: 10},
			"carol": {PlayerName: "Carol", World: "w", Room: "r2", Present: false, Stamina: 10, StaminaMax: 10},
		}),
		Mobs: NewMemStore(map[string]*world.Mob{
			"guard-1": {MobName: "a city guard", Template: "guard", World: "w", Room: "r1"},
		}),
		Triggers: NewMemStore(map[string]*world.Trigger{}),
	}
}

// State builds a world.State from the default fixture, applying any
// mutations to the stores first.
func State(t testing.TB, mutate ...func(*world.Stores)) *world.State {
	t.Helper()

	stores := Stores()
	for _, fn := range mutate {
		fn(&stores)
	}

	s, err := world.NewState(stores)
	if err != nil {
		t.Fatalf("building test state: %v", err)
	}
	return s
}
