// statedump loads world assets from disk and prints the state-sync document
// for one player. It is a debugging tool: the output is exactly what the
// player's client would receive from a state.sync command.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	"github.com/realmkit/realmd/internal/statesync"
	"github.com/realmkit/realmd/internal/storage"
	"github.com/realmkit/realmd/internal/world"
)

func main() {
	assets := flag.String("assets", "", "directory containing the asset subdirectories (worlds, rooms, templates, players, mobs, triggers)")
	player := flag.String("player", "", "id of the player to dump")
	flag.Parse()

	err := run(*assets, *player)
	if err != nil {
		fmt.Fprintf(os.Stderr, "statedump: %v\n", err)
		os.Exit(1)
	}
}

func run(assets, playerId string) error {
	if assets == "" {
		return fmt.Errorf("-assets is required")
	}
	if playerId == "" {
		return fmt.Errorf("-player is required")
	}

	stores, err := buildStores(assets)
	if err != nil {
		return err
	}

	state, err := world.NewState(stores)
	if err != nil {
		return fmt.Errorf("building world state: %w", err)
	}

	p := state.Player(playerId)
	if p == nil {
		return fmt.Errorf("unknown player %q", playerId)
	}

	out, err := json.MarshalIndent(statesync.Build(state, p), "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling state sync: %w", err)
	}

	fmt.Println(string(out))
	return nil
}

func buildStores(assets string) (world.Stores, error) {
	worlds, err := storage.NewFileStore[*world.World](filepath.Join(assets, "worlds"))
	if err != nil {
		return world.Stores{}, fmt.Errorf("loading worlds: %w", err)
	}
	rooms, err := storage.NewFileStore[*world.Room](filepath.Join(assets, "rooms"))
	if err != nil {
		return world.Stores{}, fmt.Errorf("loading rooms: %w", err)
	}
	templates, err := storage.NewFileStore[*world.MobTemplate](filepath.Join(assets, "templates"))
	if err != nil {
		return world.Stores{}, fmt.Errorf("loading templates: %w", err)
	}
	players, err := storage.NewFileStore[*world.Player](filepath.Join(assets, "players"))
	if err != nil {
		return world.Stores{}, fmt.Errorf("loading players: %w", err)
	}
	mobs, err := storage.NewFileStore[*world.Mob](filepath.Join(assets, "mobs"))
	if err != nil {
		return world.Stores{}, fmt.Errorf("loading mobs: %w", err)
	}
	triggers, err := storage.NewFileStore[*world.Trigger](filepath.Join(assets, "triggers"))
	if err != nil {
		return world.Stores{}, fmt.Errorf("loading triggers: %w", err)
	}

	return world.Stores{
		Worlds:    worlds,
		Rooms:     rooms,
		Templates: templates,
		Players:   players,
		Mobs:      mobs,
		Triggers:  triggers,
	}, nil
}
