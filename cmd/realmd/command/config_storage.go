package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"
	"github.com/realmkit/realmd/internal/storage"
	"github.com/realmkit/realmd/internal/world"
)

type StorageConfig struct {
	Worlds    AssetConfig[*world.World]       `json:"worlds"`
	Rooms     AssetConfig[*world.Room]        `json:"rooms"`
	Templates AssetConfig[*world.MobTemplate] `json:"templates"`
	Players   AssetConfig[*world.Player]      `json:"players"`
	Mobs      AssetConfig[*world.Mob]         `json:"mobs"`
	Triggers  AssetConfig[*world.Trigger]     `json:"triggers"`
}

func (c *StorageConfig) BuildStores() (world.Stores, error) {
	worlds, err := c.Worlds.BuildFileStore()
	if err != nil {
		return world.Stores{}, fmt.Errorf("creating world store: %w", err)
	}
	rooms, err := c.Rooms.BuildFileStore()
	if err != nil {
		return world.Stores{}, fmt.Errorf("creating room store: %w", err)
	}
	templates, err := c.Templates.BuildFileStore()
	if err != nil {
		return world.Stores{}, fmt.Errorf("creating template store: %w", err)
	}
	players, err := c.Players.BuildFileStore()
	if err != nil {
		return world.Stores{}, fmt.Errorf("creating player store: %w", err)
	}
	mobs, err := c.Mobs.BuildFileStore()
	if err != nil {
		return world.Stores{}, fmt.Errorf("creating mob store: %w", err)
	}
	triggers, err := c.Triggers.BuildFileStore()
	if err != nil {
		return world.Stores{}, fmt.Errorf("creating trigger store: %w", err)
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

func (c *StorageConfig) Validate() error {
	el := errors.NewErrorList()
	el.Add(c.Worlds.Validate("worlds"))
	el.Add(c.Rooms.Validate("rooms"))
	el.Add(c.Templates.Validate("templates"))
	el.Add(c.Players.Validate("players"))
	el.Add(c.Mobs.Validate("mobs"))
	el.Add(c.Triggers.Validate("triggers"))
	return el.Err()
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

func (c *AssetConfig[T]) Validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}

func (c *AssetConfig[T]) BuildFileStore() (*storage.FileStore[T], error) {
	return storage.NewFileStore[T](c.Path)
}
