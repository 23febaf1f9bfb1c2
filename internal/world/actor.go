package world

import (
	"fmt"
	"strings"
)

// ActorKind tags the two actor variants. Handlers declare which kinds they
// accept instead of switching on concrete types.
type ActorKind string

const (
	ActorKindPlayer ActorKind = "player"
	ActorKindMob    ActorKind = "mob"
)

func (k ActorKind) Valid() bool {
	return k == ActorKindPlayer || k == ActorKindMob
}

// Actor is the capability surface shared by players and mobs: enough to
// address, locate, and filter them, and nothing more.
type Actor interface {
	Key() string
	Kind() ActorKind
	Name() string
	RoomID() string
	WorldID() string
	IsInvisible() bool
	InGame() bool
}

// PlayerKey returns the channel key for a player id, e.g. "player.7".
func PlayerKey(id string) string {
	return fmt.Sprintf("player.%s", id)
}

// MobKey returns the channel key for a mob id, e.g. "mob.12".
func MobKey(id string) string {
	return fmt.Sprintf("mob.%s", id)
}

// ParseActorKey splits an actor key into kind and id.
func ParseActorKey(key string) (ActorKind, string, bool) {
	kind, id, found := strings.Cut(key, ".")
	if !found || id == "" {
		return "", "", false
	}
	switch ActorKind(kind) {
	case ActorKindPlayer, ActorKindMob:
		return ActorKind(kind), id, true
	}
	return "", "", false
}
