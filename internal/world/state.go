package world

import (
	"fmt"
	"sort"
	"sync"

	"github.com/pixil98/go-errors"
	"github.com/realmkit/realmd/internal/storage"
)

// Stores bundles the asset stores a State is assembled from.
type Stores struct {
	Worlds    storage.Storer[*World]
	Rooms     storage.Storer[*Room]
	Templates storage.Storer[*MobTemplate]
	Players   storage.Storer[*Player]
	Mobs      storage.Storer[*Mob]
	Triggers  storage.Storer[*Trigger]
}

// StoredTrigger pairs a trigger with its asset id, which the engine needs
// for gate bookkeeping.
type StoredTrigger struct {
	Id string
	*Trigger
}

// State is the in-memory registry of everything loaded from the asset
// stores. Reads are cheap and concurrent; mutations of a single actor or
// world go through the Update* methods, which take an exclusive per-record
// lock, run the mutation on a copy, and swap the copy in only when it
// commits. Readers never observe a half-applied mutation.
type State struct {
	mu sync.RWMutex

	worlds    map[string]*World
	rooms     map[string]*Room
	templates map[string]*MobTemplate
	players   map[string]*Player
	mobs      map[string]*Mob
	triggers  []*StoredTrigger

	playerStore storage.Storer[*Player]

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex
}

// NewState loads every store and cross-checks references between records.
func NewState(st Stores) (*State, error) {
	s := &State{
		worlds:    map[string]*World{},
		rooms:     map[string]*Room{},
		templates: map[string]*MobTemplate{},
		players:   map[string]*Player{},
		mobs:      map[string]*Mob{},
		locks:     map[string]*sync.Mutex{},
	}

	if st.Worlds != nil {
		s.worlds = st.Worlds.GetAll()
	}
	if st.Rooms != nil {
		s.rooms = st.Rooms.GetAll()
	}
	if st.Templates != nil {
		s.templates = st.Templates.GetAll()
	}
	if st.Players != nil {
		s.players = st.Players.GetAll()
		s.playerStore = st.Players
		for id, p := range s.players {
			p.Id = id
		}
	}
	if st.Mobs != nil {
		s.mobs = st.Mobs.GetAll()
		for id, m := range s.mobs {
			m.Id = id
		}
	}
	if st.Triggers != nil {
		for id, t := range st.Triggers.GetAll() {
			s.triggers = append(s.triggers, &StoredTrigger{Id: id, Trigger: t})
		}
		sort.Slice(s.triggers, func(i, j int) bool {
			if s.triggers[i].Order != s.triggers[j].Order {
				return s.triggers[i].Order < s.triggers[j].Order
			}
			return s.triggers[i].Id < s.triggers[j].Id
		})
	}

	err := s.checkReferences()
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *State) checkReferences() error {
	el := errors.NewErrorList()

	for id, r := range s.rooms {
		if _, ok := s.worlds[r.World]; !ok {
			el.Add(fmt.Errorf("room %s references unknown world %q", id, r.World))
		}
		for dir, dest := range r.Exits {
			if _, ok := s.rooms[dest]; !ok {
				el.Add(fmt.Errorf("room %s exit %s references unknown room %q", id, dir, dest))
			}
		}
	}
	for id, p := range s.players {
		if _, ok := s.worlds[p.World]; !ok {
			el.Add(fmt.Errorf("player %s references unknown world %q", id, p.World))
		}
		if p.Room != "" {
			if _, ok := s.rooms[p.Room]; !ok {
				el.Add(fmt.Errorf("player %s references unknown room %q", id, p.Room))
			}
		}
	}
	for id, m := range s.mobs {
		if _, ok := s.worlds[m.World]; !ok {
			el.Add(fmt.Errorf("mob %s references unknown world %q", id, m.World))
		}
		if m.Room != "" {
			if _, ok := s.rooms[m.Room]; !ok {
				el.Add(fmt.Errorf("mob %s references unknown room %q", id, m.Room))
			}
		}
		if m.Template != "" {
			if _, ok := s.templates[m.Template]; !ok {
				el.Add(fmt.Errorf("mob %s references unknown template %q", id, m.Template))
			}
		}
	}
	for _, t := range s.triggers {
		if _, ok := s.worlds[t.World]; !ok {
			el.Add(fmt.Errorf("trigger %s references unknown world %q", t.Id, t.World))
		}
		if t.Room != "" {
			if _, ok := s.rooms[t.Room]; !ok {
				el.Add(fmt.Errorf("trigger %s references unknown room %q", t.Id, t.Room))
			}
		}
		if t.MobTemplate != "" {
			if _, ok := s.templates[t.MobTemplate]; !ok {
				el.Add(fmt.Errorf("trigger %s references unknown template %q", t.Id, t.MobTemplate))
			}
		}
	}

	return el.Err()
}

func (s *State) World(id string) *World {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.worlds[id]
}

func (s *State) Room(id string) *Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rooms[id]
}

// AllRooms returns a copy of the room table.
func (s *State) AllRooms() map[string]*Room {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := map[string]*Room{}
	for id, r := range s.rooms {
		out[id] = r
	}
	return out
}

func (s *State) Template(id string) *MobTemplate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.templates[id]
}

func (s *State) Player(id string) *Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.players[id]
}

func (s *State) Mob(id string) *Mob {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mobs[id]
}

// Actor looks up either actor variant by kind and id.
func (s *State) Actor(kind ActorKind, id string) Actor {
	switch kind {
	case ActorKindPlayer:
		if p := s.Player(id); p != nil {
			return p
		}
	case ActorKindMob:
		if m := s.Mob(id); m != nil {
			return m
		}
	}
	return nil
}

// ActorByKey looks up an actor from its channel key, e.g. "mob.12".
func (s *State) ActorByKey(key string) Actor {
	kind, id, ok := ParseActorKey(key)
	if !ok {
		return nil
	}
	return s.Actor(kind, id)
}

// RoomBrief reports whether the viewer behind key has brief room display
// enabled. Non-player viewers never do.
func (s *State) RoomBrief(key string) bool {
	p, ok := s.ActorByKey(key).(*Player)
	return ok && p.RoomBrief
}

// PlayersInRoom returns the in-game players in roomId, sorted by id.
func (s *State) PlayersInRoom(roomId string) []*Player {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Player
	for _, p := range s.players {
		if p.Present && p.Room == roomId {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out
}

// PlayersInZone returns the in-game players anywhere in the zone, sorted by
// id. Rooms without a zone never match.
func (s *State) PlayersInZone(worldId, zone string) []*Player {
	if zone == "" {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Player
	for _, p := range s.players {
		if !p.Present || p.World != worldId {
			continue
		}
		r := s.rooms[p.Room]
		if r != nil && r.Zone == zone {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out
}

// MobsInRoom returns the mobs in roomId, sorted by id.
func (s *State) MobsInRoom(roomId string) []*Mob {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Mob
	for _, m := range s.mobs {
		if m.Room == roomId {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out
}

// RoomOccupants returns every in-game actor in roomId, players first, each
// group sorted by id.
func (s *State) RoomOccupants(roomId string) []Actor {
	var out []Actor
	for _, p := range s.PlayersInRoom(roomId) {
		out = append(out, p)
	}
	for _, m := range s.MobsInRoom(roomId) {
		out = append(out, m)
	}
	return out
}

// WhoList returns the in-game players across all worlds, sorted by name.
func (s *State) WhoList() []*Player {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Player
	for _, p := range s.players {
		if p.Present {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PlayerName != out[j].PlayerName {
			return out[i].PlayerName < out[j].PlayerName
		}
		return out[i].Id < out[j].Id
	})
	return out
}

// Triggers returns the active triggers of the given kind in worldId, in
// author-defined order.
func (s *State) Triggers(worldId string, kind TriggerKind) []*StoredTrigger {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*StoredTrigger
	for _, t := range s.triggers {
		if t.Active && t.World == worldId && t.Kind == kind {
			out = append(out, t)
		}
	}
	return out
}

func (s *State) lockFor(key string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()

	mu, ok := s.locks[key]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[key] = mu
	}
	return mu
}

// UpdatePlayer runs fn with exclusive ownership of the player. fn mutates a
// private copy; on success the copy is persisted and swapped into the
// registry, so concurrent readers only ever observe committed records. On
// error the registry keeps the prior record.
func (s *State) UpdatePlayer(id string, fn func(*Player) error) error {
	mu := s.lockFor(PlayerKey(id))
	mu.Lock()
	defer mu.Unlock()

	current := s.Player(id)
	if current == nil {
		return fmt.Errorf("player %q not found", id)
	}

	next := *current
	next.Visited = append([]string(nil), current.Visited...)

	err := fn(&next)
	if err != nil {
		return err
	}

	if s.playerStore != nil {
		err = s.playerStore.Save(id, &next)
		if err != nil {
			return fmt.Errorf("persisting player %s: %w", id, err)
		}
	}

	s.mu.Lock()
	s.players[id] = &next
	s.mu.Unlock()

	return nil
}

// UpdateMob runs fn on a private copy of the mob, swapping it in on success.
// Mobs are not persisted; they respawn from templates.
func (s *State) UpdateMob(id string, fn func(*Mob) error) error {
	mu := s.lockFor(MobKey(id))
	mu.Lock()
	defer mu.Unlock()

	current := s.Mob(id)
	if current == nil {
		return fmt.Errorf("mob %q not found", id)
	}

	next := *current
	err := fn(&next)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.mobs[id] = &next
	s.mu.Unlock()

	return nil
}

// UpdateWorld runs fn on a private copy of the world, swapping it in on
// success. Lifecycle transitions go through here.
func (s *State) UpdateWorld(id string, fn func(*World) error) error {
	mu := s.lockFor("world." + id)
	mu.Lock()
	defer mu.Unlock()

	current := s.World(id)
	if current == nil {
		return fmt.Errorf("world %q not found", id)
	}

	next := *current
	err := fn(&next)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.worlds[id] = &next
	s.mu.Unlock()

	return nil
}
