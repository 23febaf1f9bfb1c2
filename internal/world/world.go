package world

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

// Lifecycle is the run state of a world instance.
type Lifecycle string

const (
	LifecycleNew      Lifecycle = "new"
	LifecycleRunning  Lifecycle = "running"
	LifecycleStopping Lifecycle = "stopping"
	LifecycleStopped  Lifecycle = "stopped"
)

var lifecycleTransitions = map[Lifecycle][]Lifecycle{
	LifecycleNew:      {LifecycleRunning},
	LifecycleRunning:  {LifecycleStopping},
	LifecycleStopping: {LifecycleStopped},
	LifecycleStopped:  {LifecycleRunning},
}

// World is a playable map. A world with a blank Context is a root world;
// otherwise it is an instance spawned under that root.
type World struct {
	WorldName    string    `json:"name"`
	Context      string    `json:"context,omitempty"`
	StartingRoom string    `json:"starting_room,omitempty"`
	State        Lifecycle `json:"state,omitempty"`
}

func (w *World) Validate() error {
	el := errors.NewErrorList()

	if w.WorldName == "" {
		el.Add(fmt.Errorf("name is required"))
	}
	switch w.State {
	case "", LifecycleNew, LifecycleRunning, LifecycleStopping, LifecycleStopped:
	default:
		el.Add(fmt.Errorf("unknown lifecycle state %q", w.State))
	}

	return el.Err()
}

// Lifecycle returns the world's run state, defaulting to new.
func (w *World) Lifecycle() Lifecycle {
	if w.State == "" {
		return LifecycleNew
	}
	return w.State
}

// TransitionTo advances the lifecycle, rejecting transitions outside
// new -> running -> stopping -> stopped (-> running on restart).
func (w *World) TransitionTo(next Lifecycle) error {
	cur := w.Lifecycle()
	for _, allowed := range lifecycleTransitions[cur] {
		if next == allowed {
			w.State = next
			return nil
		}
	}
	return fmt.Errorf("cannot transition world from %s to %s", cur, next)
}
