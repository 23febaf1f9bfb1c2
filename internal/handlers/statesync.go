package handlers

import (
	"context"

	"github.com/realmkit/realmd/internal/dispatch"
	"github.com/realmkit/realmd/internal/statesync"
	"github.com/realmkit/realmd/internal/world"
)

// StateSyncHandler ships the full client state snapshot. Clients request it
// on connect, on reconnect, and on explicit refresh.
type StateSyncHandler struct {
	command
	state *world.State
}

func NewStateSyncHandler(state *world.State) *StateSyncHandler {
	return &StateSyncHandler{
		command: command{
			commandType: "state.sync",
			kinds:       playerOnly,
		},
		state: state,
	}
}

func (h *StateSyncHandler) Execute(ctx context.Context, c *dispatch.Context) error {
	c.PublishSuccess(ctx, statesync.Build(h.state, c.Actor.(*world.Player)))
	return nil
}
