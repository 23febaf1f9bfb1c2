package handlers

import (
	"context"

	"github.com/realmkit/realmd/internal/actions"
	"github.com/realmkit/realmd/internal/dispatch"
	"github.com/realmkit/realmd/internal/world"
)

// MoveHandler walks a player to an adjacent room. The room change and the
// stamina charge commit atomically under the player's lock; events are
// built from the settled state afterwards.
type MoveHandler struct {
	command
	state *world.State
}

func NewMoveHandler(state *world.State) *MoveHandler {
	return &MoveHandler{
		command: command{
			commandType: "move",
			verbs:       world.Directions,
			kinds:       playerOnly,
			help: Help{
				Name:        "Move",
				Format:      "north | east | south | west | up | down",
				Description: "Move to an adjacent room in the given direction.",
				Examples:    []string{"north", "e", "down"},
			},
		},
		state: state,
	}
}

func (h *MoveHandler) Execute(ctx context.Context, c *dispatch.Context) error {
	player := c.Actor.(*world.Player)
	direction := c.PayloadString("direction")

	var mc *actions.MoveContext
	err := h.state.UpdatePlayer(player.Id, func(p *world.Player) error {
		var err error
		mc, err = actions.ResolveMove(h.state, p, direction)
		if err != nil {
			return err
		}

		actions.ChangeRoom(p, mc.DestRoomId)
		actions.AdjustStamina(p, -mc.Cost)
		return nil
	})
	if err != nil {
		return err
	}

	c.PublishEvents(ctx, actions.BuildMoveEvents(h.state, h.state.Player(player.Id), mc))
	return nil
}
