package world

import (
	"context"

	"github.com/pixil98/go-log"
)

// RegenManager restores stamina to in-game players each driver tick.
type RegenManager struct {
	state  *State
	amount int
}

func NewRegenManager(state *State, amount int) *RegenManager {
	return &RegenManager{
		state:  state,
		amount: amount,
	}
}

func (m *RegenManager) Tick(ctx context.Context) error {
	if m.amount <= 0 {
		return nil
	}

	for _, p := range m.state.WhoList() {
		if p.Stamina >= p.StaminaMax {
			continue
		}

		err := m.state.UpdatePlayer(p.Id, func(p *Player) error {
			p.Stamina += m.amount
			if p.Stamina > p.StaminaMax {
				p.Stamina = p.StaminaMax
			}
			return nil
		})
		if err != nil {
			log.GetLogger(ctx).WithError(err).Warnf("regenerating stamina for %s", p.Id)
		}
	}

	return nil
}
