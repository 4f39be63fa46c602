package engine

import (
	"math"

	"github.com/okian/chongus/internal/domain/model"
)

// costGrowth multiplies an upgrade's cost after each purchase.
const costGrowth = 1.5

func buyUpgrade(s *model.GameState, id string) bool {
	u, ok := s.Upgrades[id]
	if !ok || s.Player.Currency < u.Cost {
		return false
	}
	s.Player.Currency -= u.Cost
	s.Player.ProductionRate += u.Effect
	u.Level++
	u.Cost = math.Floor(u.Cost * costGrowth)
	s.Upgrades[id] = u
	return true
}
