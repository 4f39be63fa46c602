package engine

import (
	"math"

	"github.com/okian/chongus/internal/domain/model"
)

// contribute moves amount from the player into the community pool. The pool
// has no cap and reaching the goal pays nothing out.
func contribute(s *model.GameState, amount float64) bool {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return false
	}
	if s.Player.Currency < amount {
		return false
	}
	s.Player.Currency -= amount
	s.CommunityEvent.Current += amount
	return true
}
