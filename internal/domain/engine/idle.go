package engine

import "github.com/okian/chongus/internal/domain/model"

// accumulate credits production for the time since the last update. Credit is
// derived from the timestamp delta alone, so many short ticks and one long
// tick over the same span pay the same amount.
func (e *Engine) accumulate(s *model.GameState) bool {
	now := e.clock.Now()
	elapsed := now.Sub(s.Player.LastUpdated)
	if elapsed <= 0 {
		return false
	}
	s.Player.Currency += s.Player.ProductionRate * elapsed.Seconds()
	s.Player.LastUpdated = now
	return true
}
