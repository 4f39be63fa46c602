package engine

import (
	"slices"

	"github.com/okian/chongus/internal/domain/model"
)

// startExpedition launches a template with team. Members are not checked
// against the collection and may sit on several expeditions at once.
func (e *Engine) startExpedition(s *model.GameState, templateID string, team []string) bool {
	t, ok := s.Template(templateID)
	if !ok {
		return false
	}
	if len(team) < 1 || len(team) > e.maxTeam {
		return false
	}

	now := e.clock.Now()
	s.Expeditions.Active = append(s.Expeditions.Active, model.ActiveExpedition{
		ID:         e.expeditionID(s),
		TemplateID: t.ID,
		Team:       slices.Clone(team),
		StartTime:  now,
		EndTime:    now.Add(t.Duration()),
	})
	return true
}

func (e *Engine) expeditionID(s *model.GameState) string {
	for {
		id := e.newID()
		if id == "" || s.HasActiveExpedition(id) {
			continue
		}
		if _, clash := s.Template(id); clash {
			continue
		}
		return id
	}
}

// completeExpedition pays the template's currency reward and removes the
// expedition. It does not wait for EndTime.
func completeExpedition(s *model.GameState, activeID string) bool {
	i := slices.IndexFunc(s.Expeditions.Active, func(a model.ActiveExpedition) bool {
		return a.ID == activeID
	})
	if i < 0 {
		return false
	}
	t, ok := s.Template(s.Expeditions.Active[i].TemplateID)
	if !ok {
		return false
	}
	s.Player.Currency += t.Rewards.Currency
	s.Expeditions.Active = slices.Delete(s.Expeditions.Active, i, i+1)
	return true
}
