package model

import (
	"slices"
	"time"
)

// ExpeditionRewards are declared per template. Only Currency is paid out;
// Experience and ItemChance are carried for clients but never applied.
type ExpeditionRewards struct {
	Currency   float64 `json:"currency"`
	Experience int     `json:"experience"`
	ItemChance float64 `json:"item_chance"`
}

// ExpeditionTemplate is a read-only catalog entry.
type ExpeditionTemplate struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	DurationSeconds int               `json:"duration_seconds"`
	Difficulty      int               `json:"difficulty"`
	Rewards         ExpeditionRewards `json:"rewards"`
}

// Duration returns the template length as a time.Duration.
func (t ExpeditionTemplate) Duration() time.Duration {
	return time.Duration(t.DurationSeconds) * time.Second
}

// ExpeditionStatus is the time-relative state of a running expedition.
type ExpeditionStatus string

const (
	ExpeditionActive      ExpeditionStatus = "active"
	ExpeditionCompletable ExpeditionStatus = "completable"
)

// ActiveExpedition is a running instance of a template.
type ActiveExpedition struct {
	ID         string    `json:"id"`
	TemplateID string    `json:"template_id"`
	Team       []string  `json:"team"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
}

// Status reports Active before EndTime and Completable from EndTime on.
func (a ActiveExpedition) Status(now time.Time) ExpeditionStatus {
	if now.Before(a.EndTime) {
		return ExpeditionActive
	}
	return ExpeditionCompletable
}

// Remaining is the time left until EndTime, never negative.
func (a ActiveExpedition) Remaining(now time.Time) time.Duration {
	if d := a.EndTime.Sub(now); d > 0 {
		return d
	}
	return 0
}

// Clone copies a including its team.
func (a ActiveExpedition) Clone() ActiveExpedition {
	a.Team = slices.Clone(a.Team)
	return a
}
