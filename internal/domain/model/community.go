package model

import (
	"math"
	"time"
)

// CommunityRewards are what the event promises on reaching its goal.
// Nothing pays them out yet.
type CommunityRewards struct {
	Currency              float64 `json:"currency"`
	RareCollectibleChance float64 `json:"rare_collectible_chance"`
}

// CommunityEvent is the shared, time-boxed contribution goal.
type CommunityEvent struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Goal        float64          `json:"goal"`
	Current     float64          `json:"current"`
	EndTime     time.Time        `json:"end_time"`
	Rewards     CommunityRewards `json:"rewards"`
}

// Progress is current/goal capped at 1.
func (e CommunityEvent) Progress() float64 {
	if e.Goal <= 0 {
		return 0
	}
	return math.Min(1, e.Current/e.Goal)
}

// GoalReached reports whether contributions met the goal.
func (e CommunityEvent) GoalReached() bool {
	return e.Goal > 0 && e.Current >= e.Goal
}

// Remaining is the time left before EndTime, never negative.
func (e CommunityEvent) Remaining(now time.Time) time.Duration {
	if d := e.EndTime.Sub(now); d > 0 {
		return d
	}
	return 0
}
