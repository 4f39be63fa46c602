// Package model contains the game-state tree owned by a single GameState root.
//
// Every entity is held by value under one root; expeditions reference
// collectibles by id, never by pointer, so a deep Clone is a plain copy of
// maps and slices.
package model

import (
	"maps"
	"slices"
	"time"
)

// Player holds the idle-production side of the state.
type Player struct {
	Name           string    `json:"name"`
	Level          int       `json:"level"`
	Currency       float64   `json:"currency"`
	ProductionRate float64   `json:"production_rate"`
	LastUpdated    time.Time `json:"last_updated"`
}

// Upgrade is a repeatable production purchase.
type Upgrade struct {
	Level  int     `json:"level"`
	Cost   float64 `json:"cost"`
	Effect float64 `json:"effect"`
}

// Expeditions groups the read-only catalog with running instances.
type Expeditions struct {
	Available []ExpeditionTemplate `json:"available"`
	Active    []ActiveExpedition   `json:"active"`
}

// GameState is the single authoritative snapshot.
//
// Revision counts transitions that changed the state. A rejected action
// leaves it untouched, so callers can tell an ignored action apart by
// comparing revisions.
type GameState struct {
	Revision       uint64             `json:"revision"`
	Player         Player             `json:"player"`
	Collection     []Collectible      `json:"collection"`
	Upgrades       map[string]Upgrade `json:"upgrades"`
	Expeditions    Expeditions        `json:"expeditions"`
	CommunityEvent CommunityEvent     `json:"community_event"`
}

// Clone returns a deep copy that shares no mutable memory with s.
func (s GameState) Clone() GameState {
	out := s
	if s.Collection != nil {
		out.Collection = make([]Collectible, len(s.Collection))
		for i, c := range s.Collection {
			out.Collection[i] = c.Clone()
		}
	}
	out.Upgrades = maps.Clone(s.Upgrades)
	out.Expeditions.Available = slices.Clone(s.Expeditions.Available)
	if s.Expeditions.Active != nil {
		out.Expeditions.Active = make([]ActiveExpedition, len(s.Expeditions.Active))
		for i, a := range s.Expeditions.Active {
			out.Expeditions.Active[i] = a.Clone()
		}
	}
	return out
}

// UpgradeIDs returns upgrade identifiers in a stable order.
func (s GameState) UpgradeIDs() []string {
	return slices.Sorted(maps.Keys(s.Upgrades))
}

// Template looks up an expedition template by id.
func (s GameState) Template(id string) (ExpeditionTemplate, bool) {
	for _, t := range s.Expeditions.Available {
		if t.ID == id {
			return t, true
		}
	}
	return ExpeditionTemplate{}, false
}

// HasCollectible reports whether id is already used in the collection.
func (s GameState) HasCollectible(id string) bool {
	return slices.ContainsFunc(s.Collection, func(c Collectible) bool { return c.ID == id })
}

// HasActiveExpedition reports whether id is already used by a running expedition.
func (s GameState) HasActiveExpedition(id string) bool {
	return slices.ContainsFunc(s.Expeditions.Active, func(a ActiveExpedition) bool { return a.ID == id })
}
