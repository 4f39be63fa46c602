package model

import "slices"

// Rarity grades a collectible.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Rarities lists every rarity from most to least common.
func Rarities() []Rarity {
	return []Rarity{RarityCommon, RarityUncommon, RarityRare, RarityEpic, RarityLegendary}
}

// Valid reports whether r is one of the five rarities.
func (r Rarity) Valid() bool {
	return slices.Contains(Rarities(), r)
}

// Stats are the five combat figures of a collectible.
type Stats struct {
	Health  int `json:"health"`
	Attack  int `json:"attack"`
	Defense int `json:"defense"`
	Speed   int `json:"speed"`
	Special int `json:"special"`
}

// Total sums the five stats.
func (s Stats) Total() int {
	return s.Health + s.Attack + s.Defense + s.Speed + s.Special
}

// Appearance is purely cosmetic.
type Appearance struct {
	Color    string   `json:"color"`
	Size     int      `json:"size"`
	Features []string `json:"features"`
}

// Collectible is one Big Chongus.
type Collectible struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Rarity     Rarity     `json:"rarity"`
	Level      int        `json:"level"`
	Experience int        `json:"experience"`
	Stats      Stats      `json:"stats"`
	Appearance Appearance `json:"appearance"`
}

// Power is the arena strength of a collectible: the sum of its stats.
func (c Collectible) Power() int {
	return c.Stats.Total()
}

// Clone copies c including its feature list.
func (c Collectible) Clone() Collectible {
	c.Appearance.Features = slices.Clone(c.Appearance.Features)
	return c
}
