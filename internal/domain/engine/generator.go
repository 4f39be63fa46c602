package engine

import (
	"fmt"
	"math"
	"slices"

	"github.com/okian/chongus/internal/domain/model"
	"github.com/okian/chongus/internal/domain/random"
)

var (
	features = []string{
		"big ears", "tiny tail", "fluffy fur", "glowing eyes",
		"spiky hair", "round belly", "long whiskers", "spotted pattern",
		"striped pattern", "shiny coat", "bushy eyebrows", "tiny paws",
	}
	colors = []string{"red", "blue", "green", "purple", "yellow", "orange", "pink"}
)

type rarityWeight struct {
	rarity     model.Rarity
	weight     float64
	multiplier float64
}

// rarityTable is walked in order against cumulative weights out of 100.
var rarityTable = []rarityWeight{
	{model.RarityCommon, 60, 1},
	{model.RarityUncommon, 25, 1.5},
	{model.RarityRare, 10, 2},
	{model.RarityEpic, 4, 3},
	{model.RarityLegendary, 1, 5},
}

// Generator rolls new collectibles from a uniform source.
type Generator struct {
	rng   random.Source
	newID func() string
}

// NewGenerator returns a Generator drawing from rng and naming with newID.
func NewGenerator(rng random.Source, newID func() string) *Generator {
	return &Generator{rng: rng, newID: newID}
}

// Generate rolls collectible number collectionSize+1. Draw order is fixed:
// rarity, five stats, feature count, features, color, size.
func (g *Generator) Generate(collectionSize int) model.Collectible {
	tier := g.rollRarity()

	stats := model.Stats{
		Health:  g.intn(50) + 50,
		Attack:  g.intn(20) + 10,
		Defense: g.intn(15) + 5,
		Speed:   g.intn(10) + 5,
		Special: g.intn(25) + 5,
	}
	stats = scale(stats, tier.multiplier)

	count := g.intn(3) + 1
	picked := make([]string, 0, count)
	for range count {
		f := features[g.intn(len(features))]
		if !slices.Contains(picked, f) {
			picked = append(picked, f)
		}
	}
	color := colors[g.intn(len(colors))]
	size := g.intn(50) + 50

	return model.Collectible{
		ID:         g.newID(),
		Name:       fmt.Sprintf("Big Chongus #%d", collectionSize+1),
		Rarity:     tier.rarity,
		Level:      1,
		Experience: 0,
		Stats:      stats,
		Appearance: model.Appearance{
			Color:    color,
			Size:     size,
			Features: picked,
		},
	}
}

func (g *Generator) rollRarity() rarityWeight {
	r := g.draw() * 100
	var cumulative float64
	for _, w := range rarityTable {
		cumulative += w.weight
		if r <= cumulative {
			return w
		}
	}
	return rarityTable[0]
}

// intn maps one draw to [0,n).
func (g *Generator) intn(n int) int {
	i := int(math.Floor(g.draw() * float64(n)))
	switch {
	case i < 0:
		return 0
	case i >= n:
		return n - 1
	}
	return i
}

func (g *Generator) draw() float64 {
	u := g.rng.Float64()
	if math.IsNaN(u) || u < 0 {
		return 0
	}
	return u
}

func scale(s model.Stats, m float64) model.Stats {
	f := func(v int) int { return int(math.Floor(float64(v) * m)) }
	return model.Stats{
		Health:  f(s.Health),
		Attack:  f(s.Attack),
		Defense: f(s.Defense),
		Speed:   f(s.Speed),
		Special: f(s.Special),
	}
}

// generate charges the collectible price and appends a fresh roll.
func (e *Engine) generate(s *model.GameState) bool {
	if s.Player.Currency < e.price {
		return false
	}
	c := e.gen.Generate(len(s.Collection))
	for c.ID == "" || s.HasCollectible(c.ID) {
		c.ID = e.newID()
	}
	s.Player.Currency -= e.price
	s.Collection = append(s.Collection, c)
	return true
}
