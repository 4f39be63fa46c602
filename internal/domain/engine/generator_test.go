package engine_test

import (
	"math"
	"testing"

	"github.com/okian/chongus/internal/domain/engine"
	"github.com/okian/chongus/internal/domain/model"
	"github.com/okian/chongus/internal/domain/random"
	. "github.com/smartystreets/goconvey/convey"
)

func fixedID() string { return "x" }

func TestGenerator_Distribution(t *testing.T) {
	Convey("Given a seeded uniform source", t, func() {
		g := engine.NewGenerator(random.NewSeeded(20240301), fixedID)

		Convey("When 100000 collectibles are generated", func() {
			const n = 100_000
			counts := map[model.Rarity]int{}
			for i := range n {
				counts[g.Generate(i).Rarity]++
			}

			Convey("Then rarities follow 60/25/10/4/1 within 1.5 points", func() {
				want := map[model.Rarity]float64{
					model.RarityCommon:    0.60,
					model.RarityUncommon:  0.25,
					model.RarityRare:      0.10,
					model.RarityEpic:      0.04,
					model.RarityLegendary: 0.01,
				}
				for r, p := range want {
					got := float64(counts[r]) / n
					So(math.Abs(got-p), ShouldBeLessThanOrEqualTo, 0.015)
				}
			})
		})
	})
}

func TestGenerator_Draws(t *testing.T) {
	Convey("Given scripted draws", t, func() {
		Convey("When every draw is zero", func() {
			src := random.NewScripted(0)
			c := engine.NewGenerator(src, fixedID).Generate(0)

			Convey("Then the minimum common collectible is produced", func() {
				So(c.Rarity, ShouldEqual, model.RarityCommon)
				So(c.Stats, ShouldResemble, model.Stats{Health: 50, Attack: 10, Defense: 5, Speed: 5, Special: 5})
				So(c.Appearance.Features, ShouldResemble, []string{"big ears"})
				So(c.Appearance.Color, ShouldEqual, "red")
				So(c.Appearance.Size, ShouldEqual, 50)
				So(c.Name, ShouldEqual, "Big Chongus #1")
				So(src.Draws(), ShouldEqual, 10)
			})
		})

		Convey("When the rarity draw lands in the legendary band", func() {
			// rarity, 5 stats, count=3, three features, color, size
			src := random.NewScripted(0.995, 0.5, 0.5, 0.5, 0.5, 0.5, 0.9, 0.0, 0.0, 0.99, 0.99, 0.5)
			c := engine.NewGenerator(src, fixedID).Generate(41)

			Convey("Then stats are multiplied by five and duplicate features collapse", func() {
				So(c.Rarity, ShouldEqual, model.RarityLegendary)
				So(c.Stats, ShouldResemble, model.Stats{Health: 375, Attack: 100, Defense: 60, Speed: 50, Special: 85})
				So(c.Appearance.Features, ShouldResemble, []string{"big ears", "tiny paws"})
				So(c.Appearance.Color, ShouldEqual, "pink")
				So(c.Appearance.Size, ShouldEqual, 75)
				So(c.Name, ShouldEqual, "Big Chongus #42")
			})
		})

		Convey("When the rarity draw sits on a band edge", func() {
			Convey("Then the edge belongs to the lower band", func() {
				So(engine.NewGenerator(random.NewScripted(0.60, 0), fixedID).Generate(0).Rarity, ShouldEqual, model.RarityCommon)
				So(engine.NewGenerator(random.NewScripted(0.85, 0), fixedID).Generate(0).Rarity, ShouldEqual, model.RarityUncommon)
				So(engine.NewGenerator(random.NewScripted(0.90, 0), fixedID).Generate(0).Rarity, ShouldEqual, model.RarityRare)
				So(engine.NewGenerator(random.NewScripted(0.97, 0), fixedID).Generate(0).Rarity, ShouldEqual, model.RarityEpic)
			})
		})

		Convey("When the uncommon multiplier yields fractions", func() {
			// health draw 0.02 -> 51 -> 76.5 -> 76
			src := random.NewScripted(0.7, 0.02, 0, 0, 0, 0, 0, 0, 0, 0)
			c := engine.NewGenerator(src, fixedID).Generate(0)

			Convey("Then stats are floored", func() {
				So(c.Rarity, ShouldEqual, model.RarityUncommon)
				So(c.Stats.Health, ShouldEqual, 76)
				So(c.Stats.Attack, ShouldEqual, 15)
				So(c.Stats.Defense, ShouldEqual, 7)
			})
		})

		Convey("When a broken source returns 1.0", func() {
			c := engine.NewGenerator(random.NewScripted(1.0), fixedID).Generate(0)

			Convey("Then every index is clamped into range", func() {
				So(c.Rarity, ShouldEqual, model.RarityLegendary)
				So(c.Appearance.Color, ShouldEqual, "pink")
				So(c.Appearance.Features, ShouldResemble, []string{"tiny paws"})
				So(c.Stats.Health, ShouldEqual, 99*5)
			})
		})
	})
}
