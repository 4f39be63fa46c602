package clock_test

import (
	"testing"
	"time"

	"github.com/okian/chongus/internal/domain/clock"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRealClock(t *testing.T) {
	Convey("Given the real clock", t, func() {
		Convey("Then it should read a non-zero time", func() {
			So(clock.Real{}.Now().IsZero(), ShouldBeFalse)
		})
	})
}

func TestFakeClock(t *testing.T) {
	Convey("Given a fake clock", t, func() {
		start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		clk := clock.NewFake(start)

		Convey("Then it should read its start time", func() {
			So(clk.Now().Equal(start), ShouldBeTrue)
		})

		Convey("When advancing it", func() {
			clk.Advance(1500 * time.Millisecond)

			Convey("Then it should move forward exactly", func() {
				So(clk.Now().Equal(start.Add(1500*time.Millisecond)), ShouldBeTrue)
			})
		})

		Convey("When setting it", func() {
			later := start.Add(time.Hour)
			clk.Set(later)

			Convey("Then it should read the new time", func() {
				So(clk.Now().Equal(later), ShouldBeTrue)
			})
		})
	})
}
