package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	service "github.com/okian/chongus/internal/app"
	"github.com/okian/chongus/internal/domain/action"
	"github.com/okian/chongus/internal/domain/clock"
	. "github.com/smartystreets/goconvey/convey"
)

type countingSubmitter struct {
	mu    sync.Mutex
	ticks int
	err   error
}

func (c *countingSubmitter) Submit(_ context.Context, a action.Action, _ string) (service.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := a.(action.Tick); ok {
		c.ticks++
	}
	return service.Result{}, c.err
}

func (c *countingSubmitter) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticks
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return false
}

func TestDriver(t *testing.T) {
	Convey("Given a driver ticking every few milliseconds", t, func() {
		sub := &countingSubmitter{}
		d := service.NewDriver(sub, 5*time.Millisecond)
		go d.Run(context.Background())

		Convey("When it runs for a while and is stopped", func() {
			So(waitFor(func() bool { return sub.count() >= 3 }), ShouldBeTrue)
			d.Stop()
			d.Stop()
			<-d.Done()
			stopped := sub.count()
			time.Sleep(20 * time.Millisecond)

			Convey("Then it submitted ticks and no more after stopping", func() {
				So(stopped, ShouldBeGreaterThanOrEqualTo, 3)
				So(sub.count(), ShouldEqual, stopped)
			})
		})
	})

	Convey("Given a driver whose queue is always full", t, func() {
		sub := &countingSubmitter{err: service.ErrBackpressure}
		ctx, cancel := context.WithCancel(context.Background())
		d := service.NewDriver(sub, 5*time.Millisecond)
		go d.Run(ctx)

		Convey("Then it keeps ticking until cancelled", func() {
			So(waitFor(func() bool { return sub.count() >= 3 }), ShouldBeTrue)
			cancel()
			<-d.Done()
		})
	})

	Convey("Given a driver feeding a real service", t, func() {
		clk := clock.NewFake(t0)
		svc := newService(clk)
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()

		d := service.NewDriver(svc, 5*time.Millisecond)
		go d.Run(context.Background())
		defer d.Stop()

		Convey("When the clock jumps an hour between ticks", func() {
			clk.Advance(time.Hour)

			Convey("Then the whole hour is credited", func() {
				So(waitFor(func() bool { return svc.State().Player.Currency >= 3600 }), ShouldBeTrue)
				So(svc.State().Player.Currency, ShouldAlmostEqual, 3600, 1e-9)
			})
		})
	})
}
