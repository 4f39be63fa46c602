package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/chongus/internal/adapters/repository"
	"github.com/okian/chongus/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func openTempStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "chongus.db"), opts...)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen(t *testing.T) {
	Convey("Given an empty path", t, func() {
		_, err := Open("  ")

		Convey("Then opening fails", func() {
			So(errors.Is(err, ErrNotConfigured), ShouldBeTrue)
		})
	})
}

func TestOpenPragmas(t *testing.T) {
	Convey("Given a freshly opened store", t, func() {
		s := openTempStore(t)

		Convey("Then the connection runs in WAL mode with a busy timeout", func() {
			var mode string
			So(s.sqlDB.QueryRow("PRAGMA journal_mode").Scan(&mode), ShouldBeNil)
			So(mode, ShouldEqual, "wal")

			var timeout int
			So(s.sqlDB.QueryRow("PRAGMA busy_timeout").Scan(&timeout), ShouldBeNil)
			So(timeout, ShouldEqual, 5000)

			var level int
			So(s.sqlDB.QueryRow("PRAGMA synchronous").Scan(&level), ShouldBeNil)
			So(level, ShouldEqual, 1)
		})
	})
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, time.February, 22, 16, 40, 0, 0, time.UTC)

	Convey("Given an empty store", t, func() {
		s := openTempStore(t, WithRetain(2))
		s.now = func() time.Time { return now }

		Convey("Then there is no latest snapshot", func() {
			_, err := s.Latest(ctx)
			So(errors.Is(err, ErrSnapshotNotFound), ShouldBeTrue)
		})

		Convey("When a game is saved", func() {
			state := model.NewGameState(now, "Player")
			state.Revision = 12
			state.Player.Currency = 321.5
			state.Collection = append(state.Collection, model.Collectible{
				ID: "c1", Name: "Big Chongus #1", Rarity: model.RarityRare, Level: 1,
				Stats:      model.Stats{Health: 120, Attack: 40, Defense: 20, Speed: 18, Special: 30},
				Appearance: model.Appearance{Color: "blue", Size: 60, Features: []string{"tiny tail", "shiny coat"}},
			})
			state.Expeditions.Active = append(state.Expeditions.Active, model.ActiveExpedition{
				ID: "e1", TemplateID: "1", Team: []string{"c1"},
				StartTime: now, EndTime: now.Add(5 * time.Minute),
			})
			board := []repository.Entry{{Name: "Player", Amount: 40}, {Name: "MemeQueen", Amount: 650}}
			So(s.Save(ctx, state, board), ShouldBeNil)

			Convey("Then the whole tree comes back", func() {
				got, err := s.Latest(ctx)
				So(err, ShouldBeNil)
				So(got.SavedAt.Equal(now), ShouldBeTrue)
				So(got.State.Revision, ShouldEqual, 12)
				So(got.State.Player.Currency, ShouldEqual, 321.5)
				So(got.State.Collection, ShouldResemble, state.Collection)
				So(got.State.Upgrades, ShouldResemble, state.Upgrades)
				So(got.State.Expeditions.Active[0].Team, ShouldResemble, []string{"c1"})
				So(got.State.Expeditions.Active[0].EndTime.Equal(now.Add(5*time.Minute)), ShouldBeTrue)
				So(got.State.CommunityEvent.Title, ShouldEqual, "Meme Festival")
			})

			Convey("Then contributors come back ordered by amount", func() {
				got, _ := s.Latest(ctx)
				So(got.Contributors, ShouldResemble, []repository.Entry{
					{Name: "MemeQueen", Amount: 650},
					{Name: "Player", Amount: 40},
				})
			})

			Convey("And more snapshots are saved than retained", func() {
				for rev := uint64(13); rev <= 15; rev++ {
					state.Revision = rev
					So(s.Save(ctx, state, nil), ShouldBeNil)
				}

				Convey("Then only the newest are kept", func() {
					n, err := s.Count(ctx)
					So(err, ShouldBeNil)
					So(n, ShouldEqual, 2)
					got, _ := s.Latest(ctx)
					So(got.State.Revision, ShouldEqual, 15)
					So(got.Contributors, ShouldBeEmpty)
				})
			})
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			Convey("Then save is refused", func() {
				err := s.Save(cctx, model.NewGameState(now, ""), nil)
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})
}
