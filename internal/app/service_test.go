package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	service "github.com/okian/courtside/internal/app"
	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should report defaults and not be started", func() {
			So(svc, ShouldNotBeNil)
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, false)
			So(stats["queueSize"], ShouldEqual, 10_000)
			So(stats["snapshots"], ShouldEqual, false)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithWorkerCount(8),
			service.WithQueueSize(50_000),
			service.WithDedupeSize(25_000),
			service.WithMaxFeedEvents(100),
			service.WithRunWindow(6),
			service.WithMomentMaxEvents(12),
			service.WithTopPlayers(3),
			service.WithRunThresholds(map[string]int{"nba": 6}),
		)

		Convey("Then the figures follow the options", func() {
			stats := svc.GetStats()
			So(stats["workerCount"], ShouldEqual, 8)
			So(stats["queueSize"], ShouldEqual, 50_000)
			So(stats["dedupeSize"], ShouldEqual, 25_000)
		})
	})
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New(service.WithWorkerCount(2))
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		Convey("When starting the service", func() {
			err := svc.Start(ctx)

			Convey("Then it should start and report runtime figures", func() {
				So(err, ShouldBeNil)
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["games"], ShouldEqual, 0)
				So(stats["queueLength"], ShouldEqual, 0)
			})

			Convey("And starting again is a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})
		})

		Convey("When stopping a started service", func() {
			So(svc.Start(ctx), ShouldBeNil)
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
			})

			Convey("And stopping twice is safe", func() {
				So(func() { svc.Stop() }, ShouldNotPanic)
			})
		})
	})

	Convey("Given a resume database in a missing directory", t, func() {
		svc := service.New(service.WithResumeDB(filepath.Join(t.TempDir(), "missing", "resume.db")))

		Convey("Then Start fails", func() {
			So(svc.Start(context.Background()), ShouldNotBeNil)
			So(svc.GetStats()["started"], ShouldEqual, false)
		})
	})
}

func TestService_NotStarted(t *testing.T) {
	Convey("Given a service that was never started", t, func() {
		svc := service.New()
		ctx := context.Background()

		Convey("Then every operation reports ErrNotStarted", func() {
			_, _, err := svc.Ingest(ctx, model.Game{ID: "g1"}, nil)
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)

			_, err = svc.Groups(ctx, "g1")
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)

			_, err = svc.Moments(ctx, "g1")
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)

			_, err = svc.Resume(ctx, "g1")
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)

			_, err = svc.SaveResume(ctx, "g1", model.ResumePosition{})
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
		})
	})
}

func TestService_Ingest(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New(service.WithWorkerCount(2))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When ingesting a batch with a negative index", func() {
			events := []model.TimelineEvent{
				{Kind: model.KindPlay, Index: 0},
				{Kind: model.KindPlay, Index: -1},
			}
			accepted, dups, err := svc.Ingest(ctx, model.Game{ID: "g1", League: "NBA"}, events)

			Convey("Then nothing is accepted", func() {
				So(errors.Is(err, service.ErrInvalidEvent), ShouldBeTrue)
				So(accepted, ShouldEqual, 0)
				So(dups, ShouldEqual, 0)
			})
		})

		Convey("When ingesting for a game without an id", func() {
			_, _, err := svc.Ingest(ctx, model.Game{League: "NBA"}, []model.TimelineEvent{{Index: 0}})

			Convey("Then the game is rejected", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When the same batch is sent twice", func() {
			events := sampleFeed()
			accepted, dups, err := svc.Ingest(ctx, sampleGame("dup"), events)
			So(err, ShouldBeNil)
			So(accepted, ShouldEqual, len(events))
			So(dups, ShouldEqual, 0)

			accepted, dups, err = svc.Ingest(ctx, sampleGame("dup"), events)

			Convey("Then the second batch is all duplicates", func() {
				So(err, ShouldBeNil)
				So(accepted, ShouldEqual, 0)
				So(dups, ShouldEqual, len(events))
			})
		})

		Convey("When a corrected event is re-sent at the same index", func() {
			events := sampleFeed()
			_, _, err := svc.Ingest(ctx, sampleGame("fix"), events)
			So(err, ShouldBeNil)

			So(storedEvents(ctx, svc, "fix", len(events)), ShouldBeTrue)

			fixed := events[3]
			fixed.Description = "James makes 3-pt shot"
			fixed.AwayScore = model.IntPtr(3)
			accepted, dups, err := svc.Ingest(ctx, sampleGame("fix"), []model.TimelineEvent{fixed})

			Convey("Then it is accepted and replaces the stored event", func() {
				So(err, ShouldBeNil)
				So(accepted, ShouldEqual, 1)
				So(dups, ShouldEqual, 0)

				So(eventually(func() bool {
					m, err := svc.Moments(ctx, "fix")
					return err == nil && len(m) > 0 && m[len(m)-1].EndScore.Away == 3
				}), ShouldBeTrue)
				So(storedEvents(ctx, svc, "fix", len(events)), ShouldBeTrue)
			})
		})
	})
}

func TestService_Views(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New(service.WithWorkerCount(2))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When asking for an unknown game", func() {
			_, gErr := svc.Groups(ctx, "nope")
			_, mErr := svc.Moments(ctx, "nope")

			Convey("Then ErrGameNotFound is returned", func() {
				So(errors.Is(gErr, service.ErrGameNotFound), ShouldBeTrue)
				So(errors.Is(mErr, service.ErrGameNotFound), ShouldBeTrue)
			})
		})

		Convey("When a game is registered with an empty batch", func() {
			_, _, err := svc.Ingest(ctx, sampleGame("empty"), nil)
			So(err, ShouldBeNil)

			Convey("Then both views are empty", func() {
				groups, err := svc.Groups(ctx, "empty")
				So(err, ShouldBeNil)
				So(groups, ShouldBeEmpty)

				moments, err := svc.Moments(ctx, "empty")
				So(err, ShouldBeNil)
				So(moments, ShouldBeEmpty)
			})
		})
	})
}

func TestService_Resume(t *testing.T) {
	Convey("Given a started service with a file-backed resume store", t, func() {
		path := filepath.Join(t.TempDir(), "resume.db")
		svc := service.New(service.WithWorkerCount(1), service.WithResumeDB(path))
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When nothing was saved", func() {
			_, err := svc.Resume(ctx, "g1")

			Convey("Then ErrNoPosition is returned", func() {
				So(errors.Is(err, service.ErrNoPosition), ShouldBeTrue)
			})
		})

		Convey("When saving a position", func() {
			saved, err := svc.SaveResume(ctx, "g1", model.ResumePosition{
				GameID: "ignored",
				Index:  42,
				Period: 3,
				Clock:  "4:12",
				Score:  model.Score{Home: 77, Away: 70},
			})
			So(err, ShouldBeNil)

			Convey("Then the path game id wins and a timestamp is set", func() {
				So(saved.GameID, ShouldEqual, "g1")
				So(saved.UpdatedAt.IsZero(), ShouldBeFalse)
			})

			Convey("And it reads back", func() {
				pos, err := svc.Resume(ctx, "g1")
				So(err, ShouldBeNil)
				So(pos.Index, ShouldEqual, 42)
				So(pos.Period, ShouldEqual, 3)
				So(pos.Clock, ShouldEqual, "4:12")
				So(pos.Score, ShouldResemble, model.Score{Home: 77, Away: 70})
			})
		})

		Convey("When saving a negative index", func() {
			_, err := svc.SaveResume(ctx, "g1", model.ResumePosition{Index: -3})

			Convey("Then it is rejected", func() {
				So(errors.Is(err, service.ErrInvalidEvent), ShouldBeTrue)
			})
		})
	})
}

func sampleGame(id string) model.Game {
	return model.Game{
		ID:       id,
		League:   "NBA",
		HomeTeam: "Boston Celtics",
		AwayTeam: "Los Angeles Lakers",
	}
}

// sampleFeed is a short two-period game: a miss, a rebound, a Boston three,
// then a Lakers layup after the break.
func sampleFeed() []model.TimelineEvent {
	return []model.TimelineEvent{
		{Kind: model.KindPlay, Index: 0, Period: 1, Clock: "11:40", Description: "MISS Davis 14' jumper"},
		{Kind: model.KindPlay, Index: 1, Period: 1, Clock: "11:38", Description: "Tatum REBOUND (Off:0 Def:1)"},
		{
			Kind: model.KindPlay, Index: 2, Period: 1, Clock: "11:20", Description: "Brown makes 3-pt shot",
			HomeScore: model.IntPtr(3), AwayScore: model.IntPtr(0),
			Credits: []model.StatCredit{{Player: "Brown", Team: "BOS", Stat: "PTS", Value: 3}},
		},
		{
			Kind: model.KindPlay, Index: 3, Period: 2, Clock: "11:51", Description: "James makes driving layup",
			HomeScore: model.IntPtr(3), AwayScore: model.IntPtr(2),
			Credits: []model.StatCredit{{Player: "James", Team: "LAL", Stat: "PTS", Value: 2}},
		},
	}
}

// storedEvents waits until the game's feed holds n events.
func storedEvents(ctx context.Context, svc *service.Service, gameID string, n int) bool {
	return eventually(func() bool {
		groups, err := svc.Groups(ctx, gameID)
		if err != nil {
			return false
		}
		total := 0
		for _, g := range groups {
			total += g.Len()
		}
		return total == n
	})
}

// eventually polls cond until it holds or a second passes; ingestion is
// asynchronous.
func eventually(cond func() bool) bool {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}
