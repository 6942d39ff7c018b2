package feedreplay

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"testing"
	"time"

	"github.com/okian/courtside/internal/adapters/http/api"
	service "github.com/okian/courtside/internal/app"
	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/internal/domain/segment"
	"github.com/okian/courtside/internal/domain/sport"
	"github.com/okian/courtside/internal/domain/tiering"
	"github.com/okian/courtside/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithOutput(os.Stderr)); err != nil {
		panic(err)
	}
}

var clockPattern = regexp.MustCompile(`^\d{1,2}:[0-5]\d$`)

func seeded(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed)) //nolint:gosec // test data
}

func TestGenerate(t *testing.T) {
	Convey("Given a seeded generator", t, func() {
		Convey("Equal seeds give equal feeds", func() {
			a := Generate(seeded(7), "g1", "NBA", 120)
			b := Generate(seeded(7), "g1", "NBA", 120)
			So(a, ShouldResemble, b)
		})

		Convey("A basketball feed is well formed", func() {
			f := Generate(seeded(3), "g1", "NBA", 200)
			So(f.Game.HomeAbbr, ShouldEqual, "BOS")
			So(f.Game.AwayAbbr, ShouldEqual, "LAL")
			So(f.Events, ShouldHaveLength, 200)

			So(f.Events[0].Kind, ShouldEqual, model.KindSocialPost)
			So(f.Events[0].Period, ShouldEqual, 0)
			So(f.Events[len(f.Events)-1].Kind, ShouldEqual, model.KindSocialPost)

			prev := model.Score{}
			for i, ev := range f.Events {
				So(ev.Index, ShouldEqual, i)
				if ev.Clock != "" {
					So(clockPattern.MatchString(ev.Clock), ShouldBeTrue)
				}
				next := ev.ScoreAfter(prev)
				So(next.Home, ShouldBeGreaterThanOrEqualTo, prev.Home)
				So(next.Away, ShouldBeGreaterThanOrEqualTo, prev.Away)
				prev = next
			}
			So(f.Events[len(f.Events)-2].Period, ShouldEqual, 4)
		})

		Convey("A hockey league gets hockey teams and stats", func() {
			f := Generate(seeded(5), "g2", "NHL", 300)
			So(f.Game.HomeAbbr, ShouldEqual, "BOS")
			So(f.Game.AwayAbbr, ShouldEqual, "TOR")
			So(f.Events[len(f.Events)-2].Period, ShouldEqual, 3)

			stats := map[string]bool{}
			for _, ev := range f.Events {
				for _, c := range ev.Credits {
					stats[c.Stat] = true
				}
			}
			So(stats["SOG"], ShouldBeTrue)
			So(stats["PTS"], ShouldBeFalse)
		})

		Convey("Tiny feeds are padded to the minimum shape", func() {
			f := Generate(seeded(1), "g3", "NBA", 1)
			So(f.Events, ShouldHaveLength, 4)
		})
	})
}

func TestBatches(t *testing.T) {
	Convey("Given a feed cut into batches", t, func() {
		f := Generate(seeded(9), "g1", "NBA", 103)
		batches := Batches(seeded(9), f.Events, 10)

		Convey("Every event appears exactly once", func() {
			So(batches, ShouldHaveLength, 11)
			So(batches[10], ShouldHaveLength, 3)

			var seen []int
			for _, b := range batches {
				for _, ev := range b {
					seen = append(seen, ev.Index)
				}
			}
			sort.Ints(seen)
			for i, idx := range seen {
				So(idx, ShouldEqual, i)
			}
		})

		Convey("The source feed is left in order", func() {
			for i, ev := range f.Events {
				So(ev.Index, ShouldEqual, i)
			}
		})
	})
}

func TestVerifyGroups(t *testing.T) {
	Convey("Given a generated feed and its grouping", t, func() {
		f := Generate(seeded(11), "g1", "NBA", 150)
		groups := tiering.Group(f.Events, sport.For("NBA"))

		Convey("The real grouping passes", func() {
			So(VerifyGroups(f.Events, groups), ShouldBeNil)
		})

		Convey("A missing event is reported", func() {
			So(VerifyGroups(f.Events[:len(f.Events)-1], groups), ShouldNotBeNil)
		})

		Convey("A multi-event primary group is reported", func() {
			bad := []model.TieredGroup{{Tier: model.TierPrimary, Events: f.Events}}
			So(VerifyGroups(f.Events, bad), ShouldNotBeNil)
		})

		Convey("Adjacent tertiary groups are reported", func() {
			bad := []model.TieredGroup{
				{Tier: model.TierTertiary, Events: f.Events[:1]},
				{Tier: model.TierTertiary, Events: f.Events[1:2]},
			}
			So(VerifyGroups(f.Events[:2], bad), ShouldNotBeNil)
		})
	})
}

func TestVerifyMoments(t *testing.T) {
	Convey("Given a generated feed and its moments", t, func() {
		f := Generate(seeded(13), "g1", "NBA", 150)
		moments := segment.Segment(f.Events, model.BoxScoreState{},
			segment.WithGame(f.Game), segment.WithProfile(sport.For("NBA")))

		Convey("The real segmentation passes", func() {
			So(VerifyMoments(f.Events, moments), ShouldBeNil)
		})

		Convey("A gap between moments is reported", func() {
			bad := append([]model.Moment(nil), moments...)
			bad[1].StartIndex++
			So(VerifyMoments(f.Events, bad), ShouldNotBeNil)
		})

		Convey("A broken score chain is reported", func() {
			bad := append([]model.Moment(nil), moments...)
			bad[len(bad)-1].StartScore.Home += 100
			So(VerifyMoments(f.Events, bad), ShouldNotBeNil)
		})

		Convey("An empty feed needs no moments", func() {
			So(VerifyMoments(nil, nil), ShouldBeNil)
			So(VerifyMoments(f.Events, nil), ShouldNotBeNil)
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given the service behind a test HTTP server", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		svc := service.New(service.WithWorkerCount(2), service.WithQueueSize(2000))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		mux := http.NewServeMux()
		api.NewServer(svc, svc).Register(ctx, mux)
		srv := httptest.NewServer(mux)
		defer srv.Close()

		out := filepath.Join(t.TempDir(), "feeds", "replay.json")
		cfg := &Config{
			BaseURL:       srv.URL,
			League:        "NHL",
			Games:         3,
			EventsPerGame: 80,
			BatchSize:     9,
			Resend:        0.25,
			Workers:       4,
			Seed:          21,
			Timeout:       5 * time.Second,
			Wait:          10 * time.Second,
			OutputFile:    out,
		}

		Convey("When a replay runs", func() {
			stats, err := Run(ctx, cfg)

			Convey("Then every event is accepted once and every view verifies", func() {
				So(err, ShouldBeNil)
				So(stats.Games, ShouldEqual, 3)
				So(stats.EventsGenerated, ShouldEqual, 240)
				So(stats.Accepted, ShouldEqual, 240)
				So(stats.Duplicates, ShouldBeGreaterThan, 0)
				So(stats.Failed, ShouldEqual, 0)
				So(stats.Moments, ShouldBeGreaterThanOrEqualTo, 3)
			})

			Convey("Then the generated feeds are written out", func() {
				So(err, ShouldBeNil)
				data, err := os.ReadFile(out)
				So(err, ShouldBeNil)
				var feeds []Feed
				So(json.Unmarshal(data, &feeds), ShouldBeNil)
				So(feeds, ShouldHaveLength, 3)
			})
		})

		Convey("When the service is unreachable", func() {
			cfg.BaseURL = "http://127.0.0.1:1"
			_, err := Run(ctx, cfg)
			So(err, ShouldNotBeNil)
		})
	})
}
