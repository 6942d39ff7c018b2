package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	app "github.com/okian/courtside/internal/app"
	"github.com/okian/courtside/internal/config"
	"github.com/okian/courtside/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestServiceOptions(t *testing.T) {
	t.Setenv("COURTSIDE_ADDR", ":8080")
	t.Setenv("COURTSIDE_QUEUE_SIZE", "1000")
	t.Setenv("COURTSIDE_WORKER_COUNT", "4")

	convey.Convey("Given configuration loaded from the environment", t, func() {
		cfg, err := config.Load(context.Background())
		convey.So(err, convey.ShouldBeNil)
		convey.So(cfg.Addr, convey.ShouldEqual, ":8080")

		convey.Convey("Then the service is built with the configured figures", func() {
			svc := app.New(serviceOptions(cfg, logger.Get())...)
			stats := svc.GetStats()
			convey.So(stats["queueSize"], convey.ShouldEqual, 1000)
			convey.So(stats["workerCount"], convey.ShouldEqual, 4)
			convey.So(stats["dedupeSize"], convey.ShouldEqual, cfg.DedupeSize)
		})
	})
}

func TestHandlerEndToEnd(t *testing.T) {
	t.Setenv("COURTSIDE_RESUME_DB_PATH", ":memory:")
	t.Setenv("COURTSIDE_WORKER_COUNT", "2")

	convey.Convey("Given a running service behind the HTTP handler", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cfg, err := config.Load(ctx)
		convey.So(err, convey.ShouldBeNil)

		svc := app.New(serviceOptions(cfg, logger.Get())...)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		srv := httptest.NewServer(newHandler(ctx, svc))
		defer srv.Close()

		convey.Convey("When a feed is posted", func() {
			body := `{"league":"NBA","home_team":"Boston Celtics","away_team":"Los Angeles Lakers","events":[
				{"kind":"social_post","index":0,"description":"Tip-off soon"},
				{"kind":"play","index":1,"period":1,"clock":"12:00","description":"Jump ball"},
				{"kind":"play","index":2,"period":1,"clock":"11:31","description":"Brown makes 3-pt shot","home_score":3,"away_score":0},
				{"kind":"play","index":3,"period":2,"clock":"11:02","description":"James makes layup","home_score":3,"away_score":2}
			]}`
			resp, err := http.Post(srv.URL+"/games/g1/events", "application/json", strings.NewReader(body))
			convey.So(err, convey.ShouldBeNil)
			_ = resp.Body.Close()
			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusAccepted)

			convey.Convey("Then the moments view is served once the workers catch up", func() {
				var out struct {
					Moments []struct {
						StartIndex int    `json:"start_index"`
						EndIndex   int    `json:"end_index"`
						Narrative  string `json:"narrative"`
					} `json:"moments"`
				}
				deadline := time.Now().Add(2 * time.Second)
				for time.Now().Before(deadline) {
					out.Moments = nil
					r, err := http.Get(srv.URL + "/games/g1/moments")
					if err == nil {
						_ = json.NewDecoder(r.Body).Decode(&out)
						_ = r.Body.Close()
					}
					if len(out.Moments) > 0 && out.Moments[len(out.Moments)-1].EndIndex == 3 {
						break
					}
					time.Sleep(10 * time.Millisecond)
				}

				convey.So(out.Moments, convey.ShouldHaveLength, 3)
				convey.So(out.Moments[0].Narrative, convey.ShouldStartWith, "Pregame")
				convey.So(out.Moments[1].Narrative, convey.ShouldEqual, "Q1 · LAL 0, BOS 3")
			})

			convey.Convey("Then the docs are served alongside the API", func() {
				r, err := http.Get(srv.URL + "/openapi.yaml")
				convey.So(err, convey.ShouldBeNil)
				_ = r.Body.Close()
				convey.So(r.StatusCode, convey.ShouldEqual, http.StatusOK)
			})
		})
	})
}
