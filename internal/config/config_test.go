package config_test

import (
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/okian/courtside/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.EventQueueSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU()*2)
			convey.So(cfg.SegmentRunWindow, convey.ShouldEqual, 10)
			convey.So(cfg.TopPlayers, convey.ShouldEqual, 2)
			convey.So(cfg.RedisAddr, convey.ShouldBeEmpty)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with bad values", t, func() {
		cases := map[string]func(*config.Config){
			"empty addr":        func(c *config.Config) { c.Addr = "" },
			"short run window":  func(c *config.Config) { c.SegmentRunWindow = 1 },
			"negative players":  func(c *config.Config) { c.TopPlayers = -1 },
			"negative max":      func(c *config.Config) { c.SegmentMaxEvents = -5 },
			"zero run override": func(c *config.Config) { c.RunThresholds = map[string]int{"nba": 0} },
			"unknown league":    func(c *config.Config) { c.RunThresholds = map[string]int{"xfl": 4} },
			"bad log format":    func(c *config.Config) { c.LogFormat = "xml" },
		}
		for name, mutate := range cases {
			cfg := config.New(context.Background())
			mutate(cfg)

			convey.Convey("Then "+name+" is rejected as invalid config", func() {
				err := cfg.Validate()
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})
}

func TestConfig_ValidateUnknownLeague(t *testing.T) {
	convey.Convey("Given an override for a league without a profile", t, func() {
		cfg := config.New(context.Background())
		cfg.RunThresholds = map[string]int{"NBA": 6, "curling": 2}

		err := cfg.Validate()
		convey.So(errors.Is(err, config.ErrUnknownLeague), convey.ShouldBeTrue)
		convey.So(err.Error(), convey.ShouldContainSubstring, "curling")
	})
}
