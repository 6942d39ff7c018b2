package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	dedupe "github.com/okian/courtside/internal/domain/dedupe"
	"github.com/okian/courtside/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new InMemoryDeduper", t, func() {
		Convey("When recording keys", func() {
			d := dedupe.NewInMemoryDeduper()

			So(d.Size(), ShouldEqual, 0)
			So(d.SeenAndRecord(ctx, "g1:0:a"), ShouldBeFalse)
			So(d.SeenAndRecord(ctx, "g1:0:a"), ShouldBeTrue)
			So(d.Size(), ShouldEqual, 1)
		})

		Convey("When unrecording a key", func() {
			d := dedupe.NewInMemoryDeduper()
			d.SeenAndRecord(ctx, "g1:0:a")
			d.Unrecord(ctx, "g1:0:a")
			d.Unrecord(ctx, "never-seen")

			Convey("Then it can be recorded again", func() {
				So(d.Size(), ShouldEqual, 0)
				So(d.SeenAndRecord(ctx, "g1:0:a"), ShouldBeFalse)
			})
		})

		Convey("When the bound is reached", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
			for i := 0; i < 4; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("k%d", i))
			}

			Convey("Then the oldest key is forgotten", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "k3"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "k1"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "k0"), ShouldBeFalse)
			})
		})

		Convey("When a bounded key is unrecorded and the ring wraps", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(2))
			d.SeenAndRecord(ctx, "a")
			d.SeenAndRecord(ctx, "b")
			d.Unrecord(ctx, "a")
			d.SeenAndRecord(ctx, "c")

			So(d.Size(), ShouldEqual, 2)
			So(d.SeenAndRecord(ctx, "b"), ShouldBeTrue)
			So(d.SeenAndRecord(ctx, "c"), ShouldBeTrue)
		})

		Convey("When unbounded", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
			for i := 0; i < 1000; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("k%d", i))
			}
			So(d.Size(), ShouldEqual, 1000)
			So(d.SeenAndRecord(ctx, "k0"), ShouldBeTrue)
		})

		Convey("When used concurrently", func() {
			d := dedupe.NewInMemoryDeduper()
			var wg sync.WaitGroup
			var mu sync.Mutex
			fresh := 0
			for g := 0; g < 8; g++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < 100; i++ {
						if !d.SeenAndRecord(ctx, fmt.Sprintf("k%d", i)) {
							mu.Lock()
							fresh++
							mu.Unlock()
						}
					}
				}()
			}
			wg.Wait()

			Convey("Then each key is new exactly once", func() {
				So(fresh, ShouldEqual, 100)
			})
		})
	})
}

func TestKey(t *testing.T) {
	Convey("Given timeline events", t, func() {
		ev := model.TimelineEvent{Kind: model.KindPlay, Index: 4, Description: "Brown makes layup", HomeScore: model.IntPtr(2)}

		Convey("Then identical re-sends share a key", func() {
			again := ev
			So(dedupe.Key("g1", ev), ShouldEqual, dedupe.Key("g1", again))
		})

		Convey("Then corrections and other games do not", func() {
			fixed := ev
			fixed.HomeScore = model.IntPtr(3)
			So(dedupe.Key("g1", fixed), ShouldNotEqual, dedupe.Key("g1", ev))
			So(dedupe.Key("g2", ev), ShouldNotEqual, dedupe.Key("g1", ev))
		})

		Convey("Then the key starts with game and index", func() {
			So(dedupe.Key("g1", ev), ShouldStartWith, "g1:4:")
		})
	})
}
