package app_test

import (
	"context"
	"math/big"
	"testing"
	"time"

	app "github.com/okian/arena/internal/app"
	model "github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/pkg/clock"
	"github.com/okian/arena/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSweeper(t *testing.T) {
	Convey("Given a running service with a fast sweep interval", t, func() {
		_ = logger.Init()
		clk := clock.NewManual(windowStart)
		svc := app.New(
			app.WithClock(clk),
			app.WithSweepInterval(10*time.Millisecond),
		)

		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		id, err := svc.CreateContest(ctx, "auto-closed", windowStart, windowEnd, model.MetricHighestROI, 1, big.NewInt(1000))
		So(err, ShouldBeNil)
		So(submit(svc, id, "alice", 1, 42, 0, true), ShouldBeNil)

		Convey("While the window is still open", func() {
			time.Sleep(50 * time.Millisecond)

			contest, err := svc.GetContest(ctx, id)
			So(err, ShouldBeNil)

			Convey("Then the sweeper leaves the contest alone", func() {
				So(contest.Status, ShouldEqual, model.StatusActive)
			})
		})

		Convey("Once the window has ended", func() {
			clk.Set(windowEnd)

			finalized := func() bool {
				contest, err := svc.GetContest(ctx, id)
				return err == nil && contest.Status == model.StatusFinalized
			}
			deadline := time.Now().Add(2 * time.Second)
			for !finalized() && time.Now().Before(deadline) {
				time.Sleep(10 * time.Millisecond)
			}

			Convey("Then the sweeper finalizes it", func() {
				So(finalized(), ShouldBeTrue)
			})

			Convey("Then winners and prizes are recorded", func() {
				winners, err := svc.Winners(ctx, id)
				So(err, ShouldBeNil)
				So(winners, ShouldResemble, []string{"alice"})

				amount, err := svc.Prize(ctx, id, "alice")
				So(err, ShouldBeNil)
				So(amount.Cmp(big.NewInt(500)), ShouldEqual, 0)
			})
		})
	})
}
