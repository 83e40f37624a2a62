package service_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/scout/internal/adapters/provider"
	"github.com/okian/scout/internal/adapters/repository"
	service "github.com/okian/scout/internal/app"
	"github.com/okian/scout/internal/domain/filter"
	"github.com/okian/scout/internal/domain/rank"
)

const datasetHeader = "id,name,position,team,league,age,price,minutes,total_points,goals,assists,form,influence,creativity,threat,ict_index\n"

const datasetV1 = datasetHeader +
	"alonso,Marcos Alonso,DEF,Chelsea,Premier League,30,6.0,2700,60,3,5,4.2,500,300,200,100\n" +
	"cancelo,Joao Cancelo,DEF,Man City,Premier League,27,4.0,2500,40,2,7,3.8,450,350,150,95\n" +
	"moura,Lucas Moura,MID,Spurs,Premier League,29,8.0,30,100,9,4,6.1,600,500,400,150\n"

const datasetV2 = datasetV1 +
	"kane,Harry Kane,FWD,Spurs,Premier League,28,12.5,3100,190,23,9,9.0,1100,500,1300,290\n"

func writeDataset(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o600)
}

// waitFor polls cond until it holds or the timeout expires.
func waitFor(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

func TestServiceLifecycle(t *testing.T) {
	Convey("Given a service over a CSV dataset file", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "players.csv")
		So(writeDataset(path, datasetV1), ShouldBeNil)

		svc := service.New(
			service.WithProvider(provider.NewCSV(path)),
			service.WithReferenceMinMinutes(90),
			service.WithQueueSize(4),
		)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		Convey("When starting the service", func() {
			err := svc.Start(ctx)
			defer svc.Stop()
			So(err, ShouldBeNil)

			Convey("Then the initial snapshot is served", func() {
				players, err := svc.Players(ctx, filter.Criteria{})
				So(err, ShouldBeNil)
				So(len(players), ShouldEqual, 3)

				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["snapshot_loaded"], ShouldEqual, true)
			})

			Convey("And starting twice is a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})

			Convey("And a manual refresh picks up a grown dataset", func() {
				So(writeDataset(path, datasetV2), ShouldBeNil)
				So(svc.TriggerRefresh(ctx), ShouldBeTrue)

				grown := waitFor(5*time.Second, func() bool {
					players, err := svc.Players(ctx, filter.Criteria{})
					return err == nil && len(players) == 4
				})
				So(grown, ShouldBeTrue)

				Convey("And rankings include the new arrival", func() {
					top, err := svc.TopN(ctx, filter.Criteria{}, rank.KeyTotalPoints, 1, true)
					So(err, ShouldBeNil)
					So(len(top), ShouldEqual, 1)
					So(top[0].ID, ShouldEqual, "kane")
				})
			})

			Convey("And an unchanged dataset does not publish a new snapshot", func() {
				before := svc.GetStats()["snapshot_id"]
				So(svc.TriggerRefresh(ctx), ShouldBeTrue)

				// The worker needs a moment to fetch and fingerprint.
				time.Sleep(300 * time.Millisecond)
				So(svc.GetStats()["snapshot_id"], ShouldEqual, before)
			})
		})
	})
}

func TestServiceCacheFallback(t *testing.T) {
	Convey("Given a snapshot cache populated by an earlier run", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "players.csv")
		cachePath := filepath.Join(dir, "scout-cache.db")
		So(writeDataset(path, datasetV1), ShouldBeNil)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		cache, err := repository.OpenCache(ctx, cachePath)
		So(err, ShouldBeNil)

		first := service.New(
			service.WithProvider(provider.NewCSV(path)),
			service.WithCache(cache),
		)
		So(first.Start(ctx), ShouldBeNil)
		first.Stop()
		So(cache.Close(), ShouldBeNil)

		Convey("When the provider file disappears before the next run", func() {
			So(os.Remove(path), ShouldBeNil)

			cache, err := repository.OpenCache(ctx, cachePath)
			So(err, ShouldBeNil)
			defer func() { _ = cache.Close() }()

			second := service.New(
				service.WithProvider(provider.NewCSV(path)),
				service.WithCache(cache),
			)
			So(second.Start(ctx), ShouldBeNil)
			defer second.Stop()

			Convey("Then the cached dataset is served", func() {
				players, err := second.Players(ctx, filter.Criteria{})
				So(err, ShouldBeNil)
				So(len(players), ShouldEqual, 3)
			})
		})
	})
}
