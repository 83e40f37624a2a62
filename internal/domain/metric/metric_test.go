package metric

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/scout/internal/domain/model"
)

func TestLeagueAverage(t *testing.T) {
	Convey("Given reference populations", t, func() {
		Convey("When averaging a healthy population", func() {
			// mean(60/6, 40/4) = mean(10, 10) = 10
			population := []model.Player{
				{ID: "a", TotalPoints: 60, Price: 6},
				{ID: "b", TotalPoints: 40, Price: 4},
			}
			avg, err := LeagueAverage(population)

			So(err, ShouldBeNil)
			So(avg, ShouldEqual, 10.0)
		})

		Convey("When non-positive prices are present", func() {
			population := []model.Player{
				{ID: "a", TotalPoints: 60, Price: 6},
				{ID: "b", TotalPoints: 99, Price: 0},
				{ID: "c", TotalPoints: 40, Price: 4},
				{ID: "d", TotalPoints: 50, Price: -2},
			}
			avg, err := LeagueAverage(population)

			Convey("Then they are excluded from the mean, not coerced", func() {
				So(err, ShouldBeNil)
				So(avg, ShouldEqual, 10.0)
			})
		})

		Convey("When the population is empty", func() {
			_, err := LeagueAverage(nil)

			So(err, ShouldNotBeNil)
			So(errors.Is(err, model.ErrInsufficientData), ShouldBeTrue)
		})

		Convey("When every member has non-positive price", func() {
			population := []model.Player{
				{ID: "a", TotalPoints: 60, Price: 0},
				{ID: "b", TotalPoints: 40, Price: -1},
			}
			_, err := LeagueAverage(population)

			So(err, ShouldNotBeNil)
			So(errors.Is(err, model.ErrInsufficientData), ShouldBeTrue)
		})
	})
}

func TestEnrich(t *testing.T) {
	Convey("Given a population with league average 10", t, func() {
		population := []model.Player{
			{ID: "a", TotalPoints: 60, Price: 6},
			{ID: "b", TotalPoints: 40, Price: 4},
		}

		Convey("When enriching a priced record", func() {
			records := []model.Player{{ID: "p", TotalPoints: 100, Price: 8}}
			got, err := Enrich(records, population)

			So(err, ShouldBeNil)
			So(len(got), ShouldEqual, 1)

			Convey("Then the derived block follows the formulas", func() {
				e := got[0]
				So(e.ValueEfficiency, ShouldNotBeNil)
				So(*e.ValueEfficiency, ShouldEqual, 12.5)
				So(e.ExpectedPoints, ShouldNotBeNil)
				So(*e.ExpectedPoints, ShouldEqual, 80.0)
				So(e.Overperformance, ShouldNotBeNil)
				So(*e.Overperformance, ShouldEqual, 20.0)
				So(e.OverperformancePct, ShouldNotBeNil)
				So(*e.OverperformancePct, ShouldEqual, 25.0)
			})
		})

		Convey("When enriching a record with non-positive price", func() {
			records := []model.Player{{ID: "z", TotalPoints: 50, Price: 0}}
			got, err := Enrich(records, population)

			So(err, ShouldBeNil)

			Convey("Then the whole derived block is absent, never zero-coerced", func() {
				e := got[0]
				So(e.ValueEfficiency, ShouldBeNil)
				So(e.ExpectedPoints, ShouldBeNil)
				So(e.Overperformance, ShouldBeNil)
				So(e.OverperformancePct, ShouldBeNil)
			})
		})

		Convey("When enriching multiple records", func() {
			records := []model.Player{
				{ID: "r1", TotalPoints: 100, Price: 8},
				{ID: "r2", TotalPoints: 50, Price: 0},
				{ID: "r3", TotalPoints: 30, Price: 10},
			}
			got, err := Enrich(records, population)

			So(err, ShouldBeNil)

			Convey("Then input order is preserved", func() {
				So(len(got), ShouldEqual, 3)
				So(got[0].ID, ShouldEqual, "r1")
				So(got[1].ID, ShouldEqual, "r2")
				So(got[2].ID, ShouldEqual, "r3")
			})

			Convey("And expected points and overperformance travel together", func() {
				for _, e := range got {
					So(e.ExpectedPoints == nil, ShouldEqual, e.Overperformance == nil)
				}
			})

			Convey("And the same league average backs every record", func() {
				// r3: expected = 10 * 10 = 100, over = 30 - 100 = -70
				So(*got[2].ExpectedPoints, ShouldEqual, 100.0)
				So(*got[2].Overperformance, ShouldEqual, -70.0)
				So(*got[2].OverperformancePct, ShouldAlmostEqual, -70.0)
			})
		})

		Convey("When the caller keeps the input records", func() {
			records := []model.Player{{ID: "p", TotalPoints: 100, Price: 8}}
			before := records[0]
			_, err := Enrich(records, population)

			So(err, ShouldBeNil)

			Convey("Then the originals are untouched", func() {
				So(records[0], ShouldResemble, before)
			})
		})
	})

	Convey("Given a zero league average", t, func() {
		// mean(0/5) = 0
		population := []model.Player{{ID: "a", TotalPoints: 0, Price: 5}}
		records := []model.Player{{ID: "p", TotalPoints: 10, Price: 8}}

		Convey("When enriching", func() {
			got, err := Enrich(records, population)

			So(err, ShouldBeNil)

			Convey("Then zero expected points leaves the percentage absent", func() {
				e := got[0]
				So(e.ExpectedPoints, ShouldNotBeNil)
				So(*e.ExpectedPoints, ShouldEqual, 0.0)
				So(e.Overperformance, ShouldNotBeNil)
				So(*e.Overperformance, ShouldEqual, 10.0)
				So(e.OverperformancePct, ShouldBeNil)
			})
		})
	})

	Convey("Given an unusable population", t, func() {
		Convey("When enriching against it", func() {
			_, err := Enrich([]model.Player{{ID: "p", Price: 5}}, nil)

			Convey("Then the insufficient-data failure propagates", func() {
				So(errors.Is(err, model.ErrInsufficientData), ShouldBeTrue)
			})
		})
	})
}
