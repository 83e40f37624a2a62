package recommend

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/scout/internal/domain/model"
)

func fp(v float64) *float64 { return &v }

func enrichedPlayer(id string, points, price, ve float64) model.EnrichedPlayer {
	return model.EnrichedPlayer{
		Player:          model.Player{ID: id, Name: id, TotalPoints: points, Price: price},
		ValueEfficiency: fp(ve),
	}
}

func TestReplacementsScoring(t *testing.T) {
	Convey("Given the documented scoring example", t, func() {
		ref := enrichedPlayer("ref", 100, 10, 10)
		cand := enrichedPlayer("cand", 120, 12, 10)

		Convey("When scoring with budget 15", func() {
			got, err := Replacements(Request{Reference: ref, Candidates: []model.EnrichedPlayer{cand}, Budget: 15})

			So(err, ShouldBeNil)
			So(len(got), ShouldEqual, 1)

			Convey("Then the score is exactly 34", func() {
				s := got[0]
				So(s.PointsDelta, ShouldEqual, 20.0)
				So(s.ValueDelta, ShouldEqual, 0.0)
				So(s.PriceSavings, ShouldEqual, -2.0)
				So(s.Score, ShouldEqual, 34.0)
			})
		})
	})

	Convey("Given candidates scoring at or below zero", t, func() {
		ref := enrichedPlayer("ref", 100, 10, 10)
		worse := enrichedPlayer("worse", 40, 10, 4)

		Convey("When scoring", func() {
			got, err := Replacements(Request{Reference: ref, Candidates: []model.EnrichedPlayer{worse}, Budget: 20})

			Convey("Then they are still returned; thresholding is the caller's", func() {
				So(err, ShouldBeNil)
				So(len(got), ShouldEqual, 1)
				So(got[0].Score, ShouldBeLessThan, 0)
			})
		})
	})
}

func TestReplacementsEligibility(t *testing.T) {
	Convey("Given a reference and a candidate pool", t, func() {
		ref := enrichedPlayer("ref", 100, 10, 10)
		ref.Position = model.PositionMidfielder

		affordable := enrichedPlayer("affordable", 110, 9, 12.2)
		affordable.Position = model.PositionMidfielder
		expensive := enrichedPlayer("expensive", 200, 16, 12.5)
		expensive.Position = model.PositionMidfielder
		forward := enrichedPlayer("forward", 120, 8, 15)
		forward.Position = model.PositionForward
		unpriced := model.EnrichedPlayer{Player: model.Player{ID: "unpriced", TotalPoints: 80, Price: 0}}

		pool := []model.EnrichedPlayer{ref, expensive, affordable, forward, unpriced}

		Convey("When searching within budget 12", func() {
			got, err := Replacements(Request{Reference: ref, Candidates: pool, Budget: 12})

			So(err, ShouldBeNil)

			Convey("Then the reference never appears in its own results", func() {
				for _, s := range got {
					So(s.Player.ID, ShouldNotEqual, "ref")
				}
			})

			Convey("And every result respects the budget", func() {
				for _, s := range got {
					So(s.Player.Price, ShouldBeLessThanOrEqualTo, 12.0)
				}
			})

			Convey("And candidates without value efficiency are excluded", func() {
				for _, s := range got {
					So(s.Player.ID, ShouldNotEqual, "unpriced")
				}
			})
		})

		Convey("When restricting to midfielders", func() {
			got, err := Replacements(Request{Reference: ref, Candidates: pool, Budget: 12, Position: model.PositionMidfielder})

			So(err, ShouldBeNil)
			So(len(got), ShouldEqual, 1)
			So(got[0].Player.ID, ShouldEqual, "affordable")
		})

		Convey("When every candidate is priced above the budget", func() {
			got, err := Replacements(Request{Reference: ref, Candidates: []model.EnrichedPlayer{expensive}, Budget: 12})

			Convey("Then the empty pool is a typed failure, not a silent empty list", func() {
				So(got, ShouldBeNil)
				So(errors.Is(err, model.ErrEmptyCandidatePool), ShouldBeTrue)
			})
		})

		Convey("When the candidate pool itself is empty", func() {
			_, err := Replacements(Request{Reference: ref, Budget: 12})

			So(errors.Is(err, model.ErrEmptyCandidatePool), ShouldBeTrue)
		})
	})
}

func TestReplacementsOrdering(t *testing.T) {
	Convey("Given candidates with distinct and tied scores", t, func() {
		ref := enrichedPlayer("ref", 100, 10, 10)
		// Both tie at score 26; only price differs.
		cheapTie := enrichedPlayer("cheap-tie", 110, 8, 10)
		costlyTie := enrichedPlayer("costly-tie", 111.5, 9, 10)
		// score = 50*2 + 5*10 + 0*3 = 150
		top := enrichedPlayer("top", 150, 10, 15)

		Convey("When scoring", func() {
			got, err := Replacements(Request{
				Reference:  ref,
				Candidates: []model.EnrichedPlayer{costlyTie, cheapTie, top},
				Budget:     20,
			})

			So(err, ShouldBeNil)
			So(len(got), ShouldEqual, 3)

			Convey("Then ordering is score desc, then price asc", func() {
				So(got[0].Player.ID, ShouldEqual, "top")
				So(got[1].Player.ID, ShouldEqual, "cheap-tie")
				So(got[2].Player.ID, ShouldEqual, "costly-tie")
				So(got[1].Score, ShouldEqual, got[2].Score)
			})
		})
	})

	Convey("Given fully tied candidates", t, func() {
		ref := enrichedPlayer("ref", 100, 10, 10)
		twinA := enrichedPlayer("twin-a", 110, 9, 11)
		twinB := enrichedPlayer("twin-b", 110, 9, 11)

		Convey("When scoring", func() {
			got, err := Replacements(Request{Reference: ref, Candidates: []model.EnrichedPlayer{twinA, twinB}, Budget: 20})

			Convey("Then candidate input order breaks the tie", func() {
				So(err, ShouldBeNil)
				So(got[0].Player.ID, ShouldEqual, "twin-a")
				So(got[1].Player.ID, ShouldEqual, "twin-b")
			})
		})
	})

	Convey("Given a limit", t, func() {
		ref := enrichedPlayer("ref", 100, 10, 10)
		pool := []model.EnrichedPlayer{
			enrichedPlayer("c1", 110, 9, 11),
			enrichedPlayer("c2", 120, 9, 12),
			enrichedPlayer("c3", 130, 9, 13),
		}

		Convey("When limiting to 2", func() {
			got, err := Replacements(Request{Reference: ref, Candidates: pool, Budget: 20, Limit: 2})

			So(err, ShouldBeNil)
			So(len(got), ShouldEqual, 2)
			So(got[0].Player.ID, ShouldEqual, "c3")
			So(got[1].Player.ID, ShouldEqual, "c2")
		})

		Convey("When the limit is zero", func() {
			got, err := Replacements(Request{Reference: ref, Candidates: pool, Budget: 20})

			Convey("Then the result is unbounded", func() {
				So(err, ShouldBeNil)
				So(len(got), ShouldEqual, 3)
			})
		})
	})
}

func TestReplacementsValidation(t *testing.T) {
	Convey("Given invalid requests", t, func() {
		ref := enrichedPlayer("ref", 100, 10, 10)
		cand := enrichedPlayer("cand", 110, 9, 12)

		Convey("When the budget is negative", func() {
			_, err := Replacements(Request{Reference: ref, Candidates: []model.EnrichedPlayer{cand}, Budget: -1})
			So(errors.Is(err, model.ErrInvalidParameter), ShouldBeTrue)
		})

		Convey("When the limit is negative", func() {
			_, err := Replacements(Request{Reference: ref, Candidates: []model.EnrichedPlayer{cand}, Budget: 10, Limit: -2})
			So(errors.Is(err, model.ErrInvalidParameter), ShouldBeTrue)
		})

		Convey("When the position is unknown", func() {
			_, err := Replacements(Request{Reference: ref, Candidates: []model.EnrichedPlayer{cand}, Budget: 10, Position: model.Position("LIBERO")})
			So(errors.Is(err, model.ErrInvalidParameter), ShouldBeTrue)
		})

		Convey("When the reference has no value efficiency", func() {
			badRef := model.EnrichedPlayer{Player: model.Player{ID: "bad", Price: 0}}
			_, err := Replacements(Request{Reference: badRef, Candidates: []model.EnrichedPlayer{cand}, Budget: 10})
			So(errors.Is(err, model.ErrInvalidParameter), ShouldBeTrue)
		})
	})
}
