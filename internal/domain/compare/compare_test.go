package compare

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/scout/internal/domain/model"
)

func TestPlayers(t *testing.T) {
	Convey("Given two players and a population", t, func() {
		a := model.EnrichedPlayer{Player: model.Player{ID: "a", Name: "A", Form: 5, Influence: 80, Creativity: 40, Threat: 60, ICTIndex: 18}}
		b := model.EnrichedPlayer{Player: model.Player{ID: "b", Name: "B", Form: 10, Influence: 40, Creativity: 80, Threat: 30, ICTIndex: 15}}
		population := []model.Player{
			a.Player,
			b.Player,
			{ID: "c", Form: 8, Influence: 100, Creativity: 100, Threat: 120, ICTIndex: 30},
		}

		Convey("When comparing", func() {
			got, err := Players(a, b, population)

			So(err, ShouldBeNil)

			Convey("Then both stat lines are carried", func() {
				So(got.A.ID, ShouldEqual, "a")
				So(got.B.ID, ShouldEqual, "b")
			})

			Convey("And the radar has one axis per impact stat, in order", func() {
				names := make([]string, len(got.Axes))
				for i, ax := range got.Axes {
					names[i] = ax.Name
				}
				So(names, ShouldResemble, []string{"form", "influence", "creativity", "threat", "ict_index"})
			})

			Convey("And axes normalize against the population maximum", func() {
				form := got.Axes[0]
				So(form.PopulationMax, ShouldEqual, 10.0) // b holds the max
				So(form.NormalizedA, ShouldEqual, 50.0)
				So(form.NormalizedB, ShouldEqual, 100.0)

				threat := got.Axes[3]
				So(threat.PopulationMax, ShouldEqual, 120.0)
				So(threat.NormalizedA, ShouldEqual, 50.0)
				So(threat.NormalizedB, ShouldEqual, 25.0)
			})

			Convey("And raw values are preserved alongside", func() {
				influence := got.Axes[1]
				So(influence.RawA, ShouldEqual, 80.0)
				So(influence.RawB, ShouldEqual, 40.0)
			})
		})

		Convey("When an axis maximum is zero across the population", func() {
			zeroA := model.EnrichedPlayer{Player: model.Player{ID: "za"}}
			zeroB := model.EnrichedPlayer{Player: model.Player{ID: "zb"}}
			got, err := Players(zeroA, zeroB, []model.Player{zeroA.Player, zeroB.Player})

			So(err, ShouldBeNil)

			Convey("Then the axis normalizes to zero without dividing", func() {
				for _, ax := range got.Axes {
					So(ax.PopulationMax, ShouldEqual, 0.0)
					So(ax.NormalizedA, ShouldEqual, 0.0)
					So(ax.NormalizedB, ShouldEqual, 0.0)
				}
			})
		})

		Convey("When the population is empty", func() {
			_, err := Players(a, b, nil)

			So(err, ShouldNotBeNil)
			So(errors.Is(err, model.ErrInsufficientData), ShouldBeTrue)
		})
	})
}
