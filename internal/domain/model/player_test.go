package model

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParsePosition(t *testing.T) {
	Convey("Given position labels from dataset sources", t, func() {
		Convey("When parsing canonical labels", func() {
			cases := map[string]Position{
				"GK":  PositionGoalkeeper,
				"DEF": PositionDefender,
				"MID": PositionMidfielder,
				"FWD": PositionForward,
			}
			for raw, want := range cases {
				got, err := ParsePosition(raw)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, want)
			}
		})

		Convey("When parsing synonyms and mixed case", func() {
			cases := map[string]Position{
				"gkp":        PositionGoalkeeper,
				"Goalkeeper": PositionGoalkeeper,
				"df":         PositionDefender,
				"Defender":   PositionDefender,
				"mf":         PositionMidfielder,
				"FW":         PositionForward,
				"striker":    PositionForward,
				" fwd ":      PositionForward,
			}
			for raw, want := range cases {
				got, err := ParsePosition(raw)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, want)
			}
		})

		Convey("When parsing multi-role labels", func() {
			got, err := ParsePosition("MF,FW")
			So(err, ShouldBeNil)
			So(got, ShouldEqual, PositionMidfielder)

			got, err = ParsePosition("DF/MF")
			So(err, ShouldBeNil)
			So(got, ShouldEqual, PositionDefender)
		})

		Convey("When parsing unknown labels", func() {
			for _, raw := range []string{"", "coach", "XYZ", "5"} {
				_, err := ParsePosition(raw)
				So(err, ShouldNotBeNil)
				So(errors.Is(err, ErrInvalidParameter), ShouldBeTrue)
			}
		})
	})
}

func TestPositionValid(t *testing.T) {
	Convey("Given the position enumeration", t, func() {
		Convey("Then recognized positions are valid", func() {
			for _, p := range []Position{PositionGoalkeeper, PositionDefender, PositionMidfielder, PositionForward} {
				So(p.Valid(), ShouldBeTrue)
			}
		})

		Convey("And anything else is not", func() {
			So(Position("").Valid(), ShouldBeFalse)
			So(Position("gk").Valid(), ShouldBeFalse)
			So(Position("SW").Valid(), ShouldBeFalse)
		})
	})
}

func TestErrorSentinels(t *testing.T) {
	Convey("Given the engine failure sentinels", t, func() {
		Convey("Then they are distinct", func() {
			So(errors.Is(ErrInvalidParameter, ErrInsufficientData), ShouldBeFalse)
			So(errors.Is(ErrInsufficientData, ErrEmptyCandidatePool), ShouldBeFalse)
			So(errors.Is(ErrEmptyCandidatePool, ErrInvalidParameter), ShouldBeFalse)
		})
	})
}
