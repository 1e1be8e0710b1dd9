package scoring_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/okian/wapoints/internal/domain/catalog"
	"github.com/okian/wapoints/internal/domain/performance"
	"github.com/okian/wapoints/internal/domain/scoring"
	"github.com/okian/wapoints/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func mustParse(raw string, u types.Unit) performance.Canonical {
	c, err := performance.Parse(raw, u)
	if err != nil {
		panic(err)
	}
	return c
}

func TestScorePublishedMarks(t *testing.T) {
	Convey("Given the embedded catalog", t, func() {
		c, err := catalog.Default()
		So(err, ShouldBeNil)

		Convey("When scoring 9.58 in the men's 100m", func() {
			ev, err := c.Lookup("100m")
			So(err, ShouldBeNil)
			pts, err := scoring.Score(mustParse("9.58", types.Seconds), ev, types.Men)

			Convey("Then the table value is returned", func() {
				So(err, ShouldBeNil)
				So(pts, ShouldEqual, 1355)
			})
		})

		Convey("When scoring 8.95 in the men's long jump", func() {
			ev, err := c.Lookup("Long Jump")
			So(err, ShouldBeNil)
			pts, err := scoring.Score(mustParse("8.95", types.Meters), ev, types.Men)

			Convey("Then the table value is returned", func() {
				So(err, ShouldBeNil)
				So(pts, ShouldEqual, 1346)
			})
		})

		Convey("When scoring other anchors", func() {
			cases := []struct {
				id   string
				g    types.Gender
				raw  string
				unit types.Unit
				want int
			}{
				{"100m", types.Men, "10.50", types.Seconds, 1040},
				{"5000m", types.Men, "14:00", types.Seconds, 1000},
				{"Long Jump", types.Women, "6.50", types.Meters, 1107},
				{"High Jump", types.Women, "2.00", types.Meters, 1219},
				{"Marathon", types.Men, "2:10:00", types.Seconds, 1032},
			}
			for _, tc := range cases {
				ev, err := c.Lookup(tc.id)
				So(err, ShouldBeNil)
				pts, err := scoring.Score(mustParse(tc.raw, tc.unit), ev, tc.g)
				So(err, ShouldBeNil)
				So(pts, ShouldEqual, tc.want)
			}
		})

		Convey("When the unit does not match", func() {
			ev, _ := c.Lookup("100m")
			_, err := scoring.Score(mustParse("8.95", types.Meters), ev, types.Men)
			So(errors.Is(err, scoring.ErrUnitMismatch), ShouldBeTrue)
		})

		Convey("When the gender does not contest the event", func() {
			ev, _ := c.Lookup("Dec.")
			_, err := scoring.Score(mustParse("8000", types.Points), ev, types.Women)
			So(errors.Is(err, catalog.ErrUnknownEvent), ShouldBeTrue)
		})
	})
}

func TestPoints(t *testing.T) {
	Convey("Given coefficients", t, func() {
		quad := catalog.Scoring{Formula: catalog.Quadratic, Coefficients: catalog.Coefficients{A: 1, B: -20, C: 200}}
		power := catalog.Scoring{Formula: catalog.Power, Coefficients: catalog.Coefficients{A: 1000, B: 10, C: 2}}

		Convey("Then the quadratic form is floored", func() {
			So(scoring.Evaluate(quad, 5.5), ShouldAlmostEqual, 120.25)
			p, err := scoring.Points(quad, 5.5)
			So(err, ShouldBeNil)
			So(p, ShouldEqual, 120)
		})

		Convey("Then the power form is floored", func() {
			So(scoring.Evaluate(power, 3.3), ShouldAlmostEqual, 891.1)
			p, err := scoring.Points(power, 3.3)
			So(err, ShouldBeNil)
			So(p, ShouldEqual, 891)
		})

		Convey("Then negative results floor downward", func() {
			p, err := scoring.Points(power, 11)
			So(err, ShouldBeNil)
			So(p, ShouldEqual, -210)
			p, err = scoring.Points(power, 10.05)
			So(err, ShouldBeNil)
			So(p, ShouldEqual, -11)
		})

		Convey("Then repeated calls agree", func() {
			a, _ := scoring.Points(quad, 7.77)
			b, _ := scoring.Points(quad, 7.77)
			So(a, ShouldEqual, b)
		})

		Convey("Then huge but representable results are not clamped", func() {
			p, err := scoring.Points(quad, 1e6)
			So(err, ShouldBeNil)
			So(p, ShouldBeGreaterThan, math.MaxInt32)
		})

		Convey("Then results no integer can hold are unscorable", func() {
			_, err := scoring.Points(power, 1e200)
			So(errors.Is(err, scoring.ErrUnscorable), ShouldBeTrue)

			_, err = scoring.Points(quad, math.Inf(1))
			So(errors.Is(err, scoring.ErrUnscorable), ShouldBeTrue)
		})
	})
}

func TestVerify(t *testing.T) {
	Convey("Given the embedded catalog", t, func() {
		c, err := catalog.Default()
		So(err, ShouldBeNil)

		Convey("Then every event agrees with its direction", func() {
			So(scoring.VerifyCatalog(c, scoring.DefaultSamples), ShouldBeNil)
		})
	})

	Convey("Given a table with reversed coefficients", t, func() {
		c, err := catalog.Load(strings.NewReader(`
events:
  - id: "100m"
    family: track
    men: {coefficients: [-24.6, 837.7, -7119.3], range: [9.0, 13.8]}
  - id: "Long Jump"
    family: field
    men: {formula: power, coefficients: [2000, 10, 2], range: [4.0, 9.0]}
  - id: "Shot Put"
    family: field
    men: {formula: power, coefficients: [2000, 1500, -0.5], range: [9.6, 23.7]}
`))
		So(err, ShouldBeNil)

		Convey("Then the self-check names the bad events", func() {
			err := scoring.VerifyCatalog(c, 0)
			So(errors.Is(err, scoring.ErrDirectionMismatch), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "100m/men")
			So(err.Error(), ShouldContainSubstring, "Long Jump/men")
			So(err.Error(), ShouldNotContainSubstring, "Shot Put")
		})
	})
}
