package model_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/wapoints/internal/domain/catalog"
	"github.com/okian/wapoints/internal/domain/model"
	"github.com/okian/wapoints/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewEventInfo(t *testing.T) {
	Convey("Given catalog events", t, func() {
		c, err := catalog.Default()
		So(err, ShouldBeNil)

		Convey("When flattening a wind event", func() {
			ev, _ := c.Lookup("100m")
			info := model.NewEventInfo(ev)

			Convey("Then the derived fields are filled", func() {
				So(info.ID, ShouldEqual, "100m")
				So(info.Direction, ShouldEqual, types.LowerIsBetter)
				So(info.Unit, ShouldEqual, types.Seconds)
				So(info.AcceptsWind, ShouldBeTrue)
				So(*info.WindAllowance, ShouldEqual, 2.0)
				So(info.ElevationAllowance, ShouldBeNil)
				So(info.Genders, ShouldResemble, []types.Gender{types.Men, types.Women})
			})
		})
	})
}

func TestTotalRequest(t *testing.T) {
	Convey("Given a flat JSON total request", t, func() {
		var req model.TotalRequest
		err := json.Unmarshal([]byte(`{"event":"100m","performance":"9.58","wind":0.5,"category":"OW","place":2,"round":"final"}`), &req)
		So(err, ShouldBeNil)

		Convey("Then both halves are populated", func() {
			So(req.EventID, ShouldEqual, "100m")
			So(*req.Wind, ShouldEqual, 0.5)
			pr := req.PlacementRequest()
			So(pr.EventID, ShouldEqual, "100m")
			So(pr.Category, ShouldEqual, "OW")
			So(pr.Place, ShouldEqual, 2)
		})
	})
}
