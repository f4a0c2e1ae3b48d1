package rollup_test

import (
	"testing"

	"github.com/nocsaren/GA-mock-to-html/internal/dataset"
	"github.com/nocsaren/GA-mock-to-html/internal/gen"
	"github.com/nocsaren/GA-mock-to-html/internal/rollup"
	"github.com/smartystreets/goconvey/convey"
)

func TestTechnicalEvents(t *testing.T) {
	convey.Convey("Given failure events with in-session predecessors", t, func() {
		b := newEventBuilder()
		s1 := dataset.Int(1)
		s2 := dataset.Int(2)

		b.add("u1", s1, gen.EvAppException, nil)

		b.add("u1", s2, gen.EvMenuOpened,
			dataset.Row{gen.ColMenuName: dataset.String("Scroll Menu")}, gen.ColMenuName)
		b.add("u1", s2, gen.EvAdLoadFailed,
			dataset.Row{gen.ColAdErrorCode: dataset.String("2")}, gen.ColAdErrorCode)

		out := rollup.TechnicalEvents(b.t)

		convey.Convey("Then only the failure events should remain", func() {
			convey.So(out.Len(), convey.ShouldEqual, 2)
		})

		convey.Convey("Then a failure after a menu open should carry its name and menu", func() {
			var failed dataset.Row
			for _, r := range out.Rows() {
				if r.Get(gen.ColEventName).EqualString(gen.EvAdLoadFailed) {
					failed = r
				}
			}
			convey.So(failed, convey.ShouldNotBeNil)
			convey.So(failed.Get("prev_event_name").Render(), convey.ShouldEqual, gen.EvMenuOpened)
			convey.So(failed.Get("prev_event_menu").Render(), convey.ShouldEqual, "Scroll Menu")
		})

		convey.Convey("Then a failure opening its session should have no predecessor", func() {
			var exception dataset.Row
			for _, r := range out.Rows() {
				if r.Get(gen.ColEventName).EqualString(gen.EvAppException) {
					exception = r
				}
			}
			convey.So(exception.Get("prev_event_name").IsNull(), convey.ShouldBeTrue)
			convey.So(exception.Get("prev_event_menu").IsNull(), convey.ShouldBeTrue)
		})

		convey.Convey("Then the projection should keep the diagnostic columns only", func() {
			convey.So(len(out.Columns()), convey.ShouldEqual, 14)
			convey.So(out.Columns(), convey.ShouldContain, "prev_event_name")
			convey.So(out.Columns(), convey.ShouldNotContain, gen.ColMenuName)
		})
	})
}
