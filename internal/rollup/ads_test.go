package rollup_test

import (
	"testing"

	"github.com/nocsaren/GA-mock-to-html/internal/dataset"
	"github.com/nocsaren/GA-mock-to-html/internal/gen"
	"github.com/nocsaren/GA-mock-to-html/internal/rollup"
	"github.com/smartystreets/goconvey/convey"
)

func TestByAds(t *testing.T) {
	convey.Convey("Given a mix of ad and non-ad events", t, func() {
		b := newEventBuilder()
		sid := dataset.Int(7)

		b.add("u1", sid, gen.EvSessionStarted, nil)
		b.add("u1", sid, gen.EvAdRewarded, dataset.Row{
			gen.ColAdNetwork: dataset.String("admob"),
			gen.ColAdID:      dataset.String("abc123"),
		}, gen.ColAdNetwork, gen.ColAdID)
		b.add("u1", sid, gen.EvAdLoadFailed, dataset.Row{
			gen.ColAdErrorCode: dataset.String("timeout"),
		}, gen.ColAdErrorCode)
		b.add("u1", sid, gen.EvQuestionStarted, nil)

		out := rollup.ByAds(b.t)

		convey.Convey("Then only ad lifecycle events should survive", func() {
			convey.So(out.Len(), convey.ShouldEqual, 2)
			convey.So(out.Row(0).Get(gen.ColEventName).Render(), convey.ShouldEqual, gen.EvAdRewarded)
			convey.So(out.Row(1).Get(gen.ColEventName).Render(), convey.ShouldEqual, gen.EvAdLoadFailed)
		})

		convey.Convey("Then the projection should have the fixed twenty columns", func() {
			convey.So(len(out.Columns()), convey.ShouldEqual, 20)
			convey.So(out.Columns()[0], convey.ShouldEqual, gen.ColEventDatetime)
		})

		convey.Convey("Then missing categorical metadata should read Unknown/Missing", func() {
			convey.So(out.Row(0).Get(gen.ColAdNetwork).Render(), convey.ShouldEqual, "admob")
			convey.So(out.Row(0).Get(gen.ColAdPlacement).Render(), convey.ShouldEqual, "Unknown/Missing")
			convey.So(out.Row(1).Get(gen.ColAdNetwork).Render(), convey.ShouldEqual, "Unknown/Missing")
			convey.So(out.Row(1).Get(gen.ColAdErrorCode).Render(), convey.ShouldEqual, "timeout")
		})

		convey.Convey("Then the source table should be left untouched", func() {
			var failed dataset.Row
			for _, r := range b.t.Rows() {
				if r.Get(gen.ColEventName).EqualString(gen.EvAdLoadFailed) {
					failed = r
				}
			}
			convey.So(failed.Get(gen.ColAdNetwork).IsNull(), convey.ShouldBeTrue)
		})
	})
}
