package rollup_test

import (
	"testing"

	"github.com/nocsaren/GA-mock-to-html/internal/config"
	"github.com/nocsaren/GA-mock-to-html/internal/dataset"
	"github.com/nocsaren/GA-mock-to-html/internal/gen"
	"github.com/nocsaren/GA-mock-to-html/internal/rollup"
	"github.com/smartystreets/goconvey/convey"
)

func TestByDate(t *testing.T) {
	convey.Convey("Given activity across two days", t, func() {
		cfg := config.New()
		b := newEventBuilder()

		b.add("u1", dataset.Null(), gen.EvFirstOpen,
			dataset.Row{gen.ColOS: dataset.String("ANDROID")}, gen.ColOS)
		b.add("u1", dataset.Int(1), gen.EvSessionStarted,
			dataset.Row{gen.ColOS: dataset.String("ANDROID")}, gen.ColOS)
		b.add("u1", dataset.Int(1), gen.EvAdRewarded, dataset.Row{
			gen.ColOS:        dataset.String("ANDROID"),
			gen.ColAdNetwork: dataset.String("admob"),
		}, gen.ColOS, gen.ColAdNetwork)

		b.at = b.at.AddDate(0, 0, 1)
		b.add("u2", dataset.Int(2), gen.EvSessionStarted,
			dataset.Row{gen.ColOS: dataset.String("IOS")}, gen.ColOS)
		b.add("u2", dataset.Int(2), gen.EvQuestionStarted,
			dataset.Row{gen.ColOS: dataset.String("IOS")}, gen.ColOS)

		out := rollup.ByDate(cfg, b.t)

		convey.Convey("Then one row per date should appear in order", func() {
			convey.So(out.Len(), convey.ShouldEqual, 2)
			convey.So(dataset.Compare(out.Row(0).Get(gen.ColEventDate),
				out.Row(1).Get(gen.ColEventDate)), convey.ShouldEqual, -1)
		})

		convey.Convey("Then the base counters should aggregate the day", func() {
			day1 := out.Row(0)
			convey.So(day1.Get("unique_users").Render(), convey.ShouldEqual, "1")
			convey.So(day1.Get("new_users").Render(), convey.ShouldEqual, "1")
			convey.So(day1.Get("android_users").Render(), convey.ShouldEqual, "3")
			convey.So(day1.Get("ios_users").Render(), convey.ShouldEqual, "0")
			convey.So(day1.Get("ads_watched").Render(), convey.ShouldEqual, "1")
			convey.So(day1.Get("unique_sessions").Render(), convey.ShouldEqual, "1")

			day2 := out.Row(1)
			convey.So(day2.Get("ios_users").Render(), convey.ShouldEqual, "2")
			convey.So(day2.Get("questions_started").Render(), convey.ShouldEqual, "1")
		})

		convey.Convey("Then ad breakdown columns should zero-fill missing days", func() {
			convey.So(out.Columns(), convey.ShouldContain, "nwk_admob")
			convey.So(out.Row(0).Get("nwk_admob").Render(), convey.ShouldEqual, "1")
			convey.So(out.Row(1).Get("nwk_admob").Render(), convey.ShouldEqual, "0")
		})

		convey.Convey("Then breakdowns for absent columns should not appear", func() {
			convey.So(out.Columns(), convey.ShouldNotContain, "unt_rewarded_1")
		})
	})
}
