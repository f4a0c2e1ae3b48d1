package gen_test

import (
	"testing"
	"time"

	"github.com/nocsaren/GA-mock-to-html/internal/gen"
	"github.com/smartystreets/goconvey/convey"
)

func TestNames_TimeLabels(t *testing.T) {
	convey.Convey("Given the localized time labels", t, func() {
		convey.Convey("Then weekdays should carry Turkish names", func() {
			monday := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
			sunday := time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC)
			convey.So(gen.WeekdayName(monday), convey.ShouldEqual, "Pazartesi")
			convey.So(gen.WeekdayName(sunday), convey.ShouldEqual, "Pazar")
		})

		convey.Convey("Then hours should bucket into four daytime labels", func() {
			convey.So(gen.DaytimeName(0), convey.ShouldEqual, "Gece")
			convey.So(gen.DaytimeName(5), convey.ShouldEqual, "Gece")
			convey.So(gen.DaytimeName(6), convey.ShouldEqual, "Sabah")
			convey.So(gen.DaytimeName(11), convey.ShouldEqual, "Sabah")
			convey.So(gen.DaytimeName(12), convey.ShouldEqual, "Öğle")
			convey.So(gen.DaytimeName(17), convey.ShouldEqual, "Öğle")
			convey.So(gen.DaytimeName(18), convey.ShouldEqual, "Akşam")
			convey.So(gen.DaytimeName(23), convey.ShouldEqual, "Akşam")
		})

		convey.Convey("Then weekend detection should cover Saturday and Sunday only", func() {
			saturday := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
			friday := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
			convey.So(gen.WeekendName(saturday), convey.ShouldEqual, "Hafta Sonu")
			convey.So(gen.WeekendName(friday), convey.ShouldEqual, "Hafta İçi")
		})
	})
}

func TestCumulativeQuestionIndex(t *testing.T) {
	convey.Convey("Given the global question numbering scheme", t, func() {
		convey.Convey("Then tier one should pass indices through unchanged", func() {
			for qi := int64(1); qi <= 12; qi++ {
				convey.So(gen.CumulativeQuestionIndex(1, qi, true), convey.ShouldEqual, qi)
				convey.So(gen.CumulativeQuestionIndex(1, qi, false), convey.ShouldEqual, qi)
			}
		})

		convey.Convey("Then higher tiers should add the track offsets", func() {
			convey.So(gen.CumulativeQuestionIndex(2, 5, true), convey.ShouldEqual, 17)
			convey.So(gen.CumulativeQuestionIndex(2, 5, false), convey.ShouldEqual, 21)
			convey.So(gen.CumulativeQuestionIndex(3, 1, false), convey.ShouldEqual, 29)
			convey.So(gen.CumulativeQuestionIndex(3, 1, true), convey.ShouldEqual, 25)
			convey.So(gen.CumulativeQuestionIndex(4, 12, true), convey.ShouldEqual, 48)
			convey.So(gen.CumulativeQuestionIndex(4, 12, false), convey.ShouldEqual, 52)
		})

		convey.Convey("Then unknown tiers should fall back to the raw index", func() {
			convey.So(gen.CumulativeQuestionIndex(9, 3, false), convey.ShouldEqual, 3)
		})
	})
}
