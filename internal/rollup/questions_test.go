package rollup_test

import (
	"testing"

	"github.com/nocsaren/GA-mock-to-html/internal/config"
	"github.com/nocsaren/GA-mock-to-html/internal/dataset"
	"github.com/nocsaren/GA-mock-to-html/internal/gen"
	"github.com/nocsaren/GA-mock-to-html/internal/rollup"
	"github.com/smartystreets/goconvey/convey"
)

func questionCells(address, character string, tier, qi int64) dataset.Row {
	return dataset.Row{
		gen.ColQuestionAddress: dataset.String(address),
		gen.ColCharacter:       dataset.String(character),
		gen.ColTier:            dataset.Int(tier),
		gen.ColQuestionIndex:   dataset.Int(qi),
	}
}

var questionOrder = []string{
	gen.ColQuestionAddress, gen.ColCharacter, gen.ColTier, gen.ColQuestionIndex,
}

func TestByQuestions(t *testing.T) {
	convey.Convey("Given one question attempt with a full event cycle", t, func() {
		cfg := config.New()
		b := newEventBuilder()
		sid := dataset.Int(100)
		addr := "t - T: 2 - Q: 5"

		b.add("u1", sid, gen.EvSessionStarted, nil)

		b.add("u1", sid, gen.EvQuestionStarted, questionCells(addr, "t", 2, 5), questionOrder...)

		cells := questionCells(addr, "t", 2, 5)
		cells[gen.ColAnsweredWrong] = dataset.Int(2)
		b.add("u1", sid, gen.EvQuestionCompleted, cells, append(questionOrder, gen.ColAnsweredWrong)...)

		b.add("u1", sid, gen.EvAdRewarded, questionCells(addr, "t", 2, 5), questionOrder...)

		cells = questionCells(addr, "t", 2, 5)
		cells[gen.ColMenuName] = dataset.String(cfg.Vocab.ScrollMenuName)
		b.add("u1", sid, gen.EvMenuOpened, cells, append(questionOrder, gen.ColMenuName)...)

		cells = questionCells(addr, "t", 2, 5)
		cells[gen.ColSpentTo] = dataset.String(cfg.Vocab.AlicinName)
		b.add("u1", sid, gen.EvSpentVirtualCurrency, cells, append(questionOrder, gen.ColSpentTo)...)

		out := rollup.ByQuestions(cfg, b.t)

		convey.Convey("Then rows without question context should be dropped", func() {
			convey.So(out.Len(), convey.ShouldEqual, 1)
		})

		convey.Convey("Then the indicator sums should match the events", func() {
			r := out.Row(0)
			convey.So(r.Get("question_started").Render(), convey.ShouldEqual, "1")
			convey.So(r.Get("answered_correct").Render(), convey.ShouldEqual, "1")
			convey.So(r.Get("answered_wrong").Render(), convey.ShouldEqual, "2")
			convey.So(r.Get("ads_watched").Render(), convey.ShouldEqual, "1")
			convey.So(r.Get("scroll_opened").Render(), convey.ShouldEqual, "1")
			convey.So(r.Get("alicin_used").Render(), convey.ShouldEqual, "1")
			convey.So(r.Get("coffee_used").Render(), convey.ShouldEqual, "0")
			convey.So(r.Get("potions_bought").Render(), convey.ShouldEqual, "0")
		})

		convey.Convey("Then the ratios should divide by questions started", func() {
			r := out.Row(0)
			wrong, _ := r.Get("wrong_answer_ratio").AsFloat()
			convey.So(wrong, convey.ShouldEqual, 2.0)
			ads, _ := r.Get("ads_watch_ratio").AsFloat()
			convey.So(ads, convey.ShouldEqual, 1.0)
			scroll, _ := r.Get("scroll_use_ratio").AsFloat()
			convey.So(scroll, convey.ShouldEqual, 1.0)
		})
	})

	convey.Convey("Given an attempt that was never started", t, func() {
		cfg := config.New()
		b := newEventBuilder()
		sid := dataset.Int(101)

		cells := questionCells("mi - T: 1 - Q: 2", "mi", 1, 2)
		cells[gen.ColAnsweredWrong] = dataset.Int(1)
		b.add("u1", sid, gen.EvQuestionCompleted, cells, append(questionOrder, gen.ColAnsweredWrong)...)

		out := rollup.ByQuestions(cfg, b.t)

		convey.Convey("Then ratios should fall back to zero instead of dividing by zero", func() {
			r := out.Row(0)
			convey.So(r.Get("question_started").Render(), convey.ShouldEqual, "0")
			wrong, _ := r.Get("wrong_answer_ratio").AsFloat()
			convey.So(wrong, convey.ShouldEqual, 0)
		})
	})
}
