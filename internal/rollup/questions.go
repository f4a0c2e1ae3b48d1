package rollup

import (
	"github.com/nocsaren/GA-mock-to-html/internal/config"
	"github.com/nocsaren/GA-mock-to-html/internal/dataset"
	"github.com/nocsaren/GA-mock-to-html/internal/gen"
)

// ByQuestions aggregates the flat table per question attempt. A group
// is one question within one session; rows lacking question context
// (no address, character, tier or index) fall out via the null-key
// drop, so ambient events never pollute the attempt counters.
func ByQuestions(cfg *config.Config, t *dataset.Table) *dataset.Table {
	v := cfg.Vocab
	keys := []string{
		gen.ColQuestionAddress,
		gen.ColCharacter,
		gen.ColTier,
		gen.ColQuestionIndex,
		gen.ColSession,
	}
	aggs := []dataset.Agg{
		{Name: "question_started", Fn: dataset.CountEq(gen.ColEventName, gen.EvQuestionStarted)},
		{Name: "potions_bought", Fn: dataset.CountEq(gen.ColShopItem, v.PotionName)},
		{Name: "incense_bought", Fn: dataset.CountEq(gen.ColShopItem, v.IncenseName)},
		{Name: "amulet_bought", Fn: dataset.CountEq(gen.ColShopItem, v.AmuletName)},
		{Name: "alicin_used", Fn: dataset.CountEq(gen.ColSpentTo, v.AlicinName)},
		{Name: "coffee_used", Fn: dataset.CountEq(gen.ColSpentTo, v.CoffeeName)},
		{Name: "cauldron_used", Fn: dataset.CountEq(gen.ColSpentTo, v.CauldronName)},
		{Name: "scroll_opened", Fn: countWhere(func(r dataset.Row) bool {
			return r.Get(gen.ColEventName).EqualString(gen.EvMenuOpened) &&
				r.Get(gen.ColMenuName).EqualString(v.ScrollMenuName)
		})},
		{Name: "answered_correct", Fn: dataset.CountEq(gen.ColEventName, gen.EvQuestionCompleted)},
		{Name: "answered_wrong", Fn: dataset.Sum(gen.ColAnsweredWrong)},
		{Name: "ads_watched", Fn: dataset.CountEq(gen.ColEventName, gen.EvAdRewarded)},
	}
	out := dataset.GroupBy(t, keys, aggs)

	ratios := []struct{ name, numerator string }{
		{"wrong_answer_ratio", "answered_wrong"},
		{"ads_watch_ratio", "ads_watched"},
		{"alicin_use_ratio", "alicin_used"},
		{"coffee_use_ratio", "coffee_used"},
		{"cauldron_use_ratio", "cauldron_used"},
		{"scroll_use_ratio", "scroll_opened"},
	}
	for _, rc := range ratios {
		out.AddColumn(rc.name)
		for _, r := range out.Rows() {
			r[rc.name] = safeRatioValue(r.Get(rc.numerator), r.Get("question_started"))
		}
	}
	return out
}
