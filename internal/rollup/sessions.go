package rollup

import (
	"github.com/nocsaren/GA-mock-to-html/internal/config"
	"github.com/nocsaren/GA-mock-to-html/internal/dataset"
	"github.com/nocsaren/GA-mock-to-html/internal/gen"
)

// Session rollup thresholds.
const (
	// shortSessionCutoffSeconds drops bounce sessions from the rollup.
	shortSessionCutoffSeconds = 15
	// longSessionSeconds marks a session as a long (10 minute) session.
	longSessionSeconds = 600
	// goldDebtThreshold is the minimum spend for the doll-debt flag.
	goldDebtThreshold = 2000
	// charactersPerCustomer converts distinct characters to customers.
	charactersPerCustomer = 3
)

// spentToConsumable is the spent_to value marking a shop purchase.
const spentToConsumable = "Consumable Item"

// durationDigits rounds the mean session duration.
const durationDigits = 2

// sessionSkipEvents are ignored when picking a session's last
// meaningful event; if a session holds nothing else, its final row
// wins regardless.
var sessionSkipEvents = map[string]struct{}{
	gen.EvUserEngagement:        {},
	gen.EvScreenViewed:          {},
	gen.EvEarnedVirtualCurrency: {},
	gen.EvFirebaseCampaign:      {},
	gen.EvAppRemoved:            {},
	gen.EvAppDataCleared:        {},
	gen.EvAppUpdated:            {},
	gen.EvStartingCurrencies:    {},
}

// BySessions summarizes each session longer than the bounce cutoff:
// duration, question and character engagement, wheel mini-game funnel,
// ads, the gold ledger with the doll-debt flag, consumable and energy
// usage, and the last meaningful event. One output row per
// (session, user) pair, in first-seen order.
func BySessions(cfg *config.Config, t *dataset.Table) *dataset.Table {
	v := cfg.Vocab
	keys := []string{gen.ColSession, gen.ColUser}

	sessions := t.Filter(func(r dataset.Row) bool {
		f, ok := r.Get(gen.ColSessionDurSec).AsFloat()
		return ok && f > shortSessionCutoffSeconds
	})

	questionStarted := eventIs(gen.EvQuestionStarted)
	goldEarned := func(r dataset.Row) bool {
		return r.Get(gen.ColEventName).EqualString(gen.EvEarnedVirtualCurrency) &&
			r.Get(gen.ColCurrencyName).EqualString("Gold")
	}
	goldSpent := func(r dataset.Row) bool {
		return r.Get(gen.ColEventName).EqualString(gen.EvSpentVirtualCurrency) &&
			r.Get(gen.ColCurrencyName).EqualString("Gold")
	}

	aggs := []dataset.Agg{
		{Name: gen.ColSessionDurSec, Fn: dataset.Mean(gen.ColSessionDurSec, durationDigits)},
		{Name: "passed_10_min", Fn: longSessionFlag()},
		{Name: gen.ColSessionStart, Fn: minWhere(eventIs(gen.EvSessionStarted), gen.ColSessionStart)},
		{Name: "customer_character_count", Fn: nuniqueWhere(questionStarted, gen.ColCharacter)},
		{Name: "character_list", Fn: collectWhere(questionStarted, gen.ColCharacter)},
		{Name: "average_tier", Fn: meanWhere(questionStarted, gen.ColTier)},
		{Name: "average_wrong_answers", Fn: meanWhere(eventIs(gen.EvQuestionCompleted), gen.ColAnsweredWrong)},
		{Name: "Wheel_Impression", Fn: dataset.CountEq(gen.ColMiniGameRI, v.WheelImpressionRI)},
		{Name: "Wheel_Skips", Fn: dataset.CountEq(gen.ColMiniGameRI, v.WheelSkipRI)},
		{Name: "Wheel_Spins", Fn: wheelSpins(v)},
		{Name: "Ads_Watched_Count", Fn: dataset.CountEq(gen.ColEventName, gen.EvAdRewarded)},
		{Name: "gold_starting", Fn: sumWhere(eventIs(gen.EvStartingCurrencies), gen.ColGold)},
		{Name: "gold_gained", Fn: sumWhere(goldEarned, gen.ColEarnedAmount)},
		{Name: "gold_spent", Fn: sumWhere(goldSpent, gen.ColSpentAmount)},
		{Name: "gold_delta", Fn: goldDelta(goldEarned, goldSpent)},
		{Name: "is_depted_for_doll", Fn: goldDebtFlag(goldEarned, goldSpent)},
	}

	aggs = append(aggs, consumableAggs(sessions, v)...)
	aggs = append(aggs, energyAggs(sessions, v)...)
	aggs = append(aggs,
		dataset.Agg{Name: "last_event_name", Fn: lastMeaningful(gen.ColEventName)},
		dataset.Agg{Name: "last_event_time", Fn: lastMeaningful(gen.ColEventDatetime)},
	)

	out := dataset.GroupBy(sessions, keys, aggs)

	out.AddColumn("bought_new_customer")
	for _, r := range out.Rows() {
		cc, _ := r.Get("customer_character_count").AsInt()
		r["bought_new_customer"] = dataset.Int(cc / charactersPerCustomer)
	}
	return out
}

// longSessionFlag reports whether the mean session duration clears the
// long-session threshold. It recomputes the mean so the flag stays
// adjacent to the duration column in the output schema.
func longSessionFlag() dataset.Reducer {
	mean := dataset.Mean(gen.ColSessionDurSec, durationDigits)
	return func(rows []dataset.Row) dataset.Value {
		f, ok := mean(rows).AsFloat()
		return dataset.Bool(ok && f >= longSessionSeconds)
	}
}

// wheelSpins is impressions minus skips.
func wheelSpins(v config.Vocab) dataset.Reducer {
	imp := dataset.CountEq(gen.ColMiniGameRI, v.WheelImpressionRI)
	skp := dataset.CountEq(gen.ColMiniGameRI, v.WheelSkipRI)
	return func(rows []dataset.Row) dataset.Value {
		i, _ := imp(rows).AsInt()
		s, _ := skp(rows).AsInt()
		return dataset.Int(i - s)
	}
}

func goldLedger(rows []dataset.Row, earned, spent rowPred) (starting, gained, paid float64) {
	s, _ := sumWhere(eventIs(gen.EvStartingCurrencies), gen.ColGold)(rows).AsFloat()
	g, _ := sumWhere(earned, gen.ColEarnedAmount)(rows).AsFloat()
	p, _ := sumWhere(spent, gen.ColSpentAmount)(rows).AsFloat()
	return s, g, p
}

// goldDelta is gained minus spent; the starting balance is excluded so
// the delta reflects in-session flow only.
func goldDelta(earned, spent rowPred) dataset.Reducer {
	return func(rows []dataset.Row) dataset.Value {
		_, gained, paid := goldLedger(rows, earned, spent)
		return dataset.Float(gained - paid)
	}
}

// goldDebtFlag marks sessions that spent beyond their gold budget and
// past the debt threshold, the signature of a doll purchase on credit.
func goldDebtFlag(earned, spent rowPred) dataset.Reducer {
	return func(rows []dataset.Row) dataset.Value {
		starting, gained, paid := goldLedger(rows, earned, spent)
		if paid > starting+gained && paid >= goldDebtThreshold {
			return dataset.Int(1)
		}
		return dataset.Int(0)
	}
}

// consumableAggs counts shop purchases per item. Both source columns
// must exist; otherwise the columns default to zero.
func consumableAggs(t *dataset.Table, v config.Vocab) []dataset.Agg {
	names := []struct{ col, item string }{
		{"Potions_Bought", v.PotionName},
		{"Incenses_Bought", v.IncenseName},
		{"Amulets_Bought", v.AmuletName},
	}
	out := make([]dataset.Agg, 0, len(names))
	present := t.HasColumn(gen.ColSpentTo) && t.HasColumn(gen.ColShopItem)
	for _, n := range names {
		fn := zero()
		if present {
			item := n.item
			fn = countWhere(func(r dataset.Row) bool {
				return r.Get(gen.ColSpentTo).EqualString(spentToConsumable) &&
					r.Get(gen.ColShopItem).EqualString(item)
			})
		}
		out = append(out, dataset.Agg{Name: n.col, Fn: fn})
	}
	return out
}

// energyAggs counts energy item usage per item name.
func energyAggs(t *dataset.Table, v config.Vocab) []dataset.Agg {
	names := []struct{ col, item string }{
		{"AliCin_Used", v.AlicinName},
		{"Cauldron_Used", v.CauldronName},
		{"Coffee_Used", v.CoffeeName},
	}
	out := make([]dataset.Agg, 0, len(names))
	for _, n := range names {
		fn := zero()
		if t.HasColumn(gen.ColSpentTo) {
			fn = dataset.CountEq(gen.ColSpentTo, n.item)
		}
		out = append(out, dataset.Agg{Name: n.col, Fn: fn})
	}
	return out
}

// lastMeaningful returns the given column of the latest group row
// whose event is not in the skip set, falling back to the latest row.
// Group rows arrive in ascending time order, so the scan runs from the
// tail.
func lastMeaningful(col string) dataset.Reducer {
	return func(rows []dataset.Row) dataset.Value {
		for i := len(rows) - 1; i >= 0; i-- {
			name, _ := rows[i].Get(gen.ColEventName).AsString()
			if _, skip := sessionSkipEvents[name]; !skip {
				return rows[i].Get(col)
			}
		}
		return rows[len(rows)-1].Get(col)
	}
}
