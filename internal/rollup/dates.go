package rollup

import (
	"strings"

	"github.com/nocsaren/GA-mock-to-html/internal/config"
	"github.com/nocsaren/GA-mock-to-html/internal/dataset"
	"github.com/nocsaren/GA-mock-to-html/internal/gen"
)

// Wide-column prefixes of the per-date ad breakdowns.
const (
	prefixAdNetwork  = "nwk_"
	prefixAdUnit     = "unt_"
	prefixAdInstance = "ins_"
)

// ByDate aggregates daily activity. After the base counters it appends
// one column per distinct ad network, unit and instance value, so the
// breakdown width follows the data; absent days count zero rather than
// null. The per-OS user columns follow the configured operating
// systems (lowercased, "_users" suffix).
func ByDate(cfg *config.Config, t *dataset.Table) *dataset.Table {
	aggs := []dataset.Agg{
		{Name: "weekday", Fn: dataset.First(gen.ColWeekday)},
		{Name: "unique_users", Fn: dataset.Nunique(gen.ColUser)},
		{Name: "new_users", Fn: dataset.CountEq(gen.ColEventName, gen.EvFirstOpen)},
	}
	for _, os := range cfg.OperatingSystems {
		aggs = append(aggs, dataset.Agg{
			Name: strings.ToLower(os) + "_users",
			Fn:   dataset.CountEq(gen.ColOS, os),
		})
	}
	aggs = append(aggs,
		dataset.Agg{Name: "uninstall_count", Fn: dataset.CountEq(gen.ColEventName, gen.EvAppRemoved)},
		dataset.Agg{Name: "unique_sessions", Fn: dataset.Nunique(gen.ColSession)},
		dataset.Agg{Name: "ads_watched", Fn: dataset.CountEq(gen.ColEventName, gen.EvAdRewarded)},
		dataset.Agg{Name: "questions_started", Fn: dataset.CountEq(gen.ColEventName, gen.EvQuestionStarted)},
		dataset.Agg{Name: "questions_completed", Fn: dataset.CountEq(gen.ColEventName, gen.EvQuestionCompleted)},
	)

	breakdowns := []struct {
		col    string
		prefix string
	}{
		{gen.ColAdNetwork, prefixAdNetwork},
		{gen.ColAdUnit, prefixAdUnit},
		{gen.ColAdInstance, prefixAdInstance},
	}
	for _, b := range breakdowns {
		if !t.HasColumn(b.col) {
			continue
		}
		for _, v := range t.DistinctValues(b.col) {
			aggs = append(aggs, dataset.Agg{
				Name: b.prefix + v.Render(),
				Fn:   dataset.CountEq(b.col, v.Render()),
			})
		}
	}

	return dataset.GroupBy(t, []string{gen.ColEventDate}, aggs)
}
