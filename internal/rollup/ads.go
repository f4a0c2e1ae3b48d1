package rollup

import (
	"github.com/nocsaren/GA-mock-to-html/internal/dataset"
	"github.com/nocsaren/GA-mock-to-html/internal/gen"
)

// unknownFill replaces null values in the categorical ad columns so
// downstream pivots have an explicit bucket for missing metadata.
const unknownFill = "Unknown/Missing"

// adEventNames selects the rows the ad rollup reports on.
var adEventNames = map[string]struct{}{
	gen.EvAdLoaded:     {},
	gen.EvAdClosed:     {},
	gen.EvAdDisplayed:  {},
	gen.EvAdRewarded:   {},
	gen.EvAdLoadFailed: {},
	gen.EvAdClicked:    {},
}

// adColumns is the fixed projection of the ad rollup; columns absent
// from the flat table come through as nulls.
var adColumns = []string{
	gen.ColEventDatetime,
	gen.ColSession,
	gen.ColEventName,
	gen.ColAdID,
	gen.ColAdUnit,
	gen.ColAdNetwork,
	gen.ColAdPlacement,
	gen.ColAdRewardType,
	gen.ColAdInstance,
	gen.ColAdErrorCode,
	gen.ColCharacter,
	gen.ColTier,
	gen.ColQuestionIndex,
	gen.ColQuestionAddress,
	gen.ColWeekday,
	gen.ColDaytime,
	gen.ColAppVersion,
	gen.ColCountry,
	gen.ColOS,
	gen.ColServerDelay,
}

// adFillColumns are the categorical columns that get the unknown fill.
var adFillColumns = []string{
	gen.ColAdNetwork,
	gen.ColAdPlacement,
	gen.ColAdRewardType,
	gen.ColAdInstance,
}

// ByAds projects the ad lifecycle events into a fixed-width table.
// Rows are copied, not shared, because the fill rewrites cell values.
func ByAds(t *dataset.Table) *dataset.Table {
	out := dataset.NewTable(adColumns...)
	for _, r := range t.Rows() {
		name, _ := r.Get(gen.ColEventName).AsString()
		if _, ok := adEventNames[name]; !ok {
			continue
		}
		row := make(dataset.Row, len(adColumns))
		for _, c := range adColumns {
			row[c] = r.Get(c)
		}
		for _, c := range adFillColumns {
			if row[c].IsNull() {
				row[c] = dataset.String(unknownFill)
			}
		}
		out.Append(row)
	}
	return out
}
