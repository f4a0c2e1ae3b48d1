package rollup

import (
	"github.com/nocsaren/GA-mock-to-html/internal/dataset"
	"github.com/nocsaren/GA-mock-to-html/internal/gen"
)

// Lag columns added before filtering down to failure events.
const (
	colPrevEventName = "prev_event_name"
	colPrevEventMenu = "prev_event_menu"
)

// technicalEvents are the failure events the diagnostics table keeps.
var technicalEvents = map[string]struct{}{
	gen.EvAppException: {},
	gen.EvAdLoadFailed: {},
}

// technicalSortColumns fixes the ordering the lag is computed under.
var technicalSortColumns = []string{
	gen.ColUser,
	gen.ColSession,
	gen.ColEventDatetime,
	gen.ColAppVersion,
	gen.ColMarketingName,
	gen.ColOSVersion,
	gen.ColEventName,
}

// technicalKeepColumns is the output projection.
var technicalKeepColumns = []string{
	gen.ColEventDatetime,
	gen.ColEventName,
	gen.ColUser,
	gen.ColSession,
	gen.ColAppVersion,
	gen.ColMarketingName,
	gen.ColOSVersion,
	colPrevEventName,
	colPrevEventMenu,
	gen.ColAdNetwork,
	gen.ColAdInstance,
	gen.ColAdID,
	gen.ColAdErrorCode,
	gen.ColServerDelay,
}

// TechnicalEvents extracts failure events with the name and menu of
// the event immediately preceding each one inside the same session.
// The lag is computed over a sorted copy so the flat table's order is
// left untouched; rows outside any session (null session id) get no
// predecessor.
func TechnicalEvents(t *dataset.Table) *dataset.Table {
	work := dataset.NewTable(t.Columns()...)
	for _, r := range t.Rows() {
		work.Append(r.Clone())
	}
	work.SortStableByColumns(technicalSortColumns...)
	work.AddColumn(colPrevEventName)
	work.AddColumn(colPrevEventMenu)

	var prev dataset.Row
	for _, r := range work.Rows() {
		r[colPrevEventName] = dataset.Null()
		r[colPrevEventMenu] = dataset.Null()
		if prev != nil && sameSession(prev, r) {
			r[colPrevEventName] = prev.Get(gen.ColEventName)
			r[colPrevEventMenu] = prev.Get(gen.ColMenuName)
		}
		prev = r
	}

	tech := work.Filter(func(r dataset.Row) bool {
		name, _ := r.Get(gen.ColEventName).AsString()
		_, ok := technicalEvents[name]
		return ok
	})
	return tech.Select(technicalKeepColumns)
}

func sameSession(a, b dataset.Row) bool {
	sa, sb := a.Get(gen.ColSession), b.Get(gen.ColSession)
	if sa.IsNull() || sb.IsNull() {
		return false
	}
	return a.Get(gen.ColUser).Equal(b.Get(gen.ColUser)) && sa.Equal(sb)
}
