package rollup

import (
	"strings"

	"github.com/nocsaren/GA-mock-to-html/internal/dataset"
	"github.com/nocsaren/GA-mock-to-html/internal/gen"
)

// User-level thresholds.
const (
	minCharactersForMi  = 2
	tenQuestions        = 10
	longPlaytimeMinutes = 10
	playtimeDigits      = 2
)

// truthyStrings are accepted as true in the conversion flag columns.
var truthyStrings = map[string]struct{}{
	"true": {}, "1": {}, "yes": {}, "y": {},
}

// conversionColumns hold per-user funnel flags, OR-ed across all of a
// user's events. The output column keeps the source column name.
var conversionColumns = []string{
	gen.ColPPAccepted,
	gen.ColVideoStart,
	gen.ColVideoFinished,
	gen.ColEntered,
	gen.ColShown,
	gen.ColOpened,
	gen.ColReturn,
	gen.ColClosed,
	gen.ColDrag,
}

// countedEvents become per-user count columns named after the event.
var countedEvents = []string{
	gen.EvAdRewarded,
	gen.EvQuestionCompleted,
	gen.EvGameEnded,
	gen.EvAppRemoved,
	gen.EvSessionStarted,
}

// userSkipEvents are ignored when resolving a user's last event. The
// set is narrower than the session one: earned-currency events still
// count as activity here.
var userSkipEvents = map[string]struct{}{
	gen.EvAppRemoved:         {},
	gen.EvAppDataCleared:     {},
	gen.EvAppUpdated:         {},
	gen.EvUserEngagement:     {},
	gen.EvScreenViewed:       {},
	gen.EvFirebaseCampaign:   {},
	gen.EvStartingCurrencies: {},
}

// ByUsers builds the per-user lifetime summary and the boolean KPI
// subset used for funnel reporting. The second table is a projection
// of the first plus the user's starting app version.
func ByUsers(t *dataset.Table) (*dataset.Table, *dataset.Table) {
	aggs := []dataset.Agg{
		{Name: "first_event_date", Fn: dataset.Min(gen.ColEventDate)},
		{Name: "total_sessions", Fn: dataset.Nunique(gen.ColSession)},
		{Name: "total_characters_opened", Fn: dataset.Nunique(gen.ColCharacter)},
		{Name: "country", Fn: dataset.First(gen.ColCountry)},
		{Name: "install_source", Fn: dataset.First(gen.ColInstallSource)},
		{Name: "operating_system", Fn: dataset.First(gen.ColOS)},
		{Name: "operating_system_version", Fn: dataset.First(gen.ColOSVersion)},
		{Name: "is_limited_ad_tracking", Fn: dataset.First(gen.ColLimitedAdTracking)},
		{Name: "device_language", Fn: dataset.First(gen.ColDeviceLanguage)},
		{Name: "start_version", Fn: dataset.First(gen.ColAppVersion)},
		{Name: "version", Fn: dataset.Last(gen.ColAppVersion)},
		{Name: "total_playtime_minutes", Fn: playtime()},
	}
	for _, ev := range countedEvents {
		aggs = append(aggs, dataset.Agg{Name: ev, Fn: dataset.CountEq(gen.ColEventName, ev)})
	}
	for _, col := range conversionColumns {
		fn := zero()
		if t.HasColumn(col) {
			fn = anyTruthy(col)
		}
		aggs = append(aggs, dataset.Agg{Name: col, Fn: fn})
	}

	welcomeFn := zero()
	if t.HasColumn(gen.ColWelcomeVideo) {
		welcomeFn = anyEquals(gen.ColWelcomeVideo, "welcome_video")
	}
	tutorialFn := zero()
	if t.HasColumn(gen.ColTutorialVideo) {
		tutorialFn = countWhere(func(r dataset.Row) bool {
			return r.Get(gen.ColTutorialVideo).EqualString("tutorial_video") &&
				r.Get(gen.ColEventName).EqualString(gen.EvVideoWatched)
		})
	}
	aggs = append(aggs,
		dataset.Agg{Name: "welcome_video_played", Fn: welcomeFn},
		dataset.Agg{Name: "tutorial_completed", Fn: tutorialFn},
	)

	users := dataset.GroupBy(t, []string{gen.ColUser}, aggs)

	attachLastEvent(users, t)
	attachKPIFlags(users)

	return users, boolSubset(users)
}

// playtime sums each distinct session's duration once. The null
// session bucket (pre-session events) carries a zero duration, so it
// never inflates the total.
func playtime() dataset.Reducer {
	return func(rows []dataset.Row) dataset.Value {
		seen := make(map[string]struct{})
		var total float64
		for _, r := range rows {
			key := r.Get(gen.ColSession).Render()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			if f, ok := r.Get(gen.ColSessionDurMin).AsFloat(); ok {
				total += f
			}
		}
		return dataset.Float(total)
	}
}

// anyTruthy flags the group when any row holds a truthy string.
func anyTruthy(col string) dataset.Reducer {
	return func(rows []dataset.Row) dataset.Value {
		for _, r := range rows {
			s := strings.ToLower(r.Get(col).Render())
			if _, ok := truthyStrings[s]; ok {
				return dataset.Int(1)
			}
		}
		return dataset.Int(0)
	}
}

// anyEquals flags the group when any row equals the given string.
func anyEquals(col, want string) dataset.Reducer {
	return func(rows []dataset.Row) dataset.Value {
		for _, r := range rows {
			if r.Get(col).EqualString(want) {
				return dataset.Int(1)
			}
		}
		return dataset.Int(0)
	}
}

// attachLastEvent resolves each user's last meaningful event by date.
// Housekeeping events are excluded up front; on date ties the later
// source row wins, matching the ascending input order.
func attachLastEvent(users *dataset.Table, t *dataset.Table) {
	type lastEvent struct {
		date dataset.Value
		name dataset.Value
	}
	last := make(map[string]lastEvent)
	for _, r := range t.Rows() {
		name, _ := r.Get(gen.ColEventName).AsString()
		if _, skip := userSkipEvents[name]; skip {
			continue
		}
		user := r.Get(gen.ColUser).Render()
		date := r.Get(gen.ColEventDate)
		if cur, ok := last[user]; ok && dataset.Compare(date, cur.date) < 0 {
			continue
		}
		last[user] = lastEvent{date: date, name: r.Get(gen.ColEventName)}
	}

	users.AddColumn("last_event_date")
	users.AddColumn("last_event_name")
	for _, r := range users.Rows() {
		le, ok := last[r.Get(gen.ColUser).Render()]
		if !ok {
			r["last_event_date"] = dataset.Null()
			r["last_event_name"] = dataset.Null()
			continue
		}
		r["last_event_date"] = le.date
		r["last_event_name"] = le.name
	}
}

// attachKPIFlags appends the derived 0/1 activation flags and rounds
// the playtime for output.
func attachKPIFlags(users *dataset.Table) {
	flags := []string{
		"answered_first_question",
		"answered_second_question",
		"answered_third_question",
		"saw_mi",
		"answered_ten_questions",
		"second_session_started",
		"second_day_active",
		"passed_10_min",
	}
	for _, f := range flags {
		users.AddColumn(f)
	}
	for _, r := range users.Rows() {
		completed, _ := r.Get(gen.EvQuestionCompleted).AsInt()
		characters, _ := r.Get("total_characters_opened").AsInt()
		sessions, _ := r.Get("total_sessions").AsInt()
		minutes, _ := r.Get("total_playtime_minutes").AsFloat()
		lastDate := r.Get("last_event_date")
		firstDate := r.Get("first_event_date")

		r["answered_first_question"] = flag(completed > 0)
		r["answered_second_question"] = flag(completed > 1)
		r["answered_third_question"] = flag(completed > 2)
		r["saw_mi"] = flag(characters >= minCharactersForMi)
		r["answered_ten_questions"] = flag(completed >= tenQuestions)
		r["second_session_started"] = flag(sessions >= 2)
		r["second_day_active"] = flag(!lastDate.IsNull() && !firstDate.IsNull() &&
			dataset.Compare(lastDate, firstDate) > 0)
		r["passed_10_min"] = flag(minutes >= longPlaytimeMinutes)
		r["total_playtime_minutes"] = dataset.Float(dataset.Round(minutes, playtimeDigits))
	}
}

func flag(b bool) dataset.Value {
	if b {
		return dataset.Int(1)
	}
	return dataset.Int(0)
}

// boolSubset projects the funnel columns plus the starting version.
func boolSubset(users *dataset.Table) *dataset.Table {
	cols := []string{gen.ColUser}
	cols = append(cols, conversionColumns...)
	cols = append(cols,
		"answered_first_question",
		"answered_second_question",
		"answered_third_question",
		"saw_mi",
		"passed_10_min",
		"answered_ten_questions",
		"second_session_started",
		"second_day_active",
		"tutorial_completed",
		"welcome_video_played",
		"start_version",
	)
	return users.Select(cols)
}
