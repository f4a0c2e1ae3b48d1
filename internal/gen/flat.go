package gen

import (
	"fmt"
	"time"

	"github.com/nocsaren/GA-mock-to-html/internal/config"
	"github.com/nocsaren/GA-mock-to-html/internal/dataset"
)

// Emission probabilities for the flat stream.
const (
	pPPAccepted            = 0.85
	pVideoStart            = 0.75
	pVideoFinishGivenStart = 0.70
	pTutorialCompleted     = 0.55
	pEntered               = 0.60
	pShown                 = 0.50
	pOpened                = 0.40
	pReturn                = 0.25
	pClosed                = 0.35
	pDrag                  = 0.45
	pAdRewarded            = 0.25
	pMenuOpened            = 0.15
	pEnergySpend           = 0.18
	pConsumableSpend       = 0.10
	pWheelImpression       = 0.25
	pWheelSkipGivenSpin    = 0.30
	pEarnedGold            = 0.35
	pScreenViewed          = 0.25
	pUserEngagement        = 0.30
	pAdLoadFailed          = 0.03
	pAppException          = 0.01
	pGameEnded             = 0.15
	pAppRemoved            = 0.04
)

// Session id issuance for the flat stream is a monotone counter; the
// raw stream assigns independent random ids instead.
const flatSessionIDBase = 10_000

// Value range bounds.
const (
	firstOpenMinuteSpan  = 1200
	sessionMinuteSpan    = 1440
	sessionMinSeconds    = 30
	sessionMaxSeconds    = 900
	maxQuestionCycles    = 7
	maxWrongAnswers      = 3
	startingGoldMax      = 1200
	earnedGoldMin        = 10
	earnedGoldMax        = 300
	energySpendMin       = 10
	energySpendMax       = 120
	consumableSpendMin   = 100
	consumableSpendMax   = 500
	secondsPerMinute     = 60
	microsecondsPerMilli = 1000
)

// cumulativeOffsets maps tier -> {special, non-special} additive offset
// for the global question numbering scheme. Tier 1 has no offset; the
// special character's track is shorter by a constant margin per tier.
var cumulativeOffsets = map[int64][2]int64{
	2: {12, 16},
	3: {24, 28},
	4: {36, 40},
}

// goldCurrency is the currency name carried by economy events.
const goldCurrency = "Gold"

// tutorialVideoTag marks tutorial completion in the tutorial param column.
const tutorialVideoTag = "tutorial_video"

// BuildFlat generates the flat event table: one row per event with a
// fixed flat column set, sorted by (user, event time) and augmented
// with derived time, session, and question features. The draws are an
// independent pass from BuildRaw, started from the same seed.
func BuildFlat(cfg *config.Config, now time.Time) *dataset.Table {
	rng := NewRand(cfg.Seed)
	windowStart := dayFloor(now.UTC()).AddDate(0, 0, -(cfg.Days - 1))

	t := dataset.NewTable()
	v := cfg.Vocab

	sessionID := int64(flatSessionIDBase)

	for u := 0; u < cfg.Users; u++ {
		userID := rng.Hex(32)
		country := rng.Pick(cfg.Countries)
		osName := rng.Pick(cfg.OperatingSystems)
		startVersion := rng.Pick(cfg.AppVersions)

		sessions := rng.SessionCount(cfg.AvgSessionsPerUser)

		// User-level conversion flags; video finish requires video start.
		ppOK := rng.Chance(pPPAccepted)
		videoStart := rng.Chance(pVideoStart)
		videoFinished := videoStart && rng.Chance(pVideoFinishGivenStart)
		tutorialCompleted := rng.Chance(pTutorialCompleted)

		firstOpenDay := rng.IntBetween(0, int64(cfg.Days))
		firstOpenDT := windowStart.AddDate(0, 0, int(firstOpenDay)).
			Add(time.Duration(rng.IntBetween(0, firstOpenMinuteSpan)) * time.Minute)

		tutorialVal := dataset.Null()
		if tutorialCompleted {
			tutorialVal = dataset.String(tutorialVideoTag)
		}
		t.Append(dataset.Row{
			ColEventName:     dataset.String(EvFirstOpen),
			ColEventDatetime: dataset.Time(firstOpenDT),
			ColUser:          dataset.String(userID),
			ColSession:       dataset.Null(),
			ColAppVersion:    dataset.String(startVersion),
			ColCountry:       dataset.String(country),
			ColOS:            dataset.String(osName),
			ColPPAccepted:    boolString(ppOK),
			ColVideoStart:    boolString(videoStart),
			ColVideoFinished: boolString(videoFinished),
			ColTutorialVideo: tutorialVal,
		}, ColEventName, ColEventDatetime, ColUser, ColSession, ColAppVersion,
			ColCountry, ColOS, ColPPAccepted, ColVideoStart, ColVideoFinished, ColTutorialVideo)

		unlocked := rng.SubsetNonEmpty(v.Characters)

		for s := 0; s < sessions; s++ {
			sessionID++
			sid := dataset.Int(sessionID)

			sessionDay := rng.IntBetween(firstOpenDay, int64(cfg.Days))
			sessionStart := windowStart.AddDate(0, 0, int(sessionDay)).
				Add(time.Duration(rng.IntBetween(0, sessionMinuteSpan)) * time.Minute)
			sessionEnd := sessionStart.
				Add(time.Duration(rng.IntBetween(sessionMinSeconds, sessionMaxSeconds)) * time.Second)
			durSeconds := int64(sessionEnd.Sub(sessionStart) / time.Second)

			base := func(name string, at time.Time) dataset.Row {
				return dataset.Row{
					ColEventName:     dataset.String(name),
					ColEventDatetime: dataset.Time(at),
					ColUser:          dataset.String(userID),
					ColSession:       sid,
					ColAppVersion:    dataset.String(rng.Pick(cfg.AppVersions)),
					ColCountry:       dataset.String(country),
					ColOS:            dataset.String(osName),
				}
			}
			baseOrder := []string{ColEventName, ColEventDatetime, ColUser, ColSession,
				ColAppVersion, ColCountry, ColOS}
			appendRow := func(r dataset.Row, extra ...string) {
				t.Append(r, append(baseOrder, extra...)...)
			}

			r := base(EvSessionStarted, sessionStart)
			r[ColEntered] = boolString(rng.Chance(pEntered))
			r[ColShown] = boolString(rng.Chance(pShown))
			r[ColOpened] = boolString(rng.Chance(pOpened))
			r[ColReturn] = boolString(rng.Chance(pReturn))
			r[ColClosed] = boolString(rng.Chance(pClosed))
			r[ColDrag] = boolString(rng.Chance(pDrag))
			appendRow(r, ColEntered, ColShown, ColOpened, ColReturn, ColClosed, ColDrag)

			r = base(EvStartingCurrencies, sessionStart.Add(1*time.Second))
			r[ColGold] = dataset.Float(float64(rng.IntBetween(0, startingGoldMax)))
			appendRow(r, ColGold)

			if s == 0 && tutorialCompleted {
				r = base(EvVideoWatched, sessionStart.Add(6*time.Second))
				r[ColTutorialVideo] = dataset.String(tutorialVideoTag)
				appendRow(r, ColTutorialVideo)
			}

			if rng.Chance(pScreenViewed) {
				appendRow(base(EvScreenViewed, sessionStart.Add(3*time.Second)))
			}

			questions := rng.IntBetween(1, maxQuestionCycles+1)
			for q := int64(0); q < questions; q++ {
				hi := durSeconds
				if hi < 10 {
					hi = 10
				}
				eventT := sessionStart.Add(time.Duration(rng.IntBetween(5, hi)) * time.Second)
				character := rng.Pick(unlocked)
				tier := int64(rng.PickInt(cfg.Tiers))
				qi := rng.IntBetween(1, int64(cfg.QuestionsPerTier)+1)

				question := func(name string, at time.Time) dataset.Row {
					row := base(name, at)
					row[ColCharacter] = dataset.String(character)
					row[ColTier] = dataset.Int(tier)
					row[ColQuestionIndex] = dataset.Int(qi)
					return row
				}
				questionOrder := []string{ColCharacter, ColTier, ColQuestionIndex}

				appendRow(question(EvQuestionStarted, eventT), questionOrder...)

				r = question(EvQuestionCompleted, eventT.Add(3*time.Second))
				r[ColAnsweredWrong] = dataset.Int(rng.IntBetween(0, maxWrongAnswers))
				appendRow(r, append(questionOrder, ColAnsweredWrong)...)

				if rng.Chance(pAdRewarded) {
					r = question(EvAdRewarded, eventT.Add(2*time.Second))
					r[ColAdNetwork] = nullableString(rng.PickPtr(adNetworks))
					r[ColAdUnit] = nullableString(rng.PickPtr(adUnits))
					r[ColAdInstance] = nullableString(rng.PickPtr(adInstances))
					r[ColAdID] = dataset.String(rng.Hex(12))
					appendRow(r, append(questionOrder, ColAdNetwork, ColAdUnit, ColAdInstance, ColAdID)...)
				}

				if rng.Chance(pMenuOpened) {
					r = question(EvMenuOpened, eventT.Add(1*time.Second))
					r[ColMenuName] = dataset.String(v.ScrollMenuName)
					appendRow(r, append(questionOrder, ColMenuName)...)
				}

				if rng.Chance(pEnergySpend) {
					r = question(EvSpentVirtualCurrency, eventT.Add(4*time.Second))
					r[ColCurrencyName] = dataset.String(goldCurrency)
					r[ColSpentAmount] = dataset.Float(float64(rng.IntBetween(energySpendMin, energySpendMax)))
					r[ColWhereSpent] = dataset.String(rng.Pick(spendPlaces))
					r[ColSpentTo] = dataset.String(rng.Pick([]string{v.AlicinName, v.CoffeeName, v.CauldronName}))
					appendRow(r, append(questionOrder, ColCurrencyName, ColSpentAmount, ColWhereSpent, ColSpentTo)...)
				}

				if rng.Chance(pConsumableSpend) {
					r = question(EvSpentVirtualCurrency, eventT.Add(5*time.Second))
					r[ColCurrencyName] = dataset.String(goldCurrency)
					r[ColSpentAmount] = dataset.Float(float64(rng.IntBetween(consumableSpendMin, consumableSpendMax)))
					r[ColWhereSpent] = dataset.String("shop")
					r[ColSpentTo] = dataset.String(consumableSpentTo)
					r[ColShopItem] = dataset.String(rng.Pick([]string{v.PotionName, v.IncenseName, v.AmuletName}))
					appendRow(r, append(questionOrder, ColCurrencyName, ColSpentAmount, ColWhereSpent, ColSpentTo, ColShopItem)...)
				}
			}

			if rng.Chance(pEarnedGold) {
				r = base(EvEarnedVirtualCurrency, sessionStart.Add(8*time.Second))
				r[ColCurrencyName] = dataset.String(goldCurrency)
				r[ColEarnedAmount] = dataset.Float(float64(rng.IntBetween(earnedGoldMin, earnedGoldMax)))
				appendRow(r, ColCurrencyName, ColEarnedAmount)
			}

			if rng.Chance(pWheelImpression) {
				r = base(EvMiniGameStarted, sessionStart.Add(2*time.Second))
				r[ColMiniGameRI] = dataset.String(v.WheelImpressionRI)
				appendRow(r, ColMiniGameRI)
				if rng.Chance(pWheelSkipGivenSpin) {
					r = base(EvMiniGameCompleted, sessionStart.Add(3*time.Second))
					r[ColMiniGameRI] = dataset.String(v.WheelSkipRI)
					appendRow(r, ColMiniGameRI)
				}
			}

			if rng.Chance(pAdLoadFailed) {
				r = base(EvAdLoadFailed, sessionStart.Add(6*time.Second))
				r[ColMarketingName] = dataset.String(rng.Pick(marketingNames))
				r[ColOSVersion] = dataset.String(rng.Pick(osVersions))
				r[ColAdErrorCode] = dataset.String(rng.Pick(adErrorCodes))
				r[ColServerDelay] = dataset.Float(rng.Float64() * 2)
				appendRow(r, ColMarketingName, ColOSVersion, ColAdErrorCode, ColServerDelay)
			}

			if rng.Chance(pAppException) {
				r = base(EvAppException, sessionStart.Add(7*time.Second))
				r[ColMarketingName] = dataset.String(rng.Pick(marketingNames))
				r[ColOSVersion] = dataset.String(rng.Pick(osVersions))
				r[ColServerDelay] = dataset.Float(rng.Float64() * 5)
				appendRow(r, ColMarketingName, ColOSVersion, ColServerDelay)
			}

			if rng.Chance(pUserEngagement) {
				appendRow(base(EvUserEngagement, sessionEnd.Add(-1*time.Second)))
			}

			if rng.Chance(pGameEnded) {
				appendRow(base(EvGameEnded, sessionEnd.Add(-3*time.Second)))
			}

			// App removal ends the session: it is emitted after every other
			// event of this session and sorts last within it.
			if rng.Chance(pAppRemoved) {
				appendRow(base(EvAppRemoved, sessionEnd.Add(10*time.Second)))
			}
		}
	}

	deriveFeatures(cfg, t)
	return t
}

// Fixed categorical pools shared by both generators.
var (
	adNetworks     = []*string{ptr("admob"), ptr("unity"), ptr("ironSource"), nil}
	adUnits        = []*string{ptr("rewarded_1"), ptr("rewarded_2"), nil}
	adInstances    = []*string{ptr("instance_a"), ptr("instance_b"), nil}
	adErrorCodes   = []string{"0", "1", "2", "timeout"}
	spendPlaces    = []string{"board", "board_item", "shop"}
	marketingNames = []string{"Pixel", "iPhone", "Galaxy"}
	osVersions     = []string{"16", "17", "18", "Android 15"}
)

// consumableSpentTo tags consumable purchases in the spent_to column.
const consumableSpentTo = "Consumable Item"

// deriveFeatures sorts the table and adds the derived time, session,
// and question columns onto every row.
func deriveFeatures(cfg *config.Config, t *dataset.Table) {
	t.SortStableByColumns(ColUser, ColEventDatetime)

	for _, c := range []string{
		ColEventTimestamp, ColEventDate, ColEventTime, ColWeekday, ColHour,
		ColDaytime, ColIsWeekend, ColSessionStart, ColSessionEnd,
		ColSessionDurSec, ColSessionDurMin, ColQuestionAddress, ColCumulativeQI,
	} {
		t.AddColumn(c)
	}

	// Session bounds, broadcast onto every row of the session.
	type bounds struct{ min, max time.Time }
	sessionBounds := make(map[string]*bounds)
	sessionKey := func(r dataset.Row) (string, bool) {
		if r.Get(ColSession).IsNull() {
			return "", false
		}
		return r.Get(ColUser).Render() + "\x1f" + r.Get(ColSession).Render(), true
	}
	for _, r := range t.Rows() {
		key, ok := sessionKey(r)
		if !ok {
			continue
		}
		at, _ := r.Get(ColEventDatetime).AsTime()
		b, seen := sessionBounds[key]
		if !seen {
			sessionBounds[key] = &bounds{min: at, max: at}
			continue
		}
		if at.Before(b.min) {
			b.min = at
		}
		if at.After(b.max) {
			b.max = at
		}
	}

	special := cfg.Vocab.SpecialCharacter
	for _, r := range t.Rows() {
		at, _ := r.Get(ColEventDatetime).AsTime()

		r[ColEventTimestamp] = dataset.Int(at.UnixMicro())
		r[ColEventDate] = dataset.Date(at)
		r[ColEventTime] = dataset.String(at.Format("15:04:05"))
		r[ColWeekday] = dataset.String(WeekdayName(at))
		r[ColHour] = dataset.Int(int64(at.Hour()))
		r[ColDaytime] = dataset.String(DaytimeName(at.Hour()))
		r[ColIsWeekend] = dataset.String(WeekendName(at))

		if key, ok := sessionKey(r); ok {
			b := sessionBounds[key]
			dur := b.max.Sub(b.min).Seconds()
			r[ColSessionStart] = dataset.Time(b.min)
			r[ColSessionEnd] = dataset.Time(b.max)
			r[ColSessionDurSec] = dataset.Float(dur)
			r[ColSessionDurMin] = dataset.Float(dur / secondsPerMinute)
		} else {
			r[ColSessionDurSec] = dataset.Float(0)
			r[ColSessionDurMin] = dataset.Float(0)
		}

		char := r.Get(ColCharacter)
		tier, tierOK := r.Get(ColTier).AsInt()
		qi, qiOK := r.Get(ColQuestionIndex).AsInt()
		if !char.IsNull() && tierOK && qiOK {
			name, _ := char.AsString()
			r[ColQuestionAddress] = dataset.String(fmt.Sprintf("%s - T: %d - Q: %d", name, tier, qi))
		}
		if tierOK && qiOK {
			r[ColCumulativeQI] = dataset.Int(CumulativeQuestionIndex(tier, qi, char.EqualString(special)))
		}
	}
}

// CumulativeQuestionIndex maps a per-tier question index onto the
// global numbering scheme. Tier 1 carries no offset; higher tiers add
// a fixed offset that is smaller on the special character's track.
func CumulativeQuestionIndex(tier, qi int64, special bool) int64 {
	offsets, ok := cumulativeOffsets[tier]
	if !ok {
		return qi
	}
	if special {
		return qi + offsets[0]
	}
	return qi + offsets[1]
}

// dayFloor truncates a time to midnight UTC.
func dayFloor(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// boolString renders a boolean the way the export encodes flag params.
func boolString(b bool) dataset.Value {
	if b {
		return dataset.String("true")
	}
	return dataset.String("false")
}

// nullableString lifts a possibly-nil string into a Value.
func nullableString(s *string) dataset.Value {
	if s == nil {
		return dataset.Null()
	}
	return dataset.String(*s)
}

func ptr(s string) *string { return &s }
