package gen

import (
	"fmt"
	"time"

	"github.com/nocsaren/GA-mock-to-html/internal/config"
)

// Emission probabilities and value ranges specific to the raw stream.
const (
	rawPPAccepted       = 0.85
	rawVideoStart       = 0.75
	rawVideoFinished    = 0.55
	rawFatalException   = 0.5
	rawSessionIDMin     = 1_000_000_000
	rawSessionIDMax     = 10_000_000_000
	rawStreamIDMin      = 10_000_000_000
	rawStreamIDMax      = 100_000_000_000
	rawPrevEventSpanSec = 60
	rawServerOffsetMax  = 5000
	rawBatchIndexMax    = 5
	rawSessionNumberMax = 8
	rawQuestionSpanSec  = 400
	pseudoIDHexLen      = 32
	adIDHexLen          = 12
)

// appBundleID identifies the mocked application in app_info.
const appBundleID = "com.GlyphexGames.EmojiOracle"

// ParamValue is the typed slot of an event parameter. Exactly one
// slot is non-null; the others stay as explicit null markers so
// consumers never have to probe for missing keys.
type ParamValue struct {
	StringValue *string  `json:"string_value"`
	IntValue    *int64   `json:"int_value"`
	DoubleValue *float64 `json:"double_value"`
}

// Param is a key-typed event parameter in the export schema.
type Param struct {
	Key   string     `json:"key"`
	Value ParamValue `json:"value"`
}

// NewParam classifies a runtime value into a typed parameter. The
// inspection order is nil -> bool -> integer -> float -> string;
// booleans must be checked before integers and become the literal
// strings "true"/"false".
func NewParam(key string, v interface{}) Param {
	var pv ParamValue
	switch x := v.(type) {
	case nil:
		// null passes through in the string slot
	case bool:
		s := "false"
		if x {
			s = "true"
		}
		pv.StringValue = &s
	case int:
		i := int64(x)
		pv.IntValue = &i
	case int64:
		pv.IntValue = &x
	case float64:
		pv.DoubleValue = &x
	case string:
		pv.StringValue = &x
	default:
		s := fmt.Sprint(x)
		pv.StringValue = &s
	}
	return Param{Key: key, Value: pv}
}

// Device is the nested device context of a raw event.
type Device struct {
	Category               string `json:"category"`
	OperatingSystem        string `json:"operating_system"`
	OperatingSystemVersion string `json:"operating_system_version"`
	Language               string `json:"language"`
	IsLimitedAdTracking    string `json:"is_limited_ad_tracking"`
	TimeZoneOffsetSeconds  int64  `json:"time_zone_offset_seconds"`
	MobileBrandName        string `json:"mobile_brand_name"`
	MobileModelName        string `json:"mobile_model_name"`
	MobileMarketingName    string `json:"mobile_marketing_name"`
}

// Geo is the nested geo context of a raw event.
type Geo struct {
	Country   string  `json:"country"`
	Continent string  `json:"continent"`
	City      *string `json:"city"`
	Region    *string `json:"region"`
}

// AppInfo is the nested application context of a raw event.
type AppInfo struct {
	Version       string  `json:"version"`
	InstallSource *string `json:"install_source"`
	ID            string  `json:"id"`
}

// PrivacyInfo is the nested consent context of a raw event.
type PrivacyInfo struct {
	AdsStorage         string `json:"ads_storage"`
	AnalyticsStorage   string `json:"analytics_storage"`
	UsesTransientToken string `json:"uses_transient_token"`
}

// TrafficSource is the nested acquisition context of a raw event.
type TrafficSource struct {
	Name   *string `json:"name"`
	Medium *string `json:"medium"`
	Source *string `json:"source"`
}

// RawEvent is one record of the raw export stream, in the nested
// nullable-field shape of a GA4 BigQuery pull.
type RawEvent struct {
	EventDate                  string   `json:"event_date"`
	EventTimestamp             int64    `json:"event_timestamp"`
	EventName                  string   `json:"event_name"`
	EventPreviousTimestamp     int64    `json:"event_previous_timestamp"`
	EventValueInUSD            *float64 `json:"event_value_in_usd"`
	EventBundleSequenceID      int64    `json:"event_bundle_sequence_id"`
	EventServerTimestampOffset int64    `json:"event_server_timestamp_offset"`
	UserID                     *string  `json:"user_id"`
	UserPseudoID               string   `json:"user_pseudo_id"`
	UserFirstTouchTimestamp    int64    `json:"user_first_touch_timestamp"`
	StreamID                   string   `json:"stream_id"`
	Platform                   string   `json:"platform"`
	IsActiveUser               bool     `json:"is_active_user"`
	BatchEventIndex            int64    `json:"batch_event_index"`
	BatchPageID                *int64   `json:"batch_page_id"`
	BatchOrderingID            *int64   `json:"batch_ordering_id"`

	Device        Device        `json:"device"`
	Geo           Geo           `json:"geo"`
	AppInfo       AppInfo       `json:"app_info"`
	TrafficSource TrafficSource `json:"traffic_source"`
	PrivacyInfo   PrivacyInfo   `json:"privacy_info"`

	UserLTV                map[string]interface{} `json:"user_ltv"`
	EventParams            []Param                `json:"event_params"`
	UserProperties         []Param                `json:"user_properties"`
	Items                  []interface{}          `json:"items"`
	ItemParams             []interface{}          `json:"item_params"`
	EventDimensions        map[string]interface{} `json:"event_dimensions"`
	Ecommerce              map[string]interface{} `json:"ecommerce"`
	CollectedTrafficSource map[string]interface{} `json:"collected_traffic_source"`

	// ShopConsumableItem is set only by consumable purchases; it lives
	// outside the parameter mapping on purpose.
	ShopConsumableItem *string `json:"shop_consumable_item"`
}

// rawEmitter threads the shared sequence counter and output slice
// through the user/session/event loops.
type rawEmitter struct {
	rng       *Rand
	events    []RawEvent
	bundleSeq int64
}

// BuildRaw generates the raw export stream: one nested record per
// event. It is an independent generation pass from BuildFlat, started
// from a fresh source with the same seed.
func BuildRaw(cfg *config.Config, now time.Time) []RawEvent {
	em := &rawEmitter{rng: NewRand(cfg.Seed), bundleSeq: 1}
	windowStart := dayFloor(now.UTC()).AddDate(0, 0, -(cfg.Days - 1))
	v := cfg.Vocab

	for u := 0; u < cfg.Users; u++ {
		rng := em.rng
		pseudoID := rng.Hex(pseudoIDHexLen)
		streamID := fmt.Sprint(rng.IntBetween(rawStreamIDMin, rawStreamIDMax))
		platform := rng.Pick(cfg.OperatingSystems)
		country := rng.Pick(cfg.Countries)
		appVersion := rng.Pick(cfg.AppVersions)

		firstOpenDay := rng.IntBetween(0, int64(cfg.Days))
		firstOpenDT := windowStart.AddDate(0, 0, int(firstOpenDay)).
			Add(time.Duration(rng.IntBetween(0, sessionMinuteSpan)) * time.Minute)

		userProps := []Param{
			NewParam("first_open_time", firstOpenDT.UnixMilli()),
			NewParam("ga_session_number", rng.IntBetween(1, rawSessionNumberMax)),
		}

		device := Device{
			Category:               "mobile",
			OperatingSystem:        platform,
			OperatingSystemVersion: rng.Pick(osVersions),
			Language:               rng.Pick([]string{"en-us", "tr-tr"}),
			IsLimitedAdTracking:    rng.Pick(yesNo),
			TimeZoneOffsetSeconds:  int64(rng.PickInt([]int{-18000, 0, 10800})),
			MobileBrandName:        rng.Pick([]string{"Samsung", "Google", "Apple"}),
			MobileModelName:        rng.Pick([]string{"Galaxy", "Pixel", "iPhone"}),
			MobileMarketingName:    rng.Pick([]string{"Galaxy S24", "Pixel 8", "iPhone 15"}),
		}
		continent := "Europe"
		if country == "United States" {
			continent = "Americas"
		}
		geo := Geo{
			Country:   country,
			Continent: continent,
			City:      rng.PickPtr(cities),
			Region:    rng.PickPtr(regions),
		}
		appInfo := AppInfo{
			Version:       appVersion,
			InstallSource: rng.PickPtr(installSources),
			ID:            appBundleID,
		}
		privacy := PrivacyInfo{
			AdsStorage:         rng.Pick(yesNo),
			AnalyticsStorage:   rng.Pick(yesNo),
			UsesTransientToken: "No",
		}

		unlocked := rng.SubsetNonEmpty(v.Characters)
		sessions := rng.SessionCount(cfg.AvgSessionsPerUser)

		for s := 0; s < sessions; s++ {
			sessionID := rng.IntBetween(rawSessionIDMin, rawSessionIDMax)
			sessionNumber := int64(s + 1)

			// The first session starts at first open, so the first_open
			// event always belongs to the user's earliest session.
			var sessionStart time.Time
			if s == 0 {
				sessionStart = firstOpenDT
			} else {
				day := rng.IntBetween(firstOpenDay, int64(cfg.Days))
				sessionStart = windowStart.AddDate(0, 0, int(day)).
					Add(time.Duration(rng.IntBetween(0, sessionMinuteSpan)) * time.Minute)
				if !sessionStart.After(firstOpenDT) {
					sessionStart = firstOpenDT.Add(time.Duration(rng.IntBetween(1, 60)) * time.Minute)
				}
			}

			emit := func(name string, at time.Time, params []Param, shopItem *string) {
				em.emit(name, at, rawEventContext{
					sessionID:     sessionID,
					sessionNumber: sessionNumber,
					pseudoID:      pseudoID,
					firstTouchUS:  firstOpenDT.UnixMicro(),
					streamID:      streamID,
					platform:      platform,
					device:        device,
					geo:           geo,
					appInfo:       appInfo,
					privacy:       privacy,
					userProps:     userProps,
				}, params, shopItem)
			}

			emit(RawSessionStart, sessionStart, []Param{
				NewParam("firebase_event_origin", "auto"),
				NewParam("session_engaged", rng.Pick([]string{"0", "1"})),
			}, nil)

			if s == 0 {
				emit(RawFirstOpen, firstOpenDT, []Param{
					NewParam("pp_accepted", rng.Chance(rawPPAccepted)),
					NewParam("video_start", rng.Chance(rawVideoStart)),
					NewParam("video_finished", rng.Chance(rawVideoFinished)),
					NewParam("previous_first_open_count", 0),
				}, nil)
			}

			questions := rng.IntBetween(1, maxQuestionCycles+1)
			for q := int64(0); q < questions; q++ {
				at := sessionStart.Add(time.Duration(rng.IntBetween(5, rawQuestionSpanSec)) * time.Second)
				character := rng.Pick(unlocked)
				tier := rng.PickInt(cfg.Tiers)
				qi := rng.IntBetween(1, int64(cfg.QuestionsPerTier)+1)

				questionParams := func(extra ...Param) []Param {
					ps := []Param{
						NewParam("character_name", character),
						NewParam("current_tier", tier),
						NewParam("current_qi", qi),
					}
					return append(extra, ps...)
				}

				emit(RawQuestionStarted, at, questionParams(), nil)
				emit(RawQuestionCompleted, at.Add(3*time.Second),
					append(questionParams(), NewParam("answered_wrong", rng.IntBetween(0, maxWrongAnswers))), nil)

				if rng.Chance(pAdRewarded) {
					emit(RawAdRewarded, at.Add(2*time.Second), append([]Param{
						NewParam("ad_network", rng.Pick([]string{"admob", "unity", "ironSource"})),
						NewParam("ad_unit_id", rng.Pick([]string{"rewarded_1", "rewarded_2"})),
						NewParam("ad_instance", rng.Pick([]string{"instance_a", "instance_b"})),
						NewParam("ad_id", rng.Hex(adIDHexLen)),
					}, questionParams()...), nil)
				}

				if rng.Chance(pMenuOpened) {
					emit(RawMenuOpened, at.Add(1*time.Second),
						append([]Param{NewParam("menu_name", v.ScrollMenuName)}, questionParams()...), nil)
				}

				if rng.Chance(pEnergySpend) {
					spentTo := rng.Pick([]string{v.AlicinName, v.CoffeeName, v.CauldronName})
					emit(RawSpendVirtualCurrency, at.Add(4*time.Second), append([]Param{
						NewParam("currency_name", goldCurrency),
						NewParam("spent_amount", float64(rng.IntBetween(energySpendMin, energySpendMax))),
						NewParam("where_its_spent", rng.Pick(spendPlaces)),
						NewParam("spent_to", spentTo),
					}, questionParams()...), nil)
				}

				if rng.Chance(pConsumableSpend) {
					item := rng.Pick([]string{v.PotionName, v.IncenseName, v.AmuletName})
					emit(RawSpendVirtualCurrency, at.Add(5*time.Second), append([]Param{
						NewParam("currency_name", goldCurrency),
						NewParam("spent_amount", float64(rng.IntBetween(consumableSpendMin, consumableSpendMax))),
						NewParam("where_its_spent", "shop"),
						NewParam("spent_to", consumableSpentTo),
					}, questionParams()...), &item)
				}
			}

			if rng.Chance(pAdLoadFailed) {
				emit(RawAdLoadFailed, sessionStart.Add(6*time.Second), []Param{
					NewParam("ad_error_code", rng.Pick(adErrorCodes)),
					NewParam("ad_network", rng.Pick([]string{"admob", "unity"})),
					NewParam("ad_instance", rng.Pick([]string{"instance_a", "instance_b"})),
					NewParam("ad_id", rng.Hex(adIDHexLen)),
				}, nil)
			}

			if rng.Chance(pAppException) {
				emit(RawAppException, sessionStart.Add(7*time.Second), []Param{
					NewParam("fatal", rng.Chance(rawFatalException)),
					NewParam("firebase_error", "NullPointer"),
				}, nil)
			}

			// App removal is terminal for the session; nothing is emitted
			// after it.
			if rng.Chance(pAppRemoved) {
				emit(RawAppRemove, sessionStart.Add(5*time.Minute), nil, nil)
			}
		}
	}

	return em.events
}

// rawEventContext carries the per-user/per-session fields shared by
// every event of a session.
type rawEventContext struct {
	sessionID     int64
	sessionNumber int64
	pseudoID      string
	firstTouchUS  int64
	streamID      string
	platform      string
	device        Device
	geo           Geo
	appInfo       AppInfo
	privacy       PrivacyInfo
	userProps     []Param
}

// emit appends one raw event, consuming the sequence counter.
func (em *rawEmitter) emit(name string, at time.Time, ctx rawEventContext, params []Param, shopItem *string) {
	base := []Param{
		NewParam("ga_session_id", ctx.sessionID),
		NewParam("ga_session_number", ctx.sessionNumber),
	}
	base = append(base, params...)

	prev := at.Add(-time.Duration(em.rng.IntBetween(0, rawPrevEventSpanSec)) * time.Second)

	em.events = append(em.events, RawEvent{
		EventDate:                  at.Format("20060102"),
		EventTimestamp:             at.UnixMicro(),
		EventName:                  name,
		EventPreviousTimestamp:     prev.UnixMicro(),
		EventBundleSequenceID:      em.bundleSeq,
		EventServerTimestampOffset: em.rng.IntBetween(0, rawServerOffsetMax),
		UserPseudoID:               ctx.pseudoID,
		UserFirstTouchTimestamp:    ctx.firstTouchUS,
		StreamID:                   ctx.streamID,
		Platform:                   ctx.platform,
		IsActiveUser:               true,
		BatchEventIndex:            em.rng.IntBetween(1, rawBatchIndexMax),

		Device:        ctx.device,
		Geo:           ctx.geo,
		AppInfo:       ctx.appInfo,
		TrafficSource: TrafficSource{},
		PrivacyInfo:   ctx.privacy,

		UserLTV:                map[string]interface{}{},
		EventParams:            base,
		UserProperties:         ctx.userProps,
		Items:                  []interface{}{},
		ItemParams:             []interface{}{},
		EventDimensions:        map[string]interface{}{},
		Ecommerce:              map[string]interface{}{},
		CollectedTrafficSource: map[string]interface{}{},

		ShopConsumableItem: shopItem,
	})
	em.bundleSeq++
}

// Nullable categorical pools for the raw context structs.
var (
	yesNo          = []string{"Yes", "No"}
	cities         = []*string{ptr("San Antonio"), ptr("New York"), ptr("İstanbul"), ptr("Ankara"), nil}
	regions        = []*string{ptr("Texas"), ptr("NY"), ptr("Marmara"), nil}
	installSources = []*string{ptr("com.android.vending"), ptr("apps.apple.com"), nil}
)
