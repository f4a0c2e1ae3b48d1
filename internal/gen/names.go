// Package gen builds the synthetic event population: a raw nested
// export stream and a flat event table, both driven by one seeded
// random source per stream.
package gen

import "time"

// Flat-table event names.
const (
	EvFirstOpen             = "First Open"
	EvSessionStarted        = "Session Started"
	EvStartingCurrencies    = "Starting Currencies"
	EvQuestionStarted       = "Question Started"
	EvQuestionCompleted     = "Question Completed"
	EvAdRewarded            = "Ad Rewarded"
	EvMenuOpened            = "Menu Opened"
	EvSpentVirtualCurrency  = "Spent Virtual Currency"
	EvEarnedVirtualCurrency = "Earned Virtual Currency"
	EvMiniGameStarted       = "Mini-game Started"
	EvMiniGameCompleted     = "Mini-game Completed"
	EvVideoWatched          = "Video Watched"
	EvUserEngagement        = "User Engagement"
	EvScreenViewed          = "Screen Viewed"
	EvAdLoaded              = "Ad Loaded"
	EvAdClosed              = "Ad Closed"
	EvAdDisplayed           = "Ad Displayed"
	EvAdClicked             = "Ad Clicked"
	EvAdLoadFailed          = "Ad Load Failed"
	EvAppException          = "App Exception"
	EvGameEnded             = "Game Ended"
	EvAppRemoved            = "App Removed"
	EvAppDataCleared        = "App Data Cleared"
	EvAppUpdated            = "App Updated"
	EvFirebaseCampaign      = "Firebase Campaign"
)

// Raw-stream event names (GA4 export naming).
const (
	RawSessionStart         = "session_start"
	RawFirstOpen            = "first_open"
	RawQuestionStarted      = "question_started"
	RawQuestionCompleted    = "question_completed"
	RawAdRewarded           = "ad_rewarded"
	RawMenuOpened           = "menu_opened"
	RawSpendVirtualCurrency = "spend_virtual_currency"
	RawAdLoadFailed         = "ad_load_failed"
	RawAppException         = "app_exception"
	RawAppRemove            = "app_remove"
)

// Flat-table column names. The double-underscore names mirror a
// flattened GA4 export; downstream rollups address columns by these.
const (
	ColEventName     = "event_name"
	ColEventDatetime = "event_datetime"
	ColUser          = "user_pseudo_id"
	ColSession       = "event_params__ga_session_id"
	ColAppVersion    = "app_info__version"
	ColCountry       = "geo__country"
	ColOS            = "device__operating_system"

	ColPPAccepted    = "event_params__pp_accepted"
	ColVideoStart    = "event_params__video_start"
	ColVideoFinished = "event_params__video_finished"
	ColTutorialVideo = "event_params__tutorial_video"
	ColWelcomeVideo  = "event_params__welcome_video"

	ColEntered = "event_params__entered"
	ColShown   = "event_params__shown"
	ColOpened  = "event_params__opened"
	ColReturn  = "event_params__return"
	ColClosed  = "event_params__closed"
	ColDrag    = "event_params__drag"

	ColGold          = "event_params__gold"
	ColCharacter     = "event_params__character_name"
	ColTier          = "event_params__current_tier"
	ColQuestionIndex = "event_params__current_question_index"
	ColAnsweredWrong = "event_params__answered_wrong"
	ColMenuName      = "event_params__menu_name"
	ColSpentTo       = "event_params__spent_to"
	ColShopItem      = "shop_consumable_item"
	ColCurrencyName  = "event_params__currency_name"
	ColEarnedAmount  = "event_params__earned_amount"
	ColSpentAmount   = "event_params__spent_amount"
	ColWhereSpent    = "event_params__where_its_spent"
	ColMiniGameRI    = "event_params__mini_game_ri"

	ColAdNetwork    = "event_params__ad_network"
	ColAdUnit       = "event_params__ad_unit_id"
	ColAdInstance   = "event_params__ad_instance"
	ColAdID         = "event_params__ad_id"
	ColAdErrorCode  = "event_params__ad_error_code"
	ColAdPlacement  = "event_params__ad_placement"
	ColAdRewardType = "event_params__ad_reward_type"

	ColServerDelay       = "event_server_delay_seconds"
	ColMarketingName     = "device__mobile_marketing_name"
	ColOSVersion         = "device__operating_system_version"
	ColInstallSource     = "app_info__install_source"
	ColLimitedAdTracking = "device__is_limited_ad_tracking"
	ColDeviceLanguage    = "device__language"
)

// Derived flat-table columns.
const (
	ColEventTimestamp  = "event_timestamp"
	ColEventDate       = "event_date"
	ColEventTime       = "event_time"
	ColWeekday         = "ts_weekday"
	ColHour            = "ts_hour"
	ColDaytime         = "ts_daytime_named"
	ColIsWeekend       = "ts_is_weekend"
	ColSessionStart    = "session_start_time"
	ColSessionEnd      = "session_end_time"
	ColSessionDurSec   = "session_duration_seconds"
	ColSessionDurMin   = "session_duration_minutes"
	ColQuestionAddress = "question_address"
	ColCumulativeQI    = "cumulative_question_index"
)

// Localized time labels. The deployment the reference dataset mimics
// reports in Turkish; swap these to re-localize the derived columns.
var turkishWeekdays = map[time.Weekday]string{
	time.Monday:    "Pazartesi",
	time.Tuesday:   "Salı",
	time.Wednesday: "Çarşamba",
	time.Thursday:  "Perşembe",
	time.Friday:    "Cuma",
	time.Saturday:  "Cumartesi",
	time.Sunday:    "Pazar",
}

// Daytime bucket boundaries (inclusive upper hour).
const (
	nightEndHour     = 5
	morningEndHour   = 11
	afternoonEndHour = 17
)

// WeekdayName returns the localized weekday label.
func WeekdayName(t time.Time) string { return turkishWeekdays[t.Weekday()] }

// DaytimeName buckets an hour into Night/Morning/Afternoon/Evening labels.
func DaytimeName(hour int) string {
	switch {
	case hour <= nightEndHour:
		return "Gece"
	case hour <= morningEndHour:
		return "Sabah"
	case hour <= afternoonEndHour:
		return "Öğle"
	default:
		return "Akşam"
	}
}

// WeekendName labels a day as weekend or weekday.
func WeekendName(t time.Time) string {
	if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return "Hafta Sonu"
	}
	return "Hafta İçi"
}
