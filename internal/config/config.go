// Package config defines generator configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with compiled-in defaults.
// - Load(ctx) layers an optional YAML file and environment variables on top.
// - External errors must be wrapped via this package's error helpers.
package config

// Vocab holds the in-game label names used to tag generated events.
// Changing these re-skins the whole dataset to a target game's naming.
type Vocab struct {
	// Characters used in event_params__character_name. Must be non-empty.
	Characters []string `koanf:"characters" json:"characters"`

	// SpecialCharacter is the character whose cumulative question index
	// track is offset differently from the rest.
	SpecialCharacter string `koanf:"special_character" json:"special_character"`

	// Energy-like items used in event_params__spent_to. These map to the
	// engineered columns alicin_used/coffee_used/cauldron_used.
	AlicinName   string `koanf:"alicin_name" json:"alicin_name"`
	CoffeeName   string `koanf:"coffee_name" json:"coffee_name"`
	CauldronName string `koanf:"cauldron_name" json:"cauldron_name"`

	// ScrollMenuName affects the scroll_opened indicator.
	ScrollMenuName string `koanf:"scroll_menu_name" json:"scroll_menu_name"`

	// Consumables used in shop_consumable_item.
	PotionName  string `koanf:"potion_name" json:"potion_name"`
	IncenseName string `koanf:"incense_name" json:"incense_name"`
	AmuletName  string `koanf:"amulet_name" json:"amulet_name"`

	// Wheel mini-game identifiers.
	WheelImpressionRI string `koanf:"wheel_impression_ri" json:"wheel_impression_ri"`
	WheelSkipRI       string `koanf:"wheel_skip_ri" json:"wheel_skip_ri"`
}

// Config contains the full generator configuration.
type Config struct {
	// Seed drives every stochastic decision; a fixed seed reproduces an
	// identical dataset bit-for-bit (given a fixed reference clock).
	Seed int64 `koanf:"seed" json:"seed"`

	// How much data.
	Users              int     `koanf:"users" json:"users"`
	Days               int     `koanf:"days" json:"days"`
	AvgSessionsPerUser float64 `koanf:"avg_sessions_per_user" json:"avg_sessions_per_user"`

	// Question progression.
	Tiers            []int `koanf:"tiers" json:"tiers"`
	QuestionsPerTier int   `koanf:"questions_per_tier" json:"questions_per_tier"`

	// Distribution / metadata.
	Countries        []string `koanf:"countries" json:"countries"`
	AppVersions      []string `koanf:"app_versions" json:"app_versions"`
	OperatingSystems []string `koanf:"operating_systems" json:"operating_systems"`

	Vocab Vocab `koanf:"vocab" json:"vocab"`
}

// Default configuration values.
const (
	defaultSeed               = 7
	defaultUsers              = 200
	defaultDays               = 14
	defaultAvgSessionsPerUser = 2.2
	defaultQuestionsPerTier   = 12
)

// New creates a Config with defaults matching the reference dataset.
func New() *Config {
	return &Config{
		Seed:               defaultSeed,
		Users:              defaultUsers,
		Days:               defaultDays,
		AvgSessionsPerUser: defaultAvgSessionsPerUser,
		Tiers:              []int{1, 2, 3, 4},
		QuestionsPerTier:   defaultQuestionsPerTier,
		Countries:          []string{"United States", "Türkiye"},
		AppVersions:        []string{"1.0.5", "1.0.6", "1.0.7"},
		OperatingSystems:   []string{"ANDROID", "IOS"},
		Vocab: Vocab{
			Characters:        []string{"t", "mi", "la", "so"},
			SpecialCharacter:  "t",
			AlicinName:        "AliCin",
			CoffeeName:        "Coffee",
			CauldronName:      "Cauldron",
			ScrollMenuName:    "Scroll Menu",
			PotionName:        "Potion",
			IncenseName:       "Incense",
			AmuletName:        "Amulet",
			WheelImpressionRI: "Daily Spin",
			WheelSkipRI:       "spin_skipped",
		},
	}
}

// Validate reports whether the configuration can drive a generation run.
// A failure here is fatal: the caller must not attempt generation.
func (c *Config) Validate() error {
	switch {
	case c.Users < 1:
		return wrapInvalid("users must be >= 1")
	case c.Days < 1:
		return wrapInvalid("days must be >= 1")
	case c.AvgSessionsPerUser <= 0:
		return wrapInvalid("avg_sessions_per_user must be > 0")
	case len(c.Tiers) == 0:
		return wrapInvalid("tiers must not be empty")
	case c.QuestionsPerTier < 1:
		return wrapInvalid("questions_per_tier must be >= 1")
	case len(c.Countries) == 0:
		return wrapInvalid("countries must not be empty")
	case len(c.AppVersions) == 0:
		return wrapInvalid("app_versions must not be empty")
	case len(c.OperatingSystems) == 0:
		return wrapInvalid("operating_systems must not be empty")
	case len(c.Vocab.Characters) == 0:
		return wrapInvalid("vocab.characters must not be empty")
	}
	return nil
}
