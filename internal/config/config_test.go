package config_test

import (
	"errors"
	"testing"

	"github.com/nocsaren/GA-mock-to-html/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Seed, convey.ShouldEqual, 7)
			convey.So(cfg.Users, convey.ShouldEqual, 200)
			convey.So(cfg.Days, convey.ShouldEqual, 14)
			convey.So(cfg.AvgSessionsPerUser, convey.ShouldEqual, 2.2)
			convey.So(cfg.Tiers, convey.ShouldResemble, []int{1, 2, 3, 4})
			convey.So(cfg.QuestionsPerTier, convey.ShouldEqual, 12)
			convey.So(cfg.OperatingSystems, convey.ShouldResemble, []string{"ANDROID", "IOS"})
		})

		convey.Convey("Then the vocabulary should match the reference dataset", func() {
			convey.So(cfg.Vocab.Characters, convey.ShouldResemble, []string{"t", "mi", "la", "so"})
			convey.So(cfg.Vocab.SpecialCharacter, convey.ShouldEqual, "t")
			convey.So(cfg.Vocab.WheelImpressionRI, convey.ShouldEqual, "Daily Spin")
			convey.So(cfg.Vocab.WheelSkipRI, convey.ShouldEqual, "spin_skipped")
		})

		convey.Convey("Then it should validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with one broken field each", t, func() {
		cases := []struct {
			name   string
			mutate func(*config.Config)
		}{
			{"zero users", func(c *config.Config) { c.Users = 0 }},
			{"zero days", func(c *config.Config) { c.Days = 0 }},
			{"non-positive session rate", func(c *config.Config) { c.AvgSessionsPerUser = 0 }},
			{"no tiers", func(c *config.Config) { c.Tiers = nil }},
			{"zero questions per tier", func(c *config.Config) { c.QuestionsPerTier = 0 }},
			{"no countries", func(c *config.Config) { c.Countries = nil }},
			{"no app versions", func(c *config.Config) { c.AppVersions = nil }},
			{"no operating systems", func(c *config.Config) { c.OperatingSystems = nil }},
			{"no characters", func(c *config.Config) { c.Vocab.Characters = nil }},
		}

		for _, tc := range cases {
			convey.Convey("Then "+tc.name+" should fail validation", func() {
				cfg := config.New()
				tc.mutate(cfg)
				err := cfg.Validate()
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})
}
