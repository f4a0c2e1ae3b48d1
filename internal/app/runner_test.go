package app_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nocsaren/GA-mock-to-html/internal/app"
	"github.com/nocsaren/GA-mock-to-html/internal/config"
	"github.com/nocsaren/GA-mock-to-html/internal/output"
	"github.com/nocsaren/GA-mock-to-html/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func testConfig() *config.Config {
	cfg := config.New()
	cfg.Users = 4
	cfg.Days = 4
	return cfg
}

func TestParseKind(t *testing.T) {
	convey.Convey("Given run kind strings", t, func() {
		convey.Convey("Then the three known kinds should parse", func() {
			for _, s := range []string{"raw", "derived", "both"} {
				kind, err := app.ParseKind(s)
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(kind), convey.ShouldEqual, s)
			}
		})

		convey.Convey("Then anything else should fail with the sentinel", func() {
			_, err := app.ParseKind("csv")
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(errors.Is(err, app.ErrUnknownKind), convey.ShouldBeTrue)
		})
	})
}

func TestRunner_Run(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("logger init: %v", err)
	}

	convey.Convey("Given a runner with a pinned clock", t, func() {
		now := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)

		convey.Convey("When running a raw-only generation", func() {
			out := t.TempDir()
			r := app.NewRunner(testConfig(), out, app.WithNow(now))
			convey.So(r.Run(context.Background(), app.KindRaw), convey.ShouldBeNil)

			convey.Convey("Then the raw stream and config echo should exist", func() {
				convey.So(fileExists(filepath.Join(out, "raw", "pulled_from_bq.jsonl")), convey.ShouldBeTrue)
				convey.So(fileExists(filepath.Join(out, "config_used.json")), convey.ShouldBeTrue)
				convey.So(fileExists(filepath.Join(out, "data", "csv", "processed_data.csv")), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When running a full generation", func() {
			out := t.TempDir()
			r := app.NewRunner(testConfig(), out, app.WithNow(now))
			convey.So(r.Run(context.Background(), app.KindBoth), convey.ShouldBeNil)

			convey.Convey("Then every derived artifact should exist", func() {
				csvDir := filepath.Join(out, "data", "csv")
				for _, name := range []string{
					"processed_data.csv",
					"by_sessions_data.csv",
					"by_users_data.csv",
					"users_meta_data.csv",
					"by_questions_data.csv",
					"by_ads_data.csv",
					"by_date_data.csv",
					"technical_events_data.csv",
				} {
					convey.So(fileExists(filepath.Join(csvDir, name)), convey.ShouldBeTrue)
				}
				convey.So(fileExists(filepath.Join(out, "raw", "pulled_from_bq.jsonl")), convey.ShouldBeTrue)
			})

			convey.Convey("Then the flat export should carry the built-in layout", func() {
				header, err := output.ReadCSVHeader(filepath.Join(out, "data", "csv", "processed_data.csv"))
				convey.So(err, convey.ShouldBeNil)
				convey.So(header, convey.ShouldResemble, output.DefaultProcessedColumns)
			})
		})

		convey.Convey("When mirroring headers from an existing export", func() {
			schemaDir := t.TempDir()
			mirror := "event_name,user_pseudo_id,custom_extra\n"
			convey.So(os.WriteFile(filepath.Join(schemaDir, "processed_data.csv"), []byte(mirror), 0o600), convey.ShouldBeNil)

			out := t.TempDir()
			r := app.NewRunner(testConfig(), out, app.WithNow(now), app.WithSchemaFrom(schemaDir))
			convey.So(r.Run(context.Background(), app.KindDerived), convey.ShouldBeNil)

			convey.Convey("Then the mirrored layout should win over the default", func() {
				header, err := output.ReadCSVHeader(filepath.Join(out, "data", "csv", "processed_data.csv"))
				convey.So(err, convey.ShouldBeNil)
				convey.So(header, convey.ShouldResemble, []string{"event_name", "user_pseudo_id", "custom_extra"})
			})
		})

		convey.Convey("When identical runs target two directories", func() {
			outA, outB := t.TempDir(), t.TempDir()
			convey.So(app.NewRunner(testConfig(), outA, app.WithNow(now)).
				Run(context.Background(), app.KindBoth), convey.ShouldBeNil)
			convey.So(app.NewRunner(testConfig(), outB, app.WithNow(now)).
				Run(context.Background(), app.KindBoth), convey.ShouldBeNil)

			convey.Convey("Then the artifacts should be byte-identical", func() {
				for _, rel := range []string{
					filepath.Join("raw", "pulled_from_bq.jsonl"),
					filepath.Join("data", "csv", "processed_data.csv"),
					filepath.Join("data", "csv", "by_users_data.csv"),
				} {
					a, errA := os.ReadFile(filepath.Join(outA, rel))
					b, errB := os.ReadFile(filepath.Join(outB, rel))
					convey.So(errA, convey.ShouldBeNil)
					convey.So(errB, convey.ShouldBeNil)
					convey.So(string(a), convey.ShouldEqual, string(b))
				}
			})
		})
	})
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
