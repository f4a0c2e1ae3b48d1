package output_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nocsaren/GA-mock-to-html/internal/config"
	"github.com/nocsaren/GA-mock-to-html/internal/dataset"
	"github.com/nocsaren/GA-mock-to-html/internal/gen"
	"github.com/nocsaren/GA-mock-to-html/internal/output"
	"github.com/smartystreets/goconvey/convey"
)

func TestWriteCSV(t *testing.T) {
	convey.Convey("Given a table with nulls and typed values", t, func() {
		tbl := dataset.NewTable("name", "count", "when")
		tbl.Append(dataset.Row{
			"name":  dataset.String("a"),
			"count": dataset.Int(3),
			"when":  dataset.Date(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)),
		})
		tbl.Append(dataset.Row{"name": dataset.String("b")})

		path := filepath.Join(t.TempDir(), "out", "t.csv")
		err := output.WriteCSV(path, tbl)

		convey.Convey("Then the file should hold a header plus one line per row", func() {
			convey.So(err, convey.ShouldBeNil)
			data, readErr := os.ReadFile(path)
			convey.So(readErr, convey.ShouldBeNil)
			lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
			convey.So(len(lines), convey.ShouldEqual, 3)
			convey.So(lines[0], convey.ShouldEqual, "name,count,when")
			convey.So(lines[1], convey.ShouldEqual, "a,3,2025-03-10")
			convey.So(lines[2], convey.ShouldEqual, "b,,")
		})

		convey.Convey("Then the header should round-trip through the schema reader", func() {
			convey.So(err, convey.ShouldBeNil)
			header, readErr := output.ReadCSVHeader(path)
			convey.So(readErr, convey.ShouldBeNil)
			convey.So(header, convey.ShouldResemble, []string{"name", "count", "when"})
		})
	})
}

func TestReadCSVHeader_Missing(t *testing.T) {
	convey.Convey("Given a path that does not exist", t, func() {
		header, err := output.ReadCSVHeader(filepath.Join(t.TempDir(), "absent.csv"))

		convey.Convey("Then the reader should signal fallback, not failure", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(header, convey.ShouldBeNil)
		})
	})

	convey.Convey("Given an empty file", t, func() {
		path := filepath.Join(t.TempDir(), "empty.csv")
		convey.So(os.WriteFile(path, nil, 0o600), convey.ShouldBeNil)

		header, err := output.ReadCSVHeader(path)

		convey.Convey("Then the reader should also signal fallback", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(header, convey.ShouldBeNil)
		})
	})
}

func TestEnsureColumns(t *testing.T) {
	convey.Convey("Given a table missing one desired column", t, func() {
		tbl := dataset.NewTable("a", "b")
		tbl.Append(dataset.Row{"a": dataset.Int(1), "b": dataset.Int(2)})

		out := output.EnsureColumns(tbl, []string{"b", "missing", "a"})

		convey.Convey("Then the layout should be adopted exactly, with null fill", func() {
			convey.So(out.Columns(), convey.ShouldResemble, []string{"b", "missing", "a"})
			convey.So(out.Row(0).Get("missing").IsNull(), convey.ShouldBeTrue)
			convey.So(out.Row(0).Get("a").Render(), convey.ShouldEqual, "1")
		})
	})
}

func TestWriteRawJSONL(t *testing.T) {
	convey.Convey("Given a small raw stream", t, func() {
		cfg := config.New()
		cfg.Users = 3
		cfg.Days = 3
		events := gen.BuildRaw(cfg, time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC))

		path := filepath.Join(t.TempDir(), "raw", "pulled_from_bq.jsonl")
		err := output.WriteRawJSONL(path, events)

		convey.Convey("Then each line should be one decodable event", func() {
			convey.So(err, convey.ShouldBeNil)
			data, readErr := os.ReadFile(path)
			convey.So(readErr, convey.ShouldBeNil)
			lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
			convey.So(len(lines), convey.ShouldEqual, len(events))

			var first gen.RawEvent
			convey.So(json.Unmarshal([]byte(lines[0]), &first), convey.ShouldBeNil)
			convey.So(first.EventName, convey.ShouldEqual, events[0].EventName)
			convey.So(first.UserPseudoID, convey.ShouldEqual, events[0].UserPseudoID)
		})

		convey.Convey("Then explicit nulls should survive serialization", func() {
			convey.So(err, convey.ShouldBeNil)
			data, readErr := os.ReadFile(path)
			convey.So(readErr, convey.ShouldBeNil)
			convey.So(string(data), convey.ShouldContainSubstring, `"string_value":null`)
		})
	})
}

func TestWriteConfigUsed(t *testing.T) {
	convey.Convey("Given the default configuration", t, func() {
		cfg := config.New()
		path := filepath.Join(t.TempDir(), "config_used.json")

		err := output.WriteConfigUsed(path, cfg)

		convey.Convey("Then the echo should decode back to the same values", func() {
			convey.So(err, convey.ShouldBeNil)
			data, readErr := os.ReadFile(path)
			convey.So(readErr, convey.ShouldBeNil)

			var got config.Config
			convey.So(json.Unmarshal(data, &got), convey.ShouldBeNil)
			convey.So(got.Seed, convey.ShouldEqual, cfg.Seed)
			convey.So(got.Users, convey.ShouldEqual, cfg.Users)
			convey.So(got.Vocab.SpecialCharacter, convey.ShouldEqual, cfg.Vocab.SpecialCharacter)
		})
	})
}
