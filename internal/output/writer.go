package output

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/nocsaren/GA-mock-to-html/internal/config"
	"github.com/nocsaren/GA-mock-to-html/internal/dataset"
	"github.com/nocsaren/GA-mock-to-html/internal/gen"
)

const dirPerm = 0o755

// ColumnarWriter emits a table in a columnar format alongside the CSV
// artifacts. The generator treats it as optional: a nil writer means
// CSV and JSONL only.
type ColumnarWriter interface {
	WriteTable(path string, t *dataset.Table) error
}

// WriteCSV writes a table as a headered CSV file, creating parent
// directories as needed. Nulls render as empty cells.
func WriteCSV(path string, t *dataset.Table) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return wrapWrite(path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return wrapWrite(path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	cols := t.Columns()
	if err := w.Write(cols); err != nil {
		return wrapWrite(path, err)
	}
	record := make([]string, len(cols))
	for _, r := range t.Rows() {
		for i, c := range cols {
			record[i] = r.Get(c).Render()
		}
		if err := w.Write(record); err != nil {
			return wrapWrite(path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return wrapWrite(path, err)
	}
	return f.Close()
}

// WriteRawJSONL writes the raw event stream as one JSON object per
// line, preserving the nested export structure and explicit nulls.
func WriteRawJSONL(path string, events []gen.RawEvent) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return wrapWrite(path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return wrapWrite(path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	for i := range events {
		if err := enc.Encode(&events[i]); err != nil {
			return wrapWrite(path, err)
		}
	}
	return f.Close()
}

// WriteConfigUsed echoes the effective configuration next to the
// artifacts so a run can be reproduced from its output alone.
func WriteConfigUsed(path string, cfg *config.Config) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return wrapWrite(path, err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return wrapWrite(path, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return wrapWrite(path, err)
	}
	return nil
}
