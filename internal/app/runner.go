// Package app orchestrates a generation run: it builds the requested
// event streams, derives the rollup tables, and writes every artifact
// under the output root.
package app

import (
	"context"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/nocsaren/GA-mock-to-html/internal/config"
	"github.com/nocsaren/GA-mock-to-html/internal/dataset"
	"github.com/nocsaren/GA-mock-to-html/internal/gen"
	"github.com/nocsaren/GA-mock-to-html/internal/output"
	"github.com/nocsaren/GA-mock-to-html/internal/rollup"
	"github.com/nocsaren/GA-mock-to-html/pkg/logger"
	"github.com/nocsaren/GA-mock-to-html/pkg/metrics"
)

// Kind selects which artifact families a run produces.
type Kind string

// Run kinds.
const (
	KindRaw     Kind = "raw"
	KindDerived Kind = "derived"
	KindBoth    Kind = "both"
)

// Artifact layout under the output root.
const (
	rawDirName     = "raw"
	rawFileName    = "pulled_from_bq.jsonl"
	csvDirName     = "data/csv"
	processedName  = "processed_data.csv"
	configEchoName = "config_used.json"
)

// Stream labels for metrics.
const (
	streamRaw  = "raw"
	streamFlat = "flat"
)

// ParseKind validates a run kind string.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindRaw, KindDerived, KindBoth:
		return Kind(s), nil
	}
	return "", wrapUnknownKind(s)
}

// Runner drives one generation run against a fixed configuration and
// reference clock. The clock is injectable so runs are reproducible
// end to end.
type Runner struct {
	cfg        *config.Config
	outRoot    string
	now        time.Time
	schemaFrom string
	columnar   output.ColumnarWriter
	log        logger.Logger
	metrics    *metrics.Manager
}

// Option applies a configuration option to the Runner.
type Option func(*Runner)

// WithNow pins the reference clock the generated timeline counts back
// from.
func WithNow(t time.Time) Option {
	return func(r *Runner) {
		if !t.IsZero() {
			r.now = t
		}
	}
}

// WithSchemaFrom points at a directory of existing CSV exports whose
// headers the derived artifacts should mirror.
func WithSchemaFrom(dir string) Option {
	return func(r *Runner) {
		r.schemaFrom = dir
	}
}

// WithColumnarWriter adds a columnar sink for the derived tables.
func WithColumnarWriter(w output.ColumnarWriter) Option {
	return func(r *Runner) {
		r.columnar = w
	}
}

// WithLogger sets a custom logger for the runner.
func WithLogger(l logger.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// WithMetrics sets a custom metrics manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(r *Runner) {
		if m != nil {
			r.metrics = m
		}
	}
}

// NewRunner creates a Runner writing under outRoot.
func NewRunner(cfg *config.Config, outRoot string, opts ...Option) *Runner {
	r := &Runner{
		cfg:     cfg,
		outRoot: outRoot,
		now:     time.Now().UTC(),
		metrics: metrics.NewManager(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.Named("runner")
	}
	return r
}

// Run produces the artifacts selected by kind, then echoes the
// effective configuration next to them.
func (r *Runner) Run(ctx context.Context, kind Kind) error {
	runID := uuid.NewString()
	r.log.Info(ctx, "generation run starting",
		logger.String("run_id", runID),
		logger.String("kind", string(kind)),
		logger.Int64("seed", r.cfg.Seed),
		logger.Int("users", r.cfg.Users),
		logger.Int("days", r.cfg.Days),
	)

	switch kind {
	case KindRaw:
		if err := r.writeRaw(ctx); err != nil {
			return err
		}
	case KindDerived:
		if err := r.writeDerived(ctx); err != nil {
			return err
		}
	case KindBoth:
		if err := r.writeRaw(ctx); err != nil {
			return err
		}
		if err := r.writeDerived(ctx); err != nil {
			return err
		}
	default:
		return wrapUnknownKind(string(kind))
	}

	echoPath := filepath.Join(r.outRoot, configEchoName)
	if err := output.WriteConfigUsed(echoPath, r.cfg); err != nil {
		return err
	}
	r.metrics.AddArtifactWritten("json")

	r.log.Info(ctx, "generation run finished",
		logger.String("run_id", runID),
		logger.Any("counters", r.metrics.Snapshot()),
	)
	return nil
}

// writeRaw builds the nested export stream and writes it as JSONL.
func (r *Runner) writeRaw(ctx context.Context) error {
	events := gen.BuildRaw(r.cfg, r.now)
	r.metrics.AddEventsGenerated(streamRaw, len(events))
	r.metrics.AddUsersGenerated(r.cfg.Users)

	path := filepath.Join(r.outRoot, rawDirName, rawFileName)
	if err := output.WriteRawJSONL(path, events); err != nil {
		return err
	}
	r.metrics.AddArtifactWritten("jsonl")
	r.log.Info(ctx, "raw stream written",
		logger.String("path", path),
		logger.Int("events", len(events)),
	)
	return nil
}

// namedTable pairs a derived table with its artifact base name.
type namedTable struct {
	name  string
	table *dataset.Table
}

// writeDerived builds the flat table, derives every rollup, and writes
// the CSV artifacts, mirroring headers from the schema directory when
// one is configured.
func (r *Runner) writeDerived(ctx context.Context) error {
	flat := gen.BuildFlat(r.cfg, r.now)
	r.metrics.AddEventsGenerated(streamFlat, flat.Len())

	users, usersMeta := rollup.ByUsers(flat)
	derived := []namedTable{
		{"by_sessions", rollup.BySessions(r.cfg, flat)},
		{"by_users", users},
		{"users_meta", usersMeta},
		{"by_questions", rollup.ByQuestions(r.cfg, flat)},
		{"by_ads", rollup.ByAds(flat)},
		{"by_date", rollup.ByDate(r.cfg, flat)},
		{"technical_events", rollup.TechnicalEvents(flat)},
	}

	csvDir := filepath.Join(r.outRoot, csvDirName)

	processed, err := r.mirrored(flat, processedName, output.DefaultProcessedColumns)
	if err != nil {
		return err
	}
	if err := r.writeTable(ctx, filepath.Join(csvDir, processedName), "processed_data", processed); err != nil {
		return err
	}

	for _, d := range derived {
		fileName := d.name + "_data.csv"
		t, err := r.mirrored(d.table, fileName, nil)
		if err != nil {
			return err
		}
		if err := r.writeTable(ctx, filepath.Join(csvDir, fileName), d.name, t); err != nil {
			return err
		}
	}
	return nil
}

// mirrored aligns a table to the schema directory's header for the
// given artifact, falling back to the default layout (or the table's
// own columns when the default is nil).
func (r *Runner) mirrored(t *dataset.Table, fileName string, defaults []string) (*dataset.Table, error) {
	if r.schemaFrom != "" {
		header, err := output.ReadCSVHeader(filepath.Join(r.schemaFrom, fileName))
		if err != nil {
			return nil, err
		}
		if header != nil {
			return output.EnsureColumns(t, header), nil
		}
	}
	if defaults != nil {
		return output.EnsureColumns(t, defaults), nil
	}
	return t, nil
}

// writeTable writes one derived table as CSV and, when a columnar
// sink is configured, as a columnar artifact next to it.
func (r *Runner) writeTable(ctx context.Context, path, name string, t *dataset.Table) error {
	if err := output.WriteCSV(path, t); err != nil {
		return err
	}
	r.metrics.AddRowsWritten(name, t.Len())
	r.metrics.AddArtifactWritten("csv")
	r.log.Info(ctx, "table written",
		logger.String("table", name),
		logger.String("path", path),
		logger.Int("rows", t.Len()),
	)

	if r.columnar == nil {
		return nil
	}
	columnarPath := path[:len(path)-len(filepath.Ext(path))] + ".parquet"
	if err := r.columnar.WriteTable(columnarPath, t); err != nil {
		return err
	}
	r.metrics.AddArtifactWritten("columnar")
	return nil
}
