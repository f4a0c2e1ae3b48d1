// Command gamock generates a synthetic analytics dataset: a raw
// GA4-export-style event stream and/or the derived CSV tables.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/nocsaren/GA-mock-to-html/internal/app"
	"github.com/nocsaren/GA-mock-to-html/internal/config"
	"github.com/nocsaren/GA-mock-to-html/pkg/logger"
)

const defaultOut = "./mock/output"

func main() {
	os.Exit(run())
}

func run() int {
	out := flag.String("out", defaultOut, "output folder root")
	configPath := flag.String("config", "", "optional YAML config overriding defaults")
	schemaFrom := flag.String("schema-from", "", "folder containing existing CSVs to mirror headers from")
	kindFlag := flag.String("kind", string(app.KindRaw), "what to generate: raw, derived or both")
	seed := flag.Int64("seed", 0, "random seed (overrides config)")
	users := flag.Int("users", 0, "number of users (overrides config)")
	days := flag.Int("days", 0, "number of days (overrides config)")
	nowFlag := flag.String("now", "", "reference clock as RFC3339 (defaults to the current time)")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn or error")
	flag.Parse()

	// A .env file is a developer convenience; absence is not an error.
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return 1
	}
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := logger.SetLevelString(*logLevel); err != nil {
		log.Warn(ctx, "invalid log level, falling back to info", logger.String("log_level", *logLevel))
		_ = logger.SetLevelString("info")
	}

	kind, err := app.ParseKind(*kindFlag)
	if err != nil {
		log.Error(ctx, "invalid kind flag", logger.Error(err))
		return 1
	}

	cfg, err := config.Load(ctx, *configPath)
	if err != nil {
		log.Error(ctx, "failed to load config", logger.Error(err))
		return 1
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *users != 0 {
		cfg.Users = *users
	}
	if *days != 0 {
		cfg.Days = *days
	}
	if err := cfg.Validate(); err != nil {
		log.Error(ctx, "invalid configuration", logger.Error(err))
		return 1
	}

	opts := []app.Option{app.WithLogger(log)}
	if *nowFlag != "" {
		now, err := time.Parse(time.RFC3339, *nowFlag)
		if err != nil {
			log.Error(ctx, "invalid now flag", logger.Error(err))
			return 1
		}
		opts = append(opts, app.WithNow(now))
	}
	if *schemaFrom != "" {
		opts = append(opts, app.WithSchemaFrom(*schemaFrom))
	}

	runner := app.NewRunner(cfg, *out, opts...)
	if err := runner.Run(ctx, kind); err != nil {
		log.Error(ctx, "generation run failed", logger.Error(err))
		return 1
	}
	return 0
}
