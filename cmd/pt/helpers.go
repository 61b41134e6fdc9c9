package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/driveline/placetrack/internal/config"
	"github.com/driveline/placetrack/internal/credentials"
	"github.com/driveline/placetrack/internal/db"
	"github.com/driveline/placetrack/internal/gemini"
	"github.com/driveline/placetrack/internal/ingest"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// app bundles everything a command needs: loaded config, an open
// database, and a configured logger.
type app struct {
	cfg      *config.Config
	db       *gorm.DB
	log      *slog.Logger
	closeLog func() error
}

// openApp loads config, sets up logging and connects to the store. The
// schema is migrated on every open; AutoMigrate is a no-op when current.
func openApp(cmd *cobra.Command) (*app, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log, closeLog := config.SetupLogger(cfg.Log)

	gdb, err := db.Connect(cfg.Database)
	if err != nil {
		closeLog()
		return nil, err
	}
	if err := db.AutoMigrate(gdb); err != nil {
		closeLog()
		return nil, err
	}

	return &app{cfg: cfg, db: gdb, log: log, closeLog: closeLog}, nil
}

func (a *app) close() {
	if a.closeLog != nil {
		a.closeLog()
	}
}

// engine builds the ingestion engine. The extraction client is created
// with whatever key is currently stored; the engine re-checks the
// credential source before every attempt.
func (a *app) engine() *ingest.Engine {
	creds := credentials.DefaultStore()
	key, _ := creds.Get()
	client := gemini.NewClient(key, gemini.Opts{
		Model:   a.cfg.Gemini.Model,
		BaseURL: a.cfg.Gemini.BaseURL,
		Timeout: a.cfg.Gemini.Timeout(),
	})
	return &ingest.Engine{DB: a.db, Extractor: client, Creds: creds, Log: a.log}
}

func (a *app) sweeper() *ingest.Sweeper {
	return &ingest.Sweeper{
		DB:       a.db,
		Engine:   a.engine(),
		Cooldown: a.cfg.Sweep.Cooldown(),
		Log:      a.log,
	}
}

// parseID parses a positive numeric command-line ID.
func parseID(arg, what string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, arg)
	}
	return uint(id), nil
}

// deferReason describes why an extraction was deferred, in terms a user
// can act on.
func deferReason(err error) string {
	switch {
	case errors.Is(err, ingest.ErrCredentialMissing):
		return "no Gemini API key configured (run `pt key set`)"
	case errors.Is(err, gemini.ErrInvalidCredential):
		return "the Gemini API rejected your key (check `pt key show`)"
	case errors.Is(err, gemini.ErrNetworkUnavailable):
		return "the Gemini API could not be reached"
	case errors.Is(err, gemini.ErrServiceOverloaded):
		return "the Gemini API is overloaded or rate-limiting"
	case errors.Is(err, gemini.ErrMalformedResponse):
		return "the extraction response could not be parsed"
	default:
		return err.Error()
	}
}
