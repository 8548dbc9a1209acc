package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/lox/pokertracker/cmd/pokertracker/shared"
	"github.com/lox/pokertracker/internal/config"
	"github.com/lox/pokertracker/internal/display"
	"github.com/lox/pokertracker/internal/store"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command.
type Globals struct {
	Config  string `short:"c" help:"Tracker configuration file" default:"pokertracker.hcl" type:"path" env:"POKERTRACKER_CONFIG"`
	Data    string `help:"Directory for saved games and statistics" type:"path" env:"POKERTRACKER_DATA"`
	DSN     string `help:"Postgres connection string; saves go to files when empty" env:"POKERTRACKER_DSN"`
	Debug   bool   `help:"Enable debug logging"`
	NoColor bool   `help:"Disable colored output"`
}

type CLI struct {
	Globals

	Version kong.VersionFlag `short:"v" help:"Show version"`
	Play    PlayCmd          `cmd:"" default:"withargs" help:"Track a game from the command line"`
	Saves   SavesCmd         `cmd:"" help:"Manage saved games"`
	Stats   StatsCmd         `cmd:"" help:"Show player statistics"`
	Export  ExportCmd        `cmd:"" help:"Export a saved game's hand history as TOML"`
}

// env carries what every command needs once flags and config are resolved.
type env struct {
	file    *config.File
	logger  *log.Logger
	display *display.Display
	store   store.Store
}

// open loads the configuration and connects to the store.
func (g *Globals) open(ctx context.Context) (*env, error) {
	file, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	settings := file.Tracker
	if g.Data != "" {
		settings.DataDir = g.Data
	}
	if g.DSN != "" {
		settings.DSN = g.DSN
	}

	logger, err := shared.SetupLogger(os.Stderr, settings.LogLevel, g.Debug)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	var st store.Store
	if settings.DSN != "" {
		st, err = store.OpenPostgres(ctx, settings.DSN, settings.MaxSaves, logger)
	} else {
		st, err = store.NewFileStore(settings.DataDir, settings.MaxSaves, logger)
	}
	if err != nil {
		return nil, err
	}

	return &env{
		file:    file,
		logger:  logger,
		display: display.New(os.Stdout, !g.NoColor),
		store:   st,
	}, nil
}

func (e *env) Close() error {
	return e.store.Close()
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn("Could not read .env", "error", err)
	}

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("pokertracker"),
		kong.Description("Track chips, pots and statistics for a home poker game"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
		kong.Bind(&cli.Globals),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
