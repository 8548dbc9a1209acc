// Package config loads tracker and table settings from HCL files.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/pokertracker/internal/game"
)

// File is the top level of a tracker configuration file.
type File struct {
	Tracker *TrackerSettings `hcl:"tracker,block"`
	Tables  []TableConfig    `hcl:"table,block"`
	Players []PlayerConfig   `hcl:"player,block"`
}

// TrackerSettings holds process-wide settings.
type TrackerSettings struct {
	DataDir  string `hcl:"data_dir,optional"`
	LogLevel string `hcl:"log_level,optional"`
	DSN      string `hcl:"dsn,optional"`
	MaxSaves int    `hcl:"max_saves,optional"`
}

// TableConfig describes the stakes and structure of a table.
type TableConfig struct {
	Name          string `hcl:"name,label"`
	MaxPlayers    int    `hcl:"max_players,optional"`
	StartingStack int    `hcl:"starting_stack,optional"`
	SmallBlind    int    `hcl:"small_blind"`
	BigBlind      int    `hcl:"big_blind"`
	Ante          int    `hcl:"ante,optional"`
	BettingLimit  string `hcl:"betting_limit,optional"`
	MinBet        int    `hcl:"min_bet,optional"`
	MinRaise      int    `hcl:"min_raise,optional"`
	TotalRounds   int    `hcl:"total_rounds,optional"`
}

// PlayerConfig seats a player when a table is created.
type PlayerConfig struct {
	Name  string `hcl:"name,label"`
	Seat  int    `hcl:"seat,optional"`
	Stack int    `hcl:"stack,optional"`
}

// DefaultDataDir is where saves live when nothing else is configured.
const DefaultDataDir = ".pokertracker"

// DefaultMaxSaves is how many saved games the file store keeps.
const DefaultMaxSaves = 3

// Default returns the configuration used when no file exists: one
// 5/10 no-limit table and no players.
func Default() *File {
	f := &File{
		Tables: []TableConfig{{Name: "main", SmallBlind: 5, BigBlind: 10}},
	}
	f.applyDefaults()
	return f
}

// Load reads filename. A missing file yields Default.
func Load(filename string) (*File, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %s: %s", filename, diags.Error())
	}
	return decode(file.Body, filename)
}

// Parse decodes HCL source held in memory.
func Parse(src []byte, filename string) (*File, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %s: %s", filename, diags.Error())
	}
	return decode(file.Body, filename)
}

func decode(body hcl.Body, filename string) (*File, error) {
	var f File
	if diags := gohcl.DecodeBody(body, nil, &f); diags.HasErrors() {
		return nil, fmt.Errorf("decode %s: %s", filename, diags.Error())
	}
	f.applyDefaults()
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return &f, nil
}

func (f *File) applyDefaults() {
	if f.Tracker == nil {
		f.Tracker = &TrackerSettings{}
	}
	if f.Tracker.DataDir == "" {
		f.Tracker.DataDir = DefaultDataDir
	}
	if f.Tracker.LogLevel == "" {
		f.Tracker.LogLevel = "info"
	}
	if f.Tracker.MaxSaves == 0 {
		f.Tracker.MaxSaves = DefaultMaxSaves
	}
	for i := range f.Tables {
		t := &f.Tables[i]
		if t.BettingLimit == "" {
			t.BettingLimit = string(game.NoLimit)
		}
	}
}

// Validate rejects tables no game could be created from.
func (f *File) Validate() error {
	if len(f.Tables) == 0 {
		return errors.New("at least one table must be configured")
	}
	if f.Tracker != nil && f.Tracker.MaxSaves < 1 {
		return fmt.Errorf("max_saves must be at least 1, got %d", f.Tracker.MaxSaves)
	}
	seen := make(map[string]bool)
	for _, t := range f.Tables {
		if seen[t.Name] {
			return fmt.Errorf("table %q is defined twice", t.Name)
		}
		seen[t.Name] = true
		if _, err := t.GameConfig(); err != nil {
			return fmt.Errorf("table %q: %w", t.Name, err)
		}
	}
	seats := make(map[int]string)
	for _, p := range f.Players {
		if p.Stack < 0 {
			return fmt.Errorf("player %q: stack must not be negative", p.Name)
		}
		if p.Seat == 0 {
			continue
		}
		if other, ok := seats[p.Seat]; ok {
			return fmt.Errorf("players %q and %q both want seat %d", other, p.Name, p.Seat)
		}
		seats[p.Seat] = p.Name
	}
	return nil
}

// GameConfig converts the table into a validated game.Config.
func (t TableConfig) GameConfig() (game.Config, error) {
	limit, err := game.ParseBettingLimit(t.BettingLimit)
	if err != nil {
		return game.Config{}, err
	}
	cfg := game.Config{
		Name:          t.Name,
		MaxPlayers:    t.MaxPlayers,
		StartingStack: t.StartingStack,
		SmallBlind:    t.SmallBlind,
		BigBlind:      t.BigBlind,
		Ante:          t.Ante,
		BettingLimit:  limit,
		MinBet:        t.MinBet,
		MinRaise:      t.MinRaise,
		TotalRounds:   t.TotalRounds,
	}.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return game.Config{}, err
	}
	return cfg, nil
}

// Table returns the named table, or the first one when name is empty.
func (f *File) Table(name string) (TableConfig, bool) {
	if name == "" && len(f.Tables) > 0 {
		return f.Tables[0], true
	}
	for _, t := range f.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return TableConfig{}, false
}
