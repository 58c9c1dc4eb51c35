// Package config loads bog.toml, the scheduler's startup defaults
// (BPM/swing/lookahead/grid/quantisation) plus the optional Sentry DSN,
// grounded on the cpi-si repo's system/lib/paths TOML-loading convention
// (github.com/BurntSushi/toml).
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Scheduler holds the startup values Configure/SetQuantisation accept.
// Zero values are left for the scheduler's own defaults to apply (the
// same "only strictly-positive values override" rule §4.8 describes).
type Scheduler struct {
	BPM          float64 `toml:"bpm"`
	Swing        float64 `toml:"swing"`
	LookaheadMs  float64 `toml:"lookahead_ms"`
	GridBeats    float64 `toml:"grid_beats"`
	Quantisation float64 `toml:"quantisation_beats"`
	// Seed overrides the scheduler's RNG (rand/3, randint/3, pick/2,
	// prob/1); 0 means "leave the time-derived default in place" (§8:
	// reproducibility is opt-in via an explicit seed, not automatic).
	Seed int64 `toml:"seed"`
	// ArenaBlockLimit bounds each tick's query arena in blocks; 0 means
	// unbounded. Operators who want resource exhaustion (§7) to be a
	// reachable, reportable condition rather than unbounded growth set
	// this to a finite ceiling.
	ArenaBlockLimit int `toml:"arena_block_limit"`
}

// Diagnostics holds the optional Sentry reporting settings.
type Diagnostics struct {
	SentryDSN   string `toml:"sentry_dsn"`
	Environment string `toml:"environment"`
}

// Server holds the debug HTTP server's listen address.
type Server struct {
	Addr string `toml:"addr"`
}

// Config is the top-level bog.toml shape.
type Config struct {
	Scheduler   Scheduler   `toml:"scheduler"`
	Diagnostics Diagnostics `toml:"diagnostics"`
	Server      Server      `toml:"server"`
}

// Default returns the configuration used when no bog.toml is present:
// a 120 BPM / no-swing / 80ms-lookahead / quarter-beat-grid scheduler,
// no Sentry DSN, and the debug server on :7357.
func Default() Config {
	return Config{
		Scheduler: Scheduler{
			BPM:          120,
			Swing:        0,
			LookaheadMs:  80,
			GridBeats:    0.25,
			Quantisation: 4,
		},
		Server: Server{Addr: ":7357"},
	}
}

// Load reads path and decodes it over Default(), so a partial bog.toml
// only overrides the fields it sets. A missing file is not an error —
// it returns Default() unchanged, mirroring the "no config file" case
// the teacher's env-var helper treats as a soft fallback.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}

	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Env mirrors reqsrv/main.go's env(key, default) helper: read an
// environment variable, falling back to def when unset or empty. Used
// for secrets (e.g. a Sentry DSN override) that don't belong in a
// checked-in bog.toml.
func Env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
