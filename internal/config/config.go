// Package config handles runtime configuration for the analytics engine,
// including defaults, JSON overlay, and command-line flags.
package config

import "fmt"

// Config holds runtime settings for the engine.
//
// Fields:
//   - DBDialect: "sqlite" or "postgres".
//   - DatabaseDSN: a file path for sqlite, a pgx DSN for postgres.
//   - PolicyPath: optional YAML file overriding the shipped scoring policy.
//   - LexiconPath / EmotionPath / DistortionPath: optional TSV files replacing
//     the embedded sentiment model assets. All three must be set together.
//   - LogLevel: slog level name (debug, info, warn, error).
type Config struct {
	DBDialect      string
	DatabaseDSN    string
	PolicyPath     string
	LexiconPath    string
	EmotionPath    string
	DistortionPath string
	LogLevel       string
}

// LoadDefaults populates Config with local-development defaults: a sqlite
// database file in the working directory and the embedded model assets.
func (c *Config) LoadDefaults() {
	c.DBDialect = "sqlite"
	c.DatabaseDSN = "mindfulme.db"
	c.PolicyPath = ""
	c.LexiconPath = ""
	c.EmotionPath = ""
	c.DistortionPath = ""
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg); err != nil {
		return nil, err
	}
	parseFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects combinations the engine cannot run with.
func (c *Config) Validate() error {
	switch c.DBDialect {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown db dialect %q", c.DBDialect)
	}
	set := 0
	for _, p := range []string{c.LexiconPath, c.EmotionPath, c.DistortionPath} {
		if p != "" {
			set++
		}
	}
	if set != 0 && set != 3 {
		return fmt.Errorf("lexicon, emotion and distortion paths must be set together")
	}
	return nil
}
