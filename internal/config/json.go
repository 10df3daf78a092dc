package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/avelichka/mindfulme/internal/flagx"
)

// JsonConfig is the file shape for the optional JSON config. It exists
// separately from Config so absent keys can be told apart from explicit
// empty values: only keys present in the file override the defaults.
type JsonConfig struct {
	DBDialect      *string `json:"db_dialect"`
	DatabaseDSN    *string `json:"database_dsn"`
	PolicyPath     *string `json:"policy_path"`
	LexiconPath    *string `json:"lexicon_path"`
	EmotionPath    *string `json:"emotion_path"`
	DistortionPath *string `json:"distortion_path"`
	LogLevel       *string `json:"log_level"`
}

// parseJson overlays values from the JSON file named by the -c or -config
// flags onto config. When neither flag is set, nothing is loaded.
func parseJson(config *Config) error {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	overlay(&config.DBDialect, c.DBDialect)
	overlay(&config.DatabaseDSN, c.DatabaseDSN)
	overlay(&config.PolicyPath, c.PolicyPath)
	overlay(&config.LexiconPath, c.LexiconPath)
	overlay(&config.EmotionPath, c.EmotionPath)
	overlay(&config.DistortionPath, c.DistortionPath)
	overlay(&config.LogLevel, c.LogLevel)
	return nil
}

func overlay(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
