package config

import (
	"flag"
	"os"

	"github.com/avelichka/mindfulme/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   database DSN (sqlite file path or pgx DSN)
//	-x string   database dialect ("sqlite" or "postgres")
//	-p string   path to a YAML policy override file
//	-w string   path to a lexicon weights TSV file
//	-m string   path to an emotion labels TSV file
//	-t string   path to a distortion patterns TSV file
//	-l string   log level (debug, info, warn, error)
//
// os.Args is first filtered to only these flags with flagx.FilterArgs, so
// cobra subcommand arguments pass through untouched.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-x", "-p", "-w", "-m", "-t", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.DBDialect, "x", config.DBDialect, "database dialect")
	fs.StringVar(&config.PolicyPath, "p", config.PolicyPath, "policy override file")
	fs.StringVar(&config.LexiconPath, "w", config.LexiconPath, "lexicon weights file")
	fs.StringVar(&config.EmotionPath, "m", config.EmotionPath, "emotion labels file")
	fs.StringVar(&config.DistortionPath, "t", config.DistortionPath, "distortion patterns file")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	_ = fs.Parse(args)
}
