package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func (a *App) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mindfulme",
		Short:         "Mental wellness analytics engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	// config flags (-c, -d, -x, ...) are parsed before cobra runs;
	// letting them through here keeps "unknown flag" errors away.
	root.FParseErrWhitelist.UnknownFlags = true

	root.AddCommand(a.assessCmd())
	root.AddCommand(a.logCmd())
	root.AddCommand(a.forecastCmd())
	root.AddCommand(a.statsCmd())
	return root
}

// parseAnswers splits a comma-separated answer list into ints. Range and
// length checks belong to the scorer; this only rejects non-numeric input.
func parseAnswers(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("empty answer list")
	}
	parts := strings.Split(s, ",")
	answers := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("answer %q is not a number", p)
		}
		answers = append(answers, n)
	}
	return answers, nil
}

// parseDate accepts an empty string (meaning today) or YYYY-MM-DD.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}
