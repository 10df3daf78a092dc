package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/avelichka/mindfulme/internal/models"
)

func (a *App) statsCmd() *cobra.Command {
	var user, asOf string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the trailing week's check-in summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDate(asOf)
			if err != nil {
				return err
			}
			if day.IsZero() {
				day = time.Now()
			}

			stats, err := a.forecasts.WeeklyStats(cmd.Context(), user, day)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "days observed: %d\n", stats.DaysObserved)
			if stats.DaysObserved == 0 {
				return nil
			}
			fmt.Fprintf(out, "mean mood: %.1f\n", stats.MeanMood)
			if stats.MeanSleepHours != nil {
				fmt.Fprintf(out, "mean sleep: %.1f h\n", *stats.MeanSleepHours)
			}
			fmt.Fprintf(out, "journal entries: %d\n", stats.JournalCount)
			if stats.MeanVocalTension != nil {
				fmt.Fprintf(out, "mean vocal tension: %.2f\n", *stats.MeanVocalTension)
			}
			// fixed order keeps the output stable across runs
			for _, emotion := range models.Emotions {
				if n := stats.SentimentDistribution[emotion]; n > 0 {
					fmt.Fprintf(out, "  %s: %d\n", emotion, n)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "user identifier")
	cmd.Flags().StringVar(&asOf, "as-of", "", "week ending date, YYYY-MM-DD (default today)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
