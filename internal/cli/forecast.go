package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/avelichka/mindfulme/internal/models"
)

func (a *App) forecastCmd() *cobra.Command {
	var (
		user, asOf string
		window     int
	)

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Compute the burnout risk forecast",
		Long: `Compute the burnout risk forecast from the recent check-in history
and the stored clinical baseline. At least three logged days inside the
window are needed; with fewer the forecast is reported as indeterminate.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDate(asOf)
			if err != nil {
				return err
			}
			if day.IsZero() {
				day = time.Now()
			}

			result, err := a.forecasts.Forecast(cmd.Context(), user, day, window)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "window: %d days, %d observed\n", result.WindowDays, result.DaysObserved)
			if result.Status == models.ForecastIndeterminate {
				fmt.Fprintln(out, "forecast: indeterminate (not enough history)")
				return nil
			}
			fmt.Fprintf(out, "risk: %.2f (%s)\n", *result.RiskScore, *result.Band)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "user identifier")
	cmd.Flags().StringVar(&asOf, "as-of", "", "forecast date, YYYY-MM-DD (default today)")
	cmd.Flags().IntVar(&window, "window", 0, "window length in days (default from policy)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
