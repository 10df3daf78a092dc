package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avelichka/mindfulme/internal/journal"
)

func (a *App) logCmd() *cobra.Command {
	var (
		user, date, text, audioPath string
		mood                        int
		sleepHours                  float64
		sleepQuality                int
	)

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record a daily check-in",
		Long: `Record one daily check-in: mood plus optional journal text, a voice
recording and sleep data. Submitting twice for the same date updates the
existing entry; omitted fields keep their stored values.

Examples:
  mindfulme log --user anna --mood 7
  mindfulme log --user anna --mood 4 --journal "long day, hard to focus" \
      --audio checkin.wav --sleep-hours 5.5 --sleep-quality 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDate(date)
			if err != nil {
				return err
			}

			req := journal.SubmitRequest{
				UserID: user,
				Date:   day,
				Mood:   mood,
			}
			if cmd.Flags().Changed("journal") {
				req.JournalText = &text
			}
			if cmd.Flags().Changed("sleep-hours") {
				req.SleepHours = &sleepHours
			}
			if cmd.Flags().Changed("sleep-quality") {
				req.SleepQuality = &sleepQuality
			}
			if audioPath != "" {
				clip, err := readWAV(audioPath)
				if err != nil {
					return err
				}
				req.Audio = clip
			}

			log, err := a.journals.Submit(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "logged %s for %s (mood %d)\n",
				log.LogDate.Format("2006-01-02"), log.UserID, log.Mood)
			if log.SentimentEmotion != nil {
				fmt.Fprintf(out, "sentiment: %s (polarity %+.2f)\n",
					*log.SentimentEmotion, *log.SentimentPolarity)
			}
			if log.VocalPitchHz != nil {
				fmt.Fprintf(out, "voice: pitch %.1f Hz, jitter %.4f\n",
					*log.VocalPitchHz, *log.VocalJitter)
				if log.VocalTension != nil {
					fmt.Fprintf(out, "tension: %.2f\n", *log.VocalTension)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "user identifier")
	cmd.Flags().IntVar(&mood, "mood", 0, "mood rating (1-10)")
	cmd.Flags().StringVar(&date, "date", "", "check-in date, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&text, "journal", "", "journal entry text")
	cmd.Flags().StringVar(&audioPath, "audio", "", "path to a mono PCM WAV recording")
	cmd.Flags().Float64Var(&sleepHours, "sleep-hours", 0, "hours slept last night")
	cmd.Flags().IntVar(&sleepQuality, "sleep-quality", 0, "sleep quality (1-5)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("mood")
	return cmd
}
