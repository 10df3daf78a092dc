package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) assessCmd() *cobra.Command {
	var user, phq9, gad7 string

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Score a PHQ-9/GAD-7 assessment and store it as the baseline",
		Long: `Score a clinical self-assessment and store it as the user's baseline.

Answers are comma-separated integers from 0 to 3, one per questionnaire
item: nine for PHQ-9, seven for GAD-7.

Example:
  mindfulme assess --user anna --phq9 1,0,2,1,0,1,2,0,1 --gad7 0,1,1,0,2,1,0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			phq9Answers, err := parseAnswers(phq9)
			if err != nil {
				return fmt.Errorf("phq9: %w", err)
			}
			gad7Answers, err := parseAnswers(gad7)
			if err != nil {
				return fmt.Errorf("gad7: %w", err)
			}

			result, err := a.assessments.CompleteAssessment(cmd.Context(), user, phq9Answers, gad7Answers)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "PHQ-9: %d (%s)\n", result.PHQ9.Raw, result.PHQ9.Severity)
			fmt.Fprintf(out, "GAD-7: %d (%s)\n", result.GAD7.Raw, result.GAD7.Severity)
			fmt.Fprintf(out, "baseline stored for %s\n", user)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "user identifier")
	cmd.Flags().StringVar(&phq9, "phq9", "", "nine comma-separated PHQ-9 answers (0-3)")
	cmd.Flags().StringVar(&gad7, "gad7", "", "seven comma-separated GAD-7 answers (0-3)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("phq9")
	_ = cmd.MarkFlagRequired("gad7")
	return cmd
}
