package cmd

import (
	"fmt"

	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/abhisek/wordwise/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent quiz answers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		sessionID, _ := cmd.Flags().GetString("session")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		answers, err := s.EventRepo().QueryAnswers(cmd.Context(), store.QueryOpts{
			Limit:     limit,
			SessionID: sessionID,
		})
		if err != nil {
			return fmt.Errorf("query answers: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(answers) == 0 {
			fmt.Fprintln(out, "No answers recorded yet.")
			return nil
		}

		t, correct := answerTable(answers)
		printTable(out, t)
		fmt.Fprintf(out, "%d of %d correct\n", correct, len(answers))
		return nil
	},
}

// answerTable lists answers newest first. The picked option is only shown
// for wrong answers.
func answerTable(answers []store.AnswerRecord) (*table.Table, int) {
	t := newTable("Time", "Mode", "Word", "", "Picked")
	correct := 0
	for _, a := range answers {
		picked := ""
		if a.Correct {
			correct++
		} else {
			picked = clip(a.Selected, 40)
		}
		t.Row(a.Timestamp.Local().Format(timeLayout), a.Mode, clip(a.Word, 20), mark(a.Correct), picked)
	}
	return t, correct
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of answers to show")
	historyCmd.Flags().String("session", "", "Only show answers from this session ID")
}
