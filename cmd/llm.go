package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/abhisek/wordwise/internal/llm"
	"github.com/abhisek/wordwise/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded tutor and quiz requests",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No LLM requests recorded.")
			return nil
		}

		t := newTable("ID", "Time", "Purpose", "Provider", "Model", "In", "Out", "Ms", "OK")
		for _, e := range events {
			t.Row(
				strconv.Itoa(e.ID),
				e.Timestamp.Local().Format(timeLayout),
				e.Purpose,
				e.Provider,
				clip(e.Model, 28),
				strconv.Itoa(e.InputTokens),
				strconv.Itoa(e.OutputTokens),
				strconv.FormatInt(e.LatencyMs, 10),
				mark(e.Success),
			)
		}
		printTable(out, t)
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full request and response of one LLM call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("no LLM request with ID %d", id)
		}

		out := cmd.OutOrStdout()
		fields := newTable("", "")
		fields.Row("Time", e.Timestamp.Local().Format(timeLayout))
		fields.Row("Provider", e.Provider)
		fields.Row("Model", e.Model)
		fields.Row("Purpose", e.Purpose)
		fields.Row("Tokens", fmt.Sprintf("%d in, %d out", e.InputTokens, e.OutputTokens))
		fields.Row("Latency", fmt.Sprintf("%dms", e.LatencyMs))
		fields.Row("Result", mark(e.Success))
		if e.ErrorMessage != "" {
			fields.Row("Error", e.ErrorMessage)
		}
		printTable(out, fields)

		section(out, "Request", e.RequestBody)
		section(out, "Response", e.ResponseBody)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize token usage and estimated cost",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		repo := s.EventRepo()
		byPurpose, err := repo.LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(byPurpose) == 0 {
			fmt.Fprintln(out, "No LLM usage recorded yet.")
			return nil
		}

		usage := newTable("Purpose", "Calls", "Input", "Output", "Avg ms")
		var calls, in, outTok int
		for _, u := range byPurpose {
			usage.Row(u.Purpose, strconv.Itoa(u.Calls), strconv.Itoa(u.InputTokens),
				strconv.Itoa(u.OutputTokens), strconv.FormatInt(u.AvgLatencyMs, 10))
			calls += u.Calls
			in += u.InputTokens
			outTok += u.OutputTokens
		}
		usage.Row("total", strconv.Itoa(calls), strconv.Itoa(in), strconv.Itoa(outTok), "")
		printTable(out, usage)

		byModel, err := repo.LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		costs, total, unpriced := priceUsage(byModel)
		fmt.Fprintln(out)
		printTable(out, costs)
		fmt.Fprintf(out, "Estimated total: %s\n", formatCost(total))
		if len(unpriced) > 0 {
			fmt.Fprintf(out, "No price known for %s; not included.\n", strings.Join(unpriced, ", "))
		}
		return nil
	},
}

// priceUsage builds the cost table and returns the models without a price.
func priceUsage(usage []store.ModelUsage) (costs *table.Table, total float64, unpriced []string) {
	costs = newTable("Model", "Calls", "Input", "Output", "Cost")
	for _, u := range usage {
		cost := "?"
		if price := llm.LookupCost(u.Model); price != nil {
			c := price.Cost(u.InputTokens, u.OutputTokens)
			total += c
			cost = formatCost(c)
		} else {
			unpriced = append(unpriced, u.Model)
		}
		costs.Row(clip(u.Model, 32), strconv.Itoa(u.Calls), strconv.Itoa(u.InputTokens),
			strconv.Itoa(u.OutputTokens), cost)
	}
	return costs, total, unpriced
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show one purpose: definition, quiz-summarize or quiz-distractors")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
