package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/wordwise/internal/llm"
	"github.com/abhisek/wordwise/internal/questiongen"
	"github.com/abhisek/wordwise/internal/vocab"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview LLM-generated quiz questions for a few words (no database)",
	Long: `Generate and interactively answer quiz questions for the given words.

This is a stateless developer tool: no database, no events, no session.
Useful for evaluating question quality and prompt changes.`,
	Example: `  wordwise preview -e "inflation=a general rise in prices" -e "tariff=a tax on imports"`,
	RunE:    runPreview,
}

func init() {
	previewCmd.Flags().StringArrayP("entry", "e", nil, `Word and definition as "word=definition" (repeatable, required)`)
	previewCmd.Flags().Int("count", 5, "Number of questions to generate")
	_ = previewCmd.MarkFlagRequired("entry")
}

func runPreview(cmd *cobra.Command, args []string) error {
	raw, _ := cmd.Flags().GetStringArray("entry")
	count, _ := cmd.Flags().GetInt("count")

	entries, err := parseEntries(raw)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// No EventRepo, so requests are not logged.
	ctx := cmd.Context()
	provider, err := llm.NewProvider(ctx, cfg.LLM, nil, nil)
	if err != nil {
		return fmt.Errorf("LLM provider: %w", err)
	}

	gen := questiongen.New(provider, questiongen.DefaultConfig())
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Printf("Words: %d (%s)\n", len(entries), cfg.LLM.Provider)
	fmt.Printf("Generating %d questions...\n\n", count)

	var correct, asked int
	for i := 1; i <= count; i++ {
		q, err := gen.Generate(ctx, entries)
		if err != nil {
			fmt.Printf("Question %d: generation failed: %v\n\n", i, err)
			continue
		}

		fmt.Printf("── Question %d/%d ──\n", i, count)
		fmt.Printf("What does %q mean?\n", q.Word)
		for j, c := range q.Options {
			fmt.Printf("  %d) %s\n", j+1, c)
		}

		fmt.Print("\nYour answer (1-4): ")
		if !scanner.Scan() {
			fmt.Println("\n(input closed)")
			break
		}
		n, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err != nil || n < 1 || n > len(q.Options) {
			fmt.Print("(skipped)\n\n")
			continue
		}

		asked++
		if q.IsCorrect(q.Options[n-1]) {
			correct++
			fmt.Println("\033[32m✓ Correct!\033[0m")
		} else {
			fmt.Printf("\033[31m✗ Wrong.\033[0m Answer: %s\n", q.CorrectAnswer)
		}
		fmt.Println()
	}

	fmt.Printf("── Summary: %d/%d correct ──\n", correct, asked)
	return nil
}

// parseEntries turns "word=definition" flags into entries.
func parseEntries(raw []string) ([]vocab.Entry, error) {
	vs := vocab.NewStore()
	for _, r := range raw {
		word, def, ok := strings.Cut(r, "=")
		word, def = strings.TrimSpace(word), strings.TrimSpace(def)
		if !ok || word == "" || def == "" {
			return nil, fmt.Errorf("invalid entry %q: want word=definition", r)
		}
		vs.Upsert(word, def)
	}
	return vs.All(), nil
}
