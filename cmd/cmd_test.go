package cmd

import (
	"bytes"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/wordwise/internal/store"
	"github.com/abhisek/wordwise/internal/vocab"
)

func TestParseEntries(t *testing.T) {
	entries, err := parseEntries([]string{
		"inflation = a general rise in prices",
		"tariff=a tax on imports",
		"inflation=prices going up",
	})
	require.NoError(t, err)
	assert.Equal(t, []vocab.Entry{
		{Word: "inflation", Definition: "prices going up"},
		{Word: "tariff", Definition: "a tax on imports"},
	}, entries)

	for _, bad := range []string{"noequals", "=def", "word="} {
		_, err := parseEntries([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestAnswerTable(t *testing.T) {
	mk := func(word string, correct bool, selected string) store.AnswerRecord {
		return store.AnswerRecord{
			Timestamp: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
			AnswerEventData: store.AnswerEventData{
				Mode: "primary", Word: word, Correct: correct, Selected: selected,
			},
		}
	}
	tbl, correct := answerTable([]store.AnswerRecord{
		mk("tariff", true, "a tax on imports"),
		mk("inflation", false, "a kind of balloon"),
	})
	assert.Equal(t, 1, correct)

	out := tbl.Render()
	assert.Contains(t, out, "inflation")
	assert.Contains(t, out, "a kind of balloon")
	// Correct picks are not repeated.
	assert.NotContains(t, out, "a tax on imports")
}

func TestPriceUsage(t *testing.T) {
	tbl, total, unpriced := priceUsage([]store.ModelUsage{
		{Model: "gpt-4o-mini", Calls: 2, InputTokens: 1_000_000, OutputTokens: 1_000_000},
		{Model: "local-llama", Calls: 1, InputTokens: 10, OutputTokens: 10},
	})
	assert.InDelta(t, 0.75, total, 1e-9)
	assert.Equal(t, []string{"local-llama"}, unpriced)
	assert.Contains(t, tbl.Render(), "$0.75")
}

func TestClip(t *testing.T) {
	assert.Equal(t, "short", clip("short", 10))
	assert.Equal(t, "abcd…", clip("abcdefgh", 5))
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	t.Cleanup(func() { versionCmd.SetOut(nil) })

	versionCmd.Run(versionCmd, nil)
	assert.Contains(t, buf.String(), "wordwise ")
	assert.Contains(t, buf.String(), runtime.GOOS)
}

func TestRootHasSubcommands(t *testing.T) {
	for _, name := range []string{"play", "serve", "history", "reset", "llm", "preview", "version"} {
		c, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, c.Name())
	}
}
