package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/wordwise/internal/app"
	"github.com/abhisek/wordwise/internal/article"
	"github.com/abhisek/wordwise/internal/definition"
	"github.com/abhisek/wordwise/internal/llm"
	"github.com/abhisek/wordwise/internal/logger"
	"github.com/abhisek/wordwise/internal/questiongen"
	"github.com/abhisek/wordwise/internal/session"
	"github.com/abhisek/wordwise/internal/store"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Open an article and start learning",
	RunE:  runPlay,
}

func init() {
	playCmd.Flags().String("url", "", "Article URL to open on start")
}

// runPlay builds the session dependencies and launches the TUI.
func runPlay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}

	// The TUI owns the terminal, so logs go to a file.
	logFile, err := logger.OpenFile(dbPath)
	if err != nil {
		return err
	}
	defer logFile.Close()
	log, err := logger.Setup(cfg.Log, logFile)
	if err != nil {
		return err
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	fetcher, err := article.New(cfg.Article, nil)
	if err != nil {
		return fmt.Errorf("article fetcher: %w", err)
	}

	opts := session.Options{
		Articles: fetcher,
		Events:   st.EventRepo(),
		Logger:   log,
	}

	// The app still reads articles without an LLM; lookups and quizzes
	// report the missing provider.
	provider, err := llm.NewProvider(ctx, cfg.LLM, st.EventRepo(), log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Word lookups and quizzes will be unavailable.")
		log.Warn("llm provider unavailable", "error", err)
	} else {
		opts.Definitions = definition.New(provider, definition.DefaultConfig())
		opts.Generator = questiongen.New(provider, questiongen.DefaultConfig())
	}

	url, _ := cmd.Flags().GetString("url")
	ctrl := session.New(opts)
	log.Info("session started", "session_id", ctrl.SessionID(), "provider", cfg.LLM.Provider)

	return app.Run(app.Options{
		Controller: ctrl,
		EventRepo:  st.EventRepo(),
		InitialURL: url,
		Logger:     log,
	})
}
