package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/wordwise/internal/api"
	"github.com/abhisek/wordwise/internal/article"
	"github.com/abhisek/wordwise/internal/definition"
	"github.com/abhisek/wordwise/internal/llm"
	"github.com/abhisek/wordwise/internal/logger"
	"github.com/abhisek/wordwise/internal/questiongen"
	"github.com/abhisek/wordwise/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the scrape, chat and quiz endpoints over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}

		log, err := logger.Setup(cfg.Log, os.Stderr)
		if err != nil {
			return err
		}

		dbPath, err := resolveDBPath(cfg)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
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

		opts := api.Options{Articles: fetcher, Logger: log}
		provider, err := llm.NewProvider(ctx, cfg.LLM, st.EventRepo(), log)
		if err != nil {
			log.Warn("llm provider unavailable; chat and quiz will answer 503", "error", err)
		} else {
			opts.Definitions = definition.New(provider, definition.DefaultConfig())
			opts.Generator = questiongen.New(provider, questiongen.DefaultConfig())
		}

		router := api.NewRouter(api.NewHandler(opts), cfg.Server.AllowedOrigins)
		return api.Serve(ctx, cfg.Server.Addr, router, log)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
