package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizgen/internal/app"
	"github.com/abhisek/quizgen/internal/config"
	"github.com/abhisek/quizgen/internal/llm"
	"github.com/abhisek/quizgen/internal/logging"
	"github.com/abhisek/quizgen/internal/quiz"
	"github.com/abhisek/quizgen/internal/store"
)

// deps are the long-lived objects shared by every command.
type deps struct {
	cfg    config.Config
	logger *logging.Logger
	client *quiz.Client
	store  *store.Store
}

func (d *deps) Close() {
	if d.store != nil {
		d.store.Close()
	}
	d.logger.Sync()
}

// buildDeps opens the optional history store and builds the quiz client.
// A missing API key is not an error: the client is built without a
// provider and every generation reports a configuration error.
func buildDeps(ctx context.Context, cfg config.Config, logger *logging.Logger) (*deps, error) {
	d := &deps{cfg: cfg, logger: logger}

	var repo store.EventRepo = store.NopEventRepo{}
	if cfg.History.Enabled {
		path, err := cfg.HistoryPath()
		if err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open history: %w", err)
		}
		d.store = st
		repo = st.EventRepo()
	}

	provider, err := llm.NewProvider(ctx, cfg.LLM, repo, logger)
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		logger.Warn("model provider not configured", "provider", cfg.LLM.Provider, "error", err)
		provider = nil
	case err != nil:
		d.Close()
		return nil, fmt.Errorf("create provider: %w", err)
	}

	d.client = quiz.New(provider, cfg.QuizConfig(), logger)
	return d, nil
}

// runApp launches the TUI. Logs go to a file because the TUI owns the
// terminal.
func runApp(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logPath, err := cfg.LogPath()
	if err != nil {
		return fmt.Errorf("resolve log path: %w", err)
	}
	logger, err := logging.New(logging.Options{Mode: "prod", Path: logPath, Level: cfg.Log.Level})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	ctx := cmd.Context()
	d, err := buildDeps(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer d.Close()

	initial, err := initialSource(cmd)
	if err != nil {
		return err
	}

	logger.Info("starting tui", "provider", cfg.LLM.Provider, "configured", d.client.Configured())
	return app.Run(ctx, app.Options{
		Generator:  d.client,
		Configured: d.client.Configured(),
		Timeout:    cfg.LLM.Timeout,
		Status:     statusLine(cfg, d.client),
		Initial:    initial,
		Logger:     logger,
	})
}

// initialSource reads --topic or --file. Files are checked here so a bad
// path fails before the TUI starts.
func initialSource(cmd *cobra.Command) (*quiz.Source, error) {
	topic, _ := cmd.Flags().GetString("topic")
	file, _ := cmd.Flags().GetString("file")

	switch {
	case topic != "" && file != "":
		return nil, errors.New("use either --topic or --file, not both")
	case file != "":
		doc, err := quiz.LoadDocument(file)
		if err != nil {
			return nil, errors.New(quiz.Message(err))
		}
		src := quiz.DocumentSource(doc)
		return &src, nil
	case strings.TrimSpace(topic) != "":
		src := quiz.TopicSource(topic)
		return &src, nil
	}
	return nil, nil
}

func statusLine(cfg config.Config, client *quiz.Client) string {
	if !client.Configured() {
		return "no API key"
	}
	return cfg.LLM.Provider + " · " + client.ModelID()
}
