package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizgen/internal/logging"
	"github.com/abhisek/quizgen/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the quiz JSON API",
	Long: "Serve POST /api/quizzes (topic or multipart file upload), POST /api/grade " +
		"and GET /healthz for browser front-ends.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := logging.New(logging.Options{Mode: "dev", Level: cfg.Log.Level})
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		d, err := buildDeps(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer d.Close()

		opts := server.Options{CORSOrigins: cfg.Server.CORSOrigins, GenerateTimeout: cfg.LLM.Timeout}
		if cfg.LLM.Timeout > 0 {
			opts.RequestTimeout = cfg.LLM.Timeout + server.TimeoutSlack
		}
		srv := server.New(d.client, opts, logger)
		return srv.ListenAndServe(ctx, cfg.Server.Addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default :8080, overrides QUIZGEN_ADDR)")
}
