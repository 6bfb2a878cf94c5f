package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/quizgen/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "quizgen",
	Short: "Generate and take quizzes from a topic or a document",
	Long: "quizgen turns a topic or a PDF/DOC/DOCX document into a ten-question quiz " +
		"(five multiple-choice, five true/false) using a generative model, then scores your answers.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to a YAML config file (overrides QUIZGEN_CONFIG)")
	pf.String("provider", "", "Model provider: gemini, anthropic, openai, openrouter, mock")
	pf.String("model", "", "Model name for the selected provider")
	pf.Bool("lenient", false, "Accept quizzes that fail the shape checks")
	pf.Bool("history", false, "Record model requests in the local history database")
	pf.String("db", "", "Path to the history database (overrides QUIZGEN_DB)")
	pf.String("log-file", "", "Write logs to this file (TUI only; overrides QUIZGEN_LOG_FILE)")
	pf.String("log-level", "", "Log level: debug, info, warn, error")

	rootCmd.Flags().StringP("file", "f", "", "Start with a quiz on this PDF, DOC or DOCX file")
	rootCmd.Flags().StringP("topic", "t", "", "Start with a quiz on this topic")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// loadConfig layers the persistent flags over file and environment
// configuration.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")

	var o config.Overrides
	o.Provider, _ = flags.GetString("provider")
	o.Model, _ = flags.GetString("model")
	o.HistoryPath, _ = flags.GetString("db")
	o.LogFile, _ = flags.GetString("log-file")
	o.LogLevel, _ = flags.GetString("log-level")
	if flags.Changed("lenient") {
		v, _ := flags.GetBool("lenient")
		o.Lenient = &v
	}
	if flags.Changed("history") {
		v, _ := flags.GetBool("history")
		o.History = &v
	}
	if f := flags.Lookup("addr"); f != nil && f.Changed {
		o.Addr = f.Value.String()
	}

	return config.Load(path, o)
}
