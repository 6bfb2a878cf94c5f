package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizgen/internal/logging"
	"github.com/abhisek/quizgen/internal/quiz"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a quiz and print it without starting the TUI",
	Example: `  quizgen generate --topic "The French Revolution"
  quizgen generate --file lecture.pdf --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		file, _ := cmd.Flags().GetString("file")
		asJSON, _ := cmd.Flags().GetBool("json")

		var src quiz.Source
		switch {
		case topic != "" && file != "":
			return errors.New("use either --topic or --file, not both")
		case file != "":
			doc, err := quiz.LoadDocument(file)
			if err != nil {
				return errors.New(quiz.Message(err))
			}
			src = quiz.DocumentSource(doc)
		case topic != "":
			src = quiz.TopicSource(topic)
		default:
			return errors.New("one of --topic or --file is required")
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := logging.New(logging.Options{Mode: "dev", Level: cfg.Log.Level})
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		d, err := buildDeps(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := cmd.Context()
		if cfg.LLM.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.LLM.Timeout)
			defer cancel()
		}

		q, err := d.client.Generate(ctx, src)
		if err != nil {
			return errors.New(quiz.Message(err))
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(q)
		}
		printQuiz(cmd.OutOrStdout(), src, q)
		return nil
	},
}

// printQuiz writes a plain-text rendering with the answer key.
func printQuiz(w io.Writer, src quiz.Source, q *quiz.QuizData) {
	fmt.Fprintf(w, "Quiz: %s\n\n", src.Label())

	n := 1
	fmt.Fprintln(w, "Multiple choice")
	fmt.Fprintln(w, strings.Repeat("─", 40))
	for _, mc := range q.MultipleChoice {
		fmt.Fprintf(w, "%2d. %s\n", n, mc.Question)
		for i, opt := range mc.Options {
			fmt.Fprintf(w, "    %c) %s\n", 'a'+i, opt)
		}
		fmt.Fprintf(w, "    Answer: %s\n\n", mc.CorrectAnswer)
		n++
	}

	fmt.Fprintln(w, "True or false")
	fmt.Fprintln(w, strings.Repeat("─", 40))
	for _, tf := range q.TrueFalse {
		fmt.Fprintf(w, "%2d. %s\n", n, tf.Question)
		fmt.Fprintf(w, "    Answer: %s\n\n", tf.Answer)
		n++
	}
}

func init() {
	generateCmd.Flags().StringP("topic", "t", "", "Topic to quiz on")
	generateCmd.Flags().StringP("file", "f", "", "PDF, DOC or DOCX file to quiz on")
	generateCmd.Flags().Bool("json", false, "Print the quiz as JSON")
}
