package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/abhisek/quizgen/internal/llm"
	"github.com/abhisek/quizgen/internal/store"
	"github.com/abhisek/quizgen/internal/ui/theme"
)

const timeLayout = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect model calls recorded with --history",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent model calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		opts := store.QueryOpts{}
		opts.Limit, _ = flags.GetInt("limit")
		opts.Purpose, _ = flags.GetString("purpose")
		opts.SessionID, _ = flags.GetString("session")

		return withHistory(cmd, func(repo store.EventRepo) error {
			events, err := repo.QueryLLMEvents(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(events) == 0 {
				fmt.Fprintln(out, "No model calls recorded. Start quizgen with --history to record them.")
				return nil
			}

			t := historyTable("ID", "Time", "Session", "Purpose", "Model", "In", "Out", "Ms", "OK")
			for _, e := range events {
				ok := "✓"
				if !e.Success {
					ok = "✗"
				}
				t.Row(
					strconv.Itoa(e.ID),
					e.Timestamp.Local().Format(timeLayout),
					clip(e.SessionID, 8),
					e.Purpose,
					clip(e.Model, 28),
					strconv.Itoa(e.InputTokens),
					strconv.Itoa(e.OutputTokens),
					strconv.FormatInt(e.LatencyMs, 10),
					ok,
				)
			}
			fmt.Fprintln(out, t.Render())
			return nil
		})
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Print one recorded call with its prompt and raw response",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q", args[0])
		}
		return withHistory(cmd, func(repo store.EventRepo) error {
			e, err := repo.GetLLMEvent(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("get event: %w", err)
			}
			if e == nil {
				return fmt.Errorf("no recorded call with ID %d", id)
			}
			printEvent(cmd.OutOrStdout(), e)
			return nil
		})
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(cmd, func(repo store.EventRepo) error {
			ctx, out := cmd.Context(), cmd.OutOrStdout()

			byPurpose, err := repo.LLMUsageByPurpose(ctx)
			if err != nil {
				return fmt.Errorf("query usage: %w", err)
			}
			if len(byPurpose) == 0 {
				fmt.Fprintln(out, "No model usage recorded yet.")
				return nil
			}

			var calls, in, outTok int
			t := historyTable("Purpose", "Calls", "Input", "Output", "Avg ms")
			for _, u := range byPurpose {
				t.Row(u.Purpose, strconv.Itoa(u.Calls), strconv.Itoa(u.InputTokens), strconv.Itoa(u.OutputTokens), strconv.FormatInt(u.AvgLatencyMs, 10))
				calls, in, outTok = calls+u.Calls, in+u.InputTokens, outTok+u.OutputTokens
			}
			t.Row("total", strconv.Itoa(calls), strconv.Itoa(in), strconv.Itoa(outTok), "")
			fmt.Fprintln(out, t.Render())

			byModel, err := repo.LLMUsageByModel(ctx)
			if err != nil {
				return fmt.Errorf("query model usage: %w", err)
			}
			if len(byModel) == 0 {
				return nil
			}

			var total float64
			var unpriced []string
			t = historyTable("Model", "Calls", "Input", "Output", "Cost (USD)")
			for _, u := range byModel {
				cost := "?"
				if price := llm.LookupCost(u.Model); price != nil {
					c := price.Cost(u.InputTokens, u.OutputTokens)
					total += c
					cost = usd(c)
				} else {
					unpriced = append(unpriced, u.Model)
				}
				t.Row(clip(u.Model, 32), strconv.Itoa(u.Calls), strconv.Itoa(u.InputTokens), strconv.Itoa(u.OutputTokens), cost)
			}
			label := "total"
			if len(unpriced) > 0 {
				label = "total (partial)"
			}
			t.Row(label, "", "", "", usd(total))
			fmt.Fprintln(out)
			fmt.Fprintln(out, t.Render())
			if len(unpriced) > 0 {
				fmt.Fprintf(out, "No pricing for: %s\n", strings.Join(unpriced, ", "))
			}
			return nil
		})
	},
}

// withHistory opens the configured history database for the length of fn.
func withHistory(cmd *cobra.Command, fn func(store.EventRepo) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	path, err := cfg.HistoryPath()
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer s.Close()
	return fn(s.EventRepo())
}

func historyTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		BorderColumn(false).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(theme.Primary).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

func printEvent(w io.Writer, e *store.LLMEvent) {
	fields := [][2]string{
		{"ID", strconv.Itoa(e.ID)},
		{"Time", e.Timestamp.Local().Format(timeLayout)},
		{"Session", e.SessionID},
		{"Provider", e.Provider},
		{"Model", e.Model},
		{"Purpose", e.Purpose},
		{"Tokens", fmt.Sprintf("%d in / %d out", e.InputTokens, e.OutputTokens)},
		{"Latency", fmt.Sprintf("%dms", e.LatencyMs)},
		{"Success", strconv.FormatBool(e.Success)},
	}
	if e.ErrorMessage != "" {
		fields = append(fields, [2]string{"Error", e.ErrorMessage})
	}
	for _, f := range fields {
		fmt.Fprintf(w, "%-9s %s\n", f[0]+":", f[1])
	}

	rule := strings.Repeat("─", 60)
	for _, part := range [][2]string{{"REQUEST", e.RequestBody}, {"RESPONSE", e.ResponseBody}} {
		body := part[1]
		if body == "" {
			body = "(not captured)"
		}
		fmt.Fprintf(w, "\n%s\n%s\n%s\n%s\n", rule, part[0], rule, body)
	}
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func usd(v float64) string {
	if v < 0.01 {
		return fmt.Sprintf("$%.4f", v)
	}
	return fmt.Sprintf("$%.2f", v)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only calls with this purpose (quiz-topic, quiz-document)")
	llmListCmd.Flags().StringP("session", "s", "", "Only calls from this session ID")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
