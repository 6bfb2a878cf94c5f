package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/abhisek/quizgen/internal/selfupdate"
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update [tag]",
	Short: "Replace quizgen with the latest (or given) release",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		checkOnly, _ := cmd.Flags().GetBool("check")
		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		checker := selfupdate.NewChecker()
		out := cmd.OutOrStdout()

		if checkOnly {
			rel, err := checker.Check(ctx, version)
			if errors.Is(err, selfupdate.ErrDevBuild) {
				fmt.Fprintln(out, "Development build; no release to compare against.")
				return nil
			}
			if err != nil {
				return err
			}
			if rel.Newer {
				fmt.Fprintf(out, "quizgen %s is available (running %s): %s\n", rel.Tag, version, rel.URL)
			} else {
				fmt.Fprintf(out, "quizgen %s is up to date.\n", version)
			}
			return nil
		}

		var tag string
		if len(args) == 1 {
			tag = args[0]
		}
		err := checker.Update(ctx, version, tag, func(_ selfupdate.Stage, msg string) {
			fmt.Fprintln(out, msg)
		})
		switch {
		case err == nil:
			return nil
		case errors.Is(err, selfupdate.ErrDevBuild):
			fmt.Fprintln(out, "Cannot update a development build. Install a release build first.")
			return nil
		case errors.Is(err, selfupdate.ErrAlreadyLatest):
			fmt.Fprintln(out, "Already running the latest version.")
			return nil
		case errors.Is(err, os.ErrPermission):
			return fmt.Errorf("%w\n\nTry running: sudo quizgen update", err)
		}
		return err
	},
}

func init() {
	updateCmd.Flags().Bool("check", false, "only report whether a newer release exists")
}
