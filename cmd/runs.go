package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/servizzmalta/directory-cli/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent sync runs from the local history",
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().Int("limit", 20, "maximum number of runs to show")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	limit, _ := cmd.Flags().GetInt("limit")

	s, err := store.Open(cfg.Store.Path)
	if err != nil {
		return eris.Wrap(err, "runs: open history")
	}
	defer s.Close() //nolint:errcheck

	if err := s.Migrate(ctx); err != nil {
		return err
	}

	runs, err := s.ListRuns(ctx, limit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("runs: no sync history yet")
		return nil
	}

	for _, run := range runs {
		strictMark := ""
		if run.Strict {
			strictMark = " strict"
		}
		fmt.Printf("%s  %-7s%s selected=%d reused=%d fallback=%d total=%d %dms\n",
			run.CreatedAt.Format("2006-01-02 15:04:05"), run.Mode, strictMark,
			run.Selected, run.Reused, run.Fallback, run.Total, run.Duration)
	}
	return nil
}
