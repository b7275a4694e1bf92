package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/servizzmalta/directory-cli/internal/data"
	"github.com/servizzmalta/directory-cli/internal/model"
	"github.com/servizzmalta/directory-cli/internal/pexels"
	"github.com/servizzmalta/directory-cli/internal/store"
	syncpkg "github.com/servizzmalta/directory-cli/internal/sync"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync the Pexels image library against the slot catalog",
	Long: `Resolve every image slot of the site to a curated Pexels photo.

By default only slots without a verified selected entry are resolved
(missing-only mode); existing entries whose variant files are present on disk
are reused without any network or encode work.

Requires PEXELS_API_KEY; without it every unresolved slot falls back to the
placeholder. PEXELS_CACHE_WRITE=false disables remote sync entirely.

Examples:
  # Fill in missing slots only
  sync

  # Re-query and re-score everything, reusing unchanged downloads
  sync --refresh

  # Full re-resolution including re-transcoding
  sync --all

  # CI: fail if any slot ends in fallback
  sync --strict`,
	RunE: runSync,
}

func init() {
	f := syncCmd.Flags()
	f.Bool("strict", false, "exit non-zero if any slot ends in fallback")
	f.Bool("refresh", false, "re-query and re-score every slot")
	f.Bool("all", false, "force full re-resolution of every slot")
	f.Bool("prune-orphans", false, "remove manifest entries for slots no longer in the catalog")

	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	strict, _ := cmd.Flags().GetBool("strict")
	refresh, _ := cmd.Flags().GetBool("refresh")
	all, _ := cmd.Flags().GetBool("all")
	pruneOrphans, _ := cmd.Flags().GetBool("prune-orphans")

	mode := model.SyncMissing
	switch {
	case all:
		mode = model.SyncAll
	case refresh:
		mode = model.SyncRefresh
	}

	site, err := data.Load(cfg.Paths.DataDir, cfg.Paths.CombosDir)
	if err != nil {
		return eris.Wrap(err, "sync: load site data")
	}

	runner := syncpkg.NewRunner(cfg, site, pexels.NewClient(cfg.Pexels))
	report, err := runner.Run(ctx, syncpkg.Options{
		Mode:         mode,
		Strict:       strict,
		PruneOrphans: pruneOrphans,
	})
	if report != nil {
		recordRun(ctx, mode, strict, report)

		fmt.Printf("sync: total=%d selected=%d reused=%d fallback=%d\n",
			report.Total, report.Selected, report.Reused, report.Fallback)
		if len(report.FallbackIDs) > 0 {
			fmt.Printf("sync: fallback slots: %s\n", strings.Join(report.FallbackIDs, ", "))
		}
		if len(report.Orphans) > 0 && !pruneOrphans {
			fmt.Printf("sync: %d orphan manifest entries retained (use --prune-orphans to remove)\n", len(report.Orphans))
		}
	}
	return err
}

// recordRun appends the run to the local history database. History is
// best-effort; a broken database never fails a sync.
func recordRun(ctx context.Context, mode model.SyncMode, strict bool, report *syncpkg.Report) {
	s, err := store.Open(cfg.Store.Path)
	if err != nil {
		zap.L().Warn("sync: run history unavailable", zap.Error(err))
		return
	}
	defer s.Close() //nolint:errcheck

	if err := s.Migrate(ctx); err != nil {
		zap.L().Warn("sync: run history migrate failed", zap.Error(err))
		return
	}

	_, err = s.RecordRun(ctx, model.SyncRun{
		Mode:     mode,
		Strict:   strict,
		Selected: report.Selected,
		Fallback: report.Fallback,
		Reused:   report.Reused,
		Total:    report.Total,
		Duration: report.Duration.Milliseconds(),
	})
	if err != nil {
		zap.L().Warn("sync: record run failed", zap.Error(err))
	}
}
