// Package sync drives the per-slot image resolution pipeline: catalog →
// fetch → score → select → transcode → manifest. Slots are processed one at
// a time; the external API's per-key rate limit makes parallelism a
// liability, not a win.
package sync

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/servizzmalta/directory-cli/internal/catalog"
	"github.com/servizzmalta/directory-cli/internal/config"
	"github.com/servizzmalta/directory-cli/internal/data"
	"github.com/servizzmalta/directory-cli/internal/manifest"
	"github.com/servizzmalta/directory-cli/internal/model"
	"github.com/servizzmalta/directory-cli/internal/selector"
	"github.com/servizzmalta/directory-cli/internal/transcode"
)

// Options control one sync run.
type Options struct {
	Mode         model.SyncMode
	Strict       bool
	PruneOrphans bool
}

// Report aggregates the outcome of one run.
type Report struct {
	Selected    int
	Fallback    int
	Reused      int
	Total       int
	FallbackIDs []string
	Orphans     []string
	Duration    time.Duration
}

// Runner wires the pipeline stages together.
type Runner struct {
	cfg         *config.Config
	site        *data.Site
	selector    *selector.Selector
	transcoder  *transcode.Transcoder
	placeholder manifest.Placeholder
	now         func() time.Time
}

// NewRunner builds a Runner over loaded site data and a candidate source.
func NewRunner(cfg *config.Config, site *data.Site, search selector.Searcher) *Runner {
	placeholder := manifest.DefaultPlaceholder
	if cfg.Paths.PlaceholderJpg != "" {
		placeholder.Jpg = cfg.Paths.PlaceholderJpg
	}
	if cfg.Paths.PlaceholderWebp != "" {
		placeholder.Webp = cfg.Paths.PlaceholderWebp
	}
	return &Runner{
		cfg:         cfg,
		site:        site,
		selector:    selector.New(search),
		transcoder:  transcode.New(cfg.Paths.PublicDir, cfg.Pexels),
		placeholder: placeholder,
		now:         time.Now,
	}
}

// Run resolves every slot, merges the results into the manifest, writes it,
// and returns the aggregate report. Only manifest write and output directory
// creation abort the run; every per-slot failure degrades to a fallback
// entry. Under strict, any fallback fails the run after the manifest is
// written, with the report still returned.
func (r *Runner) Run(ctx context.Context, opts Options) (*Report, error) {
	start := r.now()

	slots := catalog.Build(r.site)
	m := manifest.Load(r.cfg.Paths.ManifestPath)

	pexelsDir := filepath.Join(r.cfg.Paths.PublicDir, "images", "pexels")
	if err := os.MkdirAll(pexelsDir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "sync: create output dir %s", pexelsDir)
	}

	report := &Report{Total: len(slots), Orphans: manifest.Orphans(m, slots)}

	for _, slot := range slots {
		var existing *model.ManifestEntry
		if e, ok := m.Images[slot.ID]; ok {
			existing = &e
		}

		entry, outcome := r.resolveSlot(ctx, slot, existing, opts.Mode)
		m.Images[slot.ID] = entry

		switch outcome {
		case outcomeReused:
			report.Reused++
			report.Selected++
		case outcomeSelected:
			report.Selected++
		case outcomeFallback:
			report.Fallback++
			report.FallbackIDs = append(report.FallbackIDs, slot.ID)
		}
	}

	if opts.PruneOrphans {
		for _, id := range report.Orphans {
			delete(m.Images, id)
		}
		zap.L().Info("sync: pruned orphan entries", zap.Int("count", len(report.Orphans)))
	}

	m.GeneratedAt = r.now().UTC().Format(time.RFC3339)
	if err := manifest.Save(r.cfg.Paths.ManifestPath, m); err != nil {
		return nil, err
	}

	report.Duration = r.now().Sub(start)
	zap.L().Info("sync: run complete",
		zap.Int("total", report.Total),
		zap.Int("selected", report.Selected),
		zap.Int("reused", report.Reused),
		zap.Int("fallback", report.Fallback),
		zap.Duration("duration", report.Duration),
	)

	// The manifest is written either way; strict only fails the run after
	// the fact so partial progress is never thrown away.
	if opts.Strict && report.Fallback > 0 {
		return report, eris.Errorf("sync: %d slots in fallback with strict enabled", report.Fallback)
	}
	return report, nil
}

type outcome int

const (
	outcomeReused outcome = iota
	outcomeSelected
	outcomeFallback
)

// resolveSlot runs the per-slot state machine: cache-hit check, then the
// query loop, then transcode. Terminal states are reuse, selected, fallback.
func (r *Runner) resolveSlot(ctx context.Context, slot model.Slot, existing *model.ManifestEntry, mode model.SyncMode) (model.ManifestEntry, outcome) {
	if mode == model.SyncMissing && existing != nil &&
		!existing.IsFallback() && manifest.VariantFilesPresent(*existing, r.cfg.Paths.PublicDir) {
		return *existing, outcomeReused
	}

	if !r.cfg.Pexels.RemoteSync {
		if existing != nil {
			return *existing, existingOutcome(*existing)
		}
		return r.fallbackEntry(slot, firstOf(slot.Queries), nil, nil, []string{"remote-sync-disabled"}), outcomeFallback
	}

	res := r.selector.Pick(ctx, slot)
	if res.Winner == nil {
		return r.fallbackEntry(slot, res.Query, res.Tried, nil, res.Reasons), outcomeFallback
	}
	winner := res.Winner

	// Refresh keeps verified files when the winning photo is unchanged;
	// only full re-resolution re-downloads an identical source.
	if mode == model.SyncRefresh && existing != nil &&
		existing.PhotoURL == winner.PhotoURL && existing.PhotoURL != "" &&
		manifest.VariantFilesPresent(*existing, r.cfg.Paths.PublicDir) {
		entry := r.selectedEntry(slot, res, existing.Variants)
		return entry, outcomeSelected
	}

	raw, err := r.transcoder.Fetch(ctx, winner.SourceURL)
	if err != nil {
		zap.L().Warn("sync: image download failed",
			zap.String("slot", slot.ID),
			zap.Error(err),
		)
		return r.fallbackEntry(slot, res.Query, res.Tried, &winner.Candidate, []string{"image-download-failed"}), outcomeFallback
	}

	variants, err := r.transcoder.Transcode(slot.ID, raw)
	if err != nil {
		zap.L().Warn("sync: transcode failed",
			zap.String("slot", slot.ID),
			zap.Error(err),
		)
		return r.fallbackEntry(slot, res.Query, res.Tried, &winner.Candidate, []string{"processing-failed"}), outcomeFallback
	}

	return r.selectedEntry(slot, res, variants), outcomeSelected
}

func (r *Runner) selectedEntry(slot model.Slot, res selector.Result, variants []model.Variant) model.ManifestEntry {
	winner := res.Winner
	return model.ManifestEntry{
		ID:              slot.ID,
		Query:           res.Query,
		TriedQueries:    res.Tried,
		Alt:             slot.AltText,
		Photographer:    winner.Photographer,
		PhotographerURL: winner.PhotographerURL,
		PhotoURL:        winner.PhotoURL,
		Fallback:        false,
		Status:          model.StatusSelected,
		IntentClass:     slot.Intent.Class,
		SourceMode:      model.SourceDirect,
		Score:           winner.Score,
		SelectedFrom:    winner.Rank,
		Reasons:         winner.Reasons,
		LastCheckedAt:   r.now().UTC().Format(time.RFC3339),
		Variants:        variants,
	}
}

// fallbackEntry records a placeholder resolution. query is the winning query
// when selection succeeded but a later stage failed, otherwise the first
// planned query.
func (r *Runner) fallbackEntry(slot model.Slot, query string, tried []string, winner *model.Candidate, reasons []string) model.ManifestEntry {
	entry := model.ManifestEntry{
		ID:            slot.ID,
		Query:         query,
		TriedQueries:  tried,
		Alt:           slot.AltText,
		Fallback:      true,
		Status:        model.StatusFallback,
		IntentClass:   slot.Intent.Class,
		SourceMode:    model.SourceFallback,
		Reasons:       reasons,
		LastCheckedAt: r.now().UTC().Format(time.RFC3339),
		Variants:      []model.Variant{r.placeholder.Variant()},
	}
	if winner != nil {
		entry.Photographer = winner.Photographer
		entry.PhotographerURL = winner.PhotographerURL
		entry.PhotoURL = winner.PhotoURL
	}
	return entry
}

func firstOf(queries []string) string {
	if len(queries) == 0 {
		return ""
	}
	return queries[0]
}

func existingOutcome(entry model.ManifestEntry) outcome {
	if entry.IsFallback() {
		return outcomeFallback
	}
	return outcomeReused
}
