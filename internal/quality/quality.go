// Package quality evaluates a synced manifest against the release gate:
// every referenced variant file must exist, and selected-vs-fallback
// coverage must clear the configured minimums overall, for the home page,
// and per intent class.
package quality

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/servizzmalta/directory-cli/internal/catalog"
	"github.com/servizzmalta/directory-cli/internal/config"
	"github.com/servizzmalta/directory-cli/internal/model"
)

// Stats holds the coverage ratios of one manifest.
type Stats struct {
	Total            int
	Selected         int
	Fallback         int
	SelectedCoverage float64
	HomeCoverage     float64
	ServiceCoverage  float64
	LocalityCoverage float64
}

// Result is the gate outcome: coverage stats plus every issue found.
type Result struct {
	Stats  Stats
	Issues []string
}

// Passed reports whether the gate found no issues.
func (r *Result) Passed() bool {
	return len(r.Issues) == 0
}

// Evaluate checks the manifest against publicDir and the coverage minimums.
func Evaluate(m *model.Manifest, publicDir string, cfg config.CoverageConfig) *Result {
	result := &Result{}

	result.Issues = append(result.Issues, checkFiles(m, publicDir)...)
	result.Stats = computeStats(m)

	s := result.Stats
	if s.SelectedCoverage < cfg.MinSelected {
		result.Issues = append(result.Issues, fmt.Sprintf(
			"selected coverage too low: %.2f < %.2f", s.SelectedCoverage, cfg.MinSelected))
	}
	if s.HomeCoverage < cfg.MinHome {
		result.Issues = append(result.Issues, fmt.Sprintf(
			"home selected coverage too low: %.2f < %.2f", s.HomeCoverage, cfg.MinHome))
	}
	if s.ServiceCoverage < cfg.MinService {
		result.Issues = append(result.Issues, fmt.Sprintf(
			"service selected coverage too low: %.2f < %.2f", s.ServiceCoverage, cfg.MinService))
	}
	if s.LocalityCoverage < cfg.MinLocality {
		result.Issues = append(result.Issues, fmt.Sprintf(
			"locality selected coverage too low: %.2f < %.2f", s.LocalityCoverage, cfg.MinLocality))
	}

	return result
}

// checkFiles verifies every referenced variant file on disk. The stat calls
// run concurrently; this is read-only filesystem probing, not pipeline work.
func checkFiles(m *model.Manifest, publicDir string) []string {
	var mu sync.Mutex
	var issues []string

	g := new(errgroup.Group)
	g.SetLimit(16)

	for id, entry := range m.Images {
		for _, v := range entry.Variants {
			jpg, webp := v.Jpg, v.Webp
			isFallback := entry.IsFallback()
			slotID := id

			g.Go(func() error {
				var local []string
				if !exists(publicDir, jpg) {
					local = append(local, fmt.Sprintf("%s: missing jpg %s", slotID, jpg))
				}
				if strings.HasSuffix(webp, ".webp") {
					if !exists(publicDir, webp) {
						local = append(local, fmt.Sprintf("%s: missing webp %s", slotID, webp))
					}
				} else if !isFallback {
					local = append(local, fmt.Sprintf("%s: non-fallback has non-webp source %s", slotID, webp))
				}
				if len(local) > 0 {
					mu.Lock()
					issues = append(issues, local...)
					mu.Unlock()
				}
				return nil
			})
		}
	}
	_ = g.Wait()

	sort.Strings(issues)
	return issues
}

func computeStats(m *model.Manifest) Stats {
	stats := Stats{Total: len(m.Images)}

	var homeTotal, homeSelected int
	var serviceTotal, serviceSelected int
	var localityTotal, localitySelected int

	for id, entry := range m.Images {
		selected := !entry.IsFallback()
		if selected {
			stats.Selected++
		} else {
			stats.Fallback++
		}

		if strings.HasPrefix(id, "home-") {
			homeTotal++
			if selected {
				homeSelected++
			}
		}

		class := entry.IntentClass
		if class == "" {
			class = catalog.InferIntentClass(id)
		}
		switch class {
		case model.IntentService:
			serviceTotal++
			if selected {
				serviceSelected++
			}
		case model.IntentLocality:
			localityTotal++
			if selected {
				localitySelected++
			}
		}
	}

	stats.SelectedCoverage = coverage(stats.Selected, stats.Total)
	stats.HomeCoverage = coverage(homeSelected, homeTotal)
	stats.ServiceCoverage = coverage(serviceSelected, serviceTotal)
	stats.LocalityCoverage = coverage(localitySelected, localityTotal)
	return stats
}

func coverage(selected, total int) float64 {
	if total == 0 {
		return 1
	}
	return float64(selected) / float64(total)
}

func exists(publicDir, sitePath string) bool {
	_, err := os.Stat(filepath.Join(publicDir, strings.TrimPrefix(sitePath, "/")))
	return err == nil
}
