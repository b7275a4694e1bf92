// Package combo decides which category+location pages have enough curated
// content to publish.
package combo

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/servizzmalta/directory-cli/internal/data"
	"github.com/servizzmalta/directory-cli/internal/model"
)

// Quality thresholds for a publishable combo page.
const (
	minEditorialWords = 400
	minListings       = 6
	minFaqs           = 8
	minPassedChecks   = 2
)

// QualityResult is the per-combo evaluation outcome.
type QualityResult struct {
	Passed bool
	Score  int
	Checks map[string]bool
}

// QualifiedCombo is one category+location pair that cleared the quality bar.
type QualifiedCombo struct {
	CategorySlug string
	LocationSlug string
	QualityScore int
}

// EvaluateCombo scores one combo against the publishing checks: editorial
// length, curated listing count, FAQ count, and a price range or comparison.
func EvaluateCombo(editorial *model.ComboEditorial, curatedListingCount int) QualityResult {
	var intro, body, priceRange string
	faqs := 0
	if editorial != nil {
		intro = editorial.UniqueIntro
		body = editorial.Body
		priceRange = editorial.PriceRange
		faqs = len(editorial.Faqs)
	}

	checks := map[string]bool{
		"editorialWords":            wordCount(intro+" "+body) >= minEditorialWords,
		"listingCount":              curatedListingCount >= minListings,
		"faqCount":                  faqs >= minFaqs,
		"hasPriceRangeOrComparison": priceRange != "",
	}

	score := 0
	for _, passed := range checks {
		if passed {
			score++
		}
	}

	return QualityResult{
		Passed: score >= minPassedChecks,
		Score:  score,
		Checks: checks,
	}
}

// Evaluator computes and memoizes the qualified-combo list for one site. The
// memo is explicit state with an invalidation hook rather than package-level
// globals, so callers control its lifetime.
type Evaluator struct {
	site *data.Site

	mu    sync.Mutex
	cache []QualifiedCombo
	valid bool
}

// NewEvaluator creates an Evaluator for the given site data.
func NewEvaluator(site *data.Site) *Evaluator {
	return &Evaluator{site: site}
}

// Invalidate drops the memoized combo list; the next Qualified call
// recomputes it.
func (e *Evaluator) Invalidate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cache = nil
	e.valid = false
}

// Qualified returns every category+location pair that passes the quality
// checks, computing and caching on first use. Skipped combos that have
// editorial content are logged; silent combinations (no editorial at all)
// are expected and not reported.
func (e *Evaluator) Qualified() []QualifiedCombo {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.valid {
		return e.cache
	}

	var qualified []QualifiedCombo
	var skipped []string

	for _, category := range e.site.Categories {
		for _, location := range e.site.Locations {
			editorial := e.site.ComboFor(category.Slug, location.Slug)
			listings := e.site.ListingsForCombo(category.Slug, location.Slug)
			quality := EvaluateCombo(editorial, len(listings))

			if quality.Passed {
				qualified = append(qualified, QualifiedCombo{
					CategorySlug: category.Slug,
					LocationSlug: location.Slug,
					QualityScore: quality.Score,
				})
			} else if editorial != nil {
				skipped = append(skipped, category.Slug+"/"+location.Slug+" (failed: "+failedChecks(quality)+")")
			}
		}
	}

	if len(skipped) > 0 {
		zap.L().Warn("combo: skipped combos below quality thresholds",
			zap.Int("count", len(skipped)),
			zap.Strings("combos", skipped),
		)
	}

	e.cache = qualified
	e.valid = true
	return e.cache
}

// IsQualified reports whether one pair passed the quality bar.
func (e *Evaluator) IsQualified(categorySlug, locationSlug string) bool {
	for _, c := range e.Qualified() {
		if c.CategorySlug == categorySlug && c.LocationSlug == locationSlug {
			return true
		}
	}
	return false
}

func failedChecks(q QualityResult) string {
	var names []string
	for _, name := range []string{"editorialWords", "listingCount", "faqCount", "hasPriceRangeOrComparison"} {
		if !q.Checks[name] {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}
