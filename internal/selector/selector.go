// Package selector resolves a slot to its best photo candidate by walking an
// ordered list of queries and accepting the first scored survivor over the
// intent threshold.
package selector

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/servizzmalta/directory-cli/internal/model"
	"github.com/servizzmalta/directory-cli/internal/pexels"
	"github.com/servizzmalta/directory-cli/internal/scorer"
)

// maxQueries bounds the query loop per slot; each query is one rate-limited
// API call.
const maxQueries = 3

// Searcher is the candidate source. *pexels.Client satisfies it.
type Searcher interface {
	Search(ctx context.Context, query string) ([]model.Candidate, error)
}

// Result is the outcome of one slot selection.
type Result struct {
	Winner  *model.ScoredCandidate
	Query   string   // winning query, or first planned query if none won
	Tried   []string // every query attempted, in order
	Reasons []string // diagnostic tags when no winner was accepted
}

// Selector drives per-slot candidate selection.
type Selector struct {
	search Searcher
}

// New creates a Selector over the given candidate source.
func New(search Searcher) *Selector {
	return &Selector{search: search}
}

// Plan returns the ordered candidate queries for a slot: the explicit slot
// queries first, then intent-class synthetic queries, capped at maxQueries.
func Plan(slot model.Slot) []string {
	queries := append([]string(nil), slot.Queries...)

	switch slot.Intent.Class {
	case model.IntentService:
		if tok := firstToken(slot.Intent.MustInclude); tok != "" {
			queries = append(queries, tok+" professional at work")
		}
		queries = append(queries, "home service technician tools")
	case model.IntentLocality:
		if loc := localityName(slot.Intent.LocalityTokens); loc != "" {
			queries = append(queries,
				loc+" Malta streets",
				loc+" Malta urban architecture",
			)
		}
	case model.IntentHybrid:
		tok := firstToken(slot.Intent.MustInclude)
		loc := localityName(slot.Intent.LocalityTokens)
		if tok != "" && loc != "" {
			queries = append(queries,
				tok+" "+loc+" Malta",
				tok+" work in "+loc,
			)
		}
	}

	queries = uniqueQueries(queries)
	if len(queries) > maxQueries {
		queries = queries[:maxQueries]
	}
	return queries
}

// Pick walks the query plan and returns the first accepted candidate. Fetch
// failures are swallowed per query so the next query still gets its chance;
// only the reasons record what went wrong.
func (s *Selector) Pick(ctx context.Context, slot model.Slot) Result {
	plan := Plan(slot)
	result := Result{Query: firstQuery(plan)}

	sawCandidates := false
	for i, query := range plan {
		result.Tried = append(result.Tried, query)

		candidates, err := s.search.Search(ctx, query)
		if err != nil {
			if eris.Is(err, pexels.ErrNoAPIKey) {
				result.Reasons = append(result.Reasons, "missing-api-key")
				return result
			}
			zap.L().Warn("selector: fetch failed",
				zap.String("slot", slot.ID),
				zap.String("query", query),
				zap.Error(err),
			)
			result.Reasons = append(result.Reasons, "fetch-failed")
			continue
		}
		if len(candidates) > 0 {
			sawCandidates = true
		}

		best := pickBest(slot, candidates, i)
		if best == nil {
			continue
		}

		if best.Score >= scorer.Threshold(slot.Intent.Class) {
			result.Winner = best
			result.Query = query
			zap.L().Debug("selector: accepted candidate",
				zap.String("slot", slot.ID),
				zap.String("query", query),
				zap.Float64("score", best.Score),
				zap.Int("rank", best.Rank),
			)
			return result
		}
	}

	if sawCandidates {
		result.Reasons = append(result.Reasons, "no-candidate-over-threshold")
	} else if len(result.Reasons) == 0 {
		result.Reasons = append(result.Reasons, "no-candidates")
	}
	return result
}

// pickBest filters candidates by the hard intent rule, scores survivors, and
// returns the max-score survivor (or nil).
func pickBest(slot model.Slot, candidates []model.Candidate, queryIndex int) *model.ScoredCandidate {
	var best *model.ScoredCandidate
	for _, c := range candidates {
		if !passesIntentFilter(slot, c, queryIndex) {
			continue
		}
		scored := scorer.Score(slot, c)
		if best == nil || scored.Score > best.Score {
			s := scored
			best = &s
		}
	}
	return best
}

// passesIntentFilter applies the hard per-intent requirement before scoring.
// Service slots need at least one required-token match; locality slots need a
// locality-token match; hybrid slots always need a service-token match and,
// for the first two queries, a locality match too.
func passesIntentFilter(slot model.Slot, c model.Candidate, queryIndex int) bool {
	haystack := scorer.Haystack(c)

	switch slot.Intent.Class {
	case model.IntentService:
		return anyTokenMatch(slot.Intent.MustInclude, haystack)
	case model.IntentLocality:
		return anyTokenMatch(slot.Intent.LocalityTokens, haystack)
	case model.IntentHybrid:
		if !anyTokenMatch(slot.Intent.MustInclude, haystack) {
			return false
		}
		if queryIndex < 2 {
			return anyTokenMatch(slot.Intent.LocalityTokens, haystack)
		}
		return true
	default:
		return true
	}
}

func anyTokenMatch(tokens []string, haystack map[string]struct{}) bool {
	for _, tok := range tokens {
		if scorer.MatchesToken(tok, haystack) {
			return true
		}
	}
	return false
}

func firstToken(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	return tokens[0]
}

// localityName picks the first locality token that is not the country itself.
func localityName(tokens []string) string {
	for _, tok := range tokens {
		if tok != "malta" {
			return tok
		}
	}
	if len(tokens) > 0 {
		return tokens[0]
	}
	return ""
}

func firstQuery(plan []string) string {
	if len(plan) == 0 {
		return ""
	}
	return plan[0]
}

func uniqueQueries(queries []string) []string {
	seen := make(map[string]struct{}, len(queries))
	out := queries[:0:0]
	for _, q := range queries {
		if q == "" {
			continue
		}
		if _, ok := seen[q]; ok {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, q)
	}
	return out
}
