// Package scorer rates photo candidates against a slot's intent. Scoring is
// additive over independent terms, deterministic for fixed inputs, and every
// contributing term leaves a reason tag for debuggability.
package scorer

import (
	"fmt"
	"math"

	"github.com/servizzmalta/directory-cli/internal/catalog"
	"github.com/servizzmalta/directory-cli/internal/model"
)

// Scoring weights. Locality and hybrid intents weigh required tokens harder
// because a wrong locality photo is worse than a generic service photo.
const (
	mustHitService     = 10
	mustHitLocality    = 14
	mustMissService    = -4
	mustMissLocality   = -9
	forbiddenPenalty   = -25
	localityBonus      = 7
	aspectBonus        = 18
	aspectPenalty      = -12
	rankBonusBase      = 24
	rankBonusStep      = 2
	aspectMin          = 1.2
	aspectMax          = 2.1
	defaultAspectRatio = 1.5
)

// Thresholds per intent class. Comparisons are >=.
const (
	ThresholdService  = 38
	ThresholdLocality = 46
	ThresholdHybrid   = 42
	ThresholdDefault  = 42
)

// Threshold returns the acceptance threshold for an intent class.
func Threshold(class model.IntentClass) float64 {
	switch class {
	case model.IntentService:
		return ThresholdService
	case model.IntentLocality:
		return ThresholdLocality
	case model.IntentHybrid:
		return ThresholdHybrid
	default:
		return ThresholdDefault
	}
}

// Score rates one candidate against the slot's intent.
func Score(slot model.Slot, candidate model.Candidate) model.ScoredCandidate {
	haystack := Haystack(candidate)

	var score float64
	var reasons []string

	hitWeight, missWeight := float64(mustHitService), float64(mustMissService)
	if slot.Intent.Class == model.IntentLocality || slot.Intent.Class == model.IntentHybrid {
		hitWeight, missWeight = mustHitLocality, mustMissLocality
	}

	for _, tok := range slot.Intent.MustInclude {
		if MatchesToken(tok, haystack) {
			score += hitWeight
			reasons = append(reasons, "must-include:"+tok)
		} else {
			score += missWeight
			reasons = append(reasons, "missing:"+tok)
		}
	}

	for _, tok := range slot.Intent.MustNotInclude {
		if MatchesToken(tok, haystack) {
			score += forbiddenPenalty
			reasons = append(reasons, "forbidden:"+tok)
		}
	}

	for _, tok := range slot.Intent.LocalityTokens {
		if MatchesToken(tok, haystack) {
			score += localityBonus
			reasons = append(reasons, "locality:"+tok)
		}
	}

	ratio := defaultAspectRatio
	if candidate.Width > 0 && candidate.Height > 0 {
		ratio = float64(candidate.Width) / float64(candidate.Height)
	}
	if ratio >= aspectMin && ratio <= aspectMax {
		score += aspectBonus
		reasons = append(reasons, "aspect-ok")
	} else {
		score += aspectPenalty
		reasons = append(reasons, "aspect-off")
	}

	if bonus := rankBonusBase - rankBonusStep*candidate.Rank; bonus > 0 {
		score += float64(bonus)
		reasons = append(reasons, fmt.Sprintf("rank-bonus:%d", bonus))
	}

	score = math.Max(0, math.Min(100, score))

	return model.ScoredCandidate{
		Candidate: candidate,
		Score:     score,
		Reasons:   reasons,
	}
}

// Haystack builds the token set a candidate is matched against: alt text,
// attribution URL and photographer name.
func Haystack(candidate model.Candidate) map[string]struct{} {
	tokens := catalog.TokenizeAll(candidate.AltText, candidate.PhotoURL, candidate.Photographer)
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return set
}

// MatchesToken reports whether any variant of the intent token appears in the
// haystack.
func MatchesToken(token string, haystack map[string]struct{}) bool {
	for _, variant := range Variants(token) {
		if _, ok := haystack[variant]; ok {
			return true
		}
	}
	return false
}
