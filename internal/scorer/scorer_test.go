package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servizzmalta/directory-cli/internal/model"
)

func serviceSlot(mustInclude ...string) model.Slot {
	return model.Slot{
		ID: "category-plumbers-hero",
		Intent: model.Intent{
			Class:       model.IntentService,
			MustInclude: mustInclude,
		},
	}
}

func TestScore_ServiceCandidate(t *testing.T) {
	slot := serviceSlot("plumber")
	candidate := model.Candidate{
		Rank:    1,
		AltText: "plumber fixing sink in Valletta",
		Width:   1500,
		Height:  1000,
	}

	scored := Score(slot, candidate)

	// +10 must-include, +18 aspect, +22 rank bonus.
	assert.Equal(t, 50.0, scored.Score)
	assert.GreaterOrEqual(t, scored.Score, float64(ThresholdService))
	assert.Contains(t, scored.Reasons, "must-include:plumber")
	assert.Contains(t, scored.Reasons, "aspect-ok")
	assert.Contains(t, scored.Reasons, "rank-bonus:22")
}

func TestScore_ForbiddenTokenPenalty(t *testing.T) {
	slot := serviceSlot("plumber")
	candidate := model.Candidate{
		Rank:    1,
		AltText: "plumber fixing sink in Valletta",
		Width:   1500,
		Height:  1000,
	}

	base := Score(slot, candidate)

	slot.Intent.MustNotInclude = []string{"wedding"}
	candidate.AltText = "plumber fixing sink at a wedding in Valletta"
	penalized := Score(slot, candidate)

	assert.Equal(t, base.Score-25, penalized.Score)
	assert.Contains(t, penalized.Reasons, "forbidden:wedding")
}

func TestScore_Deterministic(t *testing.T) {
	slot := model.Slot{
		ID: "home-feature-valletta",
		Intent: model.Intent{
			Class:          model.IntentHybrid,
			MustInclude:    []string{"plumber", "repair"},
			LocalityTokens: []string{"valletta", "malta"},
		},
	}
	candidate := model.Candidate{
		Rank:         3,
		AltText:      "plumbing repair work in Valletta Malta",
		Photographer: "Jane Doe",
		PhotoURL:     "https://www.pexels.com/photo/valletta-plumber-123/",
		Width:        1920,
		Height:       1280,
	}

	first := Score(slot, candidate)
	second := Score(slot, candidate)

	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.Reasons, second.Reasons)
}

func TestScore_UnknownDimensionsPassAspect(t *testing.T) {
	slot := serviceSlot("electrician")
	candidate := model.Candidate{Rank: 1, AltText: "electrician at work"}

	scored := Score(slot, candidate)
	assert.Contains(t, scored.Reasons, "aspect-ok")
}

func TestScore_PortraitAspectPenalty(t *testing.T) {
	slot := serviceSlot("cleaner")
	candidate := model.Candidate{
		Rank:    1,
		AltText: "cleaner washing windows",
		Width:   800,
		Height:  1200,
	}

	scored := Score(slot, candidate)
	assert.Contains(t, scored.Reasons, "aspect-off")
}

func TestScore_ClampedToZero(t *testing.T) {
	slot := model.Slot{
		ID: "category-removals-hero",
		Intent: model.Intent{
			Class:          model.IntentLocality,
			MustInclude:    []string{"mover", "truck", "boxes", "furniture", "van"},
			MustNotInclude: []string{"city"},
		},
	}
	candidate := model.Candidate{
		Rank:    12,
		AltText: "abstract city skyline",
		Width:   500,
		Height:  1000,
	}

	scored := Score(slot, candidate)
	assert.Equal(t, 0.0, scored.Score, "score must clamp at zero")
}

func TestScore_LocalityWeights(t *testing.T) {
	slot := model.Slot{
		ID: "home-mosaic-sliema",
		Intent: model.Intent{
			Class:          model.IntentLocality,
			LocalityTokens: []string{"sliema", "malta"},
		},
	}
	candidate := model.Candidate{
		Rank:    1,
		AltText: "Sliema seafront promenade Malta",
		Width:   1600,
		Height:  1000,
	}

	scored := Score(slot, candidate)

	// +7 sliema, +7 malta, +18 aspect, +22 rank.
	assert.Equal(t, 54.0, scored.Score)
	assert.GreaterOrEqual(t, scored.Score, float64(ThresholdLocality))
}

func TestMatchesToken_Variants(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		haystack string
		want     bool
	}{
		{"synonym technician to worker", "technician", "construction worker on site", true},
		{"plural service to services", "service", "home services in malta", true},
		{"singular from plural haystack", "plumbers", "plumber at work", true},
		{"no match", "electrician", "cat sitting on a sofa", false},
		{"plumber matches plumbing", "plumber", "plumbing tools on floor", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			haystack := Haystack(model.Candidate{AltText: tt.haystack})
			assert.Equal(t, tt.want, MatchesToken(tt.token, haystack))
		})
	}
}

func TestHaystack_IncludesAttribution(t *testing.T) {
	candidate := model.Candidate{
		AltText:      "sink repair",
		Photographer: "Maria Vella",
		PhotoURL:     "https://www.pexels.com/photo/valletta-street-456/",
	}

	haystack := Haystack(candidate)

	require.NotEmpty(t, haystack)
	assert.Contains(t, haystack, "valletta")
	assert.Contains(t, haystack, "vella")
	assert.Contains(t, haystack, "repair")
}

func TestThreshold(t *testing.T) {
	assert.Equal(t, 38.0, Threshold(model.IntentService))
	assert.Equal(t, 46.0, Threshold(model.IntentLocality))
	assert.Equal(t, 42.0, Threshold(model.IntentHybrid))
	assert.Equal(t, 42.0, Threshold(model.IntentClass("unknown")))
}
