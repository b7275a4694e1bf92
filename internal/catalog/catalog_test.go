package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servizzmalta/directory-cli/internal/data"
	"github.com/servizzmalta/directory-cli/internal/model"
)

func testSite() *data.Site {
	return &data.Site{
		Categories: []model.Category{
			{Slug: "plumbers", SingularName: "Plumber", PluralName: "Plumbers", PrimaryKeyword: "plumbing"},
		},
		Locations: []model.Location{
			{Slug: "sliema", Name: "Sliema"},
		},
		Components: data.ComponentMap{
			HomeIconStrip: []data.ComponentPlacement{
				{ID: "home-icon-plumbers", Title: "Plumbers"},
			},
			HomeFeatured: []data.ComponentPlacement{
				{ID: "home-feature-plumbers-sliema", Title: "Plumbers", Locality: "Sliema", Href: "/services/plumbers/sliema/"},
			},
			HomeMosaic: []data.ComponentPlacement{
				{ID: "home-mosaic-sliema", Title: "Sliema"},
			},
			Queries: map[string]string{
				"home-icon-plumbers": "plumber tools workbench",
			},
			QueryTemplates: map[string]string{
				"categoryHero":    "{category} at work Malta",
				"categoryTileOne": "{category} equipment close up",
				"categoryTileTwo": "{category} on site Malta",
			},
			ForbiddenWords: []string{"wedding", "party"},
		},
	}
}

func TestInferIntentClass(t *testing.T) {
	assert.Equal(t, model.IntentLocality, InferIntentClass("home-mosaic-sliema"))
	assert.Equal(t, model.IntentLocality, InferIntentClass("featured-location-valletta"))
	assert.Equal(t, model.IntentHybrid, InferIntentClass("home-feature-plumbers-sliema"))
	assert.Equal(t, model.IntentService, InferIntentClass("category-plumbers-hero"))
	assert.Equal(t, model.IntentService, InferIntentClass("guide-plumbers"))
}

func TestBuild_ExpandsAllSlotFamilies(t *testing.T) {
	slots := Build(testSite())

	byID := make(map[string]model.Slot, len(slots))
	for _, s := range slots {
		byID[s.ID] = s
	}

	want := []string{
		"home-icon-plumbers",
		"home-feature-plumbers-sliema",
		"home-mosaic-sliema",
		"category-plumbers-hero",
		"category-plumbers-tile-1",
		"category-plumbers-tile-2",
		"guide-plumbers",
		"featured-location-sliema",
	}
	require.Len(t, slots, len(want))
	for _, id := range want {
		assert.Contains(t, byID, id)
	}
}

func TestBuild_QueryMappingAndTemplates(t *testing.T) {
	slots := Build(testSite())

	byID := make(map[string]model.Slot, len(slots))
	for _, s := range slots {
		byID[s.ID] = s
	}

	// Explicit mapped query wins over the synthesized default.
	assert.Equal(t, []string{"plumber tools workbench"}, byID["home-icon-plumbers"].Queries)
	// Category templates substitute the lowercase singular name.
	assert.Equal(t, []string{"plumber at work Malta"}, byID["category-plumbers-hero"].Queries)
	assert.Equal(t, []string{"plumber equipment close up"}, byID["category-plumbers-tile-1"].Queries)
}

func TestBuild_IntentDetails(t *testing.T) {
	slots := Build(testSite())

	byID := make(map[string]model.Slot, len(slots))
	for _, s := range slots {
		byID[s.ID] = s
	}

	feature := byID["home-feature-plumbers-sliema"]
	assert.Equal(t, model.IntentHybrid, feature.Intent.Class)
	assert.Equal(t, []string{"plumbers"}, feature.Intent.MustInclude)
	assert.Equal(t, []string{"sliema", "malta"}, feature.Intent.LocalityTokens)

	hero := byID["category-plumbers-hero"]
	assert.Equal(t, model.IntentService, hero.Intent.Class)
	assert.Equal(t, []string{"plumber", "plumbing"}, hero.Intent.MustInclude)

	mosaic := byID["home-mosaic-sliema"]
	assert.Equal(t, model.IntentLocality, mosaic.Intent.Class)
	assert.Empty(t, mosaic.Intent.MustInclude)
}

func TestBuild_ForbiddenWordsApplied(t *testing.T) {
	slots := Build(testSite())

	for _, s := range slots {
		assert.Equal(t, []string{"wedding", "party"}, s.Intent.MustNotInclude, s.ID)
	}
}

func TestBuild_IntentOverrideWins(t *testing.T) {
	site := testSite()
	site.Components.Intents = map[string]model.IntentClass{
		"home-icon-plumbers": model.IntentHybrid,
	}

	slots := Build(site)

	for _, s := range slots {
		if s.ID == "home-icon-plumbers" {
			assert.Equal(t, model.IntentHybrid, s.Intent.Class)
			return
		}
	}
	t.Fatal("home-icon-plumbers slot not built")
}

func TestBuild_DedupesByID(t *testing.T) {
	site := testSite()
	site.Components.HomeIconStrip = append(site.Components.HomeIconStrip,
		data.ComponentPlacement{ID: "home-icon-plumbers", Title: "Duplicate"})

	slots := Build(site)

	count := 0
	for _, s := range slots {
		if s.ID == "home-icon-plumbers" {
			count++
			assert.Equal(t, "Plumbers service support in Malta", s.AltText)
		}
	}
	assert.Equal(t, 1, count)
}
