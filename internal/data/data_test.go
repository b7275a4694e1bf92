package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const categoriesJSON = `[
  {
    "id": "cat-plumbers",
    "slug": "plumbers",
    "singularName": "Plumber",
    "pluralName": "Plumbers",
    "primaryKeyword": "plumbing",
    "synonyms": ["pipe repair"],
    "intro": "Licensed plumbers across Malta.",
    "priority": 1
  }
]`

const locationsJSON = `[
  {
    "id": "loc-sliema",
    "slug": "sliema",
    "name": "Sliema",
    "region": "Northern Harbour",
    "intro": "Seafront town.",
    "priority": 1
  }
]`

const listingsJSON = `[
  {
    "id": "lst-borg",
    "slug": "borg-plumbing",
    "name": "Borg Plumbing",
    "categorySlugs": ["plumbers"],
    "locationSlug": "sliema",
    "address": {"line1": "12 Tower Road", "locality": "Sliema", "country": "MT"},
    "shortDescription": "24 hour callouts.",
    "tags": ["emergency"],
    "images": [],
    "socialLinks": []
  }
]`

const componentMapJSON = `{
  "homeIconStrip": [{"id": "home-icon-plumbers", "title": "Plumbers"}],
  "homeFeatured": [{"id": "home-feature-plumbers-sliema", "title": "Plumbers", "locality": "Sliema", "href": "/services/plumbers/sliema/"}],
  "homeMosaic": [{"id": "home-mosaic-sliema", "title": "Sliema"}],
  "queries": {"home-icon-plumbers": "plumber tools workbench"},
  "queryTemplates": {"categoryHero": "{category} at work Malta"},
  "intents": {"home-icon-plumbers": "hybrid"},
  "forbiddenWords": ["wedding"]
}`

const comboMarkdown = `---
titleOverride: Best Plumbers in Sliema
uniqueIntro: Finding a reliable plumber in Sliema takes local knowledge.
priceRange: "€40-€90 per callout"
faqs:
  - q: How fast can a plumber arrive?
    a: Usually within the hour.
---
Sliema apartments mostly date from the 1970s boom and the plumbing shows it.
`

func writeFixtures(t *testing.T) (dataDir, combosDir string) {
	t.Helper()
	dataDir = t.TempDir()
	combosDir = filepath.Join(dataDir, "combos")
	require.NoError(t, os.MkdirAll(combosDir, 0o755))

	files := map[string]string{
		"categories.json":           categoriesJSON,
		"locations.json":            locationsJSON,
		"listings.json":             listingsJSON,
		"pexels-component-map.json": componentMapJSON,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dataDir, name), []byte(content), 0o644))
	}
	require.NoError(t, os.WriteFile(
		filepath.Join(combosDir, "plumbers__sliema.md"), []byte(comboMarkdown), 0o644))
	return dataDir, combosDir
}

func TestLoad(t *testing.T) {
	dataDir, combosDir := writeFixtures(t)

	site, err := Load(dataDir, combosDir)
	require.NoError(t, err)

	require.Len(t, site.Categories, 1)
	assert.Equal(t, "plumbers", site.Categories[0].Slug)
	assert.Equal(t, "Plumber", site.Categories[0].SingularName)

	require.Len(t, site.Locations, 1)
	assert.Equal(t, "Sliema", site.Locations[0].Name)

	require.Len(t, site.Listings, 1)
	assert.Equal(t, "Sliema", site.Listings[0].Address.Locality)

	assert.Len(t, site.Components.HomeIconStrip, 1)
	assert.Equal(t, "plumber tools workbench", site.Components.Queries["home-icon-plumbers"])
	assert.Equal(t, []string{"wedding"}, site.Components.ForbiddenWords)

	require.Len(t, site.Combos, 1)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(t.TempDir(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "categories.json")
}

func TestLoad_MalformedJSON(t *testing.T) {
	dataDir, combosDir := writeFixtures(t)
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "listings.json"), []byte("{oops"), 0o644))

	_, err := Load(dataDir, combosDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listings.json")
}

func TestLoadCombos(t *testing.T) {
	_, combosDir := writeFixtures(t)

	combos, err := LoadCombos(combosDir)
	require.NoError(t, err)
	require.Len(t, combos, 1)

	c := combos[0]
	assert.Equal(t, "plumbers__sliema", c.SlugKey)
	assert.Equal(t, "plumbers", c.CategorySlug)
	assert.Equal(t, "sliema", c.LocationSlug)
	assert.Equal(t, "Best Plumbers in Sliema", c.TitleOverride)
	assert.Equal(t, "€40-€90 per callout", c.PriceRange)
	require.Len(t, c.Faqs, 1)
	assert.Equal(t, "How fast can a plumber arrive?", c.Faqs[0].Q)
	assert.Contains(t, c.Body, "1970s boom")
	assert.NotContains(t, c.Body, "---")
}

func TestLoadCombos_ByteOrderMark(t *testing.T) {
	// Windows editors save markdown with a UTF-8 BOM; the frontmatter
	// delimiter must still be recognized.
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "plumbers__sliema.md"), []byte("\uFEFF"+comboMarkdown), 0o644))

	combos, err := LoadCombos(dir)
	require.NoError(t, err)
	require.Len(t, combos, 1)
	assert.Equal(t, "Best Plumbers in Sliema", combos[0].TitleOverride)
}

func TestLoadCombos_MissingDirIsEmpty(t *testing.T) {
	combos, err := LoadCombos(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Nil(t, combos)
}

func TestLoadCombos_BadFilename(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plumbers.md"), []byte(comboMarkdown), 0o644))

	_, err := LoadCombos(dir)
	require.Error(t, err)
}

func TestLoadCombos_MissingFrontmatter(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a__b.md"), []byte("no frontmatter"), 0o644))

	_, err := LoadCombos(dir)
	require.Error(t, err)
}

func TestSiteHelpers(t *testing.T) {
	dataDir, combosDir := writeFixtures(t)
	site, err := Load(dataDir, combosDir)
	require.NoError(t, err)

	require.NotNil(t, site.CategoryBySlug("plumbers"))
	assert.Nil(t, site.CategoryBySlug("gardeners"))

	assert.Equal(t, "Sliema", site.LocationName("sliema"))
	assert.Equal(t, "zebbug", site.LocationName("zebbug"), "unknown slug falls back to itself")

	listings := site.ListingsForCombo("plumbers", "sliema")
	require.Len(t, listings, 1)
	assert.Empty(t, site.ListingsForCombo("plumbers", "mosta"))

	require.NotNil(t, site.ComboFor("plumbers", "sliema"))
	assert.Nil(t, site.ComboFor("electricians", "sliema"))
}
