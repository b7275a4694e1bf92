// Package data loads the static site content: category, location and listing
// lists, the pexels component map, and combo editorial markdown. Malformed
// input is a fatal configuration error, not something callers recover from.
package data

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/servizzmalta/directory-cli/internal/model"
)

// ComponentPlacement is one named placement in a home-page component.
type ComponentPlacement struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Locality string `json:"locality,omitempty"`
	Href     string `json:"href,omitempty"`
}

// ComponentMap describes the image slots the home page components need, plus
// the query and intent templates used to expand category and guide slots.
type ComponentMap struct {
	HomeIconStrip  []ComponentPlacement         `json:"homeIconStrip"`
	HomeFeatured   []ComponentPlacement         `json:"homeFeatured"`
	HomeMosaic     []ComponentPlacement         `json:"homeMosaic"`
	Queries        map[string]string            `json:"queries"`
	QueryTemplates map[string]string            `json:"queryTemplates"`
	Intents        map[string]model.IntentClass `json:"intents,omitempty"`
	ForbiddenWords []string                     `json:"forbiddenWords,omitempty"`
}

// Site is the loaded static content of the directory.
type Site struct {
	Categories []model.Category
	Locations  []model.Location
	Listings   []model.Listing
	Components ComponentMap
	Combos     []model.ComboEditorial
}

// Load reads all site data from dataDir and combo editorials from combosDir.
// A missing combos directory yields an empty combo list; everything else is
// required.
func Load(dataDir, combosDir string) (*Site, error) {
	site := &Site{}

	if err := readJSON(filepath.Join(dataDir, "categories.json"), &site.Categories); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dataDir, "locations.json"), &site.Locations); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dataDir, "listings.json"), &site.Listings); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dataDir, "pexels-component-map.json"), &site.Components); err != nil {
		return nil, err
	}

	combos, err := LoadCombos(combosDir)
	if err != nil {
		return nil, err
	}
	site.Combos = combos

	return site, nil
}

func readJSON(path string, out any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "data: read %s", path)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return eris.Wrapf(err, "data: parse %s", path)
	}
	return nil
}

// CategoryBySlug returns the category with the given slug, or nil.
func (s *Site) CategoryBySlug(slug string) *model.Category {
	for i := range s.Categories {
		if s.Categories[i].Slug == slug {
			return &s.Categories[i]
		}
	}
	return nil
}

// LocationBySlug returns the location with the given slug, or nil.
func (s *Site) LocationBySlug(slug string) *model.Location {
	for i := range s.Locations {
		if s.Locations[i].Slug == slug {
			return &s.Locations[i]
		}
	}
	return nil
}

// LocationName resolves a location slug to its display name, falling back to
// the slug itself for unknown localities.
func (s *Site) LocationName(slug string) string {
	if loc := s.LocationBySlug(slug); loc != nil {
		return loc.Name
	}
	return slug
}

// ListingsForCombo returns the curated listings for one category+location pair.
func (s *Site) ListingsForCombo(categorySlug, locationSlug string) []model.Listing {
	var out []model.Listing
	for _, l := range s.Listings {
		if l.LocationSlug != locationSlug {
			continue
		}
		for _, cs := range l.CategorySlugs {
			if cs == categorySlug {
				out = append(out, l)
				break
			}
		}
	}
	return out
}

// ComboFor returns the editorial for one category+location pair, or nil.
func (s *Site) ComboFor(categorySlug, locationSlug string) *model.ComboEditorial {
	for i := range s.Combos {
		if s.Combos[i].CategorySlug == categorySlug && s.Combos[i].LocationSlug == locationSlug {
			return &s.Combos[i]
		}
	}
	return nil
}
