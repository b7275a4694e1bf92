// Package catalog expands the static site structure into the flat list of
// image slots the sync pipeline resolves.
package catalog

import (
	"strings"

	"go.uber.org/zap"

	"github.com/servizzmalta/directory-cli/internal/data"
	"github.com/servizzmalta/directory-cli/internal/model"
)

// InferIntentClass derives the intent class from a slot id prefix when the
// component map carries no explicit override.
func InferIntentClass(id string) model.IntentClass {
	switch {
	case strings.HasPrefix(id, "home-mosaic-"), strings.HasPrefix(id, "featured-location-"):
		return model.IntentLocality
	case strings.HasPrefix(id, "home-feature-"):
		return model.IntentHybrid
	default:
		return model.IntentService
	}
}

// Build expands home placements, category pages, guides and featured
// locations into the deduplicated, ordered slot list for one sync run.
// It is a pure function of the site data.
func Build(site *data.Site) []model.Slot {
	cm := site.Components
	forbidden := TokenizeAll(cm.ForbiddenWords...)

	var slots []model.Slot
	add := func(s model.Slot) {
		if len(s.Intent.MustNotInclude) == 0 {
			s.Intent.MustNotInclude = forbidden
		}
		slots = append(slots, s)
	}

	for _, item := range cm.HomeIconStrip {
		add(model.Slot{
			ID:      item.ID,
			Queries: queriesFor(cm, item.ID, item.Title+" service Malta"),
			AltText: item.Title + " service support in Malta",
			Intent: intentFor(cm, item.ID, model.Intent{
				MustInclude: Tokenize(item.Title),
				AltTemplate: "{title} service support in Malta",
			}),
		})
	}

	for _, item := range cm.HomeFeatured {
		add(model.Slot{
			ID:      item.ID,
			Queries: queriesFor(cm, item.ID, item.Title+" "+item.Locality+" Malta"),
			AltText: item.Title + " in " + item.Locality,
			Intent: intentFor(cm, item.ID, model.Intent{
				MustInclude:    Tokenize(item.Title),
				LocalityTokens: localityTokens(item.Locality),
				AltTemplate:    "{title} in {locality}",
			}),
		})
	}

	for _, item := range cm.HomeMosaic {
		add(model.Slot{
			ID:      item.ID,
			Queries: queriesFor(cm, item.ID, item.Title+" Malta"),
			AltText: item.Title + " locality context in Malta",
			Intent: intentFor(cm, item.ID, model.Intent{
				LocalityTokens: localityTokens(item.Title),
				AltTemplate:    "{title} locality context in Malta",
			}),
		})
	}

	for _, category := range site.Categories {
		name := strings.ToLower(category.SingularName)
		tokens := TokenizeAll(category.SingularName, category.PrimaryKeyword)

		add(model.Slot{
			ID:      "category-" + category.Slug + "-hero",
			Queries: []string{fillTemplate(cm.QueryTemplates["categoryHero"], name)},
			AltText: category.PluralName + " service work in Malta",
			Intent:  intentFor(cm, "category-"+category.Slug+"-hero", model.Intent{MustInclude: tokens}),
		})
		add(model.Slot{
			ID:      "category-" + category.Slug + "-tile-1",
			Queries: []string{fillTemplate(cm.QueryTemplates["categoryTileOne"], name)},
			AltText: category.SingularName + " equipment and setup in Malta",
			Intent:  intentFor(cm, "category-"+category.Slug+"-tile-1", model.Intent{MustInclude: tokens}),
		})
		add(model.Slot{
			ID:      "category-" + category.Slug + "-tile-2",
			Queries: []string{fillTemplate(cm.QueryTemplates["categoryTileTwo"], name)},
			AltText: category.SingularName + " on-site service in Malta",
			Intent:  intentFor(cm, "category-"+category.Slug+"-tile-2", model.Intent{MustInclude: tokens}),
		})
	}

	for _, category := range site.Categories {
		id := "guide-" + category.Slug
		add(model.Slot{
			ID:      id,
			Queries: queriesFor(cm, id, category.SingularName+" guidance Malta"),
			AltText: category.PluralName + " guide visual in Malta",
			Intent: intentFor(cm, id, model.Intent{
				MustInclude: TokenizeAll(category.SingularName, category.PrimaryKeyword),
			}),
		})
	}

	for _, item := range cm.HomeFeatured {
		slug := locationSlugFromHref(item.Href)
		name := site.LocationName(slug)
		add(model.Slot{
			ID:      "featured-location-" + slug,
			Queries: []string{name + " Malta neighborhood and services"},
			AltText: name + " service locality in Malta",
			Intent: intentFor(cm, "featured-location-"+slug, model.Intent{
				LocalityTokens: localityTokens(name),
			}),
		})
	}

	deduped := uniqueByID(slots)
	zap.L().Debug("catalog: built slots",
		zap.Int("total", len(slots)),
		zap.Int("unique", len(deduped)),
	)
	return deduped
}

// intentFor resolves the intent class (component-map override wins, then id
// prefix inference) and stamps it on the partially built intent.
func intentFor(cm data.ComponentMap, id string, intent model.Intent) model.Intent {
	if class, ok := cm.Intents[id]; ok {
		intent.Class = class
	} else {
		intent.Class = InferIntentClass(id)
	}
	return intent
}

// queriesFor returns the mapped query for the slot id, falling back to the
// synthesized default, as an ordered single-query list.
func queriesFor(cm data.ComponentMap, id, fallback string) []string {
	if q, ok := cm.Queries[id]; ok && q != "" {
		return []string{q}
	}
	return []string{fallback}
}

func fillTemplate(template, category string) string {
	if template == "" {
		return category + " service Malta"
	}
	return strings.ReplaceAll(template, "{category}", category)
}

func localityTokens(name string) []string {
	return TokenizeAll(name, "malta")
}

// locationSlugFromHref pulls the location slug from a featured card href
// like /services/plumbers/sliema/.
func locationSlugFromHref(href string) string {
	parts := strings.FieldsFunc(href, func(r rune) bool { return r == '/' })
	if len(parts) >= 3 {
		return parts[2]
	}
	return "malta"
}

// uniqueByID collapses duplicate slot ids to the first occurrence.
func uniqueByID(slots []model.Slot) []model.Slot {
	seen := make(map[string]struct{}, len(slots))
	out := slots[:0:0]
	for _, s := range slots {
		if _, ok := seen[s.ID]; ok {
			continue
		}
		seen[s.ID] = struct{}{}
		out = append(out, s)
	}
	return out
}
