// Package search builds the client-side search index and implements the
// same linear substring scoring the site uses, so the index can be smoke
// tested at build time. This is deliberately not a search engine.
package search

import (
	"sort"
	"strings"

	"github.com/servizzmalta/directory-cli/internal/combo"
	"github.com/servizzmalta/directory-cli/internal/data"
	"github.com/servizzmalta/directory-cli/internal/model"
)

// maxResults caps Filter output.
const maxResults = 50

// BuildIndex flattens categories, locations, qualified combos and listings
// into the search document list served as search-index.json.
func BuildIndex(site *data.Site, combos *combo.Evaluator) []model.SearchDocument {
	var docs []model.SearchDocument

	for _, c := range site.Categories {
		docs = append(docs, model.SearchDocument{
			Title:       c.PluralName + " in Malta",
			URL:         "/services/" + c.Slug + "/",
			Type:        model.SearchDocCategory,
			Tags:        append([]string{c.PrimaryKeyword}, c.Synonyms...),
			Description: c.Intro,
		})
	}

	for _, l := range site.Locations {
		docs = append(docs, model.SearchDocument{
			Title:       "Services in " + l.Name,
			URL:         "/locations/" + l.Slug + "/",
			Type:        model.SearchDocLocation,
			Tags:        []string{l.Name, l.Region},
			Description: l.Intro,
		})
	}

	for _, qc := range combos.Qualified() {
		category := site.CategoryBySlug(qc.CategorySlug)
		if category == nil {
			continue
		}
		locationName := site.LocationName(qc.LocationSlug)
		docs = append(docs, model.SearchDocument{
			Title: category.PluralName + " in " + locationName,
			URL:   "/services/" + qc.CategorySlug + "/" + qc.LocationSlug + "/",
			Type:  model.SearchDocCombo,
			Tags:  []string{category.PrimaryKeyword, locationName},
		})
	}

	for _, l := range site.Listings {
		docs = append(docs, model.SearchDocument{
			Title:       l.Name,
			URL:         "/listing/" + l.Slug + "/",
			Type:        model.SearchDocListing,
			Tags:        l.Tags,
			Description: l.ShortDescription,
		})
	}

	return docs
}

// ScoreDocument rates one document against a query: title substring hits
// weigh 5, tag hits 3, anywhere-in-haystack hits 2, summed per term.
func ScoreDocument(doc model.SearchDocument, query string) int {
	terms := tokenize(query)
	if len(terms) == 0 {
		return 0
	}

	title := strings.ToLower(doc.Title)
	haystack := strings.ToLower(doc.Title + " " + strings.Join(doc.Tags, " ") + " " + doc.Description)

	score := 0
	for _, term := range terms {
		if strings.Contains(title, term) {
			score += 5
		}
		if strings.Contains(haystack, term) {
			score += 2
		}
		for _, tag := range doc.Tags {
			if strings.Contains(strings.ToLower(tag), term) {
				score += 3
				break
			}
		}
	}
	return score
}

// Filter returns the top matching documents for a query, optionally
// restricted to one document type ("all" disables the restriction).
func Filter(docs []model.SearchDocument, query, docType string) []model.SearchDocument {
	type scored struct {
		doc   model.SearchDocument
		score int
	}

	var matches []scored
	for _, doc := range docs {
		if docType != "" && docType != "all" && string(doc.Type) != docType {
			continue
		}
		if s := ScoreDocument(doc, query); s > 0 {
			matches = append(matches, scored{doc: doc, score: s})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	out := make([]model.SearchDocument, 0, len(matches))
	for i, m := range matches {
		if i == maxResults {
			break
		}
		out = append(out, m.doc)
	}
	return out
}

func tokenize(value string) []string {
	var b strings.Builder
	for _, r := range strings.ToLower(value) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Fields(b.String())
}
