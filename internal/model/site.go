package model

// CategoryFaq is a single question/answer pair on a category page.
type CategoryFaq struct {
	Q string `json:"q"`
	A string `json:"a"`
}

// Category is one service category of the directory (plumbers, electricians, ...).
type Category struct {
	ID                 string        `json:"id"`
	Slug               string        `json:"slug"`
	SingularName       string        `json:"singularName"`
	PluralName         string        `json:"pluralName"`
	PrimaryKeyword     string        `json:"primaryKeyword"`
	Synonyms           []string      `json:"synonyms"`
	Intro              string        `json:"intro"`
	Faq                []CategoryFaq `json:"faq"`
	RelatedCategoryIDs []string      `json:"relatedCategoryIds"`
	TopGuideSlugs      []string      `json:"topGuideSlugs"`
	Priority           int           `json:"priority"`
}

// Location is one locality covered by the directory.
type Location struct {
	ID                string   `json:"id"`
	Slug              string   `json:"slug"`
	Name              string   `json:"name"`
	Region            string   `json:"region,omitempty"`
	Lat               float64  `json:"lat,omitempty"`
	Lng               float64  `json:"lng,omitempty"`
	Intro             string   `json:"intro"`
	NearbyLocationIDs []string `json:"nearbyLocationIds"`
	Priority          int      `json:"priority"`
}

// ListingAddress is the postal address of a listing.
type ListingAddress struct {
	Line1      string `json:"line1"`
	Locality   string `json:"locality"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country"`
}

// ListingGeo holds listing coordinates.
type ListingGeo struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Listing is one curated business listing.
type Listing struct {
	ID               string         `json:"id"`
	Slug             string         `json:"slug"`
	Name             string         `json:"name"`
	CategorySlugs    []string       `json:"categorySlugs"`
	LocationSlug     string         `json:"locationSlug"`
	Address          ListingAddress `json:"address"`
	Phone            string         `json:"phone,omitempty"`
	Email            string         `json:"email,omitempty"`
	Website          string         `json:"website,omitempty"`
	OpeningHours     []string       `json:"openingHours,omitempty"`
	Geo              *ListingGeo    `json:"geo,omitempty"`
	Images           []string       `json:"images"`
	ShortDescription string         `json:"shortDescription"`
	Tags             []string       `json:"tags"`
	SocialLinks      []string       `json:"socialLinks"`
	LastVerifiedDate string         `json:"lastVerifiedDate"`
	SourceNotes      string         `json:"sourceNotes"`
}

// ComboFaq is a question/answer pair on a category+location combo page.
type ComboFaq struct {
	Q string `yaml:"q" json:"q"`
	A string `yaml:"a" json:"a"`
}

// ComboEditorial is the curated editorial content for one category+location
// combo, sourced from a markdown file with YAML frontmatter.
type ComboEditorial struct {
	SlugKey             string
	CategorySlug        string
	LocationSlug        string
	TitleOverride       string
	DescriptionOverride string
	UniqueIntro         string
	PriceRange          string
	Faqs                []ComboFaq
	Body                string
}

// SearchDocumentType enumerates the page types in the search index.
type SearchDocumentType string

const (
	SearchDocCategory SearchDocumentType = "category"
	SearchDocLocation SearchDocumentType = "location"
	SearchDocCombo    SearchDocumentType = "combo"
	SearchDocGuide    SearchDocumentType = "guide"
	SearchDocListing  SearchDocumentType = "listing"
	SearchDocPage     SearchDocumentType = "page"
)

// SearchDocument is one entry of the client-side search index.
type SearchDocument struct {
	Title       string             `json:"title"`
	URL         string             `json:"url"`
	Type        SearchDocumentType `json:"type"`
	Tags        []string           `json:"tags"`
	Description string             `json:"description,omitempty"`
}
