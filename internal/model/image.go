package model

// IntentClass drives scoring weights, hard filters, and acceptance thresholds
// for a slot.
type IntentClass string

const (
	IntentService  IntentClass = "service"
	IntentLocality IntentClass = "locality"
	IntentHybrid   IntentClass = "hybrid"
)

// EntryStatus is the terminal state of a slot resolution.
type EntryStatus string

const (
	StatusSelected EntryStatus = "selected"
	StatusFallback EntryStatus = "fallback"
)

// SourceMode records whether an entry points at a real downloaded image or at
// the placeholder.
type SourceMode string

const (
	SourceDirect   SourceMode = "direct"
	SourceFallback SourceMode = "fallback"
)

// Intent is the scoring policy attached to a slot.
type Intent struct {
	Class          IntentClass
	MustInclude    []string
	MustNotInclude []string
	LocalityTokens []string
	AltTemplate    string
}

// Slot is a named placement in the site that needs one representative photo.
// Identity is the ID; duplicate IDs collapse to the first occurrence.
type Slot struct {
	ID      string
	Queries []string
	Intent  Intent
	AltText string
}

// Candidate is one search result considered for a slot. Rank is the 1-based
// position in the provider's results.
type Candidate struct {
	Rank            int
	SourceURL       string
	AltText         string
	Width           int
	Height          int
	Photographer    string
	PhotographerURL string
	PhotoURL        string
}

// ScoredCandidate is a Candidate with its relevance score and the tags of
// every term that contributed to it.
type ScoredCandidate struct {
	Candidate
	Score   float64
	Reasons []string
}

// Variant is one encoded resolution of a resolved image.
type Variant struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Jpg    string `json:"jpg"`
	Webp   string `json:"webp"`
}

// ManifestEntry is the persisted resolution of one slot.
type ManifestEntry struct {
	ID              string      `json:"id"`
	Query           string      `json:"query"`
	TriedQueries    []string    `json:"triedQueries,omitempty"`
	Alt             string      `json:"alt"`
	Photographer    string      `json:"photographer,omitempty"`
	PhotographerURL string      `json:"photographerUrl,omitempty"`
	PhotoURL        string      `json:"photoUrl,omitempty"`
	Fallback        bool        `json:"fallback"`
	Status          EntryStatus `json:"status,omitempty"`
	IntentClass     IntentClass `json:"intentClass,omitempty"`
	SourceMode      SourceMode  `json:"sourceMode,omitempty"`
	Score           float64     `json:"score,omitempty"`
	SelectedFrom    int         `json:"selectedFrom,omitempty"`
	Reasons         []string    `json:"reasons,omitempty"`
	LastCheckedAt   string      `json:"lastCheckedAt,omitempty"`
	Variants        []Variant   `json:"variants"`
}

// Manifest is the persisted slot-to-image mapping, keyed by slot ID.
type Manifest struct {
	GeneratedAt string                   `json:"generatedAt"`
	Images      map[string]ManifestEntry `json:"images"`
}

// IsFallback reports whether the entry resolved to the placeholder.
func (e ManifestEntry) IsFallback() bool {
	return e.Fallback || e.Status == StatusFallback
}
