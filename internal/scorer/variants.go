package scorer

// Synonyms is the token equivalence table used by variant matching. It is a
// deliberately small, explicit lookup so scoring behavior stays auditable;
// grow it entry by entry when a real slot misses a real photo over wording.
var Synonyms = map[string][]string{
	"technician":  {"worker"},
	"worker":      {"technician"},
	"service":     {"services"},
	"services":    {"service"},
	"plumber":     {"plumbing"},
	"plumbing":    {"plumber"},
	"electrician": {"electrical"},
	"electrical":  {"electrician"},
	"cleaner":     {"cleaning"},
	"cleaning":    {"cleaner"},
	"repair":      {"repairs", "repairing"},
	"repairs":     {"repair"},
}

// Variants expands a token into the forms it may take in a haystack: the
// token itself, its naive singular/plural, and table synonyms.
func Variants(token string) []string {
	variants := []string{token}

	if n := len(token); n > 3 && token[n-1] == 's' {
		variants = append(variants, token[:n-1])
	} else if n >= 3 {
		variants = append(variants, token+"s")
	}

	variants = append(variants, Synonyms[token]...)
	return variants
}
