package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Maltese uses stroked letters that do not decompose into base+mark, so NFD
// folding alone never reaches them.
var malteseFold = strings.NewReplacer(
	"ħ", "h", "Ħ", "h",
	"ġ", "g", "Ġ", "g",
	"ċ", "c", "Ċ", "c",
	"ż", "z", "Ż", "z",
)

var diacriticFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Tokenize lowercases, folds Maltese and combining diacritics, strips
// non-alphanumerics and splits on whitespace, deduplicating while preserving
// order. "Ħaż-Żabbar plumber" becomes ["haz", "zabbar", "plumber"].
func Tokenize(value string) []string {
	lowered := malteseFold.Replace(strings.ToLower(value))
	if folded, _, err := transform.String(diacriticFold, lowered); err == nil {
		lowered = folded
	}

	var b strings.Builder
	for _, r := range lowered {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	seen := make(map[string]struct{})
	var tokens []string
	for _, tok := range strings.Fields(b.String()) {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}
	return tokens
}

// TokenizeAll tokenizes every input and flattens the result, deduplicated.
func TokenizeAll(values ...string) []string {
	return Tokenize(strings.Join(values, " "))
}
