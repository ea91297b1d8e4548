// Package titles builds canonical comparison keys from raw release titles.
//
// The same normalization backs cross-source artist matching and release
// deduplication, so the rules here change both behaviors at once.
package titles

import (
	"regexp"
	"strings"
)

var (
	// Trailing "- Single", "- EP", "- Album" or "(Single)" style qualifiers
	// that sources append inconsistently.
	qualifierRe = regexp.MustCompile(`(?i)(\s*-\s*(single|ep|album)|\s*\(\s*(single|ep|album)\s*\))\s*$`)
	nonAlnumRe  = regexp.MustCompile(`[^a-z0-9]+`)
)

// Normalize turns a raw release title into its canonical comparison key.
// Pure and total: any input yields a key, possibly empty.
func Normalize(title string) string {
	s := qualifierRe.ReplaceAllString(title, "")
	s = strings.ToLower(s)
	s = nonAlnumRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// DedupKey combines the canonical title with the date portion of a release
// date. Two releases sharing a DedupKey are treated as the same release.
func DedupKey(title, date string) string {
	if len(date) > 10 {
		date = date[:10]
	}
	return Normalize(title) + "|" + date
}

// NormalizedSet builds the set of canonical keys for a list of titles.
// Empty keys (titles with no alphanumeric content) are dropped.
func NormalizedSet(titles []string) map[string]struct{} {
	set := make(map[string]struct{}, len(titles))
	for _, t := range titles {
		if key := Normalize(t); key != "" {
			set[key] = struct{}{}
		}
	}
	return set
}

// Intersection counts keys present in both sets.
func Intersection(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for key := range a {
		if _, ok := b[key]; ok {
			n++
		}
	}
	return n
}
