package ir

import (
	"regexp"
	"strconv"
)

// placeholderPattern matches an unexpanded positional placeholder such as
// "{{2}}" or "{{ 2 }}". Surrounding whitespace inside the braces is tolerated.
var placeholderPattern = regexp.MustCompile(`^\{\{\s*([0-9]+)\s*\}\}$`)

// Placeholder returns the canonical placeholder text for position k.
func Placeholder(k int) string {
	return "{{" + strconv.Itoa(k) + "}}"
}

// PlaceholderIndex reports the position named by an unexpanded placeholder.
func PlaceholderIndex(s string) (int, bool) {
	m := placeholderPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	k, err := strconv.Atoi(m[1])
	if err != nil || m[1] != strconv.Itoa(k) {
		return 0, false
	}
	return k, true
}

// IsPlaceholderFor reports whether s is exactly the unexpanded placeholder
// "{{k}}". A real argument whose value is literally "{{k}}" cannot be told
// apart from an absent one; callers depend on that ambiguity.
func IsPlaceholderFor(s string, k int) bool {
	return s == Placeholder(k)
}

// IsLoosePlaceholderFor is IsPlaceholderFor with whitespace tolerated
// inside the braces, as in "{{ k }}".
func IsLoosePlaceholderFor(s string, k int) bool {
	idx, ok := PlaceholderIndex(s)
	return ok && idx == k
}

// PlaceholderRefs returns every {{k}} occurrence in body as byte ranges.
func PlaceholderRefs(body string) []PlaceholderRef {
	matches := placeholderRefPattern.FindAllStringSubmatchIndex(body, -1)
	refs := make([]PlaceholderRef, 0, len(matches))
	for _, m := range matches {
		k, err := strconv.Atoi(body[m[2]:m[3]])
		if err != nil || k < 1 {
			continue
		}
		refs = append(refs, PlaceholderRef{Index: k, Start: m[0], End: m[1]})
	}
	return refs
}

// PlaceholderRef locates one placeholder occurrence in template text.
type PlaceholderRef struct {
	Index int
	Start int
	End   int
}

var placeholderRefPattern = regexp.MustCompile(`\{\{\s*([0-9]+)\s*\}\}`)
