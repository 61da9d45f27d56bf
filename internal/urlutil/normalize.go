// Package urlutil canonicalizes blog post URLs for rank comparison.
package urlutil

import "strings"

// Canonical and mobile hosts of the tracked blog platform. The mobile host
// serves the same resources and is rewritten before comparison.
const (
	BlogHost       = "blog.naver.com"
	MobileBlogHost = "m.blog.naver.com"
)

// Normalize canonicalizes a URL for comparison. It is total: malformed input
// comes back trimmed but otherwise unchanged, never an error. Two URLs point
// at the same resource iff their normalized forms are equal.
//
// Steps: trim whitespace, rewrite the mobile blog host to the desktop host,
// strip the scheme, strip query and fragment, strip one trailing slash. Case
// is preserved; blog path segments are case-sensitive.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return s
	}

	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")

	if rest, ok := strings.CutPrefix(s, MobileBlogHost); ok {
		s = BlogHost + rest
	}

	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}

	if len(s) > 1 && strings.HasSuffix(s, "/") {
		s = s[:len(s)-1]
	}

	return s
}

// Equal reports whether two raw URLs normalize to the same resource.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// PathSimilarity scores how alike two URLs are by comparing their normalized
// path segments position-by-position. The score is the number of matching
// segments divided by the longer segment count, in [0,1].
func PathSimilarity(a, b string) float64 {
	segsA := splitSegments(Normalize(a))
	segsB := splitSegments(Normalize(b))

	longer := len(segsA)
	if len(segsB) > longer {
		longer = len(segsB)
	}
	if longer == 0 {
		return 0
	}

	shorter := len(segsA)
	if len(segsB) < shorter {
		shorter = len(segsB)
	}

	matches := 0
	for i := 0; i < shorter; i++ {
		if segsA[i] == segsB[i] {
			matches++
		}
	}

	return float64(matches) / float64(longer)
}

func splitSegments(s string) []string {
	var segs []string
	for _, seg := range strings.Split(s, "/") {
		if seg != "" {
			segs = append(segs, seg)
		}
	}
	return segs
}
