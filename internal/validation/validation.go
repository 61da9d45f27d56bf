package validation

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"blockrank/internal/urlutil"
)

// MaxKeywordLength bounds tracked keyword text.
const MaxKeywordLength = 100

// ValidateKeywordText checks a search keyword: non-empty, bounded length,
// valid UTF-8, no control characters. Spaces and non-Latin scripts are fine;
// search keywords are free text, not slugs.
func ValidateKeywordText(keyword string) (bool, string) {
	trimmed := strings.TrimSpace(keyword)
	if trimmed == "" {
		return false, "keyword is required"
	}
	if len(trimmed) > MaxKeywordLength {
		return false, "keyword is too long"
	}
	if !utf8.ValidString(trimmed) {
		return false, "keyword must be valid UTF-8"
	}
	for _, r := range trimmed {
		if unicode.IsControl(r) {
			return false, "keyword must not contain control characters"
		}
	}
	return true, ""
}

// ValidateTargetURL checks a tracked blog post URL: http/https scheme, a
// host, and the post must live on the tracked blog platform (mobile or
// desktop host).
func ValidateTargetURL(urlStr string) (bool, string) {
	if urlStr == "" {
		return false, "target URL is required"
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return false, "invalid URL format"
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false, "target URL must use http:// or https:// scheme"
	}

	if u.Host == "" {
		return false, "target URL must have a valid host"
	}

	normalized := urlutil.Normalize(urlStr)
	if !strings.HasPrefix(normalized, urlutil.BlogHost+"/") {
		return false, "target URL must be a blog post on " + urlutil.BlogHost
	}

	return true, ""
}
