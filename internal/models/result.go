package models

import "time"

// Suppression signal constants. Each names the CSS mechanism hiding an
// otherwise-present result element.
const (
	SignalDisplayNone      = "display_none"
	SignalVisibilityHidden = "visibility_hidden"
	SignalOpacityZero      = "opacity_zero"
	SignalCSSClassHidden   = "css_class_hidden"
)

// AuthorMeta carries optional author/date metadata scraped alongside a result.
type AuthorMeta struct {
	Name        string     `json:"name"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// ResultItem is one ranked entry extracted from a smart block. IsVisible is
// nil when visibility could not be determined from the markup.
type ResultItem struct {
	URL               string      `json:"url"`
	Title             string      `json:"title"`
	RankPosition      int         `json:"rank_position"`
	IsVisible         *bool       `json:"is_visible"`
	SuppressionSignal string      `json:"suppression_signal,omitempty"`
	Author            *AuthorMeta `json:"author,omitempty"`
}

// Category is a named, ranked result module extracted from one fetch. The
// fallback global scan produces a single category with an empty name.
type Category struct {
	Name  string       `json:"name"`
	Items []ResultItem `json:"items"`
}

// IsFallback reports whether this category came from the global anchor scan
// rather than a recognized smart-block container.
func (c Category) IsFallback() bool {
	return c.Name == ""
}
