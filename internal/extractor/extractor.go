// Package extractor parses search results markup into ranked smart-block
// categories of blog posts.
package extractor

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"blockrank/internal/models"
	"blockrank/internal/urlutil"
)

// NoTitle is the sentinel title for anchors with no usable text or label.
const NoTitle = "no title"

// containerSelector matches the structural class signatures of smart-block
// grid/module containers. These drift as the results page is redesigned;
// the global fallback scan below covers the gap when they all miss.
const containerSelector = "div.api_subject_bx, div.fds-collection-root, section.sc_new"

// headingSelector locates the heading element inside a candidate container.
const headingSelector = ".fds-comps-header-headline, .api_title, .mod_title_area h2, h2, h3"

// headingTerms filters candidate containers down to ranked blog modules.
// A heading matching none of these is excluded (conservative tie-break).
var headingTerms = []string{"블로그", "blog", "인기글", "인기", "토픽", "topic", "popular"}

// hiddenClasses are utility class names the results page uses to suppress an
// element without removing it from the markup.
var hiddenClasses = []string{"blind", "hide", "hidden", "u_hidden"}

// dateLayouts are the publish-date formats seen next to blog results.
var dateLayouts = []string{"2006. 1. 2.", "2006.01.02.", "2006-01-02"}

// Extractor turns raw markup into ranked categories. Extraction never fails;
// unusable markup yields an empty category slice.
type Extractor struct {
	fallbackLimit int
}

// New creates an Extractor. fallbackLimit caps how many anchors the global
// fallback scan collects.
func New(fallbackLimit int) *Extractor {
	return &Extractor{fallbackLimit: fallbackLimit}
}

// Extract parses markup and returns zero or more named categories. When no
// recognized smart-block container yields items, it falls back to one unnamed
// category built from blog post anchors found anywhere in the document.
func (e *Extractor) Extract(markup string) []models.Category {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil
	}

	var categories []models.Category
	doc.Find(containerSelector).Each(func(_ int, container *goquery.Selection) {
		heading := containerHeading(container)
		if !isBlogHeading(heading) {
			return
		}
		items := collectItems(container, 0)
		if len(items) == 0 {
			return
		}
		categories = append(categories, models.Category{Name: heading, Items: items})
	})

	if len(categories) > 0 {
		return categories
	}

	// Structural drift: no container qualified. Collect blog anchors from
	// the whole document as one unnamed, lower-confidence category.
	items := collectItems(doc.Selection, e.fallbackLimit)
	if len(items) == 0 {
		return nil
	}
	return []models.Category{{Name: "", Items: items}}
}

// containerHeading returns the trimmed heading text of a container, or "".
func containerHeading(container *goquery.Selection) string {
	return strings.TrimSpace(container.Find(headingSelector).First().Text())
}

// isBlogHeading reports whether the heading marks a ranked blog module.
func isBlogHeading(heading string) bool {
	if heading == "" {
		return false
	}
	lower := strings.ToLower(heading)
	for _, term := range headingTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// collectItems walks anchors under root, keeps blog post links, and returns
// them in document order with visibility signals. limit 0 means unlimited.
func collectItems(root *goquery.Selection, limit int) []models.ResultItem {
	var items []models.ResultItem
	seen := make(map[string]bool)

	root.Find("a[href]").EachWithBreak(func(_ int, anchor *goquery.Selection) bool {
		href, _ := anchor.Attr("href")
		postURL, ok := CanonicalPostURL(href)
		if !ok {
			return true
		}

		key := urlutil.Normalize(postURL)
		if seen[key] {
			// First occurrence wins; document order is rank order.
			return true
		}
		seen[key] = true

		visible, signal := visibilityOf(anchor)
		items = append(items, models.ResultItem{
			URL:               postURL,
			Title:             anchorTitle(anchor),
			RankPosition:      len(items) + 1,
			IsVisible:         &visible,
			SuppressionSignal: signal,
			Author:            authorMeta(anchor),
		})

		return limit == 0 || len(items) < limit
	})

	return items
}

// CanonicalPostURL extracts the canonical desktop post URL from an href.
// Two shapes are accepted: a path-embedded post id
// (blog.naver.com/{blogId}/{logNo}) and a query-embedded one
// (PostView with blogId/logNo parameters).
func CanonicalPostURL(href string) (string, bool) {
	s := urlutil.Normalize(href)
	rest, ok := strings.CutPrefix(s, urlutil.BlogHost+"/")
	if !ok {
		return "", false
	}

	// Query-embedded shape. Normalize strips the query string, so re-read
	// it from the raw href.
	if strings.HasPrefix(rest, "PostView.") {
		blogID := queryParam(href, "blogId")
		logNo := queryParam(href, "logNo")
		if blogID == "" || !isDigits(logNo) {
			return "", false
		}
		return "https://" + urlutil.BlogHost + "/" + blogID + "/" + logNo, true
	}

	// Path-embedded shape.
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || !isDigits(parts[1]) {
		return "", false
	}
	return "https://" + urlutil.BlogHost + "/" + parts[0] + "/" + parts[1], true
}

func queryParam(href, name string) string {
	i := strings.IndexByte(href, '?')
	if i < 0 {
		return ""
	}
	for _, pair := range strings.Split(href[i+1:], "&") {
		if v, ok := strings.CutPrefix(pair, name+"="); ok {
			if j := strings.IndexByte(v, '#'); j >= 0 {
				v = v[:j]
			}
			return v
		}
	}
	return ""
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// anchorTitle picks the anchor text, falling back to aria-label, then the
// title attribute, then the NoTitle sentinel.
func anchorTitle(anchor *goquery.Selection) string {
	if text := strings.TrimSpace(anchor.Text()); text != "" {
		return text
	}
	if label, ok := anchor.Attr("aria-label"); ok && strings.TrimSpace(label) != "" {
		return strings.TrimSpace(label)
	}
	if title, ok := anchor.Attr("title"); ok && strings.TrimSpace(title) != "" {
		return strings.TrimSpace(title)
	}
	return NoTitle
}

// visibilityOf inspects the anchor and its ancestor chain for CSS-based
// suppression. The chain is walked nearest-first; the first signal wins.
func visibilityOf(anchor *goquery.Selection) (bool, string) {
	if len(anchor.Nodes) == 0 {
		return true, ""
	}
	for node := anchor.Nodes[0]; node != nil; node = node.Parent {
		if node.Type != html.ElementNode {
			continue
		}
		if signal := nodeSignal(node); signal != "" {
			return false, signal
		}
	}
	return true, ""
}

// nodeSignal checks one element's inline style and class list.
func nodeSignal(node *html.Node) string {
	for _, attr := range node.Attr {
		switch attr.Key {
		case "style":
			if signal := styleSignal(attr.Val); signal != "" {
				return signal
			}
		case "class":
			for _, class := range strings.Fields(attr.Val) {
				for _, hidden := range hiddenClasses {
					if strings.EqualFold(class, hidden) {
						return models.SignalCSSClassHidden
					}
				}
			}
		}
	}
	return ""
}

// styleSignal parses an inline style attribute for suppression declarations.
func styleSignal(style string) string {
	for _, decl := range strings.Split(style, ";") {
		prop, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		val = strings.ToLower(strings.TrimSpace(val))
		switch prop {
		case "display":
			if val == "none" {
				return models.SignalDisplayNone
			}
		case "visibility":
			if val == "hidden" {
				return models.SignalVisibilityHidden
			}
		case "opacity":
			if val == "0" || val == "0.0" || val == "0%" {
				return models.SignalOpacityZero
			}
		}
	}
	return ""
}

// authorMeta pulls author name and publish date from the anchor's result
// card, when the surrounding markup carries them.
func authorMeta(anchor *goquery.Selection) *models.AuthorMeta {
	card := anchor.Closest("li, div.fds-ugc-body, div.total_area, div.bx")
	if card.Length() == 0 {
		return nil
	}

	name := strings.TrimSpace(card.Find(".name, .user_info .name, .fds-info-inner-text").First().Text())
	if name == "" {
		return nil
	}

	meta := &models.AuthorMeta{Name: name}
	dateText := strings.TrimSpace(card.Find(".date, .sub_time, .fds-info-sub-inner-text").First().Text())
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, dateText); err == nil {
			meta.PublishedAt = &ts
			break
		}
	}
	return meta
}
