package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"reviewscout/internal/review"
)

// minCandidateChars is the visible-text floor below which a node cannot be a
// real review.
const minCandidateChars = 50

const candidateSelector = `[class*="review"], [data-testid*="review"], [aria-label*="review"], article, div`

var (
	isoDatePattern      = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	relativeTimePattern = regexp.MustCompile(`\b\d{1,2}\s+(days|months|years)\b`)
)

// strategy tries to pull one field out of a candidate node; empty string
// means "no match, try the next one".
type strategy func(*goquery.Selection) string

func firstMatchText(selector string) strategy {
	return func(s *goquery.Selection) string {
		return strings.TrimSpace(s.Find(selector).First().Text())
	}
}

// attrThenText resolves the first node matching selector and prefers the
// given attribute over its visible text. Star ratings are often glyph-only,
// so aria-label carries the value the text does not.
func attrThenText(selector, attr string) strategy {
	return func(s *goquery.Selection) string {
		node := s.Find(selector).First()
		if node.Length() == 0 {
			return ""
		}
		if v, ok := node.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return strings.TrimSpace(node.Text())
	}
}

var (
	titleStrategies = []strategy{
		firstMatchText("h1, h2, h3"),
		firstMatchText(".review-title"),
		firstMatchText(`[class*="title"]`),
	}
	bodyStrategies = []strategy{
		firstMatchText(".review-text, .review-body"),
		firstMatchText(`[class*="comment"], [class*="content"]`),
		firstMatchText("p"),
	}
	dateStrategies = []strategy{
		attrThenText("time", "datetime"),
		firstMatchText(`[class*="date"], [class*="posted"]`),
	}
	ratingStrategies = []strategy{
		attrThenText(`[aria-label*="star"], [class*="rating"], [class*="stars"]`, "aria-label"),
	}
	reviewerStrategies = []strategy{
		firstMatchText(`[class*="author"], [class*="user"], [class*="reviewer"]`),
	}
)

func applyStrategies(s *goquery.Selection, strategies []strategy) string {
	for _, try := range strategies {
		if v := try(s); v != "" {
			return v
		}
	}
	return ""
}

// FromHTML runs the same heuristics as the in-page script against a static
// HTML snapshot. Used as the fallback when in-page evaluation fails, and by
// tests that exercise the heuristics without a browser.
func FromHTML(pageHTML string) ([]review.Review, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil, err
	}

	var records []review.Review
	seen := make(map[string]bool)

	doc.Find(candidateSelector).Each(func(_ int, s *goquery.Selection) {
		text := visibleText(s)
		if len([]rune(text)) < minCandidateChars {
			return
		}
		if !hasReviewSignal(text) {
			return
		}

		title := applyStrategies(s, titleStrategies)
		body := applyStrategies(s, bodyStrategies)
		if body == "" {
			title, body = splitLines(text, title)
		}

		rec := review.Review{
			Title:       title,
			Description: body,
			Date:        applyStrategies(s, dateStrategies),
			Rating:      applyStrategies(s, ratingStrategies),
			Reviewer:    applyStrategies(s, reviewerStrategies),
		}

		key := review.PassKey(rec.Title, rec.Description)
		if seen[key] {
			return
		}
		seen[key] = true
		records = append(records, rec)
	})

	return records, nil
}

// hasReviewSignal reports whether the text carries at least one
// review-indicating token: the words "review" or "stars", an ISO-shaped
// date, or a short relative-time phrase.
func hasReviewSignal(text string) bool {
	low := strings.ToLower(text)
	return strings.Contains(low, "review") ||
		strings.Contains(low, "stars") ||
		isoDatePattern.MatchString(low) ||
		relativeTimePattern.MatchString(low)
}

// splitLines is the last-resort title/body split: first non-empty line is
// the title, the remainder joined is the body. With fewer than two lines the
// whole text becomes the body and any already-found title is kept.
func splitLines(text, existingTitle string) (string, string) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) >= 2 {
		title := existingTitle
		if title == "" {
			title = lines[0]
		}
		return title, strings.Join(lines[1:], " ")
	}
	return existingTitle, strings.TrimSpace(text)
}

// visibleText approximates innerText: block-level boundaries become line
// breaks, inline text nodes are joined with spaces, script/style content is
// skipped.
func visibleText(s *goquery.Selection) string {
	var builder strings.Builder
	for _, node := range s.Nodes {
		writeNodeText(&builder, node)
	}

	var lines []string
	for _, line := range strings.Split(builder.String(), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func writeNodeText(builder *strings.Builder, n *html.Node) {
	if n.Type == html.ElementNode {
		switch strings.ToLower(n.Data) {
		case "script", "style", "noscript", "template":
			return
		case "p", "div", "section", "article", "li", "br",
			"h1", "h2", "h3", "h4", "h5", "h6", "blockquote", "tr":
			builder.WriteString("\n")
		}
	}
	if n.Type == html.TextNode {
		text := strings.TrimSpace(n.Data)
		if text != "" {
			builder.WriteString(text)
			builder.WriteString(" ")
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		writeNodeText(builder, child)
	}
}
