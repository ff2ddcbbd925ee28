package sources

import (
	"fmt"
	"time"

	"reviewscout/internal/review"
)

// G2 serves a single product-reviews URL; navigation failure is fatal.
type G2 struct {
	timeout time.Duration
}

func NewG2(timeout time.Duration) *G2 {
	return &G2{timeout: timeout}
}

func (g *G2) Name() review.Source { return review.SourceG2 }

func (g *G2) URLs(slug string) []string {
	return []string{fmt.Sprintf("https://www.g2.com/products/%s/reviews", slug)}
}

func (g *G2) Timeout() time.Duration { return g.timeout }

// Normalize tries the raw date field first and falls back to parsing the
// start of the description, since G2 sometimes renders the date inline in
// body text rather than as a discrete field.
func (g *G2) Normalize(r review.Review) review.Review {
	return normalizeDate(r, review.SourceG2, true)
}
