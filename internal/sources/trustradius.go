package sources

import (
	"fmt"
	"time"

	"reviewscout/internal/review"
)

// TrustRadius serves a single product-reviews URL; navigation failure is
// fatal, matching G2.
type TrustRadius struct {
	timeout time.Duration
}

func NewTrustRadius(timeout time.Duration) *TrustRadius {
	return &TrustRadius{timeout: timeout}
}

func (t *TrustRadius) Name() review.Source { return review.SourceTrustRadius }

func (t *TrustRadius) URLs(slug string) []string {
	return []string{fmt.Sprintf("https://www.trustradius.com/products/%s/reviews", slug)}
}

func (t *TrustRadius) Timeout() time.Duration { return t.timeout }

func (t *TrustRadius) Normalize(r review.Review) review.Review {
	return normalizeDate(r, review.SourceTrustRadius, false)
}
