package sources

import (
	"fmt"
	"time"

	"reviewscout/internal/review"
)

// Capterra product pages are addressed inconsistently, so three URL shapes
// are tried in order: the direct reviews path, a search-query path, and the
// bare product path.
type Capterra struct {
	timeout time.Duration
}

func NewCapterra(timeout time.Duration) *Capterra {
	return &Capterra{timeout: timeout}
}

func (c *Capterra) Name() review.Source { return review.SourceCapterra }

func (c *Capterra) URLs(slug string) []string {
	return []string{
		fmt.Sprintf("https://www.capterra.com/p/%s/reviews/", slug),
		fmt.Sprintf("https://www.capterra.com/search?q=%s", slug),
		fmt.Sprintf("https://www.capterra.com/p/%s/", slug),
	}
}

func (c *Capterra) Timeout() time.Duration { return c.timeout }

func (c *Capterra) Normalize(r review.Review) review.Review {
	return normalizeDate(r, review.SourceCapterra, false)
}
