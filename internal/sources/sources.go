// Package sources holds the per-site policy: URL construction with
// fallbacks, record normalization, and the shared date-range filter.
package sources

import (
	"context"
	"fmt"
	"strings"
	"time"

	"reviewscout/internal/config"
	"reviewscout/internal/review"
)

// Navigator is the page surface adapters drive while opening a target.
type Navigator interface {
	Goto(ctx context.Context, url string, timeout time.Duration) error
}

// Adapter encapsulates one review site's navigation and normalization
// policy. Adapters are stateless; the same adapter may serve many runs.
type Adapter interface {
	Name() review.Source
	// URLs returns the candidate URLs for a product slug, most specific
	// first. Single-URL adapters are fatal on navigation failure; multi-URL
	// adapters fail only once every variant is exhausted.
	URLs(slug string) []string
	Timeout() time.Duration
	// Normalize canonicalizes the date field where possible and tags the
	// record with the adapter's source.
	Normalize(r review.Review) review.Review
}

// ForName resolves an adapter by case-insensitive source name. TrustRadius
// also accepts the "trust radius" / "trust-radius" spellings.
func ForName(name string, cfg config.Config) (Adapter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "g2":
		return NewG2(cfg.NavTimeout), nil
	case "capterra":
		return NewCapterra(cfg.CapterraNavTimeout), nil
	case "trustradius", "trust radius", "trust-radius":
		return NewTrustRadius(cfg.NavTimeout), nil
	default:
		return nil, fmt.Errorf("unsupported source %q: choose g2, capterra or trustradius", name)
	}
}

// All returns every supported adapter.
func All(cfg config.Config) []Adapter {
	return []Adapter{
		NewG2(cfg.NavTimeout),
		NewCapterra(cfg.CapterraNavTimeout),
		NewTrustRadius(cfg.NavTimeout),
	}
}

// Open navigates to the first adapter URL the page accepts. On exhaustion it
// returns an error naming the slug and every attempted URL.
func Open(ctx context.Context, nav Navigator, a Adapter, slug string) error {
	urls := a.URLs(slug)
	var lastErr error
	for _, u := range urls {
		if err := nav.Goto(ctx, u, a.Timeout()); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("could not open %s page for slug %q (tried %s): %w",
		a.Name(), slug, strings.Join(urls, ", "), lastErr)
}

// FilterRange applies the shared date policy in a single pass: a record
// whose date parses and falls outside the range is dropped; a record whose
// date cannot be parsed is kept verbatim.
func FilterRange(records []review.Review, rng review.Range) []review.Review {
	var kept []review.Review
	for _, r := range records {
		d, ok := review.ParseDate(r.Date)
		switch {
		case ok && !rng.Contains(d):
			filterOutcomesTotal.WithLabelValues("dropped_out_of_range").Inc()
			continue
		case ok:
			filterOutcomesTotal.WithLabelValues("kept_in_range").Inc()
		default:
			filterOutcomesTotal.WithLabelValues("kept_unparseable").Inc()
		}
		kept = append(kept, r)
	}
	return kept
}

// normalizeDate canonicalizes r.Date to YYYY-MM-DD when it parses; the raw
// fragment is preserved otherwise. When descFallback is set and the date
// field itself fails, the first 50 characters of the description are tried
// as a date (some sites embed the date inline in body text).
func normalizeDate(r review.Review, source review.Source, descFallback bool) review.Review {
	d, ok := review.ParseDate(r.Date)
	if !ok && descFallback {
		d, ok = review.ParseDate(prefixRunes(r.Description, 50))
	}
	if ok {
		r.Date = review.ISODate(d)
	}
	r.Source = source
	return r
}

func prefixRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
