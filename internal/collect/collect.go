// Package collect drives repeated extraction and pagination against a live
// page until the page stops yielding new records or the round cap is hit.
package collect

import (
	"context"
	"time"

	"reviewscout/internal/extract"
	"reviewscout/internal/review"
	"reviewscout/pkg/logging"
)

const (
	defaultMaxRounds = 40
	defaultRoundWait = 800 * time.Millisecond

	paginationSelector = "button, a"
	paginationLabels   = "/load more|next/i"
)

// Pager is the page surface one collection loop drives. Implementations are
// single-writer: a Pager must never be shared across concurrent loops.
type Pager interface {
	extract.Pager
	ClickFirst(ctx context.Context, selector, labelRegex string) error
	ScrollToBottom(ctx context.Context) error
	Wait(ctx context.Context, d time.Duration)
}

// Extractor runs one read-only extraction pass against the page's current
// DOM state.
type Extractor interface {
	Extract(ctx context.Context, page extract.Pager) []review.Review
}

// Collector accumulates records across pagination rounds.
type Collector struct {
	extractor Extractor
	logger    logging.Logger
	maxRounds int
	roundWait time.Duration
}

// Option configures a Collector.
type Option func(*Collector)

// WithMaxRounds caps the number of collection rounds.
func WithMaxRounds(n int) Option {
	return func(c *Collector) {
		if n > 0 {
			c.maxRounds = n
		}
	}
}

// WithRoundWait sets the settle time after each pagination action.
func WithRoundWait(d time.Duration) Option {
	return func(c *Collector) {
		if d >= 0 {
			c.roundWait = d
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger logging.Logger) Option {
	return func(c *Collector) { c.logger = logger }
}

// New returns a Collector with the default round cap and wait.
func New(extractor Extractor, opts ...Option) *Collector {
	c := &Collector{
		extractor: extractor,
		maxRounds: defaultMaxRounds,
		roundWait: defaultRoundWait,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// state is the accumulation owned by a single Collect call. It is mutated
// only by the loop below and discarded when the loop ends.
type state struct {
	records []review.Review
	seen    map[string]bool
	lastLen int
}

// merge appends records whose cross-round key has not been seen before and
// returns how many were new.
func (s *state) merge(found []review.Review) int {
	newCount := 0
	for _, r := range found {
		key := review.MergeKey(r.Title, r.Description)
		if s.seen[key] {
			continue
		}
		s.seen[key] = true
		s.records = append(s.records, r)
		newCount++
	}
	return newCount
}

// Collect runs up to the configured number of rounds: extract, merge,
// advance (load-more click or scroll). The loop halts once a round produces
// zero new records and the accumulated length did not grow; both gates are
// checked independently. Accumulation is monotone non-decreasing, and
// extraction or interaction failures never abort the loop.
func (c *Collector) Collect(ctx context.Context, page Pager) []review.Review {
	st := &state{seen: make(map[string]bool)}

	rounds := 0
	for ; rounds < c.maxRounds; rounds++ {
		if ctx.Err() != nil {
			break
		}

		found := c.extractor.Extract(ctx, page)
		if len(found) == 0 {
			extractPassesTotal.WithLabelValues("empty").Inc()
		} else {
			extractPassesTotal.WithLabelValues("ok").Inc()
		}

		newCount := st.merge(found)
		recordsCollectedTotal.Add(float64(newCount))
		if c.logger != nil {
			c.logger.
				WithField("round", rounds).
				WithField("found", len(found)).
				WithField("new", newCount).
				WithField("total", len(st.records)).
				Debug("Collection round complete")
		}

		c.advance(ctx, page)

		if newCount == 0 && len(st.records) == st.lastLen {
			break
		}
		st.lastLen = len(st.records)
	}

	collectRounds.Observe(float64(rounds + 1))
	if c.logger != nil {
		c.logger.
			WithField("rounds", rounds+1).
			WithField("records", len(st.records)).
			Info("Collection loop finished")
	}
	return st.records
}

// advance tries a labeled load-more/next control first and falls back to a
// full-page scroll; either way the page gets the configured settle time. A
// click or scroll failure degrades, it never propagates.
func (c *Collector) advance(ctx context.Context, page Pager) {
	if err := page.ClickFirst(ctx, paginationSelector, paginationLabels); err == nil {
		paginationActionsTotal.WithLabelValues("click").Inc()
	} else {
		if scrollErr := page.ScrollToBottom(ctx); scrollErr != nil {
			if c.logger != nil {
				c.logger.WithError(scrollErr).Warn("Scroll fallback failed, waiting out the round")
			}
		}
		paginationActionsTotal.WithLabelValues("scroll").Inc()
	}
	page.Wait(ctx, c.roundWait)
}
