// Package extract pulls candidate review records out of a rendered page.
// Markup is unknown in advance, so extraction is heuristic: an over-inclusive
// structural query, a minimum-text gate, and per-field selector cascades.
package extract

import (
	"context"

	"reviewscout/internal/review"
	"reviewscout/pkg/logging"
)

// reviewScript runs inside the page. It mirrors the goquery fallback in
// html.go; keep the two in sync when tuning selectors.
const reviewScript = `() => {
	const nodes = Array.from(document.querySelectorAll('[class*="review"], [data-testid*="review"], [aria-label*="review"], article, div'));
	const candidates = [];
	for (const n of nodes) {
		const txt = n.innerText || "";
		if (txt.length < 50) continue;
		const low = txt.toLowerCase();
		if (!(low.includes("review") || low.includes("stars") || /\b\d{4}-\d{2}-\d{2}\b/.test(low) || /\b\d{1,2}\s+(days|months|years)\b/.test(low))) continue;
		candidates.push(n);
	}
	const results = [];
	const seen = new Set();
	for (const c of candidates) {
		let title = "";
		let body = "";
		let date = "";
		let rating = "";
		let reviewer = "";

		const h = c.querySelector('h1, h2, h3, .review-title, [class*="title"]');
		if (h) title = h.innerText.trim();

		const bodyNode = c.querySelector('.review-text, .review-body, [class*="comment"], [class*="content"], p');
		if (bodyNode) {
			body = bodyNode.innerText.trim();
		} else {
			const lines = c.innerText.trim().split('\n').map(s => s.trim()).filter(Boolean);
			if (lines.length >= 2) {
				body = lines.slice(1).join(' ');
				if (!title) title = lines[0];
			} else {
				body = c.innerText.trim();
			}
		}

		const t = c.querySelector('time') || c.querySelector('[class*="date"], [class*="posted"]');
		if (t) date = t.getAttribute('datetime') || t.innerText.trim();

		const r = c.querySelector('[aria-label*="star"], [class*="rating"], [class*="stars"]');
		if (r) rating = r.getAttribute('aria-label') || r.innerText.trim();

		const rev = c.querySelector('[class*="author"], [class*="user"], [class*="reviewer"]');
		if (rev) reviewer = rev.innerText.trim();

		const key = (title + '|' + body.slice(0, 80)).slice(0, 200);
		if (seen.has(key)) continue;
		seen.add(key);

		results.push({title: title, description: body, date: date, rating: rating, reviewer: reviewer});
	}
	return results;
}`

// Pager is the read-only page surface extraction needs.
type Pager interface {
	Eval(ctx context.Context, js string, out any) error
	HTML(ctx context.Context) (string, error)
}

// Extractor runs the heuristic extraction pass against live pages.
type Extractor struct {
	logger logging.Logger
}

// New returns an Extractor. logger may be nil.
func New(logger logging.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract returns the deduplicated candidate records visible in the page's
// current DOM state. It never navigates and never fails: an in-page
// evaluation error falls back to a static parse of the rendered HTML, and if
// that fails too the pass yields zero records.
func (e *Extractor) Extract(ctx context.Context, page Pager) []review.Review {
	var records []review.Review
	if err := page.Eval(ctx, reviewScript, &records); err == nil {
		return records
	} else if e.logger != nil {
		e.logger.WithError(err).Warn("In-page extraction failed, falling back to HTML parse")
	}

	html, err := page.HTML(ctx)
	if err != nil {
		if e.logger != nil {
			e.logger.WithError(err).Warn("HTML snapshot failed, extraction pass yields no records")
		}
		return nil
	}
	records, err = FromHTML(html)
	if err != nil {
		if e.logger != nil {
			e.logger.WithError(err).Warn("HTML parse failed, extraction pass yields no records")
		}
		return nil
	}
	return records
}
