// Package run ties one invocation together: input validation, adapter
// selection, browser-session lifecycle, collection, filtering, and the
// output artifact.
package run

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"reviewscout/internal/collect"
	"reviewscout/internal/config"
	"reviewscout/internal/extract"
	"reviewscout/internal/review"
	"reviewscout/internal/sources"
	"reviewscout/pkg/logging"
)

// Page is one live tab: navigation plus the collection surface.
type Page interface {
	collect.Pager
	Goto(ctx context.Context, url string, timeout time.Duration) error
	Close()
}

// Session owns a browser process for the duration of one run.
type Session interface {
	NewPage() (Page, error)
	Close()
}

// Params are the validated-at-the-boundary inputs of one run.
type Params struct {
	Company string
	Start   string
	End     string
	Source  string // g2 | capterra | trustradius | all
	OutDir  string
}

// Result summarizes one source's run.
type Result struct {
	Source review.Source
	Count  int
	Path   string
}

// Runner executes scrape runs. NewSession is called once per scraped
// source; every session is closed on every exit path.
type Runner struct {
	Config     config.Config
	Logger     logging.Logger
	NewSession func() (Session, error)
}

// Run validates inputs, opens a browser session, and scrapes the requested
// source (or all of them). Validation failures surface before any browser
// or network activity.
func (rn *Runner) Run(ctx context.Context, p Params) ([]Result, error) {
	rng, err := review.NewRange(p.Start, p.End)
	if err != nil {
		return nil, err
	}

	var adapters []sources.Adapter
	if strings.EqualFold(strings.TrimSpace(p.Source), "all") {
		adapters = sources.All(rn.Config)
	} else {
		adapter, err := sources.ForName(p.Source, rn.Config)
		if err != nil {
			return nil, err
		}
		adapters = []sources.Adapter{adapter}
	}

	var results []Result
	if len(adapters) == 1 {
		session, err := rn.NewSession()
		if err != nil {
			return nil, fmt.Errorf("start browser session: %w", err)
		}
		defer session.Close()

		result, err := rn.runSource(ctx, session, adapters[0], p, rng)
		if err != nil {
			return nil, err
		}
		results = []Result{result}
	} else {
		// Fan-out across sources. Each source owns its browser session and
		// page; no mutable state crosses that boundary.
		results = make([]Result, len(adapters))
		g, gctx := errgroup.WithContext(ctx)
		for i, adapter := range adapters {
			i, adapter := i, adapter
			g.Go(func() error {
				session, err := rn.NewSession()
				if err != nil {
					return fmt.Errorf("start browser session: %w", err)
				}
				defer session.Close()

				result, err := rn.runSource(gctx, session, adapter, p, rng)
				if err != nil {
					return err
				}
				results[i] = result
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	rn.logMetrics()
	return results, nil
}

// runSource is the sequential per-source flow: open, collect, normalize,
// filter, write.
func (rn *Runner) runSource(ctx context.Context, session Session, adapter sources.Adapter, p Params, rng review.Range) (Result, error) {
	page, err := session.NewPage()
	if err != nil {
		return Result{}, fmt.Errorf("open page: %w", err)
	}
	defer page.Close()

	if rn.Logger != nil {
		rn.Logger.
			WithField("source", adapter.Name()).
			WithField("company", p.Company).
			Info("Opening review listing")
	}
	if err := sources.Open(ctx, page, adapter, p.Company); err != nil {
		return Result{}, err
	}

	collector := collect.New(
		extract.New(rn.Logger),
		collect.WithMaxRounds(rn.Config.MaxRounds),
		collect.WithRoundWait(rn.Config.RoundWait),
		collect.WithLogger(rn.Logger),
	)
	collected := collector.Collect(ctx, page)

	normalized := make([]review.Review, 0, len(collected))
	for _, r := range collected {
		normalized = append(normalized, adapter.Normalize(r))
	}
	kept := sources.FilterRange(normalized, rng)

	path, err := WriteArtifact(p.OutDir, p.Company, adapter.Name(), rng, kept)
	if err != nil {
		return Result{}, err
	}

	if rn.Logger != nil {
		rn.Logger.
			WithField("source", adapter.Name()).
			WithField("collected", len(collected)).
			WithField("kept", len(kept)).
			WithField("path", path).
			Info("Run complete")
	}
	return Result{Source: adapter.Name(), Count: len(kept), Path: path}, nil
}
