package run

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"reviewscout/internal/config"
	"reviewscout/internal/review"
)

func testConfig() config.Config {
	return config.Config{
		NavTimeout:         30 * time.Second,
		CapterraNavTimeout: 20 * time.Second,
		MaxRounds:          5,
		RoundWait:          0,
	}
}

// fakePage serves one batch of records on the first evaluation and nothing
// afterwards, so the collection loop halts after a single stagnant round.
type fakePage struct {
	records []review.Review
	gotoErr error
	evals   int
	visited []string
	closed  bool
}

func (f *fakePage) Goto(_ context.Context, url string, _ time.Duration) error {
	f.visited = append(f.visited, url)
	return f.gotoErr
}

func (f *fakePage) Eval(_ context.Context, _ string, out any) error {
	f.evals++
	if f.evals == 1 {
		*(out.(*[]review.Review)) = f.records
	}
	return nil
}

func (f *fakePage) HTML(_ context.Context) (string, error) { return "", errors.New("no snapshot") }

func (f *fakePage) ClickFirst(_ context.Context, _, _ string) error { return errors.New("no control") }

func (f *fakePage) ScrollToBottom(_ context.Context) error { return nil }

func (f *fakePage) Wait(_ context.Context, _ time.Duration) {}

func (f *fakePage) Close() { f.closed = true }

// fakeSession hands out fakePages. The fan-out path opens sessions and pages
// from concurrent goroutines, so all mutable state is mutex-guarded.
type fakeSession struct {
	mu      sync.Mutex
	records []review.Review
	gotoErr error
	pages   []*fakePage
	closed  bool
}

func (f *fakeSession) NewPage() (Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := &fakePage{records: f.records, gotoErr: f.gotoErr}
	f.pages = append(f.pages, p)
	return p, nil
}

func (f *fakeSession) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

// sessionFactory tracks every session the runner opens.
type sessionFactory struct {
	mu       sync.Mutex
	records  []review.Review
	gotoErr  error
	sessions []*fakeSession
}

func (f *sessionFactory) New() (Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := &fakeSession{records: f.records, gotoErr: f.gotoErr}
	f.sessions = append(f.sessions, s)
	return s, nil
}

func (f *sessionFactory) all() []*fakeSession {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*fakeSession(nil), f.sessions...)
}

func newRunner(factory *sessionFactory) *Runner {
	return &Runner{
		Config:     testConfig(),
		NewSession: factory.New,
	}
}

func TestRunRejectsBadDatesBeforeSessionStart(t *testing.T) {
	factory := &sessionFactory{}
	rn := newRunner(factory)

	cases := []Params{
		{Company: "widgetly", Start: "not-a-date", End: "2024-06-30", Source: "g2"},
		{Company: "widgetly", Start: "2024-01-01", End: "garbage", Source: "g2"},
		{Company: "widgetly", Start: "2024-06-30", End: "2024-01-01", Source: "g2"},
	}
	for _, p := range cases {
		if _, err := rn.Run(context.Background(), p); err == nil {
			t.Fatalf("expected validation error for %+v", p)
		}
	}
	if len(factory.all()) != 0 {
		t.Fatalf("no browser session may start on invalid input")
	}
}

func TestRunRejectsUnknownSourceBeforeSessionStart(t *testing.T) {
	factory := &sessionFactory{}
	rn := newRunner(factory)
	_, err := rn.Run(context.Background(), Params{
		Company: "widgetly", Start: "2024-01-01", End: "2024-06-30", Source: "yelp",
	})
	if err == nil {
		t.Fatalf("expected error for unsupported source")
	}
	if len(factory.all()) != 0 {
		t.Fatalf("no browser session may start for an unsupported source")
	}
}

func TestRunWritesFilteredArtifact(t *testing.T) {
	outDir := t.TempDir()
	factory := &sessionFactory{records: []review.Review{
		{Title: "kept", Description: "solid tool", Date: "2024-03-15"},
		{Title: "dropped", Description: "old news", Date: "2023-12-31"},
	}}
	rn := newRunner(factory)

	results, err := rn.Run(context.Background(), Params{
		Company: "widgetly", Start: "2024-01-01", End: "2024-06-30",
		Source: "g2", OutDir: outDir,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	res := results[0]
	if res.Source != review.SourceG2 || res.Count != 1 {
		t.Fatalf("unexpected result %+v", res)
	}

	wantPath := filepath.Join(outDir, "widgetly_g2_20240101_to_20240630.json")
	if res.Path != wantPath {
		t.Fatalf("artifact path = %s, want %s", res.Path, wantPath)
	}
	data, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	var got []review.Review
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("artifact is not a JSON array: %v", err)
	}
	if len(got) != 1 || got[0].Title != "kept" || got[0].Source != review.SourceG2 {
		t.Fatalf("unexpected artifact contents %+v", got)
	}

	sessions := factory.all()
	if len(sessions) != 1 || !sessions[0].closed {
		t.Fatalf("the run's session must be closed, got %d sessions", len(sessions))
	}
	if len(sessions[0].pages) != 1 || !sessions[0].pages[0].closed {
		t.Fatalf("page must be closed after the run")
	}
}

func TestRunClosesSessionOnNavigationFailure(t *testing.T) {
	factory := &sessionFactory{gotoErr: errors.New("net::ERR_TIMED_OUT")}
	rn := newRunner(factory)

	_, err := rn.Run(context.Background(), Params{
		Company: "widgetly", Start: "2024-01-01", End: "2024-06-30",
		Source: "g2", OutDir: t.TempDir(),
	})
	if err == nil {
		t.Fatalf("expected navigation error")
	}
	sessions := factory.all()
	if len(sessions) != 1 || !sessions[0].closed {
		t.Fatalf("session must be closed when navigation fails")
	}
	if len(sessions[0].pages) != 1 || !sessions[0].pages[0].closed {
		t.Fatalf("page must be closed when navigation fails")
	}
}

func TestRunAllFansOutPerSource(t *testing.T) {
	outDir := t.TempDir()
	factory := &sessionFactory{records: []review.Review{
		{Title: "kept", Description: "works fine", Date: "2024-03-15"},
	}}
	rn := newRunner(factory)

	results, err := rn.Run(context.Background(), Params{
		Company: "widgetly", Start: "2024-01-01", End: "2024-06-30",
		Source: "all", OutDir: outDir,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	sessions := factory.all()
	if len(sessions) != 3 {
		t.Fatalf("each source must own its session, got %d", len(sessions))
	}
	for _, s := range sessions {
		if !s.closed {
			t.Fatalf("every fan-out session must be closed")
		}
		if len(s.pages) != 1 || !s.pages[0].closed {
			t.Fatalf("each session must drive exactly one closed page, got %d", len(s.pages))
		}
	}

	seen := map[review.Source]bool{}
	for _, res := range results {
		seen[res.Source] = true
		if _, err := os.Stat(res.Path); err != nil {
			t.Fatalf("missing artifact for %s: %v", res.Source, err)
		}
		if !strings.Contains(filepath.Base(res.Path), strings.ToLower(string(res.Source))) {
			t.Fatalf("artifact name must carry the source: %s", res.Path)
		}
	}
	for _, want := range []review.Source{review.SourceG2, review.SourceCapterra, review.SourceTrustRadius} {
		if !seen[want] {
			t.Fatalf("missing result for %s", want)
		}
	}
}

func TestWriteArtifactEmptyArray(t *testing.T) {
	outDir := t.TempDir()
	rng, _ := review.NewRange("2024-01-01", "2024-06-30")

	path, err := WriteArtifact(outDir, "widgetly", review.SourceCapterra, rng, nil)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Fatalf("zero records must serialize as [], got %q", string(data))
	}
}

func TestWriteArtifactPreservesNonASCII(t *testing.T) {
	outDir := t.TempDir()
	rng, _ := review.NewRange("2024-01-01", "2024-06-30")

	records := []review.Review{{Title: "très bon outil — « génial »", Description: "a < b && c > d"}}
	path, err := WriteArtifact(outDir, "widgetly", review.SourceG2, rng, records)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "très bon outil") {
		t.Fatalf("non-ASCII text must be preserved literally: %s", data)
	}
	if !strings.Contains(string(data), "a < b && c > d") {
		t.Fatalf("HTML escaping must be disabled: %s", data)
	}
}
