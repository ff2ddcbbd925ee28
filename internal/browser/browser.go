// Package browser wraps a headless Chromium instance managed by Rod behind
// the small page surface the collector drives: navigate, evaluate, click a
// labeled control, scroll, snapshot HTML.
package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

const (
	defaultStableWait = 500 * time.Millisecond
	controlTimeout    = 2 * time.Second
)

// ErrNoControl is returned by ClickFirst when no element matches the label
// patterns within the lookup deadline.
var ErrNoControl = errors.New("no matching control found")

// blockedResourceTypes lists network resource types the browser skips
// to save bandwidth, memory, and speed up page loads.
var blockedResourceTypes = []proto.NetworkResourceType{
	proto.NetworkResourceTypeImage,
	proto.NetworkResourceTypeFont,
	proto.NetworkResourceTypeMedia,
}

// Session owns one headless Chromium process. Create with NewSession; call
// Close when done. Pages created from one session share the process but not
// DOM state.
type Session struct {
	browser *rod.Browser
}

// NewSession launches a headless Chromium process via Rod's launcher.
// Returns an error if Chrome/Chromium cannot be started.
func NewSession(headless bool) (*Session, error) {
	u, err := launcher.New().
		Headless(headless).
		Set("disable-gpu").
		Set("no-sandbox").
		Set("disable-dev-shm-usage").
		Launch()
	if err != nil {
		return nil, fmt.Errorf("launch headless browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to headless browser: %w", err)
	}

	return &Session{browser: browser}, nil
}

// NewPage opens a fresh stealth tab with image/font/media requests blocked.
func (s *Session) NewPage(stableWait time.Duration) (*Page, error) {
	page, err := stealth.Page(s.browser)
	if err != nil {
		return nil, fmt.Errorf("create tab: %w", err)
	}

	router := page.HijackRequests()
	for _, rt := range blockedResourceTypes {
		rt := rt
		_ = router.Add("*", rt, func(h *rod.Hijack) {
			h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
		})
	}
	go router.Run()

	if stableWait <= 0 {
		stableWait = defaultStableWait
	}
	return &Page{page: page, router: router, stableWait: stableWait}, nil
}

// Close shuts down the headless browser process.
func (s *Session) Close() {
	_ = s.browser.Close()
}

// Page is a live handle to one rendered tab.
type Page struct {
	page       *rod.Page
	router     *rod.HijackRouter
	stableWait time.Duration
}

// Goto navigates to pageURL and waits for the DOM to stabilize. The timeout
// covers navigation and the stability wait together.
func (p *Page) Goto(ctx context.Context, pageURL string, timeout time.Duration) error {
	navCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	page := p.page.Context(navCtx)
	if err := page.Navigate(pageURL); err != nil {
		return fmt.Errorf("navigate to %s: %w", pageURL, err)
	}
	_ = page.WaitStable(p.stableWait)
	return nil
}

// Eval runs js (a zero-argument function expression) in the page and decodes
// the JSON-serializable result into out.
func (p *Page) Eval(ctx context.Context, js string, out any) error {
	res, err := p.page.Context(ctx).Eval(js)
	if err != nil {
		return fmt.Errorf("evaluate script: %w", err)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal([]byte(res.Value.JSON("", "")), out); err != nil {
		return fmt.Errorf("decode script result: %w", err)
	}
	return nil
}

// ClickFirst locates the first clickable element whose visible text matches
// labelRegex (a JS-style regex such as "/load more|next/i") and clicks it.
// Returns ErrNoControl when nothing matches within the lookup deadline.
func (p *Page) ClickFirst(ctx context.Context, selector, labelRegex string) error {
	el, err := p.page.Context(ctx).Timeout(controlTimeout).ElementR(selector, labelRegex)
	if err != nil {
		return ErrNoControl
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click control: %w", err)
	}
	return nil
}

// ScrollToBottom scrolls the window by one full document height.
func (p *Page) ScrollToBottom(ctx context.Context) error {
	_, err := p.page.Context(ctx).Eval(`() => { window.scrollBy(0, document.body.scrollHeight); }`)
	if err != nil {
		return fmt.Errorf("scroll to bottom: %w", err)
	}
	return nil
}

// HTML returns the current rendered document.
func (p *Page) HTML(ctx context.Context) (string, error) {
	html, err := p.page.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("get page HTML: %w", err)
	}
	return html, nil
}

// Wait sleeps for d or until ctx is done, whichever comes first.
func (p *Page) Wait(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// Close stops request interception and closes the tab.
func (p *Page) Close() {
	if p.router != nil {
		_ = p.router.Stop()
	}
	_ = p.page.Close()
}
