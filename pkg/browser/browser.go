// Package browser manages a playwright browser session: engine selection, launch,
// a single page with its context, screenshots and teardown.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/umputun/aiprobe/pkg/report"
	"github.com/umputun/aiprobe/pkg/waiter"
)

// ErrNotInitialized is returned by session operations when there is no open page.
var ErrNotInitialized = errors.New("browser not initialized")

// Viewport is the page size in CSS pixels.
type Viewport struct {
	Width  int
	Height int
}

// Options configure Launch.
type Options struct {
	Name              string // chromium, firefox or webkit, case-insensitive
	Headless          bool
	SlowMo            time.Duration
	Viewport          *Viewport // nil keeps the engine default
	NavigationTimeout time.Duration
	Stabilization     waiter.Config
	Screenshots       *report.Dirs // nil disables screenshots
}

// Session owns the playwright driver, one browser, one context and one page.
type Session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	bctx    playwright.BrowserContext
	page    playwright.Page
	opts    Options
}

// Launch starts playwright and opens a page in the requested browser.
// Everything started so far is closed when a later step fails.
func Launch(opts Options) (*Session, error) {
	name := strings.ToLower(strings.TrimSpace(opts.Name))
	if !supported(name) {
		return nil, fmt.Errorf("unsupported browser: %s", opts.Name)
	}
	opts.Name = name

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("run playwright: %w", err)
	}
	s := &Session{pw: pw, opts: opts}

	bt := engine(pw, name)
	if bt == nil {
		s.Close()
		return nil, fmt.Errorf("unsupported browser: %s", opts.Name)
	}
	if s.browser, err = bt.Launch(launchOptions(opts)); err != nil {
		s.Close()
		return nil, fmt.Errorf("launch %s: %w", name, err)
	}
	if s.bctx, err = s.browser.NewContext(contextOptions(opts)); err != nil {
		s.Close()
		return nil, fmt.Errorf("create browser context: %w", err)
	}
	if s.page, err = s.bctx.NewPage(); err != nil {
		s.Close()
		return nil, fmt.Errorf("create page: %w", err)
	}
	if opts.NavigationTimeout > 0 {
		s.page.SetDefaultNavigationTimeout(ms(opts.NavigationTimeout))
	}
	return s, nil
}

// Install downloads browser engines and the playwright driver. No names means all engines.
func Install(browsers ...string) error {
	if err := playwright.Install(&playwright.RunOptions{Browsers: browsers}); err != nil {
		return fmt.Errorf("install playwright: %w", err)
	}
	return nil
}

// Close releases page, context, browser and driver in that order. Errors are ignored,
// references are reset, so Close can be called any number of times.
func (s *Session) Close() {
	if s.page != nil {
		_ = s.page.Close()
		s.page = nil
	}
	if s.bctx != nil {
		_ = s.bctx.Close()
		s.bctx = nil
	}
	if s.browser != nil {
		_ = s.browser.Close()
		s.browser = nil
	}
	if s.pw != nil {
		_ = s.pw.Stop()
		s.pw = nil
	}
}

// Page returns the underlying playwright page, nil after Close.
func (s *Session) Page() playwright.Page {
	return s.page
}

// Name returns the browser engine name.
func (s *Session) Name() string {
	return s.opts.Name
}

// Goto navigates to url and waits until the network is idle.
func (s *Session) Goto(url string) error {
	if s.page == nil {
		return ErrNotInitialized
	}
	if _, err := s.page.Goto(url, playwright.PageGotoOptions{WaitUntil: playwright.WaitUntilStateNetworkidle}); err != nil {
		return fmt.Errorf("goto %s: %w", url, err)
	}
	return nil
}

// Click clicks the first element matching selector.
func (s *Session) Click(selector string) error {
	if s.page == nil {
		return ErrNotInitialized
	}
	return s.page.Locator(selector).First().Click()
}

// Fill replaces the value of the first input matching selector.
func (s *Session) Fill(selector, text string) error {
	if s.page == nil {
		return ErrNotInitialized
	}
	return s.page.Locator(selector).First().Fill(text)
}

// Press presses a key on the page keyboard, e.g. "Enter".
func (s *Session) Press(key string) error {
	if s.page == nil {
		return ErrNotInitialized
	}
	return s.page.Keyboard().Press(key)
}

// Text returns the text content of the first matching element, empty if none matches.
func (s *Session) Text(selector string) (string, error) {
	if s.page == nil {
		return "", ErrNotInitialized
	}
	loc := s.page.Locator(selector)
	n, err := loc.Count()
	if err != nil {
		return "", fmt.Errorf("count %s: %w", selector, err)
	}
	if n == 0 {
		return "", nil
	}
	return loc.First().TextContent()
}

// WaitVisible waits up to timeout for the first matching element to be visible.
func (s *Session) WaitVisible(selector string, timeout time.Duration) error {
	if s.page == nil {
		return ErrNotInitialized
	}
	return s.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(ms(timeout)),
	})
}

// IsVisible reports whether the first matching element is visible, false on any error.
func (s *Session) IsVisible(selector string) bool {
	if s.page == nil {
		return false
	}
	ok, err := s.page.Locator(selector).First().IsVisible()
	return err == nil && ok
}

// IsEnabled reports whether the first matching element exists and is enabled.
func (s *Session) IsEnabled(selector string) bool {
	if s.page == nil {
		return false
	}
	loc := s.page.Locator(selector)
	if n, err := loc.Count(); err != nil || n == 0 {
		return false
	}
	ok, err := loc.First().IsEnabled()
	return err == nil && ok
}

// Title returns the document title.
func (s *Session) Title() (string, error) {
	if s.page == nil {
		return "", ErrNotInitialized
	}
	return s.page.Title()
}

// URL returns the current page url, empty without a page.
func (s *Session) URL() string {
	if s.page == nil {
		return ""
	}
	return s.page.URL()
}

// WaitForLoad waits for the network to become idle.
func (s *Session) WaitForLoad() error {
	if s.page == nil {
		return ErrNotInitialized
	}
	return s.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{State: playwright.LoadStateNetworkidle})
}

// Screenshot saves a full page PNG named after name into the screenshots directory and returns its path.
func (s *Session) Screenshot(name string) (string, error) {
	if s.page == nil {
		return "", ErrNotInitialized
	}
	if s.opts.Screenshots == nil {
		return "", errors.New("screenshots directory not configured")
	}
	if err := s.opts.Screenshots.Ensure(); err != nil {
		return "", err
	}
	path := s.opts.Screenshots.ScreenshotPath(name)
	if _, err := s.page.Screenshot(playwright.PageScreenshotOptions{Path: playwright.String(path), FullPage: playwright.Bool(true)}); err != nil {
		return "", fmt.Errorf("screenshot %s: %w", name, err)
	}
	return path, nil
}

// SetViewport resizes the page.
func (s *Session) SetViewport(width, height int) error {
	if s.page == nil {
		return ErrNotInitialized
	}
	return s.page.SetViewportSize(width, height)
}

// Evaluate runs a javascript expression in the page.
func (s *Session) Evaluate(expression string, args ...any) (any, error) {
	if s.page == nil {
		return nil, ErrNotInitialized
	}
	return s.page.Evaluate(expression, args...)
}

// WaitForAIResponse waits for selector to show up, then for its text to stop changing.
// timeout is the budget for both steps together, zero uses the configured stabilization max wait.
// When showing up takes the whole budget, the current text is returned with waiter.OutcomeTimedOut.
func (s *Session) WaitForAIResponse(ctx context.Context, selector string, timeout time.Duration) (waiter.Result, error) {
	if s.page == nil {
		return waiter.Result{}, ErrNotInitialized
	}
	cfg := s.opts.Stabilization
	if timeout > 0 {
		cfg.MaxWait = timeout
	}
	if err := cfg.Validate(); err != nil {
		return waiter.Result{}, err
	}

	start := time.Now()
	if err := s.WaitVisible(selector, cfg.MaxWait); err != nil {
		return waiter.Result{}, fmt.Errorf("wait for %s: %w", selector, err)
	}
	sample := func(context.Context) (string, error) { return s.Text(selector) }

	rest, ok := remainingWait(cfg, time.Since(start))
	if !ok {
		text, err := sample(ctx)
		if err != nil {
			return waiter.Result{}, err
		}
		return waiter.Result{Outcome: waiter.OutcomeTimedOut, Value: text, Polls: 1}, nil
	}
	return waiter.WaitForStable(ctx, sample, rest)
}

// remainingWait shrinks MaxWait by the time already spent. false means nothing is left.
func remainingWait(cfg waiter.Config, spent time.Duration) (waiter.Config, bool) {
	cfg.MaxWait -= spent
	return cfg, cfg.MaxWait > 0
}

var engines = []string{"chromium", "firefox", "webkit"}

func supported(name string) bool {
	for _, e := range engines {
		if e == name {
			return true
		}
	}
	return false
}

// engine picks the browser type for a normalized name.
func engine(pw *playwright.Playwright, name string) playwright.BrowserType {
	switch name {
	case "chromium":
		return pw.Chromium
	case "firefox":
		return pw.Firefox
	case "webkit":
		return pw.WebKit
	}
	return nil
}

func launchOptions(opts Options) playwright.BrowserTypeLaunchOptions {
	lo := playwright.BrowserTypeLaunchOptions{Headless: playwright.Bool(opts.Headless)}
	if opts.SlowMo > 0 {
		lo.SlowMo = playwright.Float(ms(opts.SlowMo))
	}
	return lo
}

func contextOptions(opts Options) playwright.BrowserNewContextOptions {
	var co playwright.BrowserNewContextOptions
	if opts.Viewport != nil {
		co.Viewport = &playwright.Size{Width: opts.Viewport.Width, Height: opts.Viewport.Height}
	}
	return co
}

func ms(d time.Duration) float64 {
	return float64(d / time.Millisecond)
}
