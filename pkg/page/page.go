// Package page implements page objects for the application under test.
// Page objects drive the browser through the Driver interface, so they can be unit tested
// with a mock and run against a real playwright session in e2e tests.
package page

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

//go:generate moq -out mocks/driver.go -pkg mocks -skip-ensure -fmt goimports . Driver

// DefaultTimeout is the element wait timeout used when zero is passed.
const DefaultTimeout = 30 * time.Second

// ErrNoURL is returned by Navigate when neither an explicit url nor a page path is set.
var ErrNoURL = errors.New("no URL specified")

// Driver is the browser capability set page objects rely on.
type Driver interface {
	Goto(url string) error
	Click(selector string) error
	Fill(selector, text string) error
	Press(key string) error
	Text(selector string) (string, error) // empty string when the element is missing
	WaitVisible(selector string, timeout time.Duration) error
	IsVisible(selector string) bool
	IsEnabled(selector string) bool
	Title() (string, error)
	URL() string
	WaitForLoad() error
}

// Page is the common set of interactions every page object supports.
type Page interface {
	Navigate(url string) error
	Click(selector string) error
	Type(selector, text string) error
	GetText(selector string) (string, error)
	WaitForElement(selector string, timeout time.Duration) error
	IsVisible(selector string) bool
	Title() (string, error)
	CurrentURL() string
}

// Base implements Page by delegating to a Driver. Concrete pages embed it.
type Base struct {
	driver  Driver
	baseURL string
	path    string // page location, relative to baseURL or absolute
}

// NewBase makes a Base for the page at path, resolved against baseURL.
func NewBase(d Driver, baseURL, path string) *Base {
	return &Base{driver: d, baseURL: strings.TrimRight(baseURL, "/"), path: path}
}

// URL returns the page's own location, empty if the page has no path.
func (b *Base) URL() string {
	switch {
	case b.path == "":
		return ""
	case strings.HasPrefix(b.path, "http://"), strings.HasPrefix(b.path, "https://"):
		return b.path
	case b.baseURL == "":
		return b.path
	default:
		return b.baseURL + "/" + strings.TrimLeft(b.path, "/")
	}
}

// Navigate opens url, or the page's own location when url is empty, and waits for network idle.
func (b *Base) Navigate(url string) error {
	target := url
	if target == "" {
		target = b.URL()
	}
	if target == "" {
		return ErrNoURL
	}
	if err := b.driver.Goto(target); err != nil {
		return fmt.Errorf("navigate to %s: %w", target, err)
	}
	return nil
}

// Click clicks the element matching selector.
func (b *Base) Click(selector string) error {
	if err := b.driver.Click(selector); err != nil {
		return fmt.Errorf("click %s: %w", selector, err)
	}
	return nil
}

// Type replaces the value of the input matching selector.
func (b *Base) Type(selector, text string) error {
	if err := b.driver.Fill(selector, text); err != nil {
		return fmt.Errorf("type into %s: %w", selector, err)
	}
	return nil
}

// GetText returns the text content of the element, empty if it does not exist.
func (b *Base) GetText(selector string) (string, error) {
	text, err := b.driver.Text(selector)
	if err != nil {
		return "", fmt.Errorf("get text of %s: %w", selector, err)
	}
	return text, nil
}

// WaitForElement waits for the element to become visible. Zero timeout means DefaultTimeout.
func (b *Base) WaitForElement(selector string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if err := b.driver.WaitVisible(selector, timeout); err != nil {
		return fmt.Errorf("wait for %s: %w", selector, err)
	}
	return nil
}

// IsVisible reports whether the element exists and is visible. Lookup failures count as not visible.
func (b *Base) IsVisible(selector string) bool {
	return b.driver.IsVisible(selector)
}

// Title returns the document title.
func (b *Base) Title() (string, error) {
	title, err := b.driver.Title()
	if err != nil {
		return "", fmt.Errorf("get title: %w", err)
	}
	return title, nil
}

// CurrentURL returns the url the browser is on.
func (b *Base) CurrentURL() string {
	return b.driver.URL()
}
