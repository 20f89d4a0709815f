// Package report manages report directories, collects go test results and renders run summaries.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// Dirs holds report output locations. Directories are created once per Dirs value.
type Dirs struct {
	Root        string // report root, e.g. reports
	Screenshots string // screenshot directory, e.g. reports/screenshots

	once sync.Once
	err  error
}

// NewDirs makes Dirs for the given root. Empty screenshots dir defaults to <root>/screenshots.
func NewDirs(root, screenshots string) *Dirs {
	if root == "" {
		root = "reports"
	}
	if screenshots == "" {
		screenshots = filepath.Join(root, "screenshots")
	}
	return &Dirs{Root: root, Screenshots: screenshots}
}

// Ensure creates the report and screenshot directories.
// Safe to call many times, only the first call touches the filesystem.
func (d *Dirs) Ensure() error {
	d.once.Do(func() {
		for _, dir := range []string{d.Root, d.Screenshots} {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				d.err = fmt.Errorf("create report dir %s: %w", dir, err)
				return
			}
		}
	})
	return d.err
}

// ScreenshotPath returns the png path for a named screenshot.
func (d *Dirs) ScreenshotPath(name string) string {
	return filepath.Join(d.Screenshots, sanitizeName(name)+".png")
}

// ReportPath returns the path of a file in the report root.
func (d *Dirs) ReportPath(name string) string {
	return filepath.Join(d.Root, name)
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// sanitizeName turns an arbitrary label into a safe file stem.
func sanitizeName(name string) string {
	name = strings.TrimSuffix(strings.TrimSpace(name), ".png")
	name = strings.Trim(unsafeChars.ReplaceAllString(name, "_"), "_.")
	if name == "" {
		return "screenshot"
	}
	return name
}
