package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/ini.v1"
)

// Values holds machine-local overrides from the global INI file.
// Fields ending in *Set track whether the key was explicitly present, so an explicit
// false or 0 still overrides the embedded default.
type Values struct {
	Env            string
	Browser        string
	Headless       bool
	HeadlessSet    bool
	SlowMoMs       int
	SlowMoMsSet    bool
	ReportDir      string
	ScreenshotsDir string
}

// valuesLoader parses the global INI config.
type valuesLoader struct{}

func newValuesLoader() *valuesLoader {
	return &valuesLoader{}
}

// Load reads values from path. A missing file, or a file with only comments, gives empty Values.
func (vl *valuesLoader) Load(path string) (Values, error) {
	if path == "" {
		return Values{}, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is constructed internally
	if err != nil {
		if os.IsNotExist(err) {
			return Values{}, nil
		}
		return Values{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if strings.TrimSpace(stripComments(string(data))) == "" {
		return Values{}, nil
	}

	return vl.parseValuesFromBytes(data)
}

// parseValuesFromBytes parses INI data into Values.
func (vl *valuesLoader) parseValuesFromBytes(data []byte) (Values, error) {
	// ignoreInlineComment: true keeps # inside values (urls with fragments)
	cfg, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, data)
	if err != nil {
		return Values{}, fmt.Errorf("parse config: %w", err)
	}

	var values Values
	section := cfg.Section("")

	if key, err := section.GetKey("env"); err == nil {
		values.Env = strings.TrimSpace(key.String())
	}
	if key, err := section.GetKey("browser"); err == nil {
		values.Browser = strings.TrimSpace(key.String())
	}
	if key, err := section.GetKey("headless"); err == nil {
		val, boolErr := key.Bool()
		if boolErr != nil {
			return Values{}, fmt.Errorf("invalid headless: %w", boolErr)
		}
		values.Headless = val
		values.HeadlessSet = true
	}
	if key, err := section.GetKey("slow_mo_ms"); err == nil {
		val, intErr := key.Int()
		if intErr != nil {
			return Values{}, fmt.Errorf("invalid slow_mo_ms: %w", intErr)
		}
		if val < 0 {
			return Values{}, fmt.Errorf("invalid slow_mo_ms: must be non-negative, got %d", val)
		}
		values.SlowMoMs = val
		values.SlowMoMsSet = true
	}
	if key, err := section.GetKey("report_dir"); err == nil {
		values.ReportDir = strings.TrimSpace(key.String())
	}
	if key, err := section.GetKey("screenshots_dir"); err == nil {
		values.ScreenshotsDir = strings.TrimSpace(key.String())
	}

	return values, nil
}

// applyTo copies explicitly set values into cfg.
func (v *Values) applyTo(cfg *Config) {
	if v.Env != "" {
		cfg.Env = v.Env
	}
	if v.Browser != "" {
		cfg.Browser.Name = v.Browser
	}
	if v.HeadlessSet {
		cfg.Browser.Headless = v.Headless
	}
	if v.SlowMoMsSet {
		cfg.Browser.SlowMoMs = v.SlowMoMs
	}
	if v.ReportDir != "" {
		cfg.Reports.Dir = v.ReportDir
	}
	if v.ScreenshotsDir != "" {
		cfg.Reports.ScreenshotsDir = v.ScreenshotsDir
	}
}

// stripComments removes full-line ; and # comments.
func stripComments(content string) string {
	var b strings.Builder
	for line := range strings.SplitSeq(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, ";") {
			continue
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
