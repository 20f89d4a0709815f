// Package config loads aiprobe configuration.
// Values are layered: embedded defaults, machine-local INI overrides, project YAML file,
// environment variables. Command line flags are applied by the caller on top.
package config

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/umputun/aiprobe/pkg/waiter"
)

//go:embed defaults/config.yaml
var defaultsFS embed.FS

// DefaultProjectPath is the project config location relative to the working directory.
const DefaultProjectPath = "config/config.yaml"

// supported browser engines
var browsers = []string{"chromium", "firefox", "webkit"}

// Config holds all harness settings.
type Config struct {
	Env           string                 `yaml:"env"` // selected environment name
	Browser       Browser                `yaml:"browser"`
	Environments  map[string]Environment `yaml:"environments"`
	Stabilization Stabilization          `yaml:"stabilization"`
	Reports       Reports                `yaml:"reports"`
	Notify        Notify                 `yaml:"notify"`

	BaseURLOverride string `yaml:"-"` // from BASE_URL, wins over environments
}

// Browser holds browser launch settings.
type Browser struct {
	Name                string    `yaml:"name"`
	Headless            bool      `yaml:"headless"`
	SlowMoMs            int       `yaml:"slow_mo_ms"`
	NavigationTimeoutMs int       `yaml:"navigation_timeout_ms"`
	Viewport            *Viewport `yaml:"viewport,omitempty"`
}

// Viewport is the browser window size.
type Viewport struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Environment is a named deployment under test.
type Environment struct {
	BaseURL string `yaml:"base_url"`
}

// Stabilization holds content stabilization timings in milliseconds.
type Stabilization struct {
	PollIntervalMs   int `yaml:"poll_interval_ms"`
	StableDurationMs int `yaml:"stable_duration_ms"`
	MaxWaitMs        int `yaml:"max_wait_ms"`
}

// Reports holds output locations.
type Reports struct {
	Dir            string `yaml:"dir"`
	ScreenshotsDir string `yaml:"screenshots_dir"`
}

// Notify holds notification settings.
type Notify struct {
	Channels      []string `yaml:"channels"`
	OnError       bool     `yaml:"on_error"`
	OnComplete    bool     `yaml:"on_complete"`
	TimeoutMs     int      `yaml:"timeout_ms"`
	TelegramToken string   `yaml:"telegram_token"`
	TelegramChat  string   `yaml:"telegram_chat"`
	SlackToken    string   `yaml:"slack_token"`
	SlackChannel  string   `yaml:"slack_channel"`
	SMTPHost      string   `yaml:"smtp_host"`
	SMTPPort      int      `yaml:"smtp_port"`
	SMTPUsername  string   `yaml:"smtp_username"`
	SMTPPassword  string   `yaml:"smtp_password"`
	SMTPStartTLS  bool     `yaml:"smtp_starttls"`
	EmailFrom     string   `yaml:"email_from"`
	EmailTo       []string `yaml:"email_to"`
	WebhookURLs   []string `yaml:"webhook_urls"`
	CustomScript  string   `yaml:"custom_script"`
}

// LoadOptions points to config files. Empty paths use the defaults, missing files are skipped.
type LoadOptions struct {
	ProjectPath string // project YAML, default config/config.yaml
	GlobalPath  string // machine-local INI, default ~/.config/aiprobe/config
	SkipGlobal  bool   // ignore machine-local overrides
	SkipEnv     bool   // ignore environment variables
}

// Load reads configuration with fallback chain: embedded → global INI → project YAML → environment.
func Load(opts LoadOptions) (*Config, error) {
	cfg, err := loadEmbedded()
	if err != nil {
		return nil, fmt.Errorf("load embedded defaults: %w", err)
	}

	if !opts.SkipGlobal {
		globalPath := opts.GlobalPath
		if globalPath == "" {
			globalPath = DefaultGlobalPath()
		}
		vals, err := newValuesLoader().Load(globalPath)
		if err != nil {
			return nil, fmt.Errorf("load global config: %w", err)
		}
		vals.applyTo(cfg)
	}

	projectPath := opts.ProjectPath
	if projectPath == "" {
		projectPath = DefaultProjectPath
	}
	if err := mergeYAMLFile(cfg, projectPath); err != nil {
		return nil, fmt.Errorf("load project config: %w", err)
	}

	if !opts.SkipEnv {
		if err := applyEnv(cfg); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}

	cfg.Browser.Name = strings.ToLower(strings.TrimSpace(cfg.Browser.Name))
	return cfg, nil
}

// DefaultGlobalPath returns ~/.config/aiprobe/config, or empty string if home is unknown.
func DefaultGlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "aiprobe", "config")
}

// DefaultYAML returns the embedded default config file.
func DefaultYAML() ([]byte, error) {
	data, err := defaultsFS.ReadFile("defaults/config.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded defaults: %w", err)
	}
	return data, nil
}

func loadEmbedded() (*Config, error) {
	data, err := DefaultYAML()
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse embedded defaults: %w", err)
	}
	return &cfg, nil
}

// mergeYAMLFile decodes the file over cfg, keys absent in the file keep their current values.
func mergeYAMLFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from flags or default location
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate checks settings that would otherwise fail deep inside a test run.
func (c *Config) Validate() error {
	if !isSupportedBrowser(c.Browser.Name) {
		return fmt.Errorf("%w: %q (expected one of %s)", ErrUnsupportedBrowser, c.Browser.Name, strings.Join(browsers, ", "))
	}
	if c.Browser.SlowMoMs < 0 {
		return fmt.Errorf("invalid slow_mo_ms: must be non-negative, got %d", c.Browser.SlowMoMs)
	}
	if c.Browser.NavigationTimeoutMs < 0 {
		return fmt.Errorf("invalid navigation_timeout_ms: must be non-negative, got %d", c.Browser.NavigationTimeoutMs)
	}
	if vp := c.Browser.Viewport; vp != nil && (vp.Width <= 0 || vp.Height <= 0) {
		return fmt.Errorf("invalid viewport %dx%d: width and height must be positive", vp.Width, vp.Height)
	}
	if _, err := c.BaseURL(); err != nil {
		return err
	}
	if err := c.WaitConfig().Validate(); err != nil {
		return fmt.Errorf("stabilization: %w", err)
	}
	return nil
}

// BaseURL returns the base url of the selected environment.
func (c *Config) BaseURL() (string, error) {
	if c.BaseURLOverride != "" {
		return strings.TrimRight(c.BaseURLOverride, "/"), nil
	}
	env, ok := c.Environments[c.Env]
	if !ok {
		return "", fmt.Errorf("unknown environment %q (known: %s)", c.Env, strings.Join(c.EnvNames(), ", "))
	}
	if env.BaseURL == "" {
		return "", fmt.Errorf("environment %q has no base_url", c.Env)
	}
	return strings.TrimRight(env.BaseURL, "/"), nil
}

// EnvNames returns configured environment names, sorted.
func (c *Config) EnvNames() []string {
	names := make([]string, 0, len(c.Environments))
	for name := range c.Environments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WaitConfig converts stabilization settings to waiter config.
func (c *Config) WaitConfig() waiter.Config {
	return waiter.Config{
		PollInterval:   time.Duration(c.Stabilization.PollIntervalMs) * time.Millisecond,
		StableDuration: time.Duration(c.Stabilization.StableDurationMs) * time.Millisecond,
		MaxWait:        time.Duration(c.Stabilization.MaxWaitMs) * time.Millisecond,
	}
}

// NavigationTimeout returns the navigation timeout, zero means the engine default.
func (c *Config) NavigationTimeout() time.Duration {
	return time.Duration(c.Browser.NavigationTimeoutMs) * time.Millisecond
}

// ErrUnsupportedBrowser is returned by ParseBrowser for unknown engine names.
var ErrUnsupportedBrowser = errors.New("unsupported browser")

// ParseBrowser normalizes a browser engine name.
func ParseBrowser(name string) (string, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if !isSupportedBrowser(n) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedBrowser, name)
	}
	return n, nil
}

func isSupportedBrowser(name string) bool {
	for _, b := range browsers {
		if b == name {
			return true
		}
	}
	return false
}
