package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// envOverrides are the variables exported by the aiprobe runner to the test process.
type envOverrides struct {
	Env      string `envconfig:"TEST_ENV"`
	Browser  string `envconfig:"BROWSER_NAME"`
	Headless *bool  `envconfig:"HEADLESS"`
	BaseURL  string `envconfig:"BASE_URL"`
}

// applyEnv overlays environment variables on cfg, unset variables change nothing.
func applyEnv(cfg *Config) error {
	var ov envOverrides
	if err := envconfig.Process("", &ov); err != nil {
		return fmt.Errorf("process env: %w", err)
	}
	if ov.Env != "" {
		cfg.Env = ov.Env
	}
	if ov.Browser != "" {
		cfg.Browser.Name = ov.Browser
	}
	if ov.Headless != nil {
		cfg.Browser.Headless = *ov.Headless
	}
	if ov.BaseURL != "" {
		cfg.BaseURLOverride = ov.BaseURL
	}
	return nil
}
