// Package main provides aiprobe - browser end-to-end tests for AI chat applications.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/aiprobe/pkg/browser"
	"github.com/umputun/aiprobe/pkg/config"
	"github.com/umputun/aiprobe/pkg/fixture"
	"github.com/umputun/aiprobe/pkg/notify"
	"github.com/umputun/aiprobe/pkg/progress"
	"github.com/umputun/aiprobe/pkg/report"
	"github.com/umputun/aiprobe/pkg/runner"
)

// opts holds all command-line options.
type opts struct {
	Smoke       bool `long:"smoke" description:"run smoke tests"`
	Web         bool `long:"web" description:"run web UI tests"`
	Chat        bool `long:"chat" description:"run AI chat tests"`
	Performance bool `long:"performance" description:"run performance tests"`

	Headless bool   `long:"headless" description:"run browser in headless mode (default from config)"`
	Headed   bool   `long:"headed" description:"run browser with a visible window"`
	Browser  string `short:"b" long:"browser" choice:"chromium" choice:"firefox" choice:"webkit" description:"browser engine"`
	Env      string `short:"e" long:"env" description:"environment to test, e.g. local, staging, production"`
	BaseURL  string `long:"base-url" description:"base url, overrides the environment"`

	Report     bool   `short:"r" long:"report" description:"write and print a markdown report"`
	Verbose    bool   `short:"v" long:"verbose" description:"verbose go test output"`
	Config     string `short:"c" long:"config" default:"config/config.yaml" description:"project config file"`
	NoColor    bool   `long:"no-color" description:"disable color output"`
	DumpConfig bool   `long:"dump-config" description:"print the default config and exit"`

	Serve     bool    `short:"s" long:"serve" description:"serve the demo chat application and exit on interrupt"`
	Port      int     `short:"p" long:"port" default:"3000" description:"demo application port"`
	RateLimit float64 `long:"rate-limit" description:"demo application chat messages per second, 0 is unlimited"`
	Install   bool    `long:"install" description:"install playwright browsers and exit"`
	Version   bool    `long:"version" description:"print version and exit"`
}

var revision = "unknown"

var info = color.New(color.FgCyan)

func main() {
	var o opts
	parser := flags.NewParser(&o, flags.Default)

	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if o.NoColor {
		color.NoColor = true
	}

	if o.Version {
		fmt.Printf("aiprobe %s\n", revision)
		os.Exit(0)
	}

	// setup context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, o); err != nil {
		if !errors.Is(err, runner.ErrTestsFailed) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, o opts) error {
	switch {
	case o.DumpConfig:
		data, err := config.DefaultYAML()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	case o.Serve:
		return serve(ctx, o.Port, o.RateLimit)
	case o.Install:
		return install(o.Browser)
	}

	cfg, err := config.Load(config.LoadOptions{ProjectPath: o.Config})
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyOverrides(cfg, o)
	if err = cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	baseURL, err := cfg.BaseURL()
	if err != nil {
		return err
	}

	dirs, err := absDirs(cfg.Reports)
	if err != nil {
		return err
	}

	log, err := progress.NewLogger(progress.Config{
		Dir:     dirs.Root,
		Env:     cfg.Env,
		Browser: cfg.Browser.Name,
		NoColor: o.NoColor,
	})
	if err != nil {
		return fmt.Errorf("create progress logger: %w", err)
	}
	defer log.Close()

	notifier, err := notify.New(cfg.Notify, log)
	if err != nil {
		return fmt.Errorf("create notifier: %w", err)
	}

	extraEnv, err := testEnv(o.Config, cfg.BaseURLOverride, dirs)
	if err != nil {
		return err
	}

	r := runner.New(runner.Config{
		Env:         cfg.Env,
		BaseURL:     baseURL,
		InProcess:   inProcess(cfg),
		Browser:     cfg.Browser.Name,
		Headless:    cfg.Browser.Headless,
		Markers:     selectedMarkers(o),
		Verbose:     o.Verbose,
		WriteReport: o.Report,
		NoColor:     o.NoColor,
		Dirs:        dirs,
		ExtraEnv:    extraEnv,
	}, log, notifier)

	_, err = r.Run(ctx)
	info.Printf("\ncompleted in %s\n", log.Elapsed())
	return err
}

// inProcess reports whether the e2e suite serves the demo app itself, as it does for
// the local environment unless a base url is given by flag or BASE_URL.
func inProcess(cfg *config.Config) bool {
	return cfg.Env == "local" && cfg.BaseURLOverride == ""
}

// applyOverrides puts command-line settings over loaded config.
func applyOverrides(cfg *config.Config, o opts) {
	if o.Env != "" {
		cfg.Env = o.Env
	}
	if o.BaseURL != "" {
		cfg.BaseURLOverride = o.BaseURL
	}
	if o.Browser != "" {
		cfg.Browser.Name = o.Browser
	}
	if o.Headless {
		cfg.Browser.Headless = true
	}
	if o.Headed {
		cfg.Browser.Headless = false
	}
}

// selectedMarkers returns test groups chosen by flags, empty means all.
func selectedMarkers(o opts) []string {
	var res []string
	for _, m := range []struct {
		on   bool
		name string
	}{
		{o.Smoke, "smoke"},
		{o.Web, "web"},
		{o.Chat, "chat"},
		{o.Performance, "performance"},
	} {
		if m.on {
			res = append(res, m.name)
		}
	}
	return res
}

// absDirs resolves report directories against the working directory,
// the test process runs in the package directory and needs absolute paths.
func absDirs(r config.Reports) (*report.Dirs, error) {
	d := report.NewDirs(r.Dir, r.ScreenshotsDir)
	root, err := filepath.Abs(d.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve reports dir: %w", err)
	}
	shots, err := filepath.Abs(d.Screenshots)
	if err != nil {
		return nil, fmt.Errorf("resolve screenshots dir: %w", err)
	}
	return report.NewDirs(root, shots), nil
}

// testEnv returns variables pointing the test process to the same config and report dirs.
// An explicit base url (flag or BASE_URL) makes the tests target that app instead of the in-process demo.
func testEnv(configPath, baseURL string, dirs *report.Dirs) ([]string, error) {
	env := []string{
		"AIPROBE_REPORTS_DIR=" + dirs.Root,
		"AIPROBE_SCREENSHOTS_DIR=" + dirs.Screenshots,
	}
	if baseURL != "" {
		env = append(env, "E2E_EXTERNAL_URL="+baseURL)
	}
	if configPath == "" {
		return env, nil
	}
	abs, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	return append(env, "AIPROBE_CONFIG="+abs), nil
}

func serve(ctx context.Context, port int, rateLimit float64) error {
	srv := fixture.NewServer(fixture.ServerConfig{Port: port, RateLimit: rateLimit}, nil)
	info.Printf("demo app: http://localhost:%d\n", port)
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("demo app: %w", err)
	}
	return nil
}

func install(name string) error {
	var names []string
	if name != "" {
		names = append(names, name)
	}
	info.Println("installing playwright browsers")
	if err := browser.Install(names...); err != nil {
		return err
	}
	info.Println("done")
	return nil
}
