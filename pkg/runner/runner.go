// Package runner orchestrates a test run: setup, test execution and reporting.
package runner

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/umputun/aiprobe/pkg/executor"
	"github.com/umputun/aiprobe/pkg/notify"
	"github.com/umputun/aiprobe/pkg/progress"
	"github.com/umputun/aiprobe/pkg/report"
)

//go:generate moq -out mocks/executor.go -pkg mocks -skip-ensure -fmt goimports . Executor
//go:generate moq -out mocks/logger.go -pkg mocks -skip-ensure -fmt goimports . Logger
//go:generate moq -out mocks/notifier.go -pkg mocks -skip-ensure -fmt goimports . Notifier

// ErrTestsFailed is returned by Run when at least one test or package failed.
var ErrTestsFailed = errors.New("tests failed")

// ReportFile is the markdown report name inside the reports directory.
const ReportFile = "report.md"

// Config holds runner configuration.
type Config struct {
	Env         string
	BaseURL     string
	InProcess   bool // tests serve the demo app themselves, BaseURL is not used
	Browser     string
	Headless    bool
	Markers     []string // test groups, empty runs all
	Verbose     bool
	WriteReport bool // write and print the markdown report
	NoColor     bool
	Dirs        *report.Dirs
	Dir         string   // module root for go test, empty for the working directory
	ExtraEnv    []string // additional KEY=VALUE pairs for the test process
}

// Executor runs the test suite.
type Executor interface {
	Run(ctx context.Context, plan executor.Plan) executor.Result
}

// Logger provides logging functionality.
type Logger interface {
	SetPhase(phase progress.Phase)
	Print(format string, args ...any)
	PrintRaw(format string, args ...any)
	PrintAligned(text string)
	Warn(format string, args ...any)
	Error(format string, args ...any)
	Path() string
}

// Notifier delivers the run result.
type Notifier interface {
	Send(ctx context.Context, r notify.Result)
}

// Runner runs the test suite once.
type Runner struct {
	cfg      Config
	log      Logger
	exec     Executor
	notifier Notifier
}

// New creates a Runner executing tests with go test. notifier may be nil.
func New(cfg Config, log *progress.Logger, notifier *notify.Service) *Runner {
	return &Runner{
		cfg: cfg,
		log: log,
		exec: &executor.GoTestExecutor{
			OutputHandler: func(text string) { log.PrintAligned(text) },
		},
		notifier: notifier,
	}
}

// NewWithExecutor creates a Runner with a custom executor and notifier (for testing).
func NewWithExecutor(cfg Config, log Logger, exec Executor, notifier Notifier) *Runner {
	return &Runner{cfg: cfg, log: log, exec: exec, notifier: notifier}
}

// Run executes setup, test and report phases. The summary is returned even when tests fail,
// in which case the error wraps ErrTestsFailed.
func (r *Runner) Run(ctx context.Context) (*report.Summary, error) {
	r.log.SetPhase(progress.PhaseSetup)
	if err := r.setup(); err != nil {
		return nil, err
	}

	r.log.SetPhase(progress.PhaseTest)
	r.log.Print("running tests")
	summary := report.NewSummary(r.cfg.Env, r.cfg.Browser, r.cfg.Headless)
	res := r.exec.Run(ctx, r.plan())
	for _, ev := range res.Events {
		summary.Add(ev)
	}
	summary.Finish()

	r.log.SetPhase(progress.PhaseReport)
	reportPath := r.report(summary, res.Error)
	r.sendNotification(ctx, summary, reportPath, res.Error)

	if res.Error != nil {
		return summary, fmt.Errorf("run tests: %w", res.Error)
	}
	if summary.Status() != notify.StatusSuccess {
		return summary, fmt.Errorf("%w: %s", ErrTestsFailed, summary.Line())
	}
	return summary, nil
}

func (r *Runner) setup() error {
	markers := "all"
	if len(r.cfg.Markers) > 0 {
		markers = strings.Join(r.cfg.Markers, ", ")
	}
	mode := "headless"
	if !r.cfg.Headless {
		mode = "headed"
	}
	target := r.cfg.BaseURL
	if r.cfg.InProcess {
		target = "in-process demo app"
	}
	r.log.Print("environment: %s (%s)", r.cfg.Env, target)
	r.log.Print("browser: %s, %s", r.cfg.Browser, mode)
	r.log.Print("tests: %s", markers)

	if r.cfg.Dirs != nil {
		if err := r.cfg.Dirs.Ensure(); err != nil {
			return fmt.Errorf("prepare reports: %w", err)
		}
		r.log.Print("reports: %s", r.cfg.Dirs.Root)
	}
	if p := r.log.Path(); p != "" {
		r.log.Print("run log: %s", p)
	}
	return nil
}

// plan builds the go test plan, exporting the selected settings to the test process.
func (r *Runner) plan() executor.Plan {
	env := []string{
		"TEST_ENV=" + r.cfg.Env,
		"BROWSER_NAME=" + r.cfg.Browser,
		"HEADLESS=" + strconv.FormatBool(r.cfg.Headless),
	}
	if r.cfg.BaseURL != "" && !r.cfg.InProcess {
		env = append(env, "BASE_URL="+r.cfg.BaseURL)
	}
	env = append(env, r.cfg.ExtraEnv...)
	return executor.Plan{Markers: r.cfg.Markers, Verbose: r.cfg.Verbose, Env: env, Dir: r.cfg.Dir}
}

// report prints the outcome and writes the markdown report when enabled. Returns the report path.
func (r *Runner) report(summary *report.Summary, runErr error) string {
	if runErr != nil {
		r.log.Error("test run failed: %v", runErr)
	}
	for _, t := range summary.Tests {
		if t.Status == report.StatusFail {
			r.log.Error("%s failed", t.Name)
		}
	}
	for _, p := range summary.FailedPackages {
		r.log.Error("package %s failed", p)
	}
	if summary.Status() == notify.StatusSuccess && runErr == nil {
		r.log.Print("all tests passed: %s", summary.Line())
	} else {
		r.log.Warn("%s", summary.Line())
	}

	if !r.cfg.WriteReport || r.cfg.Dirs == nil {
		return ""
	}
	path := r.cfg.Dirs.ReportPath(ReportFile)
	if err := report.WriteMarkdown(path, summary); err != nil {
		r.log.Error("%v", err)
		return ""
	}
	if rendered, err := report.Render(summary.Markdown(), r.cfg.NoColor); err == nil {
		r.log.PrintRaw("%s", rendered)
	}
	r.log.Print("report saved to %s", path)
	return path
}

func (r *Runner) sendNotification(ctx context.Context, summary *report.Summary, reportPath string, runErr error) {
	if r.notifier == nil {
		return
	}
	res := notify.Result{
		Status:   summary.Status(),
		Env:      r.cfg.Env,
		Browser:  r.cfg.Browser,
		BaseURL:  r.cfg.BaseURL,
		Passed:   summary.Passed(),
		Failed:   summary.Failed(),
		Skipped:  summary.Skipped(),
		Failures: summary.FailedTests(),
		Duration: summary.Duration().Round(time.Millisecond).String(),
		Report:   reportPath,
	}
	if runErr != nil {
		res.Status = notify.StatusFailure
		res.Error = runErr.Error()
	}
	r.notifier.Send(ctx, res)
}
