// Package executor runs the browser test suite through go test and collects test2json events.
package executor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/umputun/aiprobe/pkg/report"
)

//go:generate moq -out mocks/command_runner.go -pkg mocks -skip-ensure -fmt goimports . CommandRunner

// DefaultPackages is the test suite location.
const DefaultPackages = "./e2e/..."

// DefaultTags are the build tags enabling the browser suite.
const DefaultTags = "e2e"

// markerPatterns maps test group markers to go test -run patterns.
var markerPatterns = map[string]string{
	"smoke":       "^TestSmoke",
	"web":         "^TestWeb",
	"chat":        "^TestChat",
	"performance": "^TestPerformance",
}

// Markers returns the known test group markers, sorted.
func Markers() []string {
	res := make([]string, 0, len(markerPatterns))
	for m := range markerPatterns {
		res = append(res, m)
	}
	sort.Strings(res)
	return res
}

// RunPattern builds a -run regex selecting tests of any of the markers. No markers selects everything.
func RunPattern(markers []string) (string, error) {
	if len(markers) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(markers))
	seen := map[string]bool{}
	for _, m := range markers {
		p, ok := markerPatterns[strings.ToLower(m)]
		if !ok {
			return "", fmt.Errorf("unknown marker %q (known: %s)", m, strings.Join(Markers(), ", "))
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		parts = append(parts, p)
	}
	return strings.Join(parts, "|"), nil
}

// Plan describes one test run.
type Plan struct {
	Markers  []string // test groups, empty runs all
	Verbose  bool
	Packages []string // default DefaultPackages
	Tags     string   // default DefaultTags
	Env      []string // extra KEY=VALUE pairs for the test process
	Dir      string   // module root, empty for the current directory
}

// Args returns go test arguments for the plan.
func (p Plan) Args() ([]string, error) {
	pattern, err := RunPattern(p.Markers)
	if err != nil {
		return nil, err
	}
	tags := p.Tags
	if tags == "" {
		tags = DefaultTags
	}

	args := []string{"test", "-json", "-count=1", "-tags", tags}
	if pattern != "" {
		args = append(args, "-run", pattern)
	}
	if p.Verbose {
		args = append(args, "-v")
	}
	if len(p.Packages) == 0 {
		return append(args, DefaultPackages), nil
	}
	return append(args, p.Packages...), nil
}

// Result holds events and raw output of a test run.
type Result struct {
	Events []report.Event // parsed test2json events
	Output string         // human readable test output
	Error  error          // execution error, test failures are not errors
}

// CommandRunner abstracts command execution for testing.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout io.Reader, wait func() error, err error)
}

// execCommandRunner is the default command runner using os/exec.
// The command gets its own process group, killed on context cancellation.
type execCommandRunner struct {
	env []string
	dir string
}

func (r *execCommandRunner) Run(ctx context.Context, name string, args ...string) (io.Reader, func() error, error) {
	cmd := exec.Command(name, args...) //nolint:gosec // go binary and args are built internally
	cmd.Env = append(os.Environ(), r.env...)
	cmd.Dir = r.dir
	setupProcessGroup(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("create stdout pipe: %w", err)
	}
	// merge stderr into stdout, build failures are reported there
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return nil, nil, fmt.Errorf("start command: %w", err)
	}
	pg := newProcessGroupCleanup(cmd, ctx.Done())
	return stdout, pg.Wait, nil
}

// GoTestExecutor runs go test in json mode.
type GoTestExecutor struct {
	OutputHandler func(line string) // called for each output line, can be nil
	GoBin         string            // go binary, default "go"
	cmdRunner     CommandRunner     // for testing, nil uses default
}

// Run executes the plan. Failing tests still give a nil Result.Error as long as go test produced events.
func (e *GoTestExecutor) Run(ctx context.Context, plan Plan) Result {
	args, err := plan.Args()
	if err != nil {
		return Result{Error: err}
	}

	goBin := e.GoBin
	if goBin == "" {
		goBin = "go"
	}
	runner := e.cmdRunner
	if runner == nil {
		runner = &execCommandRunner{env: plan.Env, dir: plan.Dir}
	}

	stdout, wait, err := runner.Run(ctx, goBin, args...)
	if err != nil {
		return Result{Error: err}
	}

	result := e.parseStream(stdout)

	if err := wait(); err != nil {
		if ctx.Err() != nil {
			result.Error = ctx.Err()
			return result
		}
		// non-zero exit with events means failed tests, reported through the summary
		if len(result.Events) == 0 {
			result.Error = fmt.Errorf("go test exited with error: %w", err)
		}
	}
	return result
}

// parseStream reads test2json lines. Non-json lines (build errors, panics before test start) are kept as output.
func (e *GoTestExecutor) parseStream(r io.Reader) Result {
	var output strings.Builder
	var events []report.Event

	scanner := bufio.NewScanner(r)
	// test output lines can be long
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		ev, err := report.ParseEvent([]byte(line))
		if err != nil {
			e.emit(&output, line+"\n")
			continue
		}
		events = append(events, ev)
		if ev.Action == "output" && ev.Output != "" {
			e.emit(&output, ev.Output)
		}
	}

	res := Result{Events: events, Output: output.String()}
	if err := scanner.Err(); err != nil {
		res.Error = fmt.Errorf("stream read: %w", err)
		// the child blocks on a full pipe until the rest is consumed
		_, _ = io.Copy(io.Discard, r)
	}
	return res
}

func (e *GoTestExecutor) emit(output *strings.Builder, text string) {
	output.WriteString(text)
	if e.OutputHandler != nil {
		e.OutputHandler(text)
	}
}
