package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Event is a single line of `go test -json` output.
type Event struct {
	Time    time.Time `json:"Time"`
	Action  string    `json:"Action"` // start, run, pause, cont, output, pass, fail, skip
	Package string    `json:"Package"`
	Test    string    `json:"Test"`
	Elapsed float64   `json:"Elapsed"` // seconds
	Output  string    `json:"Output"`
}

// ParseEvent decodes one line of test2json output.
func ParseEvent(line []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(line, &ev); err != nil {
		return Event{}, fmt.Errorf("parse test event: %w", err)
	}
	if ev.Action == "" {
		return Event{}, fmt.Errorf("parse test event: missing action in %q", string(line))
	}
	return ev, nil
}

// test statuses
const (
	StatusPass = "pass"
	StatusFail = "fail"
	StatusSkip = "skip"
)

// TestResult is the final state of one test.
type TestResult struct {
	Package string
	Name    string
	Status  string
	Elapsed time.Duration
	Output  []string // log lines emitted by the test, without framework headers
}

// Reason returns the test's log output joined into one line, used for skip and failure messages.
func (r TestResult) Reason() string {
	return strings.Join(r.Output, "; ")
}

// Summary accumulates test events into per-test results.
type Summary struct {
	Env      string
	Browser  string
	Headless bool
	Started  time.Time
	Finished time.Time

	Tests          []TestResult
	FailedPackages []string

	pending map[string][]string // output collected per running test
}

// NewSummary makes an empty summary for a run.
func NewSummary(env, browser string, headless bool) *Summary {
	return &Summary{Env: env, Browser: browser, Headless: headless, Started: time.Now(), pending: map[string][]string{}}
}

// Add records a test event.
func (s *Summary) Add(ev Event) {
	if s.pending == nil {
		s.pending = map[string][]string{}
	}
	key := ev.Package + "\x00" + ev.Test

	switch ev.Action {
	case "output":
		if ev.Test == "" {
			return
		}
		if line := cleanOutput(ev.Output); line != "" {
			s.pending[key] = append(s.pending[key], line)
		}
	case StatusPass, StatusFail, StatusSkip:
		if ev.Test == "" {
			if ev.Action == StatusFail {
				s.FailedPackages = append(s.FailedPackages, ev.Package)
			}
			return
		}
		s.Tests = append(s.Tests, TestResult{
			Package: ev.Package,
			Name:    ev.Test,
			Status:  ev.Action,
			Elapsed: time.Duration(ev.Elapsed * float64(time.Second)),
			Output:  s.pending[key],
		})
		delete(s.pending, key)
	}
}

// Finish marks the end of the run.
func (s *Summary) Finish() {
	s.Finished = time.Now()
}

// Duration returns run duration, zero if not finished.
func (s *Summary) Duration() time.Duration {
	if s.Finished.IsZero() {
		return 0
	}
	return s.Finished.Sub(s.Started)
}

// Passed returns the number of passed tests.
func (s *Summary) Passed() int { return s.count(StatusPass) }

// Failed returns the number of failed tests.
func (s *Summary) Failed() int { return s.count(StatusFail) }

// Skipped returns the number of skipped tests.
func (s *Summary) Skipped() int { return s.count(StatusSkip) }

// FailedTests returns names of failed tests in the order they finished.
func (s *Summary) FailedTests() []string {
	var res []string
	for _, t := range s.Tests {
		if t.Status == StatusFail {
			res = append(res, t.Name)
		}
	}
	return res
}

func (s *Summary) count(status string) int {
	n := 0
	for _, t := range s.Tests {
		if t.Status == status {
			n++
		}
	}
	return n
}

// Status returns "success" when nothing failed, "failure" otherwise.
func (s *Summary) Status() string {
	if s.Failed() > 0 || len(s.FailedPackages) > 0 {
		return "failure"
	}
	return "success"
}

// Markdown renders the summary as a markdown document.
func (s *Summary) Markdown() string {
	var b strings.Builder

	b.WriteString("# aiprobe report\n\n")
	mode := "headless"
	if !s.Headless {
		mode = "headed"
	}
	fmt.Fprintf(&b, "- environment: %s\n", s.Env)
	fmt.Fprintf(&b, "- browser: %s (%s)\n", s.Browser, mode)
	fmt.Fprintf(&b, "- started: %s\n", s.Started.Format("2006-01-02 15:04:05"))
	if d := s.Duration(); d > 0 {
		fmt.Fprintf(&b, "- duration: %s\n", d.Round(time.Millisecond))
	}
	result := "passed"
	if s.Status() != "success" {
		result = "failed"
	}
	fmt.Fprintf(&b, "- result: **%s**, %d passed, %d failed, %d skipped\n\n", result, s.Passed(), s.Failed(), s.Skipped())

	if len(s.FailedPackages) > 0 {
		b.WriteString("## Failed packages\n\n")
		for _, p := range s.FailedPackages {
			fmt.Fprintf(&b, "- %s\n", p)
		}
		b.WriteString("\n")
	}

	if len(s.Tests) == 0 {
		b.WriteString("no tests were run\n")
		return b.String()
	}

	tests := make([]TestResult, len(s.Tests))
	copy(tests, s.Tests)
	sort.SliceStable(tests, func(i, j int) bool { return tests[i].Name < tests[j].Name })

	b.WriteString("| test | status | time |\n|---|---|---|\n")
	for _, t := range tests {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", t.Name, t.Status, t.Elapsed.Round(time.Millisecond))
	}

	var failed, skipped []TestResult
	for _, t := range tests {
		switch t.Status {
		case StatusFail:
			failed = append(failed, t)
		case StatusSkip:
			skipped = append(skipped, t)
		}
	}

	if len(failed) > 0 {
		b.WriteString("\n## Failures\n")
		for _, t := range failed {
			fmt.Fprintf(&b, "\n### %s\n\n```\n%s\n```\n", t.Name, strings.Join(t.Output, "\n"))
		}
	}

	if len(skipped) > 0 {
		b.WriteString("\n## Skipped\n\n")
		for _, t := range skipped {
			if reason := t.Reason(); reason != "" {
				fmt.Fprintf(&b, "- %s: %s\n", t.Name, reason)
				continue
			}
			fmt.Fprintf(&b, "- %s\n", t.Name)
		}
	}

	return b.String()
}

// Line returns a one line status, e.g. "5 passed, 1 failed, 2 skipped in 3 seconds".
func (s *Summary) Line() string {
	line := fmt.Sprintf("%d passed, %d failed, %d skipped", s.Passed(), s.Failed(), s.Skipped())
	if !s.Finished.IsZero() {
		line += " in " + strings.TrimSpace(humanize.RelTime(s.Started, s.Finished, "", ""))
	}
	return line
}

// cleanOutput drops go test framework lines and trims indentation.
func cleanOutput(out string) string {
	line := strings.TrimSpace(out)
	switch {
	case line == "":
		return ""
	case strings.HasPrefix(line, "=== "), strings.HasPrefix(line, "--- "):
		return ""
	case line == "PASS", line == "FAIL":
		return ""
	}
	return line
}
