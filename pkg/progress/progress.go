// Package progress provides timestamped logging to file and stdout with color support.
package progress

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"golang.org/x/term"
)

// Phase represents run phase for color coding.
type Phase string

// Phase constants for run stages.
const (
	PhaseSetup  Phase = "setup"  // config, directories, browser install (cyan)
	PhaseTest   Phase = "test"   // test execution output (green)
	PhaseReport Phase = "report" // summary and notifications (magenta)
)

// phase colors using fatih/color.
var (
	setupColor     = color.New(color.FgCyan)
	testColor      = color.New(color.FgGreen)
	reportColor    = color.New(color.FgMagenta)
	warnColor      = color.New(color.FgYellow)
	errorColor     = color.New(color.FgRed)
	timestampColor = color.New(color.FgWhite)
)

var phaseColors = map[Phase]*color.Color{
	PhaseSetup:  setupColor,
	PhaseTest:   testColor,
	PhaseReport: reportColor,
}

// Logger writes timestamped output to both a run log file and stdout.
// Safe for concurrent use, test output is streamed from a reader goroutine.
type Logger struct {
	mu        sync.Mutex
	file      *os.File
	stdout    io.Writer
	startTime time.Time
	phase     Phase
}

// Config holds logger configuration.
type Config struct {
	Dir     string // directory for the run log, empty disables the file
	Env     string // environment under test
	Browser string // browser engine
	NoColor bool   // disable color output (sets color.NoColor globally)
}

// NewLogger creates a logger writing to <Dir>/run-<timestamp>.log and stdout.
func NewLogger(cfg Config) (*Logger, error) {
	if cfg.NoColor {
		color.NoColor = true
	}

	l := &Logger{stdout: os.Stdout, startTime: time.Now(), phase: PhaseSetup}
	if cfg.Dir == "" {
		return l, nil
	}

	if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	path := filepath.Join(cfg.Dir, "run-"+l.startTime.Format("20060102-150405")+".log")
	f, err := os.Create(path) //nolint:gosec // path derived from report dir
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}
	l.file = f

	l.writeFile("# aiprobe run log\n")
	l.writeFile("Environment: %s\n", cfg.Env)
	l.writeFile("Browser: %s\n", cfg.Browser)
	l.writeFile("Started: %s\n", l.startTime.Format("2006-01-02 15:04:05"))
	l.writeFile("%s\n\n", strings.Repeat("-", 60))

	return l, nil
}

// Path returns the run log path, empty when logging to stdout only.
func (l *Logger) Path() string {
	if l.file == nil {
		return ""
	}
	return l.file.Name()
}

// SetPhase sets the current phase for color coding.
func (l *Logger) SetPhase(phase Phase) {
	l.mu.Lock()
	l.phase = phase
	l.mu.Unlock()
}

// timestampFormat is the format for timestamps: YY-MM-DD HH:MM:SS
const timestampFormat = "06-01-02 15:04:05"

// Print writes a timestamped message to both file and stdout.
func (l *Logger) Print(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	timestamp := time.Now().Format(timestampFormat)

	l.writeFile("[%s] %s\n", timestamp, msg)

	tsStr := timestampColor.Sprintf("[%s]", timestamp)
	l.writeStdout("%s %s\n", tsStr, l.phaseColor().Sprint(msg))
}

// PrintRaw writes without timestamp.
func (l *Logger) PrintRaw(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	l.writeFile("%s", msg)
	l.writeStdout("%s", msg)
}

// PrintAligned writes text with timestamp on the first line and indented continuation lines.
func (l *Logger) PrintAligned(text string) {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format(timestampFormat)
	phaseColor := l.phaseColor()
	tsPrefix := timestampColor.Sprintf("[%s]", timestamp)
	indent := strings.Repeat(" ", 20) // aligns with "[YY-MM-DD HH:MM:SS] "

	width := terminalWidth()
	var lines []string
	for line := range strings.SplitSeq(text, "\n") {
		if len(line) > width {
			lines = append(lines, strings.Split(wrapText(line, width), "\n")...)
			continue
		}
		lines = append(lines, line)
	}

	for i, line := range lines {
		if line == "" {
			l.writeFile("\n")
			l.writeStdout("\n")
			continue
		}
		if i == 0 {
			l.writeFile("[%s] %s\n", timestamp, line)
			l.writeStdout("%s %s\n", tsPrefix, phaseColor.Sprint(line))
			continue
		}
		l.writeFile("%s%s\n", indent, line)
		l.writeStdout("%s%s\n", indent, phaseColor.Sprint(line))
	}
}

// Error writes an error message in red.
func (l *Logger) Error(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	timestamp := time.Now().Format(timestampFormat)
	l.writeFile("[%s] ERROR: %s\n", timestamp, msg)
	l.writeStdout("%s %s\n", timestampColor.Sprintf("[%s]", timestamp), errorColor.Sprintf("ERROR: %s", msg))
}

// Warn writes a warning message in yellow.
func (l *Logger) Warn(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	timestamp := time.Now().Format(timestampFormat)
	l.writeFile("[%s] WARN: %s\n", timestamp, msg)
	l.writeStdout("%s %s\n", timestampColor.Sprintf("[%s]", timestamp), warnColor.Sprintf("WARN: %s", msg))
}

// Elapsed returns formatted elapsed time since start.
func (l *Logger) Elapsed() string {
	return humanize.RelTime(l.startTime, time.Now(), "", "")
}

// Close writes footer and closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}

	l.writeFile("\n%s\n", strings.Repeat("-", 60))
	l.writeFile("Completed: %s (%s)\n", time.Now().Format("2006-01-02 15:04:05"), l.Elapsed())

	err := l.file.Close()
	l.file = nil
	if err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	return nil
}

// phaseColor returns color for the current phase, caller holds the lock.
func (l *Logger) phaseColor() *color.Color {
	if c, ok := phaseColors[l.phase]; ok {
		return c
	}
	return testColor
}

func (l *Logger) writeFile(format string, args ...any) {
	if l.file != nil {
		fmt.Fprintf(l.file, format, args...)
	}
}

func (l *Logger) writeStdout(format string, args ...any) {
	fmt.Fprintf(l.stdout, format, args...)
}

// terminalWidth returns content width (terminal width minus timestamp prefix).
// uses COLUMNS env var, then the terminal size, defaults to 80 columns.
func terminalWidth() int {
	const minWidth = 40
	clamp := func(w int) int {
		if w-20 < minWidth {
			return minWidth
		}
		return w - 20
	}

	if cols := os.Getenv("COLUMNS"); cols != "" {
		if w, err := strconv.Atoi(cols); err == nil && w > 0 {
			return clamp(w)
		}
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return clamp(w)
	}
	return 80 - 20
}

// wrapText wraps text to width, breaking on word boundaries.
func wrapText(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var result strings.Builder
	lineLen := 0
	for i, word := range strings.Fields(text) {
		switch {
		case i == 0:
			result.WriteString(word)
			lineLen = len(word)
		case lineLen+1+len(word) <= width:
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + len(word)
		default:
			result.WriteString("\n")
			result.WriteString(word)
			lineLen = len(word)
		}
	}
	return result.String()
}
