package report

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
)

// Render renders markdown for terminal display.
// With noColor the content is returned unchanged.
func Render(content string, noColor bool) (string, error) {
	if noColor {
		return content, nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}

	result, err := renderer.Render(content)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}

	return result, nil
}

// WriteMarkdown writes the summary markdown to path.
func WriteMarkdown(path string, s *Summary) error {
	if err := os.WriteFile(path, []byte(s.Markdown()), 0o600); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}
