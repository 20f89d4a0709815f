package fixture

import "strings"

// Document is one searchable entry of the demo site.
type Document struct {
	Title   string
	URL     string
	Snippet string
}

var catalog = []Document{
	{Title: "Playwright automation guide", URL: "/docs/playwright",
		Snippet: "Drive chromium, firefox and webkit browsers for end to end testing and automation."},
	{Title: "Testing streamed AI responses", URL: "/docs/streaming",
		Snippet: "Wait until streamed text stops changing before asserting on an AI reply."},
	{Title: "Introduction to machine learning", URL: "/docs/machine-learning",
		Snippet: "Models learn patterns from data. Supervised, unsupervised and reinforcement learning."},
	{Title: "What is artificial intelligence", URL: "/docs/ai",
		Snippet: "Systems that perform tasks which normally require human intelligence."},
	{Title: "Responsive design checklist", URL: "/docs/responsive",
		Snippet: "Check desktop, tablet and mobile viewports for layout regressions."},
	{Title: "Page object pattern", URL: "/docs/page-objects",
		Snippet: "Wrap selectors and interactions of a page behind a small testing API."},
}

// Search returns catalog documents containing any query word in the title or snippet.
func Search(query string) []Document {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return nil
	}
	var res []Document
	for _, d := range catalog {
		text := strings.ToLower(d.Title + " " + d.Snippet)
		for _, w := range words {
			if strings.Contains(text, w) {
				res = append(res, d)
				break
			}
		}
	}
	return res
}
