package page

import "time"

// search page selectors, google-style markup
const (
	SearchInput        = "textarea[name='q']"
	SearchButton       = "input[name='btnK']"
	SearchLuckyButton  = "input[name='btnI']"
	SearchResultsStats = "#result-stats"
)

// DefaultSearchURL is used when NewSearchPage gets an empty url.
const DefaultSearchURL = "https://www.google.com"

// ResultsCountNotFound is returned by ResultsCount when the stats element does not show up.
const ResultsCountNotFound = "Results count not found"

const resultsStatsTimeout = 10 * time.Second

// SearchPage is a web search page with a query box and a result statistics line.
type SearchPage struct {
	*Base
}

// NewSearchPage makes a search page object for the absolute url.
func NewSearchPage(d Driver, url string) *SearchPage {
	if url == "" {
		url = DefaultSearchURL
	}
	return &SearchPage{Base: NewBase(d, "", url)}
}

// Search types query, submits it with Enter and waits for the network to settle.
func (p *SearchPage) Search(query string) error {
	if err := p.WaitForElement(SearchInput, 0); err != nil {
		return err
	}
	if err := p.Type(SearchInput, query); err != nil {
		return err
	}
	if err := p.driver.Press("Enter"); err != nil {
		return err
	}
	return p.driver.WaitForLoad()
}

// ResultsCount returns the result statistics text, or ResultsCountNotFound.
func (p *SearchPage) ResultsCount() string {
	if err := p.WaitForElement(SearchResultsStats, resultsStatsTimeout); err != nil {
		return ResultsCountNotFound
	}
	text, err := p.GetText(SearchResultsStats)
	if err != nil {
		return ResultsCountNotFound
	}
	return text
}

// IsSearchBoxVisible reports whether the query box is shown.
func (p *SearchPage) IsSearchBoxVisible() bool {
	return p.IsVisible(SearchInput)
}
