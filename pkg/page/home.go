package page

// home page selectors
const (
	HomeTitle        = "h1"
	HomeNavMenu      = "[data-testid='nav-menu']"
	HomeSearchInput  = "[data-testid='search-input']"
	HomeSearchButton = "[data-testid='search-button']"
	HomeLoginButton  = "[data-testid='login-button']"
)

// HomePage is the application landing page.
type HomePage struct {
	*Base
}

// NewHomePage makes a home page object rooted at baseURL.
func NewHomePage(d Driver, baseURL string) *HomePage {
	return &HomePage{Base: NewBase(d, baseURL, "/")}
}

// TitleText returns the main heading.
func (p *HomePage) TitleText() (string, error) {
	return p.GetText(HomeTitle)
}

// Search submits query through the site search form.
func (p *HomePage) Search(query string) error {
	if err := p.Type(HomeSearchInput, query); err != nil {
		return err
	}
	return p.Click(HomeSearchButton)
}

// ClickLogin clicks the login button.
func (p *HomePage) ClickLogin() error {
	return p.Click(HomeLoginButton)
}

// IsNavigationVisible reports whether the navigation menu is shown.
func (p *HomePage) IsNavigationVisible() bool {
	return p.IsVisible(HomeNavMenu)
}
