package page

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/aiprobe/pkg/page/mocks"
	"github.com/umputun/aiprobe/pkg/waiter"
)

// fakeClock advances virtual time on every After call.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	c.now = c.now.Add(d)
	now := c.now
	c.mu.Unlock()
	ch := make(chan time.Time, 1)
	ch <- now
	return ch
}

func TestBase_URL(t *testing.T) {
	tests := []struct {
		name, base, path, want string
	}{
		{name: "relative", base: "http://localhost:3000", path: "/chat", want: "http://localhost:3000/chat"},
		{name: "trailing slash base", base: "http://localhost:3000/", path: "chat", want: "http://localhost:3000/chat"},
		{name: "root", base: "http://localhost:3000", path: "/", want: "http://localhost:3000/"},
		{name: "absolute path", base: "http://localhost:3000", path: "https://www.google.com", want: "https://www.google.com"},
		{name: "no base", base: "", path: "/chat", want: "/chat"},
		{name: "no path", base: "http://localhost:3000", path: "", want: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NewBase(&mocks.DriverMock{}, tc.base, tc.path).URL())
		})
	}
}

func TestBase_Navigate(t *testing.T) {
	d := &mocks.DriverMock{GotoFunc: func(string) error { return nil }}

	t.Run("own url", func(t *testing.T) {
		require.NoError(t, NewBase(d, "http://app", "/chat").Navigate(""))
		assert.Equal(t, "http://app/chat", d.GotoCalls()[len(d.GotoCalls())-1].Url)
	})

	t.Run("explicit url wins", func(t *testing.T) {
		require.NoError(t, NewBase(d, "http://app", "/chat").Navigate("http://other/x"))
		assert.Equal(t, "http://other/x", d.GotoCalls()[len(d.GotoCalls())-1].Url)
	})

	t.Run("no url", func(t *testing.T) {
		err := NewBase(d, "http://app", "").Navigate("")
		require.ErrorIs(t, err, ErrNoURL)
		assert.Equal(t, "no URL specified", err.Error())
	})

	t.Run("goto error", func(t *testing.T) {
		failing := &mocks.DriverMock{GotoFunc: func(string) error { return errors.New("net::ERR_CONNECTION_REFUSED") }}
		err := NewBase(failing, "http://app", "/").Navigate("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "navigate to http://app/")
		assert.Contains(t, err.Error(), "ERR_CONNECTION_REFUSED")
	})
}

func TestBase_Delegation(t *testing.T) {
	d := &mocks.DriverMock{
		ClickFunc:       func(string) error { return nil },
		FillFunc:        func(string, string) error { return nil },
		TextFunc:        func(string) (string, error) { return "hello", nil },
		WaitVisibleFunc: func(string, time.Duration) error { return nil },
		IsVisibleFunc:   func(sel string) bool { return sel == "#shown" },
		TitleFunc:       func() (string, error) { return "Demo", nil },
		URLFunc:         func() string { return "http://app/chat" },
	}
	b := NewBase(d, "http://app", "/")

	require.NoError(t, b.Click("#btn"))
	require.NoError(t, b.Type("#in", "text"))
	text, err := b.GetText("#out")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)

	require.NoError(t, b.WaitForElement("#el", 0))
	require.NoError(t, b.WaitForElement("#el", time.Second))
	require.Len(t, d.WaitVisibleCalls(), 2)
	assert.Equal(t, DefaultTimeout, d.WaitVisibleCalls()[0].Timeout, "zero timeout uses default")
	assert.Equal(t, time.Second, d.WaitVisibleCalls()[1].Timeout)

	assert.True(t, b.IsVisible("#shown"))
	assert.False(t, b.IsVisible("#hidden"))

	title, err := b.Title()
	require.NoError(t, err)
	assert.Equal(t, "Demo", title)
	assert.Equal(t, "http://app/chat", b.CurrentURL())

	require.Len(t, d.FillCalls(), 1)
	assert.Equal(t, "#in", d.FillCalls()[0].Selector)
	assert.Equal(t, "text", d.FillCalls()[0].Text)
}

func TestBase_Errors(t *testing.T) {
	boom := errors.New("boom")
	d := &mocks.DriverMock{
		ClickFunc:       func(string) error { return boom },
		FillFunc:        func(string, string) error { return boom },
		TextFunc:        func(string) (string, error) { return "", boom },
		WaitVisibleFunc: func(string, time.Duration) error { return boom },
		TitleFunc:       func() (string, error) { return "", boom },
	}
	b := NewBase(d, "", "")

	require.ErrorIs(t, b.Click("#a"), boom)
	require.ErrorIs(t, b.Type("#a", "x"), boom)
	_, err := b.GetText("#a")
	require.ErrorIs(t, err, boom)
	err = b.WaitForElement("#a", 0)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "wait for #a")
	_, err = b.Title()
	require.ErrorIs(t, err, boom)
}

func TestPage_InterfaceSatisfied(t *testing.T) {
	d := &mocks.DriverMock{}
	pages := []Page{NewHomePage(d, "http://app"), NewChatPage(d, "http://app", waiter.Config{}), NewSearchPage(d, "")}
	assert.Len(t, pages, 3)
}

func TestHomePage(t *testing.T) {
	d := &mocks.DriverMock{
		TextFunc:      func(sel string) (string, error) { return "Welcome to AI Demo", nil },
		FillFunc:      func(string, string) error { return nil },
		ClickFunc:     func(string) error { return nil },
		IsVisibleFunc: func(sel string) bool { return sel == HomeNavMenu },
	}
	p := NewHomePage(d, "http://app")
	assert.Equal(t, "http://app/", p.URL())

	title, err := p.TitleText()
	require.NoError(t, err)
	assert.Equal(t, "Welcome to AI Demo", title)
	assert.Equal(t, HomeTitle, d.TextCalls()[0].Selector)

	require.NoError(t, p.Search("playwright"))
	require.Len(t, d.FillCalls(), 1)
	assert.Equal(t, HomeSearchInput, d.FillCalls()[0].Selector)
	assert.Equal(t, "playwright", d.FillCalls()[0].Text)

	require.NoError(t, p.ClickLogin())
	require.Len(t, d.ClickCalls(), 2)
	assert.Equal(t, HomeSearchButton, d.ClickCalls()[0].Selector)
	assert.Equal(t, HomeLoginButton, d.ClickCalls()[1].Selector)

	assert.True(t, p.IsNavigationVisible())
}

func TestHomePage_SearchFillError(t *testing.T) {
	d := &mocks.DriverMock{FillFunc: func(string, string) error { return errors.New("detached") }}
	err := NewHomePage(d, "http://app").Search("q")
	require.Error(t, err)
	assert.Empty(t, d.ClickCalls(), "button not clicked after fill failure")
}

func TestChatPage_SendMessage(t *testing.T) {
	d := &mocks.DriverMock{
		FillFunc:  func(string, string) error { return nil },
		ClickFunc: func(string) error { return nil },
	}
	p := NewChatPage(d, "http://app", waiter.Config{})
	assert.Equal(t, "http://app/chat", p.URL())

	require.NoError(t, p.SendMessage("Hello, AI!"))
	assert.Equal(t, ChatInput, d.FillCalls()[0].Selector)
	assert.Equal(t, "Hello, AI!", d.FillCalls()[0].Text)
	assert.Equal(t, ChatSendButton, d.ClickCalls()[0].Selector)
}

func TestChatPage_LatestMessage(t *testing.T) {
	d := &mocks.DriverMock{
		WaitVisibleFunc: func(string, time.Duration) error { return nil },
		TextFunc:        func(string) (string, error) { return "hi there", nil },
	}
	msg, err := NewChatPage(d, "http://app", waiter.Config{}).LatestMessage()
	require.NoError(t, err)
	assert.Equal(t, "hi there", msg)
	assert.Equal(t, ChatLatestMessage, d.WaitVisibleCalls()[0].Selector)
}

func TestChatPage_WaitForResponse(t *testing.T) {
	cfg := waiter.Config{PollInterval: 100 * time.Millisecond, StableDuration: 300 * time.Millisecond, MaxWait: 5 * time.Second}

	t.Run("streamed reply stabilizes", func(t *testing.T) {
		chunks := []string{"", "Hello", "Hello, I", "Hello, I am", "Hello, I am an AI"}
		var n int
		d := &mocks.DriverMock{
			WaitVisibleFunc: func(string, time.Duration) error { return nil },
			TextFunc: func(string) (string, error) {
				v := chunks[min(n, len(chunks)-1)]
				n++
				return v, nil
			},
		}
		p := NewChatPage(d, "http://app", cfg)
		p.clock = &fakeClock{now: time.Unix(0, 0)}

		res, err := p.WaitForResponse(context.Background(), 0)
		require.NoError(t, err)
		assert.Equal(t, waiter.OutcomeStable, res.Outcome)
		assert.Equal(t, "Hello, I am an AI", res.Value)

		calls := d.WaitVisibleCalls()
		require.Len(t, calls, 2)
		assert.Equal(t, ChatTypingIndicator, calls[0].Selector)
		assert.Equal(t, 5*time.Second, calls[0].Timeout)
		assert.Equal(t, ChatLatestMessage, calls[1].Selector)
		assert.Equal(t, cfg.MaxWait, calls[1].Timeout, "zero timeout uses max wait")
	})

	t.Run("missing typing indicator ignored", func(t *testing.T) {
		d := &mocks.DriverMock{
			WaitVisibleFunc: func(sel string, _ time.Duration) error {
				if sel == ChatTypingIndicator {
					return errors.New("timeout 5000ms exceeded")
				}
				return nil
			},
			TextFunc: func(string) (string, error) { return "done", nil },
		}
		p := NewChatPage(d, "http://app", cfg)
		p.clock = &fakeClock{now: time.Unix(0, 0)}

		res, err := p.WaitForResponse(context.Background(), 10*time.Second)
		require.NoError(t, err)
		assert.True(t, res.Stable())
		assert.Equal(t, "done", res.Value)
		assert.Equal(t, 10*time.Second, d.WaitVisibleCalls()[1].Timeout)
	})

	t.Run("no message", func(t *testing.T) {
		d := &mocks.DriverMock{
			WaitVisibleFunc: func(sel string, _ time.Duration) error {
				if sel == ChatLatestMessage {
					return errors.New("timeout exceeded")
				}
				return nil
			},
		}
		_, err := NewChatPage(d, "http://app", cfg).WaitForResponse(context.Background(), time.Second)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "wait for "+ChatLatestMessage)
		assert.Empty(t, d.TextCalls())
	})

	t.Run("never settles", func(t *testing.T) {
		var n int
		d := &mocks.DriverMock{
			WaitVisibleFunc: func(string, time.Duration) error { return nil },
			TextFunc: func(string) (string, error) {
				n++
				return string(rune('a' + n%26)), nil
			},
		}
		p := NewChatPage(d, "http://app", waiter.Config{PollInterval: 100 * time.Millisecond, StableDuration: 300 * time.Millisecond, MaxWait: time.Second})
		p.clock = &fakeClock{now: time.Unix(0, 0)}

		res, err := p.WaitForResponse(context.Background(), 0)
		require.NoError(t, err)
		assert.Equal(t, waiter.OutcomeTimedOut, res.Outcome)
		assert.NotEmpty(t, res.Value)
	})

	t.Run("invalid config", func(t *testing.T) {
		d := &mocks.DriverMock{WaitVisibleFunc: func(string, time.Duration) error { return nil }}
		_, err := NewChatPage(d, "http://app", waiter.Config{}).WaitForResponse(context.Background(), time.Second)
		require.ErrorIs(t, err, waiter.ErrInvalidConfig)
	})

	t.Run("text error propagated", func(t *testing.T) {
		gone := errors.New("target closed")
		d := &mocks.DriverMock{
			WaitVisibleFunc: func(string, time.Duration) error { return nil },
			TextFunc:        func(string) (string, error) { return "", gone },
		}
		p := NewChatPage(d, "http://app", cfg)
		p.clock = &fakeClock{now: time.Unix(0, 0)}
		_, err := p.WaitForResponse(context.Background(), 0)
		require.ErrorIs(t, err, gone)
	})
}

func TestChatPage_ClearChat(t *testing.T) {
	t.Run("visible", func(t *testing.T) {
		d := &mocks.DriverMock{
			IsVisibleFunc: func(string) bool { return true },
			ClickFunc:     func(string) error { return nil },
		}
		require.NoError(t, NewChatPage(d, "", waiter.Config{}).ClearChat())
		require.Len(t, d.ClickCalls(), 1)
		assert.Equal(t, ChatClearButton, d.ClickCalls()[0].Selector)
	})

	t.Run("hidden", func(t *testing.T) {
		d := &mocks.DriverMock{IsVisibleFunc: func(string) bool { return false }}
		require.NoError(t, NewChatPage(d, "", waiter.Config{}).ClearChat())
		assert.Empty(t, d.ClickCalls())
	})
}

func TestChatPage_IsInputEnabled(t *testing.T) {
	d := &mocks.DriverMock{IsEnabledFunc: func(sel string) bool { return sel == ChatInput }}
	assert.True(t, NewChatPage(d, "", waiter.Config{}).IsInputEnabled())
}

func TestSearchPage(t *testing.T) {
	d := &mocks.DriverMock{
		WaitVisibleFunc: func(string, time.Duration) error { return nil },
		FillFunc:        func(string, string) error { return nil },
		PressFunc:       func(string) error { return nil },
		WaitForLoadFunc: func() error { return nil },
		TextFunc:        func(string) (string, error) { return "About 3 results (0.01 seconds)", nil },
		IsVisibleFunc:   func(sel string) bool { return sel == SearchInput },
	}
	p := NewSearchPage(d, "")
	assert.Equal(t, DefaultSearchURL, p.URL())

	require.NoError(t, p.Search("Playwright testing"))
	assert.Equal(t, SearchInput, d.FillCalls()[0].Selector)
	assert.Equal(t, "Enter", d.PressCalls()[0].Key)
	assert.Len(t, d.WaitForLoadCalls(), 1)

	assert.Equal(t, "About 3 results (0.01 seconds)", p.ResultsCount())
	assert.Equal(t, 10*time.Second, d.WaitVisibleCalls()[1].Timeout)
	assert.True(t, p.IsSearchBoxVisible())
}

func TestSearchPage_ResultsCountNotFound(t *testing.T) {
	d := &mocks.DriverMock{WaitVisibleFunc: func(string, time.Duration) error { return errors.New("timeout") }}
	p := NewSearchPage(d, "http://app/search")
	assert.Equal(t, "http://app/search", p.URL())
	assert.Equal(t, ResultsCountNotFound, p.ResultsCount())
}

func TestSearchPage_SearchInputMissing(t *testing.T) {
	d := &mocks.DriverMock{WaitVisibleFunc: func(string, time.Duration) error { return errors.New("timeout") }}
	require.Error(t, NewSearchPage(d, "").Search("q"))
	assert.Empty(t, d.FillCalls())
}
