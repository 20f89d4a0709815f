package page

import (
	"context"
	"time"

	"github.com/umputun/aiprobe/pkg/waiter"
)

// chat page selectors
const (
	ChatInput           = "[data-testid='chat-input']"
	ChatSendButton      = "[data-testid='send-button']"
	ChatMessages        = "[data-testid='chat-messages']"
	ChatLatestMessage   = "[data-testid='chat-messages'] .message:last-child"
	ChatTypingIndicator = "[data-testid='typing-indicator']"
	ChatClearButton     = "[data-testid='clear-chat']"
)

// typingIndicatorTimeout bounds the wait for the optional typing indicator.
const typingIndicatorTimeout = 5 * time.Second

// ChatPage is the AI chat page.
type ChatPage struct {
	*Base
	wait  waiter.Config
	clock waiter.Clock
}

// NewChatPage makes a chat page object. wait controls response stabilization.
func NewChatPage(d Driver, baseURL string, wait waiter.Config) *ChatPage {
	return &ChatPage{Base: NewBase(d, baseURL, "/chat"), wait: wait}
}

// SendMessage types text into the chat input and presses send.
func (p *ChatPage) SendMessage(text string) error {
	if err := p.Type(ChatInput, text); err != nil {
		return err
	}
	return p.Click(ChatSendButton)
}

// LatestMessage waits for the last message and returns its text.
func (p *ChatPage) LatestMessage() (string, error) {
	if err := p.WaitForElement(ChatLatestMessage, 0); err != nil {
		return "", err
	}
	return p.GetText(ChatLatestMessage)
}

// WaitForResponse waits for the assistant reply to finish streaming.
// The typing indicator is optional and is waited for briefly. Then the latest message must become
// visible within timeout, after which its text is polled until it stops changing.
// A reply that never settles gives a TimedOut result with the last text seen, not an error.
// Zero timeout means the stabilization max wait.
func (p *ChatPage) WaitForResponse(ctx context.Context, timeout time.Duration) (waiter.Result, error) {
	_ = p.driver.WaitVisible(ChatTypingIndicator, typingIndicatorTimeout) // indicator may never appear

	if timeout <= 0 {
		timeout = p.wait.MaxWait
	}
	if err := p.WaitForElement(ChatLatestMessage, timeout); err != nil {
		return waiter.Result{}, err
	}

	w, err := waiter.NewWithClock(p.wait, p.clock)
	if err != nil {
		return waiter.Result{}, err
	}
	return w.Wait(ctx, func(context.Context) (string, error) {
		return p.driver.Text(ChatLatestMessage)
	})
}

// ClearChat clears the history when the clear button is shown.
func (p *ChatPage) ClearChat() error {
	if !p.IsVisible(ChatClearButton) {
		return nil
	}
	return p.Click(ChatClearButton)
}

// IsInputEnabled reports whether the chat input exists and accepts text.
func (p *ChatPage) IsInputEnabled() bool {
	return p.driver.IsEnabled(ChatInput)
}
