//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/aiprobe/pkg/fixture"
	"github.com/umputun/aiprobe/pkg/page"
)

// openChat loads the chat page, skipping when the chat input is not usable.
func openChat(t *testing.T) *page.ChatPage {
	t.Helper()
	s := open(t, "/chat")
	chat := page.NewChatPage(s, baseURL, cfg.WaitConfig())
	if !chat.IsInputEnabled() {
		t.Skip("chat input not available")
	}
	return chat
}

func TestChatPageLoads(t *testing.T) {
	chat := openChat(t)

	title, err := chat.Title()
	require.NoError(t, err)
	assert.NotEmpty(t, title)
	screenshot(t, session, "chat_page_loaded")
}

func TestChatSendMessage(t *testing.T) {
	chat := openChat(t)

	const msg = "Hello, this is a test message"
	require.NoError(t, chat.SendMessage(msg))
	screenshot(t, session, "message_sent")

	if inProcess {
		// the user message shows up first, before the reply starts streaming
		require.NoError(t, chat.WaitForElement(page.ChatMessages+" .message.user", elementTimeout))
		text, err := chat.GetText(page.ChatMessages + " .message.user")
		require.NoError(t, err)
		assert.Equal(t, msg, text)
	}
}

func TestChatAIResponse(t *testing.T) {
	chat := openChat(t)

	const question = "What is artificial intelligence?"
	require.NoError(t, chat.SendMessage(question))

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	res, err := chat.WaitForResponse(ctx, 30*time.Second)
	if err != nil {
		screenshot(t, session, "ai_response_timeout")
		t.Skipf("AI response not received: %v", err)
	}
	if !res.Stable() {
		screenshot(t, session, "ai_response_timeout")
		t.Skipf("AI response did not settle in %v, last text %q", res.Elapsed, res.Value)
	}
	assert.NotEmpty(t, strings.TrimSpace(res.Value), "AI response should not be empty")
	t.Logf("response settled after %d polls in %v", res.Polls, res.Elapsed)
	screenshot(t, session, "ai_response_received")

	if inProcess {
		assert.Equal(t, fixture.CannedResponder{}.Reply(question), res.Value)
	}
}

func TestChatAIResponseSession(t *testing.T) {
	chat := openChat(t)

	const question = "Tell me about machine learning"
	require.NoError(t, chat.SendMessage(question))
	if inProcess {
		// the user message is the last one until the reply bubble shows up
		require.NoError(t, chat.WaitForElement(page.ChatMessages+" .message.assistant", elementTimeout))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	res, err := session.WaitForAIResponse(ctx, page.ChatLatestMessage, 0)
	if err != nil {
		screenshot(t, session, "session_response_timeout")
		t.Skipf("AI response not received: %v", err)
	}
	if !res.Stable() {
		t.Skipf("AI response did not settle in %v, last text %q", res.Elapsed, res.Value)
	}
	assert.NotEmpty(t, strings.TrimSpace(res.Value))
	assert.LessOrEqual(t, res.Elapsed, cfg.WaitConfig().MaxWait, "one budget for both steps")

	if inProcess {
		assert.Equal(t, fixture.CannedResponder{}.Reply(question), res.Value)
	}
}

func TestChatMultipleMessages(t *testing.T) {
	chat := openChat(t)

	messages := []string{"Hello", "How are you?", "Tell me about machine learning"}
	for i, msg := range messages {
		require.NoError(t, chat.SendMessage(msg))
		if _, err := chat.WaitForResponse(context.Background(), 0); err != nil {
			t.Logf("reply to message %d: %v", i+1, err)
		}
		screenshot(t, session, fmt.Sprintf("message_%d_sent", i+1))
	}
	screenshot(t, session, "multiple_messages_complete")

	if inProcess {
		n, err := session.Page().Locator(page.ChatMessages + " .message").Count()
		require.NoError(t, err)
		assert.Equal(t, 2*len(messages), n, "each message gets one reply")
	}
}

func TestChatClear(t *testing.T) {
	chat := openChat(t)

	require.NoError(t, chat.SendMessage("Hello"))
	_, err := chat.WaitForResponse(context.Background(), 0)
	require.NoError(t, err)
	require.NoError(t, chat.ClearChat())

	n, err := session.Page().Locator(page.ChatMessages + " .message").Count()
	require.NoError(t, err)
	assert.Zero(t, n, "history cleared")
}
