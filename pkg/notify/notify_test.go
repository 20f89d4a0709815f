package notify

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/aiprobe/pkg/config"
)

const defaultTestTimeout = 5 * time.Second

// mockNotifier implements ntfy.Notifier for testing.
type mockNotifier struct {
	schema string
	mu     sync.Mutex
	calls  []sendCall
	err    error
}

type sendCall struct {
	dest string
	text string
}

func (m *mockNotifier) Send(_ context.Context, dest, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, sendCall{dest: dest, text: text})
	return m.err
}

func (m *mockNotifier) Schema() string { return m.schema }
func (m *mockNotifier) String() string { return "mock-" + m.schema }

func (m *mockNotifier) getCalls() []sendCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := make([]sendCall, len(m.calls))
	copy(res, m.calls)
	return res
}

// mockLogger captures log output for testing.
type mockLogger struct {
	mu   sync.Mutex
	msgs []string
}

func (l *mockLogger) Print(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = append(l.msgs, fmt.Sprintf(format, args...))
}

func (l *mockLogger) getMsgs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	res := make([]string, len(l.msgs))
	copy(res, l.msgs)
	return res
}

func TestNew(t *testing.T) {
	t.Run("no channels gives nil service", func(t *testing.T) {
		svc, err := New(config.Notify{}, &mockLogger{})
		require.NoError(t, err)
		assert.Nil(t, svc)
	})

	t.Run("unknown channel", func(t *testing.T) {
		_, err := New(config.Notify{Channels: []string{"pager"}}, &mockLogger{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown notification channel: "pager"`)
	})

	t.Run("webhook", func(t *testing.T) {
		svc, err := New(config.Notify{
			Channels:    []string{"webhook"},
			OnComplete:  true,
			WebhookURLs: []string{"https://example.com/a", "https://example.com/b"},
		}, &mockLogger{})
		require.NoError(t, err)
		require.NotNil(t, svc)
		assert.Len(t, svc.channels, 2)
		assert.True(t, svc.onComplete)
		assert.Equal(t, "10s", svc.timeout.String(), "default timeout")
	})

	t.Run("slack and email", func(t *testing.T) {
		svc, err := New(config.Notify{
			Channels:     []string{" Slack ", "EMAIL"},
			SlackToken:   "xoxb-1",
			SlackChannel: "qa",
			SMTPHost:     "smtp.example.com",
			SMTPPort:     587,
			EmailFrom:    "ci@example.com",
			EmailTo:      []string{"a@example.com", "b@example.com"},
			TimeoutMs:    2500,
		}, &mockLogger{})
		require.NoError(t, err)
		require.Len(t, svc.channels, 2)
		assert.Equal(t, "slack:qa", svc.channels[0].dest)
		assert.Equal(t, "mailto:a@example.com,b@example.com?from=ci%40example.com&subject=aiprobe+test+results", svc.channels[1].dest)
		assert.Equal(t, "2.5s", svc.timeout.String())
	})

	t.Run("custom", func(t *testing.T) {
		svc, err := New(config.Notify{Channels: []string{"custom"}, CustomScript: "/bin/true"}, &mockLogger{})
		require.NoError(t, err)
		require.NotNil(t, svc.custom)
		assert.Equal(t, "/bin/true", svc.custom.scriptPath)
	})

	errTests := []struct {
		name    string
		params  config.Notify
		wantErr string
	}{
		{name: "webhook no urls", params: config.Notify{Channels: []string{"webhook"}}, wantErr: "webhook_urls is required"},
		{name: "email no host", params: config.Notify{Channels: []string{"email"}}, wantErr: "smtp_host is required"},
		{name: "email no from", params: config.Notify{Channels: []string{"email"}, SMTPHost: "h"}, wantErr: "email_from is required"},
		{name: "email no to", params: config.Notify{Channels: []string{"email"}, SMTPHost: "h", EmailFrom: "f@x"}, wantErr: "email_to is required"},
		{name: "slack no token", params: config.Notify{Channels: []string{"slack"}}, wantErr: "slack_token is required"},
		{name: "slack no channel", params: config.Notify{Channels: []string{"slack"}, SlackToken: "t"}, wantErr: "slack_channel is required"},
		{name: "telegram incomplete", params: config.Notify{Channels: []string{"telegram"}, TelegramToken: "t"}, wantErr: "telegram_token and telegram_chat are required"},
		{name: "custom no script", params: config.Notify{Channels: []string{"custom"}}, wantErr: "custom_script is required"},
	}
	for _, tc := range errTests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.params, &mockLogger{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestNew_TelegramInitFailure(t *testing.T) {
	orig := telegramChannelMaker
	t.Cleanup(func() { telegramChannelMaker = orig })
	telegramChannelMaker = func(p config.Notify) (channel, error) {
		return channel{}, fmt.Errorf("get bot info for token %s: dial tcp: timeout", p.TelegramToken)
	}

	log := &mockLogger{}
	svc, err := New(config.Notify{Channels: []string{"telegram"}, TelegramToken: "secret-token", TelegramChat: "42"}, log)
	require.NoError(t, err)
	require.NotNil(t, svc)
	assert.Empty(t, svc.channels)

	msgs := strings.Join(log.getMsgs(), "\n")
	assert.Contains(t, msgs, "telegram channel disabled")
	assert.Contains(t, msgs, "[REDACTED]")
	assert.NotContains(t, msgs, "secret-token")
	assert.Contains(t, msgs, "no notification channel is usable")
}

func TestNew_TelegramHTMLEscape(t *testing.T) {
	orig := telegramChannelMaker
	t.Cleanup(func() { telegramChannelMaker = orig })
	mn := &mockNotifier{schema: "telegram"}
	telegramChannelMaker = func(p config.Notify) (channel, error) {
		return channel{notifier: mn, dest: "telegram:" + p.TelegramChat, htmlEscape: true}, nil
	}

	svc, err := New(config.Notify{Channels: []string{"telegram"}, TelegramToken: "t", TelegramChat: "42", OnError: true}, &mockLogger{})
	require.NoError(t, err)

	svc.Send(context.Background(), Result{Status: StatusFailure, Failures: []string{"TestChat<Send>"}})
	calls := mn.getCalls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].text, "TestChat&lt;Send&gt;")
}

func TestService_Send(t *testing.T) {
	newSvc := func(onError, onComplete bool, n *mockNotifier, log *mockLogger) *Service {
		return &Service{
			channels:   []channel{{notifier: n, dest: "mock:dest"}},
			onError:    onError,
			onComplete: onComplete,
			timeout:    defaultTestTimeout,
			hostname:   "ci-box",
			log:        log,
		}
	}

	t.Run("nil service", func(t *testing.T) {
		var svc *Service
		assert.NotPanics(t, func() { svc.Send(context.Background(), Result{Status: StatusFailure}) })
	})

	t.Run("failure sent when on_error", func(t *testing.T) {
		n := &mockNotifier{}
		newSvc(true, false, n, &mockLogger{}).Send(context.Background(), Result{Status: StatusFailure, Failed: 1})
		calls := n.getCalls()
		require.Len(t, calls, 1)
		assert.Equal(t, "mock:dest", calls[0].dest)
		assert.Contains(t, calls[0].text, "aiprobe tests failed on ci-box")
	})

	t.Run("failure skipped without on_error", func(t *testing.T) {
		n := &mockNotifier{}
		newSvc(false, true, n, &mockLogger{}).Send(context.Background(), Result{Status: StatusFailure})
		assert.Empty(t, n.getCalls())
	})

	t.Run("success sent when on_complete", func(t *testing.T) {
		n := &mockNotifier{}
		newSvc(false, true, n, &mockLogger{}).Send(context.Background(), Result{Status: StatusSuccess, Passed: 3})
		require.Len(t, n.getCalls(), 1)
		assert.Contains(t, n.getCalls()[0].text, "aiprobe tests passed")
	})

	t.Run("success skipped without on_complete", func(t *testing.T) {
		n := &mockNotifier{}
		newSvc(true, false, n, &mockLogger{}).Send(context.Background(), Result{Status: StatusSuccess})
		assert.Empty(t, n.getCalls())
	})

	t.Run("send error logged", func(t *testing.T) {
		n := &mockNotifier{schema: "hook", err: errors.New("503 service unavailable")}
		log := &mockLogger{}
		newSvc(true, true, n, log).Send(context.Background(), Result{Status: StatusFailure})
		msgs := log.getMsgs()
		require.Len(t, msgs, 1)
		assert.Contains(t, msgs[0], "notification failed for mock-hook: 503 service unavailable")
	})

	t.Run("custom script failure logged", func(t *testing.T) {
		log := &mockLogger{}
		svc := &Service{custom: &customChannel{scriptPath: "/nonexistent/notify.sh"}, onError: true, timeout: defaultTestTimeout, log: log}
		svc.Send(context.Background(), Result{Status: StatusFailure})
		require.Len(t, log.getMsgs(), 1)
		assert.Contains(t, log.getMsgs()[0], "custom notification failed")
	})
}

func TestService_FormatMessage(t *testing.T) {
	svc := &Service{hostname: "ci-box"}

	t.Run("failure", func(t *testing.T) {
		msg := svc.formatMessage(Result{
			Status:   StatusFailure,
			Env:      "staging",
			BaseURL:  "https://staging.example.com",
			Browser:  "firefox",
			Passed:   5,
			Failed:   2,
			Skipped:  1,
			Failures: []string{"TestChatSendMessage", "TestWebResponsive"},
			Duration: "42s",
			Report:   "reports/report.md",
		})
		want := "aiprobe tests failed on ci-box\n\n" +
			"env:      staging\n" +
			"url:      https://staging.example.com\n" +
			"browser:  firefox\n" +
			"tests:    5 passed, 2 failed, 1 skipped\n" +
			"duration: 42s\n" +
			"report:   reports/report.md\n" +
			"failed:\n" +
			"  - TestChatSendMessage\n" +
			"  - TestWebResponsive\n"
		assert.Equal(t, want, msg)
	})

	t.Run("success minimal", func(t *testing.T) {
		msg := svc.formatMessage(Result{Status: StatusSuccess, Passed: 7})
		assert.Equal(t, "aiprobe tests passed on ci-box\n\ntests:    7 passed, 0 failed, 0 skipped\n", msg)
	})

	t.Run("run error", func(t *testing.T) {
		msg := svc.formatMessage(Result{Status: StatusFailure, Error: "go test exited with error: exit status 1"})
		assert.Contains(t, msg, "error:    go test exited with error: exit status 1\n")
	})

	t.Run("many failures truncated", func(t *testing.T) {
		var names []string
		for i := range 13 {
			names = append(names, fmt.Sprintf("TestWeb%02d", i))
		}
		msg := svc.formatMessage(Result{Status: StatusFailure, Failures: names})
		assert.Contains(t, msg, "  - TestWeb09\n")
		assert.NotContains(t, msg, "TestWeb10")
		assert.Contains(t, msg, "  ... and 3 more\n")
	})
}

func TestCustomChannel_Send(t *testing.T) {
	tmp := t.TempDir()
	out := filepath.Join(tmp, "payload.json")

	script := filepath.Join(tmp, "notify.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\ncat > "+out+"\n"), 0o700)) //nolint:gosec // test script

	c := &customChannel{scriptPath: script}
	require.NoError(t, c.send(context.Background(), Result{Status: StatusSuccess, Env: "local", Browser: "chromium", Passed: 2, Duration: "3s"}))

	data, err := os.ReadFile(out) //nolint:gosec // test path
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"success","env":"local","browser":"chromium","passed":2,"failed":0,"skipped":0,"duration":"3s"}`, string(data))
}

func TestCustomChannel_SendStderr(t *testing.T) {
	tmp := t.TempDir()
	script := filepath.Join(tmp, "fail.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho 'bad payload' >&2\nexit 3\n"), 0o700)) //nolint:gosec // test script

	err := (&customChannel{scriptPath: script}).send(context.Background(), Result{Status: StatusFailure})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit status 3")
	assert.Contains(t, err.Error(), "stderr: bad payload")
}
