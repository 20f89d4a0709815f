// Package notify sends test run results to chat, email, webhook and script channels.
package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/url"
	"os"
	"strings"
	"time"

	ntfy "github.com/go-pkgz/notify"

	"github.com/umputun/aiprobe/pkg/config"
)

// statuses used in Result.Status
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// maxListedFailures caps failed test names in a message.
const maxListedFailures = 10

// Service sends notifications through configured channels.
type Service struct {
	channels   []channel
	custom     *customChannel
	onError    bool
	onComplete bool
	timeout    time.Duration
	hostname   string
	log        logger
}

// channel pairs a notifier with its destination URI.
type channel struct {
	notifier   ntfy.Notifier
	dest       string
	htmlEscape bool // telegram uses HTML parse mode
}

type logger interface {
	Print(format string, args ...any)
}

// Result is the outcome of a test run, also the JSON document piped to custom scripts.
type Result struct {
	Status   string   `json:"status"` // success or failure
	Env      string   `json:"env"`
	Browser  string   `json:"browser"`
	BaseURL  string   `json:"base_url,omitempty"`
	Passed   int      `json:"passed"`
	Failed   int      `json:"failed"`
	Skipped  int      `json:"skipped"`
	Failures []string `json:"failures,omitempty"` // failed test names
	Duration string   `json:"duration"`
	Report   string   `json:"report,omitempty"` // markdown report path
	Error    string   `json:"error,omitempty"`  // run error, e.g. build failure
}

// New creates a Service from notify settings.
// Returns nil, nil when no channels are configured, Send is nil-safe.
func New(p config.Notify, log logger) (*Service, error) {
	if len(p.Channels) == 0 {
		return nil, nil //nolint:nilnil // nil service means notifications are off
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	svc := &Service{
		onError:    p.OnError,
		onComplete: p.OnComplete,
		timeout:    time.Duration(p.TimeoutMs) * time.Millisecond,
		hostname:   hostname,
		log:        log,
	}
	if svc.timeout <= 0 {
		svc.timeout = 10 * time.Second
	}

	for _, ch := range p.Channels {
		switch strings.TrimSpace(strings.ToLower(ch)) {
		case "telegram":
			if p.TelegramToken == "" || p.TelegramChat == "" {
				return nil, errors.New("telegram channel: telegram_token and telegram_chat are required")
			}
			c, cErr := telegramChannelMaker(p)
			if cErr != nil {
				// telegram verifies the token with a live call, an unreachable api only disables the channel
				log.Print("[WARN] telegram channel disabled: %s", strings.ReplaceAll(cErr.Error(), p.TelegramToken, "[REDACTED]"))
				continue
			}
			svc.channels = append(svc.channels, c)
		case "email":
			c, cErr := makeEmailChannel(p)
			if cErr != nil {
				return nil, fmt.Errorf("email channel: %w", cErr)
			}
			svc.channels = append(svc.channels, c)
		case "slack":
			c, cErr := makeSlackChannel(p)
			if cErr != nil {
				return nil, fmt.Errorf("slack channel: %w", cErr)
			}
			svc.channels = append(svc.channels, c)
		case "webhook":
			chs, cErr := makeWebhookChannels(p)
			if cErr != nil {
				return nil, fmt.Errorf("webhook channel: %w", cErr)
			}
			svc.channels = append(svc.channels, chs...)
		case "custom":
			if p.CustomScript == "" {
				return nil, errors.New("custom channel: custom_script is required")
			}
			svc.custom = &customChannel{scriptPath: p.CustomScript}
		default:
			return nil, fmt.Errorf("unknown notification channel: %q", ch)
		}
	}

	if len(svc.channels) == 0 && svc.custom == nil {
		log.Print("[WARN] no notification channel is usable")
	}
	return svc, nil
}

// Send delivers r to all channels if its status is enabled by on_error/on_complete.
// Failures are logged, never returned.
func (s *Service) Send(ctx context.Context, r Result) {
	if s == nil {
		return
	}
	if r.Status == StatusSuccess && !s.onComplete {
		return
	}
	if r.Status == StatusFailure && !s.onError {
		return
	}

	msg := s.formatMessage(r)

	sendCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	for _, ch := range s.channels {
		text := msg
		if ch.htmlEscape {
			text = html.EscapeString(msg)
		}
		if err := ch.notifier.Send(sendCtx, ch.dest, text); err != nil {
			s.log.Print("[WARN] notification failed for %s: %v", ch.notifier, err)
		}
	}

	if s.custom != nil {
		if err := s.custom.send(sendCtx, r); err != nil {
			s.log.Print("[WARN] custom notification failed: %v", err)
		}
	}
}

func (s *Service) formatMessage(r Result) string {
	var b strings.Builder

	verb := "passed"
	if r.Status != StatusSuccess {
		verb = "failed"
	}
	fmt.Fprintf(&b, "aiprobe tests %s on %s\n\n", verb, s.hostname)

	if r.Env != "" {
		fmt.Fprintf(&b, "env:      %s\n", r.Env)
	}
	if r.BaseURL != "" {
		fmt.Fprintf(&b, "url:      %s\n", r.BaseURL)
	}
	if r.Browser != "" {
		fmt.Fprintf(&b, "browser:  %s\n", r.Browser)
	}
	fmt.Fprintf(&b, "tests:    %d passed, %d failed, %d skipped\n", r.Passed, r.Failed, r.Skipped)
	if r.Duration != "" {
		fmt.Fprintf(&b, "duration: %s\n", r.Duration)
	}
	if r.Report != "" {
		fmt.Fprintf(&b, "report:   %s\n", r.Report)
	}

	if len(r.Failures) > 0 {
		b.WriteString("failed:\n")
		for i, name := range r.Failures {
			if i == maxListedFailures {
				fmt.Fprintf(&b, "  ... and %d more\n", len(r.Failures)-maxListedFailures)
				break
			}
			fmt.Fprintf(&b, "  - %s\n", name)
		}
	}

	if r.Error != "" {
		fmt.Fprintf(&b, "error:    %s\n", r.Error)
	}
	return b.String()
}

// telegramChannelMaker is replaced in tests to avoid live API calls.
var telegramChannelMaker = makeTelegramChannel

func makeTelegramChannel(p config.Notify) (channel, error) {
	tg, err := ntfy.NewTelegram(ntfy.TelegramParams{Token: p.TelegramToken})
	if err != nil {
		return channel{}, fmt.Errorf("create telegram notifier: %w", err)
	}
	return channel{notifier: tg, dest: fmt.Sprintf("telegram:%s?parseMode=HTML", p.TelegramChat), htmlEscape: true}, nil
}

func makeEmailChannel(p config.Notify) (channel, error) {
	switch {
	case p.SMTPHost == "":
		return channel{}, errors.New("smtp_host is required")
	case p.EmailFrom == "":
		return channel{}, errors.New("email_from is required")
	case len(p.EmailTo) == 0:
		return channel{}, errors.New("email_to is required")
	}

	em := ntfy.NewEmail(ntfy.SMTPParams{
		Host:     p.SMTPHost,
		Port:     p.SMTPPort,
		Username: p.SMTPUsername,
		Password: p.SMTPPassword,
		StartTLS: p.SMTPStartTLS,
	})
	dest := fmt.Sprintf("mailto:%s?from=%s&subject=%s",
		strings.Join(p.EmailTo, ","), url.QueryEscape(p.EmailFrom), url.QueryEscape("aiprobe test results"))
	return channel{notifier: em, dest: dest}, nil
}

func makeSlackChannel(p config.Notify) (channel, error) {
	if p.SlackToken == "" {
		return channel{}, errors.New("slack_token is required")
	}
	if p.SlackChannel == "" {
		return channel{}, errors.New("slack_channel is required")
	}
	return channel{notifier: ntfy.NewSlack(p.SlackToken), dest: "slack:" + p.SlackChannel}, nil
}

func makeWebhookChannels(p config.Notify) ([]channel, error) {
	if len(p.WebhookURLs) == 0 {
		return nil, errors.New("webhook_urls is required")
	}
	wh := ntfy.NewWebhook(ntfy.WebhookParams{})
	res := make([]channel, 0, len(p.WebhookURLs))
	for _, u := range p.WebhookURLs {
		res = append(res, channel{notifier: wh, dest: u})
	}
	return res, nil
}
