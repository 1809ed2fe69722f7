package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.telegram.org"

// Notifier posts messages to one Telegram chat through the Bot API.
type Notifier struct {
	hc       *http.Client
	base     string
	botToken string
	chatID   string
}

func New(baseURL, botToken, chatID string, timeout time.Duration) *Notifier {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Notifier{
		hc:       &http.Client{Timeout: timeout},
		base:     strings.TrimRight(baseURL, "/"),
		botToken: botToken,
		chatID:   chatID,
	}
}

// Send delivers text once. Any status other than 200 is an error carrying
// the response body.
// TODO: split messages longer than the Bot API's 4096 character limit.
func (n *Notifier) Send(ctx context.Context, text string) error {
	form := url.Values{
		"chat_id": {n.chatID},
		"text":    {text},
	}
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.base, n.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("content-type", "application/x-www-form-urlencoded")

	res, err := n.hc.Do(req)
	if err != nil {
		// the request URL embeds the bot token
		return fmt.Errorf("telegram: send failed: %w", redact(err, n.botToken))
	}
	defer res.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(res.Body, 64<<10))
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram: http %d: %s", res.StatusCode, body)
	}
	return nil
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

func redact(err error, secret string) error {
	if secret == "" {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(err.Error(), secret, "<redacted>"), err: err}
}
