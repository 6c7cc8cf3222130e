// internal/message/message.go
//
// Folio – Outbound messages.
//
// Context
//   Form actions hand off emails and webhooks here.  Webhooks are delivered
//   synchronously with resty so a failing endpoint fails the submission and
//   the visitor can retry.  Email delivery is still a log-only relay until
//   an SMTP provider is chosen; it records the payload with zap and returns
//   nil so callers proceed.
//
// Style
//   Two-space sentence spacing, Oxford comma, concise inline notes.
//
//------------------------------------------------------------------------------

package message

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Email represents a basic outbound email job.
type Email struct {
	To      []string
	Subject string
	Text    string
}

// Webhook represents one outbound HTTP call carrying a JSON body.
type Webhook struct {
	URL     string
	Method  string // POST when empty
	Headers map[string]string
	Body    any
}

// Outbox is what form actions depend on.
type Outbox interface {
	SendEmail(ctx context.Context, msg Email) error
	PostWebhook(ctx context.Context, hook Webhook) error
}

// Dispatcher is the production Outbox.
type Dispatcher struct {
	client *resty.Client
	log    *zap.SugaredLogger
}

// NewDispatcher returns a Dispatcher whose webhook calls time out after
// timeout (15 s when zero).
func NewDispatcher(log *zap.SugaredLogger, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Dispatcher{
		client: resty.New().SetTimeout(timeout),
		log:    log,
	}
}

// SendEmail logs the email payload.  Swap with a real relay later.
func (d *Dispatcher) SendEmail(_ context.Context, msg Email) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("email: no recipients")
	}
	d.log.Infow("email queued",
		"to", msg.To, "subject", msg.Subject, "len", len(msg.Text))
	return nil
}

// PostWebhook sends hook and treats any non-2xx status as failure.
func (d *Dispatcher) PostWebhook(ctx context.Context, hook Webhook) error {
	method := hook.Method
	if method == "" {
		method = http.MethodPost
	}

	resp, err := d.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeaders(hook.Headers).
		SetBody(hook.Body).
		Execute(method, hook.URL)
	if err != nil {
		return fmt.Errorf("webhook %s %s: %w", method, hook.URL, err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("webhook %s %s: status %d", method, hook.URL, resp.StatusCode())
	}

	d.log.Debugw("webhook delivered",
		"url", hook.URL, "method", method, "status", resp.StatusCode())
	return nil
}
