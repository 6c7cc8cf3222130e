// internal/form/actions.go
//
// Folio – Forms subsystem: post-submit actions.
//
// Context
//   A FormDef lists the actions to run once a submission validates.
//   ActionRunner turns that list into a SubmitFunc: the Validator awaits it,
//   and the first failing action fails the submission so the visitor keeps
//   the entered values and can retry.
//
// Workflow
//   •  Values are sanitized with a bluemonday strict policy.
//   •  A Submission with a fresh UUID is built once and shared by actions.
//   •  email → Outbox.SendEmail, store → SubmissionStore.Save,
//      webhook → Outbox.PostWebhook.
//
//------------------------------------------------------------------------------

package form

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/yanizio/folio/internal/message"
)

// ErrNoStore is returned by the store action when no SubmissionStore is
// configured.
var ErrNoStore = errors.New("store action requires a database")

// ActionRunner executes FormDef actions.  Store may be nil when no database
// is configured; forms that declare a store action then fail to submit.
type ActionRunner struct {
	Store  SubmissionStore
	Outbox message.Outbox

	policy *bluemonday.Policy
	now    func() time.Time
	newID  func() string
}

// NewActionRunner wires the collaborators.
func NewActionRunner(store SubmissionStore, outbox message.Outbox) *ActionRunner {
	return &ActionRunner{
		Store:  store,
		Outbox: outbox,
		policy: bluemonday.StrictPolicy(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// SubmitFunc returns the SubmitFunc for fd.  meta is recorded with the
// submission.
func (ar *ActionRunner) SubmitFunc(fd *FormDef, meta Meta) SubmitFunc {
	return func(ctx context.Context, data map[string]string) error {
		sub := Submission{
			ID:          ar.newID(),
			FormID:      fd.ID,
			SubmittedAt: ar.now().UTC(),
			Data:        ar.sanitize(data),
			Meta:        meta,
		}

		for _, ac := range fd.Actions {
			var err error
			switch ac.Type {
			case "email":
				err = ar.runEmail(ctx, fd, ac.Params, sub)
			case "store":
				err = ar.runStore(ctx, ac.Params, sub)
			case "webhook":
				err = ar.runWebhook(ctx, ac.Params, sub)
			default:
				err = fmt.Errorf("unsupported action")
			}
			if err != nil {
				return fmt.Errorf("form %s: %s action: %w", fd.ID, ac.Type, err)
			}
		}
		return nil
	}
}

// sanitize strips markup.  The policy also entity-escapes text, which is
// undone so stored and delivered values read as typed.
func (ar *ActionRunner) sanitize(data map[string]string) map[string]string {
	out := make(map[string]string, len(data))
	for k, v := range data {
		out[k] = html.UnescapeString(ar.policy.Sanitize(v))
	}
	return out
}

// -----------------------------------------------------------------------------
// Email action
// -----------------------------------------------------------------------------

func (ar *ActionRunner) runEmail(ctx context.Context, fd *FormDef, p map[string]any, sub Submission) error {
	to, err := stringList(p["to"])
	if err != nil {
		return err
	}

	subject, _ := p["subject"].(string)
	if subject == "" {
		title := fd.Title
		if title == "" {
			title = fd.ID
		}
		subject = fmt.Sprintf("Website form submission: %s", title)
	}

	body, err := json.MarshalIndent(sub.Data, "", "  ")
	if err != nil {
		return err
	}
	return ar.Outbox.SendEmail(ctx, message.Email{
		To:      to,
		Subject: subject,
		Text:    string(body),
	})
}

func stringList(v any) ([]string, error) {
	var out []string
	switch t := v.(type) {
	case string:
		out = []string{t}
	case []any:
		for _, e := range t {
			if s, ok := e.(string); ok && s != "" {
				out = append(out, s)
			}
		}
	default:
		return nil, fmt.Errorf("'to' parameter missing or invalid")
	}
	if len(out) == 0 || out[0] == "" {
		return nil, fmt.Errorf("'to' parameter empty")
	}
	return out, nil
}

// -----------------------------------------------------------------------------
// Store action
// -----------------------------------------------------------------------------

func (ar *ActionRunner) runStore(ctx context.Context, p map[string]any, sub Submission) error {
	if ar.Store == nil {
		return ErrNoStore
	}
	table, _ := p["table"].(string)
	return ar.Store.Save(ctx, table, sub)
}

// -----------------------------------------------------------------------------
// Webhook action
// -----------------------------------------------------------------------------

func (ar *ActionRunner) runWebhook(ctx context.Context, p map[string]any, sub Submission) error {
	url, _ := p["url"].(string)
	if url == "" {
		return fmt.Errorf("webhook action requires 'url'")
	}
	method, _ := p["method"].(string)

	headers := make(map[string]string)
	for k, v := range p {
		if strings.HasPrefix(k, "header.") {
			headers[strings.TrimPrefix(k, "header.")] = fmt.Sprint(v)
		}
	}

	return ar.Outbox.PostWebhook(ctx, message.Webhook{
		URL:     url,
		Method:  strings.ToUpper(method),
		Headers: headers,
		Body: map[string]any{
			"id":           sub.ID,
			"form":         sub.FormID,
			"submitted_at": sub.SubmittedAt.Format(time.RFC3339),
			"data":         sub.Data,
		},
	})
}
