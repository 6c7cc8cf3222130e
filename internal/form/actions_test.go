// internal/form/actions_test.go
//
// Unit-tests for ActionRunner and SQLStore using sqlmock and a fake outbox.
//
// Run: go test ./internal/form -v

package form

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/jmoiron/sqlx"

	"github.com/yanizio/folio/internal/message"
)

type fakeOutbox struct {
	emails   []message.Email
	hooks    []message.Webhook
	hookErr  error
	emailErr error
}

func (o *fakeOutbox) SendEmail(_ context.Context, m message.Email) error {
	o.emails = append(o.emails, m)
	return o.emailErr
}

func (o *fakeOutbox) PostWebhook(_ context.Context, h message.Webhook) error {
	o.hooks = append(o.hooks, h)
	return o.hookErr
}

func fixedRunner(store SubmissionStore, out message.Outbox) *ActionRunner {
	ar := NewActionRunner(store, out)
	ar.now = func() time.Time { return time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC) }
	ar.newID = func() string { return "sub-1" }
	return ar
}

func TestActionRunner_StoreEmailWebhook(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(
		`INSERT INTO contact_submission (id,form_id,submitted_at,data,ip,user_agent,country) VALUES (?,?,?,?,?,?,?)`,
	)).
		WithArgs("sub-1", "contact", sqlmock.AnyArg(), []byte(`{"email":"ada@example.com","message":"Hi there"}`),
			"203.0.113.9", "curl/8", "NL").
		WillReturnResult(sqlmock.NewResult(1, 1))

	out := &fakeOutbox{}
	fd := &FormDef{
		ID:    "contact",
		Title: "Contact us",
		Actions: []ActionDef{
			{Type: "store", Params: map[string]any{"table": "contact_submission"}},
			{Type: "email", Params: map[string]any{"to": []any{"team@example.com", "ops@example.com"}}},
			{Type: "webhook", Params: map[string]any{"url": "https://hooks.example.com", "method": "put", "header.X-Token": "abc"}},
		},
	}

	ar := fixedRunner(NewSQLStore(sqlx.NewDb(db, "mysql")), out)
	fn := ar.SubmitFunc(fd, Meta{IP: "203.0.113.9", UserAgent: "curl/8", Country: "NL"})
	err = fn(context.Background(), map[string]string{
		"email":   "ada@example.com",
		"message": "Hi <b>there</b>",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}

	if len(out.emails) != 1 {
		t.Fatalf("emails = %d", len(out.emails))
	}
	if diff := cmp.Diff([]string{"team@example.com", "ops@example.com"}, out.emails[0].To); diff != "" {
		t.Fatalf("recipients (-want +got):\n%s", diff)
	}
	if out.emails[0].Subject != "Website form submission: Contact us" {
		t.Fatalf("subject = %q", out.emails[0].Subject)
	}

	if len(out.hooks) != 1 {
		t.Fatalf("hooks = %d", len(out.hooks))
	}
	h := out.hooks[0]
	if h.Method != "PUT" || h.Headers["X-Token"] != "abc" || h.URL != "https://hooks.example.com" {
		t.Fatalf("unexpected webhook: %+v", h)
	}
	body := h.Body.(map[string]any)
	if body["id"] != "sub-1" || body["submitted_at"] != "2026-05-04T10:00:00Z" {
		t.Fatalf("unexpected body: %#v", body)
	}
}

func TestActionRunner_KeepsPlainTextAsTyped(t *testing.T) {
	out := &fakeOutbox{}
	fd := &FormDef{
		ID:      "quote",
		Actions: []ActionDef{{Type: "webhook", Params: map[string]any{"url": "https://hooks.example.com"}}},
	}
	err := fixedRunner(nil, out).SubmitFunc(fd, Meta{})(context.Background(), map[string]string{
		"company":  "Smith & Sons",
		"lastName": "O'Brien",
		"message":  "budget < 5k, timeline > 2 weeks",
		"note":     "see <i>attached</i> & reply",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(out.hooks) != 1 {
		t.Fatalf("hooks = %d", len(out.hooks))
	}

	want := map[string]string{
		"company":  "Smith & Sons",
		"lastName": "O'Brien",
		"message":  "budget < 5k, timeline > 2 weeks",
		"note":     "see attached & reply",
	}
	got := out.hooks[0].Body.(map[string]any)["data"].(map[string]string)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("data (-want +got):\n%s", diff)
	}
}

func TestActionRunner_FirstFailureStops(t *testing.T) {
	out := &fakeOutbox{hookErr: errors.New("503")}
	fd := &FormDef{
		ID: "contact",
		Actions: []ActionDef{
			{Type: "webhook", Params: map[string]any{"url": "https://hooks.example.com"}},
			{Type: "email", Params: map[string]any{"to": "team@example.com"}},
		},
	}

	err := fixedRunner(nil, out).SubmitFunc(fd, Meta{})(context.Background(), map[string]string{})
	if err == nil || !errors.Is(err, out.hookErr) {
		t.Fatalf("err = %v, want wrapped webhook error", err)
	}
	if len(out.emails) != 0 {
		t.Fatal("email action ran after webhook failure")
	}
}

func TestActionRunner_ParamErrors(t *testing.T) {
	tests := []struct {
		name string
		ac   ActionDef
		want error
	}{
		{"store without db", ActionDef{Type: "store"}, ErrNoStore},
		{"email without to", ActionDef{Type: "email", Params: map[string]any{}}, nil},
		{"webhook without url", ActionDef{Type: "webhook", Params: map[string]any{}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fd := &FormDef{ID: "x", Actions: []ActionDef{tt.ac}}
			err := fixedRunner(nil, &fakeOutbox{}).SubmitFunc(fd, Meta{})(context.Background(), nil)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSQLStore_RejectsBadTable(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	st := NewSQLStore(sqlx.NewDb(db, "mysql"))
	if err := st.Save(context.Background(), "x; DROP TABLE y", Submission{}); err == nil {
		t.Fatal("expected invalid table error")
	}
}

func TestActionRunner_WithValidator(t *testing.T) {
	out := &fakeOutbox{emailErr: errors.New("relay down")}
	fd := &FormDef{ID: "contact", Actions: []ActionDef{{Type: "email", Params: map[string]any{"to": "a@b.com"}}}}

	s := contactSurface()
	v := New(s, &fakePresenter{}, fd.Messages)
	outcome, err := v.Submit(context.Background(), fixedRunner(nil, out).SubmitFunc(fd, Meta{}))
	if outcome != OutcomeFailed || !IsSubmissionError(err) {
		t.Fatalf("Submit = %v, %v", outcome, err)
	}
	if s.cleared != 0 {
		t.Fatal("values cleared after failed action")
	}
}
