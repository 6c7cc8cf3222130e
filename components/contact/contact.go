// components/contact/contact.go
//
// Folio contact component – form definitions over HTTP.
//
// Context
//   Serves every form in the registry (contact, quote, newsletter, …) as a
//   small JSON API that the page script drives:
//
//     GET  /forms/{id}           definition summary plus a fresh CSRF token
//     POST /forms/{id}/validate  blur validation of one field
//     POST /forms/{id}           submit
//
// Workflow (submit)
//   1.  Guard.Check rejects missing, forged, too-fast, stale, and already
//       spent tokens (403).
//   2.  A second post carrying a token whose submission is still running
//       gets 409 and never reaches a validator.
//   3.  A PostedSurface and a jsonPresenter wrap the request; a fresh
//       form.Validator runs Submit with the definition's actions.
//   4.  The outcome maps to 200, 422, or 502.  Success spends the token;
//       a 422 or 502 leaves it usable for the corrected retry.
//
// Notes
//   The form core never logs; this layer logs outcomes with zap and counts
//   them in Prometheus.
//
//------------------------------------------------------------------------------

package contact

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/folio/internal/component"
	"github.com/yanizio/folio/internal/form"
	"github.com/yanizio/folio/internal/metrics"
	"github.com/yanizio/folio/internal/requestinfo"
)

// TokenField is the form field (or X-CSRF-Token header) carrying the guard
// token.
const TokenField = "csrf_token"

// Compile-time assertion.
var _ component.Component = (*Component)(nil)

// Component serves form definitions.
type Component struct {
	forms   *form.Registry
	guard   *form.Guard
	runner  *form.ActionRunner
	timeout time.Duration
	log     *zap.SugaredLogger

	mu       sync.Mutex
	inflight map[string]struct{} // csrf tokens with a submission running
}

// New wires a ready component; Init does the same from configuration.
func New(forms *form.Registry, guard *form.Guard, runner *form.ActionRunner, timeout time.Duration, log *zap.SugaredLogger) *Component {
	c := &Component{}
	c.wire(forms, guard, runner, timeout, log)
	return c
}

func (c *Component) wire(forms *form.Registry, guard *form.Guard, runner *form.ActionRunner, timeout time.Duration, log *zap.SugaredLogger) {
	if log == nil {
		log = zap.S()
	}
	c.forms, c.guard, c.runner, c.timeout, c.log = forms, guard, runner, timeout, log
	c.inflight = make(map[string]struct{})
	metrics.FormsLoaded.Set(float64(len(forms.IDs())))
}

/*────────────────── component.Component methods ───────────────────────────*/

// Name returns the canonical component key.
func (c *Component) Name() string { return "contact" }

// Prefix is where Routes is mounted.
func (c *Component) Prefix() string { return "/forms" }

// Migrations creates the default submission table.
func (c *Component) Migrations() []string {
	return []string{`CREATE TABLE IF NOT EXISTS ` + form.DefaultTable + ` (
  id           CHAR(36)     NOT NULL PRIMARY KEY,
  form_id      VARCHAR(64)  NOT NULL,
  submitted_at DATETIME(6)  NOT NULL,
  data         JSON         NOT NULL,
  ip           VARCHAR(45)  NOT NULL DEFAULT '',
  user_agent   VARCHAR(512) NOT NULL DEFAULT '',
  country      CHAR(2)      NOT NULL DEFAULT '',
  KEY idx_form_submitted (form_id, submitted_at)
)`}
}

// Init loads definitions from forms.dir and builds the guard and runner.
func (c *Component) Init(deps component.Deps) error {
	cfg := deps.Config

	reg := form.NewRegistry()
	if err := reg.LoadDir(cfg.Paths.Abs(cfg.Forms.Dir)); err != nil {
		return err
	}

	var store form.SubmissionStore
	if deps.DB != nil {
		store = form.NewSQLStore(deps.DB)
	}

	c.wire(
		reg,
		form.NewGuard([]byte(cfg.Forms.CSRFKey), cfg.Forms.MinFillTime, cfg.Forms.MaxFormAge),
		form.NewActionRunner(store, deps.Outbox),
		cfg.Forms.SubmitTimeout,
		deps.Logger(),
	)
	c.log.Infow("forms loaded", "forms", reg.IDs())
	return nil
}

// Routes builds the router mounted at Prefix().
func (c *Component) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{id}", c.handleGet)
	r.Post("/{id}", c.handleSubmit)
	r.Post("/{id}/validate", c.handleValidate)
	return r
}

// Register component at program start.
func init() { component.Register(&Component{}) }

/*──────────────────────────── Handlers ─────────────────────────────────────*/

func (c *Component) lookup(w http.ResponseWriter, r *http.Request) (*form.FormDef, bool) {
	fd, err := c.forms.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody{Message: "form not found"})
		return nil, false
	}
	return fd, true
}

func (c *Component) handleGet(w http.ResponseWriter, r *http.Request) {
	fd, ok := c.lookup(w, r)
	if !ok {
		return
	}
	tok, err := c.guard.Token()
	if err != nil {
		c.log.Errorw("csrf token", "form", fd.ID, "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Message: "token unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, newDefinitionBody(fd, tok))
}

func (c *Component) handleValidate(w http.ResponseWriter, r *http.Request) {
	fd, ok := c.lookup(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "malformed form body"})
		return
	}

	name := r.PostForm.Get("field")
	surface := form.NewPostedSurface(fd, r.PostForm)
	f, ok := surface.Field(name)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "unknown field"})
		return
	}

	res := form.New(surface, &jsonPresenter{}, fd.Messages).ValidateField(f)
	metrics.FieldValidations.WithLabelValues(fd.ID, resultLabel(res)).Inc()
	writeJSON(w, http.StatusOK, fieldBody{Field: name, Result: res})
}

func (c *Component) handleSubmit(w http.ResponseWriter, r *http.Request) {
	fd, ok := c.lookup(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "malformed form body"})
		return
	}

	tok := r.PostForm.Get(TokenField)
	if tok == "" {
		tok = r.Header.Get("X-CSRF-Token")
	}
	if err := c.guard.Check(tok); err != nil {
		metrics.FormSubmissions.WithLabelValues(fd.ID, "rejected").Inc()
		c.log.Warnw("form rejected", "form", fd.ID, "reason", err)
		writeJSON(w, http.StatusForbidden, errorBody{Message: guardMessage(err)})
		return
	}

	if !c.acquire(tok) {
		metrics.FormSubmissions.WithLabelValues(fd.ID, form.OutcomeIgnored.String()).Inc()
		writeIgnored(w)
		return
	}
	defer c.release(tok)
	// The previous holder may have spent the token between Check and acquire.
	if err := c.guard.Check(tok); err != nil {
		writeJSON(w, http.StatusForbidden, errorBody{Message: guardMessage(err)})
		return
	}

	surface := form.NewPostedSurface(fd, r.PostForm)
	presenter := &jsonPresenter{}
	v := form.New(surface, presenter, fd.Messages)

	ctx := r.Context()
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	outcome, err := v.Submit(ctx, c.runner.SubmitFunc(fd, meta(r)))
	metrics.FormSubmissions.WithLabelValues(fd.ID, outcome.String()).Inc()

	body := submitBody{Outcome: outcome.String(), Values: surface.Values()}
	body.Message, body.Kind = presenter.notice()

	var status int
	switch outcome {
	case form.OutcomeSucceeded:
		metrics.SubmitDuration.WithLabelValues(fd.ID).Observe(time.Since(start).Seconds())
		c.guard.Consume(tok)
		c.log.Infow("form submitted", "form", fd.ID)
		status = http.StatusOK
	case form.OutcomeInvalid:
		var ve *form.ValidationError
		if errors.As(err, &ve) {
			body.Errors = ve.Fields
		}
		status = http.StatusUnprocessableEntity
	case form.OutcomeFailed:
		metrics.SubmitDuration.WithLabelValues(fd.ID).Observe(time.Since(start).Seconds())
		c.log.Errorw("form submission failed", "form", fd.ID, "err", err)
		status = http.StatusBadGateway
	default:
		writeIgnored(w)
		return
	}
	writeJSON(w, status, body)
}

// acquire claims tok for one submission.  It reports false while another
// request holding the same token is still running.
func (c *Component) acquire(tok string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inflight[tok]; busy {
		return false
	}
	c.inflight[tok] = struct{}{}
	return true
}

func (c *Component) release(tok string) {
	c.mu.Lock()
	delete(c.inflight, tok)
	c.mu.Unlock()
}

/*──────────────────────────── Helpers ──────────────────────────────────────*/

func meta(r *http.Request) form.Meta {
	ri := requestinfo.FromContext(r.Context())
	if ri == nil {
		return form.Meta{UserAgent: r.UserAgent()}
	}
	return form.Meta{
		IP:        ri.IP(),
		UserAgent: ri.UA.Raw,
		Device:    ri.UA.Device,
		Country:   ri.Geo.CountryISO,
	}
}

func guardMessage(err error) string {
	switch {
	case errors.Is(err, form.ErrTooFast):
		return "Please take a moment to review your message before sending."
	case errors.Is(err, form.ErrExpired):
		return "This form has expired. Please reload the page and try again."
	case errors.Is(err, form.ErrUsed):
		return "This form has already been sent. Please reload the page to send another message."
	}
	return "Security check failed. Please reload the page and try again."
}

func writeIgnored(w http.ResponseWriter) {
	writeJSON(w, http.StatusConflict, submitBody{
		Outcome: form.OutcomeIgnored.String(),
		Message: "Your message is already being sent.",
	})
}

func resultLabel(res form.Result) string {
	if res.Valid {
		return "valid"
	}
	return "invalid"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.S().Warnw("json encode", "err", err)
	}
}
