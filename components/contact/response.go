// components/contact/response.go
package contact

import (
	"sync"

	"github.com/yanizio/folio/internal/form"
)

// jsonPresenter records what the page would display so the handler can put
// it in the response body.
type jsonPresenter struct {
	mu      sync.Mutex
	message string
	kind    form.NoticeKind
	loading bool
}

func (p *jsonPresenter) Notify(msg string, kind form.NoticeKind) {
	p.mu.Lock()
	p.message, p.kind = msg, kind
	p.mu.Unlock()
}

func (p *jsonPresenter) SetLoading(on bool) {
	p.mu.Lock()
	p.loading = on
	p.mu.Unlock()
}

func (p *jsonPresenter) notice() (string, form.NoticeKind) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.message, p.kind
}

type errorBody struct {
	Message string `json:"message"`
}

type fieldBody struct {
	Field string `json:"field"`
	form.Result
}

type submitBody struct {
	Outcome string            `json:"outcome"`
	Message string            `json:"message,omitempty"`
	Kind    form.NoticeKind   `json:"kind,omitempty"`
	Errors  []form.ErrorField `json:"errors,omitempty"`
	Values  map[string]string `json:"values,omitempty"`
}

type fieldSummary struct {
	Name        string    `json:"name"`
	Label       string    `json:"label"`
	Type        form.Kind `json:"type"`
	Placeholder string    `json:"placeholder,omitempty"`
	Required    bool      `json:"required"`
}

type definitionBody struct {
	ID     string         `json:"id"`
	Title  string         `json:"title,omitempty"`
	Fields []fieldSummary `json:"fields"`
	Token  string         `json:"csrf_token"`
}

func newDefinitionBody(fd *form.FormDef, tok string) definitionBody {
	body := definitionBody{ID: fd.ID, Title: fd.Title, Token: tok}
	for _, f := range fd.Fields {
		body.Fields = append(body.Fields, fieldSummary{
			Name:        f.Name,
			Label:       f.Label,
			Type:        f.Type,
			Placeholder: f.Placeholder,
			Required:    f.Required,
		})
	}
	return body
}
