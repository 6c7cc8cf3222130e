// internal/form/field.go
//
// Folio – Forms subsystem: field and result types.
//
// Context
//   A Field is the logical entry the validator works on.  It is a plain
//   value: the host surface (HTTP post, test fixture, etc.) builds a fresh
//   slice of Fields for every validation pass, so nothing here is shared or
//   mutated behind the caller's back.
//
//------------------------------------------------------------------------------

package form

import "strings"

// Kind enumerates the field kinds the rule table understands.
type Kind string

const (
	KindText     Kind = "text"
	KindEmail    Kind = "email"
	KindTel      Kind = "tel"
	KindTextarea Kind = "textarea"
	KindCheckbox Kind = "checkbox"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindText, KindEmail, KindTel, KindTextarea, KindCheckbox:
		return true
	}
	return false
}

// Field is one named, typed input value subject to validation.
type Field struct {
	Name     string // Submission key.  Unique per form.
	Value    string // Raw value as entered; trimmed before evaluation.
	Checked  bool   // Checkbox state.  Ignored for other kinds.
	Required bool
	Kind     Kind

	// NameLike marks person-name inputs that need at least two characters.
	// firstName and lastName are name-like even when the flag is unset.
	NameLike bool

	// RequiredMessage replaces the default message for a required,
	// unchecked checkbox.  Empty means "This field is required".
	RequiredMessage string
}

// Rules returns the ordered rule list applicable to the field's kind.
func (f Field) Rules() []Rule { return rulesFor(f.Kind) }

// trimmed returns the value with surrounding whitespace removed.
func (f Field) trimmed() string { return strings.TrimSpace(f.Value) }

// Result is the outcome of validating one field.  An empty Message on a
// valid result stands for "no message".
type Result struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// valid is the shared passing result.
var valid = Result{Valid: true}

func invalid(msg string) Result { return Result{Valid: false, Message: msg} }

// NoticeKind tells the presenter how to style a notification.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)
