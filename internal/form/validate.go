// internal/form/validate.go
//
// Folio – Forms subsystem: the per-form Validator.
//
// Context
//   One Validator exists per form instance.  It is constructed with the two
//   collaborators the host supplies: a Surface that enumerates fields and
//   resolves labels, and a Presenter that shows notifications.  The
//   Validator owns the FormState, i.e. the latest Result per field plus the
//   submission state.
//
// Workflow
//   •  ValidateField evaluates one field (blur/input events) and records the
//      result.
//   •  ValidateForm evaluates every required field and required checkbox in
//      one pass.  Results are built in a fresh map and swapped in whole, so
//      Results never returns a half-finished pass.
//   •  Submit (submit.go) drives the state machine on top of ValidateForm.
//
//------------------------------------------------------------------------------

package form

import (
	"sync"
	"sync/atomic"
)

// Surface is the input collaborator: it enumerates the form's fields with
// their current values, resolves labels, and clears values after a
// successful submission.
type Surface interface {
	Fields() []Field
	Label(name string) string
	Clear()
}

// Presenter is the output collaborator.  Rendering is entirely its
// business; the Validator only reports what to show.
type Presenter interface {
	Notify(message string, kind NoticeKind)
	SetLoading(loading bool)
}

// Validator validates one form and gates its submission.  Zero value is
// unusable; construct with New.
type Validator struct {
	surface   Surface
	presenter Presenter
	copy      Messages

	state atomic.Int32 // State, guards the single in-flight submission

	mu      sync.RWMutex
	results map[string]Result
}

// New returns a Validator bound to surface and presenter.  msgs overrides the
// notification copy; zero fields fall back to DefaultMessages.
func New(surface Surface, presenter Presenter, msgs Messages) *Validator {
	return &Validator{
		surface:   surface,
		presenter: presenter,
		copy:      msgs.withDefaults(),
		results:   make(map[string]Result),
	}
}

// ValidateField evaluates f, records the result in the form state, and
// returns it.
func (v *Validator) ValidateField(f Field) Result {
	res := ValidateField(f, v.surface.Label(f.Name))

	v.mu.Lock()
	v.results[f.Name] = res
	v.mu.Unlock()
	return res
}

// ValidateForm evaluates every required field and every required checkbox
// currently on the surface.  It returns true iff all of them are valid.
func (v *Validator) ValidateForm() bool {
	results, ok := v.evaluate(v.surface.Fields())
	v.storeResults(results)
	return ok
}

// storeResults swaps in the results of a complete pass.
func (v *Validator) storeResults(results map[string]Result) {
	v.mu.Lock()
	v.results = results
	v.mu.Unlock()
}

// evaluate runs one complete pass without touching the form state.
func (v *Validator) evaluate(fields []Field) (map[string]Result, bool) {
	results := make(map[string]Result, len(fields))
	ok := true
	for _, f := range fields {
		if !f.Required {
			continue
		}
		res := ValidateField(f, v.surface.Label(f.Name))
		results[f.Name] = res
		if !res.Valid {
			ok = false
		}
	}
	return results, ok
}

// Results returns a copy of the latest per-field results.
func (v *Validator) Results() map[string]Result {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make(map[string]Result, len(v.results))
	for k, r := range v.results {
		out[k] = r
	}
	return out
}

// Errors lists the failing fields of the latest pass in surface order.
func (v *Validator) Errors() []ErrorField {
	v.mu.RLock()
	defer v.mu.RUnlock()
	var errs []ErrorField
	for _, f := range v.surface.Fields() {
		if r, ok := v.results[f.Name]; ok && !r.Valid {
			errs = append(errs, ErrorField{Name: f.Name, Message: r.Message})
		}
	}
	return errs
}

// IsSubmitting reports whether a submission is being validated or is in
// flight.
func (v *Validator) IsSubmitting() bool {
	s := v.State()
	return s == StateValidating || s == StateSubmitting
}

func (v *Validator) clearResults() { v.storeResults(make(map[string]Result)) }
