// internal/form/submit.go
//
// Folio – Forms subsystem: submission state machine.
//
// Context
//   Submit drives one attempt through
//
//       Idle → Validating → (Invalid | Submitting) → (Succeeded | Failed) → Idle
//
//   The Validating and Submitting states double as the in-flight guard: a
//   second Submit that finds the machine outside Idle returns OutcomeIgnored
//   without queuing or cancelling the running attempt.  The guard is a
//   compare-and-swap on the state word; no lock is held while the submit
//   function runs.
//
//   The core never times out a submission.  Deadlines belong to the ctx the
//   caller passes in, which reaches SubmitFunc untouched.
//
//------------------------------------------------------------------------------

package form

import (
	"context"
	"strings"
)

// State is the submission state of a Validator.
type State int32

const (
	StateIdle State = iota
	StateValidating
	StateInvalid
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateInvalid:
		return "invalid"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome summarises how one Submit call ended.
type Outcome int

const (
	OutcomeIgnored Outcome = iota
	OutcomeInvalid
	OutcomeSucceeded
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SubmitFunc performs the actual submission of validated data.  A nil
// return means success.
type SubmitFunc func(ctx context.Context, data map[string]string) error

// Messages holds the notification copy shown by Submit.
type Messages struct {
	Invalid string `yaml:"invalid"`
	Success string `yaml:"success"`
	Failure string `yaml:"failure"`
}

// DefaultMessages is the copy used when a form does not override it.
var DefaultMessages = Messages{
	Invalid: "Please correct the errors below",
	Success: "Thank you for your message! We'll get back to you soon.",
	Failure: "There was an error sending your message. Please try again.",
}

func (m Messages) withDefaults() Messages {
	if m.Invalid == "" {
		m.Invalid = DefaultMessages.Invalid
	}
	if m.Success == "" {
		m.Success = DefaultMessages.Success
	}
	if m.Failure == "" {
		m.Failure = DefaultMessages.Failure
	}
	return m
}

// State returns the current submission state.
func (v *Validator) State() State { return State(v.state.Load()) }

func (v *Validator) setState(s State) { v.state.Store(int32(s)) }

// Submit validates the form and, when every required field passes, hands
// the trimmed data to fn.  The returned error is a *ValidationError for
// OutcomeInvalid, a *SubmissionError for OutcomeFailed, and nil otherwise.
func (v *Validator) Submit(ctx context.Context, fn SubmitFunc) (Outcome, error) {
	if !v.state.CompareAndSwap(int32(StateIdle), int32(StateValidating)) {
		return OutcomeIgnored, nil
	}

	fields := v.surface.Fields()
	results, ok := v.evaluate(fields)
	v.storeResults(results)
	if !ok {
		v.setState(StateInvalid)
		verr := &ValidationError{Fields: v.Errors()}
		v.presenter.Notify(v.copy.Invalid, NoticeError)
		v.setState(StateIdle)
		return OutcomeInvalid, verr
	}

	if err := v.call(ctx, fn, fields); err != nil {
		v.setState(StateFailed)
		v.presenter.Notify(v.copy.Failure, NoticeError)
		v.setState(StateIdle)
		return OutcomeFailed, &SubmissionError{Err: err}
	}

	v.setState(StateSucceeded)
	v.surface.Clear()
	v.clearResults()
	v.presenter.Notify(v.copy.Success, NoticeSuccess)
	v.setState(StateIdle)
	return OutcomeSucceeded, nil
}

// call runs fn with loading shown.  A panic in fn clears loading and
// returns the validator to Idle before propagating.
func (v *Validator) call(ctx context.Context, fn SubmitFunc, fields []Field) error {
	v.setState(StateSubmitting)
	v.presenter.SetLoading(true)
	defer func() {
		v.presenter.SetLoading(false)
		if r := recover(); r != nil {
			v.setState(StateIdle)
			panic(r)
		}
	}()
	return fn(ctx, collect(fields))
}

// collect builds the name → trimmed value mapping handed to SubmitFunc.
// Checked checkboxes submit "on"; unchecked ones are omitted.
func collect(fields []Field) map[string]string {
	data := make(map[string]string, len(fields))
	for _, f := range fields {
		if f.Kind == KindCheckbox {
			if f.Checked {
				data[f.Name] = "on"
			}
			continue
		}
		data[f.Name] = strings.TrimSpace(f.Value)
	}
	return data
}
