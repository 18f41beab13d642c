// SPDX-License-Identifier: MPL-2.0

package selection

import (
	"errors"

	"golang.org/x/exp/slices"
)

// Outcome values.
const (
	OutcomeCommitted Outcome = iota + 1
	OutcomeCancelled
)

// ErrCancelled is returned by Result.Err when the user cancelled.
var ErrCancelled = errors.New("selection cancelled")

type (
	// Outcome tells how an interaction ended.
	Outcome int

	// Result is the final state handed to callers on commit or cancel.
	Result struct {
		Outcome     Outcome
		MultiSelect bool
		// Selected holds the checked options in check order.
		Selected []Option
		// Positions holds the list positions of Selected, in the same order.
		Positions []int
		// Message is the configured cancel message, set on cancel only.
		Message string
	}

	// Listener is notified once when an interaction ends.
	Listener interface {
		Commit(r Result)
		Cancel(r Result)
	}

	// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
	ListenerFuncs struct {
		OnCommit func(Result)
		OnCancel func(Result)
	}
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCommitted:
		return "committed"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "pending"
	}
}

// Commit implements Listener.
func (f ListenerFuncs) Commit(r Result) {
	if f.OnCommit != nil {
		f.OnCommit(r)
	}
}

// Cancel implements Listener.
func (f ListenerFuncs) Cancel(r Result) {
	if f.OnCancel != nil {
		f.OnCancel(r)
	}
}

// Cancelled reports whether the interaction was cancelled.
func (r Result) Cancelled() bool { return r.Outcome == OutcomeCancelled }

// Empty reports whether nothing was selected.
func (r Result) Empty() bool { return len(r.Selected) == 0 }

// Err returns ErrCancelled for a cancelled result and nil otherwise.
func (r Result) Err() error {
	if r.Cancelled() {
		return ErrCancelled
	}
	return nil
}

// Values returns the values of the selected options in check order.
func (r Result) Values() []any {
	values := make([]any, len(r.Selected))
	for i, o := range r.Selected {
		values[i] = o.Value
	}
	return values
}

// Labels returns the labels of the selected options in check order.
func (r Result) Labels() []string {
	labels := make([]string, len(r.Selected))
	for i, o := range r.Selected {
		labels[i] = o.Label
	}
	return labels
}

// First returns the first selected option.
func (r Result) First() (Option, bool) {
	if len(r.Selected) == 0 {
		return Option{}, false
	}
	return r.Selected[0], true
}

// Value returns the mode-shaped value: the list of values in multi-select
// mode, otherwise the single selected value or nil when nothing was selected.
func (r Result) Value() any {
	if r.MultiSelect {
		return r.Values()
	}
	if o, ok := r.First(); ok {
		return o.Value
	}
	return nil
}

func (r Result) clone() Result {
	r.Selected = slices.Clone(r.Selected)
	r.Positions = slices.Clone(r.Positions)
	return r
}
