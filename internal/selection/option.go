// SPDX-License-Identifier: MPL-2.0

package selection

import "golang.org/x/exp/slices"

type (
	// Option is one selectable entry. Options are compared by the position
	// they were appended at, so two options carrying equal values are still
	// distinct entries.
	Option struct {
		// Label is the text shown for the option.
		Label string
		// Value is handed back to callers when the option is selected.
		Value any
	}

	// OptionList is an insertion-ordered list of options. It accepts appends
	// until it is frozen, after which it is read-only.
	OptionList struct {
		items  []Option
		frozen bool
	}
)

// NewOption returns an option whose value defaults to its label.
func NewOption(label string, value ...any) Option {
	if len(value) == 0 {
		return Option{Label: label, Value: label}
	}
	return Option{Label: label, Value: value[0]}
}

// Append adds an option at the end of the list. It reports false and leaves
// the list untouched once the list is frozen.
func (l *OptionList) Append(o Option) bool {
	if l.frozen {
		return false
	}
	l.items = append(l.items, o)
	return true
}

// Len returns the number of options.
func (l *OptionList) Len() int { return len(l.items) }

// At returns the option at position i. It panics if i is out of range.
func (l *OptionList) At(i int) Option { return l.items[i] }

// Options returns a copy of the options in insertion order.
func (l *OptionList) Options() []Option { return slices.Clone(l.items) }

// Frozen reports whether the list no longer accepts appends.
func (l *OptionList) Frozen() bool { return l.frozen }

func (l *OptionList) freeze() { l.frozen = true }
