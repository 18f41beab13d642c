// SPDX-License-Identifier: MPL-2.0

package selection

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Default glyphs, colour tags and messages.
const (
	DefaultPointer        = "> "
	DefaultPointerColor   = "white"
	DefaultChecked        = " ✓"
	DefaultUnchecked      = ""
	DefaultCheckedColor   = "green"
	DefaultMsgCancel      = "No selected options!"
	DefaultMsgCancelColor = "red"
	DefaultUpArrow        = "△"
	DefaultDownArrow      = "▽"
	DefaultArrowColor     = "yellow"
	DefaultOptionsLimit   = OptionsLimit(5)
)

// ErrInvalidOptionsLimit is the sentinel error wrapped by InvalidOptionsLimitError.
var ErrInvalidOptionsLimit = errors.New("invalid options limit")

type (
	// OptionsLimit is the number of rows the viewport shows at once.
	// Zero disables windowing and every option is rendered.
	OptionsLimit int

	// InvalidOptionsLimitError is returned when an OptionsLimit is negative.
	// It wraps ErrInvalidOptionsLimit for errors.Is() compatibility.
	InvalidOptionsLimitError struct {
		Value OptionsLimit
	}

	// Config holds the widget configuration. Colour fields are opaque tags
	// handed to the Renderer; this package never interprets them.
	Config struct {
		// Pointer marks the row under the cursor.
		Pointer      string
		PointerColor string
		// Checked and Unchecked are appended (or prepended) to labels in
		// multi-select mode.
		Checked      string
		Unchecked    string
		CheckedColor string
		// MsgCancel is surfaced to the caller on cancel. Empty disables it.
		MsgCancel      string
		MsgCancelColor string
		// UpArrow and DownArrow are the scroll indicators.
		UpArrow    string
		DownArrow  string
		ArrowColor string

		MultiSelect       bool
		Inverse           bool
		Prepend           bool
		ClearBeforeSelect bool
		ClearBeforeCancel bool
		OptionsLimit      OptionsLimit

		// Extra keeps configuration keys this package does not recognise.
		Extra map[string]any
	}
)

// String returns the decimal string representation of the OptionsLimit.
func (l OptionsLimit) String() string { return strconv.Itoa(int(l)) }

// IsValid returns whether the OptionsLimit is valid.
// The zero value (0) means "show all" and is valid.
func (l OptionsLimit) IsValid() (bool, []error) {
	if l < 0 {
		return false, []error{&InvalidOptionsLimitError{Value: l}}
	}
	return true, nil
}

// Windowed reports whether the limit pages the option list.
func (l OptionsLimit) Windowed() bool { return l > 0 }

// Error implements the error interface for InvalidOptionsLimitError.
func (e *InvalidOptionsLimitError) Error() string {
	return fmt.Sprintf("invalid options limit %d: must be >= 0 (0 shows all options)", e.Value)
}

// Unwrap returns ErrInvalidOptionsLimit for errors.Is() compatibility.
func (e *InvalidOptionsLimitError) Unwrap() error { return ErrInvalidOptionsLimit }

// DefaultConfig returns the stock configuration: multi-select, five visible
// rows, and the screen cleared before the result is reported.
func DefaultConfig() Config {
	return Config{
		Pointer:           DefaultPointer,
		PointerColor:      DefaultPointerColor,
		Checked:           DefaultChecked,
		Unchecked:         DefaultUnchecked,
		CheckedColor:      DefaultCheckedColor,
		MsgCancel:         DefaultMsgCancel,
		MsgCancelColor:    DefaultMsgCancelColor,
		UpArrow:           DefaultUpArrow,
		DownArrow:         DefaultDownArrow,
		ArrowColor:        DefaultArrowColor,
		MultiSelect:       true,
		ClearBeforeSelect: true,
		ClearBeforeCancel: true,
		OptionsLimit:      DefaultOptionsLimit,
	}
}

// Overlay returns a copy of c with the given keys applied. Keys may use the
// snake_case, kebab-case or camelCase spelling of a field ("options_limit",
// "options-limit", "optionsLimit"). Unknown keys, and recognised keys whose
// value cannot be converted, are stored in Extra under their original name.
func (c Config) Overlay(overrides map[string]any) Config {
	out := c
	out.Extra = maps.Clone(c.Extra)

	for key, value := range overrides {
		apply, ok := configFields[normalizeKey(key)]
		if ok && apply(&out, value) {
			continue
		}
		if out.Extra == nil {
			out.Extra = make(map[string]any)
		}
		out.Extra[key] = value
	}
	return out
}

// ExtraKeys returns the sorted names of the unrecognised keys.
func (c Config) ExtraKeys() []string {
	keys := maps.Keys(c.Extra)
	slices.Sort(keys)
	return keys
}

type fieldSetter func(*Config, any) bool

var configFields = map[string]fieldSetter{
	"pointer":           stringField(func(c *Config) *string { return &c.Pointer }),
	"pointercolor":      stringField(func(c *Config) *string { return &c.PointerColor }),
	"checked":           stringField(func(c *Config) *string { return &c.Checked }),
	"unchecked":         stringField(func(c *Config) *string { return &c.Unchecked }),
	"checkedcolor":      stringField(func(c *Config) *string { return &c.CheckedColor }),
	"msgcancel":         stringField(func(c *Config) *string { return &c.MsgCancel }),
	"msgcancelcolor":    stringField(func(c *Config) *string { return &c.MsgCancelColor }),
	"uparrow":           stringField(func(c *Config) *string { return &c.UpArrow }),
	"downarrow":         stringField(func(c *Config) *string { return &c.DownArrow }),
	"arrowcolor":        stringField(func(c *Config) *string { return &c.ArrowColor }),
	"multiselect":       boolField(func(c *Config) *bool { return &c.MultiSelect }),
	"inverse":           boolField(func(c *Config) *bool { return &c.Inverse }),
	"prepend":           boolField(func(c *Config) *bool { return &c.Prepend }),
	"clearbeforeselect": boolField(func(c *Config) *bool { return &c.ClearBeforeSelect }),
	"clearbeforecancel": boolField(func(c *Config) *bool { return &c.ClearBeforeCancel }),
	"optionslimit":      setOptionsLimit,
}

func normalizeKey(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "_", "")
	return strings.ReplaceAll(key, "-", "")
}

func stringField(field func(*Config) *string) fieldSetter {
	return func(c *Config, v any) bool {
		s, ok := v.(string)
		if !ok {
			return false
		}
		*field(c) = s
		return true
	}
}

func boolField(field func(*Config) *bool) fieldSetter {
	return func(c *Config, v any) bool {
		switch b := v.(type) {
		case bool:
			*field(c) = b
			return true
		case string:
			parsed, err := strconv.ParseBool(b)
			if err != nil {
				return false
			}
			*field(c) = parsed
			return true
		default:
			return false
		}
	}
}

func setOptionsLimit(c *Config, v any) bool {
	n, ok := toInt(v)
	if !ok {
		return false
	}
	limit := OptionsLimit(n)
	if valid, _ := limit.IsValid(); !valid {
		return false
	}
	c.OptionsLimit = limit
	return true
}

// toInt accepts the integer shapes produced by JSON, CUE, TOML and flag
// decoding. Fractional floats are rejected.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		return int(n), true
	case OptionsLimit:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
