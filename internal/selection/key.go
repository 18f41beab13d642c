// SPDX-License-Identifier: MPL-2.0

package selection

import "strings"

// Decoded keypress identities understood by the widget.
const (
	KeyOther Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyReturn
	KeyEscape
)

type (
	// Key is a decoded keypress. Decoding raw bytes into keys is the job of
	// the InputSource.
	Key int

	// KeyHandler receives keys from an InputSource.
	KeyHandler func(Key) error

	// InputSource delivers decoded keys one at a time, in arrival order.
	// Unsubscribe must stop delivery; the widget calls it exactly once.
	InputSource interface {
		Subscribe(h KeyHandler)
		Unsubscribe()
	}
)

var keyNames = [...]string{
	KeyOther:  "other",
	KeyUp:     "up",
	KeyDown:   "down",
	KeyLeft:   "left",
	KeyRight:  "right",
	KeyReturn: "return",
	KeyEscape: "escape",
}

// String returns the key name.
func (k Key) String() string {
	if k < 0 || int(k) >= len(keyNames) {
		return keyNames[KeyOther]
	}
	return keyNames[k]
}

// Terminal reports whether the key ends the interaction.
func (k Key) Terminal() bool {
	return k == KeyReturn || k == KeyEscape
}

// ParseKey maps a key name to a Key. "enter" and "esc" are accepted as
// aliases. Unrecognised names map to KeyOther.
func ParseKey(name string) Key {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "up":
		return KeyUp
	case "down":
		return KeyDown
	case "left":
		return KeyLeft
	case "right":
		return KeyRight
	case "return", "enter":
		return KeyReturn
	case "escape", "esc":
		return KeyEscape
	default:
		return KeyOther
	}
}
