// SPDX-License-Identifier: MPL-2.0

package rawterm

import (
	"unicode/utf8"

	"github.com/selectshell/selectshell/internal/selection"
)

const (
	byteCtrlC = 0x03
	byteLF    = '\n'
	byteCR    = '\r'
	byteEsc   = 0x1b
)

// Decoder turns raw terminal bytes into picker keys. Arrow keys arrive as
// "ESC [ A" (normal cursor mode) or "ESC O A" (application cursor mode).
// A lone ESC and Ctrl+C both cancel.
type Decoder struct{}

// Decode decodes every key in chunk. A chunk is assumed to hold complete
// sequences, which holds for keyboard input read in one go.
func (Decoder) Decode(chunk []byte) []selection.Key {
	var keys []selection.Key
	for i := 0; i < len(chunk); {
		k, n := decodeOne(chunk[i:])
		keys = append(keys, k)
		i += n
	}
	return keys
}

func decodeOne(b []byte) (selection.Key, int) {
	switch b[0] {
	case byteCR:
		if len(b) > 1 && b[1] == byteLF {
			return selection.KeyReturn, 2
		}
		return selection.KeyReturn, 1
	case byteLF:
		return selection.KeyReturn, 1
	case byteCtrlC:
		return selection.KeyEscape, 1
	case byteEsc:
		return decodeEscape(b)
	}

	_, size := utf8.DecodeRune(b)
	return selection.KeyOther, size
}

func decodeEscape(b []byte) (selection.Key, int) {
	if len(b) == 1 || b[1] == byteEsc {
		return selection.KeyEscape, 1
	}

	switch b[1] {
	case 'O':
		if len(b) < 3 {
			return selection.KeyOther, 2
		}
		return arrow(b[2]), 3
	case '[':
		// CSI: parameter and intermediate bytes, then one final byte.
		for j := 2; j < len(b); j++ {
			if b[j] >= 0x40 && b[j] <= 0x7e {
				if j == 2 {
					return arrow(b[j]), 3
				}
				return selection.KeyOther, j + 1
			}
		}
		return selection.KeyOther, len(b)
	default:
		// Alt+key.
		_, size := utf8.DecodeRune(b[1:])
		return selection.KeyOther, 1 + size
	}
}

func arrow(final byte) selection.Key {
	switch final {
	case 'A':
		return selection.KeyUp
	case 'B':
		return selection.KeyDown
	case 'C':
		return selection.KeyRight
	case 'D':
		return selection.KeyLeft
	default:
		return selection.KeyOther
	}
}
