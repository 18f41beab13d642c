// SPDX-License-Identifier: MPL-2.0

package rawterm

import (
	"reflect"
	"testing"

	"github.com/selectshell/selectshell/internal/selection"
)

func TestDecoder_Decode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []selection.Key
	}{
		{"up", "\x1b[A", []selection.Key{selection.KeyUp}},
		{"down", "\x1b[B", []selection.Key{selection.KeyDown}},
		{"right", "\x1b[C", []selection.Key{selection.KeyRight}},
		{"left", "\x1b[D", []selection.Key{selection.KeyLeft}},
		{"application mode arrows", "\x1bOA\x1bOB", []selection.Key{selection.KeyUp, selection.KeyDown}},
		{"carriage return", "\r", []selection.Key{selection.KeyReturn}},
		{"line feed", "\n", []selection.Key{selection.KeyReturn}},
		{"crlf is one return", "\r\n", []selection.Key{selection.KeyReturn}},
		{"lone escape", "\x1b", []selection.Key{selection.KeyEscape}},
		{"double escape", "\x1b\x1b", []selection.Key{selection.KeyEscape, selection.KeyEscape}},
		{"ctrl+c", "\x03", []selection.Key{selection.KeyEscape}},
		{"letters", "ab", []selection.Key{selection.KeyOther, selection.KeyOther}},
		{"multibyte rune", "é", []selection.Key{selection.KeyOther}},
		{"modified arrow", "\x1b[1;5A", []selection.Key{selection.KeyOther}},
		{"alt key", "\x1bx", []selection.Key{selection.KeyOther}},
		{"burst", "\x1b[B\x1b[B\x1b[C\r", []selection.Key{
			selection.KeyDown, selection.KeyDown, selection.KeyRight, selection.KeyReturn,
		}},
		{"empty", "", nil},
	}

	var d Decoder
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := d.Decode([]byte(tt.input)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Decode(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
