// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"strings"
	"testing"
)

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path []string
		want string
	}{
		{nil, ""},
		{[]string{"options_limit"}, "options_limit"},
		{[]string{"ssh", "port"}, "ssh.port"},
		{[]string{"items", "0", "label"}, "items[0].label"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			if got := formatPath(tt.path); got != tt.want {
				t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestFormatCUEError_NonCUE(t *testing.T) {
	t.Parallel()

	if formatCUEError(nil, "config.cue") != nil {
		t.Error("nil error should stay nil")
	}

	base := errors.New("disk on fire")
	err := formatCUEError(base, "config.cue")
	if !errors.Is(err, base) {
		t.Errorf("non-CUE errors should be wrapped, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "config.cue: ") {
		t.Errorf("error should be prefixed with the file, got %q", err)
	}
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()

	if err := checkFileSize(make([]byte, 10), 10, "c.cue"); err != nil {
		t.Errorf("data at the limit should pass, got %v", err)
	}
	if err := checkFileSize(make([]byte, 11), 10, "c.cue"); err == nil {
		t.Error("data over the limit should fail")
	}
}
