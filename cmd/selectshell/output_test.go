// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/selectshell/selectshell/internal/selection"
)

func TestOutputFormat_IsValid(t *testing.T) {
	t.Parallel()

	for _, f := range []OutputFormat{OutputText, OutputJSON, OutputShell} {
		if ok, errs := f.IsValid(); !ok || len(errs) != 0 {
			t.Errorf("%q should be valid", f)
		}
	}
	ok, errs := OutputFormat("yaml").IsValid()
	if ok || len(errs) != 1 || !errors.Is(errs[0], ErrInvalidOutputFormat) {
		t.Errorf("yaml should be invalid, got %v %v", ok, errs)
	}
}

func TestWriteResult(t *testing.T) {
	t.Parallel()

	multi := selection.Result{
		Outcome:     selection.OutcomeCommitted,
		MultiSelect: true,
		Selected: []selection.Option{
			selection.NewOption("Plain"),
			selection.NewOption("With space", "it's here"),
		},
		Positions: []int{0, 3},
	}

	tests := []struct {
		name   string
		format OutputFormat
		want   string
	}{
		{"text", OutputText, "Plain\nit's here\n"},
		{"shell", OutputShell, `Plain "it's here"` + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			if err := writeResult(&buf, multi, tt.format); err != nil {
				t.Fatalf("writeResult() error: %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("writeResult(%s) = %q, want %q", tt.format, buf.String(), tt.want)
			}
		})
	}
}

func TestWriteResult_JSON(t *testing.T) {
	t.Parallel()

	res := selection.Result{
		Outcome:   selection.OutcomeCommitted,
		Selected:  []selection.Option{selection.NewOption("Prod", 3)},
		Positions: []int{2},
	}

	var buf bytes.Buffer
	if err := writeResult(&buf, res, OutputJSON); err != nil {
		t.Fatalf("writeResult() error: %v", err)
	}

	var got jsonResult
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if got.MultiSelect || len(got.Selected) != 1 {
		t.Fatalf("unexpected result %+v", got)
	}
	sel := got.Selected[0]
	if sel.Label != "Prod" || sel.Position != 2 || sel.Value != float64(3) {
		t.Errorf("unexpected option %+v", sel)
	}
}

func TestWriteResult_EmptyShell(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := writeResult(&buf, selection.Result{Outcome: selection.OutcomeCommitted}, OutputShell); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "\n" {
		t.Errorf("empty shell output = %q", buf.String())
	}
}
