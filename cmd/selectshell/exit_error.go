// SPDX-License-Identifier: MPL-2.0

package cmd

import "fmt"

const (
	// ExitCancelled is returned when the user cancels the picker.
	ExitCancelled ExitCode = 1
	// ExitUsage is returned for bad flags, configuration or input.
	ExitUsage ExitCode = 2
)

type (
	// ExitCode is a process exit status.
	ExitCode int

	// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
	// An ExitError without Err exits silently.
	ExitError struct {
		Code ExitCode
		Err  error
	}
)

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

func usageError(err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: ExitUsage, Err: err}
}
