// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing errors for selectshell.
//
// An ActionableError says what failed, on which resource, and what to try next.
// It can link to a catalogued Issue whose Markdown guidance is rendered with
// glamour when the CLI runs verbosely.
package issue
