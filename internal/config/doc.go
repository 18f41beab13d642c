// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/selectshell/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/selectshell/config.cue on macOS, %APPDATA%\selectshell\config.cue
// on Windows), validated against the embedded config_schema.cue, and overridden by
// SELECTSHELL_* environment variables. Picker fields convert to a selection.Config with
// Config.Widget; unknown top-level keys are passed through.
package config
