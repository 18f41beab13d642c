// SPDX-License-Identifier: MPL-2.0

// Package optionsource reads picker options from command-line arguments,
// line-oriented input, or structured files (TOML, YAML, JSON).
package optionsource
