// SPDX-License-Identifier: MPL-2.0

// Package rawterm reads picker keys straight from a terminal in raw mode.
package rawterm
