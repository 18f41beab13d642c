// SPDX-License-Identifier: MPL-2.0

// Package selection implements the state machine behind an interactive list
// picker: the option list, the cursor and its scrolling viewport, and the set
// of checked options.
//
// The package does no terminal I/O. A Widget is wired to a Renderer, which
// draws a View whenever state changes, and an InputSource, which delivers
// decoded Key events one at a time. A commit or cancel transition detaches
// the widget from its InputSource exactly once and notifies listeners with a
// Result.
package selection
