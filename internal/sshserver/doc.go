// SPDX-License-Identifier: MPL-2.0

// Package sshserver serves the picker over SSH using the Wish library.
//
// Every session gets a fresh widget driven by its own Bubble Tea program.
// Clients authenticate with a password equal to an access token issued by
// the server. When a session ends the committed values are written to the
// session's stdout and the session exits 0; a cancelled picker exits 1.
package sshserver
