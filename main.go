// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/selectshell/selectshell/cmd/selectshell"

func main() {
	cmd.Execute()
}
