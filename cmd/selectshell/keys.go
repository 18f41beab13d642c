// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/selectshell/selectshell/internal/tui"
)

const keysWidthLimit tui.TerminalDimension = 100

func newKeysCommand(app *App) *cobra.Command {
	var style string
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Show the picker key bindings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			md := tui.KeysMarkdown(tui.DefaultKeyMap())
			out, err := tui.RenderMarkdown(md, tui.MarkdownOptions{
				Style: style,
				Width: tui.DefaultConfig().Width.Or(80).Cap(keysWidthLimit),
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(app.Stdout, out)
			return err
		},
	}
	cmd.Flags().StringVar(&style, "style", "", "glamour style: dark, light, notty or ascii (default detects the terminal)")
	return cmd
}
