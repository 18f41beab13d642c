// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// MarkdownOptions configures RenderMarkdown.
type MarkdownOptions struct {
	// Style is a glamour standard style name ("dark", "light", "notty",
	// "ascii"). Empty picks a style from the terminal background.
	Style string
	// Width is the word wrap width (0 for no wrap).
	Width TerminalDimension
}

// RenderMarkdown renders markdown content using glamour.
func RenderMarkdown(content string, opts MarkdownOptions) (string, error) {
	if ok, errs := opts.Width.IsValid(); !ok {
		return "", errs[0]
	}

	var rendererOpts []glamour.TermRendererOption
	if opts.Style == "" {
		rendererOpts = append(rendererOpts, glamour.WithAutoStyle())
	} else {
		rendererOpts = append(rendererOpts, glamour.WithStandardStyle(opts.Style))
	}
	if opts.Width > 0 {
		rendererOpts = append(rendererOpts, glamour.WithWordWrap(int(opts.Width)))
	}

	renderer, err := glamour.NewTermRenderer(rendererOpts...)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	return renderer.Render(content)
}

// KeysMarkdown describes the key bindings as a markdown document.
func KeysMarkdown(k KeyMap) string {
	var b strings.Builder
	b.WriteString("# Picker keys\n\n")
	b.WriteString("| Key | Action |\n")
	b.WriteString("|-----|--------|\n")
	for _, binding := range k.Bindings() {
		h := binding.Help()
		fmt.Fprintf(&b, "| `%s` | %s |\n", h.Key, h.Desc)
	}
	b.WriteString("\nIn single-select mode `enter` also checks the option under the cursor.\n")
	b.WriteString("A cancelled picker exits with status 1.\n")
	return b.String()
}
