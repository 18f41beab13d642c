// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	ConfigLoadFailedId Id = iota + 1
	OptionsFileNotFoundId
	OptionsFileInvalidId
	NoOptionsId
	NotATerminalId
	SSHServerStartFailedId
	HostKeyUnavailableId
)

type (
	// Id identifies a catalogued issue.
	Id int

	// MarkdownMsg is issue guidance written in Markdown.
	MarkdownMsg string

	// HttpLink is a documentation URL.
	HttpLink string

	// Issue is longer, rendered guidance for a class of user-facing error.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// Render renders the guidance with a glamour style ("dark", "light",
// "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.docLinks) > 0 {
		md += "\n\n## See also\n"
		for _, link := range i.docLinks {
			md += "- <" + string(link) + ">\n"
		}
	}
	return render(md, stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Configuration could not be loaded

## Things you can try
- Print the file location:
~~~
$ selectshell config path
~~~
- Compare your file with the defaults:
~~~
$ selectshell config show
~~~
- Unset ` + "`SELECTSHELL_*`" + ` environment variables you do not need.`,
	}

	optionsFileNotFoundIssue = &Issue{
		id: OptionsFileNotFoundId,
		mdMsg: `
# Options file not found

The file passed with ` + "`--file`" + ` does not exist or is not readable.

## Things you can try
- Check the path and its permissions
- Pass options as arguments instead:
~~~
$ selectshell pick red green blue
~~~`,
	}

	optionsFileInvalidIssue = &Issue{
		id: OptionsFileInvalidId,
		mdMsg: `
# Options file is invalid

Options files are read by extension: ` + "`.toml`, `.yaml`/`.yml`, `.json`" + `, anything else one option per line.

## Expected shape
~~~toml
[[options]]
label = "Production"
value = "prod"
~~~
Every option needs a non-empty ` + "`label`" + `; ` + "`value`" + ` defaults to the label.`,
	}

	noOptionsIssue = &Issue{
		id: NoOptionsId,
		mdMsg: `
# Nothing to pick from

No options were given as arguments, with ` + "`--file`" + `, or on standard input.

## Things you can try
~~~
$ ls | selectshell pick
$ selectshell pick --file choices.toml
~~~`,
	}

	notATerminalIssue = &Issue{
		id: NotATerminalId,
		mdMsg: `
# No terminal available

The picker needs an interactive terminal to read keys from.

## Things you can try
- Run the command from an interactive shell
- Use the Bubble Tea backend, which opens the controlling terminal: ` + "`--backend tea`" + `
- Serve the picker over SSH with ` + "`selectshell serve`",
	}

	sshServerStartFailedIssue = &Issue{
		id: SSHServerStartFailedId,
		mdMsg: `
# SSH server failed to start

## Things you can try
- Pick another port: ` + "`selectshell serve --port 2323`" + `
- Check that no other process listens on the address`,
	}

	hostKeyUnavailableIssue = &Issue{
		id: HostKeyUnavailableId,
		mdMsg: `
# SSH host key unavailable

The host key could not be read or created.

## Things you can try
- Point ` + "`--host-key`" + ` at a writable location
- Remove a corrupted key file so a new one is generated`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		optionsFileNotFoundIssue.Id():  optionsFileNotFoundIssue,
		optionsFileInvalidIssue.Id():   optionsFileInvalidIssue,
		noOptionsIssue.Id():            noOptionsIssue,
		notATerminalIssue.Id():         notATerminalIssue,
		sshServerStartFailedIssue.Id(): sshServerStartFailedIssue,
		hostKeyUnavailableIssue.Id():   hostKeyUnavailableIssue,
	}
)

// Values returns every catalogued issue ordered by Id.
func Values() []*Issue {
	values := maps.Values(issues)
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return values
}

// Get returns the issue for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
