// SPDX-License-Identifier: MPL-2.0

package optionsource

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/selectshell/selectshell/internal/issue"
	"github.com/selectshell/selectshell/internal/selection"
)

const maxFileSize = 4 << 20

// Format is the encoding of an options file.
type Format string

const (
	FormatLines Format = "lines"
	FormatTOML  Format = "toml"
	FormatYAML  Format = "yaml"
	FormatJSON  Format = "json"
)

var (
	// ErrEmptyLabel is returned when a structured entry has no label.
	ErrEmptyLabel = errors.New("option label is empty")

	// ErrFileTooLarge is returned for options files over the size limit.
	ErrFileTooLarge = errors.New("options file too large")
)

type (
	// EmptyLabelError reports the entry that is missing a label.
	EmptyLabelError struct {
		Index int
	}

	// entry is one structured option as written in a file. Value is optional
	// and defaults to the label.
	entry struct {
		Label string `toml:"label" yaml:"label" json:"label"`
		Value any    `toml:"value" yaml:"value" json:"value"`
	}

	document struct {
		Options []entry `toml:"options" yaml:"options" json:"options"`
	}
)

func (e *EmptyLabelError) Error() string {
	return fmt.Sprintf("option %d: %s", e.Index+1, ErrEmptyLabel)
}

func (e *EmptyLabelError) Unwrap() error { return ErrEmptyLabel }

// FormatFor picks the file format from the path extension.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	default:
		return FormatLines
	}
}

// FromArgs turns each argument into an option whose value is its label.
func FromArgs(args []string) []selection.Option {
	opts := make([]selection.Option, 0, len(args))
	for _, a := range args {
		opts = append(opts, selection.NewOption(a))
	}
	return opts
}

// FromLines reads one option per line. Blank lines are skipped and trailing
// carriage returns are dropped.
func FromLines(r io.Reader) ([]selection.Option, error) {
	var opts []selection.Option
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		opts = append(opts, selection.NewOption(line))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read options: %w", err)
	}
	return opts, nil
}

// Decode parses data in the given format.
func Decode(data []byte, format Format) ([]selection.Option, error) {
	var doc document
	switch format {
	case FormatLines:
		return FromLines(bytes.NewReader(data))
	case FormatTOML:
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown options format %q", format)
	}
	return doc.options()
}

func (d document) options() ([]selection.Option, error) {
	opts := make([]selection.Option, 0, len(d.Options))
	for i, e := range d.Options {
		if strings.TrimSpace(e.Label) == "" {
			return nil, &EmptyLabelError{Index: i}
		}
		if e.Value == nil {
			opts = append(opts, selection.NewOption(e.Label))
			continue
		}
		opts = append(opts, selection.NewOption(e.Label, e.Value))
	}
	return opts, nil
}

// LoadFile reads options from path, choosing the decoder by extension.
// Errors are *issue.ActionableError values.
func LoadFile(path string) ([]selection.Option, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		id := issue.OptionsFileInvalidId
		if errors.Is(err, fs.ErrNotExist) {
			id = issue.OptionsFileNotFoundId
		}
		return nil, issue.NewErrorContext().
			WithOperation("read options").
			WithResource(path).
			WithSuggestion("Check that the file exists and is readable").
			WithIssue(id).
			Wrap(err).
			BuildError()
	}
	if len(data) > maxFileSize {
		return nil, issue.NewErrorContext().
			WithOperation("read options").
			WithResource(path).
			WithIssue(issue.OptionsFileInvalidId).
			Wrap(fmt.Errorf("%w: %d bytes, limit %d", ErrFileTooLarge, len(data), maxFileSize)).
			BuildError()
	}

	opts, err := Decode(data, FormatFor(path))
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("parse options").
			WithResource(path).
			WithSuggestion("Every entry of 'options' needs a non-empty 'label'").
			WithIssue(issue.OptionsFileInvalidId).
			Wrap(err).
			BuildError()
	}
	return opts, nil
}
