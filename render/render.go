// Package render writes commit reports in the supported output formats.
package render

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gitrecap/models"
)

// ErrUnknownFormat reports an output format name this package does not support.
var ErrUnknownFormat = errors.New("unknown output format")

// Format identifies one supported output format.
type Format string

// Supported output formats.
const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat maps a user-supplied format name onto a Format.
func ParseFormat(name string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(name)))
	switch format {
	case FormatText, FormatJSON, FormatCSV, FormatMarkdown, FormatHTML:
		return format, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Renderer writes one report to a writer.
type Renderer interface {
	Render(w io.Writer, report *models.Report) error
}

// Options adjust rendering across formats.
type Options struct {
	// IncludeStats adds aggregated statistics to the output.
	IncludeStats bool
	// Now anchors relative commit ages. Defaults to time.Now.
	Now func() time.Time
}

// New returns the renderer for the requested format.
func New(format Format, opts Options) (Renderer, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	switch format {
	case FormatText:
		return &tableRenderer{mode: tableModeText, opts: opts}, nil
	case FormatMarkdown:
		return &tableRenderer{mode: tableModeMarkdown, opts: opts}, nil
	case FormatCSV:
		return &tableRenderer{mode: tableModeCSV, opts: opts}, nil
	case FormatJSON:
		return &jsonRenderer{opts: opts}, nil
	case FormatHTML:
		return &htmlRenderer{opts: opts}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
