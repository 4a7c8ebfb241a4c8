package export

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownFormat is returned by ParseFormat
var ErrUnknownFormat = errors.New("unknown export format")

// Format defines the available export formats
type Format int

const (
	// FormatMarkdown exports the document as Markdown
	FormatMarkdown Format = iota
	// FormatHTML exports the Markdown rendering as an HTML fragment
	FormatHTML
	// FormatJSON exports all elements as an indented JSON document
	FormatJSON
	// FormatJSONL exports one JSON object per element per line
	FormatJSONL
)

// String returns a human-readable representation of the export format
func (f Format) String() string {
	switch f {
	case FormatMarkdown:
		return "markdown"
	case FormatHTML:
		return "html"
	case FormatJSON:
		return "json"
	case FormatJSONL:
		return "jsonl"
	default:
		return "unknown"
	}
}

// FileExtension returns the typical file extension for this format
func (f Format) FileExtension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatHTML:
		return ".html"
	case FormatJSON:
		return ".json"
	case FormatJSONL:
		return ".jsonl"
	default:
		return ".txt"
	}
}

// ParseFormat converts a format name ("md" and "markdown" are equivalent)
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	case "json":
		return FormatJSON, nil
	case "jsonl":
		return FormatJSONL, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}
