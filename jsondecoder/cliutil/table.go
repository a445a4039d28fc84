package cliutil

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Output formats accepted by the --format flag.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
)

// ValidFormat reports whether format is a supported output format.
func ValidFormat(format string) bool {
	return format == FormatText || format == FormatMarkdown
}

// NewTable returns a table writer with the default CLI style.
func NewTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	return t
}

// Render writes t to w in the requested format.
func Render(w io.Writer, t table.Writer, format string) error {
	var out string
	switch format {
	case FormatMarkdown:
		out = t.RenderMarkdown()
	case FormatText, "":
		out = t.Render()
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
	_, err := fmt.Fprintln(w, out)
	return err
}
