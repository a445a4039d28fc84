// Package jsonfmt reformats JSON bodies between an editable pretty form and a compact wire form.
//
// Formatting works on the token stream rather than on decoded values, so object key order,
// duplicate keys, and number spelling survive exactly as written. Characters such as <, >, and &
// are never HTML-escaped; payloads under test must keep them literally.
package jsonfmt

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Indent is the unit used for each nesting level of the pretty form.
const Indent = "    "

var (
	// ErrParse reports a malformed or missing JSON segment.
	ErrParse = errors.New("invalid JSON")
	// ErrEncoding reports a \uXXXX run that does not decode to valid text.
	ErrEncoding = errors.New("invalid unicode escape")
)

// SplitPreamble splits s at the first '{'.
// The preamble holds every byte before it; jsonPart starts at the brace.
// When s has no '{' the whole input is preamble and jsonPart is empty.
func SplitPreamble(s string) (preamble, jsonPart string) {
	idx := strings.IndexByte(s, '{')
	if idx < 0 {
		return s, ""
	}
	return s[:idx], s[idx:]
}

// Pretty validates jsonPart and returns it indented with Indent, with literal \uXXXX runs
// decoded to readable text.
// Errors wrap ErrParse or ErrEncoding.
func Pretty(jsonPart string) (string, error) {
	var buf bytes.Buffer
	buf.Grow(len(jsonPart) * 2)
	if err := json.Indent(&buf, []byte(jsonPart), "", Indent); err != nil {
		return "", fmt.Errorf("%w: %w", ErrParse, err)
	}
	return NormalizeEscapes(buf.String())
}

// Compact validates jsonPart and returns it without insignificant whitespace.
// Errors wrap ErrParse.
func Compact(jsonPart string) (string, error) {
	var buf bytes.Buffer
	buf.Grow(len(jsonPart))
	if err := json.Compact(&buf, []byte(jsonPart)); err != nil {
		return "", fmt.Errorf("%w: %w", ErrParse, err)
	}
	return buf.String(), nil
}
