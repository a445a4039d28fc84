package httpmsg

import (
	"bytes"
	"errors"
	"strings"
)

var (
	ErrEmptyMessage     = errors.New("empty message")
	ErrInvalidStartLine = errors.New("invalid start line")
)

// Analysis is a read-only view over a raw HTTP message.
// It never owns or copies the message bytes.
type Analysis struct {
	// BodyOffset is the index where the entity body begins.
	// Equals the message length when no header terminator was found.
	BodyOffset int

	// Headers lists header lines in wire order, with the start line
	// (request line or status line) as the first entry.
	// Folded continuation lines stay attached to the header they extend.
	Headers []string

	IsRequest bool
}

// Analyzer is the host capability used to inspect and assemble messages.
type Analyzer interface {
	// Analyze locates the header block and body of msg.
	Analyze(msg []byte, isRequest bool) (Analysis, error)

	// BuildMessage assembles a raw message from header lines and a body.
	BuildMessage(headers []string, body []byte) []byte
}

// RawAnalyzer analyzes HTTP/1.x messages held as raw bytes.
// Tolerant of malformed input so intercepted traffic can always be displayed.
type RawAnalyzer struct{}

var _ Analyzer = RawAnalyzer{}

// Analyze walks the header block line by line, accepting both CRLF and bare LF endings.
func (RawAnalyzer) Analyze(msg []byte, isRequest bool) (Analysis, error) {
	if len(msg) == 0 {
		return Analysis{}, ErrEmptyMessage
	}

	startLine, pos, _ := nextLine(msg, 0)
	if err := validateStartLine(startLine, isRequest); err != nil {
		return Analysis{}, err
	}

	a := Analysis{
		Headers:   []string{string(startLine)},
		IsRequest: isRequest,
	}
	for {
		line, next, terminated := nextLine(msg, pos)
		if len(line) == 0 {
			// empty line ends headers; an unterminated tail means no body
			if terminated {
				a.BodyOffset = next
			} else {
				a.BodyOffset = len(msg)
			}
			return a, nil
		}
		pos = next

		if (line[0] == ' ' || line[0] == '\t') && len(a.Headers) > 1 {
			// obs-fold continuation
			a.Headers[len(a.Headers)-1] += "\r\n" + string(line)
		} else {
			a.Headers = append(a.Headers, string(line))
		}

		if !terminated {
			a.BodyOffset = len(msg)
			return a, nil
		}
	}
}

// nextLine returns the line starting at pos without its ending, the offset after the
// line ending, and whether a line ending was found.
func nextLine(msg []byte, pos int) (line []byte, next int, terminated bool) {
	if pos >= len(msg) {
		return nil, len(msg), false
	}
	idx := bytes.IndexByte(msg[pos:], '\n')
	if idx < 0 {
		return bytes.TrimSuffix(msg[pos:], []byte("\r")), len(msg), false
	}
	line = msg[pos : pos+idx]
	line = bytes.TrimSuffix(line, []byte("\r"))
	return line, pos + idx + 1, true
}

// validateStartLine rejects start lines that cannot belong to the given direction.
// Request lines need a method, a target and an HTTP version; status lines need a version and code.
func validateStartLine(line []byte, isRequest bool) error {
	parts := strings.SplitN(string(line), " ", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return ErrInvalidStartLine
	}
	if isRequest {
		if len(parts) < 3 || !isHTTPVersion(parts[2]) {
			return ErrInvalidStartLine
		}
	} else if !isHTTPVersion(parts[0]) {
		return ErrInvalidStartLine
	}
	return nil
}

func isHTTPVersion(s string) bool {
	return len(s) > len("HTTP/") && strings.EqualFold(s[:len("HTTP/")], "HTTP/")
}

// Body returns the slice of msg that holds the entity body.
func (a Analysis) Body(msg []byte) []byte {
	if a.BodyOffset >= len(msg) {
		return nil
	}
	return msg[a.BodyOffset:]
}

// Header returns the value of the first header with the given name (case-insensitive).
func (a Analysis) Header(name string) (string, bool) {
	for _, h := range a.Fields() {
		if n, v, ok := SplitHeader(h); ok && strings.EqualFold(n, name) {
			return v, true
		}
	}
	return "", false
}

// Fields returns the header lines without the start line.
func (a Analysis) Fields() []string {
	if len(a.Headers) < 2 {
		return nil
	}
	return a.Headers[1:]
}

// SplitHeader splits "Name: Value" into a name (kept as written) and a trimmed value.
func SplitHeader(line string) (name, value string, ok bool) {
	name, value, ok = strings.Cut(line, ":")
	if !ok {
		return line, "", false
	}
	return name, strings.TrimSpace(value), true
}
