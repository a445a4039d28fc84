package httpmsg

import (
	"bytes"
	"slices"
	"strconv"
	"strings"

	"github.com/go-analyze/bulk"
)

// BuildMessage joins the header lines with CRLF, terminates the header block, and appends body.
// An existing Content-Length header is rewritten to match body (duplicates are dropped);
// one is appended when body is non-empty and the message is not chunked.
// The caller's header slice is not modified.
func (RawAnalyzer) BuildMessage(headers []string, body []byte) []byte {
	headers = fixContentLength(slices.Clone(headers), len(body))

	var buf bytes.Buffer
	buf.Grow(estimateSize(headers, len(body)))
	for _, h := range headers {
		buf.WriteString(h)
		buf.WriteString("\r\n")
	}
	buf.WriteString("\r\n")
	buf.Write(body)
	return buf.Bytes()
}

func fixContentLength(headers []string, bodyLen int) []string {
	if len(headers) == 0 {
		return headers
	}

	var chunked bool
	clIndex := -1
	for i, h := range headers[1:] {
		name, value, ok := SplitHeader(h)
		if !ok {
			continue
		}
		if strings.EqualFold(name, "Transfer-Encoding") && strings.Contains(strings.ToLower(value), "chunked") {
			chunked = true
		} else if clIndex < 0 && strings.EqualFold(name, "Content-Length") {
			clIndex = i + 1
		}
	}

	lengthValue := strconv.Itoa(bodyLen)
	if clIndex < 0 {
		if bodyLen > 0 && !chunked {
			headers = append(headers, "Content-Length: "+lengthValue)
		}
		return headers
	}

	name, _, _ := SplitHeader(headers[clIndex])
	headers[clIndex] = name + ": " + lengthValue

	// drop any later Content-Length lines, keeping the start line and the rewritten header
	first := true
	return bulk.SliceFilterInPlace(func(h string) bool {
		if n, _, ok := SplitHeader(h); ok && strings.EqualFold(n, "Content-Length") {
			if first {
				first = false
				return true
			}
			return false
		}
		return true
	}, headers)
}

func estimateSize(headers []string, bodyLen int) int {
	size := bodyLen + 2
	for _, h := range headers {
		size += len(h) + 2
	}
	return size
}
