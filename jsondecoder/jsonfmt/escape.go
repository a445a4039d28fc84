package jsonfmt

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

const escapeUnitLen = len(`\u0000`)

// NormalizeEscapes replaces every maximal run of literal \uXXXX escape units with the text it
// encodes, written as UTF-8. Surrogate pairs inside a run are combined.
//
// Units that must stay escaped inside a JSON string (quote, backslash, control characters) are
// left in their original spelling, which keeps the output valid JSON and makes the operation
// idempotent. An escaped backslash followed by "u" is ordinary text and is not decoded.
// Errors wrap ErrEncoding.
func NormalizeEscapes(s string) (string, error) {
	if !strings.Contains(s, `\u`) {
		return s, nil
	}

	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '\\' {
			sb.WriteByte(s[i])
			i++
			continue
		}

		if end := escapeRunEnd(s, i); end > i {
			if err := decodeEscapeRun(&sb, s[i:end]); err != nil {
				return "", err
			}
			i = end
			continue
		}

		// any other escape is copied as a pair so "\\u" is not read as a unit
		if i+1 < len(s) {
			sb.WriteString(s[i : i+2])
			i += 2
		} else {
			sb.WriteByte(s[i])
			i++
		}
	}
	return sb.String(), nil
}

// escapeRunEnd returns the offset just past the run of escape units starting at i,
// or i when no unit starts there.
func escapeRunEnd(s string, i int) int {
	j := i
	for j+escapeUnitLen <= len(s) && s[j] == '\\' && s[j+1] == 'u' && isWordRun(s[j+2:j+escapeUnitLen]) {
		j += escapeUnitLen
	}
	return j
}

func isWordRun(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_') {
			return false
		}
	}
	return true
}

func decodeEscapeRun(sb *strings.Builder, run string) error {
	count := len(run) / escapeUnitLen
	units := make([]rune, count)
	for k := range count {
		hex := run[k*escapeUnitLen+2 : (k+1)*escapeUnitLen]
		v, err := strconv.ParseUint(hex, 16, 16)
		if err != nil {
			return fmt.Errorf("%w: \\u%s", ErrEncoding, hex)
		}
		units[k] = rune(v)
	}

	for k := 0; k < count; k++ {
		r := units[k]
		if utf16.IsSurrogate(r) {
			if k+1 < count {
				if pair := utf16.DecodeRune(r, units[k+1]); pair != utf8.RuneError {
					sb.WriteRune(pair)
					k++
					continue
				}
			}
			return fmt.Errorf("%w: unpaired surrogate \\u%04x", ErrEncoding, r)
		}

		if mustStayEscaped(r) {
			sb.WriteString(run[k*escapeUnitLen : (k+1)*escapeUnitLen])
		} else {
			sb.WriteRune(r)
		}
	}
	return nil
}

func mustStayEscaped(r rune) bool {
	return r < 0x20 || r == '"' || r == '\\'
}
