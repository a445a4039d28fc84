package decoder

import (
	"bytes"
	"fmt"
	"log"
	"strings"

	"github.com/go-analyze/bulk"

	"github.com/go-appsec/jsondecoder/jsondecoder/httpmsg"
)

// Rules configures what the Classifier accepts as JSON.
type Rules struct {
	// ContentTypes are matched as substrings of the lower-cased Content-Type value.
	ContentTypes []string
	// MagicMarkers are body prefixes that identify JSON when force mode is on.
	MagicMarkers []string
}

// DefaultRules returns the content types and body markers recognized out of the box.
func DefaultRules() Rules {
	return Rules{
		ContentTypes: []string{"application/json", "text/javascript"},
		MagicMarkers: []string{`{"`, `["`, `[{`},
	}
}

// Classifier decides whether a message body should be shown as JSON.
type Classifier struct {
	analyzer     httpmsg.Analyzer
	mode         *Mode
	contentTypes []string
	markers      [][]byte
}

// NewClassifier builds a Classifier reading force mode from mode.
// Empty or duplicate rule entries are ignored.
func NewClassifier(analyzer httpmsg.Analyzer, mode *Mode, rules Rules) *Classifier {
	contentTypes := make([]string, len(rules.ContentTypes))
	for i, ct := range rules.ContentTypes {
		contentTypes[i] = strings.ToLower(strings.TrimSpace(ct))
	}
	contentTypes = bulk.SliceFilterInPlace(func(ct string) bool { return ct != "" }, contentTypes)

	seen := make(map[string]bool, len(rules.MagicMarkers))
	markers := make([][]byte, 0, len(rules.MagicMarkers))
	for _, m := range rules.MagicMarkers {
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		markers = append(markers, []byte(m))
	}

	return &Classifier{
		analyzer:     analyzer,
		mode:         mode,
		contentTypes: contentTypes,
		markers:      markers,
	}
}

// Classification is the outcome of classifying one message.
type Classification struct {
	Analysis   httpmsg.Analysis
	Applicable bool
	// MagicMark is the body marker that forced the decision, empty when headers decided.
	MagicMark string
}

// IsApplicable reports whether msg carries a JSON body.
//
// With force mode on, a body longer than two bytes starting with a magic marker is accepted
// before any header is read. Otherwise the first Content-Type header decides alone: it matches
// when its value contains one of the configured content types, and no later header is checked.
// A message without a Content-Type header is not applicable.
func (c *Classifier) IsApplicable(msg []byte, isRequest bool) (bool, error) {
	res, err := c.Classify(msg, isRequest)
	return res.Applicable, err
}

// Classify is IsApplicable returning the message analysis alongside the verdict.
func (c *Classifier) Classify(msg []byte, isRequest bool) (Classification, error) {
	a, err := c.analyzer.Analyze(msg, isRequest)
	if err != nil {
		return Classification{}, fmt.Errorf("analyze message: %w", err)
	}
	res := Classification{Analysis: a}

	if c.mode.Enabled() {
		if body := a.Body(msg); len(body) > 2 {
			if mark, ok := c.magicMark(body); ok {
				log.Printf("decoder/classify: forcing JSON parsing, magic mark found: %s", mark)
				res.Applicable, res.MagicMark = true, string(mark)
				return res, nil
			}
		}
	}

	for _, h := range a.Fields() {
		name, value, ok := httpmsg.SplitHeader(h)
		if !ok || !strings.EqualFold(name, "content-type") {
			continue
		}
		value = strings.ToLower(value)
		for _, ct := range c.contentTypes {
			if strings.Contains(value, ct) {
				res.Applicable = true
				break
			}
		}
		break
	}
	return res, nil
}

func (c *Classifier) magicMark(body []byte) ([]byte, bool) {
	for _, m := range c.markers {
		if bytes.HasPrefix(body, m) {
			return m, true
		}
	}
	return nil, false
}
