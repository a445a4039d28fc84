package decoder

import (
	"errors"
	"fmt"
	"log"

	"github.com/go-appsec/jsondecoder/jsondecoder/httpmsg"
	"github.com/go-appsec/jsondecoder/jsondecoder/jsonfmt"
)

// Transformer converts message bodies between wire form and the editable pretty form.
// Bytes before the first '{' of a body are carried through both directions untouched.
type Transformer struct {
	analyzer httpmsg.Analyzer
}

// NewTransformer returns a Transformer using analyzer to locate bodies and rebuild messages.
func NewTransformer(analyzer httpmsg.Analyzer) *Transformer {
	return &Transformer{analyzer: analyzer}
}

// ToDisplay renders the body of msg for editing: the preamble followed by the pretty JSON.
// A body that does not parse is shown as-is. Only analyzer failures are returned.
func (t *Transformer) ToDisplay(msg []byte, isRequest bool) (string, error) {
	a, err := t.analyzer.Analyze(msg, isRequest)
	if err != nil {
		return "", fmt.Errorf("analyze message: %w", err)
	}

	preamble, jsonPart := jsonfmt.SplitPreamble(string(a.Body(msg)))
	pretty, err := jsonfmt.Pretty(jsonPart)
	if err != nil {
		if !isFormatError(err) {
			return "", err
		}
		log.Printf("decoder/display: problem parsing data, showing raw body: %v", err)
		return preamble + jsonPart, nil
	}
	return preamble + pretty, nil
}

// FromDisplay rebuilds the outgoing message from the edited text.
//
// When modified is false the original bytes are returned unchanged. Otherwise the JSON after
// the preamble is compacted, or when it does not parse the whole text is sent verbatim.
// Headers always come from original; only the body is replaced.
func (t *Transformer) FromDisplay(text string, modified bool, original []byte, isRequest bool) ([]byte, error) {
	if !modified {
		return original, nil
	}

	body := text
	preamble, jsonPart := jsonfmt.SplitPreamble(text)
	if compact, err := jsonfmt.Compact(jsonPart); err == nil {
		body = preamble + compact
	} else if isFormatError(err) {
		log.Printf("decoder/rebuild: edited text is not valid JSON, sending verbatim: %v", err)
	} else {
		return nil, err
	}

	a, err := t.analyzer.Analyze(original, isRequest)
	if err != nil {
		return nil, fmt.Errorf("analyze original message: %w", err)
	}
	return t.analyzer.BuildMessage(a.Headers, []byte(body)), nil
}

// isFormatError reports the error kinds that degrade to raw passthrough.
func isFormatError(err error) bool {
	return errors.Is(err, jsonfmt.ErrParse) || errors.Is(err, jsonfmt.ErrEncoding)
}
