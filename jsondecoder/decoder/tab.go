package decoder

import (
	"errors"
	"unicode/utf8"

	"github.com/go-appsec/jsondecoder/jsondecoder/httpmsg"
)

// Caption is the title of the editor tab.
const Caption = "JSON Decoder"

// ErrReadOnly is returned when text is edited in a tab that does not accept edits.
var ErrReadOnly = errors.New("tab is not editable")

// Factory creates editor tabs that share one Classifier and one force Mode.
type Factory struct {
	Mode        *Mode
	Classifier  *Classifier
	Transformer *Transformer
}

// NewFactory wires a Classifier and Transformer around analyzer with force mode disabled.
func NewFactory(analyzer httpmsg.Analyzer, rules Rules) *Factory {
	mode := NewMode()
	return &Factory{
		Mode:        mode,
		Classifier:  NewClassifier(analyzer, mode, rules),
		Transformer: NewTransformer(analyzer),
	}
}

// NewTab creates an independent tab. When editable is false the tab never accepts edits.
func (f *Factory) NewTab(editable bool) *Tab {
	return &Tab{
		classifier:  f.Classifier,
		transformer: f.Transformer,
		editable:    editable,
	}
}

// MenuItems returns the labels of the context menu actions offered by the factory.
func (f *Factory) MenuItems() []string {
	return []string{f.Mode.MenuLabel()}
}

// ToggleForceMode flips force detection for every tab of the factory.
func (f *Factory) ToggleForceMode() bool {
	return f.Mode.Toggle()
}

// Tab is one editor instance. It remembers the last message it displayed so edits can be
// folded back into that message. A Tab is not safe for concurrent use.
type Tab struct {
	classifier  *Classifier
	transformer *Transformer
	editable    bool

	current   []byte
	isRequest bool

	text         string
	textEditable bool
	modified     bool
	selStart     int
	selEnd       int
}

func (t *Tab) Caption() string {
	return Caption
}

// IsEnabled reports whether the tab should be offered for msg.
func (t *Tab) IsEnabled(msg []byte, isRequest bool) (bool, error) {
	return t.classifier.IsApplicable(msg, isRequest)
}

// SetMessage loads msg into the editor. A nil msg clears the text and locks the editor.
func (t *Tab) SetMessage(msg []byte, isRequest bool) error {
	t.modified = false
	t.selStart, t.selEnd = 0, 0

	if msg == nil {
		t.current, t.isRequest = nil, isRequest
		t.text = ""
		t.textEditable = false
		return nil
	}

	text, err := t.transformer.ToDisplay(msg, isRequest)
	if err != nil {
		return err
	}
	t.current, t.isRequest = msg, isRequest
	t.text = text
	t.textEditable = t.editable
	return nil
}

// Message returns the message to release: the original bytes when the text was not edited,
// otherwise a message rebuilt from the original headers and the edited body.
func (t *Tab) Message() ([]byte, error) {
	if t.current == nil {
		return nil, nil
	}
	return t.transformer.FromDisplay(t.text, t.modified, t.current, t.isRequest)
}

// IsModified reports whether the text changed since the last SetMessage.
func (t *Tab) IsModified() bool {
	return t.modified
}

func (t *Tab) Text() string {
	return t.text
}

// SetText replaces the editor text as a user edit would.
// Setting identical text does not mark the tab modified.
func (t *Tab) SetText(text string) error {
	if !t.textEditable {
		return ErrReadOnly
	}
	if text != t.text {
		t.text = text
		t.modified = true
		t.selStart, t.selEnd = 0, 0
	}
	return nil
}

// Editable reports whether the editor currently accepts edits.
func (t *Tab) Editable() bool {
	return t.textEditable
}

// Select marks the byte range [start, end) of the text as selected. Out of range bounds are
// clamped, and bounds inside a multi-byte character widen to cover the whole character.
func (t *Tab) Select(start, end int) {
	start = max(0, min(start, len(t.text)))
	end = max(start, min(end, len(t.text)))
	for start > 0 && !utf8.RuneStart(t.text[start]) {
		start--
	}
	for end < len(t.text) && !utf8.RuneStart(t.text[end]) {
		end++
	}
	t.selStart, t.selEnd = start, end
}

// SelectedData returns the selected text, or nil when nothing is selected.
func (t *Tab) SelectedData() []byte {
	if t.selEnd <= t.selStart {
		return nil
	}
	return []byte(t.text[t.selStart:t.selEnd])
}
