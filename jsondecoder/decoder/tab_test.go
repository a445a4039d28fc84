package decoder

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-appsec/jsondecoder/jsondecoder/httpmsg"
)

func TestModeToggle(t *testing.T) {
	t.Parallel()

	m := NewMode()
	assert.False(t, m.Enabled())
	assert.Equal(t, "Turn JSON active detection on", m.MenuLabel())

	assert.True(t, m.Toggle())
	assert.True(t, m.Enabled())
	assert.Equal(t, "Turn JSON active detection off", m.MenuLabel())

	assert.False(t, m.Toggle())
	assert.False(t, m.Enabled())

	m.Set(true)
	assert.True(t, m.Enabled())
	m.Set(false)
	assert.False(t, m.Enabled())
}

func TestFactory(t *testing.T) {
	t.Parallel()

	f := NewFactory(httpmsg.RawAnalyzer{}, DefaultRules())
	assert.Equal(t, []string{"Turn JSON active detection on"}, f.MenuItems())

	assert.True(t, f.ToggleForceMode())
	assert.Equal(t, []string{"Turn JSON active detection off"}, f.MenuItems())

	// force mode is shared by every tab of the factory
	a, b := f.NewTab(true), f.NewTab(false)
	msg := rawRequest([]string{"Content-Type: text/plain"}, `{"x":1}`)
	for _, tab := range []*Tab{a, b} {
		ok, err := tab.IsEnabled(msg, true)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestTab(t *testing.T) {
	t.Parallel()

	f := NewFactory(httpmsg.RawAnalyzer{}, DefaultRules())

	t.Run("caption", func(t *testing.T) {
		assert.Equal(t, "JSON Decoder", f.NewTab(true).Caption())
	})

	t.Run("unedited_message_returned", func(t *testing.T) {
		tab := f.NewTab(true)
		msg := scenarioMessage()
		require.NoError(t, tab.SetMessage(msg, true))

		assert.Equal(t, scenarioPretty, tab.Text())
		assert.True(t, tab.Editable())
		assert.False(t, tab.IsModified())

		out, err := tab.Message()
		require.NoError(t, err)
		assert.True(t, &msg[0] == &out[0])
	})

	t.Run("edit_rebuilds", func(t *testing.T) {
		tab := f.NewTab(true)
		require.NoError(t, tab.SetMessage(scenarioMessage(), true))

		require.NoError(t, tab.SetText(strings.Replace(tab.Text(), `"a": 1`, `"a": 2`, 1)))
		assert.True(t, tab.IsModified())

		out, err := tab.Message()
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(string(out), "\r\n\r\n"+`garbage{"a":2,"b":[1,2]}`))
		assert.Contains(t, string(out), "Content-Type: application/json\r\n")
	})

	t.Run("same_text_not_modified", func(t *testing.T) {
		tab := f.NewTab(true)
		require.NoError(t, tab.SetMessage(scenarioMessage(), true))
		require.NoError(t, tab.SetText(tab.Text()))
		assert.False(t, tab.IsModified())
	})

	t.Run("set_message_resets_modified", func(t *testing.T) {
		tab := f.NewTab(true)
		require.NoError(t, tab.SetMessage(scenarioMessage(), true))
		require.NoError(t, tab.SetText("changed"))
		require.NoError(t, tab.SetMessage(scenarioMessage(), true))
		assert.False(t, tab.IsModified())
	})

	t.Run("read_only", func(t *testing.T) {
		tab := f.NewTab(false)
		require.NoError(t, tab.SetMessage(scenarioMessage(), true))
		assert.False(t, tab.Editable())
		assert.ErrorIs(t, tab.SetText("x"), ErrReadOnly)
		assert.Equal(t, scenarioPretty, tab.Text())
	})

	t.Run("nil_message", func(t *testing.T) {
		tab := f.NewTab(true)
		require.NoError(t, tab.SetMessage(scenarioMessage(), true))
		require.NoError(t, tab.SetMessage(nil, true))

		assert.Empty(t, tab.Text())
		assert.False(t, tab.Editable())
		assert.ErrorIs(t, tab.SetText("x"), ErrReadOnly)

		out, err := tab.Message()
		require.NoError(t, err)
		assert.Nil(t, out)
	})

	t.Run("analyze_error", func(t *testing.T) {
		tab := f.NewTab(true)
		err := tab.SetMessage([]byte("bogus\r\n\r\n{}"), true)
		assert.ErrorIs(t, err, httpmsg.ErrInvalidStartLine)
	})

	t.Run("selection", func(t *testing.T) {
		tab := f.NewTab(true)
		require.NoError(t, tab.SetMessage(scenarioMessage(), true))

		assert.Nil(t, tab.SelectedData())
		tab.Select(0, 7)
		assert.Equal(t, []byte("garbage"), tab.SelectedData())
		tab.Select(-5, 1)
		assert.Equal(t, []byte("g"), tab.SelectedData())
		tab.Select(len(tab.Text())-1, 1000)
		assert.Equal(t, []byte("}"), tab.SelectedData())
		tab.Select(5, 2)
		assert.Nil(t, tab.SelectedData())
	})

	t.Run("selection_keeps_characters_whole", func(t *testing.T) {
		tab := f.NewTab(true)
		msg := []byte("HTTP/1.1 200 OK\r\nContent-Type: application/json\r\n\r\n" + `{"m":"\u4f60"}`)
		require.NoError(t, tab.SetMessage(msg, false))
		require.Equal(t, "{\n    \"m\": \"你\"\n}", tab.Text())

		// the character occupies bytes 12 to 14
		tab.Select(13, 14)
		assert.Equal(t, []byte("你"), tab.SelectedData())
		tab.Select(12, 13)
		assert.Equal(t, []byte("你"), tab.SelectedData())
		tab.Select(11, 13)
		assert.Equal(t, []byte("\"你"), tab.SelectedData())
		assert.True(t, utf8.Valid(tab.SelectedData()))
	})
}
