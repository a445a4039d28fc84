package classify

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-appsec/jsondecoder/jsondecoder/config"
	"github.com/go-appsec/jsondecoder/jsondecoder/httpmsg"
)

func TestRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		msg      string
		opts     options
		contains []string
	}{
		{
			name:     "json_request",
			msg:      "POST /api HTTP/1.1\r\nContent-Type: application/json\r\n\r\n{\"a\":1}",
			opts:     options{format: "markdown"},
			contains: []string{"| request | application/json | 7 | false | - | true |"},
		},
		{
			name:     "html_response",
			msg:      "HTTP/1.1 200 OK\r\nContent-Type: text/html\r\n\r\n<p>hi</p>",
			opts:     options{response: true, format: "markdown"},
			contains: []string{"| response | text/html | 9 | false | - | false |"},
		},
		{
			name:     "forced_by_marker",
			msg:      "POST /api HTTP/1.1\r\nHost: x\r\n\r\n{\"a\":1}",
			opts:     options{force: true, format: "markdown"},
			contains: []string{"| request | - | 7 | true | {\" | true |"},
		},
		{
			name:     "text_format",
			msg:      "POST /api HTTP/1.1\r\nContent-Type: application/json\r\n\r\n{}",
			opts:     options{format: "text"},
			contains: []string{"APPLICABLE", "application/json"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			tc.opts.configPath = filepath.Join(t.TempDir(), "absent.json")

			var buf bytes.Buffer
			require.NoError(t, run(&buf, []byte(tc.msg), tc.opts))
			for _, s := range tc.contains {
				assert.Contains(t, buf.String(), s)
			}
		})
	}
}

func TestRunUsesConfigRules(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	cfg := config.DefaultConfig(config.Version)
	cfg.ContentTypes = []string{"application/vnd.api+json"}
	require.NoError(t, cfg.Save(path))

	var buf bytes.Buffer
	msg := "POST / HTTP/1.1\r\nContent-Type: application/vnd.api+json\r\n\r\n{}"
	require.NoError(t, run(&buf, []byte(msg), options{configPath: path, format: "markdown"}))
	assert.Contains(t, buf.String(), "| true |")
}

func TestRunErrors(t *testing.T) {
	t.Parallel()

	t.Run("bad_start_line", func(t *testing.T) {
		var buf bytes.Buffer
		err := run(&buf, []byte("nonsense\r\n\r\n{}"), options{configPath: filepath.Join(t.TempDir(), "c.json")})
		require.ErrorIs(t, err, httpmsg.ErrInvalidStartLine)
		assert.Empty(t, buf.String())
	})

	t.Run("bad_config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0600))

		var buf bytes.Buffer
		err := run(&buf, []byte("GET / HTTP/1.1\r\n\r\n"), options{configPath: path})
		assert.Error(t, err)
	})
}

func TestParseFlagErrors(t *testing.T) {
	t.Parallel()

	assert.Error(t, Parse([]string{"--format", "yaml"}))
	assert.Error(t, Parse([]string{"extra"}))
	assert.Error(t, Parse([]string{"-f", filepath.Join(t.TempDir(), "missing.txt")}))
}
