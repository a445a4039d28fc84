// Package session persists the state of a shell-driven editor tab between commands.
//
// A session remembers the message that was opened, its direction, and the text that was
// shown, so a later save can tell whether the text was edited. State is msgpack encoded
// and zstd compressed since captured messages can be large.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// Ext is appended to the display file name to form the session file name.
const Ext = ".jdsession"

var (
	ErrNoSession = errors.New("no session found")
	ErrCorrupt   = errors.New("corrupt session file")
)

// State is what an editor tab must remember between open and save.
type State struct {
	Message   []byte    `msgpack:"m"`
	IsRequest bool      `msgpack:"r"`
	Display   string    `msgpack:"d"`
	Editable  bool      `msgpack:"e"`
	Source    string    `msgpack:"s,omitempty"`
	OpenedAt  time.Time `msgpack:"t"`
}

// Modified reports whether text differs from what was displayed when the session was opened.
func (s *State) Modified(text string) bool {
	return text != s.Display
}

// PathFor returns the session file for the display file at textPath.
// Sessions live next to the display file unless dir is set.
func PathFor(textPath, dir string) string {
	if dir == "" {
		return textPath + Ext
	}
	return filepath.Join(dir, filepath.Base(textPath)+Ext)
}

// Save writes st to path atomically.
func Save(path string, st *State) error {
	if st == nil {
		return errors.New("session state is nil")
	}

	raw, err := msgpack.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return err
	}
	data := enc.EncodeAll(raw, nil)
	_ = enc.Close()

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

// Load reads the session at path.
// Returns ErrNoSession when the file does not exist and ErrCorrupt when it cannot be decoded.
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNoSession, path)
	} else if err != nil {
		return nil, err
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	raw, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	var st State
	if err := msgpack.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	// msgpack timestamps lose timezone info; normalize to UTC
	st.OpenedAt = st.OpenedAt.UTC()
	return &st, nil
}

// Remove deletes the session at path. A missing session is not an error.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
