package edit

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/go-appsec/jsondecoder/jsondecoder/cliutil"
	"github.com/go-appsec/jsondecoder/jsondecoder/config"
	"github.com/go-appsec/jsondecoder/jsondecoder/decoder"
	"github.com/go-appsec/jsondecoder/jsondecoder/httpmsg"
	"github.com/go-appsec/jsondecoder/jsondecoder/session"
)

// ErrNotApplicable is returned by open when the tab would not be offered for the message.
var ErrNotApplicable = errors.New("message is not JSON (try --force)")

func newFactory(configPath string) (*decoder.Factory, *config.Config, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	return decoder.NewFactory(httpmsg.RawAnalyzer{}, cfg.Rules()), cfg, nil
}

func open(msg []byte, opts openOptions) error {
	factory, cfg, err := newFactory(opts.configPath)
	if err != nil {
		return err
	}
	factory.Mode.Set(opts.force)

	isRequest := !opts.response
	tab := factory.NewTab(!opts.readOnly)
	if ok, err := tab.IsEnabled(msg, isRequest); err != nil {
		return err
	} else if !ok {
		return ErrNotApplicable
	}
	if err := tab.SetMessage(msg, isRequest); err != nil {
		return err
	}

	if err := os.WriteFile(opts.out, []byte(tab.Text()), 0644); err != nil {
		return fmt.Errorf("writing display text: %w", err)
	}
	source, _ := filepath.Abs(opts.out)
	st := &session.State{
		Message:   msg,
		IsRequest: isRequest,
		Display:   tab.Text(),
		Editable:  tab.Editable(),
		Source:    source,
		OpenedAt:  time.Now().UTC(),
	}
	return session.Save(session.PathFor(opts.out, cfg.SessionDir), st)
}

// restore rebuilds the tab that produced the session's display text.
func restore(factory *decoder.Factory, st *session.State) (*decoder.Tab, error) {
	tab := factory.NewTab(st.Editable)
	if err := tab.SetMessage(st.Message, st.IsRequest); err != nil {
		return nil, err
	}
	return tab, nil
}

func save(stdout io.Writer, opts saveOptions) error {
	factory, cfg, err := newFactory(opts.configPath)
	if err != nil {
		return err
	}

	sessionPath := session.PathFor(opts.textPath, cfg.SessionDir)
	st, err := session.Load(sessionPath)
	if err != nil {
		return err
	}
	text, err := os.ReadFile(opts.textPath)
	if err != nil {
		return fmt.Errorf("reading display text: %w", err)
	}

	tab, err := restore(factory, st)
	if err != nil {
		return err
	}
	if st.Modified(string(text)) {
		if err := tab.SetText(string(text)); err != nil {
			return err
		}
	}

	out, err := tab.Message()
	if err != nil {
		return err
	}

	if opts.out == "" {
		_, err = stdout.Write(out)
	} else {
		err = os.WriteFile(opts.out, out, 0644)
	}
	if err != nil {
		return fmt.Errorf("writing message: %w", err)
	}

	if opts.close {
		return session.Remove(sessionPath)
	}
	return nil
}

func status(w io.Writer, opts statusOptions) error {
	cfg, err := config.LoadOrDefault(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	st, err := session.Load(session.PathFor(opts.textPath, cfg.SessionDir))
	if err != nil {
		return err
	}

	modified := "unknown"
	if text, err := os.ReadFile(opts.textPath); err == nil {
		modified = strconv.FormatBool(st.Modified(string(text)))
	}
	direction := "request"
	if !st.IsRequest {
		direction = "response"
	}

	t := cliutil.NewTable()
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRows([]table.Row{
		{"Display File", st.Source},
		{"Direction", direction},
		{"Message Bytes", strconv.Itoa(len(st.Message))},
		{"Editable", strconv.FormatBool(st.Editable)},
		{"Modified", modified},
		{"Opened", st.OpenedAt.Format(time.RFC3339)},
	})
	return cliutil.Render(w, t, opts.format)
}
