package classify

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/go-appsec/jsondecoder/jsondecoder/cliutil"
	"github.com/go-appsec/jsondecoder/jsondecoder/config"
	"github.com/go-appsec/jsondecoder/jsondecoder/decoder"
	"github.com/go-appsec/jsondecoder/jsondecoder/httpmsg"
)

func run(w io.Writer, msg []byte, opts options) error {
	cfg, err := config.LoadOrDefault(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	factory := decoder.NewFactory(httpmsg.RawAnalyzer{}, cfg.Rules())
	factory.Mode.Set(opts.force)

	isRequest := !opts.response
	res, err := factory.Classifier.Classify(msg, isRequest)
	if err != nil {
		return err
	}
	a := res.Analysis

	contentType, ok := a.Header("Content-Type")
	if !ok {
		contentType = "-"
	}
	direction := "request"
	if !isRequest {
		direction = "response"
	}

	marker := res.MagicMark
	if marker == "" {
		marker = "-"
	}

	t := cliutil.NewTable()
	t.AppendHeader(table.Row{"Direction", "Content-Type", "Body Bytes", "Force", "Marker", "Applicable"})
	t.AppendRow(table.Row{
		direction,
		contentType,
		strconv.Itoa(len(a.Body(msg))),
		strconv.FormatBool(factory.Mode.Enabled()),
		marker,
		strconv.FormatBool(res.Applicable),
	})
	return cliutil.Render(w, t, opts.format)
}
