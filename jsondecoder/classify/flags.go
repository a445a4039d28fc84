package classify

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/go-appsec/jsondecoder/jsondecoder/cliutil"
)

type options struct {
	file       string
	response   bool
	force      bool
	configPath string
	format     string
}

func Parse(args []string) error {
	fs := pflag.NewFlagSet("classify", pflag.ContinueOnError)
	fs.SetInterspersed(true)
	var opts options

	fs.StringVarP(&opts.file, "file", "f", "-", "read the raw HTTP message from file (- for stdin)")
	fs.BoolVar(&opts.response, "response", false, "treat the message as a response")
	fs.BoolVar(&opts.force, "force", false, "enable forced JSON detection by magic markers")
	fs.StringVar(&opts.configPath, "config", "", "config file (default ~/.jsondecoder/config.json)")
	fs.StringVar(&opts.format, "format", cliutil.FormatText, "output format: text or markdown")

	fs.Usage = func() {
		_, _ = fmt.Fprint(os.Stderr, `Usage: jsondecoder classify [options]

Report whether the JSON Decoder tab would be offered for a raw HTTP message.

Examples:
  jsondecoder classify -f request.txt
  curl -si https://example.com/api | jsondecoder classify --response
  jsondecoder classify --force -f body-without-content-type.txt

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	} else if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	} else if !cliutil.ValidFormat(opts.format) {
		return fmt.Errorf("invalid --format %q: use text or markdown", opts.format)
	}

	msg, err := cliutil.ReadInput(opts.file)
	if err != nil {
		return err
	}
	return run(os.Stdout, msg, opts)
}
