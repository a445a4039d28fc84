package edit

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/go-appsec/jsondecoder/jsondecoder/cliutil"
)

var editSubcommands = []string{"open", "save", "status", "help"}

func Parse(args []string) error {
	if len(args) < 1 {
		printUsage()
		return errors.New("subcommand required")
	}

	switch args[0] {
	case "open":
		return parseOpen(args[1:])
	case "save":
		return parseSave(args[1:])
	case "status":
		return parseStatus(args[1:])
	case "help", "--help", "-h":
		printUsage()
		return nil
	default:
		return cliutil.UnknownSubcommandError("edit", args[0], editSubcommands)
	}
}

func printUsage() {
	_, _ = fmt.Fprint(os.Stderr, `Usage: jsondecoder edit <command> [options]

Edit the JSON body of a raw HTTP message as pretty-printed text, then fold the
edit back into the original message.

---

edit open [options] -o <display-file>

  Write the display text for a message and remember the message in a session.

  Examples:
    jsondecoder edit open -f request.txt -o body.json
    jsondecoder edit open --response --read-only -f response.txt -o body.json

  Options:
    -f, --file PATH      raw HTTP message (- for stdin, default)
    -o, --out PATH       display text file to write (required)
    --response           treat the message as a response
    --force              enable forced JSON detection by magic markers
    --read-only          open without accepting edits

---

edit save [options] <display-file>

  Rebuild the message from the (possibly edited) display text. An unchanged
  file returns the original message byte for byte.

  Examples:
    jsondecoder edit save body.json > request-edited.txt
    jsondecoder edit save --close -o request-edited.txt body.json

  Options:
    -o, --out PATH       write the message to PATH instead of stdout
    --close              remove the session after saving

---

edit status [options] <display-file>

  Show the session behind a display file.

  Options:
    --format FORMAT      text or markdown

---

Common Options:
  --config PATH          config file (default ~/.jsondecoder/config.json)
`)
}

type openOptions struct {
	file       string
	out        string
	response   bool
	force      bool
	readOnly   bool
	configPath string
}

func parseOpen(args []string) error {
	fs := pflag.NewFlagSet("edit open", pflag.ContinueOnError)
	fs.SetInterspersed(true)
	var opts openOptions

	fs.StringVarP(&opts.file, "file", "f", "-", "raw HTTP message (- for stdin)")
	fs.StringVarP(&opts.out, "out", "o", "", "display text file to write")
	fs.BoolVar(&opts.response, "response", false, "treat the message as a response")
	fs.BoolVar(&opts.force, "force", false, "enable forced JSON detection by magic markers")
	fs.BoolVar(&opts.readOnly, "read-only", false, "open without accepting edits")
	fs.StringVar(&opts.configPath, "config", "", "config file")

	fs.Usage = func() {
		_, _ = fmt.Fprint(os.Stderr, "Usage: jsondecoder edit open [options] -o <display-file>\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	} else if opts.out == "" {
		return errors.New("--out is required")
	}

	msg, err := cliutil.ReadInput(opts.file)
	if err != nil {
		return err
	}
	return open(msg, opts)
}

type saveOptions struct {
	textPath   string
	out        string
	close      bool
	configPath string
}

func parseSave(args []string) error {
	fs := pflag.NewFlagSet("edit save", pflag.ContinueOnError)
	fs.SetInterspersed(true)
	var opts saveOptions

	fs.StringVarP(&opts.out, "out", "o", "", "write the message to PATH instead of stdout")
	fs.BoolVar(&opts.close, "close", false, "remove the session after saving")
	fs.StringVar(&opts.configPath, "config", "", "config file")

	fs.Usage = func() {
		_, _ = fmt.Fprint(os.Stderr, "Usage: jsondecoder edit save [options] <display-file>\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	} else if len(fs.Args()) != 1 {
		return errors.New("exactly one display file required")
	}
	opts.textPath = fs.Args()[0]

	return save(os.Stdout, opts)
}

type statusOptions struct {
	textPath   string
	format     string
	configPath string
}

func parseStatus(args []string) error {
	fs := pflag.NewFlagSet("edit status", pflag.ContinueOnError)
	fs.SetInterspersed(true)
	var opts statusOptions

	fs.StringVar(&opts.format, "format", cliutil.FormatText, "output format: text or markdown")
	fs.StringVar(&opts.configPath, "config", "", "config file")

	fs.Usage = func() {
		_, _ = fmt.Fprint(os.Stderr, "Usage: jsondecoder edit status [options] <display-file>\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	} else if len(fs.Args()) != 1 {
		return errors.New("exactly one display file required")
	} else if !cliutil.ValidFormat(opts.format) {
		return fmt.Errorf("invalid --format %q: use text or markdown", opts.format)
	}
	opts.textPath = fs.Args()[0]

	return status(os.Stdout, opts)
}
