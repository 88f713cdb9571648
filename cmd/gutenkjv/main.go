// Command gutenkjv converts the Project Gutenberg King James Bible into
// structured documents and answers questions about them.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"runtime"
	"strings"
	"text/tabwriter"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	gkerrors "github.com/FocuswithJustin/gutenkjv/core/errors"
	"github.com/FocuswithJustin/gutenkjv/core/gutenberg"
	"github.com/FocuswithJustin/gutenkjv/core/sqlite"
	"github.com/FocuswithJustin/gutenkjv/internal/formats"
	"github.com/FocuswithJustin/gutenkjv/internal/logging"

	// Import embedded codecs to register every output format
	_ "github.com/FocuswithJustin/gutenkjv/internal/embedded"
)

const version = "0.1.0"

// stdout receives command output. Logs go to stderr.
var stdout io.Writer = os.Stdout

// CLI defines the command-line interface for gutenkjv.
var CLI struct {
	// Global flags
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error)" default:"info" env:"GUTENKJV_LOG_LEVEL"`
	LogFormat string `name:"log-format" help:"Log format (text, json)" default:"text" env:"GUTENKJV_LOG_FORMAT"`

	Parse    ParseCmd    `cmd:"" help:"Parse the eBook text and write encoded documents"`
	Toc      TocCmd      `cmd:"" help:"Print the table of contents"`
	Check    CheckCmd    `cmd:"" help:"Check a document's structure against the KJV canon"`
	Lookup   LookupCmd   `cmd:"" help:"Print the verses a reference covers"`
	Classify ClassifyCmd `cmd:"" help:"Show which book header a line is recognized as"`
	Convert  ConvertCmd  `cmd:"" help:"Convert an encoded document to another format"`
	Formats  FormatsCmd  `cmd:"" help:"List output formats"`
	Version  VersionCmd  `cmd:"" help:"Print version information"`
}

// markerVars supplies parser defaults to flag tags.
var markerVars = kong.Vars{
	"start_marker": gutenberg.DefaultStartMarker,
	"end_marker":   gutenberg.DefaultEndMarker,
}

// ClassifyCmd runs the line classifier on literal lines.
type ClassifyCmd struct {
	Lines []string `arg:"" optional:"" help:"Lines to classify"`
	Rules bool     `help:"Print the ordered title rules instead"`
}

func (c *ClassifyCmd) Run() error {
	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	if c.Rules {
		fmt.Fprintln(w, "#\tMATCH\tPATTERN\tBOOK\tTESTAMENT")
		for i, r := range gutenberg.Titles() {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", i+1, r.Match, r.Pattern, r.Name, r.Testament)
		}
		return w.Flush()
	}

	if len(c.Lines) == 0 {
		return errors.New("no lines given (use --rules to list the title table)")
	}
	for _, line := range c.Lines {
		title, ok := gutenberg.Classify(strings.TrimSpace(line))
		if !ok {
			fmt.Fprintf(w, "%s\t-\n", line)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", line, title.Name, title.Testament)
	}
	return w.Flush()
}

// FormatsCmd lists the registered codecs.
type FormatsCmd struct{}

func (c *FormatsCmd) Run() error {
	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDECODE\tEXTENSIONS\tDESCRIPTION")
	for _, codec := range formats.List() {
		info := codec.Info()
		decode := "no"
		if info.CanDecode {
			decode = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", info.Name, decode, strings.Join(info.Extensions, " "), info.Description)
	}
	return w.Flush()
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	info := sqlite.GetInfo()
	fmt.Fprintf(stdout, "gutenkjv version %s\n", version)
	fmt.Fprintf(stdout, "go: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(stdout, "sqlite: %s (%s) from %s\n", info.DriverName, info.DriverType, info.Package)
	return nil
}

// loadEnv reads .env from the working directory. A missing file is fine.
func loadEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return gkerrors.Wrap(err, "failed to load .env")
	}
	return nil
}

// configureLogging applies the global log flags.
func configureLogging(level, format string) error {
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return err
	}
	f, err := logging.ParseFormat(format)
	if err != nil {
		return err
	}
	logging.InitLogger(lvl, f)
	return nil
}

func main() {
	if err := loadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	ctx := kong.Parse(&CLI,
		kong.Name("gutenkjv"),
		kong.Description("Project Gutenberg King James Bible converter"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		markerVars,
	)

	ctx.FatalIfErrorf(configureLogging(CLI.LogLevel, CLI.LogFormat))

	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
