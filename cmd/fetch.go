package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/subcommands"

	"github.com/etnz/secuofx/date"
	"github.com/etnz/secuofx/ofx"
	"github.com/etnz/secuofx/renderer"
)

type fetchCmd struct {
	date        string
	output      string
	dir         string
	raw         bool
	noOFX       bool
	concurrency int
	attempts    int
	account     string

	out io.Writer
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "fetches the prices of securities on a date and writes an OFX file" }
func (*fetchCmd) Usage() string {
	return `secuofx fetch [-date YYYY-MM-DD] [-o file | -dir folder] <identifier...>

Fetches the closing price of each security on the given date, or on the
closest earlier trading day, and writes them to an OFX file that personal
finance software can import.

Identifiers are classified first, see 'secuofx classify'. Stock prices and
fund NAVs come from Yahoo Finance; fund NAVs fall back to the Investment Trusts
Association fund library when Yahoo does not know the fund.

A report of every identifier is printed. Identifiers that cannot be resolved
are listed in the report and left out of the file. When nothing can be
resolved no file is written and the command fails.

The file is named SecuOFX_YYYYMMDD.ofx, or SecuOFX_YYYYMMDD_<symbol>.ofx for a
single security, unless -o is given. Use -o - to write it to stdout.
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "date", date.Today().String(), "Target date of the prices (YYYY-MM-DD).")
	f.StringVar(&c.output, "o", "", "Output file, '-' for stdout. Defaults to the standard name in -dir.")
	f.StringVar(&c.dir, "dir", ".", "Folder where the output file is written.")
	f.BoolVar(&c.raw, "raw", false, "Print the report as raw markdown instead of rendering it.")
	f.BoolVar(&c.noOFX, "no-ofx", false, "Only print the report, do not write the OFX file.")
	f.IntVar(&c.concurrency, "concurrency", 0, "Number of identifiers fetched in parallel, overrides SECUOFX_CONCURRENCY.")
	f.IntVar(&c.attempts, "attempts", 0, "Attempts per source, overrides SECUOFX_MAX_ATTEMPTS.")
	f.StringVar(&c.account, "account", "", "Account ID written in the file, overrides SECUOFX_ACCOUNT_ID.")
}

func (c *fetchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid -date: %v\n", err)
		return subcommands.ExitUsageError
	}
	ids := identifiers(f.Args())
	if len(ids) == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one identifier must be specified.")
		f.Usage()
		return subcommands.ExitUsageError
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.concurrency > 0 {
		cfg.Concurrency = c.concurrency
	}
	if c.attempts > 0 {
		cfg.MaxAttempts = c.attempts
	}
	if c.account != "" {
		cfg.AccountID = c.account
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	log := newLogger(cfg)

	results := newResolver(cfg, log).Resolve(ctx, ids, on)

	out := c.out
	if out == nil {
		out = os.Stdout
	}
	// the report would corrupt the file on stdout.
	if c.output != "-" || c.noOFX {
		printMarkdown(out, renderer.ReportMarkdown(results, on), c.raw)
	}

	quotes := results.Quotes()
	if len(quotes) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no price could be fetched, no file written.")
		return subcommands.ExitFailure
	}
	if c.noOFX {
		return subcommands.ExitSuccess
	}

	doc, err := ofx.Encode(results, on, ofx.Options{AccountID: cfg.AccountID})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot encode OFX: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.output == "-" {
		if _, err := doc.WriteTo(out); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	filename := c.output
	if filename == "" {
		filename = filepath.Join(c.dir, ofx.Filename(on, quotes))
	}
	content, err := doc.Bytes()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := os.WriteFile(filename, content, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing OFX file %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}
	log.Info().Str("file", filename).Int("positions", len(quotes)).Msg("OFX file written")
	return subcommands.ExitSuccess
}
