package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/secuofx/renderer"
)

type classifyCmd struct {
	raw bool
	out io.Writer
}

func (*classifyCmd) Name() string     { return "classify" }
func (*classifyCmd) Synopsis() string { return "shows how identifiers are understood" }
func (*classifyCmd) Usage() string {
	return `secuofx classify <identifier...>

Classifies each identifier without fetching anything:
  - 7203.T, 9984.O     Japanese stock with its exchange suffix (T, O, N, F, S)
  - AAPL, msft         US stock ticker (1 to 5 letters)
  - 03311187           Japanese mutual fund association code (8 digits)
  - JP90C000H1T1       Japanese mutual fund ISIN

Identifiers may be separated by spaces or commas.
`
}

func (c *classifyCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.raw, "raw", false, "Print raw markdown instead of rendering it.")
}

func (c *classifyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ids := identifiers(f.Args())
	if len(ids) == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one identifier must be specified.")
		f.Usage()
		return subcommands.ExitUsageError
	}
	out := c.out
	if out == nil {
		out = os.Stdout
	}
	printMarkdown(out, renderer.RenderClassification(renderer.NewClassification(ids)), c.raw)
	return subcommands.ExitSuccess
}
