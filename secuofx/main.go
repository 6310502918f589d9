package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/secuofx/cmd"
)

func main() {
	// answers the shell when invoked for completion, and exits.
	cmd.Completion().Complete("secuofx")

	commander := subcommands.NewCommander(flag.CommandLine, "secuofx")
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
