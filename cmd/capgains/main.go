// Command capgains computes FIFO realized gains from a trade CSV, or loads one into the store.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	commander.Register(&reportCmd{}, "gains")
	commander.Register(&importCmd{}, "store")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
