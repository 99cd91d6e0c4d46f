package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/mileage/renderer"
	"github.com/google/subcommands"
)

// historyCmd holds the flags for the 'history' subcommand.
type historyCmd struct{}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display all qualification cycles" }
func (*historyCmd) Usage() string {
	return `mqs history

  Displays one row per qualification cycle, from the first tracked month to
  the current one: starting status, XP earned, tier achieved and the status
  actually held.
`
}

func (*historyCmd) SetFlags(f *flag.FlagSet) {}

func (c *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := loadLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	report, err := ledger.NewHistoryReport()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.History(report))
	return subcommands.ExitSuccess
}
