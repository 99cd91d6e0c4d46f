package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/mileage/renderer"
	"github.com/google/subcommands"
)

// balanceCmd holds the flags for the 'balance' subcommand.
type balanceCmd struct{}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "display the miles balance by source" }
func (*balanceCmd) Usage() string {
	return `mqs balance

  Displays the miles balance broken down by source over the whole ledger,
  with the total acquisition cost.
`
}

func (*balanceCmd) SetFlags(f *flag.FlagSet) {}

func (c *balanceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := loadLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.Balance(ledger.NewBalanceReport()))
	return subcommands.ExitSuccess
}
