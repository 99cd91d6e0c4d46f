package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/mileage/syncer"
	"github.com/google/subcommands"
)

// rolloverCmd holds the flags for the 'rollover' subcommand.
type rolloverCmd struct {
	xp int
}

func (*rolloverCmd) Name() string     { return "rollover" }
func (*rolloverCmd) Synopsis() string { return "declare XP carried over into the first cycle" }
func (*rolloverCmd) Usage() string {
	return `mqs rollover -xp <n>

  Declares surplus XP the program carried over into the first tracked cycle.
  The amount seeds that cycle's counter on top of the starting XP.
`
}

func (c *rolloverCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.xp, "xp", 0, "XP carried over")
}

func (c *rolloverCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.xp < 0 {
		fmt.Fprintln(os.Stderr, "Error: rollover XP must not be negative.")
		return subcommands.ExitUsageError
	}
	ledger, err := loadLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	ledger.SetRollover(c.xp)

	if err := saveLedger(ledger, syncer.Profile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Rollover set to %d XP\n", c.xp)
	return subcommands.ExitSuccess
}
