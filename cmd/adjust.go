package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/mileage"
	"github.com/etnz/mileage/date"
	"github.com/etnz/mileage/syncer"
	"github.com/google/subcommands"
)

// adjustCmd holds the flags for the 'adjust' subcommand.
type adjustCmd struct {
	month      string
	cardXP     int
	fuelXP     int
	miscXP     int
	correction int
}

func (*adjustCmd) Name() string     { return "adjust" }
func (*adjustCmd) Synopsis() string { return "fold point adjustments into a month's manual ledger" }
func (*adjustCmd) Usage() string {
	return `mqs adjust [-m <month>] [-card-xp <n>] [-fuel-xp <n>] [-misc-xp <n>] [-correction <n>]

  Folds point adjustments into the month's manual ledger entry. Adjustments
  are additive: running the command twice adds twice. Only the correction may
  be negative.

Usage Examples:
# 30 bonus XP from card spend last month.
$ mqs adjust -m 2025-10 -card-xp 30

# Absorb a -180 status reset shown on a statement.
$ mqs adjust -m 2025-11 -correction -180

`
}

func (c *adjustCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "m", "", "Month of the adjustment (defaults to the current month)")
	f.IntVar(&c.cardXP, "card-xp", 0, "Bonus XP from card spend")
	f.IntVar(&c.fuelXP, "fuel-xp", 0, "Bonus XP from sustainable fuel options")
	f.IntVar(&c.miscXP, "misc-xp", 0, "Miscellaneous bonus XP")
	f.IntVar(&c.correction, "correction", 0, "Signed XP correction (status reset, rollover)")
}

func (c *adjustCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	month := date.ThisMonth()
	if c.month != "" {
		var err error
		month, err = date.ParseMonth(c.month)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing month: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	entry := mileage.ManualLedgerEntry{
		Month:        month,
		CardXP:       c.cardXP,
		BonusFuelXP:  c.fuelXP,
		MiscXP:       c.miscXP,
		CorrectionXP: c.correction,
	}
	if entry.IsZero() {
		fmt.Fprintln(os.Stderr, "Error: nothing to adjust, all amounts are zero.")
		return subcommands.ExitUsageError
	}

	ledger, err := loadLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := ledger.Fold(entry); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	if err := saveLedger(ledger, syncer.Manual); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	total, _ := ledger.ManualEntry(month)
	fmt.Printf("Adjusted %s, manual total now %+d XP\n", month, total.Total())
	return subcommands.ExitSuccess
}
