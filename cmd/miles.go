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
	"github.com/shopspring/decimal"
)

// milesCmd holds the flags for the 'miles' subcommand.
type milesCmd struct {
	month        string
	subscription int
	card         int
	other        int
	debit        int
	costSub      float64
	costCard     float64
	costOther    float64
}

func (*milesCmd) Name() string     { return "miles" }
func (*milesCmd) Synopsis() string { return "set a month's miles activity" }
func (*milesCmd) Usage() string {
	return `mqs miles -m <month> [-subscription <n>] [-card <n>] [-other <n>] [-debit <n>] [-cost-subscription <amount>] [-cost-card <amount>] [-cost-other <amount>]

  Sets the miles activity of one calendar month. The month's record is
  replaced as a whole: flight-derived miles are re-derived from the flight
  list, everything else comes from the flags.

Usage Examples:
# 6000 subscription miles bought for 1000 this month.
$ mqs miles -m 2025-11 -subscription 6000 -cost-subscription 1000

`
}

func (c *milesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "m", "", "Month of the record, e.g. 2025-11 (defaults to the current month)")
	f.IntVar(&c.subscription, "subscription", 0, "Miles earned from the subscription")
	f.IntVar(&c.card, "card", 0, "Miles earned from card spend")
	f.IntVar(&c.other, "other", 0, "Miles earned from other sources")
	f.IntVar(&c.debit, "debit", 0, "Miles spent, as a positive amount")
	f.Float64Var(&c.costSub, "cost-subscription", 0, "Acquisition cost of the subscription miles")
	f.Float64Var(&c.costCard, "cost-card", 0, "Acquisition cost of the card miles")
	f.Float64Var(&c.costOther, "cost-other", 0, "Acquisition cost of the other miles")
}

func (c *milesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	month := date.ThisMonth()
	if c.month != "" {
		var err error
		month, err = date.ParseMonth(c.month)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing month: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	ledger, err := loadLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	rec := mileage.MonthlyMilesRecord{
		Month:             month,
		MilesSubscription: c.subscription,
		MilesCard:         c.card,
		MilesOther:        c.other,
		MilesDebit:        c.debit,
		CostSubscription:  decimal.NewFromFloat(c.costSub).Round(2),
		CostCard:          decimal.NewFromFloat(c.costCard).Round(2),
		CostOther:         decimal.NewFromFloat(c.costOther).Round(2),
	}
	if err := ledger.SetMilesRecord(rec); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	if err := saveLedger(ledger, syncer.Miles); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Set miles record for %s\n", month)
	return subcommands.ExitSuccess
}
