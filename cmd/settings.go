package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/mileage"
	"github.com/etnz/mileage/date"
	"github.com/etnz/mileage/syncer"
	"github.com/google/subcommands"
)

// settingsCmd holds the flags for the 'settings' subcommand.
type settingsCmd struct {
	startMonth int
	startDate  string
	status     string
	xp         int
	uxp        int
	cycle      string
	force      bool
}

func (*settingsCmd) Name() string     { return "settings" }
func (*settingsCmd) Synopsis() string { return "set the qualification starting point" }
func (*settingsCmd) Usage() string {
	return `mqs settings -status <status> [-start-month <1-12>] [-start-date <date>] [-xp <n>] [-uxp <n>] [-cycle annual|biennial] [-force]

  Sets the known qualification state everything is computed from: the cycle
  start month, the status held at that point and the XP counters. Settings
  are set once: a second run is rejected unless -force is given.

Usage Examples:
# Cycles run November to October, currently Gold with 120 XP.
$ mqs settings -start-month 11 -status gold -xp 120

`
}

func (c *settingsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.startMonth, "start-month", 1, "Calendar month a new cycle starts in (1-12)")
	f.StringVar(&c.startDate, "start-date", "", "Exact day tracking started (optional)")
	f.StringVar(&c.status, "status", "explorer", "Status held at the starting point (explorer, silver, gold, platinum)")
	f.IntVar(&c.xp, "xp", 0, "XP already earned in the starting cycle")
	f.IntVar(&c.uxp, "uxp", 0, "UXP already earned in the starting cycle")
	f.StringVar(&c.cycle, "cycle", "annual", "Ultimate counting cycle (annual, biennial)")
	f.BoolVar(&c.force, "force", false, "Replace existing settings instead of rejecting")
}

func (c *settingsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	status, err := mileage.ParseStatus(c.status)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	cycle, err := mileage.ParseUltimateCycle(c.cycle)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	settings := mileage.QualificationSettings{
		CycleStartMonth: time.Month(c.startMonth),
		StartingStatus:  status,
		StartingXP:      c.xp,
		StartingUXP:     c.uxp,
		UltimateCycle:   cycle,
	}
	if c.startDate != "" {
		settings.CycleStartDate, err = date.Parse(c.startDate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing start date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	ledger, err := loadLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if _, ok := ledger.Settings(); ok && !c.force {
		fmt.Fprintln(os.Stderr, "Error: settings are already set. Use -force to replace them.")
		return subcommands.ExitFailure
	}
	if err := ledger.SetSettings(settings); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	if err := saveLedger(ledger, syncer.Profile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Println("Qualification settings saved.")
	return subcommands.ExitSuccess
}
