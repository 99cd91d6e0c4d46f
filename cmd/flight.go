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

// flightCmd holds the flags for the 'flight' subcommand.
type flightCmd struct {
	date    string
	route   string
	airline string
	cabin   string
	miles   int
	xp      int
	saf     int
	uxp     int
	remove  string
}

func (*flightCmd) Name() string     { return "flight" }
func (*flightCmd) Synopsis() string { return "record a flown segment in the ledger" }
func (*flightCmd) Usage() string {
	return `mqs flight -r <route> [-d <date>] [-airline <code>] [-cabin <cabin>] [-miles <n>] [-xp <n>] [-saf <n>] [-uxp <n>]
mqs flight -rm <id>

  Records a single flown segment. A flight is identified by its (date, route)
  pair: recording the same pair twice is an error, the first record wins.

Usage Examples:
# Record a transatlantic segment flown today.
$ mqs flight -r AMS-JFK -airline KL -cabin business -miles 3911 -xp 15

`
}

func (c *flightCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Flight date (defaults to today)")
	f.StringVar(&c.route, "r", "", "Route as ORIGIN-DEST, e.g. AMS-JFK")
	f.StringVar(&c.airline, "airline", "", "Operating airline code, e.g. AF or KL")
	f.StringVar(&c.cabin, "cabin", "", "Cabin flown")
	f.IntVar(&c.miles, "miles", 0, "Miles earned on the segment")
	f.IntVar(&c.xp, "xp", 0, "XP earned on the segment")
	f.IntVar(&c.saf, "saf", 0, "SAF bonus XP earned on the segment")
	f.IntVar(&c.uxp, "uxp", 0, "UXP earned on the segment (AF and KL only)")
	f.StringVar(&c.remove, "rm", "", "Remove the flight with this id instead of adding one")
}

func (c *flightCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := loadLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if c.remove != "" {
		if !ledger.RemoveFlight(c.remove) {
			fmt.Fprintf(os.Stderr, "Error: no flight with id %q\n", c.remove)
			return subcommands.ExitFailure
		}
		if err := saveLedger(ledger, syncer.Flights); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		if db := openStore(); db != nil {
			if err := db.DeleteFlight(c.remove); err != nil {
				fmt.Fprintf(os.Stderr, "warning: store mirror failed: %v\n", err)
			}
		}
		fmt.Printf("Removed flight %s\n", c.remove)
		return subcommands.ExitSuccess
	}

	day := date.Today()
	if c.date != "" {
		day, err = date.Parse(c.date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	flight := mileage.FlightRecord{
		Date:         day,
		Route:        c.route,
		Airline:      c.airline,
		Cabin:        c.cabin,
		EarnedMiles:  c.miles,
		EarnedXP:     c.xp,
		SafXP:        c.saf,
		UXP:          c.uxp,
		ImportSource: "manual",
	}
	flight, err = ledger.AddFlight(flight)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	if err := saveLedger(ledger, syncer.Flights); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Recorded flight %s %s (%s)\n", flight.Date, flight.Route, flight.ID)
	return subcommands.ExitSuccess
}
