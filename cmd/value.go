package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/mileage"
	"github.com/etnz/mileage/renderer"
	"github.com/etnz/mileage/syncer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// valueCmd holds the flags for the 'value' subcommand.
type valueCmd struct {
	probe  string
	target string
}

func (*valueCmd) Name() string     { return "value" }
func (*valueCmd) Synopsis() string { return "estimate what the miles balance is worth" }
func (*valueCmd) Usage() string {
	return `mqs value [-probe <name>] [-target <amount>]

  Values the miles balance at the member's target value per mile, and at the
  value observed on a configured fare probe when one is reachable.

  With -target, first persists a new target value per mile.
`
}

func (c *valueCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.probe, "probe", "", "Fare probe to consult (defaults to the first configured one)")
	f.StringVar(&c.target, "target", "", "Set the target value per mile before valuing")
}

func (c *valueCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	ledger, err := loadLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if c.target != "" {
		v, err := decimal.NewFromString(c.target)
		if err != nil || v.IsNegative() {
			fmt.Fprintf(os.Stderr, "Error: invalid target value %q\n", c.target)
			return subcommands.ExitUsageError
		}
		ledger.SetTargetValuePerPoint(v)
		if err := saveLedger(ledger, syncer.Profile); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	}

	var probe *mileage.FareProbe
	for i, p := range cfg.FareProbes {
		if c.probe == "" || p.Name == c.probe {
			probe = &cfg.FareProbes[i]
			break
		}
	}
	if c.probe != "" && probe == nil {
		fmt.Fprintf(os.Stderr, "Error: unknown fare probe %q\n", c.probe)
		return subcommands.ExitUsageError
	}

	probeName := ""
	probed := decimal.Zero
	if probe != nil {
		probeName = probe.Name
		v, err := probe.Fetch()
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: fare probe %q unreachable: %v\n", probe.Name, err)
		} else {
			probed = v
		}
	}

	printMarkdown(renderer.Value(ledger.NewValueReport(probeName, probed)))
	return subcommands.ExitSuccess
}
