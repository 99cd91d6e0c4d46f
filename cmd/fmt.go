package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/mileage/syncer"
	"github.com/google/subcommands"
)

// fmtCmd holds the flags for the 'fmt' subcommand.
type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the ledger file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `mqs fmt

  Validates and formats the ledger file. This command reads all records,
  validates them, applies available quick-fixes, sorts flights by date, and
  writes the file back in a canonical JSONL format. Hand edits survive, the
  layout is normalized.
`
}

func (*fmtCmd) SetFlags(f *flag.FlagSet) {}

func (c *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := loadLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := saveLedger(ledger, syncer.Flights, syncer.Miles, syncer.Manual, syncer.Profile); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving formatted ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintln(os.Stderr, "Formatted the ledger file.")
	return subcommands.ExitSuccess
}
