package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/mileage"
	"github.com/etnz/mileage/renderer"
	"github.com/etnz/mileage/syncer"
	"github.com/google/subcommands"
)

// importCmd holds the flags for the 'import' subcommand.
type importCmd struct {
	input  string
	source string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import flights from the flight export format" }
func (*importCmd) Usage() string {
	return `mqs import [-i <file>] [-source <name>]

  Imports flights from the import/export format (one JSON flight per line,
  see 'mqs export'). Reads stdin when no file is given. Flights already in
  the ledger, same date and route, are skipped.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.input, "i", "", "File to import (defaults to stdin)")
	f.StringVar(&c.source, "source", "import", "Name recorded as the flights' import source")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	in, closeIn, err := openInput(c.input)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeIn()

	batch, err := mileage.ImportFlights(in, c.source)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	return mergeBatch(batch)
}

// openInput opens the named file, or stdin when name is empty.
func openInput(name string) (io.Reader, func(), error) {
	if name == "" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open input file: %w", err)
	}
	return f, func() { f.Close() }, nil
}

// mergeBatch merges a parsed batch into the ledger, with a backup captured
// first, and prints what the merge actually did.
func mergeBatch(batch *mileage.ParsedBatch) subcommands.ExitStatus {
	if batch.IsEmpty() {
		fmt.Fprintln(os.Stderr, "Nothing to import.")
		return subcommands.ExitSuccess
	}

	ledger, err := loadLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	next, report, err := mileage.Merge(ledger, batch, snapshotter())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	tables := []syncer.Table{syncer.Flights, syncer.Miles, syncer.Manual}
	if report.SettingsAdopted {
		tables = append(tables, syncer.Profile)
	}
	if err := saveLedger(next, tables...); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.Merge(report))
	return subcommands.ExitSuccess
}
