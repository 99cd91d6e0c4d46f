package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/mileage"
	"github.com/etnz/mileage/syncer"
	"github.com/google/subcommands"
)

// undoCmd holds the flags for the 'undo' subcommand.
type undoCmd struct{}

func (*undoCmd) Name() string     { return "undo" }
func (*undoCmd) Synopsis() string { return "revert the last import" }
func (*undoCmd) Usage() string {
	return `mqs undo

  Restores the ledger captured before the last import. One level deep: each
  import replaces the previous backup, and a restore consumes it.
`
}

func (*undoCmd) SetFlags(f *flag.FlagSet) {}

func (c *undoCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	db := openStore()
	if db == nil {
		fmt.Fprintln(os.Stderr, "Error: store unavailable, nothing to undo from.")
		return subcommands.ExitFailure
	}

	backups := mileage.NewBackupStore(db)
	snap, err := backups.Restore()
	if errors.Is(err, mileage.ErrNoBackup) {
		fmt.Fprintln(os.Stderr, "Nothing to undo.")
		return subcommands.ExitFailure
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	ledger, err := loadLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	ledger.Apply(snap)

	if err := saveLedger(ledger, syncer.Flights, syncer.Miles, syncer.Manual, syncer.Profile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Println("Reverted to the state before the last import.")
	return subcommands.ExitSuccess
}
