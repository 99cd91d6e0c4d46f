package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/mileage"
	"github.com/google/subcommands"
)

// backupCmd holds the flags for the 'backup' subcommand.
type backupCmd struct {
	capture bool
}

func (*backupCmd) Name() string     { return "backup" }
func (*backupCmd) Synopsis() string { return "show or capture the undo backup" }
func (*backupCmd) Usage() string {
	return `mqs backup [-capture]

  Without flags, shows whether an undo backup exists and when it was taken.
  With -capture, snapshots the current ledger manually, overwriting any
  previous backup.
`
}

func (c *backupCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.capture, "capture", false, "Capture a backup of the current ledger now")
}

func (c *backupCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	db := openStore()
	if db == nil {
		fmt.Fprintln(os.Stderr, "Error: store unavailable, backups are disabled.")
		return subcommands.ExitFailure
	}
	backups := mileage.NewBackupStore(db)

	if c.capture {
		ledger, err := loadLedger()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		if err := backups.Capture(ledger, "manual"); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		fmt.Println("Backup captured.")
		return subcommands.ExitSuccess
	}

	info, err := backups.Info()
	if errors.Is(err, mileage.ErrNoBackup) {
		fmt.Println("No backup stored.")
		return subcommands.ExitSuccess
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Backup from %s", info.Timestamp.Format("2006-01-02 15:04:05"))
	if info.Source != "" {
		fmt.Printf(", taken before import %q", info.Source)
	}
	fmt.Println(". Run 'mqs undo' to restore it.")
	return subcommands.ExitSuccess
}
