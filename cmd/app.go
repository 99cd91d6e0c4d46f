// Package cmd implements the CLI application to track an airline loyalty
// ledger.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/mileage"
	"github.com/etnz/mileage/config"
	"github.com/etnz/mileage/store"
	"github.com/etnz/mileage/syncer"
	"github.com/google/subcommands"
)

// Commands lists the subcommands a main package registers.
// A main package will iterate Commands to Register() each one, and Execute() the user-selected one.
var Commands = []subcommands.Command{
	&flightCmd{},
	&milesCmd{},
	&adjustCmd{},
	&settingsCmd{},
	&rolloverCmd{},

	&importCmd{},
	&importJSONCmd{},
	&extractCmd{},
	&exportCmd{},
	&undoCmd{},
	&backupCmd{},
	&fmtCmd{},

	&statusCmd{},
	&historyCmd{},
	&balanceCmd{},
	&summaryCmd{},
	&valueCmd{},
	&logCmd{},

	&topicCmd{},
	&assistCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to the config file (defaults to the user config dir)")
var ledgerFile = flag.String("ledger-file", "", "Path to the ledger file (overrides the config)")

var (
	appMu   sync.Mutex
	appCfg  *config.Config
	appDB   *store.DB
	appSync *syncer.Syncer
	appStop context.CancelFunc
	// saved is what the next flush mirrors to the store.
	saved *mileage.Ledger
)

// loadConfig loads the application config once per invocation.
func loadConfig() (*config.Config, error) {
	appMu.Lock()
	defer appMu.Unlock()
	if appCfg != nil {
		return appCfg, nil
	}
	var cfg *config.Config
	var err error
	if *configFile != "" {
		cfg, err = config.LoadFile(*configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if *ledgerFile != "" {
		cfg.LedgerPath = *ledgerFile
	}
	appCfg = cfg
	return cfg, nil
}

// loadLedger loads the authoritative ledger file named by the config. When
// the file is missing but a store mirror exists, the ledger is recovered from
// the mirror instead of starting empty.
func loadLedger() (*mileage.Ledger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(cfg.LedgerPath); os.IsNotExist(err) {
		if _, serr := os.Stat(cfg.StorePath); serr == nil {
			if db := openStore(); db != nil {
				l, lerr := db.LoadAll()
				if lerr == nil {
					log.Printf("ledger file missing, recovered from the store mirror")
					return l, nil
				}
				log.Printf("warning: cannot recover from the store mirror: %v", lerr)
			}
		}
	}
	return mileage.LoadLedger(cfg.LedgerPath)
}

// openStore opens the store mirror once per invocation. A nil store is not an
// error: the ledger file stays authoritative without it.
func openStore() *store.DB {
	cfg, err := loadConfig()
	if err != nil {
		return nil
	}
	appMu.Lock()
	defer appMu.Unlock()
	if appDB != nil {
		return appDB
	}
	db, err := store.Open(cfg.StorePath)
	if err != nil {
		log.Printf("warning: store unavailable, mirror and undo disabled: %v", err)
		return nil
	}
	appDB = db
	return db
}

// snapshotter returns the backup store used to capture pre-import state, or
// nil when the store is unavailable.
func snapshotter() mileage.Snapshotter {
	db := openStore()
	if db == nil {
		return nil
	}
	return mileage.NewBackupStore(db)
}

// saveLedger writes the ledger file and enqueues a store mirror flush. The
// ledger file is authoritative: a mirror failure is reported, never blocking.
func saveLedger(l *mileage.Ledger, tables ...syncer.Table) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := mileage.SaveLedger(cfg.LedgerPath, l); err != nil {
		return err
	}

	if db := openStore(); db != nil {
		appMu.Lock()
		saved = l
		if appSync == nil {
			appSync = syncer.New(flushTables, 100*time.Millisecond)
			ctx, cancel := context.WithCancel(context.Background())
			appStop = cancel
			go appSync.Run(ctx)
			go func() {
				for r := range appSync.Results() {
					if r.Err != nil {
						log.Printf("warning: store mirror failed for %v: %v", r.Tables, r.Err)
					}
				}
			}()
		}
		appMu.Unlock()
		appSync.MarkDirty(tables...)
	}
	return nil
}

// flushTables mirrors the dirty tables of the last saved ledger to the store.
func flushTables(intent syncer.Intent) error {
	appMu.Lock()
	l, db := saved, appDB
	appMu.Unlock()
	if l == nil || db == nil {
		return nil
	}

	if intent[syncer.Flights] {
		var flights []mileage.FlightRecord
		for f := range l.Flights() {
			flights = append(flights, f)
		}
		if err := db.SaveFlights(flights); err != nil {
			return err
		}
	}
	if intent[syncer.Miles] {
		var records []mileage.MonthlyMilesRecord
		for r := range l.MilesRecords() {
			records = append(records, r)
		}
		if err := db.SaveMilesRecords(records); err != nil {
			return err
		}
	}
	if intent[syncer.Manual] {
		var entries []mileage.ManualLedgerEntry
		for e := range l.ManualEntries() {
			entries = append(entries, e)
		}
		if err := db.SaveManualLedger(entries); err != nil {
			return err
		}
	}
	if intent[syncer.Profile] {
		p := store.Profile{
			Currency:    l.Currency(),
			TargetValue: l.TargetValuePerPoint().String(),
			Rollover:    l.Rollover(),
		}
		if s, ok := l.Settings(); ok {
			p.Settings = &s
		}
		if err := db.SaveProfile(p); err != nil {
			return err
		}
	}
	return nil
}

// Shutdown flushes the pending store mirror writes and closes the store. A
// main package calls it once, after the selected command returned.
func Shutdown() {
	appMu.Lock()
	s, stop, db := appSync, appStop, appDB
	appSync, appStop, appDB = nil, nil, nil
	appMu.Unlock()

	if s != nil {
		stop()
		s.Wait()
	}
	if db != nil {
		if err := db.Close(); err != nil {
			log.Printf("warning: closing store: %v", err)
		}
	}
}

// printMarkdown renders markdown to the terminal, falling back to the raw
// text when rendering is not possible.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(0))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
