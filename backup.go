package mileage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/etnz/mileage/date"
	"github.com/shopspring/decimal"
)

// ErrNoBackup is returned by Restore when no snapshot is stored.
var ErrNoBackup = errors.New("no backup available")

// Snapshot is a full copy of the ledger's mutable state, taken immediately
// before a destructive merge. Only the most recent one is kept.
type Snapshot struct {
	Flights      []FlightRecord                    `json:"flights"`
	MilesRecords map[date.Month]MonthlyMilesRecord `json:"monthlyMilesRecords"`
	Manual       map[date.Month]ManualLedgerEntry  `json:"manualLedger"`
	Settings     *QualificationSettings            `json:"qualificationSettings,omitempty"`
	Rollover     int                               `json:"rollover,omitempty"`
	Currency     string                            `json:"currency,omitempty"`
	TargetValue  decimal.Decimal                   `json:"targetValuePerPoint"`
	Timestamp    time.Time                         `json:"timestamp"`
	Source       string                            `json:"source,omitempty"`
}

// BackupInfo describes the stored snapshot for UI affordances.
type BackupInfo struct {
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source,omitempty"`
}

// Blob is the durable storage a BackupStore writes through: a single keyed
// blob, overwritten on each save, cleared after a restore.
type Blob interface {
	SaveBackup(data []byte) error
	// LoadBackup returns the stored blob, or (nil, nil) when there is none.
	LoadBackup() ([]byte, error)
	ClearBackup() error
}

// BackupStore keeps exactly one prior world-state so that a destructive
// import is safe to offer. It has no business logic of its own.
type BackupStore struct {
	blob Blob
}

// NewBackupStore creates a store over the given blob storage.
func NewBackupStore(blob Blob) *BackupStore { return &BackupStore{blob: blob} }

// Capture snapshots the ledger, overwriting any prior snapshot.
func (b *BackupStore) Capture(l *Ledger, source string) error {
	c := l.DeepCopy()
	s := Snapshot{
		Flights:      c.flights,
		MilesRecords: c.miles,
		Manual:       c.manual,
		Settings:     c.settings,
		Rollover:     c.rollover,
		Currency:     c.currency,
		TargetValue:  c.targetValuePerPoint,
		Timestamp:    time.Now(),
		Source:       source,
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("cannot encode backup: %w", err)
	}
	if err := b.blob.SaveBackup(data); err != nil {
		return fmt.Errorf("cannot save backup: %w", err)
	}
	return nil
}

// Restore returns the stored snapshot and clears it, so a second Restore
// without a new Capture fails with ErrNoBackup. The caller applies the
// snapshot back into live state, see Ledger.Apply.
func (b *BackupStore) Restore() (*Snapshot, error) {
	data, err := b.blob.LoadBackup()
	if err != nil {
		return nil, fmt.Errorf("cannot load backup: %w", err)
	}
	if data == nil {
		return nil, ErrNoBackup
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("cannot decode backup: %w", err)
	}
	if err := b.blob.ClearBackup(); err != nil {
		return nil, fmt.Errorf("cannot clear backup after restore: %w", err)
	}
	return &s, nil
}

// HasBackup reports whether a snapshot is stored.
func (b *BackupStore) HasBackup() bool {
	data, err := b.blob.LoadBackup()
	return err == nil && data != nil
}

// Info returns when the stored snapshot was taken and by what, without
// consuming it.
func (b *BackupStore) Info() (BackupInfo, error) {
	data, err := b.blob.LoadBackup()
	if err != nil {
		return BackupInfo{}, fmt.Errorf("cannot load backup: %w", err)
	}
	if data == nil {
		return BackupInfo{}, ErrNoBackup
	}
	var info BackupInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return BackupInfo{}, fmt.Errorf("cannot decode backup: %w", err)
	}
	return info, nil
}

// Apply replaces the ledger's mutable state with the snapshot's.
func (l *Ledger) Apply(s *Snapshot) {
	l.flights = append(l.flights[:0], s.Flights...)
	l.miles = make(map[date.Month]MonthlyMilesRecord, len(s.MilesRecords))
	for m, r := range s.MilesRecords {
		l.miles[m] = r
	}
	l.manual = make(map[date.Month]ManualLedgerEntry, len(s.Manual))
	for m, e := range s.Manual {
		l.manual[m] = e
	}
	if s.Settings != nil {
		v := *s.Settings
		l.settings = &v
	} else {
		l.settings = nil
	}
	l.rollover = s.Rollover
	l.currency = s.Currency
	l.targetValuePerPoint = s.TargetValue
	l.stableSortFlights()
}
