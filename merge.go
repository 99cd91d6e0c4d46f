package mileage

import (
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/etnz/mileage/date"
)

// BatchCode classifies a failure of the parser collaborator. The set is
// closed: callers can switch on it exhaustively.
type BatchCode string

const (
	BatchValidation BatchCode = "validation"
	BatchExtraction BatchCode = "extraction"
	BatchTimeout    BatchCode = "timeout"
	BatchRateLimit  BatchCode = "rate-limit"
	BatchNetwork    BatchCode = "network"
)

// BatchError is the typed error a parser collaborator returns instead of a
// batch. It never panics across the boundary.
type BatchError struct {
	Code    BatchCode `json:"code"`
	Message string    `json:"message"`
}

func (e *BatchError) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

// NewBatchError creates a BatchError with a formatted message.
func NewBatchError(code BatchCode, format string, args ...any) *BatchError {
	return &BatchError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// PointCorrection is a signed adjustment a statement may carry, typically a
// status reset or a rollover absorbed into the manual ledger.
type PointCorrection struct {
	Month  date.Month `json:"month"`
	Amount int        `json:"amount"`
	Reason string     `json:"reason,omitempty"`
}

// RawPointCorrection is a correction as supplied by a parser collaborator,
// before normalization.
type RawPointCorrection struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
	Reason string  `json:"reason,omitempty"`
}

// Normalize converts the raw correction into its canonical form. The amount
// keeps its sign, a reset is a negative correction.
func (r RawPointCorrection) Normalize() (PointCorrection, error) {
	m, err := date.ParseMonth(strings.TrimSpace(r.Month))
	if err != nil {
		return PointCorrection{}, fmt.Errorf("point correction: %w", err)
	}
	return PointCorrection{
		Month:  m,
		Amount: signedPoints(r.Amount),
		Reason: strings.TrimSpace(r.Reason),
	}, nil
}

// RawBonusPoints is a month-keyed bonus points map as supplied by a parser
// collaborator, before normalization.
type RawBonusPoints map[string]float64

// Normalize converts the raw map into canonical month-keyed points.
func (r RawBonusPoints) Normalize() (map[date.Month]int, error) {
	if len(r) == 0 {
		return nil, nil
	}
	out := make(map[date.Month]int, len(r))
	for month, pts := range r {
		m, err := date.ParseMonth(strings.TrimSpace(month))
		if err != nil {
			return nil, fmt.Errorf("bonus points: %w", err)
		}
		out[m] = points(pts)
	}
	return out, nil
}

// ParsedBatch is the outcome of parsing one statement, ready to be merged
// into the ledger. Records are expected normalized; Merge re-normalizes
// defensively.
type ParsedBatch struct {
	Source             string                 `json:"source,omitempty"`
	Flights            []FlightRecord         `json:"flights,omitempty"`
	MilesRecords       []MonthlyMilesRecord   `json:"monthlyMilesRecords,omitempty"`
	Settings           *QualificationSettings `json:"cycleSettings,omitempty"`
	BonusPointsByMonth map[date.Month]int     `json:"bonusPointsByMonth,omitempty"`
	Correction         *PointCorrection       `json:"pointCorrection,omitempty"`
}

// IsEmpty reports whether the batch carries nothing to merge.
func (b *ParsedBatch) IsEmpty() bool {
	return len(b.Flights) == 0 && len(b.MilesRecords) == 0 &&
		b.Settings == nil && len(b.BonusPointsByMonth) == 0 && b.Correction == nil
}

// MergeReport tells what a merge actually did, so the caller can show it and
// the user can decide to undo.
type MergeReport struct {
	Source          string
	FlightsAdded    int
	FlightsSkipped  int // duplicates of an existing (date, route)
	MonthsReplaced  []date.Month
	MonthsFolded    []date.Month
	SettingsAdopted bool
	BackupTaken     bool
}

// Snapshotter captures a pre-merge copy of the ledger. See BackupStore.
type Snapshotter interface {
	Capture(l *Ledger, source string) error
}

// Merge reconciles a freshly parsed batch into the ledger and returns the
// next state. The input ledger is never mutated.
//
// Rules, in order:
//   - a flight is a duplicate iff its (date, route) matches an existing one:
//     duplicates are dropped, the rest appended, the list re-sorted by date
//     descending;
//   - a month present in the batch's miles records replaces the stored record
//     wholesale, a parsed statement outranks prior estimates; absent months
//     are untouched;
//   - bonus points and the point correction are folded additively into the
//     month's manual entry, never replacing it;
//   - the batch's settings are adopted only when the ledger has none yet,
//     existing settings stay untouched whatever the batch suggests.
//
// When snap is not nil, a capture of the pre-merge state is attempted
// strictly before anything else. A capture failure is logged and the merge
// proceeds: the worst outcome is an import that cannot be undone.
func Merge(l *Ledger, batch *ParsedBatch, snap Snapshotter) (*Ledger, MergeReport, error) {
	report := MergeReport{Source: batch.Source}

	if snap != nil {
		if err := snap.Capture(l, batch.Source); err != nil {
			log.Printf("backup before import failed (import proceeds, undo unavailable): %v", err)
		} else {
			report.BackupTaken = true
		}
	}

	next := l.DeepCopy()
	now := time.Now()

	for _, f := range batch.Flights {
		f, err := f.Validate()
		if err != nil {
			return nil, report, fmt.Errorf("merge flight: %w", err)
		}
		if f.ImportSource == "" {
			f.ImportSource = batch.Source
		}
		if f.ImportedAt.IsZero() {
			f.ImportedAt = now
		}
		if next.HasFlight(f.Date, f.Route) {
			report.FlightsSkipped++
			continue
		}
		next.flights = append(next.flights, f)
		report.FlightsAdded++
	}
	next.stableSortFlights()

	for _, r := range batch.MilesRecords {
		r, err := r.Validate()
		if err != nil {
			return nil, report, fmt.Errorf("merge miles record: %w", err)
		}
		next.miles[r.Month] = r
		report.MonthsReplaced = appendMonth(report.MonthsReplaced, r.Month)
	}

	for _, m := range sortedMonths(batch.BonusPointsByMonth) {
		if err := next.Fold(ManualLedgerEntry{Month: m, MiscXP: batch.BonusPointsByMonth[m]}); err != nil {
			return nil, report, fmt.Errorf("merge bonus points: %w", err)
		}
		report.MonthsFolded = appendMonth(report.MonthsFolded, m)
	}
	if c := batch.Correction; c != nil {
		if err := next.Fold(ManualLedgerEntry{Month: c.Month, CorrectionXP: c.Amount}); err != nil {
			return nil, report, fmt.Errorf("merge correction: %w", err)
		}
		report.MonthsFolded = appendMonth(report.MonthsFolded, c.Month)
	}

	if batch.Settings != nil {
		adopted, err := next.adoptSettings(*batch.Settings)
		if err != nil {
			return nil, report, fmt.Errorf("merge settings: %w", err)
		}
		report.SettingsAdopted = adopted
	}

	return next, report, nil
}

// appendMonth records a month in a report list once, even when several batch
// records touch it.
func appendMonth(months []date.Month, m date.Month) []date.Month {
	if slices.Contains(months, m) {
		return months
	}
	return append(months, m)
}
