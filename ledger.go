package mileage

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"sort"

	"github.com/etnz/mileage/date"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when the ledger does not declare one.
const DefaultCurrency = "EUR"

// Ledger holds the full mutable state of one member's loyalty ledger.
//
// Flights are always sorted by date, most recent first. Derived values (per
// month flight miles and points, cycle reports) are never stored here: they
// are recomputed from this state on every read, see Computed and Cycles.
type Ledger struct {
	flights  []FlightRecord
	miles    map[date.Month]MonthlyMilesRecord
	manual   map[date.Month]ManualLedgerEntry
	settings *QualificationSettings
	rollover int
	currency string
	// targetValuePerPoint is the member's own estimate of one mile's worth,
	// in the ledger currency.
	targetValuePerPoint decimal.Decimal
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		flights: make([]FlightRecord, 0),
		miles:   make(map[date.Month]MonthlyMilesRecord),
		manual:  make(map[date.Month]ManualLedgerEntry),
	}
}

// Currency returns the ledger currency.
func (l *Ledger) Currency() string {
	if l.currency == "" {
		return DefaultCurrency
	}
	return l.currency
}

// SetCurrency declares the ledger currency.
func (l *Ledger) SetCurrency(c string) { l.currency = c }

// Rollover returns the points carried into the anchor cycle from the
// untracked cycle before it.
func (l *Ledger) Rollover() int { return l.rollover }

// SetRollover declares the rollover points.
func (l *Ledger) SetRollover(n int) { l.rollover = n }

// TargetValuePerPoint returns the member's own estimate of one mile's worth.
func (l *Ledger) TargetValuePerPoint() decimal.Decimal { return l.targetValuePerPoint }

// SetTargetValuePerPoint declares the estimate of one mile's worth.
func (l *Ledger) SetTargetValuePerPoint(v decimal.Decimal) { l.targetValuePerPoint = v }

// Settings returns the qualification settings, if any were ever set.
func (l *Ledger) Settings() (QualificationSettings, bool) {
	if l.settings == nil {
		return QualificationSettings{}, false
	}
	return *l.settings, true
}

// SetSettings replaces the qualification settings. This is the explicit user
// action: imports go through adoptSettings instead and never overwrite.
func (l *Ledger) SetSettings(s QualificationSettings) error {
	s, err := s.Validate()
	if err != nil {
		return err
	}
	l.settings = &s
	return nil
}

// adoptSettings installs settings only when none exist yet, and reports
// whether it did. Existing settings are the source of truth and stay
// untouched whatever the candidate suggests.
func (l *Ledger) adoptSettings(s QualificationSettings) (bool, error) {
	if l.settings != nil {
		return false, nil
	}
	return true, l.SetSettings(s)
}

// HasFlight reports whether the ledger already holds a flight on that day and
// route.
func (l *Ledger) HasFlight(day date.Date, route string) bool {
	k := flightKey{day, route}
	for _, f := range l.flights {
		if f.key() == k {
			return true
		}
	}
	return false
}

// AddFlight validates and appends a flight. Unlike an import, a manual add of
// an already known (date, route) is an error rather than a silent skip.
func (l *Ledger) AddFlight(f FlightRecord) (FlightRecord, error) {
	f, err := f.Validate()
	if err != nil {
		return f, err
	}
	if l.HasFlight(f.Date, f.Route) {
		return f, fmt.Errorf("flight %s %s already recorded", f.Date, f.Route)
	}
	l.flights = append(l.flights, f)
	l.stableSortFlights()
	return f, nil
}

// RemoveFlight deletes the flight with the given id and reports whether it
// was found.
func (l *Ledger) RemoveFlight(id string) bool {
	for i, f := range l.flights {
		if f.ID == id {
			l.flights = slices.Delete(l.flights, i, i+1)
			return true
		}
	}
	return false
}

// Flights returns an iterator over all flights, most recent first.
func (l *Ledger) Flights() iter.Seq[FlightRecord] {
	return func(yield func(FlightRecord) bool) {
		for _, f := range l.flights {
			if !yield(f) {
				return
			}
		}
	}
}

// FlightsOf returns an iterator over the flights of one month, most recent
// first.
func (l *Ledger) FlightsOf(m date.Month) iter.Seq[FlightRecord] {
	return func(yield func(FlightRecord) bool) {
		for _, f := range l.flights {
			if f.Month() == m && !yield(f) {
				return
			}
		}
	}
}

// FlightCount returns the number of flights in the ledger.
func (l *Ledger) FlightCount() int { return len(l.flights) }

// stableSortFlights sorts flights by date, most recent first. The sort is
// stable, flights on the same day keep their relative order.
func (l *Ledger) stableSortFlights() {
	sort.SliceStable(l.flights, func(i, j int) bool {
		return l.flights[i].Date.After(l.flights[j].Date)
	})
}

// MilesRecord returns the stored miles record for a month.
func (l *Ledger) MilesRecord(m date.Month) (MonthlyMilesRecord, bool) {
	r, ok := l.miles[m]
	return r, ok
}

// SetMilesRecord validates and stores a miles record, replacing any existing
// record for that month. The flight-derived fields it carries are only a
// cache: Rebuild re-derives them on every read.
func (l *Ledger) SetMilesRecord(r MonthlyMilesRecord) error {
	r, err := r.Validate()
	if err != nil {
		return err
	}
	l.miles[r.Month] = r
	return nil
}

// MilesRecords returns an iterator over stored miles records in chronological
// order.
func (l *Ledger) MilesRecords() iter.Seq[MonthlyMilesRecord] {
	return func(yield func(MonthlyMilesRecord) bool) {
		for _, m := range sortedMonths(l.miles) {
			if !yield(l.miles[m]) {
				return
			}
		}
	}
}

// ManualEntry returns the manual ledger entry for a month.
func (l *Ledger) ManualEntry(m date.Month) (ManualLedgerEntry, bool) {
	e, ok := l.manual[m]
	return e, ok
}

// Fold validates and adds the entry's points into the month's manual entry.
// Manual adjustments are additive, never competing: folding twice records
// twice the points.
func (l *Ledger) Fold(e ManualLedgerEntry) error {
	e, err := e.Validate()
	if err != nil {
		return err
	}
	cur := l.manual[e.Month]
	cur.Month = e.Month
	l.manual[e.Month] = cur.fold(e)
	return nil
}

// ManualEntries returns an iterator over manual ledger entries in
// chronological order.
func (l *Ledger) ManualEntries() iter.Seq[ManualLedgerEntry] {
	return func(yield func(ManualLedgerEntry) bool) {
		for _, m := range sortedMonths(l.manual) {
			if !yield(l.manual[m]) {
				return
			}
		}
	}
}

// FirstActivity returns the earliest month carrying any data, across flights,
// miles records and manual entries.
func (l *Ledger) FirstActivity() (date.Month, bool) {
	var first date.Month
	found := false
	consider := func(m date.Month) {
		if !found || m.Before(first) {
			first, found = m, true
		}
	}
	for _, f := range l.flights {
		consider(f.Month())
	}
	for m := range l.miles {
		consider(m)
	}
	for m := range l.manual {
		consider(m)
	}
	return first, found
}

// LastActivity returns the latest month carrying any data.
func (l *Ledger) LastActivity() (date.Month, bool) {
	var last date.Month
	found := false
	consider := func(m date.Month) {
		if !found || m.After(last) {
			last, found = m, true
		}
	}
	for _, f := range l.flights {
		consider(f.Month())
	}
	for m := range l.miles {
		consider(m)
	}
	for m := range l.manual {
		consider(m)
	}
	return last, found
}

// StartOver wipes flights, miles records, manual entries, settings and
// rollover, keeping only the profile (currency, target value per point).
func (l *Ledger) StartOver() {
	l.flights = l.flights[:0]
	clear(l.miles)
	clear(l.manual)
	l.settings = nil
	l.rollover = 0
}

// DeepCopy returns an independent copy of the ledger. Mutating one never
// affects the other.
func (l *Ledger) DeepCopy() *Ledger {
	c := &Ledger{
		flights:             slices.Clone(l.flights),
		miles:               maps.Clone(l.miles),
		manual:              maps.Clone(l.manual),
		rollover:            l.rollover,
		currency:            l.currency,
		targetValuePerPoint: l.targetValuePerPoint,
	}
	if l.settings != nil {
		s := *l.settings
		c.settings = &s
	}
	return c
}

// Equal reports whether both ledgers hold the same state.
func (l *Ledger) Equal(o *Ledger) bool {
	if len(l.flights) != len(o.flights) || len(l.miles) != len(o.miles) || len(l.manual) != len(o.manual) {
		return false
	}
	for i := range l.flights {
		if !l.flights[i].Equal(o.flights[i]) {
			return false
		}
	}
	for m, r := range l.miles {
		or, ok := o.miles[m]
		if !ok || !r.Equal(or) {
			return false
		}
	}
	if !maps.Equal(l.manual, o.manual) {
		return false
	}
	if (l.settings == nil) != (o.settings == nil) {
		return false
	}
	if l.settings != nil && !l.settings.Equal(*o.settings) {
		return false
	}
	return l.rollover == o.rollover &&
		l.currency == o.currency &&
		l.targetValuePerPoint.Equal(o.targetValuePerPoint)
}

// sortedMonths returns the keys of a month-keyed map in chronological order.
func sortedMonths[T any](m map[date.Month]T) []date.Month {
	months := slices.Collect(maps.Keys(m))
	slices.SortFunc(months, date.Month.Compare)
	return months
}
