package mileage

import (
	"github.com/etnz/mileage/date"
	"github.com/shopspring/decimal"
)

// report types are plain data, computed here and rendered by the renderer
// package. They are derived on demand, never stored.

// StatusReport is the answer to "what is the member's status right now".
type StatusReport struct {
	Cycle    CycleReport
	Settings QualificationSettings
	Balance  int
	// NextStatus and NeededXP describe the next XP tier still reachable in
	// this cycle, when there is one.
	NextStatus Status
	NeededXP   int
	HasNext    bool
}

// NewStatusReport computes the current cycle status.
func (l *Ledger) NewStatusReport() (*StatusReport, error) {
	cycle, err := l.CurrentCycle()
	if err != nil {
		return nil, err
	}
	s, _ := l.Settings()
	r := &StatusReport{
		Cycle:    cycle,
		Settings: s,
		Balance:  l.Balance(),
	}
	r.NextStatus, r.NeededXP, r.HasNext = StatusForXP(cycle.XP).NextThreshold()
	return r, nil
}

// HistoryReport lists every tracked qualification cycle, oldest first.
type HistoryReport struct {
	Settings QualificationSettings
	Cycles   []CycleReport
}

// NewHistoryReport computes the full qualification history.
func (l *Ledger) NewHistoryReport() (*HistoryReport, error) {
	cycles, err := l.Cycles()
	if err != nil {
		return nil, err
	}
	s, _ := l.Settings()
	return &HistoryReport{Settings: s, Cycles: cycles}, nil
}

// BalanceReport breaks the miles balance down by source over the whole
// ledger.
type BalanceReport struct {
	Subscription int
	Card         int
	Flight       int
	Other        int
	Debit        int
	Net          int
	Cost         Money
	// Value is the member's own estimate of the balance worth: net balance
	// times the target value per point.
	Value Money
	// CostPerMile is the average acquisition cost of one acquired mile.
	CostPerMile Money
}

// NewBalanceReport computes the miles balance by source.
func (l *Ledger) NewBalanceReport() *BalanceReport {
	c := l.Computed()
	r := &BalanceReport{}
	for _, rec := range c.Miles {
		r.Subscription += rec.MilesSubscription
		r.Card += rec.MilesCard
		r.Flight += rec.MilesFlight
		r.Other += rec.MilesOther
		r.Debit += rec.MilesDebit
	}
	r.Net = c.Balance()
	cur := l.Currency()
	r.Cost = M(c.TotalCost(), cur)
	r.Value = M(l.targetValuePerPoint, cur).Times(r.Net)
	acquired := r.Subscription + r.Card + r.Flight + r.Other
	r.CostPerMile = r.Cost.Per(acquired)
	return r
}

// SummaryRow is one month of the summary table.
type SummaryRow struct {
	Month   date.Month
	Miles   int // net miles earned or burnt that month
	XP      int // flight XP, SAF bonus included
	UXP     int
	Manual  int // manual ledger points, corrections included
	Balance int // running miles balance through that month
	Cost    Money
}

// SummaryReport is the month-by-month view of the ledger.
type SummaryReport struct {
	Rows []SummaryRow
}

// NewSummaryReport computes the monthly summary, oldest month first.
func (l *Ledger) NewSummaryReport() *SummaryReport {
	c := l.Computed()
	cur := l.Currency()
	report := &SummaryReport{}
	balance := 0
	for _, m := range c.Months() {
		rec := c.Miles[m]
		pts := c.Points[m]
		balance += rec.NetMiles()
		row := SummaryRow{
			Month:   m,
			Miles:   rec.NetMiles(),
			XP:      pts.Total(),
			UXP:     pts.UXP,
			Balance: balance,
			Cost:    M(rec.TotalCost(), cur),
		}
		if e, ok := l.manual[m]; ok {
			row.Manual = e.Total()
		}
		report.Rows = append(report.Rows, row)
	}
	return report
}

// ValueReport compares the member's target value per point with an observed
// award fare, when one was probed.
type ValueReport struct {
	Balance     int
	TargetValue Money // per point
	Value       Money // balance at target value
	ProbeName   string
	ProbeValue  Money // per point, zero when no probe ran
	ProbeTotal  Money // balance at probed value
}

// NewValueReport values the balance. probed may be zero when no fare probe
// was configured or reachable.
func (l *Ledger) NewValueReport(probeName string, probed decimal.Decimal) *ValueReport {
	cur := l.Currency()
	balance := l.Balance()
	r := &ValueReport{
		Balance:     balance,
		TargetValue: M(l.targetValuePerPoint, cur),
		Value:       M(l.targetValuePerPoint, cur).Times(balance),
		ProbeName:   probeName,
	}
	if !probed.IsZero() {
		r.ProbeValue = M(probed, cur)
		r.ProbeTotal = M(probed, cur).Times(balance)
	}
	return r
}
