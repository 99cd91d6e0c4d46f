package mileage

import (
	"slices"

	"github.com/etnz/mileage/date"
	"github.com/shopspring/decimal"
)

// ComputedLedger is the derived monthly view of a ledger: stored miles
// records with their flight-derived fields re-derived, plus the per-month
// points aggregates.
//
// It is never persisted. It is recomputed from the flight list and the base
// records on every read, which is what keeps it impossible to corrupt.
type ComputedLedger struct {
	Miles  map[date.Month]MonthlyMilesRecord
	Points map[date.Month]MonthlyPointsRecord
}

// Rebuild folds the flight list into the monthly aggregates.
//
// For every month present in the flight list or in either input map, the
// flight-derived fields are recomputed exactly: MilesFlight is the sum of
// earned miles of the month's flights, CostFlight is forced to zero, and the
// points record is the sum of the month's XP, SAF bonus and UXP. Months with
// records but no flights get those fields zeroed, the sum over an empty set.
// All other fields pass through untouched.
//
// Rebuild is pure, it never mutates its inputs, and idempotent: applied to
// its own output with the same flight list it returns identical output.
func Rebuild(miles map[date.Month]MonthlyMilesRecord, pts map[date.Month]MonthlyPointsRecord, flights []FlightRecord) (map[date.Month]MonthlyMilesRecord, map[date.Month]MonthlyPointsRecord) {
	type agg struct {
		miles, xp, saf, uxp int
	}
	sums := make(map[date.Month]agg)
	for _, f := range flights {
		a := sums[f.Month()]
		a.miles += f.EarnedMiles
		a.xp += f.EarnedXP
		a.saf += f.SafXP
		a.uxp += f.UXP
		sums[f.Month()] = a
	}

	months := make(map[date.Month]bool, len(miles)+len(pts)+len(sums))
	for m := range miles {
		months[m] = true
	}
	for m := range pts {
		months[m] = true
	}
	for m := range sums {
		months[m] = true
	}

	outMiles := make(map[date.Month]MonthlyMilesRecord, len(months))
	outPts := make(map[date.Month]MonthlyPointsRecord, len(months))
	for m := range months {
		a := sums[m]
		r := miles[m]
		r.Month = m
		r.MilesFlight = a.miles
		r.CostFlight = decimal.Decimal{}
		outMiles[m] = r
		outPts[m] = MonthlyPointsRecord{Month: m, FlightXP: a.xp, SafXP: a.saf, UXP: a.uxp}
	}
	return outMiles, outPts
}

// Computed returns the derived monthly view of the ledger.
func (l *Ledger) Computed() *ComputedLedger {
	miles, pts := Rebuild(l.miles, nil, l.flights)
	return &ComputedLedger{Miles: miles, Points: pts}
}

// Months returns every month of the computed ledger in chronological order.
func (c *ComputedLedger) Months() []date.Month {
	months := make([]date.Month, 0, len(c.Miles))
	for m := range c.Miles {
		months = append(months, m)
	}
	slices.SortFunc(months, date.Month.Compare)
	return months
}

// Balance returns the member's miles balance over the whole ledger.
func (c *ComputedLedger) Balance() int {
	total := 0
	for _, r := range c.Miles {
		total += r.NetMiles()
	}
	return total
}

// BalanceThrough returns the miles balance accumulated up to and including
// the given month.
func (c *ComputedLedger) BalanceThrough(m date.Month) int {
	total := 0
	for month, r := range c.Miles {
		if !month.After(m) {
			total += r.NetMiles()
		}
	}
	return total
}

// TotalCost returns the total acquisition cost over the whole ledger.
func (c *ComputedLedger) TotalCost() decimal.Decimal {
	total := decimal.Decimal{}
	for _, r := range c.Miles {
		total = total.Add(r.TotalCost())
	}
	return total
}

// Balance returns the member's current miles balance.
func (l *Ledger) Balance() int { return l.Computed().Balance() }
