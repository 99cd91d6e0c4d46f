package mileage

import (
	"reflect"
	"testing"
	"time"

	"github.com/etnz/mileage/date"
	"github.com/shopspring/decimal"
)

func TestRebuild(t *testing.T) {
	nov := date.NewMonth(2025, time.November)
	flights := []FlightRecord{
		{ID: "a", Date: date.New(2025, time.November, 12), Route: "AMS-JFK", EarnedMiles: 4000, EarnedXP: 10, SafXP: 2, UXP: 10},
		{ID: "b", Date: date.New(2025, time.November, 20), Route: "JFK-AMS", EarnedMiles: 2000, EarnedXP: 5, UXP: 5},
	}
	miles := map[date.Month]MonthlyMilesRecord{
		nov: {
			Month:             nov,
			MilesSubscription: 1000,
			CostSubscription:  decimal.NewFromInt(100),
			// stale derived fields, must be recomputed
			MilesFlight: 99,
			CostFlight:  decimal.NewFromInt(42),
		},
	}

	gotMiles, gotPts := Rebuild(miles, nil, flights)

	rec := gotMiles[nov]
	if rec.MilesFlight != 6000 {
		t.Errorf("MilesFlight = %d, want 6000", rec.MilesFlight)
	}
	if !rec.CostFlight.IsZero() {
		t.Errorf("CostFlight = %s, want 0", rec.CostFlight)
	}
	if rec.MilesSubscription != 1000 || !rec.CostSubscription.Equal(decimal.NewFromInt(100)) {
		t.Errorf("non-derived fields did not pass through: %+v", rec)
	}

	pts := gotPts[nov]
	want := MonthlyPointsRecord{Month: nov, FlightXP: 15, SafXP: 2, UXP: 15}
	if pts != want {
		t.Errorf("points = %+v, want %+v", pts, want)
	}
}

func TestRebuildZeroesStaleMonths(t *testing.T) {
	// A month with a record but no flights gets its derived fields zeroed:
	// the sum over an empty set.
	oct := date.NewMonth(2025, time.October)
	miles := map[date.Month]MonthlyMilesRecord{
		oct: {Month: oct, MilesFlight: 500, MilesCard: 200},
	}

	gotMiles, gotPts := Rebuild(miles, nil, nil)

	rec := gotMiles[oct]
	if rec.MilesFlight != 0 {
		t.Errorf("MilesFlight = %d, want 0 without flights", rec.MilesFlight)
	}
	if rec.MilesCard != 200 {
		t.Errorf("MilesCard = %d, want 200 untouched", rec.MilesCard)
	}
	if pts := gotPts[oct]; pts.Total() != 0 || pts.UXP != 0 {
		t.Errorf("points = %+v, want zero", pts)
	}
}

func TestRebuildIdempotent(t *testing.T) {
	nov := date.NewMonth(2025, time.November)
	flights := []FlightRecord{
		{ID: "a", Date: date.New(2025, time.November, 12), Route: "AMS-JFK", EarnedMiles: 4000, EarnedXP: 10},
	}
	miles := map[date.Month]MonthlyMilesRecord{
		nov: {Month: nov, MilesSubscription: 1000},
	}

	m1, p1 := Rebuild(miles, nil, flights)
	m2, p2 := Rebuild(m1, p1, flights)

	if !reflect.DeepEqual(m1, m2) {
		t.Errorf("miles not idempotent:\nfirst  %+v\nsecond %+v", m1, m2)
	}
	if !reflect.DeepEqual(p1, p2) {
		t.Errorf("points not idempotent:\nfirst  %+v\nsecond %+v", p1, p2)
	}
}

func TestRebuildDoesNotMutateInput(t *testing.T) {
	nov := date.NewMonth(2025, time.November)
	miles := map[date.Month]MonthlyMilesRecord{
		nov: {Month: nov, MilesFlight: 99},
	}
	flights := []FlightRecord{
		{ID: "a", Date: date.New(2025, time.November, 12), Route: "AMS-JFK", EarnedMiles: 100},
	}

	Rebuild(miles, nil, flights)

	if miles[nov].MilesFlight != 99 {
		t.Errorf("Rebuild mutated its input map")
	}
}

func TestComputedBalance(t *testing.T) {
	oct := date.NewMonth(2025, time.October)
	nov := date.NewMonth(2025, time.November)
	c := &ComputedLedger{
		Miles: map[date.Month]MonthlyMilesRecord{
			oct: {Month: oct, MilesCard: 500, MilesDebit: 100},
			nov: {Month: nov, MilesSubscription: 1000, MilesFlight: 6000},
		},
	}

	if got := c.Balance(); got != 7400 {
		t.Errorf("Balance() = %d, want 7400", got)
	}
	if got := c.BalanceThrough(oct); got != 400 {
		t.Errorf("BalanceThrough(oct) = %d, want 400", got)
	}
	if got := c.Months(); len(got) != 2 || got[0] != oct || got[1] != nov {
		t.Errorf("Months() = %v, want [%s %s]", got, oct, nov)
	}
}
