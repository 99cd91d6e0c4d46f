package mileage

import (
	"errors"
	"time"

	"github.com/etnz/mileage/date"
)

// ErrNoSettings is returned when a cycle computation needs qualification
// settings and the ledger has none.
var ErrNoSettings = errors.New("no qualification settings")

// CycleYear returns the qualification year a month belongs to. A month
// belongs to the next year's cycle once it reaches the cycle start month.
func CycleYear(m date.Month, start time.Month) int {
	if m.Month() >= start {
		return m.Year() + 1
	}
	return m.Year()
}

// CycleRange returns the twelve-month window of a qualification year.
func CycleRange(year int, start time.Month) date.Range {
	from := date.NewMonth(year-1, start)
	return date.NewMonthRange(from, from.Add(11))
}

// CycleReport is the qualification outcome of one cycle.
//
// AchievedStatus is the highest tier the in-cycle point counter ever reached.
// ActualStatus is the status the member actually holds at the end of the
// cycle: normally the better of the starting status and the achieved one
// (status is retained, a cycle with zero activity inherits), but when the
// cycle contains a reset, the status of the final counter, which can undercut
// both.
type CycleReport struct {
	Year             int
	Range            date.Range
	StartingStatus   Status
	XP               int // final qualifying point counter, never negative
	AchievedStatus   Status
	ActualStatus     Status
	UXP              int // the cycle's own UXP
	UltimateAchieved bool
}

// Tier returns the tier to display for the cycle: Ultimate when the UXP
// threshold is met, the XP ladder status otherwise.
func (r CycleReport) Tier() Status {
	if r.UltimateAchieved {
		return Ultimate
	}
	return r.ActualStatus
}

// Progress returns how far the point counter is toward the next XP tier, or
// 100% when there is none left.
func (r CycleReport) Progress() Percent {
	_, need, ok := StatusForXP(r.XP).NextThreshold()
	if !ok {
		return Percent(100)
	}
	return Percent(100 * float64(r.XP) / float64(need))
}

// ComputeCycles walks the computed ledger and the manual ledger and returns
// one report per qualification cycle, from the anchor cycle (the one holding
// the cycle start date, or the earliest data) through the current one.
//
// Within each cycle, months are folded in chronological order into a point
// counter that floors at zero. The anchor cycle's counter is seeded with the
// starting XP plus the rollover carried from the untracked cycle before it;
// the UXP counter with the starting UXP. Each cycle's ending status becomes
// the next cycle's starting status.
func ComputeCycles(c *ComputedLedger, manual map[date.Month]ManualLedgerEntry, settings QualificationSettings, rollover int) []CycleReport {
	start := settings.CycleStartMonth

	anchor := 0
	switch {
	case !settings.CycleStartDate.IsZero():
		anchor = CycleYear(date.MonthOf(settings.CycleStartDate), start)
	default:
		if m, ok := firstDataMonth(c, manual); ok {
			anchor = CycleYear(m, start)
		} else {
			anchor = CycleYear(date.ThisMonth(), start)
		}
	}

	last := CycleYear(date.ThisMonth(), start)
	if m, ok := lastDataMonth(c, manual); ok {
		if q := CycleYear(m, start); q > last {
			last = q
		}
	}
	if last < anchor {
		last = anchor
	}

	reports := make([]CycleReport, 0, last-anchor+1)
	chain := settings.StartingStatus
	prevUXP := 0
	for q := anchor; q <= last; q++ {
		rng := CycleRange(q, start)
		running, uxp := 0, 0
		if q == anchor {
			running = settings.StartingXP + rollover
			uxp = settings.StartingUXP
		}
		if running < 0 {
			running = 0
		}
		high := running
		hadReset := false
		for m := range rng.Months() {
			if p, ok := c.Points[m]; ok {
				running += p.Total()
				uxp += p.UXP
			}
			if e, ok := manual[m]; ok {
				running += e.Total()
				if e.CorrectionXP < 0 {
					hadReset = true
				}
			}
			if running < 0 {
				running = 0
			}
			if running > high {
				high = running
			}
		}

		achieved := StatusForXP(high)
		actual := maxStatus(chain, achieved)
		if hadReset {
			actual = StatusForXP(running)
		}

		effectiveUXP := uxp
		if settings.UltimateCycle == UltimateBiennial {
			effectiveUXP += prevUXP
		}

		reports = append(reports, CycleReport{
			Year:             q,
			Range:            rng,
			StartingStatus:   chain,
			XP:               running,
			AchievedStatus:   achieved,
			ActualStatus:     actual,
			UXP:              uxp,
			UltimateAchieved: effectiveUXP >= UltimateThreshold,
		})
		chain = actual
		prevUXP = uxp
	}
	return reports
}

func firstDataMonth(c *ComputedLedger, manual map[date.Month]ManualLedgerEntry) (date.Month, bool) {
	var first date.Month
	found := false
	consider := func(m date.Month) {
		if !found || m.Before(first) {
			first, found = m, true
		}
	}
	for m := range c.Miles {
		consider(m)
	}
	for m := range manual {
		consider(m)
	}
	return first, found
}

func lastDataMonth(c *ComputedLedger, manual map[date.Month]ManualLedgerEntry) (date.Month, bool) {
	var last date.Month
	found := false
	consider := func(m date.Month) {
		if !found || m.After(last) {
			last, found = m, true
		}
	}
	for m := range c.Miles {
		consider(m)
	}
	for m := range manual {
		consider(m)
	}
	return last, found
}

// Cycles returns the qualification reports of the ledger, oldest first.
func (l *Ledger) Cycles() ([]CycleReport, error) {
	s, ok := l.Settings()
	if !ok {
		return nil, ErrNoSettings
	}
	return ComputeCycles(l.Computed(), l.manual, s, l.rollover), nil
}

// CurrentCycle returns the report of the cycle in progress.
func (l *Ledger) CurrentCycle() (CycleReport, error) {
	reports, err := l.Cycles()
	if err != nil {
		return CycleReport{}, err
	}
	s, _ := l.Settings()
	now := CycleYear(date.ThisMonth(), s.CycleStartMonth)
	for _, r := range reports {
		if r.Year == now {
			return r, nil
		}
	}
	// all data lives in the future or the past of today's cycle, the last
	// report is the closest thing to current.
	return reports[len(reports)-1], nil
}
