package mileage

import (
	"testing"
	"time"

	"github.com/etnz/mileage/date"
)

func TestCycleYear(t *testing.T) {
	testCases := []struct {
		name  string
		month date.Month
		start time.Month
		want  int
	}{
		{name: "january start is calendar year", month: date.NewMonth(2025, time.June), start: time.January, want: 2025},
		{name: "before the start month", month: date.NewMonth(2025, time.October), start: time.November, want: 2025},
		{name: "at the start month", month: date.NewMonth(2025, time.November), start: time.November, want: 2026},
		{name: "after the start month", month: date.NewMonth(2025, time.December), start: time.November, want: 2026},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CycleYear(tc.month, tc.start); got != tc.want {
				t.Errorf("CycleYear(%s, %s) = %d, want %d", tc.month, tc.start, got, tc.want)
			}
		})
	}
}

func TestCycleRange(t *testing.T) {
	r := CycleRange(2026, time.November)
	if got := date.MonthOf(r.From); got != date.NewMonth(2025, time.November) {
		t.Errorf("range starts %s, want 2025-11", got)
	}
	if got := date.MonthOf(r.To); got != date.NewMonth(2026, time.October) {
		t.Errorf("range ends %s, want 2026-10", got)
	}
}

// findCycle returns the report of one qualification year. The report list
// always extends to the cycle in progress, so tests assert on named years
// only.
func findCycle(t *testing.T, reports []CycleReport, year int) CycleReport {
	t.Helper()
	for _, r := range reports {
		if r.Year == year {
			return r
		}
	}
	t.Fatalf("no report for cycle %d in %d reports", year, len(reports))
	return CycleReport{}
}

func TestComputeCyclesLadderAndInheritance(t *testing.T) {
	settings := QualificationSettings{
		CycleStartMonth: time.November,
		CycleStartDate:  date.New(2024, time.November, 15),
		StartingStatus:  Silver,
	}
	manual := map[date.Month]ManualLedgerEntry{
		date.NewMonth(2025, time.January): {Month: date.NewMonth(2025, time.January), MiscXP: 200},
	}

	reports := ComputeCycles(&ComputedLedger{}, manual, settings, 0)

	anchor := findCycle(t, reports, 2025)
	if anchor.StartingStatus != Silver {
		t.Errorf("anchor starting status = %s, want silver", anchor.StartingStatus)
	}
	if anchor.XP != 200 {
		t.Errorf("anchor XP = %d, want 200", anchor.XP)
	}
	if anchor.AchievedStatus != Gold || anchor.ActualStatus != Gold {
		t.Errorf("anchor achieved/actual = %s/%s, want gold/gold", anchor.AchievedStatus, anchor.ActualStatus)
	}

	// The next cycle has no activity: status is retained from the previous
	// cycle, not re-earned.
	next := findCycle(t, reports, 2026)
	if next.StartingStatus != Gold {
		t.Errorf("next starting status = %s, want gold", next.StartingStatus)
	}
	if next.XP != 0 {
		t.Errorf("next XP = %d, want 0", next.XP)
	}
	if next.AchievedStatus != Explorer {
		t.Errorf("next achieved = %s, want explorer", next.AchievedStatus)
	}
	if next.ActualStatus != Gold {
		t.Errorf("next actual = %s, want gold inherited", next.ActualStatus)
	}
}

func TestComputeCyclesResetUndercutsInheritance(t *testing.T) {
	settings := QualificationSettings{
		CycleStartMonth: time.November,
		CycleStartDate:  date.New(2024, time.November, 15),
		StartingStatus:  Gold,
	}
	jan := date.NewMonth(2025, time.January)
	feb := date.NewMonth(2025, time.February)
	manual := map[date.Month]ManualLedgerEntry{
		jan: {Month: jan, MiscXP: 150},
		feb: {Month: feb, CorrectionXP: -500},
	}

	reports := ComputeCycles(&ComputedLedger{}, manual, settings, 0)
	cycle := findCycle(t, reports, 2025)

	// the counter floors at zero, it never goes negative.
	if cycle.XP != 0 {
		t.Errorf("XP = %d, want 0 after the reset", cycle.XP)
	}
	// the peak still records the tier that was reached before the reset.
	if cycle.AchievedStatus != Silver {
		t.Errorf("achieved = %s, want silver from the 150 peak", cycle.AchievedStatus)
	}
	// a reset undercuts both inheritance and achievement.
	if cycle.ActualStatus != Explorer {
		t.Errorf("actual = %s, want explorer after the reset", cycle.ActualStatus)
	}
}

func TestComputeCyclesRolloverSeedsAnchor(t *testing.T) {
	settings := QualificationSettings{
		CycleStartMonth: time.November,
		CycleStartDate:  date.New(2024, time.November, 15),
		StartingStatus:  Explorer,
		StartingXP:      50,
	}

	reports := ComputeCycles(&ComputedLedger{}, nil, settings, 60)

	anchor := findCycle(t, reports, 2025)
	if anchor.XP != 110 {
		t.Errorf("anchor XP = %d, want 50 starting + 60 rollover", anchor.XP)
	}
	if anchor.AchievedStatus != Silver {
		t.Errorf("anchor achieved = %s, want silver", anchor.AchievedStatus)
	}

	// the seed belongs to the anchor cycle only.
	next := findCycle(t, reports, 2026)
	if next.XP != 0 {
		t.Errorf("next XP = %d, want 0", next.XP)
	}
}

func TestComputeCyclesUltimate(t *testing.T) {
	c := &ComputedLedger{
		Points: map[date.Month]MonthlyPointsRecord{
			date.NewMonth(2025, time.January):  {Month: date.NewMonth(2025, time.January), UXP: 500},
			date.NewMonth(2025, time.December): {Month: date.NewMonth(2025, time.December), UXP: 450},
		},
	}
	settings := QualificationSettings{
		CycleStartMonth: time.November,
		CycleStartDate:  date.New(2024, time.November, 15),
	}

	annual := ComputeCycles(c, nil, settings, 0)
	if r := findCycle(t, annual, 2025); r.UltimateAchieved {
		t.Errorf("annual cycle 2025 achieved Ultimate at %d UXP", r.UXP)
	}
	if r := findCycle(t, annual, 2026); r.UltimateAchieved {
		t.Errorf("annual cycle 2026 achieved Ultimate at %d UXP", r.UXP)
	}

	settings.UltimateCycle = UltimateBiennial
	biennial := ComputeCycles(c, nil, settings, 0)
	r := findCycle(t, biennial, 2026)
	if r.UXP != 450 {
		t.Errorf("cycle 2026 own UXP = %d, want 450", r.UXP)
	}
	if !r.UltimateAchieved {
		t.Errorf("biennial cycle 2026 did not achieve Ultimate with 500+450 UXP")
	}
	if r.Tier() != Ultimate {
		t.Errorf("Tier() = %s, want ultimate", r.Tier())
	}
}

func TestComputeCyclesAchievedIsMonotonic(t *testing.T) {
	settings := QualificationSettings{
		CycleStartMonth: time.November,
		CycleStartDate:  date.New(2024, time.November, 15),
	}

	// Positive-only activity appended one month at a time: the achieved
	// status of the cycle never goes down.
	manual := map[date.Month]ManualLedgerEntry{}
	last := Explorer
	month := date.NewMonth(2024, time.December)
	for range 10 {
		manual[month] = ManualLedgerEntry{Month: month, MiscXP: 40}
		reports := ComputeCycles(&ComputedLedger{}, manual, settings, 0)
		got := findCycle(t, reports, 2025).AchievedStatus
		if got < last {
			t.Fatalf("achieved status dropped from %s to %s at %s", last, got, month)
		}
		last = got
		month = month.Next()
	}
	if last != Platinum {
		t.Errorf("final achieved = %s, want platinum at 400 XP", last)
	}
}

func TestCycleReportProgress(t *testing.T) {
	testCases := []struct {
		xp   int
		want Percent
	}{
		{xp: 0, want: 0},
		{xp: 50, want: 50},  // halfway to silver at 100
		{xp: 100, want: 100.0 * 100 / 180}, // silver reached, now toward gold
		{xp: 300, want: 100}, // top of the ladder
	}
	for _, tc := range testCases {
		r := CycleReport{XP: tc.xp}
		if got := r.Progress(); !got.Equal(tc.want) {
			t.Errorf("Progress() at %d XP = %s, want %s", tc.xp, got, tc.want)
		}
	}
}

func TestLedgerCyclesNeedsSettings(t *testing.T) {
	ledger := NewLedger()
	if _, err := ledger.Cycles(); err != ErrNoSettings {
		t.Errorf("Cycles() error = %v, want ErrNoSettings", err)
	}
}
