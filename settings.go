package mileage

import (
	"fmt"
	"strings"
	"time"

	"github.com/etnz/mileage/date"
)

// UltimateCycle selects how UXP is accumulated against the Ultimate
// threshold.
type UltimateCycle string

const (
	// UltimateAnnual counts the UXP of a single cycle.
	UltimateAnnual UltimateCycle = "annual"
	// UltimateBiennial counts the UXP of the cycle and the one before it.
	UltimateBiennial UltimateCycle = "biennial"
)

// ParseUltimateCycle parses a string into an UltimateCycle.
func ParseUltimateCycle(s string) (UltimateCycle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "annual":
		return UltimateAnnual, nil
	case "biennial":
		return UltimateBiennial, nil
	default:
		return "", fmt.Errorf("unknown ultimate cycle type: %q", s)
	}
}

// QualificationSettings is the known qualification state at a fixed point in
// time, from which all forward computation proceeds.
//
// It is set once per member lifetime: a later import never overwrites it, only
// an explicit user action can (see Merge and Ledger.SetSettings).
type QualificationSettings struct {
	// CycleStartMonth is the calendar month a new qualification cycle starts
	// in. A month belongs to the next qualification year once it reaches it.
	CycleStartMonth time.Month `json:"cycleStartMonth"`
	// CycleStartDate optionally pins the exact day tracking started. It
	// selects the anchor cycle the starting counters are seeded into.
	CycleStartDate date.Date     `json:"cycleStartDate,omitzero"`
	StartingStatus Status        `json:"startingStatus"`
	StartingXP     int           `json:"startingXP,omitempty"`
	StartingUXP    int           `json:"startingUXP,omitempty"`
	UltimateCycle  UltimateCycle `json:"ultimateCycleType,omitempty"`
}

// Validate checks the settings and quick-fixes what it can: an out-of-range
// start month is rejected, a zero one defaults to January, and the ultimate
// cycle type defaults to annual.
func (s QualificationSettings) Validate() (QualificationSettings, error) {
	if s.CycleStartMonth == 0 {
		s.CycleStartMonth = time.January
	}
	if s.CycleStartMonth < time.January || s.CycleStartMonth > time.December {
		return s, fmt.Errorf("cycle start month out of range: %d", s.CycleStartMonth)
	}
	if s.StartingStatus < Explorer || s.StartingStatus > Ultimate {
		return s, fmt.Errorf("unknown starting status: %d", s.StartingStatus)
	}
	if s.StartingXP < 0 || s.StartingUXP < 0 {
		return s, fmt.Errorf("starting counters must not be negative")
	}
	if s.UltimateCycle == "" {
		s.UltimateCycle = UltimateAnnual
	}
	if s.UltimateCycle != UltimateAnnual && s.UltimateCycle != UltimateBiennial {
		return s, fmt.Errorf("unknown ultimate cycle type: %q", s.UltimateCycle)
	}
	return s, nil
}

// Equal reports whether both settings are identical, field for field.
func (s QualificationSettings) Equal(o QualificationSettings) bool { return s == o }

// RawSettings is the cycle information a parser collaborator may infer from a
// statement. It is only adopted when the ledger has no settings yet.
type RawSettings struct {
	CycleStartMonth float64 `json:"cycleStartMonth,omitempty"`
	CycleStartDate  string  `json:"cycleStartDate,omitempty"`
	StartingStatus  string  `json:"startingStatus,omitempty"`
	StartingXP      float64 `json:"startingXP,omitempty"`
	StartingUXP     float64 `json:"startingUXP,omitempty"`
	UltimateCycle   string  `json:"ultimateCycleType,omitempty"`
}

// Normalize converts the raw settings into their canonical form.
func (r RawSettings) Normalize() (QualificationSettings, error) {
	s := QualificationSettings{
		CycleStartMonth: time.Month(points(r.CycleStartMonth)),
		StartingXP:      points(r.StartingXP),
		StartingUXP:     points(r.StartingUXP),
	}
	if d := strings.TrimSpace(r.CycleStartDate); d != "" {
		day, err := date.Parse(d)
		if err != nil {
			return s, fmt.Errorf("cycle start date: %w", err)
		}
		s.CycleStartDate = day
	}
	if st := strings.TrimSpace(r.StartingStatus); st != "" {
		status, err := ParseStatus(st)
		if err != nil {
			return s, err
		}
		s.StartingStatus = status
	}
	uc, err := ParseUltimateCycle(r.UltimateCycle)
	if err != nil {
		return s, err
	}
	s.UltimateCycle = uc
	return s.Validate()
}
