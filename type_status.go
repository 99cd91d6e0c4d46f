package mileage

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Status is an elite tier of the loyalty program.
type Status int

const (
	// Explorer is the base tier, held by every member.
	Explorer Status = iota
	Silver
	Gold
	Platinum
	// Ultimate is reached through UXP only, never through the XP ladder.
	Ultimate
)

// xpThresholds lists the points required to reach each tier within one
// qualification cycle, in ascending order. Explorer needs none and Ultimate is
// not reachable through XP.
var xpThresholds = []struct {
	Status Status
	XP     int
}{
	{Silver, 100},
	{Gold, 180},
	{Platinum, 300},
}

// UltimateThreshold is the UXP required for the Ultimate tier.
const UltimateThreshold = 900

// StatusForXP returns the highest tier whose threshold is met or exceeded by xp.
func StatusForXP(xp int) Status {
	s := Explorer
	for _, t := range xpThresholds {
		if xp >= t.XP {
			s = t.Status
		}
	}
	return s
}

// Threshold returns the XP required to reach the status within one cycle.
// Explorer requires none, Ultimate is not an XP tier.
func (s Status) Threshold() (xp int, ok bool) {
	for _, t := range xpThresholds {
		if t.Status == s {
			return t.XP, true
		}
	}
	return 0, false
}

// NextThreshold returns the next XP tier above the status, if any.
func (s Status) NextThreshold() (next Status, xp int, ok bool) {
	for _, t := range xpThresholds {
		if t.Status > s {
			return t.Status, t.XP, true
		}
	}
	return s, 0, false
}

func maxStatus(a, b Status) Status {
	if a > b {
		return a
	}
	return b
}

func (s Status) String() string {
	switch s {
	case Explorer:
		return "explorer"
	case Silver:
		return "silver"
	case Gold:
		return "gold"
	case Platinum:
		return "platinum"
	case Ultimate:
		return "ultimate"
	default:
		return "unknown"
	}
}

// ParseStatus parses a string into a Status.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "explorer":
		return Explorer, nil
	case "silver":
		return Silver, nil
	case "gold":
		return Gold, nil
	case "platinum":
		return Platinum, nil
	case "ultimate":
		return Ultimate, nil
	default:
		return 0, fmt.Errorf("unknown status: %q", s)
	}
}

// MarshalJSON encodes the status by name.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a status from its name.
func (s *Status) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	v, err := ParseStatus(str)
	if err != nil {
		return err
	}
	*s = v
	return nil
}
