package mileage

import (
	"testing"
	"time"

	"github.com/etnz/mileage/date"
)

func TestSettingsValidateDefaults(t *testing.T) {
	s, err := QualificationSettings{StartingStatus: Gold}.Validate()
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if s.CycleStartMonth != time.January {
		t.Errorf("start month = %s, want January by default", s.CycleStartMonth)
	}
	if s.UltimateCycle != UltimateAnnual {
		t.Errorf("ultimate cycle = %s, want annual by default", s.UltimateCycle)
	}
}

func TestSettingsValidateRejects(t *testing.T) {
	testCases := []struct {
		name     string
		settings QualificationSettings
	}{
		{name: "month out of range", settings: QualificationSettings{CycleStartMonth: 13}},
		{name: "unknown status", settings: QualificationSettings{StartingStatus: Status(42)}},
		{name: "negative xp", settings: QualificationSettings{StartingXP: -1}},
		{name: "negative uxp", settings: QualificationSettings{StartingUXP: -1}},
		{name: "unknown cycle type", settings: QualificationSettings{UltimateCycle: "triennial"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.settings.Validate(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestParseUltimateCycle(t *testing.T) {
	testCases := []struct {
		input string
		want  UltimateCycle
	}{
		{input: "", want: UltimateAnnual},
		{input: "annual", want: UltimateAnnual},
		{input: "Biennial", want: UltimateBiennial},
		{input: " BIENNIAL ", want: UltimateBiennial},
	}
	for _, tc := range testCases {
		got, err := ParseUltimateCycle(tc.input)
		if err != nil {
			t.Errorf("ParseUltimateCycle(%q) error = %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseUltimateCycle(%q) = %s, want %s", tc.input, got, tc.want)
		}
	}
	if _, err := ParseUltimateCycle("quarterly"); err == nil {
		t.Error("expected an error for an unknown cycle type")
	}
}

func TestRawSettingsNormalize(t *testing.T) {
	raw := RawSettings{
		CycleStartMonth: 4,
		CycleStartDate:  "2025-04-01",
		StartingStatus:  "Gold",
		StartingXP:      120.6,
		StartingUXP:     40,
		UltimateCycle:   "biennial",
	}
	s, err := raw.Normalize()
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	want := QualificationSettings{
		CycleStartMonth: time.April,
		CycleStartDate:  date.New(2025, time.April, 1),
		StartingStatus:  Gold,
		StartingXP:      121,
		StartingUXP:     40,
		UltimateCycle:   UltimateBiennial,
	}
	if s != want {
		t.Errorf("got %+v, want %+v", s, want)
	}
}

func TestRawSettingsNormalizeRejects(t *testing.T) {
	if _, err := (RawSettings{CycleStartDate: "first of april"}).Normalize(); err == nil {
		t.Error("expected an error for an unparsable start date")
	}
	if _, err := (RawSettings{StartingStatus: "diamond"}).Normalize(); err == nil {
		t.Error("expected an error for an unknown status")
	}
}
