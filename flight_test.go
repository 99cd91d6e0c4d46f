package mileage

import (
	"math"
	"testing"
	"time"

	"github.com/etnz/mileage/date"
)

func TestNormalizeRoute(t *testing.T) {
	testCases := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "canonical", in: "AMS-JFK", want: "AMS-JFK"},
		{name: "lowercase", in: "ams-jfk", want: "AMS-JFK"},
		{name: "spaced", in: " cdg / nrt ", want: "CDG-NRT"},
		{name: "arrow", in: "CDG > NRT", want: "CDG-NRT"},
		{name: "freeform kept", in: "Paris to Tokyo", want: "PARIS TO TOKYO"},
		{name: "empty", in: "", wantErr: true},
		{name: "blank", in: "   ", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := normalizeRoute(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("normalizeRoute(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if err == nil && got != tc.want {
				t.Errorf("normalizeRoute(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestFlightValidate(t *testing.T) {
	f := FlightRecord{
		Date:        date.New(2025, time.November, 12),
		Route:       "ams/jfk",
		Airline:     " kl ",
		EarnedMiles: 3911,
		EarnedXP:    15,
		UXP:         15,
	}
	got, err := f.Validate()
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got.Route != "AMS-JFK" {
		t.Errorf("route = %q, want %q", got.Route, "AMS-JFK")
	}
	if got.Airline != "KL" {
		t.Errorf("airline = %q, want %q", got.Airline, "KL")
	}
	if got.UXP != 15 {
		t.Errorf("uxp = %d, want 15 for a KL flight", got.UXP)
	}
	if got.ID == "" {
		t.Errorf("Validate() did not mint an id")
	}
}

func TestFlightValidateZeroesForeignUXP(t *testing.T) {
	f := FlightRecord{
		Date:    date.New(2025, time.November, 12),
		Route:   "AMS-JFK",
		Airline: "DL",
		UXP:     20,
	}
	got, err := f.Validate()
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got.UXP != 0 {
		t.Errorf("uxp = %d, want 0 for a non-Ultimate carrier", got.UXP)
	}
}

func TestFlightValidateRejectsNegatives(t *testing.T) {
	testCases := []struct {
		name   string
		flight FlightRecord
	}{
		{name: "miles", flight: FlightRecord{Route: "AMS-JFK", EarnedMiles: -1}},
		{name: "xp", flight: FlightRecord{Route: "AMS-JFK", EarnedXP: -1}},
		{name: "saf", flight: FlightRecord{Route: "AMS-JFK", SafXP: -1}},
		{name: "uxp", flight: FlightRecord{Route: "AMS-JFK", UXP: -1}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.flight.Validate(); err == nil {
				t.Errorf("Validate() accepted a negative %s", tc.name)
			}
		})
	}
}

func TestRawFlightNormalize(t *testing.T) {
	now := time.Now()
	raw := RawFlight{
		Date:        "2025-11-12",
		Origin:      "AMS",
		Destination: "JFK",
		Airline:     "KL",
		EarnedMiles: 3911.4,
		EarnedXP:    math.NaN(),
		SafXP:       math.Inf(1),
		UXP:         -3,
	}
	got, err := raw.Normalize("statement", now)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if got.Route != "AMS-JFK" {
		t.Errorf("route = %q, want %q", got.Route, "AMS-JFK")
	}
	if got.EarnedMiles != 3911 {
		t.Errorf("earned miles = %d, want 3911", got.EarnedMiles)
	}
	// NaN, infinities and negative point counts all coerce to zero.
	if got.EarnedXP != 0 || got.SafXP != 0 || got.UXP != 0 {
		t.Errorf("points = (%d, %d, %d), want all zero", got.EarnedXP, got.SafXP, got.UXP)
	}
	if got.ImportSource != "statement" {
		t.Errorf("import source = %q, want %q", got.ImportSource, "statement")
	}
}

func TestRawFlightNormalizeNeedsDate(t *testing.T) {
	if _, err := (RawFlight{Route: "AMS-JFK"}).Normalize("statement", time.Now()); err == nil {
		t.Errorf("Normalize() accepted a flight without a date")
	}
}

func TestPointsClamps(t *testing.T) {
	testCases := []struct {
		name string
		in   float64
		want int
	}{
		{name: "rounds", in: 12.6, want: 13},
		{name: "negative floors at zero", in: -5, want: 0},
		{name: "nan is zero", in: math.NaN(), want: 0},
		{name: "infinity is zero", in: math.Inf(1), want: 0},
		{name: "huge value saturates", in: 1e308, want: maxPoints},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := points(tc.in); got != tc.want {
				t.Errorf("points(%v) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestSignedPointsClamps(t *testing.T) {
	testCases := []struct {
		name string
		in   float64
		want int
	}{
		{name: "rounds", in: 12.6, want: 13},
		{name: "keeps the sign", in: -12.6, want: -13},
		{name: "nan is zero", in: math.NaN(), want: 0},
		{name: "huge value saturates", in: 1e308, want: maxPoints},
		{name: "huge negative saturates", in: -1e308, want: -maxPoints},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := signedPoints(tc.in); got != tc.want {
				t.Errorf("signedPoints(%v) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}
