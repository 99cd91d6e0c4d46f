package mileage

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/etnz/mileage/date"
)

func TestExportImportFlightsRoundTrip(t *testing.T) {
	ledger := NewLedger()
	ledger.AddFlight(FlightRecord{Date: date.New(2025, time.November, 12), Route: "AMS-JFK", Airline: "KL", EarnedMiles: 3911, EarnedXP: 15})
	ledger.AddFlight(FlightRecord{Date: date.New(2025, time.December, 2), Route: "JFK-AMS", Airline: "KL", EarnedXP: 15})

	var buf bytes.Buffer
	if err := ExportFlights(&buf, ledger); err != nil {
		t.Fatalf("ExportFlights() error = %v", err)
	}
	if got := strings.Count(buf.String(), "\n"); got != 2 {
		t.Fatalf("export holds %d lines, want 2", got)
	}

	batch, err := ImportFlights(&buf, "roundtrip")
	if err != nil {
		t.Fatalf("ImportFlights() error = %v", err)
	}
	if len(batch.Flights) != 2 {
		t.Fatalf("imported %d flights, want 2", len(batch.Flights))
	}

	// importing the export into the same ledger adds nothing.
	next, report, err := Merge(ledger, batch, nil)
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if report.FlightsAdded != 0 || report.FlightsSkipped != 2 {
		t.Errorf("report = %d added %d skipped, want 0 and 2", report.FlightsAdded, report.FlightsSkipped)
	}
	if next.FlightCount() != 2 {
		t.Errorf("flight count = %d, want 2", next.FlightCount())
	}
}

func TestImportFlightsSkipsBlankLines(t *testing.T) {
	input := `{"date":"2025-11-12","route":"AMS-JFK"}

{"date":"2025-12-02","route":"JFK-AMS"}
`
	batch, err := ImportFlights(strings.NewReader(input), "file")
	if err != nil {
		t.Fatalf("ImportFlights() error = %v", err)
	}
	if len(batch.Flights) != 2 {
		t.Errorf("imported %d flights, want 2", len(batch.Flights))
	}
}

func TestImportFlightsFailsLoudly(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{name: "not json", input: "not json at all\n"},
		{name: "no date", input: `{"route":"AMS-JFK"}` + "\n"},
		{name: "no route", input: `{"date":"2025-11-12"}` + "\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ImportFlights(strings.NewReader(tc.input), "file"); err == nil {
				t.Errorf("ImportFlights() silently accepted %q", tc.input)
			}
		})
	}
}
