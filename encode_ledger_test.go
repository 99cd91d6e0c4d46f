package mileage

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/etnz/mileage/date"
	"github.com/shopspring/decimal"
)

func testLedger(t *testing.T) *Ledger {
	t.Helper()
	ledger := NewLedger()
	if _, err := ledger.AddFlight(FlightRecord{
		ID:          "f1",
		Date:        date.New(2025, time.November, 12),
		Route:       "AMS-JFK",
		Airline:     "KL",
		Cabin:       "business",
		EarnedMiles: 3911,
		EarnedXP:    15,
		UXP:         15,
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := ledger.AddFlight(FlightRecord{
		ID:       "f2",
		Date:     date.New(2025, time.December, 2),
		Route:    "JFK-AMS",
		Airline:  "KL",
		EarnedXP: 15,
	}); err != nil {
		t.Fatal(err)
	}
	ledger.SetMilesRecord(MonthlyMilesRecord{
		Month:             date.NewMonth(2025, time.November),
		MilesSubscription: 6000,
		CostSubscription:  decimal.RequireFromString("1000"),
	})
	ledger.Fold(ManualLedgerEntry{Month: date.NewMonth(2025, time.October), CardXP: 30})
	ledger.SetSettings(QualificationSettings{
		CycleStartMonth: time.November,
		StartingStatus:  Gold,
		StartingXP:      120,
	})
	ledger.SetCurrency("EUR")
	ledger.SetRollover(60)
	ledger.SetTargetValuePerPoint(decimal.RequireFromString("0.012"))
	return ledger
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	ledger := testLedger(t)

	var buf bytes.Buffer
	if err := EncodeLedger(&buf, ledger); err != nil {
		t.Fatalf("EncodeLedger() error = %v", err)
	}

	got, err := DecodeLedger(&buf)
	if err != nil {
		t.Fatalf("DecodeLedger() error = %v", err)
	}
	if !got.Equal(ledger) {
		t.Errorf("round trip changed the ledger")
	}
}

func TestEncodeLedgerIsStable(t *testing.T) {
	ledger := testLedger(t)

	var a, b bytes.Buffer
	if err := EncodeLedger(&a, ledger); err != nil {
		t.Fatal(err)
	}
	if err := EncodeLedger(&b, ledger); err != nil {
		t.Fatal(err)
	}
	if a.String() != b.String() {
		t.Errorf("two encodings of the same ledger differ:\n%s\n%s", a.String(), b.String())
	}
}

func TestEncodeLedgerLayout(t *testing.T) {
	ledger := testLedger(t)

	var buf bytes.Buffer
	if err := EncodeLedger(&buf, ledger); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

	// canonical order: flights oldest first, miles, manual, settings, profile.
	wantKinds := []RecordType{RecordFlight, RecordFlight, RecordMiles, RecordManual, RecordSettings, RecordProfile}
	if len(lines) != len(wantKinds) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(wantKinds), buf.String())
	}
	for i, line := range lines {
		// the discriminator comes first so the file stays scannable by eye.
		prefix := `{"record":"` + string(wantKinds[i]) + `"`
		if !strings.HasPrefix(line, prefix) {
			t.Errorf("line %d = %q, want prefix %q", i+1, line, prefix)
		}
		var v map[string]any
		if err := json.Unmarshal([]byte(line), &v); err != nil {
			t.Errorf("line %d is not valid JSON: %v", i+1, err)
		}
	}

	if !strings.Contains(lines[0], `"date":"2025-11-12"`) {
		t.Errorf("flights are not oldest first: %q", lines[0])
	}
}

func TestDecodeLedgerLaterKeyedRecordWins(t *testing.T) {
	input := `{"record":"miles","month":"2025-11","milesCard":100}
{"record":"miles","month":"2025-11","milesCard":250}
{"record":"profile","currency":"USD"}
{"record":"profile","currency":"EUR"}
`
	ledger, err := DecodeLedger(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeLedger() error = %v", err)
	}
	rec, _ := ledger.MilesRecord(date.NewMonth(2025, time.November))
	if rec.MilesCard != 250 {
		t.Errorf("MilesCard = %d, want the later record", rec.MilesCard)
	}
	if ledger.Currency() != "EUR" {
		t.Errorf("currency = %q, want the later profile", ledger.Currency())
	}
}

func TestDecodeLedgerRejectsUnknownRecord(t *testing.T) {
	if _, err := DecodeLedger(strings.NewReader(`{"record":"mystery"}` + "\n")); err == nil {
		t.Errorf("DecodeLedger() accepted an unknown record type")
	}
}
