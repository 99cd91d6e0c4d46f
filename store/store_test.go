package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/etnz/mileage"
	"github.com/etnz/mileage/date"
	"github.com/shopspring/decimal"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "mileage.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMirrorRoundTrip(t *testing.T) {
	db := testDB(t)

	flights := []mileage.FlightRecord{
		{
			ID:           "f1",
			Date:         date.New(2025, time.November, 12),
			Route:        "AMS-JFK",
			Airline:      "KL",
			Cabin:        "business",
			EarnedMiles:  3911,
			EarnedXP:     15,
			SafXP:        2,
			UXP:          15,
			ImportSource: "manual",
			ImportedAt:   time.Date(2025, time.November, 13, 8, 0, 0, 0, time.UTC),
		},
		{
			ID:          "f2",
			Date:        date.New(2025, time.December, 2),
			Route:       "JFK-AMS",
			Airline:     "KL",
			EarnedMiles: 2000,
			EarnedXP:    15,
		},
	}
	if err := db.SaveFlights(flights); err != nil {
		t.Fatalf("SaveFlights() error = %v", err)
	}
	if err := db.SaveMilesRecords([]mileage.MonthlyMilesRecord{{
		Month:             date.NewMonth(2025, time.November),
		MilesSubscription: 6000,
		MilesDebit:        2500,
		CostSubscription:  decimal.NewFromInt(1000),
	}}); err != nil {
		t.Fatalf("SaveMilesRecords() error = %v", err)
	}
	if err := db.SaveManualLedger([]mileage.ManualLedgerEntry{{
		Month:        date.NewMonth(2025, time.December),
		CardXP:       10,
		CorrectionXP: -5,
	}}); err != nil {
		t.Fatalf("SaveManualLedger() error = %v", err)
	}
	settings := mileage.QualificationSettings{
		CycleStartMonth: time.April,
		StartingStatus:  mileage.Gold,
		StartingXP:      120,
		UltimateCycle:   mileage.UltimateAnnual,
	}
	if err := db.SaveProfile(Profile{
		Currency:    "EUR",
		TargetValue: "0.012",
		Rollover:    60,
		Settings:    &settings,
	}); err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}

	got, err := db.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}

	want := mileage.NewLedger()
	for _, f := range flights {
		if _, err := want.AddFlight(f); err != nil {
			t.Fatalf("AddFlight() error = %v", err)
		}
	}
	if err := want.SetMilesRecord(mileage.MonthlyMilesRecord{
		Month:             date.NewMonth(2025, time.November),
		MilesSubscription: 6000,
		MilesDebit:        2500,
		CostSubscription:  decimal.NewFromInt(1000),
	}); err != nil {
		t.Fatalf("SetMilesRecord() error = %v", err)
	}
	if err := want.Fold(mileage.ManualLedgerEntry{
		Month:        date.NewMonth(2025, time.December),
		CardXP:       10,
		CorrectionXP: -5,
	}); err != nil {
		t.Fatalf("Fold() error = %v", err)
	}
	want.SetCurrency("EUR")
	want.SetRollover(60)
	want.SetTargetValuePerPoint(decimal.RequireFromString("0.012"))
	if err := want.SetSettings(settings); err != nil {
		t.Fatalf("SetSettings() error = %v", err)
	}

	if !got.Equal(want) {
		t.Error("loaded ledger differs from the saved one")
	}
}

func TestSaveFlightsUpserts(t *testing.T) {
	db := testDB(t)

	f := mileage.FlightRecord{ID: "f1", Date: date.New(2025, time.November, 12), Route: "AMS-JFK", EarnedMiles: 3000, EarnedXP: 10}
	if err := db.SaveFlights([]mileage.FlightRecord{f}); err != nil {
		t.Fatalf("SaveFlights() error = %v", err)
	}
	f.EarnedMiles = 3911
	if err := db.SaveFlights([]mileage.FlightRecord{f}); err != nil {
		t.Fatalf("SaveFlights() second call error = %v", err)
	}

	got, err := db.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	var flights []mileage.FlightRecord
	for f := range got.Flights() {
		flights = append(flights, f)
	}
	if len(flights) != 1 {
		t.Fatalf("got %d flights, want 1 after upsert", len(flights))
	}
	if flights[0].EarnedMiles != 3911 {
		t.Errorf("miles = %d, want the updated 3911", flights[0].EarnedMiles)
	}
}

func TestDeleteFlight(t *testing.T) {
	db := testDB(t)

	f := mileage.FlightRecord{ID: "f1", Date: date.New(2025, time.November, 12), Route: "AMS-JFK", EarnedMiles: 3000, EarnedXP: 10}
	if err := db.SaveFlights([]mileage.FlightRecord{f}); err != nil {
		t.Fatalf("SaveFlights() error = %v", err)
	}
	if err := db.DeleteFlight("f1"); err != nil {
		t.Fatalf("DeleteFlight() error = %v", err)
	}

	got, err := db.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	for f := range got.Flights() {
		t.Errorf("unexpected flight %s %s after delete", f.Date, f.Route)
	}
}

func TestBackupBlob(t *testing.T) {
	db := testDB(t)

	data, err := db.LoadBackup()
	if err != nil {
		t.Fatalf("LoadBackup() error = %v", err)
	}
	if data != nil {
		t.Fatalf("got %q, want nil on a fresh store", data)
	}

	if err := db.SaveBackup([]byte("one")); err != nil {
		t.Fatalf("SaveBackup() error = %v", err)
	}
	if err := db.SaveBackup([]byte("two")); err != nil {
		t.Fatalf("SaveBackup() second call error = %v", err)
	}
	data, err = db.LoadBackup()
	if err != nil {
		t.Fatalf("LoadBackup() error = %v", err)
	}
	if string(data) != "two" {
		t.Errorf("got %q, want the latest blob", data)
	}

	if err := db.ClearBackup(); err != nil {
		t.Fatalf("ClearBackup() error = %v", err)
	}
	data, err = db.LoadBackup()
	if err != nil {
		t.Fatalf("LoadBackup() after clear error = %v", err)
	}
	if data != nil {
		t.Errorf("got %q, want nil after clear", data)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mileage.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := db.SaveBackup([]byte("kept")); err != nil {
		t.Fatalf("SaveBackup() error = %v", err)
	}
	db.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatalf("Open() on existing file error = %v", err)
	}
	defer db.Close()
	data, err := db.LoadBackup()
	if err != nil {
		t.Fatalf("LoadBackup() error = %v", err)
	}
	if string(data) != "kept" {
		t.Errorf("got %q, want the blob to survive reopening", data)
	}
}
