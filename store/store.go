// Package store mirrors the ledger into a local SQLite database.
//
// The JSONL ledger file stays authoritative; the store is the persistence
// collaborator of the engine: idempotent upserts by natural key, no ordering
// guarantees across calls, plus the single backup blob behind the undo
// feature.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/etnz/mileage"
	"github.com/etnz/mileage/date"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection for ledger storage.
type DB struct {
	db *sql.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent access.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if err := createSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the database tables.
func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS flights (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		route TEXT NOT NULL,
		airline TEXT,
		cabin TEXT,
		earned_miles INTEGER NOT NULL,
		earned_xp INTEGER NOT NULL,
		saf_xp INTEGER DEFAULT 0,
		uxp INTEGER DEFAULT 0,
		import_source TEXT,
		imported_at TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_flights_date ON flights(date);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_flights_date_route ON flights(date, route);

	CREATE TABLE IF NOT EXISTS miles_records (
		month TEXT PRIMARY KEY,
		miles_subscription INTEGER DEFAULT 0,
		miles_card INTEGER DEFAULT 0,
		miles_flight INTEGER DEFAULT 0,
		miles_other INTEGER DEFAULT 0,
		miles_debit INTEGER DEFAULT 0,
		cost_subscription TEXT DEFAULT '0',
		cost_card TEXT DEFAULT '0',
		cost_flight TEXT DEFAULT '0',
		cost_other TEXT DEFAULT '0'
	);

	CREATE TABLE IF NOT EXISTS manual_ledger (
		month TEXT PRIMARY KEY,
		card_xp INTEGER DEFAULT 0,
		bonus_fuel_xp INTEGER DEFAULT 0,
		misc_xp INTEGER DEFAULT 0,
		correction_xp INTEGER DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS profile (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		currency TEXT,
		target_value_per_point TEXT DEFAULT '0',
		rollover INTEGER DEFAULT 0,
		settings_json TEXT
	);

	CREATE TABLE IF NOT EXISTS backup (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		data BLOB NOT NULL,
		saved_at TEXT NOT NULL
	);
	`

	if _, err := db.Exec(schema); err != nil {
		return err
	}
	return migrateSchema(db)
}

// migrateSchema adds new columns to existing databases.
func migrateSchema(db *sql.DB) error {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('flights') WHERE name='saf_xp'`).Scan(&count)
	if err != nil {
		return err
	}
	if count == 0 {
		migrations := []string{
			`ALTER TABLE flights ADD COLUMN saf_xp INTEGER DEFAULT 0`,
			`ALTER TABLE flights ADD COLUMN uxp INTEGER DEFAULT 0`,
		}
		for _, m := range migrations {
			if _, err := db.Exec(m); err != nil {
				// Ignore "duplicate column" errors for idempotency.
				if !strings.Contains(err.Error(), "duplicate column") {
					return err
				}
			}
		}
	}
	return nil
}

// SaveFlights upserts the given flights by id. It never deletes: a flight
// removed from the ledger is removed by DeleteFlight.
func (d *DB) SaveFlights(flights []mileage.FlightRecord) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("save flights: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO flights (id, date, route, airline, cabin, earned_miles, earned_xp, saf_xp, uxp, import_source, imported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date=excluded.date, route=excluded.route, airline=excluded.airline,
			cabin=excluded.cabin, earned_miles=excluded.earned_miles,
			earned_xp=excluded.earned_xp, saf_xp=excluded.saf_xp, uxp=excluded.uxp,
			import_source=excluded.import_source, imported_at=excluded.imported_at
	`)
	if err != nil {
		return fmt.Errorf("save flights: %w", err)
	}
	defer stmt.Close()

	for _, f := range flights {
		var imported string
		if !f.ImportedAt.IsZero() {
			imported = f.ImportedAt.UTC().Format(time.RFC3339)
		}
		if _, err := stmt.Exec(f.ID, f.Date.String(), f.Route, f.Airline, f.Cabin,
			f.EarnedMiles, f.EarnedXP, f.SafXP, f.UXP, f.ImportSource, imported); err != nil {
			return fmt.Errorf("save flight %s %s: %w", f.Date, f.Route, err)
		}
	}
	return tx.Commit()
}

// DeleteFlight removes one flight by id.
func (d *DB) DeleteFlight(id string) error {
	_, err := d.db.Exec(`DELETE FROM flights WHERE id = ?`, id)
	return err
}

// SaveMilesRecords upserts monthly miles records by month.
func (d *DB) SaveMilesRecords(records []mileage.MonthlyMilesRecord) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("save miles records: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO miles_records (month, miles_subscription, miles_card, miles_flight, miles_other, miles_debit,
			cost_subscription, cost_card, cost_flight, cost_other)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(month) DO UPDATE SET
			miles_subscription=excluded.miles_subscription, miles_card=excluded.miles_card,
			miles_flight=excluded.miles_flight, miles_other=excluded.miles_other,
			miles_debit=excluded.miles_debit, cost_subscription=excluded.cost_subscription,
			cost_card=excluded.cost_card, cost_flight=excluded.cost_flight,
			cost_other=excluded.cost_other
	`)
	if err != nil {
		return fmt.Errorf("save miles records: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(r.Month.String(), r.MilesSubscription, r.MilesCard, r.MilesFlight,
			r.MilesOther, r.MilesDebit, r.CostSubscription.String(), r.CostCard.String(),
			r.CostFlight.String(), r.CostOther.String()); err != nil {
			return fmt.Errorf("save miles record %s: %w", r.Month, err)
		}
	}
	return tx.Commit()
}

// SaveManualLedger upserts manual ledger entries by month.
func (d *DB) SaveManualLedger(entries []mileage.ManualLedgerEntry) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("save manual ledger: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO manual_ledger (month, card_xp, bonus_fuel_xp, misc_xp, correction_xp)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(month) DO UPDATE SET
			card_xp=excluded.card_xp, bonus_fuel_xp=excluded.bonus_fuel_xp,
			misc_xp=excluded.misc_xp, correction_xp=excluded.correction_xp
	`)
	if err != nil {
		return fmt.Errorf("save manual ledger: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.Exec(e.Month.String(), e.CardXP, e.BonusFuelXP, e.MiscXP, e.CorrectionXP); err != nil {
			return fmt.Errorf("save manual entry %s: %w", e.Month, err)
		}
	}
	return tx.Commit()
}

// Profile is the single-row member profile mirrored to the store.
type Profile struct {
	Currency    string
	TargetValue string // decimal, as text
	Rollover    int
	Settings    *mileage.QualificationSettings
}

// SaveProfile upserts the member profile.
func (d *DB) SaveProfile(p Profile) error {
	var settingsJSON sql.NullString
	if p.Settings != nil {
		data, err := json.Marshal(p.Settings)
		if err != nil {
			return fmt.Errorf("save profile: %w", err)
		}
		settingsJSON = sql.NullString{String: string(data), Valid: true}
	}
	_, err := d.db.Exec(`
		INSERT INTO profile (id, currency, target_value_per_point, rollover, settings_json)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			currency=excluded.currency, target_value_per_point=excluded.target_value_per_point,
			rollover=excluded.rollover, settings_json=excluded.settings_json
	`, p.Currency, p.TargetValue, p.Rollover, settingsJSON)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// LoadAll reads the whole mirrored state back into a ledger. Used on first
// run when the JSONL file is missing but the mirror exists.
func (d *DB) LoadAll() (*mileage.Ledger, error) {
	ledger := mileage.NewLedger()

	rows, err := d.db.Query(`SELECT id, date, route, airline, cabin, earned_miles, earned_xp, saf_xp, uxp, import_source, imported_at FROM flights ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("load flights: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var f mileage.FlightRecord
		var day, imported string
		if err := rows.Scan(&f.ID, &day, &f.Route, &f.Airline, &f.Cabin,
			&f.EarnedMiles, &f.EarnedXP, &f.SafXP, &f.UXP, &f.ImportSource, &imported); err != nil {
			return nil, fmt.Errorf("scan flight: %w", err)
		}
		if f.Date, err = date.Parse(day); err != nil {
			return nil, fmt.Errorf("load flight: %w", err)
		}
		if imported != "" {
			f.ImportedAt, _ = time.Parse(time.RFC3339, imported)
		}
		if _, err := ledger.AddFlight(f); err != nil {
			return nil, fmt.Errorf("load flight: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load flights: %w", err)
	}

	mrows, err := d.db.Query(`SELECT month, miles_subscription, miles_card, miles_flight, miles_other, miles_debit, cost_subscription, cost_card, cost_flight, cost_other FROM miles_records`)
	if err != nil {
		return nil, fmt.Errorf("load miles records: %w", err)
	}
	defer mrows.Close()
	for mrows.Next() {
		var rec mileage.MonthlyMilesRecord
		var month, sub, card, flight, other string
		if err := mrows.Scan(&month, &rec.MilesSubscription, &rec.MilesCard, &rec.MilesFlight,
			&rec.MilesOther, &rec.MilesDebit, &sub, &card, &flight, &other); err != nil {
			return nil, fmt.Errorf("scan miles record: %w", err)
		}
		if rec.Month, err = date.ParseMonth(month); err != nil {
			return nil, fmt.Errorf("load miles record: %w", err)
		}
		if rec.CostSubscription, err = decimal.NewFromString(sub); err != nil {
			return nil, fmt.Errorf("load miles record %s: %w", rec.Month, err)
		}
		if rec.CostCard, err = decimal.NewFromString(card); err != nil {
			return nil, fmt.Errorf("load miles record %s: %w", rec.Month, err)
		}
		if rec.CostFlight, err = decimal.NewFromString(flight); err != nil {
			return nil, fmt.Errorf("load miles record %s: %w", rec.Month, err)
		}
		if rec.CostOther, err = decimal.NewFromString(other); err != nil {
			return nil, fmt.Errorf("load miles record %s: %w", rec.Month, err)
		}
		if err := ledger.SetMilesRecord(rec); err != nil {
			return nil, fmt.Errorf("load miles record: %w", err)
		}
	}
	if err := mrows.Err(); err != nil {
		return nil, fmt.Errorf("load miles records: %w", err)
	}

	lrows, err := d.db.Query(`SELECT month, card_xp, bonus_fuel_xp, misc_xp, correction_xp FROM manual_ledger`)
	if err != nil {
		return nil, fmt.Errorf("load manual ledger: %w", err)
	}
	defer lrows.Close()
	for lrows.Next() {
		var e mileage.ManualLedgerEntry
		var month string
		if err := lrows.Scan(&month, &e.CardXP, &e.BonusFuelXP, &e.MiscXP, &e.CorrectionXP); err != nil {
			return nil, fmt.Errorf("scan manual entry: %w", err)
		}
		if e.Month, err = date.ParseMonth(month); err != nil {
			return nil, fmt.Errorf("load manual entry: %w", err)
		}
		if err := ledger.Fold(e); err != nil {
			return nil, fmt.Errorf("load manual entry: %w", err)
		}
	}
	if err := lrows.Err(); err != nil {
		return nil, fmt.Errorf("load manual ledger: %w", err)
	}

	var p Profile
	var currency, target sql.NullString
	var rollover sql.NullInt64
	var settingsJSON sql.NullString
	err = d.db.QueryRow(`SELECT currency, target_value_per_point, rollover, settings_json FROM profile WHERE id = 1`).
		Scan(&currency, &target, &rollover, &settingsJSON)
	switch {
	case err == sql.ErrNoRows:
		return ledger, nil
	case err != nil:
		return nil, fmt.Errorf("load profile: %w", err)
	}
	p.Currency = currency.String
	p.TargetValue = target.String
	p.Rollover = int(rollover.Int64)
	ledger.SetCurrency(p.Currency)
	ledger.SetRollover(p.Rollover)
	if p.TargetValue != "" {
		v, err := decimal.NewFromString(p.TargetValue)
		if err != nil {
			return nil, fmt.Errorf("load profile: %w", err)
		}
		ledger.SetTargetValuePerPoint(v)
	}
	if settingsJSON.Valid {
		var s mileage.QualificationSettings
		if err := json.Unmarshal([]byte(settingsJSON.String), &s); err != nil {
			return nil, fmt.Errorf("load settings: %w", err)
		}
		if err := ledger.SetSettings(s); err != nil {
			return nil, fmt.Errorf("load settings: %w", err)
		}
	}
	return ledger, nil
}

// SaveBackup overwrites the single backup blob.
func (d *DB) SaveBackup(data []byte) error {
	_, err := d.db.Exec(`
		INSERT INTO backup (id, data, saved_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data=excluded.data, saved_at=excluded.saved_at
	`, data, time.Now().UTC().Format(time.RFC3339))
	return err
}

// LoadBackup returns the backup blob, or (nil, nil) when there is none.
func (d *DB) LoadBackup() ([]byte, error) {
	var data []byte
	err := d.db.QueryRow(`SELECT data FROM backup WHERE id = 1`).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// ClearBackup removes the backup blob.
func (d *DB) ClearBackup() error {
	_, err := d.db.Exec(`DELETE FROM backup WHERE id = 1`)
	return err
}
