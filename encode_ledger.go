package mileage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// RecordType discriminates the lines of a ledger file.
type RecordType string

const (
	RecordFlight   RecordType = "flight"
	RecordMiles    RecordType = "miles"
	RecordManual   RecordType = "manual"
	RecordSettings RecordType = "settings"
	RecordProfile  RecordType = "profile"
)

// profileRecord carries the ledger fields that are not monthly records:
// currency, the member's value-per-point estimate and the rollover.
type profileRecord struct {
	Currency    string          `json:"currency,omitempty"`
	TargetValue decimal.Decimal `json:"targetValuePerPoint"`
	Rollover    int             `json:"rollover,omitempty"`
}

// DecodeLedger decodes a ledger from a stream of JSONL data. Each line is one
// typed record; lines can come in any order, later records of a keyed type
// (miles, manual, settings, profile) win.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	ledger := NewLedger()
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var identifier struct {
			Record RecordType `json:"record"`
		}
		if err := json.Unmarshal(line, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify record in line %q: %w", string(line), err)
		}

		switch identifier.Record {
		case RecordFlight:
			var f FlightRecord
			if err := json.Unmarshal(line, &f); err != nil {
				return nil, fmt.Errorf("could not decode flight line %q: %w", string(line), err)
			}
			f, err := f.Validate()
			if err != nil {
				return nil, fmt.Errorf("invalid flight line %q: %w", string(line), err)
			}
			ledger.flights = append(ledger.flights, f)
		case RecordMiles:
			var rec MonthlyMilesRecord
			if err := json.Unmarshal(line, &rec); err != nil {
				return nil, fmt.Errorf("could not decode miles line %q: %w", string(line), err)
			}
			if err := ledger.SetMilesRecord(rec); err != nil {
				return nil, fmt.Errorf("invalid miles line %q: %w", string(line), err)
			}
		case RecordManual:
			var e ManualLedgerEntry
			if err := json.Unmarshal(line, &e); err != nil {
				return nil, fmt.Errorf("could not decode manual line %q: %w", string(line), err)
			}
			if e.Month.IsZero() {
				return nil, fmt.Errorf("invalid manual line %q: missing month", string(line))
			}
			// replace, not fold: the file is the state, not a stream of edits.
			ledger.manual[e.Month] = e
		case RecordSettings:
			var s QualificationSettings
			if err := json.Unmarshal(line, &s); err != nil {
				return nil, fmt.Errorf("could not decode settings line %q: %w", string(line), err)
			}
			if err := ledger.SetSettings(s); err != nil {
				return nil, fmt.Errorf("invalid settings line %q: %w", string(line), err)
			}
		case RecordProfile:
			var p profileRecord
			if err := json.Unmarshal(line, &p); err != nil {
				return nil, fmt.Errorf("could not decode profile line %q: %w", string(line), err)
			}
			ledger.currency = p.Currency
			ledger.targetValuePerPoint = p.TargetValue
			ledger.rollover = p.Rollover
		default:
			return nil, fmt.Errorf("unknown record type: %q", identifier.Record)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}

	ledger.stableSortFlights()
	return ledger, nil
}

// encodeRecord writes one typed record as a JSON line, the discriminator key
// first so the file stays scannable by eye.
func encodeRecord(w io.Writer, kind RecordType, v any) error {
	jw := &jsonObjectWriter{}
	jw.Append("record", kind).EmbedFrom(v)
	data, err := jw.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal %s record: %w", kind, err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write %s record: %w", kind, err)
	}
	return nil
}

// EncodeLedger persists the ledger to an io.Writer in JSONL format, one
// record per line, in canonical order: flights oldest first, then miles
// records, manual entries, settings, and the profile line.
func EncodeLedger(w io.Writer, ledger *Ledger) error {
	decimal.MarshalJSONWithoutQuotes = true

	flights := make([]FlightRecord, len(ledger.flights))
	copy(flights, ledger.flights)
	// the in-memory list is newest first; the file reads oldest first.
	for i, j := 0, len(flights)-1; i < j; i, j = i+1, j-1 {
		flights[i], flights[j] = flights[j], flights[i]
	}
	for _, f := range flights {
		if err := encodeRecord(w, RecordFlight, f); err != nil {
			return err
		}
	}
	for _, m := range sortedMonths(ledger.miles) {
		if err := encodeRecord(w, RecordMiles, ledger.miles[m]); err != nil {
			return err
		}
	}
	for _, m := range sortedMonths(ledger.manual) {
		if ledger.manual[m].IsZero() {
			continue
		}
		if err := encodeRecord(w, RecordManual, ledger.manual[m]); err != nil {
			return err
		}
	}
	if ledger.settings != nil {
		if err := encodeRecord(w, RecordSettings, *ledger.settings); err != nil {
			return err
		}
	}
	p := profileRecord{
		Currency:    ledger.currency,
		TargetValue: ledger.targetValuePerPoint,
		Rollover:    ledger.rollover,
	}
	if p != (profileRecord{}) {
		if err := encodeRecord(w, RecordProfile, p); err != nil {
			return err
		}
	}
	return nil
}
