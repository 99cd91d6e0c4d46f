package mileage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// this file contains functions to handle the import/export format.
// It should remain human readable, single file and easy to merge back.

// ExportFlights exports the ledger's flights to 'w' in the import/export
// format: a JSONL file where each line is one flight object, most recent
// first, exactly as the ledger orders them.
func ExportFlights(w io.Writer, l *Ledger) error {
	for f := range l.Flights() {
		data, err := json.Marshal(f)
		if err != nil {
			return fmt.Errorf("cannot marshal flight %s %s: %w", f.Date, f.Route, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("cannot write flight export format: %w", err)
		}
	}
	return nil
}

// ImportFlights reads flights from 'r' in the import/export format and
// returns them as a batch ready to Merge. Each line is one raw flight
// object; normalization fills missing numerics with zero and drops nothing
// silently: an unusable line is an error.
func ImportFlights(r io.Reader, source string) (*ParsedBatch, error) {
	batch := &ParsedBatch{Source: source}
	now := time.Now()

	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var raw RawFlight
		if err := json.Unmarshal(line, &raw); err != nil {
			return nil, fmt.Errorf("cannot parse line %d of flight import format: %q: %w", n, string(line), err)
		}
		f, err := raw.Normalize(source, now)
		if err != nil {
			return nil, fmt.Errorf("cannot import flight at line %d: %w", n, err)
		}
		batch.Flights = append(batch.Flights, f)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading flight import: %w", err)
	}
	return batch, nil
}
