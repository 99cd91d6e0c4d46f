package mileage

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/etnz/mileage/date"
	"github.com/google/uuid"
)

// UltimateCarriers lists the airline codes whose flights can earn UXP.
// Any other carrier's uxp field is zeroed at normalization.
var UltimateCarriers = map[string]bool{
	"AF": true,
	"KL": true,
}

// FlightRecord is a single flown segment of the member's ledger.
//
// It is immutable once created: re-imports never replace an existing flight,
// they only append new ones (see Merge).
type FlightRecord struct {
	ID           string    `json:"id"`
	Date         date.Date `json:"date"`
	Route        string    `json:"route"` // ORIGIN-DEST, e.g. "AMS-JFK"
	Airline      string    `json:"airline,omitempty"`
	Cabin        string    `json:"cabin,omitempty"`
	EarnedMiles  int       `json:"earnedMiles"`
	EarnedXP     int       `json:"earnedXP"`
	SafXP        int       `json:"safXP,omitempty"`
	UXP          int       `json:"uxp,omitempty"`
	ImportSource string    `json:"importSource,omitempty"`
	ImportedAt   time.Time `json:"importedAt,omitzero"`
}

// Month returns the calendar month the flight falls in.
func (f FlightRecord) Month() date.Month { return date.MonthOf(f.Date) }

// flightKey identifies a flight for deduplication. Two flights are the same
// flight iff they share the exact same (date, route).
type flightKey struct {
	date  date.Date
	route string
}

func (f FlightRecord) key() flightKey { return flightKey{f.Date, f.Route} }

// Points returns the flight's qualifying points: base XP plus the SAF bonus.
func (f FlightRecord) Points() int { return f.EarnedXP + f.SafXP }

func (f FlightRecord) Equal(o FlightRecord) bool {
	return f.ID == o.ID &&
		f.Date == o.Date &&
		f.Route == o.Route &&
		f.Airline == o.Airline &&
		f.Cabin == o.Cabin &&
		f.EarnedMiles == o.EarnedMiles &&
		f.EarnedXP == o.EarnedXP &&
		f.SafXP == o.SafXP &&
		f.UXP == o.UXP &&
		f.ImportSource == o.ImportSource &&
		f.ImportedAt.Equal(o.ImportedAt)
}

// Validate checks the flight fields and quick-fixes what it can: a zero date
// becomes today, the route is canonicalized, a missing id is minted, and uxp
// is zeroed for carriers that cannot earn it.
func (f FlightRecord) Validate() (FlightRecord, error) {
	if f.Date.IsZero() {
		f.Date = date.Today()
	}
	route, err := normalizeRoute(f.Route)
	if err != nil {
		return f, err
	}
	f.Route = route
	f.Airline = strings.ToUpper(strings.TrimSpace(f.Airline))
	f.Cabin = strings.TrimSpace(f.Cabin)
	if f.EarnedMiles < 0 {
		return f, fmt.Errorf("flight earned miles must not be negative, got %d", f.EarnedMiles)
	}
	if f.EarnedXP < 0 || f.SafXP < 0 || f.UXP < 0 {
		return f, errors.New("flight points must not be negative")
	}
	if !UltimateCarriers[f.Airline] {
		f.UXP = 0
	}
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return f, nil
}

// normalizeRoute canonicalizes a route to "ORIGIN-DEST". Two 3-letter legs
// are reformatted, anything else readable is kept uppercased so that it still
// works as a dedup key.
func normalizeRoute(s string) (string, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "", errors.New("flight route is missing")
	}
	legs := strings.FieldsFunc(s, func(r rune) bool { return !unicode.IsLetter(r) })
	if len(legs) == 2 && len(legs[0]) == 3 && len(legs[1]) == 3 {
		return legs[0] + "-" + legs[1], nil
	}
	return s, nil
}

// RawFlight is a flight as supplied by a parser collaborator, before
// normalization. Numeric fields are floats because extraction sources do not
// guarantee integers, nor even finite values.
type RawFlight struct {
	ID          string  `json:"id,omitempty"`
	Date        string  `json:"date"`
	Route       string  `json:"route,omitempty"`
	Origin      string  `json:"origin,omitempty"`
	Destination string  `json:"destination,omitempty"`
	Airline     string  `json:"airline,omitempty"`
	Cabin       string  `json:"cabin,omitempty"`
	EarnedMiles float64 `json:"earnedMiles,omitempty"`
	EarnedXP    float64 `json:"earnedXP,omitempty"`
	SafXP       float64 `json:"safXP,omitempty"`
	UXP         float64 `json:"uxp,omitempty"`
}

// Normalize converts the raw flight into its canonical record form, stamped
// with the import source. It fails only when the record is genuinely
// unusable: no parsable date, or no route at all.
func (r RawFlight) Normalize(source string, at time.Time) (FlightRecord, error) {
	day, err := date.Parse(strings.TrimSpace(r.Date))
	if err != nil {
		return FlightRecord{}, fmt.Errorf("flight needs a date: %w", err)
	}
	route := r.Route
	if route == "" && r.Origin != "" && r.Destination != "" {
		route = r.Origin + "-" + r.Destination
	}
	f := FlightRecord{
		ID:           strings.TrimSpace(r.ID),
		Date:         day,
		Route:        route,
		Airline:      r.Airline,
		Cabin:        r.Cabin,
		EarnedMiles:  points(r.EarnedMiles),
		EarnedXP:     points(r.EarnedXP),
		SafXP:        points(r.SafXP),
		UXP:          points(r.UXP),
		ImportSource: source,
		ImportedAt:   at,
	}
	return f.Validate()
}

// finite coerces non-finite values to zero so that NaN can never leak into a
// downstream sum.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// maxPoints bounds any single extracted field. Converting a float beyond int
// range is undefined, so wild values saturate here instead.
const maxPoints = math.MaxInt32

// points converts an extracted numeric field to a point count.
func points(v float64) int {
	v = finite(v)
	if v < 0 {
		return 0
	}
	if v > maxPoints {
		return maxPoints
	}
	return int(math.Round(v))
}

// signedPoints is points for fields that may legitimately be negative, like
// corrections.
func signedPoints(v float64) int {
	v = finite(v)
	switch {
	case v > maxPoints:
		return maxPoints
	case v < -maxPoints:
		return -maxPoints
	}
	return int(math.Round(v))
}
