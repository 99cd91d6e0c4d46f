package date

import (
	"encoding/json"
	"fmt"
	"iter"
	"time"
)

const readMonthFormat = "2006-1" // Permissive read month format (allows single-digit month).

// MonthFormat is the format used to represent calendar months as strings.
const MonthFormat = "2006-01"

// Month represents a calendar month, the natural bucket of a mileage ledger.
type Month struct {
	y int
	m time.Month
}

// NewMonth returns a normalized Month for the given year and month.
func NewMonth(year int, month time.Month) Month {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Month{t.Year(), t.Month()}
}

// MonthOf returns the Month containing d.
func MonthOf(d Date) Month { return Month{d.y, d.m} }

// Year returns the month's year.
func (m Month) Year() int { return m.y }

// Month returns the calendar month.
func (m Month) Month() time.Month { return m.m }

// Start returns the first day of the month.
func (m Month) Start() Date { return New(m.y, m.m, 1) }

// End returns the last day of the month.
func (m Month) End() Date { return New(m.y, m.m+1, 0) }

// Add returns a new Month with the given number of months added.
func (m Month) Add(i int) Month { return NewMonth(m.y, m.m+time.Month(i)) }

// Next returns the month after m.
func (m Month) Next() Month { return m.Add(1) }

// Before reports whether the month m is before x.
func (m Month) Before(x Month) bool { return m.y < x.y || (m.y == x.y && m.m < x.m) }

// After reports whether the month m is after x.
func (m Month) After(x Month) bool { return x.Before(m) }

// Compare returns -1, 0 or 1 when m is before, equal to, or after x.
func (m Month) Compare(x Month) int {
	switch {
	case m.Before(x):
		return -1
	case m.After(x):
		return 1
	default:
		return 0
	}
}

// Contains reports whether day d falls in the month.
func (m Month) Contains(d Date) bool { return MonthOf(d) == m }

// IsZero reports whether m is the zero Month.
func (m Month) IsZero() bool { return m == Month{} }

// ThisMonth returns the current month.
func ThisMonth() Month { return MonthOf(Today()) }

// String formats the month in its standard format.
func (m Month) String() string { return m.Start().Format(MonthFormat) }

// ParseMonth parses a Month from a string. It is lenient and accepts formats like "2025-7".
func ParseMonth(str string) (Month, error) {
	on, err := time.Parse(readMonthFormat, str)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q want format %q: %w", str, readMonthFormat, err)
	}
	return NewMonth(on.Year(), on.Month()), nil
}

// MustParseMonth is like ParseMonth but panics on error.
func MustParseMonth(str string) Month {
	m, err := ParseMonth(str)
	if err != nil {
		panic(err.Error())
	}
	return m
}

// UnmarshalJSON implements the json specific way to unmarshall a month from a json string.
func (j *Month) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	m, err := ParseMonth(str)
	if err != nil {
		return err
	}
	*j = m
	return nil
}

func (j Month) MarshalJSON() ([]byte, error) {
	str := j.String()
	return json.Marshal(&str)
}

// MarshalText lets a Month serve as a JSON object key.
func (j Month) MarshalText() ([]byte, error) { return []byte(j.String()), nil }

func (j *Month) UnmarshalText(text []byte) error {
	m, err := ParseMonth(string(text))
	if err != nil {
		return err
	}
	*j = m
	return nil
}

var _ json.Marshaler = (*Month)(nil)
var _ json.Unmarshaler = (*Month)(nil)

// Months returns an iterator over all months from 'from' to 'to' inclusive, in
// chronological order.
func Months(from, to Month) iter.Seq[Month] {
	return func(yield func(Month) bool) {
		for m := from; !m.After(to); m = m.Next() {
			if !yield(m) {
				return
			}
		}
	}
}
