package mileage

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/PaesslerAG/jsonpath"
)

// ImportProfile maps one airline's JSON export onto a parsed batch. Every
// airline names its fields differently; a profile is a small set of jsonpath
// expressions, kept in the config file, one per airline the member deals
// with.
type ImportProfile struct {
	// Flights selects the array of flight objects in the export.
	Flights string `yaml:"flights"`
	// FlightFields maps canonical flight field names (date, route, origin,
	// destination, airline, cabin, earnedMiles, earnedXP, safXP, uxp) to
	// jsonpath expressions evaluated against each flight object.
	FlightFields map[string]string `yaml:"flightFields"`
	// Miles optionally selects the array of monthly miles objects.
	Miles string `yaml:"miles,omitempty"`
	// MilesFields maps canonical miles field names (month, milesSubscription,
	// milesCard, milesOther, milesDebit, costSubscription, costCard,
	// costOther) to jsonpath expressions evaluated against each object.
	MilesFields map[string]string `yaml:"milesFields,omitempty"`
}

// jfield evaluates a jsonpath expression against one object, unwrapping the
// single-element list jsonpath sometimes returns.
func jfield(jobj any, path string) (any, bool) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, false
	}
	if jlist, ok := jval.([]any); ok {
		if len(jlist) == 0 {
			return nil, false
		}
		jval = jlist[0]
	}
	return jval, jval != nil
}

func jstring(jobj any, path string) string {
	v, ok := jfield(jobj, path)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprint(s)
	}
}

func jnumber(jobj any, path string) float64 {
	v, ok := jfield(jobj, path)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return finite(n)
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return finite(f)
	default:
		return 0
	}
}

// jarray evaluates a jsonpath expression expected to select an array.
func jarray(jobj any, path string) ([]any, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("error parsing export: %q %w", path, err)
	}
	jlist, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("error parsing export: %q is not an array", path)
	}
	return jlist, nil
}

// ImportJSON reads an arbitrary airline JSON export and maps it onto a batch
// through the profile's jsonpath expressions. Records that fail to normalize
// (no usable date) are an error, not a silent drop: a wrong profile should be
// loud.
func ImportJSON(r io.Reader, profile ImportProfile, source string) (*ParsedBatch, error) {
	var jobj any
	dec := json.NewDecoder(r)
	if err := dec.Decode(&jobj); err != nil {
		return nil, NewBatchError(BatchValidation, "not a JSON document: %v", err)
	}

	batch := &ParsedBatch{Source: source}
	now := time.Now()

	if profile.Flights != "" {
		items, err := jarray(jobj, profile.Flights)
		if err != nil {
			return nil, NewBatchError(BatchExtraction, "%v", err)
		}
		for i, item := range items {
			raw := RawFlight{
				Date:        jstring(item, profile.FlightFields["date"]),
				Route:       jstring(item, profile.FlightFields["route"]),
				Origin:      jstring(item, profile.FlightFields["origin"]),
				Destination: jstring(item, profile.FlightFields["destination"]),
				Airline:     jstring(item, profile.FlightFields["airline"]),
				Cabin:       jstring(item, profile.FlightFields["cabin"]),
				EarnedMiles: jnumber(item, profile.FlightFields["earnedMiles"]),
				EarnedXP:    jnumber(item, profile.FlightFields["earnedXP"]),
				SafXP:       jnumber(item, profile.FlightFields["safXP"]),
				UXP:         jnumber(item, profile.FlightFields["uxp"]),
			}
			f, err := raw.Normalize(source, now)
			if err != nil {
				return nil, NewBatchError(BatchValidation, "flight %d of export: %v", i+1, err)
			}
			batch.Flights = append(batch.Flights, f)
		}
	}

	if profile.Miles != "" {
		items, err := jarray(jobj, profile.Miles)
		if err != nil {
			return nil, NewBatchError(BatchExtraction, "%v", err)
		}
		for i, item := range items {
			raw := RawMilesRecord{
				Month:             jstring(item, profile.MilesFields["month"]),
				MilesSubscription: jnumber(item, profile.MilesFields["milesSubscription"]),
				MilesCard:         jnumber(item, profile.MilesFields["milesCard"]),
				MilesOther:        jnumber(item, profile.MilesFields["milesOther"]),
				MilesDebit:        jnumber(item, profile.MilesFields["milesDebit"]),
				CostSubscription:  jnumber(item, profile.MilesFields["costSubscription"]),
				CostCard:          jnumber(item, profile.MilesFields["costCard"]),
				CostOther:         jnumber(item, profile.MilesFields["costOther"]),
			}
			rec, err := raw.Normalize()
			if err != nil {
				return nil, NewBatchError(BatchValidation, "miles record %d of export: %v", i+1, err)
			}
			batch.MilesRecords = append(batch.MilesRecords, rec)
		}
	}

	return batch, nil
}
