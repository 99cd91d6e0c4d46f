package mileage

import (
	"fmt"
	"math"
	"net/http"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// this file probes public award fare endpoints to estimate what one mile is
// actually worth, as a sanity check on the member's own target value.

// FareProbe describes one public fare JSON endpoint and where in its payload
// the cash fare and the award miles fare live.
type FareProbe struct {
	Name      string `yaml:"name"`
	URL       string `yaml:"url"`
	CashPath  string `yaml:"cashPath"`  // jsonpath to the cash fare amount
	MilesPath string `yaml:"milesPath"` // jsonpath to the award fare in miles
}

// fareValue extracts one numeric value out of a fetched JSON payload.
func fareValue(jobj any, path string) (float64, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return math.NaN(), fmt.Errorf("error parsing fare: %q %w", path, err)
	}
	// because jsonpath is never clear about whether it returns a list of 1
	// answer, or a single answer: by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok {
		return math.NaN(), fmt.Errorf("error parsing fare: %q %s %v", path, "not a float", jval)
	}
	return val, nil
}

// Fetch queries the endpoint and returns the implied value of one mile: the
// cash fare divided by the award fare in miles. Responses are served from a
// disk cache with a daily expiry, probing twice a day costs one request.
func (p FareProbe) Fetch() (decimal.Decimal, error) {
	return p.fetch(daily())
}

func (p FareProbe) fetch(client *http.Client) (decimal.Decimal, error) {
	var jobj any
	if err := jwget(client, p.URL, &jobj); err != nil {
		return decimal.Decimal{}, fmt.Errorf("error in wget %q: %w", p.Name, err)
	}
	cash, err := fareValue(jobj, p.CashPath)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("probe %q: %w", p.Name, err)
	}
	miles, err := fareValue(jobj, p.MilesPath)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("probe %q: %w", p.Name, err)
	}
	if miles <= 0 {
		return decimal.Decimal{}, fmt.Errorf("probe %q: award fare is %v miles", p.Name, miles)
	}
	return decimal.NewFromFloat(cash).Div(decimal.NewFromFloat(miles)), nil
}
