package mileage

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/etnz/mileage/date"
)

const airlineExport = `{
  "account": {"number": "1234"},
  "activity": {
    "segments": [
      {"dep": "2025-11-12", "from": "AMS", "to": "JFK", "carrier": "KL", "award": 3911, "exp": 15},
      {"dep": "2025-12-02", "leg": "JFK-AMS", "carrier": "KL", "award": 2000, "exp": 15}
    ],
    "months": [
      {"period": "2025-11", "sub": 6000, "subCost": 1000, "spent": 2500}
    ]
  }
}`

func testProfile() ImportProfile {
	return ImportProfile{
		Flights: "$.activity.segments",
		FlightFields: map[string]string{
			"date":        "$.dep",
			"route":       "$.leg",
			"origin":      "$.from",
			"destination": "$.to",
			"airline":     "$.carrier",
			"earnedMiles": "$.award",
			"earnedXP":    "$.exp",
		},
		Miles: "$.activity.months",
		MilesFields: map[string]string{
			"month":             "$.period",
			"milesSubscription": "$.sub",
			"costSubscription":  "$.subCost",
			"milesDebit":        "$.spent",
		},
	}
}

func TestImportJSON(t *testing.T) {
	batch, err := ImportJSON(strings.NewReader(airlineExport), testProfile(), "airline")
	if err != nil {
		t.Fatalf("ImportJSON() error = %v", err)
	}

	if len(batch.Flights) != 2 {
		t.Fatalf("imported %d flights, want 2", len(batch.Flights))
	}
	f := batch.Flights[0]
	if f.Route != "AMS-JFK" {
		t.Errorf("route = %q, want AMS-JFK built from origin and destination", f.Route)
	}
	if f.Date != date.New(2025, time.November, 12) {
		t.Errorf("date = %s, want 2025-11-12", f.Date)
	}
	if f.EarnedMiles != 3911 || f.EarnedXP != 15 {
		t.Errorf("flight = %+v, want 3911 miles and 15 XP", f)
	}
	if batch.Flights[1].Route != "JFK-AMS" {
		t.Errorf("route = %q, want JFK-AMS from the route field", batch.Flights[1].Route)
	}

	if len(batch.MilesRecords) != 1 {
		t.Fatalf("imported %d miles records, want 1", len(batch.MilesRecords))
	}
	rec := batch.MilesRecords[0]
	if rec.Month != date.NewMonth(2025, time.November) {
		t.Errorf("month = %s, want 2025-11", rec.Month)
	}
	if rec.MilesSubscription != 6000 || rec.MilesDebit != 2500 {
		t.Errorf("record = %+v, want 6000 subscription and 2500 debit", rec)
	}
	if !rec.CostSubscription.Equal(cost(1000)) {
		t.Errorf("cost = %s, want 1000", rec.CostSubscription)
	}
}

func TestImportJSONClassifiedFailures(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  BatchCode
	}{
		{name: "not json", input: "<html>not json</html>", want: BatchValidation},
		{name: "wrong shape", input: `{"activity":{"segments":42}}`, want: BatchExtraction},
		{name: "unusable record", input: `{"activity":{"segments":[{"leg":"AMS-JFK"}],"months":[]}}`, want: BatchValidation},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ImportJSON(strings.NewReader(tc.input), testProfile(), "airline")
			var berr *BatchError
			if !errors.As(err, &berr) {
				t.Fatalf("error = %v, want a *BatchError", err)
			}
			if berr.Code != tc.want {
				t.Errorf("code = %s, want %s", berr.Code, tc.want)
			}
		})
	}
}
