package mileage

import (
	"encoding/json"
	"testing"
)

func TestStatusForXP(t *testing.T) {
	testCases := []struct {
		xp   int
		want Status
	}{
		{xp: 0, want: Explorer},
		{xp: 99, want: Explorer},
		{xp: 100, want: Silver},
		{xp: 179, want: Silver},
		{xp: 180, want: Gold},
		{xp: 299, want: Gold},
		{xp: 300, want: Platinum},
		{xp: 1000, want: Platinum},
	}
	for _, tc := range testCases {
		if got := StatusForXP(tc.xp); got != tc.want {
			t.Errorf("StatusForXP(%d) = %s, want %s", tc.xp, got, tc.want)
		}
	}
}

func TestStatusThreshold(t *testing.T) {
	if xp, ok := Gold.Threshold(); !ok || xp != 180 {
		t.Errorf("Gold.Threshold() = %d, %v, want 180, true", xp, ok)
	}
	if _, ok := Explorer.Threshold(); ok {
		t.Error("Explorer has no threshold")
	}
	if _, ok := Ultimate.Threshold(); ok {
		t.Error("Ultimate is not an XP tier")
	}
}

func TestStatusNextThreshold(t *testing.T) {
	testCases := []struct {
		status Status
		next   Status
		xp     int
		ok     bool
	}{
		{status: Explorer, next: Silver, xp: 100, ok: true},
		{status: Silver, next: Gold, xp: 180, ok: true},
		{status: Gold, next: Platinum, xp: 300, ok: true},
		{status: Platinum, next: Platinum, xp: 0, ok: false},
	}
	for _, tc := range testCases {
		next, xp, ok := tc.status.NextThreshold()
		if next != tc.next || xp != tc.xp || ok != tc.ok {
			t.Errorf("%s.NextThreshold() = %s, %d, %v, want %s, %d, %v",
				tc.status, next, xp, ok, tc.next, tc.xp, tc.ok)
		}
	}
}

func TestParseStatus(t *testing.T) {
	testCases := []struct {
		input string
		want  Status
	}{
		{input: "gold", want: Gold},
		{input: "Gold", want: Gold},
		{input: " ULTIMATE ", want: Ultimate},
		{input: "explorer", want: Explorer},
	}
	for _, tc := range testCases {
		got, err := ParseStatus(tc.input)
		if err != nil {
			t.Errorf("ParseStatus(%q) error = %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseStatus(%q) = %s, want %s", tc.input, got, tc.want)
		}
	}
	if _, err := ParseStatus("diamond"); err == nil {
		t.Error("expected an error for an unknown status")
	}
}

func TestStatusJSON(t *testing.T) {
	b, err := json.Marshal(Platinum)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(b) != `"platinum"` {
		t.Errorf("got %s, want %q", b, "platinum")
	}
	var s Status
	if err := json.Unmarshal([]byte(`"silver"`), &s); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if s != Silver {
		t.Errorf("got %s, want silver", s)
	}
	if err := json.Unmarshal([]byte(`"diamond"`), &s); err == nil {
		t.Error("expected an error for an unknown status name")
	}
}
