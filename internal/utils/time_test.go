package utils

import (
	"testing"
	"time"
)

func TestLoadLocation(t *testing.T) {
	for _, tz := range []string{"", "Local"} {
		loc, err := LoadLocation(tz)
		if err != nil || loc != time.Local {
			t.Errorf("LoadLocation(%q) = %v, %v; want system zone", tz, loc, err)
		}
	}
	if _, err := LoadLocation("America/New_York"); err != nil {
		t.Errorf("valid IANA zone rejected: %v", err)
	}
	if _, err := LoadLocation("Not/AZone"); err == nil {
		t.Error("expected an error for a bogus zone")
	}
}

func TestDayKey_UsesLocation(t *testing.T) {
	// 01:30 UTC on March 3 is still March 2 in New York.
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatal(err)
	}
	instant := time.Date(2026, 3, 3, 1, 30, 0, 0, time.UTC)
	if got := DayKey(instant, time.UTC); got != "2026-03-03" {
		t.Errorf("UTC day key = %s", got)
	}
	if got := DayKey(instant, ny); got != "2026-03-02" {
		t.Errorf("New York day key = %s", got)
	}
}

func TestIsWeekend(t *testing.T) {
	sat := time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC)
	mon := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	if !IsWeekend(sat, time.UTC) {
		t.Error("Saturday should be a weekend")
	}
	if IsWeekend(mon, time.UTC) {
		t.Error("Monday should not be a weekend")
	}
}

func TestClampInt(t *testing.T) {
	tests := []struct{ v, lo, hi, want int }{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
	}
	for _, tt := range tests {
		if got := ClampInt(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("ClampInt(%d, %d, %d) = %d, want %d", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}
