package utils

import (
	"testing"
	"time"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{
			name:     "empty string returns local",
			timezone: "",
			wantErr:  false,
		},
		{
			name:     "Local returns local",
			timezone: "Local",
			wantErr:  false,
		},
		{
			name:     "valid timezone UTC",
			timezone: "UTC",
			wantErr:  false,
		},
		{
			name:     "invalid timezone",
			timezone: "Invalid/Timezone",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation() returned nil location without error")
			}
		})
	}
}

func TestValidateTimezone(t *testing.T) {
	if !ValidateTimezone("Local") {
		t.Error("expected Local to be valid")
	}
	if !ValidateTimezone("UTC") {
		t.Error("expected UTC to be valid")
	}
	if ValidateTimezone("Not/AZone") {
		t.Error("expected Not/AZone to be invalid")
	}
}

func TestDaysBetween(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)

	tests := []struct {
		name    string
		day     string
		now     time.Time
		want    int
		wantErr bool
	}{
		{
			name: "same day",
			day:  "2026-03-10",
			now:  time.Date(2026, 3, 10, 23, 59, 0, 0, loc),
			want: 0,
		},
		{
			name: "one minute past midnight is the next day",
			day:  "2026-03-10",
			now:  time.Date(2026, 3, 11, 0, 1, 0, 0, loc),
			want: 1,
		},
		{
			name: "gap of two days",
			day:  "2026-03-10",
			now:  time.Date(2026, 3, 12, 12, 0, 0, 0, loc),
			want: 2,
		},
		{
			name: "across month boundary",
			day:  "2026-02-28",
			now:  time.Date(2026, 3, 1, 8, 0, 0, 0, loc),
			want: 1,
		},
		{
			name: "legacy layout",
			day:  "Tue Mar 10 2026",
			now:  time.Date(2026, 3, 11, 8, 0, 0, 0, loc),
			want: 1,
		},
		{
			name:    "malformed",
			day:     "yesterday-ish",
			now:     time.Date(2026, 3, 11, 8, 0, 0, 0, loc),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DaysBetween(tt.day, tt.now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DaysBetween() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("DaysBetween() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDaysBetweenAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 2026-03-08 is the spring-forward day in the US; it only has 23 hours.
	got, err := DaysBetween("2026-03-08", time.Date(2026, 3, 9, 0, 30, 0, 0, loc))
	if err != nil {
		t.Fatalf("DaysBetween() error = %v", err)
	}
	if got != 1 {
		t.Errorf("DaysBetween() = %d, want 1", got)
	}
}

func TestDayString(t *testing.T) {
	ts := time.Date(2026, 10, 18, 23, 30, 0, 0, time.UTC)
	if got := DayString(ts); got != "2026-10-18" {
		t.Errorf("DayString() = %q, want %q", got, "2026-10-18")
	}
}
