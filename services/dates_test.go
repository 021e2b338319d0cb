package services

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "2025-03-09", want: "2025-03-09"},
		{in: "2025-03-09T23:30:00+07:00", want: "2025-03-09"},
		{in: "2025-03-09T01:00:00-05:00", want: "2025-03-09"},
		{in: " 2025-12-31T23:59:59Z ", want: "2025-12-31"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if err != nil {
				t.Fatalf("ParseDate(%q) error = %v", tt.in, err)
			}
			if got.Location() != time.UTC || got.Hour() != 0 {
				t.Errorf("ParseDate(%q) = %v, want UTC midnight", tt.in, got)
			}
			if s := *FormatDate(&got); s != tt.want {
				t.Errorf("ParseDate(%q) day = %s, want %s", tt.in, s, tt.want)
			}
		})
	}

	if _, err := ParseDate("09/03/2025"); err == nil {
		t.Error("ParseDate accepted a non-ISO date")
	}
}

func TestParseDateTime(t *testing.T) {
	got, err := ParseDateTime("2025-03-09T10:15:00+02:00")
	if err != nil {
		t.Fatalf("ParseDateTime() error = %v", err)
	}
	want := time.Date(2025, 3, 9, 8, 15, 0, 0, time.UTC)
	if !got.Equal(want) || got.Location() != time.UTC {
		t.Errorf("ParseDateTime() = %v, want %v", got, want)
	}

	local, err := ParseDateTime("2025-03-09T10:15")
	if err != nil {
		t.Fatalf("ParseDateTime() zone-less error = %v", err)
	}
	if !local.Equal(time.Date(2025, 3, 9, 10, 15, 0, 0, time.UTC)) {
		t.Errorf("zone-less timestamp = %v, want it read as UTC", local)
	}
}

func TestDayRange(t *testing.T) {
	from, to := DayRange(time.Date(2025, 3, 9, 18, 0, 0, 0, time.UTC))
	if !from.Equal(time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("from = %v", from)
	}
	if to.Sub(from) != 24*time.Hour {
		t.Errorf("window = %v, want 24h", to.Sub(from))
	}
}

func TestFormatDateNil(t *testing.T) {
	if FormatDate(nil) != nil {
		t.Error("FormatDate(nil) should be nil")
	}
}

func TestCheckID(t *testing.T) {
	if err := checkID("Task", "3f2504e0-4f89-41d3-9a0c-0305e82c3301"); err != nil {
		t.Errorf("checkID(valid) = %v", err)
	}
	for _, id := range []string{"", "123", "3f2504e04f8941d39a0c0305e82c3301", "zzzzzzzz-4f89-41d3-9a0c-0305e82c3301"} {
		if err := checkID("Task", id); err == nil {
			t.Errorf("checkID(%q) accepted an invalid id", id)
		}
	}
}
