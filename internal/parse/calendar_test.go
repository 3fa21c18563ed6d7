package parse

import (
	"testing"
	"time"
)

func TestDeriveCalendar(t *testing.T) {
	ts := time.Date(2023, time.January, 12, 13, 45, 0, 0, time.UTC)
	got := DeriveCalendar(ts)
	want := Calendar{
		Year:      2023,
		Month:     1,
		MonthName: "January",
		Day:       12,
		DayName:   "Thursday",
		Period:    "13-14",
	}
	if got != want {
		t.Fatalf("DeriveCalendar = %+v, want %+v", got, want)
	}
}

func TestDeriveCalendarPeriodWrap(t *testing.T) {
	tests := map[int]string{0: "0-1", 9: "9-10", 23: "23-0"}
	for hour, want := range tests {
		ts := time.Date(2022, time.December, 31, hour, 0, 0, 0, time.UTC)
		if got := DeriveCalendar(ts).Period; got != want {
			t.Errorf("hour %d: period = %q, want %q", hour, got, want)
		}
	}
}
