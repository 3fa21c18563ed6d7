package parse

import (
	"fmt"
	"time"
)

// DeriveCalendar computes the grouping fields for a timestamp. Period spans
// the message's hour and the next one, wrapping to "23-0" at midnight.
func DeriveCalendar(t time.Time) Calendar {
	h := t.Hour()
	return Calendar{
		Year:      t.Year(),
		Month:     int(t.Month()),
		MonthName: t.Month().String(),
		Day:       t.Day(),
		DayName:   t.Weekday().String(),
		Period:    fmt.Sprintf("%d-%d", h, (h+1)%24),
	}
}
