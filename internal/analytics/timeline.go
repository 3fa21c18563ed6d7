package analytics

import (
	"fmt"
	"sort"
	"time"
)

type TimelinePoint struct {
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	MonthName string `json:"month_name"`
	Label     string `json:"label"` // "Dec-2022"
	Count     int    `json:"count"`
}

type DailyPoint struct {
	Date  time.Time `json:"date"`
	Label string    `json:"label"` // "2022-12-31"
	Count int       `json:"count"`
}

// MonthlyTimeline counts messages per calendar month, oldest first.
func (v *View) MonthlyTimeline() []TimelinePoint {
	index := make(map[int]int)
	var points []TimelinePoint
	for _, r := range v.records {
		cal := r.Calendar
		key := cal.Year*100 + cal.Month
		if i, ok := index[key]; ok {
			points[i].Count++
			continue
		}
		index[key] = len(points)
		points = append(points, TimelinePoint{
			Year:      cal.Year,
			Month:     cal.Month,
			MonthName: cal.MonthName,
			Label:     fmt.Sprintf("%s-%d", time.Month(cal.Month).String()[:3], cal.Year),
			Count:     1,
		})
	}
	sort.SliceStable(points, func(i, j int) bool {
		if points[i].Year != points[j].Year {
			return points[i].Year < points[j].Year
		}
		return points[i].Month < points[j].Month
	})
	return points
}

// DailyTimeline counts messages per calendar date, oldest first.
func (v *View) DailyTimeline() []DailyPoint {
	index := make(map[time.Time]int)
	var points []DailyPoint
	for _, r := range v.records {
		d := r.Date()
		if i, ok := index[d]; ok {
			points[i].Count++
			continue
		}
		index[d] = len(points)
		points = append(points, DailyPoint{Date: d, Label: d.Format("2006-01-02"), Count: 1})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return points
}
