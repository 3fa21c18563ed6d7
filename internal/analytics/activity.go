package analytics

import (
	"sort"
	"time"
)

// WeekdayActivity counts messages per weekday name, busiest first.
func (v *View) WeekdayActivity() []Count {
	c := newCounter()
	for _, r := range v.records {
		c.add(r.Calendar.DayName, 1)
	}
	return c.mostCommon(0)
}

// MonthActivity counts messages per month name across all years, busiest
// first.
func (v *View) MonthActivity() []Count {
	c := newCounter()
	for _, r := range v.records {
		c.add(r.Calendar.MonthName, 1)
	}
	return c.mostCommon(0)
}

// Heatmap is a weekday by hour-period table of message counts.
type Heatmap struct {
	Rows  []string `json:"rows"`  // weekday names, Monday first
	Cols  []string `json:"cols"`  // hour periods, "0-1" first
	Cells [][]int  `json:"cells"` // Cells[row][col]
}

func (h Heatmap) Total() int {
	total := 0
	for _, row := range h.Cells {
		for _, n := range row {
			total += n
		}
	}
	return total
}

// Max returns the largest cell, used to scale shading.
func (h Heatmap) Max() int {
	m := 0
	for _, row := range h.Cells {
		for _, n := range row {
			if n > m {
				m = n
			}
		}
	}
	return m
}

// ActivityHeatmap cross-tabulates weekday against hour period. Only the
// weekdays and periods that occur become rows and columns; missing
// combinations are zero.
func (v *View) ActivityHeatmap() Heatmap {
	days := make(map[time.Weekday]bool)
	hours := make(map[int]string)
	for _, r := range v.records {
		days[r.Timestamp.Weekday()] = true
		hours[r.Timestamp.Hour()] = r.Calendar.Period
	}

	var dayOrder []time.Weekday
	for d := range days {
		dayOrder = append(dayOrder, d)
	}
	sort.Slice(dayOrder, func(i, j int) bool {
		return mondayFirst(dayOrder[i]) < mondayFirst(dayOrder[j])
	})
	var hourOrder []int
	for h := range hours {
		hourOrder = append(hourOrder, h)
	}
	sort.Ints(hourOrder)

	var hm Heatmap
	rowOf := make(map[time.Weekday]int, len(dayOrder))
	for i, d := range dayOrder {
		rowOf[d] = i
		hm.Rows = append(hm.Rows, d.String())
	}
	colOf := make(map[int]int, len(hourOrder))
	for i, h := range hourOrder {
		colOf[h] = i
		hm.Cols = append(hm.Cols, hours[h])
	}
	hm.Cells = make([][]int, len(hm.Rows))
	for i := range hm.Cells {
		hm.Cells[i] = make([]int, len(hm.Cols))
	}
	for _, r := range v.records {
		hm.Cells[rowOf[r.Timestamp.Weekday()]][colOf[r.Timestamp.Hour()]]++
	}
	return hm
}

func mondayFirst(d time.Weekday) int {
	return (int(d) + 6) % 7
}
