package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Convention describes how an export writes its line header.
type Convention struct {
	Name    string
	header  *regexp.Regexp
	clock12 bool
}

var (
	// 12/01/23, 10:15 AM - Alice: Hello
	Clock12 = Convention{
		Name:    "12h",
		header:  regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4}|\d{2}),[ \x{202f}](\d{1,2}):(\d{2})[ \x{202f}\x{a0}]?([AaPp][Mm]) [-\x{2013}] `),
		clock12: true,
	}

	// 12/01/2023, 22:15 - Alice: Hello
	Clock24 = Convention{
		Name:   "24h",
		header: regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4}|\d{2}),[ \x{202f}](\d{1,2}):(\d{2}) [-\x{2013}] `),
	}
)

// ParseConvention resolves a convention by name. The empty name selects Clock12.
func ParseConvention(name string) (Convention, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "12h":
		return Clock12, nil
	case "24h":
		return Clock24, nil
	default:
		return Convention{}, fmt.Errorf("unknown date convention %q (want 12h or 24h)", name)
	}
}

// matchHeader recognizes a line header and returns the timestamp and the
// text after it. ok is false when the line has no header or the header
// does not name a real date and time.
func (c Convention) matchHeader(line string) (ts time.Time, rest string, ok bool) {
	m := c.header.FindStringSubmatchIndex(line)
	if m == nil {
		return time.Time{}, "", false
	}
	group := func(i int) string { return line[m[2*i]:m[2*i+1]] }

	day, _ := strconv.Atoi(group(1))
	month, _ := strconv.Atoi(group(2))
	year, _ := strconv.Atoi(group(3))
	hour, _ := strconv.Atoi(group(4))
	minute, _ := strconv.Atoi(group(5))

	if len(group(3)) == 2 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || minute > 59 {
		return time.Time{}, "", false
	}

	if c.clock12 {
		if hour < 1 || hour > 12 {
			return time.Time{}, "", false
		}
		pm := strings.EqualFold(group(6), "pm")
		switch {
		case pm && hour != 12:
			hour += 12
		case !pm && hour == 12:
			hour = 0
		}
	} else if hour > 23 {
		return time.Time{}, "", false
	}

	ts = time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC)
	// time.Date normalizes 31/02 into March; reject it instead
	if ts.Day() != day || int(ts.Month()) != month {
		return time.Time{}, "", false
	}
	return ts, line[m[1]:], true
}
