package parse

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestParseTwoMessages(t *testing.T) {
	raw := "12/01/23, 10:15 AM - Alice: Hello there\n12/01/23, 10:16 AM - Bob: <Media omitted>\n"

	res := Parse(raw, Clock12)
	if len(res.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(res.Records))
	}

	first := res.Records[0]
	if first.Author != "Alice" || first.Body != "Hello there" {
		t.Fatalf("unexpected first record: %+v", first)
	}
	want := time.Date(2023, time.January, 12, 10, 15, 0, 0, time.UTC)
	if !first.Timestamp.Equal(want) {
		t.Fatalf("timestamp = %s, want %s", first.Timestamp, want)
	}
	if first.Seq != 0 || first.Line != 1 {
		t.Fatalf("unexpected position seq=%d line=%d", first.Seq, first.Line)
	}

	second := res.Records[1]
	if second.Author != "Bob" || !second.IsMedia() {
		t.Fatalf("unexpected second record: %+v", second)
	}
	if second.Seq != 1 || second.Line != 2 {
		t.Fatalf("unexpected position seq=%d line=%d", second.Seq, second.Line)
	}
}

func TestParseSystemLine(t *testing.T) {
	res := Parse("01/02/23, 9:00 PM - Alice added Bob\n", Clock12)
	if len(res.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(res.Records))
	}
	rec := res.Records[0]
	if rec.Author != SentinelAuthor {
		t.Fatalf("author = %q, want %q", rec.Author, SentinelAuthor)
	}
	if rec.Body != "Alice added Bob" {
		t.Fatalf("body = %q", rec.Body)
	}
	if rec.Timestamp.Hour() != 21 {
		t.Fatalf("expected 21h, got %d", rec.Timestamp.Hour())
	}
	if res.Stats.Notifications != 1 {
		t.Fatalf("expected 1 notification, got %d", res.Stats.Notifications)
	}
}

func TestParseContinuationLines(t *testing.T) {
	raw := strings.Join([]string{
		"12/01/23, 10:15 AM - Alice: first line",
		"second line",
		"",
		"third line",
		"12/01/23, 10:20 AM - Bob: ok",
	}, "\n")

	res := Parse(raw, Clock12)
	if len(res.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(res.Records))
	}
	if got := res.Records[0].Body; got != "first line\nsecond line\n\nthird line" {
		t.Fatalf("body = %q", got)
	}
	if res.Stats.Continuations != 3 {
		t.Fatalf("expected 3 continuations, got %d", res.Stats.Continuations)
	}
	if res.Records[1].Line != 5 {
		t.Fatalf("expected second record on line 5, got %d", res.Records[1].Line)
	}
}

func TestParseInvalidDateIsContinuation(t *testing.T) {
	raw := "12/01/23, 10:15 AM - Alice: hi\n31/02/23, 10:16 AM - Bob: not a date\n"

	res := Parse(raw, Clock12)
	if len(res.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(res.Records))
	}
	if got := res.Records[0].Body; got != "hi\n31/02/23, 10:16 AM - Bob: not a date" {
		t.Fatalf("body = %q", got)
	}
}

func TestParseEmptyAndHeaderless(t *testing.T) {
	for _, raw := range []string{"", "\n\n", "just some text\nwith no headers\n"} {
		res := Parse(raw, Clock12)
		if len(res.Records) != 0 {
			t.Fatalf("Parse(%q) returned %d records", raw, len(res.Records))
		}
	}
}

func TestParseDropsPreamble(t *testing.T) {
	raw := "preamble\n12/01/23, 10:15 AM - Alice: hi\n"
	res := Parse(raw, Clock12)
	if len(res.Records) != 1 || res.Stats.Dropped != 1 {
		t.Fatalf("records=%d dropped=%d", len(res.Records), res.Stats.Dropped)
	}
}

func TestParseClockEdges(t *testing.T) {
	tests := []struct {
		name string
		line string
		hour int
		year int
	}{
		{name: "midnight", line: "05/06/22, 12:05 am - A: x", hour: 0, year: 2022},
		{name: "noon", line: "05/06/22, 12:05 PM - A: x", hour: 12, year: 2022},
		{name: "four digit year", line: "05/06/2021, 1:05 pm - A: x", hour: 13, year: 2021},
		{name: "narrow no-break space", line: "05/06/22, 11:59\u202fPM - A: x", hour: 23, year: 2022},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Parse(tt.line, Clock12)
			if len(res.Records) != 1 {
				t.Fatalf("expected 1 record, got %d", len(res.Records))
			}
			ts := res.Records[0].Timestamp
			if ts.Hour() != tt.hour || ts.Year() != tt.year {
				t.Fatalf("got %s", ts)
			}
		})
	}
}

func TestParse24HourConvention(t *testing.T) {
	raw := "12/01/2023, 22:15 - Alice: late\n12/01/2023, 10:15 AM - Bob: ignored header\n"
	res := Parse(raw, Clock24)
	if len(res.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(res.Records))
	}
	if res.Records[0].Timestamp.Hour() != 22 {
		t.Fatalf("hour = %d", res.Records[0].Timestamp.Hour())
	}
}

func TestParseCRLFAndBOM(t *testing.T) {
	raw := "\ufeff12/01/23, 10:15 AM - Alice: hi\r\nmore\r\n"
	res := Parse(raw, Clock12)
	if len(res.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(res.Records))
	}
	if res.Records[0].Body != "hi\nmore" {
		t.Fatalf("body = %q", res.Records[0].Body)
	}
}

func TestParseNameOnHeaderLine(t *testing.T) {
	raw := "12/01/23, 10:15 AM - Alice:\nmessage below\n"
	res := Parse(raw, Clock12)
	if len(res.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(res.Records))
	}
	if rec := res.Records[0]; rec.Author != "Alice" || rec.Body != "message below" {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestParseDropsEmptyBody(t *testing.T) {
	res := Parse("12/01/23, 10:15 AM - Alice: \n", Clock12)
	if len(res.Records) != 0 {
		t.Fatalf("expected empty body to be dropped, got %+v", res.Records)
	}
}

func TestParseDeterministic(t *testing.T) {
	raw := "12/01/23, 10:15 AM - Alice: Hello\n01/02/23, 9:00 PM - Alice added Bob\ncontinued\n"
	a := Parse(raw, Clock12)
	b := Parse(raw, Clock12)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("parse is not deterministic")
	}
}

func TestParseReaderMatchesParse(t *testing.T) {
	raw := "12/01/23, 10:15 AM - Alice: Hello\nmore\n12/01/23, 10:16 AM - Bob: hi\n"
	got, err := ParseReader(strings.NewReader(raw), Clock12)
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}
	if want := Parse(raw, Clock12); !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseReader = %+v, want %+v", got, want)
	}
}

func TestParseConvention(t *testing.T) {
	if c, err := ParseConvention(""); err != nil || c.Name != "12h" {
		t.Fatalf("default convention: %v %v", c.Name, err)
	}
	if c, err := ParseConvention("24H"); err != nil || c.Name != "24h" {
		t.Fatalf("24h convention: %v %v", c.Name, err)
	}
	if _, err := ParseConvention("iso"); err == nil {
		t.Fatalf("expected error for unknown convention")
	}
}
