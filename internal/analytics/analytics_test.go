package analytics

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/Zuo-Peng/chatlens/internal/parse"
	"github.com/Zuo-Peng/chatlens/internal/stopwords"
)

const fixture = `12/12/22, 11:58 PM - Alice created group "Trip"
12/12/22, 11:59 PM - Alice: Hello there ` + "\U0001F602" + `
13/12/22, 9:05 AM - Bob: <Media omitted>
13/12/22, 9:06 AM - Bob: check https://go.dev hai
01/01/23, 12:30 AM - Carol: hello hello ` + "\U0001F602\U0001F602 \U0001F44D" + `
01/01/23, 10:00 AM - Alice: This message was deleted
02/01/23, 1:15 PM - Bob: hello bhai
kya scene
`

func newFixture(t *testing.T) (*Engine, []parse.Record) {
	t.Helper()
	stop, err := stopwords.Parse(strings.NewReader("hai bhai kya there"))
	if err != nil {
		t.Fatalf("stop words: %v", err)
	}
	res := parse.Parse(fixture, parse.Clock12)
	if len(res.Records) != 7 {
		t.Fatalf("fixture parsed into %d records, want 7", len(res.Records))
	}
	return NewEngine(stop), res.Records
}

func TestBasicStatsTwoRecordChat(t *testing.T) {
	raw := "12/01/23, 10:15 AM - Alice: Hello there\n12/01/23, 10:16 AM - Bob: <Media omitted>\n"
	records := parse.Parse(raw, parse.Clock12).Records

	got := NewEngine(nil).View(records, Overall).BasicStats()
	want := Stats{Messages: 2, Words: 2, Media: 1, Links: 0}
	if got != want {
		t.Fatalf("BasicStats = %+v, want %+v", got, want)
	}
}

func TestBasicStats(t *testing.T) {
	e, records := newFixture(t)

	tests := []struct {
		participant string
		want        Stats
	}{
		{participant: Overall, want: Stats{Messages: 7, Words: 22, Media: 1, Links: 1}},
		{participant: "", want: Stats{Messages: 7, Words: 22, Media: 1, Links: 1}},
		{participant: "Bob", want: Stats{Messages: 3, Words: 7, Media: 1, Links: 1}},
		{participant: "Zed", want: Stats{}},
	}
	for _, tt := range tests {
		if got := e.View(records, tt.participant).BasicStats(); got != tt.want {
			t.Errorf("BasicStats(%q) = %+v, want %+v", tt.participant, got, tt.want)
		}
	}
}

func TestViewDoesNotMutateInput(t *testing.T) {
	e, records := newFixture(t)
	before := append([]parse.Record(nil), records...)

	v := e.View(records, "Bob")
	_ = v.BasicStats()
	_ = v.Vocabulary(20)
	_ = e.View(records, Overall).TopParticipants(5)

	if !reflect.DeepEqual(before, records) {
		t.Fatalf("records were modified")
	}
}

func TestTopParticipants(t *testing.T) {
	e, records := newFixture(t)
	rank := e.View(records, Overall).TopParticipants(5)

	wantTop := []Count{
		{Key: "Bob", Count: 3},
		{Key: "Alice", Count: 2},
		{Key: parse.SentinelAuthor, Count: 1},
		{Key: "Carol", Count: 1},
	}
	if !reflect.DeepEqual(rank.Top, wantTop) {
		t.Fatalf("Top = %+v, want %+v", rank.Top, wantTop)
	}

	wantShares := []Share{
		{Author: "Bob", Count: 3, Percent: 42.86},
		{Author: "Alice", Count: 2, Percent: 28.57},
		{Author: "Carol", Count: 1, Percent: 14.29},
	}
	if !reflect.DeepEqual(rank.Shares, wantShares) {
		t.Fatalf("Shares = %+v, want %+v", rank.Shares, wantShares)
	}

	sum := rank.Notifications
	for _, s := range rank.Shares {
		sum += s.Count
	}
	if total := e.View(records, Overall).BasicStats().Messages; sum != total {
		t.Fatalf("share counts + notifications = %d, want %d", sum, total)
	}

	if got := e.View(records, Overall).TopParticipants(2).Top; len(got) != 2 {
		t.Fatalf("expected top to be capped at 2, got %d", len(got))
	}
	if got := e.View(records, "Bob").TopParticipants(5); got.Top != nil || got.Shares != nil {
		t.Fatalf("participant view should have no ranking, got %+v", got)
	}
}

func TestMonthlyTimelineChronological(t *testing.T) {
	e, records := newFixture(t)
	points := e.View(records, Overall).MonthlyTimeline()

	var labels []string
	var counts []int
	for _, p := range points {
		labels = append(labels, p.Label)
		counts = append(counts, p.Count)
	}
	if !reflect.DeepEqual(labels, []string{"Dec-2022", "Jan-2023"}) {
		t.Fatalf("labels = %v", labels)
	}
	if !reflect.DeepEqual(counts, []int{4, 3}) {
		t.Fatalf("counts = %v", counts)
	}
	if points[0].MonthName != "December" || points[1].Month != 1 {
		t.Fatalf("unexpected month fields %+v", points)
	}
}

func TestMonthlyTimelineSortsOutOfOrderInput(t *testing.T) {
	raw := "05/01/23, 10:00 AM - A: later\n05/12/22, 10:00 AM - A: earlier\n"
	records := parse.Parse(raw, parse.Clock12).Records
	points := NewEngine(nil).View(records, Overall).MonthlyTimeline()
	if len(points) != 2 || points[0].Label != "Dec-2022" || points[1].Label != "Jan-2023" {
		t.Fatalf("points = %+v", points)
	}
}

func TestDailyTimeline(t *testing.T) {
	e, records := newFixture(t)
	points := e.View(records, Overall).DailyTimeline()

	want := map[string]int{"2022-12-12": 2, "2022-12-13": 2, "2023-01-01": 2, "2023-01-02": 1}
	var order []string
	for _, p := range points {
		order = append(order, p.Label)
		if want[p.Label] != p.Count {
			t.Errorf("%s: count = %d, want %d", p.Label, p.Count, want[p.Label])
		}
	}
	if !reflect.DeepEqual(order, []string{"2022-12-12", "2022-12-13", "2023-01-01", "2023-01-02"}) {
		t.Fatalf("order = %v", order)
	}
}

func TestWeekdayAndMonthActivity(t *testing.T) {
	e, records := newFixture(t)
	v := e.View(records, Overall)

	wantDays := []Count{{Key: "Monday", Count: 3}, {Key: "Tuesday", Count: 2}, {Key: "Sunday", Count: 2}}
	if got := v.WeekdayActivity(); !reflect.DeepEqual(got, wantDays) {
		t.Fatalf("WeekdayActivity = %+v, want %+v", got, wantDays)
	}

	wantMonths := []Count{{Key: "December", Count: 4}, {Key: "January", Count: 3}}
	if got := v.MonthActivity(); !reflect.DeepEqual(got, wantMonths) {
		t.Fatalf("MonthActivity = %+v, want %+v", got, wantMonths)
	}
}

func TestActivityHeatmap(t *testing.T) {
	e, records := newFixture(t)
	hm := e.View(records, Overall).ActivityHeatmap()

	if !reflect.DeepEqual(hm.Rows, []string{"Monday", "Tuesday", "Sunday"}) {
		t.Fatalf("rows = %v", hm.Rows)
	}
	if !reflect.DeepEqual(hm.Cols, []string{"0-1", "9-10", "10-11", "13-14", "23-0"}) {
		t.Fatalf("cols = %v", hm.Cols)
	}
	want := [][]int{
		{0, 0, 0, 1, 2},
		{0, 2, 0, 0, 0},
		{1, 0, 1, 0, 0},
	}
	if !reflect.DeepEqual(hm.Cells, want) {
		t.Fatalf("cells = %v, want %v", hm.Cells, want)
	}
	if hm.Total() != 7 || hm.Max() != 2 {
		t.Fatalf("total=%d max=%d", hm.Total(), hm.Max())
	}

	for _, p := range []string{"Alice", "Bob", "Carol", "Zed"} {
		v := e.View(records, p)
		if got := v.ActivityHeatmap().Total(); got != v.Len() {
			t.Errorf("%s: heatmap total %d, want %d", p, got, v.Len())
		}
	}
}

func TestVocabulary(t *testing.T) {
	e, records := newFixture(t)
	v := e.View(records, Overall)

	want := []Count{{Key: "hello", Count: 4}, {Key: "\U0001F602", Count: 1}, {Key: "check", Count: 1}}
	if got := v.Vocabulary(3); !reflect.DeepEqual(got, want) {
		t.Fatalf("Vocabulary = %+v, want %+v", got, want)
	}

	stop := e.stop
	for _, c := range v.Vocabulary(0) {
		if stop.Contains(c.Key) {
			t.Errorf("stop word %q in vocabulary", c.Key)
		}
		if strings.Contains(c.Key, "<media") || c.Key == "deleted" {
			t.Errorf("placeholder token %q in vocabulary", c.Key)
		}
	}
}

func TestWordCloudCorpus(t *testing.T) {
	e, records := newFixture(t)

	got := e.View(records, Overall).WordCloudCorpus()
	want := "hello \U0001F602 check https://go.dev hello hello \U0001F602\U0001F602 \U0001F44D hello scene"
	if got != want {
		t.Fatalf("WordCloudCorpus = %q, want %q", got, want)
	}
	for _, tok := range strings.Fields(got) {
		if e.stop.Contains(tok) {
			t.Errorf("stop word %q in corpus", tok)
		}
	}

	mediaOnly := parse.Parse("12/01/23, 10:16 AM - Bob: <Media omitted>\n", parse.Clock12).Records
	v := e.View(mediaOnly, Overall)
	if v.WordCloudCorpus() != "" || len(v.Vocabulary(20)) != 0 {
		t.Fatalf("expected empty corpus for media-only chat")
	}
}

func TestEmojiFrequency(t *testing.T) {
	e, records := newFixture(t)

	want := []Count{{Key: "\U0001F602", Count: 3}, {Key: "\U0001F44D", Count: 1}}
	if got := e.View(records, Overall).EmojiFrequency(); !reflect.DeepEqual(got, want) {
		t.Fatalf("EmojiFrequency = %+v, want %+v", got, want)
	}
	if got := e.View(records, "Bob").EmojiFrequency(); len(got) != 0 {
		t.Fatalf("expected no emoji for Bob, got %+v", got)
	}
}

func TestUnknownParticipantIsEmpty(t *testing.T) {
	e, records := newFixture(t)
	v := e.View(records, "Zed")

	if v.Len() != 0 || v.BasicStats() != (Stats{}) {
		t.Fatalf("expected empty view")
	}
	if len(v.MonthlyTimeline()) != 0 || len(v.DailyTimeline()) != 0 ||
		len(v.WeekdayActivity()) != 0 || len(v.EmojiFrequency()) != 0 ||
		len(v.ActivityHeatmap().Rows) != 0 || v.WordCloudCorpus() != "" {
		t.Fatalf("expected empty tables for unknown participant")
	}
}

func TestParticipantsAndValid(t *testing.T) {
	_, records := newFixture(t)

	want := []string{Overall, "Alice", "Bob", "Carol"}
	if got := Participants(records); !reflect.DeepEqual(got, want) {
		t.Fatalf("Participants = %v, want %v", got, want)
	}
	if !Valid(records) {
		t.Fatalf("fixture should be valid")
	}

	onlySystem := parse.Parse("01/02/23, 9:00 PM - Alice added Bob\n", parse.Clock12).Records
	if Valid(onlySystem) || Valid(nil) {
		t.Fatalf("system-only or empty chats are not valid")
	}
	if got := Participants(nil); !reflect.DeepEqual(got, []string{Overall}) {
		t.Fatalf("Participants(nil) = %v", got)
	}
}

func TestReport(t *testing.T) {
	e, records := newFixture(t)

	overall, err := e.Report(context.Background(), records, "", ReportOptions{})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if overall.Participant != Overall || overall.Ranking == nil {
		t.Fatalf("overall report missing ranking: %+v", overall)
	}
	if overall.Stats.Messages != 7 || overall.Heatmap.Total() != 7 {
		t.Fatalf("unexpected overall stats %+v", overall.Stats)
	}
	if overall.Summary() != "Overall: 7 messages, 22 words, 1 media, 1 links" {
		t.Fatalf("summary = %q", overall.Summary())
	}

	bob, err := e.Report(context.Background(), records, "Bob", ReportOptions{TopWords: 1})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if bob.Ranking != nil {
		t.Fatalf("participant report should not rank")
	}
	if len(bob.Words) != 1 || bob.Words[0].Key != "check" {
		t.Fatalf("words = %+v", bob.Words)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := e.Report(ctx, records, "", ReportOptions{}); err == nil {
		t.Fatalf("expected error for cancelled context")
	}
}
