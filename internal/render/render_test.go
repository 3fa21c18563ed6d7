package render

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"

	"github.com/Zuo-Peng/chatlens/internal/analytics"
	"github.com/Zuo-Peng/chatlens/internal/index"
	"github.com/Zuo-Peng/chatlens/internal/parse"
	"github.com/Zuo-Peng/chatlens/internal/scan"
)

const export = "12/12/22, 11:58 PM - Alice created group \"Trip\"\n" +
	"12/12/22, 11:59 PM - Alice: Hello there\n" +
	"13/12/22, 9:05 AM - Bob: <Media omitted>\n" +
	"13/12/22, 9:06 AM - Bob: check https://go.dev\n" +
	"01/01/23, 12:30 AM - Carol: hello hello \U0001F602\n" +
	"02/01/23, 1:15 PM - Bob: hello again\nsecond line\n"

func stripANSI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\033' {
			for i < len(s) && s[i] != 'm' {
				i++
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func TestWrapLine(t *testing.T) {
	tests := []struct {
		line  string
		width int
		want  []string
	}{
		{line: "abcdef", width: 0, want: []string{"abcdef"}},
		{line: "abcdef", width: 4, want: []string{"abcd", "ef"}},
		{line: "", width: 4, want: []string{""}},
		{line: "\033[1mabcd\033[0mef", width: 4, want: []string{"\033[1mabcd\033[0m", "ef"}},
		{line: "你好世界", width: 5, want: []string{"你好", "世界"}},
	}
	for _, tt := range tests {
		if got := wrapLine(tt.line, tt.width); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("wrapLine(%q, %d) = %q, want %q", tt.line, tt.width, got, tt.want)
		}
	}
}

func TestHighlightKeywords(t *testing.T) {
	got := highlightKeywords("Hello hello world", `hello OR "world"`)
	want := colorBoldRed + "Hello" + colorReset + " " + colorBoldRed + "hello" + colorReset + " " +
		colorBoldRed + "world" + colorReset
	if got != want {
		t.Fatalf("highlightKeywords = %q, want %q", got, want)
	}
	if got := highlightKeywords("plain", ""); got != "plain" {
		t.Fatalf("empty query changed text: %q", got)
	}
}

func TestRenderConversation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chat.txt")
	if err := os.WriteFile(path, []byte(export), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	src, err := scan.Locate(path)
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	db, err := index.OpenDB(filepath.Join(dir, "chatlens.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if _, _, err := RenderConversation(db, Options{HitSeq: 0}); err == nil {
		t.Fatalf("expected error before import")
	}
	if _, _, err := index.Import(db, src, parse.Clock12, zap.NewNop()); err != nil {
		t.Fatalf("import: %v", err)
	}

	out, hitLine, err := RenderConversation(db, Options{HitSeq: 3, Context: 1, Query: "check"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(out, "\n")
	if hitLine < 0 || !strings.Contains(lines[hitLine], ">> Bob > 2022-12-13 09:06 <<") {
		t.Fatalf("hit line %d in:\n%s", hitLine, out)
	}
	plain := stripANSI(out)
	for _, want := range []string{
		"--- chat.txt [12h] 6 messages ---",
		"... (2 messages before) ...",
		"  <Media omitted>",
		"  check https://go.dev",
		"Carol > 2023-01-01 00:30",
		"... (1 messages after) ...",
	} {
		if !strings.Contains(plain, want) {
			t.Errorf("output lacks %q:\n%s", want, plain)
		}
	}
	if !strings.Contains(out, colorBoldRed+"check"+colorReset) {
		t.Errorf("query term not highlighted")
	}

	out, _, err = RenderConversation(db, Options{HitSeq: 5, Context: -1, Width: 20})
	if err != nil {
		t.Fatalf("render all: %v", err)
	}
	for _, l := range strings.Split(out, "\n") {
		if w := runewidth.StringWidth(stripANSI(l)); w > 20 {
			t.Fatalf("line %q is %d columns wide", l, w)
		}
	}
	if !strings.Contains(stripANSI(out), "  second line") {
		t.Fatalf("continuation line missing:\n%s", out)
	}
}

func TestRenderReport(t *testing.T) {
	records := parse.Parse(export, parse.Clock12).Records
	report, err := analytics.NewEngine(nil).Report(context.Background(), records, analytics.Overall, analytics.ReportOptions{})
	if err != nil {
		t.Fatalf("report: %v", err)
	}

	out := stripANSI(RenderReport(report, 60))
	for _, want := range []string{
		"Overall",
		"Messages",
		"Most active",
		"Share of messages",
		"1 group notifications",
		"Dec-2022",
		"Jan-2023",
		"2022-12-12 to 2023-01-02, 4 active days",
		"Weekly activity",
		"Most common words",
		"\U0001F602 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report lacks %q:\n%s", want, out)
		}
	}

	bob, err := analytics.NewEngine(nil).Report(context.Background(), records, "Bob", analytics.ReportOptions{})
	if err != nil {
		t.Fatalf("bob report: %v", err)
	}
	out = stripANSI(RenderReport(bob, 0))
	if strings.Contains(out, "Most active") {
		t.Errorf("participant report should not rank authors:\n%s", out)
	}
}

func TestWriteBarsScales(t *testing.T) {
	var b strings.Builder
	writeBars(&b, []analytics.Count{{Key: "a", Count: 10}, {Key: "bb", Count: 1}, {Key: "c", Count: 0}}, 20)
	lines := strings.Split(strings.TrimRight(stripANSI(b.String()), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines", len(lines))
	}
	// label width 2, number width 2, 3 separators: 13 columns of bar
	if got := strings.Count(lines[0], barRune); got != 13 {
		t.Errorf("full bar = %d runes, want 13", got)
	}
	if got := strings.Count(lines[1], barRune); got != 1 {
		t.Errorf("small bar = %d runes, want 1", got)
	}
	if got := strings.Count(lines[2], barRune); got != 0 {
		t.Errorf("zero bar = %d runes, want 0", got)
	}
}

func TestTopCounts(t *testing.T) {
	c := func(k string, n int) analytics.Count { return analytics.Count{Key: k, Count: n} }
	in := []analytics.Count{c("a", 1), c("b", 3), c("c", 3), c("d", 2), c("e", 5)}
	got := topCounts(in, 3)
	want := []analytics.Count{c("e", 5), c("b", 3), c("c", 3)}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("topCounts = %v, want %v", got, want)
	}
}

func TestShade(t *testing.T) {
	if shade(0, 4) != shades[0] || shade(4, 4) != shades[len(shades)-1] || shade(1, 4) != shades[1] {
		t.Fatalf("unexpected shading")
	}
}
