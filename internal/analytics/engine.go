// Package analytics aggregates parsed chat records into the tables the
// dashboard and CLI render. Every function is a pure read over records
// that are never modified after parsing.
package analytics

import (
	"sort"

	"github.com/Zuo-Peng/chatlens/internal/parse"
	"github.com/Zuo-Peng/chatlens/internal/stopwords"
)

// Overall selects every participant.
const Overall = "Overall"

// Engine carries the process-wide read-only resources the aggregations
// need. It is safe for concurrent use.
type Engine struct {
	stop stopwords.Set
}

func NewEngine(stop stopwords.Set) *Engine {
	if stop == nil {
		stop = stopwords.Set{}
	}
	return &Engine{stop: stop}
}

// View is the working subset for one participant. The participant
// predicate is applied once here; all aggregations run on the copy.
type View struct {
	participant string
	overall     bool
	records     []parse.Record
	stop        stopwords.Set
}

// View selects the records of participant, or every record for Overall
// or "". An unknown participant yields an empty view, not an error.
func (e *Engine) View(records []parse.Record, participant string) *View {
	v := &View{participant: participant, stop: e.stop}
	if participant == "" || participant == Overall {
		v.participant = Overall
		v.overall = true
		v.records = append([]parse.Record(nil), records...)
		return v
	}
	for _, r := range records {
		if r.Author == participant {
			v.records = append(v.records, r)
		}
	}
	return v
}

func (v *View) Participant() string { return v.participant }

func (v *View) Overall() bool { return v.overall }

func (v *View) Len() int { return len(v.records) }

// Participants returns the distinct human authors in the view, sorted.
func (v *View) Participants() []string {
	return authors(v.records)
}

// Participants returns the selector list for a chat: Overall followed by
// every human author in alphabetical order.
func Participants(records []parse.Record) []string {
	return append([]string{Overall}, authors(records)...)
}

// Valid reports whether records contain at least one human author. A
// document with only system lines, or none, is not a chat export.
func Valid(records []parse.Record) bool {
	for _, r := range records {
		if !r.IsNotification() {
			return true
		}
	}
	return false
}

func authors(records []parse.Record) []string {
	seen := make(map[string]bool)
	var names []string
	for _, r := range records {
		if r.IsNotification() || seen[r.Author] {
			continue
		}
		seen[r.Author] = true
		names = append(names, r.Author)
	}
	sort.Strings(names)
	return names
}
