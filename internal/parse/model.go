package parse

import "time"

// SentinelAuthor is the author assigned to system lines (joins, leaves,
// subject changes) that carry no sender.
const SentinelAuthor = "group_notification"

// MediaPlaceholder replaces attachments in exports made without media.
const MediaPlaceholder = "<Media omitted>"

// deletionNotices are bodies left behind by deleted messages.
var deletionNotices = map[string]bool{
	"This message was deleted": true,
	"You deleted this message": true,
}

// Calendar holds the grouping fields derived from a record's timestamp.
type Calendar struct {
	Year      int
	Month     int    // 1-12
	MonthName string // "January"
	Day       int
	DayName   string // "Monday"
	Period    string // "13-14", "23-0"
}

type Record struct {
	Seq       int // position in source order
	Line      int // line number of the header in the export
	Timestamp time.Time
	Author    string
	Body      string
	Calendar  Calendar
}

// Date returns the record's calendar day at midnight.
func (r Record) Date() time.Time {
	y, m, d := r.Timestamp.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, r.Timestamp.Location())
}

func (r Record) IsMedia() bool {
	return r.Body == MediaPlaceholder
}

func (r Record) IsDeleted() bool {
	return deletionNotices[r.Body]
}

func (r Record) IsNotification() bool {
	return r.Author == SentinelAuthor
}

// Stats describes what the parser did with each physical line.
type Stats struct {
	Lines         int
	Records       int
	Continuations int
	Dropped       int // lines before the first header, or headers with an empty body
	Notifications int
}

type Result struct {
	Records []Record
	Stats   Stats
}
