package parse

import (
	"bufio"
	"io"
	"strings"
)

const maxLineSize = 10 * 1024 * 1024 // 10MB

// Parse converts the text of a chat export into records, in source order.
// It never fails: text before the first header is dropped, lines without a
// valid header continue the message opened before them.
func Parse(raw string, conv Convention) *Result {
	raw = strings.TrimSuffix(raw, "\n")
	p := newParser(conv)
	if raw != "" {
		for _, line := range strings.Split(raw, "\n") {
			p.feed(line)
		}
	}
	return p.finish()
}

// ParseReader is Parse over a stream. The only errors are read errors.
func ParseReader(r io.Reader, conv Convention) (*Result, error) {
	p := newParser(conv)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		p.feed(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return p.finish(), nil
}

// parser is a two-phase state machine: every line is offered to the header
// recognizer first, and whatever it rejects goes to the body of the open
// record.
type parser struct {
	conv    Convention
	result  *Result
	lineNum int

	open    bool
	current Record
	body    strings.Builder
}

func newParser(conv Convention) *parser {
	if conv.header == nil {
		conv = Clock12
	}
	return &parser{conv: conv, result: &Result{}}
}

func (p *parser) feed(line string) {
	p.lineNum++
	p.result.Stats.Lines++
	if p.lineNum == 1 {
		line = strings.TrimPrefix(line, "\ufeff")
	}
	line = strings.TrimSuffix(line, "\r")

	ts, rest, ok := p.conv.matchHeader(line)
	if !ok {
		if !p.open {
			p.result.Stats.Dropped++
			return
		}
		p.body.WriteByte('\n')
		p.body.WriteString(line)
		p.result.Stats.Continuations++
		return
	}

	p.flush()
	author, body := splitAuthor(rest)
	p.open = true
	p.current = Record{
		Line:      p.lineNum,
		Timestamp: ts,
		Author:    author,
		Calendar:  DeriveCalendar(ts),
	}
	p.body.Reset()
	p.body.WriteString(body)
}

func (p *parser) flush() {
	if !p.open {
		return
	}
	p.open = false

	body := strings.TrimLeft(p.body.String(), "\n")
	body = strings.TrimRight(body, "\r\n")
	if strings.TrimSpace(body) == "" {
		p.result.Stats.Dropped++
		return
	}

	rec := p.current
	rec.Body = body
	rec.Seq = len(p.result.Records)
	if rec.IsNotification() {
		p.result.Stats.Notifications++
	}
	p.result.Records = append(p.result.Records, rec)
}

func (p *parser) finish() *Result {
	p.flush()
	p.result.Stats.Records = len(p.result.Records)
	return p.result
}

// splitAuthor separates "name: message". Text without a name prefix is a
// system notification.
func splitAuthor(rest string) (author, body string) {
	if i := strings.Index(rest, ": "); i > 0 {
		if name := strings.TrimSpace(rest[:i]); name != "" {
			return name, rest[i+2:]
		}
	}
	// "name:" with the message starting on the next line
	if strings.HasSuffix(rest, ":") {
		if name := strings.TrimSpace(strings.TrimSuffix(rest, ":")); name != "" && !strings.Contains(name, ":") {
			return name, ""
		}
	}
	return SentinelAuthor, rest
}
