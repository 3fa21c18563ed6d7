package analytics

import (
	"fmt"
	"math"

	"github.com/Zuo-Peng/chatlens/internal/extract"
	"github.com/Zuo-Peng/chatlens/internal/parse"
)

type Stats struct {
	Messages int `json:"messages"`
	Words    int `json:"words"`
	Media    int `json:"media"`
	Links    int `json:"links"`
}

func (s Stats) String() string {
	return fmt.Sprintf("messages=%d words=%d media=%d links=%d",
		s.Messages, s.Words, s.Media, s.Links)
}

// BasicStats counts messages, words, media placeholders and links. Media
// placeholders are not words.
func (v *View) BasicStats() Stats {
	var s Stats
	for _, r := range v.records {
		s.Messages++
		if r.IsMedia() {
			s.Media++
		} else {
			s.Words += extract.Words(r.Body)
		}
		s.Links += len(extract.URLs(r.Body))
	}
	return s
}

// Share is one author's part of the conversation.
type Share struct {
	Author  string  `json:"author"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

type Ranking struct {
	Top           []Count `json:"top"`
	Shares        []Share `json:"shares"`
	Notifications int     `json:"notifications"`
}

// TopParticipants ranks authors for the whole chat. Top holds the n
// busiest authors as counted; Shares holds every human author with their
// percentage of all records, so the share counts plus Notifications add
// up to the message total. A participant view has no ranking.
func (v *View) TopParticipants(n int) Ranking {
	if !v.overall || len(v.records) == 0 {
		return Ranking{}
	}

	c := newCounter()
	for _, r := range v.records {
		c.add(r.Author, 1)
	}

	total := float64(len(v.records))
	rank := Ranking{
		Top:           c.mostCommon(n),
		Notifications: c.get(parse.SentinelAuthor),
	}
	for _, row := range c.mostCommon(0) {
		if row.Key == parse.SentinelAuthor {
			continue
		}
		rank.Shares = append(rank.Shares, Share{
			Author:  row.Key,
			Count:   row.Count,
			Percent: math.Round(float64(row.Count)/total*100*100) / 100,
		})
	}
	return rank
}
