package analytics

import (
	"strings"

	"github.com/Zuo-Peng/chatlens/internal/extract"
	"github.com/Zuo-Peng/chatlens/internal/parse"
)

// eachTokenized calls fn with the stop-word-filtered tokens of every message that
// counts as conversation: no system lines, media placeholders or deletion
// notices.
func (v *View) eachTokenized(fn func(r parse.Record, tokens []string)) {
	for _, r := range v.records {
		if r.IsNotification() || r.IsMedia() || r.IsDeleted() {
			continue
		}
		var kept []string
		for _, tok := range extract.Tokens(r.Body) {
			if !v.stop.Contains(tok) {
				kept = append(kept, tok)
			}
		}
		fn(r, kept)
	}
}

// Vocabulary returns the n most frequent tokens, ties in first-seen order.
func (v *View) Vocabulary(n int) []Count {
	c := newCounter()
	v.eachTokenized(func(_ parse.Record, tokens []string) {
		for _, tok := range tokens {
			c.add(tok, 1)
		}
	})
	return c.mostCommon(n)
}

// WordCloudCorpus joins the same filtered tokens Vocabulary counts, for an
// external word-cloud renderer.
func (v *View) WordCloudCorpus() string {
	var msgs []string
	v.eachTokenized(func(_ parse.Record, tokens []string) {
		if len(tokens) > 0 {
			msgs = append(msgs, strings.Join(tokens, " "))
		}
	})
	return strings.Join(msgs, " ")
}

// EmojiFrequency ranks every emoji used in the view.
func (v *View) EmojiFrequency() []Count {
	c := newCounter()
	for _, r := range v.records {
		for _, e := range extract.Emoji(r.Body) {
			c.add(e, 1)
		}
	}
	return c.mostCommon(0)
}
