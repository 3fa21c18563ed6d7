package analytics

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Zuo-Peng/chatlens/internal/parse"
)

type ReportOptions struct {
	TopUsers int // default 5
	TopWords int // default 20
}

// Report gathers every table for one participant.
type Report struct {
	Participant string          `json:"participant"`
	Stats       Stats           `json:"stats"`
	Ranking     *Ranking        `json:"ranking,omitempty"` // Overall only
	Monthly     []TimelinePoint `json:"monthly"`
	Daily       []DailyPoint    `json:"daily"`
	Weekdays    []Count         `json:"weekdays"`
	Months      []Count         `json:"months"`
	Heatmap     Heatmap         `json:"heatmap"`
	Words       []Count         `json:"words"`
	WordCloud   string          `json:"word_cloud"`
	Emoji       []Count         `json:"emoji"`
}

// Summary is a one-line description of the participant's activity.
func (r *Report) Summary() string {
	return fmt.Sprintf("%s: %d messages, %d words, %d media, %d links",
		r.Participant, r.Stats.Messages, r.Stats.Words, r.Stats.Media, r.Stats.Links)
}

// Report computes every aggregation for participant. The aggregations
// only read the view, so they run concurrently.
func (e *Engine) Report(ctx context.Context, records []parse.Record, participant string, opts ReportOptions) (*Report, error) {
	if opts.TopUsers <= 0 {
		opts.TopUsers = 5
	}
	if opts.TopWords <= 0 {
		opts.TopWords = 20
	}

	v := e.View(records, participant)
	r := &Report{Participant: v.Participant()}

	g, gctx := errgroup.WithContext(ctx)
	run := func(fn func()) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn()
			return nil
		})
	}

	run(func() { r.Stats = v.BasicStats() })
	if v.Overall() {
		run(func() {
			rank := v.TopParticipants(opts.TopUsers)
			r.Ranking = &rank
		})
	}
	run(func() { r.Monthly = v.MonthlyTimeline() })
	run(func() { r.Daily = v.DailyTimeline() })
	run(func() { r.Weekdays = v.WeekdayActivity() })
	run(func() { r.Months = v.MonthActivity() })
	run(func() { r.Heatmap = v.ActivityHeatmap() })
	run(func() { r.Words = v.Vocabulary(opts.TopWords) })
	run(func() { r.WordCloud = v.WordCloudCorpus() })
	run(func() { r.Emoji = v.EmojiFrequency() })

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}
	return r, nil
}
