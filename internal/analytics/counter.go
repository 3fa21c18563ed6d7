package analytics

import "sort"

// Count is one row of a frequency table.
type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// counter tallies keys and remembers first-seen order so ties keep it.
type counter struct {
	index map[string]int
	rows  []Count
}

func newCounter() *counter {
	return &counter{index: make(map[string]int)}
}

func (c *counter) add(key string, n int) {
	if i, ok := c.index[key]; ok {
		c.rows[i].Count += n
		return
	}
	c.index[key] = len(c.rows)
	c.rows = append(c.rows, Count{Key: key, Count: n})
}

func (c *counter) get(key string) int {
	if i, ok := c.index[key]; ok {
		return c.rows[i].Count
	}
	return 0
}

// mostCommon returns rows by count descending, ties in first-seen order.
// n <= 0 returns every row.
func (c *counter) mostCommon(n int) []Count {
	out := append([]Count(nil), c.rows...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
