package digest

import "slices"

// counter tallies keys while remembering the order each key was first seen.
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string) {
	if _, seen := c.counts[key]; !seen {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// entry is a ranked key and its count.
type entry struct {
	key   string
	count int
}

// top returns at most limit entries sorted by descending count.
// The sort is stable over first-seen order, so ties keep encounter order.
func (c *counter) top(limit int) []entry {
	entries := make([]entry, len(c.order))
	for i, key := range c.order {
		entries[i] = entry{key: key, count: c.counts[key]}
	}

	slices.SortStableFunc(entries, func(a, b entry) int {
		return b.count - a.count
	})

	if limit >= 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
