package monitor

import "github.com/unklstewy/vatsim-online/pkg/vatsim"

// ExperienceCache holds the last rating times fetched for each pilot.
//
// Entries never expire. A pilot that leaves range keeps its entry and it is
// reused if the pilot comes back. The cache is not safe for concurrent use:
// the engine reads it before fanning out and writes it after the join.
type ExperienceCache struct {
	entries map[int]vatsim.RatingTimes
}

// NewExperienceCache creates an empty cache.
func NewExperienceCache() *ExperienceCache {
	return &ExperienceCache{entries: make(map[int]vatsim.RatingTimes)}
}

// Get returns the cached rating times for cid.
func (c *ExperienceCache) Get(cid int) (vatsim.RatingTimes, bool) {
	times, ok := c.entries[cid]
	return times, ok
}

// Put stores times for cid, replacing any previous entry.
func (c *ExperienceCache) Put(cid int, times vatsim.RatingTimes) {
	c.entries[cid] = times
}

// Len returns the number of cached pilots.
func (c *ExperienceCache) Len() int {
	return len(c.entries)
}
