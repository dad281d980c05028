package domain

// DailyCounter holds the activity accumulated since DayKey was last rolled over.
type DailyCounter struct {
	Count  int64  `json:"count"`
	DayKey string `json:"dayKey"`
}

// WeeklyCounter is the ISO-week analogue of DailyCounter.
type WeeklyCounter struct {
	Count   int64  `json:"count"`
	WeekKey string `json:"weekKey"`
}

// UserCounters are the per-user, per-group activity counters.
type UserCounters struct {
	Global int64         `json:"global"`
	Daily  DailyCounter  `json:"daily"`
	Weekly WeeklyCounter `json:"weekly"`
}

// GroupCounterMap maps user ID to counters for one group.
type GroupCounterMap map[string]UserCounters

// Clone returns a copy that shares no state with m.
func (m GroupCounterMap) Clone() GroupCounterMap {
	out := make(GroupCounterMap, len(m))
	for id, c := range m {
		out[id] = c
	}
	return out
}

// WindowKeys identifies the current day and ISO-week buckets.
type WindowKeys struct {
	Day  string
	Week string
}

// DailyCount returns the daily count, or 0 when the bucket is stale.
func (c UserCounters) DailyCount(keys WindowKeys) int64 {
	if c.Daily.DayKey != keys.Day {
		return 0
	}
	return c.Daily.Count
}

// WeeklyCount returns the weekly count, or 0 when the bucket is stale.
func (c UserCounters) WeeklyCount(keys WindowKeys) int64 {
	if c.Weekly.WeekKey != keys.Week {
		return 0
	}
	return c.Weekly.Count
}
