// Package engine holds the pure update and query logic over one group's
// counter map. Nothing here performs I/O or takes locks; callers serialise
// access per group.
package engine

import (
	"errors"
	"sort"

	"chat-ranking-service/internal/ranking/core/domain"
)

var ErrUserNotFound = errors.New("user has no counters in this group")

// RecordActivity counts one activity for userID. Stale day/week buckets are
// reset before incrementing, never carried over.
func RecordActivity(m domain.GroupCounterMap, userID string, keys domain.WindowKeys) domain.UserCounters {
	c, ok := m[userID]
	if !ok {
		c = domain.UserCounters{
			Daily:  domain.DailyCounter{DayKey: keys.Day},
			Weekly: domain.WeeklyCounter{WeekKey: keys.Week},
		}
	}

	c.Global++

	if c.Daily.DayKey == keys.Day {
		c.Daily.Count++
	} else {
		c.Daily = domain.DailyCounter{Count: 1, DayKey: keys.Day}
	}

	if c.Weekly.WeekKey == keys.Week {
		c.Weekly.Count++
	} else {
		c.Weekly = domain.WeeklyCounter{Count: 1, WeekKey: keys.Week}
	}

	m[userID] = c
	return c
}

// EffectiveCount is the value a user is ranked by under mode.
func EffectiveCount(c domain.UserCounters, mode domain.Mode, keys domain.WindowKeys) int64 {
	switch mode {
	case domain.ModeDaily:
		return c.DailyCount(keys)
	case domain.ModeWeekly:
		return c.WeeklyCount(keys)
	default:
		return c.Global
	}
}

// ComputeLeaderboard ranks every user with a non-zero effective count,
// highest first. Equal counts are ordered by user ID.
func ComputeLeaderboard(m domain.GroupCounterMap, mode domain.Mode, keys domain.WindowKeys) domain.Leaderboard {
	entries := make([]domain.LeaderboardEntry, 0, len(m))
	for id, c := range m {
		n := EffectiveCount(c, mode, keys)
		if n <= 0 {
			continue
		}
		entries = append(entries, domain.LeaderboardEntry{UserID: id, Count: n})
	}
	sortEntries(entries)

	return domain.Leaderboard{
		Mode:    mode,
		Entries: entries,
		Total:   len(entries),
	}
}

// ComputeUserRank places userID among all users of the group by global count.
func ComputeUserRank(m domain.GroupCounterMap, userID string, keys domain.WindowKeys) (domain.UserRank, error) {
	user, ok := m[userID]
	if !ok {
		return domain.UserRank{}, ErrUserNotFound
	}

	entries := make([]domain.LeaderboardEntry, 0, len(m))
	for id, c := range m {
		entries = append(entries, domain.LeaderboardEntry{UserID: id, Count: c.Global})
	}
	sortEntries(entries)

	rank := 0
	for i, e := range entries {
		if e.UserID == userID {
			rank = i + 1
			break
		}
	}

	return domain.UserRank{
		UserID: userID,
		Rank:   rank,
		Total:  len(entries),
		Global: user.Global,
		Daily:  user.DailyCount(keys),
		Weekly: user.WeeklyCount(keys),
	}, nil
}

func sortEntries(entries []domain.LeaderboardEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].UserID < entries[j].UserID
	})
}
