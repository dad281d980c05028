package domain

import (
	"errors"
	"strings"
)

var ErrUnknownMode = errors.New("unknown ranking mode")

// Mode selects which counter a leaderboard is ranked by.
type Mode string

const (
	ModeGlobal Mode = "global"
	ModeDaily  Mode = "daily"
	ModeWeekly Mode = "weekly"
)

// ParseMode accepts the mode names used by the HTTP API and chat commands.
// "" and "ranking" select the global board.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "global", "ranking":
		return ModeGlobal, nil
	case "daily":
		return ModeDaily, nil
	case "weekly":
		return ModeWeekly, nil
	default:
		return "", ErrUnknownMode
	}
}

type LeaderboardEntry struct {
	UserID string
	Count  int64
}

// Leaderboard is a rank-sorted projection of a group for one mode.
// Total counts every user with a non-zero effective count, even when
// Entries has been truncated.
type Leaderboard struct {
	Mode    Mode
	Entries []LeaderboardEntry
	Total   int
}

type UserRank struct {
	UserID string
	Rank   int // 1-based, by global count
	Total  int // users in the group
	Global int64
	Daily  int64
	Weekly int64
}
