package usecase

import (
	"context"

	"chat-ranking-service/internal/ranking/core/domain"
	"chat-ranking-service/internal/ranking/core/engine"
	"chat-ranking-service/internal/ranking/core/ports"
)

// DefaultTopN is how many entries a leaderboard reply shows.
const DefaultTopN = 15

type GetLeaderboardInput struct {
	GroupID string
	Mode    string // "", "global", "ranking", "daily", "weekly"
	Limit   int    // <= 0 means DefaultTopN
}

type GetLeaderboardUseCase struct {
	counters Counters
	clock    ports.WindowClockPort
	topN     int
}

func NewGetLeaderboardUseCase(counters Counters, clock ports.WindowClockPort, topN int) *GetLeaderboardUseCase {
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &GetLeaderboardUseCase{counters: counters, clock: clock, topN: topN}
}

// Execute returns the leaderboard for one group and mode, truncated to the
// limit. Total always reports every user with a non-zero count.
func (uc *GetLeaderboardUseCase) Execute(ctx context.Context, in GetLeaderboardInput) (*domain.Leaderboard, error) {
	if in.GroupID == "" {
		return nil, ErrInvalidInput
	}
	mode, err := domain.ParseMode(in.Mode)
	if err != nil {
		return nil, ErrInvalidMode
	}
	limit := in.Limit
	if limit <= 0 {
		limit = uc.topN
	}

	keys := uc.clock.Keys()
	var (
		board domain.Leaderboard
		empty bool
	)
	err = uc.counters.View(ctx, in.GroupID, func(m domain.GroupCounterMap) {
		empty = len(m) == 0
		board = engine.ComputeLeaderboard(m, mode, keys)
	})
	if err != nil {
		return nil, unavailable(err)
	}

	if empty {
		return nil, ErrNoGroupData
	}
	if board.Total == 0 {
		return nil, ErrEmptyLeaderboard
	}
	if len(board.Entries) > limit {
		board.Entries = board.Entries[:limit]
	}
	return &board, nil
}
