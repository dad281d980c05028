package usecase

import (
	"context"

	"chat-ranking-service/internal/ranking/core/domain"
	"chat-ranking-service/internal/ranking/core/engine"
	"chat-ranking-service/internal/ranking/core/ports"
)

type GetUserRankInput struct {
	GroupID string
	UserID  string
}

type GetUserRankUseCase struct {
	counters Counters
	clock    ports.WindowClockPort
}

func NewGetUserRankUseCase(counters Counters, clock ports.WindowClockPort) *GetUserRankUseCase {
	return &GetUserRankUseCase{counters: counters, clock: clock}
}

func (uc *GetUserRankUseCase) Execute(ctx context.Context, in GetUserRankInput) (*domain.UserRank, error) {
	if err := validateIDs(in.GroupID, in.UserID); err != nil {
		return nil, err
	}

	keys := uc.clock.Keys()
	var (
		rank domain.UserRank
		err  error
	)
	viewErr := uc.counters.View(ctx, in.GroupID, func(m domain.GroupCounterMap) {
		rank, err = engine.ComputeUserRank(m, in.UserID, keys)
	})
	if viewErr != nil {
		return nil, unavailable(viewErr)
	}
	if err != nil {
		return nil, err
	}
	return &rank, nil
}
