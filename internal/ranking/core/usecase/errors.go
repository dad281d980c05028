package usecase

import (
	"context"
	"errors"
	"fmt"

	"chat-ranking-service/internal/ranking/core/domain"
	"chat-ranking-service/internal/ranking/core/engine"
)

var (
	ErrInvalidInput     = errors.New("group_id and user_id are required")
	ErrInvalidMode      = errors.New("mode must be one of global, daily, weekly")
	ErrNoGroupData      = errors.New("no ranking data for this group")
	ErrEmptyLeaderboard = errors.New("no activity in the selected window")
	ErrNotFound         = engine.ErrUserNotFound
	ErrUnavailable      = errors.New("group counters are unavailable")
)

// Counters is the slice of CounterCache the use cases need.
type Counters interface {
	Update(ctx context.Context, groupID string, fn func(domain.GroupCounterMap)) error
	View(ctx context.Context, groupID string, fn func(domain.GroupCounterMap)) error
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
