package usecase

import (
	"context"

	"chat-ranking-service/internal/ranking/core/domain"
	"chat-ranking-service/internal/ranking/core/engine"
	"chat-ranking-service/internal/ranking/core/ports"
)

type RecordActivityUseCase struct {
	counters Counters
	clock    ports.WindowClockPort
}

func NewRecordActivityUseCase(counters Counters, clock ports.WindowClockPort) *RecordActivityUseCase {
	return &RecordActivityUseCase{counters: counters, clock: clock}
}

type RecordActivityInput struct {
	GroupID string
	UserID  string
}

// Execute counts one activity for the user. The group is marked dirty and
// reaches storage on the next flush.
func (uc *RecordActivityUseCase) Execute(ctx context.Context, in RecordActivityInput) (domain.UserCounters, error) {
	if err := validateIDs(in.GroupID, in.UserID); err != nil {
		return domain.UserCounters{}, err
	}

	keys := uc.clock.Keys()
	var out domain.UserCounters
	err := uc.counters.Update(ctx, in.GroupID, func(m domain.GroupCounterMap) {
		out = engine.RecordActivity(m, in.UserID, keys)
	})
	if err != nil {
		return domain.UserCounters{}, unavailable(err)
	}
	return out, nil
}

type BulkRecordActivityInput struct {
	Activities []RecordActivityInput
}

// BulkExecute validates every activity before recording any of them.
func (uc *RecordActivityUseCase) BulkExecute(ctx context.Context, in BulkRecordActivityInput) (int, error) {
	for _, a := range in.Activities {
		if err := validateIDs(a.GroupID, a.UserID); err != nil {
			return 0, err
		}
	}

	recorded := 0
	for _, a := range in.Activities {
		if _, err := uc.Execute(ctx, a); err != nil {
			return recorded, err
		}
		recorded++
	}
	return recorded, nil
}

func validateIDs(groupID, userID string) error {
	if groupID == "" || userID == "" {
		return ErrInvalidInput
	}
	return nil
}
