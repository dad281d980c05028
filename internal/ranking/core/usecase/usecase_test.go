package usecase_test

import (
	"context"
	"errors"
	"testing"

	"chat-ranking-service/internal/ranking/core/domain"
	"chat-ranking-service/internal/ranking/core/usecase"
)

// fakeCounters implements usecase.Counters over plain maps.
type fakeCounters struct {
	groups  map[string]domain.GroupCounterMap
	updates int
	views   int
	err     error
}

func newFakeCounters() *fakeCounters {
	return &fakeCounters{groups: map[string]domain.GroupCounterMap{}}
}

func (f *fakeCounters) group(id string) domain.GroupCounterMap {
	m, ok := f.groups[id]
	if !ok {
		m = domain.GroupCounterMap{}
		f.groups[id] = m
	}
	return m
}

func (f *fakeCounters) Update(_ context.Context, groupID string, fn func(domain.GroupCounterMap)) error {
	f.updates++
	if f.err != nil {
		return f.err
	}
	fn(f.group(groupID))
	return nil
}

func (f *fakeCounters) View(_ context.Context, groupID string, fn func(domain.GroupCounterMap)) error {
	f.views++
	if f.err != nil {
		return f.err
	}
	fn(f.group(groupID))
	return nil
}

// fixedClock implements ports.WindowClockPort.
type fixedClock struct {
	keys domain.WindowKeys
}

func (c *fixedClock) Keys() domain.WindowKeys { return c.keys }

func newClock() *fixedClock {
	return &fixedClock{keys: domain.WindowKeys{Day: "2026-10-19", Week: "2026-43"}}
}

// ------------------------------------------------------------
// RECORD ACTIVITY
// ------------------------------------------------------------

func TestRecordActivity_Success(t *testing.T) {
	counters := newFakeCounters()
	uc := usecase.NewRecordActivityUseCase(counters, newClock())

	got, err := uc.Execute(context.Background(), usecase.RecordActivityInput{GroupID: "g@g.us", UserID: "u1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Global != 1 || got.Daily.Count != 1 || got.Weekly.Count != 1 {
		t.Fatalf("unexpected counters: %+v", got)
	}
	if counters.updates != 1 {
		t.Fatalf("expected 1 Update call, got %d", counters.updates)
	}
}

func TestRecordActivity_InvalidInput(t *testing.T) {
	counters := newFakeCounters()
	uc := usecase.NewRecordActivityUseCase(counters, newClock())

	tests := []usecase.RecordActivityInput{
		{GroupID: "", UserID: "u1"},
		{GroupID: "g", UserID: ""},
	}
	for _, in := range tests {
		_, err := uc.Execute(context.Background(), in)
		if !errors.Is(err, usecase.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	}
	if counters.updates != 0 {
		t.Fatalf("counters must not be touched on invalid input")
	}
}

func TestBulkRecordActivity_ValidatesBeforeRecording(t *testing.T) {
	counters := newFakeCounters()
	uc := usecase.NewRecordActivityUseCase(counters, newClock())

	_, err := uc.BulkExecute(context.Background(), usecase.BulkRecordActivityInput{
		Activities: []usecase.RecordActivityInput{
			{GroupID: "g", UserID: "u1"},
			{GroupID: "g", UserID: ""},
		},
	})
	if !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if counters.updates != 0 {
		t.Fatalf("expected 0 Update calls, got %d", counters.updates)
	}
}

func TestBulkRecordActivity_AllRecorded(t *testing.T) {
	counters := newFakeCounters()
	uc := usecase.NewRecordActivityUseCase(counters, newClock())

	n, err := uc.BulkExecute(context.Background(), usecase.BulkRecordActivityInput{
		Activities: []usecase.RecordActivityInput{
			{GroupID: "g", UserID: "u1"},
			{GroupID: "g", UserID: "u1"},
			{GroupID: "g", UserID: "u2"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 recorded, got %d", n)
	}
	if counters.groups["g"]["u1"].Global != 2 {
		t.Fatalf("expected u1 global=2, got %d", counters.groups["g"]["u1"].Global)
	}
}

// ------------------------------------------------------------
// LEADERBOARD
// ------------------------------------------------------------

func seed(counters *fakeCounters, clock *fixedClock, groupID string, activity map[string]int) {
	uc := usecase.NewRecordActivityUseCase(counters, clock)
	for user, n := range activity {
		for i := 0; i < n; i++ {
			_, _ = uc.Execute(context.Background(), usecase.RecordActivityInput{GroupID: groupID, UserID: user})
		}
	}
}

func TestGetLeaderboard_Success(t *testing.T) {
	counters := newFakeCounters()
	clock := newClock()
	seed(counters, clock, "g", map[string]int{"A": 3, "B": 1})

	uc := usecase.NewGetLeaderboardUseCase(counters, clock, 0)
	board, err := uc.Execute(context.Background(), usecase.GetLeaderboardInput{GroupID: "g"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if board.Mode != domain.ModeGlobal {
		t.Fatalf("expected global mode, got %s", board.Mode)
	}
	if board.Total != 2 || board.Entries[0].UserID != "A" || board.Entries[0].Count != 3 {
		t.Fatalf("unexpected board: %+v", board)
	}
}

func TestGetLeaderboard_Truncates(t *testing.T) {
	counters := newFakeCounters()
	clock := newClock()
	activity := map[string]int{}
	for _, u := range []string{"a", "b", "c", "d", "e"} {
		activity[u] = 1
	}
	seed(counters, clock, "g", activity)

	uc := usecase.NewGetLeaderboardUseCase(counters, clock, 3)
	board, err := uc.Execute(context.Background(), usecase.GetLeaderboardInput{GroupID: "g"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(board.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(board.Entries))
	}
	if board.Total != 5 {
		t.Fatalf("expected total=5, got %d", board.Total)
	}

	board, err = uc.Execute(context.Background(), usecase.GetLeaderboardInput{GroupID: "g", Limit: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(board.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(board.Entries))
	}
}

func TestGetLeaderboard_NoGroupData(t *testing.T) {
	uc := usecase.NewGetLeaderboardUseCase(newFakeCounters(), newClock(), 0)

	board, err := uc.Execute(context.Background(), usecase.GetLeaderboardInput{GroupID: "g"})
	if !errors.Is(err, usecase.ErrNoGroupData) {
		t.Fatalf("expected ErrNoGroupData, got %v", err)
	}
	if board != nil {
		t.Fatalf("expected nil board on error")
	}
}

func TestGetLeaderboard_EmptyWindow(t *testing.T) {
	counters := newFakeCounters()
	clock := newClock()
	seed(counters, clock, "g", map[string]int{"A": 2})

	clock.keys = domain.WindowKeys{Day: "2026-10-20", Week: "2026-43"}
	uc := usecase.NewGetLeaderboardUseCase(counters, clock, 0)

	_, err := uc.Execute(context.Background(), usecase.GetLeaderboardInput{GroupID: "g", Mode: "daily"})
	if !errors.Is(err, usecase.ErrEmptyLeaderboard) {
		t.Fatalf("expected ErrEmptyLeaderboard, got %v", err)
	}

	board, err := uc.Execute(context.Background(), usecase.GetLeaderboardInput{GroupID: "g", Mode: "weekly"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if board.Total != 1 {
		t.Fatalf("expected weekly total=1, got %d", board.Total)
	}
}

func TestGetLeaderboard_InvalidInput(t *testing.T) {
	counters := newFakeCounters()
	uc := usecase.NewGetLeaderboardUseCase(counters, newClock(), 0)

	if _, err := uc.Execute(context.Background(), usecase.GetLeaderboardInput{}); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := uc.Execute(context.Background(), usecase.GetLeaderboardInput{GroupID: "g", Mode: "monthly"}); !errors.Is(err, usecase.ErrInvalidMode) {
		t.Fatalf("expected ErrInvalidMode, got %v", err)
	}
	if counters.views != 0 {
		t.Fatalf("counters should not be read on invalid input")
	}
}

// ------------------------------------------------------------
// USER RANK
// ------------------------------------------------------------

func TestGetUserRank_Success(t *testing.T) {
	counters := newFakeCounters()
	clock := newClock()
	seed(counters, clock, "g", map[string]int{"A": 3, "B": 5, "C": 1})

	uc := usecase.NewGetUserRankUseCase(counters, clock)
	rank, err := uc.Execute(context.Background(), usecase.GetUserRankInput{GroupID: "g", UserID: "A"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rank.Rank != 2 || rank.Total != 3 || rank.Global != 3 {
		t.Fatalf("unexpected rank: %+v", rank)
	}
}

func TestGetUserRank_NotFound(t *testing.T) {
	uc := usecase.NewGetUserRankUseCase(newFakeCounters(), newClock())

	rank, err := uc.Execute(context.Background(), usecase.GetUserRankInput{GroupID: "g", UserID: "ghost"})
	if !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if rank != nil {
		t.Fatalf("expected nil rank on error")
	}
}

// ------------------------------------------------------------
// UNAVAILABLE COUNTERS
// ------------------------------------------------------------

func TestUseCases_LoadFailureIsUnavailable(t *testing.T) {
	counters := newFakeCounters()
	counters.err = errors.New("connection refused")
	ctx := context.Background()

	_, err := usecase.NewRecordActivityUseCase(counters, newClock()).
		Execute(ctx, usecase.RecordActivityInput{GroupID: "g@g.us", UserID: "u1"})
	if !errors.Is(err, usecase.ErrUnavailable) {
		t.Fatalf("record: expected ErrUnavailable, got %v", err)
	}

	_, err = usecase.NewGetLeaderboardUseCase(counters, newClock(), 0).
		Execute(ctx, usecase.GetLeaderboardInput{GroupID: "g@g.us"})
	if !errors.Is(err, usecase.ErrUnavailable) {
		t.Fatalf("leaderboard: expected ErrUnavailable, got %v", err)
	}
	if errors.Is(err, usecase.ErrNoGroupData) {
		t.Fatalf("a failed load must not look like an empty group")
	}

	_, err = usecase.NewGetUserRankUseCase(counters, newClock()).
		Execute(ctx, usecase.GetUserRankInput{GroupID: "g@g.us", UserID: "u1"})
	if !errors.Is(err, usecase.ErrUnavailable) {
		t.Fatalf("rank: expected ErrUnavailable, got %v", err)
	}
	if len(counters.groups) != 0 {
		t.Fatalf("no group may be touched when loading fails")
	}
}
