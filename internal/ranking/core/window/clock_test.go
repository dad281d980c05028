package window_test

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-ranking-service/internal/ranking/core/window"
)

func colombo(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(window.DefaultTimezone)
	require.NoError(t, err)
	return loc
}

func TestKeysAt_ConvertsToLocation(t *testing.T) {
	// 20:00 UTC is 01:30 the next day in Colombo (UTC+05:30).
	ts := time.Date(2026, 10, 19, 20, 0, 0, 0, time.UTC)

	keys := window.KeysAt(ts, colombo(t))
	assert.Equal(t, "2026-10-20", keys.Day)
	assert.Equal(t, "2026-43", keys.Week)

	utc := window.KeysAt(ts, time.UTC)
	assert.Equal(t, "2026-10-19", utc.Day)
	assert.Equal(t, "2026-43", utc.Week)
}

func TestKeysAt_ISOWeekAcrossYearBoundary(t *testing.T) {
	// 2027-01-01 is a Friday and still belongs to ISO week 53 of 2026.
	keys := window.KeysAt(time.Date(2027, 1, 1, 12, 0, 0, 0, time.UTC), time.UTC)
	assert.Equal(t, "2027-01-01", keys.Day)
	assert.Equal(t, "2026-53", keys.Week)

	// 2027-01-04 is the Monday that opens week 1.
	keys = window.KeysAt(time.Date(2027, 1, 4, 0, 0, 0, 0, time.UTC), time.UTC)
	assert.Equal(t, "2027-01", keys.Week)
}

func TestClock_RollsOverAtLocalMidnight(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mClock := quartz.NewMock(t)
	// 23:59:59 in Colombo.
	mClock.Set(time.Date(2026, 10, 19, 18, 29, 59, 0, time.UTC)).MustWait(ctx)

	clk := window.NewClock(mClock, colombo(t))
	assert.Equal(t, "2026-10-19", clk.DayKey())
	assert.Equal(t, "2026-10-19", clk.DayKey(), "same second must give the same key")

	mClock.Advance(time.Second).MustWait(ctx)
	assert.Equal(t, "2026-10-20", clk.DayKey())
	assert.Equal(t, "2026-43", clk.WeekKey())
}

func TestNewClockForZone_UnknownZone(t *testing.T) {
	_, err := window.NewClockForZone(quartz.NewMock(t), "Mars/Olympus_Mons")
	require.Error(t, err)
}

func TestNewClockForZone_Location(t *testing.T) {
	clk, err := window.NewClockForZone(quartz.NewMock(t), "Europe/Berlin")
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", clk.Location().String())

	assert.Equal(t, time.UTC, window.NewClock(quartz.NewMock(t), nil).Location())
}
