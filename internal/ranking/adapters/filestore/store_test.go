package filestore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-ranking-service/internal/ranking/core/domain"
)

const root = "/data/ranking"

func newTestStore(t *testing.T, fsys afero.Fs) *Store {
	t.Helper()
	s, err := NewStore(fsys, root, zerolog.Nop())
	require.NoError(t, err)
	return s
}

func sampleMap() domain.GroupCounterMap {
	return domain.GroupCounterMap{
		"94770000001@s.whatsapp.net": {
			Global: 42,
			Daily:  domain.DailyCounter{Count: 3, DayKey: "2026-10-19"},
			Weekly: domain.WeeklyCounter{Count: 12, WeekKey: "2026-43"},
		},
		"94770000002@s.whatsapp.net": {
			Global: 1,
			Daily:  domain.DailyCounter{Count: 1, DayKey: "2026-10-18"},
			Weekly: domain.WeeklyCounter{Count: 1, WeekKey: "2026-42"},
		},
	}
}

// --- construction ---

func TestNewStore_CreatesRoot(t *testing.T) {
	fsys := afero.NewMemMapFs()
	newTestStore(t, fsys)

	ok, err := afero.DirExists(fsys, root)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewStore_ReadOnlyFs(t *testing.T) {
	_, err := NewStore(afero.NewReadOnlyFs(afero.NewMemMapFs()), root, zerolog.Nop())
	require.Error(t, err)
}

// --- load ---

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	s := newTestStore(t, afero.NewMemMapFs())

	m, err := s.Load(context.Background(), "unknown@g.us")
	require.NoError(t, err)
	assert.NotNil(t, m)
	assert.Empty(t, m)
}

func TestLoad_CorruptFileIsEmpty(t *testing.T) {
	fsys := afero.NewMemMapFs()
	s := newTestStore(t, fsys)
	require.NoError(t, afero.WriteFile(fsys, filepath.Join(root, "g@g.us.json"), []byte(`{"u1": {"global": `), 0o644))

	m, err := s.Load(context.Background(), "g@g.us")
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestLoad_ExistingFileFormat(t *testing.T) {
	fsys := afero.NewMemMapFs()
	s := newTestStore(t, fsys)
	raw := `{
  "u1@s.whatsapp.net": {
    "global": 7,
    "daily": { "count": 2, "dayKey": "2026-10-19" },
    "weekly": { "count": 5, "weekKey": "2026-43" }
  },
  "u2@s.whatsapp.net": { "global": 3 }
}`
	require.NoError(t, afero.WriteFile(fsys, filepath.Join(root, "g@g.us.json"), []byte(raw), 0o644))

	m, err := s.Load(context.Background(), "g@g.us")
	require.NoError(t, err)
	require.Len(t, m, 2)
	assert.Equal(t, int64(7), m["u1@s.whatsapp.net"].Global)
	assert.Equal(t, "2026-10-19", m["u1@s.whatsapp.net"].Daily.DayKey)
	assert.Equal(t, int64(5), m["u1@s.whatsapp.net"].Weekly.Count)
	assert.Equal(t, int64(3), m["u2@s.whatsapp.net"].Global)
	assert.Empty(t, m["u2@s.whatsapp.net"].Daily.DayKey)
}

// --- save ---

func TestSave_RoundTripAcrossRestart(t *testing.T) {
	fsys := afero.NewMemMapFs()
	ctx := context.Background()
	want := sampleMap()

	require.NoError(t, newTestStore(t, fsys).Save(ctx, "120363000000@g.us", want))

	// A fresh store over the same filesystem simulates a process restart.
	got, err := newTestStore(t, fsys).Load(ctx, "120363000000@g.us")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSave_OverwritesAndLeavesNoTempFiles(t *testing.T) {
	fsys := afero.NewMemMapFs()
	s := newTestStore(t, fsys)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "g@g.us", sampleMap()))
	require.NoError(t, s.Save(ctx, "g@g.us", domain.GroupCounterMap{"only": {Global: 1}}))

	got, err := s.Load(ctx, "g@g.us")
	require.NoError(t, err)
	assert.Equal(t, domain.GroupCounterMap{"only": {Global: 1}}, got)

	entries, err := afero.ReadDir(fsys, root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "g@g.us.json", entries[0].Name())
}

func TestSave_WritesIndentedCamelCaseJSON(t *testing.T) {
	fsys := afero.NewMemMapFs()
	s := newTestStore(t, fsys)

	require.NoError(t, s.Save(context.Background(), "g@g.us", domain.GroupCounterMap{
		"u": {Global: 1, Daily: domain.DailyCounter{Count: 1, DayKey: "2026-10-19"}, Weekly: domain.WeeklyCounter{Count: 1, WeekKey: "2026-43"}},
	}))

	data, err := afero.ReadFile(fsys, filepath.Join(root, "g@g.us.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"u\": {")
	assert.Contains(t, string(data), `"dayKey": "2026-10-19"`)
	assert.Contains(t, string(data), `"weekKey": "2026-43"`)
}

func TestSave_EscapesPathSeparators(t *testing.T) {
	fsys := afero.NewMemMapFs()
	s := newTestStore(t, fsys)

	require.NoError(t, s.Save(context.Background(), "../escape", domain.GroupCounterMap{}))

	ok, err := afero.Exists(fsys, filepath.Join(root, "..%2Fescape.json"))
	require.NoError(t, err)
	assert.True(t, ok)

	err = s.Save(context.Background(), "..", domain.GroupCounterMap{})
	assert.ErrorIs(t, err, ErrInvalidGroupID)
}

type failingRenameFs struct {
	afero.Fs
}

func (failingRenameFs) Rename(_, _ string) error {
	return &os.LinkError{Op: "rename", Err: errors.New("no space left on device")}
}

func TestSave_RenameFailureCleansUp(t *testing.T) {
	base := afero.NewMemMapFs()
	s := newTestStore(t, failingRenameFs{Fs: base})

	err := s.Save(context.Background(), "g@g.us", sampleMap())
	require.Error(t, err)

	entries, err := afero.ReadDir(base, root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
