package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"chat-ranking-service/internal/ranking/core/domain"
	"chat-ranking-service/internal/ranking/core/ports"
)

var ErrInvalidGroupID = errors.New("invalid group id")

// Store keeps one JSON file per group under root:
//
//	{root}/
//	  {groupID}.json   # {"<userID>": {"global": n, "daily": {...}, "weekly": {...}}}
type Store struct {
	fs     afero.Fs
	root   string
	logger zerolog.Logger
}

var _ ports.GroupStorePort = (*Store)(nil)

// NewStore creates root if it is missing.
func NewStore(fsys afero.Fs, root string, logger zerolog.Logger) (*Store, error) {
	if err := fsys.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create ranking directory: %w", err)
	}
	return &Store{
		fs:     fsys,
		root:   root,
		logger: logger.With().Str("component", "filestore").Logger(),
	}, nil
}

func (s *Store) path(groupID string) (string, error) {
	name := url.PathEscape(groupID)
	if name == "" || name == "." || name == ".." {
		return "", ErrInvalidGroupID
	}
	return filepath.Join(s.root, name+".json"), nil
}

func (s *Store) Load(_ context.Context, groupID string) (domain.GroupCounterMap, error) {
	p, err := s.path(groupID)
	if err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(s.fs, p)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.GroupCounterMap{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}

	var m domain.GroupCounterMap
	if err := json.Unmarshal(data, &m); err != nil {
		s.logger.Warn().Err(err).Str("group_id", groupID).Str("path", p).
			Msg("corrupt ranking file, treating group as empty")
		return domain.GroupCounterMap{}, nil
	}
	if m == nil {
		m = domain.GroupCounterMap{}
	}
	return m, nil
}

// Save writes the map to a temp file in root and renames it over the target,
// so readers never observe a half-written file.
func (s *Store) Save(_ context.Context, groupID string, m domain.GroupCounterMap) error {
	p, err := s.path(groupID)
	if err != nil {
		return err
	}
	if m == nil {
		m = domain.GroupCounterMap{}
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode group %s: %w", groupID, err)
	}

	tmp, err := afero.TempFile(s.fs, s.root, ".ranking-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := s.fs.Rename(tmpName, p); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("rename into %s: %w", p, err)
	}
	return nil
}
