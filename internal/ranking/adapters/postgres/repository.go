package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"chat-ranking-service/internal/ranking/core/domain"
	"chat-ranking-service/internal/ranking/core/ports"
)

const DefaultTable = "ranking_groups"

// undefined_table
const codeUndefinedTable = "42P01"

type RowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (RowScanner, error)
}

// GroupRepository stores each group's counter map as one JSONB row.
type GroupRepository struct {
	db     DB
	table  string
	logger zerolog.Logger
}

var _ ports.GroupStorePort = (*GroupRepository)(nil)

func NewGroupRepository(db DB, table string, logger zerolog.Logger) *GroupRepository {
	if table == "" {
		table = DefaultTable
	}
	return &GroupRepository{
		db:     db,
		table:  pq.QuoteIdentifier(table),
		logger: logger.With().Str("component", "postgres_store").Logger(),
	}
}

func (r *GroupRepository) EnsureSchema(ctx context.Context) error {
	query := `
CREATE TABLE IF NOT EXISTS ` + r.table + ` (
    group_id   TEXT PRIMARY KEY,
    counters   JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create table %s: %w", r.table, err)
	}
	return nil
}

func (r *GroupRepository) Load(ctx context.Context, groupID string) (domain.GroupCounterMap, error) {
	query := `SELECT counters FROM ` + r.table + ` WHERE group_id = $1`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == codeUndefinedTable {
			return domain.GroupCounterMap{}, nil
		}
		return nil, fmt.Errorf("query group %s: %w", groupID, err)
	}
	defer rows.Close()

	var raw []byte
	found := false
	if rows.Next() {
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan group %s: %w", groupID, err)
		}
		found = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read group %s: %w", groupID, err)
	}
	if !found {
		return domain.GroupCounterMap{}, nil
	}

	var m domain.GroupCounterMap
	if err := json.Unmarshal(raw, &m); err != nil {
		r.logger.Warn().Err(err).Str("group_id", groupID).Msg("corrupt counters row, treating group as empty")
		return domain.GroupCounterMap{}, nil
	}
	if m == nil {
		m = domain.GroupCounterMap{}
	}
	return m, nil
}

func (r *GroupRepository) Save(ctx context.Context, groupID string, m domain.GroupCounterMap) error {
	if m == nil {
		m = domain.GroupCounterMap{}
	}
	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode group %s: %w", groupID, err)
	}

	query := `
INSERT INTO ` + r.table + ` (group_id, counters, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (group_id) DO UPDATE
SET counters = EXCLUDED.counters, updated_at = now()`

	if _, err := r.db.ExecContext(ctx, query, groupID, payload); err != nil {
		return fmt.Errorf("upsert group %s: %w", groupID, err)
	}
	return nil
}
