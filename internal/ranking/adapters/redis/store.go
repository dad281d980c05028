package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"chat-ranking-service/internal/ranking/core/domain"
	"chat-ranking-service/internal/ranking/core/ports"
)

const DefaultKeyPrefix = "ranking:group:"

// Client is the subset of *goredis.Client the store uses.
type Client interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *goredis.StatusCmd
}

// Store keeps each group's counter map as a JSON string under prefix+groupID.
type Store struct {
	client Client
	prefix string
	logger zerolog.Logger
}

var _ ports.GroupStorePort = (*Store)(nil)

func NewStore(client Client, prefix string, logger zerolog.Logger) *Store {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Store{
		client: client,
		prefix: prefix,
		logger: logger.With().Str("component", "redis_store").Logger(),
	}
}

func (s *Store) key(groupID string) string {
	return s.prefix + groupID
}

func (s *Store) Load(ctx context.Context, groupID string) (domain.GroupCounterMap, error) {
	raw, err := s.client.Get(ctx, s.key(groupID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return domain.GroupCounterMap{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", s.key(groupID), err)
	}

	var m domain.GroupCounterMap
	if err := json.Unmarshal(raw, &m); err != nil {
		s.logger.Warn().Err(err).Str("group_id", groupID).Msg("corrupt counters value, treating group as empty")
		return domain.GroupCounterMap{}, nil
	}
	if m == nil {
		m = domain.GroupCounterMap{}
	}
	return m, nil
}

func (s *Store) Save(ctx context.Context, groupID string, m domain.GroupCounterMap) error {
	if m == nil {
		m = domain.GroupCounterMap{}
	}
	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode group %s: %w", groupID, err)
	}
	if err := s.client.Set(ctx, s.key(groupID), payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key(groupID), err)
	}
	return nil
}
