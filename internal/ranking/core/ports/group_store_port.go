package ports

import (
	"context"

	"chat-ranking-service/internal/ranking/core/domain"
)

type GroupStorePort interface {
	// Load:
	//   snapshot missing -> empty map, nil
	//   snapshot corrupt -> empty map, nil (logged by the adapter)
	//   backend failure  -> nil, err
	Load(ctx context.Context, groupID string) (domain.GroupCounterMap, error)

	// Save overwrites the snapshot for groupID with the full map.
	Save(ctx context.Context, groupID string, m domain.GroupCounterMap) error
}

// WindowClockPort yields the current day and week bucket keys.
type WindowClockPort interface {
	Keys() domain.WindowKeys
}
