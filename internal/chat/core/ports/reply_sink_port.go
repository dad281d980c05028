package ports

import (
	"context"

	"chat-ranking-service/internal/chat/core/domain"
)

type ReplySinkPort interface {
	Send(ctx context.Context, reply domain.Reply) error
}
