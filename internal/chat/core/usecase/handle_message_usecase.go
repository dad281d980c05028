package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"chat-ranking-service/internal/chat/core/domain"
	"chat-ranking-service/internal/chat/core/ports"
	rankdomain "chat-ranking-service/internal/ranking/core/domain"
	rankusecase "chat-ranking-service/internal/ranking/core/usecase"
)

var ErrInvalidMessage = errors.New("chat_id is required")

type RecordActivityUseCase interface {
	Execute(ctx context.Context, in rankusecase.RecordActivityInput) (rankdomain.UserCounters, error)
}

type GetLeaderboardUseCase interface {
	Execute(ctx context.Context, in rankusecase.GetLeaderboardInput) (*rankdomain.Leaderboard, error)
}

type GetUserRankUseCase interface {
	Execute(ctx context.Context, in rankusecase.GetUserRankInput) (*rankdomain.UserRank, error)
}

// HandleMessageUseCase feeds group messages into the ranking counters and
// answers the ranking commands.
type HandleMessageUseCase struct {
	recordUC      RecordActivityUseCase
	leaderboardUC GetLeaderboardUseCase
	rankUC        GetUserRankUseCase
	prefix        string
	logger        zerolog.Logger
}

func NewHandleMessageUseCase(
	recordUC RecordActivityUseCase,
	leaderboardUC GetLeaderboardUseCase,
	rankUC GetUserRankUseCase,
	prefix string,
	logger zerolog.Logger,
) *HandleMessageUseCase {
	if prefix == "" {
		prefix = domain.DefaultCommandPrefix
	}
	return &HandleMessageUseCase{
		recordUC:      recordUC,
		leaderboardUC: leaderboardUC,
		rankUC:        rankUC,
		prefix:        prefix,
		logger:        logger.With().Str("component", "chat_handler").Logger(),
	}
}

// Execute processes one message. The returned reply is nil when the message
// needs no answer.
func (uc *HandleMessageUseCase) Execute(ctx context.Context, msg domain.Message) (*domain.Reply, error) {
	if msg.ChatID == "" {
		return nil, ErrInvalidMessage
	}
	reply, _, err := uc.handle(ctx, msg)
	return reply, err
}

// HandleAndSend processes msg and hands any reply to sink.
func (uc *HandleMessageUseCase) HandleAndSend(ctx context.Context, msg domain.Message, sink ports.ReplySinkPort) error {
	reply, err := uc.Execute(ctx, msg)
	if err != nil || reply == nil {
		return err
	}
	if err := sink.Send(ctx, *reply); err != nil {
		return fmt.Errorf("send reply to %s: %w", reply.ChatID, err)
	}
	return nil
}

type HandleBatchInput struct {
	Messages []domain.Message
}

type HandleBatchResult struct {
	Handled  int
	Recorded int
	Replies  []domain.Reply
}

// HandleBatch validates every message before processing any of them.
func (uc *HandleMessageUseCase) HandleBatch(ctx context.Context, in HandleBatchInput) (HandleBatchResult, error) {
	for _, m := range in.Messages {
		if m.ChatID == "" {
			return HandleBatchResult{}, ErrInvalidMessage
		}
	}

	var res HandleBatchResult
	for _, m := range in.Messages {
		reply, recorded, err := uc.handle(ctx, m)
		if err != nil {
			return res, err
		}
		res.Handled++
		if recorded {
			res.Recorded++
		}
		if reply != nil {
			res.Replies = append(res.Replies, *reply)
		}
	}
	return res, nil
}

func (uc *HandleMessageUseCase) handle(ctx context.Context, msg domain.Message) (*domain.Reply, bool, error) {
	recorded := uc.record(ctx, msg)

	cmd, ok := domain.ParseCommand(msg.Text, uc.prefix)
	if !ok {
		return nil, recorded, nil
	}

	var (
		reply *domain.Reply
		err   error
	)
	switch cmd.Name {
	case "ranking", "daily", "weekly":
		if !msg.IsGroup {
			return textReply(msg, textRankingGroups), recorded, nil
		}
		reply, err = uc.leaderboard(ctx, msg, cmd)
	case "rank", "myrank":
		if !msg.IsGroup {
			return textReply(msg, textCommandGroups), recorded, nil
		}
		reply, err = uc.myRank(ctx, msg)
	default:
		return nil, recorded, nil
	}
	return reply, recorded, err
}

// record counts the message for its sender. Failures are logged and never
// block command handling.
func (uc *HandleMessageUseCase) record(ctx context.Context, msg domain.Message) bool {
	if !msg.IsGroup || msg.FromSelf {
		return false
	}
	_, err := uc.recordUC.Execute(ctx, rankusecase.RecordActivityInput{
		GroupID: msg.ChatID,
		UserID:  msg.Sender(),
	})
	if err != nil {
		uc.logger.Error().Err(err).
			Str("group_id", msg.ChatID).
			Str("message_id", msg.ID).
			Msg("record activity failed")
		return false
	}
	return true
}

func (uc *HandleMessageUseCase) leaderboard(ctx context.Context, msg domain.Message, cmd domain.Command) (*domain.Reply, error) {
	mode := commandMode(cmd)
	board, err := uc.leaderboardUC.Execute(ctx, rankusecase.GetLeaderboardInput{
		GroupID: msg.ChatID,
		Mode:    string(mode),
	})
	switch {
	case errors.Is(err, rankusecase.ErrNoGroupData):
		return textReply(msg, textNoGroupData), nil
	case errors.Is(err, rankusecase.ErrEmptyLeaderboard):
		return textReply(msg, textNoModeData(mode)), nil
	case errors.Is(err, rankusecase.ErrUnavailable):
		uc.unavailable(msg, err)
		return textReply(msg, textUnavailable), nil
	case err != nil:
		return nil, fmt.Errorf("leaderboard for %s: %w", msg.ChatID, err)
	}

	text, mentions := formatLeaderboard(board, msg.GroupName)
	return &domain.Reply{
		ChatID:   msg.ChatID,
		Text:     text,
		Mentions: mentions,
		QuotedID: msg.ID,
	}, nil
}

func (uc *HandleMessageUseCase) myRank(ctx context.Context, msg domain.Message) (*domain.Reply, error) {
	rank, err := uc.rankUC.Execute(ctx, rankusecase.GetUserRankInput{
		GroupID: msg.ChatID,
		UserID:  msg.Sender(),
	})
	switch {
	case errors.Is(err, rankusecase.ErrNotFound):
		return textReply(msg, textNoRank), nil
	case errors.Is(err, rankusecase.ErrUnavailable):
		uc.unavailable(msg, err)
		return textReply(msg, textUnavailable), nil
	case err != nil:
		return nil, fmt.Errorf("rank for %s: %w", msg.Sender(), err)
	}

	return &domain.Reply{
		ChatID:   msg.ChatID,
		Text:     formatRankCard(rank),
		Mentions: []string{msg.Sender()},
		QuotedID: msg.ID,
	}, nil
}

func (uc *HandleMessageUseCase) unavailable(msg domain.Message, err error) {
	uc.logger.Warn().Err(err).
		Str("group_id", msg.ChatID).
		Str("message_id", msg.ID).
		Msg("ranking command answered without counters")
}

// commandMode picks the window from the command name first, then from the
// argument text.
func commandMode(cmd domain.Command) rankdomain.Mode {
	args := strings.ToLower(strings.Join(cmd.Args, " "))
	switch {
	case strings.Contains(cmd.Name, "daily") || strings.Contains(args, "daily"):
		return rankdomain.ModeDaily
	case strings.Contains(cmd.Name, "weekly") || strings.Contains(args, "weekly"):
		return rankdomain.ModeWeekly
	default:
		return rankdomain.ModeGlobal
	}
}

func textReply(msg domain.Message, text string) *domain.Reply {
	return &domain.Reply{ChatID: msg.ChatID, Text: text, QuotedID: msg.ID}
}
