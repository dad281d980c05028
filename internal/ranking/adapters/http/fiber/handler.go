package fiber

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"chat-ranking-service/internal/ranking/core/cache"
	"chat-ranking-service/internal/ranking/core/domain"
	"chat-ranking-service/internal/ranking/core/usecase"

	"github.com/gofiber/fiber/v2"
)

type GetLeaderboardUseCase interface {
	Execute(ctx context.Context, in usecase.GetLeaderboardInput) (*domain.Leaderboard, error)
}

type GetUserRankUseCase interface {
	Execute(ctx context.Context, in usecase.GetUserRankInput) (*domain.UserRank, error)
}

type RecordActivityUseCase interface {
	Execute(ctx context.Context, in usecase.RecordActivityInput) (domain.UserCounters, error)
}

type StatsProvider interface {
	Stats() cache.Stats
}

type RankingHandler struct {
	leaderboardUC GetLeaderboardUseCase
	rankUC        GetUserRankUseCase
	recordUC      RecordActivityUseCase
	stats         StatsProvider
}

func NewRankingHandler(
	leaderboardUC GetLeaderboardUseCase,
	rankUC GetUserRankUseCase,
	recordUC RecordActivityUseCase,
	stats StatsProvider,
) *RankingHandler {
	return &RankingHandler{
		leaderboardUC: leaderboardUC,
		rankUC:        rankUC,
		recordUC:      recordUC,
		stats:         stats,
	}
}

// Register mounts the ranking routes on r.
func (h *RankingHandler) Register(r fiber.Router) {
	r.Get("/healthz", h.Health)
	r.Get("/groups/:groupId/leaderboard", h.GetLeaderboard)
	r.Get("/groups/:groupId/users/:userId/rank", h.GetUserRank)
	r.Post("/groups/:groupId/activity", h.RecordActivity)
}

// GetLeaderboard godoc
// @Summary Group leaderboard
// @Description Returns the top users of a group by global, daily or weekly message count
// @Tags Ranking
// @Produce json
// @Param groupId path string true "Group chat ID"
// @Param mode query string false "Mode: global | daily | weekly"
// @Param limit query int false "Maximum entries (default 15)"
// @Success 200 {object} LeaderboardResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /groups/{groupId}/leaderboard [get]
func (h *RankingHandler) GetLeaderboard(c *fiber.Ctx) error {
	limit := 0
	if raw := c.Query("limit", ""); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
				Error:   "invalid_limit",
				Message: "limit must be a non-negative integer",
			})
		}
		limit = n
	}

	groupID := c.Params("groupId")
	board, err := h.leaderboardUC.Execute(c.UserContext(), usecase.GetLeaderboardInput{
		GroupID: groupID,
		Mode:    c.Query("mode", ""),
		Limit:   limit,
	})
	if err != nil {
		return writeError(c, err)
	}

	resp := LeaderboardResponse{
		GroupID: groupID,
		Mode:    string(board.Mode),
		Entries: make([]LeaderboardEntryResponse, 0, len(board.Entries)),
		Total:   board.Total,
	}
	for i, e := range board.Entries {
		resp.Entries = append(resp.Entries, LeaderboardEntryResponse{
			Position: i + 1,
			UserID:   e.UserID,
			Count:    e.Count,
		})
	}
	return c.Status(http.StatusOK).JSON(resp)
}

// GetUserRank godoc
// @Summary User rank
// @Description Returns a user's global rank and current counters in a group
// @Tags Ranking
// @Produce json
// @Param groupId path string true "Group chat ID"
// @Param userId path string true "User ID"
// @Success 200 {object} UserRankResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /groups/{groupId}/users/{userId}/rank [get]
func (h *RankingHandler) GetUserRank(c *fiber.Ctx) error {
	groupID := c.Params("groupId")
	rank, err := h.rankUC.Execute(c.UserContext(), usecase.GetUserRankInput{
		GroupID: groupID,
		UserID:  c.Params("userId"),
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(http.StatusOK).JSON(UserRankResponse{
		GroupID: groupID,
		UserID:  rank.UserID,
		Rank:    rank.Rank,
		Total:   rank.Total,
		Global:  rank.Global,
		Daily:   rank.Daily,
		Weekly:  rank.Weekly,
	})
}

// RecordActivity godoc
// @Summary Record activity
// @Description Counts one message for a user. Counters reach storage on the next flush.
// @Tags Ranking
// @Accept json
// @Produce json
// @Param groupId path string true "Group chat ID"
// @Param request body RecordActivityRequest true "Activity payload"
// @Success 202 {object} RecordActivityResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /groups/{groupId}/activity [post]
func (h *RankingHandler) RecordActivity(c *fiber.Ctx) error {
	var req RecordActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid_json",
		})
	}

	counters, err := h.recordUC.Execute(c.UserContext(), usecase.RecordActivityInput{
		GroupID: c.Params("groupId"),
		UserID:  req.UserID,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(http.StatusAccepted).JSON(RecordActivityResponse{
		Status: "accepted",
		Global: counters.Global,
		Daily:  counters.Daily.Count,
		Weekly: counters.Weekly.Count,
	})
}

// Health godoc
// @Summary Health check
// @Tags Ops
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func (h *RankingHandler) Health(c *fiber.Ctx) error {
	resp := HealthResponse{Status: "ok"}
	if h.stats != nil {
		s := h.stats.Stats()
		resp.Groups = s.Groups
		resp.DirtyGroups = s.Dirty
	}
	return c.Status(http.StatusOK).JSON(resp)
}

func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_input",
			Message: err.Error(),
		})
	case errors.Is(err, usecase.ErrInvalidMode):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_mode",
			Message: err.Error(),
		})
	case errors.Is(err, usecase.ErrNoGroupData):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Error:   "no_data",
			Message: err.Error(),
		})
	case errors.Is(err, usecase.ErrEmptyLeaderboard):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Error:   "empty_leaderboard",
			Message: err.Error(),
		})
	case errors.Is(err, usecase.ErrNotFound):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	case errors.Is(err, usecase.ErrUnavailable):
		return c.Status(http.StatusServiceUnavailable).JSON(ErrorResponse{
			Error:   "unavailable",
			Message: usecase.ErrUnavailable.Error(),
		})
	default:
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}
}
