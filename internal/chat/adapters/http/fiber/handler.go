package fiber

import (
	"context"
	"errors"
	"net/http"

	"chat-ranking-service/internal/chat/core/domain"
	"chat-ranking-service/internal/chat/core/usecase"

	"github.com/gofiber/fiber/v2"
)

type HandleMessageUseCase interface {
	Execute(ctx context.Context, msg domain.Message) (*domain.Reply, error)
	HandleBatch(ctx context.Context, in usecase.HandleBatchInput) (usecase.HandleBatchResult, error)
}

type MessageHandler struct {
	uc HandleMessageUseCase
}

func NewMessageHandler(uc HandleMessageUseCase) *MessageHandler {
	return &MessageHandler{uc: uc}
}

func (h *MessageHandler) Register(r fiber.Router) {
	r.Post("/messages", h.HandleMessage)
	r.Post("/messages/bulk", h.HandleMessages)
}

// HandleMessage godoc
// @Summary Ingest a chat message
// @Description Counts group activity and answers ranking commands. The reply, if any, is returned for the bridge to deliver.
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body MessageRequest true "Chat message"
// @Success 200 {object} HandleMessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /messages [post]
func (h *MessageHandler) HandleMessage(c *fiber.Ctx) error {
	var req MessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid_json",
		})
	}

	reply, err := h.uc.Execute(c.UserContext(), req.toDomain())
	if err != nil {
		return writeError(c, err)
	}

	resp := HandleMessageResponse{Status: "handled"}
	if reply != nil {
		r := toReplyResponse(*reply)
		resp.Reply = &r
	}
	return c.Status(http.StatusOK).JSON(resp)
}

// HandleMessages godoc
// @Summary Bulk ingest chat messages
// @Description Processes messages in order and returns every reply produced
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body BulkMessagesRequest true "Chat messages"
// @Success 200 {object} BulkMessagesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /messages/bulk [post]
func (h *MessageHandler) HandleMessages(c *fiber.Ctx) error {
	var req BulkMessagesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid_json",
		})
	}

	if len(req.Messages) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "messages_list_required",
		})
	}

	msgs := make([]domain.Message, len(req.Messages))
	for i, m := range req.Messages {
		msgs[i] = m.toDomain()
	}

	result, err := h.uc.HandleBatch(c.UserContext(), usecase.HandleBatchInput{Messages: msgs})
	if err != nil {
		return writeError(c, err)
	}

	resp := BulkMessagesResponse{
		Handled:  result.Handled,
		Recorded: result.Recorded,
		Replies:  make([]ReplyResponse, 0, len(result.Replies)),
	}
	for _, r := range result.Replies {
		resp.Replies = append(resp.Replies, toReplyResponse(r))
	}
	return c.Status(http.StatusOK).JSON(resp)
}

func writeError(c *fiber.Ctx, err error) error {
	if errors.Is(err, usecase.ErrInvalidMessage) {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_message",
			Message: err.Error(),
		})
	}
	return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
		Error: "internal_server_error",
	})
}
