package fiber

import "chat-ranking-service/internal/chat/core/domain"

// MessageRequest is one chat message pushed by a bridge.
// @Description Inbound chat message. is_group defaults to the @g.us suffix check on chat_id.
type MessageRequest struct {
	ID        string `json:"id"`
	ChatID    string `json:"chat_id"`
	SenderID  string `json:"sender_id"`
	IsGroup   *bool  `json:"is_group,omitempty"`
	FromSelf  bool   `json:"from_self"`
	Text      string `json:"text"`
	GroupName string `json:"group_name"`
}

func (r MessageRequest) toDomain() domain.Message {
	isGroup := domain.IsGroupChat(r.ChatID)
	if r.IsGroup != nil {
		isGroup = *r.IsGroup
	}
	return domain.Message{
		ID:        r.ID,
		ChatID:    r.ChatID,
		SenderID:  r.SenderID,
		IsGroup:   isGroup,
		FromSelf:  r.FromSelf,
		Text:      r.Text,
		GroupName: r.GroupName,
	}
}

type ReplyResponse struct {
	ChatID   string   `json:"chat_id"`
	Text     string   `json:"text"`
	Mentions []string `json:"mentions,omitempty"`
	QuotedID string   `json:"quoted_id,omitempty"`
}

func toReplyResponse(r domain.Reply) ReplyResponse {
	return ReplyResponse{
		ChatID:   r.ChatID,
		Text:     r.Text,
		Mentions: r.Mentions,
		QuotedID: r.QuotedID,
	}
}

type HandleMessageResponse struct {
	Status string         `json:"status" example:"handled"`
	Reply  *ReplyResponse `json:"reply,omitempty"`
}

type BulkMessagesRequest struct {
	Messages []MessageRequest `json:"messages"`
}

type BulkMessagesResponse struct {
	Handled  int             `json:"handled"`
	Recorded int             `json:"recorded"`
	Replies  []ReplyResponse `json:"replies"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_message"`
	Message string `json:"message" example:"chat_id is required"`
}
