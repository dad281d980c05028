package domain

import "strings"

const groupChatSuffix = "@g.us"

// Message is one inbound chat message as delivered by a bridge.
type Message struct {
	ID        string
	ChatID    string
	SenderID  string
	IsGroup   bool
	FromSelf  bool
	Text      string
	GroupName string
}

// Sender is the participant that wrote the message. Direct chats carry no
// participant, so the chat ID stands in for it.
func (m Message) Sender() string {
	if m.SenderID != "" {
		return m.SenderID
	}
	return m.ChatID
}

func IsGroupChat(chatID string) bool {
	return strings.HasSuffix(chatID, groupChatSuffix)
}

// MentionName is the part of a JID rendered after "@" in replies.
func MentionName(jid string) string {
	if i := strings.IndexByte(jid, '@'); i >= 0 {
		return jid[:i]
	}
	return jid
}
