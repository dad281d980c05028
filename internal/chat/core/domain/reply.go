package domain

// Reply is an outbound message. QuotedID is the message being answered.
type Reply struct {
	ChatID   string
	Text     string
	Mentions []string
	QuotedID string
}
