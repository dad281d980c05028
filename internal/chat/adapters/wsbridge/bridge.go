// Package wsbridge connects the chat use case to a chat-protocol bridge
// that streams messages over a websocket and accepts replies on the same
// connection.
package wsbridge

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"chat-ranking-service/internal/chat/core/domain"
	"chat-ranking-service/internal/chat/core/ports"
)

const DefaultRetryDelay = 5 * time.Second

var ErrNotConnected = errors.New("bridge is not connected")

type MessageHandler interface {
	HandleAndSend(ctx context.Context, msg domain.Message, sink ports.ReplySinkPort) error
}

// messageFrame is what the bridge pushes for every inbound message.
type messageFrame struct {
	ID        string `json:"id"`
	ChatID    string `json:"chat_id"`
	SenderID  string `json:"sender_id"`
	IsGroup   *bool  `json:"is_group,omitempty"`
	FromSelf  bool   `json:"from_self"`
	Text      string `json:"text"`
	GroupName string `json:"group_name"`
}

func (f messageFrame) toDomain() domain.Message {
	isGroup := domain.IsGroupChat(f.ChatID)
	if f.IsGroup != nil {
		isGroup = *f.IsGroup
	}
	return domain.Message{
		ID:        f.ID,
		ChatID:    f.ChatID,
		SenderID:  f.SenderID,
		IsGroup:   isGroup,
		FromSelf:  f.FromSelf,
		Text:      f.Text,
		GroupName: f.GroupName,
	}
}

type replyFrame struct {
	Type     string   `json:"type"`
	ChatID   string   `json:"chat_id"`
	Text     string   `json:"text"`
	Mentions []string `json:"mentions,omitempty"`
	QuotedID string   `json:"quoted_id,omitempty"`
}

// Bridge is a reconnecting websocket client. It is also the ReplySink the
// handler answers through.
type Bridge struct {
	url        string
	header     http.Header
	handler    MessageHandler
	dialer     *websocket.Dialer
	clock      quartz.Clock
	retryDelay time.Duration
	logger     zerolog.Logger

	mu   sync.Mutex
	conn *websocket.Conn
}

var _ ports.ReplySinkPort = (*Bridge)(nil)

type Option func(*Bridge)

func WithRetryDelay(d time.Duration) Option {
	return func(b *Bridge) {
		if d > 0 {
			b.retryDelay = d
		}
	}
}

func WithClock(clk quartz.Clock) Option {
	return func(b *Bridge) { b.clock = clk }
}

func WithHeader(h http.Header) Option {
	return func(b *Bridge) { b.header = h }
}

func NewBridge(url string, handler MessageHandler, logger zerolog.Logger, opts ...Option) *Bridge {
	b := &Bridge{
		url:        url,
		handler:    handler,
		dialer:     websocket.DefaultDialer,
		clock:      quartz.NewReal(),
		retryDelay: DefaultRetryDelay,
		logger:     logger.With().Str("component", "ws_bridge").Str("url", url).Logger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run keeps a connection open until ctx is cancelled, waiting retryDelay
// between attempts.
func (b *Bridge) Run(ctx context.Context) error {
	for {
		err := b.session(ctx)
		if ctx.Err() != nil {
			return nil
		}
		b.logger.Warn().Err(err).Dur("retry_in", b.retryDelay).Msg("bridge disconnected")

		t := b.clock.NewTimer(b.retryDelay, "bridge", "retry")
		select {
		case <-ctx.Done():
			t.Stop()
			return nil
		case <-t.C:
		}
	}
}

func (b *Bridge) session(ctx context.Context) error {
	conn, _, err := b.dialer.DialContext(ctx, b.url, b.header)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	b.setConn(conn)
	defer b.setConn(nil)

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()
	defer conn.Close()

	b.logger.Info().Msg("bridge connected")

	for {
		var frame messageFrame
		if err := conn.ReadJSON(&frame); err != nil {
			return fmt.Errorf("read: %w", err)
		}
		msg := frame.toDomain()
		if err := b.handler.HandleAndSend(ctx, msg, b); err != nil {
			b.logger.Error().Err(err).
				Str("chat_id", msg.ChatID).
				Str("message_id", msg.ID).
				Msg("handle message failed")
		}
	}
}

func (b *Bridge) setConn(c *websocket.Conn) {
	b.mu.Lock()
	b.conn = c
	b.mu.Unlock()
}

// Send writes a reply frame on the current connection.
func (b *Bridge) Send(ctx context.Context, reply domain.Reply) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn == nil {
		return ErrNotConnected
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = b.conn.SetWriteDeadline(deadline)
		defer b.conn.SetWriteDeadline(time.Time{})
	}
	return b.conn.WriteJSON(replyFrame{
		Type:     "reply",
		ChatID:   reply.ChatID,
		Text:     reply.Text,
		Mentions: reply.Mentions,
		QuotedID: reply.QuotedID,
	})
}
