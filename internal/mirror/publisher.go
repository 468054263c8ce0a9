package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ClinkedIn/Backend-sub001/internal/adapter"
	"github.com/ClinkedIn/Backend-sub001/internal/config"
	"github.com/ClinkedIn/Backend-sub001/internal/helper"
	"github.com/ClinkedIn/Backend-sub001/internal/websocket"
)

// store is the slice of the Redis adapter the mirror writes through.
type store interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

// Publisher is the outbox between the primary store and the real-time
// mirror. Services enqueue events after committing to the primary store; the
// consumer goroutine applies them to Redis with a bounded retry and pushes
// them to connected websocket clients. A mirror failure is logged and
// dropped, never surfaced to the request that produced it.
type Publisher struct {
	events     chan Event
	store      store
	hub        *websocket.Hub
	maxRetries int
	eventTTL   time.Duration
}

func NewPublisher(cfg *config.AppConfig, redis *adapter.RedisAdapter, hub *websocket.Hub) *Publisher {
	p := &Publisher{
		events:     make(chan Event, cfg.MirrorBufferSize),
		hub:        hub,
		maxRetries: cfg.MirrorMaxRetries,
		eventTTL:   time.Duration(cfg.MirrorEventTTLMin) * time.Minute,
	}
	if redis != nil {
		p.store = redis
	}
	return p
}

// Publish enqueues without blocking. When the buffer is full the event is
// dropped; the resync job heals the mirror later.
func (p *Publisher) Publish(event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	select {
	case p.events <- event:
	default:
		slog.Warn("Mirror buffer full, dropping event", "type", event.Type, "chatID", event.ChatID)
	}
}

// Run consumes the outbox until ctx is cancelled.
func (p *Publisher) Run(ctx context.Context) {
	slog.Info("Mirror consumer started")

	for {
		select {
		case <-ctx.Done():
			slog.Info("Mirror consumer stopped")
			return
		case event := <-p.events:
			p.handle(ctx, event)
		}
	}
}

func (p *Publisher) handle(ctx context.Context, event Event) {
	_, err := helper.RetryWithBackoff(func() (struct{}, bool, error) {
		return struct{}{}, true, p.apply(ctx, event)
	}, p.maxRetries, 100*time.Millisecond)
	if err != nil {
		slog.Error("Mirror write failed, event dropped", "type", event.Type, "chatID", event.ChatID, "error", err)
	}

	// Push delivery is independent of the Redis write; a mirror store outage
	// should not silence connected clients.
	p.broadcast(event)
}

func (p *Publisher) apply(ctx context.Context, event Event) error {
	if p.store == nil {
		return nil
	}

	switch event.Type {
	case EventMessageSent:
		if err := p.writeLastMessage(ctx, event); err != nil {
			return err
		}
		return p.bumpUnreadCounters(ctx, event)

	case EventChatUpserted:
		return p.writeChatState(ctx, event)

	case EventMessageEdited, EventMessageDeleted, EventReadReceipt:
		if err := p.writeLastMessage(ctx, event); err != nil {
			return err
		}
		return p.writeUnreadCounters(ctx, event)

	case EventChatRead, EventChatUnread:
		return p.writeUnreadCounters(ctx, event)

	default:
		return fmt.Errorf("unknown mirror event type: %s", event.Type)
	}
}

func (p *Publisher) writeChatState(ctx context.Context, event Event) error {
	data, err := json.Marshal(event.Record)
	if err != nil {
		return err
	}

	key := chatStateKey(event.ChatID)
	if err := p.store.Set(ctx, key, data, p.eventTTL); err != nil {
		return err
	}
	return nil
}

func (p *Publisher) writeLastMessage(ctx context.Context, event Event) error {
	if event.Record == nil {
		return nil
	}

	data, err := json.Marshal(event.Record)
	if err != nil {
		return err
	}

	return p.store.Set(ctx, lastMessageKey(event.ChatID), data, p.eventTTL)
}

func (p *Publisher) writeUnreadCounters(ctx context.Context, event Event) error {
	for userID, count := range event.Unread {
		if err := p.store.Set(ctx, unreadKey(userID, event.ChatID), count, p.eventTTL); err != nil {
			return err
		}
	}
	return nil
}

// bumpUnreadCounters advances each recipient's per-chat counter when a new
// message lands. The increment is not idempotent under retry; the resync job
// corrects any drift.
func (p *Publisher) bumpUnreadCounters(ctx context.Context, event Event) error {
	for _, userID := range event.Recipients {
		key := unreadKey(userID, event.ChatID)
		if _, err := p.store.Incr(ctx, key); err != nil {
			return err
		}
		if err := p.store.Expire(ctx, key, p.eventTTL); err != nil {
			return err
		}
	}
	return nil
}

func (p *Publisher) broadcast(event Event) {
	if p.hub == nil || len(event.Recipients) == 0 {
		return
	}

	wsType, ok := wsEventFor(event.Type)
	if !ok {
		return
	}

	p.hub.BroadcastToUsers(event.Recipients, websocket.Event{
		Type:    wsType,
		Payload: event.Record,
		Meta: &websocket.EventMeta{
			Timestamp: event.OccurredAt.UnixMilli(),
			ChatID:    event.ChatID,
			SenderID:  event.SenderID,
		},
	})
}

func wsEventFor(t EventType) (websocket.EventType, bool) {
	switch t {
	case EventChatUpserted:
		return websocket.EventChatNew, true
	case EventMessageSent:
		return websocket.EventMessageNew, true
	case EventMessageEdited:
		return websocket.EventMessageEdit, true
	case EventMessageDeleted:
		return websocket.EventMessageDelete, true
	case EventChatRead:
		return websocket.EventChatRead, true
	case EventChatUnread:
		return websocket.EventChatUnread, true
	case EventReadReceipt:
		return websocket.EventReadReceipt, true
	default:
		return "", false
	}
}

func chatStateKey(chatID string) string {
	return fmt.Sprintf("mirror:chat:%s", chatID)
}

func lastMessageKey(chatID string) string {
	return fmt.Sprintf("mirror:chat:%s:last_message", chatID)
}

func unreadKey(userID, chatID string) string {
	return fmt.Sprintf("mirror:unread:%s:%s", userID, chatID)
}

// UnreadTotalKey is the per-user total unread key maintained by the resync
// job.
func UnreadTotalKey(userID string) string {
	return fmt.Sprintf("mirror:unread_total:%s", userID)
}
