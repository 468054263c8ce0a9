package mirror

import (
	"time"

	"github.com/ClinkedIn/Backend-sub001/internal/entity"
)

type EventType string

const (
	EventChatUpserted   EventType = "chat.upserted"
	EventMessageSent    EventType = "message.sent"
	EventMessageEdited  EventType = "message.edited"
	EventMessageDeleted EventType = "message.deleted"
	EventChatRead       EventType = "chat.read"
	EventChatUnread     EventType = "chat.unread"
	EventReadReceipt    EventType = "message.read"
)

// Event is the outbox record emitted after a primary-store commit. The
// consumer applies it to the real-time mirror; the primary write has already
// succeeded by the time an Event exists.
type Event struct {
	Type       EventType
	ChatID     string
	ChatType   entity.ChatType
	SenderID   string
	Recipients []string
	// Record is the PlainRecord form of the touched entity.
	Record map[string]interface{}
	// Unread carries absolute per-user unread counters for read and unread
	// events. Sent messages do not use it; the consumer increments the
	// recipients' counters instead.
	Unread     map[string]int
	OccurredAt time.Time
}
