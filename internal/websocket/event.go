package websocket

type EventType string

const (
	EventMessageNew    EventType = "message.new"
	EventMessageEdit   EventType = "message.edit"
	EventMessageDelete EventType = "message.delete"

	EventChatNew    EventType = "chat.new"
	EventChatRead   EventType = "chat.read"
	EventChatUnread EventType = "chat.unread"

	EventReadReceipt EventType = "message.read"
)

type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload"`
	Meta    *EventMeta  `json:"meta,omitempty"`
}

type EventMeta struct {
	Timestamp   int64  `json:"timestamp"`
	ChatID      string `json:"chat_id,omitempty"`
	SenderID    string `json:"sender_id,omitempty"`
	UnreadCount int    `json:"unread_count"`
}
