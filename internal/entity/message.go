package entity

import "time"

type MessageType string

const (
	MessageTypeDirect MessageType = "direct"
	MessageTypeGroup  MessageType = "group"
)

func (t MessageType) Valid() bool {
	return t == MessageTypeDirect || t == MessageTypeGroup
}

// ChatType returns the chat entity kind this message type targets.
func (t MessageType) ChatType() ChatType {
	if t == MessageTypeGroup {
		return ChatTypeGroup
	}
	return ChatTypeDirect
}

type Message struct {
	ID                string      `bson:"_id"`
	Sender            string      `bson:"sender"`
	ChatID            string      `bson:"chatId"`
	Type              MessageType `bson:"type"`
	MessageText       string      `bson:"messageText,omitempty"`
	MessageAttachment []string    `bson:"messageAttachment"`
	ReadBy            []string    `bson:"readBy"`
	IsDeleted         bool        `bson:"isDeleted"`
	ReplyTo           *string     `bson:"replyTo,omitempty"`
	CreatedAt         time.Time   `bson:"createdAt"`
	UpdatedAt         time.Time   `bson:"updatedAt"`
}

func (m *Message) ReadByUser(userID string) bool {
	for _, id := range m.ReadBy {
		if id == userID {
			return true
		}
	}
	return false
}

// HasContent reports whether the message carries text or at least one
// attachment. A message with neither is invalid at creation.
func (m *Message) HasContent() bool {
	return m.MessageText != "" || len(m.MessageAttachment) > 0
}

func (m *Message) PlainRecord() map[string]interface{} {
	record := map[string]interface{}{
		"id":                m.ID,
		"sender":            m.Sender,
		"chatId":            m.ChatID,
		"type":              string(m.Type),
		"messageText":       m.MessageText,
		"messageAttachment": m.MessageAttachment,
		"readBy":            m.ReadBy,
		"isDeleted":         m.IsDeleted,
		"createdAt":         m.CreatedAt,
	}
	if m.ReplyTo != nil {
		record["replyTo"] = *m.ReplyTo
	}
	return record
}
