package model

import "time"

type SendMessageRequest struct {
	Type        string `json:"type" validate:"required,chat_type"`
	MessageText string `json:"messageText"`
	ReceiverID  string `json:"receiverId"`
	ChatID      string `json:"chatId"`
	ReplyTo     string `json:"replyTo"`
}

type EditMessageRequest struct {
	MessageText string `json:"messageText" validate:"required"`
}

type ReplySummary struct {
	ID          string      `json:"id"`
	Sender      UserSummary `json:"sender"`
	MessageText string      `json:"messageText"`
	IsDeleted   bool        `json:"isDeleted"`
}

type MessageResponse struct {
	ID                string        `json:"id"`
	Sender            UserSummary   `json:"sender"`
	ChatID            string        `json:"chatId"`
	Type              string        `json:"type"`
	MessageText       string        `json:"messageText"`
	MessageAttachment []string      `json:"messageAttachment"`
	ReadBy            []string      `json:"readBy"`
	IsDeleted         bool          `json:"isDeleted"`
	ReplyTo           *ReplySummary `json:"replyTo,omitempty"`
	CreatedAt         time.Time     `json:"createdAt"`
}

// MessagePreview is the trimmed form attached to chat-list entries.
type MessagePreview struct {
	ID            string    `json:"id"`
	SenderID      string    `json:"senderId"`
	MessageText   string    `json:"messageText"`
	HasAttachment bool      `json:"hasAttachment"`
	IsDeleted     bool      `json:"isDeleted"`
	CreatedAt     time.Time `json:"createdAt"`
}

type SendMessageResponse struct {
	Message MessageResponse        `json:"message"`
	Chat    map[string]interface{} `json:"chat"`
}

type UnreadCountResponse struct {
	TotalUnread int `json:"totalUnread"`
}
