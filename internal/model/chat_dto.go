package model

import "time"

type CreateDirectChatRequest struct {
	OtherUserID string `json:"otherUserId" validate:"required"`
}

// CreateGroupChatRequest carries the creator's chosen name and the other
// members. The min=2 tag is a structural precheck; the service enforces the
// minimum on distinct ids after deduplication.
type CreateGroupChatRequest struct {
	GroupName    string   `json:"groupName" validate:"required"`
	GroupMembers []string `json:"groupMembers" validate:"required,min=2,dive,required"`
}

type ChatResponse struct {
	ID        string    `json:"id"`
	ChatType  string    `json:"chatType"`
	CreatedAt time.Time `json:"createdAt"`
}

type GroupChatResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Members   []string  `json:"members"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// ConversationDay groups one calendar date's messages, chronologically.
type ConversationDay struct {
	Date     string            `json:"date"`
	Messages []MessageResponse `json:"messages"`
}

// ChatDetailResponse is returned by the single-chat endpoints: chat metadata,
// the flat chronological message list, and the date-grouped history.
type ChatDetailResponse struct {
	ID                  string            `json:"id"`
	ChatType            string            `json:"chatType"`
	Name                string            `json:"name,omitempty"`
	Participants        []UserSummary     `json:"participants"`
	Messages            []MessageResponse `json:"messages"`
	ConversationHistory []ConversationDay `json:"conversationHistory"`
	CreatedAt           time.Time         `json:"createdAt"`
	UpdatedAt           time.Time         `json:"updatedAt"`
}

type ChatListItem struct {
	ChatID         string          `json:"chatId"`
	ChatType       string          `json:"chatType"`
	Name           string          `json:"name"`
	OtherUser      *UserSummary    `json:"otherUser,omitempty"`
	Members        []UserSummary   `json:"members,omitempty"`
	LastMessage    *MessagePreview `json:"lastMessage,omitempty"`
	UnreadCount    int             `json:"unreadCount"`
	LastActivityAt time.Time       `json:"lastActivityAt"`
}

type AllChatsResponse struct {
	TotalChats  int            `json:"totalChats"`
	TotalUnread int            `json:"totalUnread"`
	Chats       []ChatListItem `json:"chats"`
}

type MarkChatResponse struct {
	Message string `json:"message"`
}
