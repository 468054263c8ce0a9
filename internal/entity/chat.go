package entity

import "time"

type ChatType string

const (
	ChatTypeDirect ChatType = "DirectChat"
	ChatTypeGroup  ChatType = "ChatGroup"
)

func (t ChatType) Valid() bool {
	return t == ChatTypeDirect || t == ChatTypeGroup
}

// ChatRef is the per-user bookkeeping entry embedded in the user document.
// One entry per chat the user participates in, unique per (chatId, chatType).
type ChatRef struct {
	ChatID      string     `bson:"chatId" json:"chatId"`
	ChatType    ChatType   `bson:"chatType" json:"chatType"`
	UnreadCount int        `bson:"unreadCount" json:"unreadCount"`
	LastReadAt  *time.Time `bson:"lastReadAt,omitempty" json:"lastReadAt,omitempty"`
}

// DirectChat is a two-party conversation. PairKey is the sorted "a:b" form of
// the participant pair and carries a unique index, so concurrent creates for
// the same pair converge on one document.
type DirectChat struct {
	ID         string    `bson:"_id"`
	FirstUser  string    `bson:"firstUser"`
	SecondUser string    `bson:"secondUser"`
	PairKey    string    `bson:"pairKey"`
	Messages   []string  `bson:"messages"`
	CreatedAt  time.Time `bson:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt"`
}

// OtherUser returns the participant that is not userID.
func (c *DirectChat) OtherUser(userID string) string {
	if c.FirstUser == userID {
		return c.SecondUser
	}
	return c.FirstUser
}

func (c *DirectChat) HasParticipant(userID string) bool {
	return c.FirstUser == userID || c.SecondUser == userID
}

func (c *DirectChat) PlainRecord() map[string]interface{} {
	return map[string]interface{}{
		"id":         c.ID,
		"chatType":   string(ChatTypeDirect),
		"firstUser":  c.FirstUser,
		"secondUser": c.SecondUser,
		"messages":   c.Messages,
		"createdAt":  c.CreatedAt,
		"updatedAt":  c.UpdatedAt,
	}
}

// PairKey builds the order-independent lookup key for a direct-chat pair.
func PairKey(a, b string) string {
	if a < b {
		return a + ":" + b
	}
	return b + ":" + a
}

type ChatGroup struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Members   []string  `bson:"members"`
	Messages  []string  `bson:"messages"`
	IsActive  bool      `bson:"isActive"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func (g *ChatGroup) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// MembersExcept returns all member ids except the given one. Used to fan out
// unread increments to everyone but the sender.
func (g *ChatGroup) MembersExcept(userID string) []string {
	out := make([]string, 0, len(g.Members))
	for _, m := range g.Members {
		if m != userID {
			out = append(out, m)
		}
	}
	return out
}

func (g *ChatGroup) PlainRecord() map[string]interface{} {
	return map[string]interface{}{
		"id":        g.ID,
		"chatType":  string(ChatTypeGroup),
		"name":      g.Name,
		"members":   g.Members,
		"messages":  g.Messages,
		"isActive":  g.IsActive,
		"createdAt": g.CreatedAt,
		"updatedAt": g.UpdatedAt,
	}
}
