package entity

import "time"

type User struct {
	ID             string    `bson:"_id"`
	FirstName      string    `bson:"firstName"`
	LastName       string    `bson:"lastName"`
	Email          string    `bson:"email"`
	PasswordHash   string    `bson:"passwordHash"`
	Headline       string    `bson:"headline,omitempty"`
	ProfilePicture string    `bson:"profilePicture,omitempty"`
	Chats          []ChatRef `bson:"chats"`
	BlockedUsers   []string  `bson:"blockedUsers"`
	CreatedAt      time.Time `bson:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt"`
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// ChatRefFor returns the bookkeeping entry for (chatID, chatType), or nil.
func (u *User) ChatRefFor(chatID string, chatType ChatType) *ChatRef {
	for i := range u.Chats {
		if u.Chats[i].ChatID == chatID && u.Chats[i].ChatType == chatType {
			return &u.Chats[i]
		}
	}
	return nil
}

func (u *User) HasBlocked(userID string) bool {
	for _, id := range u.BlockedUsers {
		if id == userID {
			return true
		}
	}
	return false
}

// TotalUnread sums unread counters across all chat entries. An empty list
// yields 0.
func (u *User) TotalUnread() int {
	total := 0
	for _, ref := range u.Chats {
		total += ref.UnreadCount
	}
	return total
}

// PlainRecord exposes only public profile fields; credentials and
// bookkeeping stay out of transport payloads.
func (u *User) PlainRecord() map[string]interface{} {
	return map[string]interface{}{
		"id":             u.ID,
		"firstName":      u.FirstName,
		"lastName":       u.LastName,
		"headline":       u.Headline,
		"profilePicture": u.ProfilePicture,
	}
}
