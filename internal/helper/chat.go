package helper

import (
	"sort"

	"github.com/ClinkedIn/Backend-sub001/internal/model"
)

// SortMessagesChronological orders messages oldest first, ties broken by id
// so the order is stable across calls.
func SortMessagesChronological(messages []model.MessageResponse) {
	sort.SliceStable(messages, func(i, j int) bool {
		if messages[i].CreatedAt.Equal(messages[j].CreatedAt) {
			return messages[i].ID < messages[j].ID
		}
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
}

// GroupMessagesByDate buckets an already chronological message list by
// calendar date. Days come out in chronological order too.
func GroupMessagesByDate(messages []model.MessageResponse) []model.ConversationDay {
	days := []model.ConversationDay{}

	for _, msg := range messages {
		date := msg.CreatedAt.UTC().Format("2006-01-02")

		if n := len(days); n > 0 && days[n-1].Date == date {
			days[n-1].Messages = append(days[n-1].Messages, msg)
			continue
		}

		days = append(days, model.ConversationDay{
			Date:     date,
			Messages: []model.MessageResponse{msg},
		})
	}

	return days
}
