package service

import (
	"github.com/ClinkedIn/Backend-sub001/internal/entity"
	"github.com/ClinkedIn/Backend-sub001/internal/model"
)

func toUserSummary(user *entity.User) model.UserSummary {
	if user == nil {
		return model.UserSummary{}
	}
	return model.UserSummary{
		ID:             user.ID,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Headline:       user.Headline,
		ProfilePicture: user.ProfilePicture,
	}
}

func toMessagePreview(message *entity.Message) *model.MessagePreview {
	if message == nil {
		return nil
	}
	return &model.MessagePreview{
		ID:            message.ID,
		SenderID:      message.Sender,
		MessageText:   message.MessageText,
		HasAttachment: len(message.MessageAttachment) > 0,
		IsDeleted:     message.IsDeleted,
		CreatedAt:     message.CreatedAt,
	}
}

// buildMessageResponses maps message entities to transport form, resolving
// sender profiles and reply-target summaries from the given lookup maps.
func buildMessageResponses(messages []*entity.Message, usersByID map[string]*entity.User, messagesByID map[string]*entity.Message) []model.MessageResponse {
	out := make([]model.MessageResponse, 0, len(messages))

	for _, msg := range messages {
		resp := model.MessageResponse{
			ID:                msg.ID,
			Sender:            toUserSummary(usersByID[msg.Sender]),
			ChatID:            msg.ChatID,
			Type:              string(msg.Type),
			MessageText:       msg.MessageText,
			MessageAttachment: msg.MessageAttachment,
			ReadBy:            msg.ReadBy,
			IsDeleted:         msg.IsDeleted,
			CreatedAt:         msg.CreatedAt,
		}

		if msg.ReplyTo != nil {
			if target, ok := messagesByID[*msg.ReplyTo]; ok {
				resp.ReplyTo = &model.ReplySummary{
					ID:          target.ID,
					Sender:      toUserSummary(usersByID[target.Sender]),
					MessageText: target.MessageText,
					IsDeleted:   target.IsDeleted,
				}
			}
		}

		out = append(out, resp)
	}

	return out
}

func messagesByID(messages []*entity.Message) map[string]*entity.Message {
	out := make(map[string]*entity.Message, len(messages))
	for _, m := range messages {
		out[m.ID] = m
	}
	return out
}

func usersByID(users []*entity.User) map[string]*entity.User {
	out := make(map[string]*entity.User, len(users))
	for _, u := range users {
		out[u.ID] = u
	}
	return out
}
