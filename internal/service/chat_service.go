package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/ClinkedIn/Backend-sub001/internal/entity"
	"github.com/ClinkedIn/Backend-sub001/internal/helper"
	"github.com/ClinkedIn/Backend-sub001/internal/mirror"
	"github.com/ClinkedIn/Backend-sub001/internal/model"
	"github.com/ClinkedIn/Backend-sub001/internal/repository"
)

// markedAsUnread is the sentinel counter value set by the explicit
// mark-as-unread action. It is bookkeeping only; per-message readBy state is
// untouched.
const markedAsUnread = 1

type ChatService struct {
	repo       *repository.Repository
	validation *ValidationService
	mirror     *mirror.Publisher
}

func NewChatService(repo *repository.Repository, validation *ValidationService, mirrorPublisher *mirror.Publisher) *ChatService {
	return &ChatService{
		repo:       repo,
		validation: validation,
		mirror:     mirrorPublisher,
	}
}

func (s *ChatService) GetDirectChat(ctx context.Context, userID, chatID string) (*model.ChatDetailResponse, error) {
	if err := s.validation.ValidateChatID(chatID); err != nil {
		return nil, err
	}

	members, err := s.validation.ValidateChatMembership(ctx, entity.ChatTypeDirect, chatID, userID)
	if err != nil {
		return nil, err
	}

	chat, err := s.repo.DirectChat.GetByID(ctx, chatID)
	if err != nil {
		return nil, helper.NewInternalServerError("")
	}

	messages, participants, err := s.loadConversation(ctx, userID, chatID, entity.ChatTypeDirect, chat.Messages, members)
	if err != nil {
		return nil, err
	}

	return &model.ChatDetailResponse{
		ID:                  chat.ID,
		ChatType:            string(entity.ChatTypeDirect),
		Participants:        participants,
		Messages:            messages,
		ConversationHistory: helper.GroupMessagesByDate(messages),
		CreatedAt:           chat.CreatedAt,
		UpdatedAt:           chat.UpdatedAt,
	}, nil
}

func (s *ChatService) GetGroupChat(ctx context.Context, userID, groupID string) (*model.ChatDetailResponse, error) {
	if err := s.validation.ValidateChatID(groupID); err != nil {
		return nil, err
	}

	members, err := s.validation.ValidateChatMembership(ctx, entity.ChatTypeGroup, groupID, userID)
	if err != nil {
		return nil, err
	}

	group, err := s.repo.ChatGroup.GetByID(ctx, groupID)
	if err != nil {
		return nil, helper.NewInternalServerError("")
	}

	messages, participants, err := s.loadConversation(ctx, userID, groupID, entity.ChatTypeGroup, group.Messages, members)
	if err != nil {
		return nil, err
	}

	return &model.ChatDetailResponse{
		ID:                  group.ID,
		ChatType:            string(entity.ChatTypeGroup),
		Name:                group.Name,
		Participants:        participants,
		Messages:            messages,
		ConversationHistory: helper.GroupMessagesByDate(messages),
		CreatedAt:           group.CreatedAt,
		UpdatedAt:           group.UpdatedAt,
	}, nil
}

// loadConversation fetches and hydrates a chat's messages, marks unread
// messages from other senders as read, and resets the requester's unread
// counter. Fetching a chat is what reads it.
func (s *ChatService) loadConversation(ctx context.Context, userID, chatID string, chatType entity.ChatType, messageIDs []string, memberIDs []string) ([]model.MessageResponse, []model.UserSummary, error) {
	messages, err := s.repo.Message.GetByIDs(ctx, messageIDs)
	if err != nil {
		slog.Error("Failed to load chat messages", "error", err, "chatID", chatID)
		return nil, nil, helper.NewInternalServerError("")
	}

	byID := messagesByID(messages)

	// Reply targets normally live in the same chat, but fetch any that were
	// not part of the reference list.
	var missingReplies []string
	for _, msg := range messages {
		if msg.ReplyTo != nil {
			if _, ok := byID[*msg.ReplyTo]; !ok {
				missingReplies = append(missingReplies, *msg.ReplyTo)
			}
		}
	}
	if len(missingReplies) > 0 {
		replies, err := s.repo.Message.GetByIDs(ctx, missingReplies)
		if err != nil {
			return nil, nil, helper.NewInternalServerError("")
		}
		for _, r := range replies {
			byID[r.ID] = r
		}
	}

	senderIDs := make(map[string]bool, len(memberIDs))
	for _, id := range memberIDs {
		senderIDs[id] = true
	}
	for _, msg := range byID {
		senderIDs[msg.Sender] = true
	}

	users, err := s.repo.User.GetByIDs(ctx, mapKeys(senderIDs))
	if err != nil {
		return nil, nil, helper.NewInternalServerError("")
	}
	userMap := usersByID(users)

	var toMark []string
	for _, msg := range messages {
		if msg.Sender != userID && !msg.ReadByUser(userID) {
			toMark = append(toMark, msg.ID)
		}
	}
	if len(toMark) > 0 {
		if err := s.repo.Message.MarkManyRead(ctx, toMark, userID); err != nil {
			slog.Error("Failed to mark messages read", "error", err, "chatID", chatID)
			return nil, nil, helper.NewInternalServerError("")
		}
		for _, id := range toMark {
			byID[id].ReadBy = append(byID[id].ReadBy, userID)
		}
	}

	now := time.Now().UTC()
	if err := s.repo.User.SetUnread(ctx, userID, chatID, chatType, 0, &now); err != nil && !errors.Is(err, repository.ErrNotFound) {
		slog.Error("Failed to reset unread counter", "error", err, "chatID", chatID, "userID", userID)
		return nil, nil, helper.NewInternalServerError("")
	}

	if s.mirror != nil {
		s.mirror.Publish(mirror.Event{
			Type:       mirror.EventChatRead,
			ChatID:     chatID,
			ChatType:   chatType,
			SenderID:   userID,
			Recipients: memberIDs,
			Unread:     map[string]int{userID: 0},
		})
	}

	responses := buildMessageResponses(messages, userMap, byID)
	helper.SortMessagesChronological(responses)

	participants := make([]model.UserSummary, 0, len(memberIDs))
	for _, id := range memberIDs {
		if u, ok := userMap[id]; ok {
			participants = append(participants, toUserSummary(u))
		}
	}

	return responses, participants, nil
}

func (s *ChatService) GetAllChats(ctx context.Context, userID string) (*model.AllChatsResponse, error) {
	user, err := s.validation.ValidateUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var directIDs, groupIDs []string
	unreadByChat := make(map[string]int, len(user.Chats))
	for _, ref := range user.Chats {
		unreadByChat[ref.ChatID] = ref.UnreadCount
		switch ref.ChatType {
		case entity.ChatTypeDirect:
			directIDs = append(directIDs, ref.ChatID)
		case entity.ChatTypeGroup:
			groupIDs = append(groupIDs, ref.ChatID)
		}
	}

	directChats, err := s.repo.DirectChat.GetByIDs(ctx, directIDs)
	if err != nil {
		return nil, helper.NewInternalServerError("")
	}
	groups, err := s.repo.ChatGroup.GetByIDs(ctx, groupIDs)
	if err != nil {
		return nil, helper.NewInternalServerError("")
	}

	profileIDs := make(map[string]bool)
	var previewIDs []string
	for _, chat := range directChats {
		profileIDs[chat.OtherUser(userID)] = true
		if n := len(chat.Messages); n > 0 {
			previewIDs = append(previewIDs, chat.Messages[n-1])
		}
	}
	for _, group := range groups {
		for _, m := range group.Members {
			profileIDs[m] = true
		}
		if n := len(group.Messages); n > 0 {
			previewIDs = append(previewIDs, group.Messages[n-1])
		}
	}

	profiles, err := s.repo.User.GetByIDs(ctx, mapKeys(profileIDs))
	if err != nil {
		return nil, helper.NewInternalServerError("")
	}
	profileMap := usersByID(profiles)

	previews, err := s.repo.Message.GetByIDs(ctx, previewIDs)
	if err != nil {
		return nil, helper.NewInternalServerError("")
	}
	previewMap := messagesByID(previews)

	items := make([]model.ChatListItem, 0, len(directChats)+len(groups))

	for _, chat := range directChats {
		other := profileMap[chat.OtherUser(userID)]
		item := model.ChatListItem{
			ChatID:         chat.ID,
			ChatType:       string(entity.ChatTypeDirect),
			UnreadCount:    unreadByChat[chat.ID],
			LastActivityAt: chat.UpdatedAt,
		}
		if other != nil {
			summary := toUserSummary(other)
			item.OtherUser = &summary
			item.Name = other.FullName()
		}
		if n := len(chat.Messages); n > 0 {
			if preview, ok := previewMap[chat.Messages[n-1]]; ok {
				item.LastMessage = toMessagePreview(preview)
				item.LastActivityAt = preview.CreatedAt
			}
		}
		items = append(items, item)
	}

	for _, group := range groups {
		item := model.ChatListItem{
			ChatID:         group.ID,
			ChatType:       string(entity.ChatTypeGroup),
			Name:           group.Name,
			UnreadCount:    unreadByChat[group.ID],
			LastActivityAt: group.UpdatedAt,
		}
		for _, m := range group.Members {
			if u, ok := profileMap[m]; ok {
				item.Members = append(item.Members, toUserSummary(u))
			}
		}
		if n := len(group.Messages); n > 0 {
			if preview, ok := previewMap[group.Messages[n-1]]; ok {
				item.LastMessage = toMessagePreview(preview)
				item.LastActivityAt = preview.CreatedAt
			}
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].LastActivityAt.After(items[j].LastActivityAt)
	})

	return &model.AllChatsResponse{
		TotalChats:  len(items),
		TotalUnread: user.TotalUnread(),
		Chats:       items,
	}, nil
}

func (s *ChatService) MarkChatAsRead(ctx context.Context, userID, chatID string) (*model.MarkChatResponse, error) {
	ref, err := s.findChatRef(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.repo.User.SetUnread(ctx, userID, chatID, ref.ChatType, 0, &now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, helper.NewNotFoundError("Chat not found")
		}
		return nil, helper.NewInternalServerError("")
	}

	if s.mirror != nil {
		s.mirror.Publish(mirror.Event{
			Type:       mirror.EventChatRead,
			ChatID:     chatID,
			ChatType:   ref.ChatType,
			SenderID:   userID,
			Recipients: []string{userID},
			Unread:     map[string]int{userID: 0},
		})
	}

	return &model.MarkChatResponse{Message: "Chat marked as read"}, nil
}

func (s *ChatService) MarkChatAsUnread(ctx context.Context, userID, chatID string) (*model.MarkChatResponse, error) {
	ref, err := s.findChatRef(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.User.SetUnread(ctx, userID, chatID, ref.ChatType, markedAsUnread, nil); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, helper.NewNotFoundError("Chat not found")
		}
		return nil, helper.NewInternalServerError("")
	}

	if s.mirror != nil {
		s.mirror.Publish(mirror.Event{
			Type:       mirror.EventChatUnread,
			ChatID:     chatID,
			ChatType:   ref.ChatType,
			SenderID:   userID,
			Recipients: []string{userID},
			Unread:     map[string]int{userID: markedAsUnread},
		})
	}

	return &model.MarkChatResponse{Message: "Chat marked as unread"}, nil
}

func (s *ChatService) findChatRef(ctx context.Context, userID, chatID string) (*entity.ChatRef, error) {
	if err := s.validation.ValidateChatID(chatID); err != nil {
		return nil, err
	}

	user, err := s.validation.ValidateUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range user.Chats {
		if user.Chats[i].ChatID == chatID {
			return &user.Chats[i], nil
		}
	}
	return nil, helper.NewNotFoundError("Chat not found")
}

func mapKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
