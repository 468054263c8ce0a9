package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ClinkedIn/Backend-sub001/internal/entity"
	"github.com/ClinkedIn/Backend-sub001/internal/helper"
	"github.com/ClinkedIn/Backend-sub001/internal/repository"
)

// ValidationService holds the guard functions shared by the chat and message
// services. Each guard fails with a typed *helper.AppError carrying the HTTP
// status the transport layer should answer with.
type ValidationService struct {
	repo *repository.Repository
}

func NewValidationService(repo *repository.Repository) *ValidationService {
	return &ValidationService{
		repo: repo,
	}
}

func (v *ValidationService) ValidateUser(ctx context.Context, userID string) (*entity.User, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, helper.NewBadRequestError("User ID is required")
	}

	user, err := v.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, helper.NewNotFoundError("User not found")
		}
		return nil, helper.NewInternalServerError("")
	}
	return user, nil
}

func (v *ValidationService) ValidateChatType(chatType string) (entity.MessageType, error) {
	t := entity.MessageType(chatType)
	if !t.Valid() {
		return "", helper.NewBadRequestError("Invalid chat type")
	}
	return t, nil
}

func (v *ValidationService) ValidateChatID(chatID string) error {
	if strings.TrimSpace(chatID) == "" {
		return helper.NewBadRequestError("Chat ID is required")
	}
	return nil
}

func (v *ValidationService) ValidateMessageContent(text string, attachments []string) error {
	if strings.TrimSpace(text) == "" && len(attachments) == 0 {
		return helper.NewBadRequestError("Message must have text or an attachment")
	}
	return nil
}

func (v *ValidationService) ValidateReplyMessage(ctx context.Context, messageID string) (*entity.Message, error) {
	message, err := v.repo.Message.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, helper.NewNotFoundError("Reply message not found")
		}
		return nil, helper.NewInternalServerError("")
	}
	return message, nil
}

// ValidateChatMembership loads the chat's member set and verifies the
// requester belongs to it. Returns the member ids on success.
func (v *ValidationService) ValidateChatMembership(ctx context.Context, chatType entity.ChatType, chatID, userID string) ([]string, error) {
	var members []string

	switch chatType {
	case entity.ChatTypeDirect:
		chat, err := v.repo.DirectChat.GetByID(ctx, chatID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, helper.NewNotFoundError("Chat not found")
			}
			return nil, helper.NewInternalServerError("")
		}
		members = []string{chat.FirstUser, chat.SecondUser}

	case entity.ChatTypeGroup:
		group, err := v.repo.ChatGroup.GetByID(ctx, chatID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, helper.NewNotFoundError("Chat group not found")
			}
			return nil, helper.NewInternalServerError("")
		}
		members = group.Members

	default:
		return nil, helper.NewBadRequestError("Invalid chat type")
	}

	for _, m := range members {
		if m == userID {
			return members, nil
		}
	}
	return nil, helper.NewForbiddenError("You are not a member of this chat")
}

// ValidateMessageOwner verifies the message exists and that userID is its
// sender. Edit and delete rights belong exclusively to the sender.
func (v *ValidationService) ValidateMessageOwner(ctx context.Context, messageID, userID string) (*entity.Message, error) {
	message, err := v.repo.Message.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, helper.NewNotFoundError("Message not found")
		}
		return nil, helper.NewInternalServerError("")
	}

	if message.Sender != userID {
		return nil, helper.NewForbiddenError("Only the sender can modify this message")
	}
	return message, nil
}

func (v *ValidationService) ValidateGroupChatData(ctx context.Context, creatorID, name string, memberIDs []string) error {
	if strings.TrimSpace(name) == "" {
		return helper.NewBadRequestError("Group name is required")
	}

	// The minimum counts distinct ids; repeated entries collapse to one
	// member and must not satisfy it.
	unique := uniqueStrings(memberIDs)
	if len(unique) < 2 {
		return helper.NewBadRequestError("A group needs at least 2 members besides the creator")
	}
	for _, id := range unique {
		if id == creatorID {
			return helper.NewBadRequestError("Creator must not appear in the member list")
		}
	}

	users, err := v.repo.User.GetByIDs(ctx, unique)
	if err != nil {
		return helper.NewInternalServerError("")
	}
	if len(users) != len(unique) {
		return helper.NewNotFoundError("One or more members not found")
	}

	_, err = v.repo.ChatGroup.FindActiveByName(ctx, name)
	if err == nil {
		return helper.NewConflictError("A group with this name already exists")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return helper.NewInternalServerError("")
	}

	return nil
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
