package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"time"

	"github.com/ClinkedIn/Backend-sub001/internal/adapter"
	"github.com/ClinkedIn/Backend-sub001/internal/entity"
	"github.com/ClinkedIn/Backend-sub001/internal/helper"
	"github.com/ClinkedIn/Backend-sub001/internal/mirror"
	"github.com/ClinkedIn/Backend-sub001/internal/model"
	"github.com/ClinkedIn/Backend-sub001/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type MessageService struct {
	repo       *repository.Repository
	validator  *validator.Validate
	validation *ValidationService
	storage    *adapter.StorageAdapter
	mirror     *mirror.Publisher
	directChat *DirectChatService
}

func NewMessageService(repo *repository.Repository, validator *validator.Validate, validation *ValidationService, storageAdapter *adapter.StorageAdapter, mirrorPublisher *mirror.Publisher, directChatService *DirectChatService) *MessageService {
	return &MessageService{
		repo:       repo,
		validator:  validator,
		validation: validation,
		storage:    storageAdapter,
		mirror:     mirrorPublisher,
		directChat: directChatService,
	}
}

func (s *MessageService) SendMessage(ctx context.Context, userID string, req model.SendMessageRequest, files []*multipart.FileHeader) (*model.SendMessageResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		slog.Warn("Validation failed", "error", err, "userID", userID)
		return nil, helper.NewBadRequestError("")
	}

	sender, err := s.validation.ValidateUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	msgType, err := s.validation.ValidateChatType(req.Type)
	if err != nil {
		return nil, err
	}

	attachments, err := s.uploadAttachments(ctx, files)
	if err != nil {
		return nil, err
	}

	if err := s.validation.ValidateMessageContent(req.MessageText, attachments); err != nil {
		return nil, err
	}

	var replyTo *string
	var replyTarget *entity.Message
	if req.ReplyTo != "" {
		replyTarget, err = s.validation.ValidateReplyMessage(ctx, req.ReplyTo)
		if err != nil {
			return nil, err
		}
		replyTo = &replyTarget.ID
	}

	chatID, chatRecord, members, err := s.resolveTargetChat(ctx, sender, msgType, req)
	if err != nil {
		return nil, err
	}

	if replyTarget != nil && replyTarget.ChatID != chatID {
		return nil, helper.NewBadRequestError("Reply target belongs to a different chat")
	}

	message := &entity.Message{
		ID:                uuid.New().String(),
		Sender:            userID,
		ChatID:            chatID,
		Type:              msgType,
		MessageText:       req.MessageText,
		MessageAttachment: attachments,
		ReadBy:            []string{},
		ReplyTo:           replyTo,
	}

	if err := s.repo.Message.Create(ctx, message); err != nil {
		slog.Error("Failed to persist message", "error", err)
		return nil, helper.NewInternalServerError("")
	}

	recipients := make([]string, 0, len(members))
	for _, m := range members {
		if m != userID {
			recipients = append(recipients, m)
		}
	}
	for _, recipientID := range recipients {
		if err := s.repo.User.IncrementUnread(ctx, recipientID, chatID, msgType.ChatType()); err != nil {
			slog.Error("Failed to increment unread counter", "error", err, "userID", recipientID, "chatID", chatID)
			return nil, helper.NewInternalServerError("")
		}
	}

	if err := s.appendToChat(ctx, msgType, chatID, message.ID); err != nil {
		slog.Error("Failed to append message to chat", "error", err, "chatID", chatID)
		return nil, helper.NewInternalServerError("")
	}

	if s.mirror != nil {
		s.mirror.Publish(mirror.Event{
			Type:       mirror.EventMessageSent,
			ChatID:     chatID,
			ChatType:   msgType.ChatType(),
			SenderID:   userID,
			Recipients: recipients,
			Record:     message.PlainRecord(),
		})
	}

	responses := buildMessageResponses(
		[]*entity.Message{message},
		map[string]*entity.User{sender.ID: sender},
		replyLookup(replyTarget),
	)

	return &model.SendMessageResponse{
		Message: responses[0],
		Chat:    chatRecord,
	}, nil
}

func (s *MessageService) uploadAttachments(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if s.storage == nil {
		return nil, helper.NewInternalServerError("")
	}

	type upload struct {
		file *multipart.FileHeader
		key  string
	}

	// Classify everything first so an unsupported file rejects the request
	// before any bytes land in object storage.
	uploads := make([]upload, 0, len(files))
	for _, file := range files {
		opened, err := file.Open()
		if err != nil {
			return nil, helper.NewBadRequestError("Unreadable attachment")
		}
		contentType, err := helper.DetectFileContentType(opened)
		opened.Close()
		if err != nil {
			return nil, helper.NewBadRequestError("Unreadable attachment")
		}

		path, err := helper.AttachmentUploadPath(contentType)
		if err != nil {
			return nil, helper.NewBadRequestError("Unsupported attachment type")
		}

		key := fmt.Sprintf("%s/%s", path, helper.GenerateUniqueFileName(file.Filename))
		uploads = append(uploads, upload{file: file, key: key})
	}

	urls := make([]string, 0, len(uploads))
	for _, u := range uploads {
		if err := s.storage.Store(ctx, u.file, u.key); err != nil {
			slog.Error("Failed to upload attachment", "error", err, "key", u.key)
			return nil, helper.NewInternalServerError("")
		}
		urls = append(urls, s.storage.GetPublicURL(u.key))
	}

	return urls, nil
}

func (s *MessageService) resolveTargetChat(ctx context.Context, sender *entity.User, msgType entity.MessageType, req model.SendMessageRequest) (string, map[string]interface{}, []string, error) {
	if msgType == entity.MessageTypeGroup {
		if err := s.validation.ValidateChatID(req.ChatID); err != nil {
			return "", nil, nil, err
		}

		group, err := s.repo.ChatGroup.GetByID(ctx, req.ChatID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return "", nil, nil, helper.NewNotFoundError("Chat group not found")
			}
			return "", nil, nil, helper.NewInternalServerError("")
		}
		if !group.IsActive {
			return "", nil, nil, helper.NewNotFoundError("Chat group not found")
		}
		if !group.HasMember(sender.ID) {
			return "", nil, nil, helper.NewForbiddenError("You are not a member of this chat")
		}

		return group.ID, group.PlainRecord(), group.Members, nil
	}

	// Direct: an explicit chat id wins; otherwise a receiver id lazily
	// resolves (or creates) the pair's chat.
	if req.ChatID == "" {
		if req.ReceiverID == "" {
			return "", nil, nil, helper.NewBadRequestError("Receiver ID or chat ID is required")
		}

		chat, _, err := s.directChat.FindOrCreateDirectChat(ctx, sender.ID, req.ReceiverID)
		if err != nil {
			return "", nil, nil, err
		}
		return chat.ID, chat.PlainRecord(), []string{chat.FirstUser, chat.SecondUser}, nil
	}

	chat, err := s.repo.DirectChat.GetByID(ctx, req.ChatID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, nil, helper.NewNotFoundError("Chat not found")
		}
		return "", nil, nil, helper.NewInternalServerError("")
	}
	if !chat.HasParticipant(sender.ID) {
		return "", nil, nil, helper.NewForbiddenError("You are not a member of this chat")
	}

	other, err := s.repo.User.GetByID(ctx, chat.OtherUser(sender.ID))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, nil, helper.NewNotFoundError("User not found")
		}
		return "", nil, nil, helper.NewInternalServerError("")
	}
	if sender.HasBlocked(other.ID) || other.HasBlocked(sender.ID) {
		return "", nil, nil, helper.NewForbiddenError("Cannot message blocked user")
	}

	return chat.ID, chat.PlainRecord(), []string{chat.FirstUser, chat.SecondUser}, nil
}

func (s *MessageService) appendToChat(ctx context.Context, msgType entity.MessageType, chatID, messageID string) error {
	if msgType == entity.MessageTypeGroup {
		return s.repo.ChatGroup.AppendMessage(ctx, chatID, messageID)
	}
	return s.repo.DirectChat.AppendMessage(ctx, chatID, messageID)
}

func (s *MessageService) EditMessage(ctx context.Context, userID, messageID string, req model.EditMessageRequest) (*model.MessageResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		slog.Warn("Validation failed", "error", err, "userID", userID)
		return nil, helper.NewBadRequestError("")
	}

	message, err := s.validation.ValidateMessageOwner(ctx, messageID, userID)
	if err != nil {
		return nil, err
	}
	// Deleted is terminal.
	if message.IsDeleted {
		return nil, helper.NewNotFoundError("Message not found")
	}

	if err := s.repo.Message.UpdateText(ctx, messageID, req.MessageText); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, helper.NewNotFoundError("Message not found")
		}
		return nil, helper.NewInternalServerError("")
	}
	message.MessageText = req.MessageText

	s.publishMessageEvent(ctx, mirror.EventMessageEdited, message)

	return s.toResponse(ctx, message)
}

func (s *MessageService) DeleteMessage(ctx context.Context, userID, messageID string) error {
	message, err := s.validation.ValidateMessageOwner(ctx, messageID, userID)
	if err != nil {
		return err
	}
	if message.IsDeleted {
		return helper.NewNotFoundError("Message not found")
	}

	// Soft delete only; unread counters accrued by this message stay as
	// they are.
	if err := s.repo.Message.SoftDelete(ctx, messageID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return helper.NewNotFoundError("Message not found")
		}
		return helper.NewInternalServerError("")
	}
	message.IsDeleted = true

	s.publishMessageEvent(ctx, mirror.EventMessageDeleted, message)

	return nil
}

// MarkMessageRead records a read receipt. Calling it again for the same
// (message, user) pair is a no-op that returns the current message.
func (s *MessageService) MarkMessageRead(ctx context.Context, userID, messageID string) (*model.MessageResponse, error) {
	message, err := s.repo.Message.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, helper.NewNotFoundError("Message not found")
		}
		return nil, helper.NewInternalServerError("")
	}

	if _, err := s.validation.ValidateChatMembership(ctx, message.Type.ChatType(), message.ChatID, userID); err != nil {
		return nil, err
	}

	if message.ReadByUser(userID) {
		return s.toResponse(ctx, message)
	}

	if err := s.repo.Message.AddReadBy(ctx, messageID, userID); err != nil {
		return nil, helper.NewInternalServerError("")
	}
	message.ReadBy = append(message.ReadBy, userID)

	if message.Type == entity.MessageTypeDirect && message.Sender != userID {
		if err := s.repo.User.DecrementUnread(ctx, userID, message.ChatID, entity.ChatTypeDirect, time.Now().UTC()); err != nil {
			slog.Error("Failed to decrement unread counter", "error", err, "userID", userID, "chatID", message.ChatID)
			return nil, helper.NewInternalServerError("")
		}
	}

	s.publishMessageEvent(ctx, mirror.EventReadReceipt, message)

	return s.toResponse(ctx, message)
}

func (s *MessageService) BlockUser(ctx context.Context, userID, targetID string) (*model.ActionResponse, error) {
	if userID == targetID {
		return nil, helper.NewBadRequestError("Cannot block yourself")
	}

	if _, err := s.validation.ValidateUser(ctx, targetID); err != nil {
		return nil, err
	}

	user, err := s.validation.ValidateUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.HasBlocked(targetID) {
		return nil, helper.NewConflictError("User is already blocked")
	}

	if err := s.repo.User.Block(ctx, userID, targetID); err != nil {
		return nil, helper.NewInternalServerError("")
	}

	return &model.ActionResponse{Message: "User blocked"}, nil
}

func (s *MessageService) UnblockUser(ctx context.Context, userID, targetID string) (*model.ActionResponse, error) {
	if _, err := s.validation.ValidateUser(ctx, targetID); err != nil {
		return nil, err
	}

	user, err := s.validation.ValidateUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.HasBlocked(targetID) {
		return nil, helper.NewBadRequestError("User is not blocked")
	}

	if err := s.repo.User.Unblock(ctx, userID, targetID); err != nil {
		return nil, helper.NewInternalServerError("")
	}

	return &model.ActionResponse{Message: "User unblocked"}, nil
}

func (s *MessageService) GetTotalUnreadCount(ctx context.Context, userID string) (*model.UnreadCountResponse, error) {
	if _, err := s.validation.ValidateUser(ctx, userID); err != nil {
		return nil, err
	}

	total, err := s.repo.User.TotalUnread(ctx, userID)
	if err != nil {
		slog.Error("Failed to aggregate unread counters", "error", err, "userID", userID)
		return nil, helper.NewInternalServerError("")
	}

	return &model.UnreadCountResponse{TotalUnread: total}, nil
}

func (s *MessageService) toResponse(ctx context.Context, message *entity.Message) (*model.MessageResponse, error) {
	sender, err := s.repo.User.GetByID(ctx, message.Sender)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, helper.NewInternalServerError("")
	}

	lookup := map[string]*entity.Message{}
	if message.ReplyTo != nil {
		if target, err := s.repo.Message.GetByID(ctx, *message.ReplyTo); err == nil {
			lookup[target.ID] = target
		}
	}

	users := map[string]*entity.User{}
	if sender != nil {
		users[sender.ID] = sender
	}

	responses := buildMessageResponses([]*entity.Message{message}, users, lookup)
	return &responses[0], nil
}

// publishMessageEvent resolves the chat's member set and enqueues a mirror
// event. Best effort: a resolution failure only skips the mirror update.
func (s *MessageService) publishMessageEvent(ctx context.Context, eventType mirror.EventType, message *entity.Message) {
	if s.mirror == nil {
		return
	}

	members, err := s.chatMembers(ctx, message)
	if err != nil {
		slog.Warn("Skipping mirror event, could not resolve chat members", "error", err, "chatID", message.ChatID)
		return
	}

	s.mirror.Publish(mirror.Event{
		Type:       eventType,
		ChatID:     message.ChatID,
		ChatType:   message.Type.ChatType(),
		SenderID:   message.Sender,
		Recipients: members,
		Record:     message.PlainRecord(),
	})
}

func (s *MessageService) chatMembers(ctx context.Context, message *entity.Message) ([]string, error) {
	if message.Type == entity.MessageTypeGroup {
		group, err := s.repo.ChatGroup.GetByID(ctx, message.ChatID)
		if err != nil {
			return nil, err
		}
		return group.Members, nil
	}

	chat, err := s.repo.DirectChat.GetByID(ctx, message.ChatID)
	if err != nil {
		return nil, err
	}
	return []string{chat.FirstUser, chat.SecondUser}, nil
}

func replyLookup(target *entity.Message) map[string]*entity.Message {
	if target == nil {
		return nil
	}
	return map[string]*entity.Message{target.ID: target}
}
