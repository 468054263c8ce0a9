package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ClinkedIn/Backend-sub001/internal/entity"
	"github.com/ClinkedIn/Backend-sub001/internal/helper"
	"github.com/ClinkedIn/Backend-sub001/internal/mirror"
	"github.com/ClinkedIn/Backend-sub001/internal/model"
	"github.com/ClinkedIn/Backend-sub001/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type DirectChatService struct {
	repo       *repository.Repository
	validator  *validator.Validate
	validation *ValidationService
	mirror     *mirror.Publisher
}

func NewDirectChatService(repo *repository.Repository, validator *validator.Validate, validation *ValidationService, mirrorPublisher *mirror.Publisher) *DirectChatService {
	return &DirectChatService{
		repo:       repo,
		validator:  validator,
		validation: validation,
		mirror:     mirrorPublisher,
	}
}

// CreateDirectChat resolves or creates the one direct chat for the requester
// and the target user. The created flag distinguishes 201 from 200.
func (s *DirectChatService) CreateDirectChat(ctx context.Context, userID string, req model.CreateDirectChatRequest) (*model.ChatResponse, bool, error) {
	if err := s.validator.Struct(req); err != nil {
		slog.Warn("Validation failed", "error", err, "userID", userID)
		return nil, false, helper.NewBadRequestError("")
	}

	chat, created, err := s.FindOrCreateDirectChat(ctx, userID, req.OtherUserID)
	if err != nil {
		return nil, false, err
	}

	return &model.ChatResponse{
		ID:        chat.ID,
		ChatType:  string(entity.ChatTypeDirect),
		CreatedAt: chat.CreatedAt,
	}, created, nil
}

// FindOrCreateDirectChat enforces the one-chat-per-pair invariant. The
// unique pairKey index backs it up: losing a concurrent create surfaces as a
// duplicate-key error and we fall back to reading the winner's document.
func (s *DirectChatService) FindOrCreateDirectChat(ctx context.Context, userA, userB string) (*entity.DirectChat, bool, error) {
	if userA == userB {
		return nil, false, helper.NewBadRequestError("Cannot chat with yourself")
	}

	first, err := s.validation.ValidateUser(ctx, userA)
	if err != nil {
		return nil, false, err
	}
	second, err := s.validation.ValidateUser(ctx, userB)
	if err != nil {
		return nil, false, err
	}

	if first.HasBlocked(userB) || second.HasBlocked(userA) {
		return nil, false, helper.NewForbiddenError("Cannot create chat with blocked user")
	}

	existing, err := s.repo.DirectChat.FindByPair(ctx, userA, userB)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		slog.Error("Failed to check existing direct chat", "error", err)
		return nil, false, helper.NewInternalServerError("")
	}

	chat := &entity.DirectChat{
		ID:         uuid.New().String(),
		FirstUser:  userA,
		SecondUser: userB,
		Messages:   []string{},
	}

	if err := s.repo.DirectChat.Create(ctx, chat); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			for i := 0; i < 3; i++ {
				if winner, findErr := s.repo.DirectChat.FindByPair(ctx, userA, userB); findErr == nil {
					return winner, false, nil
				}
				time.Sleep(20 * time.Millisecond)
			}
			return nil, false, helper.NewConflictError("Direct chat already exists")
		}
		slog.Error("Failed to create direct chat", "error", err)
		return nil, false, helper.NewInternalServerError("")
	}

	ref := entity.ChatRef{ChatID: chat.ID, ChatType: entity.ChatTypeDirect}
	for _, memberID := range []string{userA, userB} {
		if err := s.repo.User.AddChatRef(ctx, memberID, ref); err != nil {
			slog.Error("Failed to attach chat reference", "error", err, "userID", memberID, "chatID", chat.ID)
			return nil, false, helper.NewInternalServerError("")
		}
	}

	if s.mirror != nil {
		s.mirror.Publish(mirror.Event{
			Type:       mirror.EventChatUpserted,
			ChatID:     chat.ID,
			ChatType:   entity.ChatTypeDirect,
			SenderID:   userA,
			Recipients: []string{userA, userB},
			Record:     chat.PlainRecord(),
		})
	}

	return chat, true, nil
}
