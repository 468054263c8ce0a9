package service

import (
	"context"
	"log/slog"

	"github.com/ClinkedIn/Backend-sub001/internal/entity"
	"github.com/ClinkedIn/Backend-sub001/internal/helper"
	"github.com/ClinkedIn/Backend-sub001/internal/mirror"
	"github.com/ClinkedIn/Backend-sub001/internal/model"
	"github.com/ClinkedIn/Backend-sub001/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type GroupChatService struct {
	repo       *repository.Repository
	validator  *validator.Validate
	validation *ValidationService
	mirror     *mirror.Publisher
}

func NewGroupChatService(repo *repository.Repository, validator *validator.Validate, validation *ValidationService, mirrorPublisher *mirror.Publisher) *GroupChatService {
	return &GroupChatService{
		repo:       repo,
		validator:  validator,
		validation: validation,
		mirror:     mirrorPublisher,
	}
}

func (s *GroupChatService) CreateGroupChat(ctx context.Context, creatorID string, req model.CreateGroupChatRequest) (*model.GroupChatResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		slog.Warn("Validation failed", "error", err, "userID", creatorID)
		return nil, helper.NewBadRequestError("")
	}

	if _, err := s.validation.ValidateUser(ctx, creatorID); err != nil {
		return nil, err
	}

	if err := s.validation.ValidateGroupChatData(ctx, creatorID, req.GroupName, req.GroupMembers); err != nil {
		return nil, err
	}

	members := append([]string{creatorID}, uniqueStrings(req.GroupMembers)...)

	group := &entity.ChatGroup{
		ID:       uuid.New().String(),
		Name:     req.GroupName,
		Members:  members,
		Messages: []string{},
		IsActive: true,
	}

	if err := s.repo.ChatGroup.Create(ctx, group); err != nil {
		slog.Error("Failed to create chat group", "error", err)
		return nil, helper.NewInternalServerError("")
	}

	ref := entity.ChatRef{ChatID: group.ID, ChatType: entity.ChatTypeGroup}
	for _, memberID := range members {
		if err := s.repo.User.AddChatRef(ctx, memberID, ref); err != nil {
			slog.Error("Failed to attach group reference", "error", err, "userID", memberID, "groupID", group.ID)
			return nil, helper.NewInternalServerError("")
		}
	}

	if s.mirror != nil {
		s.mirror.Publish(mirror.Event{
			Type:       mirror.EventChatUpserted,
			ChatID:     group.ID,
			ChatType:   entity.ChatTypeGroup,
			SenderID:   creatorID,
			Recipients: members,
			Record:     group.PlainRecord(),
		})
	}

	return &model.GroupChatResponse{
		ID:        group.ID,
		Name:      group.Name,
		Members:   group.Members,
		IsActive:  group.IsActive,
		CreatedAt: group.CreatedAt,
	}, nil
}
