package controller

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ClinkedIn/Backend-sub001/internal/helper"
	"github.com/ClinkedIn/Backend-sub001/internal/middleware"
	"github.com/ClinkedIn/Backend-sub001/internal/model"
	"github.com/ClinkedIn/Backend-sub001/internal/service"
	"github.com/go-chi/chi/v5"
)

type ChatController struct {
	chatService       *service.ChatService
	directChatService *service.DirectChatService
	groupChatService  *service.GroupChatService
}

func NewChatController(chatService *service.ChatService, directChatService *service.DirectChatService, groupChatService *service.GroupChatService) *ChatController {
	return &ChatController{
		chatService:       chatService,
		directChatService: directChatService,
		groupChatService:  groupChatService,
	}
}

// CreateDirectChat godoc
// @Summary      Create Direct Chat
// @Description  Find or create the one direct chat between the requester and another user. Returns 201 when a chat was created, 200 when it already existed.
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        request body model.CreateDirectChatRequest true "Create Direct Chat Request"
// @Success      200  {object}  helper.ResponseSuccess{data=model.ChatResponse}
// @Success      201  {object}  helper.ResponseSuccess{data=model.ChatResponse}
// @Failure      400  {object}  helper.ResponseError
// @Failure      401  {object}  helper.ResponseError
// @Failure      403  {object}  helper.ResponseError
// @Failure      404  {object}  helper.ResponseError
// @Failure      500  {object}  helper.ResponseError
// @Security     BearerAuth
// @Router       /api/chats/direct-chat [post]
func (c *ChatController) CreateDirectChat(w http.ResponseWriter, r *http.Request) {
	userContext, ok := r.Context().Value(middleware.UserContextKey).(*model.AuthUser)
	if !ok {
		helper.WriteError(w, helper.NewUnauthorizedError(""))
		return
	}

	var req model.CreateDirectChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Invalid request body", "error", err)
		helper.WriteError(w, helper.NewBadRequestError(""))
		return
	}

	resp, created, err := c.directChatService.CreateDirectChat(r.Context(), userContext.ID, req)
	if err != nil {
		helper.WriteError(w, err)
		return
	}

	if created {
		helper.WriteCreated(w, resp)
		return
	}
	helper.WriteSuccess(w, resp)
}

// CreateGroupChat godoc
// @Summary      Create Group Chat
// @Description  Create a named group chat. The requester becomes a member alongside the listed users.
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        request body model.CreateGroupChatRequest true "Create Group Chat Request"
// @Success      201  {object}  helper.ResponseSuccess{data=model.GroupChatResponse}
// @Failure      400  {object}  helper.ResponseError
// @Failure      401  {object}  helper.ResponseError
// @Failure      404  {object}  helper.ResponseError
// @Failure      409  {object}  helper.ResponseError
// @Failure      500  {object}  helper.ResponseError
// @Security     BearerAuth
// @Router       /api/chats/group-chat [post]
func (c *ChatController) CreateGroupChat(w http.ResponseWriter, r *http.Request) {
	userContext, ok := r.Context().Value(middleware.UserContextKey).(*model.AuthUser)
	if !ok {
		helper.WriteError(w, helper.NewUnauthorizedError(""))
		return
	}

	var req model.CreateGroupChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Invalid request body", "error", err)
		helper.WriteError(w, helper.NewBadRequestError(""))
		return
	}

	resp, err := c.groupChatService.CreateGroupChat(r.Context(), userContext.ID, req)
	if err != nil {
		helper.WriteError(w, err)
		return
	}

	helper.WriteCreated(w, resp)
}

// GetDirectChat godoc
// @Summary      Get Direct Chat
// @Description  Fetch a direct chat conversation grouped by day. Opening the chat marks it read.
// @Tags         chat
// @Produce      json
// @Param        chatId path string true "Chat ID"
// @Success      200  {object}  helper.ResponseSuccess{data=model.ChatDetailResponse}
// @Failure      401  {object}  helper.ResponseError
// @Failure      403  {object}  helper.ResponseError
// @Failure      404  {object}  helper.ResponseError
// @Failure      500  {object}  helper.ResponseError
// @Security     BearerAuth
// @Router       /api/chats/direct-chat/{chatId} [get]
func (c *ChatController) GetDirectChat(w http.ResponseWriter, r *http.Request) {
	userContext, ok := r.Context().Value(middleware.UserContextKey).(*model.AuthUser)
	if !ok {
		helper.WriteError(w, helper.NewUnauthorizedError(""))
		return
	}

	chatID := chi.URLParam(r, "chatId")

	resp, err := c.chatService.GetDirectChat(r.Context(), userContext.ID, chatID)
	if err != nil {
		helper.WriteError(w, err)
		return
	}

	helper.WriteSuccess(w, resp)
}

// GetGroupChat godoc
// @Summary      Get Group Chat
// @Description  Fetch a group chat conversation grouped by day. Opening the chat marks it read.
// @Tags         chat
// @Produce      json
// @Param        groupId path string true "Group ID"
// @Success      200  {object}  helper.ResponseSuccess{data=model.ChatDetailResponse}
// @Failure      401  {object}  helper.ResponseError
// @Failure      403  {object}  helper.ResponseError
// @Failure      404  {object}  helper.ResponseError
// @Failure      500  {object}  helper.ResponseError
// @Security     BearerAuth
// @Router       /api/chats/group-chat/{groupId} [get]
func (c *ChatController) GetGroupChat(w http.ResponseWriter, r *http.Request) {
	userContext, ok := r.Context().Value(middleware.UserContextKey).(*model.AuthUser)
	if !ok {
		helper.WriteError(w, helper.NewUnauthorizedError(""))
		return
	}

	groupID := chi.URLParam(r, "groupId")

	resp, err := c.chatService.GetGroupChat(r.Context(), userContext.ID, groupID)
	if err != nil {
		helper.WriteError(w, err)
		return
	}

	helper.WriteSuccess(w, resp)
}

// GetAllChats godoc
// @Summary      List Chats
// @Description  All of the requester's chats sorted by most recent activity, with previews and unread counts.
// @Tags         chat
// @Produce      json
// @Success      200  {object}  helper.ResponseSuccess{data=model.AllChatsResponse}
// @Failure      401  {object}  helper.ResponseError
// @Failure      404  {object}  helper.ResponseError
// @Failure      500  {object}  helper.ResponseError
// @Security     BearerAuth
// @Router       /api/chats/all-chats [get]
func (c *ChatController) GetAllChats(w http.ResponseWriter, r *http.Request) {
	userContext, ok := r.Context().Value(middleware.UserContextKey).(*model.AuthUser)
	if !ok {
		helper.WriteError(w, helper.NewUnauthorizedError(""))
		return
	}

	resp, err := c.chatService.GetAllChats(r.Context(), userContext.ID)
	if err != nil {
		helper.WriteError(w, err)
		return
	}

	helper.WriteSuccess(w, resp)
}

// MarkChatAsRead godoc
// @Summary      Mark Chat Read
// @Description  Zero the requester's unread counter for a chat.
// @Tags         chat
// @Produce      json
// @Param        chatId path string true "Chat ID"
// @Success      200  {object}  helper.ResponseSuccess{data=model.MarkChatResponse}
// @Failure      401  {object}  helper.ResponseError
// @Failure      404  {object}  helper.ResponseError
// @Failure      500  {object}  helper.ResponseError
// @Security     BearerAuth
// @Router       /api/chats/mark-as-read/{chatId} [patch]
func (c *ChatController) MarkChatAsRead(w http.ResponseWriter, r *http.Request) {
	userContext, ok := r.Context().Value(middleware.UserContextKey).(*model.AuthUser)
	if !ok {
		helper.WriteError(w, helper.NewUnauthorizedError(""))
		return
	}

	chatID := chi.URLParam(r, "chatId")

	resp, err := c.chatService.MarkChatAsRead(r.Context(), userContext.ID, chatID)
	if err != nil {
		helper.WriteError(w, err)
		return
	}

	helper.WriteSuccess(w, resp)
}

// MarkChatAsUnread godoc
// @Summary      Mark Chat Unread
// @Description  Flag a chat as unread so it stands out in the chat list.
// @Tags         chat
// @Produce      json
// @Param        chatId path string true "Chat ID"
// @Success      200  {object}  helper.ResponseSuccess{data=model.MarkChatResponse}
// @Failure      401  {object}  helper.ResponseError
// @Failure      404  {object}  helper.ResponseError
// @Failure      500  {object}  helper.ResponseError
// @Security     BearerAuth
// @Router       /api/chats/mark-as-unread/{chatId} [patch]
func (c *ChatController) MarkChatAsUnread(w http.ResponseWriter, r *http.Request) {
	userContext, ok := r.Context().Value(middleware.UserContextKey).(*model.AuthUser)
	if !ok {
		helper.WriteError(w, helper.NewUnauthorizedError(""))
		return
	}

	chatID := chi.URLParam(r, "chatId")

	resp, err := c.chatService.MarkChatAsUnread(r.Context(), userContext.ID, chatID)
	if err != nil {
		helper.WriteError(w, err)
		return
	}

	helper.WriteSuccess(w, resp)
}
