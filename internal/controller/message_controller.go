package controller

import (
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/ClinkedIn/Backend-sub001/internal/helper"
	"github.com/ClinkedIn/Backend-sub001/internal/middleware"
	"github.com/ClinkedIn/Backend-sub001/internal/model"
	"github.com/ClinkedIn/Backend-sub001/internal/service"
	"github.com/go-chi/chi/v5"
)

const maxAttachmentMemory = 32 << 20

type MessageController struct {
	messageService *service.MessageService
}

func NewMessageController(messageService *service.MessageService) *MessageController {
	return &MessageController{
		messageService: messageService,
	}
}

// SendMessage godoc
// @Summary      Send Message
// @Description  Send a message to a direct or group chat. Accepts JSON for text-only messages or multipart form data with file attachments.
// @Tags         message
// @Accept       json
// @Accept       multipart/form-data
// @Produce      json
// @Param        request body model.SendMessageRequest true "Send Message Request"
// @Success      201  {object}  helper.ResponseSuccess{data=model.SendMessageResponse}
// @Failure      400  {object}  helper.ResponseError
// @Failure      401  {object}  helper.ResponseError
// @Failure      403  {object}  helper.ResponseError
// @Failure      404  {object}  helper.ResponseError
// @Failure      500  {object}  helper.ResponseError
// @Security     BearerAuth
// @Router       /api/messages [post]
func (c *MessageController) SendMessage(w http.ResponseWriter, r *http.Request) {
	userContext, ok := r.Context().Value(middleware.UserContextKey).(*model.AuthUser)
	if !ok {
		helper.WriteError(w, helper.NewUnauthorizedError(""))
		return
	}

	req, files, err := decodeSendMessageRequest(r)
	if err != nil {
		helper.WriteError(w, err)
		return
	}

	resp, svcErr := c.messageService.SendMessage(r.Context(), userContext.ID, req, files)
	if svcErr != nil {
		helper.WriteError(w, svcErr)
		return
	}

	helper.WriteCreated(w, resp)
}

func decodeSendMessageRequest(r *http.Request) (model.SendMessageRequest, []*multipart.FileHeader, error) {
	var req model.SendMessageRequest

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxAttachmentMemory); err != nil {
			slog.Warn("Invalid multipart body", "error", err)
			return req, nil, helper.NewBadRequestError("")
		}

		req = model.SendMessageRequest{
			Type:        r.FormValue("type"),
			MessageText: r.FormValue("messageText"),
			ReceiverID:  r.FormValue("receiverId"),
			ChatID:      r.FormValue("chatId"),
			ReplyTo:     r.FormValue("replyTo"),
		}

		var files []*multipart.FileHeader
		if r.MultipartForm != nil {
			files = r.MultipartForm.File["files"]
		}
		return req, files, nil
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Invalid request body", "error", err)
		return req, nil, helper.NewBadRequestError("")
	}
	return req, nil, nil
}

// EditMessage godoc
// @Summary      Edit Message
// @Description  Replace the text of a message. Only the sender may edit.
// @Tags         message
// @Accept       json
// @Produce      json
// @Param        messageId path string true "Message ID"
// @Param        request body model.EditMessageRequest true "Edit Message Request"
// @Success      200  {object}  helper.ResponseSuccess{data=model.MessageResponse}
// @Failure      400  {object}  helper.ResponseError
// @Failure      401  {object}  helper.ResponseError
// @Failure      403  {object}  helper.ResponseError
// @Failure      404  {object}  helper.ResponseError
// @Failure      500  {object}  helper.ResponseError
// @Security     BearerAuth
// @Router       /api/messages/{messageId} [patch]
func (c *MessageController) EditMessage(w http.ResponseWriter, r *http.Request) {
	userContext, ok := r.Context().Value(middleware.UserContextKey).(*model.AuthUser)
	if !ok {
		helper.WriteError(w, helper.NewUnauthorizedError(""))
		return
	}

	messageID := chi.URLParam(r, "messageId")

	var req model.EditMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Invalid request body", "error", err)
		helper.WriteError(w, helper.NewBadRequestError(""))
		return
	}

	resp, err := c.messageService.EditMessage(r.Context(), userContext.ID, messageID, req)
	if err != nil {
		helper.WriteError(w, err)
		return
	}

	helper.WriteSuccess(w, resp)
}

// DeleteMessage godoc
// @Summary      Delete Message
// @Description  Soft delete a message. Only the sender may delete.
// @Tags         message
// @Produce      json
// @Param        messageId path string true "Message ID"
// @Success      200  {object}  helper.ResponseSuccess
// @Failure      401  {object}  helper.ResponseError
// @Failure      403  {object}  helper.ResponseError
// @Failure      404  {object}  helper.ResponseError
// @Failure      500  {object}  helper.ResponseError
// @Security     BearerAuth
// @Router       /api/messages/{messageId} [delete]
func (c *MessageController) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	userContext, ok := r.Context().Value(middleware.UserContextKey).(*model.AuthUser)
	if !ok {
		helper.WriteError(w, helper.NewUnauthorizedError(""))
		return
	}

	messageID := chi.URLParam(r, "messageId")

	if err := c.messageService.DeleteMessage(r.Context(), userContext.ID, messageID); err != nil {
		helper.WriteError(w, err)
		return
	}

	helper.WriteSuccess(w, model.ActionResponse{Message: "Message deleted"})
}

// MarkMessageRead godoc
// @Summary      Read Receipt
// @Description  Record that the requester has read a message.
// @Tags         message
// @Produce      json
// @Param        messageId path string true "Message ID"
// @Success      200  {object}  helper.ResponseSuccess{data=model.MessageResponse}
// @Failure      401  {object}  helper.ResponseError
// @Failure      403  {object}  helper.ResponseError
// @Failure      404  {object}  helper.ResponseError
// @Failure      500  {object}  helper.ResponseError
// @Security     BearerAuth
// @Router       /api/messages/read-receipt/{messageId} [patch]
func (c *MessageController) MarkMessageRead(w http.ResponseWriter, r *http.Request) {
	userContext, ok := r.Context().Value(middleware.UserContextKey).(*model.AuthUser)
	if !ok {
		helper.WriteError(w, helper.NewUnauthorizedError(""))
		return
	}

	messageID := chi.URLParam(r, "messageId")

	resp, err := c.messageService.MarkMessageRead(r.Context(), userContext.ID, messageID)
	if err != nil {
		helper.WriteError(w, err)
		return
	}

	helper.WriteSuccess(w, resp)
}

// BlockUser godoc
// @Summary      Block User
// @Description  Block another user. Blocked pairs cannot start chats or send direct messages.
// @Tags         message
// @Produce      json
// @Param        userId path string true "User ID to block"
// @Success      200  {object}  helper.ResponseSuccess{data=model.ActionResponse}
// @Failure      400  {object}  helper.ResponseError
// @Failure      401  {object}  helper.ResponseError
// @Failure      404  {object}  helper.ResponseError
// @Failure      409  {object}  helper.ResponseError
// @Failure      500  {object}  helper.ResponseError
// @Security     BearerAuth
// @Router       /api/messages/block-user/{userId} [patch]
func (c *MessageController) BlockUser(w http.ResponseWriter, r *http.Request) {
	userContext, ok := r.Context().Value(middleware.UserContextKey).(*model.AuthUser)
	if !ok {
		helper.WriteError(w, helper.NewUnauthorizedError(""))
		return
	}

	targetID := chi.URLParam(r, "userId")

	resp, err := c.messageService.BlockUser(r.Context(), userContext.ID, targetID)
	if err != nil {
		helper.WriteError(w, err)
		return
	}

	helper.WriteSuccess(w, resp)
}

// UnblockUser godoc
// @Summary      Unblock User
// @Description  Remove a user from the requester's block list.
// @Tags         message
// @Produce      json
// @Param        userId path string true "User ID to unblock"
// @Success      200  {object}  helper.ResponseSuccess{data=model.ActionResponse}
// @Failure      400  {object}  helper.ResponseError
// @Failure      401  {object}  helper.ResponseError
// @Failure      404  {object}  helper.ResponseError
// @Failure      500  {object}  helper.ResponseError
// @Security     BearerAuth
// @Router       /api/messages/unblock-user/{userId} [patch]
func (c *MessageController) UnblockUser(w http.ResponseWriter, r *http.Request) {
	userContext, ok := r.Context().Value(middleware.UserContextKey).(*model.AuthUser)
	if !ok {
		helper.WriteError(w, helper.NewUnauthorizedError(""))
		return
	}

	targetID := chi.URLParam(r, "userId")

	resp, err := c.messageService.UnblockUser(r.Context(), userContext.ID, targetID)
	if err != nil {
		helper.WriteError(w, err)
		return
	}

	helper.WriteSuccess(w, resp)
}

// GetUnreadCount godoc
// @Summary      Unread Count
// @Description  Total unread messages across all of the requester's chats.
// @Tags         message
// @Produce      json
// @Success      200  {object}  helper.ResponseSuccess{data=model.UnreadCountResponse}
// @Failure      401  {object}  helper.ResponseError
// @Failure      404  {object}  helper.ResponseError
// @Failure      500  {object}  helper.ResponseError
// @Security     BearerAuth
// @Router       /api/messages/unread-count [get]
func (c *MessageController) GetUnreadCount(w http.ResponseWriter, r *http.Request) {
	userContext, ok := r.Context().Value(middleware.UserContextKey).(*model.AuthUser)
	if !ok {
		helper.WriteError(w, helper.NewUnauthorizedError(""))
		return
	}

	resp, err := c.messageService.GetTotalUnreadCount(r.Context(), userContext.ID)
	if err != nil {
		helper.WriteError(w, err)
		return
	}

	helper.WriteSuccess(w, resp)
}
