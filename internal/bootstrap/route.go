package bootstrap

import (
	"net/http"

	"github.com/ClinkedIn/Backend-sub001/internal/controller"
	"github.com/ClinkedIn/Backend-sub001/internal/middleware"
	"github.com/go-chi/chi/v5"
)

type Route struct {
	chi                 *chi.Mux
	chatController      *controller.ChatController
	messageController   *controller.MessageController
	websocketController *controller.WebSocketController
	authMiddleware      *middleware.AuthMiddleware
	rateLimitMiddleware *middleware.RateLimitMiddleware
}

func NewRoute(chi *chi.Mux, chatController *controller.ChatController, messageController *controller.MessageController, websocketController *controller.WebSocketController, authMiddleware *middleware.AuthMiddleware, rateLimitMiddleware *middleware.RateLimitMiddleware) *Route {
	return &Route{
		chi:                 chi,
		chatController:      chatController,
		messageController:   messageController,
		websocketController: websocketController,
		authMiddleware:      authMiddleware,
		rateLimitMiddleware: rateLimitMiddleware,
	}
}

func (route *Route) Register() {
	route.chi.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	route.chi.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(route.authMiddleware.VerifyToken)

			r.Route("/chats", func(r chi.Router) {
				r.Post("/direct-chat", route.chatController.CreateDirectChat)
				r.Post("/group-chat", route.chatController.CreateGroupChat)
				r.Get("/direct-chat/{chatId}", route.chatController.GetDirectChat)
				r.Get("/group-chat/{groupId}", route.chatController.GetGroupChat)
				r.Get("/all-chats", route.chatController.GetAllChats)
				r.Patch("/mark-as-read/{chatId}", route.chatController.MarkChatAsRead)
				r.Patch("/mark-as-unread/{chatId}", route.chatController.MarkChatAsUnread)
			})

			r.Route("/messages", func(r chi.Router) {
				r.With(route.rateLimitMiddleware.Limit("send_message")).
					Post("/", route.messageController.SendMessage)
				r.Get("/unread-count", route.messageController.GetUnreadCount)
				r.Patch("/read-receipt/{messageId}", route.messageController.MarkMessageRead)
				r.Patch("/block-user/{userId}", route.messageController.BlockUser)
				r.Patch("/unblock-user/{userId}", route.messageController.UnblockUser)
				r.Patch("/{messageId}", route.messageController.EditMessage)
				r.Delete("/{messageId}", route.messageController.DeleteMessage)
			})
		})
	})

	route.chi.Group(func(r chi.Router) {
		r.Use(route.authMiddleware.VerifyWSToken)
		r.Get("/ws", route.websocketController.ServeWS)
	})
}
