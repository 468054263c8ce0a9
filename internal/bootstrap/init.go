package bootstrap

import (
	"github.com/ClinkedIn/Backend-sub001/internal/adapter"
	"github.com/ClinkedIn/Backend-sub001/internal/config"
	"github.com/ClinkedIn/Backend-sub001/internal/controller"
	"github.com/ClinkedIn/Backend-sub001/internal/middleware"
	"github.com/ClinkedIn/Backend-sub001/internal/mirror"
	"github.com/ClinkedIn/Backend-sub001/internal/repository"
	"github.com/ClinkedIn/Backend-sub001/internal/service"
	"github.com/ClinkedIn/Backend-sub001/internal/websocket"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// App bundles everything main needs to run after wiring.
type App struct {
	Mux    *chi.Mux
	Repo   *repository.Repository
	Mirror *mirror.Publisher
	Hub    *websocket.Hub
}

func Init(appConfig *config.AppConfig, db *mongo.Database, redisAdapter *adapter.RedisAdapter, validate *validator.Validate, s3Client *s3.Client, mux *chi.Mux) *App {
	repo := repository.NewRepository(db)
	storageAdapter := adapter.NewStorageAdapter(appConfig, s3Client)

	hub := websocket.NewHub()
	mirrorPublisher := mirror.NewPublisher(appConfig, redisAdapter, hub)

	validation := service.NewValidationService(repo)
	directChatService := service.NewDirectChatService(repo, validate, validation, mirrorPublisher)
	groupChatService := service.NewGroupChatService(repo, validate, validation, mirrorPublisher)
	chatService := service.NewChatService(repo, validation, mirrorPublisher)
	messageService := service.NewMessageService(repo, validate, validation, storageAdapter, mirrorPublisher, directChatService)

	chatController := controller.NewChatController(chatService, directChatService, groupChatService)
	messageController := controller.NewMessageController(messageService)
	websocketController := controller.NewWebSocketController(hub)

	authMiddleware := middleware.NewAuthMiddleware(appConfig)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(config.NewRateLimiter(appConfig), appConfig)

	route := NewRoute(mux, chatController, messageController, websocketController, authMiddleware, rateLimitMiddleware)
	route.Register()

	return &App{
		Mux:    mux,
		Repo:   repo,
		Mirror: mirrorPublisher,
		Hub:    hub,
	}
}
