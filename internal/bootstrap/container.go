package bootstrap

import (
	"context"
	"log"

	"kidvibe-be/internal/config"
	"kidvibe-be/internal/controller"
	"kidvibe-be/internal/guard"
	"kidvibe-be/internal/handler"
	"kidvibe-be/internal/pkg/credentials"
	"kidvibe-be/internal/pkg/logger"
	"kidvibe-be/internal/pkg/ratelimit"
	"kidvibe-be/internal/pkg/serverutils"
	"kidvibe-be/internal/repository/memory"
	"kidvibe-be/internal/repository/unitofwork"
	"kidvibe-be/internal/service"
	"kidvibe-be/internal/websocket"
	"kidvibe-be/pkg/ai/factory"

	pktNats "kidvibe-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const chatTurnTopic = "chat.turns"

type Container struct {
	// Controllers
	AuthController    controller.IAuthController
	ProjectController controller.IProjectController
	ChatController    controller.IChatController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	WsHandler    *handler.WsHandler
	WebSocketHub *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	credsService := credentials.NewService(&cfg.Auth)

	// Internal event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermillLogger)

	// Text-generation provider
	provider, err := factory.New(cfg.Ai.Provider, &cfg.Ai)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize text-generation provider: %v", err)
	}
	log.Printf("[INFO] Using text-generation provider: %s", cfg.Ai.Provider)

	// NATS audit bus
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket hub
	wsLogger := logger.NewIsolatedLogger("logs/ws.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// Services
	ownership := guard.NewGuard()
	limiter := ratelimit.NewLimiter(rdb, cfg.Chat.DailyLimit)
	analysisCache := memory.NewAnalysisCache()

	publisherService := service.NewPublisherService(chatTurnTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, chatTurnTopic, uowFactory, wsHub)

	authService := service.NewAuthService(uowFactory, credsService, natsPub, sysLogger)
	projectService := service.NewProjectService(uowFactory, ownership, provider, analysisCache, natsPub, sysLogger)
	chatService := service.NewChatService(
		uowFactory,
		ownership,
		provider,
		limiter,
		publisherService,
		natsPub,
		sysLogger,
		&cfg.Chat,
	)

	authMw := serverutils.NewJwtMiddleware(credsService, uowFactory)

	return &Container{
		AuthController:    controller.NewAuthController(authService, authMw),
		ProjectController: controller.NewProjectController(projectService, authMw),
		ChatController:    controller.NewChatController(chatService, authMw),

		ConsumerService: consumerService,

		WsHandler:    handler.NewWsHandler(credsService, wsHub, uowFactory),
		WebSocketHub: wsHub,
	}
}
