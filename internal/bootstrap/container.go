package bootstrap

import (
	"context"
	"log"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SuryaSekhar14/s3rd-chat/internal/config"
	"github.com/SuryaSekhar14/s3rd-chat/internal/controller"
	"github.com/SuryaSekhar14/s3rd-chat/internal/pkg/logger"
	"github.com/SuryaSekhar14/s3rd-chat/internal/pkg/mailer"
	"github.com/SuryaSekhar14/s3rd-chat/internal/pkg/ratelimit"
	"github.com/SuryaSekhar14/s3rd-chat/internal/pkg/secrets"
	"github.com/SuryaSekhar14/s3rd-chat/internal/repository/unitofwork"
	"github.com/SuryaSekhar14/s3rd-chat/internal/service"
	"github.com/SuryaSekhar14/s3rd-chat/internal/websocket"
	"github.com/SuryaSekhar14/s3rd-chat/pkg/events"
	pktNats "github.com/SuryaSekhar14/s3rd-chat/pkg/nats"
)

// persistTopic carries replace-list snapshots from the HTTP layer to the
// persist worker.
const persistTopic = "persist_messages"

type Container struct {
	// Controllers
	AuthController         controller.IAuthController
	ConversationController controller.IConversationController
	ChatController         controller.IChatController
	AssistController       controller.IAssistController
	APIKeyController       controller.IAPIKeyController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	WebSocketHub *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.SenderName,
	)

	keyBox, err := secrets.NewBox(cfg.Security.KeyEncryptionSecret)
	if err != nil {
		log.Fatalf("[FATAL] Invalid KEY_ENCRYPTION_SECRET: %v", err)
	}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		// Usage metering rides the event stream so accounting survives
		// restarts independently of request handling.
		natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		} else if err := natsSub.Subscribe(events.TypeMessageExchanged, "usage-metering", func(ctx context.Context, event events.Event) error {
			sysLogger.Info("usage", "message exchanged", event.Payload())
			return nil
		}); err != nil {
			log.Printf("[WARN] Failed to start usage metering consumer: %v", err)
		}
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

	// WebSocket Hub
	streamLogger := logger.NewIsolatedLogger(cfg.App.StreamLogFilePath)
	wsHub := websocket.NewHub(rdb, streamLogger)

	// 3. Services
	conversationService := service.NewConversationService(uowFactory, natsPub, sysLogger)
	publisherService := service.NewPublisherService(pubSub, persistTopic)
	consumerService := service.NewConsumerService(pubSub, persistTopic, conversationService, sysLogger)

	keyVerifier := service.NewKeyVerifier(cfg.Ai)
	apiKeyService := service.NewAPIKeyService(uowFactory, keyBox, keyVerifier, sysLogger)
	resolver := service.NewProviderResolver(cfg.Ai, apiKeyService, sysLogger)

	limiter := ratelimit.NewLimiter(rdb, cfg.Assist.RateLimitPerMinute, time.Minute)
	assistService := service.NewAssistService(
		resolver,
		limiter,
		time.Duration(cfg.Assist.RequestTimeoutSecs)*time.Second,
		sysLogger,
	)

	chatService := service.NewChatService(
		conversationService,
		assistService,
		resolver,
		wsHub,
		natsPub,
		streamLogger,
		sysLogger,
	)
	wsHub.SetCommandHandler(chatService.HandleSocketCommand)
	go wsHub.Run()

	authService := service.NewAuthService(uowFactory, cfg.Security.JwtSecret, sysLogger)
	exportService := service.NewExportService(conversationService, emailService, sysLogger)

	// 4. Controllers
	return &Container{
		AuthController:         controller.NewAuthController(authService),
		ConversationController: controller.NewConversationController(conversationService, exportService, publisherService),
		ChatController:         controller.NewChatController(chatService, wsHub),
		AssistController:       controller.NewAssistController(assistService),
		APIKeyController:       controller.NewAPIKeyController(apiKeyService),

		ConsumerService: consumerService,
		WebSocketHub:    wsHub,
	}
}
