package bootstrap

import (
	"context"
	"log"
	"time"

	"wtf2eat-be/internal/config"
	"wtf2eat-be/internal/controller"
	"wtf2eat-be/internal/handler"
	"wtf2eat-be/internal/pkg/logger"
	"wtf2eat-be/internal/pkg/mailer"
	"wtf2eat-be/internal/pkg/serverutils"
	"wtf2eat-be/internal/repository/contract"
	"wtf2eat-be/internal/repository/implementation"
	"wtf2eat-be/internal/repository/memory"
	"wtf2eat-be/internal/repository/unitofwork"
	"wtf2eat-be/internal/service"
	"wtf2eat-be/internal/websocket"

	"wtf2eat-be/pkg/database"
	pktNats "wtf2eat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	RecommendationController controller.IRecommendationController
	PreferenceController     controller.IPreferenceController
	UsageController          controller.IUsageController
	RecommendationWsHandler  *handler.RecommendationWsHandler

	// Background services, started by main
	AlertService    service.IAlertService
	ActivityService service.IActivityService
	WebSocketHub    *websocket.Hub

	Pipeline *Pipeline
	Logger   logger.ILogger

	// HealthChecks lists the optional backends that were reachable at boot.
	HealthChecks map[string]serverutils.HealthCheck

	closers []func()
}

// NewContainer wires every component. A nil db selects the in-memory store.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	c := &Container{Logger: sysLogger, HealthChecks: map[string]serverutils.HealthCheck{}}

	var uowFactory unitofwork.RepositoryFactory
	if db != nil {
		uowFactory = unitofwork.NewRepositoryFactory(db)
		c.HealthChecks["database"] = func(ctx context.Context) error { return database.Ping(ctx, db) }
	} else {
		log.Printf("[INFO] Using in-memory store")
		uowFactory = unitofwork.NewMemoryRepositoryFactory(memory.NewStoreRepository())
	}

	emailService := mailer.NewEmailService(cfg.SMTP)

	// In-process queue
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// NATS
	var publisher service.EventPublisher
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		publisher = natsPub
		c.closers = append(c.closers, natsPub.Close)
		c.HealthChecks["nats"] = natsPub.Ping
	}
	var subscriber service.EventSubscriber
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	} else {
		subscriber = natsSub
		c.closers = append(c.closers, natsSub.Close)
	}

	// Redis
	rdb := connectRedis(cfg.App.RedisURL)
	var usageRepo contract.UsageRepository = memory.NewUsageRepository()
	if rdb != nil {
		usageRepo = implementation.NewUsageRepository(rdb)
		c.HealthChecks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/websocket.log")
	c.WebSocketHub = websocket.NewHub(rdb, wsLogger)

	p, err := NewPipeline(context.Background(), cfg, uowFactory, publisher, sysLogger)
	if err != nil {
		log.Fatalf("[FATAL] Failed to build recommendation pipeline: %v", err)
	}
	c.Pipeline = p

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := p.Places.Validate(ctx); err != nil {
			sysLogger.Warn("Places", "Google Maps API key validation failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	c.AlertService = service.NewAlertService(
		service.NewPublisherService(cfg.App.AlertTopic, pubSub),
		pubSub,
		cfg.App.AlertTopic,
		emailService,
		cfg.SMTP.AlertEmail,
		sysLogger,
	)
	c.ActivityService = service.NewActivityService(subscriber, usageRepo, c.WebSocketHub, sysLogger)
	recommendationService := service.NewRecommendationService(p.Controller, publisher, c.AlertService, sysLogger)

	if cfg.App.JwtSecret == "" {
		log.Printf("[WARN] JWT_SECRET is empty, every token will be rejected")
	}
	auth := serverutils.NewJwtMiddleware(cfg.App.JwtSecret)

	c.RecommendationController = controller.NewRecommendationController(recommendationService, auth)
	c.PreferenceController = controller.NewPreferenceController(p.Preferences, auth)
	c.UsageController = controller.NewUsageController(c.ActivityService, auth)
	c.RecommendationWsHandler = handler.NewRecommendationWsHandler(c.WebSocketHub, recommendationService, auth, wsLogger)

	return c
}

// Start launches the background workers.
func (c *Container) Start(ctx context.Context) {
	go c.WebSocketHub.Run()

	if err := c.AlertService.Consume(ctx); err != nil {
		c.Logger.Error("Container", "Failed to start alert consumer", map[string]interface{}{"error": err.Error()})
	}
	if err := c.ActivityService.Start(); err != nil {
		c.Logger.Warn("Container", "Activity service not started", map[string]interface{}{"error": err.Error()})
	}
}

func (c *Container) Close() {
	c.WebSocketHub.Stop()
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

func connectRedis(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v (single-instance mode)", err)
		_ = rdb.Close()
		return nil
	}
	return rdb
}
