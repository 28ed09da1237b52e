package bootstrap

import (
	"context"
	"log"

	"resume-turns-be/internal/config"
	"resume-turns-be/internal/controller"
	"resume-turns-be/internal/handler"
	"resume-turns-be/internal/pkg/logger"
	"resume-turns-be/internal/repository/memory"
	"resume-turns-be/internal/repository/unitofwork"
	"resume-turns-be/internal/service"
	"resume-turns-be/internal/websocket"
	"resume-turns-be/pkg/database"
	"resume-turns-be/pkg/llm/factory"
	pktNats "resume-turns-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	Logger logger.ILogger

	VersionController   controller.IVersionController
	HealthController    controller.IHealthController
	LLMController       controller.ILLMController
	VersionWatchHandler *handler.VersionWatchHandler

	// Background services, started by main
	ConsumerService service.IConsumerService
	WebSocketHub    *websocket.Hub

	closers []func()
}

// NewContainer wires every component. A nil db keeps versions in process
// memory, which is enough for local runs and demos.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	c := &Container{Logger: sysLogger}

	var uowFactory unitofwork.RepositoryFactory
	readiness := func() error { return nil }
	if db != nil {
		uowFactory = unitofwork.NewRepositoryFactory(db)
		readiness = func() error { return database.Ping(db) }
	} else {
		sysLogger.Warn("BOOTSTRAP", "No database configured, versions are kept in memory", nil)
		uowFactory = memory.NewRepositoryFactory(memory.NewVersionStore())
	}

	// Event bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// NATS is optional; without it events stay in-process
	var sinks []service.VersionEventSink
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		sinks = append(sinks, service.NewNatsEventSink(natsPub))
		c.closers = append(c.closers, natsPub.Close)
	}

	// Redis relays watch notifications between instances
	var rdb *redis.Client
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb = redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v (watch relay disabled)", err)
		_ = rdb.Close()
		rdb = nil
	} else {
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	// Other instances writing to the same database can only be seen through
	// the Redis relay, so without it nothing is cached.
	var versionCache *memory.VersionCache
	if db == nil || rdb != nil {
		versionCache = memory.NewVersionCache(cfg.Versions.CacheTTL)
	} else {
		sysLogger.Warn("BOOTSTRAP", "Redis unavailable, version cache disabled", nil)
	}
	cacheSink := service.NewCacheEventSink(versionCache)

	wsLogger := logger.NewIsolatedLogger("logs/watch.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	wsHub.RelayTo(cacheSink)
	sinks = append(sinks, cacheSink, wsHub)

	publisherService := service.NewPublisherService(cfg.Versions.EventsTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, cfg.Versions.EventsTopic, sysLogger, sinks...)

	versionService := service.NewVersionService(
		uowFactory,
		versionCache,
		publisherService,
		sysLogger,
	)

	llmProvider, err := factory.NewLLMProvider(cfg.Ai.LLMProvider, cfg.Ai.LLMModel, cfg.Ai.OllamaBaseURL)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	c.VersionController = controller.NewVersionController(versionService, cfg.Auth.JwtSecret)
	c.HealthController = controller.NewHealthController(readiness)
	c.LLMController = controller.NewLLMController(service.NewLLMService(cfg.Ai.LLMProvider, llmProvider))
	c.VersionWatchHandler = handler.NewVersionWatchHandler(versionService, wsHub, cfg.Auth.JwtSecret, wsLogger)
	c.ConsumerService = consumerService
	c.WebSocketHub = wsHub

	return c
}

// Close releases the connections opened by NewContainer.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
