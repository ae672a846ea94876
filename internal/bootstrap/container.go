package bootstrap

import (
	"context"
	"log"

	"bistro-cms-be/internal/config"
	"bistro-cms-be/internal/controller"
	"bistro-cms-be/internal/handler"
	"bistro-cms-be/internal/pkg/logger"
	"bistro-cms-be/internal/pkg/serverutils"
	"bistro-cms-be/internal/repository/cache"
	"bistro-cms-be/internal/repository/memory"
	"bistro-cms-be/internal/repository/unitofwork"
	"bistro-cms-be/internal/service"
	"bistro-cms-be/internal/websocket"
	"bistro-cms-be/pkg/events"
	"bistro-cms-be/pkg/imagestore"

	pktNats "bistro-cms-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController    controller.IAuthController
	BlogController    controller.IBlogController
	MenuController    controller.IMenuController
	MarqueeController controller.IMarqueeController
	UploadController  controller.IUploadController
	EditorController  controller.IEditorController
	SitemapController controller.ISitemapController

	// Background Services (Exposed for main.go to run)
	ConsumerService     service.IConsumerService
	NotificationService service.INotificationService

	// WebSockets & Activity
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub

	Logger logger.ILogger

	closers []func()
}

func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	c := &Container{Logger: sysLogger}

	// 2. TOC reindex queue
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Infrastructure
	// NATS
	var eventPublisher events.Publisher = events.NopPublisher{}
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		eventPublisher = natsPub
		c.closers = append(c.closers, natsPub.Close)
	}

	// A typed nil would pass the service's nil check.
	var eventSubscriber service.EventSubscriber
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	} else {
		eventSubscriber = natsSub
		c.closers = append(c.closers, natsSub.Close)
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
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}
	c.closers = append(c.closers, func() { _ = rdb.Close() })
	renderCache := cache.NewRedisRenderCache(rdb, cfg.Render.CacheTTL)

	// Image storage
	imageStore, err := newImageStore(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize image storage (%s): %v", cfg.Storage.Driver, err)
	}
	log.Printf("[INFO] Using image storage: %s", cfg.Storage.Driver)

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger(cfg.App.RealtimeLogPath)
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run(ctx)

	// 4. Services
	publisherService := service.NewPublisherService(cfg.Keys.TocReindexTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.TocReindexTopic,
		uowFactory,
		renderCache,
		sysLogger,
	)

	blogService := service.NewBlogService(uowFactory, publisherService, eventPublisher, renderCache, sysLogger)
	menuService := service.NewMenuService(uowFactory, eventPublisher, sysLogger)
	marqueeService := service.NewMarqueeService(uowFactory, eventPublisher, sysLogger)
	uploadService := service.NewUploadService(imageStore, cfg.Storage.MaxUploadBytes, sysLogger)
	authService := service.NewAuthService(uowFactory, eventPublisher, sysLogger, cfg.App.JWTSecret, cfg.App.JWTTTL)
	sitemapService := service.NewSitemapService(uowFactory, cfg.App.SiteURL)

	notifService := service.NewNotificationService(uowFactory, eventSubscriber, eventPublisher, wsHub, wsLogger)

	sessionRepo := memory.NewEditorSessionRepository(cfg.Editor.SessionTTL, sysLogger)
	editorService := service.NewEditorService(
		sessionRepo,
		blogService,
		uploadService,
		notifService,
		service.EditorSettings{
			AutosaveInterval: cfg.Editor.AutosaveInterval,
			HistoryLimit:     cfg.Editor.HistoryLimit,
		},
		sysLogger,
	)

	// 5. Handlers & Controllers
	auth := serverutils.NewJwtMiddleware(cfg.App.JWTSecret, "admin", "editor")
	adminOnly := serverutils.NewJwtMiddleware(cfg.App.JWTSecret, "admin")

	c.NotificationHandler = handler.NewNotificationHandler(notifService, editorService, wsHub, cfg.App.JWTSecret, adminOnly, wsLogger)
	c.WebSocketHub = wsHub

	c.AuthController = controller.NewAuthController(authService, auth, adminOnly)
	c.BlogController = controller.NewBlogController(blogService, auth)
	c.MenuController = controller.NewMenuController(menuService, auth)
	c.MarqueeController = controller.NewMarqueeController(marqueeService, auth)
	c.UploadController = controller.NewUploadController(uploadService, auth)
	c.EditorController = controller.NewEditorController(editorService, auth)
	c.SitemapController = controller.NewSitemapController(sitemapService)

	c.ConsumerService = consumerService
	c.NotificationService = notifService
	return c
}

func newImageStore(ctx context.Context, cfg config.StorageConfig) (imagestore.Store, error) {
	if cfg.Driver == "gcs" {
		return imagestore.NewGCSStore(ctx, cfg.GCSBucket, cfg.CDNDomain, cfg.CredentialsFile)
	}
	return imagestore.NewLocalStore(cfg.LocalDir, cfg.PublicBaseURL)
}

// Close releases bus and cache connections in reverse order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
