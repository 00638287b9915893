package cmd

import (
	"log"
	"log/slog"

	"eventrest/config"
	"eventrest/internal/handlers"
	"eventrest/internal/services"
	"eventrest/security"
	"eventrest/utils"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	pubnub "github.com/pubnub/go"
)

func Start() error {
	app := pocketbase.New()

	cfg := config.LoadConfig()

	redisClient := utils.NewRedisClient(cfg.RedisURL)
	defer redisClient.Close()

	// PubNub is optional; without keys, notifications are a no-op.
	var pn *pubnub.PubNub
	if cfg.PubNubPublishKey != "" && cfg.PubNubSubscribeKey != "" {
		pnConfig := pubnub.NewConfig()
		pnConfig.PublishKey = cfg.PubNubPublishKey
		pnConfig.SubscribeKey = cfg.PubNubSubscribeKey
		pnConfig.SecretKey = cfg.PubNubSecretKey
		pn = pubnub.NewPubNub(pnConfig)
	}

	// Initialize services
	notifyService := services.NewNotifyService(pn)
	eventService := services.NewEventService(app, redisClient, cfg.EventsCacheTTL)
	batchService := services.NewBatchService(app)
	orderService := services.NewOrderService(app, notifyService)
	ticketService := services.NewTicketService(app)

	// Initialize handlers
	eventHandler := handlers.NewEventHandler(eventService, cfg)
	batchHandler := handlers.NewBatchHandler(batchService)
	orderHandler := handlers.NewOrderHandler(orderService, cfg)
	ticketHandler := handlers.NewTicketHandler(ticketService, cfg)

	rateLimiter := security.NewRateLimiter(redisClient, cfg.PurchaseRateLimit, cfg.PurchaseRateWindow)

	// Enable migrations
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: true,
	})

	setupEventHooks(app, eventService)

	app.OnServe().BindFunc(func(e *core.ServeEvent) error {
		// Event endpoints
		e.Router.GET("/api/v1/events", eventHandler.List)
		e.Router.GET("/api/v1/events/{id}", eventHandler.Get)
		e.Router.POST("/api/v1/events", eventHandler.Create)
		e.Router.PUT("/api/v1/events/{id}", eventHandler.Update)
		e.Router.DELETE("/api/v1/events/{id}", eventHandler.Delete)

		// Ticket batch endpoints
		e.Router.GET("/api/v1/events/{eventId}/ticket-batches", batchHandler.ListForEvent)
		e.Router.POST("/api/v1/events/{eventId}/ticket-batches", batchHandler.Create)
		e.Router.GET("/api/v1/ticket-batches/{id}", batchHandler.Get)
		e.Router.PUT("/api/v1/ticket-batches/{id}", batchHandler.Update)
		e.Router.DELETE("/api/v1/ticket-batches/{id}", batchHandler.Delete)

		// Order endpoints
		e.Router.POST("/api/v1/orders", orderHandler.Create).
			BindFunc(rateLimiter.PurchaseLimit())
		e.Router.GET("/api/v1/orders", orderHandler.List)
		e.Router.GET("/api/v1/orders/all", orderHandler.ListAll)
		e.Router.GET("/api/v1/orders/{id}", orderHandler.Get)
		e.Router.PUT("/api/v1/orders/{id}/cancel", orderHandler.Cancel)
		e.Router.POST("/api/v1/orders/{id}/pay", orderHandler.Pay)

		// Ticket endpoints
		e.Router.GET("/api/v1/tickets", ticketHandler.List)
		e.Router.GET("/api/v1/tickets/admin", ticketHandler.AdminSearch)
		e.Router.GET("/api/v1/tickets/{id}", ticketHandler.Get)

		// Health check
		e.Router.GET("/health", func(e *core.RequestEvent) error {
			if err := utils.RedisHealthCheck(redisClient); err != nil {
				return e.JSON(503, map[string]string{
					"status": "unhealthy",
					"error":  err.Error(),
				})
			}
			return e.JSON(200, map[string]string{"status": "healthy"})
		})

		if cfg.EnableMetrics {
			e.Router.GET("/metrics", func(e *core.RequestEvent) error {
				promhttp.Handler().ServeHTTP(e.Response, e.Request)
				return nil
			})
		}

		log.Println("Server routes registered")

		return e.Next()
	})

	return app.Start()
}

// setupEventHooks drops the cached events listings whenever an event record
// changes through any path, including the PocketBase dashboard.
func setupEventHooks(app *pocketbase.PocketBase, eventService *services.EventService) {
	invalidate := func(e *core.RecordEvent) error {
		eventService.InvalidateCache(e.Context)
		slog.Info("events cache invalidated", "event_id", e.Record.Id)
		return e.Next()
	}

	app.OnRecordAfterCreateSuccess("events").BindFunc(invalidate)
	app.OnRecordAfterUpdateSuccess("events").BindFunc(invalidate)
	app.OnRecordAfterDeleteSuccess("events").BindFunc(invalidate)
}
