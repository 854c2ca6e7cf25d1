package main

import (
	"context"
	"log"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handler"
	"storefront/internal/logger"
	"storefront/internal/middleware"
	"storefront/internal/notify"
	"storefront/internal/queue"
	"storefront/internal/report"
	"storefront/internal/repository"
	"storefront/internal/service"
	ws "storefront/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// directNotifier dispatches email/SMS on a goroutine, detached from the
// request that triggered it.
type directNotifier struct {
	dispatcher *notify.Dispatcher
}

func (n *directNotifier) NotifyOrderStatusAsync(evt notify.OrderStatusEvent) {
	go n.dispatcher.NotifyOrderStatus(context.Background(), evt)
}

// queueNotifier publishes the event to RabbitMQ for the worker to deliver.
// When the publish fails the event falls back to direct dispatch so the
// customer still hears about the change.
type queueNotifier struct {
	client     *queue.Client
	dispatcher *notify.Dispatcher
	log        *zap.Logger
}

func (n *queueNotifier) NotifyOrderStatusAsync(evt notify.OrderStatusEvent) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := n.client.PublishOrderStatusEvent(ctx, evt); err != nil {
			n.log.Error("failed to publish notification event, dispatching directly",
				zap.Uint("order_id", evt.OrderID), zap.Error(err))
			n.dispatcher.NotifyOrderStatus(context.Background(), evt)
		}
	}()
}

// @title           Storefront API
// @version         1.0
// @description     Product catalog, kits, orders and sales reporting backend.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	// Load .env if present; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	db, err := database.NewConnection(cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}

	// Notification channels. Nil clients are skipped by the dispatcher, but
	// must only reach it through a nil interface, hence the indirection.
	var emailSender notify.EmailSender
	if smtpClient := notify.NewSMTPClient(notify.SMTPConfig{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: cfg.SMTPFrom,
	}); smtpClient != nil {
		emailSender = smtpClient
	}
	var smsSender notify.SmsSender
	if twilioClient := notify.NewTwilioClient(notify.TwilioConfig{
		AccountSID: cfg.TwilioAccountSID,
		AuthToken:  cfg.TwilioAuthToken,
		From:       cfg.TwilioPhoneFrom,
	}); twilioClient != nil {
		smsSender = twilioClient
	}
	dispatcher := notify.NewDispatcher(emailSender, smsSender, zlog)

	// With RabbitMQ configured, notifications go through the queue and a
	// worker consumes them. Otherwise they dispatch on a goroutine.
	var notifier service.StatusNotifier = &directNotifier{dispatcher: dispatcher}
	if cfg.RabbitMQURL != "" {
		queueClient, err := queue.New(cfg.RabbitMQURL)
		if err != nil {
			zlog.Error("rabbitmq unavailable, falling back to direct notification dispatch", zap.Error(err))
		} else {
			defer queueClient.Close()
			if err := queue.EnsureNotificationTopology(queueClient); err != nil {
				zlog.Fatal("failed to declare notification topology", zap.Error(err))
			}
			notifier = &queueNotifier{client: queueClient, dispatcher: dispatcher, log: zlog}
			go func() {
				if err := queue.RunNotificationWorker(queueClient, dispatcher, zlog); err != nil {
					zlog.Error("notification worker stopped", zap.Error(err))
				}
			}()
		}
	}

	hub := ws.NewHub(zlog)
	go hub.Run()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	kitRepo := repository.NewKitRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	txManager := repository.NewTransactionManager(db)

	currency := report.CurrencyFormat{
		Symbol:      cfg.CurrencySymbol,
		ThousandSep: cfg.CurrencyThousandSep,
		DecimalSep:  cfg.CurrencyDecimalSep,
	}

	// Services
	userService := service.NewUserService(userRepo, cfg.AdminSecret)
	productService := service.NewProductService(productRepo)
	commentService := service.NewCommentService(commentRepo, productRepo)
	kitService := service.NewKitService(kitRepo, productRepo, txManager)
	orderService := service.NewOrderService(orderRepo, txManager, notifier, hub)
	exportService := service.NewExportService(orderRepo, currency)

	// Handlers
	userHandler := handler.NewUserHandler(userService)
	productHandler := handler.NewProductHandler(productService, commentService)
	kitHandler := handler.NewKitHandler(kitService)
	orderHandler := handler.NewOrderHandler(orderService, exportService)

	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CorsAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/ws", func(c *gin.Context) {
		ws.ServeWs(hub, c, middleware.GetJWTSecret())
	})

	api := router.Group("")
	userHandler.RegisterRoutes(api)
	productHandler.RegisterRoutes(api)
	kitHandler.RegisterRoutes(api)
	orderHandler.RegisterRoutes(api)

	zlog.Info("starting server", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	if err := router.Run(":" + cfg.Port); err != nil {
		zlog.Fatal("server exited", zap.Error(err))
	}
}
