package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/xreward/backend/internal/config"
	"github.com/xreward/backend/internal/handler"
	"github.com/xreward/backend/internal/logging"
	"github.com/xreward/backend/internal/metrics"
	"github.com/xreward/backend/internal/repository"
	"github.com/xreward/backend/internal/service"
	"github.com/xreward/backend/internal/telegram"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logging.Setup("xreward-bot", cfg.Server.Environment, cfg.Log.File)

	// Open the store selected by DATABASE_URL
	repo, err := repository.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	if err := repo.Migrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Printf("Using %s store", repo.Dialect())

	m := metrics.New()

	// Create services
	userService := service.NewUserService(repo, m)
	adService := service.NewAdService(repo, userService, m)
	referralSvc := service.NewReferralService(repo, userService, m, cfg.Telegram.BotUsername)
	verifierSvc := service.NewVerifierService(repo, cfg.Roles)
	balanceSvc := service.NewBalanceService(userService, adService)
	membershipSvc := service.NewMembershipService(nil, cfg.Telegram.RequiredChannel, userService, m)
	pending := service.NewPendingActions(config.PendingActionTTL)

	seeded := verifierSvc.SeedVerifiers(context.Background())
	log.Printf("Seeded %d verifiers", seeded)

	router := telegram.NewRouter(userService, adService, referralSvc, verifierSvc, membershipSvc, pending, cfg.Telegram.MiniAppURL)

	// Create Telegram bot
	var bot *telegram.Bot
	if cfg.Telegram.BotToken != "" {
		bot, err = telegram.NewBot(cfg, router)
		if err != nil {
			log.Printf("Warning: Failed to create Telegram bot: %v", err)
		} else {
			// Set membership lookup (to avoid circular dependency)
			membershipSvc.SetLookup(bot)
			log.Printf("Telegram bot @%s initialized", bot.GetBotUsername())
		}
	} else {
		log.Println("Warning: BOT_TOKEN is not set, running API only")
	}

	h := handler.New(cfg, repo, userService, adService, referralSvc, balanceSvc, verifierSvc)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Telegram-Init-Data",
	}))

	app.Get("/health", h.Health)
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	// Mini app API with Telegram authentication
	h.Register(app)

	// Start background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if bot != nil {
		go bot.StartPolling(ctx)
		log.Println("Telegram bot started with long polling")
	}

	retentionWorker := service.NewAdRetentionWorker(adService, cfg.Ads.RetentionInterval)
	go retentionWorker.Start(ctx)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Shutting down server...")
		cancel()
		_ = app.Shutdown()
	}()

	// Start server
	log.Printf("Server starting on port %s", cfg.Server.Port)
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
