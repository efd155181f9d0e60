package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/vireo-cms/vireo-api/internal/config"
	"github.com/vireo-cms/vireo-api/internal/database"
	"github.com/vireo-cms/vireo-api/internal/events"
	"github.com/vireo-cms/vireo-api/internal/handler"
	"github.com/vireo-cms/vireo-api/internal/middleware"
	"github.com/vireo-cms/vireo-api/internal/models"
	"github.com/vireo-cms/vireo-api/internal/repository"
	"github.com/vireo-cms/vireo-api/internal/router"
	"github.com/vireo-cms/vireo-api/internal/service"
	cloud "github.com/vireo-cms/vireo-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Page{},
		&models.Block{},
		&models.Form{},
		&models.FormField{},
		&models.FormFieldOption{},
		&models.FormSubmission{},
		&models.SubmissionNote{},
		&models.BlogCategory{},
		&models.Blog{},
		&models.MediaItem{},
		&models.SiteSetting{},
		&models.PolicyDocument{},
		&models.FaqItem{},
		&models.PageView{},
		&models.PageActivity{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var natsConn *nats.Conn
	if cfg.NatsURL != "" {
		natsConn, err = nats.Connect(cfg.NatsURL)
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, activity events disabled")
		} else {
			defer natsConn.Drain()
		}
	}
	publisher := events.NewPublisher(natsConn, logger)

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	pageRepo := repository.NewPageRepository(db)
	blockRepo := repository.NewBlockRepository(db)
	formRepo := repository.NewFormRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	blogRepo := repository.NewBlogRepository(db)
	mediaRepo := repository.NewMediaRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	faqRepo := repository.NewFaqRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	analyticsService := service.NewAnalyticsService(analyticsRepo, submissionRepo, pageRepo, blogRepo, redisClient, cfg.DashboardCacheTTL, logger)
	mediaService := service.NewMediaService(mediaRepo, uploader, cfg.UploadMaxSizeMB, logger)
	pageService := service.NewPageService(pageRepo, analyticsService, publisher, redisClient, cfg.PageCacheTTL, logger)
	blockService := service.NewBlockService(blockRepo, pageRepo, logger)
	formService := service.NewFormService(formRepo, submissionRepo, mediaService, logger)
	blogService := service.NewBlogService(blogRepo, logger)
	settingsService := service.NewSettingsService(settingsRepo, logger)
	faqService := service.NewFaqService(faqRepo, logger)
	sitemapService := service.NewSitemapService(pageRepo, blogRepo, cfg.BaseURL, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		PageHandler:      handler.NewPageHandler(pageService, logger),
		BlockHandler:     handler.NewBlockHandler(blockService, logger),
		FormHandler:      handler.NewFormHandler(formService, logger),
		BlogHandler:      handler.NewBlogHandler(blogService, logger),
		MediaHandler:     handler.NewMediaHandler(mediaService, logger),
		AnalyticsHandler: handler.NewAnalyticsHandler(analyticsService, logger),
		SettingsHandler:  handler.NewSettingsHandler(settingsService, logger),
		FaqHandler:       handler.NewFaqHandler(faqService, logger),
		SitemapHandler:   handler.NewSitemapHandler(sitemapService, logger),
		JWTMiddleware:    middleware.JWTProtected(cfg.JWTSecret),
		TrackRateLimit:   middleware.RateLimit("track", cfg.TrackRateLimit, cfg.TrackRateWindow),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
