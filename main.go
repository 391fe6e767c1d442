package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"pricetracker/alerts"
	"pricetracker/config"
	"pricetracker/controllers"
	"pricetracker/database"
	"pricetracker/fetcher"
	"pricetracker/logger"
	"pricetracker/middleware"
	"pricetracker/notify"
	"pricetracker/requests"
	"pricetracker/routes"
	"pricetracker/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	zlog := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer zlog.Sync()

	database.ConnectDatabase(cfg.DatabaseDSN)

	robots := fetcher.NewRobots(cfg.FetchTimeout, cfg.RobotsTTL)
	pageFetcher := fetcher.New(cfg.FetchTimeout, robots)

	var mailer notify.Provider
	if cfg.SMTPConfigured() {
		mailer = notify.NewSMTPProvider(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
		zlog.Info("email delivery enabled", zap.String("smtp_host", cfg.SMTPHost))
	} else {
		mailer = notify.NewMockProvider(zlog)
		zlog.Warn("SMTP not configured, emails are logged only")
	}

	engine := alerts.NewEngine(mailer, zlog)
	pipeline := requests.NewPipeline(pageFetcher, zlog, cfg.MaxCandidates)
	sched := scheduler.New(pageFetcher, engine, pipeline, zlog, scheduler.Options{
		Interval:  cfg.CheckInterval,
		Workers:   cfg.MaxConcurrentChecks,
		Retention: cfg.RetentionWindow(),
	})

	sched.Start()
	defer sched.Stop()

	middleware.Setup(cfg.JWTSecret)
	controllers.Setup(cfg, zlog, sched, pipeline)

	app := fiber.New(fiber.Config{AppName: cfg.AppName})
	app.Use(cors.New(cors.Config{
		AllowMethods: "GET, POST, PATCH, DELETE, OPTIONS",
		AllowHeaders: "Content-Type, Authorization",
	}))
	app.Use(fiberlogger.New())

	routes.RegisterAuthRoutes(app)
	routes.RegisterProductRoutes(app)
	routes.RegisterAlertRoutes(app)
	routes.RegisterRequestRoutes(app)
	routes.RegisterNotificationRoutes(app)
	routes.RegisterAdminRoutes(app)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Prometheus scrapes a plain net/http listener so the API port stays clean.
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(":"+cfg.MetricsPort, mux); err != nil {
			zlog.Error("metrics server stopped", zap.Error(err))
		}
	}()

	go func() {
		fmt.Println("🚀 Server running on port " + cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			zlog.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down")
	if err := app.Shutdown(); err != nil {
		zlog.Error("shutdown failed", zap.Error(err))
	}
}
