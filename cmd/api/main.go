package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/iotlogic/tank-monitor/internal/cloud"
	"github.com/iotlogic/tank-monitor/internal/config"
	"github.com/iotlogic/tank-monitor/internal/database"
	httpHandlers "github.com/iotlogic/tank-monitor/internal/http"
	"github.com/iotlogic/tank-monitor/internal/ratelimit"
	"github.com/iotlogic/tank-monitor/internal/repository"
	"github.com/iotlogic/tank-monitor/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer db.Close()

	if err := database.EnsureSchema(db); err != nil {
		log.Fatal().Err(err).Msg("schema bootstrap failed")
	}

	limiter, err := ratelimit.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("rate limiter init failed")
	}

	var notifier service.Notifier
	if cfg.UseCloudServices && cfg.SNSTopicArn != "" {
		snsClient, err := cloud.NewSNSClient(cfg.AWSRegion, cfg.SNSTopicArn)
		if err != nil {
			log.Warn().Err(err).Msg("sns init failed, alerts disabled")
		} else {
			notifier = snsClient
			log.Info().Msg("sns alerts enabled")
		}
	}

	repos := repository.New(db)
	svcs := service.New(repos, limiter, notifier, cfg, log.Logger)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })

	httpHandlers.Register(app, svcs)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info().Msg("shutting down")
		_ = app.Shutdown()
	}()

	log.Info().Str("addr", cfg.APIAddr).Msg("api listening")
	if err := app.Listen(cfg.APIAddr); err != nil {
		log.Fatal().Err(err).Msg("server exit")
	}
}
