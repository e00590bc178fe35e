package main

import (
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/iotlogic/tank-monitor/internal/config"
	"github.com/iotlogic/tank-monitor/internal/database"
	"github.com/iotlogic/tank-monitor/internal/ratelimit"
	"github.com/iotlogic/tank-monitor/internal/repository"
	"github.com/iotlogic/tank-monitor/internal/service"
)

// Bridges the MQTT readings topic into the same ingestion pipeline the HTTP
// endpoint runs, so a misbehaving publisher is validated and throttled the
// same way a device is.
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

	repos := repository.New(db)
	svcs := service.New(repos, limiter, nil, cfg, log.Logger)

	opts := mqtt.NewClientOptions().AddBroker(cfg.MQTTBroker)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	handler := func(_ mqtt.Client, msg mqtt.Message) {
		if err := svcs.Ingest.FromMQTT(msg.Topic(), msg.Payload()); err != nil {
			log.Error().Err(err).Msg("ingest failed")
		}
	}

	if token := client.Subscribe(cfg.MQTTTopic, 0, handler); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("subscribe failed")
	}

	log.Info().Str("topic", cfg.MQTTTopic).Msg("ingestor running; Ctrl+C to stop")
	for {
		time.Sleep(10 * time.Second)
	}
}
