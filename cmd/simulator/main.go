package main

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/iotlogic/tank-monitor/internal/config"
)

type submission struct {
	TankID int    `json:"tank_id"`
	Level  int    `json:"level"`
	APIKey string `json:"api_key"`
}

// Emulates the LoRa receiver: publishes readings to the MQTT topic, or POSTs
// them straight to the HTTP endpoint when SIM_HTTP_URL is set.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	httpURL := os.Getenv("SIM_HTTP_URL")

	var client mqtt.Client
	if httpURL == "" {
		opts := mqtt.NewClientOptions().AddBroker(cfg.MQTTBroker)
		client = mqtt.NewClient(opts)
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			log.Fatal().Err(token.Error()).Msg("mqtt connect")
		}
		defer client.Disconnect(250)
	}

	level := 100
	for i := 0; i < 100; i++ {
		// Random walk within the sensor's range.
		level += rand.Intn(21) - 10
		if level < 0 {
			level = 0
		}
		if level > cfg.TankMaxDepth {
			level = cfg.TankMaxDepth
		}

		payload, _ := json.Marshal(submission{TankID: 1, Level: level, APIKey: cfg.APIKey})

		if httpURL != "" {
			resp, err := http.Post(httpURL, "application/json", bytes.NewReader(payload))
			if err != nil {
				log.Error().Err(err).Msg("post failed")
			} else {
				resp.Body.Close()
				log.Info().Int("level", level).Int("status", resp.StatusCode).Msg("posted")
			}
		} else {
			token := client.Publish(cfg.MQTTTopic, 0, false, payload)
			token.Wait()
			log.Info().Int("level", level).Msg("published")
		}

		time.Sleep(500 * time.Millisecond)
	}
	log.Info().Msg("simulation done")
}
