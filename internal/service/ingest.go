package service

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iotlogic/tank-monitor/internal/config"
	"github.com/iotlogic/tank-monitor/internal/domain"
	"github.com/iotlogic/tank-monitor/internal/ratelimit"
)

const timestampLayout = "2006-01-02 15:04:05"

// StoredReading echoes what was persisted, with the timestamp rendered in the
// configured display timezone.
type StoredReading struct {
	TankID     int    `json:"tank_id"`
	Level      int    `json:"level"`
	Percentage int    `json:"percentage"`
	Timestamp  string `json:"timestamp"`
}

type IngestService struct {
	store    Store
	limiter  ratelimit.Limiter
	notifier Notifier
	cfg      *config.Config
	log      zerolog.Logger
	now      func() time.Time
}

func NewIngestService(store Store, limiter ratelimit.Limiter, notifier Notifier, cfg *config.Config, logger zerolog.Logger) *IngestService {
	return &IngestService{
		store:    store,
		limiter:  limiter,
		notifier: notifier,
		cfg:      cfg,
		log:      logger,
		now:      time.Now,
	}
}

// Ingest runs the submission pipeline: parse, validate, authenticate, rate
// limit, derive, store. Checks run in that order and fail fast; an invalid or
// unauthenticated request never consumes a rate-limit slot.
func (s *IngestService) Ingest(body []byte) (*StoredReading, error) {
	if len(body) == 0 {
		return nil, ErrNoData
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var fields map[string]interface{}
	if err := dec.Decode(&fields); err != nil {
		return nil, ErrBadJSON
	}

	for _, name := range []string{"tank_id", "level", "api_key"} {
		v, ok := fields[name]
		if !ok || v == nil || v == "" {
			return nil, errMissingField(name)
		}
	}

	tankID, ok := asInt(fields["tank_id"])
	if !ok || tankID < 1 {
		return nil, ErrInvalidTankID
	}

	level, ok := asInt(fields["level"])
	if !ok || level < 0 || level > 500 {
		return nil, ErrInvalidLevel
	}

	percentage, havePercentage := -1, false
	if v, present := fields["percentage"]; present && v != nil {
		p, ok := asInt(v)
		if !ok || p < 0 || p > 100 {
			return nil, ErrInvalidPercentage
		}
		percentage, havePercentage = p, true
	}

	apiKey := strings.TrimSpace(asString(fields["api_key"]))
	if apiKey != s.cfg.APIKey {
		return nil, ErrInvalidAPIKey
	}

	allowed, err := s.limiter.Allow(apiKey)
	if err != nil {
		// Coarse abuse prevention: a broken limiter backend must not take
		// the ingestion path down with it.
		s.log.Error().Err(err).Msg("rate limiter check failed, allowing request")
		allowed = true
	}
	if !allowed {
		return nil, ErrRateLimited
	}

	if err := s.store.Ping(); err != nil {
		s.log.Error().Err(err).Msg("database connection error")
		return nil, ErrDBConnection
	}

	if !havePercentage {
		percentage = derivePercentage(level, s.cfg.TankMaxDepth)
	}

	ts := s.now().UTC()
	rd := &domain.Reading{
		TankID:     tankID,
		Level:      level,
		Percentage: percentage,
		Timestamp:  ts,
	}
	if err := s.store.InsertReading(rd); err != nil {
		s.log.Error().Err(err).Msg("database insert error")
		return nil, ErrStoreFailed
	}

	s.checkThresholds(rd)

	return &StoredReading{
		TankID:     tankID,
		Level:      level,
		Percentage: percentage,
		Timestamp:  ts.In(s.cfg.Location).Format(timestampLayout),
	}, nil
}

// FromMQTT feeds a payload from the readings topic through the same pipeline
// the HTTP endpoint uses, shared key check and rate limit included.
func (s *IngestService) FromMQTT(topic string, payload []byte) error {
	_, err := s.Ingest(payload)
	return err
}

func derivePercentage(level, maxDepth int) int {
	p := int(math.Round(float64(level) / float64(maxDepth) * 100))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func (s *IngestService) checkThresholds(rd *domain.Reading) {
	if s.notifier == nil {
		return
	}
	settings, err := s.store.AlertSettings(rd.TankID)
	if err != nil {
		s.log.Error().Err(err).Int("tank_id", rd.TankID).Msg("alert settings lookup failed")
		return
	}
	for _, a := range settings {
		if !a.IsEnabled || !crossed(a, rd.Percentage) {
			continue
		}
		if err := s.notifier.SendLevelAlert(a.TankID, a.AlertType, rd.Percentage, a.Threshold); err != nil {
			s.log.Error().Err(err).Str("alert_type", a.AlertType).Msg("alert publish failed")
		}
	}
}

func crossed(a domain.AlertSetting, percentage int) bool {
	switch a.AlertType {
	case domain.AlertLow, domain.AlertCritical:
		return percentage <= a.Threshold
	case domain.AlertHigh:
		return percentage >= a.Threshold
	}
	return false
}

// asInt accepts JSON numbers and numeric strings, the way the devices send
// them. Fractional values are rejected.
func asInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case json.Number:
		i, err := strconv.ParseInt(n.String(), 10, 64)
		if err != nil {
			return 0, false
		}
		return int(i), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

func asString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	}
	return ""
}
