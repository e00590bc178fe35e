package service

import (
	"github.com/rs/zerolog"

	"github.com/iotlogic/tank-monitor/internal/config"
	"github.com/iotlogic/tank-monitor/internal/domain"
	"github.com/iotlogic/tank-monitor/internal/ratelimit"
)

// Store is the narrow slice of the readings store the services need.
// *repository.Repos satisfies it; tests use fakes.
type Store interface {
	Ping() error
	InsertReading(rd *domain.Reading) error
	Latest(tankID int) (*domain.Reading, error)
	Recent(tankID, limit int) ([]domain.Reading, error)
	Hourly(tankID, limit int) ([]domain.HourlyAggregate, error)
	AlertSettings(tankID int) ([]domain.AlertSetting, error)
}

// Notifier publishes threshold alerts. Nil notifier disables alerting.
type Notifier interface {
	SendLevelAlert(tankID int, alertType string, percentage, threshold int) error
}

type Services struct {
	Ingest *IngestService
	Query  *QueryService
}

func New(store Store, limiter ratelimit.Limiter, notifier Notifier, cfg *config.Config, logger zerolog.Logger) *Services {
	return &Services{
		Ingest: NewIngestService(store, limiter, notifier, cfg, logger),
		Query:  NewQueryService(store, cfg, logger),
	}
}
