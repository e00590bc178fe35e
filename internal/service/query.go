package service

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/iotlogic/tank-monitor/internal/config"
)

const (
	recentLimit = 50
	hourlyLimit = 24
)

// Snapshot is the composed query response: latest reading, recent raw
// readings and hourly buckets, both in chronological order.
type Snapshot struct {
	Status    string        `json:"status"`
	TankID    int           `json:"tank_id"`
	Latest    *LatestPoint  `json:"latest"`
	Recent    []RecentPoint `json:"recent"`
	Hourly    []HourlyPoint `json:"hourly"`
	Timestamp string        `json:"timestamp"`
}

type LatestPoint struct {
	TankID     int    `json:"tank_id"`
	Level      int    `json:"level"`
	Percentage int    `json:"percentage"`
	Timestamp  string `json:"timestamp"`
}

type RecentPoint struct {
	Level      int    `json:"level"`
	Percentage int    `json:"percentage"`
	Timestamp  string `json:"timestamp"`
}

type HourlyPoint struct {
	TankID        int     `json:"tank_id"`
	HourStart     string  `json:"hour_start"`
	AvgLevel      float64 `json:"avg_level"`
	AvgPercentage float64 `json:"avg_percentage"`
	Samples       int     `json:"samples"`
}

type QueryService struct {
	store Store
	cfg   *config.Config
	log   zerolog.Logger
	now   func() time.Time
}

func NewQueryService(store Store, cfg *config.Config, logger zerolog.Logger) *QueryService {
	return &QueryService{store: store, cfg: cfg, log: logger, now: time.Now}
}

// Snapshot issues three independent reads; the result is a best-effort view,
// not a transactional one. A tank with no rows yields latest=null and empty
// arrays, not an error.
func (s *QueryService) Snapshot(tankID int) (*Snapshot, error) {
	latest, err := s.store.Latest(tankID)
	if err != nil {
		s.log.Error().Err(err).Int("tank_id", tankID).Msg("latest read failed")
		return nil, ErrDBConnection
	}

	readings, err := s.store.Recent(tankID, recentLimit)
	if err != nil {
		s.log.Error().Err(err).Int("tank_id", tankID).Msg("recent read failed")
		return nil, ErrDBConnection
	}

	buckets, err := s.store.Hourly(tankID, hourlyLimit)
	if err != nil {
		s.log.Error().Err(err).Int("tank_id", tankID).Msg("hourly read failed")
		return nil, ErrDBConnection
	}

	snap := &Snapshot{
		Status:    "OK",
		TankID:    tankID,
		Recent:    make([]RecentPoint, 0, len(readings)),
		Hourly:    make([]HourlyPoint, 0, len(buckets)),
		Timestamp: s.now().In(s.cfg.Location).Format(timestampLayout),
	}

	if latest != nil {
		snap.Latest = &LatestPoint{
			TankID:     latest.TankID,
			Level:      latest.Level,
			Percentage: latest.Percentage,
			Timestamp:  s.display(latest.Timestamp),
		}
	}

	// Store hands rows back newest first; callers chart them oldest first.
	for i := len(readings) - 1; i >= 0; i-- {
		rd := readings[i]
		snap.Recent = append(snap.Recent, RecentPoint{
			Level:      rd.Level,
			Percentage: rd.Percentage,
			Timestamp:  s.display(rd.Timestamp),
		})
	}

	for i := len(buckets) - 1; i >= 0; i-- {
		b := buckets[i]
		snap.Hourly = append(snap.Hourly, HourlyPoint{
			TankID:        b.TankID,
			HourStart:     s.display(b.HourStart),
			AvgLevel:      b.AvgLevel,
			AvgPercentage: b.AvgPercentage,
			Samples:       b.Samples,
		})
	}

	return snap, nil
}

func (s *QueryService) display(t time.Time) string {
	return t.In(s.cfg.Location).Format(timestampLayout)
}
