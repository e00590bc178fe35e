package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/iotlogic/tank-monitor/internal/domain"
)

type Repos struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Repos { return &Repos{db: db} }

func (r *Repos) Ping() error { return r.db.Ping() }

func (r *Repos) InsertReading(rd *domain.Reading) error {
	_, err := r.db.Exec(`INSERT INTO tank_data(tank_id, level, percentage, timestamp) VALUES ($1,$2,$3,$4)`,
		rd.TankID, rd.Level, rd.Percentage, rd.Timestamp)
	return err
}

// Latest returns nil without error when the tank has no readings yet.
func (r *Repos) Latest(tankID int) (*domain.Reading, error) {
	var out domain.Reading
	err := r.db.Get(&out, `SELECT tank_id, level, percentage, timestamp FROM latest_tank_readings WHERE tank_id = $1`, tankID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Recent returns up to limit readings, newest first.
func (r *Repos) Recent(tankID, limit int) ([]domain.Reading, error) {
	var out []domain.Reading
	err := r.db.Select(&out, `SELECT tank_id, level, percentage, timestamp FROM tank_data WHERE tank_id = $1 ORDER BY timestamp DESC LIMIT $2`,
		tankID, limit)
	return out, err
}

// Hourly returns up to limit one-hour buckets, newest first.
func (r *Repos) Hourly(tankID, limit int) ([]domain.HourlyAggregate, error) {
	var out []domain.HourlyAggregate
	err := r.db.Select(&out, `SELECT tank_id, hour_start, avg_level, avg_percentage, samples FROM hourly_averages WHERE tank_id = $1 ORDER BY hour_start DESC LIMIT $2`,
		tankID, limit)
	return out, err
}

func (r *Repos) AlertSettings(tankID int) ([]domain.AlertSetting, error) {
	var out []domain.AlertSetting
	err := r.db.Select(&out, `SELECT tank_id, alert_type, threshold, is_enabled FROM alert_settings WHERE tank_id = $1 AND is_enabled`, tankID)
	return out, err
}
