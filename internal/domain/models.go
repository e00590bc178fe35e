package domain

import "time"

type Reading struct {
	ID         int64     `db:"id" json:"id"`
	TankID     int       `db:"tank_id" json:"tank_id"`
	Level      int       `db:"level" json:"level"`
	Percentage int       `db:"percentage" json:"percentage"`
	Timestamp  time.Time `db:"timestamp" json:"timestamp"`
}

type HourlyAggregate struct {
	TankID        int       `db:"tank_id" json:"tank_id"`
	HourStart     time.Time `db:"hour_start" json:"hour_start"`
	AvgLevel      float64   `db:"avg_level" json:"avg_level"`
	AvgPercentage float64   `db:"avg_percentage" json:"avg_percentage"`
	Samples       int       `db:"samples" json:"samples"`
}

// AlertSetting configures one threshold per (tank, alert_type).
// low and critical fire when the fill percentage drops to the threshold,
// high fires when it rises to it.
type AlertSetting struct {
	TankID    int    `db:"tank_id" json:"tank_id"`
	AlertType string `db:"alert_type" json:"alert_type"`
	Threshold int    `db:"threshold" json:"threshold"`
	IsEnabled bool   `db:"is_enabled" json:"is_enabled"`
}

const (
	AlertLow      = "low"
	AlertHigh     = "high"
	AlertCritical = "critical"
)
