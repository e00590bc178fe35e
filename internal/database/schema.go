package database

import "github.com/jmoiron/sqlx"

// The latest/hourly views keep aggregation in the store; the repository only
// ever reads them.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS tank_data (
		id BIGSERIAL PRIMARY KEY,
		tank_id INTEGER NOT NULL,
		level INTEGER NOT NULL,
		percentage INTEGER NOT NULL,
		timestamp TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tank_data_tank_time
		ON tank_data (tank_id, timestamp DESC)`,
	`CREATE TABLE IF NOT EXISTS alert_settings (
		tank_id INTEGER NOT NULL,
		alert_type TEXT NOT NULL,
		threshold INTEGER NOT NULL,
		is_enabled BOOLEAN NOT NULL DEFAULT true,
		PRIMARY KEY (tank_id, alert_type)
	)`,
	`CREATE OR REPLACE VIEW latest_tank_readings AS
		SELECT DISTINCT ON (tank_id) tank_id, level, percentage, timestamp
		FROM tank_data
		ORDER BY tank_id, timestamp DESC`,
	`CREATE OR REPLACE VIEW hourly_averages AS
		SELECT tank_id,
			date_trunc('hour', timestamp) AS hour_start,
			AVG(level)::float8 AS avg_level,
			AVG(percentage)::float8 AS avg_percentage,
			COUNT(*)::int AS samples
		FROM tank_data
		GROUP BY tank_id, date_trunc('hour', timestamp)`,
}

func EnsureSchema(db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
