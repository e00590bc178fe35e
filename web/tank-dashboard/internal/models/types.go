package models

// Shapes mirror the tank API's query endpoint response.

type Snapshot struct {
	Status    string        `json:"status"`
	TankID    int           `json:"tank_id"`
	Latest    *Latest       `json:"latest"`
	Recent    []RecentPoint `json:"recent"`
	Hourly    []HourlyPoint `json:"hourly"`
	Timestamp string        `json:"timestamp"`
}

type Latest struct {
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

type ErrorResponse struct {
	Error string `json:"error"`
}
