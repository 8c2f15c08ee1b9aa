package models

import "time"

// PredictionRecord is one row of the prediction history store.
type PredictionRecord struct {
	ID               int64     `json:"id" gorm:"primaryKey"`
	AreaName         string    `json:"area_name"`
	Subtype          string    `json:"subtype"`
	Bedrooms         int       `json:"bedrooms"`
	AreaSize         float64   `json:"area_size"`
	BasePrice        float64   `json:"base_price"`
	AdjustedPrice    float64   `json:"adjusted_price"`
	PricePerSqm      float64   `json:"price_per_sqm"`
	Tier             string    `json:"tier"`
	Multiplier       float64   `json:"multiplier"`
	Confidence       string    `json:"confidence"`
	WarningCount     int       `json:"warning_count"`
	RegistrationType string    `json:"registration_type"`
	CreatedAt        time.Time `json:"created_at"`
}

// TableName keeps the history table name stable regardless of struct renames.
func (PredictionRecord) TableName() string {
	return "prediction_history"
}

// HistoryStats summarises the prediction history table.
type HistoryStats struct {
	TotalPredictions int     `json:"total_predictions"`
	AveragePrice     float64 `json:"average_price"`
	AveragePerSqm    float64 `json:"average_per_sqm"`
	HighConfidence   int     `json:"high_confidence"`
	MediumConfidence int     `json:"medium_confidence"`
	LowConfidence    int     `json:"low_confidence"`
}
