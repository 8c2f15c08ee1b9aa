package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"dubaiprice/server/internal/models"
)

// Database is the prediction history store, backed by an embedded
// sqlite file.
type Database struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewDatabase opens (or creates) the history database and migrates its
// schema.
func NewDatabase(dbPath string, logger *logrus.Logger) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.AutoMigrate(&models.PredictionRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate history schema: %w", err)
	}

	return &Database{db: db, logger: logger}, nil
}

// SaveRecords writes a batch of prediction records in one transaction.
func (d *Database) SaveRecords(records []*models.PredictionRecord) error {
	if len(records) == 0 {
		return nil
	}
	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(records).Error; err != nil {
			return fmt.Errorf("failed to insert prediction records: %w", err)
		}
		return nil
	})
}

// GetRecentPredictions returns the newest records first.
func (d *Database) GetRecentPredictions(limit int) ([]models.PredictionRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	var records []models.PredictionRecord
	err := d.db.Order("created_at DESC, id DESC").Limit(limit).Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// GetHistoryStats aggregates the history table.
func (d *Database) GetHistoryStats() (*models.HistoryStats, error) {
	var stats models.HistoryStats

	row := d.db.Model(&models.PredictionRecord{}).
		Select("COUNT(*), COALESCE(AVG(adjusted_price), 0), COALESCE(AVG(price_per_sqm), 0)").
		Row()
	if err := row.Scan(&stats.TotalPredictions, &stats.AveragePrice, &stats.AveragePerSqm); err != nil {
		return nil, fmt.Errorf("failed to aggregate history: %w", err)
	}

	type confidenceCount struct {
		Confidence string
		N          int
	}
	var counts []confidenceCount
	err := d.db.Model(&models.PredictionRecord{}).
		Select("confidence, COUNT(*) AS n").
		Group("confidence").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count confidence levels: %w", err)
	}
	for _, c := range counts {
		switch models.Confidence(c.Confidence) {
		case models.ConfidenceHigh:
			stats.HighConfidence = c.N
		case models.ConfidenceMedium:
			stats.MediumConfidence = c.N
		case models.ConfidenceLow:
			stats.LowConfidence = c.N
		}
	}
	return &stats, nil
}

// Close releases the underlying connection pool.
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
