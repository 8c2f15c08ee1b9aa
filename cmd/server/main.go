package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"dubaiprice/server/config"
	"dubaiprice/server/internal/api"
	"dubaiprice/server/internal/database"
	"dubaiprice/server/internal/engine"
	"dubaiprice/server/internal/inference"
	"dubaiprice/server/internal/processor"
	"dubaiprice/server/internal/queue"
	"dubaiprice/server/internal/reference"
	"dubaiprice/server/internal/scheduler"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	// Load reference tables once at startup
	logger.Infof("Loading reference tables from: %s", cfg.Reference.Dir)
	tables, err := config.LoadTables(cfg.Reference.Dir)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load reference tables")
	}
	store := reference.NewStore(tables)

	// Initialize history database
	if err := os.MkdirAll(filepath.Dir(cfg.History.DBPath), 0755); err != nil {
		logger.WithError(err).Fatal("Failed to create database directory")
	}
	db, err := database.NewDatabase(cfg.History.DBPath, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize history database")
	}
	defer db.Close()

	// Wire the history pipeline: queue -> processor -> sqlite
	historyQueue := queue.NewPredictionQueue(
		cfg.History.QueueSize,
		cfg.History.MaxBatchSize,
		time.Duration(cfg.History.FlushInterval)*time.Second,
		logger,
	)
	historyProcessor := processor.NewHistoryProcessor(db, historyQueue, cfg, logger)
	historyProcessor.Start()
	historyQueue.Start()
	defer historyQueue.Close()

	// Initialize the model boundary
	encoder := inference.NewFeatureEncoder(tables.Metadata, logger)
	predictor := inference.NewClient(
		cfg.Model.Endpoint,
		time.Duration(cfg.Model.Timeout)*time.Second,
		logger,
	)

	// Initialize the prediction engine
	eng := engine.NewEngine(store, encoder, predictor, cfg.Batch.WorkerCount, logger)
	eng.SetHistoryQueue(historyQueue)

	// Schedule periodic reference table reloads
	reloader := scheduler.NewScheduler(cfg.Reference.ReloadSchedule, store, func() (*reference.Tables, error) {
		return config.LoadTables(cfg.Reference.Dir)
	}, logger)
	if err := reloader.Start(); err != nil {
		logger.WithError(err).Fatal("Failed to start reload scheduler")
	}
	defer reloader.Stop()

	// Initialize router
	router := gin.Default()
	router.Use(cors.Default())

	handler := api.NewHandler(eng, store, db, logger)
	api.SetupRoutes(router, handler)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Infof("Starting server on %s", addr)
	if err := router.Run(addr); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
