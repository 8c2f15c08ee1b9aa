package config

import "github.com/caarlos0/env/v6"

type Config struct {
	// Server configuration
	Server struct {
		Port int `env:"SERVER_PORT" envDefault:"8080"`
	}

	// External model server
	Model struct {
		// Base URL of the regression model server
		Endpoint string `env:"MODEL_ENDPOINT" envDefault:"http://localhost:8000"`

		// Timeout for a single inference call (in seconds)
		Timeout int `env:"MODEL_TIMEOUT" envDefault:"30"`
	}

	// Reference data location and reload schedule
	Reference struct {
		// Directory holding the reference JSON files
		Dir string `env:"REFERENCE_DIR" envDefault:"config/reference"`

		// Cron spec for periodic table reloads
		ReloadSchedule string `env:"REFERENCE_RELOAD_SCHEDULE" envDefault:"@hourly"`
	}

	// Batch prediction configuration
	Batch struct {
		// Number of concurrent workers evaluating batch items
		WorkerCount int `env:"BATCH_WORKER_COUNT" envDefault:"4"`
	}

	// Prediction history persistence
	History struct {
		// Path of the sqlite history database
		DBPath string `env:"HISTORY_DB_PATH" envDefault:"database/predictions.db"`

		// Buffered records before pushes start failing
		QueueSize int `env:"HISTORY_QUEUE_SIZE" envDefault:"256"`

		// Maximum records per persisted batch
		MaxBatchSize int `env:"HISTORY_BATCH_SIZE" envDefault:"50"`

		// Maximum time to hold a partial batch (in seconds)
		FlushInterval int `env:"HISTORY_FLUSH_INTERVAL" envDefault:"5"`

		// Maximum number of retries for failed batch writes
		MaxRetries int `env:"HISTORY_MAX_RETRIES" envDefault:"3"`

		// Delay between retries in seconds
		RetryDelay int `env:"HISTORY_RETRY_DELAY" envDefault:"5"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
