package config

import "github.com/caarlos0/env/v6"

type Config struct {
	// Server configuration
	Server struct {
		Port string `env:"SERVER_PORT" envDefault:"5250"`
	}

	// Database configuration
	Database struct {
		// Path to the sqlite file holding the observation log
		Path string `env:"DATABASE_PATH" envDefault:"database/quintopanel.db"`
	}

	// Data configuration
	Data struct {
		// Optional tabular snapshot export loaded into the log at startup
		SnapshotFile string `env:"SNAPSHOT_FILE" envDefault:""`

		// City assumed for legacy records without a Cidade column
		DefaultCity string `env:"DEFAULT_CITY" envDefault:"São Paulo"`

		// Optional JSON file overriding the built-in neighborhood tables
		NeighborhoodTables string `env:"NEIGHBORHOOD_TABLES" envDefault:""`
	}

	// BatchProcessing configuration
	BatchProcessing struct {
		// Buffered batches held by the ingest queue
		QueueSize int `env:"BATCH_QUEUE_SIZE" envDefault:"50"`

		// Number of concurrent batch processors
		ProcessorCount int `env:"BATCH_PROCESSOR_COUNT" envDefault:"2"`

		// Maximum number of retries for failed batches
		MaxRetries int `env:"BATCH_MAX_RETRIES" envDefault:"3"`

		// Delay between retries in seconds
		RetryDelay int `env:"BATCH_RETRY_DELAY" envDefault:"5"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
