package main

import (
	"errors"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"quintopanel/server/config"
	"quintopanel/server/internal/api"
	"quintopanel/server/internal/database"
	"quintopanel/server/internal/enrich"
	"quintopanel/server/internal/ingest"
	"quintopanel/server/internal/processor"
	"quintopanel/server/internal/queue"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	tables, err := config.LoadNeighborhoodTables(cfg.Data.NeighborhoodTables)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load neighborhood tables")
	}

	logger.Infof("Using database at: %s", cfg.Database.Path)
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	// Second handle on the same file for the gorm upsert path used by the
	// batch processor.
	gormDB, err := gorm.Open(sqlite.Open(cfg.Database.Path), &gorm.Config{})
	if err != nil {
		logger.WithError(err).Fatal("Failed to open gorm connection")
	}

	enricher := enrich.NewEnricher(tables, cfg.Data.DefaultCity)

	// Optional one-shot load of a snapshot export into the log.
	if cfg.Data.SnapshotFile != "" {
		loadSnapshotFile(db, enricher, cfg.Data.SnapshotFile, logger)
	}

	obsQueue := queue.NewObservationQueue(cfg.BatchProcessing.QueueSize, logger)
	batchProcessor := processor.NewBatchProcessor(gormDB, obsQueue, cfg, logger)
	batchProcessor.Start()
	obsQueue.Start()
	defer func() {
		obsQueue.Close()
		batchProcessor.Stop()
	}()

	handler := api.NewHandler(db, tables, enricher, obsQueue, logger)

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	api.SetupRoutes(router, handler)

	logger.Infof("Starting server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}

func loadSnapshotFile(db *database.Database, enricher *enrich.Enricher, path string, logger *logrus.Logger) {
	raws, err := ingest.ReadSnapshotFile(path)
	if err != nil {
		if errors.Is(err, ingest.ErrMissingSource) {
			logger.WithField("path", path).Warn("Snapshot file missing or empty, starting with current log")
			return
		}
		logger.WithError(err).Fatal("Failed to read snapshot file")
	}

	observations := enricher.EnrichAll(raws)
	if err := db.InsertObservations(observations); err != nil {
		logger.WithError(err).Fatal("Failed to load snapshot file into the log")
	}
	logger.WithFields(logrus.Fields{
		"path": path,
		"rows": len(observations),
	}).Info("Loaded snapshot file into the observation log")
}
