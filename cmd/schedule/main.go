// Command schedule runs one main scheduling pass: anniversary and
// campaign pipeline generation, load balancing, frequency limiting,
// and persistence.
package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/pyrex41/o-email-schedule/internal/config"
	idb "github.com/pyrex41/o-email-schedule/internal/database"
	"github.com/pyrex41/o-email-schedule/internal/datecalc"
	"github.com/pyrex41/o-email-schedule/internal/repository"
	"github.com/pyrex41/o-email-schedule/internal/service/scheduling"
	"github.com/pyrex41/o-email-schedule/internal/testdata"
	"github.com/pyrex41/o-email-schedule/pkg/database"
	"github.com/pyrex41/o-email-schedule/pkg/logger"
)

// osExit is a variable to allow mocking os.Exit in tests.
var osExit = os.Exit

func main() {
	dsn := flag.String("db", "", "database connection string, overrides config")
	initOnly := flag.Bool("init-only", false, "create the database schema and exit")
	testCampaigns := flag.Bool("test-campaigns", false, "seed sample campaign data and exit")
	runAsOf := flag.String("as-of", "", "run as though today were this date (YYYY-MM-DD), for testing")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	appLogger := logger.NewLogger()
	appLogger.Info("starting scheduling pass")

	connDSN := cfg.Database.DSN()
	if *dsn != "" {
		connDSN = *dsn
	}

	ctx := context.Background()
	db, err := database.Open(ctx, connDSN, database.DefaultPoolConfig())
	if err != nil {
		appLogger.WithField("error", err.Error()).Fatal("failed to connect to database")
		osExit(1)
		return
	}
	defer db.Close()

	if err := idb.InitializeDatabase(db); err != nil {
		appLogger.WithField("error", err.Error()).Fatal("failed to initialize database schema")
		osExit(1)
		return
	}

	if *initOnly {
		appLogger.Info("schema initialized, exiting per --init-only")
		return
	}

	today := time.Now().UTC()
	if *runAsOf != "" {
		parsed, err := time.Parse("2006-01-02", *runAsOf)
		if err != nil {
			appLogger.WithField("error", err.Error()).Fatal("invalid --as-of date")
			osExit(1)
			return
		}
		today = parsed
	}

	if *testCampaigns {
		appLogger.Info("seeding test campaign data")
		contactRepo := repository.NewContactRepository(db)
		if err := testdata.SeedCampaigns(ctx, db, contactRepo, today); err != nil {
			appLogger.WithField("error", err.Error()).Fatal("failed to seed test campaign data")
			osExit(1)
			return
		}
		appLogger.Info("test campaign data seeded")
		return
	}

	engine := buildEngine(db, cfg.Scheduling, appLogger)

	runID := uuid.New().String()
	stats, err := engine.Run(ctx, runID, today)
	if err != nil {
		appLogger.WithFields(map[string]interface{}{"run_id": runID, "error": err.Error()}).Error("scheduling run failed")
		osExit(1)
		return
	}

	appLogger.WithFields(map[string]interface{}{
		"run_id":             stats.RunID,
		"contacts_processed": stats.ContactsProcessed,
		"contacts_scheduled": stats.ContactsScheduled,
		"contacts_skipped":   stats.ContactsSkipped,
	}).Info("scheduling run completed")
}

func buildEngine(db *sql.DB, cfg *scheduling.Config, log logger.Logger) *scheduling.Engine {
	contactRepo := repository.NewContactRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	checkpointRepo := repository.NewCheckpointRepository(db)

	registry := datecalc.NewRegistry(nil)
	timeProvider := scheduling.NewRealTimeProvider()

	return scheduling.NewEngine(contactRepo, campaignRepo, scheduleRepo, checkpointRepo, registry, cfg, timeProvider, log)
}
