// Command schedule-followups runs the separate follow-up pass: it
// scans recently sent/delivered anniversary and campaign emails,
// classifies each contact's behaviour, and schedules the appropriate
// follow-up tier.
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
	"github.com/pyrex41/o-email-schedule/internal/datecalc"
	"github.com/pyrex41/o-email-schedule/internal/repository"
	"github.com/pyrex41/o-email-schedule/internal/service/scheduling"
	"github.com/pyrex41/o-email-schedule/pkg/database"
	"github.com/pyrex41/o-email-schedule/pkg/logger"
)

var osExit = os.Exit

func main() {
	dsn := flag.String("db", "", "database connection string, overrides config")
	runAsOf := flag.String("as-of", "", "run as though today were this date (YYYY-MM-DD), for testing")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	appLogger := logger.NewLogger()
	appLogger.Info("starting follow-up pass")

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

	engine := buildFollowupEngine(db, cfg.Scheduling, appLogger)

	runID := uuid.New().String()
	stats, err := engine.Run(ctx, runID, today)
	if err != nil {
		appLogger.WithFields(map[string]interface{}{"run_id": runID, "error": err.Error()}).Error("follow-up run failed")
		osExit(1)
		return
	}

	appLogger.WithFields(map[string]interface{}{
		"run_id":             stats.RunID,
		"contacts_processed": stats.ContactsProcessed,
		"contacts_scheduled": stats.ContactsScheduled,
	}).Info("follow-up run completed")
}

func buildFollowupEngine(db *sql.DB, cfg *scheduling.Config, log logger.Logger) *scheduling.FollowupEngine {
	contactRepo := repository.NewContactRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	checkpointRepo := repository.NewCheckpointRepository(db)
	eventRepo := repository.NewEventRepository(db)

	registry := datecalc.NewRegistry(nil)
	timeProvider := scheduling.NewRealTimeProvider()

	return scheduling.NewFollowupEngine(scheduleRepo, contactRepo, campaignRepo, eventRepo, checkpointRepo, registry, cfg, timeProvider, log)
}
