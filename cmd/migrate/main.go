package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/tourmetrics/matchup-engine/internal/models"
	"github.com/tourmetrics/matchup-engine/pkg/config"
	"github.com/tourmetrics/matchup-engine/pkg/database"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|down|seed]")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	command := os.Args[1]

	switch command {
	case "up":
		if err := runMigrations(db); err != nil {
			logrus.Fatalf("Failed to run migrations: %v", err)
		}
		logrus.Info("Migrations completed successfully")

	case "down":
		if err := dropTables(db); err != nil {
			logrus.Fatalf("Failed to drop tables: %v", err)
		}
		logrus.Info("Tables dropped successfully")

	case "seed":
		if err := seedData(db); err != nil {
			logrus.Fatalf("Failed to seed data: %v", err)
		}
		logrus.Info("Data seeded successfully")

	default:
		log.Fatalf("Unknown command: %s", command)
	}
}

func runMigrations(db *database.DB) error {
	// gen_random_uuid needs pgcrypto on older PostgreSQL versions
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"pgcrypto\"").Error; err != nil {
		logrus.Warnf("Failed to create pgcrypto extension (sqlite?): %v", err)
	}

	if err := db.AutoMigrate(&models.MatchResult{}); err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_match_results_participant_date ON match_results(participant_id, event_date)",
		"CREATE INDEX IF NOT EXISTS idx_match_results_event ON match_results(event_id, participant_id)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

func dropTables(db *database.DB) error {
	if err := db.Exec("DROP TABLE IF EXISTS match_results CASCADE").Error; err != nil {
		return fmt.Errorf("failed to drop table match_results: %w", err)
	}
	return nil
}

func seedData(db *database.DB) error {
	now := time.Now().UTC()
	day := 24 * time.Hour

	// A short tennis rivalry across two surfaces
	tennis := []models.MatchResult{
		{Domain: "tennis", ParticipantID: "alcaraz", OpponentID: "sinner", EventID: "ausopen-2026-f", EventDate: now.Add(-30 * day), Season: 2026, Segment: "hard", Round: "F", Won: true, StraightSets: false, Tiebreaks: 1},
		{Domain: "tennis", ParticipantID: "sinner", OpponentID: "alcaraz", EventID: "ausopen-2026-f", EventDate: now.Add(-30 * day), Season: 2026, Segment: "hard", Round: "F", Won: false, Tiebreaks: 1},
		{Domain: "tennis", ParticipantID: "alcaraz", OpponentID: "sinner", EventID: "roland-garros-2026-sf", EventDate: now.Add(-14 * day), Season: 2026, Segment: "clay", Round: "SF", Won: true, StraightSets: true},
		{Domain: "tennis", ParticipantID: "sinner", OpponentID: "alcaraz", EventID: "roland-garros-2026-sf", EventDate: now.Add(-14 * day), Season: 2026, Segment: "clay", Round: "SF", Won: false},
		{Domain: "tennis", ParticipantID: "sinner", OpponentID: "zverev", EventID: "indian-wells-2026-qf", EventDate: now.Add(-60 * day), Season: 2026, Segment: "hard", Round: "QF", Won: true, StraightSets: true},
		{Domain: "tennis", ParticipantID: "alcaraz", OpponentID: "zverev", EventID: "madrid-2026-f", EventDate: now.Add(-21 * day), Season: 2026, Segment: "clay", Round: "F", Won: true, StraightSets: false, Tiebreaks: 2},
	}

	// Golf stroke-play finishes, one row per participant per event
	golf := []models.MatchResult{
		{Domain: "golf", ParticipantID: "scheffler", EventID: "masters-2026", EventDate: now.Add(-90 * day), Season: 2026, Segment: "augusta-national", FinishPosition: 1},
		{Domain: "golf", ParticipantID: "scheffler", EventID: "pga-champ-2026", EventDate: now.Add(-45 * day), Season: 2026, Segment: "quail-hollow", FinishPosition: 4},
		{Domain: "golf", ParticipantID: "scheffler", EventID: "us-open-2026", EventDate: now.Add(-14 * day), Season: 2026, Segment: "shinnecock", FinishPosition: 2},
		{Domain: "golf", ParticipantID: "mcilroy", EventID: "masters-2026", EventDate: now.Add(-90 * day), Season: 2026, Segment: "augusta-national", FinishPosition: 7},
		{Domain: "golf", ParticipantID: "mcilroy", EventID: "pga-champ-2026", EventDate: now.Add(-45 * day), Season: 2026, Segment: "quail-hollow", MissedCut: true},
		{Domain: "golf", ParticipantID: "mcilroy", EventID: "us-open-2026", EventDate: now.Add(-14 * day), Season: 2026, Segment: "shinnecock", FinishPosition: 12},
	}

	for i := range tennis {
		tennis[i].ID = uuid.New()
		tennis[i].OutcomeDetail = datatypes.JSON(`{}`)
		tennis[i].Tags = []string{"seed"}
	}
	for i := range golf {
		golf[i].ID = uuid.New()
		golf[i].OutcomeDetail = datatypes.JSON(`{}`)
		golf[i].Tags = []string{"seed"}
	}

	if err := db.Create(&tennis).Error; err != nil {
		return fmt.Errorf("failed to seed tennis results: %w", err)
	}
	if err := db.Create(&golf).Error; err != nil {
		return fmt.Errorf("failed to seed golf results: %w", err)
	}

	logrus.Infof("Seeded %d result rows", len(tennis)+len(golf))

	return nil
}
