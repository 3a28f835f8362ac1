package repository

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tourmetrics/matchup-engine/internal/engine"
	"github.com/tourmetrics/matchup-engine/internal/models"
	"github.com/tourmetrics/matchup-engine/pkg/database"
)

// ResultStore reads historical result records from the durable store and
// maps them into the engine's record shape. Fetch honors the caller's
// context deadline; a timed-out query surfaces as an error rather than
// blocking the request.
type ResultStore struct {
	db     *database.DB
	logger *logrus.Logger
}

// NewResultStore creates a gorm-backed result repository.
func NewResultStore(db *database.DB, logger *logrus.Logger) *ResultStore {
	return &ResultStore{db: db, logger: logger}
}

// FetchResults returns all result records for a domain, optionally limited
// to the given seasons, ordered ascending by event date.
func (s *ResultStore) FetchResults(ctx context.Context, domain string, seasons []int) ([]engine.ResultRecord, error) {
	query := s.db.WithContext(ctx).
		Model(&models.MatchResult{}).
		Where("domain = ?", domain)
	if len(seasons) > 0 {
		query = query.Where("season IN ?", seasons)
	}

	var rows []models.MatchResult
	if err := query.Order("event_date ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch results for domain %s: %w", domain, err)
	}

	s.logger.WithFields(logrus.Fields{
		"domain":  domain,
		"seasons": seasons,
		"records": len(rows),
	}).Debug("Fetched result records")

	records := make([]engine.ResultRecord, len(rows))
	for i, row := range rows {
		records[i] = engine.ResultRecord{
			ParticipantID:  row.ParticipantID,
			OpponentID:     row.OpponentID,
			EventID:        row.EventID,
			EventDate:      row.EventDate,
			Season:         row.Season,
			Segment:        row.Segment,
			Round:          row.Round,
			FinishPosition: row.FinishPosition,
			MissedCut:      row.MissedCut,
			Won:            row.Won,
			StraightSets:   row.StraightSets,
			Tiebreaks:      row.Tiebreaks,
			Detail:         string(row.OutcomeDetail),
		}
	}
	return records, nil
}
