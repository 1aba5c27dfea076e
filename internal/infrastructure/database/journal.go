package database

import (
	"context"
	"encoding/json"
	"fmt"

	"honeypot-lab/internal/domain/models"
	"honeypot-lab/pkg/logger"
)

const journalSchema = `
CREATE TABLE IF NOT EXISTS intelligence_reports (
    id            BIGSERIAL PRIMARY KEY,
    session_id    TEXT        NOT NULL,
    scam_detected BOOLEAN     NOT NULL,
    total_messages INTEGER    NOT NULL,
    intelligence  JSONB       NOT NULL,
    agent_notes   TEXT        NOT NULL DEFAULT '',
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_intelligence_reports_session ON intelligence_reports (session_id);
`

// Journal stores dispatched intelligence reports for audit
type Journal struct {
	db     *PostgresDB
	logger *logger.Logger
}

// NewJournal creates the journal and ensures its schema exists
func NewJournal(ctx context.Context, db *PostgresDB, log *logger.Logger) (*Journal, error) {
	if _, err := db.pool.Exec(ctx, journalSchema); err != nil {
		return nil, fmt.Errorf("failed to create report journal schema: %w", err)
	}
	return &Journal{
		db:     db,
		logger: log.WithComponent("report-journal"),
	}, nil
}

// Record inserts one dispatched report
func (j *Journal) Record(ctx context.Context, report *models.IntelligenceReport) error {
	intel, err := json.Marshal(report.Intelligence)
	if err != nil {
		return fmt.Errorf("failed to marshal intelligence: %w", err)
	}

	_, err = j.db.pool.Exec(ctx,
		`INSERT INTO intelligence_reports (session_id, scam_detected, total_messages, intelligence, agent_notes)
         VALUES ($1, $2, $3, $4, $5)`,
		report.SessionID, report.ScamDetected, report.TotalMessages, intel, report.AgentNotes)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}
	return nil
}
