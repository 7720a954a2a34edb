package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"wisdomwealth-lab/internal/infrastructure/database"
)

// Repositories bundles all data access repositories
type Repositories struct {
	Incidents   *IncidentRepository
	Alerts      *AlertRepository
	Preferences *PreferenceRepository

	db *database.PostgresDB
	tx txRunner
}

// txRunner runs a function inside a transaction.
type txRunner interface {
	WithTx(ctx context.Context, fn func(pgx.Tx) error) error
}

// New creates the repository bundle
func New(db *database.PostgresDB) *Repositories {
	return &Repositories{
		Incidents:   NewIncidentRepository(db),
		Alerts:      NewAlertRepository(db),
		Preferences: NewPreferenceRepository(db),
		db:          db,
		tx:          db,
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS incidents (
	id BIGSERIAL PRIMARY KEY,
	user_id TEXT NOT NULL,
	input_text TEXT NOT NULL,
	risk_level TEXT NOT NULL,
	response TEXT NOT NULL,
	agent_traces TEXT[] NOT NULL DEFAULT '{}',
	actions TEXT[] NOT NULL DEFAULT '{}',
	confidence_score REAL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_incidents_user_created
	ON incidents (user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_incidents_created
	ON incidents (created_at);

CREATE TABLE IF NOT EXISTS family_preferences (
	user_id TEXT PRIMARY KEY,
	allow_alerts BOOLEAN NOT NULL DEFAULT TRUE,
	alert_threshold TEXT NOT NULL DEFAULT 'MEDIUM',
	contacts JSONB NOT NULL DEFAULT '[]',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS pending_alerts (
	id BIGSERIAL PRIMARY KEY,
	user_id TEXT NOT NULL,
	incident_id BIGINT,
	alert_type TEXT NOT NULL,
	alert_message TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'PENDING',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_pending_alerts_user
	ON pending_alerts (user_id, created_at DESC);
`

// InitSchema creates the tables and indexes if they do not exist
func (r *Repositories) InitSchema(ctx context.Context) error {
	if _, err := r.db.Pool().Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

const (
	cleanupIncidentsQuery = `
		DELETE FROM incidents
		WHERE created_at < NOW() - make_interval(days => $1)`

	cleanupOrphanedAlertsQuery = `
		DELETE FROM pending_alerts
		WHERE incident_id IS NOT NULL
		  AND NOT EXISTS (SELECT 1 FROM incidents i WHERE i.id = pending_alerts.incident_id)`
)

// Cleanup removes incidents older than the retention window, then any
// pending alerts whose incident no longer exists. Runs in one
// transaction so a partial sweep never leaves extra orphans behind.
func (r *Repositories) Cleanup(ctx context.Context, days int) (int64, int64, error) {
	var incidents, alerts int64

	err := r.tx.WithTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, cleanupIncidentsQuery, days)
		if err != nil {
			return fmt.Errorf("failed to delete expired incidents: %w", err)
		}
		incidents = tag.RowsAffected()

		tag, err = tx.Exec(ctx, cleanupOrphanedAlertsQuery)
		if err != nil {
			return fmt.Errorf("failed to delete orphaned alerts: %w", err)
		}
		alerts = tag.RowsAffected()

		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	return incidents, alerts, nil
}
