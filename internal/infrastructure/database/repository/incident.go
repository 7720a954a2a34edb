package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"wisdomwealth-lab/internal/domain/models"
	"wisdomwealth-lab/internal/infrastructure/database"
)

// IncidentRepository handles incident ledger data access
type IncidentRepository struct {
	db *database.PostgresDB
}

// NewIncidentRepository creates a new incident repository
func NewIncidentRepository(db *database.PostgresDB) *IncidentRepository {
	return &IncidentRepository{db: db}
}

const insertIncidentQuery = `
	INSERT INTO incidents (user_id, input_text, risk_level, response, agent_traces, actions, confidence_score)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, created_at`

// InsertIncident appends one incident to the ledger and returns its id
func (r *IncidentRepository) InsertIncident(ctx context.Context, incident *models.Incident) (int64, error) {
	err := r.db.Pool().QueryRow(ctx, insertIncidentQuery,
		incident.UserID,
		incident.InputText,
		string(incident.RiskLevel),
		incident.Response,
		incident.AgentTraces,
		incident.Actions,
		incident.ConfidenceScore,
	).Scan(&incident.ID, &incident.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert incident: %w", err)
	}
	return incident.ID, nil
}

const getIncidentQuery = `
	SELECT id, user_id, input_text, risk_level, response, agent_traces, actions, confidence_score, created_at
	FROM incidents
	WHERE id = $1`

// GetByID returns one incident, or nil if it does not exist
func (r *IncidentRepository) GetByID(ctx context.Context, id int64) (*models.Incident, error) {
	row := r.db.Pool().QueryRow(ctx, getIncidentQuery, id)
	return scanIncident(row)
}

const listRecentIncidentsQuery = `
	SELECT id, user_id, input_text, risk_level, response, agent_traces, actions, confidence_score, created_at
	FROM incidents
	WHERE user_id = $1
	ORDER BY created_at DESC
	LIMIT $2`

// ListRecent returns the user's most recent incidents, newest first
func (r *IncidentRepository) ListRecent(ctx context.Context, userID string, limit int) ([]*models.Incident, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.Pool().Query(ctx, listRecentIncidentsQuery, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	defer rows.Close()

	incidents := make([]*models.Incident, 0, limit)
	for rows.Next() {
		incident, err := scanIncidentRow(rows)
		if err != nil {
			return nil, err
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate incidents: %w", err)
	}

	return incidents, nil
}

func scanIncident(row pgx.Row) (*models.Incident, error) {
	incident, err := scanIncidentRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return incident, err
}

func scanIncidentRow(row pgx.Row) (*models.Incident, error) {
	var incident models.Incident
	var riskLevel string

	err := row.Scan(
		&incident.ID,
		&incident.UserID,
		&incident.InputText,
		&riskLevel,
		&incident.Response,
		&incident.AgentTraces,
		&incident.Actions,
		&incident.ConfidenceScore,
		&incident.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan incident: %w", err)
	}

	incident.RiskLevel = models.RiskLevel(riskLevel)
	return &incident, nil
}
