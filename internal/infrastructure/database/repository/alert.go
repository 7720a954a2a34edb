package repository

import (
	"context"
	"fmt"

	"wisdomwealth-lab/internal/domain/models"
	"wisdomwealth-lab/internal/infrastructure/database"
)

// AlertRepository handles pending alert data access
type AlertRepository struct {
	db *database.PostgresDB
}

// NewAlertRepository creates a new alert repository
func NewAlertRepository(db *database.PostgresDB) *AlertRepository {
	return &AlertRepository{db: db}
}

const insertAlertQuery = `
	INSERT INTO pending_alerts (user_id, incident_id, alert_type, alert_message, status)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, created_at`

// InsertAlert queues one alert and returns its id
func (r *AlertRepository) InsertAlert(ctx context.Context, alert *models.PendingAlert) (int64, error) {
	err := r.db.Pool().QueryRow(ctx, insertAlertQuery,
		alert.UserID,
		alert.IncidentID,
		alert.AlertType,
		alert.AlertMessage,
		string(alert.Status),
	).Scan(&alert.ID, &alert.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert alert: %w", err)
	}
	return alert.ID, nil
}

const listAlertsQuery = `
	SELECT id, user_id, incident_id, alert_type, alert_message, status, created_at
	FROM pending_alerts
	WHERE user_id = $1
	ORDER BY created_at DESC
	LIMIT $2`

// ListByUser returns the user's alerts, newest first
func (r *AlertRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*models.PendingAlert, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Pool().Query(ctx, listAlertsQuery, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer rows.Close()

	alerts := make([]*models.PendingAlert, 0, limit)
	for rows.Next() {
		var alert models.PendingAlert
		var status string

		err := rows.Scan(
			&alert.ID,
			&alert.UserID,
			&alert.IncidentID,
			&alert.AlertType,
			&alert.AlertMessage,
			&status,
			&alert.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}

		alert.Status = models.AlertStatus(status)
		alerts = append(alerts, &alert)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate alerts: %w", err)
	}

	return alerts, nil
}

const updateAlertStatusQuery = `
	UPDATE pending_alerts
	SET status = $2
	WHERE id = $1`

// UpdateStatus transitions an alert's delivery status
func (r *AlertRepository) UpdateStatus(ctx context.Context, id int64, status models.AlertStatus) error {
	tag, err := r.db.Pool().Exec(ctx, updateAlertStatusQuery, id, string(status))
	if err != nil {
		return fmt.Errorf("failed to update alert status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("alert %d not found", id)
	}
	return nil
}
