package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"wisdomwealth-lab/internal/domain/models"
	"wisdomwealth-lab/internal/infrastructure/database"
)

// PreferenceRepository handles family preference data access
type PreferenceRepository struct {
	db *database.PostgresDB
}

// NewPreferenceRepository creates a new preference repository
func NewPreferenceRepository(db *database.PostgresDB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

const getPreferenceQuery = `
	SELECT user_id, allow_alerts, alert_threshold, contacts, created_at, updated_at
	FROM family_preferences
	WHERE user_id = $1`

// GetPreference returns the user's stored preference, or nil when the
// user has never configured one.
func (r *PreferenceRepository) GetPreference(ctx context.Context, userID string) (*models.FamilyPreference, error) {
	row := r.db.Pool().QueryRow(ctx, getPreferenceQuery, userID)

	var pref models.FamilyPreference
	var threshold string
	var contacts []byte

	err := row.Scan(
		&pref.UserID,
		&pref.AllowAlerts,
		&threshold,
		&contacts,
		&pref.CreatedAt,
		&pref.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan preference: %w", err)
	}

	pref.AlertThreshold = models.RiskLevel(threshold)
	if len(contacts) > 0 {
		if err := json.Unmarshal(contacts, &pref.Contacts); err != nil {
			return nil, fmt.Errorf("failed to unmarshal contacts: %w", err)
		}
	}

	return &pref, nil
}

const upsertPreferenceQuery = `
	INSERT INTO family_preferences (user_id, allow_alerts, alert_threshold, contacts)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (user_id) DO UPDATE SET
		allow_alerts = EXCLUDED.allow_alerts,
		alert_threshold = EXCLUDED.alert_threshold,
		contacts = EXCLUDED.contacts,
		updated_at = NOW()
	RETURNING created_at, updated_at`

// UpsertPreference creates or replaces the user's preference record
func (r *PreferenceRepository) UpsertPreference(ctx context.Context, pref *models.FamilyPreference) error {
	contacts := pref.Contacts
	if contacts == nil {
		contacts = []string{}
	}
	data, err := json.Marshal(contacts)
	if err != nil {
		return fmt.Errorf("failed to marshal contacts: %w", err)
	}

	err = r.db.Pool().QueryRow(ctx, upsertPreferenceQuery,
		pref.UserID,
		pref.AllowAlerts,
		string(pref.AlertThreshold),
		data,
	).Scan(&pref.CreatedAt, &pref.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert preference: %w", err)
	}
	return nil
}
