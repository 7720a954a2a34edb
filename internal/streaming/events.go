package streaming

import (
	"time"

	"github.com/google/uuid"

	"wisdomwealth-lab/internal/domain/models"
)

// AlertEvent is the wire form of a queued family alert. The delivery
// process consumes these and owns the SENT/FAILED status transitions.
type AlertEvent struct {
	EventID      string    `json:"event_id"`
	AlertID      int64     `json:"alert_id"`
	UserID       string    `json:"user_id"`
	IncidentID   *int64    `json:"incident_id,omitempty"`
	AlertType    string    `json:"alert_type"`
	AlertMessage string    `json:"alert_message"`
	RiskLevel    string    `json:"risk_level,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	EmittedAt    time.Time `json:"emitted_at"`
}

// NewAlertEvent builds the event for a freshly queued alert
func NewAlertEvent(alert *models.PendingAlert) *AlertEvent {
	return &AlertEvent{
		EventID:      uuid.NewString(),
		AlertID:      alert.ID,
		UserID:       alert.UserID,
		IncidentID:   alert.IncidentID,
		AlertType:    alert.AlertType,
		AlertMessage: alert.AlertMessage,
		CreatedAt:    alert.CreatedAt,
		EmittedAt:    time.Now().UTC(),
	}
}
