package models

import "time"

// Incident is one append-only row in the advisory ledger. Every processed
// request produces exactly one incident unless the ledger itself is down.
type Incident struct {
	ID              int64     `json:"id"`
	UserID          string    `json:"user_id"`
	InputText       string    `json:"input_text"`
	RiskLevel       RiskLevel `json:"risk_level"`
	Response        string    `json:"response"`
	AgentTraces     []string  `json:"agent_traces"`
	Actions         []string  `json:"actions"`
	ConfidenceScore *float64  `json:"confidence_score,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// FamilyPreference controls whether and when family alerts may be raised
// for a user. A user with no stored record gets the permissive defaults.
type FamilyPreference struct {
	UserID         string    `json:"user_id"`
	AllowAlerts    bool      `json:"allow_alerts"`
	AlertThreshold RiskLevel `json:"alert_threshold"`
	Contacts       []string  `json:"contacts"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DefaultFamilyPreference returns the implicit preference for users with
// no stored record: alerts allowed, MEDIUM threshold, no contacts.
func DefaultFamilyPreference(userID string) *FamilyPreference {
	return &FamilyPreference{
		UserID:         userID,
		AllowAlerts:    true,
		AlertThreshold: RiskMedium,
	}
}

// AlertStatus tracks the delivery lifecycle of a pending alert. The
// coordination layer only ever writes PENDING; the downstream delivery
// process owns the SENT/FAILED transitions.
type AlertStatus string

const (
	AlertPending AlertStatus = "PENDING"
	AlertSent    AlertStatus = "SENT"
	AlertFailed  AlertStatus = "FAILED"
)

// PendingAlert is a queued family notification referencing the incident
// that triggered it. The incident reference is intentionally weak: the
// retention sweep may remove the incident first.
type PendingAlert struct {
	ID           int64       `json:"id"`
	UserID       string      `json:"user_id"`
	IncidentID   *int64      `json:"incident_id,omitempty"`
	AlertType    string      `json:"alert_type"`
	AlertMessage string      `json:"alert_message"`
	Status       AlertStatus `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
}

// AlertTypeSecurity is the only alert type the escalation path emits.
const AlertTypeSecurity = "SECURITY"
