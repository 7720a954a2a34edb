package services

import (
	"context"
	"fmt"
	"strings"

	"wisdomwealth-lab/internal/agents"
	"wisdomwealth-lab/internal/domain/models"
	"wisdomwealth-lab/pkg/logger"
)

// PreferenceReader reads a user's family preference record.
// A nil preference with nil error means no record exists.
type PreferenceReader interface {
	GetPreference(ctx context.Context, userID string) (*models.FamilyPreference, error)
}

// AlertWriter persists a pending alert and returns its id.
type AlertWriter interface {
	InsertAlert(ctx context.Context, alert *models.PendingAlert) (int64, error)
}

// AlertPublisher announces a newly created alert to the downstream
// delivery process. Best-effort; errors are logged and ignored.
type AlertPublisher interface {
	PublishAlertCreated(ctx context.Context, alert *models.PendingAlert) error
}

// EscalationController decides whether a high-risk incident warrants a
// family alert and, if so, queues it. Every failure on this path is
// swallowed: escalation is never a hard dependency of the request.
type EscalationController struct {
	prefs     PreferenceReader
	alerts    AlertWriter
	registry  *agents.Registry
	publisher AlertPublisher
	logger    *logger.Logger
}

// NewEscalationController creates an escalation controller.
// publisher may be nil when streaming is disabled.
func NewEscalationController(
	prefs PreferenceReader,
	alerts AlertWriter,
	registry *agents.Registry,
	publisher AlertPublisher,
	log *logger.Logger,
) *EscalationController {
	return &EscalationController{
		prefs:     prefs,
		alerts:    alerts,
		registry:  registry,
		publisher: publisher,
		logger:    log.WithComponent("escalation"),
	}
}

// Evaluate fires iff the merged risk is HIGH, the user allows alerts
// (default true with no stored record), the risk clears the stored
// threshold, and the action set intersects the alert-worthy vocabulary.
// Returns the new alert id, or nil when no alert was raised.
func (e *EscalationController) Evaluate(ctx context.Context, userID string, incidentID int64, risk models.RiskLevel, response string, actions []string) *int64 {
	if risk != models.RiskHigh {
		return nil
	}

	prefs, err := e.prefs.GetPreference(ctx, userID)
	if err != nil {
		e.logger.Error().Err(err).Str("user_id", userID).Msg("preference lookup failed, escalation dropped")
		return nil
	}
	if prefs == nil {
		prefs = models.DefaultFamilyPreference(userID)
	}

	if !prefs.AllowAlerts {
		return nil
	}
	if !risk.AtLeast(prefs.AlertThreshold) {
		return nil
	}
	if !intersects(actions, models.AlertWorthyActions) {
		return nil
	}

	message := e.buildMessage(ctx, userID, response, risk)

	alert := &models.PendingAlert{
		UserID:       userID,
		IncidentID:   &incidentID,
		AlertType:    models.AlertTypeSecurity,
		AlertMessage: message,
		Status:       models.AlertPending,
	}

	id, err := e.alerts.InsertAlert(ctx, alert)
	if err != nil {
		e.logger.Error().Err(err).Str("user_id", userID).Int64("incident_id", incidentID).
			Msg("failed to persist family alert")
		return nil
	}
	alert.ID = id

	if e.publisher != nil {
		if err := e.publisher.PublishAlertCreated(ctx, alert); err != nil {
			e.logger.Warn().Err(err).Int64("alert_id", id).Msg("alert event publish failed")
		}
	}

	e.logger.Info().Str("user_id", userID).Int64("alert_id", id).Msg("family alert queued")
	return &id
}

func (e *EscalationController) buildMessage(ctx context.Context, userID, response string, risk models.RiskLevel) string {
	if alerter, ok := e.registry.Alerter(); ok {
		event := fmt.Sprintf("Security alert for user %s: %s", userID, response)
		return alerter.GenerateAlert(ctx, event, risk)
	}
	return fmt.Sprintf(
		"🚨 FAMILY ALERT: We detected a %s security concern. Please contact your family member to verify their safety.",
		strings.ToLower(string(risk)),
	)
}

func intersects(actions, vocabulary []string) bool {
	for _, a := range actions {
		for _, v := range vocabulary {
			if a == v {
				return true
			}
		}
	}
	return false
}
