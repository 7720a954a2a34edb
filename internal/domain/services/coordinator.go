package services

import (
	"context"
	"time"

	"wisdomwealth-lab/internal/domain/models"
	"wisdomwealth-lab/pkg/logger"
)

// technicalDifficultyNarrative is returned when the ledger write fails.
const technicalDifficultyNarrative = "I'm experiencing technical difficulties. Please try again or contact support."

// IncidentWriter persists an incident and returns its ledger id.
type IncidentWriter interface {
	InsertIncident(ctx context.Context, incident *models.Incident) (int64, error)
}

// Coordinator runs the full advisory pipeline for one request:
// route → fan out → merge → persist → escalate.
type Coordinator struct {
	aggregator *Aggregator
	escalation *EscalationController
	incidents  IncidentWriter
	logger     *logger.Logger
}

// NewCoordinator wires the pipeline stages together.
func NewCoordinator(aggregator *Aggregator, escalation *EscalationController, incidents IncidentWriter, log *logger.Logger) *Coordinator {
	return &Coordinator{
		aggregator: aggregator,
		escalation: escalation,
		incidents:  incidents,
		logger:     log.WithComponent("coordinator"),
	}
}

// Process handles one user request end to end and always returns a
// structured result; no internal error ever reaches the caller raw.
func (c *Coordinator) Process(ctx context.Context, userID, text string, meta models.RequestMeta) *models.AdvisoryResult {
	log := c.logger.WithUserID(userID)
	log.Info().Int("text_len", len(text)).Msg("processing request")

	intents := DetectIntents(text)
	traces := make([]string, len(intents))
	for i, intent := range intents {
		traces[i] = string(intent)
	}

	agg := c.aggregator.Run(ctx, intents, text)

	incident := &models.Incident{
		UserID:          userID,
		InputText:       text,
		RiskLevel:       agg.Risk,
		Response:        agg.Response,
		AgentTraces:     traces,
		Actions:         agg.Actions,
		ConfidenceScore: agg.Confidence,
	}

	incidentID, err := c.incidents.InsertIncident(ctx, incident)
	if err != nil {
		// The ledger is the one hard dependency: without the audit row the
		// request is reported as degraded, risk never understated below MEDIUM.
		log.Error().Err(err).Msg("incident write failed")
		return &models.AdvisoryResult{
			Response:    technicalDifficultyNarrative,
			Risk:        models.RiskMedium,
			AgentTraces: []string{"error"},
			Actions:     []string{models.ActionTryAgain, models.ActionContactSupport},
			Timestamp:   time.Now().UTC(),
		}
	}

	familyAlertID := c.escalation.Evaluate(ctx, userID, incidentID, agg.Risk, agg.Response, agg.Actions)

	log.Info().
		Int64("incident_id", incidentID).
		Str("risk", string(agg.Risk)).
		Strs("agent_traces", traces).
		Msg("request processed")

	return &models.AdvisoryResult{
		Response:        agg.Response,
		Risk:            agg.Risk,
		AgentTraces:     traces,
		Actions:         agg.Actions,
		LogsID:          &incidentID,
		ConfidenceScore: agg.Confidence,
		Timestamp:       time.Now().UTC(),
		FamilyAlertID:   familyAlertID,
	}
}
