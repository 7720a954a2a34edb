package models

import "time"

// Intent names one of the specialized advisory domains a request can be
// routed to. The order of AllIntents is the canonical activation order
// and doubles as the merge tiebreak order.
type Intent string

const (
	IntentFraud      Intent = "fraud"
	IntentHealthcare Intent = "healthcare"
	IntentEstate     Intent = "estate"
	IntentFamily     Intent = "family"
)

// AllIntents lists every intent in canonical order.
var AllIntents = []Intent{IntentFraud, IntentHealthcare, IntentEstate, IntentFamily}

// HandlerResult is the uniform verdict shape every advisory agent produces.
// Confidence is nil when the agent did not report one; Error carries the
// failure description for synthetic fallback results.
type HandlerResult struct {
	Agent      Intent    `json:"agent"`
	Risk       RiskLevel `json:"risk"`
	Response   string    `json:"response"`
	Actions    []string  `json:"actions"`
	Confidence *float64  `json:"confidence,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// Failed reports whether this result is a synthetic fallback for an agent
// that errored or timed out.
func (r *HandlerResult) Failed() bool {
	return r.Error != ""
}

// AdvisoryResult is the unified outcome of one coordinated request:
// the merged response plus the ledger and escalation references.
type AdvisoryResult struct {
	Response        string    `json:"response"`
	Risk            RiskLevel `json:"risk"`
	AgentTraces     []string  `json:"agent_traces"`
	Actions         []string  `json:"actions"`
	LogsID          *int64    `json:"logs_id,omitempty"`
	ConfidenceScore *float64  `json:"confidence_score,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
	FamilyAlertID   *int64    `json:"family_alert_id,omitempty"`
}

// RequestMeta carries optional caller-supplied context alongside the
// free-text report. Unknown keys pass through to the agents untouched.
type RequestMeta map[string]string
