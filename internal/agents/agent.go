package agents

import (
	"context"

	"wisdomwealth-lab/internal/domain/models"
)

// Agent is the shared capability every advisory agent implements.
// Analyze never mutates shared state; a non-nil error means the caller
// must substitute the conservative fallback result.
type Agent interface {
	Name() models.Intent
	Analyze(ctx context.Context, text string) (*models.HandlerResult, error)
}

// AlertGenerator is the optional capability of composing a family-facing
// alert message. Only the family agent provides it.
type AlertGenerator interface {
	GenerateAlert(ctx context.Context, event string, risk models.RiskLevel) string
}

// Registry holds the advisory agents that initialized successfully.
// An agent that failed to construct is simply absent; callers check
// presence with Get rather than testing nil fields.
type Registry struct {
	agents map[models.Intent]Agent
}

// NewRegistry builds a registry from the given agents. Nil entries are
// skipped so construction sites can pass results of fallible factories
// directly.
func NewRegistry(list ...Agent) *Registry {
	r := &Registry{agents: make(map[models.Intent]Agent, len(list))}
	for _, a := range list {
		if a != nil {
			r.agents[a.Name()] = a
		}
	}
	return r
}

// Get returns the agent registered for the intent, if any.
func (r *Registry) Get(intent models.Intent) (Agent, bool) {
	a, ok := r.agents[intent]
	return a, ok
}

// Alerter returns the family agent's alert-generation capability when
// the family agent is registered and supports it.
func (r *Registry) Alerter() (AlertGenerator, bool) {
	a, ok := r.agents[models.IntentFamily]
	if !ok {
		return nil, false
	}
	gen, ok := a.(AlertGenerator)
	return gen, ok
}

// Availability reports per-intent registration for the health surface.
func (r *Registry) Availability() map[string]bool {
	out := make(map[string]bool, len(models.AllIntents))
	for _, intent := range models.AllIntents {
		_, ok := r.agents[intent]
		out[string(intent)] = ok
	}
	return out
}
