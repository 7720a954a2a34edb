package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"wisdomwealth-lab/internal/agents"
	"wisdomwealth-lab/internal/domain/models"
	"wisdomwealth-lab/pkg/logger"
)

// fallbackNarratives are the fixed per-intent texts substituted when an
// agent fails or is unavailable.
var fallbackNarratives = map[models.Intent]string{
	models.IntentFraud:      "Unable to analyze for fraud at this time.",
	models.IntentHealthcare: "Unable to analyze healthcare query at this time.",
	models.IntentEstate:     "Unable to analyze estate query at this time.",
	models.IntentFamily:     "Unable to process family request at this time.",
}

// emptyMergeNarrative is returned when no agent produced a usable result.
const emptyMergeNarrative = "I'm here to help with your financial security questions."

// Aggregate is the merged outcome of one fan-out round.
type Aggregate struct {
	Response   string
	Risk       models.RiskLevel
	Actions    []string
	Confidence *float64
	Results    []*models.HandlerResult
}

// Aggregator invokes the activated agents concurrently and folds their
// results into a single risk-ranked response.
type Aggregator struct {
	registry *agents.Registry
	timeout  time.Duration
	logger   *logger.Logger
}

// NewAggregator creates an aggregator with a per-agent timeout.
func NewAggregator(registry *agents.Registry, timeout time.Duration, log *logger.Logger) *Aggregator {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Aggregator{
		registry: registry,
		timeout:  timeout,
		logger:   log.WithComponent("aggregator"),
	}
}

// Run fans out to every activated agent, waits for all of them, and
// merges. An agent error or timeout becomes a synthetic fallback result;
// it never aborts the round.
func (a *Aggregator) Run(ctx context.Context, intents []models.Intent, text string) *Aggregate {
	results := make([]*models.HandlerResult, len(intents))

	var wg sync.WaitGroup
	for i, intent := range intents {
		wg.Add(1)
		go func(slot int, intent models.Intent) {
			defer wg.Done()
			results[slot] = a.invoke(ctx, intent, text)
		}(i, intent)
	}
	wg.Wait()

	return a.merge(results)
}

// invoke calls one agent under the per-agent timeout and normalizes the
// outcome. Panics and errors both collapse into the fallback result.
func (a *Aggregator) invoke(ctx context.Context, intent models.Intent, text string) (result *models.HandlerResult) {
	defer func() {
		if p := recover(); p != nil {
			a.logger.Error().Str("agent", string(intent)).Interface("panic", p).Msg("agent panicked")
			result = a.fallback(intent, fmt.Errorf("panic: %v", p))
		}
	}()

	agent, ok := a.registry.Get(intent)
	if !ok {
		return a.fallback(intent, fmt.Errorf("%s agent not available", intent))
	}

	agentCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	res, err := agent.Analyze(agentCtx, text)
	if err != nil {
		a.logger.Warn().Err(err).Str("agent", string(intent)).Msg("agent failed")
		return a.fallback(intent, err)
	}
	if res == nil {
		return a.fallback(intent, fmt.Errorf("%s agent returned no result", intent))
	}

	return normalize(intent, res)
}

// fallback builds the synthetic MEDIUM-risk result for a failed agent.
// It carries no actions and no confidence so it cannot influence the
// merge beyond its presence in the traces.
func (a *Aggregator) fallback(intent models.Intent, err error) *models.HandlerResult {
	return &models.HandlerResult{
		Agent:    intent,
		Risk:     models.RiskMedium,
		Response: fallbackNarratives[intent],
		Error:    err.Error(),
	}
}

// normalize is the single coercion point for agent output shapes.
func normalize(intent models.Intent, res *models.HandlerResult) *models.HandlerResult {
	res.Agent = intent
	if !res.Risk.Valid() {
		res.Risk = models.RiskLow
	}
	return res
}

// merge folds the per-agent results: max risk over successful results,
// the highest-risk narrative verbatim (stable order tiebreak) behind a
// risk-keyed prefix, a de-duplicated action union, and the mean of the
// reported confidences.
func (a *Aggregator) merge(results []*models.HandlerResult) *Aggregate {
	risk := models.RiskLow
	var best *models.HandlerResult
	var actions []string
	seen := make(map[string]bool)
	var confSum float64
	var confCount int

	for _, res := range results {
		if res.Failed() {
			continue
		}

		if best == nil || res.Risk.Rank() > best.Risk.Rank() {
			best = res
		}
		risk = models.MaxRisk(risk, res.Risk)

		for _, action := range res.Actions {
			if !seen[action] {
				seen[action] = true
				actions = append(actions, action)
			}
		}

		if res.Confidence != nil {
			confSum += *res.Confidence
			confCount++
		}
	}

	narrative := emptyMergeNarrative
	if best != nil {
		narrative = best.Response
	}

	var confidence *float64
	if confCount > 0 {
		mean := confSum / float64(confCount)
		confidence = &mean
	}

	return &Aggregate{
		Response:   riskPrefix(risk) + narrative,
		Risk:       risk,
		Actions:    actions,
		Confidence: confidence,
		Results:    results,
	}
}

func riskPrefix(risk models.RiskLevel) string {
	switch risk {
	case models.RiskHigh:
		return "🚨 IMPORTANT ALERT: "
	case models.RiskMedium:
		return "⚠️ Please pay attention: "
	default:
		return "✅ "
	}
}
