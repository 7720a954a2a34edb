package agents

import (
	"context"
	"strings"

	"wisdomwealth-lab/internal/domain/models"
	"wisdomwealth-lab/pkg/logger"
)

// HealthcareAgent advises on medical bills, insurance, and the scams
// built around them. Risk and actions are always rule-based; the LLM,
// when configured, only refines the narrative.
type HealthcareAgent struct {
	llm    *LLMClient
	logger *logger.Logger
}

const healthcareSystemPrompt = "You are a healthcare finance assistant for elderly users. " +
	"Help with medical bills, insurance premiums, and coverage questions. " +
	"Provide clear, actionable advice suitable for seniors in short sentences and plain language."

// NewHealthcareAgent creates a healthcare agent. llm may be nil.
func NewHealthcareAgent(llm *LLMClient, log *logger.Logger) *HealthcareAgent {
	return &HealthcareAgent{
		llm:    llm,
		logger: log.WithAgent("healthcare"),
	}
}

func (a *HealthcareAgent) Name() models.Intent { return models.IntentHealthcare }

func (a *HealthcareAgent) Analyze(ctx context.Context, text string) (*models.HandlerResult, error) {
	lower := strings.ToLower(text)

	risk := models.RiskLow
	var actions []string

	switch {
	case containsAny(lower, []string{"scam", "fraud", "suspicious", "free", "medicare call"}):
		risk = models.RiskHigh
		actions = append(actions, models.ActionDoNotShare, models.ActionVerifyIndependently)
	case containsAny(lower, []string{"expensive", "overcharge", "high bill", "too much"}):
		risk = models.RiskMedium
		actions = append(actions, models.ActionReviewBill, models.ActionContactInsurance)
	case containsAny(lower, []string{"premium", "calculate", "cost", "price"}):
		actions = append(actions, models.ActionCalculatePremium)
	}

	response := a.templateResponse(risk, lower)
	confidence := 0.9

	if a.llm != nil {
		if refined, err := a.llm.Generate(ctx, healthcareSystemPrompt, text); err == nil && refined != "" {
			response = refined
		} else if err != nil {
			a.logger.Warn().Err(err).Msg("narrative refinement failed, using template")
		}
	}

	return &models.HandlerResult{
		Agent:      models.IntentHealthcare,
		Risk:       risk,
		Response:   response,
		Actions:    actions,
		Confidence: &confidence,
	}, nil
}

func (a *HealthcareAgent) templateResponse(risk models.RiskLevel, lower string) string {
	switch risk {
	case models.RiskHigh:
		return "This has the signs of a healthcare scam. Medicare and legitimate providers never cold-call " +
			"asking for your Medicare number or offering free equipment. Do not share any personal or " +
			"insurance information, hang up, and verify the claim by calling your provider or Medicare directly."
	case models.RiskMedium:
		return "A bill that seems too high deserves a careful review. Request an itemized bill, check each " +
			"charge against your insurance coverage, and look for duplicate charges or services you didn't " +
			"receive. Your insurer and the provider's billing department can both help; you also have the " +
			"right to contest incorrect bills and to ask for a payment plan."
	default:
		if containsAny(lower, []string{"premium", "calculate", "cost", "price"}) {
			return "Premiums depend mainly on age, coverage amount, location, and medical history. To get an " +
				"accurate figure, request quotes from three or four insurers, use their online calculators, " +
				"and read the policy terms carefully, especially waiting periods for pre-existing conditions. " +
				"Starting earlier keeps premiums lower."
		}
		return "I can help with insurance premium estimates, medical bill review, coverage guidance, and " +
			"protecting yourself from healthcare scams. Keep written estimates before procedures, understand " +
			"your coverage, and always verify unexpected medical calls before sharing information."
	}
}
