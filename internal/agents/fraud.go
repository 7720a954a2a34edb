package agents

import (
	"context"
	"fmt"
	"strings"

	"wisdomwealth-lab/internal/domain/models"
	"wisdomwealth-lab/internal/patterns"
	"wisdomwealth-lab/pkg/logger"
)

// fraudRule is one keyword class with the verdict it contributes.
type fraudRule struct {
	keywords  []string
	indicator string
	risk      models.RiskLevel
	actions   []string
	// soft rules never downgrade a risk already raised by a hard rule
	soft bool
}

var fraudRules = []fraudRule{
	{
		keywords:  []string{"ssn", "social security", "bank account", "credit card", "password"},
		indicator: "Request for sensitive personal information",
		risk:      models.RiskHigh,
		actions:   []string{models.ActionBlockCaller, models.ActionAlertFamily},
	},
	{
		keywords:  []string{"urgent", "immediate", "act now", "limited time"},
		indicator: "High-pressure tactics detected",
		risk:      models.RiskMedium,
		actions:   []string{models.ActionVerifyIndependently},
		soft:      true,
	},
	{
		keywords:  []string{"gift card", "bitcoin", "wire transfer", "money order"},
		indicator: "Suspicious payment method requested",
		risk:      models.RiskHigh,
		actions:   []string{models.ActionDoNotPay, models.ActionAlertFamily},
	},
	{
		keywords:  []string{"irs", "arrest", "warrant", "police"},
		indicator: "Government impersonation scam indicators",
		risk:      models.RiskHigh,
		actions:   []string{models.ActionHangUp, models.ActionContactAuthorities},
	},
}

// FraudAgent screens free text for scam indicators. It is purely
// rule-based, optionally upgraded by the scam pattern store.
type FraudAgent struct {
	store  *patterns.Store
	logger *logger.Logger
}

// NewFraudAgent creates a fraud agent. The pattern store may be nil, in
// which case analysis runs without enhancement.
func NewFraudAgent(store *patterns.Store, log *logger.Logger) *FraudAgent {
	return &FraudAgent{
		store:  store,
		logger: log.WithAgent("fraud"),
	}
}

func (a *FraudAgent) Name() models.Intent { return models.IntentFraud }

// Analyze applies the keyword rules, then consults the pattern store.
// A pattern suggestion only ever raises the rule-based verdict.
func (a *FraudAgent) Analyze(ctx context.Context, text string) (*models.HandlerResult, error) {
	lower := strings.ToLower(text)

	risk := models.RiskLow
	var indicators []string
	var actions []string

	for _, rule := range fraudRules {
		if !containsAny(lower, rule.keywords) {
			continue
		}
		indicators = append(indicators, rule.indicator)
		if rule.soft {
			if risk != models.RiskHigh {
				risk = models.MaxRisk(risk, rule.risk)
			}
		} else {
			risk = models.MaxRisk(risk, rule.risk)
		}
		actions = append(actions, rule.actions...)
	}

	confidence := fraudConfidence(risk)
	response := a.buildResponse(risk, indicators)

	// Pattern-store enhancement: upgrade-only, first concern appended.
	if a.store != nil {
		if enh := a.store.Enhance(text); enh != nil {
			if enh.SuggestedRisk.Rank() > risk.Rank() {
				a.logger.Debug().
					Str("from", string(risk)).
					Str("to", string(enh.SuggestedRisk)).
					Float64("match_confidence", enh.MatchConfidence).
					Msg("risk upgraded by pattern match")
				risk = enh.SuggestedRisk
				response = a.buildResponse(risk, indicators)
				if len(enh.Concerns) > 0 {
					response += " " + enh.Concerns[0]
				}
			}
		}
	}

	return &models.HandlerResult{
		Agent:      models.IntentFraud,
		Risk:       risk,
		Response:   response,
		Actions:    actions,
		Confidence: &confidence,
	}, nil
}

func (a *FraudAgent) buildResponse(risk models.RiskLevel, indicators []string) string {
	switch risk {
	case models.RiskHigh:
		return fmt.Sprintf(
			"This appears to be a SCAM attempt. Warning signs detected: %s. "+
				"Do not share personal information, do not make any payments, and hang up immediately. "+
				"Call your bank directly using the number on your card, report the attempt to local police "+
				"or the FTC at 1-877-FTC-HELP, and tell a trusted family member. "+
				"Real government agencies and banks never demand immediate payment or account details over the phone.",
			joinIndicators(indicators))
	case models.RiskMedium:
		return fmt.Sprintf(
			"The contact you described has warning signs that suggest it could be suspicious: %s. "+
				"Don't act immediately. Verify independently by calling the company using the official number "+
				"from your bill or statement, ask for the caller's name and callback number, and discuss it "+
				"with a trusted family member before making any decisions.",
			joinIndicators(indicators))
	default:
		return "Based on the information you provided, this contact appears to be legitimate. " +
			"Stay cautious with any unsolicited contact: verify callers by hanging up and calling the " +
			"official company number, never give personal information immediately, and share details of " +
			"suspicious contacts with family members."
	}
}

func fraudConfidence(risk models.RiskLevel) float64 {
	switch risk {
	case models.RiskHigh:
		return 0.9
	case models.RiskMedium:
		return 0.7
	default:
		return 0.5
	}
}

func joinIndicators(indicators []string) string {
	if len(indicators) == 0 {
		return "suspicious contact reported"
	}
	return strings.Join(indicators, "; ")
}

func containsAny(lower string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
