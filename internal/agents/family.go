package agents

import (
	"context"
	"fmt"
	"strings"

	"wisdomwealth-lab/internal/domain/models"
	"wisdomwealth-lab/pkg/logger"
)

// FamilyAgent handles family-safety concerns: emergency-money scams,
// contact updates, and alert preferences. It also composes the
// family-facing alert message used by the escalation path.
type FamilyAgent struct {
	llm    *LLMClient
	logger *logger.Logger
}

const familyAlertSystemPrompt = "You are a family safety and financial assistant. " +
	"Respond with a structured alert in plain text format using simple line breaks and dashes " +
	"for bullet points. Do not use Markdown or special characters. The alert must contain three " +
	"sections separated by a blank line: a concise one-sentence headline in a reassuring tone, " +
	"2-3 dashed immediate action steps, and one dashed line confirming the emergency contact is " +
	"being notified."

// NewFamilyAgent creates a family agent. llm may be nil.
func NewFamilyAgent(llm *LLMClient, log *logger.Logger) *FamilyAgent {
	return &FamilyAgent{
		llm:    llm,
		logger: log.WithAgent("family"),
	}
}

func (a *FamilyAgent) Name() models.Intent { return models.IntentFamily }

func (a *FamilyAgent) Analyze(ctx context.Context, text string) (*models.HandlerResult, error) {
	lower := strings.ToLower(text)

	risk := models.RiskLow
	var actions []string
	var response string

	switch {
	case containsAny(lower, []string{"emergency", "accident", "hospital", "jail", "trouble"}) &&
		containsAny(lower, []string{"money", "wire", "send", "urgent"}):
		risk = models.RiskHigh
		actions = append(actions, models.ActionVerifyFamily, models.ActionDoNotSendMoney, models.ActionAlertFamily)
		response = "This is a classic grandparent scam: criminals pretend a family member is in jail, " +
			"in the hospital, or in trouble and needs money immediately, and they ask you not to tell " +
			"anyone. Do not send any money. Hang up and call your family member directly on a number " +
			"you know, ask questions only the real person could answer, and check with other relatives. " +
			"Real emergencies involve multiple family members, not secret wire transfers."

	case containsAny(lower, []string{"family", "children", "grandchildren", "update", "contact"}) &&
		!strings.Contains(lower, "emergency") && !strings.Contains(lower, "money"):
		actions = append(actions, models.ActionUpdateFamilyInfo)
		response = "Keeping family contact information current helps the right people reach you and each " +
			"other when it matters. Keep phone numbers, addresses, and relationships up to date, name a " +
			"primary and a backup emergency contact, and only update details through institutions you " +
			"trust, never in response to unsolicited calls."

	case containsAny(lower, []string{"alert", "notify", "contact family", "emergency contact"}):
		actions = append(actions, models.ActionUpdateAlertPrefs)
		response = "Family alerts make sure your loved ones hear quickly about security concerns or " +
			"emergencies. Choose who should be told and how, keep the list small and current, and " +
			"review the settings every few months. You stay in control of what each contact receives " +
			"and can change the preferences anytime."

	default:
		response = "I can help you keep family contacts organized, plan who to call in an emergency, " +
			"set up family alerts, and recognize scams that abuse family relationships. Verify " +
			"unexpected calls on numbers you know, and trust your instincts when something feels wrong."
	}

	return &models.HandlerResult{
		Agent:    models.IntentFamily,
		Risk:     risk,
		Response: response,
		Actions:  actions,
	}, nil
}

// GenerateAlert composes the family-facing alert message for an event.
// The LLM writes it when configured; otherwise the fixed template is used.
func (a *FamilyAgent) GenerateAlert(ctx context.Context, event string, risk models.RiskLevel) string {
	if a.llm != nil {
		prompt := fmt.Sprintf("Event: %s\nRisk Level: %s", event, risk)
		if msg, err := a.llm.Generate(ctx, familyAlertSystemPrompt, prompt); err == nil && msg != "" {
			return msg
		} else if err != nil {
			a.logger.Warn().Err(err).Msg("alert generation failed, using template")
		}
	}
	return basicFamilyAlert(event, risk)
}

func basicFamilyAlert(event string, risk models.RiskLevel) string {
	urgency := "ATTENTION"
	if risk == models.RiskHigh {
		urgency = "URGENT"
	}

	return fmt.Sprintf(`🚨 FAMILY ALERT - %s

We detected a security concern that needs attention: %s

Immediate Action Steps:
- Contact your family member to verify this situation
- Do not take any financial actions until verification
- Keep this alert for your records

Contact Protocol:
- Emergency family contacts have been notified automatically`, urgency, event)
}
