package agents

import (
	"context"
	"strings"

	"wisdomwealth-lab/internal/domain/models"
	"wisdomwealth-lab/pkg/logger"
)

// EstateAgent advises on wills, powers of attorney, and the inheritance
// scams that target seniors. First matching branch wins.
type EstateAgent struct {
	llm    *LLMClient
	logger *logger.Logger
}

const estateSystemPrompt = "You are an estate planning advisor for elderly clients. " +
	"Explain documents and next steps in very simple, friendly language. " +
	"Use short sentences, avoid legal terms, and speak warmly."

// NewEstateAgent creates an estate agent. llm may be nil.
func NewEstateAgent(llm *LLMClient, log *logger.Logger) *EstateAgent {
	return &EstateAgent{
		llm:    llm,
		logger: log.WithAgent("estate"),
	}
}

func (a *EstateAgent) Name() models.Intent { return models.IntentEstate }

func (a *EstateAgent) Analyze(ctx context.Context, text string) (*models.HandlerResult, error) {
	lower := strings.ToLower(text)

	risk := models.RiskLow
	var actions []string
	var response string

	switch {
	case containsAny(lower, []string{"inheritance", "lottery", "beneficiary"}) &&
		containsAny(lower, []string{"fee", "tax", "payment required"}):
		risk = models.RiskHigh
		actions = append(actions, models.ActionDoNotPay, models.ActionAlertFamily)
		response = "This has all the warning signs of an inheritance scam. The story is always the same: " +
			"you've inherited money or won a prize, but you must pay a fee or tax first to claim it. " +
			"Real inheritances come through attorneys with proper legal documents and never require " +
			"upfront payment. Do not send any money, do not share personal information, and report the " +
			"attempt to your bank, the police, and the FTC at 1-877-FTC-HELP."

	case containsAny(lower, []string{"power of attorney", "financial decisions", "medical decisions"}):
		risk = models.RiskMedium
		actions = append(actions, models.ActionReviewPOA, models.ActionUpdateDocuments)
		response = "A Power of Attorney lets someone you completely trust make financial or medical " +
			"decisions for you if you can't. Choose that person carefully, name a backup, set clear " +
			"limits on what they may do, and never sign under pressure. An elder law attorney can " +
			"explain your state's requirements and make sure the document says what you intend."

	case containsAny(lower, []string{"will", "testament", "beneficiary", "inheritance"}):
		risk = models.RiskMedium
		actions = append(actions, models.ActionUpdateDocuments, models.ActionConsultAttorney)
		response = "Keeping your estate documents current is one of the best ways to protect yourself " +
			"and your family. Gather your will, power of attorney, and any trust papers; check that " +
			"names, addresses, and wishes are still accurate; note what's missing; and consider a " +
			"consultation with an elder law attorney. Without current documents, the court decides " +
			"who handles your affairs."

	case containsAny(lower, []string{"family", "children", "spouse", "relatives"}):
		actions = append(actions, models.ActionUpdateFamilyInfo)
		response = "Updating family details in your estate plan is smart and caring. Keep beneficiary " +
			"names, addresses, and relationship changes current in your will, power of attorney, " +
			"healthcare proxy, insurance policies, and retirement accounts, so your wishes can be " +
			"carried out smoothly and your loved ones are reachable when it matters."

	default:
		response = "Estate planning is about staying in control and protecting the people you care " +
			"about. The usual starting points are a Last Will and Testament, a Power of Attorney, " +
			"and a Healthcare Proxy. Think about your goals, list your assets, decide who you trust, " +
			"and get help from an elder law attorney for the paperwork."
	}

	if a.llm != nil {
		if refined, err := a.llm.Generate(ctx, estateSystemPrompt, text); err == nil && refined != "" {
			response = refined
		} else if err != nil {
			a.logger.Warn().Err(err).Msg("narrative refinement failed, using template")
		}
	}

	return &models.HandlerResult{
		Agent:    models.IntentEstate,
		Risk:     risk,
		Response: response,
		Actions:  actions,
	}, nil
}
