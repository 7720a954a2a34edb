package patterns

import (
	"time"

	"github.com/google/uuid"

	"wisdomwealth-lab/internal/domain/models"
)

// seedPatterns returns the default corpus of scam scripts commonly run
// against older adults.
func seedPatterns() []Pattern {
	seeds := []struct {
		text     string
		category string
		risk     models.RiskLevel
		concern  string
	}{
		{
			text:     "This is the IRS calling about your tax debt. You must pay immediately or face arrest.",
			category: "government_impersonation",
			risk:     models.RiskHigh,
			concern:  "Government agencies never threaten arrest for unpaid taxes over the phone",
		},
		{
			text:     "Your grandson is in jail and needs bail money. Send $2000 via Western Union immediately.",
			category: "family_emergency",
			risk:     models.RiskHigh,
			concern:  "Always verify family emergencies by calling the person directly",
		},
		{
			text:     "You've won a lottery! Just pay the processing fee to claim your prize.",
			category: "lottery_scam",
			risk:     models.RiskHigh,
			concern:  "Legitimate lotteries never require upfront fees",
		},
		{
			text:     "Your bank account has been compromised. Please provide your login details to secure it.",
			category: "phishing",
			risk:     models.RiskHigh,
			concern:  "Banks never ask for login credentials over the phone",
		},
		{
			text:     "You qualify for a free medical alert system. Just provide your Medicare number.",
			category: "medicare_scam",
			risk:     models.RiskHigh,
			concern:  "Never give Medicare information to unsolicited callers",
		},
		{
			text:     "Your computer has a virus. Allow me to remote access to fix it for $200.",
			category: "tech_support",
			risk:     models.RiskHigh,
			concern:  "Legitimate tech companies don't make unsolicited calls about viruses",
		},
		{
			text:     "Urgent payment required for your medical bill or it will go to collections.",
			category: "medical_billing",
			risk:     models.RiskMedium,
			concern:  "Always verify medical bills with your healthcare provider directly",
		},
		{
			text:     "Act now to lower your credit card interest rates. This offer expires today.",
			category: "credit_card",
			risk:     models.RiskMedium,
			concern:  "High-pressure tactics are red flags for scams",
		},
	}

	now := time.Now().UTC()
	patterns := make([]Pattern, 0, len(seeds))
	for _, s := range seeds {
		patterns = append(patterns, Pattern{
			ID:        uuid.New().String(),
			Text:      s.text,
			Category:  s.category,
			RiskLevel: s.risk,
			Concern:   s.concern,
			CreatedAt: now,
		})
	}
	return patterns
}
