package services

import (
	"strings"

	"wisdomwealth-lab/internal/domain/models"
)

// intentKeywords activates an intent when any keyword occurs as a
// case-insensitive substring of the input. Data-driven so tests can
// enumerate every keyword's effect.
var intentKeywords = map[models.Intent][]string{
	models.IntentFraud: {
		"suspicious", "call", "ssn", "social security", "scam", "unknown caller",
		"payment request", "urgent", "wire transfer", "gift card", "irs",
		"arrest", "warrant", "bitcoin", "verify account", "compromised",
	},
	models.IntentHealthcare: {
		"medical", "bill", "insurance", "premium", "doctor", "hospital",
		"medicare", "medicaid", "pharmacy", "prescription", "health",
		"treatment", "diagnosis", "copay", "deductible",
	},
	models.IntentEstate: {
		"will", "testament", "beneficiary", "inheritance", "trust",
		"power of attorney", "documents", "legal", "lawyer", "attorney",
		"estate", "probate", "assets", "property",
	},
	models.IntentFamily: {
		"family", "alert", "notify", "contact", "emergency", "children",
		"grandchildren", "spouse", "relatives", "emergency contact",
	},
}

// emergencyVocabulary force-activates the family intent. Includes the
// payment-coercion terms that mark pressure scams even when the user
// never writes the word "emergency".
var emergencyVocabulary = []string{
	"emergency", "urgent", "help", "scam", "fraud", "gift card", "wire transfer",
}

// DetectIntents maps raw text to the set of advisory intents that should
// run, in canonical activation order. Never returns an empty set: fraud
// is the fail-safe default for ambiguous input. Emergency language
// appends family after the detected intents; activation is idempotent.
func DetectIntents(text string) []models.Intent {
	lower := strings.ToLower(text)

	var activated []models.Intent
	for _, intent := range models.AllIntents {
		if matchesAny(lower, intentKeywords[intent]) {
			activated = append(activated, intent)
		}
	}

	if len(activated) == 0 {
		activated = []models.Intent{models.IntentFraud}
	}

	if matchesAny(lower, emergencyVocabulary) && !containsIntent(activated, models.IntentFamily) {
		activated = append(activated, models.IntentFamily)
	}

	return activated
}

func matchesAny(lower string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

func containsIntent(intents []models.Intent, intent models.Intent) bool {
	for _, i := range intents {
		if i == intent {
			return true
		}
	}
	return false
}
