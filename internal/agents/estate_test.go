package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wisdomwealth-lab/internal/domain/models"
	"wisdomwealth-lab/pkg/logger"
)

func TestEstateAgentRules(t *testing.T) {
	a := NewEstateAgent(nil, logger.NewDefault())

	tests := []struct {
		name    string
		text    string
		risk    models.RiskLevel
		actions []string
	}{
		{
			name:    "inheritance fee scam",
			text:    "I have an inheritance waiting but they need a fee first",
			risk:    models.RiskHigh,
			actions: []string{models.ActionDoNotPay, models.ActionAlertFamily},
		},
		{
			name:    "power of attorney",
			text:    "Who should make financial decisions with my power of attorney?",
			risk:    models.RiskMedium,
			actions: []string{models.ActionReviewPOA, models.ActionUpdateDocuments},
		},
		{
			name:    "will update",
			text:    "I need to change the beneficiary in my will",
			risk:    models.RiskMedium,
			actions: []string{models.ActionUpdateDocuments, models.ActionConsultAttorney},
		},
		{
			name:    "family details",
			text:    "My children moved, should I update anything?",
			risk:    models.RiskLow,
			actions: []string{models.ActionUpdateFamilyInfo},
		},
		{
			name:    "general guidance",
			text:    "Where do I start with planning?",
			risk:    models.RiskLow,
			actions: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := a.Analyze(context.Background(), tt.text)
			require.NoError(t, err)

			assert.Equal(t, models.IntentEstate, res.Agent)
			assert.Equal(t, tt.risk, res.Risk)
			assert.Equal(t, tt.actions, res.Actions)
			assert.Nil(t, res.Confidence)
			assert.NotEmpty(t, res.Response)
		})
	}
}

func TestEstateAgentScamCheckedBeforeDocuments(t *testing.T) {
	a := NewEstateAgent(nil, logger.NewDefault())

	// "inheritance" also matches the document branch; the scam pairing
	// with "tax" must win because it is checked first.
	res, err := a.Analyze(context.Background(),
		"They say my inheritance is ready once I pay the tax")
	require.NoError(t, err)

	assert.Equal(t, models.RiskHigh, res.Risk)
	assert.Equal(t, []string{models.ActionDoNotPay, models.ActionAlertFamily}, res.Actions)
}
