package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wisdomwealth-lab/internal/domain/models"
	"wisdomwealth-lab/internal/patterns"
	"wisdomwealth-lab/pkg/logger"
)

func TestFraudAgentRules(t *testing.T) {
	a := NewFraudAgent(nil, logger.NewDefault())

	tests := []struct {
		name       string
		text       string
		risk       models.RiskLevel
		actions    []string
		confidence float64
	}{
		{
			name:       "sensitive information request",
			text:       "They asked for my social security number over the phone",
			risk:       models.RiskHigh,
			actions:    []string{models.ActionBlockCaller, models.ActionAlertFamily},
			confidence: 0.9,
		},
		{
			name:       "pressure tactics alone",
			text:       "They said I must act now, the offer is urgent",
			risk:       models.RiskMedium,
			actions:    []string{models.ActionVerifyIndependently},
			confidence: 0.7,
		},
		{
			name:       "suspicious payment method",
			text:       "They want me to pay with gift cards",
			risk:       models.RiskHigh,
			actions:    []string{models.ActionDoNotPay, models.ActionAlertFamily},
			confidence: 0.9,
		},
		{
			name:       "government impersonation",
			text:       "The IRS says there is a warrant for my arrest",
			risk:       models.RiskHigh,
			actions:    []string{models.ActionHangUp, models.ActionContactAuthorities},
			confidence: 0.9,
		},
		{
			name:       "benign input",
			text:       "My neighbor waved at me this morning",
			risk:       models.RiskLow,
			actions:    nil,
			confidence: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := a.Analyze(context.Background(), tt.text)
			require.NoError(t, err)

			assert.Equal(t, models.IntentFraud, res.Agent)
			assert.Equal(t, tt.risk, res.Risk)
			assert.Equal(t, tt.actions, res.Actions)
			require.NotNil(t, res.Confidence)
			assert.InDelta(t, tt.confidence, *res.Confidence, 1e-9)
			assert.NotEmpty(t, res.Response)
		})
	}
}

func TestFraudAgentPressureNeverDowngrades(t *testing.T) {
	a := NewFraudAgent(nil, logger.NewDefault())

	res, err := a.Analyze(context.Background(),
		"Urgent: pay with bitcoin now or your bank account gets closed")
	require.NoError(t, err)

	assert.Equal(t, models.RiskHigh, res.Risk)
	// Union of every matched rule's actions, in rule order.
	assert.Contains(t, res.Actions, models.ActionVerifyIndependently)
	assert.Contains(t, res.Actions, models.ActionDoNotPay)
}

func TestFraudAgentPatternUpgrade(t *testing.T) {
	store := patterns.NewStore(0.7, 2, logger.NewDefault())
	a := NewFraudAgent(store, logger.NewDefault())

	// No rule keyword matches, but the text is nearly a seeded scam script.
	text := "Your computer has a virus. Allow me remote access to fix it for $200."
	res, err := a.Analyze(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, models.RiskHigh, res.Risk)
	assert.Contains(t, res.Response, "Legitimate tech companies don't make unsolicited calls")
	// The rule-derived confidence is not rewritten by the upgrade.
	require.NotNil(t, res.Confidence)
	assert.InDelta(t, 0.5, *res.Confidence, 1e-9)
}

func TestFraudAgentPatternNeverDowngrades(t *testing.T) {
	store := patterns.NewStore(0.7, 2, logger.NewDefault())
	a := NewFraudAgent(store, logger.NewDefault())

	// Rule verdict is already HIGH; a weak pattern match must not change it.
	res, err := a.Analyze(context.Background(), "They want my password and credit card")
	require.NoError(t, err)

	assert.Equal(t, models.RiskHigh, res.Risk)
}
