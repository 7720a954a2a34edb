package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wisdomwealth-lab/internal/domain/models"
	"wisdomwealth-lab/pkg/logger"
)

func TestFamilyAgentRules(t *testing.T) {
	a := NewFamilyAgent(nil, logger.NewDefault())

	tests := []struct {
		name    string
		text    string
		risk    models.RiskLevel
		actions []string
	}{
		{
			name: "grandparent scam",
			text: "My grandson is in jail and needs money wired right away",
			risk: models.RiskHigh,
			actions: []string{
				models.ActionVerifyFamily, models.ActionDoNotSendMoney, models.ActionAlertFamily,
			},
		},
		{
			name:    "contact update",
			text:    "I want to update my grandchildren's phone numbers",
			risk:    models.RiskLow,
			actions: []string{models.ActionUpdateFamilyInfo},
		},
		{
			name:    "alert preferences",
			text:    "How do I notify my emergency contact about alerts?",
			risk:    models.RiskLow,
			actions: []string{models.ActionUpdateAlertPrefs},
		},
		{
			name:    "general question",
			text:    "What can you do for me?",
			risk:    models.RiskLow,
			actions: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := a.Analyze(context.Background(), tt.text)
			require.NoError(t, err)

			assert.Equal(t, models.IntentFamily, res.Agent)
			assert.Equal(t, tt.risk, res.Risk)
			assert.Equal(t, tt.actions, res.Actions)
			assert.Nil(t, res.Confidence)
			assert.NotEmpty(t, res.Response)
		})
	}
}

func TestFamilyAgentEmergencyNeedsMoneyPairing(t *testing.T) {
	a := NewFamilyAgent(nil, logger.NewDefault())

	// Emergency language without a money request is not the scam pattern.
	res, err := a.Analyze(context.Background(), "My neighbor had an accident yesterday")
	require.NoError(t, err)

	assert.Equal(t, models.RiskLow, res.Risk)
	assert.NotContains(t, res.Actions, models.ActionDoNotSendMoney)
}

func TestFamilyAgentAlertTemplate(t *testing.T) {
	a := NewFamilyAgent(nil, logger.NewDefault())

	msg := a.GenerateAlert(context.Background(), "Security alert for user u1: scam attempt", models.RiskHigh)

	assert.Contains(t, msg, "FAMILY ALERT - URGENT")
	assert.Contains(t, msg, "scam attempt")
	assert.Contains(t, msg, "Immediate Action Steps:")

	msg = a.GenerateAlert(context.Background(), "event", models.RiskMedium)
	assert.Contains(t, msg, "FAMILY ALERT - ATTENTION")
}
