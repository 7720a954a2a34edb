package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wisdomwealth-lab/internal/agents"
	"wisdomwealth-lab/internal/domain/models"
	"wisdomwealth-lab/internal/domain/services"
	"wisdomwealth-lab/pkg/logger"
)

type memIncidents struct{ nextID int64 }

func (m *memIncidents) InsertIncident(ctx context.Context, incident *models.Incident) (int64, error) {
	m.nextID++
	return m.nextID, nil
}

type memPrefs struct{}

func (memPrefs) GetPreference(ctx context.Context, userID string) (*models.FamilyPreference, error) {
	return nil, nil
}

type memAlerts struct{ nextID int64 }

func (m *memAlerts) InsertAlert(ctx context.Context, alert *models.PendingAlert) (int64, error) {
	m.nextID++
	return m.nextID, nil
}

func newTestHandler(t *testing.T) *AdvisoryHandler {
	t.Helper()
	log := logger.NewDefault()

	registry := agents.NewRegistry(
		agents.NewFraudAgent(nil, log),
		agents.NewHealthcareAgent(nil, log),
		agents.NewEstateAgent(nil, log),
		agents.NewFamilyAgent(nil, log),
	)
	aggregator := services.NewAggregator(registry, 2*time.Second, log)
	escalation := services.NewEscalationController(memPrefs{}, &memAlerts{}, registry, nil, log)
	coordinator := services.NewCoordinator(aggregator, escalation, &memIncidents{}, log)

	return NewAdvisoryHandler(coordinator, 3000, log)
}

func TestRouteEndpoint(t *testing.T) {
	h := newTestHandler(t)

	body, _ := json.Marshal(RouteRequest{
		UserID: "user-1",
		Text:   "Someone wants me to pay with gift cards right now",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/route", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Route(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp RouteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "high", resp.Risk)
	assert.Equal(t, []string{"fraud", "family"}, resp.AgentTraces)
	assert.Contains(t, resp.Actions, models.ActionDoNotPay)
	assert.NotNil(t, resp.LogsID)
	assert.NotNil(t, resp.FamilyAlertID)
	assert.True(t, strings.HasPrefix(resp.Response, "🚨 IMPORTANT ALERT: "))
	assert.NotEmpty(t, resp.Timestamp)
}

func TestRouteEndpointValidation(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing user_id", `{"text":"hello"}`},
		{"empty text", `{"user_id":"u1","text":"   "}`},
		{"oversized text", `{"user_id":"u1","text":"` + strings.Repeat("x", 3001) + `"}`},
		{"malformed json", `{"user_id":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/route", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			h.Route(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
