package triage

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentinelsoc/internal/narrative"
	"sentinelsoc/pkg/models"
)

type stubProvider struct {
	response string
	err      error
	failFor  map[string]error
}

func (p *stubProvider) Generate(_ context.Context, req narrative.Request) (string, error) {
	for id, err := range p.failFor {
		if strings.Contains(req.Prompt, id) {
			return "", err
		}
	}
	if p.err != nil {
		return "", p.err
	}
	return p.response, nil
}

func testAlert(id string, severity string) *models.Alert {
	return &models.Alert{
		ID:          id,
		Type:        models.AlertImpossibleTravel,
		Severity:    severity,
		Timestamp:   time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
		Description: "User operator1 traveled 8000 miles in 0.3 hours",
		Evidence:    models.TravelEvidence{User: "operator1", DistanceMiles: 8000, SpeedMPH: 26666.67},
		SuggestedActions: []string{
			"Trigger MFA reset and investigate recent account activity",
		},
	}
}

func TestRunUsesNarrativeRiskScoreAndSteps(t *testing.T) {
	provider := &stubProvider{
		response: `{"risk_score": 7, "summary": "Likely credential theft.", "remediation_steps": ["Reset credentials", "Review VPN logs"]}`,
	}
	engine := NewEngine(Config{}, provider, nil)

	alert := testAlert("a-1", models.SeverityCritical)
	records := engine.Run(context.Background(), []*models.Alert{alert}, nil)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "a-1", rec.AlertID)
	assert.Equal(t, 7, rec.RiskScore)
	assert.Equal(t, "Likely credential theft.", rec.Summary)
	assert.Equal(t, []string{"Reset credentials", "Review VPN logs"}, rec.RemediationSteps)
	assert.False(t, rec.FeedbackAdjusted)
	assert.InDelta(t, 0.80, rec.Confidence, 1e-9)
	assert.Same(t, alert, rec.OriginalAlert)
}

func TestRunProviderFailureFallsBackToBaseline(t *testing.T) {
	provider := &stubProvider{err: fmt.Errorf("request timed out")}
	engine := NewEngine(Config{}, provider, nil)

	history := []models.FeedbackEntry{
		{AlertType: models.AlertImpossibleTravel, Action: "approved"},
		{AlertType: models.AlertImpossibleTravel, Action: "approved"},
	}

	records := engine.Run(context.Background(), []*models.Alert{testAlert("a-2", models.SeverityCritical)}, history)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, 9, rec.RiskScore, "baseline risk score when provider fails")
	assert.True(t, rec.FeedbackAdjusted)
	assert.InDelta(t, 0.86, rec.Confidence, 1e-9, "0.80 base plus two approvals")
	assert.Contains(t, rec.NarrativeRaw, "Risk Assessment for alert a-2")
	assert.Contains(t, rec.Summary, "Risk Assessment for alert a-2")
}

func TestRunIsolatesPerAlertFailures(t *testing.T) {
	provider := &stubProvider{
		response: `{"risk_score": 6, "summary": "ok"}`,
		failFor:  map[string]error{"a-bad": fmt.Errorf("upstream 500")},
	}
	engine := NewEngine(Config{Workers: 2}, provider, nil)

	alerts := []*models.Alert{
		testAlert("a-good", models.SeverityHigh),
		testAlert("a-bad", models.SeverityHigh),
		testAlert("a-good-2", models.SeverityMedium),
	}

	records := engine.Run(context.Background(), alerts, nil)
	require.Len(t, records, 3, "one record per alert, always")

	byID := make(map[string]*models.TriageRecord)
	for _, rec := range records {
		require.NotNil(t, rec)
		byID[rec.AlertID] = rec
	}

	assert.Equal(t, 6, byID["a-good"].RiskScore)
	assert.Equal(t, 8, byID["a-bad"].RiskScore, "failed alert keeps its baseline")
	assert.Equal(t, 6, byID["a-good-2"].RiskScore)
}

func TestRunNilProviderAlwaysFallsBack(t *testing.T) {
	engine := NewEngine(Config{}, nil, nil)

	records := engine.Run(context.Background(), []*models.Alert{testAlert("a-3", models.SeverityLow)}, nil)
	require.Len(t, records, 1)
	assert.Equal(t, 4, records[0].RiskScore)
	assert.InDelta(t, 0.50, records[0].Confidence, 1e-9)
	assert.Contains(t, records[0].NarrativeRaw, "Risk Assessment")
}

func TestRunEmptyAlerts(t *testing.T) {
	engine := NewEngine(Config{}, &stubProvider{response: "{}"}, nil)
	records := engine.Run(context.Background(), nil, nil)
	assert.Empty(t, records)
}

func TestTriageOneMatchesRunSemantics(t *testing.T) {
	provider := &stubProvider{response: `{"risk_score": 3, "summary": "benign"}`}
	engine := NewEngine(Config{}, provider, nil)

	rec := engine.TriageOne(context.Background(), testAlert("a-4", models.SeverityMedium), nil)
	assert.Equal(t, 3, rec.RiskScore)
	assert.Equal(t, "benign", rec.Summary)
}
