package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sentinelsoc/pkg/models"
)

func TestBaselineTable(t *testing.T) {
	cases := []struct {
		severity   string
		risk       int
		confidence float64
	}{
		{models.SeverityCritical, 9, 0.80},
		{models.SeverityHigh, 8, 0.70},
		{models.SeverityMedium, 6, 0.60},
		{models.SeverityLow, 4, 0.50},
		{"unknown", 5, 0.50},
		{"", 5, 0.50},
	}

	for _, tc := range cases {
		risk, confidence := Baseline(tc.severity)
		assert.Equal(t, tc.risk, risk, "severity %q", tc.severity)
		assert.InDelta(t, tc.confidence, confidence, 1e-9, "severity %q", tc.severity)
	}
}

func TestAdjustConfidenceNoFeedback(t *testing.T) {
	adjusted, flagged := AdjustConfidence(0.70, models.FeedbackStats{}, DefaultAdjustConfig())
	assert.InDelta(t, 0.70, adjusted, 1e-9)
	assert.False(t, flagged)
}

func TestAdjustConfidenceApprovalsRaise(t *testing.T) {
	cfg := DefaultAdjustConfig()

	adjusted, flagged := AdjustConfidence(0.70, models.FeedbackStats{Approvals: 2}, cfg)
	assert.InDelta(t, 0.76, adjusted, 1e-9)
	assert.True(t, flagged)

	// Ten approvals hit the cap, not 0.30.
	adjusted, _ = AdjustConfidence(0.70, models.FeedbackStats{Approvals: 10}, cfg)
	assert.InDelta(t, 0.85, adjusted, 1e-9)
}

func TestAdjustConfidenceRejectionsLower(t *testing.T) {
	cfg := DefaultAdjustConfig()

	adjusted, flagged := AdjustConfidence(0.70, models.FeedbackStats{Rejections: 3}, cfg)
	assert.InDelta(t, 0.58, adjusted, 1e-9)
	assert.True(t, flagged)

	// Rejection cap is deliberately larger than the approval cap.
	adjusted, _ = AdjustConfidence(0.70, models.FeedbackStats{Rejections: 10}, cfg)
	assert.InDelta(t, 0.50, adjusted, 1e-9)
}

func TestAdjustConfidenceTieIsZeroButFlagged(t *testing.T) {
	adjusted, flagged := AdjustConfidence(0.60, models.FeedbackStats{Approvals: 4, Rejections: 4}, DefaultAdjustConfig())
	assert.InDelta(t, 0.60, adjusted, 1e-9)
	assert.True(t, flagged)
}

func TestAdjustConfidenceClamped(t *testing.T) {
	cfg := DefaultAdjustConfig()

	high, _ := AdjustConfidence(0.95, models.FeedbackStats{Approvals: 10}, cfg)
	assert.InDelta(t, MaxConfidence, high, 1e-9)

	low, _ := AdjustConfidence(0.10, models.FeedbackStats{Rejections: 10}, cfg)
	assert.InDelta(t, 0.05, low, 1e-9)
}

func TestAdjustConfidenceMonotonic(t *testing.T) {
	cfg := DefaultAdjustConfig()

	prev := 0.0
	for approvals := 0; approvals <= 12; approvals++ {
		adjusted, _ := AdjustConfidence(0.60, models.FeedbackStats{Approvals: approvals}, cfg)
		assert.GreaterOrEqual(t, adjusted, prev, "approvals=%d", approvals)
		assert.LessOrEqual(t, adjusted, MaxConfidence)
		prev = adjusted
	}

	prevDown := 1.0
	for rejections := 0; rejections <= 12; rejections++ {
		adjusted, _ := AdjustConfidence(0.60, models.FeedbackStats{Rejections: rejections}, cfg)
		assert.LessOrEqual(t, adjusted, prevDown, "rejections=%d", rejections)
		assert.GreaterOrEqual(t, adjusted, MinConfidence)
		prevDown = adjusted
	}
}
