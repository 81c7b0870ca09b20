package feedback

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sentinelsoc/pkg/models"
)

func entry(alertType models.AlertType, action string) models.FeedbackEntry {
	return models.FeedbackEntry{AlertID: "a-1", AlertType: alertType, Action: action}
}

func TestAggregateCountsPerType(t *testing.T) {
	history := []models.FeedbackEntry{
		entry(models.AlertImpossibleTravel, "approved"),
		entry(models.AlertImpossibleTravel, "approved"),
		entry(models.AlertImpossibleTravel, "rejected"),
		entry(models.AlertPatchDrift, "rejected"),
	}

	stats := Aggregate(history)

	assert.Equal(t, 2, stats[models.AlertImpossibleTravel].Approvals)
	assert.Equal(t, 1, stats[models.AlertImpossibleTravel].Rejections)
	assert.Equal(t, 0, stats[models.AlertPatchDrift].Approvals)
	assert.Equal(t, 1, stats[models.AlertPatchDrift].Rejections)
}

func TestAggregateIgnoresUnrecognizedActions(t *testing.T) {
	history := []models.FeedbackEntry{
		entry(models.AlertOpenPort, "approved"),
		entry(models.AlertOpenPort, "escalated"),
		entry(models.AlertOpenPort, ""),
		entry("", "approved"),
	}

	stats := Aggregate(history)

	assert.Equal(t, models.FeedbackStats{Approvals: 1}, stats[models.AlertOpenPort])
	assert.NotContains(t, stats, models.AlertType(""))
}

func TestAggregateActionCaseInsensitive(t *testing.T) {
	history := []models.FeedbackEntry{
		entry(models.AlertOpenPort, "Approved"),
		entry(models.AlertOpenPort, "REJECTED"),
	}

	stats := Aggregate(history)
	assert.Equal(t, models.FeedbackStats{Approvals: 1, Rejections: 1}, stats[models.AlertOpenPort])
}

func TestAggregateIsOrderIndependentAndIdempotent(t *testing.T) {
	history := []models.FeedbackEntry{
		entry(models.AlertImpossibleTravel, "approved"),
		entry(models.AlertPatchDrift, "rejected"),
		entry(models.AlertGenericAnomaly, "approved"),
		entry(models.AlertImpossibleTravel, "rejected"),
	}
	reversed := make([]models.FeedbackEntry, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		reversed = append(reversed, history[i])
	}

	first := Aggregate(history)
	second := Aggregate(history)
	shuffled := Aggregate(reversed)

	assert.Equal(t, first, second)
	assert.Equal(t, first, shuffled)
}

func TestContextStringIsSortedAndDeterministic(t *testing.T) {
	stats := map[models.AlertType]models.FeedbackStats{
		models.AlertPatchDrift:       {Approvals: 1, Rejections: 2},
		models.AlertImpossibleTravel: {Approvals: 3},
	}

	want := "impossible_travel: 3 approved / 0 rejected; patch_drift: 1 approved / 2 rejected"
	assert.Equal(t, want, ContextString(stats))
	assert.Equal(t, ContextString(stats), ContextString(stats))
}

func TestContextStringEmptySentinel(t *testing.T) {
	assert.Equal(t, NoPriorFeedback, ContextString(nil))
	assert.Equal(t, NoPriorFeedback, ContextString(map[models.AlertType]models.FeedbackStats{}))
}
