// Package feedback reduces analyst decision history into per-alert-type
// counts consumed by triage.
package feedback

import (
	"fmt"
	"sort"
	"strings"

	"sentinelsoc/pkg/models"
)

// NoPriorFeedback is the context sentinel used when no history exists.
const NoPriorFeedback = "No prior analyst feedback on record."

// Aggregate reduces the full feedback history into per-type stats. Entries
// with a missing alert type or an unrecognized action are ignored. The
// reduction is order-independent and idempotent.
func Aggregate(entries []models.FeedbackEntry) map[models.AlertType]models.FeedbackStats {
	stats := make(map[models.AlertType]models.FeedbackStats)
	for _, entry := range entries {
		if entry.AlertType == "" {
			continue
		}
		s := stats[entry.AlertType]
		switch strings.ToLower(entry.Action) {
		case models.FeedbackApproved:
			s.Approvals++
		case models.FeedbackRejected:
			s.Rejections++
		default:
			continue
		}
		stats[entry.AlertType] = s
	}
	return stats
}

// ContextString renders stats as a human-readable summary for the narrative
// prompt, sorted by alert type for determinism.
func ContextString(stats map[models.AlertType]models.FeedbackStats) string {
	if len(stats) == 0 {
		return NoPriorFeedback
	}

	types := make([]string, 0, len(stats))
	for t := range stats {
		types = append(types, string(t))
	}
	sort.Strings(types)

	parts := make([]string, 0, len(types))
	for _, t := range types {
		s := stats[models.AlertType(t)]
		parts = append(parts, fmt.Sprintf("%s: %d approved / %d rejected", t, s.Approvals, s.Rejections))
	}
	return strings.Join(parts, "; ")
}
