package models

import "time"

// Feedback actions recognized by the aggregator.
const (
	FeedbackApproved = "approved"
	FeedbackRejected = "rejected"
)

// FeedbackEntry is one analyst decision on a past alert. Entries are supplied
// by the review surface; this core only reads them.
type FeedbackEntry struct {
	AlertID   string    `json:"alert_id"`
	AlertType AlertType `json:"alert_type"`
	Action    string    `json:"action"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// FeedbackStats is the per-alert-type reduction of the feedback history.
type FeedbackStats struct {
	Approvals  int `json:"approvals"`
	Rejections int `json:"rejections"`
}

// Total is the combined feedback count.
func (s FeedbackStats) Total() int {
	return s.Approvals + s.Rejections
}
