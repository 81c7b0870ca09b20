package models

// TriageRecord is the scored, narrative-enriched wrapper around one alert.
// Exactly one record is produced per alert per triage run.
type TriageRecord struct {
	AlertID          string   `json:"alert_id"`
	RiskScore        int      `json:"risk_score"`
	Summary          string   `json:"summary"`
	RemediationSteps []string `json:"remediation_steps"`
	Confidence       float64  `json:"confidence"`
	FeedbackAdjusted bool     `json:"feedback_adjusted"`
	NarrativeRaw     string   `json:"narrative_raw,omitempty"`
	OriginalAlert    *Alert   `json:"original_alert"`
}
