package triage

import (
	"encoding/json"
	"fmt"

	"sentinelsoc/pkg/models"
)

const systemPromptTemplate = "You are a cybersecurity analyst for an energy sector company (SCADA, EMS systems).\n" +
	"Provide: 1) Risk score (1-10) with justification, 2) Threat analysis in energy context,\n" +
	"3) 2-3 actionable remediation steps, 4) Consider operational impact.\n" +
	"Previous feedback: %s\n" +
	"Prioritize critical infrastructure availability and safety."

// buildSystemPrompt embeds the feedback context into the analyst persona.
func buildSystemPrompt(feedbackContext string) string {
	return fmt.Sprintf(systemPromptTemplate, feedbackContext)
}

// buildPrompt renders the structured per-alert prompt.
func buildPrompt(alert *models.Alert, riskScore int, baseConfidence, adjustedConfidence float64) string {
	alertJSON, err := json.MarshalIndent(alert, "", "  ")
	if err != nil {
		alertJSON = []byte(alert.Description)
	}

	return fmt.Sprintf(
		"Analyze the following alert and provide a JSON response with keys "+
			"risk_score (int 1-10), summary (string), remediation_steps (list of 2-3 strings), "+
			"and operational_impact (string).\n"+
			"Alert JSON: %s\n"+
			"Current base risk score: %d\n"+
			"Base confidence: %.2f\n"+
			"Feedback-adjusted confidence: %.2f\n",
		alertJSON, riskScore, baseConfidence, adjustedConfidence,
	)
}

// fallbackSummary is the deterministic substitute when the narrative provider
// fails: the alert's own description plus its evidence.
func fallbackSummary(alert *models.Alert) string {
	evidence, err := json.MarshalIndent(alert.Evidence, "", "  ")
	if err != nil {
		evidence = []byte("{}")
	}
	return fmt.Sprintf("Risk Assessment for alert %s: %s\nEvidence: %s", alert.ID, alert.Description, evidence)
}
