package detect

import (
	"fmt"

	"sentinelsoc/pkg/models"
)

// ClassifyEvents maps pre-aggregated events from the external log pipeline to
// alerts using a static per-type policy. Count-based types are flagged only
// when both the count threshold and the window constraint hold on the event's
// own fields. Unknown event types are dropped and counted, not flagged.
func (e *Engine) ClassifyEvents(events []models.GenericEvent) []*models.Alert {
	if len(events) == 0 {
		return nil
	}

	var alerts []*models.Alert
	unknown := 0
	for _, event := range events {
		switch event.EventType {
		case "failed_login":
			if event.Count <= e.cfg.FailedLoginCount || event.WindowMinutes > e.cfg.FailedLoginWindowMinutes {
				continue
			}
			description := fmt.Sprintf(
				"%d failed logins for user %s on %s within %d minutes.",
				event.Count, event.User, event.Source, event.WindowMinutes,
			)
			actions := []string{
				"Lock or monitor affected account in the directory service",
				"Correlate with network telemetry for potential brute force",
				"Initiate password reset if activity persists",
			}
			alerts = append(alerts, e.newAlert(models.AlertGenericAnomaly, models.SeverityHigh, description, genericEvidence(event), actions))

		case "privilege_escalation":
			description := fmt.Sprintf(
				"Privilege escalation detected on %s via process %s",
				event.Source, event.Process,
			)
			actions := []string{
				"Isolate host from control network pending investigation",
				"Review recent command history and created accounts",
				"Coordinate with plant operations before remediation",
			}
			alerts = append(alerts, e.newAlert(models.AlertGenericAnomaly, models.SeverityCritical, description, genericEvidence(event), actions))

		case "unusual_process", "process_anomaly":
			description := fmt.Sprintf(
				"Unusual process %s executed on %s",
				event.Process, event.Source,
			)
			actions := []string{
				"Capture forensic image before restarting services",
				"Validate command origin with historian team",
				"Block outbound connections associated with reverse shell",
			}
			alerts = append(alerts, e.newAlert(models.AlertGenericAnomaly, models.SeverityHigh, description, genericEvidence(event), actions))

		default:
			unknown++
		}
	}

	e.countSkipped("events", unknown)
	return alerts
}

func genericEvidence(event models.GenericEvent) models.GenericEvidence {
	return models.GenericEvidence{
		EventID:       event.EventID,
		EventType:     event.EventType,
		Source:        event.Source,
		User:          event.User,
		SourceIP:      event.SourceIP,
		Process:       event.Process,
		CommandLine:   event.CommandLine,
		Details:       event.Details,
		Count:         event.Count,
		WindowMinutes: event.WindowMinutes,
		Attributes:    event.Attributes,
	}
}
