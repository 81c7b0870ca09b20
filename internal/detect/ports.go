package detect

import (
	"fmt"
	"strings"

	"sentinelsoc/pkg/models"
)

// DetectOpenPorts flags allowed firewall traffic to destination ports outside
// the whitelist. Repeated traffic to the same (destination, port) pair within
// a run produces a single alert.
func (e *Engine) DetectOpenPorts(records []models.FirewallRecord) []*models.Alert {
	if len(records) == 0 {
		return nil
	}

	type dedupeKey struct {
		host string
		port int
	}
	seen := make(map[dedupeKey]struct{})

	var alerts []*models.Alert
	for _, rec := range records {
		if !isAllowAction(rec.Action) {
			continue
		}
		if _, ok := e.whitelist[rec.DestPort]; ok {
			continue
		}

		host := rec.Hostname
		if host == "" {
			host = rec.DestIP
		}
		key := dedupeKey{host: host, port: rec.DestPort}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		severity := models.SeverityMedium
		if rec.DestPort < 1024 {
			severity = models.SeverityHigh
		} else if _, ok := e.highRisk[rec.DestPort]; ok {
			severity = models.SeverityHigh
		}

		description := fmt.Sprintf(
			"Unauthorized port %d allowed on host %s from %s",
			rec.DestPort, host, rec.SourceIP,
		)
		evidence := models.PortEvidence{
			Timestamp: rec.Timestamp,
			SourceIP:  rec.SourceIP,
			DestIP:    rec.DestIP,
			DestPort:  rec.DestPort,
			Protocol:  rec.Protocol,
			Hostname:  rec.Hostname,
		}
		actions := []string{
			"Review firewall ACLs for non-standard services",
			"Validate business justification with asset owner",
			"Capture packet trace to identify payload",
		}

		alerts = append(alerts, e.newAlert(models.AlertOpenPort, severity, description, evidence, actions))
	}

	return alerts
}

func isAllowAction(action string) bool {
	switch strings.ToLower(strings.TrimSpace(action)) {
	case "allow", "allowed":
		return true
	default:
		return false
	}
}
