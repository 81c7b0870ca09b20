package detect

import (
	"fmt"
	"time"

	"sentinelsoc/pkg/models"
)

// DetectPatchDrift flags hosts whose last patch date has aged past the
// maintenance window. Severity is critical above the stricter threshold,
// otherwise high. Age is measured in calendar days, UTC.
func (e *Engine) DetectPatchDrift(hosts []models.HostRecord) []*models.Alert {
	if len(hosts) == 0 {
		return nil
	}

	today := e.now().UTC().Truncate(24 * time.Hour)
	var alerts []*models.Alert
	for _, host := range hosts {
		if host.LastPatchDate.IsZero() {
			continue
		}

		patched := host.LastPatchDate.UTC().Truncate(24 * time.Hour)
		days := int(today.Sub(patched).Hours() / 24)
		if days <= e.cfg.PatchHighDays {
			continue
		}

		severity := models.SeverityHigh
		if days > e.cfg.PatchCriticalDays {
			severity = models.SeverityCritical
		}

		description := fmt.Sprintf(
			"Host %s last patched %d days ago, exceeding maintenance window.",
			host.Hostname, days,
		)
		evidence := models.PatchDriftEvidence{
			Hostname:       host.Hostname,
			IP:             host.IP,
			LastPatchDate:  patched.Format("2006-01-02"),
			DaysSincePatch: days,
			Criticality:    host.Criticality,
			InstalledApps:  host.InstalledApps,
			Location:       host.Location,
		}
		actions := []string{
			"Coordinate maintenance window with operations team",
			"Prioritize security patch deployment",
			"Verify compensating controls for impacted services",
		}

		alerts = append(alerts, e.newAlert(models.AlertPatchDrift, severity, description, evidence, actions))
	}

	return alerts
}
