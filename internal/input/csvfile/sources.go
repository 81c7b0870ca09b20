package csvfile

import (
	"sentinelsoc/internal/logger"
	"sentinelsoc/pkg/models"
)

// LoadAuthEvents reads authentication events. Rows missing a user, timestamp,
// or coordinates are skipped and counted.
func LoadAuthEvents(path string) ([]models.AuthEvent, int, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, 0, err
	}

	events := make([]models.AuthEvent, 0, len(rows))
	skipped := 0
	for _, r := range rows {
		user := r.get("user")
		if user == "" {
			skipped++
			continue
		}
		ts, err := r.getTime("timestamp")
		if err != nil {
			skipped++
			continue
		}
		lat, latErr := r.getFloat("lat")
		lon, lonErr := r.getFloat("lon")
		if latErr != nil || lonErr != nil {
			skipped++
			continue
		}

		events = append(events, models.AuthEvent{
			Timestamp: ts,
			User:      user,
			SourceIP:  r.get("source_ip"),
			City:      r.get("city"),
			Country:   r.get("country"),
			Lat:       lat,
			Lon:       lon,
			Success:   r.getBool("success"),
		})
	}

	if skipped > 0 {
		logger.Warnf("Skipped %d malformed auth event rows in %s", skipped, path)
	}
	return events, skipped, nil
}

// LoadHostInventory reads the host patch inventory. Rows with an unparsable
// or missing patch date are skipped, not treated as overdue.
func LoadHostInventory(path string) ([]models.HostRecord, int, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, 0, err
	}

	hosts := make([]models.HostRecord, 0, len(rows))
	skipped := 0
	for _, r := range rows {
		hostname := r.get("hostname")
		if hostname == "" {
			skipped++
			continue
		}
		patched, err := r.getTime("last_patch_date")
		if err != nil {
			skipped++
			continue
		}

		hosts = append(hosts, models.HostRecord{
			Hostname:      hostname,
			IP:            r.get("ip"),
			OS:            r.get("os"),
			LastPatchDate: patched,
			Criticality:   r.get("criticality"),
			InstalledApps: r.get("installed_apps"),
			Location:      r.get("location"),
		})
	}

	if skipped > 0 {
		logger.Warnf("Skipped %d malformed host inventory rows in %s", skipped, path)
	}
	return hosts, skipped, nil
}

// LoadFirewallLogs reads firewall traffic records. Rows without a numeric
// destination port are skipped.
func LoadFirewallLogs(path string) ([]models.FirewallRecord, int, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, 0, err
	}

	records := make([]models.FirewallRecord, 0, len(rows))
	skipped := 0
	for _, r := range rows {
		port, err := r.getInt("dest_port")
		if err != nil {
			skipped++
			continue
		}

		rec := models.FirewallRecord{
			SourceIP: r.get("source_ip"),
			DestIP:   r.get("dest_ip"),
			DestPort: port,
			Protocol: r.get("protocol"),
			Action:   r.get("action"),
			Hostname: r.get("hostname"),
		}
		if ts, err := r.getTime("timestamp"); err == nil {
			rec.Timestamp = ts
		}
		records = append(records, rec)
	}

	if skipped > 0 {
		logger.Warnf("Skipped %d malformed firewall rows in %s", skipped, path)
	}
	return records, skipped, nil
}
