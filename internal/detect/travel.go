package detect

import (
	"fmt"
	"math"
	"sort"

	"sentinelsoc/internal/geo"
	"sentinelsoc/pkg/models"
)

// DetectImpossibleTravel flags consecutive successful logins for one
// principal whose implied travel speed exceeds the configured threshold.
// Pairs with non-positive elapsed time are discarded as clock skew.
func (e *Engine) DetectImpossibleTravel(events []models.AuthEvent) []*models.Alert {
	if len(events) == 0 {
		return nil
	}

	ordered := make([]models.AuthEvent, 0, len(events))
	for _, ev := range events {
		if !ev.Success {
			continue
		}
		ordered = append(ordered, ev)
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].User != ordered[j].User {
			return ordered[i].User < ordered[j].User
		}
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	var alerts []*models.Alert
	for i := 1; i < len(ordered); i++ {
		prev := ordered[i-1]
		curr := ordered[i]
		if prev.User != curr.User {
			continue
		}

		hours := curr.Timestamp.Sub(prev.Timestamp).Hours()
		if hours <= 0 {
			continue
		}

		distance := geo.DistanceMiles(prev.Lat, prev.Lon, curr.Lat, curr.Lon)
		speed := distance / hours
		if speed <= e.cfg.TravelSpeedMPH {
			continue
		}

		severity := models.SeverityHigh
		if speed >= 2*e.cfg.TravelSpeedMPH {
			severity = models.SeverityCritical
		}

		description := fmt.Sprintf(
			"User %s traveled %.0f miles in %.1f hours (~%.0f mph), exceeding policy limits.",
			curr.User, distance, hours, speed,
		)
		evidence := models.TravelEvidence{
			User:            curr.User,
			PreviousLogin:   prev.Timestamp,
			PreviousCity:    prev.City,
			PreviousCountry: prev.Country,
			PreviousLat:     prev.Lat,
			PreviousLon:     prev.Lon,
			CurrentLogin:    curr.Timestamp,
			CurrentCity:     curr.City,
			CurrentCountry:  curr.Country,
			CurrentLat:      curr.Lat,
			CurrentLon:      curr.Lon,
			DistanceMiles:   round2(distance),
			SpeedMPH:        round2(speed),
		}
		actions := []string{
			"Trigger MFA reset and investigate recent account activity",
			"Correlate with VPN logs and badge access records",
			"Temporarily limit remote access until validated",
		}

		alerts = append(alerts, e.newAlert(models.AlertImpossibleTravel, severity, description, evidence, actions))
	}

	return alerts
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
