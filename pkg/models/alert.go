package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// AlertType identifies which detector produced an alert.
type AlertType string

const (
	AlertImpossibleTravel AlertType = "impossible_travel"
	AlertPatchDrift       AlertType = "patch_drift"
	AlertOpenPort         AlertType = "open_port"
	AlertGenericAnomaly   AlertType = "generic_anomaly"
)

// Severity levels, lowest to highest.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Evidence is the detector-specific payload attached to an alert. Each alert
// type carries exactly one concrete evidence shape.
type Evidence interface {
	evidence()
}

// TravelEvidence supports impossible_travel alerts.
type TravelEvidence struct {
	User            string    `json:"user"`
	PreviousLogin   time.Time `json:"previous_login"`
	PreviousCity    string    `json:"previous_city,omitempty"`
	PreviousCountry string    `json:"previous_country,omitempty"`
	PreviousLat     float64   `json:"previous_lat"`
	PreviousLon     float64   `json:"previous_lon"`
	CurrentLogin    time.Time `json:"current_login"`
	CurrentCity     string    `json:"current_city,omitempty"`
	CurrentCountry  string    `json:"current_country,omitempty"`
	CurrentLat      float64   `json:"current_lat"`
	CurrentLon      float64   `json:"current_lon"`
	DistanceMiles   float64   `json:"distance_miles"`
	SpeedMPH        float64   `json:"speed_mph"`
}

// PatchDriftEvidence supports patch_drift alerts.
type PatchDriftEvidence struct {
	Hostname       string `json:"hostname"`
	IP             string `json:"ip,omitempty"`
	LastPatchDate  string `json:"last_patch_date"`
	DaysSincePatch int    `json:"days_since_patch"`
	Criticality    string `json:"criticality,omitempty"`
	InstalledApps  string `json:"installed_apps,omitempty"`
	Location       string `json:"location,omitempty"`
}

// PortEvidence supports open_port alerts.
type PortEvidence struct {
	Timestamp time.Time `json:"timestamp"`
	SourceIP  string    `json:"source_ip"`
	DestIP    string    `json:"dest_ip"`
	DestPort  int       `json:"dest_port"`
	Protocol  string    `json:"protocol,omitempty"`
	Hostname  string    `json:"hostname,omitempty"`
}

// GenericEvidence supports generic_anomaly alerts, including those emitted by
// the Sigma rule stage.
type GenericEvidence struct {
	EventID       string                 `json:"event_id,omitempty"`
	EventType     string                 `json:"event_type,omitempty"`
	Source        string                 `json:"source,omitempty"`
	User          string                 `json:"user,omitempty"`
	SourceIP      string                 `json:"source_ip,omitempty"`
	Process       string                 `json:"process,omitempty"`
	CommandLine   string                 `json:"command_line,omitempty"`
	Details       string                 `json:"details,omitempty"`
	Count         int                    `json:"count,omitempty"`
	WindowMinutes int                    `json:"time_window_minutes,omitempty"`
	RuleID        string                 `json:"rule_id,omitempty"`
	RuleName      string                 `json:"rule_name,omitempty"`
	Attributes    map[string]interface{} `json:"attributes,omitempty"`
}

func (TravelEvidence) evidence()     {}
func (PatchDriftEvidence) evidence() {}
func (PortEvidence) evidence()       {}
func (GenericEvidence) evidence()    {}

// Alert is the normalized output of one detector finding. Alerts are value
// objects: constructed once by a detector, never mutated afterwards.
type Alert struct {
	ID               string    `json:"id"`
	Type             AlertType `json:"type"`
	Severity         string    `json:"severity"`
	Timestamp        time.Time `json:"timestamp"`
	Description      string    `json:"description"`
	Evidence         Evidence  `json:"evidence"`
	SuggestedActions []string  `json:"suggested_actions"`
}

// UnmarshalJSON decodes the evidence variant that matches the alert type, so
// alerts written by the detect stage can be re-read losslessly by triage.
func (a *Alert) UnmarshalJSON(data []byte) error {
	type shadow struct {
		ID               string          `json:"id"`
		Type             AlertType       `json:"type"`
		Severity         string          `json:"severity"`
		Timestamp        time.Time       `json:"timestamp"`
		Description      string          `json:"description"`
		Evidence         json.RawMessage `json:"evidence"`
		SuggestedActions []string        `json:"suggested_actions"`
	}

	var s shadow
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	a.ID = s.ID
	a.Type = s.Type
	a.Severity = s.Severity
	a.Timestamp = s.Timestamp
	a.Description = s.Description
	a.SuggestedActions = s.SuggestedActions
	a.Evidence = nil

	if len(s.Evidence) == 0 || string(s.Evidence) == "null" {
		return nil
	}

	switch s.Type {
	case AlertImpossibleTravel:
		var ev TravelEvidence
		if err := json.Unmarshal(s.Evidence, &ev); err != nil {
			return fmt.Errorf("decode travel evidence: %w", err)
		}
		a.Evidence = ev
	case AlertPatchDrift:
		var ev PatchDriftEvidence
		if err := json.Unmarshal(s.Evidence, &ev); err != nil {
			return fmt.Errorf("decode patch drift evidence: %w", err)
		}
		a.Evidence = ev
	case AlertOpenPort:
		var ev PortEvidence
		if err := json.Unmarshal(s.Evidence, &ev); err != nil {
			return fmt.Errorf("decode port evidence: %w", err)
		}
		a.Evidence = ev
	default:
		var ev GenericEvidence
		if err := json.Unmarshal(s.Evidence, &ev); err != nil {
			return fmt.Errorf("decode generic evidence: %w", err)
		}
		a.Evidence = ev
	}

	return nil
}

// SeverityWeight orders severities for sorting and scoring.
func SeverityWeight(severity string) int {
	switch severity {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}
