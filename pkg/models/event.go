package models

import (
	"fmt"
	"time"
)

// AuthEvent is one authentication attempt from the identity log source.
type AuthEvent struct {
	Timestamp time.Time `json:"timestamp"`
	User      string    `json:"user"`
	SourceIP  string    `json:"source_ip,omitempty"`
	City      string    `json:"city,omitempty"`
	Country   string    `json:"country,omitempty"`
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	Success   bool      `json:"success"`
}

// HostRecord is one row of the host patch inventory.
type HostRecord struct {
	Hostname      string    `json:"hostname"`
	IP            string    `json:"ip,omitempty"`
	OS            string    `json:"os,omitempty"`
	LastPatchDate time.Time `json:"last_patch_date"`
	Criticality   string    `json:"criticality,omitempty"`
	InstalledApps string    `json:"installed_apps,omitempty"`
	Location      string    `json:"location,omitempty"`
}

// FirewallRecord is one firewall traffic log entry.
type FirewallRecord struct {
	Timestamp time.Time `json:"timestamp"`
	SourceIP  string    `json:"source_ip"`
	DestIP    string    `json:"dest_ip"`
	DestPort  int       `json:"dest_port"`
	Protocol  string    `json:"protocol,omitempty"`
	Action    string    `json:"action"`
	Hostname  string    `json:"hostname,omitempty"`
}

// GenericEvent is a pre-aggregated event from an external log pipeline.
// Count and WindowMinutes are supplied upstream; the classifier does not
// re-aggregate raw records.
type GenericEvent struct {
	EventID       string                 `json:"event_id"`
	EventType     string                 `json:"event_type"`
	Source        string                 `json:"source,omitempty"`
	User          string                 `json:"user,omitempty"`
	SourceIP      string                 `json:"source_ip,omitempty"`
	Process       string                 `json:"process,omitempty"`
	CommandLine   string                 `json:"command_line,omitempty"`
	Details       string                 `json:"details,omitempty"`
	Count         int                    `json:"count,omitempty"`
	WindowMinutes int                    `json:"time_window_minutes,omitempty"`
	Attributes    map[string]interface{} `json:"attributes,omitempty"`
}

// Fields flattens the event into a map for rule evaluation.
func (e *GenericEvent) Fields() map[string]interface{} {
	buf := make(map[string]interface{}, len(e.Attributes)+8)
	for k, v := range e.Attributes {
		buf[k] = v
	}
	buf["event_id"] = e.EventID
	buf["event_type"] = e.EventType
	if e.Source != "" {
		buf["source"] = e.Source
	}
	if e.User != "" {
		buf["user"] = e.User
	}
	if e.SourceIP != "" {
		buf["source_ip"] = e.SourceIP
	}
	if e.Process != "" {
		buf["process"] = e.Process
	}
	if e.CommandLine != "" {
		buf["command_line"] = e.CommandLine
	}
	if e.Count > 0 {
		buf["count"] = e.Count
	}
	if e.WindowMinutes > 0 {
		buf["time_window_minutes"] = e.WindowMinutes
	}
	return buf
}

// Attribute returns a named attribute as a string.
func (e *GenericEvent) Attribute(name string) string {
	if e == nil || e.Attributes == nil {
		return ""
	}
	v, ok := e.Attributes[name]
	if !ok {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%f", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
