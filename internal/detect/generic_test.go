package detect

import (
	"testing"

	"sentinelsoc/pkg/models"
)

func TestClassifyEventsFailedLoginThresholds(t *testing.T) {
	e := testEngine(Config{})

	cases := []struct {
		count   int
		window  int
		flagged bool
	}{
		{8, 5, true},
		{6, 10, true},
		{5, 5, false},  // at the count threshold, not past it
		{12, 30, false}, // window too wide
	}

	for _, tc := range cases {
		events := []models.GenericEvent{{
			EventID:       "evt-1",
			EventType:     "failed_login",
			Source:        "dc-01",
			User:          "svc_backup",
			Count:         tc.count,
			WindowMinutes: tc.window,
		}}
		alerts := e.ClassifyEvents(events)
		if tc.flagged && len(alerts) != 1 {
			t.Fatalf("count=%d window=%d: expected 1 alert, got %d", tc.count, tc.window, len(alerts))
		}
		if !tc.flagged && len(alerts) != 0 {
			t.Fatalf("count=%d window=%d: expected no alert, got %d", tc.count, tc.window, len(alerts))
		}
		if tc.flagged && alerts[0].Severity != models.SeverityHigh {
			t.Fatalf("expected high severity, got %s", alerts[0].Severity)
		}
	}
}

func TestClassifyEventsPrivilegeEscalationIsCritical(t *testing.T) {
	e := testEngine(Config{})

	events := []models.GenericEvent{{
		EventID:   "evt-2",
		EventType: "privilege_escalation",
		Source:    "historian-01",
		Process:   "pwsh.exe",
		Details:   "token manipulation",
	}}

	alerts := e.ClassifyEvents(events)
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].Severity != models.SeverityCritical {
		t.Fatalf("expected critical severity, got %s", alerts[0].Severity)
	}

	ev, ok := alerts[0].Evidence.(models.GenericEvidence)
	if !ok {
		t.Fatalf("expected generic evidence, got %T", alerts[0].Evidence)
	}
	if ev.Process != "pwsh.exe" || ev.Source != "historian-01" {
		t.Fatalf("unexpected evidence: %+v", ev)
	}
}

func TestClassifyEventsProcessAnomalyAliases(t *testing.T) {
	e := testEngine(Config{})

	for _, eventType := range []string{"unusual_process", "process_anomaly"} {
		events := []models.GenericEvent{{
			EventID:   "evt-3",
			EventType: eventType,
			Source:    "eng-ws-04",
			Process:   "nc.exe",
		}}
		alerts := e.ClassifyEvents(events)
		if len(alerts) != 1 || alerts[0].Severity != models.SeverityHigh {
			t.Fatalf("%s: expected one high alert, got %+v", eventType, alerts)
		}
	}
}

func TestClassifyEventsDropsUnknownTypes(t *testing.T) {
	e := testEngine(Config{})

	events := []models.GenericEvent{
		{EventID: "evt-4", EventType: "dns_tunneling"},
		{EventID: "evt-5", EventType: ""},
	}

	if alerts := e.ClassifyEvents(events); len(alerts) != 0 {
		t.Fatalf("expected unknown event types to be dropped, got %d alerts", len(alerts))
	}
}

func TestClassifyEventsEmissionOrderMatchesInput(t *testing.T) {
	e := testEngine(Config{})

	events := []models.GenericEvent{
		{EventID: "evt-a", EventType: "privilege_escalation", Source: "h1"},
		{EventID: "evt-b", EventType: "unusual_process", Source: "h2", Process: "nc"},
	}

	alerts := e.ClassifyEvents(events)
	if len(alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(alerts))
	}
	first, _ := alerts[0].Evidence.(models.GenericEvidence)
	second, _ := alerts[1].Evidence.(models.GenericEvidence)
	if first.EventID != "evt-a" || second.EventID != "evt-b" {
		t.Fatalf("emission order does not match input order: %s, %s", first.EventID, second.EventID)
	}
}
