package detect

import (
	"testing"
	"time"

	"sentinelsoc/pkg/models"
)

func testEngine(cfg Config) *Engine {
	e := NewEngine(cfg, nil, nil)
	e.now = func() time.Time { return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC) }
	seq := 0
	e.newID = func() string {
		seq++
		return string(rune('a' + seq - 1))
	}
	return e
}

func TestDetectImpossibleTravelFlagsCriticalSpeed(t *testing.T) {
	e := testEngine(Config{})
	base := time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC)

	// New York to Tokyo (~6700 miles) fifteen minutes apart.
	events := []models.AuthEvent{
		{Timestamp: base, User: "operator1", City: "New York", Lat: 40.7128, Lon: -74.0060, Success: true},
		{Timestamp: base.Add(15 * time.Minute), User: "operator1", City: "Tokyo", Lat: 35.6762, Lon: 139.6503, Success: true},
	}

	alerts := e.DetectImpossibleTravel(events)
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].Type != models.AlertImpossibleTravel {
		t.Fatalf("unexpected alert type: %s", alerts[0].Type)
	}
	if alerts[0].Severity != models.SeverityCritical {
		t.Fatalf("expected critical severity, got %s", alerts[0].Severity)
	}

	ev, ok := alerts[0].Evidence.(models.TravelEvidence)
	if !ok {
		t.Fatalf("expected travel evidence, got %T", alerts[0].Evidence)
	}
	if ev.User != "operator1" {
		t.Fatalf("unexpected user: %s", ev.User)
	}
	if ev.DistanceMiles < 6000 || ev.DistanceMiles > 7500 {
		t.Fatalf("unexpected distance: %f", ev.DistanceMiles)
	}
	if ev.SpeedMPH < 2*500 {
		t.Fatalf("expected speed past twice the threshold, got %f", ev.SpeedMPH)
	}
	if !ev.PreviousLogin.Equal(base) || !ev.CurrentLogin.Equal(base.Add(15*time.Minute)) {
		t.Fatalf("unexpected endpoint timestamps: %+v", ev)
	}
}

func TestDetectImpossibleTravelIgnoresPlausibleSpeed(t *testing.T) {
	e := testEngine(Config{})
	base := time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC)

	// Philadelphia to New York (~80 miles) two hours apart.
	events := []models.AuthEvent{
		{Timestamp: base, User: "operator1", Lat: 39.9526, Lon: -75.1652, Success: true},
		{Timestamp: base.Add(2 * time.Hour), User: "operator1", Lat: 40.7128, Lon: -74.0060, Success: true},
	}

	if alerts := e.DetectImpossibleTravel(events); len(alerts) != 0 {
		t.Fatalf("expected no alerts, got %d", len(alerts))
	}
}

func TestDetectImpossibleTravelExcludesFailedLogins(t *testing.T) {
	e := testEngine(Config{})
	base := time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC)

	// The failed London attempt must not anchor a travel pair.
	events := []models.AuthEvent{
		{Timestamp: base, User: "operator1", Lat: 40.7128, Lon: -74.0060, Success: true},
		{Timestamp: base.Add(10 * time.Minute), User: "operator1", Lat: 51.5074, Lon: -0.1278, Success: false},
		{Timestamp: base.Add(3 * time.Hour), User: "operator1", Lat: 40.7128, Lon: -74.0060, Success: true},
	}

	if alerts := e.DetectImpossibleTravel(events); len(alerts) != 0 {
		t.Fatalf("expected no alerts, got %d", len(alerts))
	}
}

func TestDetectImpossibleTravelDiscardsNonPositiveElapsed(t *testing.T) {
	e := testEngine(Config{})
	base := time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC)

	events := []models.AuthEvent{
		{Timestamp: base, User: "operator1", Lat: 40.7128, Lon: -74.0060, Success: true},
		{Timestamp: base, User: "operator1", Lat: 35.6762, Lon: 139.6503, Success: true},
	}

	if alerts := e.DetectImpossibleTravel(events); len(alerts) != 0 {
		t.Fatalf("expected duplicate-timestamp pair to be discarded, got %d alerts", len(alerts))
	}
}

func TestDetectImpossibleTravelKeepsUsersSeparate(t *testing.T) {
	e := testEngine(Config{})
	base := time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC)

	// Two different users on two continents are not a travel pair.
	events := []models.AuthEvent{
		{Timestamp: base, User: "operator1", Lat: 40.7128, Lon: -74.0060, Success: true},
		{Timestamp: base.Add(5 * time.Minute), User: "operator2", Lat: 35.6762, Lon: 139.6503, Success: true},
	}

	if alerts := e.DetectImpossibleTravel(events); len(alerts) != 0 {
		t.Fatalf("expected no cross-user alerts, got %d", len(alerts))
	}
}

func TestDetectImpossibleTravelOrdersByTimestampPerUser(t *testing.T) {
	e := testEngine(Config{})
	base := time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC)

	// Supplied out of order; sorted they are NYC -> Tokyo in 30 minutes.
	events := []models.AuthEvent{
		{Timestamp: base.Add(30 * time.Minute), User: "operator1", Lat: 35.6762, Lon: 139.6503, Success: true},
		{Timestamp: base, User: "operator1", Lat: 40.7128, Lon: -74.0060, Success: true},
	}

	alerts := e.DetectImpossibleTravel(events)
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
}
