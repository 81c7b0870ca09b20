// Package detect evaluates detection rules over security telemetry and emits
// normalized alerts.
package detect

import (
	"time"

	"github.com/google/uuid"

	"sentinelsoc/internal/logger"
	"sentinelsoc/internal/metrics"
	"sentinelsoc/pkg/models"
)

// Config controls detector thresholds and policy sets.
type Config struct {
	// TravelSpeedMPH is the implied-speed threshold for impossible travel.
	TravelSpeedMPH float64
	// PatchHighDays is the patch age at or below which hosts are not flagged.
	PatchHighDays int
	// PatchCriticalDays is the patch age above which severity is critical.
	PatchCriticalDays int
	// PortWhitelist suppresses open-port alerts for sanctioned services.
	PortWhitelist []int
	// HighRiskPorts raise open-port severity regardless of port number.
	HighRiskPorts []int
	// FailedLoginCount is the minimum pre-aggregated count to flag.
	FailedLoginCount int
	// FailedLoginWindowMinutes is the maximum window for that count.
	FailedLoginWindowMinutes int
}

// Sources bundles one run's worth of telemetry.
type Sources struct {
	Auth     []models.AuthEvent
	Hosts    []models.HostRecord
	Firewall []models.FirewallRecord
	Events   []models.GenericEvent
}

// Engine runs the detectors. Each detector is independent and side-effect
// free beyond its returned alerts and skip counters.
type Engine struct {
	cfg       Config
	sigma     *SigmaEngine
	metrics   *metrics.Metrics
	whitelist map[int]struct{}
	highRisk  map[int]struct{}
	now       func() time.Time
	newID     func() string
}

// NewEngine creates a detection engine, applying default thresholds for any
// unset config values.
func NewEngine(cfg Config, sigma *SigmaEngine, m *metrics.Metrics) *Engine {
	if cfg.TravelSpeedMPH <= 0 {
		cfg.TravelSpeedMPH = 500
	}
	if cfg.PatchHighDays <= 0 {
		cfg.PatchHighDays = 30
	}
	if cfg.PatchCriticalDays <= 0 {
		cfg.PatchCriticalDays = 60
	}
	if cfg.PortWhitelist == nil {
		cfg.PortWhitelist = []int{22, 53, 80, 443}
	}
	if cfg.HighRiskPorts == nil {
		cfg.HighRiskPorts = []int{21, 23, 1433, 3389}
	}
	if cfg.FailedLoginCount <= 0 {
		cfg.FailedLoginCount = 5
	}
	if cfg.FailedLoginWindowMinutes <= 0 {
		cfg.FailedLoginWindowMinutes = 10
	}

	e := &Engine{
		cfg:       cfg,
		sigma:     sigma,
		metrics:   m,
		whitelist: make(map[int]struct{}, len(cfg.PortWhitelist)),
		highRisk:  make(map[int]struct{}, len(cfg.HighRiskPorts)),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, p := range cfg.PortWhitelist {
		e.whitelist[p] = struct{}{}
	}
	for _, p := range cfg.HighRiskPorts {
		e.highRisk[p] = struct{}{}
	}
	return e
}

// Run executes every detector over its source and concatenates the alerts.
func (e *Engine) Run(src Sources) []*models.Alert {
	var alerts []*models.Alert

	travel := e.DetectImpossibleTravel(src.Auth)
	logger.Infof("Impossible travel: %d alert(s) from %d auth event(s)", len(travel), len(src.Auth))
	alerts = append(alerts, travel...)

	patch := e.DetectPatchDrift(src.Hosts)
	logger.Infof("Patch drift: %d alert(s) from %d host record(s)", len(patch), len(src.Hosts))
	alerts = append(alerts, patch...)

	ports := e.DetectOpenPorts(src.Firewall)
	logger.Infof("Open ports: %d alert(s) from %d firewall record(s)", len(ports), len(src.Firewall))
	alerts = append(alerts, ports...)

	generic := e.ClassifyEvents(src.Events)
	logger.Infof("Event classifier: %d alert(s) from %d event(s)", len(generic), len(src.Events))
	alerts = append(alerts, generic...)

	if e.sigma != nil {
		matched := e.ApplySigma(src.Events)
		logger.Infof("Sigma rules: %d alert(s) from %d event(s)", len(matched), len(src.Events))
		alerts = append(alerts, matched...)
	}

	return alerts
}

func (e *Engine) newAlert(alertType models.AlertType, severity, description string, evidence models.Evidence, actions []string) *models.Alert {
	if e.metrics != nil {
		e.metrics.AlertsTotal.WithLabelValues(string(alertType), severity).Inc()
	}
	return &models.Alert{
		ID:               e.newID(),
		Type:             alertType,
		Severity:         severity,
		Timestamp:        e.now().UTC(),
		Description:      description,
		Evidence:         evidence,
		SuggestedActions: actions,
	}
}

func (e *Engine) countSkipped(source string, n int) {
	if n <= 0 {
		return
	}
	if e.metrics != nil {
		e.metrics.RecordsSkipped.WithLabelValues(source).Add(float64(n))
	}
	logger.Warnf("Detector %s skipped %d record(s)", source, n)
}
