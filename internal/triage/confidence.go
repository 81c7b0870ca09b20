package triage

import "sentinelsoc/pkg/models"

// Confidence bounds for every triage record.
const (
	MinConfidence = 0.05
	MaxConfidence = 0.99
)

// AdjustConfig carries the feedback adjustment constants. Rejection evidence
// is weighted more heavily than approval evidence.
type AdjustConfig struct {
	StepUp   float64
	CapUp    float64
	StepDown float64
	CapDown  float64
}

// DefaultAdjustConfig returns the standard adjustment constants.
func DefaultAdjustConfig() AdjustConfig {
	return AdjustConfig{
		StepUp:   0.03,
		CapUp:    0.15,
		StepDown: 0.04,
		CapDown:  0.20,
	}
}

// Baseline maps alert severity to the starting (risk score, confidence) pair.
func Baseline(severity string) (int, float64) {
	switch severity {
	case models.SeverityCritical:
		return 9, 0.80
	case models.SeverityHigh:
		return 8, 0.70
	case models.SeverityMedium:
		return 6, 0.60
	case models.SeverityLow:
		return 4, 0.50
	default:
		return 5, 0.50
	}
}

// AdjustConfidence applies the aggregated feedback for the alert's type to
// its base confidence. The returned flag is true whenever any feedback
// exists, even if the net adjustment is zero.
func AdjustConfidence(base float64, stats models.FeedbackStats, cfg AdjustConfig) (float64, bool) {
	if stats.Total() == 0 {
		return base, false
	}

	adjustment := 0.0
	if stats.Approvals > stats.Rejections {
		adjustment = min(cfg.CapUp, float64(stats.Approvals)*cfg.StepUp)
	} else if stats.Rejections > stats.Approvals {
		adjustment = -min(cfg.CapDown, float64(stats.Rejections)*cfg.StepDown)
	}

	return clamp(base+adjustment, MinConfidence, MaxConfidence), true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
