// Package triage converts alerts into risk-scored, narrative-enriched
// records, adjusting confidence with aggregated analyst feedback.
package triage

import (
	"context"
	"math"
	"sync"

	"sentinelsoc/internal/feedback"
	"sentinelsoc/internal/logger"
	"sentinelsoc/internal/metrics"
	"sentinelsoc/internal/narrative"
	"sentinelsoc/pkg/models"
)

// Config controls the triage engine.
type Config struct {
	Adjust  AdjustConfig
	Workers int
}

// Engine produces exactly one triage record per input alert. Alerts are
// processed independently: a narrative failure degrades that one record to
// the deterministic fallback and never touches its siblings.
type Engine struct {
	cfg      Config
	provider narrative.Provider
	metrics  *metrics.Metrics
}

// NewEngine creates a triage engine. A nil provider disables narrative
// generation entirely; every record then uses the fallback summary.
func NewEngine(cfg Config, provider narrative.Provider, m *metrics.Metrics) *Engine {
	if cfg.Adjust == (AdjustConfig{}) {
		cfg.Adjust = DefaultAdjustConfig()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	return &Engine{cfg: cfg, provider: provider, metrics: m}
}

// Run triages every alert against the full feedback history. Feedback stats
// are reduced once up front and shared read-only across the fan-out.
func (e *Engine) Run(ctx context.Context, alerts []*models.Alert, history []models.FeedbackEntry) []*models.TriageRecord {
	stats := feedback.Aggregate(history)
	feedbackContext := feedback.ContextString(stats)
	logger.Infof("Triage starting: %d alert(s), feedback context: %s", len(alerts), feedbackContext)

	records := make([]*models.TriageRecord, len(alerts))

	workers := e.cfg.Workers
	if workers > len(alerts) {
		workers = len(alerts)
	}

	var wg sync.WaitGroup
	jobs := make(chan int)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				records[idx] = e.triageOne(ctx, alerts[idx], stats, feedbackContext)
			}
		}()
	}

	for idx := range alerts {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	return records
}

// TriageOne builds the record for a single alert.
func (e *Engine) TriageOne(ctx context.Context, alert *models.Alert, history []models.FeedbackEntry) *models.TriageRecord {
	stats := feedback.Aggregate(history)
	return e.triageOne(ctx, alert, stats, feedback.ContextString(stats))
}

func (e *Engine) triageOne(ctx context.Context, alert *models.Alert, stats map[models.AlertType]models.FeedbackStats, feedbackContext string) *models.TriageRecord {
	baseRisk, baseConfidence := Baseline(alert.Severity)
	adjusted, feedbackAdjusted := AdjustConfidence(baseConfidence, stats[alert.Type], e.cfg.Adjust)

	raw, ok := e.generate(ctx, alert, feedbackContext, baseRisk, baseConfidence, adjusted)
	if !ok {
		raw = fallbackSummary(alert)
	}

	analysis := ParseNarrative(raw)
	riskScore := baseRisk
	if analysis.RiskScore != nil {
		riskScore = *analysis.RiskScore
	}

	if e.metrics != nil {
		e.metrics.TriageRecords.Inc()
	}

	return &models.TriageRecord{
		AlertID:          alert.ID,
		RiskScore:        riskScore,
		Summary:          analysis.Summary,
		RemediationSteps: analysis.RemediationSteps,
		Confidence:       round2(adjusted),
		FeedbackAdjusted: feedbackAdjusted,
		NarrativeRaw:     raw,
		OriginalAlert:    alert,
	}
}

// generate makes a single provider attempt. Failures are observability
// signals, never triage failures.
func (e *Engine) generate(ctx context.Context, alert *models.Alert, feedbackContext string, baseRisk int, baseConfidence, adjusted float64) (string, bool) {
	if e.provider == nil {
		if e.metrics != nil {
			e.metrics.NarrativeFallbacks.Inc()
		}
		return "", false
	}

	if e.metrics != nil {
		e.metrics.NarrativeRequests.Inc()
	}

	req := narrative.Request{
		System: buildSystemPrompt(feedbackContext),
		Prompt: buildPrompt(alert, baseRisk, baseConfidence, adjusted),
	}
	raw, err := e.provider.Generate(ctx, req)
	if err != nil {
		logger.Errorf("Narrative generation failed for alert %s: %v", alert.ID, err)
		if e.metrics != nil {
			e.metrics.NarrativeFailures.Inc()
			e.metrics.NarrativeFallbacks.Inc()
		}
		return "", false
	}

	logger.Debugf("Narrative provider responded for alert %s", alert.ID)
	return raw, true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
