package detect

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	sigma "github.com/bradleyjkemp/sigma-go"
	sigmaevaluator "github.com/bradleyjkemp/sigma-go/evaluator"

	"sentinelsoc/pkg/models"
)

// SigmaLoadStats tracks the number of loaded and skipped rules.
type SigmaLoadStats struct {
	TotalFiles     int
	Loaded         int
	SkippedComplex int
	SkippedInvalid int
}

type compiledSigmaRule struct {
	rule     sigma.Rule
	eval     *sigmaevaluator.RuleEvaluator
	severity string
}

// SigmaEngine evaluates Sigma rules against individual generic events,
// emitting one generic_anomaly alert per rule match.
type SigmaEngine struct {
	rules []compiledSigmaRule
	ctx   context.Context
}

// NewSigmaEngine loads Sigma rules from a file or directory and compiles
// evaluators. Unsupported or complex rules are skipped and included in stats.
func NewSigmaEngine(path string) (*SigmaEngine, SigmaLoadStats, error) {
	var stats SigmaLoadStats

	resolved, err := filepath.Abs(path)
	if err != nil {
		return nil, stats, fmt.Errorf("resolve rule path: %w", err)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, stats, fmt.Errorf("stat rule path: %w", err)
	}

	files := make([]string, 0, 64)
	if info.IsDir() {
		err = filepath.WalkDir(resolved, func(filePath string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if entry.IsDir() {
				return nil
			}
			if isYAMLFile(filePath) {
				files = append(files, filePath)
			}
			return nil
		})
		if err != nil {
			return nil, stats, fmt.Errorf("walk rule directory: %w", err)
		}
	} else {
		if !isYAMLFile(resolved) {
			return nil, stats, fmt.Errorf("rule file must end with .yml or .yaml: %s", resolved)
		}
		files = append(files, resolved)
	}

	stats.TotalFiles = len(files)
	compiled := make([]compiledSigmaRule, 0, len(files))
	for _, ruleFile := range files {
		raw, err := os.ReadFile(ruleFile)
		if err != nil {
			stats.SkippedInvalid++
			continue
		}
		rule, err := sigma.ParseRule(raw)
		if err != nil {
			stats.SkippedInvalid++
			continue
		}

		if !isSimpleSingleEventRule(rule) {
			stats.SkippedComplex++
			continue
		}

		compiled = append(compiled, compiledSigmaRule{
			rule:     rule,
			eval:     sigmaevaluator.ForRule(rule),
			severity: severityFromLevel(rule.Level),
		})
		stats.Loaded++
	}

	return &SigmaEngine{rules: compiled, ctx: context.Background()}, stats, nil
}

// ApplySigma evaluates the loaded Sigma rules over each event and emits one
// alert per matched rule.
func (e *Engine) ApplySigma(events []models.GenericEvent) []*models.Alert {
	if e.sigma == nil || len(e.sigma.rules) == 0 {
		return nil
	}

	var alerts []*models.Alert
	for i := range events {
		event := &events[i]
		fields := event.Fields()
		for _, rule := range e.sigma.rules {
			res, err := rule.eval.Matches(e.sigma.ctx, fields)
			if err != nil || !res.Match {
				continue
			}

			description := fmt.Sprintf(
				"Sigma rule %q matched event %s on %s",
				rule.rule.Title, event.EventID, event.Source,
			)
			evidence := genericEvidence(*event)
			evidence.RuleID = strings.TrimSpace(rule.rule.ID)
			evidence.RuleName = strings.TrimSpace(rule.rule.Title)
			actions := []string{
				"Review the matched rule's references and event context",
				"Confirm whether the activity is sanctioned for this source",
			}

			alerts = append(alerts, e.newAlert(models.AlertGenericAnomaly, rule.severity, description, evidence, actions))
		}
	}

	return alerts
}

func isYAMLFile(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".yml") || strings.HasSuffix(lower, ".yaml")
}

// isSimpleSingleEventRule rejects rules needing aggregation, timeframes, or
// keyword searches; this stage evaluates events one at a time.
func isSimpleSingleEventRule(rule sigma.Rule) bool {
	if rule.Detection.Timeframe > 0 {
		return false
	}

	for _, cond := range rule.Detection.Conditions {
		if cond.Aggregation != nil {
			return false
		}
		if !isSimpleSearchExpression(cond.Search) {
			return false
		}
	}

	for _, search := range rule.Detection.Searches {
		if len(search.Keywords) > 0 {
			return false
		}
		if len(search.EventMatchers) == 0 {
			return false
		}
	}

	return true
}

func isSimpleSearchExpression(expr sigma.SearchExpr) bool {
	switch e := expr.(type) {
	case sigma.SearchIdentifier:
		return true
	case sigma.And:
		for _, child := range e {
			if !isSimpleSearchExpression(child) {
				return false
			}
		}
		return true
	case sigma.Or:
		for _, child := range e {
			if !isSimpleSearchExpression(child) {
				return false
			}
		}
		return true
	case sigma.Not:
		return isSimpleSearchExpression(e.Expr)
	default:
		return false
	}
}

func severityFromLevel(level string) string {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "critical":
		return models.SeverityCritical
	case "high":
		return models.SeverityHigh
	case "low", "informational":
		return models.SeverityLow
	default:
		return models.SeverityMedium
	}
}
