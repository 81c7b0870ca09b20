package triage

import (
	"encoding/json"
	"strconv"
	"strings"
)

const maxRemediationSteps = 3

// Analysis is the parsed narrative content for one alert. RiskScore is nil
// when the narrative did not yield a usable score; the caller then keeps the
// baseline score.
type Analysis struct {
	RiskScore        *int
	Summary          string
	RemediationSteps []string
}

// ParseNarrative parses provider output tolerantly: a structured JSON
// attempt first (accepting fenced or delimited JSON), then a line-oriented
// heuristic pass. It never fails; at worst the whole text becomes the summary.
func ParseNarrative(raw string) Analysis {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Analysis{Summary: "No analysis provided."}
	}

	if analysis, ok := parseStructured(text); ok {
		return analysis
	}
	return parseLines(text)
}

type structuredResponse struct {
	RiskScore        interface{} `json:"risk_score"`
	Summary          string      `json:"summary"`
	Analysis         string      `json:"analysis"`
	RemediationSteps interface{} `json:"remediation_steps"`
}

func parseStructured(text string) (Analysis, bool) {
	candidate := stripDelimiters(text)
	if !strings.HasPrefix(candidate, "{") {
		return Analysis{}, false
	}

	var parsed structuredResponse
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		return Analysis{}, false
	}

	summary := parsed.Summary
	if summary == "" {
		summary = parsed.Analysis
	}
	if summary == "" {
		summary = candidate
	}

	return Analysis{
		RiskScore:        coerceRiskScore(parsed.RiskScore),
		Summary:          summary,
		RemediationSteps: coerceSteps(parsed.RemediationSteps),
	}, true
}

// stripDelimiters unwraps JSON enclosed in markdown code fences.
func stripDelimiters(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// coerceRiskScore accepts integers, numeric floats, and numeric strings in
// the 1-10 range. Anything else is discarded; the narrative score is
// advisory, never mandatory.
func coerceRiskScore(v interface{}) *int {
	var score int
	switch val := v.(type) {
	case float64:
		if val != float64(int(val)) {
			return nil
		}
		score = int(val)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return nil
		}
		score = n
	default:
		return nil
	}

	if score < 1 || score > 10 {
		return nil
	}
	return &score
}

// coerceSteps normalizes a remediation payload: a single string becomes a
// one-element list; lists are truncated to the step cap.
func coerceSteps(v interface{}) []string {
	var steps []string
	switch val := v.(type) {
	case string:
		if val != "" {
			steps = []string{val}
		}
	case []interface{}:
		for _, item := range val {
			if s, ok := item.(string); ok && s != "" {
				steps = append(steps, s)
			}
		}
	}

	if len(steps) > maxRemediationSteps {
		steps = steps[:maxRemediationSteps]
	}
	return steps
}

// parseLines recovers what it can from unstructured prose: a "risk score"
// line contributes its leading digits, remediation sections are detected by
// keyword or list markers, and the first three remaining lines become the
// summary.
func parseLines(text string) Analysis {
	var analysis Analysis
	var summaryLines []string
	var steps []string

	inSteps := false
	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.Trim(rawLine, "- \t\r")
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)

		if strings.HasPrefix(lower, "risk score") {
			if score := leadingDigits(lower); score != nil {
				analysis.RiskScore = score
			}
			summaryLines = append(summaryLines, line)
			continue
		}

		if strings.Contains(lower, "remediation") || strings.HasPrefix(lower, "1.") || strings.HasPrefix(lower, "step") {
			inSteps = true
		}

		switch {
		case inSteps && line[0] >= '0' && line[0] <= '9':
			steps = append(steps, stripListMarker(line))
		case inSteps && (strings.HasPrefix(rawLine, "-") || strings.HasPrefix(rawLine, "•")):
			steps = append(steps, strings.TrimLeft(rawLine, "-• "))
		default:
			summaryLines = append(summaryLines, line)
		}
	}

	if len(summaryLines) > 3 {
		summaryLines = summaryLines[:3]
	}
	if len(summaryLines) > 0 {
		analysis.Summary = strings.Join(summaryLines, " ")
	} else {
		analysis.Summary = text
	}

	if len(steps) > maxRemediationSteps {
		steps = steps[:maxRemediationSteps]
	}
	analysis.RemediationSteps = steps

	return analysis
}

// stripListMarker removes a leading "1." / "2)" style ordinal.
func stripListMarker(line string) string {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i == 0 || i == len(line) {
		return line
	}
	if line[i] == '.' || line[i] == ')' {
		i++
	}
	return strings.TrimLeft(line[i:], " ")
}

// leadingDigits extracts the first digit run from a "risk score" line and
// accepts it only in the 1-10 range.
func leadingDigits(line string) *int {
	start := -1
	for i, ch := range line {
		if ch >= '0' && ch <= '9' {
			start = i
			break
		}
	}
	if start < 0 {
		return nil
	}

	end := start
	for end < len(line) && line[end] >= '0' && line[end] <= '9' {
		end++
	}

	n, err := strconv.Atoi(line[start:end])
	if err != nil || n < 1 || n > 10 {
		return nil
	}
	return &n
}
