package analyzer

import (
	"fmt"
	"math"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/types"
)

// Verdict labels shared with the AI provider.
const (
	VerdictLikelyScam       = "likely_scam"
	VerdictSuspicious       = "suspicious"
	VerdictLikelyLegitimate = "likely_legitimate"
)

const (
	scamVerdictRisk       = 60
	suspiciousVerdictRisk = 35
	maxRuleConfidence     = 0.9
	maxVerdictFlags       = 5
)

// RuleBasedVerdict approximates an AI verdict from the result's own findings.
// It stands in whenever the AI collaborator is unavailable.
func RuleBasedVerdict(r *types.AnalysisResult) *types.AIVerdict {
	verdict := VerdictLikelyLegitimate
	switch {
	case r.RiskScore >= scamVerdictRisk:
		verdict = VerdictLikelyScam
	case r.RiskScore >= suspiciousVerdictRisk:
		verdict = VerdictSuspicious
	}

	// Scores near the middle are the least certain.
	confidence := 0.5 + math.Abs(float64(r.RiskScore)-50)/100
	confidence = math.Min(confidence, maxRuleConfidence)

	red := make([]string, 0, maxVerdictFlags)
	for _, f := range r.Warnings {
		if len(red) == maxVerdictFlags {
			break
		}
		red = append(red, f.Text())
	}

	var green []string
	if r.LegitimatePlatform {
		green = append(green, "Posted on a recognized job board")
	}
	if !r.HasCategory(types.CategoryScam) {
		green = append(green, "No known scam phrases found")
	}
	if r.Mode == types.ModeFull {
		if !r.HasCategory(types.CategoryEmail) {
			green = append(green, "Contact details look consistent with the company")
		}
		if !r.HasCategory(types.CategoryCompensation) {
			green = append(green, "Compensation looks realistic")
		}
	}

	return &types.AIVerdict{
		Verdict:    verdict,
		Confidence: math.Round(confidence*100) / 100,
		Summary: fmt.Sprintf("Rule-based assessment: %s risk (%d/100) from %d warnings",
			r.RiskLevel, r.RiskScore, len(r.Warnings)),
		RedFlags:   red,
		GreenFlags: green,
		Source:     types.VerdictSourceRules,
	}
}
