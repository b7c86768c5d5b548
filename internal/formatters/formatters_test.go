package formatters

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/types"
)

func sampleResult() *types.AnalysisResult {
	return &types.AnalysisResult{
		Mode:        types.ModeFull,
		Profile:     "classic",
		SafetyScore: 30,
		RiskScore:   70,
		RiskLevel:   types.RiskLevelVeryHigh,
		Warnings: []types.Finding{
			{Severity: types.SeverityUserWarning, Category: types.CategoryScam, Message: "SCAM WARNING: wire transfer", Critical: true},
			{Severity: types.SeverityUserWarning, Category: types.CategoryEmail, Message: "Free email provider"},
		},
		Breakdown:   types.RiskBreakdown{WebsiteRisk: 40, EmailRisk: 25, ContentRisk: 60},
		Adjustments: []types.Adjustment{{Name: "critical_warnings", Delta: 15}},
		AIVerdict:   &types.AIVerdict{Verdict: "likely_scam", Confidence: 0.9, Summary: "Payment request", Source: types.VerdictSourceRules},
		Recommendation: types.Recommendation{
			Tier:              types.TierCritical,
			Summary:           []string{"Do not apply."},
			ActionItems:       []string{"Never pay to apply."},
			VerificationSteps: []string{"Call the company."},
			UniversalTips:     []string{"Research first."},
			Resources:         []string{"https://reportfraud.ftc.gov"},
		},
	}
}

func TestFormatAnalysisText(t *testing.T) {
	out, err := GlobalRegistry.Format(sampleResult(), "text")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for _, want := range []string{
		"Risk Level: Very High",
		"Safety Score: 30/100",
		"- 🚨 SCAM WARNING: wire transfer",
		"- Free email provider",
		"Website:       40",
		"Adjustment critical_warnings: +15",
		"likely_scam (confidence 90%, source: rules)",
		"=== RECOMMENDATIONS (CRITICAL) ===",
		"  - Call the company.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "EXTRACTION ISSUES") {
		t.Error("Expected no extraction section without technical issues")
	}
}

func TestFormatAnalysisMarkdown(t *testing.T) {
	stored := types.StoredAnalysis{Result: sampleResult()}
	out, err := GlobalRegistry.Format(stored, "markdown")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for _, want := range []string{
		"# Job Posting Risk Report",
		"| Content | 60 |",
		"## Recommendations (critical)",
		"1. Call the company.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q\n%s", want, out)
		}
	}
}

func TestFormatLinkOnlyBreakdown(t *testing.T) {
	r := &types.AnalysisResult{
		Mode:      types.ModeLinkOnly,
		Breakdown: types.RiskBreakdown{URLStructureRisk: 60},
	}
	out, err := GlobalRegistry.Format(r, "text")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(out, "URL structure: 60") || strings.Contains(out, "Website:") {
		t.Errorf("Expected link-only components only\n%s", out)
	}
	if !strings.Contains(out, "None") {
		t.Error("Expected an explicit empty warnings marker")
	}
}

func TestFormatJSON(t *testing.T) {
	out, err := GlobalRegistry.Format(sampleResult(), "json")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	var decoded types.AnalysisResult
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("Expected valid JSON: %v", err)
	}
	if decoded.RiskScore != 70 || len(decoded.Warnings) != 2 {
		t.Errorf("Unexpected decoded result %+v", decoded)
	}
}

func TestFormatListing(t *testing.T) {
	out, err := GlobalRegistry.Format(types.JobListing{Title: "Engineer", Description: "Build things"}, "text")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(out, "Title:    Engineer") || !strings.Contains(out, "Company:  (missing)") {
		t.Errorf("Unexpected listing output\n%s", out)
	}
}

func TestFormatUnknown(t *testing.T) {
	if _, err := GlobalRegistry.Format(map[string]int{"a": 1}, "text"); err == nil {
		t.Error("Expected error for unsupported type in text format")
	}
	if _, err := GlobalRegistry.Format(sampleResult(), "yaml"); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestGetSupportedFormats(t *testing.T) {
	want := []string{"json", "markdown", "text"}
	if got := GlobalRegistry.GetSupportedFormats(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}
