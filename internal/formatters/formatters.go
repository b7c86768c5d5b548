package formatters

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// GlobalRegistry holds the default formatters.
var GlobalRegistry = NewFormatterRegistry()

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "AnalysisResult", &AnalysisTextFormatter{})
	registry.RegisterFormatter("markdown", "AnalysisResult", &AnalysisMarkdownFormatter{})
	registry.RegisterFormatter("text", "Recommendation", &RecommendationTextFormatter{})
	registry.RegisterFormatter("markdown", "Recommendation", &RecommendationMarkdownFormatter{})
	registry.RegisterFormatter("text", "JobListing", &ListingTextFormatter{})
	registry.RegisterFormatter("markdown", "JobListing", &ListingTextFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	value, dataType := normalize(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(value)
		}
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats, sorted
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	slices.Sort(formats)
	return formats
}

// normalize dereferences pointers so typed formatters see values. A stored
// analysis renders as its result; the "any" formatter still gets the envelope.
func normalize(data any) (any, string) {
	switch v := data.(type) {
	case *types.AnalysisResult:
		if v != nil {
			return *v, "AnalysisResult"
		}
	case types.AnalysisResult:
		return v, "AnalysisResult"
	case *types.StoredAnalysis:
		if v != nil && v.Result != nil {
			return *v.Result, "AnalysisResult"
		}
	case types.StoredAnalysis:
		if v.Result != nil {
			return *v.Result, "AnalysisResult"
		}
	case *types.Recommendation:
		if v != nil {
			return *v, "Recommendation"
		}
	case types.Recommendation:
		return v, "Recommendation"
	case *types.JobListing:
		if v != nil {
			return *v, "JobListing"
		}
	case types.JobListing:
		return v, "JobListing"
	}
	return data, "any"
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData) + "\n", nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// AnalysisTextFormatter renders an analysis for a terminal
type AnalysisTextFormatter struct{}

func (atf *AnalysisTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AnalysisResult)
	if !ok {
		return "", fmt.Errorf("expected AnalysisResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== FRAUD RISK ANALYSIS ===\n")
	fmt.Fprintf(&output, "Mode: %s (profile: %s)\n", result.Mode, result.Profile)
	fmt.Fprintf(&output, "Risk Level: %s\n", result.RiskLevel)
	fmt.Fprintf(&output, "Safety Score: %d/100\n", result.SafetyScore)
	fmt.Fprintf(&output, "Risk Score: %d/100\n", result.RiskScore)
	if result.LegitimatePlatform {
		output.WriteString("Posted on a recognised job platform\n")
	}
	output.WriteString("\n")

	output.WriteString("=== WARNINGS ===\n")
	writeFindings(&output, result.Warnings, "- ")
	output.WriteString("\n")

	if len(result.TechnicalIssues) > 0 {
		output.WriteString("=== EXTRACTION ISSUES ===\n")
		writeFindings(&output, result.TechnicalIssues, "- ")
		output.WriteString("\n")
	}

	output.WriteString("=== RISK BREAKDOWN ===\n")
	for _, c := range breakdownRows(result) {
		fmt.Fprintf(&output, "%-14s %d\n", c.label+":", c.value)
	}
	for _, adj := range result.Adjustments {
		fmt.Fprintf(&output, "Adjustment %s: %+d\n", adj.Name, adj.Delta)
	}
	output.WriteString("\n")

	if v := result.AIVerdict; v != nil {
		output.WriteString("=== VERDICT ===\n")
		fmt.Fprintf(&output, "%s (confidence %.0f%%, source: %s)\n", v.Verdict, v.Confidence*100, v.Source)
		if v.Summary != "" {
			output.WriteString(v.Summary)
			output.WriteString("\n")
		}
		output.WriteString("\n")
	}

	rec, _ := (&RecommendationTextFormatter{}).Format(result.Recommendation)
	output.WriteString(rec)

	return output.String(), nil
}

func (atf *AnalysisTextFormatter) SupportedType() string {
	return "AnalysisResult"
}

// AnalysisMarkdownFormatter renders an analysis as a markdown report
type AnalysisMarkdownFormatter struct{}

func (amf *AnalysisMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AnalysisResult)
	if !ok {
		return "", fmt.Errorf("expected AnalysisResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Job Posting Risk Report\n\n")
	fmt.Fprintf(&output, "**Risk Level:** %s  \n", result.RiskLevel)
	fmt.Fprintf(&output, "**Safety Score:** %d/100  \n", result.SafetyScore)
	fmt.Fprintf(&output, "**Risk Score:** %d/100  \n", result.RiskScore)
	fmt.Fprintf(&output, "**Mode:** %s (%s)\n\n", result.Mode, result.Profile)

	output.WriteString("## Warnings\n\n")
	writeFindings(&output, result.Warnings, "- ")
	output.WriteString("\n")

	if len(result.TechnicalIssues) > 0 {
		output.WriteString("## Extraction Issues\n\n")
		writeFindings(&output, result.TechnicalIssues, "- ")
		output.WriteString("\n")
	}

	output.WriteString("## Risk Breakdown\n\n")
	output.WriteString("| Component | Risk |\n|---|---|\n")
	for _, c := range breakdownRows(result) {
		fmt.Fprintf(&output, "| %s | %d |\n", c.label, c.value)
	}
	output.WriteString("\n")

	if v := result.AIVerdict; v != nil {
		output.WriteString("## Verdict\n\n")
		fmt.Fprintf(&output, "**%s** (confidence %.0f%%, source: %s)\n\n", v.Verdict, v.Confidence*100, v.Source)
		if v.Summary != "" {
			output.WriteString(v.Summary)
			output.WriteString("\n\n")
		}
	}

	rec, _ := (&RecommendationMarkdownFormatter{}).Format(result.Recommendation)
	output.WriteString(rec)

	return output.String(), nil
}

func (amf *AnalysisMarkdownFormatter) SupportedType() string {
	return "AnalysisResult"
}

// RecommendationTextFormatter renders recommendations as plain text
type RecommendationTextFormatter struct{}

func (rtf *RecommendationTextFormatter) Format(data any) (string, error) {
	rec, ok := data.(types.Recommendation)
	if !ok {
		return "", fmt.Errorf("expected Recommendation, got %T", data)
	}

	var output strings.Builder
	fmt.Fprintf(&output, "=== RECOMMENDATIONS (%s) ===\n", strings.ToUpper(string(rec.Tier)))
	writeLines(&output, rec.Summary, "")
	writeSection(&output, "Action items:", rec.ActionItems, "  - ")
	writeSection(&output, "Verify before applying:", rec.VerificationSteps, "  - ")
	writeSection(&output, "General tips:", rec.UniversalTips, "  - ")
	writeSection(&output, "Resources:", rec.Resources, "  - ")
	return output.String(), nil
}

func (rtf *RecommendationTextFormatter) SupportedType() string {
	return "Recommendation"
}

// RecommendationMarkdownFormatter renders recommendations as markdown
type RecommendationMarkdownFormatter struct{}

func (rmf *RecommendationMarkdownFormatter) Format(data any) (string, error) {
	rec, ok := data.(types.Recommendation)
	if !ok {
		return "", fmt.Errorf("expected Recommendation, got %T", data)
	}

	var output strings.Builder
	fmt.Fprintf(&output, "## Recommendations (%s)\n\n", rec.Tier)
	writeLines(&output, rec.Summary, "> ")
	output.WriteString("\n")
	writeSection(&output, "### Action Items\n", rec.ActionItems, "- ")
	writeSection(&output, "### Verification Steps\n", rec.VerificationSteps, "1. ")
	writeSection(&output, "### Tips\n", rec.UniversalTips, "- ")
	writeSection(&output, "### Resources\n", rec.Resources, "- ")
	return output.String(), nil
}

func (rmf *RecommendationMarkdownFormatter) SupportedType() string {
	return "Recommendation"
}

// ListingTextFormatter prints an extracted listing field by field
type ListingTextFormatter struct{}

func (ltf *ListingTextFormatter) Format(data any) (string, error) {
	l, ok := data.(types.JobListing)
	if !ok {
		return "", fmt.Errorf("expected JobListing, got %T", data)
	}

	var output strings.Builder
	for _, f := range []struct{ name, value string }{
		{"Title", l.Title},
		{"Company", l.Company},
		{"Location", l.Location},
		{"Salary", l.Salary},
		{"Contact", l.ContactEmail},
		{"Apply", l.ApplicationURL},
		{"Source", l.SourceURL},
	} {
		value := f.value
		if value == "" {
			value = "(missing)"
		}
		fmt.Fprintf(&output, "%-9s %s\n", f.name+":", value)
	}
	output.WriteString("\nDescription:\n")
	output.WriteString(l.Description)
	output.WriteString("\n")
	if l.Requirements != "" {
		output.WriteString("\nRequirements:\n")
		output.WriteString(l.Requirements)
		output.WriteString("\n")
	}
	return output.String(), nil
}

func (ltf *ListingTextFormatter) SupportedType() string {
	return "JobListing"
}

type breakdownRow struct {
	label string
	value int
}

func breakdownRows(r types.AnalysisResult) []breakdownRow {
	b := r.Breakdown
	if r.Mode == types.ModeLinkOnly {
		return []breakdownRow{
			{"Reputation", b.ReputationRisk},
			{"URL structure", b.URLStructureRisk},
			{"Security", b.SecurityRisk},
			{"Domain", b.DomainRisk},
		}
	}
	return []breakdownRow{
		{"Website", b.WebsiteRisk},
		{"Email", b.EmailRisk},
		{"Content", b.ContentRisk},
		{"Structure", b.StructureRisk},
		{"Compensation", b.CompensationRisk},
	}
}

func writeFindings(b *strings.Builder, findings []types.Finding, prefix string) {
	if len(findings) == 0 {
		b.WriteString("None\n")
		return
	}
	for _, f := range findings {
		b.WriteString(prefix)
		b.WriteString(f.Text())
		b.WriteString("\n")
	}
}

func writeLines(b *strings.Builder, lines []string, prefix string) {
	for _, line := range lines {
		b.WriteString(prefix)
		b.WriteString(line)
		b.WriteString("\n")
	}
}

func writeSection(b *strings.Builder, title string, items []string, prefix string) {
	if len(items) == 0 {
		return
	}
	b.WriteString("\n")
	b.WriteString(title)
	b.WriteString("\n")
	writeLines(b, items, prefix)
}
