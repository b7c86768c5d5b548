package types

import (
	"time"

	"github.com/google/uuid"
)

// JobListing is the input to an analysis. Absent fields are empty strings.
type JobListing struct {
	Title          string `json:"title"`
	Company        string `json:"company"`
	Description    string `json:"description"`
	Location       string `json:"location,omitempty"`
	Salary         string `json:"salary,omitempty"`
	Requirements   string `json:"requirements,omitempty"`
	ContactEmail   string `json:"contactEmail,omitempty"`
	ApplicationURL string `json:"applicationUrl,omitempty"`
	SourceURL      string `json:"sourceUrl,omitempty"` // page the listing was captured from
}

// Mode selects which evaluators run and which profile applies by default.
type Mode string

const (
	ModeFull     Mode = "full"
	ModeLinkOnly Mode = "linkonly"
)

// Severity routes a finding to the user or to internal diagnostics.
type Severity string

const (
	SeverityUserWarning    Severity = "user_warning"
	SeverityTechnicalIssue Severity = "technical_issue"
)

// Category is assigned when a finding is created and drives recommendations.
type Category string

const (
	CategoryWebsite       Category = "website"
	CategoryEmail         Category = "email"
	CategoryScam          Category = "scam"
	CategoryPressure      Category = "pressure"
	CategoryBuzzword      Category = "buzzword"
	CategoryGrammar       Category = "grammar"
	CategoryCompensation  Category = "compensation"
	CategoryContentLength Category = "content_length"
	CategoryMissingFields Category = "missing_fields"
	CategoryTemplate      Category = "template"
	CategoryVagueTitle    Category = "vague_title"
	CategoryGhost         Category = "ghost"
	CategoryReposting     Category = "reposting"
	CategoryExtraction    Category = "extraction"
	CategoryURLStructure  Category = "url_structure"
	CategorySecurity      Category = "security"
	CategoryDomain        Category = "domain"
	CategoryReputation    Category = "reputation"
)

// CriticalMarker prefixes the message of every critical finding.
const CriticalMarker = "🚨"

// Finding is a single rule-triggered observation.
type Finding struct {
	Severity Severity `json:"severity"`
	Category Category `json:"category"`
	Message  string   `json:"message"`
	Critical bool     `json:"critical,omitempty"`
}

// Text returns the message as shown to users, with the critical marker when set.
func (f Finding) Text() string {
	if f.Critical {
		return CriticalMarker + " " + f.Message
	}
	return f.Message
}

// Component names a RiskBreakdown sub-score.
type Component string

const (
	ComponentWebsite      Component = "website"
	ComponentEmail        Component = "email"
	ComponentContent      Component = "content"
	ComponentStructure    Component = "structure"
	ComponentCompensation Component = "compensation"
	ComponentReputation   Component = "reputation"
	ComponentURLStructure Component = "urlStructure"
	ComponentSecurity     Component = "security"
	ComponentDomain       Component = "domain"
)

// RiskBreakdown holds the unclamped per-component risk sums.
type RiskBreakdown struct {
	WebsiteRisk      int `json:"websiteRisk"`
	EmailRisk        int `json:"emailRisk"`
	ContentRisk      int `json:"contentRisk"`
	StructureRisk    int `json:"structureRisk"`
	CompensationRisk int `json:"compensationRisk"`

	ReputationRisk   int `json:"reputationRisk,omitempty"`
	URLStructureRisk int `json:"urlStructureRisk,omitempty"`
	SecurityRisk     int `json:"securityRisk,omitempty"`
	DomainRisk       int `json:"domainRisk,omitempty"`
}

// Value returns the sub-score for c, or 0 for an unknown component.
func (b RiskBreakdown) Value(c Component) int {
	switch c {
	case ComponentWebsite:
		return b.WebsiteRisk
	case ComponentEmail:
		return b.EmailRisk
	case ComponentContent:
		return b.ContentRisk
	case ComponentStructure:
		return b.StructureRisk
	case ComponentCompensation:
		return b.CompensationRisk
	case ComponentReputation:
		return b.ReputationRisk
	case ComponentURLStructure:
		return b.URLStructureRisk
	case ComponentSecurity:
		return b.SecurityRisk
	case ComponentDomain:
		return b.DomainRisk
	default:
		return 0
	}
}

// RiskLevel is one of six ordered bands, safest first.
type RiskLevel string

const (
	RiskLevelVeryLow  RiskLevel = "Very Low"
	RiskLevelLow      RiskLevel = "Low"
	RiskLevelMedium   RiskLevel = "Medium"
	RiskLevelHigh     RiskLevel = "High"
	RiskLevelVeryHigh RiskLevel = "Very High"
	RiskLevelCritical RiskLevel = "Critical"
)

// Adjustment records a post-weighting modifier applied by the aggregator.
type Adjustment struct {
	Name  string `json:"name"`
	Delta int    `json:"delta"`
}

// Tier is the recommendation severity.
type Tier string

const (
	TierLow      Tier = "low"
	TierMedium   Tier = "medium"
	TierHigh     Tier = "high"
	TierCritical Tier = "critical"
)

// Recommendation is derived purely from an AnalysisResult.
type Recommendation struct {
	Tier              Tier     `json:"tier"`
	Summary           []string `json:"summary"`
	ActionItems       []string `json:"actionItems"`
	VerificationSteps []string `json:"verificationSteps,omitempty"`
	UniversalTips     []string `json:"universalTips"`
	Resources         []string `json:"resources"`
}

// AIVerdict is the opaque external opinion on a listing, or its rule-based stand-in.
type AIVerdict struct {
	Verdict    string   `json:"verdict"`
	Confidence float64  `json:"confidence"`
	Summary    string   `json:"summary"`
	RedFlags   []string `json:"redFlags"`
	GreenFlags []string `json:"greenFlags"`
	Source     string   `json:"source"`
}

const (
	VerdictSourceGemini = "gemini"
	VerdictSourceRules  = "rules"
)

// AnalysisResult is the engine's output for one listing.
type AnalysisResult struct {
	Mode                      Mode           `json:"mode"`
	Profile                   string         `json:"profile"`
	SafetyScore               int            `json:"safetyScore"`
	RiskScore                 int            `json:"riskScore"`
	RiskLevel                 RiskLevel      `json:"riskLevel"`
	Warnings                  []Finding      `json:"warnings"`
	TechnicalIssues           []Finding      `json:"technicalIssues"`
	Breakdown                 RiskBreakdown  `json:"breakdown"`
	Adjustments               []Adjustment   `json:"adjustments,omitempty"`
	LegitimatePlatform        bool           `json:"legitimatePlatform"`
	CriticalExtraction        bool           `json:"criticalExtraction"`
	CompleteExtractionFailure bool           `json:"completeExtractionFailure"`
	Recommendation            Recommendation `json:"recommendation"`
	AIVerdict                 *AIVerdict     `json:"aiVerdict,omitempty"`
}

// HasCategory reports whether any warning or technical issue carries c.
func (r *AnalysisResult) HasCategory(c Category) bool {
	for _, f := range r.Warnings {
		if f.Category == c {
			return true
		}
	}
	for _, f := range r.TechnicalIssues {
		if f.Category == c {
			return true
		}
	}
	return false
}

// CriticalWarningCount counts user warnings tagged critical.
func (r *AnalysisResult) CriticalWarningCount() int {
	n := 0
	for _, f := range r.Warnings {
		if f.Critical {
			n++
		}
	}
	return n
}

// HistoricalPosting is a prior listing by the same company.
type HistoricalPosting struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// StoredAnalysis is the persistence envelope for a completed analysis.
type StoredAnalysis struct {
	ID        uuid.UUID       `json:"id"`
	Listing   JobListing      `json:"listing"`
	Result    *AnalysisResult `json:"result"`
	CreatedAt time.Time       `json:"createdAt"`
}

// NewStoredAnalysis wraps a result with a fresh id and timestamp.
func NewStoredAnalysis(listing JobListing, result *AnalysisResult, now time.Time) StoredAnalysis {
	return StoredAnalysis{
		ID:        uuid.New(),
		Listing:   listing,
		Result:    result,
		CreatedAt: now.UTC(),
	}
}
