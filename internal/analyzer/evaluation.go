package analyzer

import (
	"fmt"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/rules"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/types"
)

// evaluation is one evaluator's risk contribution and findings.
type evaluation struct {
	risk      int
	warnings  []types.Finding
	technical []types.Finding
}

func (e *evaluation) warn(cat types.Category, points int, format string, args ...any) {
	e.risk += points
	e.warnings = append(e.warnings, types.Finding{
		Severity: types.SeverityUserWarning,
		Category: cat,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (e *evaluation) critical(cat types.Category, points int, format string, args ...any) {
	e.risk += points
	e.warnings = append(e.warnings, types.Finding{
		Severity: types.SeverityUserWarning,
		Category: cat,
		Message:  fmt.Sprintf(format, args...),
		Critical: true,
	})
}

func (e *evaluation) issue(points int, format string, args ...any) {
	e.risk += points
	e.technical = append(e.technical, types.Finding{
		Severity: types.SeverityTechnicalIssue,
		Category: types.CategoryExtraction,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (e *evaluation) merge(other evaluation) {
	e.risk += other.risk
	e.warnings = append(e.warnings, other.warnings...)
	e.technical = append(e.technical, other.technical...)
}

// input is everything the evaluators need for one listing, computed once.
type input struct {
	listing types.JobListing
	corpus  Corpus
	rules   *rules.Set

	appHost    string // host of ApplicationURL, "" if absent or malformed
	sourceHost string
}

func newInput(l types.JobListing, rs *rules.Set) *input {
	return &input{
		listing:    l,
		corpus:     Normalize(l),
		rules:      rs,
		appHost:    hostOf(l.ApplicationURL),
		sourceHost: hostOf(l.SourceURL),
	}
}

// platformHost is the application host, falling back to the capture page.
func (in *input) platformHost() string {
	if in.appHost != "" {
		return in.appHost
	}
	return in.sourceHost
}

func (in *input) onLegitimatePlatform() bool {
	return onPlatform(in.platformHost(), in.rules.LegitimateJobBoards)
}

// onNoEmailPlatform covers boards that deliberately hide recruiter emails.
func (in *input) onNoEmailPlatform() bool {
	return onPlatform(in.appHost, in.rules.NoEmailPlatforms) ||
		onPlatform(in.sourceHost, in.rules.NoEmailPlatforms)
}
