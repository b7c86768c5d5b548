package analyzer

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/types"
)

const (
	pointsVeryShortDescription = 30
	pointsShortDescription     = 20
	pointsLongDescription      = 10
	pointsPerMissingField      = 20
	pointsVagueTitle           = 25
	pointsTemplateText         = 35

	veryShortDescription = 50
	shortDescription     = 150
	longDescription      = 3000
	vagueTitleMaxDesc    = 200
)

// Extraction-quality constants.
const (
	pointsCompanyByPattern    = 35
	pointsCompanySuffixBy     = 30
	pointsAuthWallLocation    = 40
	pointsAuthWallDescription = 25
	pointsTruncatedLocation   = 20
	pointsPlatformShort       = 25
	pointsNavigationTitle     = 30
	pointsCSSTitle            = 45
	pointsSectionCompany      = 25
	pointsMultipleExtraction  = 30
	pointsCompleteFailure     = 60

	authWallMaxDescription = 300
	platformShortMax       = 200
	navigationTitleMax     = 40
	minCompanyLength       = 2
	minTitleLength         = 3
)

var (
	companyByRe       = regexp.MustCompile(`(?i)^\S.*\sby\s+[a-z]{1,3}\.?$`)
	companySuffixByRe = regexp.MustCompile(`(?i)\b(?:inc|corp|llc|ltd|solutions|services|technologies|group|consulting)\.?\s+by\b`)
)

type extractionKind string

const (
	kindCompanyPattern extractionKind = "company_pattern"
	kindAuthWall       extractionKind = "auth_wall"
	kindTruncation     extractionKind = "truncation"
	kindPlatformShort  extractionKind = "platform_short"
	kindNavigation     extractionKind = "navigation"
	kindCSS            extractionKind = "css"
	kindSectionWord    extractionKind = "section_word"
)

// extractionState summarizes the extraction-quality checks for the aggregator.
type extractionState struct {
	critical bool
	complete bool
}

// evaluateStructure covers content weakness, extraction failure and ghost-job
// signals. All three feed structureRisk.
func evaluateStructure(in *input) (evaluation, extractionState) {
	var e evaluation
	e.merge(evaluateContentShape(in))

	extraction, state := evaluateExtraction(in)
	e.merge(extraction)

	e.merge(evaluateGhostSignals(in))
	return e, state
}

func evaluateContentShape(in *input) evaluation {
	var e evaluation
	rs := in.rules
	c := in.corpus

	switch n := c.DescriptionLength(); {
	case n < veryShortDescription:
		e.warn(types.CategoryContentLength, pointsVeryShortDescription, "Job description is extremely short")
	case n < shortDescription:
		e.warn(types.CategoryContentLength, pointsShortDescription, "Job description is short and lacks detail")
	case n > longDescription:
		e.warn(types.CategoryContentLength, pointsLongDescription, "Job description is unusually long")
	}

	var missing []string
	if strings.TrimSpace(c.Company) == "" {
		missing = append(missing, "company")
	}
	if strings.TrimSpace(c.Location) == "" && !strings.Contains(c.FullText, "remote") {
		missing = append(missing, "location")
	}
	if strings.TrimSpace(c.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(c.Title) == "" {
		missing = append(missing, "title")
	}
	if len(missing) >= 2 {
		e.warn(types.CategoryMissingFields, len(missing)*pointsPerMissingField,
			"Missing key details: %s", strings.Join(missing, ", "))
	}

	if containsAny(c.Title, rs.VagueTitleWords) &&
		c.DescriptionLength() < vagueTitleMaxDesc &&
		!hasWord(c.Title, rs.SeniorityQualifiers) {
		e.warn(types.CategoryVagueTitle, pointsVagueTitle, "Vague job title with little detail about the role")
	}

	if found := matchedPhrases(c.FullText, rs.TemplatePhrases); len(found) > 0 {
		e.warn(types.CategoryTemplate, pointsTemplateText,
			"Listing contains template or placeholder text (%s)", strings.Join(found, ", "))
	}

	return e
}

func evaluateExtraction(in *input) (evaluation, extractionState) {
	var e evaluation
	rs := in.rules
	c := in.corpus
	kinds := make(map[extractionKind]struct{})
	mark := func(k extractionKind) { kinds[k] = struct{}{} }

	company := strings.TrimSpace(c.RawCompany)
	switch {
	case companyByRe.MatchString(company):
		e.issue(pointsCompanyByPattern, "Company name %q looks like a page attribution, not an employer", company)
		mark(kindCompanyPattern)
	case companySuffixByRe.MatchString(company):
		e.issue(pointsCompanySuffixBy, "Company name %q contains a suffix-plus-\"by\" fragment", company)
		mark(kindCompanyPattern)
	}

	if containsAny(c.Location, rs.AuthWallPhrases) {
		e.issue(pointsAuthWallLocation, "Location field contains login-wall text")
		mark(kindAuthWall)
	}
	descLen := c.DescriptionLength()
	if descLen < authWallMaxDescription && containsAny(c.Description, rs.AuthWallPhrases) {
		e.issue(pointsAuthWallDescription, "Description looks like a login prompt rather than job content")
		mark(kindAuthWall)
	}

	if loc := strings.TrimSpace(c.Location); loc != "" && matchesAny(loc, rs.Truncation) {
		e.issue(pointsTruncatedLocation, "Location field appears truncated")
		mark(kindTruncation)
	}

	if descLen < platformShortMax && in.onLegitimatePlatform() {
		e.issue(pointsPlatformShort, "Description is unusually short for a %s listing, extraction may be incomplete", in.platformHost())
		mark(kindPlatformShort)
	}

	title := strings.TrimSpace(c.Title)
	if isNavigationTitle(title, in) {
		e.issue(pointsNavigationTitle, "Title %q is site navigation text", title)
		mark(kindNavigation)
	}
	titleHasCSS := title != "" && matchesAny(title, rs.CSS)
	if titleHasCSS {
		e.issue(pointsCSSTitle, "Title contains style declarations")
		mark(kindCSS)
	}

	if rs.IsSectionWord(strings.TrimSpace(c.Company)) {
		e.issue(pointsSectionCompany, "Company field holds a website section name (%s)", strings.TrimSpace(c.Company))
		mark(kindSectionWord)
	}

	if len(kinds) >= 2 {
		e.issue(pointsMultipleExtraction, "Multiple extraction issues detected")
	}

	// A short description on a known board is weak evidence alone; it only
	// counts toward the critical flag together with another issue.
	var state extractionState
	for k := range kinds {
		if k != kindPlatformShort {
			state.critical = true
		}
	}

	companyMissing := utf8.RuneCountInString(company) < minCompanyLength
	descMissing := descLen < veryShortDescription
	titleMissing := utf8.RuneCountInString(title) < minTitleLength || titleHasCSS
	if companyMissing && descMissing && titleMissing {
		e.critical(types.CategoryExtraction, pointsCompleteFailure,
			"Could not read this job posting: the captured page has no usable title, company or description")
		state.critical = true
		state.complete = true
	}

	return e, state
}

func isNavigationTitle(title string, in *input) bool {
	if title == "" || utf8.RuneCountInString(title) > navigationTitleMax {
		return false
	}
	tokens := words(title)
	if len(tokens) == 0 {
		return false
	}
	for _, t := range tokens {
		if !in.rules.IsNavigationWord(t) {
			return false
		}
	}
	return true
}
