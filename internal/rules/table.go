// Package rules holds the phrase lists and patterns the analyzer matches
// listings against. A Set is built once, never modified, and shared by
// every analysis that uses it.
package rules

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Table is the raw, serializable form of the rule lists. Phrases are
// lowercase; fields ending in Patterns are regular expressions.
type Table struct {
	// Domains and hosts
	FreeHostingPlatforms     []string `yaml:"freeHostingPlatforms"`
	LegitimateJobBoards      []string `yaml:"legitimateJobBoards"`
	SalaryExemptBoards       []string `yaml:"salaryExemptBoards"`
	NoEmailPlatforms         []string `yaml:"noEmailPlatforms"`
	URLShorteners            []string `yaml:"urlShorteners"`
	SuspiciousTLDs           []string `yaml:"suspiciousTlds"`
	SuspiciousDomainKeywords []string `yaml:"suspiciousDomainKeywords"`

	// Email
	FreeEmailDomains  []string `yaml:"freeEmailDomains"`
	CorporateSuffixes []string `yaml:"corporateSuffixes"`
	CompanySuffixes   []string `yaml:"companySuffixes"`
	GenericLocalParts []string `yaml:"genericLocalParts"`

	// Content
	CriticalScamPhrases   []string `yaml:"criticalScamPhrases"`
	EarningsClaimPatterns []string `yaml:"earningsClaimPatterns"`
	HighPressurePhrases   []string `yaml:"highPressurePhrases"`
	BuzzwordPhrases       []string `yaml:"buzzwordPhrases"`
	HomophonePatterns     []string `yaml:"homophonePatterns"`

	// Structure
	VagueTitleWords     []string `yaml:"vagueTitleWords"`
	SeniorityQualifiers []string `yaml:"seniorityQualifiers"`
	TemplatePhrases     []string `yaml:"templatePhrases"`

	// Extraction quality
	AuthWallPhrases    []string `yaml:"authWallPhrases"`
	TruncationPatterns []string `yaml:"truncationPatterns"`
	NavigationWords    []string `yaml:"navigationWords"`
	CSSPatterns        []string `yaml:"cssPatterns"`
	SectionWords       []string `yaml:"sectionWords"`

	// Ghost jobs
	GenericBusinessBuzzwords []string `yaml:"genericBusinessBuzzwords"`
	VagueRequirementPhrases  []string `yaml:"vagueRequirementPhrases"`
	AlwaysHiringPhrases      []string `yaml:"alwaysHiringPhrases"`
	EntryLevelPhrases        []string `yaml:"entryLevelPhrases"`
	ExpertisePatterns        []string `yaml:"expertisePatterns"`
	SeniorTitleWords         []string `yaml:"seniorTitleWords"`
	PerfectCandidatePhrases  []string `yaml:"perfectCandidatePhrases"`

	// Compensation
	CommissionPhrases []string `yaml:"commissionPhrases"`
}

// Set is a compiled, read-only Table.
type Set struct {
	Table

	EarningsClaims []*regexp.Regexp
	Homophones     []*regexp.Regexp
	Truncation     []*regexp.Regexp
	CSS            []*regexp.Regexp
	Expertise      []*regexp.Regexp

	navigation map[string]struct{}
	sections   map[string]struct{}
}

// Compile validates t and returns a Set that owns private copies of its lists.
func Compile(t Table) (*Set, error) {
	t = t.clone()

	s := &Set{Table: t}
	var err error
	if s.EarningsClaims, err = compileAll("earningsClaimPatterns", t.EarningsClaimPatterns); err != nil {
		return nil, err
	}
	if s.Homophones, err = compileAll("homophonePatterns", t.HomophonePatterns); err != nil {
		return nil, err
	}
	if s.Truncation, err = compileAll("truncationPatterns", t.TruncationPatterns); err != nil {
		return nil, err
	}
	if s.CSS, err = compileAll("cssPatterns", t.CSSPatterns); err != nil {
		return nil, err
	}
	if s.Expertise, err = compileAll("expertisePatterns", t.ExpertisePatterns); err != nil {
		return nil, err
	}

	s.navigation = toSet(t.NavigationWords)
	s.sections = toSet(t.SectionWords)
	return s, nil
}

// MustCompile is like Compile but panics on error. Used for the built-in table.
func MustCompile(t Table) *Set {
	s, err := Compile(t)
	if err != nil {
		panic(err)
	}
	return s
}

// IsNavigationWord reports whether w (lowercase) is a site navigation token.
func (s *Set) IsNavigationWord(w string) bool {
	_, ok := s.navigation[w]
	return ok
}

// IsSectionWord reports whether w (lowercase, trimmed) names a website section.
func (s *Set) IsSectionWord(w string) bool {
	_, ok := s.sections[w]
	return ok
}

// Size returns the total number of phrases and patterns in the set.
func (s *Set) Size() int {
	n := 0
	for _, list := range s.lists() {
		n += len(list)
	}
	return n
}

func (t Table) lists() [][]string {
	return [][]string{
		t.FreeHostingPlatforms, t.LegitimateJobBoards, t.SalaryExemptBoards, t.NoEmailPlatforms,
		t.URLShorteners, t.SuspiciousTLDs, t.SuspiciousDomainKeywords,
		t.FreeEmailDomains, t.CorporateSuffixes, t.CompanySuffixes, t.GenericLocalParts,
		t.CriticalScamPhrases, t.EarningsClaimPatterns, t.HighPressurePhrases, t.BuzzwordPhrases, t.HomophonePatterns,
		t.VagueTitleWords, t.SeniorityQualifiers, t.TemplatePhrases,
		t.AuthWallPhrases, t.TruncationPatterns, t.NavigationWords, t.CSSPatterns, t.SectionWords,
		t.GenericBusinessBuzzwords, t.VagueRequirementPhrases, t.AlwaysHiringPhrases,
		t.EntryLevelPhrases, t.ExpertisePatterns, t.SeniorTitleWords, t.PerfectCandidatePhrases,
		t.CommissionPhrases,
	}
}

func (t Table) clone() Table {
	c := t
	for _, p := range []*[]string{
		&c.FreeHostingPlatforms, &c.LegitimateJobBoards, &c.SalaryExemptBoards, &c.NoEmailPlatforms,
		&c.URLShorteners, &c.SuspiciousTLDs, &c.SuspiciousDomainKeywords,
		&c.FreeEmailDomains, &c.CorporateSuffixes, &c.CompanySuffixes, &c.GenericLocalParts,
		&c.CriticalScamPhrases, &c.EarningsClaimPatterns, &c.HighPressurePhrases, &c.BuzzwordPhrases, &c.HomophonePatterns,
		&c.VagueTitleWords, &c.SeniorityQualifiers, &c.TemplatePhrases,
		&c.AuthWallPhrases, &c.TruncationPatterns, &c.NavigationWords, &c.CSSPatterns, &c.SectionWords,
		&c.GenericBusinessBuzzwords, &c.VagueRequirementPhrases, &c.AlwaysHiringPhrases,
		&c.EntryLevelPhrases, &c.ExpertisePatterns, &c.SeniorTitleWords, &c.PerfectCandidatePhrases,
		&c.CommissionPhrases,
	} {
		*p = slices.Clone(*p)
	}
	return c
}

func compileAll(field string, patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("rules: %s: invalid pattern %q: %w", field, p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

func toSet(words []string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	return m
}
