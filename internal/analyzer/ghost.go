package analyzer

import (
	"strings"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/types"
)

const (
	pointsHeavyBuzzwords      = 25
	pointsModerateBuzzwords   = 15
	pointsVagueRequirements   = 20
	pointsAlwaysHiring        = 30
	pointsEntryLevelExpertise = 25
	pointsSeniorEntryLevel    = 30
	pointsPerfectCandidate    = 15
	pointsLowMeaningfulText   = 20

	heavyBuzzwordCount    = 6
	moderateBuzzwordCount = 4
	vagueRequirementCount = 3
	genericRatioMinLength = 200
	genericRatioThreshold = 0.7
)

var entryLevelMarkers = []string{"entry level", "entry-level"}

// evaluateGhostSignals looks for postings kept open to collect resumes.
func evaluateGhostSignals(in *input) evaluation {
	var e evaluation
	rs := in.rules
	c := in.corpus
	text := c.FullText + " " + c.Requirements

	switch n := len(matchedPhrases(text, rs.GenericBusinessBuzzwords)); {
	case n > heavyBuzzwordCount:
		e.warn(types.CategoryGhost, pointsHeavyBuzzwords, "Description is saturated with generic corporate buzzwords")
	case n > moderateBuzzwordCount:
		e.warn(types.CategoryGhost, pointsModerateBuzzwords, "Description relies on generic corporate buzzwords")
	}

	if n := len(matchedPhrases(text, rs.VagueRequirementPhrases)); n > vagueRequirementCount {
		e.warn(types.CategoryGhost, pointsVagueRequirements, "Responsibilities and requirements are vague")
	}

	if p := firstContained(text, rs.AlwaysHiringPhrases); p != "" {
		e.warn(types.CategoryGhost, pointsAlwaysHiring, "Posting describes continuous recruitment (%q)", p)
	}

	if containsAny(text, rs.EntryLevelPhrases) && matchesAny(text, rs.Expertise) {
		e.warn(types.CategoryGhost, pointsEntryLevelExpertise,
			"Contradictory requirements: entry-level role that asks for extensive experience")
	}
	if hasWord(c.Title, rs.SeniorTitleWords) && containsAny(c.Description, entryLevelMarkers) {
		e.warn(types.CategoryGhost, pointsSeniorEntryLevel,
			"Contradictory seniority: senior title with an entry-level description")
	}

	if p := firstContained(text, rs.PerfectCandidatePhrases); p != "" {
		e.warn(types.CategoryGhost, pointsPerfectCandidate, "Unrealistic \"perfect candidate\" language (%q)", p)
	}

	if c.DescriptionLength() > genericRatioMinLength && genericShare(c.Description, in) >= genericRatioThreshold {
		e.warn(types.CategoryGhost, pointsLowMeaningfulText, "Description is mostly generic filler with little concrete content")
	}

	return e
}

// genericShare approximates the fraction of the description made of generic
// phrases. Overlapping phrases are counted more than once.
func genericShare(desc string, in *input) float64 {
	if desc == "" {
		return 0
	}
	generic := 0
	for _, list := range [][]string{in.rules.GenericBusinessBuzzwords, in.rules.VagueRequirementPhrases} {
		for _, p := range list {
			if p == "" {
				continue
			}
			generic += strings.Count(desc, p) * len(p)
		}
	}
	return float64(generic) / float64(len(desc))
}
