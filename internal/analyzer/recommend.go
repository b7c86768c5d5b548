package analyzer

import (
	"slices"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/types"
)

const (
	criticalTierBelow = 40
	highTierBelow     = 60
	mediumTierBelow   = 75
	universalTipCount = 5
)

var tierSummaries = map[types.Tier][]string{
	types.TierCritical: {
		"This posting shows multiple strong indicators of a scam.",
		"Do not share personal or financial information and do not send money.",
		"Consider reporting this listing to the platform where you found it.",
	},
	types.TierHigh: {
		"This posting has several significant red flags.",
		"Proceed only after independently verifying the employer.",
	},
	types.TierMedium: {
		"This posting has some warning signs worth checking.",
		"Verify the company and the role before sharing personal details.",
	},
	types.TierLow: {
		"No major red flags were found in this posting.",
		"Follow standard precautions when applying.",
	},
}

// actionFamily maps a set of finding categories to the advice they trigger.
type actionFamily struct {
	categories []types.Category
	items      []string
}

var actionFamilies = []actionFamily{
	{
		categories: []types.Category{types.CategoryEmail},
		items: []string{
			"Check that the contact email uses the company's official domain, and contact the company through its website instead.",
		},
	},
	{
		categories: []types.Category{
			types.CategoryWebsite, types.CategoryURLStructure, types.CategorySecurity,
			types.CategoryDomain, types.CategoryReputation,
		},
		items: []string{
			"Do not follow shortened or unfamiliar links; open the company's official careers page yourself.",
			"Confirm the application site uses HTTPS and belongs to the employer.",
		},
	},
	{
		categories: []types.Category{types.CategoryScam, types.CategoryPressure},
		items: []string{
			"Never pay fees or send money to get a job; legitimate employers do not charge applicants.",
			"Take your time: pressure to act immediately is a common scam tactic.",
		},
	},
	{
		categories: []types.Category{types.CategoryCompensation},
		items: []string{
			"Compare the advertised pay with market rates for this role and ask for the salary in writing.",
		},
	},
	{
		categories: []types.Category{types.CategoryMissingFields, types.CategoryContentLength},
		items: []string{
			"Ask for a complete job description, work location and company details before applying.",
		},
	},
	{
		categories: []types.Category{
			types.CategoryGhost, types.CategoryTemplate, types.CategoryVagueTitle,
			types.CategoryBuzzword, types.CategoryGrammar,
		},
		items: []string{
			"This may be a ghost job: check when it was posted and whether the company is actively hiring for it.",
		},
	},
	{
		categories: []types.Category{types.CategoryReposting},
		items: []string{
			"The company reposts this role often; ask how long it has been open and why.",
		},
	},
	{
		categories: []types.Category{types.CategoryExtraction},
		items: []string{
			"Parts of this posting could not be read reliably; review the original listing directly.",
		},
	},
}

var universalTips = []string{
	"Research the company on its official website and professional networks.",
	"Never provide your bank details, ID numbers or passwords before a verified offer.",
	"Be wary of offers made without an interview.",
	"Search the company name together with \"scam\" or \"reviews\".",
	"Trust your instincts: if an offer looks too good to be true, it probably is.",
	"Keep copies of all communication with the recruiter.",
	"Use the job platform's messaging system where possible.",
	"Verify recruiters by contacting the company's HR department directly.",
}

var resources = []string{
	"https://reportfraud.ftc.gov/",
	"https://www.ic3.gov/",
	"https://www.bbb.org/scamtracker",
	"https://consumer.ftc.gov/articles/job-scams",
}

var verificationSteps = []string{
	"Look up the company's registration with the relevant business registry.",
	"Call the company using a phone number from its official website, not from the posting.",
	"Confirm the recruiter's identity on the company's website or professional profile.",
	"Request a video interview with a company representative.",
	"Do not proceed until you have a written offer on company letterhead from an official domain.",
}

// TierFor maps a safety score to a recommendation tier.
func TierFor(safety int) types.Tier {
	switch {
	case safety < criticalTierBelow:
		return types.TierCritical
	case safety < highTierBelow:
		return types.TierHigh
	case safety < mediumTierBelow:
		return types.TierMedium
	default:
		return types.TierLow
	}
}

// BuildRecommendations derives the action plan from a result. It reads only
// the result's safety score and findings.
func BuildRecommendations(r *types.AnalysisResult) types.Recommendation {
	tier := TierFor(r.SafetyScore)

	rec := types.Recommendation{
		Tier:          tier,
		Summary:       slices.Clone(tierSummaries[tier]),
		ActionItems:   []string{},
		UniversalTips: slices.Clone(universalTips[:universalTipCount]),
		Resources:     slices.Clone(resources),
	}

	for _, family := range actionFamilies {
		if slices.ContainsFunc(family.categories, r.HasCategory) {
			rec.ActionItems = append(rec.ActionItems, family.items...)
		}
	}
	if len(rec.ActionItems) == 0 {
		rec.ActionItems = append(rec.ActionItems, "No specific issues found; apply through the official company channel.")
	}

	if tier == types.TierHigh || tier == types.TierCritical {
		rec.VerificationSteps = slices.Clone(verificationSteps)
	}

	return rec
}
