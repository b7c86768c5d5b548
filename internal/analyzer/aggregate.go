package analyzer

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/errors"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/types"
)

// Built-in profile names.
const (
	ProfileClassic  = "classic"
	ProfileDetailed = "detailed"
)

const (
	penaltyCriticalExtraction = 25
	penaltyManyWarnings       = 10
	penaltyCriticalWarnings   = 15
	manyWarningsCount         = 5
	criticalWarningsCount     = 2
)

// Weight is one component's share of the weighted sum.
type Weight struct {
	Component types.Component
	Factor    float64
}

// Thresholds are the minimum safety scores for Very Low, Low, Medium, High
// and Very High risk. Anything lower is Critical.
type Thresholds [5]int

// Level maps a safety score to its risk band.
func (t Thresholds) Level(safety int) types.RiskLevel {
	levels := [...]types.RiskLevel{
		types.RiskLevelVeryLow,
		types.RiskLevelLow,
		types.RiskLevelMedium,
		types.RiskLevelHigh,
		types.RiskLevelVeryHigh,
	}
	for i, floor := range t {
		if safety >= floor {
			return levels[i]
		}
	}
	return types.RiskLevelCritical
}

// Profile is a named weighting and banding configuration.
type Profile struct {
	Name             string
	Mode             types.Mode
	Weights          []Weight
	PlatformDiscount int
	Thresholds       Thresholds
}

var profiles = map[string]Profile{
	ProfileClassic: {
		Name: ProfileClassic,
		Mode: types.ModeFull,
		Weights: []Weight{
			{types.ComponentWebsite, 0.25},
			{types.ComponentEmail, 0.20},
			{types.ComponentContent, 0.30},
			{types.ComponentStructure, 0.15},
			{types.ComponentCompensation, 0.10},
		},
		PlatformDiscount: 15,
		Thresholds:       Thresholds{80, 65, 50, 35, 20},
	},
	ProfileDetailed: {
		Name: ProfileDetailed,
		Mode: types.ModeLinkOnly,
		Weights: []Weight{
			{types.ComponentReputation, 0.40},
			{types.ComponentURLStructure, 0.30},
			{types.ComponentSecurity, 0.20},
			{types.ComponentDomain, 0.10},
		},
		PlatformDiscount: 20,
		Thresholds:       Thresholds{85, 70, 55, 40, 25},
	},
}

var defaultProfiles = map[types.Mode]string{
	types.ModeFull:     ProfileClassic,
	types.ModeLinkOnly: ProfileDetailed,
}

// LookupProfile returns a copy of the named profile.
func LookupProfile(name string) (Profile, error) {
	p, ok := profiles[name]
	if !ok {
		return Profile{}, errors.NewConfigError(errors.ErrCodeUnknownProfile,
			fmt.Sprintf("unknown weights profile %q", name), nil).
			WithContext("available", ProfileNames())
	}
	p.Weights = slices.Clone(p.Weights)
	return p, nil
}

// ProfileNames lists the registered profiles in sorted order.
func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseMode validates a mode string.
func ParseMode(s string) (types.Mode, error) {
	switch m := types.Mode(s); m {
	case types.ModeFull, types.ModeLinkOnly:
		return m, nil
	default:
		return "", errors.NewConfigError(errors.ErrCodeUnknownMode,
			fmt.Sprintf("unknown analysis mode %q (expected %q or %q)", s, types.ModeFull, types.ModeLinkOnly), nil)
	}
}

// resolveProfile picks the profile for mode; an empty name selects the mode default.
func resolveProfile(mode types.Mode, name string) (Profile, error) {
	if name == "" {
		name = defaultProfiles[mode]
	}
	p, err := LookupProfile(name)
	if err != nil {
		return Profile{}, err
	}
	if p.Mode != mode {
		return Profile{}, errors.NewConfigError(errors.ErrCodeUnknownProfile,
			fmt.Sprintf("weights profile %q does not apply to mode %q", name, mode), nil)
	}
	return p, nil
}

// weightedScore rounds half up, so -2.5 becomes -2.
func weightedScore(b types.RiskBreakdown, weights []Weight) int {
	sum := 0.0
	for _, w := range weights {
		sum += float64(b.Value(w.Component)) * w.Factor
	}
	return int(math.Floor(sum + 0.5))
}

// aggregate fills the score fields of r from its breakdown, findings and flags.
// It can be called again after findings are merged. A negative weighted sum
// counts as zero before any adjustment, so every recorded delta moves the
// score by exactly that amount.
func aggregate(r *types.AnalysisResult, p Profile) {
	r.Adjustments = nil
	risk := max(weightedScore(r.Breakdown, p.Weights), 0)

	adjust := func(name string, next int) {
		if next != risk {
			r.Adjustments = append(r.Adjustments, types.Adjustment{Name: name, Delta: next - risk})
		}
		risk = next
	}

	if r.LegitimatePlatform && !r.CriticalExtraction && p.PlatformDiscount > 0 {
		adjust("legitimate_platform_discount", max(risk-p.PlatformDiscount, 0))
	}
	if r.CriticalExtraction {
		adjust("critical_extraction_penalty", risk+penaltyCriticalExtraction)
	}
	if len(r.Warnings) > manyWarningsCount {
		adjust("many_warnings_penalty", risk+penaltyManyWarnings)
	}
	if r.CriticalWarningCount() >= criticalWarningsCount {
		adjust("critical_warnings_penalty", risk+penaltyCriticalWarnings)
	}

	risk = min(max(risk, 0), 100)
	r.RiskScore = risk
	r.SafetyScore = 100 - risk
	r.RiskLevel = p.Thresholds.Level(r.SafetyScore)
}
