package analyzer

import (
	"testing"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/errors"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/types"
)

func TestThresholdsLevel(t *testing.T) {
	classic, _ := LookupProfile(ProfileClassic)
	detailed, _ := LookupProfile(ProfileDetailed)

	tests := []struct {
		name   string
		th     Thresholds
		safety int
		want   types.RiskLevel
	}{
		{"classic top", classic.Thresholds, 100, types.RiskLevelVeryLow},
		{"classic very low boundary", classic.Thresholds, 80, types.RiskLevelVeryLow},
		{"classic low", classic.Thresholds, 79, types.RiskLevelLow},
		{"classic low boundary", classic.Thresholds, 65, types.RiskLevelLow},
		{"classic medium", classic.Thresholds, 64, types.RiskLevelMedium},
		{"classic high", classic.Thresholds, 35, types.RiskLevelHigh},
		{"classic very high", classic.Thresholds, 34, types.RiskLevelVeryHigh},
		{"classic very high boundary", classic.Thresholds, 20, types.RiskLevelVeryHigh},
		{"classic critical", classic.Thresholds, 19, types.RiskLevelCritical},
		{"classic zero", classic.Thresholds, 0, types.RiskLevelCritical},
		{"detailed very low boundary", detailed.Thresholds, 85, types.RiskLevelVeryLow},
		{"detailed low", detailed.Thresholds, 84, types.RiskLevelLow},
		{"detailed medium boundary", detailed.Thresholds, 55, types.RiskLevelMedium},
		{"detailed high", detailed.Thresholds, 54, types.RiskLevelHigh},
		{"detailed very high boundary", detailed.Thresholds, 25, types.RiskLevelVeryHigh},
		{"detailed critical", detailed.Thresholds, 24, types.RiskLevelCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.th.Level(tt.safety); got != tt.want {
				t.Errorf("Expected %s for safety %d, got %s", tt.want, tt.safety, got)
			}
		})
	}
}

func TestWeightedScoreRounding(t *testing.T) {
	classic, _ := LookupProfile(ProfileClassic)

	tests := []struct {
		name string
		b    types.RiskBreakdown
		want int
	}{
		{"zero", types.RiskBreakdown{}, 0},
		{"negative half rounds up", types.RiskBreakdown{WebsiteRisk: -10}, -2},
		{"positive half rounds up", types.RiskBreakdown{WebsiteRisk: 10}, 3},
		{"below half rounds down", types.RiskBreakdown{CompensationRisk: 12}, 1},
		{"mixed", types.RiskBreakdown{WebsiteRisk: 70, EmailRisk: 10, ContentRisk: 60, StructureRisk: 85, CompensationRisk: 15}, 52},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := weightedScore(tt.b, classic.Weights); got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}

func warningsN(n, critical int) []types.Finding {
	out := make([]types.Finding, n)
	for i := range out {
		out[i] = types.Finding{Severity: types.SeverityUserWarning, Category: types.CategoryScam, Message: "w", Critical: i < critical}
	}
	return out
}

func adjustmentNames(adj []types.Adjustment) []string {
	out := make([]string, 0, len(adj))
	for _, a := range adj {
		out = append(out, a.Name)
	}
	return out
}

func TestAggregateModifiers(t *testing.T) {
	classic, _ := LookupProfile(ProfileClassic)

	tests := []struct {
		name      string
		result    types.AnalysisResult
		wantRisk  int
		wantLevel types.RiskLevel
		wantAdj   []types.Adjustment
	}{
		{
			name:      "no modifiers",
			result:    types.AnalysisResult{Breakdown: types.RiskBreakdown{ContentRisk: 100}},
			wantRisk:  30,
			wantLevel: types.RiskLevelLow,
		},
		{
			name: "platform discount floors at zero",
			result: types.AnalysisResult{
				Breakdown:          types.RiskBreakdown{WebsiteRisk: -10},
				LegitimatePlatform: true,
			},
			wantRisk:  0,
			wantLevel: types.RiskLevelVeryLow,
		},
		{
			name: "negative total then critical extraction",
			result: types.AnalysisResult{
				Breakdown:          types.RiskBreakdown{WebsiteRisk: -10},
				LegitimatePlatform: true,
				CriticalExtraction: true,
			},
			wantRisk:  25,
			wantLevel: types.RiskLevelLow,
			wantAdj:   []types.Adjustment{{Name: "critical_extraction_penalty", Delta: 25}},
		},
		{
			name: "platform discount",
			result: types.AnalysisResult{
				Breakdown:          types.RiskBreakdown{ContentRisk: 100},
				LegitimatePlatform: true,
			},
			wantRisk:  15,
			wantLevel: types.RiskLevelVeryLow,
			wantAdj:   []types.Adjustment{{Name: "legitimate_platform_discount", Delta: -15}},
		},
		{
			name: "critical extraction cancels discount",
			result: types.AnalysisResult{
				Breakdown:          types.RiskBreakdown{StructureRisk: 100},
				LegitimatePlatform: true,
				CriticalExtraction: true,
			},
			wantRisk:  40,
			wantLevel: types.RiskLevelMedium,
			wantAdj:   []types.Adjustment{{Name: "critical_extraction_penalty", Delta: 25}},
		},
		{
			name: "many warnings",
			result: types.AnalysisResult{
				Breakdown: types.RiskBreakdown{ContentRisk: 100},
				Warnings:  warningsN(6, 0),
			},
			wantRisk:  40,
			wantLevel: types.RiskLevelMedium,
			wantAdj:   []types.Adjustment{{Name: "many_warnings_penalty", Delta: 10}},
		},
		{
			name: "five warnings is not many",
			result: types.AnalysisResult{
				Breakdown: types.RiskBreakdown{ContentRisk: 100},
				Warnings:  warningsN(5, 1),
			},
			wantRisk:  30,
			wantLevel: types.RiskLevelLow,
		},
		{
			name: "two critical warnings",
			result: types.AnalysisResult{
				Breakdown: types.RiskBreakdown{ContentRisk: 100},
				Warnings:  warningsN(2, 2),
			},
			wantRisk:  45,
			wantLevel: types.RiskLevelMedium,
			wantAdj:   []types.Adjustment{{Name: "critical_warnings_penalty", Delta: 15}},
		},
		{
			name: "all penalties then clamp",
			result: types.AnalysisResult{
				Breakdown: types.RiskBreakdown{
					WebsiteRisk: 300, EmailRisk: 200, ContentRisk: 300, StructureRisk: 300, CompensationRisk: 100,
				},
				CriticalExtraction: true,
				Warnings:           warningsN(8, 3),
			},
			wantRisk:  100,
			wantLevel: types.RiskLevelCritical,
			wantAdj: []types.Adjustment{
				{Name: "critical_extraction_penalty", Delta: 25},
				{Name: "many_warnings_penalty", Delta: 10},
				{Name: "critical_warnings_penalty", Delta: 15},
			},
		},
		{
			name:      "negative total clamps to zero",
			result:    types.AnalysisResult{Breakdown: types.RiskBreakdown{WebsiteRisk: -10}},
			wantRisk:  0,
			wantLevel: types.RiskLevelVeryLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.result
			aggregate(&r, classic)

			if r.RiskScore != tt.wantRisk {
				t.Errorf("Expected risk %d, got %d (%v)", tt.wantRisk, r.RiskScore, r.Adjustments)
			}
			if r.SafetyScore != 100-tt.wantRisk {
				t.Errorf("Expected safety %d, got %d", 100-tt.wantRisk, r.SafetyScore)
			}
			if r.RiskLevel != tt.wantLevel {
				t.Errorf("Expected level %s, got %s", tt.wantLevel, r.RiskLevel)
			}
			if len(r.Adjustments) != len(tt.wantAdj) {
				t.Fatalf("Expected adjustments %v, got %v", tt.wantAdj, adjustmentNames(r.Adjustments))
			}
			for i, a := range r.Adjustments {
				if a != tt.wantAdj[i] {
					t.Errorf("Expected adjustment %+v, got %+v", tt.wantAdj[i], a)
				}
			}
		})
	}
}

func TestAggregateIsRepeatable(t *testing.T) {
	classic, _ := LookupProfile(ProfileClassic)
	r := types.AnalysisResult{
		Breakdown:          types.RiskBreakdown{ContentRisk: 100},
		LegitimatePlatform: true,
		Warnings:           warningsN(6, 2),
	}

	aggregate(&r, classic)
	first := r.RiskScore
	aggregate(&r, classic)

	if r.RiskScore != first {
		t.Errorf("Expected %d on second pass, got %d", first, r.RiskScore)
	}
	if len(r.Adjustments) != 3 {
		t.Errorf("Expected adjustments to be rebuilt, got %v", adjustmentNames(r.Adjustments))
	}
}

func TestResolveProfile(t *testing.T) {
	tests := []struct {
		name     string
		mode     types.Mode
		profile  string
		want     string
		wantCode string
	}{
		{name: "full default", mode: types.ModeFull, want: ProfileClassic},
		{name: "link default", mode: types.ModeLinkOnly, want: ProfileDetailed},
		{name: "explicit", mode: types.ModeFull, profile: ProfileClassic, want: ProfileClassic},
		{name: "unknown", mode: types.ModeFull, profile: "aggressive", wantCode: errors.ErrCodeUnknownProfile},
		{name: "wrong mode", mode: types.ModeFull, profile: ProfileDetailed, wantCode: errors.ErrCodeUnknownProfile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := resolveProfile(tt.mode, tt.profile)
			if tt.wantCode != "" {
				if !errors.HasCode(err, tt.wantCode) {
					t.Fatalf("Expected %s, got %v", tt.wantCode, err)
				}
				if !errors.IsType(err, errors.ErrorTypeConfig) {
					t.Errorf("Expected config error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if p.Name != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, p.Name)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	for _, s := range []string{"full", "linkonly"} {
		if _, err := ParseMode(s); err != nil {
			t.Errorf("Expected %q to parse, got %v", s, err)
		}
	}
	_, err := ParseMode("quick")
	if !errors.HasCode(err, errors.ErrCodeUnknownMode) {
		t.Errorf("Expected UNKNOWN_MODE, got %v", err)
	}
}

func TestLookupProfileReturnsCopy(t *testing.T) {
	p, _ := LookupProfile(ProfileClassic)
	p.Weights[0].Factor = 99

	again, _ := LookupProfile(ProfileClassic)
	if again.Weights[0].Factor == 99 {
		t.Error("Expected registered profile to be unaffected by caller mutation")
	}
}
