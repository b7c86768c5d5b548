package analyzer

import (
	"testing"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/types"
)

func TestEvaluateWebsite(t *testing.T) {
	tests := []struct {
		name         string
		url          string
		sourceURL    string
		wantRisk     int
		wantWarnings int
		wantCritical int
	}{
		{name: "missing link", url: "", wantRisk: 15, wantWarnings: 1},
		{name: "missing link captured on linkedin", url: "", sourceURL: "https://www.linkedin.com/jobs/view/1", wantRisk: 0},
		{name: "not a url", url: "not a url", wantRisk: 50, wantWarnings: 1, wantCritical: 1},
		{name: "scheme without host", url: "http://", wantRisk: 50, wantWarnings: 1, wantCritical: 1},
		{name: "legitimate job board", url: "https://www.linkedin.com/jobs/view/123", wantRisk: -10},
		{name: "plain company site", url: "https://careers.acme.com/jobs/1", wantRisk: 0},
		{name: "shortener over http", url: "http://bit.ly/xyz", wantRisk: 70, wantWarnings: 2, wantCritical: 1},
		{name: "shortener token", url: "https://tinyurl.com/abc", wantRisk: 50, wantWarnings: 1, wantCritical: 1},
		{name: "shortener domain only matches its own host", url: "https://careers.microsoft.com/job/1", wantRisk: 0},
		{name: "free website builder", url: "https://mycompany.blogspot.com/apply", wantRisk: 40, wantWarnings: 1, wantCritical: 1},
		{name: "suspicious tld", url: "https://jobs-offer.tk/apply", wantRisk: 30, wantWarnings: 1},
		{name: "digit run in domain", url: "https://careers12345.example.com", wantRisk: 25, wantWarnings: 1},
		{name: "staging keyword in domain", url: "https://staging.acme.com/apply", wantRisk: 25, wantWarnings: 1},
		{name: "ip literal over http", url: "http://192.168.1.10/apply", wantRisk: 60, wantWarnings: 2, wantCritical: 1},
		{name: "rules accumulate", url: "http://free-jobs.wix.top", wantRisk: 40 + 30 + 20 + 25, wantWarnings: 4, wantCritical: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := evaluateWebsite(testInput(types.JobListing{ApplicationURL: tt.url, SourceURL: tt.sourceURL}))

			if e.risk != tt.wantRisk {
				t.Errorf("Expected risk %d, got %d (%v)", tt.wantRisk, e.risk, e.warnings)
			}
			if len(e.warnings) != tt.wantWarnings {
				t.Errorf("Expected %d warnings, got %d: %v", tt.wantWarnings, len(e.warnings), e.warnings)
			}
			critical := 0
			for _, f := range e.warnings {
				if f.Critical {
					critical++
				}
				if f.Category != types.CategoryWebsite {
					t.Errorf("Expected website category, got %s", f.Category)
				}
			}
			if critical != tt.wantCritical {
				t.Errorf("Expected %d critical warnings, got %d", tt.wantCritical, critical)
			}
			if len(e.technical) != 0 {
				t.Errorf("Expected no technical issues, got %v", e.technical)
			}
		})
	}
}

func TestOnPlatform(t *testing.T) {
	boards := []string{"linkedin.com", "indeed.com"}

	tests := []struct {
		host string
		want bool
	}{
		{"linkedin.com", true},
		{"www.linkedin.com", true},
		{"uk.indeed.com", true},
		{"notlinkedin.com", false},
		{"linkedin.com.evil.io", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			if got := onPlatform(tt.host, boards); got != tt.want {
				t.Errorf("Expected %v for %q, got %v", tt.want, tt.host, got)
			}
		})
	}
}
