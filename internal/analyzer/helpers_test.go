package analyzer

import (
	"strings"
	"testing"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/rules"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/types"
)

var testRules = rules.Builtin()

func testInput(l types.JobListing) *input {
	return newInput(l, testRules)
}

// filler returns n characters of neutral job text that trips no rule.
func filler(n int) string {
	const base = "Our engineers build reliable software for logistics companies. "
	s := strings.Repeat(base, n/len(base)+1)
	return s[:n]
}

const cleanDescription = "You will design, build and operate the backend services that power our payments platform. " +
	"Responsibilities include owning Go microservices, designing PostgreSQL schemas, improving observability, " +
	"reviewing code and mentoring engineers on the team. We offer health insurance and a yearly learning budget."

func cleanListing() types.JobListing {
	return types.JobListing{
		Title:          "Senior Backend Engineer",
		Company:        "Acme Corp",
		Description:    cleanDescription,
		Location:       "Austin, TX",
		Salary:         "$120k-$150k",
		ContactEmail:   "hr@acme.com",
		ApplicationURL: "https://www.linkedin.com/jobs/view/123",
	}
}

func categories(findings []types.Finding) []types.Category {
	out := make([]types.Category, 0, len(findings))
	for _, f := range findings {
		out = append(out, f.Category)
	}
	return out
}

func mustCompile(t *testing.T, tbl rules.Table) *rules.Set {
	t.Helper()
	rs, err := rules.Compile(tbl)
	if err != nil {
		t.Fatalf("Failed to compile rules: %v", err)
	}
	return rs
}
