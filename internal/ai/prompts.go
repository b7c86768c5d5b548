package ai

import (
	"fmt"
	"strings"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/types"
)

// DefaultSystemPrompt is the system instruction for verdict requests.
const DefaultSystemPrompt = `You are an employment fraud analyst who reviews job postings for signs of scams and ghost jobs.

Your core principles are:
- Judge only what is present in the posting; never assume facts about the company
- Prefer "suspicious" when evidence is mixed or the posting is too thin to judge
- Every red or green flag must cite something concrete from the posting

You are familiar with:
- Advance-fee and reshipping scams that ask applicants for payment or bank details
- Unrealistic pay claims and commission-only roles dressed up as salaried work
- Recruiters using free email providers or link shorteners instead of company domains
- Ghost jobs: evergreen postings with vague duties that are never filled`

// DefaultUserPrompt is the verdict request template. Its single verb takes
// the rendered listing.
const DefaultUserPrompt = `Assess the job posting below and return a verdict.

**Tasks:**

1. **Verdict**: one of "likely_scam", "suspicious" or "likely_legitimate".
2. **Confidence**: a number between 0 and 1.
3. **Summary**: two sentences at most, written for a job seeker.
4. **Red flags**: up to 5 short, specific concerns.
5. **Green flags**: up to 5 short, specific reassurances.

**Job Posting:**
-----
%s
-----`

// maxPromptDescription bounds the description passed to the model.
const maxPromptDescription = 8000

// renderListing formats the populated listing fields for the prompt.
func renderListing(l types.JobListing) string {
	var b strings.Builder
	field := func(label, value string) {
		if value = strings.TrimSpace(value); value != "" {
			fmt.Fprintf(&b, "%s: %s\n", label, value)
		}
	}

	field("Title", l.Title)
	field("Company", l.Company)
	field("Location", l.Location)
	field("Salary", l.Salary)
	field("Contact email", l.ContactEmail)
	field("Application URL", l.ApplicationURL)
	field("Source URL", l.SourceURL)
	field("Requirements", l.Requirements)

	desc := strings.TrimSpace(l.Description)
	if r := []rune(desc); len(r) > maxPromptDescription {
		desc = string(r[:maxPromptDescription]) + "..."
	}
	if desc != "" {
		fmt.Fprintf(&b, "Description:\n%s\n", desc)
	}
	return strings.TrimRight(b.String(), "\n")
}

// buildVerdictPrompts returns the system and user prompts for a listing.
func buildVerdictPrompts(l types.JobListing) (string, string) {
	return DefaultSystemPrompt, fmt.Sprintf(DefaultUserPrompt, renderListing(l))
}
