package extract

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/types"
)

// jobPosting is the subset of schema.org/JobPosting the listing needs. The
// loosely typed fields vary between publishers (string, object or array).
type jobPosting struct {
	Title              string `json:"title"`
	Description        string `json:"description"`
	URL                string `json:"url"`
	Qualifications     any    `json:"qualifications"`
	ExperienceReqs     any    `json:"experienceRequirements"`
	HiringOrganization any    `json:"hiringOrganization"`
	JobLocation        any    `json:"jobLocation"`
	BaseSalary         any    `json:"baseSalary"`
	ApplicationContact any    `json:"applicationContact"`
	DirectApplyURL     string `json:"directApplyUrl"`
}

func decodeJobPosting(obj map[string]any) (jobPosting, bool) {
	raw, err := json.Marshal(obj)
	if err != nil {
		return jobPosting{}, false
	}
	var p jobPosting
	if err := json.Unmarshal(raw, &p); err != nil {
		return jobPosting{}, false
	}
	return p, true
}

func (p jobPosting) apply(l *types.JobListing, base *url.URL) {
	l.Title = cleanText(p.Title)
	l.Description = htmlToText(p.Description)
	l.Company = nameOf(p.HiringOrganization)
	l.Location = locationOf(p.JobLocation)
	l.Salary = salaryOf(p.BaseSalary)
	l.Requirements = joinText(p.Qualifications, p.ExperienceReqs)
	l.ContactEmail = contactEmail(p.ApplicationContact)

	switch {
	case p.DirectApplyURL != "":
		l.ApplicationURL = resolve(base, p.DirectApplyURL)
	case p.URL != "":
		l.ApplicationURL = resolve(base, p.URL)
	}
}

func nameOf(v any) string {
	switch t := v.(type) {
	case string:
		return cleanText(t)
	case map[string]any:
		return stringField(t, "name")
	case []any:
		for _, item := range t {
			if name := nameOf(item); name != "" {
				return name
			}
		}
	}
	return ""
}

func locationOf(v any) string {
	switch t := v.(type) {
	case string:
		return cleanText(t)
	case []any:
		var parts []string
		for _, item := range t {
			if loc := locationOf(item); loc != "" {
				parts = append(parts, loc)
			}
		}
		return strings.Join(parts, "; ")
	case map[string]any:
		addr, ok := t["address"]
		if !ok {
			return stringField(t, "name")
		}
		if s, ok := addr.(string); ok {
			return cleanText(s)
		}
		fields, _ := addr.(map[string]any)
		var parts []string
		for _, key := range []string{"addressLocality", "addressRegion", "addressCountry"} {
			if s := stringField(fields, key); s != "" {
				parts = append(parts, s)
			} else if country, ok := fields[key].(map[string]any); ok {
				if s := stringField(country, "name"); s != "" {
					parts = append(parts, s)
				}
			}
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

// salaryOf renders a MonetaryAmount as "USD 50000-70000 per YEAR".
func salaryOf(v any) string {
	switch t := v.(type) {
	case string:
		return cleanText(t)
	case float64:
		return formatNumber(t)
	case map[string]any:
		currency := stringField(t, "currency")
		var amount, unit string
		switch value := t["value"].(type) {
		case map[string]any:
			unit = stringField(value, "unitText")
			lo, hi := numberField(value, "minValue"), numberField(value, "maxValue")
			switch {
			case lo != "" && hi != "":
				amount = lo + "-" + hi
			case lo != "":
				amount = lo
			case hi != "":
				amount = hi
			default:
				amount = numberField(value, "value")
			}
			if currency == "" {
				currency = stringField(value, "currency")
			}
		case float64:
			amount = formatNumber(value)
		case string:
			amount = cleanText(value)
		}
		if amount == "" {
			return ""
		}
		out := strings.TrimSpace(currency + " " + amount)
		if unit != "" {
			out += " per " + unit
		}
		return out
	}
	return ""
}

func contactEmail(v any) string {
	switch t := v.(type) {
	case map[string]any:
		return stringField(t, "email")
	case []any:
		for _, item := range t {
			if email := contactEmail(item); email != "" {
				return email
			}
		}
	}
	return ""
}

func joinText(values ...any) string {
	var parts []string
	for _, v := range values {
		switch t := v.(type) {
		case string:
			if s := htmlToText(t); s != "" {
				parts = append(parts, s)
			}
		case []any:
			for _, item := range t {
				if s, ok := item.(string); ok && s != "" {
					parts = append(parts, htmlToText(s))
				}
			}
		case map[string]any:
			if s := stringField(t, "description"); s != "" {
				parts = append(parts, s)
			}
		}
	}
	return strings.Join(parts, " ")
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return cleanText(s)
}

func numberField(m map[string]any, key string) string {
	switch t := m[key].(type) {
	case float64:
		return formatNumber(t)
	case string:
		return cleanText(t)
	}
	return ""
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
