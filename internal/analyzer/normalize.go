package analyzer

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/types"
)

// Corpus is the normalized text of a listing.
type Corpus struct {
	Description  string
	Title        string
	Company      string
	Location     string
	Salary       string
	Requirements string
	FullText     string // description + " " + title + " " + company

	// Raw keeps original casing for the case-sensitive checks.
	RawDescription string
	RawTitle       string
	RawCompany     string
}

// Normalize lowercases the listing fields. Absent fields become empty strings.
func Normalize(l types.JobListing) Corpus {
	desc := strings.ToLower(l.Description)
	title := strings.ToLower(l.Title)
	company := strings.ToLower(l.Company)

	return Corpus{
		Description:    desc,
		Title:          title,
		Company:        company,
		Location:       strings.ToLower(l.Location),
		Salary:         strings.ToLower(strings.TrimSpace(l.Salary)),
		Requirements:   strings.ToLower(l.Requirements),
		FullText:       desc + " " + title + " " + company,
		RawDescription: l.Description,
		RawTitle:       l.Title,
		RawCompany:     l.Company,
	}
}

// DescriptionLength is the trimmed description length in characters.
func (c Corpus) DescriptionLength() int {
	return utf8.RuneCountInString(strings.TrimSpace(c.RawDescription))
}

// NormalizeCompanyKey is the lookup key for a company's posting history:
// lowercase with everything but letters and digits removed.
func NormalizeCompanyKey(company string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(company) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// matchedPhrases returns the phrases found in text, in list order, without duplicates.
func matchedPhrases(text string, phrases []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(phrases))
	for _, p := range phrases {
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		if strings.Contains(text, p) {
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if p != "" && strings.Contains(text, p) {
			return true
		}
	}
	return false
}

func firstContained(text string, phrases []string) string {
	for _, p := range phrases {
		if p != "" && strings.Contains(text, p) {
			return p
		}
	}
	return ""
}

func matchesAny(text string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// words splits text on anything that is not a letter or digit.
func words(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func hasWord(text string, vocabulary []string) bool {
	for _, w := range words(text) {
		for _, v := range vocabulary {
			if w == v {
				return true
			}
		}
	}
	return false
}

// hostOf returns the lowercased hostname of raw, or "" when raw is not an absolute URL.
func hostOf(raw string) string {
	u, ok := parseAbsoluteURL(raw)
	if !ok {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

func parseAbsoluteURL(raw string) (*url.URL, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" || u.Hostname() == "" {
		return nil, false
	}
	return u, true
}

// matchShortener returns the shortener entry matching host. Domain entries
// match the host or its subdomains so "t.co" does not hit "microsoft.com";
// bare tokens such as "tinyurl" match anywhere in the host.
func matchShortener(host string, entries []string) string {
	for _, s := range entries {
		if s == "" {
			continue
		}
		if strings.Contains(s, ".") {
			if onPlatform(host, []string{s}) {
				return s
			}
		} else if strings.Contains(host, s) {
			return s
		}
	}
	return ""
}

// onPlatform reports whether host is one of domains or a subdomain of one.
func onPlatform(host string, domains []string) bool {
	if host == "" {
		return false
	}
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
