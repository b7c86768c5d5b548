// Package extract turns a captured job page into a JobListing. Structured
// JobPosting data wins; meta tags and common page selectors fill the gaps.
// Extraction is best effort: a sparse listing is returned rather than an
// error so the structure evaluator can report what went missing.
package extract

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/errors"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/types"
)

var (
	spaceExpr = regexp.MustCompile(`\s+`)
	emailExpr = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
)

var (
	titleSelectors       = []string{"h1.job-title", "[data-testid=jobTitle]", ".job-title", ".posting-headline h2", "h1"}
	companySelectors     = []string{"[data-testid=company-name]", ".company-name", ".employer", "[class*=company]"}
	locationSelectors    = []string{"[data-testid=job-location]", ".job-location", ".location", "[class*=location]"}
	salarySelectors      = []string{"[data-testid=salary]", ".salary", "[class*=salary]", "[class*=compensation]"}
	descriptionSelectors = []string{"#job-description", ".job-description", ".description", "[class*=description]", "article", "main"}
	requirementSelectors = []string{".requirements", "#requirements", "[class*=qualification]"}
)

// FromHTML parses an HTML page captured from sourceURL.
func FromHTML(r io.Reader, sourceURL string) (types.JobListing, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return types.JobListing{}, errors.NewValidationError(errors.ErrCodeExtractFailed, "Failed to parse HTML document", err)
	}
	return FromDocument(doc, sourceURL), nil
}

// FromDocument extracts a listing from an already parsed document.
func FromDocument(doc *goquery.Document, sourceURL string) types.JobListing {
	base, _ := url.Parse(strings.TrimSpace(sourceURL))

	listing := types.JobListing{SourceURL: strings.TrimSpace(sourceURL)}
	if posting, ok := findJobPosting(doc); ok {
		posting.apply(&listing, base)
	}

	fill(&listing.Title, firstText(doc, titleSelectors), metaContent(doc, "og:title"), cleanText(doc.Find("title").First().Text()))
	fill(&listing.Company, firstText(doc, companySelectors), metaContent(doc, "og:site_name"))
	fill(&listing.Location, firstText(doc, locationSelectors))
	fill(&listing.Salary, firstText(doc, salarySelectors))
	fill(&listing.Description, firstText(doc, descriptionSelectors), metaContent(doc, "og:description"), metaContent(doc, "description"))
	fill(&listing.Requirements, firstText(doc, requirementSelectors))
	fill(&listing.ContactEmail, mailto(doc), emailExpr.FindString(listing.Description))
	fill(&listing.ApplicationURL, applyLink(doc, base))

	return listing
}

func fill(field *string, candidates ...string) {
	if *field != "" {
		return
	}
	for _, c := range candidates {
		if c != "" {
			*field = c
			return
		}
	}
}

func cleanText(s string) string {
	return strings.TrimSpace(spaceExpr.ReplaceAllString(s, " "))
}

func firstText(doc *goquery.Document, selectors []string) string {
	for _, sel := range selectors {
		if text := cleanText(doc.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

func metaContent(doc *goquery.Document, name string) string {
	sel := doc.Find(fmt.Sprintf(`meta[property=%q], meta[name=%q]`, name, name)).First()
	content, _ := sel.Attr("content")
	return cleanText(content)
}

func mailto(doc *goquery.Document) string {
	var email string
	doc.Find(`a[href^="mailto:"]`).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		addr := strings.TrimPrefix(href, "mailto:")
		if i := strings.IndexByte(addr, '?'); i >= 0 {
			addr = addr[:i]
		}
		email = strings.TrimSpace(addr)
		return email == ""
	})
	return email
}

func applyLink(doc *goquery.Document, base *url.URL) string {
	var link string
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		text := strings.ToLower(cleanText(a.Text()))
		class, _ := a.Attr("class")
		if !strings.Contains(text, "apply") && !strings.Contains(strings.ToLower(class), "apply") {
			return true
		}
		href, _ := a.Attr("href")
		if strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "javascript:") {
			return true
		}
		link = resolve(base, href)
		return link == ""
	})
	return link
}

func resolve(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	if base == nil || ref.IsAbs() {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}

// htmlToText flattens markup embedded in structured data descriptions.
func htmlToText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return cleanText(s)
	}
	frag, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return cleanText(s)
	}
	return cleanText(frag.Text())
}

// findJobPosting returns the first JobPosting object found in the page's
// JSON-LD blocks, including those nested in arrays or @graph.
func findJobPosting(doc *goquery.Document) (jobPosting, bool) {
	var (
		found jobPosting
		ok    bool
	)
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var raw any
		if err := json.Unmarshal([]byte(s.Text()), &raw); err != nil {
			return true
		}
		obj := searchJobPosting(raw)
		if obj == nil {
			return true
		}
		found, ok = decodeJobPosting(obj)
		return !ok
	})
	return found, ok
}

func searchJobPosting(v any) map[string]any {
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if obj := searchJobPosting(item); obj != nil {
				return obj
			}
		}
	case map[string]any:
		if isJobPostingType(t["@type"]) {
			return t
		}
		if graph, ok := t["@graph"]; ok {
			return searchJobPosting(graph)
		}
	}
	return nil
}

func isJobPostingType(v any) bool {
	switch t := v.(type) {
	case string:
		return t == "JobPosting"
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && s == "JobPosting" {
				return true
			}
		}
	}
	return false
}
