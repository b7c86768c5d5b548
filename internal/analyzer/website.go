package analyzer

import (
	"regexp"
	"strings"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/types"
)

const (
	pointsMissingURL     = 15
	pointsMalformedURL   = 50
	pointsFreeHosting    = 40
	discountJobBoard     = 10
	pointsShortener      = 50
	pointsSuspiciousTLD  = 30
	pointsInsecureScheme = 20
	pointsOddDomain      = 25
	pointsIPHost         = 40
)

var (
	digitRunRe   = regexp.MustCompile(`\d{4,}`)
	dottedQuadRe = regexp.MustCompile(`^\d{1,3}(?:\.\d{1,3}){3}$`)
)

// evaluateWebsite scores the application URL. The rules accumulate; only a
// malformed URL stops evaluation early.
func evaluateWebsite(in *input) evaluation {
	var e evaluation
	rs := in.rules

	raw := strings.TrimSpace(in.listing.ApplicationURL)
	if raw == "" {
		if !in.onNoEmailPlatform() {
			e.warn(types.CategoryWebsite, pointsMissingURL, "No application link provided")
		}
		return e
	}

	u, ok := parseAbsoluteURL(raw)
	if !ok {
		e.critical(types.CategoryWebsite, pointsMalformedURL, "Application link is not a valid web address")
		return e
	}
	host := strings.ToLower(u.Hostname())

	if p := firstContained(host, rs.FreeHostingPlatforms); p != "" {
		e.critical(types.CategoryWebsite, pointsFreeHosting,
			"Application site is hosted on a free website builder (%s)", p)
	}
	if onPlatform(host, rs.LegitimateJobBoards) {
		e.risk -= discountJobBoard
	}
	if p := matchShortener(host, rs.URLShorteners); p != "" {
		e.critical(types.CategoryWebsite, pointsShortener,
			"Application link uses a URL shortener (%s) that hides the real destination", p)
	}
	for _, tld := range rs.SuspiciousTLDs {
		if strings.HasSuffix(host, tld) {
			e.warn(types.CategoryWebsite, pointsSuspiciousTLD, "Suspicious domain extension (%s)", tld)
			break
		}
	}
	if strings.EqualFold(u.Scheme, "http") {
		e.warn(types.CategoryWebsite, pointsInsecureScheme, "Application link does not use HTTPS")
	}
	if digitRunRe.MatchString(host) || containsAny(host, rs.SuspiciousDomainKeywords) {
		e.warn(types.CategoryWebsite, pointsOddDomain, "Domain name looks temporary or auto-generated (%s)", host)
	}
	if dottedQuadRe.MatchString(host) {
		e.critical(types.CategoryWebsite, pointsIPHost, "Application link points to a raw IP address instead of a domain")
	}

	return e
}
