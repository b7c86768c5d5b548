package analyzer

import (
	"strings"
	"unicode/utf8"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/rules"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/types"
)

// Link-only constants. The shortener penalty is higher than in full mode
// because the link is all there is to judge.
const (
	linkPointsUnusable      = 100
	linkPointsFreeHosting   = 50
	linkPointsOddDomain     = 25
	linkPointsIPHost        = 60
	linkPointsUnrecognized  = 15
	linkPointsShortener     = 60
	linkPointsSubdomains    = 20
	linkPointsUserInfo      = 40
	linkPointsLongURL       = 10
	linkPointsInsecure      = 50
	linkPointsOddPort       = 20
	linkPointsSuspiciousTLD = 40
	linkPointsHyphens       = 20
	linkPointsLongHost      = 15

	maxHostDots   = 3
	maxURLLength  = 100
	maxHostHyphen = 2
	maxHostLength = 30
)

// linkEvaluation holds the four link-only components.
type linkEvaluation struct {
	reputation   evaluation
	urlStructure evaluation
	security     evaluation
	domain       evaluation
	legitimate   bool
}

func (l *linkEvaluation) breakdown() types.RiskBreakdown {
	return types.RiskBreakdown{
		ReputationRisk:   l.reputation.risk,
		URLStructureRisk: l.urlStructure.risk,
		SecurityRisk:     l.security.risk,
		DomainRisk:       l.domain.risk,
	}
}

func (l *linkEvaluation) warnings() []types.Finding {
	var out []types.Finding
	for _, e := range []evaluation{l.reputation, l.urlStructure, l.security, l.domain} {
		out = append(out, e.warnings...)
	}
	return out
}

// evaluateLink scores a bare URL with no listing content.
func evaluateLink(raw string, rs *rules.Set) linkEvaluation {
	var l linkEvaluation
	raw = strings.TrimSpace(raw)

	if raw == "" {
		l.urlStructure.warn(types.CategoryURLStructure, linkPointsUnusable, "No link provided")
		return l
	}
	u, ok := parseAbsoluteURL(raw)
	if !ok {
		l.urlStructure.critical(types.CategoryURLStructure, linkPointsUnusable, "Link is not a valid web address")
		return l
	}
	host := strings.ToLower(u.Hostname())
	isIP := dottedQuadRe.MatchString(host)
	l.legitimate = onPlatform(host, rs.LegitimateJobBoards)

	// reputation
	if p := firstContained(host, rs.FreeHostingPlatforms); p != "" {
		l.reputation.critical(types.CategoryReputation, linkPointsFreeHosting,
			"Site is hosted on a free website builder (%s)", p)
	}
	if digitRunRe.MatchString(host) || containsAny(host, rs.SuspiciousDomainKeywords) {
		l.reputation.warn(types.CategoryReputation, linkPointsOddDomain, "Domain name looks temporary or auto-generated (%s)", host)
	}
	switch {
	case isIP:
		l.reputation.critical(types.CategoryReputation, linkPointsIPHost, "Link points to a raw IP address instead of a domain")
	case !l.legitimate:
		l.reputation.warn(types.CategoryReputation, linkPointsUnrecognized,
			"Domain %s is not a recognized job board; confirm it belongs to the employer", host)
	}

	// structure
	if p := matchShortener(host, rs.URLShorteners); p != "" {
		l.urlStructure.critical(types.CategoryURLStructure, linkPointsShortener,
			"Link uses a URL shortener (%s) that hides the real destination", p)
	}
	if !isIP && strings.Count(host, ".") > maxHostDots {
		l.urlStructure.warn(types.CategoryURLStructure, linkPointsSubdomains, "Link has an unusual number of subdomains")
	}
	if u.User != nil {
		l.urlStructure.critical(types.CategoryURLStructure, linkPointsUserInfo,
			"Link embeds credentials or an @ sign that disguises the real host")
	}
	if utf8.RuneCountInString(raw) > maxURLLength {
		l.urlStructure.warn(types.CategoryURLStructure, linkPointsLongURL, "Link is unusually long")
	}

	// security
	if strings.EqualFold(u.Scheme, "http") {
		l.security.warn(types.CategorySecurity, linkPointsInsecure, "Link does not use HTTPS")
	}
	if port := u.Port(); port != "" && port != "80" && port != "443" {
		l.security.warn(types.CategorySecurity, linkPointsOddPort, "Link uses a non-standard port (%s)", port)
	}

	// domain
	for _, tld := range rs.SuspiciousTLDs {
		if strings.HasSuffix(host, tld) {
			l.domain.warn(types.CategoryDomain, linkPointsSuspiciousTLD, "Suspicious domain extension (%s)", tld)
			break
		}
	}
	if strings.Count(host, "-") > maxHostHyphen {
		l.domain.warn(types.CategoryDomain, linkPointsHyphens, "Domain name contains many hyphens")
	}
	if utf8.RuneCountInString(host) > maxHostLength {
		l.domain.warn(types.CategoryDomain, linkPointsLongHost, "Domain name is unusually long")
	}

	return l
}
