package analyzer

import (
	"slices"
	"strings"
	"unicode"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/types"
)

const (
	pointsMissingEmail      = 10
	pointsInvalidEmail      = 20
	pointsCorporateFreeMail = 35
	pointsFreeMail          = 20
	pointsGenericMailbox    = 15
	pointsDomainMismatch    = 25
)

func evaluateEmail(in *input) evaluation {
	var e evaluation
	rs := in.rules

	email := strings.ToLower(strings.TrimSpace(in.listing.ContactEmail))
	if email == "" {
		if !in.onNoEmailPlatform() {
			e.warn(types.CategoryEmail, pointsMissingEmail, "No contact email provided")
		}
		return e
	}

	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		e.warn(types.CategoryEmail, pointsInvalidEmail, "Contact email address is not valid")
		return e
	}
	local, domain := email[:at], email[at+1:]

	free := slices.Contains(rs.FreeEmailDomains, domain)
	if free {
		if hasWord(in.corpus.Company, rs.CorporateSuffixes) {
			e.warn(types.CategoryEmail, pointsCorporateFreeMail,
				"Registered company using a personal email address (%s)", domain)
		} else {
			e.warn(types.CategoryEmail, pointsFreeMail,
				"Personal email address (%s), common for small businesses but worth verifying", domain)
		}
	}

	if p := firstContained(local, rs.GenericLocalParts); p != "" {
		e.warn(types.CategoryEmail, pointsGenericMailbox, "Generic contact mailbox (%s@)", local)
	}

	if !free {
		company := normalizeCompanyName(in.corpus.Company, rs.CompanySuffixes)
		// A label with no letters, as in "24.com", never matches a company.
		label := lettersOnly(domainLabel(domain))
		if len(company) > 3 && !strings.Contains(domain, company) && (label == "" || !strings.Contains(company, label)) {
			e.warn(types.CategoryEmail, pointsDomainMismatch,
				"Email domain (%s) does not match the company name", domain)
		}
	}

	return e
}

// normalizeCompanyName keeps letters only and drops corporate suffix words.
func normalizeCompanyName(company string, suffixes []string) string {
	var b strings.Builder
	for _, w := range words(strings.ToLower(company)) {
		if slices.Contains(suffixes, w) {
			continue
		}
		b.WriteString(lettersOnly(w))
	}
	return b.String()
}

// domainLabel returns the registrable label: "acme" for "mail.acme.com".
func domainLabel(domain string) string {
	parts := strings.Split(domain, ".")
	if len(parts) < 2 {
		return domain
	}
	return parts[len(parts)-2]
}

func lettersOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) {
			return r
		}
		return -1
	}, s)
}
