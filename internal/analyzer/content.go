package analyzer

import (
	"regexp"
	"strings"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/types"
)

const (
	pointsPerScamPhrase     = 30
	pointsPerPressurePhrase = 20
	pointsPerBuzzword       = 8
	pointsBuzzwordFlood     = 15
	pointsUnprofessional    = 15

	maxCitedScamPhrases = 3
	buzzwordMinCount    = 2 // more than this needs corroboration
	buzzwordFloodCount  = 4 // more than this is penalized alone
	corroboratingRisk   = 20
	capsRunLimit        = 3
	grammarSignalLimit  = 2
)

var (
	capsRunRe = regexp.MustCompile(`\b[A-Z]{4,}\b`)
	bangRunRe = regexp.MustCompile(`!{2,}`)
)

// evaluateContent scans the corpus for scam, pressure and buzzword language.
// websiteRisk and emailRisk corroborate the buzzword tier.
func evaluateContent(in *input, websiteRisk, emailRisk int) evaluation {
	var e evaluation
	rs := in.rules
	text := in.corpus.FullText

	scam := matchedPhrases(text, rs.CriticalScamPhrases)
	for _, re := range rs.EarningsClaims {
		if m := re.FindString(text); m != "" {
			scam = append(scam, strings.TrimSpace(m))
		}
	}
	if len(scam) > 0 {
		cited := scam[:min(len(scam), maxCitedScamPhrases)]
		e.critical(types.CategoryScam, len(scam)*pointsPerScamPhrase,
			"SCAM WARNING: listing contains known scam language (%s)", strings.Join(cited, ", "))
	}

	if pressure := matchedPhrases(text, rs.HighPressurePhrases); len(pressure) > 0 {
		e.warn(types.CategoryPressure, len(pressure)*pointsPerPressurePhrase,
			"High-pressure language detected (%s)", strings.Join(pressure, ", "))
	}

	buzz := matchedPhrases(text, rs.BuzzwordPhrases)
	switch {
	case len(buzz) > buzzwordMinCount && (websiteRisk > corroboratingRisk || emailRisk > corroboratingRisk):
		e.warn(types.CategoryBuzzword, len(buzz)*pointsPerBuzzword,
			"Work-from-home keywords combined with other risk signals (%s)", strings.Join(buzz, ", "))
	case len(buzz) > buzzwordFloodCount:
		e.warn(types.CategoryBuzzword, pointsBuzzwordFlood,
			"Listing leans heavily on generic work-from-home keywords")
	}

	if grammarSignals(in) > grammarSignalLimit {
		e.warn(types.CategoryGrammar, pointsUnprofessional,
			"Unprofessional writing: excessive capitals, punctuation or common grammar mistakes")
	}

	return e
}

// grammarSignals counts independent signs of careless writing.
func grammarSignals(in *input) int {
	raw := in.corpus.RawDescription + " " + in.corpus.RawTitle

	signals := 0
	if len(capsRunRe.FindAllString(raw, -1)) > capsRunLimit {
		signals++
	}
	if len(bangRunRe.FindAllString(raw, -1)) > 1 {
		signals++
	}
	for _, re := range in.rules.Homophones {
		if re.MatchString(in.corpus.FullText) {
			signals++
		}
	}
	return signals
}
