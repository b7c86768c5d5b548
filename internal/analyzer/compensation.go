package analyzer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/types"
)

const (
	pointsMissingSalary     = 15
	pointsUnlimitedEarnings = 50
	pointsDailyRate         = 40
	pointsHourlyRate        = 35
	pointsCommissionUpTo    = 30
	pointsVagueCompetitive  = 5

	maxPlausibleDaily  = 300
	maxPlausibleHourly = 100
	vagueSalaryLength  = 25
)

var digitsRe = regexp.MustCompile(`\d+`)

func evaluateCompensation(in *input) evaluation {
	var e evaluation
	rs := in.rules
	salary := in.corpus.Salary

	if salary == "" {
		if !onPlatform(in.platformHost(), rs.SalaryExemptBoards) {
			e.warn(types.CategoryCompensation, pointsMissingSalary, "No salary information provided")
		}
		return e
	}

	if strings.Contains(salary, "unlimited") || strings.Contains(salary, "no limit") {
		e.critical(types.CategoryCompensation, pointsUnlimitedEarnings, "Unrealistic promise of unlimited earnings")
	}

	// Separators split runs, so "$1,200" reads as 200.
	top := maxDigitRun(salary)
	if (strings.Contains(salary, "day") || strings.Contains(salary, "daily")) && top > maxPlausibleDaily {
		e.warn(types.CategoryCompensation, pointsDailyRate, "Implausibly high daily pay (%d per day)", top)
	}
	if strings.Contains(salary, "hour") && top > maxPlausibleHourly {
		e.warn(types.CategoryCompensation, pointsHourlyRate, "Implausibly high hourly pay (%d per hour)", top)
	}

	if containsAny(salary, rs.CommissionPhrases) && strings.Contains(salary, "up to") {
		e.warn(types.CategoryCompensation, pointsCommissionUpTo, "Commission-only pay advertised with an \"up to\" figure")
	}

	if strings.Contains(salary, "competitive") && len(salary) < vagueSalaryLength {
		e.warn(types.CategoryCompensation, pointsVagueCompetitive, "Salary is only described as \"competitive\"")
	}

	return e
}

func maxDigitRun(s string) int {
	top := 0
	for _, run := range digitsRe.FindAllString(s, -1) {
		n, err := strconv.Atoi(run)
		if err != nil {
			// Longer than int: certainly above any threshold.
			return int(^uint(0) >> 1)
		}
		top = max(top, n)
	}
	return top
}
