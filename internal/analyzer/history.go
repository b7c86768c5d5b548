package analyzer

import (
	"slices"
	"strings"
	"time"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/types"
)

const (
	pointsRepeatedTitle    = 30
	pointsSimilarText      = 25
	pointsPostingFlood     = 40
	pointsFrequentPostings = 20
	pointsRapidReposting   = 35
	repeatedTitleCount     = 2
	similarPairCount       = 1
	similarityThreshold    = 0.7
	postingFloodCount      = 10
	frequentPostingCount   = 5
	rapidRepostInterval    = 72 * time.Hour
	rapidRepostCount       = 2
)

// DefaultHistoryWindow is how far back the duplicate check looks.
const DefaultHistoryWindow = 30 * 24 * time.Hour

// evaluateHistory scores a listing against the company's recent postings.
func evaluateHistory(l types.JobListing, postings []types.HistoricalPosting, windowDays int) evaluation {
	var e evaluation
	if len(postings) == 0 {
		return e
	}

	if title := normalizeTitle(l.Title); title != "" {
		same := 0
		for _, p := range postings {
			if normalizeTitle(p.Title) == title {
				same++
			}
		}
		if same > repeatedTitleCount {
			e.warn(types.CategoryReposting, pointsRepeatedTitle,
				"The same title was posted %d times by this company in the last %d days", same, windowDays)
		}
	}

	current := wordSet(l.Description)
	similar := 0
	for _, p := range postings {
		if jaccard(current, wordSet(p.Description)) > similarityThreshold {
			similar++
		}
	}
	if similar > similarPairCount {
		e.warn(types.CategoryReposting, pointsSimilarText,
			"Description is nearly identical to %d other recent postings from this company", similar)
	}

	switch n := len(postings); {
	case n > postingFloodCount:
		e.warn(types.CategoryReposting, pointsPostingFlood,
			"Company posted %d jobs in the last %d days, a pattern seen in job farming", n, windowDays)
	case n > frequentPostingCount:
		e.warn(types.CategoryReposting, pointsFrequentPostings,
			"Company posted %d jobs in the last %d days", n, windowDays)
	}

	if n := rapidReposts(postings); n > rapidRepostCount {
		e.warn(types.CategoryReposting, pointsRapidReposting,
			"Postings from this company are repeated every few days (%d rapid reposts)", n)
	}

	return e
}

// rapidReposts counts consecutive postings less than three days apart.
func rapidReposts(postings []types.HistoricalPosting) int {
	times := make([]time.Time, 0, len(postings))
	for _, p := range postings {
		times = append(times, p.SubmittedAt)
	}
	slices.SortFunc(times, func(a, b time.Time) int { return a.Compare(b) })

	n := 0
	for i := 1; i < len(times); i++ {
		if times[i].Sub(times[i-1]) < rapidRepostInterval {
			n++
		}
	}
	return n
}

func normalizeTitle(title string) string {
	return strings.Join(words(strings.ToLower(title)), " ")
}

func wordSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range words(strings.ToLower(text)) {
		set[w] = struct{}{}
	}
	return set
}

// jaccard is |a ∩ b| / |a ∪ b|, or 0 when both are empty.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
