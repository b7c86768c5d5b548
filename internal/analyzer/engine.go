// Package analyzer scores job listings for fraud risk.
//
// The evaluators are pure functions of the listing and a rule set. The Engine
// runs them, aggregates their contributions with a named weights profile, and
// optionally consults a posting history store and an AI verdict source. Those
// collaborators never fail an analysis: errors are logged and contribute nothing.
package analyzer

import (
	"context"
	"sync"
	"time"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/errors"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/rules"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/types"
)

// Collaborator names passed to Options.OnCollaboratorError.
const (
	CollaboratorHistory = "history"
	CollaboratorVerdict = "ai_verdict"
)

// PostingStore reads a company's recent postings.
type PostingStore interface {
	FindRecentPostingsByCompany(ctx context.Context, normalizedName string, since time.Time) ([]types.HistoricalPosting, error)
}

// VerdictSource returns an external opinion on a listing. A nil verdict
// means the source had nothing to say.
type VerdictSource interface {
	GetVerdict(ctx context.Context, listing types.JobListing) (*types.AIVerdict, error)
}

// Options configures an Engine. Every field is optional.
type Options struct {
	Rules         *rules.Set
	Store         PostingStore
	Verdicts      VerdictSource
	HistoryWindow time.Duration
	Logger        *errors.Logger
	Now           func() time.Time

	// OnCollaboratorError is called when the store or verdict source fails.
	OnCollaboratorError func(ctx context.Context, collaborator string, err error)
}

// Engine is safe for concurrent use; it holds no per-request state.
type Engine struct {
	rules         *rules.Set
	store         PostingStore
	verdicts      VerdictSource
	historyWindow time.Duration
	logger        *errors.Logger
	now           func() time.Time
	onError       func(context.Context, string, error)
}

// New creates an Engine. Missing rules fall back to the built-in set.
func New(opts Options) *Engine {
	e := &Engine{
		rules:         opts.Rules,
		store:         opts.Store,
		verdicts:      opts.Verdicts,
		historyWindow: opts.HistoryWindow,
		logger:        opts.Logger,
		now:           opts.Now,
		onError:       opts.OnCollaboratorError,
	}
	if e.rules == nil {
		e.rules = rules.Builtin()
	}
	if e.historyWindow <= 0 {
		e.historyWindow = DefaultHistoryWindow
	}
	if e.logger == nil {
		e.logger = errors.NewDiscardLogger()
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// Rules returns the rule set the engine evaluates with.
func (e *Engine) Rules() *rules.Set {
	return e.rules
}

// WithRules returns a copy of the engine using rs. The receiver is unchanged.
func (e *Engine) WithRules(rs *rules.Set) *Engine {
	c := *e
	c.rules = rs
	return &c
}

// Evaluate is the pure path: no store, no AI, no clock. Repeated calls with
// the same listing return identical results.
func (e *Engine) Evaluate(listing types.JobListing, mode types.Mode, profile string) (*types.AnalysisResult, error) {
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}
	p, err := resolveProfile(mode, profile)
	if err != nil {
		return nil, err
	}

	var r *types.AnalysisResult
	switch mode {
	case types.ModeLinkOnly:
		r = e.evaluateLinkOnly(listing.ApplicationURL, p)
	default:
		r = e.evaluateFull(listing, p)
	}
	r.Recommendation = BuildRecommendations(r)
	return r, nil
}

// Analyze evaluates the listing and, in full mode, folds in the company's
// posting history and an AI verdict. Only an unknown mode or profile fails.
func (e *Engine) Analyze(ctx context.Context, listing types.JobListing, mode types.Mode, profile string) (*types.AnalysisResult, error) {
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}
	p, err := resolveProfile(mode, profile)
	if err != nil {
		return nil, err
	}

	if mode == types.ModeLinkOnly {
		r := e.evaluateLinkOnly(listing.ApplicationURL, p)
		r.Recommendation = BuildRecommendations(r)
		return r, nil
	}

	r := e.evaluateFull(listing, p)

	var (
		wg       sync.WaitGroup
		postings []types.HistoricalPosting
		verdict  *types.AIVerdict
	)
	if e.store != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			postings = e.fetchHistory(ctx, listing)
		}()
	}
	if e.verdicts != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			verdict = e.fetchVerdict(ctx, listing)
		}()
	}
	wg.Wait()

	if len(postings) > 0 {
		e.mergeHistory(r, listing, postings, p)
	}

	r.Recommendation = BuildRecommendations(r)
	if e.verdicts != nil {
		if verdict == nil {
			verdict = RuleBasedVerdict(r)
		}
		r.AIVerdict = verdict
	}
	return r, nil
}

// AnalyzeLinkOnly scores a bare URL with the detailed profile.
func (e *Engine) AnalyzeLinkOnly(rawURL string) *types.AnalysisResult {
	p, err := resolveProfile(types.ModeLinkOnly, ProfileDetailed)
	if err != nil {
		// The built-in profile table always has this entry.
		panic(err)
	}
	r := e.evaluateLinkOnly(rawURL, p)
	r.Recommendation = BuildRecommendations(r)
	return r
}

func (e *Engine) evaluateFull(listing types.JobListing, p Profile) *types.AnalysisResult {
	in := newInput(listing, e.rules)

	website := evaluateWebsite(in)
	email := evaluateEmail(in)
	content := evaluateContent(in, website.risk, email.risk)
	structure, extraction := evaluateStructure(in)
	compensation := evaluateCompensation(in)

	r := &types.AnalysisResult{
		Mode:    types.ModeFull,
		Profile: p.Name,
		Breakdown: types.RiskBreakdown{
			WebsiteRisk:      website.risk,
			EmailRisk:        email.risk,
			ContentRisk:      content.risk,
			StructureRisk:    structure.risk,
			CompensationRisk: compensation.risk,
		},
		Warnings:                  []types.Finding{},
		TechnicalIssues:           []types.Finding{},
		LegitimatePlatform:        in.onLegitimatePlatform(),
		CriticalExtraction:        extraction.critical,
		CompleteExtractionFailure: extraction.complete,
	}
	for _, ev := range []evaluation{website, email, content, structure, compensation} {
		r.Warnings = append(r.Warnings, ev.warnings...)
		r.TechnicalIssues = append(r.TechnicalIssues, ev.technical...)
	}

	aggregate(r, p)
	return r
}

func (e *Engine) evaluateLinkOnly(rawURL string, p Profile) *types.AnalysisResult {
	l := evaluateLink(rawURL, e.rules)

	r := &types.AnalysisResult{
		Mode:               types.ModeLinkOnly,
		Profile:            p.Name,
		Breakdown:          l.breakdown(),
		Warnings:           append([]types.Finding{}, l.warnings()...),
		TechnicalIssues:    []types.Finding{},
		LegitimatePlatform: l.legitimate,
	}
	aggregate(r, p)
	return r
}

// mergeHistory is the single post-construction update of a result.
func (e *Engine) mergeHistory(r *types.AnalysisResult, listing types.JobListing, postings []types.HistoricalPosting, p Profile) {
	windowDays := int(e.historyWindow / (24 * time.Hour))
	h := evaluateHistory(listing, postings, windowDays)
	if h.risk == 0 && len(h.warnings) == 0 {
		return
	}
	r.Breakdown.StructureRisk += h.risk
	r.Warnings = append(r.Warnings, h.warnings...)
	aggregate(r, p)
}

func (e *Engine) fetchHistory(ctx context.Context, listing types.JobListing) []types.HistoricalPosting {
	key := NormalizeCompanyKey(listing.Company)
	if key == "" {
		return nil
	}

	since := e.now().Add(-e.historyWindow)
	postings, err := e.store.FindRecentPostingsByCompany(ctx, key, since)
	if err != nil {
		e.collaboratorFailed(ctx, CollaboratorHistory, err, "company", key)
		return nil
	}
	return postings
}

func (e *Engine) fetchVerdict(ctx context.Context, listing types.JobListing) *types.AIVerdict {
	verdict, err := e.verdicts.GetVerdict(ctx, listing)
	if err != nil {
		e.collaboratorFailed(ctx, CollaboratorVerdict, err)
		return nil
	}
	return verdict
}

func (e *Engine) collaboratorFailed(ctx context.Context, name string, err error, args ...any) {
	e.logger.Warn("Collaborator unavailable, continuing without it",
		append([]any{"collaborator", name, "error", err.Error()}, args...)...)
	if e.onError != nil {
		e.onError(ctx, name, err)
	}
}
