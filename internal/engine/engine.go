// Package engine orchestrates the query-resolution pipeline: extract
// signals, route, dispatch to the structured resolvers or the generative
// fallback, and assemble the uniform answer. Per-query errors never escape
// ProcessQuery as faults; every failure mode converts into a defined
// low-confidence answer.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"advisor/internal/articulation"
	"advisor/internal/catalog"
	"advisor/internal/config"
	"advisor/internal/logging"
	"advisor/internal/people"
	"advisor/internal/perception"
	"advisor/internal/plan"
	"advisor/internal/reason"
	"advisor/internal/router"
	"advisor/internal/session"
	"advisor/internal/store"
	"advisor/internal/types"
)

// Engine wires the pipeline components together.
type Engine struct {
	cat       *catalog.Catalog
	extractor *perception.Extractor
	router    *router.Router
	reasoner  *reason.Reasoner
	planner   *plan.Planner
	assembler *articulation.Assembler
	sessions  *session.Store

	// llm and peopleClient may be nil/unconfigured; the corresponding
	// strategies degrade instead of failing.
	llm          perception.LLMClient
	peopleClient people.Client

	// decisions is optional: a nil archive means decisions are audit-logged
	// only.
	decisions *store.DecisionStore

	timeout time.Duration
}

// Options carries the optional collaborators.
type Options struct {
	LLM       perception.LLMClient
	People    people.Client
	Decisions *store.DecisionStore
}

// New assembles an engine over a loaded catalog.
func New(cfg *config.Config, cat *catalog.Catalog, opts Options) *Engine {
	reasoner := reason.New(cat)
	peopleClient := opts.People
	if peopleClient == nil {
		peopleClient = people.UnconfiguredClient{}
	}
	return &Engine{
		cat:          cat,
		extractor:    perception.NewExtractor(cat),
		router:       router.New(cat, cfg.Limits.StructuredThreshold, cfg.Limits.FallbackConfidence),
		reasoner:     reasoner,
		planner:      plan.New(cat, reasoner),
		assembler:    articulation.New(cfg.Limits.FallbackConfidence),
		sessions:     session.NewStore(cfg.Limits.MaxSessions),
		llm:          opts.LLM,
		peopleClient: peopleClient,
		decisions:    opts.Decisions,
		timeout:      cfg.LLM.Timeout(),
	}
}

// Sessions exposes the session store for the CLI status surface.
func (e *Engine) Sessions() *session.Store {
	return e.sessions
}

// ProcessQuery resolves one query for a session. The returned decision
// explains which strategy produced the answer.
func (e *Engine) ProcessQuery(ctx context.Context, sessionID, text string) (types.Answer, *types.RoutingDecision) {
	text = strings.TrimSpace(text)
	sctx := e.sessions.Get(sessionID)

	sig := e.extractor.Extract(text)
	e.accumulate(sig, sctx)

	decision := e.router.Route(sig, sctx)
	e.archive(decision)

	var answer types.Answer
	switch decision.Strategy {
	case types.StrategySession:
		answer = e.applyStatement(sig, sctx, decision)
	case types.StrategyPeopleSearch:
		answer = e.peopleSearch(ctx, sig, decision)
	case types.StrategyDirectLookup:
		answer = e.directLookup(sig, decision)
	case types.StrategyProgression:
		answer = e.progression(sig, sctx, decision)
	case types.StrategyPrerequisite:
		answer = e.prerequisite(sig, sctx, decision)
	default:
		answer = e.generative(ctx, sig, decision)
	}

	logging.Routing("answered %s: source=%s confidence=%.2f",
		decision.ID, answer.Source, answer.Confidence)
	return answer, decision
}

// accumulate merges per-query detections into the session's student context.
// The query always wins; earlier session state fills only the gaps.
func (e *Engine) accumulate(sig *types.Signals, sctx *types.StudentContext) {
	if sig.Year.Known() {
		sctx.Year = sig.Year
	}
	if sig.Semester.Known() {
		sctx.Semester = sig.Semester
	}
	for _, t := range sig.Tracks {
		known := false
		for _, existing := range sctx.Tracks {
			if existing == t {
				known = true
				break
			}
		}
		if !known {
			sctx.Tracks = append(sctx.Tracks, t)
		}
	}
}

// archive persists the decision. Archive failures are logged and swallowed:
// the answer path must not depend on local storage health.
func (e *Engine) archive(d *types.RoutingDecision) {
	if e.decisions == nil {
		return
	}
	if err := e.decisions.Append(d); err != nil {
		logging.Get(logging.CategoryStore).Error("archive decision %s: %v", d.ID, err)
	}
}

// applyStatement records "I completed / I failed ..." updates on the session.
func (e *Engine) applyStatement(sig *types.Signals, sctx *types.StudentContext, d *types.RoutingDecision) types.Answer {
	var completed, failed []string
	// A failed statement wins for a query carrying both keywords; "I took it
	// and failed" is a failure report.
	if sig.HasIntent(types.IntentFailedStatement) {
		for _, c := range sig.Courses {
			sctx.Fail(c)
			failed = append(failed, c)
		}
	} else {
		for _, c := range sig.Courses {
			sctx.Complete(c)
			completed = append(completed, c)
		}
	}

	logging.Audit(logging.AuditEvent{
		EventType:      logging.AuditSessionUpdate,
		SessionID:      sctx.SessionID,
		RequestID:      d.ID,
		MatchedSignals: d.MatchedSignals,
		Message:        fmt.Sprintf("completed+%d failed+%d", len(completed), len(failed)),
	})
	return e.assembler.FromSessionUpdate(completed, failed)
}

// peopleSearch forwards career-networking queries to the collaborator.
func (e *Engine) peopleSearch(ctx context.Context, sig *types.Signals, d *types.RoutingDecision) types.Answer {
	q := people.Parse(sig.RawQuery)

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	result, err := e.peopleClient.Search(callCtx, q)
	if err != nil {
		e.auditExternalError(d, err)
		return e.assembler.Unavailable()
	}
	return e.assembler.FromPeopleSearch(result)
}

// directLookup serves exact entity matches verbatim. The branches repeat
// the router's direct-lookup conditions in the router's order, so the served
// entity is always the one the recorded decision names; a track mentioned in
// passing never overrides a course the query actually asked about.
func (e *Engine) directLookup(sig *types.Signals, d *types.RoutingDecision) types.Answer {
	if sig.HasIntent(types.IntentCODO) {
		if codo, ok := e.cat.CODO(); ok {
			return e.assembler.FromCODO(codo)
		}
		e.auditNotFound(d, "codo requirements")
		return e.assembler.NotFound("CODO requirements", types.SourceCODO)
	}

	if len(sig.Tracks) >= 2 && sig.HasIntent(types.IntentTrackCompare) {
		first, ok1 := e.cat.Track(sig.Tracks[0])
		second, ok2 := e.cat.Track(sig.Tracks[1])
		if ok1 && ok2 {
			return e.assembler.FromTrackComparison(first, second)
		}
	}

	if len(sig.Tracks) >= 1 && (sig.HasIntent(types.IntentTrackInfo) || sig.HasIntent(types.IntentTrackCompare)) {
		if track, ok := e.cat.Track(sig.Tracks[0]); ok {
			return e.assembler.FromTrack(track)
		}
		e.auditNotFound(d, sig.Tracks[0])
		return e.assembler.NotFound(sig.Tracks[0], types.SourceTrackCatalog)
	}

	if len(sig.Courses) >= 1 {
		if course, ok := e.cat.Course(sig.Courses[0]); ok {
			return e.assembler.FromCourse(course)
		}
	}
	if len(sig.UnresolvedMentions) > 0 {
		e.auditNotFound(d, sig.UnresolvedMentions[0])
		return e.assembler.NotFound(sig.UnresolvedMentions[0], types.SourceCourseCatalog)
	}

	e.auditNotFound(d, sig.RawQuery)
	return e.assembler.Unavailable()
}

// progression serves year/semester recommendations from the planner.
func (e *Engine) progression(sig *types.Signals, sctx *types.StudentContext, d *types.RoutingDecision) types.Answer {
	year, semester := router.EffectiveTerm(sig, sctx)
	p := e.planner.Recommend(year, semester, sctx)
	return e.assembler.FromPlan(p, d.Confidence)
}

// prerequisite dispatches eligibility and what-if questions to the reasoner.
func (e *Engine) prerequisite(sig *types.Signals, sctx *types.StudentContext, d *types.RoutingDecision) types.Answer {
	if len(sig.Courses) == 0 {
		// Only unresolved mentions: the structured answer is "not found".
		mention := sig.RawQuery
		if len(sig.UnresolvedMentions) > 0 {
			mention = sig.UnresolvedMentions[0]
		}
		e.auditNotFound(d, mention)
		return e.assembler.NotFound(mention, types.SourcePrereqGraph)
	}

	target := sig.Courses[0]
	if sig.HasIntent(types.IntentWhatIf) {
		imp, err := e.reasoner.FailureImpact(target, sctx)
		if err != nil {
			return e.reasonError(d, target, err)
		}
		return e.assembler.FromImpact(imp, d.Confidence)
	}

	el, err := e.reasoner.Check(target, sctx)
	if err != nil {
		return e.reasonError(d, target, err)
	}
	return e.assembler.FromEligibility(el, d.Confidence)
}

// reasonError converts reasoner errors at the boundary. NotFound becomes the
// structured "don't know"; anything else degrades to unavailable.
func (e *Engine) reasonError(d *types.RoutingDecision, target string, err error) types.Answer {
	if errors.Is(err, catalog.ErrNotFound) {
		e.auditNotFound(d, target)
		return e.assembler.NotFound(target, types.SourcePrereqGraph)
	}
	logging.Get(logging.CategoryReasoner).Error("reasoner failed for %s: %v", target, err)
	return e.assembler.Unavailable()
}

const generativeSystemPrompt = `You are a university course advisor assistant.
Answer the student's question helpfully and briefly. You have no access to
the structured course catalog for this question, so do not invent specific
course codes, prerequisites, or requirements. Recommend speaking with an
academic advisor for anything that needs official confirmation.`

// generative is the terminal fallback: the query goes to the configured
// model with whatever partial signals were extracted. One attempt only;
// failure or timeout degrades.
func (e *Engine) generative(ctx context.Context, sig *types.Signals, d *types.RoutingDecision) types.Answer {
	if e.llm == nil {
		e.auditExternalError(d, errors.New("no generative client configured"))
		return e.assembler.Unavailable()
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	prompt := sig.RawQuery
	if len(d.MatchedSignals) > 0 {
		prompt = fmt.Sprintf("%s\n\n(Partial context extracted from the question: %s)",
			sig.RawQuery, strings.Join(d.MatchedSignals, ", "))
	}

	text, err := e.llm.CompleteWithSystem(callCtx, generativeSystemPrompt, prompt)
	if err != nil {
		e.auditExternalError(d, err)
		return e.assembler.Unavailable()
	}

	answer := e.assembler.FromGenerative(text)
	logging.Audit(logging.AuditEvent{
		EventType:  logging.AuditFallbackUsed,
		SessionID:  d.SessionID,
		RequestID:  d.ID,
		Confidence: answer.Confidence,
		Message:    "generative fallback served the answer",
	})
	return answer
}

func (e *Engine) auditExternalError(d *types.RoutingDecision, err error) {
	logging.APIError("external call failed for %s: %v", d.ID, err)
	logging.Audit(logging.AuditEvent{
		EventType: logging.AuditExternalError,
		SessionID: d.SessionID,
		RequestID: d.ID,
		Strategy:  string(d.Strategy),
		Message:   err.Error(),
	})
}

func (e *Engine) auditNotFound(d *types.RoutingDecision, mention string) {
	logging.Audit(logging.AuditEvent{
		EventType: logging.AuditNotFound,
		SessionID: d.SessionID,
		RequestID: d.ID,
		Strategy:  string(d.Strategy),
		Message:   fmt.Sprintf("no catalog entity for %q", mention),
	})
}
