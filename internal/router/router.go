// Package router classifies an extracted signal bundle into a resolution
// strategy. Routing is an ordered table of (predicate, strategy) rules
// evaluated in fixed priority order - most specific, most trustworthy data
// source first - so identical input always yields the identical decision.
package router

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"advisor/internal/catalog"
	"advisor/internal/logging"
	"advisor/internal/types"
)

// Router maps signals to routing decisions against a loaded catalog.
type Router struct {
	cat *catalog.Catalog

	// structuredThreshold is the minimum confidence a structured rule must
	// reach to be served; anything below falls through to generative.
	structuredThreshold float64

	// fallbackConfidence is attached to generative decisions. The same
	// configured constant drives the assembled answer, so decision and
	// answer never disagree.
	fallbackConfidence float64
}

// New creates a router. Non-positive arguments select the defaults of 0.55
// and 0.30.
func New(cat *catalog.Catalog, threshold, fallbackConfidence float64) *Router {
	if threshold <= 0 {
		threshold = 0.55
	}
	if fallbackConfidence <= 0 {
		fallbackConfidence = 0.30
	}
	return &Router{cat: cat, structuredThreshold: threshold, fallbackConfidence: fallbackConfidence}
}

// ruleResult is the outcome of one routing rule.
type ruleResult struct {
	strategy   types.Strategy
	confidence float64
	matched    []string
	rationale  string
}

// rule is one (predicate, strategy) pair. applies returns nil when the rule
// does not fire.
type rule struct {
	name    string
	applies func(sig *types.Signals, sctx *types.StudentContext) *ruleResult
}

// Route evaluates the rule table in order and returns the first applicable
// decision. The decision is appended to the audit channel; the router never
// reads the channel back.
func (r *Router) Route(sig *types.Signals, sctx *types.StudentContext) *types.RoutingDecision {
	var res *ruleResult
	for _, ru := range r.rules() {
		if res = ru.applies(sig, sctx); res != nil {
			break
		}
	}
	if res == nil || res.confidence < r.structuredThreshold {
		res = r.fallback(sig, res)
	}

	decision := &types.RoutingDecision{
		ID:             uuid.NewString(),
		SessionID:      sessionID(sctx),
		Strategy:       res.strategy,
		Confidence:     res.confidence,
		MatchedSignals: res.matched,
		Rationale:      res.rationale,
		DecidedAt:      time.Now(),
	}

	for _, field := range sig.Ambiguous {
		logging.Audit(logging.AuditEvent{
			EventType: logging.AuditAmbiguousSignal,
			SessionID: decision.SessionID,
			RequestID: decision.ID,
			Message:   fmt.Sprintf("conflicting %s keywords; first match in scan order kept", field),
		})
	}
	logging.Audit(logging.AuditEvent{
		EventType:      logging.AuditDecisionMade,
		SessionID:      decision.SessionID,
		RequestID:      decision.ID,
		Strategy:       string(decision.Strategy),
		Confidence:     decision.Confidence,
		MatchedSignals: decision.MatchedSignals,
		Rationale:      decision.Rationale,
	})
	logging.Routing("decision %s: strategy=%s confidence=%.2f rationale=%s",
		decision.ID, decision.Strategy, decision.Confidence, decision.Rationale)

	return decision
}

func sessionID(sctx *types.StudentContext) string {
	if sctx == nil {
		return ""
	}
	return sctx.SessionID
}

// rules returns the priority-ordered routing table.
func (r *Router) rules() []rule {
	return []rule{
		{"session_statement", r.sessionStatement},
		{"people_search", r.peopleSearch},
		{"direct_lookup", r.directLookup},
		{"progression", r.progression},
		{"prerequisite", r.prerequisite},
	}
}

// sessionStatement routes "I completed / I failed ..." updates. These must
// outrank the what-if path: "I failed CS 18000" is a statement, not a
// hypothetical.
func (r *Router) sessionStatement(sig *types.Signals, _ *types.StudentContext) *ruleResult {
	completed := sig.HasIntent(types.IntentCompletedStatement)
	failed := sig.HasIntent(types.IntentFailedStatement)
	if (!completed && !failed) || len(sig.Courses) == 0 {
		return nil
	}
	matched := courseSignals(sig)
	if completed {
		matched = append(matched, "intent:"+string(types.IntentCompletedStatement))
	}
	if failed {
		matched = append(matched, "intent:"+string(types.IntentFailedStatement))
	}
	return &ruleResult{
		strategy:   types.StrategySession,
		confidence: 1.0,
		matched:    matched,
		rationale:  "query is a student record statement, not a question",
	}
}

// peopleSearch recognizes the career-networking intent and forwards it to
// the separate lookup service.
func (r *Router) peopleSearch(sig *types.Signals, _ *types.StudentContext) *ruleResult {
	if !sig.HasIntent(types.IntentCareer) {
		return nil
	}
	return &ruleResult{
		strategy:   types.StrategyPeopleSearch,
		confidence: 0.9,
		matched:    []string{"intent:" + string(types.IntentCareer)},
		rationale:  "career-networking keywords route to the people-search collaborator",
	}
}

// directLookup serves queries that match a known entity exactly: CODO
// requirements, a named track (or two, for comparison), or a single course
// with a description intent. Served verbatim at confidence 1.0.
func (r *Router) directLookup(sig *types.Signals, _ *types.StudentContext) *ruleResult {
	if sig.HasIntent(types.IntentCODO) {
		return &ruleResult{
			strategy:   types.StrategyDirectLookup,
			confidence: 1.0,
			matched:    []string{"intent:" + string(types.IntentCODO)},
			rationale:  "CODO requirements are a single structured entity",
		}
	}

	if len(sig.Tracks) >= 2 && sig.HasIntent(types.IntentTrackCompare) {
		return &ruleResult{
			strategy:   types.StrategyDirectLookup,
			confidence: 1.0,
			matched:    append(trackSignals(sig), "intent:"+string(types.IntentTrackCompare)),
			rationale:  "two known tracks with a comparison intent",
		}
	}

	if len(sig.Tracks) >= 1 && (sig.HasIntent(types.IntentTrackInfo) || sig.HasIntent(types.IntentTrackCompare)) {
		return &ruleResult{
			strategy:   types.StrategyDirectLookup,
			confidence: 1.0,
			matched:    append(trackSignals(sig), "intent:"+string(types.IntentTrackInfo)),
			rationale:  "named track matches a catalog entity",
		}
	}

	if len(sig.Courses) == 1 && sig.HasIntent(types.IntentCourseInfo) &&
		!sig.HasIntent(types.IntentPrerequisite) && !sig.HasIntent(types.IntentWhatIf) {
		return &ruleResult{
			strategy:   types.StrategyDirectLookup,
			confidence: 1.0,
			matched:    append(courseSignals(sig), "intent:"+string(types.IntentCourseInfo)),
			rationale:  "single course code with a description intent",
		}
	}

	return nil
}

// progression fires when year and semester are both known and no
// prerequisite or what-if keyword competes for the query. Graduation-timeline
// questions resolve here too: the planner seeded from the detected term is
// the structured answer to "am I on track"; with the term unknown they fall
// through to generative carrying the partial signals.
func (r *Router) progression(sig *types.Signals, sctx *types.StudentContext) *ruleResult {
	year, semester := effectiveTerm(sig, sctx)
	if !year.Known() || !semester.Known() {
		return nil
	}
	if sig.HasIntent(types.IntentPrerequisite) || sig.HasIntent(types.IntentWhatIf) {
		return nil
	}
	matched := []string{"year:" + year.String(), "semester:" + semester.String()}
	rationale := "year and semester both known with no prerequisite keywords"
	if sig.HasIntent(types.IntentTimeline) {
		matched = append(matched, "intent:"+string(types.IntentTimeline))
		rationale = "graduation-timeline question with year and semester known"
	}
	return &ruleResult{
		strategy:   types.StrategyProgression,
		confidence: 0.9,
		matched:    matched,
		rationale:  rationale,
	}
}

// prerequisite routes prerequisite and what-if questions that resolved at
// least one course code.
func (r *Router) prerequisite(sig *types.Signals, _ *types.StudentContext) *ruleResult {
	if !sig.HasIntent(types.IntentPrerequisite) && !sig.HasIntent(types.IntentWhatIf) {
		return nil
	}
	if len(sig.Courses) == 0 && len(sig.UnresolvedMentions) == 0 {
		return nil
	}
	matched := courseSignals(sig)
	if sig.HasIntent(types.IntentPrerequisite) {
		matched = append(matched, "intent:"+string(types.IntentPrerequisite))
	}
	if sig.HasIntent(types.IntentWhatIf) {
		matched = append(matched, "intent:"+string(types.IntentWhatIf))
	}
	return &ruleResult{
		strategy:   types.StrategyPrerequisite,
		confidence: 0.85,
		matched:    matched,
		rationale:  "prerequisite or failure keywords with a resolved course code",
	}
}

// fallback is the terminal rule: no structured pattern matched, or the
// matched rule's confidence fell below the structured threshold.
func (r *Router) fallback(sig *types.Signals, below *ruleResult) *ruleResult {
	rationale := "no structured pattern matched"
	if below != nil {
		rationale = fmt.Sprintf("structured confidence %.2f below threshold %.2f",
			below.confidence, r.structuredThreshold)
	}
	// Carry forward whatever partial signals exist as fallback context.
	var matched []string
	matched = append(matched, courseSignals(sig)...)
	matched = append(matched, trackSignals(sig)...)
	if sig.Year.Known() {
		matched = append(matched, "year:"+sig.Year.String())
	}
	if sig.Semester.Known() {
		matched = append(matched, "semester:"+sig.Semester.String())
	}
	return &ruleResult{
		strategy:   types.StrategyGenerative,
		confidence: r.fallbackConfidence,
		matched:    matched,
		rationale:  rationale,
	}
}

// effectiveTerm overlays per-query detections on the session's accumulated
// year/semester. The query wins when it says something; the session fills
// the gaps.
func effectiveTerm(sig *types.Signals, sctx *types.StudentContext) (types.Year, types.Semester) {
	year := sig.Year
	semester := sig.Semester
	if sctx != nil {
		if !year.Known() {
			year = sctx.Year
		}
		if !semester.Known() {
			semester = sctx.Semester
		}
	}
	return year, semester
}

func courseSignals(sig *types.Signals) []string {
	out := make([]string, 0, len(sig.Courses)+len(sig.UnresolvedMentions))
	for _, c := range sig.Courses {
		out = append(out, "course:"+c)
	}
	for _, c := range sig.UnresolvedMentions {
		out = append(out, "unresolved:"+c)
	}
	return out
}

func trackSignals(sig *types.Signals) []string {
	out := make([]string, 0, len(sig.Tracks))
	for _, t := range sig.Tracks {
		out = append(out, "track:"+t)
	}
	return out
}

// EffectiveTerm exposes the session-overlay logic for the engine's planner
// dispatch.
func EffectiveTerm(sig *types.Signals, sctx *types.StudentContext) (types.Year, types.Semester) {
	return effectiveTerm(sig, sctx)
}

// Describe renders the decision for debug output.
func Describe(d *types.RoutingDecision) string {
	return fmt.Sprintf("%s (%.2f): %s [%s]",
		d.Strategy, d.Confidence, d.Rationale, strings.Join(d.MatchedSignals, ", "))
}
