// Package types provides shared type definitions used across advisor packages.
// This package exists to break import cycles between catalog, perception,
// router, and engine. Types here are foundational data structures with no
// complex dependencies.
package types

import (
	"time"
)

// =============================================================================
// CLASS YEAR & SEMESTER
// =============================================================================

// Year is a student's class standing. The zero value is YearUnknown, so an
// undetected year can never be mistaken for a real one.
type Year int

const (
	YearUnknown Year = iota
	YearFreshman
	YearSophomore
	YearJunior
	YearSenior
)

// String returns the lowercase label used in templates and logs.
func (y Year) String() string {
	switch y {
	case YearFreshman:
		return "freshman"
	case YearSophomore:
		return "sophomore"
	case YearJunior:
		return "junior"
	case YearSenior:
		return "senior"
	default:
		return "unknown"
	}
}

// Known reports whether the year was actually detected.
func (y Year) Known() bool {
	return y > YearUnknown && y <= YearSenior
}

// ParseYear maps a canonical label back to a Year. Unrecognized labels map
// to YearUnknown.
func ParseYear(s string) Year {
	switch s {
	case "freshman":
		return YearFreshman
	case "sophomore":
		return YearSophomore
	case "junior":
		return YearJunior
	case "senior":
		return YearSenior
	default:
		return YearUnknown
	}
}

// Semester is an academic term. Zero value is SemesterUnknown.
type Semester int

const (
	SemesterUnknown Semester = iota
	SemesterFall
	SemesterSpring
)

func (s Semester) String() string {
	switch s {
	case SemesterFall:
		return "fall"
	case SemesterSpring:
		return "spring"
	default:
		return "unknown"
	}
}

// Known reports whether the semester was actually detected.
func (s Semester) Known() bool {
	return s == SemesterFall || s == SemesterSpring
}

// ParseSemester maps a canonical label back to a Semester.
func ParseSemester(s string) Semester {
	switch s {
	case "fall":
		return SemesterFall
	case "spring":
		return SemesterSpring
	default:
		return SemesterUnknown
	}
}

// =============================================================================
// INTENTS
// =============================================================================

// Intent is a keyword-detected question category. The perception package owns
// the detection tables; the type lives here so the router and engine can
// match on it without importing perception.
type Intent string

const (
	IntentPrerequisite Intent = "prerequisite"
	IntentWhatIf       Intent = "what_if"
	IntentTimeline     Intent = "graduation_timeline"
	IntentTrackCompare Intent = "track_comparison"
	IntentTrackInfo    Intent = "track_info"
	IntentCourseInfo   Intent = "course_description"
	IntentCODO         Intent = "codo_requirements"
	IntentCareer       Intent = "career_search"

	// Session statements ("I completed CS 18000") update the student context
	// instead of asking a question.
	IntentCompletedStatement Intent = "completed_statement"
	IntentFailedStatement    Intent = "failed_statement"
)

// =============================================================================
// SIGNALS
// =============================================================================

// Signals is the structured bundle the extractor derives from one raw query.
// Absent detections stay at their zero values; nothing is ever guessed.
type Signals struct {
	RawQuery string

	Year     Year
	Semester Semester

	// Courses are canonical catalog codes in scan order, deduplicated.
	Courses []string

	// UnresolvedMentions are normalized course-shaped tokens that matched no
	// catalog entry. Kept so downstream lookups can fail as "not found"
	// rather than being silently dropped.
	UnresolvedMentions []string

	// Tracks are canonical track names in scan order.
	Tracks []string

	// Intents are detected categories ordered by first occurrence.
	Intents []Intent

	// Ambiguous lists fields where conflicting keyword matches were seen
	// (e.g. both "fall" and "spring"). The first match in scan order wins;
	// the conflict is recorded for the audit trail.
	Ambiguous []string
}

// HasIntent reports whether the given intent was detected.
func (s *Signals) HasIntent(in Intent) bool {
	for _, i := range s.Intents {
		if i == in {
			return true
		}
	}
	return false
}

// =============================================================================
// STUDENT CONTEXT
// =============================================================================

// StudentContext is the per-session academic state. It is owned exclusively
// by one session; concurrent queries for the same session must be serialized
// by the caller. It is never persisted beyond the session.
type StudentContext struct {
	SessionID string

	Completed map[string]bool
	Failed    map[string]bool

	Year     Year
	Semester Semester
	Tracks   []string
}

// NewStudentContext returns an empty context for a session.
func NewStudentContext(sessionID string) *StudentContext {
	return &StudentContext{
		SessionID: sessionID,
		Completed: make(map[string]bool),
		Failed:    make(map[string]bool),
	}
}

// Complete records a passed course. A completed course is removed from the
// failed set (a retake supersedes the failure).
func (c *StudentContext) Complete(code string) {
	c.Completed[code] = true
	delete(c.Failed, code)
}

// Fail records a failed course. A failed course no longer counts as
// completed.
func (c *StudentContext) Fail(code string) {
	c.Failed[code] = true
	delete(c.Completed, code)
}

// HasCompleted reports whether the course counts as passed.
func (c *StudentContext) HasCompleted(code string) bool {
	return c.Completed[code]
}

// =============================================================================
// ROUTING
// =============================================================================

// Strategy is the resolution path chosen by the classifier. An explicit
// tagged value, not runtime type inspection.
type Strategy string

const (
	StrategyDirectLookup Strategy = "direct_lookup"
	StrategyPeopleSearch Strategy = "people_search"
	StrategyProgression  Strategy = "progression_planner"
	StrategyPrerequisite Strategy = "prereq_reasoner"
	StrategySession      Strategy = "session_update"
	StrategyGenerative   Strategy = "generative_fallback"
)

// RoutingDecision is the classifier's output. Every decision carries the
// signals that matched and a human-readable rationale so routing is always
// explainable after the fact.
type RoutingDecision struct {
	ID             string    `json:"id"`
	SessionID      string    `json:"session_id"`
	Strategy       Strategy  `json:"strategy"`
	Confidence     float64   `json:"confidence"`
	MatchedSignals []string  `json:"matched_signals"`
	Rationale      string    `json:"rationale"`
	DecidedAt      time.Time `json:"decided_at"`
}

// =============================================================================
// ANSWERS
// =============================================================================

// SourceTag identifies which component produced an answer, so consumers can
// distinguish grounded answers from generative ones.
type SourceTag string

const (
	SourceCourseCatalog SourceTag = "course_catalog"
	SourceTrackCatalog  SourceTag = "track_catalog"
	SourceCODO          SourceTag = "codo_requirements"
	SourcePrereqGraph   SourceTag = "prerequisite_graph"
	SourceProgression   SourceTag = "progression_template"
	SourcePeopleSearch  SourceTag = "people_search"
	SourceSession       SourceTag = "session_update"
	SourceGenerative    SourceTag = "generative"
)

// Answer is the uniform result record returned to the caller.
type Answer struct {
	ResponseText string    `json:"response_text"`
	Confidence   float64   `json:"confidence"`
	Source       SourceTag `json:"source_tag"`

	// MatchedTrack is set when the answer is about a specific track,
	// empty otherwise.
	MatchedTrack string `json:"matched_track,omitempty"`
}
