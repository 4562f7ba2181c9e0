// Package articulation assembles structured results and generative fallback
// text into the uniform answer record returned to callers. Structured
// sources keep the confidence of the producing component; generative output
// always carries the fixed low-trust constant so consumers can tell grounded
// answers from ungrounded ones.
package articulation

import (
	"fmt"
	"strings"

	"advisor/internal/catalog"
	"advisor/internal/plan"
	"advisor/internal/reason"
	"advisor/internal/types"
)

// Assembler renders answers. Stateless apart from the fallback constant.
type Assembler struct {
	fallbackConfidence float64
}

// New creates an assembler. confidence <= 0 selects the default of 0.30.
func New(fallbackConfidence float64) *Assembler {
	if fallbackConfidence <= 0 {
		fallbackConfidence = 0.30
	}
	return &Assembler{fallbackConfidence: fallbackConfidence}
}

// FromCourse renders a verbatim catalog entry.
func (a *Assembler) FromCourse(c *catalog.Course) types.Answer {
	var b strings.Builder
	fmt.Fprintf(&b, "%s - %s (%.1f credits)\n%s", c.Code, c.Title, c.Credits, c.Description)
	if len(c.Prerequisites) > 0 {
		fmt.Fprintf(&b, "\nPrerequisites: %s.", strings.Join(c.Prerequisites, ", "))
	} else {
		b.WriteString("\nPrerequisites: none.")
	}
	if len(c.Outcomes) > 0 {
		fmt.Fprintf(&b, "\nLearning outcomes: %s.", strings.Join(c.Outcomes, "; "))
	}
	return types.Answer{
		ResponseText: b.String(),
		Confidence:   1.0,
		Source:       types.SourceCourseCatalog,
	}
}

// FromTrack renders one track's requirements.
func (a *Assembler) FromTrack(t *catalog.Track) types.Answer {
	return types.Answer{
		ResponseText: renderTrack(t),
		Confidence:   1.0,
		Source:       types.SourceTrackCatalog,
		MatchedTrack: t.Name,
	}
}

// FromTrackComparison renders two tracks side by side.
func (a *Assembler) FromTrackComparison(first, second *catalog.Track) types.Answer {
	text := renderTrack(first) + "\n\n" + renderTrack(second)
	return types.Answer{
		ResponseText: text,
		Confidence:   1.0,
		Source:       types.SourceTrackCatalog,
		MatchedTrack: first.Name,
	}
}

func renderTrack(t *catalog.Track) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s track requirements:\n", t.Name)
	fmt.Fprintf(&b, "Required: %s.", strings.Join(t.Required, ", "))
	for _, g := range t.Selectives {
		fmt.Fprintf(&b, "\n%s: choose %d of %s.", g.Name, g.MinCount, strings.Join(g.Courses, ", "))
	}
	return b.String()
}

// FromCODO renders the change-of-degree-objective requirements verbatim.
func (a *Assembler) FromCODO(c *catalog.CODORequirements) types.Answer {
	var b strings.Builder
	fmt.Fprintf(&b, "CODO requirements: minimum GPA %.1f; grade %s or better in %s.",
		c.MinGPA, c.MinGrade, strings.Join(c.Required, ", "))
	if c.Notes != "" {
		b.WriteString("\n" + c.Notes)
	}
	return types.Answer{
		ResponseText: b.String(),
		Confidence:   1.0,
		Source:       types.SourceCODO,
	}
}

// FromEligibility renders the reasoner's verdict. Confidence comes from the
// routing decision that selected the reasoner.
func (a *Assembler) FromEligibility(el *reason.Eligibility, confidence float64) types.Answer {
	var b strings.Builder
	if el.Eligible {
		fmt.Fprintf(&b, "You are eligible to take %s: all direct prerequisites are satisfied.", el.Course)
	} else {
		fmt.Fprintf(&b, "You are not yet eligible to take %s. Missing prerequisites: %s.",
			el.Course, strings.Join(el.Missing, ", "))
	}
	if len(el.Cascade) > 0 {
		b.WriteString("\nDownstream courses affected (nearest first): ")
		b.WriteString(joinCascade(el.Cascade))
		b.WriteString(".")
	}
	return types.Answer{
		ResponseText: b.String(),
		Confidence:   confidence,
		Source:       types.SourcePrereqGraph,
	}
}

// FromImpact renders a failure cascade with the remediation path.
func (a *Assembler) FromImpact(imp *reason.Impact, confidence float64) types.Answer {
	var b strings.Builder
	if len(imp.Cascade) == 0 {
		fmt.Fprintf(&b, "Failing %s does not block any further courses.", imp.Failed)
	} else {
		fmt.Fprintf(&b, "Failing %s affects %d downstream course(s), nearest first: %s.",
			imp.Failed, len(imp.Cascade), joinCascade(imp.Cascade))
	}
	if len(imp.Remediation) > 0 {
		fmt.Fprintf(&b, "\nSuggested catch-up order: %s.", strings.Join(imp.Remediation, ", "))
	}
	return types.Answer{
		ResponseText: b.String(),
		Confidence:   confidence,
		Source:       types.SourcePrereqGraph,
	}
}

func joinCascade(entries []reason.CascadeEntry) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = e.Code
	}
	return strings.Join(parts, ", ")
}

// FromPlan renders the planner's recommendation. A missing template renders
// the defined "no recommendation available" outcome at reduced confidence.
func (a *Assembler) FromPlan(p *plan.Plan, confidence float64) types.Answer {
	if !p.Available {
		return types.Answer{
			ResponseText: p.Rationale,
			Confidence:   a.fallbackConfidence,
			Source:       types.SourceProgression,
		}
	}

	var b strings.Builder
	b.WriteString(p.Rationale)
	for _, c := range p.Courses {
		switch c.Status {
		case plan.StatusBlocked:
			fmt.Fprintf(&b, "\n- %s (%s): blocked; take %s first", c.Code, c.Title, c.Replacement)
		default:
			fmt.Fprintf(&b, "\n- %s (%s)", c.Code, c.Title)
		}
	}
	return types.Answer{
		ResponseText: b.String(),
		Confidence:   confidence,
		Source:       types.SourceProgression,
	}
}

// FromGenerative wraps fallback text with the fixed low-trust constant.
func (a *Assembler) FromGenerative(text string) types.Answer {
	return types.Answer{
		ResponseText: text,
		Confidence:   a.fallbackConfidence,
		Source:       types.SourceGenerative,
	}
}

// FromSessionUpdate confirms a student-record statement.
func (a *Assembler) FromSessionUpdate(completed, failed []string) types.Answer {
	var parts []string
	if len(completed) > 0 {
		parts = append(parts, fmt.Sprintf("recorded as completed: %s", strings.Join(completed, ", ")))
	}
	if len(failed) > 0 {
		parts = append(parts, fmt.Sprintf("recorded as failed: %s", strings.Join(failed, ", ")))
	}
	return types.Answer{
		ResponseText: "Got it - " + strings.Join(parts, "; ") + ".",
		Confidence:   1.0,
		Source:       types.SourceSession,
	}
}

// FromPeopleSearch wraps the people-search collaborator's result.
func (a *Assembler) FromPeopleSearch(text string) types.Answer {
	return types.Answer{
		ResponseText: text,
		Confidence:   0.9,
		Source:       types.SourcePeopleSearch,
	}
}

// NotFound renders the structured "don't know" answer for a missing course
// or track reference.
func (a *Assembler) NotFound(mention string, source types.SourceTag) types.Answer {
	return types.Answer{
		ResponseText: fmt.Sprintf("I couldn't find %q in the course catalog, so I can't answer that confidently.", mention),
		Confidence:   a.fallbackConfidence,
		Source:       source,
	}
}

// Unavailable is the degraded response when an external collaborator fails
// or times out, and when no structured or generative path produced anything.
func (a *Assembler) Unavailable() types.Answer {
	return types.Answer{
		ResponseText: "I'm unable to answer that confidently right now. Please try again or rephrase the question.",
		Confidence:   a.fallbackConfidence,
		Source:       types.SourceGenerative,
	}
}
