// Package plan recommends a semester course load from the degree-progression
// templates, adjusted for what the student has already completed or failed.
package plan

import (
	"fmt"
	"strings"

	"advisor/internal/catalog"
	"advisor/internal/logging"
	"advisor/internal/reason"
	"advisor/internal/types"
)

// CourseStatus tags one planned course.
type CourseStatus string

const (
	StatusRecommended CourseStatus = "recommended"
	StatusBlocked     CourseStatus = "blocked"
)

// PlannedCourse is one entry of the adjusted recommendation.
type PlannedCourse struct {
	Code   string
	Title  string
	Status CourseStatus

	// Replacement is the nearest unmet prerequisite suggested instead of a
	// blocked course.
	Replacement string
}

// Plan is the planner's output for one (year, semester) pair.
type Plan struct {
	Year     types.Year
	Semester types.Semester

	// Available is false when no template exists for the pair - a defined
	// "no recommendation available" outcome, not an error.
	Available bool

	Courses   []PlannedCourse
	Rationale string
}

// Planner adjusts progression templates for a student context.
type Planner struct {
	cat      *catalog.Catalog
	reasoner *reason.Reasoner
}

// New creates a planner sharing the reasoner's prerequisite logic.
func New(cat *catalog.Catalog, reasoner *reason.Reasoner) *Planner {
	return &Planner{cat: cat, reasoner: reasoner}
}

// Recommend looks up the template for (year, semester) and adjusts it:
// completed courses are dropped, courses with unmet prerequisites are
// flagged blocked with the nearest unmet prerequisite as the suggested
// replacement.
func (p *Planner) Recommend(year types.Year, semester types.Semester, sctx *types.StudentContext) *Plan {
	out := &Plan{Year: year, Semester: semester}

	template, ok := p.cat.Template(year.String(), semester.String())
	if !ok {
		out.Rationale = fmt.Sprintf("no progression template is defined for %s %s", year, semester)
		logging.Planner("template miss: %s/%s", year, semester)
		return out
	}
	out.Available = true

	var kept, dropped, blocked []string
	for _, code := range template {
		if sctx.HasCompleted(code) {
			dropped = append(dropped, code)
			continue
		}

		course, found := p.cat.Course(code)
		title := ""
		if found {
			title = course.Title
		}

		if unmet := p.reasoner.NearestUnmetPrerequisite(code, sctx); unmet != "" {
			out.Courses = append(out.Courses, PlannedCourse{
				Code:        code,
				Title:       title,
				Status:      StatusBlocked,
				Replacement: unmet,
			})
			blocked = append(blocked, code)
			continue
		}

		out.Courses = append(out.Courses, PlannedCourse{
			Code:   code,
			Title:  title,
			Status: StatusRecommended,
		})
		kept = append(kept, code)
	}

	out.Rationale = buildRationale(year, semester, kept, dropped, blocked)
	logging.Planner("plan %s/%s: %d recommended, %d dropped, %d blocked",
		year, semester, len(kept), len(dropped), len(blocked))
	return out
}

func buildRationale(year types.Year, semester types.Semester, kept, dropped, blocked []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Recommended load for a %s in %s semester.", year, semester)
	if len(dropped) > 0 {
		fmt.Fprintf(&b, " Already completed and removed: %s.", strings.Join(dropped, ", "))
	}
	if len(blocked) > 0 {
		fmt.Fprintf(&b, " Blocked by unmet prerequisites: %s; the nearest unmet prerequisite is suggested instead.",
			strings.Join(blocked, ", "))
	}
	if len(kept) == 0 && len(dropped) > 0 && len(blocked) == 0 {
		b.WriteString(" Everything in this template is already complete.")
	}
	return b.String()
}
