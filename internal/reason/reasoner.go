// Package reason implements prerequisite eligibility and failure-impact
// reasoning over the catalog's prerequisite graph.
package reason

import (
	"fmt"
	"sort"

	"advisor/internal/catalog"
	"advisor/internal/logging"
	"advisor/internal/types"
)

// Reasoner answers eligibility and what-if questions. It holds only a
// reference to the read-only catalog.
type Reasoner struct {
	cat *catalog.Catalog
}

// New creates a reasoner over the given catalog.
func New(cat *catalog.Catalog) *Reasoner {
	return &Reasoner{cat: cat}
}

// CascadeEntry is one affected course in a failure cascade, with its BFS
// distance from the nearest failed/missing course.
type CascadeEntry struct {
	Code     string
	Distance int
}

// Eligibility is the reasoner's answer for one target course.
type Eligibility struct {
	Course   string
	Eligible bool

	// Missing are the direct prerequisites not yet completed, sorted.
	Missing []string

	// Cascade lists every dependent course whose eligibility is affected by
	// the missing/failed set, nearest first, then by code. No duplicates.
	Cascade []CascadeEntry
}

// Check computes eligibility for a target course against the student's
// completed and failed sets. A non-existent course is a NotFound condition,
// never a silent empty result.
func (r *Reasoner) Check(target string, sctx *types.StudentContext) (*Eligibility, error) {
	course, ok := r.cat.Course(target)
	if !ok {
		return nil, fmt.Errorf("course %s: %w", target, catalog.ErrNotFound)
	}

	el := &Eligibility{Course: course.Code, Eligible: true}
	for _, p := range course.Prerequisites {
		if !sctx.HasCompleted(p) {
			el.Eligible = false
			el.Missing = append(el.Missing, p)
		}
	}
	sort.Strings(el.Missing)

	// The cascade starts from everything the student is missing or has
	// failed: any dependent of those courses is affected.
	sources := make(map[string]bool)
	for _, m := range el.Missing {
		sources[m] = true
	}
	for f := range sctx.Failed {
		sources[f] = true
	}
	el.Cascade = r.cascade(sources, sctx)

	logging.Reasoner("eligibility %s: eligible=%v missing=%d cascade=%d",
		el.Course, el.Eligible, len(el.Missing), len(el.Cascade))
	return el, nil
}

// Impact is the forward consequence of failing one course.
type Impact struct {
	Failed  string
	Cascade []CascadeEntry

	// Remediation is the ordered retake/catch-up path: the failed course
	// first, then any of its unmet prerequisites discovered on the way.
	Remediation []string
}

// FailureImpact computes the cascading effect of failing a course: every
// course transitively requiring it that the student has not already
// completed.
func (r *Reasoner) FailureImpact(code string, sctx *types.StudentContext) (*Impact, error) {
	course, ok := r.cat.Course(code)
	if !ok {
		return nil, fmt.Errorf("course %s: %w", code, catalog.ErrNotFound)
	}

	imp := &Impact{Failed: course.Code}
	imp.Cascade = r.cascade(map[string]bool{course.Code: true}, sctx)
	imp.Remediation = r.RemediationPath(course.Code, sctx)

	logging.Reasoner("failure impact %s: cascade=%d", imp.Failed, len(imp.Cascade))
	return imp, nil
}

// cascade runs a multi-source BFS over the inverse ("required-by") edges,
// collecting every reachable course not already completed. Entries are
// deduplicated and ordered by graph distance, then canonical code, so output
// is reproducible.
func (r *Reasoner) cascade(sources map[string]bool, sctx *types.StudentContext) []CascadeEntry {
	type node struct {
		code string
		dist int
	}

	visited := make(map[string]bool)
	var queue []node
	// Seed deterministically: map iteration order must not leak into BFS.
	seeds := make([]string, 0, len(sources))
	for s := range sources {
		seeds = append(seeds, s)
	}
	sort.Strings(seeds)
	for _, s := range seeds {
		visited[s] = true
		queue = append(queue, node{code: s, dist: 0})
	}

	var out []CascadeEntry
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, dep := range r.cat.RequiredBy(cur.code) {
			if visited[dep] {
				continue
			}
			visited[dep] = true
			queue = append(queue, node{code: dep, dist: cur.dist + 1})
			if sctx.HasCompleted(dep) {
				continue
			}
			out = append(out, CascadeEntry{Code: dep, Distance: cur.dist + 1})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return out[i].Code < out[j].Code
	})
	return out
}

// RemediationPath returns the ordered list of courses the student still
// needs before (and including) the target: the target's unmet transitive
// prerequisites deepest-first, ending with the target itself if its direct
// prerequisites are unmet. Completed courses are skipped.
func (r *Reasoner) RemediationPath(target string, sctx *types.StudentContext) []string {
	closure := r.cat.TransitiveRequires(target)

	// Depth of each missing prerequisite: courses with no unmet
	// prerequisites of their own come first.
	var missing []string
	for _, c := range closure {
		if !sctx.HasCompleted(c) {
			missing = append(missing, c)
		}
	}

	depth := make(map[string]int)
	var depthOf func(code string, seen map[string]bool) int
	depthOf = func(code string, seen map[string]bool) int {
		if d, ok := depth[code]; ok {
			return d
		}
		if seen[code] {
			return 0 // acyclic by load invariant; guard anyway
		}
		seen[code] = true
		course, ok := r.cat.Course(code)
		if !ok {
			return 0
		}
		max := 0
		for _, p := range course.Prerequisites {
			if sctx.HasCompleted(p) {
				continue
			}
			if d := depthOf(p, seen) + 1; d > max {
				max = d
			}
		}
		depth[code] = max
		return max
	}

	for _, c := range missing {
		depthOf(c, make(map[string]bool))
	}
	sort.Slice(missing, func(i, j int) bool {
		if depth[missing[i]] != depth[missing[j]] {
			return depth[missing[i]] < depth[missing[j]]
		}
		return missing[i] < missing[j]
	})

	if !sctx.HasCompleted(target) {
		missing = append(missing, target)
	}
	return missing
}

// NearestUnmetPrerequisite returns the first missing direct prerequisite of
// a course, preferring failed courses (a retake is the most direct
// remediation). Empty when all direct prerequisites are met.
func (r *Reasoner) NearestUnmetPrerequisite(code string, sctx *types.StudentContext) string {
	course, ok := r.cat.Course(code)
	if !ok {
		return ""
	}
	var firstMissing string
	for _, p := range course.Prerequisites {
		if sctx.HasCompleted(p) {
			continue
		}
		if sctx.Failed[p] {
			return p
		}
		if firstMissing == "" {
			firstMissing = p
		}
	}
	return firstMissing
}
