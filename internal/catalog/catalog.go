// Package catalog holds the course knowledge base: courses, prerequisite
// edges, tracks, progression templates and CODO requirements. The catalog is
// read-only after Load; queries need no locking.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"advisor/internal/kernel"
	"advisor/internal/logging"
)

// Catalog is the loaded, validated knowledge base.
type Catalog struct {
	courses     map[string]*Course
	courseCodes []string

	tracks       map[string]*Track
	trackNames   []string
	trackAliases map[string]string // lowercased alias -> canonical name

	templates map[TemplateKey][]string
	codo      *CODORequirements

	// requiredBy holds the inverse prerequisite edges: for each course, the
	// courses that list it as a direct prerequisite. Sorted for determinism.
	requiredBy map[string][]string

	kern *kernel.Kernel
}

// build assembles and validates a catalog from parsed file contents.
// Any integrity violation is fatal: the engine must not accept queries over
// a broken graph.
func build(cf *coursesFile, tf *tracksFile, pf *templatesFile) (*Catalog, error) {
	c := &Catalog{
		courses:      make(map[string]*Course),
		tracks:       make(map[string]*Track),
		trackAliases: make(map[string]string),
		templates:    make(map[TemplateKey][]string),
		requiredBy:   make(map[string][]string),
		codo:         pf.CODO,
	}

	for i := range cf.Courses {
		course := &cf.Courses[i]
		code := canonicalSpacing(course.Code)
		course.Code = code
		if _, dup := c.courses[code]; dup {
			return nil, &LoadError{Kind: "duplicate_course", Detail: code}
		}
		c.courses[code] = course
		c.courseCodes = append(c.courseCodes, code)
	}
	sort.Strings(c.courseCodes)

	// Prerequisite edges must reference known courses.
	var edges []kernel.Edge
	for _, code := range c.courseCodes {
		course := c.courses[code]
		for i, p := range course.Prerequisites {
			p = canonicalSpacing(p)
			course.Prerequisites[i] = p
			if _, ok := c.courses[p]; !ok {
				return nil, &LoadError{
					Kind:   "dangling_reference",
					Detail: fmt.Sprintf("%s requires unknown course %s", code, p),
				}
			}
			edges = append(edges, kernel.Edge{Course: code, Requires: p})
			c.requiredBy[p] = append(c.requiredBy[p], code)
		}
	}
	for _, dependents := range c.requiredBy {
		sort.Strings(dependents)
	}

	// Track references must resolve.
	for i := range tf.Tracks {
		track := &tf.Tracks[i]
		for _, r := range track.Required {
			if _, ok := c.courses[canonicalSpacing(r)]; !ok {
				return nil, &LoadError{
					Kind:   "dangling_reference",
					Detail: fmt.Sprintf("track %q requires unknown course %s", track.Name, r),
				}
			}
		}
		for _, g := range track.Selectives {
			for _, r := range g.Courses {
				if _, ok := c.courses[canonicalSpacing(r)]; !ok {
					return nil, &LoadError{
						Kind:   "dangling_reference",
						Detail: fmt.Sprintf("track %q selective %q references unknown course %s", track.Name, g.Name, r),
					}
				}
			}
		}
		c.tracks[track.Name] = track
		c.trackNames = append(c.trackNames, track.Name)
		c.trackAliases[strings.ToLower(track.Name)] = track.Name
		for _, a := range track.Aliases {
			c.trackAliases[strings.ToLower(a)] = track.Name
		}
	}

	for _, t := range pf.Templates {
		key := TemplateKey{Year: t.Year, Semester: t.Semester}
		for _, r := range t.Courses {
			if _, ok := c.courses[canonicalSpacing(r)]; !ok {
				return nil, &LoadError{
					Kind:   "dangling_reference",
					Detail: fmt.Sprintf("template %s/%s references unknown course %s", t.Year, t.Semester, r),
				}
			}
		}
		c.templates[key] = append([]string(nil), t.Courses...)
	}

	// Acyclicity is derived by the Mangle kernel: any requires_all(C, C)
	// fact means a cycle.
	kern, err := kernel.New(edges)
	if err != nil {
		return nil, &LoadError{Kind: "parse", Detail: fmt.Sprintf("kernel build: %v", err)}
	}
	cyclic, err := kern.Cycles()
	if err != nil {
		return nil, &LoadError{Kind: "parse", Detail: fmt.Sprintf("cycle check: %v", err)}
	}
	if len(cyclic) > 0 {
		return nil, &LoadError{
			Kind:   "cycle",
			Detail: fmt.Sprintf("prerequisite graph contains cycles through: %s", strings.Join(cyclic, ", ")),
		}
	}
	c.kern = kern

	logging.Catalog("Catalog loaded: %d courses, %d tracks, %d templates",
		len(c.courses), len(c.tracks), len(c.templates))
	return c, nil
}

// Course returns a catalog entry by canonical code.
func (c *Catalog) Course(code string) (*Course, bool) {
	course, ok := c.courses[code]
	return course, ok
}

// Courses returns all canonical codes, sorted.
func (c *Catalog) Courses() []string {
	return c.courseCodes
}

// Track resolves a track by canonical name or alias (case-insensitive).
func (c *Catalog) Track(name string) (*Track, bool) {
	canonical, ok := c.trackAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, false
	}
	return c.tracks[canonical], true
}

// TrackNames returns canonical track names in catalog order.
func (c *Catalog) TrackNames() []string {
	return c.trackNames
}

// TrackAliases returns the lowercased alias -> canonical name mapping,
// including canonical names themselves. The extractor matches against it.
func (c *Catalog) TrackAliases() map[string]string {
	return c.trackAliases
}

// Template returns the recommended course list for a (year, semester) pair.
// A missing pair is a defined lookup miss.
func (c *Catalog) Template(year, semester string) ([]string, bool) {
	courses, ok := c.templates[TemplateKey{Year: year, Semester: semester}]
	return courses, ok
}

// CODO returns the change-of-degree-objective requirements, if loaded.
func (c *Catalog) CODO() (*CODORequirements, bool) {
	return c.codo, c.codo != nil
}

// RequiredBy returns the courses that list code as a direct prerequisite,
// sorted.
func (c *Catalog) RequiredBy(code string) []string {
	return c.requiredBy[code]
}

// TransitiveRequires returns the full prerequisite closure of a course from
// the kernel, sorted.
func (c *Catalog) TransitiveRequires(code string) []string {
	out, err := c.kern.TransitiveRequires(code)
	if err != nil {
		logging.Get(logging.CategoryCatalog).Error("closure query for %s failed: %v", code, err)
		return nil
	}
	return out
}

// Stats summarizes the loaded catalog for the status surface.
func (c *Catalog) Stats() map[string]int {
	return map[string]int{
		"courses":   len(c.courses),
		"tracks":    len(c.tracks),
		"templates": len(c.templates),
	}
}

// canonicalSpacing collapses interior whitespace to a single space and trims.
func canonicalSpacing(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
