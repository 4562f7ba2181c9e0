package catalog

import (
	"regexp"
	"strings"
)

// deptAliases expands known department abbreviations to their catalog form.
var deptAliases = map[string]string{
	"CS":      "CS",
	"COMPSCI": "CS",
	"MA":      "MA",
	"MATH":    "MA",
	"STAT":    "STAT",
	"STATS":   "STAT",
	"PHYS":    "PHYS",
	"PHYSICS": "PHYS",
	"ECON":    "ECON",
	"ENGL":    "ENGL",
}

var courseMentionRe = regexp.MustCompile(`^([A-Za-z]{2,8})[\s-]*([0-9]{3,5})$`)

// IsKnownDept reports whether a token is a recognized department
// abbreviation. The extractor uses it to keep course-shaped noise ("fall
// 2025") out of the unresolved-mention list.
func IsKnownDept(s string) bool {
	_, ok := deptAliases[strings.ToUpper(strings.TrimSpace(s))]
	return ok
}

// Normalize canonicalizes a free-text course mention against the catalog.
// "cs180", "CS 180" and "CS 18000" all normalize to "CS 18000" when that
// code exists. Numeric padding is applied only when it lands on an
// unambiguous catalog entry; otherwise the cleaned-up mention is returned
// unchanged so downstream lookups fail as "not found" rather than guessing.
// Normalize is idempotent.
func (c *Catalog) Normalize(token string) string {
	cleaned := canonicalSpacing(strings.ToUpper(strings.TrimSpace(token)))

	m := courseMentionRe.FindStringSubmatch(cleaned)
	if m == nil {
		return cleaned
	}

	dept := m[1]
	if alias, ok := deptAliases[dept]; ok {
		dept = alias
	}
	num := m[2]

	// Exact canonical width first.
	if code := dept + " " + num; c.has(code) {
		return code
	}

	// Pad shorter numbers to the canonical five-digit width, but only when
	// the padded form actually exists.
	if len(num) < 5 {
		padded := num + strings.Repeat("0", 5-len(num))
		if code := dept + " " + padded; c.has(code) {
			return code
		}
	}

	return dept + " " + num
}

// ResolveCourse normalizes a mention and reports whether it names a catalog
// course.
func (c *Catalog) ResolveCourse(token string) (string, bool) {
	code := c.Normalize(token)
	return code, c.has(code)
}

func (c *Catalog) has(code string) bool {
	_, ok := c.courses[code]
	return ok
}
