package perception

import (
	"regexp"
	"sort"
	"strings"

	"advisor/internal/catalog"
	"advisor/internal/logging"
	"advisor/internal/types"
)

// courseMentionRe finds course-shaped tokens anywhere in a query:
// "CS 18000", "cs180", "CS-251".
var courseMentionRe = regexp.MustCompile(`(?i)\b([a-z]{2,8})[\s-]?([0-9]{3,5})\b`)

// Extractor derives a Signals bundle from raw query text. It holds only a
// reference to the read-only catalog and is safe for concurrent use.
type Extractor struct {
	cat *catalog.Catalog
}

// NewExtractor creates an extractor over the given catalog.
func NewExtractor(cat *catalog.Catalog) *Extractor {
	return &Extractor{cat: cat}
}

// Extract scans one query. Multiple matches for the same field resolve by
// first match in scan order; the conflict is recorded in Ambiguous. This
// tie-break is deterministic and documented: later clauses never override
// earlier ones.
func (e *Extractor) Extract(raw string) *types.Signals {
	sig := &types.Signals{RawQuery: raw}
	lower := strings.ToLower(raw)

	e.extractCourses(raw, sig)
	e.extractYear(lower, sig)
	e.extractSemester(lower, sig)
	e.extractTracks(lower, sig)
	e.extractIntents(lower, sig)

	logging.PerceptionDebug("extracted signals: year=%s semester=%s courses=%v tracks=%v intents=%v ambiguous=%v",
		sig.Year, sig.Semester, sig.Courses, sig.Tracks, sig.Intents, sig.Ambiguous)
	return sig
}

func (e *Extractor) extractCourses(raw string, sig *types.Signals) {
	seen := make(map[string]bool)
	for _, m := range courseMentionRe.FindAllStringSubmatch(raw, -1) {
		mention := m[1] + " " + m[2]
		code, ok := e.cat.ResolveCourse(mention)
		if ok {
			if !seen[code] {
				seen[code] = true
				sig.Courses = append(sig.Courses, code)
			}
			continue
		}
		// Only course-shaped tokens from known departments count as
		// unresolved mentions; anything else is noise ("fall 2025").
		if catalog.IsKnownDept(m[1]) && !seen[code] {
			seen[code] = true
			sig.UnresolvedMentions = append(sig.UnresolvedMentions, code)
		}
	}
}

func (e *Extractor) extractYear(lower string, sig *types.Signals) {
	best := -1
	matched := 0
	for _, entry := range yearSynonyms {
		idx := earliestIndex(lower, entry.phrases)
		if idx < 0 {
			continue
		}
		matched++
		if best < 0 || idx < best {
			best = idx
			sig.Year = entry.year
		}
	}
	if matched > 1 {
		sig.Ambiguous = append(sig.Ambiguous, "year")
	}
}

func (e *Extractor) extractSemester(lower string, sig *types.Signals) {
	best := -1
	matched := 0
	for _, entry := range semesterSynonyms {
		idx := earliestIndex(lower, entry.phrases)
		if idx < 0 {
			continue
		}
		matched++
		if best < 0 || idx < best {
			best = idx
			sig.Semester = entry.semester
		}
	}
	if matched > 1 {
		sig.Ambiguous = append(sig.Ambiguous, "semester")
	}
}

func (e *Extractor) extractTracks(lower string, sig *types.Signals) {
	type hit struct {
		idx  int
		name string
	}
	var hits []hit
	seen := make(map[string]bool)

	for alias, canonical := range e.cat.TrackAliases() {
		re, err := aliasPattern(alias)
		if err != nil {
			continue
		}
		loc := re.FindStringIndex(lower)
		if loc == nil {
			continue
		}
		if seen[canonical] {
			// Keep the earliest hit per canonical track.
			for i := range hits {
				if hits[i].name == canonical && loc[0] < hits[i].idx {
					hits[i].idx = loc[0]
				}
			}
			continue
		}
		seen[canonical] = true
		hits = append(hits, hit{idx: loc[0], name: canonical})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].idx != hits[j].idx {
			return hits[i].idx < hits[j].idx
		}
		return hits[i].name < hits[j].name
	})
	for _, h := range hits {
		sig.Tracks = append(sig.Tracks, h.name)
	}
}

// aliasPattern builds a word-bounded, case-insensitive matcher for a track
// alias. Word boundaries matter for short aliases: "mi" must not match
// inside "semester".
func aliasPattern(alias string) (*regexp.Regexp, error) {
	return regexp.Compile(`\b` + regexp.QuoteMeta(strings.ToLower(alias)) + `\b`)
}

func (e *Extractor) extractIntents(lower string, sig *types.Signals) {
	type hit struct {
		idx    int
		order  int
		intent types.Intent
	}
	var hits []hit
	for order, entry := range intentKeywords {
		idx := earliestIndex(lower, entry.phrases)
		if idx < 0 {
			continue
		}
		hits = append(hits, hit{idx: idx, order: order, intent: entry.intent})
	}

	// Order intents by first occurrence; table order breaks ties so the
	// result is fully deterministic.
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].idx != hits[j].idx {
			return hits[i].idx < hits[j].idx
		}
		return hits[i].order < hits[j].order
	})
	for _, h := range hits {
		sig.Intents = append(sig.Intents, h.intent)
	}
}

// earliestIndex returns the smallest index at which any phrase occurs, or -1.
func earliestIndex(lower string, phrases []string) int {
	best := -1
	for _, p := range phrases {
		idx := strings.Index(lower, p)
		if idx >= 0 && (best < 0 || idx < best) {
			best = idx
		}
	}
	return best
}
