package perception

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"advisor/internal/catalog"
	"advisor/internal/types"
)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	cat, err := catalog.LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault: %v", err)
	}
	return NewExtractor(cat)
}

func TestExtractCourses(t *testing.T) {
	e := newTestExtractor(t)

	tests := []struct {
		name           string
		query          string
		wantCourses    []string
		wantUnresolved []string
	}{
		{"canonical code", "what are the prereqs for CS 25100?", []string{"CS 25100"}, nil},
		{"compact lowercase", "tell me about cs180", []string{"CS 18000"}, nil},
		{"alias department", "do I need math 161 first?", []string{"MA 16100"}, nil},
		{"multiple deduped", "CS 18000 and cs 180 and CS 18200", []string{"CS 18000", "CS 18200"}, nil},
		{"unknown course in known dept", "what is CS 99999?", nil, []string{"CS 99999"}},
		{"course shaped noise skipped", "what about fall 2025?", nil, nil},
		{"no mention", "can I order a pizza to my dorm?", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := e.Extract(tt.query)
			if diff := cmp.Diff(tt.wantCourses, sig.Courses); diff != "" {
				t.Errorf("Courses mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantUnresolved, sig.UnresolvedMentions); diff != "" {
				t.Errorf("UnresolvedMentions mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractYearAndSemester(t *testing.T) {
	e := newTestExtractor(t)

	tests := []struct {
		name          string
		query         string
		wantYear      types.Year
		wantSemester  types.Semester
		wantAmbiguous []string
	}{
		{"both present", "I'm a sophomore, what should I take in the fall?", types.YearSophomore, types.SemesterFall, nil},
		{"neither present", "what are the prereqs for CS 25100?", types.YearUnknown, types.SemesterUnknown, nil},
		{"synonym year", "I'm a first-year student", types.YearFreshman, types.SemesterUnknown, nil},
		{"conflicting semesters keep first", "should I take it in fall or spring?", types.YearUnknown, types.SemesterFall, []string{"semester"}},
		{"conflicting years keep first", "as a junior, or maybe senior, what next?", types.YearJunior, types.SemesterUnknown, []string{"year"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := e.Extract(tt.query)
			if sig.Year != tt.wantYear {
				t.Errorf("Year = %s, want %s", sig.Year, tt.wantYear)
			}
			if sig.Semester != tt.wantSemester {
				t.Errorf("Semester = %s, want %s", sig.Semester, tt.wantSemester)
			}
			if diff := cmp.Diff(tt.wantAmbiguous, sig.Ambiguous); diff != "" {
				t.Errorf("Ambiguous mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractTracks(t *testing.T) {
	e := newTestExtractor(t)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"full name", "tell me about the Machine Intelligence track", []string{"Machine Intelligence"}},
		{"short alias", "what does the MI track require?", []string{"Machine Intelligence"}},
		{"two tracks in order", "difference between SE and MI?", []string{"Software Engineering", "Machine Intelligence"}},
		{"alias needs word boundary", "this semester I might switch", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := e.Extract(tt.query)
			if diff := cmp.Diff(tt.want, sig.Tracks); diff != "" {
				t.Errorf("Tracks mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractIntents(t *testing.T) {
	e := newTestExtractor(t)

	tests := []struct {
		name  string
		query string
		want  []types.Intent
	}{
		{"prerequisite", "what are the prerequisites for CS 25100?", []types.Intent{types.IntentPrerequisite}},
		{"what if", "what if I fail CS 18000?", []types.Intent{types.IntentWhatIf}},
		{"failed statement carries both", "I failed CS 18000", []types.Intent{types.IntentFailedStatement, types.IntentWhatIf}},
		{"completed statement", "I took CS 18000 last year", []types.Intent{types.IntentCompletedStatement}},
		{"codo", "what are the CODO requirements?", []types.Intent{types.IntentCODO}},
		{"career", "can you find someone who works at Google?", []types.Intent{types.IntentCareer}},
		{"no intent", "can I order a pizza to my dorm?", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := e.Extract(tt.query)
			if diff := cmp.Diff(tt.want, sig.Intents); diff != "" {
				t.Errorf("Intents mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// Extraction must be a pure function of the input text.
func TestExtractDeterministic(t *testing.T) {
	e := newTestExtractor(t)
	const query = "I'm a sophomore in the MI track; prereqs for CS 25100 and CS 38100 this fall?"

	first := e.Extract(query)
	for i := 0; i < 10; i++ {
		again := e.Extract(query)
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("extraction diverged on run %d (-first +again):\n%s", i, diff)
		}
	}
}
