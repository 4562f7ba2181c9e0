// Package perception derives structured signals from free-text student
// questions: class year, semester, course codes, track names and intent
// keywords. Detection is table-driven and deterministic; absent signals stay
// absent rather than being guessed.
package perception

import (
	"advisor/internal/types"
)

// yearSynonyms maps each class year to its trigger phrases. Phrases are
// matched case-insensitively against the raw query.
var yearSynonyms = []struct {
	year    types.Year
	phrases []string
}{
	{types.YearFreshman, []string{"freshman", "freshmen", "first year", "first-year", "1st year"}},
	{types.YearSophomore, []string{"sophomore", "second year", "second-year", "2nd year"}},
	{types.YearJunior, []string{"junior", "third year", "third-year", "3rd year"}},
	{types.YearSenior, []string{"senior", "fourth year", "fourth-year", "4th year", "final year"}},
}

var semesterSynonyms = []struct {
	semester types.Semester
	phrases  []string
}{
	{types.SemesterFall, []string{"fall", "autumn"}},
	{types.SemesterSpring, []string{"spring"}},
}

// intentKeywords is evaluated in fixed order. Session statements come first
// so that "I failed CS 18000" carries the statement intent in addition to
// the what-if keyword it inevitably also triggers; the router sorts out the
// priority.
var intentKeywords = []struct {
	intent  types.Intent
	phrases []string
}{
	{types.IntentCompletedStatement, []string{
		"i completed", "i've completed", "i have completed", "i took",
		"i have taken", "i've taken", "i passed", "i finished",
	}},
	{types.IntentFailedStatement, []string{
		"i failed", "i've failed", "i have failed", "i didn't pass",
		"i did not pass", "i flunked",
	}},
	{types.IntentPrerequisite, []string{
		"prerequisite", "prereq", "before i can take", "required before",
		"need to take before", "requirements for taking",
	}},
	{types.IntentWhatIf, []string{
		"what if", "fail", "failing", "retake", "didn't pass", "did not pass",
	}},
	{types.IntentTimeline, []string{
		"graduate", "graduation", "timeline", "how long", "finish my degree",
		"on track to",
	}},
	{types.IntentTrackCompare, []string{
		"compare", "difference between", "versus", " vs ", "which track",
	}},
	{types.IntentTrackInfo, []string{
		"track", "concentration", "specialization",
	}},
	{types.IntentCODO, []string{
		"codo", "change of degree", "change my major", "switch into",
		"transfer into",
	}},
	{types.IntentCareer, []string{
		"alumni", "alumnus", "works at", "working at", "career", "networking",
		"find someone",
	}},
	{types.IntentCourseInfo, []string{
		"what is", "describe", "description", "tell me about", "learn in",
		"about the course",
	}},
}
