package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"advisor/internal/catalog"
	"advisor/internal/config"
	"advisor/internal/people"
	"advisor/internal/perception"
	"advisor/internal/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// go.opencensus.io starts a background worker in package init that
		// can never be stopped; ignore it so goleak can verify our own code.
		goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"),
	)
}

func newTestEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	cat, err := catalog.LoadDefault()
	require.NoError(t, err)
	cfg := config.Default()
	cfg.LLM.Provider = "none"
	return New(cfg, cat, opts)
}

func TestDirectCourseLookup(t *testing.T) {
	e := newTestEngine(t, Options{})

	answer, decision := e.ProcessQuery(context.Background(), "s1", "tell me about CS 18000")
	assert.Equal(t, types.StrategyDirectLookup, decision.Strategy)
	assert.Equal(t, types.SourceCourseCatalog, answer.Source)
	assert.Equal(t, 1.0, answer.Confidence)
	assert.Contains(t, answer.ResponseText, "Problem Solving and Object-Oriented Programming")
}

func TestTrackLookupSetsMatchedTrack(t *testing.T) {
	e := newTestEngine(t, Options{})

	answer, _ := e.ProcessQuery(context.Background(), "s1", "tell me about the MI track")
	assert.Equal(t, types.SourceTrackCatalog, answer.Source)
	assert.Equal(t, "Machine Intelligence", answer.MatchedTrack)
}

// A course question that mentions a track in passing is still a course
// lookup: the served entity must match the one the routing decision named.
func TestCourseLookupWithIncidentalTrackMention(t *testing.T) {
	e := newTestEngine(t, Options{})

	answer, decision := e.ProcessQuery(context.Background(), "s1",
		"tell me about CS 37300 for machine intelligence")
	assert.Equal(t, types.StrategyDirectLookup, decision.Strategy)
	assert.Contains(t, decision.MatchedSignals, "course:CS 37300")
	assert.Equal(t, types.SourceCourseCatalog, answer.Source)
	assert.Empty(t, answer.MatchedTrack)
	assert.Contains(t, answer.ResponseText, "Data Mining and Machine Learning")
}

func TestTrackComparison(t *testing.T) {
	e := newTestEngine(t, Options{})

	answer, _ := e.ProcessQuery(context.Background(), "s1",
		"what's the difference between the MI and SE tracks?")
	assert.Equal(t, types.SourceTrackCatalog, answer.Source)
	assert.Contains(t, answer.ResponseText, "Machine Intelligence")
	assert.Contains(t, answer.ResponseText, "Software Engineering")
}

func TestCODOLookup(t *testing.T) {
	e := newTestEngine(t, Options{})

	answer, _ := e.ProcessQuery(context.Background(), "s1", "what are the CODO requirements?")
	assert.Equal(t, types.SourceCODO, answer.Source)
	assert.Contains(t, answer.ResponseText, "3.2")
}

func TestSessionAccumulationFeedsEligibility(t *testing.T) {
	e := newTestEngine(t, Options{})
	ctx := context.Background()

	// Statement first: the record updates, and the answer confirms it.
	answer, decision := e.ProcessQuery(ctx, "alice", "I took CS 18000 and MA 16100")
	assert.Equal(t, types.StrategySession, decision.Strategy)
	assert.Equal(t, types.SourceSession, answer.Source)
	assert.Contains(t, answer.ResponseText, "CS 18000")

	// The follow-up eligibility check sees the accumulated record.
	answer, decision = e.ProcessQuery(ctx, "alice", "do I meet the prerequisites for CS 18200?")
	assert.Equal(t, types.StrategyPrerequisite, decision.Strategy)
	assert.Equal(t, types.SourcePrereqGraph, answer.Source)
	assert.Contains(t, answer.ResponseText, "eligible")
	assert.NotContains(t, answer.ResponseText, "not yet eligible")
}

func TestSessionsAreIsolated(t *testing.T) {
	e := newTestEngine(t, Options{})
	ctx := context.Background()

	e.ProcessQuery(ctx, "alice", "I took CS 18000 and MA 16100")

	answer, _ := e.ProcessQuery(ctx, "bob", "do I meet the prerequisites for CS 18200?")
	assert.Contains(t, answer.ResponseText, "not yet eligible",
		"bob's session must not see alice's record")
}

func TestFailureStatementThenWhatIf(t *testing.T) {
	e := newTestEngine(t, Options{})
	ctx := context.Background()

	answer, decision := e.ProcessQuery(ctx, "alice", "I failed CS 18000")
	assert.Equal(t, types.StrategySession, decision.Strategy)
	assert.Contains(t, answer.ResponseText, "failed: CS 18000")

	answer, decision = e.ProcessQuery(ctx, "alice", "what happens if I retake CS 18000, what if I fail again?")
	assert.Equal(t, types.StrategyPrerequisite, decision.Strategy)
	assert.Equal(t, types.SourcePrereqGraph, answer.Source)
	// Failing the intro course cascades to its direct dependents.
	assert.Contains(t, answer.ResponseText, "CS 18200")
	assert.Contains(t, answer.ResponseText, "CS 24000")
}

func TestProgressionRecommendation(t *testing.T) {
	e := newTestEngine(t, Options{})

	answer, decision := e.ProcessQuery(context.Background(), "s1",
		"I'm a sophomore, what should I take in the fall?")
	assert.Equal(t, types.StrategyProgression, decision.Strategy)
	assert.Equal(t, types.SourceProgression, answer.Source)
	assert.Contains(t, answer.ResponseText, "CS 25100")
}

func TestGenerativeFallback(t *testing.T) {
	mock := &perception.MockClient{Response: "Dining options are outside my area, but the union has pizza."}
	e := newTestEngine(t, Options{LLM: mock})

	answer, decision := e.ProcessQuery(context.Background(), "s1", "can I order a pizza to my dorm?")
	assert.Equal(t, types.StrategyGenerative, decision.Strategy)
	assert.Equal(t, types.SourceGenerative, answer.Source)
	assert.Equal(t, mock.Response, answer.ResponseText)
	assert.Equal(t, 0.30, answer.Confidence, "generative answers carry the fixed low-trust constant")
	assert.Equal(t, answer.Confidence, decision.Confidence, "decision and answer agree on the fallback constant")
	assert.Equal(t, 1, mock.Calls)
}

func TestGenerativeUnavailableDegrades(t *testing.T) {
	mock := &perception.MockClient{Err: perception.ErrExternalUnavailable}
	e := newTestEngine(t, Options{LLM: mock})

	answer, _ := e.ProcessQuery(context.Background(), "s1", "can I order a pizza to my dorm?")
	assert.Equal(t, types.SourceGenerative, answer.Source)
	assert.Equal(t, 0.30, answer.Confidence)
	assert.Contains(t, answer.ResponseText, "unable to answer")
}

func TestNoLLMConfiguredDegrades(t *testing.T) {
	e := newTestEngine(t, Options{})

	answer, decision := e.ProcessQuery(context.Background(), "s1", "can I order a pizza to my dorm?")
	assert.Equal(t, types.StrategyGenerative, decision.Strategy)
	assert.Contains(t, answer.ResponseText, "unable to answer")
}

func TestUnknownCourseIsNotFound(t *testing.T) {
	e := newTestEngine(t, Options{})

	answer, decision := e.ProcessQuery(context.Background(), "s1",
		"what are the prerequisites for CS 99999?")
	assert.Equal(t, types.StrategyPrerequisite, decision.Strategy)
	assert.Equal(t, types.SourcePrereqGraph, answer.Source)
	assert.Contains(t, answer.ResponseText, "CS 99999")
	assert.Contains(t, answer.ResponseText, "couldn't find")
	assert.Less(t, answer.Confidence, 0.55)
}

func TestPeopleSearch(t *testing.T) {
	mock := &people.MockClient{Response: "Found 2 alumni at Google."}
	e := newTestEngine(t, Options{People: mock})

	answer, decision := e.ProcessQuery(context.Background(), "s1",
		"can you find someone who works at Google?")
	assert.Equal(t, types.StrategyPeopleSearch, decision.Strategy)
	assert.Equal(t, types.SourcePeopleSearch, answer.Source)
	assert.Equal(t, mock.Response, answer.ResponseText)
	assert.Equal(t, "Google", mock.LastQ.Employer)
}

func TestPeopleSearchUnconfiguredDegrades(t *testing.T) {
	e := newTestEngine(t, Options{})

	answer, _ := e.ProcessQuery(context.Background(), "s1",
		"can you find someone who works at Google?")
	assert.Contains(t, answer.ResponseText, "unable to answer")
	assert.Equal(t, 0.30, answer.Confidence)
}

func TestSessionTermCarriesAcrossQueries(t *testing.T) {
	e := newTestEngine(t, Options{})
	ctx := context.Background()

	// First query establishes year and semester in the session.
	e.ProcessQuery(ctx, "alice", "I'm a sophomore starting in the fall")

	answer, decision := e.ProcessQuery(ctx, "alice", "which classes should I sign up for?")
	assert.Equal(t, types.StrategyProgression, decision.Strategy)
	assert.Equal(t, types.SourceProgression, answer.Source)
}
