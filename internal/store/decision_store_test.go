package store

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"advisor/internal/types"
)

func testDecision(strategy types.Strategy, at time.Time) *types.RoutingDecision {
	return &types.RoutingDecision{
		ID:             uuid.NewString(),
		SessionID:      "test-session",
		Strategy:       strategy,
		Confidence:     0.85,
		MatchedSignals: []string{"course:CS 25100", "intent:prerequisite"},
		Rationale:      "prerequisite keywords with a resolved course code",
		DecidedAt:      at,
	}
}

func TestAppendAndRecent(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	base := time.Now()
	first := testDecision(types.StrategyPrerequisite, base)
	second := testDecision(types.StrategyGenerative, base.Add(time.Second))
	require.NoError(t, s.Append(first))
	require.NoError(t, s.Append(second))

	recent, err := s.Recent(10)
	require.NoError(t, err)
	require.Len(t, recent, 2)

	// Newest first.
	assert.Equal(t, second.ID, recent[0].ID)
	assert.Equal(t, first.ID, recent[1].ID)

	got := recent[1]
	assert.Equal(t, types.StrategyPrerequisite, got.Strategy)
	assert.Equal(t, "test-session", got.SessionID)
	assert.InDelta(t, 0.85, got.Confidence, 0.001)
	assert.Equal(t, first.MatchedSignals, got.MatchedSignals)
	assert.Equal(t, first.DecidedAt.UnixMilli(), got.DecidedAt.UnixMilli())
}

func TestRecentLimit(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	base := time.Now()
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Append(testDecision(types.StrategyDirectLookup, base.Add(time.Duration(i)*time.Second))))
	}

	recent, err := s.Recent(3)
	require.NoError(t, err)
	assert.Len(t, recent, 3)

	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestDuplicateIDRejected(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	d := testDecision(types.StrategySession, time.Now())
	require.NoError(t, s.Append(d))
	err = s.Append(d)
	require.Error(t, err, "decision IDs are primary keys")
}

func TestReopenPersists(t *testing.T) {
	ws := t.TempDir()

	s, err := Open(ws)
	require.NoError(t, err)
	require.NoError(t, s.Append(testDecision(types.StrategyProgression, time.Now())))
	require.NoError(t, s.Close())

	s2, err := Open(ws)
	require.NoError(t, err)
	defer s2.Close()

	n, err := s2.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, s2.Path(), ".advisor")
}
