// Package people is the career-networking collaborator: alumni and contact
// lookups are a separate service with its own data, reached over an
// interface so the engine stays testable without the network.
package people

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"advisor/internal/logging"
)

// ErrUnavailable reports that the people-search backend cannot be reached.
// The engine converts it into a degraded low-confidence answer.
var ErrUnavailable = errors.New("people search unavailable")

// Query is the structured form of a career-networking question.
type Query struct {
	RawQuery    string
	Institution string
	Major       string
	Employer    string
}

// Client is the people-search backend. Implementations must honor the
// context deadline; the engine enforces the external-call timeout.
type Client interface {
	Search(ctx context.Context, q Query) (string, error)
}

var (
	employerRe    = regexp.MustCompile(`(?i)\b(?:at|works? (?:at|for)|hired by)\s+([A-Z][\w&.-]*(?:\s+[A-Z][\w&.-]*)?)`)
	institutionRe = regexp.MustCompile(`(?i)\b(?:from|attended|graduated from)\s+([A-Z][\w&.-]*(?:\s+[A-Z][\w&.-]*){0,2}\s+(?:University|College|Institute))`)
	majorRe       = regexp.MustCompile(`(?i)\b(?:majored in|studied|degree in)\s+([a-z][\w ]{2,40}?)(?:[.,?]|$)`)
)

// Parse extracts the entities a people search keys on. Fields the query
// never mentions stay empty; the backend decides how to handle a sparse
// query.
func Parse(raw string) Query {
	q := Query{RawQuery: raw}
	if m := employerRe.FindStringSubmatch(raw); m != nil {
		q.Employer = strings.TrimSpace(m[1])
	}
	if m := institutionRe.FindStringSubmatch(raw); m != nil {
		q.Institution = strings.TrimSpace(m[1])
	}
	if m := majorRe.FindStringSubmatch(raw); m != nil {
		q.Major = strings.TrimSpace(m[1])
	}
	logging.PerceptionDebug("people query parsed: employer=%q institution=%q major=%q",
		q.Employer, q.Institution, q.Major)
	return q
}

// UnconfiguredClient is the default backend when no people-search service
// is configured. Every call reports ErrUnavailable.
type UnconfiguredClient struct{}

func (UnconfiguredClient) Search(ctx context.Context, q Query) (string, error) {
	return "", fmt.Errorf("no people-search backend configured: %w", ErrUnavailable)
}

// MockClient is a test double recording the last query.
type MockClient struct {
	Response string
	Err      error
	LastQ    Query
	Calls    int
}

func (m *MockClient) Search(ctx context.Context, q Query) (string, error) {
	m.Calls++
	m.LastQ = q
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}
