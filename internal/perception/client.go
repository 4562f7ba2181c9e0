package perception

import (
	"context"
	"errors"
)

// LLMClient is the generative-fallback boundary. Implementations may block
// on network I/O; callers bound every call with a context timeout. A failed
// or timed-out call means "no answer available" - the engine never retries.
type LLMClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ErrExternalUnavailable wraps transport errors and timeouts from the
// generative collaborator. The engine degrades it to a low-confidence
// apology response.
var ErrExternalUnavailable = errors.New("external collaborator unavailable")

// MockClient is a canned LLMClient for tests and offline use.
type MockClient struct {
	Response   string
	Err        error
	LastPrompt string
	LastSystem string
	Calls      int
}

func (m *MockClient) Complete(ctx context.Context, prompt string) (string, error) {
	return m.CompleteWithSystem(ctx, "", prompt)
}

func (m *MockClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.Calls++
	m.LastSystem = systemPrompt
	m.LastPrompt = userPrompt
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}
