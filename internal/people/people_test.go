package people

import (
	"context"
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name            string
		query           string
		wantEmployer    string
		wantInstitution string
		wantMajor       string
	}{
		{
			name:         "employer only",
			query:        "can you find someone who works at Google?",
			wantEmployer: "Google",
		},
		{
			name:            "institution",
			query:           "any alumni who graduated from Purdue University?",
			wantInstitution: "Purdue University",
		},
		{
			name:      "major",
			query:     "find an alum who majored in computer science.",
			wantMajor: "computer science",
		},
		{
			name:         "employer and institution",
			query:        "someone from Purdue University who works at Amazon",
			wantEmployer: "Amazon",
			// "from Purdue University" matches the institution pattern too.
			wantInstitution: "Purdue University",
		},
		{
			name:  "nothing recognizable",
			query: "help me network",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Parse(tt.query)
			if q.Employer != tt.wantEmployer {
				t.Errorf("Employer = %q, want %q", q.Employer, tt.wantEmployer)
			}
			if q.Institution != tt.wantInstitution {
				t.Errorf("Institution = %q, want %q", q.Institution, tt.wantInstitution)
			}
			if q.Major != tt.wantMajor {
				t.Errorf("Major = %q, want %q", q.Major, tt.wantMajor)
			}
			if q.RawQuery != tt.query {
				t.Errorf("RawQuery = %q, want %q", q.RawQuery, tt.query)
			}
		})
	}
}

func TestUnconfiguredClient(t *testing.T) {
	_, err := UnconfiguredClient{}.Search(context.Background(), Query{RawQuery: "x"})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
