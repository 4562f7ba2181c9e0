package catalog

import "testing"

func TestNormalize(t *testing.T) {
	cat, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault: %v", err)
	}

	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"already canonical", "CS 18000", "CS 18000"},
		{"lowercase no space", "cs18000", "CS 18000"},
		{"short number padded", "CS 180", "CS 18000"},
		{"lowercase short", "cs180", "CS 18000"},
		{"hyphenated", "CS-251", "CS 25100"},
		{"dept alias", "MATH 16100", "MA 16100"},
		{"dept alias short", "math 161", "MA 16100"},
		{"stat alias", "STATS 35000", "STAT 35000"},
		{"unknown number unchanged", "CS 99999", "CS 99999"},
		{"unknown short not padded", "CS 999", "CS 999"},
		{"extra whitespace", "  cs   180  ", "CS 18000"},
		{"non course text", "hello world", "HELLO WORLD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cat.Normalize(tt.token)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.token, got, tt.want)
			}
			// Idempotency: normalizing a normalized code is a no-op.
			if again := cat.Normalize(got); again != got {
				t.Errorf("Normalize not idempotent: %q -> %q -> %q", tt.token, got, again)
			}
		})
	}
}

func TestResolveCourse(t *testing.T) {
	cat, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault: %v", err)
	}

	code, ok := cat.ResolveCourse("cs180")
	if !ok || code != "CS 18000" {
		t.Errorf("ResolveCourse(cs180) = %q, %v; want CS 18000, true", code, ok)
	}

	code, ok = cat.ResolveCourse("CS 99999")
	if ok {
		t.Errorf("ResolveCourse(CS 99999) resolved unexpectedly to %q", code)
	}
	if code != "CS 99999" {
		t.Errorf("unresolved mention should keep normalized form, got %q", code)
	}
}

func TestIsKnownDept(t *testing.T) {
	if !IsKnownDept("cs") || !IsKnownDept("MATH") {
		t.Error("expected cs and MATH to be known departments")
	}
	if IsKnownDept("fall") || IsKnownDept("xyz") {
		t.Error("expected fall and xyz to be unknown departments")
	}
}
