package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a referenced course or track absent from the catalog.
// Per-query callers convert it into a structured "don't know" answer; it is
// never fatal after startup.
var ErrNotFound = errors.New("not found in catalog")

// ErrNoTemplate marks a (year, semester) pair with no progression template.
// A defined lookup miss, not an error condition for the caller.
var ErrNoTemplate = errors.New("no progression template for this year and semester")

// LoadError is a fatal startup-time data integrity violation: a cyclic
// prerequisite graph, a dangling reference, or unparseable data. The engine
// refuses to accept queries if the catalog fails to load.
type LoadError struct {
	Kind   string // "cycle", "dangling_reference", "duplicate_course", "parse"
	Detail string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("catalog load failed (%s): %s", e.Kind, e.Detail)
}
