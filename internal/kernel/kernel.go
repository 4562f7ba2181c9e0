// Package kernel embeds a Mangle Datalog engine over the prerequisite graph.
// The catalog loads its edges into the kernel once at startup; the kernel
// derives the transitive prerequisite closure (requires_all) and exposes it
// for reasoning and for load-time cycle detection: a derivable
// requires_all(C, C) means the graph is not acyclic.
package kernel

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/mangle/analysis"
	"github.com/google/mangle/ast"
	_ "github.com/google/mangle/builtin"
	"github.com/google/mangle/engine"
	"github.com/google/mangle/factstore"
	"github.com/google/mangle/parse"
)

// Edge is one directed prerequisite relation: Course requires Requires.
type Edge struct {
	Course   string
	Requires string
}

// closureRules derive the transitive closure of the requires relation.
const closureRules = `
requires_all(C, P) :- requires(C, P).
requires_all(C, P) :- requires(C, M), requires_all(M, P).
`

// Kernel wraps the evaluated Mangle program. Read-only after New; safe for
// concurrent queries.
type Kernel struct {
	mu          sync.RWMutex
	store       factstore.FactStore
	programInfo *analysis.ProgramInfo
	empty       bool
}

// New builds and evaluates the prerequisite program from the given edges.
// Evaluation runs to fixed point once; the kernel is immutable afterwards.
func New(edges []Edge) (*Kernel, error) {
	if len(edges) == 0 {
		// No edges means nothing to derive; an empty kernel answers every
		// query with the empty set.
		return &Kernel{empty: true}, nil
	}

	var b strings.Builder
	for _, e := range edges {
		fmt.Fprintf(&b, "requires(%q, %q).\n", e.Course, e.Requires)
	}
	b.WriteString(closureRules)

	unit, err := parse.Unit(strings.NewReader(b.String()))
	if err != nil {
		return nil, fmt.Errorf("kernel parse error: %w", err)
	}

	programInfo, err := analysis.AnalyzeOneUnit(unit, nil)
	if err != nil {
		return nil, fmt.Errorf("kernel analysis error: %w", err)
	}

	store := factstore.NewSimpleInMemoryStore()
	if _, err := engine.EvalProgramWithStats(programInfo, store); err != nil {
		return nil, fmt.Errorf("kernel evaluation error: %w", err)
	}

	return &Kernel{
		store:       store,
		programInfo: programInfo,
	}, nil
}

// queryPairs returns all (arg0, arg1) rows for a binary predicate.
func (k *Kernel) queryPairs(predicate string) ([][2]string, error) {
	if k.empty {
		return nil, nil
	}

	k.mu.RLock()
	defer k.mu.RUnlock()

	pred := ast.PredicateSym{Symbol: predicate, Arity: 2}
	query := ast.NewQuery(pred)

	var rows [][2]string
	err := k.store.GetFacts(query, func(atom ast.Atom) error {
		if len(atom.Args) != 2 {
			return nil
		}
		a, aok := constantString(atom.Args[0])
		b, bok := constantString(atom.Args[1])
		if aok && bok {
			rows = append(rows, [2]string{a, b})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("kernel query %s failed: %w", predicate, err)
	}
	return rows, nil
}

func constantString(term ast.BaseTerm) (string, bool) {
	c, ok := term.(ast.Constant)
	if !ok {
		return "", false
	}
	if c.Type != ast.StringType {
		return "", false
	}
	return c.Symbol, true
}

// Requires returns the direct prerequisites of a course, sorted.
func (k *Kernel) Requires(code string) ([]string, error) {
	return k.secondArgs("requires", code)
}

// TransitiveRequires returns every course in the prerequisite closure of
// code, sorted. The course itself is excluded unless the graph is cyclic.
func (k *Kernel) TransitiveRequires(code string) ([]string, error) {
	return k.secondArgs("requires_all", code)
}

func (k *Kernel) secondArgs(predicate, code string) ([]string, error) {
	rows, err := k.queryPairs(predicate)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var out []string
	for _, row := range rows {
		if row[0] != code || seen[row[1]] {
			continue
		}
		seen[row[1]] = true
		out = append(out, row[1])
	}
	sort.Strings(out)
	return out, nil
}

// Cycles returns every course that transitively requires itself, sorted.
// A non-empty result is a load-time invariant violation.
func (k *Kernel) Cycles() ([]string, error) {
	rows, err := k.queryPairs("requires_all")
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var cyclic []string
	for _, row := range rows {
		if row[0] == row[1] && !seen[row[0]] {
			seen[row[0]] = true
			cyclic = append(cyclic, row[0])
		}
	}
	sort.Strings(cyclic)
	return cyclic, nil
}
