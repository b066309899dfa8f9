package termination

import (
	"slices"
	"sort"

	"github.com/sable-lang/sable/internal/core"
	"github.com/sable-lang/sable/internal/diag"
)

// Failure is one idempotent self-call whose diagonal shows no strict
// decrease: the algebraic trace of a possibly infinite cycle.
type Failure struct {
	Names  []core.Name
	Matrix Matrix
	Sites  []diag.Span
}

// Result is the verdict for one mutual block. An empty failure list
// means the block terminates.
type Result struct {
	Failures []Failure
}

// Terminates reports whether the block was accepted.
func (r Result) Terminates() bool { return len(r.Failures) == 0 }

// decide inspects the completed call graph: the block terminates iff
// every idempotent self-call has at least one Lt on its diagonal.
// blockIndex fixes the report order to mutual-block order.
func decide(g CallGraph, blockIndex map[core.Name]int) (Result, error) {
	var failures []Failure
	for _, c := range g.Calls() {
		if c.Source != c.Target {
			continue
		}
		square, err := c.Matrix.Mul(c.Matrix)
		if err != nil {
			return Result{}, err
		}
		if !square.Equal(c.Matrix) {
			continue
		}
		diagOrders, err := c.Matrix.Diagonal()
		if err != nil {
			return Result{}, err
		}
		if slices.Contains(diagOrders, Lt) {
			continue
		}
		failures = append(failures, Failure{
			Names:  []core.Name{c.Source},
			Matrix: c.Matrix,
			Sites:  sortedSites(c),
		})
	}

	sort.SliceStable(failures, func(i, j int) bool {
		a, b := failures[i], failures[j]
		if blockIndex[a.Names[0]] != blockIndex[b.Names[0]] {
			return blockIndex[a.Names[0]] < blockIndex[b.Names[0]]
		}
		return a.Matrix.String() < b.Matrix.String()
	})
	return Result{Failures: failures}, nil
}

func sortedSites(c Call) []diag.Span {
	sites := c.Sites.Slice()
	sort.Slice(sites, func(i, j int) bool {
		a, b := sites[i], sites[j]
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
	return sites
}
