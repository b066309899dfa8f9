package termination

import (
	"sort"
	"strings"

	"github.com/hashicorp/go-set/v2"

	"github.com/sable-lang/sable/internal/core"
	"github.com/sable-lang/sable/internal/diag"
)

// Call is one recursive call discovered in a clause body: the caller,
// the callee, the call matrix relating the callee's arguments to the
// caller's patterns, and the witness ranges that produced it.
type Call struct {
	Source core.Name
	Target core.Name
	Matrix Matrix
	Sites  *set.Set[diag.Span]
}

// NewCall builds a call with the given witness spans.
func NewCall(source, target core.Name, m Matrix, sites ...diag.Span) Call {
	s := set.New[diag.Span](len(sites))
	s.InsertSlice(sites)
	return Call{Source: source, Target: target, Matrix: m, Sites: s}
}

func (c Call) String() string {
	return string(c.Source) + " → " + string(c.Target) + " " + c.Matrix.String()
}

// key identifies a call up to witnesses.
func (c Call) key() string {
	var sb strings.Builder
	sb.WriteString(string(c.Source))
	sb.WriteByte(0)
	sb.WriteString(string(c.Target))
	sb.WriteByte(0)
	sb.WriteString(c.Matrix.String())
	return sb.String()
}

// CallGraph is a set of calls deduplicated on (source, target, matrix),
// with witness union on merge.
type CallGraph struct {
	calls map[string]Call
}

// NewCallGraph creates an empty call graph.
func NewCallGraph() CallGraph {
	return CallGraph{calls: make(map[string]Call)}
}

// Size returns the number of distinct calls.
func (g CallGraph) Size() int { return len(g.calls) }

// Insert adds a call, unioning witnesses with an existing call that
// has the same source, target and matrix. It reports whether the graph
// changed (a new call, or new witnesses on an existing one).
func (g CallGraph) Insert(c Call) bool {
	k := c.key()
	existing, ok := g.calls[k]
	if !ok {
		sites := set.New[diag.Span](c.Sites.Size())
		sites.InsertSlice(c.Sites.Slice())
		g.calls[k] = Call{Source: c.Source, Target: c.Target, Matrix: c.Matrix, Sites: sites}
		return true
	}
	changed := false
	for _, site := range c.Sites.Slice() {
		if existing.Sites.Insert(site) {
			changed = true
		}
	}
	return changed
}

// Union inserts every call of other into g.
func (g CallGraph) Union(other CallGraph) {
	for _, c := range other.calls {
		g.Insert(c)
	}
}

// Calls returns the calls in a deterministic order.
func (g CallGraph) Calls() []Call {
	keys := make([]string, 0, len(g.calls))
	for k := range g.calls {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Call, 0, len(keys))
	for _, k := range keys {
		out = append(out, g.calls[k])
	}
	return out
}

// composeCalls combines first: s→m with second: m→t into s→t. The
// combined matrix is second.Matrix × first.Matrix; witnesses union.
func composeCalls(first, second Call) (Call, error) {
	m, err := second.Matrix.Mul(first.Matrix)
	if err != nil {
		return Call{}, err
	}
	sites := set.New[diag.Span](first.Sites.Size() + second.Sites.Size())
	sites.InsertSlice(first.Sites.Slice())
	sites.InsertSlice(second.Sites.Slice())
	return Call{Source: first.Source, Target: second.Target, Matrix: m, Sites: sites}, nil
}

// Complete closes the graph under composition: repeatedly add
// compose(a, b) for every chained pair until a fixpoint. Termination
// follows from the finiteness of the order set and of the matrix
// shapes per (source, target) pair.
func (g CallGraph) Complete() (CallGraph, error) {
	closed := NewCallGraph()
	closed.Union(g)
	for {
		changed := false
		calls := closed.Calls()
		for _, a := range calls {
			for _, b := range calls {
				if a.Target != b.Source {
					continue
				}
				combined, err := composeCalls(a, b)
				if err != nil {
					return CallGraph{}, err
				}
				if closed.Insert(combined) {
					changed = true
				}
			}
		}
		if !changed {
			return closed, nil
		}
	}
}
