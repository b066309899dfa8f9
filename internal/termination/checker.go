package termination

import (
	"log/slog"

	"github.com/sable-lang/sable/internal/core"
)

// Checker decides structural termination for mutual blocks. It holds
// no state across checks beyond the host environment and a logger.
type Checker struct {
	env core.Env
	log *slog.Logger
}

// NewChecker creates a checker over the given environment.
func NewChecker(env core.Env, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{env: env, log: logger}
}

// Check runs the termination analysis for one mutual block: walk every
// clause of every function member, close the combined call graph under
// composition, and inspect the idempotent self-loops.
func (c *Checker) Check(block []core.Name) (Result, error) {
	defs := make(map[core.Name]core.Function)
	arity := make(map[core.Name]int)
	blockIndex := make(map[core.Name]int, len(block))

	for i, name := range block {
		blockIndex[name] = i
		kind, err := c.env.DefOf(name)
		if err != nil {
			return Result{}, err
		}
		fn, ok := kind.(core.Function)
		if !ok {
			// Non-function members produce no clauses of their own and
			// cannot be call targets.
			continue
		}
		defs[name] = fn
		if len(fn.Clauses) > 0 {
			arity[name] = len(fn.Clauses[0].Patterns)
		} else {
			arity[name] = 0
		}
	}

	combined := NewCallGraph()
	for _, name := range block {
		fn, ok := defs[name]
		if !ok {
			continue
		}
		w := &walker{env: c.env, caller: name, arity: arity}
		for _, cl := range fn.Clauses {
			g, err := w.clauseGraph(cl)
			if err != nil {
				return Result{}, err
			}
			combined.Union(g)
		}
	}
	c.log.Debug("collected call graph", slog.Int("calls", combined.Size()), slog.Int("functions", len(defs)))

	closed, err := combined.Complete()
	if err != nil {
		return Result{}, err
	}
	c.log.Debug("closed call graph", slog.Int("calls", closed.Size()))

	return decide(closed, blockIndex)
}
