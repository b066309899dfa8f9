package termination

import (
	"github.com/sable-lang/sable/internal/core"
	"github.com/sable-lang/sable/internal/diag"
)

// walker traverses the clauses of one caller, collecting the recursive
// calls it makes into members of the mutual block.
type walker struct {
	env    core.Env
	caller core.Name
	// arity maps each block member to its formal parameter count; a
	// call matrix has arity(target) rows.
	arity map[core.Name]int
}

// clauseGraph extracts the pattern vector of one clause and walks its
// body. Absurd clauses contribute nothing.
func (w *walker) clauseGraph(cl core.Clause) (CallGraph, error) {
	g := NewCallGraph()
	form, err := clausePatterns(cl)
	if err != nil {
		return CallGraph{}, err
	}
	if form.Absurd {
		return g, nil
	}
	if err := w.walk(form.Rhs, form.Pats, g); err != nil {
		return CallGraph{}, err
	}
	return g, nil
}

// walk inspects one normalized subterm under the current pattern
// vector and recurses structurally.
func (w *walker) walk(t core.Term, pats []Pat, g CallGraph) error {
	t, err := w.env.Reduce(t)
	if err != nil {
		return err
	}

	switch t := t.(type) {
	case core.Var:
		return w.walkAll(t.Args, pats, g)

	case core.Con:
		return w.walkAll(t.Args, pats, g)

	case core.Def:
		// Nested calls in the arguments are collected under the
		// unlifted pattern vector before the call itself is recorded.
		if err := w.walkAll(t.Args, pats, g); err != nil {
			return err
		}
		rows, inBlock := w.arity[t.Name]
		if !inBlock {
			return nil
		}
		call := NewCall(w.caller, t.Name, compareArgs(t.Args, pats, rows), w.env.RangesOf(t.Name)...)
		g.Insert(call)
		return nil

	case core.Lam:
		return w.walk(t.Body, liftAll(pats), g)

	case core.Pi:
		if err := w.walk(t.Dom, pats, g); err != nil {
			return err
		}
		return w.walk(t.Body, liftAll(pats), g)

	case core.Fun:
		if err := w.walk(t.Dom, pats, g); err != nil {
			return err
		}
		return w.walk(t.Cod, pats, g)

	case core.Lit, core.Sort, core.Meta:
		return nil

	case core.Blocked:
		return impossiblef(diag.CodeImpossibleBlockedTerm,
			"blocked term survived reduction: %s", t.String())

	default:
		return impossiblef(diag.CodeImpossibleBlockedTerm,
			"unhandled term %T after reduction", t)
	}
}

func (w *walker) walkAll(args []core.Term, pats []Pat, g CallGraph) error {
	for _, a := range args {
		if err := w.walk(a, pats, g); err != nil {
			return err
		}
	}
	return nil
}
