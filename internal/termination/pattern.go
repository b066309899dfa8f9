package termination

import (
	"strconv"
	"strings"

	"github.com/sable-lang/sable/internal/core"
	"github.com/sable-lang/sable/internal/diag"
)

// Pat is a clause-head pattern in de Bruijn form, as seen from inside
// the clause body. PatVar indices are relative to the body position
// the walker is currently at; traversal under a binder lifts them.
type Pat interface {
	patNode()
	String() string
}

// PatVar matches a bound head variable.
type PatVar struct {
	Index int
}

// PatCon matches a constructor applied to subpatterns.
type PatCon struct {
	Name core.Name
	Args []Pat
}

// PatLit matches a literal.
type PatLit struct {
	Value core.Literal
}

// PatUnused marks a head variable the body never binds.
type PatUnused struct{}

func (PatVar) patNode()    {}
func (PatCon) patNode()    {}
func (PatLit) patNode()    {}
func (PatUnused) patNode() {}

func (p PatVar) String() string { return "@" + strconv.Itoa(p.Index) }
func (p PatCon) String() string {
	if len(p.Args) == 0 {
		return string(p.Name)
	}
	parts := make([]string, 0, len(p.Args)+1)
	parts = append(parts, string(p.Name))
	for _, a := range p.Args {
		s := a.String()
		if c, ok := a.(PatCon); ok && len(c.Args) > 0 {
			s = "(" + s + ")"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}
func (p PatLit) String() string  { return string(p.Value) }
func (PatUnused) String() string { return "_" }

// lift shifts every PatVar index up by one. PatLit and PatUnused are
// fixed points.
func lift(p Pat) Pat {
	switch p := p.(type) {
	case PatVar:
		return PatVar{Index: p.Index + 1}
	case PatCon:
		args := make([]Pat, len(p.Args))
		for i, a := range p.Args {
			args[i] = lift(a)
		}
		return PatCon{Name: p.Name, Args: args}
	default:
		return p
	}
}

// liftAll lifts a whole pattern vector.
func liftAll(pats []Pat) []Pat {
	out := make([]Pat, len(pats))
	for i, p := range pats {
		out[i] = lift(p)
	}
	return out
}

// clauseForm is what clausePatterns returns: the pattern vector and the
// right-hand side, or Absurd set for clauses without a right-hand side;
// those contribute no calls.
type clauseForm struct {
	Pats   []Pat
	Rhs    core.Term
	Absurd bool
}

// clausePatterns consumes a clause head left-to-right together with
// the binder spine of its body, assigning each bound head variable the
// de Bruijn level at which it becomes available. On success all levels
// are converted to indices relative to the body by i ↦ (n−1)−i, where
// n is the total number of binders consumed. This conversion happens
// exactly once, here.
func clausePatterns(cl core.Clause) (clauseForm, error) {
	level := 0
	body := cl.Body

	var build func(p core.Pattern) (Pat, bool, error)
	build = func(p core.Pattern) (Pat, bool, error) {
		switch p := p.(type) {
		case core.VarP:
			switch b := body.(type) {
			case core.Bind:
				pat := PatVar{Index: level}
				level++
				body = b.Body
				return pat, false, nil
			case core.NoBind:
				body = b.Body
				return PatUnused{}, false, nil
			case core.NoBody:
				return nil, true, nil
			default:
				return nil, false, impossiblef(diag.CodeImpossibleHeadArity,
					"head variable %q has no matching binder in clause body", p.Name)
			}
		case core.LitP:
			if _, absurd := body.(core.NoBody); absurd {
				return nil, true, nil
			}
			return PatLit{Value: p.Value}, false, nil
		case core.ConP:
			if _, absurd := body.(core.NoBody); absurd {
				return nil, true, nil
			}
			args := make([]Pat, len(p.Args))
			for i, a := range p.Args {
				sub, absurd, err := build(a)
				if absurd || err != nil {
					return nil, absurd, err
				}
				args[i] = sub
			}
			return PatCon{Name: p.Name, Args: args}, false, nil
		default:
			return nil, false, impossiblef(diag.CodeImpossibleHeadArity,
				"unhandled head pattern %T", p)
		}
	}

	pats := make([]Pat, len(cl.Patterns))
	for i, p := range cl.Patterns {
		pat, absurd, err := build(p)
		if err != nil {
			return clauseForm{}, err
		}
		if absurd {
			return clauseForm{Absurd: true}, nil
		}
		pats[i] = pat
	}

	rhs, ok := body.(core.Body)
	if !ok {
		if _, absurd := body.(core.NoBody); absurd {
			return clauseForm{Absurd: true}, nil
		}
		return clauseForm{}, impossiblef(diag.CodeImpossibleHeadArity,
			"clause body has more binders than bound head variables")
	}

	n := level
	for i, p := range pats {
		pats[i] = levelsToIndices(p, n)
	}
	return clauseForm{Pats: pats, Rhs: rhs.Term}, nil
}

// levelsToIndices rewrites PatVar levels into indices below n binders.
func levelsToIndices(p Pat, n int) Pat {
	switch p := p.(type) {
	case PatVar:
		return PatVar{Index: n - 1 - p.Index}
	case PatCon:
		args := make([]Pat, len(p.Args))
		for i, a := range p.Args {
			args[i] = levelsToIndices(a, n)
		}
		return PatCon{Name: p.Name, Args: args}
	default:
		return p
	}
}
