package termination

import "github.com/sable-lang/sable/internal/core"

// compareTerm relates one argument of a recursive call to one pattern
// of the caller. Arguments applied to the term's own head are ignored
// here; the walker inspects them separately for nested calls.
func compareTerm(t core.Term, p Pat) Order {
	switch t := t.(type) {
	case core.Var:
		return compareVar(t.Index, p)
	case core.Lit:
		if lp, ok := p.(PatLit); ok && lp.Value == t.Value {
			return Le
		}
		return Unknown
	case core.Con:
		cp, ok := p.(PatCon)
		if !ok || cp.Name != t.Name || len(cp.Args) != len(t.Args) {
			return Unknown
		}
		// Same constructor: componentwise, the weakest relation bounds
		// the whole term. A nullary constructor is Le to itself.
		if len(t.Args) == 0 {
			return Le
		}
		acc := Lt
		for i, arg := range t.Args {
			acc = MaxOrder(acc, compareTerm(arg, cp.Args[i]))
		}
		return acc
	default:
		return Unknown
	}
}

// compareVar relates a bound variable to a pattern. A variable that
// occurs strictly inside a constructor pattern is strictly smaller
// than the whole pattern.
func compareVar(index int, p Pat) Order {
	switch p := p.(type) {
	case PatVar:
		if p.Index == index {
			return Le
		}
		return Unknown
	case PatCon:
		best := Unknown
		for _, sub := range p.Args {
			best = MinOrder(best, compareVar(index, sub))
		}
		return Compose(Lt, best)
	default:
		return Unknown
	}
}

// compareArgs builds the call matrix for a call with the given
// arguments against the caller's pattern vector. rows is the callee's
// arity: missing trailing arguments compare as Unknown, surplus ones
// are dropped.
func compareArgs(args []core.Term, pats []Pat, rows int) Matrix {
	return NewMatrix(rows, len(pats), func(r, c int) Order {
		if r >= len(args) {
			return Unknown
		}
		return compareTerm(args[r], pats[c])
	})
}
