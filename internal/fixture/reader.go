package fixture

import (
	"unicode"

	"github.com/sable-lang/sable/internal/core"
	"github.com/sable-lang/sable/internal/diag"
)

// reader elaborates clause text into core patterns and terms.
type reader struct {
	program  *Program
	filename string
	ctors    []string
}

type token struct {
	text string
	col  int // 0-based offset within the scalar
}

func tokenize(s string) []token {
	var toks []token
	i := 0
	for i < len(s) {
		switch {
		case s[i] == ' ' || s[i] == '\t' || s[i] == '\n':
			i++
		case s[i] == '(' || s[i] == ')':
			toks = append(toks, token{text: string(s[i]), col: i})
			i++
		default:
			start := i
			for i < len(s) && s[i] != ' ' && s[i] != '\t' && s[i] != '\n' && s[i] != '(' && s[i] != ')' {
				i++
			}
			toks = append(toks, token{text: s[start:i], col: start})
		}
	}
	return toks
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func (r *reader) isCtor(name string) bool {
	for _, c := range r.ctors {
		if c == name {
			return true
		}
	}
	return false
}

func (r *reader) span(base diag.Span, tok token) diag.Span {
	return diag.Span{
		Filename: r.filename,
		Line:     base.Line,
		Column:   base.Column + tok.col,
		Start:    tok.col,
		End:      tok.col + len(tok.text),
	}
}

// clauseReader walks one clause's token streams.
type clauseReader struct {
	*reader
	base diag.Span
	toks []token
	pos  int
}

func (c *clauseReader) eof() bool { return c.pos >= len(c.toks) }

func (c *clauseReader) peek() (token, bool) {
	if c.eof() {
		return token{}, false
	}
	return c.toks[c.pos], true
}

func (c *clauseReader) next() (token, bool) {
	tok, ok := c.peek()
	if ok {
		c.pos++
	}
	return tok, ok
}

func (c *clauseReader) errHere(format string, args ...any) *Error {
	span := c.base
	span.Filename = c.filename
	if tok, ok := c.peek(); ok {
		span = c.span(c.base, tok)
	}
	return errf(diag.CodeFixtureSyntax, span, format, args...)
}

// readClause elaborates one clause: the head into source patterns, the
// right-hand side into a term under one binder per head variable.
func (r *reader) readClause(fname core.Name, doc clauseDoc) (core.Clause, error) {
	lhsSpan := doc.lhsSpan
	lhsSpan.Filename = r.filename
	lhs := &clauseReader{reader: r, base: doc.lhsSpan, toks: tokenize(doc.Lhs)}

	head, ok := lhs.next()
	if !ok || head.text != string(fname) {
		return core.Clause{}, errf(diag.CodeFixtureSyntax, lhsSpan,
			"clause head must start with %q", fname)
	}

	var pats []core.Pattern
	var vars []string
	for !lhs.eof() {
		p, err := lhs.readPattern(&vars)
		if err != nil {
			return core.Clause{}, err
		}
		pats = append(pats, p)
	}

	rhs := &clauseReader{reader: r, base: doc.rhsSpan, toks: tokenize(doc.Rhs)}
	term, err := rhs.readTerm(vars)
	if err != nil {
		return core.Clause{}, err
	}
	if !rhs.eof() {
		return core.Clause{}, rhs.errHere("trailing tokens after term")
	}

	// Every head variable is bound; binders nest with the first
	// variable outermost, matching left-to-right consumption.
	var body core.ClauseBody = core.Body{Term: term}
	for range vars {
		body = core.Bind{Body: body}
	}
	return core.Clause{Patterns: pats, Body: body}, nil
}

func (c *clauseReader) readPattern(vars *[]string) (core.Pattern, error) {
	tok, ok := c.next()
	if !ok {
		return nil, c.errHere("expected pattern")
	}
	switch {
	case tok.text == "(":
		head, ok := c.next()
		if !ok || !c.isCtor(head.text) {
			return nil, errf(diag.CodeFixtureSyntax, c.span(c.base, head),
				"expected constructor after '('")
		}
		var args []core.Pattern
		for {
			peeked, ok := c.peek()
			if !ok {
				return nil, c.errHere("unclosed '(' in pattern")
			}
			if peeked.text == ")" {
				c.pos++
				break
			}
			sub, err := c.readPattern(vars)
			if err != nil {
				return nil, err
			}
			args = append(args, sub)
		}
		return core.ConP{Name: core.Name(head.text), Args: args}, nil

	case tok.text == ")":
		return nil, errf(diag.CodeFixtureSyntax, c.span(c.base, tok), "unexpected ')'")

	case isNumber(tok.text):
		return core.LitP{Value: core.Literal(tok.text)}, nil

	case c.isCtor(tok.text):
		return core.ConP{Name: core.Name(tok.text)}, nil

	default:
		if _, declared := c.program.defs[core.Name(tok.text)]; declared {
			return nil, errf(diag.CodeFixtureSyntax, c.span(c.base, tok),
				"%q is a defined name, not a pattern variable", tok.text)
		}
		for _, v := range *vars {
			if v == tok.text {
				return nil, errf(diag.CodeFixtureSyntax, c.span(c.base, tok),
					"pattern variable %q bound twice", tok.text)
			}
		}
		*vars = append(*vars, tok.text)
		return core.VarP{Name: tok.text}, nil
	}
}

// readTerm parses an application spine. scope lists bound variable
// names outermost first; the innermost binding of a name wins.
func (c *clauseReader) readTerm(scope []string) (core.Term, error) {
	if tok, ok := c.peek(); ok && tok.text == "lam" {
		c.pos++
		binder, ok := c.next()
		if !ok || binder.text == "(" || binder.text == ")" {
			return nil, c.errHere("expected binder name after lam")
		}
		body, err := c.readTerm(append(append([]string{}, scope...), binder.text))
		if err != nil {
			return nil, err
		}
		return core.Lam{Body: body}, nil
	}

	head, err := c.readAtom(scope)
	if err != nil {
		return nil, err
	}
	var args []core.Term
	for {
		tok, ok := c.peek()
		if !ok || tok.text == ")" {
			break
		}
		arg, err := c.readAtom(scope)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	if len(args) == 0 {
		return head, nil
	}
	switch head.(type) {
	case core.Var, core.Con, core.Def:
		return core.Apply(head, args...), nil
	default:
		return nil, c.errHere("term %s cannot be applied", head)
	}
}

func (c *clauseReader) readAtom(scope []string) (core.Term, error) {
	tok, ok := c.next()
	if !ok {
		return nil, c.errHere("expected term")
	}
	switch {
	case tok.text == "(":
		inner, err := c.readTerm(scope)
		if err != nil {
			return nil, err
		}
		closing, ok := c.next()
		if !ok || closing.text != ")" {
			return nil, c.errHere("unclosed '('")
		}
		return inner, nil

	case tok.text == ")":
		return nil, errf(diag.CodeFixtureSyntax, c.span(c.base, tok), "unexpected ')'")

	case tok.text == "Set":
		return core.Sort{}, nil

	case isNumber(tok.text):
		return core.Lit{Value: core.Literal(tok.text)}, nil

	default:
		for i := len(scope) - 1; i >= 0; i-- {
			if scope[i] == tok.text {
				return core.Var{Index: len(scope) - 1 - i}, nil
			}
		}
		if c.isCtor(tok.text) {
			return core.Con{Name: core.Name(tok.text)}, nil
		}
		name := core.Name(tok.text)
		if _, declared := c.program.defs[name]; declared {
			c.program.ranges[name] = append(c.program.ranges[name], c.span(c.base, tok))
			return core.Def{Name: name}, nil
		}
		return nil, errf(diag.CodeFixtureUnknownName, c.span(c.base, tok),
			"unknown name %q", tok.text)
	}
}
