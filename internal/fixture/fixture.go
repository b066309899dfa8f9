// Package fixture loads checkable programs from YAML documents. A
// fixture declares constructors, functions given by equational clauses
// in a small applicative syntax, and the mutual blocks to check:
//
//	constructors: [zero, suc]
//	functions:
//	  - name: plus
//	    clauses:
//	      - lhs: plus zero n
//	        rhs: n
//	      - lhs: plus (suc m) n
//	        rhs: suc (plus m n)
//	blocks:
//	  - [plus]
//
// The loader elaborates clause text into core terms with de Bruijn
// indices and implements core.Env over the resulting tables, so a
// fixture is everything the checker needs from a host.
package fixture

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sable-lang/sable/internal/core"
	"github.com/sable-lang/sable/internal/diag"
)

// Error is a fixture loading error with a stable code and location.
type Error struct {
	Code    diag.Code
	Message string
	Span    diag.Span
}

func (e *Error) Error() string {
	if e.Span.IsValid() {
		return fmt.Sprintf("%s: %s", e.Span, e.Message)
	}
	return e.Message
}

// Diagnostic renders the error for the diag formatter.
func (e *Error) Diagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Stage:    diag.StageFixture,
		Severity: diag.SeverityError,
		Code:     e.Code,
		Message:  e.Message,
		Span:     e.Span,
	}
}

func errf(code diag.Code, span diag.Span, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Span: span}
}

type fileDoc struct {
	Constructors []string   `yaml:"constructors"`
	Postulates   []string   `yaml:"postulates"`
	Functions    []funcDoc  `yaml:"functions"`
	Blocks       [][]string `yaml:"blocks"`
}

type funcDoc struct {
	Name    string      `yaml:"name"`
	Clauses []clauseDoc `yaml:"clauses"`
}

// clauseDoc keeps the yaml node positions of its scalars so that
// elaborated terms carry real spans.
type clauseDoc struct {
	Lhs string
	Rhs string

	lhsSpan diag.Span
	rhsSpan diag.Span
}

// UnmarshalYAML records scalar positions alongside the text.
func (c *clauseDoc) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: clause must be a mapping with lhs and rhs", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		span := diag.Span{Line: value.Line, Column: value.Column}
		switch key.Value {
		case "lhs":
			c.Lhs = value.Value
			c.lhsSpan = span
		case "rhs":
			c.Rhs = value.Value
			c.rhsSpan = span
		default:
			return fmt.Errorf("line %d: unknown clause key %q", key.Line, key.Value)
		}
	}
	return nil
}

// Program is a loaded fixture: definition tables plus mutual blocks.
// It implements core.Env.
type Program struct {
	Blocks [][]core.Name

	defs   map[core.Name]core.DefKind
	order  []core.Name
	ranges map[core.Name][]diag.Span
}

// Load reads and elaborates a fixture file.
func Load(filename string) (*Program, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Parse(data, filename)
}

// Parse elaborates fixture text. The filename is used in spans only.
func Parse(data []byte, filename string) (*Program, error) {
	var doc fileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errf(diag.CodeFixtureSyntax, diag.Span{Filename: filename}, "invalid yaml: %v", err)
	}

	p := &Program{
		defs:   make(map[core.Name]core.DefKind),
		ranges: make(map[core.Name][]diag.Span),
	}

	declare := func(name string, kind core.DefKind) error {
		if _, dup := p.defs[core.Name(name)]; dup {
			return errf(diag.CodeFixtureDuplicateName, diag.Span{Filename: filename},
				"name %q declared twice", name)
		}
		p.defs[core.Name(name)] = kind
		p.order = append(p.order, core.Name(name))
		return nil
	}

	for _, c := range doc.Constructors {
		if err := declare(c, core.Other{Kind: "constructor"}); err != nil {
			return nil, err
		}
	}
	for _, ax := range doc.Postulates {
		if err := declare(ax, core.Other{Kind: "postulate"}); err != nil {
			return nil, err
		}
	}

	// Function names must all be declared before clause bodies are
	// read, so that clauses may call forward.
	for _, fn := range doc.Functions {
		if err := declare(fn.Name, core.Function{}); err != nil {
			return nil, err
		}
	}

	rd := &reader{program: p, filename: filename, ctors: doc.Constructors}
	for _, fn := range doc.Functions {
		clauses := make([]core.Clause, 0, len(fn.Clauses))
		for _, c := range fn.Clauses {
			cl, err := rd.readClause(core.Name(fn.Name), c)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, cl)
		}
		p.defs[core.Name(fn.Name)] = core.Function{Clauses: clauses}
	}

	inBlock := make(map[core.Name]bool)
	for _, names := range doc.Blocks {
		block := make([]core.Name, 0, len(names))
		for _, n := range names {
			name := core.Name(n)
			if _, ok := p.defs[name].(core.Function); !ok {
				return nil, errf(diag.CodeFixtureUnknownName, diag.Span{Filename: filename},
					"block member %q is not a declared function", n)
			}
			block = append(block, name)
			inBlock[name] = true
		}
		p.Blocks = append(p.Blocks, block)
	}
	// Functions outside any declared block form singleton blocks.
	for _, fn := range doc.Functions {
		name := core.Name(fn.Name)
		if !inBlock[name] {
			p.Blocks = append(p.Blocks, []core.Name{name})
		}
	}

	return p, nil
}

// Reduce is the identity: fixture terms contain no metavariables.
func (p *Program) Reduce(t core.Term) (core.Term, error) { return t, nil }

// DefOf looks up a definition.
func (p *Program) DefOf(n core.Name) (core.DefKind, error) {
	kind, ok := p.defs[n]
	if !ok {
		return nil, fmt.Errorf("undefined name %q", n)
	}
	return kind, nil
}

// MutualBlockOf returns the declared block containing n, defaulting to
// a singleton.
func (p *Program) MutualBlockOf(n core.Name) ([]core.Name, error) {
	for _, block := range p.Blocks {
		for _, member := range block {
			if member == n {
				return block, nil
			}
		}
	}
	if _, ok := p.defs[n]; !ok {
		return nil, fmt.Errorf("undefined name %q", n)
	}
	return []core.Name{n}, nil
}

// RangesOf returns the recorded occurrence spans of a name.
func (p *Program) RangesOf(n core.Name) []diag.Span {
	return p.ranges[n]
}
