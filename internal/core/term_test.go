package core

import "testing"

func TestTerm_String(t *testing.T) {
	cases := []struct {
		term Term
		want string
	}{
		{Var{Index: 0}, "@0"},
		{Var{Index: 1, Args: []Term{Con{Name: "zero"}}}, "@1 zero"},
		{Con{Name: "suc", Args: []Term{Var{Index: 0}}}, "suc @0"},
		{Def{Name: "plus", Args: []Term{Var{Index: 1}, Con{Name: "suc", Args: []Term{Var{Index: 0}}}}},
			"plus @1 (suc @0)"},
		{Lam{Body: Var{Index: 0}}, "λ. @0"},
		{Pi{Dom: Sort{}, Body: Sort{}}, "Π Set. Set"},
		{Fun{Dom: Con{Name: "nat"}, Cod: Con{Name: "nat"}}, "nat → nat"},
		{Lit{Value: "42"}, "42"},
		{Sort{}, "Set"},
		{Meta{ID: 3}, "?3"},
	}

	for _, tc := range cases {
		if got := tc.term.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestApply(t *testing.T) {
	f := Def{Name: "f"}
	applied := Apply(f, Var{Index: 0}, Var{Index: 1})
	def, ok := applied.(Def)
	if !ok {
		t.Fatalf("Apply changed the head kind: %T", applied)
	}
	if len(def.Args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(def.Args))
	}
	if len(f.Args) != 0 {
		t.Error("Apply must not mutate the original head")
	}

	twice := Apply(Apply(Con{Name: "c"}, Var{Index: 0}), Var{Index: 1})
	con := twice.(Con)
	if len(con.Args) != 2 {
		t.Errorf("nested Apply should accumulate args, got %d", len(con.Args))
	}
}
