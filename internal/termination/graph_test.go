package termination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sable-lang/sable/internal/diag"
)

func span(line int) diag.Span {
	return diag.Span{Filename: "test.sable", Line: line, Column: 1}
}

func TestCallGraph_InsertDedup(t *testing.T) {
	g := NewCallGraph()
	m := MatrixOf([][]Order{{Le}})

	assert.True(t, g.Insert(NewCall("f", "g", m, span(1))))
	assert.False(t, g.Insert(NewCall("f", "g", m, span(1))), "same call, same witness")
	assert.True(t, g.Insert(NewCall("f", "g", m, span(2))), "same call, new witness")
	assert.Equal(t, 1, g.Size(), "calls dedup on (source, target, matrix)")

	call := g.Calls()[0]
	assert.ElementsMatch(t, []diag.Span{span(1), span(2)}, call.Sites.Slice(),
		"witnesses are the union of the merged calls")

	g.Insert(NewCall("f", "g", MatrixOf([][]Order{{Lt}}), span(1)))
	assert.Equal(t, 2, g.Size(), "distinct matrix is a distinct call")
}

func TestCallGraph_Union(t *testing.T) {
	g1 := NewCallGraph()
	g1.Insert(NewCall("f", "g", MatrixOf([][]Order{{Le}}), span(1)))
	g2 := NewCallGraph()
	g2.Insert(NewCall("f", "g", MatrixOf([][]Order{{Le}}), span(2)))
	g2.Insert(NewCall("g", "f", MatrixOf([][]Order{{Lt}}), span(3)))

	g1.Union(g2)
	require.Equal(t, 2, g1.Size())
}

func TestCallGraph_Complete(t *testing.T) {
	fg := NewCall("f", "g", MatrixOf([][]Order{{Le}}), span(1))
	gf := NewCall("g", "f", MatrixOf([][]Order{{Lt}}), span(2))

	g := NewCallGraph()
	g.Insert(fg)
	g.Insert(gf)

	closed, err := g.Complete()
	require.NoError(t, err)

	t.Run("contains every reachable composition", func(t *testing.T) {
		var selfF, selfG bool
		for _, c := range closed.Calls() {
			if c.Source == "f" && c.Target == "f" {
				selfF = true
				assert.True(t, c.Matrix.Equal(MatrixOf([][]Order{{Lt}})))
				assert.ElementsMatch(t, []diag.Span{span(1), span(2)}, c.Sites.Slice())
			}
			if c.Source == "g" && c.Target == "g" {
				selfG = true
				assert.True(t, c.Matrix.Equal(MatrixOf([][]Order{{Lt}})))
			}
		}
		assert.True(t, selfF, "missing f→f loop")
		assert.True(t, selfG, "missing g→g loop")
	})

	t.Run("idempotent", func(t *testing.T) {
		again, err := closed.Complete()
		require.NoError(t, err)
		require.Equal(t, closed.Size(), again.Size())
		closedCalls, againCalls := closed.Calls(), again.Calls()
		for i := range closedCalls {
			assert.Equal(t, closedCalls[i].Source, againCalls[i].Source)
			assert.Equal(t, closedCalls[i].Target, againCalls[i].Target)
			assert.True(t, closedCalls[i].Matrix.Equal(againCalls[i].Matrix))
			assert.ElementsMatch(t, closedCalls[i].Sites.Slice(), againCalls[i].Sites.Slice())
		}
	})
}

func TestCallGraph_CompleteTerminatesOnWorsening(t *testing.T) {
	// A self-loop that loses information when squared still reaches a
	// fixpoint: the order set per shape is finite.
	m := MatrixOf([][]Order{{Unknown, Le}, {Lt, Unknown}})
	g := NewCallGraph()
	g.Insert(NewCall("f", "f", m, span(1)))

	closed, err := g.Complete()
	require.NoError(t, err)
	assert.Greater(t, closed.Size(), 1)
}
