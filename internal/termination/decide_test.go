package termination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sable-lang/sable/internal/core"
)

func TestDecide_OnlyIdempotentLoopsCount(t *testing.T) {
	// A self-loop whose square differs from itself is not the trace of
	// a stable cycle and must not be reported.
	g := NewCallGraph()
	g.Insert(NewCall("f", "f", MatrixOf([][]Order{{Unknown, Le}, {Lt, Unknown}}), span(1)))

	result, err := decide(g, map[core.Name]int{"f": 0})
	require.NoError(t, err)
	assert.True(t, result.Terminates())
}

func TestDecide_NonSelfEdgesIgnored(t *testing.T) {
	g := NewCallGraph()
	g.Insert(NewCall("f", "g", MatrixOf([][]Order{{Le}}), span(1)))

	result, err := decide(g, map[core.Name]int{"f": 0, "g": 1})
	require.NoError(t, err)
	assert.True(t, result.Terminates())
}

func TestDecide_ReportOrderFollowsBlock(t *testing.T) {
	le := MatrixOf([][]Order{{Le}})
	g := NewCallGraph()
	g.Insert(NewCall("g", "g", le, span(2)))
	g.Insert(NewCall("f", "f", le, span(1)))

	result, err := decide(g, map[core.Name]int{"f": 0, "g": 1})
	require.NoError(t, err)
	require.Len(t, result.Failures, 2)
	assert.Equal(t, []core.Name{"f"}, result.Failures[0].Names)
	assert.Equal(t, []core.Name{"g"}, result.Failures[1].Names)
}

func TestDecide_DiagonalDecreaseAccepts(t *testing.T) {
	// An idempotent loop with one strict decrease on the diagonal is
	// fine even if every other entry is unknown.
	m := MatrixOf([][]Order{{Lt, Unknown}, {Unknown, Unknown}})
	square, err := m.Mul(m)
	require.NoError(t, err)
	require.True(t, square.Equal(m), "test premise: m is idempotent")

	g := NewCallGraph()
	g.Insert(NewCall("f", "f", m, span(1)))

	result, err := decide(g, map[core.Name]int{"f": 0})
	require.NoError(t, err)
	assert.True(t, result.Terminates())
}
