package termination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var allOrders = []Order{Lt, Le, Unknown}

func TestCompose_Laws(t *testing.T) {
	t.Run("associative", func(t *testing.T) {
		for _, a := range allOrders {
			for _, b := range allOrders {
				for _, c := range allOrders {
					assert.Equal(t, Compose(a, Compose(b, c)), Compose(Compose(a, b), c),
						"compose not associative at %s %s %s", a, b, c)
				}
			}
		}
	})

	t.Run("Le is the unit", func(t *testing.T) {
		for _, a := range allOrders {
			assert.Equal(t, a, Compose(Le, a))
			assert.Equal(t, a, Compose(a, Le))
		}
	})

	t.Run("Unknown is absorbing", func(t *testing.T) {
		for _, a := range allOrders {
			assert.Equal(t, Unknown, Compose(Unknown, a))
			assert.Equal(t, Unknown, Compose(a, Unknown))
		}
	})

	t.Run("strictness propagates", func(t *testing.T) {
		assert.Equal(t, Lt, Compose(Lt, Le))
		assert.Equal(t, Lt, Compose(Le, Lt))
		assert.Equal(t, Lt, Compose(Lt, Lt))
		assert.Equal(t, Le, Compose(Le, Le))
	})
}

func TestMinMax_Lattice(t *testing.T) {
	for _, a := range allOrders {
		for _, b := range allOrders {
			assert.Equal(t, MinOrder(a, b), MinOrder(b, a), "min not commutative")
			assert.Equal(t, MaxOrder(a, b), MaxOrder(b, a), "max not commutative")
			for _, c := range allOrders {
				assert.Equal(t, MinOrder(a, MinOrder(b, c)), MinOrder(MinOrder(a, b), c))
				assert.Equal(t, MaxOrder(a, MaxOrder(b, c)), MaxOrder(MaxOrder(a, b), c))
			}
		}
		assert.Equal(t, a, MinOrder(a, a), "min not idempotent")
		assert.Equal(t, a, MaxOrder(a, a), "max not idempotent")
		assert.Equal(t, a, MinOrder(a, Unknown), "Unknown must be the top")
		assert.Equal(t, a, MaxOrder(a, Lt), "Lt must be the bottom")
	}
}

func TestOrder_String(t *testing.T) {
	assert.Equal(t, "<", Lt.String())
	assert.Equal(t, "≤", Le.String())
	assert.Equal(t, "?", Unknown.String())
}
