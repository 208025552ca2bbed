package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerTarget(t *testing.T) {
	assert.Equal(t, 83, PerTarget(500, 6))
	assert.Equal(t, 50, PerTarget(500, 10))
	assert.Equal(t, 45, PerTarget(500, 11))
	assert.Equal(t, 0, PerTarget(500, 0))
}

func TestCheckTargetsFloor(t *testing.T) {
	// qty 500: a 6th post (83 each) and a 10th (50 each) are fine; an 11th
	// (45 each) breaks the floor
	assert.NoError(t, CheckTargets(500, 6))
	assert.NoError(t, CheckTargets(500, 10))
	assert.ErrorIs(t, CheckTargets(500, 11), ErrPerTargetFloor)
	assert.Error(t, CheckTargets(500, 0))
}

func TestSplitQuantitiesConserved(t *testing.T) {
	cases := []struct{ qty, n int }{
		{500, 6}, {500, 10}, {1000, 3}, {50, 1}, {1000, 7},
	}
	for _, c := range cases {
		parts := SplitQuantities(c.qty, c.n)
		require.Len(t, parts, c.n)
		sum := 0
		for _, p := range parts {
			sum += p
		}
		assert.Equal(t, c.qty, sum, "qty=%d n=%d", c.qty, c.n)
		// remainder folds into the first target only
		for _, p := range parts[1:] {
			assert.Equal(t, c.qty/c.n, p)
		}
	}
}
