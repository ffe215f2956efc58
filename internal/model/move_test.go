package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMove(t *testing.T) {
	for _, in := range []string{"rock", "Rock", "ROCK", " rock "} {
		m, err := ParseMove(in)
		require.NoError(t, err, in)
		assert.Equal(t, MoveRock, m)
	}

	for _, in := range []string{"", "lizard", "scissors", "rockk"} {
		_, err := ParseMove(in)
		assert.ErrorIs(t, err, ErrInvalidMove, in)
	}
}

func TestCompareMovesRules(t *testing.T) {
	assert.Equal(t, SlotPlayer1, CompareMoves(MoveRock, MoveScissor))
	assert.Equal(t, SlotPlayer1, CompareMoves(MoveScissor, MovePaper))
	assert.Equal(t, SlotPlayer1, CompareMoves(MovePaper, MoveRock))
}

// CompareMoves is total and antisymmetric: ties exactly on equal moves,
// and swapping arguments mirrors the result.
func TestCompareMovesTotalAndAntisymmetric(t *testing.T) {
	moves := []Move{MoveRock, MovePaper, MoveScissor}
	for _, a := range moves {
		for _, b := range moves {
			res := CompareMoves(a, b)
			mirror := CompareMoves(b, a)

			if a == b {
				assert.Equal(t, SlotNone, res)
				continue
			}

			assert.NotEqual(t, SlotNone, res, "%s vs %s", a, b)
			switch res {
			case SlotPlayer1:
				assert.Equal(t, SlotPlayer2, mirror)
			case SlotPlayer2:
				assert.Equal(t, SlotPlayer1, mirror)
			}
		}
	}
}
