package collatz_test

import (
	"testing"

	"github.com/on-the-ground/collatz_ive_go/collatz"
	"github.com/stretchr/testify/assert"
)

func TestRange_Normalize(t *testing.T) {
	lo, hi := collatz.Range{I: 10, J: 1}.Normalize()
	assert.Equal(t, uint64(1), lo)
	assert.Equal(t, uint64(10), hi)

	lo, hi = collatz.Range{I: 3, J: 7}.Normalize()
	assert.Equal(t, uint64(3), lo)
	assert.Equal(t, uint64(7), hi)
}

func TestRange_Validate(t *testing.T) {
	assert.NoError(t, collatz.Range{I: 1, J: 1}.Validate())
	assert.ErrorIs(t, collatz.Range{I: 0, J: 1}.Validate(), collatz.ErrInvalidArgument)
	assert.ErrorIs(t, collatz.Range{I: 5, J: 0}.Validate(), collatz.ErrInvalidArgument)
}

func TestRange_StringIsOrderFree(t *testing.T) {
	assert.Equal(t, "1-10", collatz.Range{I: 10, J: 1}.String())
	assert.Equal(t, collatz.Range{I: 1, J: 10}.String(), collatz.Range{I: 10, J: 1}.String())
}
