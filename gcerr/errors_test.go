package gcerr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesKind(t *testing.T) {
	err := New(OutOfMemory, "page resource exhausted")
	assert.True(t, Is(err, OutOfMemory))
	assert.False(t, Is(err, CopyReserveExhausted))
}

func TestNewfFormats(t *testing.T) {
	err := Newf(InvalidObjectReference, "block address %#x is not block-aligned", 0x1234)
	assert.Contains(t, err.Error(), "0x1234")
	assert.True(t, Is(err, InvalidObjectReference))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "out of memory", OutOfMemory.String())
	assert.Equal(t, "metadata invariant violation", MetadataInvariantViolation.String())
}
