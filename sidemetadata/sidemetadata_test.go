package sidemetadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testSpec() SideMetadataSpec {
	return SideMetadataSpec{Name: "test", LogNumOfBits: 3, LogMinObjSize: 12}
}

func TestLoadStoreRoundTrip(t *testing.T) {
	table := NewTable(testSpec())
	table.StoreAtomic(0x1000, 42)
	assert.Equal(t, uint8(42), table.LoadAtomic(0x1000))
}

func TestUnstoredAddressReadsZero(t *testing.T) {
	table := NewTable(testSpec())
	assert.Equal(t, uint8(0), table.LoadAtomic(0x9000))
}

func TestDistinctShadowIndicesAreIndependent(t *testing.T) {
	table := NewTable(testSpec())
	table.StoreAtomic(0x1000, 1)
	table.StoreAtomic(0x2000, 2)
	assert.Equal(t, uint8(1), table.LoadAtomic(0x1000))
	assert.Equal(t, uint8(2), table.LoadAtomic(0x2000))
}

func TestSameShadowIndexAliases(t *testing.T) {
	table := NewTable(testSpec())
	table.StoreAtomic(0x1000, 7)
	// 0x1000 and 0x1fff share a shadow index at LogMinObjSize == 12.
	assert.Equal(t, uint8(7), table.LoadAtomic(0x1fff))
}

func TestCompareAndSwap(t *testing.T) {
	table := NewTable(testSpec())
	table.StoreAtomic(0x1000, 1)
	assert.True(t, table.CompareAndSwap(0x1000, 1, 2))
	assert.Equal(t, uint8(2), table.LoadAtomic(0x1000))
	assert.False(t, table.CompareAndSwap(0x1000, 1, 3))
	assert.Equal(t, uint8(2), table.LoadAtomic(0x1000))
}

func TestLayoutAfter(t *testing.T) {
	prev := SideMetadataSpec{Offset: 0, LogNumOfBits: 3}
	next := LayoutAfter(prev, SideMetadataSpec{Name: "next", LogNumOfBits: 3})
	assert.Equal(t, uintptr(8), next.Offset)
}
