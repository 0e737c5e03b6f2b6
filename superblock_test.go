package svsfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeGeometry_HundredBlocks(t *testing.T) {
	sb := computeGeometry(100)
	assert.EqualValues(t, 100, sb.NumBlocks)
	assert.EqualValues(t, 10, sb.NumInodeBlocks)
	assert.EqualValues(t, 1280, sb.NumInodes)
	assert.Equal(t, FSMagic, sb.Magic)
}

func TestComputeGeometry_RoundsUp(t *testing.T) {
	sb := computeGeometry(101)
	assert.EqualValues(t, 11, sb.NumInodeBlocks, "101 blocks should round up to 11 inode blocks")
}

func TestSuperblockEncodeDecodeRoundTrip(t *testing.T) {
	sb := computeGeometry(500)
	decoded := decodeSuperblock(sb.encode())
	require.Equal(t, sb, decoded)
}

func TestSuperblockEncodeFillsWholeBlock(t *testing.T) {
	sb := computeGeometry(40)
	buf := sb.encode()
	assert.Len(t, buf, BlockSize)
}

func TestDataRegionStart(t *testing.T) {
	sb := computeGeometry(100)
	assert.EqualValues(t, 11, sb.dataRegionStart())
}

func TestCeilDiv(t *testing.T) {
	assert.EqualValues(t, 10, ceilDiv(100, 10))
	assert.EqualValues(t, 11, ceilDiv(101, 10))
	assert.EqualValues(t, 1, ceilDiv(1, 10))
}
