package svsfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndirectBlockEncodeDecodeRoundTrip(t *testing.T) {
	var pointers [PointersPerBlock]uint32
	pointers[0] = 50
	pointers[1] = 51
	pointers[500] = 900

	decoded := decodeIndirectBlock(encodeIndirectBlock(pointers))
	assert.Equal(t, pointers, decoded)
}

func TestIndirectBlockEncode_FillsWholeBlock(t *testing.T) {
	var pointers [PointersPerBlock]uint32
	assert.Len(t, encodeIndirectBlock(pointers), BlockSize)
}
