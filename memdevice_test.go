package svsfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDevice_WriteReadRoundTrip(t *testing.T) {
	dev := NewMemoryDevice(10)
	want := fillBytes(BlockSize, 42)

	require.NoError(t, dev.WriteBlock(3, want))

	got := make([]byte, BlockSize)
	require.NoError(t, dev.ReadBlock(3, got))
	assert.Equal(t, want, got)
}

func TestMemoryDevice_RejectsOutOfRangeBlock(t *testing.T) {
	dev := NewMemoryDevice(10)
	buf := make([]byte, BlockSize)
	assert.Error(t, dev.ReadBlock(10, buf))
}

func TestMemoryDevice_RejectsWrongBufferSize(t *testing.T) {
	dev := NewMemoryDevice(10)
	assert.Error(t, dev.WriteBlock(0, make([]byte, 10)))
}

func TestMemoryDevice_StartsZeroed(t *testing.T) {
	dev := NewMemoryDevice(4)
	buf := make([]byte, BlockSize)
	require.NoError(t, dev.ReadBlock(1, buf))

	for _, b := range buf {
		require.Zero(t, b)
	}
}
