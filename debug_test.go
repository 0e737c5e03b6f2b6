package svsfs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebug_ReportsGeometryAndInodes(t *testing.T) {
	fs := newMountedFixture(t, 100)
	i, err := fs.Create()
	require.NoError(t, err)

	payload := fillBytes(BlockSize, 2)
	_, err = fs.Write(i, payload, uint32(len(payload)), 0)
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, fs.Debug(&sb))

	out := sb.String()
	assert.Contains(t, out, "100 blocks")
	assert.Contains(t, out, "10 inode blocks")
	assert.Contains(t, out, "1280 inodes")
	assert.Contains(t, out, "size: 4096 bytes")
}

func TestDebug_SkipsFreeSlots(t *testing.T) {
	fs := newMountedFixture(t, 100)

	var sb strings.Builder
	require.NoError(t, fs.Debug(&sb))
	assert.NotContains(t, sb.String(), "inode 0:")
}

func TestDebug_RejectsUnformattedDevice(t *testing.T) {
	fs := New(NewMemoryDevice(10))
	var sb strings.Builder
	assert.ErrorIs(t, fs.Debug(&sb), ErrBadMagic)
}
