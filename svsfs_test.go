package svsfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMountedFixture(t *testing.T, numBlocks uint32) *FileSystem {
	t.Helper()
	dev := NewMemoryDevice(numBlocks)
	fs := New(dev)
	require.NoError(t, fs.Format())
	require.NoError(t, fs.Mount())
	return fs
}

func TestFormat_HundredBlockGeometry(t *testing.T) {
	dev := NewMemoryDevice(100)
	fs := New(dev)
	require.NoError(t, fs.Format())
	require.NoError(t, fs.Mount())

	assert.EqualValues(t, 100, fs.sb.NumBlocks)
	assert.EqualValues(t, 10, fs.sb.NumInodeBlocks)
	assert.EqualValues(t, 1280, fs.sb.NumInodes)
}

func TestFormat_RefusesWhileMounted(t *testing.T) {
	fs := newMountedFixture(t, 100)
	assert.ErrorIs(t, fs.Format(), ErrAlreadyMounted)
}

func TestFormat_IsIdempotentOnGeometry(t *testing.T) {
	dev := NewMemoryDevice(200)
	fs := New(dev)
	require.NoError(t, fs.Format())
	require.NoError(t, fs.Format())
	require.NoError(t, fs.Mount())
	assert.EqualValues(t, 200, fs.sb.NumBlocks)
}

func TestMount_RejectsBadMagic(t *testing.T) {
	dev := NewMemoryDevice(10)
	garbage := make([]byte, BlockSize)
	garbage[0] = 0xFF
	require.NoError(t, dev.WriteBlock(0, garbage))

	fs := New(dev)
	assert.ErrorIs(t, fs.Mount(), ErrBadMagic)
}

func TestMount_ReconstructsBitmapFromInodes(t *testing.T) {
	fs := newMountedFixture(t, 100)

	i, err := fs.Create()
	require.NoError(t, err)

	payload := make([]byte, 4096)
	for k := range payload {
		payload[k] = byte(k)
	}
	n, err := fs.Write(i, payload, uint32(len(payload)), 0)
	require.NoError(t, err)
	require.EqualValues(t, len(payload), n)

	// Remount on the same device: the bitmap is rebuilt from scratch, and a
	// write to a freshly created inode must not reuse any block still
	// reachable from i.
	fs2 := New(fs.device)
	require.NoError(t, fs2.Mount())

	j, err := fs2.Create()
	require.NoError(t, err)

	m, err := fs2.Write(j, payload, uint32(len(payload)), 0)
	require.NoError(t, err)
	require.EqualValues(t, len(payload), m)

	readBack := make([]byte, len(payload))
	got, err := fs2.Read(i, readBack, uint32(len(readBack)), 0)
	require.NoError(t, err)
	require.EqualValues(t, len(payload), got)
	assert.Equal(t, payload, readBack, "remount must not have clobbered i's data block")
}

func TestRequireMounted_RejectsOperationsBeforeMount(t *testing.T) {
	dev := NewMemoryDevice(10)
	fs := New(dev)

	_, err := fs.Create()
	assert.ErrorIs(t, err, ErrNotMounted)
}

func TestString_ReportsGeometry(t *testing.T) {
	fs := newMountedFixture(t, 100)
	s := fs.String()
	assert.Contains(t, s, "mounted=true")
	assert.Contains(t, s, "blocks=100")
}
