package svsfs

import (
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDriverError_UsesErrnoMessage(t *testing.T) {
	err := NewDriverError(syscall.ENOSPC)
	assert.Equal(t, syscall.ENOSPC.Error(), err.Error())
	assert.Equal(t, syscall.ENOSPC, err.Errno)
}

func TestNewDriverErrorWithMessage_AppendsDetail(t *testing.T) {
	err := NewDriverErrorWithMessage(syscall.EINVAL, "backing file too small")
	assert.Contains(t, err.Error(), syscall.EINVAL.Error())
	assert.Contains(t, err.Error(), "backing file too small")
}

func TestDriverError_RecoverableIsNotFatal(t *testing.T) {
	err := NewDriverError(syscall.ENOSPC)
	assert.False(t, err.Fatal())
}

func TestNewFatalError_IsFatal(t *testing.T) {
	err := newFatalError("svsfs: test invariant violation")
	assert.True(t, err.Fatal())
	assert.Equal(t, "svsfs: test invariant violation", err.Error())
}

func TestNewFatalErrorWithCause_IncludesCause(t *testing.T) {
	cause := syscall.EIO
	err := newFatalErrorWithCause("svsfs: failed to read block", cause)
	assert.True(t, err.Fatal())
	assert.Contains(t, err.Error(), "svsfs: failed to read block")
	assert.Contains(t, err.Error(), cause.Error())
}

func TestMapBlock_PanicsWithFatalDriverError(t *testing.T) {
	fs := newMountedFixture(t, 100)
	i, err := fs.Create()
	require.NoError(t, err)
	n, err := fs.loadInode(i)
	require.NoError(t, err)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		driverErr, ok := r.(*DriverError)
		require.True(t, ok, "panic value should be a *DriverError")
		assert.True(t, driverErr.Fatal())
	}()
	fs.mapBlock(n, maxLogicalBlock)
}
