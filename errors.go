package svsfs

import (
	"fmt"
	"syscall"
)

// errorTier tells apart the two kinds of failure an operation can produce:
// one a caller could have triggered by passing bad arguments, and one that
// only arises from on-disk corruption or a broken internal invariant.
// Recoverable conditions are handed back to the caller as a sentinel value;
// fatal ones abort the process, since there's no value a caller could do
// anything useful with.
type errorTier int

const (
	tierRecoverable errorTier = iota
	tierFatal
)

// DriverError wraps a POSIX errno code with a human-readable message and a
// tier marking whether the condition it describes is safe to hand back to
// a caller or only ever surfaces as a panic.
type DriverError struct {
	Errno   syscall.Errno
	Tier    errorTier
	message string
}

func (e *DriverError) Error() string {
	if e.message != "" {
		return e.message
	}
	return e.Errno.Error()
}

// Fatal reports whether e represents an on-disk corruption or
// invariant-violation condition rather than one a caller triggered.
func (e *DriverError) Fatal() bool {
	return e.Tier == tierFatal
}

// NewDriverError creates a recoverable DriverError with a message derived
// from the errno code alone.
func NewDriverError(errno syscall.Errno) *DriverError {
	return &DriverError{Errno: errno, Tier: tierRecoverable, message: errno.Error()}
}

// NewDriverErrorWithMessage creates a recoverable DriverError with a custom
// message appended to the errno's default description.
func NewDriverErrorWithMessage(errno syscall.Errno, message string) *DriverError {
	return &DriverError{
		Errno:   errno,
		Tier:    tierRecoverable,
		message: fmt.Sprintf("%s: %s", errno.Error(), message),
	}
}

// newFatalError builds the DriverError a corruption or invariant-violation
// panic carries, so a caller that recovers the panic can tell it apart from
// an ordinary runtime panic with errors.As, and can always read Fatal() as
// true on it.
func newFatalError(message string) *DriverError {
	return &DriverError{Errno: syscall.EUCLEAN, Tier: tierFatal, message: message}
}

// newFatalErrorWithCause is newFatalError with an underlying I/O failure
// folded into the message.
func newFatalErrorWithCause(message string, cause error) *DriverError {
	return &DriverError{
		Errno:   syscall.EUCLEAN,
		Tier:    tierFatal,
		message: fmt.Sprintf("%s: %v", message, cause),
	}
}

// Recoverable error kinds. Each is returned to the caller alongside the
// sentinel value the relevant operation specifies (0, -1, or a short count);
// none of these abort the process. The operations that return them do not
// log them; only ErrNoFreeBlocks appears in a log line (a logrus warning).
var (
	// ErrNotMounted: an operation requiring a mount was called before mount().
	ErrNotMounted = NewDriverError(syscall.EIO)
	// ErrAlreadyMounted: format() was called while a filesystem is mounted.
	ErrAlreadyMounted = NewDriverError(syscall.EALREADY)
	// ErrBadMagic: the superblock's magic number doesn't match FSMagic.
	ErrBadMagic = NewDriverError(syscall.EUCLEAN)
	// ErrEmptyFilesystem: the superblock reports zero blocks or zero inodes.
	ErrEmptyFilesystem = NewDriverError(syscall.EUCLEAN)
	// ErrNoFreeInode: create() found no free inode slot.
	ErrNoFreeInode = NewDriverError(syscall.ENOSPC)
	// ErrInvalidInumber: an inumber argument was out of range [1, ninodes).
	ErrInvalidInumber = NewDriverError(syscall.EINVAL)
	// ErrInvalidInodeSlot: the targeted inode slot is not allocated.
	ErrInvalidInodeSlot = NewDriverError(syscall.EINVAL)
	// ErrOffsetPastEnd: read() was called with offset > inode.Size.
	ErrOffsetPastEnd = NewDriverError(syscall.EINVAL)
	// ErrNoFreeBlocks annotates a short write; it is never returned as a
	// failure, only attached to the warning log line write() emits when the
	// allocator runs out of free blocks partway through.
	ErrNoFreeBlocks = NewDriverError(syscall.ENOSPC)
)
