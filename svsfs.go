// Package svsfs implements SVSFS, a small Unix-style filesystem that stores
// a flat population of numbered inodes on a fixed-size block device. It has
// no directories, names, permissions, or hard links.
package svsfs

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// FileSystem is an explicit handle (device pointer, mounted flag, bitmap)
// owned by the caller and threaded through every operation instead of
// living in process globals. The mounted flag means "the bitmap and
// geometry below are populated".
type FileSystem struct {
	device  BlockDevice
	mounted bool
	sb      superblock
	bitmap  *freeBitmap
}

// New wraps device in an unmounted FileSystem handle. Call Format (on a
// fresh device) and then Mount, or just Mount an already-formatted device,
// before using any other operation.
func New(device BlockDevice) *FileSystem {
	return &FileSystem{device: device}
}

// Format writes a fresh SVSFS layout to the handle's device: a superblock at
// block 0 and a zeroed inode table over blocks 1..ninodeblocks. It fails if
// the handle is currently mounted. It does not implicitly mount, and it
// never touches data-region blocks.
func (fs *FileSystem) Format() error {
	if fs.mounted {
		return ErrAlreadyMounted
	}

	numBlocks := fs.device.NumBlocks()
	sb := computeGeometry(numBlocks)

	if err := fs.device.WriteBlock(0, sb.encode()); err != nil {
		return err
	}

	zeroInodeBlock := encodeInodeBlock([InodesPerBlock]inode{})
	for b := uint32(1); b <= sb.NumInodeBlocks; b++ {
		if err := fs.device.WriteBlock(b, zeroInodeBlock); err != nil {
			return err
		}
	}

	return nil
}

// Mount reads block 0, validates the superblock, and reconstructs the
// free-block bitmap by walking every valid inode. On success the handle
// accepts Create/Delete/GetSize/Read/Write until the process exits; there
// is no explicit Unmount: a caller that wants a clean handle just builds
// a new one.
func (fs *FileSystem) Mount() error {
	raw := make([]byte, BlockSize)
	if err := fs.device.ReadBlock(0, raw); err != nil {
		return err
	}
	sb := decodeSuperblock(raw)

	if sb.Magic != FSMagic {
		return ErrBadMagic
	}
	if sb.NumBlocks == 0 || sb.NumInodes == 0 {
		return ErrEmptyFilesystem
	}

	bm := newFreeBitmap(sb.NumBlocks, sb.dataRegionStart())
	// Block 0 and every inode block are permanently reserved.
	bm.markUsed(0)
	for b := uint32(1); b <= sb.NumInodeBlocks; b++ {
		bm.markUsed(b)
	}

	for blockNo := uint32(1); blockNo <= sb.NumInodeBlocks; blockNo++ {
		buf := make([]byte, BlockSize)
		if err := fs.device.ReadBlock(blockNo, buf); err != nil {
			return err
		}
		slots := decodeInodeBlock(buf)
		for _, n := range slots {
			if !n.Valid {
				continue
			}
			markInodeBlocksUsed(fs.device, bm, n)
		}
	}

	fs.sb = sb
	fs.bitmap = bm
	fs.mounted = true

	logrus.WithFields(logrus.Fields{
		"blocks":       sb.NumBlocks,
		"inode_blocks": sb.NumInodeBlocks,
		"inodes":       sb.NumInodes,
	}).Debug("svsfs: mounted")

	return nil
}

// markInodeBlocksUsed marks every block a valid inode reaches (direct and,
// transitively, indirect) as used in bm. It implements the mount-time scan
// of mount, including the "stops at the first zero pointer" rule for
// indirect blocks: pointers are always densely packed from index 0 in a
// live inode.
func markInodeBlocksUsed(device BlockDevice, bm *freeBitmap, n inode) {
	for _, blockNo := range n.Direct {
		if blockNo != 0 {
			bm.markUsed(blockNo)
		}
	}

	if n.Indirect == 0 {
		return
	}
	bm.markUsed(n.Indirect)

	buf := make([]byte, BlockSize)
	if ioErr := device.ReadBlock(n.Indirect, buf); ioErr != nil {
		err := newFatalErrorWithCause("svsfs: mount: failed to read indirect block", ioErr)
		logrus.Error(err)
		panic(err)
	}
	pointers := decodeIndirectBlock(buf)
	for _, p := range pointers {
		if p == 0 {
			break
		}
		bm.markUsed(p)
	}
}

func (fs *FileSystem) requireMounted() error {
	if !fs.mounted {
		return ErrNotMounted
	}
	return nil
}

// readInodeBlock reads the raw inode-table block containing inumber and
// decodes it into its InodesPerBlock slots.
func (fs *FileSystem) readInodeBlock(i Inumber) (blockNo uint32, slots [InodesPerBlock]inode, err error) {
	blockNo, _ = inodeBlockAndSlot(i)
	buf := make([]byte, BlockSize)
	if err = fs.device.ReadBlock(blockNo, buf); err != nil {
		return
	}
	slots = decodeInodeBlock(buf)
	return
}

// writeInodeBlock re-encodes slots and writes them back to blockNo. A
// single inode mutation is therefore exactly one block write, matching
// single block write keeps a partial failure from leaving the inode half-written.
func (fs *FileSystem) writeInodeBlock(blockNo uint32, slots [InodesPerBlock]inode) error {
	return fs.device.WriteBlock(blockNo, encodeInodeBlock(slots))
}

func (fs *FileSystem) validInumber(i Inumber) bool {
	return i >= 1 && uint32(i) < fs.sb.NumInodes
}

func (fs *FileSystem) String() string {
	return fmt.Sprintf(
		"FileSystem(mounted=%v, blocks=%d, inodes=%d)",
		fs.mounted, fs.sb.NumBlocks, fs.sb.NumInodes,
	)
}
