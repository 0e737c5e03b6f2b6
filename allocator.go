package svsfs

import "github.com/sirupsen/logrus"

// growInode extends n so it can hold at least wantBlocks logical file
// blocks, allocating new data blocks (and, if necessary, one indirect
// block) from fs.bitmap as needed. It fills direct[] first, then the indirect block's first
// zero-valued entries, stopping (a short allocation, never an error) the
// moment findFree runs out of space.
//
// It mutates n in place and writes the indirect block back to disk if it
// allocated into it. It returns the number of logical blocks n can now
// address, which may be less than wantBlocks if the device filled up.
func (fs *FileSystem) growInode(n *inode, wantBlocks uint32) uint32 {
	haveBlocks := uint32(0)

	for k := 0; k < PointersPerInode; k++ {
		if n.Direct[k] != 0 {
			haveBlocks++
			continue
		}
		if haveBlocks >= wantBlocks {
			return haveBlocks
		}
		block, ok := fs.bitmap.findFree()
		if !ok {
			logrus.Warn(ErrNoFreeBlocks)
			return haveBlocks
		}
		fs.bitmap.markUsed(block)
		n.Direct[k] = block
		haveBlocks++
	}

	if haveBlocks >= wantBlocks {
		return haveBlocks
	}

	var pointers [PointersPerBlock]uint32
	if n.Indirect == 0 {
		block, ok := fs.bitmap.findFree()
		if !ok {
			logrus.Warn(ErrNoFreeBlocks)
			return haveBlocks
		}
		fs.bitmap.markUsed(block)
		n.Indirect = block
		if ioErr := fs.device.WriteBlock(block, encodeIndirectBlock(pointers)); ioErr != nil {
			err := newFatalErrorWithCause("svsfs: write: failed to zero new indirect block", ioErr)
			logrus.Error(err)
			panic(err)
		}
	} else {
		buf := make([]byte, BlockSize)
		if ioErr := fs.device.ReadBlock(n.Indirect, buf); ioErr != nil {
			err := newFatalErrorWithCause("svsfs: write: failed to read indirect block", ioErr)
			logrus.Error(err)
			panic(err)
		}
		pointers = decodeIndirectBlock(buf)
	}

	changed := false
	for k := 0; k < PointersPerBlock; k++ {
		if pointers[k] != 0 {
			haveBlocks++
			continue
		}
		if haveBlocks >= wantBlocks {
			break
		}
		block, ok := fs.bitmap.findFree()
		if !ok {
			logrus.Warn(ErrNoFreeBlocks)
			break
		}
		fs.bitmap.markUsed(block)
		pointers[k] = block
		haveBlocks++
		changed = true
	}

	if changed {
		if ioErr := fs.device.WriteBlock(n.Indirect, encodeIndirectBlock(pointers)); ioErr != nil {
			err := newFatalErrorWithCause("svsfs: write: failed to write indirect block", ioErr)
			logrus.Error(err)
			panic(err)
		}
	}

	return haveBlocks
}
