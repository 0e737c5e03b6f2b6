package svsfs

import "github.com/sirupsen/logrus"

// maxLogicalBlock is one past the highest logical file-block index an inode
// can address: direct blocks 0..PointersPerInode-1, then indirect-referenced
// blocks PointersPerInode..PointersPerInode+PointersPerBlock-1.
const maxLogicalBlock = PointersPerInode + PointersPerBlock

// mapBlock maps inode n's logical file block fb to a physical block
// number. It is used by both Read and, after allocation, by Write. A fatal
// (process-aborting) condition here means on-disk corruption or a bug, not
// a legitimate-but-wrong caller, so it panics with a tiered *DriverError
// rather than returning one: a caller can't do anything useful with a
// corrupted filesystem, so there's no recoverable path to hand it back on.
func (fs *FileSystem) mapBlock(n inode, fb uint32) uint32 {
	if fb >= maxLogicalBlock {
		err := newFatalError("svsfs: logical block index out of range")
		logrus.WithField("fb", fb).Error(err)
		panic(err)
	}

	var physical uint32
	if fb < PointersPerInode {
		physical = n.Direct[fb]
	} else {
		buf := make([]byte, BlockSize)
		if ioErr := fs.device.ReadBlock(n.Indirect, buf); ioErr != nil {
			err := newFatalErrorWithCause("svsfs: failed to read indirect block", ioErr)
			logrus.Error(err)
			panic(err)
		}
		pointers := decodeIndirectBlock(buf)
		physical = pointers[fb-PointersPerInode]
	}

	if physical == 0 {
		err := newFatalError("svsfs: null block pointer within file extent")
		logrus.WithField("fb", fb).Error(err)
		panic(err)
	}
	if fs.bitmap.isFree(physical) {
		err := newFatalError("svsfs: block reachable from inode is marked free")
		logrus.WithField("block", physical).Error(err)
		panic(err)
	}
	return physical
}

// Read copies up to length bytes from inumber starting at offset into buf,
// clamping to the inode's current size. It returns the number
// of bytes actually copied, or 0 on any recoverable error. Reads never
// allocate blocks.
func (fs *FileSystem) Read(i Inumber, buf []byte, length uint32, offset uint32) (uint32, error) {
	if err := fs.requireMounted(); err != nil {
		return 0, err
	}
	if !fs.validInumber(i) {
		return 0, ErrInvalidInumber
	}

	n, err := fs.loadInode(i)
	if err != nil {
		return 0, err
	}
	if !n.Valid {
		return 0, ErrInvalidInodeSlot
	}
	if offset > n.Size {
		return 0, ErrOffsetPastEnd
	}

	remaining := length
	if remaining > n.Size-offset {
		remaining = n.Size - offset
	}
	if remaining > uint32(len(buf)) {
		remaining = uint32(len(buf))
	}

	var done uint32
	block := make([]byte, BlockSize)
	for done < remaining {
		fb := (offset + done) / BlockSize
		physical := fs.mapBlock(n, fb)
		if err := fs.device.ReadBlock(physical, block); err != nil {
			return done, err
		}

		intraOffset := (offset + done) % BlockSize
		span := BlockSize - intraOffset
		if span > remaining-done {
			span = remaining - done
		}

		copy(buf[done:done+span], block[intraOffset:intraOffset+span])
		done += span
	}

	return done, nil
}

// Write copies length bytes from buf into inumber starting at offset,
// allocating new data (and, if needed, indirect) blocks as the file grows
// If the allocator runs out of free blocks partway through,
// the write is short: it returns however many bytes it actually managed to
// place, which is never treated as a failure.
func (fs *FileSystem) Write(i Inumber, buf []byte, length uint32, offset uint32) (uint32, error) {
	if err := fs.requireMounted(); err != nil {
		return 0, err
	}
	if !fs.validInumber(i) {
		return 0, ErrInvalidInumber
	}
	if length > uint32(len(buf)) {
		length = uint32(len(buf))
	}

	n, err := fs.loadInode(i)
	if err != nil {
		return 0, err
	}
	if !n.Valid {
		return 0, ErrInvalidInodeSlot
	}

	newEnd := offset + length
	oldBlocks := ceilDiv(n.Size, BlockSize)
	wantBlocks := ceilDiv(newEnd, BlockSize)

	haveBlocks := oldBlocks
	if wantBlocks > oldBlocks {
		haveBlocks = fs.growInode(&n, wantBlocks)
	}

	// The allocator may have granted fewer blocks than requested; clamp the
	// copy to whatever was actually allocated. When the write stays within
	// the blocks the inode already had, nothing is allocated.
	maxAddressable := haveBlocks * BlockSize
	writeLimit := newEnd
	if writeLimit > maxAddressable {
		writeLimit = maxAddressable
	}

	var done uint32
	block := make([]byte, BlockSize)
	for offset+done < writeLimit {
		fb := (offset + done) / BlockSize
		intraOffset := (offset + done) % BlockSize
		span := BlockSize - intraOffset
		if span > writeLimit-(offset+done) {
			span = writeLimit - (offset + done)
		}

		physical := fs.mapBlock(n, fb)

		if span < BlockSize {
			if err := fs.device.ReadBlock(physical, block); err != nil {
				return done, err
			}
			copy(block[intraOffset:intraOffset+span], buf[done:done+span])
			if err := fs.device.WriteBlock(physical, block); err != nil {
				return done, err
			}
		} else {
			if err := fs.device.WriteBlock(physical, buf[done:done+span]); err != nil {
				return done, err
			}
		}

		done += span
	}

	newSize := offset + done
	if newSize > n.Size {
		n.Size = newSize
		if err := fs.storeInode(i, n); err != nil {
			return done, err
		}
	} else if wantBlocks > oldBlocks {
		// Size didn't grow past a prior high water mark, but allocation may
		// still have touched direct[]/indirect; persist the pointer change.
		if err := fs.storeInode(i, n); err != nil {
			return done, err
		}
	}

	if done < length {
		logrus.WithFields(logrus.Fields{
			"inumber":   i,
			"requested": length,
			"written":   done,
		}).Warn(ErrNoFreeBlocks)
	}

	return done, nil
}
