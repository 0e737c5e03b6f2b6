package svsfs

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Check walks the on-disk layout the same way Mount does, but instead of
// aborting on the first violation it collects every layout invariant (spec
// §3) it finds broken into one *multierror.Error and keeps going. It's the
// non-destructive, fsck-style supplement: Mount and the read path treat
// corruption as fatal, which is right for a live filesystem, but an
// offline consistency check should report everything it finds in one
// pass. Check does not require the handle to be mounted; it only needs a
// valid superblock.
func (fs *FileSystem) Check() error {
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

	var result *multierror.Error
	dataLow := sb.dataRegionStart()
	seenBy := make(map[uint32]Inumber)

	checkBlock := func(owner Inumber, block uint32) {
		if block < dataLow || block >= sb.NumBlocks {
			result = multierror.Append(result, fmt.Errorf(
				"inode %d: block %d is outside the data region [%d, %d)",
				owner, block, dataLow, sb.NumBlocks,
			))
			return
		}
		if prior, ok := seenBy[block]; ok {
			result = multierror.Append(result, fmt.Errorf(
				"block %d is reachable from both inode %d and inode %d",
				block, prior, owner,
			))
			return
		}
		seenBy[block] = owner
	}

	for blockNo := uint32(1); blockNo <= sb.NumInodeBlocks; blockNo++ {
		buf := make([]byte, BlockSize)
		if err := fs.device.ReadBlock(blockNo, buf); err != nil {
			result = multierror.Append(result, err)
			continue
		}
		slots := decodeInodeBlock(buf)

		for slot, n := range slots {
			if !n.Valid {
				continue
			}
			owner := Inumber((blockNo-1)*InodesPerBlock + uint32(slot))

			for _, d := range n.Direct {
				if d != 0 {
					checkBlock(owner, d)
				}
			}

			if n.Indirect == 0 {
				continue
			}
			checkBlock(owner, n.Indirect)

			ibuf := make([]byte, BlockSize)
			if err := fs.device.ReadBlock(n.Indirect, ibuf); err != nil {
				result = multierror.Append(result, err)
				continue
			}
			pointers := decodeIndirectBlock(ibuf)
			for _, p := range pointers {
				if p == 0 {
					break
				}
				checkBlock(owner, p)
			}
		}
	}

	return result.ErrorOrNil()
}
