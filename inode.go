package svsfs

import (
	"encoding/binary"
	"time"
)

// inodeSize is the packed on-disk size of one inode: isvalid(4) + size(4) +
// ctime(8) + direct[3](12) + indirect(4) = 32 bytes.
const inodeSize = 32

// Inumber identifies one inode. Valid inumbers are in [1, ninodes); 0 is
// reserved and never returned by Create.
type Inumber uint32

// inode is the in-memory decoding of one 32-byte packed inode slot.
type inode struct {
	Valid    bool
	Size     uint32
	Ctime    int64
	Direct   [PointersPerInode]uint32
	Indirect uint32
}

// encode packs the inode back into its 32-byte on-disk form.
func (n *inode) encode() []byte {
	buf := make([]byte, inodeSize)
	if n.Valid {
		binary.LittleEndian.PutUint32(buf[0:4], 1)
	}
	binary.LittleEndian.PutUint32(buf[4:8], n.Size)
	binary.LittleEndian.PutUint64(buf[8:16], uint64(n.Ctime))
	for k := 0; k < PointersPerInode; k++ {
		off := 16 + 4*k
		binary.LittleEndian.PutUint32(buf[off:off+4], n.Direct[k])
	}
	binary.LittleEndian.PutUint32(buf[28:32], n.Indirect)
	return buf
}

func decodeInode(buf []byte) inode {
	var n inode
	n.Valid = binary.LittleEndian.Uint32(buf[0:4]) != 0
	n.Size = binary.LittleEndian.Uint32(buf[4:8])
	n.Ctime = int64(binary.LittleEndian.Uint64(buf[8:16]))
	for k := 0; k < PointersPerInode; k++ {
		off := 16 + 4*k
		n.Direct[k] = binary.LittleEndian.Uint32(buf[off : off+4])
	}
	n.Indirect = binary.LittleEndian.Uint32(buf[28:32])
	return n
}

// inodeBlockAndSlot returns the disk block containing inumber's slot, and
// the slot's index within that block.
func inodeBlockAndSlot(i Inumber) (blockNo uint32, slot int) {
	return 1 + uint32(i)/InodesPerBlock, int(uint32(i) % InodesPerBlock)
}

// decodeInodeBlock splits one raw inode-table block into InodesPerBlock
// decoded inodes, the tagged "inode slot array" view of one block.
func decodeInodeBlock(buf []byte) [InodesPerBlock]inode {
	var slots [InodesPerBlock]inode
	for i := 0; i < InodesPerBlock; i++ {
		slots[i] = decodeInode(buf[i*inodeSize : (i+1)*inodeSize])
	}
	return slots
}

// encodeInodeBlock re-packs InodesPerBlock inodes into one raw block.
func encodeInodeBlock(slots [InodesPerBlock]inode) []byte {
	buf := make([]byte, BlockSize)
	for i, n := range slots {
		copy(buf[i*inodeSize:(i+1)*inodeSize], n.encode())
	}
	return buf
}

// Create claims the lowest free inode slot, initializes it, and returns its
// inumber. It fails with 0, ErrNotMounted if the handle isn't
// mounted, or 0, ErrNoFreeInode if the scan finds no free slot.
func (fs *FileSystem) Create() (Inumber, error) {
	if err := fs.requireMounted(); err != nil {
		return 0, err
	}

	for i := Inumber(1); uint32(i) < fs.sb.NumInodes; i++ {
		blockNo, slots, err := fs.readInodeBlock(i)
		if err != nil {
			return 0, err
		}
		_, slot := inodeBlockAndSlot(i)
		if slots[slot].Valid {
			continue
		}

		slots[slot] = inode{
			Valid: true,
			Ctime: time.Now().Unix(),
		}
		if err := fs.writeInodeBlock(blockNo, slots); err != nil {
			return 0, err
		}
		return i, nil
	}

	return 0, ErrNoFreeInode
}

// Delete frees every block reachable from inumber's inode (direct,
// indirect, and the indirect block itself) and zeroes the slot (spec
// §4.3). It fails if the handle isn't mounted, inumber is out of range, or
// the slot is already free.
func (fs *FileSystem) Delete(i Inumber) error {
	if err := fs.requireMounted(); err != nil {
		return err
	}
	if !fs.validInumber(i) {
		return ErrInvalidInumber
	}

	blockNo, slots, err := fs.readInodeBlock(i)
	if err != nil {
		return err
	}
	_, slot := inodeBlockAndSlot(i)
	n := slots[slot]
	if !n.Valid {
		return ErrInvalidInodeSlot
	}

	for k, d := range n.Direct {
		if d != 0 {
			fs.bitmap.markFree(d)
			n.Direct[k] = 0
		}
	}

	if n.Indirect != 0 {
		buf := make([]byte, BlockSize)
		if err := fs.device.ReadBlock(n.Indirect, buf); err != nil {
			return err
		}
		pointers := decodeIndirectBlock(buf)
		for _, p := range pointers {
			if p != 0 {
				fs.bitmap.markFree(p)
			}
		}
		fs.bitmap.markFree(n.Indirect)
		n.Indirect = 0
	}

	slots[slot] = inode{}
	return fs.writeInodeBlock(blockNo, slots)
}

// GetSize returns inumber's logical file size, or -1 if the handle isn't
// mounted or the inode is invalid.
func (fs *FileSystem) GetSize(i Inumber) (int64, error) {
	if err := fs.requireMounted(); err != nil {
		return -1, err
	}
	if !fs.validInumber(i) {
		return -1, ErrInvalidInumber
	}

	_, slots, err := fs.readInodeBlock(i)
	if err != nil {
		return -1, err
	}
	_, slot := inodeBlockAndSlot(i)
	if !slots[slot].Valid {
		return -1, ErrInvalidInodeSlot
	}
	return int64(slots[slot].Size), nil
}

// loadInode reads and decodes inumber's slot without modifying it.
func (fs *FileSystem) loadInode(i Inumber) (inode, error) {
	_, slots, err := fs.readInodeBlock(i)
	if err != nil {
		return inode{}, err
	}
	_, slot := inodeBlockAndSlot(i)
	return slots[slot], nil
}

// storeInode writes n back into inumber's slot.
func (fs *FileSystem) storeInode(i Inumber, n inode) error {
	blockNo, slots, err := fs.readInodeBlock(i)
	if err != nil {
		return err
	}
	_, slot := inodeBlockAndSlot(i)
	slots[slot] = n
	return fs.writeInodeBlock(blockNo, slots)
}
