package svsfs

import "encoding/binary"

// FSMagic identifies an SVSFS superblock.
const FSMagic uint32 = 0x34341023

// InodesPerBlock is the number of 32-byte inode slots packed into one disk
// block.
const InodesPerBlock = 128

// PointersPerInode is the number of direct block pointers stored in each
// inode.
const PointersPerInode = 3

// PointersPerBlock is the number of 32-bit block pointers packed into one
// indirect block.
const PointersPerBlock = 1024

// superblockSize is the on-disk encoded size of the four little-endian
// 32-bit superblock fields. The remainder of block 0 is unused.
const superblockSize = 16

// superblock mirrors the four fields stored at block 0.
type superblock struct {
	Magic          uint32
	NumBlocks      uint32
	NumInodeBlocks uint32
	NumInodes      uint32
}

// encode packs the superblock into a BlockSize-length buffer: block 0 as a
// tagged view. Every block codec in the package (here, inode.go and
// indirect.go) follows the same shape: a
// decoder and an encoder that assert the context (superblock, inode array,
// or indirect pointer array) at the call site rather than reinterpreting
// raw bytes implicitly.
func (sb *superblock) encode() []byte {
	buf := make([]byte, BlockSize)
	binary.LittleEndian.PutUint32(buf[0:4], sb.Magic)
	binary.LittleEndian.PutUint32(buf[4:8], sb.NumBlocks)
	binary.LittleEndian.PutUint32(buf[8:12], sb.NumInodeBlocks)
	binary.LittleEndian.PutUint32(buf[12:16], sb.NumInodes)
	return buf
}

func decodeSuperblock(buf []byte) superblock {
	return superblock{
		Magic:          binary.LittleEndian.Uint32(buf[0:4]),
		NumBlocks:      binary.LittleEndian.Uint32(buf[4:8]),
		NumInodeBlocks: binary.LittleEndian.Uint32(buf[8:12]),
		NumInodes:      binary.LittleEndian.Uint32(buf[12:16]),
	}
}

// ceilDiv computes ceil(a/b) for non-negative integers.
func ceilDiv(a, b uint32) uint32 {
	return (a + b - 1) / b
}

// computeGeometry derives ninodeblocks and ninodes from a raw block count,
// ninodeblocks = ceil(nblocks / 10), ninodes = ninodeblocks * INODES_PER_BLOCK.
func computeGeometry(numBlocks uint32) superblock {
	numInodeBlocks := ceilDiv(numBlocks, 10)
	return superblock{
		Magic:          FSMagic,
		NumBlocks:      numBlocks,
		NumInodeBlocks: numInodeBlocks,
		NumInodes:      numInodeBlocks * InodesPerBlock,
	}
}

// dataRegionStart returns the first block number past the superblock and
// inode table, i.e. the first block that may ever hold file data.
func (sb *superblock) dataRegionStart() uint32 {
	return 1 + sb.NumInodeBlocks
}

// maxFileSize is the maximum number of bytes a single inode can address:
// (POINTERS_PER_INODE + POINTERS_PER_BLOCK) * BlockSize.
const maxFileSize = (PointersPerInode + PointersPerBlock) * BlockSize
