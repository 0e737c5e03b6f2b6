package svsfs

import (
	bitmap "github.com/boljen/go-bitmap"
)

// freeBitmap is the process-resident free-block bitmap: one bit per device
// block, reconstructed on every mount by walking the inode table and never
// persisted to disk. It's a thin domain wrapper around a third-party bitmap
// library, with the search range restricted to the data region.
type freeBitmap struct {
	bits          bitmap.Bitmap
	dataRegionLow uint32 // first block eligible to be "free", inclusive
	numBlocks     uint32
}

func newFreeBitmap(numBlocks, dataRegionLow uint32) *freeBitmap {
	return &freeBitmap{
		bits:          bitmap.New(int(numBlocks)),
		dataRegionLow: dataRegionLow,
		numBlocks:     numBlocks,
	}
}

func (b *freeBitmap) isFree(block uint32) bool {
	return !b.bits.Get(int(block))
}

func (b *freeBitmap) markUsed(block uint32) {
	b.bits.Set(int(block), true)
}

func (b *freeBitmap) markFree(block uint32) {
	b.bits.Set(int(block), false)
}

// findFree returns the lowest-indexed free block in [dataRegionLow,
// numBlocks), or (0, false) if none exists. It never returns a block in the
// reserved region (block 0 or an inode block).
func (b *freeBitmap) findFree() (uint32, bool) {
	for i := b.dataRegionLow; i < b.numBlocks; i++ {
		if b.isFree(i) {
			return i, true
		}
	}
	return 0, false
}
