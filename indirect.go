package svsfs

import "encoding/binary"

// decodeIndirectBlock interprets a raw block as the indirect pointer array
// view: PointersPerBlock 32-bit block numbers, entry k holding the pointer
// for logical file block PointersPerInode+k.
func decodeIndirectBlock(buf []byte) [PointersPerBlock]uint32 {
	var pointers [PointersPerBlock]uint32
	for i := 0; i < PointersPerBlock; i++ {
		pointers[i] = binary.LittleEndian.Uint32(buf[i*4 : i*4+4])
	}
	return pointers
}

// encodeIndirectBlock packs a pointer array back into its raw block form.
func encodeIndirectBlock(pointers [PointersPerBlock]uint32) []byte {
	buf := make([]byte, BlockSize)
	for i, p := range pointers {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], p)
	}
	return buf
}
