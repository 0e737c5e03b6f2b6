package svsfs

// BlockSize is the fixed number of bytes in every block on an SVSFS device.
// Every read or write against a BlockDevice moves exactly one block.
const BlockSize = 4096

// BlockDevice is fixed-size sector I/O against a known block count. SVSFS
// treats its implementation as an external concern; this interface is the
// boundary.
type BlockDevice interface {
	// NumBlocks returns the total number of addressable blocks on the
	// device.
	NumBlocks() uint32
	// ReadBlock fills out (which must be exactly BlockSize bytes) with the
	// contents of block blockNo.
	ReadBlock(blockNo uint32, out []byte) error
	// WriteBlock writes in (which must be exactly BlockSize bytes) to block
	// blockNo.
	WriteBlock(blockNo uint32, in []byte) error
}
