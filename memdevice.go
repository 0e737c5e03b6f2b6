package svsfs

import (
	"fmt"
	"io"

	"github.com/xaionaro-go/bytesextra"
)

// MemoryDevice is a reference BlockDevice backed entirely by a []byte,
// wrapped as an io.ReadWriteSeeker via bytesextra. It exists for tests and
// for callers that want a throwaway device without touching a real file.
type MemoryDevice struct {
	stream    io.ReadWriteSeeker
	numBlocks uint32
}

// NewMemoryDevice allocates a zeroed MemoryDevice of numBlocks blocks.
func NewMemoryDevice(numBlocks uint32) *MemoryDevice {
	buf := make([]byte, uint64(numBlocks)*BlockSize)
	return &MemoryDevice{
		stream:    bytesextra.NewReadWriteSeeker(buf),
		numBlocks: numBlocks,
	}
}

func (d *MemoryDevice) NumBlocks() uint32 {
	return d.numBlocks
}

func (d *MemoryDevice) ReadBlock(blockNo uint32, out []byte) error {
	if err := checkBlockIO(blockNo, d.numBlocks, out); err != nil {
		return err
	}
	if _, err := d.stream.Seek(int64(blockNo)*BlockSize, io.SeekStart); err != nil {
		return err
	}
	_, err := io.ReadFull(d.stream, out)
	return err
}

func (d *MemoryDevice) WriteBlock(blockNo uint32, in []byte) error {
	if err := checkBlockIO(blockNo, d.numBlocks, in); err != nil {
		return err
	}
	if _, err := d.stream.Seek(int64(blockNo)*BlockSize, io.SeekStart); err != nil {
		return err
	}
	_, err := d.stream.Write(in)
	return err
}

func checkBlockIO(blockNo uint32, numBlocks uint32, buf []byte) error {
	if blockNo >= numBlocks {
		return fmt.Errorf("block %d not in range [0, %d)", blockNo, numBlocks)
	}
	if len(buf) != BlockSize {
		return fmt.Errorf("buffer must be exactly %d bytes, got %d", BlockSize, len(buf))
	}
	return nil
}
