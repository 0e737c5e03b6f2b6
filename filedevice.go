package svsfs

import (
	"io"
	"os"
	"syscall"
)

// FileDevice is a reference BlockDevice backed by an *os.File, moving one
// fixed-size block at a time via ReadAt/WriteAt.
type FileDevice struct {
	file      *os.File
	numBlocks uint32
}

// OpenFileDevice opens an existing file as a BlockDevice of numBlocks
// blocks. The file must already be at least numBlocks*BlockSize bytes long.
func OpenFileDevice(path string, numBlocks uint32) (*FileDevice, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0o600)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.Size() < int64(numBlocks)*BlockSize {
		f.Close()
		return nil, NewDriverErrorWithMessage(
			syscall.EINVAL,
			"backing file is smaller than the declared block count",
		)
	}

	return &FileDevice{file: f, numBlocks: numBlocks}, nil
}

// CreateFileDevice creates a new file of exactly numBlocks*BlockSize bytes,
// zero-filled, and opens it as a BlockDevice.
func CreateFileDevice(path string, numBlocks uint32) (*FileDevice, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, err
	}
	if err := f.Truncate(int64(numBlocks) * BlockSize); err != nil {
		f.Close()
		return nil, err
	}
	return &FileDevice{file: f, numBlocks: numBlocks}, nil
}

func (d *FileDevice) NumBlocks() uint32 {
	return d.numBlocks
}

func (d *FileDevice) ReadBlock(blockNo uint32, out []byte) error {
	if err := checkBlockIO(blockNo, d.numBlocks, out); err != nil {
		return err
	}
	_, err := d.file.ReadAt(out, int64(blockNo)*BlockSize)
	return err
}

func (d *FileDevice) WriteBlock(blockNo uint32, in []byte) error {
	if err := checkBlockIO(blockNo, d.numBlocks, in); err != nil {
		return err
	}
	_, err := d.file.WriteAt(in, int64(blockNo)*BlockSize)
	return err
}

// Close flushes and closes the backing file.
func (d *FileDevice) Close() error {
	if err := d.file.Sync(); err != nil && err != io.EOF {
		return err
	}
	return d.file.Close()
}
