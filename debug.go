package svsfs

import (
	"fmt"
	"io"
	"time"
)

// timestampLayout renders a creation time as "Www Mmm dd HH:MM:SS YYYY",
// local timezone.
const timestampLayout = "Mon Jan _2 15:04:05 2006"

// Debug writes a human-readable report of the superblock and every valid
// inode to w: size, creation time, nonzero direct blocks, and (if present)
// the indirect block and its nonzero pointers. It's read-only and requires
// only a valid superblock, not a live mount.
func (fs *FileSystem) Debug(w io.Writer) error {
	raw := make([]byte, BlockSize)
	if err := fs.device.ReadBlock(0, raw); err != nil {
		return err
	}
	sb := decodeSuperblock(raw)
	if sb.Magic != FSMagic {
		return ErrBadMagic
	}

	fmt.Fprintf(w, "%d blocks\n", sb.NumBlocks)
	fmt.Fprintf(w, "%d inode blocks\n", sb.NumInodeBlocks)
	fmt.Fprintf(w, "%d inodes\n", sb.NumInodes)

	for blockNo := uint32(1); blockNo <= sb.NumInodeBlocks; blockNo++ {
		buf := make([]byte, BlockSize)
		if err := fs.device.ReadBlock(blockNo, buf); err != nil {
			return err
		}
		slots := decodeInodeBlock(buf)

		for slot, n := range slots {
			if !n.Valid {
				continue
			}
			inumber := Inumber((blockNo-1)*InodesPerBlock + uint32(slot))
			fs.debugInode(w, inumber, n)
		}
	}

	return nil
}

func (fs *FileSystem) debugInode(w io.Writer, i Inumber, n inode) {
	fmt.Fprintf(w, "inode %d:\n", i)
	fmt.Fprintf(w, "    size: %d bytes\n", n.Size)
	fmt.Fprintf(w, "    created: %s\n", time.Unix(n.Ctime, 0).Local().Format(timestampLayout))

	var direct []uint32
	for _, d := range n.Direct {
		if d != 0 {
			direct = append(direct, d)
		}
	}
	fmt.Fprintf(w, "    direct blocks: %v\n", direct)

	if n.Indirect == 0 {
		return
	}
	fmt.Fprintf(w, "    indirect block: %d\n", n.Indirect)

	buf := make([]byte, BlockSize)
	if err := fs.device.ReadBlock(n.Indirect, buf); err != nil {
		fmt.Fprintf(w, "    indirect pointers: <read error: %v>\n", err)
		return
	}
	pointers := decodeIndirectBlock(buf)

	var indirect []uint32
	for _, p := range pointers {
		if p == 0 {
			break
		}
		indirect = append(indirect, p)
	}
	fmt.Fprintf(w, "    indirect pointers: %v\n", indirect)
}
