package vecstore

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/ic-timon/simbench/simd"
)

// Save writes vecs to path atomically (write to path+".tmp", then rename). All vectors
// must share one non-zero length.
func Save(path string, vecs ...[]float32) error {
	if len(vecs) == 0 || len(vecs[0]) == 0 {
		return ErrEmpty
	}
	length := len(vecs[0])
	for i, v := range vecs {
		if len(v) != length {
			return fmt.Errorf("%w: vector %d has %d elements, want %d", ErrLengthMismatch, i, len(v), length)
		}
	}
	h := &Header{
		Lanes:      simd.Lanes,
		Count:      uint32(len(vecs)),
		Length:     uint64(length),
		DataOffset: uint64(alignUp(HeaderSize, pageAlign)),
	}
	hdr, err := EncodeHeader(h)
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := writeFile(tmp, h, hdr, vecs); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	_ = os.Remove(path) // Rename on Windows needs the target gone
	return os.Rename(tmp, path)
}

func writeFile(path string, h *Header, hdr []byte, vecs [][]float32) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	if _, err := w.Write(hdr); err != nil {
		return err
	}
	if _, err := w.Write(make([]byte, int64(h.DataOffset)-int64(len(hdr)))); err != nil {
		return err
	}
	pad := make([]byte, h.Stride()-int64(h.Length)*4)
	for _, v := range vecs {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
		if _, err := w.Write(pad); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Sync()
}
