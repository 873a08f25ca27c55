package vecstore

import (
	"fmt"
	"os"
	"unsafe"

	"github.com/edsrzf/mmap-go"
)

// Store is a read-only view of a vector file backed by mmap.
type Store struct {
	f      *os.File
	data   mmap.MMap
	header *Header
}

// OpenMmap maps the file at path and validates its header and size.
func OpenMmap(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	s := &Store{f: f, data: m}
	h, err := DecodeHeader(m)
	if err != nil {
		s.Close()
		return nil, err
	}
	if end := int64(h.DataOffset) + h.DataSize(); end > int64(len(m)) {
		s.Close()
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrTruncated, end, len(m))
	}
	if h.Count == 0 || h.Length == 0 {
		s.Close()
		return nil, ErrEmpty
	}
	s.header = h
	return s, nil
}

// Header returns the decoded file header.
func (s *Store) Header() Header {
	return *s.header
}

// Count returns the number of vectors.
func (s *Store) Count() int {
	return int(s.header.Count)
}

// Len returns the length shared by all vectors.
func (s *Store) Len() int {
	return int(s.header.Length)
}

// Vector returns a view of vector i, or nil when i is out of range. The slice is valid
// until Close and must not be modified.
func (s *Store) Vector(i int) []float32 {
	if s.data == nil || i < 0 || i >= s.Count() {
		return nil
	}
	off := int64(s.header.DataOffset) + int64(i)*s.header.Stride()
	return unsafe.Slice((*float32)(unsafe.Pointer(&s.data[off])), s.Len())
}

// Close unmaps the file and closes it.
func (s *Store) Close() error {
	if s.data != nil {
		if err := s.data.Unmap(); err != nil {
			return err
		}
		s.data = nil
	}
	if s.f != nil {
		err := s.f.Close()
		s.f = nil
		return err
	}
	return nil
}
