package vecstore

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// HeaderSize is the fixed header size.
	HeaderSize = 64

	// Magic identifies a vector file.
	Magic = "SVEC"

	// FormatVersion is the current file format version.
	FormatVersion uint16 = 1

	// pageAlign is the alignment of the data section.
	pageAlign = 4096

	// vectorAlign is the alignment of every vector inside the data section.
	vectorAlign = 32
)

var (
	ErrHeaderTooShort     = errors.New("vecstore: header too short")
	ErrInvalidMagic       = errors.New("vecstore: invalid magic")
	ErrUnsupportedVersion = errors.New("vecstore: unsupported format version")
	ErrTruncated          = errors.New("vecstore: file truncated")
	ErrEmpty              = errors.New("vecstore: no vectors")
	ErrLengthMismatch     = errors.New("vecstore: vector length mismatch")
)

// Header holds the persisted metadata.
type Header struct {
	Magic      [4]byte
	Version    uint16
	Lanes      uint16
	Count      uint32
	_          uint32
	Length     uint64
	DataOffset uint64
	Reserved   [32]byte // pad to 64 bytes
}

func alignUp(x, align int64) int64 {
	if x%align == 0 {
		return x
	}
	return (x/align + 1) * align
}

// Stride returns the byte distance between two consecutive vectors.
func (h *Header) Stride() int64 {
	return alignUp(int64(h.Length)*4, vectorAlign)
}

// DataSize returns the size of the data section in bytes.
func (h *Header) DataSize() int64 {
	return int64(h.Count) * h.Stride()
}

// EncodeHeader writes the header to a HeaderSize byte slice, filling magic and version.
func EncodeHeader(h *Header) ([]byte, error) {
	if h == nil {
		return nil, errors.New("vecstore: header is nil")
	}
	copy(h.Magic[:], Magic)
	h.Version = FormatVersion
	var w bytes.Buffer
	if err := binary.Write(&w, binary.LittleEndian, h); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// DecodeHeader reads the header from src and validates magic and version.
func DecodeHeader(src []byte) (*Header, error) {
	if len(src) < HeaderSize {
		return nil, ErrHeaderTooShort
	}
	var h Header
	if err := binary.Read(bytes.NewReader(src[:HeaderSize]), binary.LittleEndian, &h); err != nil {
		return nil, err
	}
	if string(h.Magic[:]) != Magic {
		return nil, ErrInvalidMagic
	}
	if h.Version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}
	return &h, nil
}
