// Package vecstore persists equal-length float32 vectors and maps them back read-only.
//
// The file format consists of:
//   - Header (64 bytes): magic, version, lane width, vector count and length, data offset
//   - Padding up to the first page boundary
//   - Vector data: little-endian float32, each vector starting on a 32-byte boundary
//
// Because the mapping itself is page aligned, every view returned by Store.Vector is
// aligned for 8-lane loads.
package vecstore
