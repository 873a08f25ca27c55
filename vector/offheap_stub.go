//go:build !cgo

package vector

// allocOffheap returns nil when CGO is disabled, falling back to heap buffers.
func allocOffheap(n int) *Offheap {
	return nil
}
