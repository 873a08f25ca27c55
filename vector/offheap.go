package vector

// Offheap is a 32-byte aligned float32 buffer outside the Go heap when CGO is available,
// reducing GC pressure for very large benchmark vectors. Without CGO it is heap backed.
type Offheap struct {
	data []float32
	free func()
}

// NewOffheap allocates n zeroed float32. It falls back to Aligned when the off-heap
// allocation fails.
func NewOffheap(n int) *Offheap {
	if b := allocOffheap(n); b != nil {
		return b
	}
	return &Offheap{data: Aligned(n)}
}

// Data returns a slice view of the buffer. The view is invalid after Close.
func (b *Offheap) Data() []float32 {
	return b.data
}

// Len returns the number of float32 in the buffer.
func (b *Offheap) Len() int {
	return len(b.data)
}

// Close releases off-heap memory; a no-op for heap buffers.
func (b *Offheap) Close() {
	if b.free != nil {
		b.free()
		b.free = nil
	}
	b.data = nil
}
