//go:build cgo

package vector

/*
#include <stdlib.h>
#include <string.h>

static void* aligned_zalloc(size_t alignment, size_t size) {
	// aligned_alloc requires size to be a multiple of alignment
	size_t rounded = (size + alignment - 1) / alignment * alignment;
	void* p = aligned_alloc(alignment, rounded);
	if (p != NULL) memset(p, 0, rounded);
	return p;
}
*/
import "C"

import "unsafe"

// allocOffheap allocates with C aligned_alloc (only exists in CGO builds).
func allocOffheap(n int) *Offheap {
	if n <= 0 {
		return nil
	}
	ptr := C.aligned_zalloc(C.size_t(Alignment), C.size_t(n*floatSize))
	if ptr == nil {
		return nil
	}
	return &Offheap{
		data: unsafe.Slice((*float32)(ptr), n),
		free: func() { C.free(ptr) },
	}
}
