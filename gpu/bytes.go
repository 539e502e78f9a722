package gpu

import "unsafe"

// AsByteSlice reinterprets a struct value as its raw bytes for buffer
// uploads. The value must not contain pointers.
func AsByteSlice[T any](value *T) []byte {
	var zeroT T

	n := unsafe.Sizeof(zeroT)
	ptr := (*byte)(unsafe.Pointer(value))

	return unsafe.Slice(ptr, n)
}

// SliceAsBytes reinterprets a slice of plain values as its raw bytes.
func SliceAsBytes[T any](values []T) []byte {
	if len(values) == 0 {
		return nil
	}

	var zeroT T

	n := uintptr(len(values)) * unsafe.Sizeof(zeroT)
	ptr := (*byte)(unsafe.Pointer(&values[0]))

	return unsafe.Slice(ptr, n)
}
