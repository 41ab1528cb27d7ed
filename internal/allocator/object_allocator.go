// Copyright 2015 Aleksandr Demakin. All rights reserved.

// Package allocator contains helpers for memory, which is passed to system calls
// or is not managed by the go runtime at all.
package allocator

import (
	"runtime"
	"unsafe"
)

// ByteSliceData returns a pointer to the data of the given byte slice.
// It returns nil for an empty slice.
func ByteSliceData(slice []byte) unsafe.Pointer {
	if len(slice) == 0 {
		return nil
	}
	return unsafe.Pointer(unsafe.SliceData(slice))
}

// Uint16SliceData returns a pointer to the data of the given slice.
// It returns nil for an empty slice.
func Uint16SliceData(slice []uint16) unsafe.Pointer {
	if len(slice) == 0 {
		return nil
	}
	return unsafe.Pointer(unsafe.SliceData(slice))
}

// ByteSliceFromAddress returns a slice of bytes with given length over the memory at addr.
// The memory must not be managed by the go runtime, ex. it may be an attached shared memory segment.
func ByteSliceFromAddress(addr uintptr, length int) []byte {
	if addr == 0 || length <= 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), length)
}

// SliceAddress returns the address of the first byte of the slice.
func SliceAddress(slice []byte) uintptr {
	return uintptr(ByteSliceData(slice))
}

// Use keeps the object at ptr alive up to this point.
// Call it after a system call, which received ptr as uintptr.
func Use(ptr unsafe.Pointer) {
	runtime.KeepAlive(ptr)
}
