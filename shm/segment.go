// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build linux && (amd64 || arm64)
// +build linux
// +build amd64 arm64

package shm

import (
	"io"

	"github.com/nxgtw/go-sysvipc"
)

var (
	_ io.ReaderAt = (*Segment)(nil)
	_ io.WriterAt = (*Segment)(nil)
)

// Segment is an attachment of a shared memory object.
// After Detach any access to the segment data returns io.EOF.
type Segment struct {
	kernel   ipc.Kernel
	addr     uintptr
	data     []byte
	readOnly bool
}

// Addr returns the address, at which the segment was attached.
func (s *Segment) Addr() uintptr {
	return s.addr
}

// Len returns the size of the segment, or 0, if it was detached.
func (s *Segment) Len() int {
	return len(s.data)
}

// Bytes returns the segment memory.
// The slice must not be used after Detach.
func (s *Segment) Bytes() []byte {
	return s.data
}

// Detach unmaps the segment.
// Detaching a segment twice is not prevented, the kernel reports the failure.
func (s *Segment) Detach() error {
	s.data = nil
	_, err := ipc.Check("shmdt", s.kernel.Shmdt(s.addr))
	return err
}

// ReadAt is to implement io.ReaderAt.
func (s *Segment) ReadAt(p []byte, off int64) (n int, err error) {
	if off < 0 {
		return 0, &ipc.ArgumentError{Op: "read", Reason: "negative offset"}
	}
	if off < int64(len(s.data)) {
		n = copy(p, s.data[off:])
	}
	if n < len(p) {
		err = io.EOF
	}
	return
}

// WriteAt is to implement io.WriterAt.
func (s *Segment) WriteAt(p []byte, off int64) (n int, err error) {
	if off < 0 {
		return 0, &ipc.ArgumentError{Op: "write", Reason: "negative offset"}
	}
	if s.readOnly {
		return 0, &ipc.ArgumentError{Op: "write", Reason: "segment is attached read-only"}
	}
	if off < int64(len(s.data)) {
		n = copy(s.data[off:], p)
	}
	if n < len(p) {
		err = io.EOF
	}
	return
}

// Write copies data into the segment at offset.
// If the data does not fit, the part that fits is written and io.EOF is returned.
func (s *Segment) Write(data []byte, offset int) error {
	_, err := s.WriteAt(data, int64(offset))
	return err
}

// Read copies length bytes of the segment at offset.
func (s *Segment) Read(length, offset int) ([]byte, error) {
	if length < 0 {
		return nil, &ipc.ArgumentError{Op: "read", Reason: "negative length"}
	}
	result := make([]byte, length)
	n, err := s.ReadAt(result, int64(offset))
	return result[:n], err
}
