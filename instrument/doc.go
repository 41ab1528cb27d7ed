// Copyright 2016 Aleksandr Demakin. All rights reserved.

// Package instrument contains ipc.Kernel decorators, which observe system calls.
// Pass them to a handle with ipc.WithKernel:
//
//	k := instrument.NewMetrics(ipc.DefaultKernel(), prometheus.DefaultRegisterer)
//	q, err := mq.Get(key, ipc.IpcCreat|0600, ipc.WithKernel(k))
//
// Decorators may be stacked. They do not change results of the calls.
package instrument

import (
	"strconv"
	"syscall"

	"golang.org/x/sys/unix"
)

// ErrnoName returns the symbolic name of the error code, ex. "EAGAIN".
func ErrnoName(errno syscall.Errno) string {
	if name := unix.ErrnoName(errno); name != "" {
		return name
	}
	return strconv.Itoa(int(errno))
}
