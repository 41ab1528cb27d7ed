// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build linux && (amd64 || arm64)
// +build linux
// +build amd64 arm64

package ipc

import (
	"syscall"
	"unsafe"

	"github.com/nxgtw/go-sysvipc/internal/allocator"

	"golang.org/x/sys/unix"
)

var defaultKernel Kernel = linuxKernel{}

// DefaultKernel returns the Kernel, which makes real system calls.
func DefaultKernel() Kernel {
	return defaultKernel
}

type linuxKernel struct{}

// result builds a Result from what unix.Syscall returned.
// errno comes from the same call, so nothing can overwrite it in between.
func result(r1 uintptr, errno syscall.Errno) Result {
	if errno != 0 {
		return Fail(errno)
	}
	return Ok(r1)
}

func (linuxKernel) Msgget(key Key, flags int) Result {
	r1, _, err := unix.Syscall(unix.SYS_MSGGET, uintptr(key), uintptr(flags), 0)
	return result(r1, err)
}

func (linuxKernel) Msgctl(id, cmd int, buf unsafe.Pointer) Result {
	r1, _, err := unix.Syscall(unix.SYS_MSGCTL, uintptr(id), uintptr(cmd), uintptr(buf))
	allocator.Use(buf)
	return result(r1, err)
}

func (linuxKernel) Msgsnd(id int, msgp unsafe.Pointer, size int, flags int) Result {
	r1, _, err := unix.Syscall6(unix.SYS_MSGSND,
		uintptr(id),
		uintptr(msgp),
		uintptr(size),
		uintptr(flags),
		0,
		0)
	allocator.Use(msgp)
	return result(r1, err)
}

func (linuxKernel) Msgrcv(id int, msgp unsafe.Pointer, size int, typ int64, flags int) Result {
	r1, _, err := unix.Syscall6(unix.SYS_MSGRCV,
		uintptr(id),
		uintptr(msgp),
		uintptr(size),
		uintptr(typ),
		uintptr(flags),
		0)
	allocator.Use(msgp)
	return result(r1, err)
}

func (linuxKernel) Semget(key Key, nsems, flags int) Result {
	r1, _, err := unix.Syscall(unix.SYS_SEMGET, uintptr(key), uintptr(nsems), uintptr(flags))
	return result(r1, err)
}

func (linuxKernel) Semctl(id, num, cmd, val int, buf unsafe.Pointer) Result {
	if buf == nil {
		r1, _, err := unix.Syscall6(unix.SYS_SEMCTL, uintptr(id), uintptr(num), uintptr(cmd), uintptr(val), 0, 0)
		return result(r1, err)
	}
	r1, _, err := unix.Syscall6(unix.SYS_SEMCTL, uintptr(id), uintptr(num), uintptr(cmd), uintptr(buf), 0, 0)
	allocator.Use(buf)
	return result(r1, err)
}

func (linuxKernel) Semop(id int, ops []Sembuf) Result {
	var pOps unsafe.Pointer
	if len(ops) > 0 {
		pOps = unsafe.Pointer(&ops[0])
	}
	r1, _, err := unix.Syscall(unix.SYS_SEMOP, uintptr(id), uintptr(pOps), uintptr(len(ops)))
	allocator.Use(pOps)
	return result(r1, err)
}

func (linuxKernel) Shmget(key Key, size int, flags int) Result {
	r1, _, err := unix.Syscall(unix.SYS_SHMGET, uintptr(key), uintptr(size), uintptr(flags))
	return result(r1, err)
}

func (linuxKernel) Shmctl(id, cmd int, buf unsafe.Pointer) Result {
	r1, _, err := unix.Syscall(unix.SYS_SHMCTL, uintptr(id), uintptr(cmd), uintptr(buf))
	allocator.Use(buf)
	return result(r1, err)
}

func (linuxKernel) Shmat(id int, addr uintptr, flags int) Result {
	r1, _, err := unix.Syscall(unix.SYS_SHMAT, uintptr(id), addr, uintptr(flags))
	return result(r1, err)
}

func (linuxKernel) Shmdt(addr uintptr) Result {
	r1, _, err := unix.Syscall(unix.SYS_SHMDT, addr, 0, 0)
	return result(r1, err)
}
