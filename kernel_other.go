// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build unix && !(linux && (amd64 || arm64))

package ipc

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// DefaultKernel returns a Kernel, which fails every call with ENOSYS,
// as the control block layouts are only defined for 64-bit linux.
func DefaultKernel() Kernel {
	return unsupportedKernel{}
}

type unsupportedKernel struct{}

func (unsupportedKernel) Msgget(Key, int) Result { return Fail(unix.ENOSYS) }
func (unsupportedKernel) Msgctl(int, int, unsafe.Pointer) Result { return Fail(unix.ENOSYS) }
func (unsupportedKernel) Msgsnd(int, unsafe.Pointer, int, int) Result { return Fail(unix.ENOSYS) }
func (unsupportedKernel) Msgrcv(int, unsafe.Pointer, int, int64, int) Result { return Fail(unix.ENOSYS) }
func (unsupportedKernel) Semget(Key, int, int) Result { return Fail(unix.ENOSYS) }
func (unsupportedKernel) Semctl(int, int, int, int, unsafe.Pointer) Result { return Fail(unix.ENOSYS) }
func (unsupportedKernel) Semop(int, []Sembuf) Result { return Fail(unix.ENOSYS) }
func (unsupportedKernel) Shmget(Key, int, int) Result { return Fail(unix.ENOSYS) }
func (unsupportedKernel) Shmctl(int, int, unsafe.Pointer) Result { return Fail(unix.ENOSYS) }
func (unsupportedKernel) Shmat(int, uintptr, int) Result { return Fail(unix.ENOSYS) }
func (unsupportedKernel) Shmdt(uintptr) Result { return Fail(unix.ENOSYS) }
