// Copyright 2016 Aleksandr Demakin. All rights reserved.

package ipc

import (
	"os"
	"syscall"
	"unsafe"
)

// Result is the outcome of one system call: the raw return value
// and the error code captured by the same call.
// The code is meaningful only when Failed returns true.
type Result struct {
	Val   uintptr
	Errno syscall.Errno
}

// Failed returns true, if the call returned the -1 sentinel.
func (r Result) Failed() bool {
	return r.Val == ^uintptr(0)
}

// Ok returns a successful Result with the given value.
func Ok(val uintptr) Result {
	return Result{Val: val}
}

// Fail returns a failed Result with the given error code.
func Fail(errno syscall.Errno) Result {
	return Result{Val: ^uintptr(0), Errno: errno}
}

// Check is the only place, where a Result is tested for failure.
// It returns the raw value as an int, or an *os.SyscallError carrying the error code.
func Check(op string, r Result) (int, error) {
	if r.Failed() {
		return -1, os.NewSyscallError(op, r.Errno)
	}
	return int(r.Val), nil
}

// CheckPtr is Check for calls, which return an address.
func CheckPtr(op string, r Result) (uintptr, error) {
	if r.Failed() {
		return 0, os.NewSyscallError(op, r.Errno)
	}
	return r.Val, nil
}

// Sembuf is one semop operation, laid out as struct sembuf.
type Sembuf struct {
	Num uint16
	Op  int16
	Flg int16
}

// Kernel is the set of System V IPC system calls.
// Each method makes exactly one call and reports its raw outcome.
// Pointer arguments must stay valid until the method returns.
type Kernel interface {
	Msgget(key Key, flags int) Result
	Msgctl(id, cmd int, buf unsafe.Pointer) Result
	Msgsnd(id int, msgp unsafe.Pointer, size int, flags int) Result
	Msgrcv(id int, msgp unsafe.Pointer, size int, typ int64, flags int) Result

	Semget(key Key, nsems, flags int) Result
	// Semctl passes buf as the semun argument, if it is not nil, and val otherwise.
	Semctl(id, num, cmd, val int, buf unsafe.Pointer) Result
	Semop(id int, ops []Sembuf) Result

	Shmget(key Key, size int, flags int) Result
	Shmctl(id, cmd int, buf unsafe.Pointer) Result
	Shmat(id int, addr uintptr, flags int) Result
	Shmdt(addr uintptr) Result
}

// Options are the settings shared by all handle constructors.
type Options struct {
	Kernel Kernel
}

// Option changes Options.
type Option func(*Options)

// WithKernel makes a handle issue its calls through k instead of DefaultKernel().
func WithKernel(k Kernel) Option {
	return func(o *Options) {
		o.Kernel = k
	}
}

// ApplyOptions builds Options from opts, filling in the defaults.
func ApplyOptions(opts []Option) Options {
	var result Options
	for _, opt := range opts {
		opt(&result)
	}
	if result.Kernel == nil {
		result.Kernel = DefaultKernel()
	}
	return result
}
