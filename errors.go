// Copyright 2016 Aleksandr Demakin. All rights reserved.

package ipc

import (
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// ArgumentError is returned when a caller-supplied argument violates
// a locally checkable precondition. No system call is made in that case.
type ArgumentError struct {
	Op     string
	Reason string
}

func (e *ArgumentError) Error() string {
	return e.Op + ": " + e.Reason
}

// IsArgumentError returns true, if err is an *ArgumentError.
func IsArgumentError(err error) bool {
	_, ok := err.(*ArgumentError)
	return ok
}

// Errno returns the error code of a failed system call.
func Errno(err error) (syscall.Errno, bool) {
	if sysErr, ok := err.(*os.SyscallError); ok {
		if errno, ok := sysErr.Err.(syscall.Errno); ok {
			return errno, true
		}
	}
	return 0, false
}

// SyscallErrHasCode returns true, if err is a system call failure with the given code.
func SyscallErrHasCode(err error, code syscall.Errno) bool {
	errno, ok := Errno(err)
	return ok && errno == code
}

// IsInterrupted returns true, if a blocking call was interrupted by a signal.
// Such a call may be repeated.
func IsInterrupted(err error) bool {
	return SyscallErrHasCode(err, unix.EINTR)
}

// IsWouldBlock returns true, if a call made with IpcNoWait failed because it would block.
// msgsnd and semop report EAGAIN, msgrcv reports ENOMSG.
func IsWouldBlock(err error) bool {
	return SyscallErrHasCode(err, unix.EAGAIN) || SyscallErrHasCode(err, unix.ENOMSG)
}

// IsRemoved returns true, if the object the call referred to does not exist (anymore).
func IsRemoved(err error) bool {
	return SyscallErrHasCode(err, unix.EIDRM) || SyscallErrHasCode(err, unix.EINVAL)
}

// IsNotExist returns true, if an acquire call failed because there is no object for the key.
func IsNotExist(err error) bool {
	return SyscallErrHasCode(err, unix.ENOENT)
}

// IsExist returns true, if an acquire call with IpcCreat|IpcExcl failed because the object exists.
func IsExist(err error) bool {
	return SyscallErrHasCode(err, unix.EEXIST)
}
