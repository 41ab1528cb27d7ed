// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build linux && (amd64 || arm64)
// +build linux
// +build amd64 arm64

package ipc

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestResultFailed(t *testing.T) {
	a := assert.New(t)
	a.False(Ok(0).Failed())
	a.False(Ok(42).Failed())
	a.True(Fail(unix.EINVAL).Failed())
	a.True(Result{Val: ^uintptr(0)}.Failed())
}

func TestCheck(t *testing.T) {
	a := assert.New(t)
	v, err := Check("semget", Ok(7))
	a.NoError(err)
	a.Equal(7, v)

	v, err = Check("semget", Fail(unix.EACCES))
	a.Equal(-1, v)
	if a.IsType(&os.SyscallError{}, err) {
		sysErr := err.(*os.SyscallError)
		a.Equal("semget", sysErr.Syscall)
		a.Equal(unix.EACCES, sysErr.Err)
	}
	errno, ok := Errno(err)
	a.True(ok)
	a.Equal(unix.EACCES, errno)
}

func TestCheckPtr(t *testing.T) {
	a := assert.New(t)
	addr, err := CheckPtr("shmat", Ok(0x7f0000001000))
	a.NoError(err)
	a.Equal(uintptr(0x7f0000001000), addr)
	addr, err = CheckPtr("shmat", Fail(unix.EINVAL))
	a.Zero(addr)
	a.True(SyscallErrHasCode(err, unix.EINVAL))
}

func TestApplyOptions(t *testing.T) {
	a := assert.New(t)
	a.Equal(DefaultKernel(), ApplyOptions(nil).Kernel)
	k := linuxKernel{}
	a.Equal(Kernel(k), ApplyOptions([]Option{WithKernel(k)}).Kernel)
}
