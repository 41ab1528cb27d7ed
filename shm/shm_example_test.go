// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build linux && (amd64 || arm64)
// +build linux
// +build amd64 arm64

package shm_test

import (
	"fmt"

	"github.com/nxgtw/go-sysvipc"
	"github.com/nxgtw/go-sysvipc/shm"
)

func ExampleMemory() {
	mem, err := shm.Get(ipc.Private, 1024, ipc.IpcCreat|0600)
	if err != nil {
		panic(err)
	}
	defer mem.Remove()
	// the same object attached twice.
	rw, err := mem.Attach(0, 0)
	if err != nil {
		panic(err)
	}
	defer mem.Detach(rw)
	ro, err := mem.Attach(0, shm.ShmRdonly)
	if err != nil {
		panic(err)
	}
	defer mem.Detach(ro)
	if err = rw.Write([]byte("hello"), 128); err != nil {
		panic(err)
	}
	data, err := ro.Read(5, 128)
	if err != nil {
		panic(err)
	}
	fmt.Println(string(data))
}
