// Copyright 2015 Aleksandr Demakin. All rights reserved.

package ipc_testing

import (
	"fmt"
	"os"
	"testing"

	"github.com/nxgtw/go-sysvipc"

	"golang.org/x/sys/unix"
)

// UniqueKey returns a key for a test object, which is unlikely to collide
// with objects of other tests or other processes. The key file is removed on test cleanup.
func UniqueKey(t testing.TB, name string) ipc.Key {
	keyName := fmt.Sprintf("go-sysvipc-%s-%d", name, os.Getpid())
	k, err := ipc.KeyForName(keyName, 'T')
	if err != nil {
		t.Fatalf("failed to generate a key: %v", err)
	}
	t.Cleanup(func() { ipc.RemoveKeyFile(keyName) })
	return k
}

// SkipIfUnsupported skips the test, if err shows, that the system does not
// provide System V IPC to this process.
func SkipIfUnsupported(t testing.TB, err error) {
	errno, ok := ipc.Errno(err)
	if !ok {
		return
	}
	switch errno {
	case unix.ENOSYS, unix.EPERM, unix.ENOSPC:
		t.Skipf("System V IPC is not available: %v", err)
	}
}
