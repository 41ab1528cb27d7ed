// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build linux && arm64
// +build linux,arm64

package sem

import "github.com/nxgtw/go-sysvipc"

// SemidDS is struct semid64_ds.
type SemidDS struct {
	Perm  ipc.Perm
	Otime int64  // last semop time
	Ctime int64  // last change time
	Nsems uint64 // number of semaphores in the set
	_     uint64
	_     uint64
}
