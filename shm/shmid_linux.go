// Copyright 2015 Aleksandr Demakin. All rights reserved.

//go:build linux && (amd64 || arm64)
// +build linux
// +build amd64 arm64

package shm

import (
	"time"

	"github.com/nxgtw/go-sysvipc"
)

const shmDest = 01000

// ShmidDS is struct shmid64_ds.
type ShmidDS struct {
	Perm   ipc.Perm
	Segsz  uint64 // size of the segment in bytes
	Atime  int64  // last attach time
	Dtime  int64  // last detach time
	Ctime  int64  // last change time
	Cpid   int32  // pid of the creator
	Lpid   int32  // pid of the last shmat/shmdt
	Nattch uint64 // number of current attaches
	_      uint64
	_      uint64
}

// Removed returns true, if the object was marked for destruction,
// and will be destroyed after the last detach.
func (ds *ShmidDS) Removed() bool {
	return ds.Perm.Mode&shmDest != 0
}

// AttachTime returns the time of the last attach, or zero time if there was none.
func (ds *ShmidDS) AttachTime() time.Time {
	return unixTime(ds.Atime)
}

// DetachTime returns the time of the last detach, or zero time if there was none.
func (ds *ShmidDS) DetachTime() time.Time {
	return unixTime(ds.Dtime)
}

// ChangeTime returns the time of the last change.
func (ds *ShmidDS) ChangeTime() time.Time {
	return unixTime(ds.Ctime)
}

func unixTime(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0)
}
