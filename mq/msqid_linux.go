// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build linux && (amd64 || arm64)
// +build linux
// +build amd64 arm64

package mq

import (
	"time"

	"github.com/nxgtw/go-sysvipc"
)

// MsqidDS is struct msqid64_ds.
type MsqidDS struct {
	Perm   ipc.Perm
	Stime  int64  // last msgsnd time
	Rtime  int64  // last msgrcv time
	Ctime  int64  // last change time
	Cbytes uint64 // bytes in the queue
	Qnum   uint64 // messages in the queue
	Qbytes uint64 // max bytes in the queue
	Lspid  int32  // pid of the last msgsnd
	Lrpid  int32  // pid of the last msgrcv
	_      uint64
	_      uint64
}

// SendTime returns the time of the last msgsnd, or zero time if there was none.
func (ds *MsqidDS) SendTime() time.Time {
	return unixTime(ds.Stime)
}

// ReceiveTime returns the time of the last msgrcv, or zero time if there was none.
func (ds *MsqidDS) ReceiveTime() time.Time {
	return unixTime(ds.Rtime)
}

// ChangeTime returns the time of the last change of the control block.
func (ds *MsqidDS) ChangeTime() time.Time {
	return unixTime(ds.Ctime)
}

func unixTime(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0)
}
