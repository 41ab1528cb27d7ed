// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build linux && (amd64 || arm64)
// +build linux
// +build amd64 arm64

package main

import (
	"strconv"
	"time"

	"github.com/nxgtw/go-sysvipc"
	"github.com/nxgtw/go-sysvipc/mq"
	"github.com/nxgtw/go-sysvipc/sem"
	"github.com/nxgtw/go-sysvipc/shm"
)

type permView struct {
	Key  string `yaml:"key"`
	UID  uint32 `yaml:"uid"`
	GID  uint32 `yaml:"gid"`
	CUID uint32 `yaml:"cuid"`
	CGID uint32 `yaml:"cgid"`
	Mode string `yaml:"mode"`
}

func newPermView(p *ipc.Perm) permView {
	return permView{
		Key:  p.Key.String(),
		UID:  p.Uid,
		GID:  p.Gid,
		CUID: p.Cuid,
		CGID: p.Cgid,
		Mode: "0" + strconv.FormatUint(uint64(p.FileMode()), 8),
	}
}

type mqView struct {
	ID          int      `yaml:"id"`
	Perm        permView `yaml:"perm"`
	Messages    uint64   `yaml:"messages"`
	Bytes       uint64   `yaml:"bytes"`
	MaxBytes    uint64   `yaml:"max_bytes"`
	LastSendPid int32    `yaml:"last_send_pid"`
	LastRecvPid int32    `yaml:"last_recv_pid"`
	SendTime    string   `yaml:"send_time,omitempty"`
	RecvTime    string   `yaml:"recv_time,omitempty"`
	ChangeTime  string   `yaml:"change_time,omitempty"`
}

func newMqView(id int, ds *mq.MsqidDS) mqView {
	return mqView{
		ID:          id,
		Perm:        newPermView(&ds.Perm),
		Messages:    ds.Qnum,
		Bytes:       ds.Cbytes,
		MaxBytes:    ds.Qbytes,
		LastSendPid: ds.Lspid,
		LastRecvPid: ds.Lrpid,
		SendTime:    formatTime(ds.SendTime()),
		RecvTime:    formatTime(ds.ReceiveTime()),
		ChangeTime:  formatTime(ds.ChangeTime()),
	}
}

type semView struct {
	ID         int      `yaml:"id"`
	Perm       permView `yaml:"perm"`
	Count      uint64   `yaml:"count"`
	Values     []int    `yaml:"values,omitempty"`
	OpTime     string   `yaml:"op_time,omitempty"`
	ChangeTime string   `yaml:"change_time,omitempty"`
}

func newSemView(id int, ds *sem.SemidDS, values []int) semView {
	return semView{
		ID:         id,
		Perm:       newPermView(&ds.Perm),
		Count:      ds.Nsems,
		Values:     values,
		OpTime:     formatTime(ds.OperationTime()),
		ChangeTime: formatTime(ds.ChangeTime()),
	}
}

type shmView struct {
	ID         int      `yaml:"id"`
	Perm       permView `yaml:"perm"`
	Size       uint64   `yaml:"size"`
	Attached   uint64   `yaml:"attached"`
	Removed    bool     `yaml:"removed"`
	CreatorPid int32    `yaml:"creator_pid"`
	LastPid    int32    `yaml:"last_pid"`
	AttachTime string   `yaml:"attach_time,omitempty"`
	DetachTime string   `yaml:"detach_time,omitempty"`
	ChangeTime string   `yaml:"change_time,omitempty"`
}

func newShmView(id int, ds *shm.ShmidDS) shmView {
	return shmView{
		ID:         id,
		Perm:       newPermView(&ds.Perm),
		Size:       ds.Segsz,
		Attached:   ds.Nattch,
		Removed:    ds.Removed(),
		CreatorPid: ds.Cpid,
		LastPid:    ds.Lpid,
		AttachTime: formatTime(ds.AttachTime()),
		DetachTime: formatTime(ds.DetachTime()),
		ChangeTime: formatTime(ds.ChangeTime()),
	}
}

type messageView struct {
	Type int64  `yaml:"type"`
	Size int    `yaml:"size"`
	Data string `yaml:"data"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
