// Copyright 2015 Aleksandr Demakin. All rights reserved.

//go:build linux && (amd64 || arm64)
// +build linux
// +build amd64 arm64

package mq

import (
	"encoding/binary"
	"os"
	"testing"
	"unsafe"

	"github.com/nxgtw/go-sysvipc"
	"github.com/nxgtw/go-sysvipc/internal/allocator"
	testutil "github.com/nxgtw/go-sysvipc/internal/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func scriptedQueue(t *testing.T, k *testutil.ScriptedKernel) *MessageQueue {
	k.Return("msgget", ipc.Ok(5))
	mq, err := Get(ipc.Private, ipc.IpcCreat|0600, ipc.WithKernel(k))
	require.NoError(t, err)
	return mq
}

func TestGetFailure(t *testing.T) {
	a := assert.New(t)
	k := testutil.NewScriptedKernel().Return("msgget", ipc.Fail(unix.ENOENT))
	mq, err := Get(0x1234, 0, ipc.WithKernel(k))
	a.Nil(mq)
	a.True(ipc.IsNotExist(err))
	a.Equal([]interface{}{ipc.Key(0x1234), 0}, k.Calls()[0].Args)
}

func TestSendBuildsMessage(t *testing.T) {
	a := assert.New(t)
	k := testutil.NewScriptedKernel()
	mq := scriptedQueue(t, k)
	var typ int64
	var text []byte
	k.Handle("msgsnd", func(args ...interface{}) ipc.Result {
		a.Equal(5, args[0])
		size := args[2].(int)
		raw := allocator.ByteSliceFromAddress(uintptr(args[1].(unsafe.Pointer)), typeDataSize+size)
		typ = int64(binary.NativeEndian.Uint64(raw))
		text = append([]byte(nil), raw[typeDataSize:]...)
		a.Equal(ipc.IpcNoWait, args[3])
		return ipc.Ok(0)
	})
	a.NoError(mq.Send(7, []byte("hello"), ipc.IpcNoWait))
	a.Equal(int64(7), typ)
	a.Equal([]byte("hello"), text)
}

func TestSendFailure(t *testing.T) {
	k := testutil.NewScriptedKernel()
	mq := scriptedQueue(t, k)
	k.Return("msgsnd", ipc.Fail(unix.EAGAIN))
	err := mq.Send(1, []byte{1}, ipc.IpcNoWait)
	assert.True(t, ipc.IsWouldBlock(err))
}

func TestReceiveReturnsReceivedSize(t *testing.T) {
	a := assert.New(t)
	k := testutil.NewScriptedKernel()
	mq := scriptedQueue(t, k)
	k.Handle("msgrcv", func(args ...interface{}) ipc.Result {
		a.Equal(16, args[2])
		a.Equal(int64(-3), args[3])
		raw := allocator.ByteSliceFromAddress(uintptr(args[1].(unsafe.Pointer)), typeDataSize+16)
		binary.NativeEndian.PutUint64(raw, 2)
		copy(raw[typeDataSize:], "abc")
		return ipc.Ok(3)
	})
	msg, err := mq.ReceiveMessage(-3, 16, 0)
	a.NoError(err)
	a.Equal(int64(2), msg.Type)
	a.Equal([]byte("abc"), msg.Data)
}

func TestReceiveNegativeSize(t *testing.T) {
	k := testutil.NewScriptedKernel()
	mq := scriptedQueue(t, k)
	_, err := mq.Receive(0, -1, 0)
	assert.True(t, ipc.IsArgumentError(err))
	assert.Equal(t, []string{"msgget"}, k.Ops())
}

func TestSetNilControlBlock(t *testing.T) {
	k := testutil.NewScriptedKernel()
	mq := scriptedQueue(t, k)
	err := mq.Set(nil)
	assert.True(t, ipc.IsArgumentError(err))
	assert.Equal(t, []string{"msgget"}, k.Ops())
}

func TestControlCommands(t *testing.T) {
	a := assert.New(t)
	k := testutil.NewScriptedKernel()
	mq := scriptedQueue(t, k)
	var cmds []int
	k.Handle("msgctl", func(args ...interface{}) ipc.Result {
		cmds = append(cmds, args[1].(int))
		if args[1].(int) == ipc.IpcStat {
			ds := (*MsqidDS)(args[2].(unsafe.Pointer))
			ds.Qnum = 4
			ds.Perm.Mode = 0640
		}
		return ipc.Ok(0)
	})
	ds, err := mq.Stat()
	a.NoError(err)
	a.Equal(uint64(4), ds.Qnum)
	a.Equal(os.FileMode(0640), ds.Perm.FileMode())
	a.NoError(mq.Set(ds))
	n, err := mq.Len()
	a.NoError(err)
	a.Equal(4, n)
	a.NoError(mq.Remove())
	a.Equal([]int{ipc.IpcStat, ipc.IpcSet, ipc.IpcStat, ipc.IpcRmid}, cmds)
}

func TestMsqidDSLayout(t *testing.T) {
	assert.Equal(t, uintptr(120), unsafe.Sizeof(MsqidDS{}))
	assert.Equal(t, uintptr(48), unsafe.Sizeof(ipc.Perm{}))
}
