// Copyright 2015 Aleksandr Demakin. All rights reserved.

//go:build linux && (amd64 || arm64)
// +build linux
// +build amd64 arm64

package mq

import (
	"os"
	"testing"

	"github.com/nxgtw/go-sysvipc"
	testutil "github.com/nxgtw/go-sysvipc/internal/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func newTestQueue(t *testing.T) *MessageQueue {
	mq, err := Get(ipc.Private, ipc.IpcCreat|0600)
	testutil.SkipIfUnsupported(t, err)
	require.NoError(t, err)
	t.Cleanup(func() { mq.Remove() })
	return mq
}

func TestSameKeySameQueue(t *testing.T) {
	a := assert.New(t)
	key := testutil.UniqueKey(t, "mq-same")
	first, err := Get(key, ipc.IpcCreat|ipc.IpcExcl|0600)
	if ipc.IsExist(err) {
		stale, _ := Get(key, 0)
		require.NoError(t, stale.Remove())
		first, err = Get(key, ipc.IpcCreat|ipc.IpcExcl|0600)
	}
	testutil.SkipIfUnsupported(t, err)
	require.NoError(t, err)
	defer first.Remove()

	second, err := Get(key, 0)
	require.NoError(t, err)
	a.Equal(first.ID(), second.ID())

	a.NoError(first.Send(3, []byte("visible"), 0))
	data, err := second.Receive(3, 7, ipc.IpcNoWait)
	a.NoError(err)
	a.Equal([]byte("visible"), data)

	_, err = Get(key, ipc.IpcCreat|ipc.IpcExcl|0600)
	a.True(ipc.IsExist(err))
}

func TestSendReceive(t *testing.T) {
	a := assert.New(t)
	mq := newTestQueue(t)
	payload := []byte{0, 1, 2, 3, 255}
	require.NoError(t, mq.Send(9, payload, 0))
	n, err := mq.Len()
	a.NoError(err)
	a.Equal(1, n)
	data, err := mq.Receive(9, len(payload), 0)
	a.NoError(err)
	a.Equal(payload, data)
}

func TestReceiveTruncation(t *testing.T) {
	a := assert.New(t)
	mq := newTestQueue(t)
	require.NoError(t, mq.Send(1, []byte("0123456789"), 0))

	_, err := mq.Receive(1, 4, ipc.IpcNoWait)
	a.True(ipc.SyscallErrHasCode(err, unix.E2BIG))
	n, err := mq.Len()
	a.NoError(err)
	a.Equal(1, n)

	data, err := mq.Receive(1, 4, ipc.IpcNoWait|MsgNoError)
	a.NoError(err)
	a.Equal([]byte("0123"), data)
}

func TestReceiveTypeSelection(t *testing.T) {
	a := assert.New(t)
	mq := newTestQueue(t)
	for _, typ := range []int64{5, 2, 8} {
		require.NoError(t, mq.Send(typ, []byte{byte(typ)}, 0))
	}
	msg, err := mq.ReceiveMessage(-4, 1, ipc.IpcNoWait)
	a.NoError(err)
	a.Equal(int64(2), msg.Type)

	msg, err = mq.ReceiveMessage(8, 1, ipc.IpcNoWait)
	a.NoError(err)
	a.Equal([]byte{8}, msg.Data)

	msg, err = mq.ReceiveMessage(AnyMessage, 1, ipc.IpcNoWait)
	a.NoError(err)
	a.Equal(int64(5), msg.Type)

	_, err = mq.Receive(AnyMessage, 1, ipc.IpcNoWait)
	a.True(ipc.IsWouldBlock(err))
}

func TestSendInvalidType(t *testing.T) {
	mq := newTestQueue(t)
	err := mq.Send(0, []byte{1}, ipc.IpcNoWait)
	assert.True(t, ipc.SyscallErrHasCode(err, unix.EINVAL))
}

func TestStatSetRoundTrip(t *testing.T) {
	a := assert.New(t)
	mq := newTestQueue(t)
	ds, err := mq.Stat()
	require.NoError(t, err)
	a.Equal(uint32(0600), ds.Perm.Mode&ipc.PermMask)
	a.Equal(uint64(0), ds.Qnum)
	a.True(ds.SendTime().IsZero())

	ds.Perm.SetFileMode(0640)
	ds.Qbytes = ds.Qbytes / 2
	require.NoError(t, mq.Set(ds))

	updated, err := mq.Stat()
	require.NoError(t, err)
	a.Equal(uint32(0640), updated.Perm.Mode&ipc.PermMask)
	a.Equal(ds.Qbytes, updated.Qbytes)
	a.Equal(ds.Perm.Cuid, updated.Perm.Cuid)
}

func TestRemovedQueueFails(t *testing.T) {
	a := assert.New(t)
	mq, err := Get(ipc.Private, ipc.IpcCreat|0600)
	testutil.SkipIfUnsupported(t, err)
	require.NoError(t, err)
	other := &MessageQueue{id: mq.ID(), kernel: ipc.DefaultKernel()}
	require.NoError(t, mq.Remove())

	_, err = other.Stat()
	a.True(ipc.IsRemoved(err))
	a.True(ipc.IsRemoved(other.Send(1, []byte{1}, ipc.IpcNoWait)))
	a.True(ipc.IsRemoved(mq.Remove()))
}

func TestOpenDestroyByName(t *testing.T) {
	a := assert.New(t)
	const name = "go-sysvipc-mq-named"
	Destroy(name)
	mq, err := Open(name, os.O_CREATE|os.O_EXCL, 0600)
	testutil.SkipIfUnsupported(t, err)
	require.NoError(t, err)
	same, err := Open(name, 0, 0)
	a.NoError(err)
	a.Equal(mq.ID(), same.ID())
	a.NoError(Destroy(name))
	_, err = mq.Stat()
	a.Error(err)
	a.NoError(Destroy(name))
}
